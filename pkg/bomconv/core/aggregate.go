package core

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ukaji3/bomconv-go/pkg/bomconv/models"
)

// RefJoin separates references in an aggregated BOM line.
const RefJoin = ", "

type partKey struct {
	part string
	mfg  string
}

func (k partKey) label() string {
	if k.mfg == "" {
		return k.part
	}
	return k.part + " (" + k.mfg + ")"
}

type group struct {
	key  partKey
	refs map[string]struct{}
}

// Aggregate groups entries by part identity (part number and manufacturer). Groups keep
// the order in which they first appear; references inside a group are deduplicated and
// sorted naturally. A reference claimed by more than one identity yields a duplicate
// warning.
func Aggregate(entries []models.Entry) ([]models.BomLine, []models.Warning) {
	var (
		groups []*group
		byKey  = make(map[partKey]*group)
		claims = make(map[string]map[partKey]struct{})
	)

	for _, e := range entries {
		key := partKey{part: e.Part, mfg: e.Mfg}
		g, ok := byKey[key]
		if !ok {
			g = &group{key: key, refs: make(map[string]struct{})}
			byKey[key] = g
			groups = append(groups, g)
		}
		if e.Ref == "" {
			continue
		}
		g.refs[e.Ref] = struct{}{}

		if claims[e.Ref] == nil {
			claims[e.Ref] = make(map[partKey]struct{})
		}
		claims[e.Ref][key] = struct{}{}
	}

	lines := make([]models.BomLine, 0, len(groups))
	for _, g := range groups {
		lines = append(lines, models.BomLine{
			Ref:  strings.Join(SortRefs(setKeys(g.refs)), RefJoin),
			Part: g.key.part,
			Mfg:  g.key.mfg,
		})
	}

	return lines, duplicateWarnings(claims)
}

func duplicateWarnings(claims map[string]map[partKey]struct{}) []models.Warning {
	var refs []string
	for ref, keys := range claims {
		if len(keys) > 1 {
			refs = append(refs, ref)
		}
	}
	SortRefs(refs)

	warnings := make([]models.Warning, 0, len(refs))
	for _, ref := range refs {
		labels := make([]string, 0, len(claims[ref]))
		for k := range claims[ref] {
			labels = append(labels, k.label())
		}
		sort.Strings(labels)
		warnings = append(warnings, models.Warning{
			Kind: models.WarningDuplicate,
			Message: fmt.Sprintf("重複/duplicate: reference %q is assigned to multiple part numbers: [%s]",
				ref, strings.Join(labels, ", ")),
		})
	}
	return warnings
}

// SplitRefs splits the Ref field of an aggregated line back into references.
func SplitRefs(joined string) []string {
	var refs []string
	for _, r := range strings.Split(joined, ",") {
		if r = strings.TrimSpace(r); r != "" {
			refs = append(refs, r)
		}
	}
	return refs
}
