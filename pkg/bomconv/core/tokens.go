package core

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/width"
)

// MaxRangeSpan bounds the number of references a single range token may expand to.
// Wider ranges are kept as literal tokens.
const MaxRangeSpan = 10000

var (
	// ")(" with or without blanks between
	closeOpenRe = regexp.MustCompile(`([）)])\s*([（(])`)
	// ")R1"
	closeRefRe = regexp.MustCompile(`(?i)([）)])\s*([A-Z]+[0-9]+)`)
	// "R1("
	refOpenRe = regexp.MustCompile(`(?i)([A-Z]+[0-9]+)\s*([（(])`)

	prefixRe  = regexp.MustCompile(`(?i)^[A-Z]+`)
	refRe     = regexp.MustCompile(`(?i)^[A-Z]+[0-9]+$`)
	refFindRe = regexp.MustCompile(`(?i)[A-Z]+[0-9]+`)
	rangeRe   = regexp.MustCompile(`(?i)^([A-Z]+)(\d+)\s*[` + charClass(RangeDashes) + `]\s*([A-Z]*)(\d+)$`)

	parenReplacer = strings.NewReplacer(parenPairs()...)
)

func charClass(chars string) string {
	var b strings.Builder
	for _, r := range chars {
		switch r {
		case '-', ']', '\\', '^':
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

func parenPairs() []string {
	var pairs []string
	for _, r := range Parens {
		pairs = append(pairs, string(r), " ")
	}
	return pairs
}

// StripParens replaces every parenthesis with a blank and trims the result.
func StripParens(s string) string {
	return strings.TrimSpace(parenReplacer.Replace(s))
}

// NormalizeRef returns the comparison form of a reference: parens removed, upper case.
func NormalizeRef(ref string) string {
	return strings.ToUpper(StripParens(ref))
}

// IsReference reports whether s is a bare designator such as "R1" or "LED12".
func IsReference(s string) bool {
	return refRe.MatchString(s)
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

func isSeparator(r rune) bool {
	return unicode.IsSpace(r) || strings.ContainsRune(RefSeparators, r)
}

// foldWidth folds full-width characters to their ASCII forms. With keepParens the
// parentheses are left as written.
func foldWidth(text string, keepParens bool) string {
	if !keepParens {
		return width.Fold.String(text)
	}
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		if strings.ContainsRune(Parens, r) {
			b.WriteRune(r)
			continue
		}
		b.WriteString(width.Fold.String(string(r)))
	}
	return b.String()
}

// splitRefTokens performs paren handling, delimiter insertion and splitting.
func splitRefTokens(text string, keepParens bool) []string {
	text = foldWidth(text, keepParens)
	if !keepParens {
		text = parenReplacer.Replace(text)
	}
	text = closeOpenRe.ReplaceAllString(text, "${1} ${2}")
	text = closeRefRe.ReplaceAllString(text, "${1} ${2}")
	text = refOpenRe.ReplaceAllString(text, "${1} ${2}")
	return strings.FieldsFunc(text, isSeparator)
}

// ExpandRefs expands the text of a reference cell into individual designators.
//
// Bare numbers inherit the most recent letter prefix ("R1, 2" gives R1 R2), ranges with a
// shared prefix expand inclusively ("C1-C3" gives C1 C2 C3) and tokens that are neither a
// range nor a designator are dropped. Ranges with different prefixes stay literal. With
// keepParens, parentheses around single designators are preserved in the output.
func ExpandRefs(text string, keepParens bool) []string {
	var (
		out        []string
		lastPrefix string
	)

	for _, tok := range splitRefTokens(text, keepParens) {
		bare := tok
		if keepParens {
			bare = StripParens(tok)
		}
		if bare == "" {
			continue
		}

		if p := prefixRe.FindString(bare); p != "" {
			lastPrefix = p
		}

		current := tok
		if isDigits(bare) && lastPrefix != "" {
			full := lastPrefix + bare
			current = strings.Replace(tok, bare, full, 1)
			bare = full
		}

		if m := rangeRe.FindStringSubmatch(bare); m != nil {
			if refs, ok := expandRange(m[1], m[2], m[3], m[4]); ok {
				out = append(out, refs...)
				lastPrefix = m[1]
			} else {
				out = append(out, current)
			}
			continue
		}

		if IsReference(bare) {
			out = append(out, current)
		}
	}

	return out
}

func expandRange(prefix, from, prefix2, to string) ([]string, bool) {
	if prefix2 == "" {
		prefix2 = prefix
	}
	if !strings.EqualFold(prefix, prefix2) {
		return nil, false
	}

	start, err := strconv.Atoi(from)
	if err != nil {
		return nil, false
	}
	end, err := strconv.Atoi(to)
	if err != nil {
		return nil, false
	}
	if start > end {
		start, end = end, start
	}
	if end-start >= MaxRangeSpan {
		return nil, false
	}

	refs := make([]string, 0, end-start+1)
	for i := start; i <= end; i++ {
		refs = append(refs, prefix+strconv.Itoa(i))
	}
	return refs, true
}

// ReferencesIn returns the normalized references found in free text, such as the struck
// runs of a rich-text cell. It combines range expansion with a plain scan for designators
// so that "R1R2" and "R1-3" are both covered.
func ReferencesIn(text string) []string {
	seen := make(map[string]struct{})
	var out []string
	add := func(ref string) {
		n := NormalizeRef(ref)
		if n == "" {
			return
		}
		if _, ok := seen[n]; ok {
			return
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}

	for _, ref := range ExpandRefs(text, false) {
		add(ref)
	}
	for _, ref := range refFindRe.FindAllString(width.Fold.String(text), -1) {
		add(ref)
	}
	return out
}
