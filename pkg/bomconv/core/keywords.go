// Package core implements the BOM extraction pipeline: header detection, reference
// tokenization, row reconciliation and aggregation. Everything here is a pure function of
// its inputs; no state survives a call.
package core

// Role is the semantic role of a header column.
type Role string

const (
	RoleRef  Role = "ref"
	RolePart Role = "part"
	RoleMfg  Role = "mfg"
)

// Roles lists roles in matching order. A column claimed by an earlier role is not
// available to later roles in the same row.
var Roles = []Role{RoleRef, RolePart, RoleMfg}

// HeaderKeywords maps each role to the header texts that identify it, in priority order.
// Matching ignores case and whitespace. Add a keyword here when a column is not recognized.
var HeaderKeywords = map[Role][]string{
	RoleRef: {
		"部品番号", "ref des", "ロケーション番号", "ref", "記号", "designator", "symbol",
		"リファレンス", "回路記号", "位置番号", "部品記号", "デバイス番号",
	},
	RolePart: {
		"part number", "メーカー品番", "型番", "型式", "形式", "型格", "定格", "part", "value",
		"品名", "description", "図番", "名称", "パート名", "識別符号",
	},
	RoleMfg: {
		"メーカー", "mfg", "maker", "manufacturer", "製造元", "製造者",
	},
}

// HeaderScanRows is the number of leading rows searched for the header.
const HeaderScanRows = 20

// ContinuationMarkers are cell values meaning "same as the row above".
var ContinuationMarkers = []string{"上↑", "↑", `"`}

// RefSeparators are the characters splitting a reference cell into tokens, in addition
// to whitespace.
const RefSeparators = ",、，.・·/"

// Parens are the parenthesis characters recognized in reference cells.
const Parens = "()（）"

// RangeDashes are the characters joining the two bounds of a reference range.
const RangeDashes = "-~～ー"

func isContinuation(s string) bool {
	for _, m := range ContinuationMarkers {
		if s == m {
			return true
		}
	}
	return false
}
