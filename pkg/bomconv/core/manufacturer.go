package core

import "strings"

// manufacturerPrefixes maps part-number prefixes to manufacturers, checked in order.
var manufacturerPrefixes = []struct {
	prefixes []string
	name     string
}{
	{[]string{"GRM", "GCM", "BLM"}, "Murata"},
	{[]string{"CGA"}, "TDK"},
	{[]string{"MCR"}, "Rohm"},
	{[]string{"CC"}, "Yageo"},
}

// manufacturerNames maps substrings of a part text to manufacturers, checked in order.
var manufacturerNames = []struct {
	needle string
	name   string
}{
	{"murata", "Murata"},
	{"tdk", "TDK"},
	{"rohm", "Rohm"},
	{"yageo", "Yageo"},
	{"kyocera", "Kyocera"},
}

// InferManufacturer guesses the manufacturer of a part number. It returns "" when the
// part is not recognized.
func InferManufacturer(part string) string {
	upper := strings.ToUpper(part)
	for _, m := range manufacturerPrefixes {
		for _, p := range m.prefixes {
			if strings.HasPrefix(upper, p) {
				return m.name
			}
		}
	}

	lower := strings.ToLower(part)
	for _, m := range manufacturerNames {
		if strings.Contains(lower, m.needle) {
			return m.name
		}
	}
	return ""
}
