// Package output serializes conversion results as JSON, CSV and XLSX.
package output

import (
	"encoding/json"
)

// ToJSON serializes v to JSON. With pretty the output is indented by two spaces.
func ToJSON(v any, pretty bool) ([]byte, error) {
	if pretty {
		return json.MarshalIndent(v, "", "  ")
	}
	return json.Marshal(v)
}
