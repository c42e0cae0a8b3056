package models

// Source is one grid handed from an adapter to the pipeline: a worksheet, or a whole
// delimited-text or PDF file.
type Source struct {
	// Name is the sheet name, or the file name for single-grid formats.
	Name string `json:"name"`
	// Grid holds the cell values.
	Grid Grid `json:"-"`
	// Cancelled holds upper-cased references the adapter found struck-through.
	Cancelled map[string]struct{} `json:"-"`
}

// SheetInfo summarizes a source for sheet pickers.
type SheetInfo struct {
	// Name is the sheet name.
	Name string `json:"name"`
	// Range is the used cell range (e.g., "A1:D42"), empty for sheets without data.
	Range string `json:"range,omitempty"`
	// Rows is the number of non-empty rows.
	Rows int `json:"rows"`
}
