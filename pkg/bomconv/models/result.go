package models

// Entry is one (reference × part line) pair emitted by the row extractor.
// Ref or Part is empty for a shape-mismatched row.
type Entry struct {
	Ref  string `json:"ref"`
	Part string `json:"part"`
	Mfg  string `json:"mfg"`
}

// BomLine is one aggregated BOM line.
type BomLine struct {
	// Ref is the comma-joined, naturally sorted reference list.
	Ref string `json:"ref"`
	// Part is the part number shared by the group.
	Part string `json:"part"`
	// Mfg is the manufacturer shared by the group.
	Mfg string `json:"mfg"`
}

// SourceResult is the per-source (or combined) payload.
type SourceResult struct {
	// Data holds the aggregated BOM lines.
	Data []BomLine `json:"data,omitempty"`
	// Warnings holds rendered warning messages.
	Warnings []string `json:"warnings,omitempty"`
	// Error is set when the source could not be processed.
	Error string `json:"error,omitempty"`
}

// Report is the complete result of converting one uploaded file.
type Report struct {
	// ID identifies the conversion in logs.
	ID string `json:"id,omitempty"`
	// FileName is the uploaded file name (no path).
	FileName string `json:"file_name"`
	// Combined merges every successfully processed source.
	Combined SourceResult `json:"combined"`
	// Individual maps source name to its own result. Single-grid formats leave it empty.
	Individual map[string]SourceResult `json:"individual"`
	// WarningCounts counts the combined warnings by kind.
	WarningCounts map[WarningKind]int `json:"-"`
}
