package output

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/ukaji3/bomconv-go/pkg/bomconv/models"
)

// Header is the column header row of exported BOMs.
var Header = []string{"部品番号", "部品型番", "メーカー"}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// WriteCSV writes lines as CSV preceded by a UTF-8 byte order mark, which spreadsheet
// applications need to detect the encoding of the Japanese header.
func WriteCSV(w io.Writer, lines []models.BomLine) error {
	if _, err := w.Write(utf8BOM); err != nil {
		return fmt.Errorf("write bom: %w", err)
	}

	csvWriter := csv.NewWriter(w)
	if err := csvWriter.Write(Header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, line := range lines {
		if err := csvWriter.Write([]string{line.Ref, line.Part, line.Mfg}); err != nil {
			return fmt.Errorf("write line: %w", err)
		}
	}
	csvWriter.Flush()
	return csvWriter.Error()
}
