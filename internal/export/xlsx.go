package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

const sheetName = "Orcamento"

// WriteXLSX renders doc as a single-sheet workbook.
func WriteXLSX(w io.Writer, doc Document) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), sheetName); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	rows := [][]any{
		{doc.Title},
		{},
		{issueDateLabel, doc.IssueDate()},
		{validUntilLabel, doc.ValidityDate()},
		{},
		{customerHeading},
		{customerLabel, doc.Customer},
		{partLabel, doc.Part},
		{},
		{technicalHeading},
		{itemColumnLabel, detailColumnLabel},
	}
	for _, r := range doc.Summary {
		rows = append(rows, []any{r.Label, r.Value})
	}
	totalRow := len(rows) + 2
	rows = append(rows, []any{}, []any{totalHeading, doc.Total}, []any{})
	for _, line := range doc.Footer() {
		rows = append(rows, []any{line})
	}

	for i, values := range rows {
		if len(values) == 0 {
			continue
		}
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return fmt.Errorf("resolve cell: %w", err)
		}
		if err := f.SetSheetRow(sheetName, cell, &values); err != nil {
			return fmt.Errorf("write row %d: %w", i+1, err)
		}
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("create bold style: %w", err)
	}
	highlight, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 14, Color: "3F51B5"},
	})
	if err != nil {
		return fmt.Errorf("create highlight style: %w", err)
	}

	styled := []struct {
		from, to string
		style    int
	}{
		{"A1", "A1", highlight},
		{"A3", "A4", bold},
		{"A6", "A6", bold},
		{"A10", "B11", bold},
		{fmt.Sprintf("A%d", totalRow), fmt.Sprintf("B%d", totalRow), highlight},
	}
	for _, s := range styled {
		if err := f.SetCellStyle(sheetName, s.from, s.to, s.style); err != nil {
			return fmt.Errorf("style %s:%s: %w", s.from, s.to, err)
		}
	}

	if err := f.SetColWidth(sheetName, "A", "A", 34); err != nil {
		return fmt.Errorf("set column width: %w", err)
	}
	if err := f.SetColWidth(sheetName, "B", "B", 24); err != nil {
		return fmt.Errorf("set column width: %w", err)
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}
