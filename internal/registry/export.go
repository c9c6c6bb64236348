package registry

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
)

// ExportHeader is the column order of the CSV snapshot.
var ExportHeader = []string{"統一編號", "公司商號名稱", "負責人", "電話", "地址", "電子郵件", "更新時間"}

// utf8BOM prefixes the snapshot so spreadsheet software opens the Chinese
// field values with the right encoding.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ExportCSV writes a BOM-prefixed CSV snapshot of the full table to w,
// ordered by most recent update first.
func (s *Store) ExportCSV(ctx context.Context, w io.Writer) error {
	records, err := s.ListAll(ctx, 0)
	if err != nil {
		return err
	}
	return WriteCSV(w, records)
}

// WriteCSV writes records as a BOM-prefixed CSV with the export header.
func WriteCSV(w io.Writer, records []Record) error {
	if _, err := w.Write(utf8BOM); err != nil {
		return fmt.Errorf("write bom: %w", err)
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(ExportHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, rec := range records {
		row := []string{rec.ID, rec.Name, rec.Owner, rec.Phone, rec.Address, rec.Email, rec.LastUpdated}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write row %s: %w", rec.ID, err)
		}
	}
	cw.Flush()
	return cw.Error()
}
