package sheet

import (
	"fmt"
	"os"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/progbook/internal/extract"
	"github.com/progbook/internal/logger"
)

// HeaderFillColor is the solid fill applied to the header row.
const HeaderFillColor = "749BFF"

// Header texts for columns A-F, kept verbatim from the workbook consumers.
var headers = []string{
	"Name (incl, titles if any mentioned",
	"Affiliations",
	"Session name",
	"Persons Location",
	"Topic Title",
	"Presentation Abstract",
}

// Writer appends program records to an Excel workbook, one row per author.
type Writer struct {
	path string
}

// NewWriter creates a writer for the workbook at path. The file is created
// with headers on first append.
func NewWriter(path string) *Writer {
	return &Writer{path: path}
}

// Append writes one row per unique (session, author) pair to the workbook,
// creating it with headers if absent. Deduplication is scoped to this call:
// the seen-set is in-memory only and does not consult rows already in the
// sheet. Returns the number of rows appended.
//
// Append is a read-modify-write cycle on the workbook file and is not safe
// for concurrent use against the same path; callers serialize runs.
func (w *Writer) Append(records []*extract.Record) (int, error) {
	if _, err := os.Stat(w.path); os.IsNotExist(err) {
		if err := createWithHeaders(w.path); err != nil {
			return 0, err
		}
	}

	f, err := excelize.OpenFile(w.path)
	if err != nil {
		return 0, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(f.GetActiveSheetIndex())
	rows, err := f.GetRows(sheet)
	if err != nil {
		return 0, fmt.Errorf("failed to read sheet %s: %w", sheet, err)
	}
	nextRow := len(rows) + 1

	seen := make(map[string]struct{})
	appended := 0

	for _, rec := range records {
		// Whole-author-list short-circuit kept from the legacy workbook
		// exporter. The seen-set only ever holds (session, author) keys, so
		// this lookup cannot match; flagged to stakeholders, not fixed here.
		if rec.Session != "" {
			if _, ok := seen[seenKey(rec.Authors...)]; ok {
				continue
			}
		}

		for _, author := range rec.Authors {
			// Drop the first two characters of a ", Name" artifact; a bare
			// "," reduces to the empty name.
			if strings.HasPrefix(author, ",") {
				if len(author) >= 2 {
					author = author[2:]
				} else {
					author = ""
				}
			}
			key := seenKey(rec.Session, author)
			if _, ok := seen[key]; ok {
				logger.Debugf("skipping duplicate author %q in session %q", author, rec.Session)
				continue
			}
			seen[key] = struct{}{}

			if err := w.writeRow(f, sheet, nextRow, author, rec); err != nil {
				return appended, err
			}
			nextRow++
			appended++
		}
	}

	if err := f.Save(); err != nil {
		return appended, fmt.Errorf("failed to save workbook: %w", err)
	}
	return appended, nil
}

// writeRow fills one author row: name, joined affiliations, session, blank
// location, title, abstract.
func (w *Writer) writeRow(f *excelize.File, sheet string, row int, author string, rec *extract.Record) error {
	values := []string{
		author,
		strings.Join(rec.Affiliations, ", "),
		rec.Session,
		"",
		rec.Title,
		rec.Abstract,
	}
	for col, value := range values {
		cell, err := excelize.CoordinatesToCellName(col+1, row)
		if err != nil {
			return fmt.Errorf("failed to build cell name: %w", err)
		}
		if err := f.SetCellValue(sheet, cell, value); err != nil {
			return fmt.Errorf("failed to set cell %s: %w", cell, err)
		}
	}
	return nil
}

// StyleHeader applies the solid header fill to row 1, creating the workbook
// with headers first if it does not exist yet.
func (w *Writer) StyleHeader() error {
	if _, err := os.Stat(w.path); os.IsNotExist(err) {
		if err := createWithHeaders(w.path); err != nil {
			return err
		}
	}

	f, err := excelize.OpenFile(w.path)
	if err != nil {
		return fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(f.GetActiveSheetIndex())
	styleID, err := f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Color: []string{HeaderFillColor}, Pattern: 1},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	lastCell, err := excelize.CoordinatesToCellName(len(headers), 1)
	if err != nil {
		return fmt.Errorf("failed to build cell name: %w", err)
	}
	if err := f.SetCellStyle(sheet, "A1", lastCell, styleID); err != nil {
		return fmt.Errorf("failed to style header row: %w", err)
	}

	if err := f.Save(); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}

// createWithHeaders creates a fresh workbook whose first row is the fixed
// six headers.
func createWithHeaders(path string) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(f.GetActiveSheetIndex())
	for col, h := range headers {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return fmt.Errorf("failed to build cell name: %w", err)
		}
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return fmt.Errorf("failed to set header %s: %w", cell, err)
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to create workbook: %w", err)
	}
	return nil
}

// seenKey builds a dedupe key from its parts. Both the per-author
// (session, author) pairs and the legacy whole-author-list lookup share the
// same keyspace, mirroring the single set the exporter always used.
func seenKey(parts ...string) string {
	return strings.Join(parts, "\x1f")
}
