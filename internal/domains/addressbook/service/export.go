package service

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"

	"addressbook-backend/internal/domains/addressbook"
	"addressbook-backend/internal/shared/utils"
)

const exportSheetName = "Address Book"

var exportHeaders = []string{
	"Full Name",
	"Job Title",
	"Department",
	"Mobile Number",
	"Date of Birth",
	"Age",
	"Email",
	"Address",
	"Photo Url",
}

// Export renders every entry into an xlsx workbook.
func (s *entryService) Export(ctx context.Context, baseURL string) ([]byte, error) {
	entries, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list entries: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := s.fillWorkbook(f, entries, strings.TrimRight(baseURL, "/")); err != nil {
		return nil, fmt.Errorf("failed to build excel file: %w", err)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write excel file: %w", err)
	}
	return buf.Bytes(), nil
}

// fillWorkbook writes the header and one row per entry into f's default sheet.
func (s *entryService) fillWorkbook(f *excelize.File, entries []addressbook.Entry, baseURL string) error {
	if err := f.SetSheetName("Sheet1", exportSheetName); err != nil {
		return err
	}

	widths := make([]int, len(exportHeaders))

	setRow := func(rowNum int, values []interface{}) error {
		cell, err := excelize.CoordinatesToCellName(1, rowNum)
		if err != nil {
			return err
		}
		for i, v := range values {
			if n := utf8.RuneCountInString(fmt.Sprint(v)); n > widths[i] {
				widths[i] = n
			}
		}
		return f.SetSheetRow(exportSheetName, cell, &values)
	}

	// Row 1: Header
	header := make([]interface{}, len(exportHeaders))
	for i, h := range exportHeaders {
		header[i] = h
	}
	if err := setRow(1, header); err != nil {
		return err
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
	})
	if err != nil {
		return err
	}
	lastHeader, _ := excelize.CoordinatesToCellName(len(exportHeaders), 1)
	if err := f.SetCellStyle(exportSheetName, "A1", lastHeader, headerStyle); err != nil {
		return err
	}

	// Data rows start at row 2
	for i := range entries {
		e := &entries[i]

		jobTitle, departmentName, address, photo := "", "", "", ""
		if e.Job != nil {
			jobTitle = e.Job.Title
		}
		if e.Department != nil {
			departmentName = e.Department.Name
		}
		if e.Address != nil {
			address = *e.Address
		}
		if e.HasPhoto() {
			photo = baseURL + s.photoURL(e)
		}

		if err := setRow(i+2, []interface{}{
			e.FullName,
			jobTitle,
			departmentName,
			e.MobileNumber,
			e.DateOfBirth.Format(utils.DateLayout),
			e.Age,
			e.Email,
			address,
			photo,
		}); err != nil {
			return err
		}
	}

	// excelize has no AutoFit; size each column to its longest value.
	for i, w := range widths {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(exportSheetName, col, col, columnWidth(w)); err != nil {
			return err
		}
	}

	return nil
}

func columnWidth(runes int) float64 {
	w := float64(runes) + 2
	switch {
	case w < 8:
		return 8
	case w > 80:
		return 80
	default:
		return w
	}
}
