package service

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"roster-data/internal/domain"

	"github.com/xuri/excelize/v2"
)

// ErrInvalidSheet marks upload problems the caller provoked: unreadable file,
// missing header contract, or a sheet with no usable rows. The ingestion
// pipeline refuses to touch any collection when parsing fails.
var ErrInvalidSheet = errors.New("invalid roster sheet")

// dateFields are normalized to DD-MM-YYYY on parse.
var dateFields = map[domain.FieldName]bool{
	domain.FieldAgentLicenseDate:    true,
	domain.FieldAttorneyLicenseDate: true,
}

// ParseRosterSheet reads the first worksheet of an uploaded xlsx. The header
// row is matched by column name (order is irrelevant, unknown columns are
// ignored); rows without a Reg Code are skipped.
func ParseRosterSheet(r io.Reader) ([]*domain.Profile, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSheet, err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, fmt.Errorf("%w: workbook has no sheets", ErrInvalidSheet)
	}

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSheet, err)
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("%w: no data rows", ErrInvalidSheet)
	}

	// Header row: column name -> index, restricted to known columns.
	colIndex := map[domain.FieldName]int{}
	for i, h := range rows[0] {
		if field, ok := domain.FieldForColumn(h); ok {
			colIndex[field] = i
		}
	}
	if _, ok := colIndex[domain.FieldRegCode]; !ok {
		return nil, fmt.Errorf("%w: missing %q column", ErrInvalidSheet, domain.FieldRegCode.Column())
	}

	profiles := make([]*domain.Profile, 0, len(rows)-1)
	seen := map[string]bool{}
	for _, row := range rows[1:] {
		regCode := domain.CanonicalRegCode(cell(row, colIndex[domain.FieldRegCode]))
		if regCode == "" || seen[regCode] {
			continue
		}
		seen[regCode] = true

		p := &domain.Profile{RegCode: regCode}
		for _, field := range domain.DiffableFields {
			idx, ok := colIndex[field]
			if !ok {
				p.SetField(field, domain.NA)
				continue
			}
			v := strings.TrimSpace(cell(row, idx))
			if dateFields[field] {
				v = normalizeDate(v)
			} else if v == "" {
				v = domain.NA
			}
			p.SetField(field, v)
		}
		profiles = append(profiles, p)
	}

	if len(profiles) == 0 {
		return nil, fmt.Errorf("%w: no rows with a Reg Code", ErrInvalidSheet)
	}
	return profiles, nil
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}

// normalizeDate converts Excel serial dates and MM-DD-YYYY (or MM/DD/YYYY)
// strings to DD-MM-YYYY; anything else becomes "NA".
func normalizeDate(v string) string {
	if v == "" {
		return domain.NA
	}

	if serial, err := strconv.ParseFloat(v, 64); err == nil {
		t, err := excelize.ExcelDateToTime(serial, false)
		if err != nil {
			return domain.NA
		}
		return t.Format("02-01-2006")
	}

	for _, layout := range []string{"01-02-2006", "01/02/2006"} {
		if t, err := time.Parse(layout, v); err == nil {
			return t.Format("02-01-2006")
		}
	}
	return domain.NA
}
