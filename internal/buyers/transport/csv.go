package transport

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

// ExportColumns is the fixed CSV column order shared by export and import.
var ExportColumns = []string{
	"fullName", "email", "phone", "city", "propertyType", "bhk", "purpose",
	"budgetMin", "budgetMax", "timeline", "source", "notes", "tags", "status",
	"updatedAt",
}

// ParseCSVRows reads a CSV document whose header row uses the same field
// names as the JSON row shape and returns one ImportRow per record. Columns
// outside the known set are ignored; every cell stays a raw string so the
// normal import pipeline performs all normalization and validation.
func ParseCSVRows(r io.Reader) ([]ImportRow, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		if i == 0 {
			name = strings.TrimPrefix(name, "\ufeff")
		}
		index[strings.TrimSpace(name)] = i
	}

	cell := func(record []string, field string) string {
		i, ok := index[field]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	var rows []ImportRow
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv row %d: %w", len(rows)+1, err)
		}

		rows = append(rows, ImportRow{
			FullName:     cell(record, "fullName"),
			Email:        cell(record, "email"),
			Phone:        cell(record, "phone"),
			City:         cell(record, "city"),
			PropertyType: cell(record, "propertyType"),
			BHK:          cell(record, "bhk"),
			Purpose:      cell(record, "purpose"),
			BudgetMin:    FlexNumber{Raw: cell(record, "budgetMin")},
			BudgetMax:    FlexNumber{Raw: cell(record, "budgetMax")},
			Timeline:     cell(record, "timeline"),
			Source:       cell(record, "source"),
			Notes:        cell(record, "notes"),
			Tags:         FlexTags{Raw: cell(record, "tags")},
			Status:       cell(record, "status"),
		})
	}

	return rows, nil
}
