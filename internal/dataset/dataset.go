// Package dataset is the thin file collaborator of the resolution engine:
// it loads a CSV dataset, hands the engine an ordered set of unique
// compound names, and writes the dataset back with an appended SMILES
// column. The engine itself never touches files.
package dataset

import (
	"encoding/csv"
	"fmt"
	"os"
	"strings"
)

// SMILESColumn is the name of the column appended by Enrich.
const SMILESColumn = "CanonicalSMILES"

// Dataset is an in-memory CSV table with a designated compound-name column.
type Dataset struct {
	Header []string
	Rows   [][]string

	nameIdx int
}

// Load reads a CSV file and locates the compound column. Column matching
// is case-insensitive.
func Load(path, column string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open dataset: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1 // scraped exports are not always rectangular

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse dataset: %w", err)
	}

	if len(records) == 0 {
		return nil, fmt.Errorf("dataset is empty: %s", path)
	}

	header := records[0]
	idx := -1

	for i, col := range header {
		if strings.EqualFold(strings.TrimSpace(col), column) {
			idx = i
			break
		}
	}

	if idx < 0 {
		return nil, fmt.Errorf("column %q not found (available: %s)",
			column, strings.Join(header, ", "))
	}

	return &Dataset{
		Header:  header,
		Rows:    records[1:],
		nameIdx: idx,
	}, nil
}

// Names returns the unique non-empty compound names in first-seen order.
// Uniqueness is case-sensitive exact match, mirroring how results are
// joined back onto rows.
func (d *Dataset) Names() []string {
	var names []string

	seen := make(map[string]bool)

	for _, row := range d.Rows {
		if d.nameIdx >= len(row) {
			continue
		}

		name := strings.TrimSpace(row[d.nameIdx])
		if name == "" || seen[name] {
			continue
		}

		seen[name] = true

		names = append(names, name)
	}

	return names
}

// Enrich appends the SMILES column, joining resolved identifiers onto
// every row by exact name match. Rows sharing a name all receive the same
// value; rows with unresolved or empty names receive an empty cell.
func (d *Dataset) Enrich(resolved map[string]string) {
	d.Header = append(d.Header, SMILESColumn)

	for i, row := range d.Rows {
		value := ""

		if d.nameIdx < len(row) {
			value = resolved[strings.TrimSpace(row[d.nameIdx])]
		}

		d.Rows[i] = append(row, value)
	}
}

// Write saves the dataset to path.
func (d *Dataset) Write(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer f.Close()

	writer := csv.NewWriter(f)

	if err := writer.Write(d.Header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	if err := writer.WriteAll(d.Rows); err != nil {
		return fmt.Errorf("failed to write rows: %w", err)
	}

	writer.Flush()

	return writer.Error()
}

// DefaultOutputPath derives the enriched dataset path from the input path.
func DefaultOutputPath(input string) string {
	base := strings.TrimSuffix(input, ".csv")
	return base + "_smiles.csv"
}
