package weapons

import (
	"encoding/csv"
	"fmt"
	"strings"
)

// DetectDelimiter picks tab when the first line has more tabs than commas.
func DetectDelimiter(text string) rune {
	first := text
	if i := strings.IndexByte(text, '\n'); i >= 0 {
		first = text[:i]
	}
	first = strings.TrimSuffix(first, "\r")
	if strings.Count(first, "\t") > strings.Count(first, ",") {
		return '\t'
	}
	return ','
}

// ParseDelimited reads CSV or TSV text into a matrix. Quoted fields may span lines
// and rows may be ragged.
func ParseDelimited(text string, delim rune) ([][]string, error) {
	r := csv.NewReader(strings.NewReader(text))
	r.Comma = delim
	// Sheets export stray quotes inside cells (e.g. 6" barrels); allow them.
	r.LazyQuotes = true
	r.FieldsPerRecord = -1
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse delimited: %w", err)
	}
	return rows, nil
}

// IngestText parses CSV/TSV text and ingests it.
func (s *Store) IngestText(text string) error {
	matrix, err := ParseDelimited(text, DetectDelimiter(text))
	if err != nil {
		return err
	}
	return s.IngestMatrix(matrix)
}
