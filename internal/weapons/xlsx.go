package weapons

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

// ReadXLSX returns the first sheet of a workbook as a matrix.
func ReadXLSX(r io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open xlsx: %w", err)
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrEmptyDataset
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}
	return rows, nil
}

// IngestXLSX ingests the first sheet of a workbook.
func (s *Store) IngestXLSX(r io.Reader) error {
	matrix, err := ReadXLSX(r)
	if err != nil {
		return err
	}
	return s.IngestMatrix(matrix)
}
