package importer

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ErrUnsupportedFormat is returned for file extensions the importer does
// not understand.
var ErrUnsupportedFormat = errors.New("invalid file format")

// DecodeTable turns raw upload bytes into a grid of string cells, chosen
// by file extension: .csv/.tsv are parsed as delimited text (tab if the
// first line contains one, else comma), .xls/.xlsx through excelize.
func DecodeTable(data []byte, filename string) ([][]string, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv", ".tsv":
		return decodeDelimited(data)
	case ".xls", ".xlsx":
		return decodeSpreadsheet(data)
	default:
		return nil, ErrUnsupportedFormat
	}
}

func decodeDelimited(data []byte) ([][]string, error) {
	text := string(data)
	firstLine, _, _ := strings.Cut(text, "\n")

	r := csv.NewReader(strings.NewReader(text))
	r.Comma = ','
	if strings.Contains(firstLine, "\t") {
		r.Comma = '\t'
	}
	// Rows have varying widths and footers are free text.
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse delimited file: %w", err)
	}
	return rows, nil
}

func decodeSpreadsheet(data []byte) ([][]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to open spreadsheet: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.New("spreadsheet has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheets[0], err)
	}
	return rows, nil
}
