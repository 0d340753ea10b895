// Package input reads batch address lists from the file formats analysts
// actually have them in: plain text, CSV, and XLSX.
package input

import (
	"bufio"
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
)

// addressHeaders are the column names recognized as the address column in
// CSV and XLSX files, checked case-insensitively.
var addressHeaders = []string{"address", "property", "location"}

// ReadAddresses loads the address list from path, dispatching on the file
// extension. Blank entries are dropped and surrounding whitespace trimmed;
// an empty resulting list is an error.
func ReadAddresses(path string) ([]string, error) {
	var (
		addresses []string
		err       error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		addresses, err = readCSV(path)
	case ".xlsx":
		addresses, err = readXLSX(path)
	case ".txt", "":
		addresses, err = readLines(path)
	default:
		return nil, eris.Errorf("input: unsupported address file type %q", filepath.Ext(path))
	}
	if err != nil {
		return nil, err
	}
	if len(addresses) == 0 {
		return nil, eris.Errorf("input: no addresses found in %s", path)
	}
	return addresses, nil
}

// readLines reads one address per line.
func readLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrap(err, "input: open address file")
	}
	defer f.Close() //nolint:errcheck

	var out []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if addr := strings.TrimSpace(scanner.Text()); addr != "" {
			out = append(out, addr)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, eris.Wrap(err, "input: read address file")
	}
	return out, nil
}

// readCSV reads the address column of a CSV file. A header row naming one
// of the recognized address columns selects that column; without one the
// first column is used and every row is data.
func readCSV(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrap(err, "input: open csv")
	}
	defer f.Close() //nolint:errcheck

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1 // allow variable fields

	var out []string
	col := -1
	first := true
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, eris.Wrap(err, "input: read csv")
		}
		if first {
			first = false
			if idx := addressColumn(record); idx >= 0 {
				col = idx
				continue // header row, not data
			}
			col = 0
		}
		if col >= len(record) {
			continue
		}
		if addr := strings.TrimSpace(record[col]); addr != "" {
			out = append(out, addr)
		}
	}
	return out, nil
}

// readXLSX reads the address column of the first sheet, with the same
// header handling as readCSV.
func readXLSX(path string) ([]string, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "input: open xlsx")
	}
	if len(f.Sheets) == 0 {
		return nil, eris.New("input: xlsx has no sheets")
	}

	var out []string
	col := -1
	for i, row := range f.Sheets[0].Rows {
		cells := make([]string, len(row.Cells))
		for j, c := range row.Cells {
			cells[j] = c.String()
		}
		if i == 0 {
			if idx := addressColumn(cells); idx >= 0 {
				col = idx
				continue
			}
			col = 0
		}
		if col >= len(cells) {
			continue
		}
		if addr := strings.TrimSpace(cells[col]); addr != "" {
			out = append(out, addr)
		}
	}
	return out, nil
}

// addressColumn returns the index of a recognized address header, or -1
// when the row does not look like a header.
func addressColumn(row []string) int {
	for i, cell := range row {
		name := strings.ToLower(strings.TrimSpace(cell))
		for _, h := range addressHeaders {
			if name == h {
				return i
			}
		}
	}
	return -1
}
