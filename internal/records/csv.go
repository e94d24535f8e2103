package records

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"

	"leavex-backend/lib/osutil"
)

// the collector artifact uses semicolons since group and party names
// routinely contain commas
const csvComma = ';'

// WriteCsv writes the collector artifact, replacing any prior version
// atomically.
func WriteCsv(path string, rows []RawRecord) error {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	w.Comma = csvComma

	err := w.Write(CsvHeader)
	if err != nil {
		return err
	}
	for _, r := range rows {
		err = w.Write(r.CsvRow())
		if err != nil {
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}

	return osutil.WriteFileAtomic(path, buf.Bytes())
}

// ReadCsv reads a collector artifact back into raw records.
func ReadCsv(path string) ([]RawRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.Comma = csvComma
	r.FieldsPerRecord = -1

	all, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if len(all) == 0 {
		return nil, fmt.Errorf("%s: missing header row", path)
	}
	if len(all[0]) == 0 || all[0][0] != CsvHeader[0] {
		return nil, fmt.Errorf("%s: unexpected header %v", path, all[0])
	}

	rows := make([]RawRecord, 0, len(all)-1)
	for _, row := range all[1:] {
		rows = append(rows, RawFromCsvRow(row))
	}
	return rows, nil
}
