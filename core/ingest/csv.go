package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"opsradar/core/incidents"
)

// ReadCSV loads a comma-separated export with the same header mapping as
// the XLSX path. Rows with a deviant field count are still processed with
// the cells they have.
func ReadCSV(r io.Reader, loadedAt time.Time) ([]incidents.Incident, Summary, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if err == io.EOF {
		return []incidents.Incident{}, Summary{}, nil
	}
	if err != nil {
		return nil, Summary{}, fmt.Errorf("read header: %w", err)
	}
	setters := mapHeaders(header)

	var (
		set     []incidents.Incident
		summary Summary
	)
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				summary.Skipped++
				continue
			}
			return nil, summary, fmt.Errorf("read row: %w", err)
		}
		in, ok := buildRecord(row, setters, loadedAt)
		if !ok {
			summary.Skipped++
			continue
		}
		set = append(set, in)
		summary.Rows++
	}
	if set == nil {
		set = []incidents.Incident{}
	}
	return set, summary, nil
}

// Read dispatches on the file extension. XLSX and CSV are the formats the
// upload endpoint accepts.
func Read(filename string, r io.Reader, loadedAt time.Time) ([]incidents.Incident, Summary, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xlsx":
		return ReadXLSX(r, loadedAt)
	case ".csv":
		return ReadCSV(r, loadedAt)
	default:
		return nil, Summary{}, fmt.Errorf("unsupported file type %q", filepath.Ext(filename))
	}
}
