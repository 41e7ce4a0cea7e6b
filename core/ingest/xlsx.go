package ingest

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/xuri/excelize/v2"

	"opsradar/core/incidents"
)

// excel serial day 0 is 1899-12-30 in the 1900 date system.
var excelEpoch = time.Date(1899, 12, 30, 0, 0, 0, 0, time.UTC)

// ReadXLSX loads the first sheet of an XLSX workbook. The first row is the
// header; every following non-empty row becomes one record. loadedAt feeds
// the Opened default for rows that carry no open timestamp.
func ReadXLSX(r io.Reader, loadedAt time.Time) ([]incidents.Incident, Summary, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, Summary{}, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, Summary{}, fmt.Errorf("workbook has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, Summary{}, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return []incidents.Incident{}, Summary{}, nil
	}

	setters := mapHeaders(rows[0])
	set := make([]incidents.Incident, 0, len(rows)-1)
	var summary Summary
	for _, row := range rows[1:] {
		in, ok := buildRecord(row, setters, loadedAt)
		if !ok {
			summary.Skipped++
			continue
		}
		decodeSerialDates(&in)
		set = append(set, in)
		summary.Rows++
	}
	return set, summary, nil
}

// decodeSerialDates rewrites timestamp cells that arrived as raw Excel
// serial numbers into RFC 3339. Cells that already parse, or that are not
// plain numbers, pass through verbatim; date policy lives downstream.
func decodeSerialDates(in *incidents.Incident) {
	in.Opened = serialToTimestamp(in.Opened)
	in.Updated = serialToTimestamp(in.Updated)
}

func serialToTimestamp(raw string) string {
	serial, err := strconv.ParseFloat(raw, 64)
	if err != nil || serial < 1 {
		return raw
	}
	days := int(serial)
	frac := serial - float64(days)
	t := excelEpoch.AddDate(0, 0, days).Add(time.Duration(frac * 24 * float64(time.Hour)).Round(time.Second))
	return t.Format(time.RFC3339)
}
