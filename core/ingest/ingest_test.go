package ingest

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"opsradar/core/incidents"
)

var loadTime = time.Date(2025, 4, 1, 12, 0, 0, 0, time.UTC)

func TestReadCSVEnglishHeaders(t *testing.T) {
	src := strings.Join([]string{
		"Number,Opened,Short description,Caller,Priority,State,Category,Assignment group,Assigned to,Updated,Location",
		"INC001,2025-01-10T08:00:00Z,VPN down,Ana Souza,P1,In Progress,Network,Network Ops,Bruno Lima,2025-01-10T09:00:00Z,São Paulo",
		"INC002,2025-01-11T08:00:00Z,Printer jam,Carlos Dias,P4,New,Hardware,Field Support,Daniela Reis,2025-01-11T09:00:00Z,Recife",
	}, "\n")
	set, summary, err := ReadCSV(strings.NewReader(src), loadTime)
	if err != nil {
		t.Fatalf("ReadCSV: %v", err)
	}
	if summary.Rows != 2 || summary.Skipped != 0 {
		t.Fatalf("summary = %+v", summary)
	}
	first := set[0]
	if first.Number != "INC001" || first.Caller != "Ana Souza" || first.Location != "São Paulo" {
		t.Fatalf("first record = %+v", first)
	}
	if first.ShortDescription != "VPN down" || first.AssignmentGroup != "Network Ops" {
		t.Fatalf("first record = %+v", first)
	}
}

func TestReadCSVPortugueseHeaders(t *testing.T) {
	src := strings.Join([]string{
		"Número,Aberto em,Descrição,Solicitante,Prioridade,Estado,Categoria,Grupo de atribuição,Atribuído a,Atualizado",
		"123,2025-02-01T10:00:00Z,Sistema lento,Elisa Braga,P2,Em Andamento,Software,Sustentação,Fábio Neto,2025-02-01T11:00:00Z",
	}, "\n")
	set, _, err := ReadCSV(strings.NewReader(src), loadTime)
	if err != nil {
		t.Fatalf("ReadCSV: %v", err)
	}
	if len(set) != 1 {
		t.Fatalf("got %d records", len(set))
	}
	in := set[0]
	if in.Number != "123" || in.ShortDescription != "Sistema lento" || in.AssignedTo != "Fábio Neto" {
		t.Fatalf("record = %+v", in)
	}
	if in.Priority != "P2" || in.State != "Em Andamento" {
		t.Fatalf("record = %+v", in)
	}
}

func TestReadCSVDefaults(t *testing.T) {
	src := strings.Join([]string{
		"Number,Caller,Category,State,Priority,Opened",
		"7,Ana,,,,",
	}, "\n")
	set, _, err := ReadCSV(strings.NewReader(src), loadTime)
	if err != nil {
		t.Fatalf("ReadCSV: %v", err)
	}
	in := set[0]
	if in.Category != incidents.CategoryUnknown {
		t.Errorf("Category = %q, want %q", in.Category, incidents.CategoryUnknown)
	}
	if in.State != "Aberto" {
		t.Errorf("State = %q, want Aberto", in.State)
	}
	if in.Priority != string(incidents.PriorityUndefined) {
		t.Errorf("Priority = %q", in.Priority)
	}
	if in.Opened != loadTime.Format(time.RFC3339) {
		t.Errorf("Opened = %q, want load time", in.Opened)
	}
}

func TestReadCSVSkipsBlankRows(t *testing.T) {
	src := strings.Join([]string{
		"Number,Caller",
		"1,Ana",
		",",
		"  ,  ",
		"2,Bia",
	}, "\n")
	set, summary, err := ReadCSV(strings.NewReader(src), loadTime)
	if err != nil {
		t.Fatalf("ReadCSV: %v", err)
	}
	if summary.Rows != 2 || summary.Skipped != 2 {
		t.Fatalf("summary = %+v", summary)
	}
	if len(set) != 2 || set[0].Number != "1" || set[1].Number != "2" {
		t.Fatalf("records = %+v", set)
	}
}

func TestReadCSVIgnoresUnknownColumns(t *testing.T) {
	src := strings.Join([]string{
		"Number,Made up column,Caller",
		"9,whatever,Ana",
	}, "\n")
	set, _, err := ReadCSV(strings.NewReader(src), loadTime)
	if err != nil {
		t.Fatalf("ReadCSV: %v", err)
	}
	if set[0].Number != "9" || set[0].Caller != "Ana" {
		t.Fatalf("record = %+v", set[0])
	}
}

func buildWorkbook(t *testing.T, rows [][]interface{}) *bytes.Buffer {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatalf("cell name: %v", err)
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			t.Fatalf("set row: %v", err)
		}
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("write workbook: %v", err)
	}
	return buf
}

func TestReadXLSX(t *testing.T) {
	buf := buildWorkbook(t, [][]interface{}{
		{"Number", "Opened", "Short description", "Caller", "Priority", "State", "Category"},
		{"INC100", "2025-01-10T08:00:00Z", "Disk full", "Ana Souza", "P2", "In Progress", "Server"},
		{7, "2025-01-11T08:00:00Z", "Login issue", "Bia Costa", "P3", "New", ""},
	})
	set, summary, err := ReadXLSX(buf, loadTime)
	if err != nil {
		t.Fatalf("ReadXLSX: %v", err)
	}
	if summary.Rows != 2 {
		t.Fatalf("summary = %+v", summary)
	}
	if set[0].Number != "INC100" || set[0].Category != "Server" {
		t.Fatalf("first record = %+v", set[0])
	}
	// Numeric cells arrive stringified; missing category gets the sentinel.
	if set[1].Number != "7" {
		t.Fatalf("numeric number = %q", set[1].Number)
	}
	if set[1].Category != incidents.CategoryUnknown {
		t.Fatalf("category = %q", set[1].Category)
	}
}

func TestSerialToTimestamp(t *testing.T) {
	// Serial 45658 is 2025-01-01 in the 1900 date system.
	got := serialToTimestamp("45658")
	when, ok := incidents.Incident{Opened: got}.OpenedAt()
	if !ok {
		t.Fatalf("decoded serial %q does not parse", got)
	}
	if when.Year() != 2025 || when.Month() != time.January || when.Day() != 1 {
		t.Fatalf("serial decoded to %v", when)
	}
	// Verbatim passthrough for anything that is not a plain number.
	if got := serialToTimestamp("2025-01-01"); got != "2025-01-01" {
		t.Fatalf("passthrough broken: %q", got)
	}
	if got := serialToTimestamp("amanhã"); got != "amanhã" {
		t.Fatalf("passthrough broken: %q", got)
	}
}

func TestReadDispatch(t *testing.T) {
	if _, _, err := Read("incidents.pdf", strings.NewReader(""), loadTime); err == nil {
		t.Fatalf("unsupported extension must fail")
	}
	set, _, err := Read("export.CSV", strings.NewReader("Number\n1\n"), loadTime)
	if err != nil {
		t.Fatalf("Read csv: %v", err)
	}
	if len(set) != 1 || set[0].Number != "1" {
		t.Fatalf("records = %+v", set)
	}
}
