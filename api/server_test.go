package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"opsradar/config"
	"opsradar/core/store"
	"opsradar/core/workspace"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	cfg := &config.AppConfig{
		Ingest:    config.IngestConfig{UploadMaxBytes: 10 << 20},
		Dashboard: config.DashConfig{TopGroups: 20, OutOfRuleAge: 48 * time.Hour, ViewCacheSize: 16},
	}
	db, err := store.Open(context.Background(), filepath.Join(t.TempDir(), "opsradar.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	srv := NewServer(cfg, zerolog.Nop(), workspace.New(nil), store.NewDatasetsStore(db))
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts
}

const sampleCSV = `Number,Opened,Short description,Caller,Priority,State,Category,Assignment group,Assigned to,Updated,Location
INC001,2025-01-10T08:00:00Z,VPN down,Ana Souza,P1,In Progress,Problema de rede,Network Ops,Bruno Lima,2025-01-10T09:00:00Z,São Paulo
INC002,2025-01-11T08:00:00Z,Printer jam,Carlos Dias,P4,New,Hardware,Field Support,Daniela Reis,2025-01-11T09:00:00Z,Recife
INC003,2025-02-01T08:00:00Z,Slow database,Elisa Braga,P2,On Hold - aguardando fornecedor,Banco de dados,DBA,Fábio Neto,2025-02-01T09:00:00Z,
INC004,2025-02-02T08:00:00Z,Email outage,Gabriel Rocha,P1,Cancelado,Software,Messaging,Helena Prado,2025-02-02T09:00:00Z,
`

func uploadCSV(t *testing.T, ts *httptest.Server, name, body string) map[string]interface{} {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", name)
	if err != nil {
		t.Fatalf("form file: %v", err)
	}
	if _, err := io.WriteString(fw, body); err != nil {
		t.Fatalf("write body: %v", err)
	}
	mw.Close()

	resp, err := http.Post(ts.URL+"/api/datasets", mw.FormDataContentType(), &buf)
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		raw, _ := io.ReadAll(resp.Body)
		t.Fatalf("upload status %d: %s", resp.StatusCode, raw)
	}
	var out map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode upload response: %v", err)
	}
	return out
}

func getJSON(t *testing.T, ts *httptest.Server, path string) (int, map[string]interface{}) {
	t.Helper()
	resp, err := http.Get(ts.URL + path)
	if err != nil {
		t.Fatalf("GET %s: %v", path, err)
	}
	defer resp.Body.Close()
	var out map[string]interface{}
	raw, _ := io.ReadAll(resp.Body)
	_ = json.Unmarshal(raw, &out)
	return resp.StatusCode, out
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t)
	status, body := getJSON(t, ts, "/api/health")
	if status != http.StatusOK || body["status"] != "ok" {
		t.Fatalf("health = %d %v", status, body)
	}
}

func TestUploadAndFilteredList(t *testing.T) {
	ts := newTestServer(t)
	out := uploadCSV(t, ts, "export.csv", sampleCSV)
	summary := out["summary"].(map[string]interface{})
	if summary["rows"].(float64) != 4 {
		t.Fatalf("summary = %v", summary)
	}

	// Explicit range spanning the data; cancelled records never appear.
	status, body := getJSON(t, ts, "/api/incidents?from=2025-01-01&to=2025-12-31")
	if status != http.StatusOK {
		t.Fatalf("list status %d", status)
	}
	if body["total"].(float64) != 3 {
		t.Fatalf("total = %v", body["total"])
	}

	// Search narrows the same range.
	status, body = getJSON(t, ts, "/api/incidents?from=2025-01-01&to=2025-12-31&search=vpn")
	if status != http.StatusOK || body["total"].(float64) != 1 {
		t.Fatalf("search view = %d %v", status, body["total"])
	}

	// Status filter matches the canonical label.
	status, body = getJSON(t, ts, "/api/incidents?from=2025-01-01&to=2025-12-31&status=Em+Espera")
	if status != http.StatusOK || body["total"].(float64) != 1 {
		t.Fatalf("status view = %d %v", status, body["total"])
	}
}

func TestDashboardEndpoints(t *testing.T) {
	ts := newTestServer(t)
	uploadCSV(t, ts, "export.csv", sampleCSV)
	base := "?from=2025-01-01&to=2025-12-31"

	status, stats := getJSON(t, ts, "/api/dashboard/stats"+base)
	if status != http.StatusOK {
		t.Fatalf("stats status %d", status)
	}
	if stats["total"].(float64) != 3 {
		t.Fatalf("stats total = %v", stats["total"])
	}
	// P1 in progress and P2 on hold; the cancelled P1 does not count.
	if stats["critical_pending"].(float64) != 2 {
		t.Fatalf("critical_pending = %v", stats["critical_pending"])
	}

	status, critical := getJSON(t, ts, "/api/dashboard/critical")
	if status != http.StatusOK || critical["total"].(float64) != 2 {
		t.Fatalf("critical = %d %v", status, critical["total"])
	}

	status, onhold := getJSON(t, ts, "/api/dashboard/onhold"+base)
	if status != http.StatusOK || onhold["total"].(float64) != 1 {
		t.Fatalf("onhold = %d %v", status, onhold["total"])
	}
}

func TestAnalyticsEndpoints(t *testing.T) {
	ts := newTestServer(t)
	uploadCSV(t, ts, "export.csv", sampleCSV)
	base := "&from=2025-01-01&to=2025-12-31"

	status, _ := getJSON(t, ts, "/api/analytics/groups?dimension=starsign")
	if status != http.StatusBadRequest {
		t.Fatalf("bad dimension status %d", status)
	}

	status, groups := getJSON(t, ts, "/api/analytics/groups?dimension=caller"+base)
	if status != http.StatusOK {
		t.Fatalf("groups status %d", status)
	}
	if n := len(groups["groups"].([]interface{})); n != 3 {
		t.Fatalf("caller groups = %d, want 3 (cancelled caller excluded)", n)
	}

	status, sla := getJSON(t, ts, "/api/analytics/sla?x=1"+base)
	if status != http.StatusOK {
		t.Fatalf("sla status %d", status)
	}
	if sla["target"].(float64) != 95 {
		t.Fatalf("sla target = %v", sla["target"])
	}

	status, history := getJSON(t, ts, "/api/analytics/history?dimension=category"+base)
	if status != http.StatusOK {
		t.Fatalf("history status %d", status)
	}
	months := history["months"].([]interface{})
	if len(months) != 2 {
		t.Fatalf("history months = %d, want 2", len(months))
	}
	first := months[0].(map[string]interface{})
	if first["month"] != "2025-01" {
		t.Fatalf("months out of order: %v", first["month"])
	}
}

func TestWorkspaceViewRoundTrip(t *testing.T) {
	ts := newTestServer(t)
	uploadCSV(t, ts, "export.csv", sampleCSV)

	put := func(body string) (int, map[string]interface{}) {
		req, err := http.NewRequest(http.MethodPut, ts.URL+"/api/workspace/view", strings.NewReader(body))
		if err != nil {
			t.Fatalf("new request: %v", err)
		}
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			t.Fatalf("PUT view: %v", err)
		}
		defer resp.Body.Close()
		var out map[string]interface{}
		raw, _ := io.ReadAll(resp.Body)
		_ = json.Unmarshal(raw, &out)
		return resp.StatusCode, out
	}

	status, _ := put(`{"active_panel":"dashboard-of-dashboards"}`)
	if status != http.StatusBadRequest {
		t.Fatalf("unknown panel status %d", status)
	}

	status, view := put(`{"criteria":{"search":"vpn","from":"2025-01-01","to":"2025-12-31"},"active_panel":"sla"}`)
	if status != http.StatusOK {
		t.Fatalf("put view status %d", status)
	}
	if view["active_panel"] != "sla" {
		t.Fatalf("active_panel = %v", view["active_panel"])
	}

	// The stored criteria now drive the unparameterized list.
	status, body := getJSON(t, ts, "/api/incidents")
	if status != http.StatusOK || body["total"].(float64) != 1 {
		t.Fatalf("list with stored view = %d %v", status, body["total"])
	}

	// Reset clears everything.
	resp, err := http.Post(ts.URL+"/api/workspace/reset", "application/json", nil)
	if err != nil {
		t.Fatalf("reset: %v", err)
	}
	resp.Body.Close()
	status, view = getJSON(t, ts, "/api/workspace/view")
	if status != http.StatusOK || view["dataset_id"] != "" || view["row_count"].(float64) != 0 {
		t.Fatalf("view after reset = %d %v", status, view)
	}
}

func TestDatasetLifecycle(t *testing.T) {
	ts := newTestServer(t)
	out := uploadCSV(t, ts, "export.csv", sampleCSV)
	dataset := out["dataset"].(map[string]interface{})
	id := dataset["id"].(string)

	status, list := getJSON(t, ts, "/api/datasets")
	if status != http.StatusOK || len(list["datasets"].([]interface{})) != 1 {
		t.Fatalf("datasets list = %d %v", status, list)
	}

	// Reset, then bring the stored dataset back.
	resp, err := http.Post(ts.URL+"/api/workspace/reset", "application/json", nil)
	if err != nil {
		t.Fatalf("reset: %v", err)
	}
	resp.Body.Close()

	resp, err = http.Post(ts.URL+fmt.Sprintf("/api/datasets/%s/activate", id), "application/json", nil)
	if err != nil {
		t.Fatalf("activate: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("activate status %d", resp.StatusCode)
	}
	status, view := getJSON(t, ts, "/api/workspace/view")
	if status != http.StatusOK || view["dataset_id"] != id || view["row_count"].(float64) != 4 {
		t.Fatalf("view after activate = %v", view)
	}

	req, err := http.NewRequest(http.MethodDelete, ts.URL+"/api/datasets/"+id, nil)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	resp, err = http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("delete status %d", resp.StatusCode)
	}

	resp, err = http.Post(ts.URL+fmt.Sprintf("/api/datasets/%s/activate", id), "application/json", nil)
	if err != nil {
		t.Fatalf("activate deleted: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("activate deleted status %d", resp.StatusCode)
	}
}

func TestUploadRejectsUnknownFormat(t *testing.T) {
	ts := newTestServer(t)
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, _ := mw.CreateFormFile("file", "notes.txt")
	io.WriteString(fw, "not a spreadsheet")
	mw.Close()

	resp, err := http.Post(ts.URL+"/api/datasets", mw.FormDataContentType(), &buf)
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", resp.StatusCode)
	}
}
