package observability_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"hostel_picker/internal/adapters/observability"
)

func TestMetricsRegistryAndHandler(t *testing.T) {
	reg := observability.InitRegistry()

	// record samples so the vectors are exported
	observability.ObserveHTTP("/test", "POST", 200, 12*time.Millisecond)
	observability.ObserveShortlist(true, 7)
	observability.ObserveSync("peru", "ok")
	observability.ObserveFetchFailure(io.ErrUnexpectedEOF, true)

	mh := observability.MetricsHandler(reg)
	req := httptest.NewRequest("GET", "/metrics", nil)
	rr := httptest.NewRecorder()
	mh.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("metrics status: %d", rr.Code)
	}
	body, _ := io.ReadAll(rr.Body)
	out := string(body)
	for _, name := range []string{"hostel_http_requests_total", `hostel_shortlists_total{fallback="true"}`, "hostel_parsed_records 7",
		`hostel_sync_runs_total{result="ok",source="peru"} 1`,
		`hostel_sheet_fetch_failures_total{error="*errors.errorString",served_stale="true"} 1`,
	} {
		if !strings.Contains(out, name) {
			t.Fatalf("expected %s in output", name)
		}
	}
}

func TestNewMetricsServer(t *testing.T) {
	reg := observability.InitRegistry()
	observability.ObserveShortlist(false, 3)

	srv := observability.NewMetricsServer(":9464", reg)
	if srv.Addr != ":9464" {
		t.Fatalf("addr = %q", srv.Addr)
	}

	rr := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rr, httptest.NewRequest("GET", "/metrics", nil))
	if rr.Code != http.StatusOK || !strings.Contains(rr.Body.String(), "hostel_parsed_records 3") {
		t.Fatalf("metrics server: status %d body %q", rr.Code, rr.Body.String())
	}

	rr = httptest.NewRecorder()
	srv.Handler.ServeHTTP(rr, httptest.NewRequest("GET", "/", nil))
	if rr.Code != http.StatusNotFound {
		t.Fatalf("root status: %d", rr.Code)
	}
}

func TestServe_DisabledWithoutAddr(t *testing.T) {
	if srv := observability.Serve("", observability.InitRegistry()); srv != nil {
		t.Fatalf("expected no server for empty addr")
	}
}

func TestLabelErr(t *testing.T) {
	if got := observability.LabelErr(nil); got != "none" {
		t.Fatalf("LabelErr(nil) = %q", got)
	}
	if got := observability.LabelErr(io.EOF); got != "*errors.errorString" {
		t.Fatalf("LabelErr(io.EOF) = %q", got)
	}
}
