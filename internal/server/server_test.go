package server

import (
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"golang.org/x/time/rate"

	"github.com/litescript/ls-orbits/internal/astro"
	"github.com/litescript/ls-orbits/internal/metrics"
	"github.com/litescript/ls-orbits/internal/report"
	"github.com/litescript/ls-orbits/internal/rst"
)

var boston = astro.Observer{LatDeg: 42.3333, LonDeg: -71.0833, Name: "Boston"}

func newTestServer(t *testing.T, rateLimit float64, burst int) (*Server, *metrics.Collector) {
	t.Helper()
	m, err := metrics.NewCollector(prometheus.NewRegistry())
	if err != nil {
		t.Fatal(err)
	}
	s := New(Options{
		Observer:  boston,
		Horizon:   rst.HorizonStellar,
		RateLimit: rateLimit,
		Burst:     burst,
		Metrics:   m,
		Now:       func() time.Time { return time.Date(2024, 3, 20, 0, 0, 0, 0, time.UTC) },
	})
	return s, m
}

func get(t *testing.T, s *Server, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, rec.Body.String())
	}
	return v
}

func TestHealthAndBodies(t *testing.T) {
	s, _ := newTestServer(t, 0, 0)

	rec := get(t, s, "/healthz")
	if rec.Code != http.StatusOK {
		t.Fatalf("healthz code = %d", rec.Code)
	}
	if rec.Header().Get("X-Request-ID") == "" {
		t.Error("missing X-Request-ID header")
	}
	health := decode[map[string]any](t, rec)
	if health["status"] != "ok" || health["bodies"] != float64(11) {
		t.Errorf("healthz = %v", health)
	}

	bodies := decode[[]report.BodyExport](t, get(t, s, "/v1/bodies"))
	if len(bodies) != 11 || bodies[0].Name != "Mercury" {
		t.Errorf("bodies = %+v", bodies)
	}
}

func TestRequestIDPassthrough(t *testing.T) {
	s, _ := newTestServer(t, 0, 0)
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	if got := rec.Header().Get("X-Request-ID"); got != "abc-123" {
		t.Errorf("X-Request-ID = %q, want abc-123", got)
	}
}

func TestPosition(t *testing.T) {
	s, _ := newTestServer(t, 0, 0)

	rec := get(t, s, "/v1/position?body=jupiter&jd=2451545&site=madrid")
	if rec.Code != http.StatusOK {
		t.Fatalf("code = %d: %s", rec.Code, rec.Body.String())
	}
	p := decode[report.PositionExport](t, rec)
	if p.Body != "Jupiter" || p.JD != 2451545 || p.Observer.Name != "Madrid" {
		t.Errorf("position = %+v", p)
	}
	if p.SolarDistance < 4.9 || p.SolarDistance > 5.5 {
		t.Errorf("Jupiter r = %v", p.SolarDistance)
	}
}

func TestRSTEndpoint(t *testing.T) {
	s, m := newTestServer(t, 0, 0)

	rec := get(t, s, "/v1/rst?body=Venus&t=2024-03-20T06:00:00Z")
	if rec.Code != http.StatusOK {
		t.Fatalf("code = %d: %s", rec.Code, rec.Body.String())
	}
	out := decode[report.RSTExport](t, rec)
	if out.Status != "FOUND" || out.Rise == nil || out.Transit == nil || out.Set == nil {
		t.Errorf("rst = %+v", out)
	}
	if out.Horizon != rst.HorizonStellar {
		t.Errorf("Horizon = %v, want default", out.Horizon)
	}
	day := astro.DayStart(astro.JulianDate(time.Date(2024, 3, 20, 6, 0, 0, 0, time.UTC)))
	for _, ev := range []*report.EventExport{out.Rise, out.Transit, out.Set} {
		if ev != nil && (ev.JD < day || ev.JD >= day+1) {
			t.Errorf("event %v outside the query day", ev.JD)
		}
	}

	if got := testutil.ToFloat64(m.Queries.WithLabelValues("rst", "FOUND")); got != 1 {
		t.Errorf("rst query counter = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.HTTPRequests.WithLabelValues("GET /v1/rst", "200")); got != 1 {
		t.Errorf("http counter = %v, want 1", got)
	}
}

func TestNextEndpoint(t *testing.T) {
	s, _ := newTestServer(t, 0, 0)

	rec := get(t, s, "/v1/next?body=mars&lat=-35&lon=149&horizon=5&days=3")
	if rec.Code != http.StatusOK {
		t.Fatalf("code = %d: %s", rec.Code, rec.Body.String())
	}
	out := decode[report.RSTExport](t, rec)
	if out.Status != "FOUND" || out.Horizon != 5 {
		t.Errorf("next = %+v", out)
	}
	now := astro.JulianDate(time.Date(2024, 3, 20, 0, 0, 0, 0, time.UTC))
	for _, ev := range []*report.EventExport{out.Rise, out.Transit, out.Set} {
		if ev == nil || ev.JD <= now {
			t.Errorf("event %+v not after now", ev)
		}
	}
}

func TestPlanEndpoint(t *testing.T) {
	s, _ := newTestServer(t, 0, 0)

	rec := get(t, s, "/v1/plan?body=saturn&days=4")
	if rec.Code != http.StatusOK {
		t.Fatalf("code = %d: %s", rec.Code, rec.Body.String())
	}
	out := decode[report.PlanExport](t, rec)
	if len(out.Days) != 4 || len(out.Passes) < 3 {
		t.Errorf("plan has %d days, %d passes", len(out.Days), len(out.Passes))
	}
}

func TestErrors(t *testing.T) {
	s, _ := newTestServer(t, 0, 0)

	tests := []struct {
		target string
		code   int
	}{
		{"/v1/rst", http.StatusBadRequest},
		{"/v1/rst?body=vulcan", http.StatusNotFound},
		{"/v1/rst?body=mars&site=atlantis", http.StatusNotFound},
		{"/v1/rst?body=mars&lat=95&lon=0", http.StatusBadRequest},
		{"/v1/rst?body=mars&lat=x", http.StatusBadRequest},
		{"/v1/rst?body=mars&t=yesterday", http.StatusBadRequest},
		{"/v1/rst?body=mars&jd=abc", http.StatusBadRequest},
		{"/v1/rst?body=mars&horizon=120", http.StatusBadRequest},
		{"/v1/rst?body=venus&site=boston&jd=NaN", http.StatusBadRequest},
		{"/v1/rst?body=venus&jd=-Inf", http.StatusBadRequest},
		{"/v1/rst?body=venus&horizon=NaN", http.StatusBadRequest},
		{"/v1/position?body=venus&site=boston&jd=Inf", http.StatusBadRequest},
		{"/v1/rst?body=venus&lat=NaN&lon=0", http.StatusBadRequest},
		{"/v1/rst?body=venus&lat=10&lon=Inf", http.StatusBadRequest},
		{"/v1/next?body=mars&days=0", http.StatusBadRequest},
		{"/v1/plan?body=mars&days=400", http.StatusBadRequest},
		{"/v1/unknown", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			rec := get(t, s, tt.target)
			if rec.Code != tt.code {
				t.Errorf("code = %d, want %d: %s", rec.Code, tt.code, rec.Body.String())
			}
			if tt.code != http.StatusNotFound || strings.HasPrefix(tt.target, "/v1/rst") {
				if e := decode[map[string]string](t, rec); e["error"] == "" {
					t.Error("missing error message")
				}
			}
		})
	}

	req := httptest.NewRequest(http.MethodPost, "/v1/rst?body=mars", nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("POST code = %d, want 405", rec.Code)
	}
}

func TestRateLimit(t *testing.T) {
	s, m := newTestServer(t, 0.001, 2)

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		codes = append(codes, get(t, s, "/healthz").Code)
	}
	want := []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}
	for i := range want {
		if codes[i] != want[i] {
			t.Errorf("request %d code = %d, want %d", i, codes[i], want[i])
		}
	}
	if got := testutil.ToFloat64(m.Throttled); got != 1 {
		t.Errorf("throttled = %v, want 1", got)
	}

	// Another client has its own bucket.
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.RemoteAddr = "10.1.2.3:4567"
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("other client code = %d, want 200", rec.Code)
	}
}

func TestIPRateLimiter_EvictsIdleClients(t *testing.T) {
	l := newIPRateLimiter(1, 2)
	if l.idleTTL != minIdleTTL {
		t.Fatalf("idleTTL = %v, want %v", l.idleTTL, minIdleTTL)
	}
	now := time.Date(2024, 3, 20, 0, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return now }

	for i := 0; i < 100; i++ {
		l.allow(fmt.Sprintf("198.51.100.%d", i))
	}
	if got := l.clients(); got != 100 {
		t.Fatalf("clients = %d, want 100", got)
	}

	// Still inside the idle window: nothing is dropped.
	now = now.Add(minIdleTTL / 2)
	l.allow("203.0.113.1")
	if got := l.clients(); got != 101 {
		t.Errorf("clients after %v = %d, want 101", minIdleTTL/2, got)
	}

	now = now.Add(minIdleTTL)
	l.allow("203.0.113.2")
	if got := l.clients(); got != 2 {
		t.Errorf("clients after sweep = %d, want 2", got)
	}
}

func TestIPRateLimiter_IdleTTLCoversRefill(t *testing.T) {
	// One token per hour with a burst of 3 takes three hours to refill.
	l := newIPRateLimiter(rate.Every(time.Hour), 3)
	if d := l.idleTTL - 3*time.Hour; d < -time.Millisecond || d > time.Millisecond {
		t.Errorf("idleTTL = %v, want 3h", l.idleTTL)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	s, _ := newTestServer(t, 0, 0)
	get(t, s, "/healthz")

	rec := get(t, s, "/metrics")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "orbits_http_requests_total") {
		t.Errorf("metrics = %d\n%s", rec.Code, rec.Body.String())
	}
}

func TestClientIP(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.RemoteAddr = "192.0.2.7:1234"
	if got := clientIP(r); got != "192.0.2.7" {
		t.Errorf("clientIP = %q", got)
	}
	r.RemoteAddr = "not-an-addr"
	if got := clientIP(r); got != "not-an-addr" {
		t.Errorf("clientIP = %q", got)
	}
}

func TestWriteJSON_EncodeFailure(t *testing.T) {
	rec := httptest.NewRecorder()
	writeJSON(rec, http.StatusOK, map[string]float64{"jd": math.NaN()})

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("code = %d, want 500", rec.Code)
	}
	if e := decode[map[string]string](t, rec); !strings.Contains(e["error"], "encoding response") {
		t.Errorf("error = %q", e["error"])
	}
}

func TestParseFinite(t *testing.T) {
	tests := []struct {
		in      string
		want    float64
		wantErr bool
	}{
		{"2460390.5", 2460390.5, false},
		{"-0.5667", -0.5667, false},
		{"NaN", 0, true},
		{"inf", 0, true},
		{"-Inf", 0, true},
		{"", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseFinite(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}
