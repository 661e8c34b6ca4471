// Package server exposes the engine over a small JSON HTTP API.
package server

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"github.com/litescript/ls-orbits/internal/astro"
	"github.com/litescript/ls-orbits/internal/catalog"
	"github.com/litescript/ls-orbits/internal/logging"
	"github.com/litescript/ls-orbits/internal/metrics"
	"github.com/litescript/ls-orbits/internal/report"
	"github.com/litescript/ls-orbits/internal/rst"
	"github.com/litescript/ls-orbits/internal/sites"
)

// Options configures a Server.
type Options struct {
	Catalog  *catalog.Catalog
	Observer astro.Observer // Used when a request names no site or coordinates
	Horizon  float64        // Used when a request gives no horizon
	DayLimit int            // Used by /v1/next when a request gives no days

	RateLimit float64 // Requests per second per client; zero disables throttling
	Burst     int

	Logger  *logging.Logger
	Metrics *metrics.Collector
	Now     func() time.Time
}

// Server handles API requests.
type Server struct {
	opts    Options
	log     *logging.Logger
	metrics *metrics.Collector
	limiter *ipRateLimiter
	handler http.Handler
}

// New builds a server.
func New(opts Options) *Server {
	if opts.Catalog == nil {
		opts.Catalog = catalog.Default()
	}
	if opts.Logger == nil {
		opts.Logger = logging.Discard()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.DayLimit < 1 {
		opts.DayLimit = rst.DefaultDayLimit
	}

	s := &Server{
		opts:    opts,
		log:     opts.Logger.With("component", "server"),
		metrics: opts.Metrics,
	}
	if opts.RateLimit > 0 {
		s.limiter = newIPRateLimiter(rate.Limit(opts.RateLimit), max(opts.Burst, 1))
	}

	mux := http.NewServeMux()
	s.route(mux, "GET /healthz", s.handleHealth)
	s.route(mux, "GET /v1/bodies", s.handleBodies)
	s.route(mux, "GET /v1/position", s.handlePosition)
	s.route(mux, "GET /v1/rst", s.handleRST)
	s.route(mux, "GET /v1/next", s.handleNext)
	s.route(mux, "GET /v1/plan", s.handlePlan)
	mux.Handle("GET /metrics", s.metrics.Handler())

	s.handler = s.withRequestID(mux)
	return s
}

func (s *Server) route(mux *http.ServeMux, pattern string, h http.HandlerFunc) {
	mux.Handle(pattern, s.metrics.Middleware(pattern, s.throttle(h)))
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

func (s *Server) withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = logging.NewRequestID()
		}
		w.Header().Set("X-Request-ID", id)
		next.ServeHTTP(w, r.WithContext(logging.ContextWithRequestID(r.Context(), id)))
	})
}

func (s *Server) throttle(next http.HandlerFunc) http.HandlerFunc {
	if s.limiter == nil {
		return next
	}
	return func(w http.ResponseWriter, r *http.Request) {
		if !s.limiter.allow(clientIP(r)) {
			s.metrics.ThrottledRequest()
			writeError(w, http.StatusTooManyRequests, errors.New("rate limit exceeded"))
			return
		}
		next(w, r)
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

// writeJSON encodes v before committing the status so that an encoding
// failure still produces a 500.
func writeJSON(w http.ResponseWriter, code int, v any) {
	var buf bytes.Buffer
	if err := report.WriteJSON(&buf, v); err != nil {
		code = http.StatusInternalServerError
		buf.Reset()
		_ = report.WriteJSON(&buf, errorResponse{Error: "encoding response: " + err.Error()})
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = w.Write(buf.Bytes())
}

func writeError(w http.ResponseWriter, code int, err error) {
	writeJSON(w, code, errorResponse{Error: err.Error()})
}

// errBadRequest marks client errors.
var errBadRequest = errors.New("bad request")

// query holds the parsed common parameters.
type query struct {
	body    catalog.Body
	obs     astro.Observer
	jd      float64
	horizon float64
}

// parseQuery reads body, site | lat+lon, t | jd and horizon.
func (s *Server) parseQuery(r *http.Request) (query, error) {
	v := r.URL.Query()
	q := query{obs: s.opts.Observer, horizon: s.opts.Horizon}

	name := v.Get("body")
	if name == "" {
		return q, fmt.Errorf("%w: missing body", errBadRequest)
	}
	body, err := s.opts.Catalog.Get(name)
	if err != nil {
		return q, err
	}
	q.body = body

	switch {
	case v.Get("site") != "":
		if q.obs, err = sites.Observer(v.Get("site")); err != nil {
			return q, err
		}
	case v.Get("lat") != "" || v.Get("lon") != "":
		lat, err1 := parseFinite(v.Get("lat"))
		lon, err2 := parseFinite(v.Get("lon"))
		if err1 != nil || err2 != nil {
			return q, fmt.Errorf("%w: lat and lon must both be numbers", errBadRequest)
		}
		if q.obs, err = sites.Resolve("", lat, lon); err != nil {
			return q, err
		}
	}

	if q.jd, err = parseInstant(v.Get("t"), v.Get("jd"), s.opts.Now()); err != nil {
		return q, err
	}

	if h := v.Get("horizon"); h != "" {
		if q.horizon, err = parseFinite(h); err != nil || q.horizon < -90 || q.horizon > 90 {
			return q, fmt.Errorf("%w: horizon %q", errBadRequest, h)
		}
	}
	return q, nil
}

// parseInstant accepts an RFC 3339 time or a Julian Day, defaulting to now.
func parseInstant(t, jd string, now time.Time) (float64, error) {
	switch {
	case jd != "":
		v, err := parseFinite(jd)
		if err != nil {
			return 0, fmt.Errorf("%w: jd %q", errBadRequest, jd)
		}
		return v, nil
	case t != "":
		ts, err := time.Parse(time.RFC3339, t)
		if err != nil {
			return 0, fmt.Errorf("%w: t %q is not RFC 3339", errBadRequest, t)
		}
		return astro.JulianDate(ts), nil
	default:
		return astro.JulianDate(now), nil
	}
}

// errNotFinite rejects NaN and infinities, which strconv accepts.
var errNotFinite = errors.New("not a finite number")

func parseFinite(s string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, errNotFinite
	}
	return v, nil
}

func parseDays(r *http.Request, def, limit int) (int, error) {
	d := r.URL.Query().Get("days")
	if d == "" {
		return def, nil
	}
	n, err := strconv.Atoi(d)
	if err != nil || n < 1 || n > limit {
		return 0, fmt.Errorf("%w: days must be in [1, %d]", errBadRequest, limit)
	}
	return n, nil
}

// fail maps an error to a status code.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	code := http.StatusInternalServerError
	switch {
	case errors.Is(err, catalog.ErrUnknownBody), errors.Is(err, sites.ErrUnknownSite):
		code = http.StatusNotFound
	case errors.Is(err, errBadRequest), errors.Is(err, sites.ErrInvalidLocation):
		code = http.StatusBadRequest
	}
	s.log.Debug("request failed", "request_id", logging.RequestID(r.Context()), "path", r.URL.Path, "code", code, "err", err)
	writeError(w, code, err)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"bodies": s.opts.Catalog.Len(),
	})
}

func (s *Server) handleBodies(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, report.ExportBodies(s.opts.Catalog))
}

func (s *Server) handlePosition(w http.ResponseWriter, r *http.Request) {
	q, err := s.parseQuery(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	start := time.Now()
	pos := report.ExportPosition(q.body, q.obs, q.jd)
	s.metrics.ObserveQuery("position", "OK", time.Since(start))
	writeJSON(w, http.StatusOK, pos)
}

func (s *Server) handleRST(w http.ResponseWriter, r *http.Request) {
	q, err := s.parseQuery(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	start := time.Now()
	res := q.body.RST(q.jd, q.obs, q.horizon)
	s.metrics.ObserveQuery("rst", res.Status.String(), time.Since(start))
	writeJSON(w, http.StatusOK, report.ExportRST(q.body.Name, q.obs, q.horizon, q.jd, res))
}

func (s *Server) handleNext(w http.ResponseWriter, r *http.Request) {
	q, err := s.parseQuery(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	days, err := parseDays(r, s.opts.DayLimit, rst.MaxDayLimit)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	start := time.Now()
	res := q.body.NextRST(q.jd, q.obs, q.horizon, days)
	s.metrics.ObserveQuery("next", res.Status.String(), time.Since(start))
	writeJSON(w, http.StatusOK, report.ExportRST(q.body.Name, q.obs, q.horizon, q.jd, res))
}

func (s *Server) handlePlan(w http.ResponseWriter, r *http.Request) {
	q, err := s.parseQuery(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	days, err := parseDays(r, 7, rst.MaxPlanDays)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	start := time.Now()
	plan := rst.ComputePlan(q.body.Name, q.body, q.obs, q.horizon, q.jd, days, astro.JulianDate(s.opts.Now()))
	s.metrics.ObserveQuery("plan", "OK", time.Since(start))
	writeJSON(w, http.StatusOK, report.ExportPlan(plan))
}
