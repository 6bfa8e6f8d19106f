// Package web serves the reconciled matrix as JSON for calendar UIs and as a
// small read-only HTML page. It has no authentication and is meant for
// localhost or a trusted network.
package web

import (
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"gopresence/calendar"
	"gopresence/internal/identity"
	"gopresence/output"
	"gopresence/reconcile"
	"gopresence/source"
)

//go:embed templates/*.html
var templateFS embed.FS

// MatrixSource builds the matrix for one month.
type MatrixSource interface {
	Build(ctx context.Context, month calendar.Month) (reconcile.Matrix, []source.Failure, error)
}

// SnapshotStats reports row counts of the backing snapshot, if any.
type SnapshotStats interface {
	Counts(ctx context.Context) (map[string]int, error)
}

type Options struct {
	// AllowedOrigins for CORS; empty allows any origin.
	AllowedOrigins []string
	Stats          SnapshotStats
	Logger         *zap.Logger
	Now            func() time.Time
}

type Server struct {
	matrices MatrixSource
	stats    SnapshotStats
	logger   *zap.Logger
	now      func() time.Time
	router   chi.Router
}

type matrixResponse struct {
	output.CalendarView
	Failures []string `json:"failures"`
}

type healthResponse struct {
	Status string         `json:"status"`
	Counts map[string]int `json:"counts,omitempty"`
}

type errorResponse struct {
	Error     string `json:"error"`
	RequestID string `json:"requestId,omitempty"`
}

type monthPageView struct {
	Title         string
	CurrentMonth  string
	PreviousMonth string
	NextMonth     string
	Headers       []string
	Rows          [][]string
	Failures      []string
}

func NewServer(matrices MatrixSource, opts Options) *Server {
	s := &Server{
		matrices: matrices,
		stats:    opts.Stats,
		logger:   opts.Logger,
		now:      opts.Now,
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	s.logger = s.logger.Named("web")
	if s.now == nil {
		s.now = time.Now
	}

	origins := opts.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	r := chi.NewRouter()
	r.Use(s.requestID)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", requestIDHeader},
		ExposedHeaders: []string{requestIDHeader},
		MaxAge:         300,
	}))

	r.Get("/", s.handleRoot)
	r.Get("/healthz", s.handleHealth)
	r.Get("/month/{month}", s.handleMonthPage)
	r.Get("/api/matrix/{month}", s.handleAPIMatrix)
	r.Get("/api/matrix/{month}/{employee}", s.handleAPIEmployee)
	s.router = r

	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	month := calendar.Today(s.now()).MonthOf()
	http.Redirect(w, r, "/month/"+month.Key(), http.StatusFound)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	response := healthResponse{Status: "ok"}
	if s.stats != nil {
		counts, err := s.stats.Counts(r.Context())
		if err != nil {
			s.writeError(w, r, http.StatusServiceUnavailable, fmt.Errorf("read snapshot counts: %w", err))
			return
		}
		response.Counts = counts
	}
	writeJSON(w, http.StatusOK, response)
}

func (s *Server) handleAPIMatrix(w http.ResponseWriter, r *http.Request) {
	matrix, failures, ok := s.buildMatrix(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, matrixResponse{
		CalendarView: output.Calendar(matrix),
		Failures:     failureMessages(failures),
	})
}

func (s *Server) handleAPIEmployee(w http.ResponseWriter, r *http.Request) {
	matrix, _, ok := s.buildMatrix(w, r)
	if !ok {
		return
	}

	employee := strings.TrimSpace(chi.URLParam(r, "employee"))
	row, found := output.CalendarFor(matrix, employeeKey(matrix, employee))
	if !found {
		s.writeError(w, r, http.StatusNotFound, fmt.Errorf("employee %q not found in %s", employee, matrix.Month.Key()))
		return
	}
	writeJSON(w, http.StatusOK, row)
}

func (s *Server) handleMonthPage(w http.ResponseWriter, r *http.Request) {
	matrix, failures, ok := s.buildMatrix(w, r)
	if !ok {
		return
	}

	headers, rows := output.Table(matrix, output.TableOptions{})
	view := monthPageView{
		Title:         "Attendance " + matrix.Month.Key(),
		CurrentMonth:  matrix.Month.Key(),
		PreviousMonth: matrix.Month.Previous().Key(),
		NextMonth:     matrix.Month.Next().Key(),
		Headers:       headers,
		Rows:          rows,
		Failures:      failureMessages(failures),
	}
	if err := renderTemplate(w, "month.html", view); err != nil {
		s.writeError(w, r, http.StatusInternalServerError, err)
	}
}

// buildMatrix parses the month path parameter and builds the matrix. It
// writes the error response itself and reports ok=false on failure.
func (s *Server) buildMatrix(w http.ResponseWriter, r *http.Request) (reconcile.Matrix, []source.Failure, bool) {
	month, err := calendar.ParseMonth(chi.URLParam(r, "month"))
	if err != nil {
		s.writeError(w, r, http.StatusBadRequest, err)
		return reconcile.Matrix{}, nil, false
	}

	matrix, failures, err := s.matrices.Build(r.Context(), month)
	if err != nil {
		s.writeError(w, r, http.StatusBadGateway, err)
		return reconcile.Matrix{}, nil, false
	}
	return matrix, failures, true
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, status int, err error) {
	requestID := requestIDFrom(r.Context())
	s.logger.Warn("request failed",
		zap.String("request_id", requestID),
		zap.String("path", r.URL.Path),
		zap.Int("status", status),
		zap.Error(err),
	)
	writeJSON(w, status, errorResponse{Error: err.Error(), RequestID: requestID})
}

// employeeKey accepts a display name in any case or a numeric employee id.
func employeeKey(matrix reconcile.Matrix, raw string) string {
	key := identity.Canonical(raw)
	if _, ok := matrix.Employee(key); ok {
		return key
	}
	for _, employee := range matrix.Employees {
		if employee.NumericID != "" && strings.TrimSpace(employee.NumericID) == strings.TrimSpace(raw) {
			return employee.Key()
		}
	}
	return key
}

func failureMessages(failures []source.Failure) []string {
	messages := make([]string, 0, len(failures))
	for _, failure := range failures {
		messages = append(messages, failure.Error())
	}
	return messages
}

func renderTemplate(w http.ResponseWriter, pageTemplate string, data any) error {
	tmpl, err := template.New("base.html").Funcs(template.FuncMap{
		"cellClass": cellClass,
	}).ParseFS(templateFS, "templates/base.html", "templates/"+pageTemplate)
	if err != nil {
		return fmt.Errorf("parse template %s: %w", pageTemplate, err)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := tmpl.ExecuteTemplate(w, "base", data); err != nil {
		return fmt.Errorf("render template %s: %w", pageTemplate, err)
	}
	return nil
}

// cellClass maps a table cell code to a CSS class.
func cellClass(code string) string {
	switch code {
	case "A":
		return "attendance"
	case "A*":
		return "late"
	case "V":
		return "vacation"
	case "M":
		return "medical"
	case "HO":
		return "home-office"
	case "H":
		return "holiday"
	case "F":
		return "absence"
	default:
		return ""
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
