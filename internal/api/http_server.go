package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"venuedesk/internal/config"
	"venuedesk/internal/metrics"
	"venuedesk/internal/models"
	"venuedesk/internal/reporting"
	"venuedesk/internal/service"
)

// HTTPServer exposes the booking, notification and reporting operations as a
// JSON API for the web front end.
type HTTPServer struct {
	cfg           config.APIConfig
	bookings      *service.BookingService
	notifications *service.NotificationService
	reporter      *reporting.Reporter
	catalog       config.CatalogConfig
	exportDir     string
	logger        *zerolog.Logger
	server        *http.Server
}

func NewHTTPServer(
	cfg config.APIConfig,
	bookings *service.BookingService,
	notifications *service.NotificationService,
	reporter *reporting.Reporter,
	catalog config.CatalogConfig,
	exportDir string,
	logger *zerolog.Logger,
) *HTTPServer {
	srv := &HTTPServer{
		cfg:           cfg,
		bookings:      bookings,
		notifications: notifications,
		reporter:      reporter,
		catalog:       catalog,
		exportDir:     exportDir,
		logger:        logger,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/bookings", srv.handleBookings)
	mux.HandleFunc("/api/v1/bookings/", srv.handleBookingByID)
	mux.HandleFunc("/api/v1/notifications", srv.handleNotifications)
	mux.HandleFunc("/api/v1/notifications/", srv.handleNotificationByID)
	mux.HandleFunc("/api/v1/reports", srv.handleReport)
	mux.HandleFunc("/api/v1/reports/venues", srv.handleVenueUtilization)
	mux.HandleFunc("/api/v1/reports/departments", srv.handleDepartmentPerformance)
	mux.HandleFunc("/api/v1/reports/export", srv.handleExport)
	mux.HandleFunc("/api/v1/catalog", srv.handleCatalog)
	mux.HandleFunc("/healthz", srv.handleHealth)

	limiter := newClientLimiter(cfg.RateLimit)
	handler := srv.loggingMiddleware(limiter.Wrap(mux))

	srv.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      15 * time.Second,
	}

	return srv
}

func (s *HTTPServer) Start() error {
	if s.server == nil {
		return fmt.Errorf("http server is not initialized")
	}
	s.logger.Info().Str("addr", s.server.Addr).Msg("HTTP API listening")
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *HTTPServer) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// Handler returns the root handler, for tests.
func (s *HTTPServer) Handler() http.Handler {
	return s.server.Handler
}

func (s *HTTPServer) handleBookings(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("bookings")

	switch r.Method {
	case http.MethodGet:
		s.listBookings(w, r)
	case http.MethodPost:
		s.createBooking(w, r)
	case http.MethodDelete:
		s.bulkDeleteBookings(w, r)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *HTTPServer) listBookings(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var (
		bookings []models.BookingRequest
		err      error
	)
	query := r.URL.Query()
	switch {
	case query.Has("q"):
		bookings, err = s.bookings.Search(ctx, query.Get("q"))
	case query.Has("status"):
		status := query.Get("status")
		if !models.ValidStatus(status) {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("unknown status %q", status))
			return
		}
		bookings, err = s.bookings.ListByStatus(ctx, status)
	case query.Has("start") && query.Has("end"):
		bookings, err = s.bookings.ListByEventDateRange(ctx, query.Get("start"), query.Get("end"))
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
	default:
		bookings, err = s.bookings.ListAll(ctx)
	}
	if err != nil {
		s.logger.Error().Err(err).Msg("list bookings")
		writeError(w, http.StatusInternalServerError, "failed to load bookings")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"bookings": bookings})
}

func (s *HTTPServer) createBooking(w http.ResponseWriter, r *http.Request) {
	var draft models.BookingRequest
	decoder := json.NewDecoder(r.Body)
	if err := decoder.Decode(&draft); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	booking, err := s.bookings.Create(r.Context(), draft)
	if err != nil {
		s.logger.Error().Err(err).Msg("create booking")
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, booking)
}

func (s *HTTPServer) bulkDeleteBookings(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	query := r.URL.Query()

	switch {
	case query.Has("status"):
		status := query.Get("status")
		if !models.ValidStatus(status) {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("unknown status %q", status))
			return
		}
		count := s.bookings.DeleteByStatus(ctx, status)
		writeJSON(w, http.StatusOK, map[string]any{"deleted": count})
	case query.Has("start") && query.Has("end"):
		count := s.bookings.DeleteByDateRange(ctx, query.Get("start"), query.Get("end"))
		writeJSON(w, http.StatusOK, map[string]any{"deleted": count})
	default:
		if !s.bookings.DeleteAll(ctx) {
			writeError(w, http.StatusInternalServerError, "failed to delete bookings")
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"deleted": "all"})
	}
}

func (s *HTTPServer) handleBookingByID(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("booking_by_id")

	rest := strings.TrimPrefix(r.URL.Path, "/api/v1/bookings/")
	id, action, _ := strings.Cut(rest, "/")
	if id == "" {
		writeError(w, http.StatusBadRequest, "booking id is required")
		return
	}

	switch {
	case action == "" && r.Method == http.MethodGet:
		s.getBooking(w, r, id)
	case action == "" && r.Method == http.MethodPatch:
		s.updateBooking(w, r, id)
	case action == "" && r.Method == http.MethodDelete:
		s.deleteBooking(w, r, id)
	case action == "approve" && r.Method == http.MethodPost:
		s.reviewBooking(w, r, id, true)
	case action == "reject" && r.Method == http.MethodPost:
		s.reviewBooking(w, r, id, false)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *HTTPServer) getBooking(w http.ResponseWriter, r *http.Request, id string) {
	booking, err := s.bookings.GetByID(r.Context(), id)
	if err != nil {
		s.logger.Error().Err(err).Str("booking_id", id).Msg("get booking")
		writeError(w, http.StatusInternalServerError, "failed to load booking")
		return
	}
	if booking == nil {
		writeError(w, http.StatusNotFound, "booking not found")
		return
	}
	writeJSON(w, http.StatusOK, booking)
}

func (s *HTTPServer) updateBooking(w http.ResponseWriter, r *http.Request, id string) {
	var upd models.BookingUpdate
	if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if upd.Status != nil && !models.ValidStatus(*upd.Status) {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("unknown status %q", *upd.Status))
		return
	}

	booking, err := s.bookings.Update(r.Context(), id, upd)
	if err != nil {
		s.logger.Error().Err(err).Str("booking_id", id).Msg("update booking")
		writeError(w, http.StatusInternalServerError, "failed to update booking")
		return
	}
	if booking == nil {
		writeError(w, http.StatusNotFound, "booking not found")
		return
	}
	writeJSON(w, http.StatusOK, booking)
}

func (s *HTTPServer) deleteBooking(w http.ResponseWriter, r *http.Request, id string) {
	if !s.bookings.Delete(r.Context(), id) {
		writeError(w, http.StatusNotFound, "booking not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"deleted": id})
}

type reviewRequest struct {
	ApproverName string `json:"approverName"`
	Reason       string `json:"reason,omitempty"`
}

func (s *HTTPServer) reviewBooking(w http.ResponseWriter, r *http.Request, id string, approve bool) {
	var body reviewRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if strings.TrimSpace(body.ApproverName) == "" {
		writeError(w, http.StatusBadRequest, "approverName is required")
		return
	}

	var (
		booking *models.BookingRequest
		err     error
	)
	if approve {
		booking, err = s.bookings.Approve(r.Context(), id, body.ApproverName)
	} else {
		booking, err = s.bookings.Reject(r.Context(), id, body.ApproverName, body.Reason)
	}
	if err != nil {
		s.logger.Error().Err(err).Str("booking_id", id).Msg("review booking")
		writeError(w, http.StatusInternalServerError, "failed to review booking")
		return
	}
	if booking == nil {
		writeError(w, http.StatusNotFound, "booking not found")
		return
	}
	writeJSON(w, http.StatusOK, booking)
}

func (s *HTTPServer) handleNotifications(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("notifications")
	ctx := r.Context()

	switch r.Method {
	case http.MethodGet:
		notifications, err := s.notifications.ListAll(ctx)
		if err != nil {
			s.logger.Error().Err(err).Msg("list notifications")
			writeError(w, http.StatusInternalServerError, "failed to load notifications")
			return
		}
		unread, err := s.notifications.UnreadCount(ctx)
		if err != nil {
			s.logger.Error().Err(err).Msg("count unread notifications")
			writeError(w, http.StatusInternalServerError, "failed to load notifications")
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"notifications": notifications,
			"unread":        unread,
		})
	case http.MethodDelete:
		if !s.notifications.DeleteAll(ctx) {
			writeError(w, http.StatusInternalServerError, "failed to delete notifications")
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"deleted": "all"})
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *HTTPServer) handleNotificationByID(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("notification_by_id")

	rest := strings.TrimPrefix(r.URL.Path, "/api/v1/notifications/")
	id, action, _ := strings.Cut(rest, "/")
	if id == "" || action != "read" || r.Method != http.MethodPost {
		writeError(w, http.StatusNotFound, "not found")
		return
	}

	if err := s.notifications.MarkRead(r.Context(), id); err != nil {
		s.logger.Error().Err(err).Str("notification_id", id).Msg("mark notification read")
		writeError(w, http.StatusInternalServerError, "failed to mark notification read")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"id": id, "read": true})
}

func (s *HTTPServer) handleReport(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("reports")
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	start := r.URL.Query().Get("start")
	end := r.URL.Query().Get("end")
	report, err := s.reporter.Generate(r.Context(), start, end)
	if err != nil {
		s.logger.Error().Err(err).Msg("generate report")
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (s *HTTPServer) handleVenueUtilization(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("report_venues")
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	utilization, err := s.reporter.VenueUtilization(r.Context())
	if err != nil {
		s.logger.Error().Err(err).Msg("venue utilization")
		writeError(w, http.StatusInternalServerError, "failed to compute utilization")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"venues": utilization})
}

func (s *HTTPServer) handleDepartmentPerformance(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("report_departments")
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	performance, err := s.reporter.DepartmentPerformance(r.Context())
	if err != nil {
		s.logger.Error().Err(err).Msg("department performance")
		writeError(w, http.StatusInternalServerError, "failed to compute performance")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"departments": performance})
}

func (s *HTTPServer) handleExport(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("report_export")
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	bookings, err := s.bookings.ListAll(r.Context())
	if err != nil {
		s.logger.Error().Err(err).Msg("export: load bookings")
		writeError(w, http.StatusInternalServerError, "failed to load bookings")
		return
	}

	switch format := r.URL.Query().Get("format"); format {
	case "", "csv":
		filename := reporting.CSVFilename(time.Now())
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
		_, _ = w.Write([]byte(reporting.ExportCSV(bookings)))
	case "xlsx":
		path, err := s.reporter.ExportExcel(bookings, s.exportDir)
		if err != nil {
			s.logger.Error().Err(err).Msg("export: excel")
			writeError(w, http.StatusInternalServerError, "failed to build excel export")
			return
		}
		http.ServeFile(w, r, path)
	default:
		writeError(w, http.StatusBadRequest, fmt.Sprintf("unknown export format %q", format))
	}
}

func (s *HTTPServer) handleCatalog(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("catalog")
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"venues":       s.catalog.Venues,
		"companies":    s.catalog.Companies,
		"designations": s.catalog.Designations,
	})
}

func (s *HTTPServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *HTTPServer) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(recorder, r)
		s.logger.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", recorder.status).
			Dur("duration", time.Since(start)).
			Msg("http request")
	})
}

func writeJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, statusCode int, message string) {
	writeJSON(w, statusCode, map[string]string{"error": message})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}
