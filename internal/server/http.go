// Package server exposes the daily theme over HTTP and runs the parrotd
// listeners.
package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/tOgg1/parrot/internal/contact"
	"github.com/tOgg1/parrot/internal/logging"
	"github.com/tOgg1/parrot/internal/models"
	"github.com/tOgg1/parrot/internal/notify"
	"github.com/tOgg1/parrot/internal/present"
	"github.com/tOgg1/parrot/internal/rotation"
)

// Calendar request limits.
const (
	defaultCalendarDays = 7
	maxCalendarDays     = 366
)

// Handler serves the theme API.
type Handler struct {
	rotator *rotation.Rotator
	contact  *contact.Service
	activity *activityTracker
	logger   zerolog.Logger
	now      func() time.Time
}

// NewHandler creates a Handler. A nil contact service disables POST /api/contact.
func NewHandler(rotator *rotation.Rotator, contactSvc *contact.Service, logger zerolog.Logger) *Handler {
	return &Handler{
		rotator:  rotator,
		contact:  contactSvc,
		activity: &activityTracker{logger: logger},
		logger:   logger,
		now:      time.Now,
	}
}

// Routes returns the HTTP routes wrapped in request logging.
func (h *Handler) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/theme", h.today)
	mux.HandleFunc("GET /api/theme/{date}", h.forDate)
	mux.HandleFunc("GET /api/calendar", h.calendar)
	mux.HandleFunc("GET /theme.css", h.stylesheet)
	mux.HandleFunc("GET /favicon.svg", h.favicon)
	mux.HandleFunc("POST /api/contact", h.submitContact)
	mux.HandleFunc("GET /healthz", h.healthz)
	return h.instrument(mux)
}

func (h *Handler) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		started := time.Now()
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
		}
		w.Header().Set("X-Request-ID", requestID)

		logger := logging.WithRequest(h.logger, requestID)
		observer := &statusObserver{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(observer, r.WithContext(logging.WithContext(r.Context(), logger)))

		logger.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", observer.status).
			Int64("duration_ms", time.Since(started).Milliseconds()).
			Str("remote", r.RemoteAddr).
			Msg("http request")
	})
}

type statusObserver struct {
	http.ResponseWriter
	status int
}

func (o *statusObserver) WriteHeader(status int) {
	o.status = status
	o.ResponseWriter.WriteHeader(status)
}

func (h *Handler) today(w http.ResponseWriter, r *http.Request) {
	cur, err := h.rotator.Current()
	if err != nil {
		writeMappedErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, NewThemeView(cur))
}

func (h *Handler) forDate(w http.ResponseWriter, r *http.Request) {
	date, ok := h.parseDate(w, r, r.PathValue("date"))
	if !ok {
		return
	}
	cur, err := h.rotator.Select(date)
	if err != nil {
		writeMappedErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, NewThemeView(cur))
}

type calendarResponse struct {
	From string             `json:"from"`
	Days []rotation.Current `json:"days"`
}

func (h *Handler) calendar(w http.ResponseWriter, r *http.Request) {
	from := h.rotator.Today()
	if raw := r.URL.Query().Get("from"); raw != "" {
		parsed, ok := h.parseDate(w, r, raw)
		if !ok {
			return
		}
		from = parsed
	}

	days := defaultCalendarDays
	if raw := r.URL.Query().Get("days"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > maxCalendarDays {
			writeErr(w, http.StatusBadRequest, "BAD_DAYS", "days must be between 1 and 366")
			return
		}
		days = n
	}

	entries, err := Calendar(h.rotator, from, days)
	if err != nil {
		writeMappedErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, calendarResponse{From: from.Format(rotation.DateLayout), Days: entries})
}

// Calendar selects the theme for days consecutive dates starting at from.
func Calendar(rotator *rotation.Rotator, from time.Time, days int) ([]rotation.Current, error) {
	y, m, d := from.In(rotator.Location()).Date()
	out := make([]rotation.Current, 0, days)
	for i := 0; i < days; i++ {
		cur, err := rotator.Select(time.Date(y, m, d+i, 12, 0, 0, 0, rotator.Location()))
		if err != nil {
			return nil, err
		}
		out = append(out, cur)
	}
	return out, nil
}

func (h *Handler) stylesheet(w http.ResponseWriter, r *http.Request) {
	var (
		cur rotation.Current
		err error
	)
	if raw := r.URL.Query().Get("date"); raw != "" {
		date, ok := h.parseDate(w, r, raw)
		if !ok {
			return
		}
		cur, err = h.rotator.Select(date)
	} else {
		cur, err = h.rotator.Current()
	}
	if err != nil {
		writeMappedErr(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/css; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(present.Render(cur.Entry).CSS()))
}

func (h *Handler) favicon(w http.ResponseWriter, r *http.Request) {
	cur, err := h.rotator.Current()
	if err != nil {
		writeMappedErr(w, err)
		return
	}
	w.Header().Set("Cache-Control", "no-cache")
	http.Redirect(w, r, present.LogoPath(cur.Entry.Name), http.StatusFound)
}

type contactRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

type contactResponse struct {
	SubmissionID string              `json:"submission_id,omitempty"`
	Mailto       string              `json:"mailto"`
	WhatsApp     string              `json:"whatsapp"`
	OpenDelayMs  int64               `json:"open_delay_ms"`
	Notification notify.Notification `json:"notification"`
}

func (h *Handler) submitContact(w http.ResponseWriter, r *http.Request) {
	if h.contact == nil {
		writeErr(w, http.StatusNotFound, "NOT_FOUND", "endpoint not found")
		return
	}

	var req contactRequest
	if err := decodeJSONBody(w, r, maxContactBodyBytes, &req); err != nil {
		logger := logging.FromContext(r.Context())
		logger.Warn().Err(err).Msg("contact request rejected")
		return
	}

	sub := &models.ContactSubmission{Name: req.Name, Email: req.Email, Message: req.Message}
	if cur, err := h.rotator.Current(); err == nil {
		sub.Theme = cur.Entry.Name
	}

	result, err := h.contact.Submit(r.Context(), sub)
	if err != nil {
		status, body := mapError(err)
		failed := notify.ContactFailed(h.now())
		body.Notification = &failed
		writeJSON(w, status, body)
		return
	}

	writeJSON(w, http.StatusCreated, contactResponse{
		SubmissionID: result.Submission.ID,
		Mailto:       result.Links.Mailto,
		WhatsApp:     result.Links.WhatsApp,
		OpenDelayMs:  result.Links.OpenDelayMs(),
		Notification: result.Notification,
	})
}

type healthResponse struct {
	Status   string   `json:"status"`
	Theme    string   `json:"theme,omitempty"`
	Date     string   `json:"date,omitempty"`
	Activity Activity `json:"activity"`
}

func (h *Handler) healthz(w http.ResponseWriter, r *http.Request) {
	body := healthResponse{Status: "ok", Activity: h.activity.snapshot()}
	if cur, err := h.rotator.Current(); err == nil {
		body.Theme = cur.Entry.Name
		body.Date = cur.Date
	}
	writeJSON(w, http.StatusOK, body)
}

func (h *Handler) parseDate(w http.ResponseWriter, r *http.Request, raw string) (time.Time, bool) {
	date, err := time.ParseInLocation(rotation.DateLayout, raw, h.rotator.Location())
	if err != nil {
		logger := logging.FromContext(r.Context())
		logger.Debug().Str("date", raw).Msg("bad date")
		writeErr(w, http.StatusBadRequest, "BAD_DATE", "date must use YYYY-MM-DD")
		return time.Time{}, false
	}
	return date, true
}
