// Package handlers exposes the analysis core over HTTP. Aggregate views
// are recomputed from the stored record set on every request; nothing is
// cached between calls.
package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/dvloznov/finview/internal/analytics"
	"github.com/dvloznov/finview/internal/api/middleware"
	"github.com/dvloznov/finview/internal/ingest"
	"github.com/dvloznov/finview/internal/insights"
	"github.com/dvloznov/finview/internal/session"
)

// maxUploadBytes caps CSV uploads; the parser is a whole-file batch
// transform, not a streaming one.
const maxUploadBytes = 10 << 20

// AnalysisHandler handles session and aggregate endpoints.
type AnalysisHandler struct {
	store    *session.Store
	parser   *ingest.Parser
	insights *insights.Service
	log      zerolog.Logger
}

// NewAnalysisHandler creates a new analysis handler.
func NewAnalysisHandler(store *session.Store, parser *ingest.Parser, svc *insights.Service, log zerolog.Logger) *AnalysisHandler {
	return &AnalysisHandler{
		store:    store,
		parser:   parser,
		insights: svc,
		log:      log,
	}
}

// Upload handles POST /api/sessions. The body is either a raw CSV or a
// multipart form with a "file" field. On success the session is ready
// and the two insight requests are started in the background; a schema
// failure produces a failed session and a 422.
func (h *AnalysisHandler) Upload(w http.ResponseWriter, r *http.Request) {
	raw, err := readCSVBody(r)
	if err != nil {
		middleware.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	if raw == "" {
		middleware.WriteError(w, http.StatusBadRequest, "File is empty")
		return
	}

	sess := h.store.Create()
	h.ingestInto(w, sess.ID, sess.Generation, raw, http.StatusCreated)
}

// ReUpload handles POST /api/sessions/:id, replacing the session's data
// with a fresh upload. Ready and failed sessions accept a new upload; a
// session still parsing one does not.
func (h *AnalysisHandler) ReUpload(w http.ResponseWriter, r *http.Request, sessionID string) {
	raw, err := readCSVBody(r)
	if err != nil {
		middleware.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	if raw == "" {
		middleware.WriteError(w, http.StatusBadRequest, "File is empty")
		return
	}

	generation, err := h.store.StartUpload(sessionID)
	if err != nil {
		var transitionErr *session.InvalidTransitionError
		switch {
		case errors.Is(err, session.ErrNotFound):
			middleware.WriteError(w, http.StatusNotFound, "Session not found")
		case errors.As(err, &transitionErr):
			middleware.WriteError(w, http.StatusConflict, "Session is busy with another upload")
		default:
			middleware.WriteError(w, http.StatusInternalServerError, "Failed to start upload")
		}
		return
	}

	h.ingestInto(w, sessionID, generation, raw, http.StatusOK)
}

func (h *AnalysisHandler) ingestInto(w http.ResponseWriter, sessionID string, generation int, raw string, successStatus int) {
	txs, stats, err := h.parser.Parse(raw)
	if err != nil {
		h.failSession(sessionID, err.Error())
		middleware.WriteJSON(w, http.StatusUnprocessableEntity, map[string]interface{}{
			"session_id": sessionID,
			"state":      session.StateFailed,
			"error":      err.Error(),
		})
		return
	}
	if len(txs) == 0 {
		const msg = "No valid transaction data found in the file"
		h.failSession(sessionID, msg)
		middleware.WriteJSON(w, http.StatusUnprocessableEntity, map[string]interface{}{
			"session_id": sessionID,
			"state":      session.StateFailed,
			"error":      msg,
		})
		return
	}

	if err := h.store.MarkReady(sessionID, txs, raw, stats.Skipped); err != nil {
		h.log.Error().Err(err).Str("session_id", sessionID).Msg("Failed to store parsed session")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to store session")
		return
	}

	h.log.Info().
		Str("session_id", sessionID).
		Int("parsed", stats.Parsed).
		Int("skipped", stats.Skipped).
		Msg("CSV parsed")

	// Advisory enrichment: run detached from the request so a slow or
	// failing model never blocks the upload response. The generation tag
	// lets the store reject the result if this upload gets replaced.
	go h.generateInsights(sessionID, generation, raw)

	middleware.WriteJSON(w, successStatus, map[string]interface{}{
		"session_id":        sessionID,
		"state":             session.StateReady,
		"transaction_count": len(txs),
		"skipped_rows":      stats.Skipped,
		"summary":           analytics.Summarize(txs),
		"categories":        analytics.Categories(txs),
	})
}

// GetSession handles GET /api/sessions/:id.
func (h *AnalysisHandler) GetSession(w http.ResponseWriter, r *http.Request, sessionID string) {
	sess, ok := h.loadSession(w, sessionID)
	if !ok {
		return
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"session_id":        sess.ID,
		"state":             sess.State,
		"error":             sess.Error,
		"transaction_count": len(sess.Transactions),
		"skipped_rows":      sess.SkippedRows,
		"insights_pending":  sess.InsightsPending(),
	})
}

// Reset handles DELETE /api/sessions/:id.
func (h *AnalysisHandler) Reset(w http.ResponseWriter, r *http.Request, sessionID string) {
	if err := h.store.Delete(sessionID); err != nil {
		if errors.Is(err, session.ErrNotFound) {
			middleware.WriteError(w, http.StatusNotFound, "Session not found")
			return
		}
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to reset session")
		return
	}
	middleware.WriteJSON(w, http.StatusOK, map[string]string{"state": string(session.StateEmpty)})
}

// Summary handles GET /api/sessions/:id/summary.
func (h *AnalysisHandler) Summary(w http.ResponseWriter, r *http.Request, sessionID string) {
	sess, ok := h.loadReadySession(w, sessionID)
	if !ok {
		return
	}
	filter, err := filterFromQuery(r)
	if err != nil {
		middleware.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	filtered := analytics.Apply(sess.Transactions, filter)
	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"summary":           analytics.Summarize(filtered),
		"transaction_count": len(filtered),
	})
}

// Categories handles GET /api/sessions/:id/categories.
func (h *AnalysisHandler) Categories(w http.ResponseWriter, r *http.Request, sessionID string) {
	sess, ok := h.loadReadySession(w, sessionID)
	if !ok {
		return
	}
	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"categories": analytics.Categories(sess.Transactions),
	})
}

// SpendingByCategory handles GET /api/sessions/:id/spending/by-category.
func (h *AnalysisHandler) SpendingByCategory(w http.ResponseWriter, r *http.Request, sessionID string) {
	sess, ok := h.loadReadySession(w, sessionID)
	if !ok {
		return
	}
	filter, err := filterFromQuery(r)
	if err != nil {
		middleware.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	topN := analytics.TopCategoriesBar
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			middleware.WriteError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		topN = n
	}

	filtered := analytics.Apply(sess.Transactions, filter)
	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"totals": analytics.CategoryTotals(filtered, topN),
	})
}

// SpendingDaily handles GET /api/sessions/:id/spending/daily.
func (h *AnalysisHandler) SpendingDaily(w http.ResponseWriter, r *http.Request, sessionID string) {
	sess, ok := h.loadReadySession(w, sessionID)
	if !ok {
		return
	}
	filter, err := filterFromQuery(r)
	if err != nil {
		middleware.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	filtered := analytics.Apply(sess.Transactions, filter)
	totals := analytics.DailyTotals(filtered)
	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"totals": totals,
		// Fewer than two buckets is not enough for a trend line; the
		// chart consumer decides what to render instead.
		"sufficient_for_trend": len(totals) >= 2,
	})
}

// Insights handles GET /api/sessions/:id/insights. Results and failure
// notices for the two requests are reported independently.
func (h *AnalysisHandler) Insights(w http.ResponseWriter, r *http.Request, sessionID string) {
	sess, ok := h.loadReadySession(w, sessionID)
	if !ok {
		return
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"pending":              sess.InsightsPending(),
		"visualizations":       sess.Visualizations,
		"visualizations_error": sess.VisualizationsErr,
		"date_ranges":          sess.DateRanges,
		"date_ranges_error":    sess.DateRangesErr,
	})
}

func (h *AnalysisHandler) generateInsights(sessionID string, generation int, raw string) {
	ctx := context.Background()
	bundle := h.insights.Generate(ctx, raw)

	if err := h.store.AttachInsights(sessionID, generation, bundle); err != nil {
		// Session was reset or re-uploaded while the model was thinking;
		// the result is simply dropped.
		h.log.Debug().Err(err).Str("session_id", sessionID).Msg("Discarding insights")
	}
}

func (h *AnalysisHandler) failSession(sessionID, reason string) {
	if err := h.store.MarkFailed(sessionID, reason); err != nil {
		h.log.Error().Err(err).Str("session_id", sessionID).Msg("Failed to mark session failed")
	}
}

func (h *AnalysisHandler) loadSession(w http.ResponseWriter, sessionID string) (session.Session, bool) {
	sess, err := h.store.Get(sessionID)
	if err != nil {
		if errors.Is(err, session.ErrNotFound) {
			middleware.WriteError(w, http.StatusNotFound, "Session not found")
		} else {
			middleware.WriteError(w, http.StatusInternalServerError, "Failed to load session")
		}
		return session.Session{}, false
	}
	return sess, true
}

func (h *AnalysisHandler) loadReadySession(w http.ResponseWriter, sessionID string) (session.Session, bool) {
	sess, ok := h.loadSession(w, sessionID)
	if !ok {
		return session.Session{}, false
	}
	if sess.State != session.StateReady {
		middleware.WriteError(w, http.StatusConflict, "Session has no parsed data")
		return session.Session{}, false
	}
	return sess, true
}

// readCSVBody extracts CSV text from either a multipart "file" field or
// the raw request body.
func readCSVBody(r *http.Request) (string, error) {
	r.Body = http.MaxBytesReader(nil, r.Body, maxUploadBytes)

	contentType := r.Header.Get("Content-Type")
	if strings.HasPrefix(contentType, "multipart/form-data") {
		if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
			return "", errors.New("Invalid multipart form")
		}
		file, _, err := r.FormFile("file")
		if err != nil {
			return "", errors.New("Multipart form is missing a 'file' field")
		}
		defer file.Close()

		data, err := io.ReadAll(file)
		if err != nil {
			return "", errors.New("Failed to read the file")
		}
		return string(data), nil
	}

	data, err := io.ReadAll(r.Body)
	if err != nil {
		return "", errors.New("Failed to read the request body")
	}
	return string(data), nil
}

// filterFromQuery builds an analytics filter from from/to/category query
// parameters. Dates are YYYY-MM-DD; the upper bound is inclusive through
// the end of its day.
func filterFromQuery(r *http.Request) (analytics.Filter, error) {
	var f analytics.Filter
	q := r.URL.Query()

	if v := q.Get("from"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			return f, errors.New("'from' must be a YYYY-MM-DD date")
		}
		f.From = &t
	}
	if v := q.Get("to"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			return f, errors.New("'to' must be a YYYY-MM-DD date")
		}
		end := t.AddDate(0, 0, 1).Add(-time.Nanosecond)
		f.To = &end
	}
	f.Category = q.Get("category")

	return f, nil
}
