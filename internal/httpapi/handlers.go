package httpapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"dining-search/internal/common/database"
	"dining-search/internal/common/errors"
	"dining-search/internal/common/events"
	"dining-search/internal/models"
)

type searchRequest struct {
	Query  string `json:"query" validate:"required,max=1000"`
	UserID string `json:"user_id" validate:"required,max=128"`
}

type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code      errors.ErrorCode `json:"code"`
	Message   string           `json:"message"`
	Details   string           `json:"details,omitempty"`
	RequestID string           `json:"request_id,omitempty"`
}

// searchCompleted is the payload of a search.completed event.
type searchCompleted struct {
	RequestID   string `json:"request_id"`
	UserID      string `json:"user_id"`
	Query       string `json:"query"`
	Outcome     string `json:"outcome"`
	VenueID     string `json:"venue_id,omitempty"`
	Restaurants int    `json:"restaurants"`
	DurationMs  int64  `json:"duration_ms"`
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	ctx := r.Context()
	reqID := requestIDFrom(ctx)

	var req searchRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&req); err != nil {
		s.writeError(w, reqID, errors.NewInvalidRequestError("invalid JSON body"))
		return
	}
	req.Query = strings.TrimSpace(req.Query)
	req.UserID = strings.TrimSpace(req.UserID)
	if err := s.validate.Struct(req); err != nil {
		s.writeError(w, reqID, errors.NewInvalidRequestError(validationDetails(err)))
		return
	}

	ctx, span := s.obs.StartSpan(ctx, "http.search")
	defer span.End()

	result, err := s.searcher.Run(ctx, models.Query{Text: req.Query, UserID: req.UserID, RequestID: reqID})
	outcome := outcomeOf(result, err)
	s.obs.RecordSearch(ctx, outcome)
	s.obs.RecordSearchDuration(ctx, time.Since(start), outcome)

	payload := searchCompleted{
		RequestID:  reqID,
		UserID:     req.UserID,
		Query:      req.Query,
		Outcome:    outcome,
		DurationMs: time.Since(start).Milliseconds(),
	}
	if result != nil {
		payload.Restaurants = len(result.Restaurants)
		if result.Venue != nil {
			payload.VenueID = result.Venue.ID
		}
	}
	if pubErr := s.publisher.Publish(ctx, events.NewEvent(events.TypeSearchCompleted, reqID, payload)); pubErr != nil {
		s.logger.Warn("search event not published", map[string]interface{}{
			"requestId": reqID,
			"error":     pubErr.Error(),
		})
	}

	if err != nil {
		s.writeError(w, reqID, errors.FromError(err))
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
		"time":   time.Now().Format(time.RFC3339),
	})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	failures := database.CheckAll(r.Context(), s.readyTimeout, s.stores)
	if len(failures) > 0 {
		names := make([]string, 0, len(failures))
		for name, err := range failures {
			names = append(names, name)
			s.logger.Warn("readiness check failed", map[string]interface{}{
				"store": name,
				"error": err.Error(),
			})
		}
		sort.Strings(names)
		writeJSON(w, http.StatusServiceUnavailable, map[string]interface{}{
			"status":   "not_ready",
			"failures": names,
			"time":     time.Now().Format(time.RFC3339),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "ready",
		"time":   time.Now().Format(time.RFC3339),
	})
}

func (s *Server) writeError(w http.ResponseWriter, reqID string, stdErr *errors.StandardError) {
	status := errors.HTTPStatus(stdErr.Code)
	fields := map[string]interface{}{
		"requestId": reqID,
		"code":      stdErr.Code,
		"status":    status,
	}
	if status >= http.StatusInternalServerError {
		s.logger.Error("search request failed", fields)
	} else {
		s.logger.Info("search request rejected", fields)
	}
	writeJSON(w, status, errorBody{Error: errorDetail{
		Code:      stdErr.Code,
		Message:   stdErr.Message,
		Details:   stdErr.Details,
		RequestID: reqID,
	}})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func outcomeOf(result *models.SearchResult, err error) string {
	switch {
	case err != nil:
		return strings.ToLower(string(errors.FromError(err).Code))
	case result.GroupDisambiguation != nil:
		return "disambiguation"
	default:
		return "success"
	}
}

func validationDetails(err error) string {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err.Error()
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		parts = append(parts, fmt.Sprintf("%s failed on '%s'", strings.ToLower(fe.Field()), fe.Tag()))
	}
	return strings.Join(parts, "; ")
}
