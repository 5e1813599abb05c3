package server

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/visionboard/pkg/board"
	"github.com/matzehuels/visionboard/pkg/errors"
	"github.com/matzehuels/visionboard/pkg/export"
	"github.com/matzehuels/visionboard/pkg/httputil"
	"github.com/matzehuels/visionboard/pkg/interaction"
	"github.com/matzehuels/visionboard/pkg/layout"
	"github.com/matzehuels/visionboard/pkg/observability"
	"github.com/matzehuels/visionboard/pkg/session"
)

// maxBodyBytes bounds JSON request bodies.
const maxBodyBytes = 1 << 20

// =============================================================================
// Request and response bodies
// =============================================================================

type createRequest struct {
	URLs []string `json:"urls"`
}

type eventsRequest struct {
	Origin interaction.Point  `json:"origin"`
	Events []interaction.Wire `json:"events"`
}

type eventsResponse struct {
	Consumed int            `json:"consumed"`
	Board    board.Snapshot `json:"board"`
}

type layoutResponse struct {
	Spec  layout.Spec   `json:"spec"`
	Rects []layout.Rect `json:"rects"`
}

type errorResponse struct {
	Code   errors.Code `json:"code"`
	Error  string      `json:"error"`
	Notice string      `json:"notice,omitempty"`
}

// =============================================================================
// Handlers
// =============================================================================

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	count, err := strconv.Atoi(q.Get("count"))
	if err != nil || count < 0 {
		s.writeError(w, http.StatusBadRequest, errors.New(errors.ErrCodeInvalidInput, "count must be a non-negative integer"))
		return
	}
	width, err := floatParam(q.Get("width"), board.Width)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	height, err := floatParam(q.Get("height"), board.Height)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	spec := layout.Plan(count, width, height)
	rects := layout.Seed(count, width, height)
	if rects == nil {
		rects = []layout.Rect{}
	}
	s.writeJSON(w, http.StatusOK, layoutResponse{Spec: spec, Rects: rects})
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := decodeBody(w, r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	if err := errors.ValidateImageURLs(req.URLs); err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	if err := httputil.CheckPublicURLs(req.URLs); err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}

	b, _, err := s.runner.Build(r.Context(), req.URLs)
	if stderrors.Is(err, board.ErrNoImages) {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	if err != nil {
		s.writeError(w, statusFor(err), err)
		return
	}

	if err := s.store.Set(r.Context(), session.New(b, s.ttl)); err != nil {
		s.writeError(w, http.StatusInternalServerError, errors.Wrap(errors.ErrCodeInternal, err, "save session"))
		return
	}
	w.Header().Set("Location", "/api/v1/boards/"+b.ID())
	s.writeJSON(w, http.StatusCreated, b.Snapshot())
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	s.writeJSON(w, http.StatusOK, sess.Snapshot)
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	var req eventsRequest
	if err := decodeBody(w, r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	events, err := interaction.DecodeAll(req.Events)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}

	unlock := s.locks.lock(chi.URLParam(r, "id"))
	defer unlock()

	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	b := sess.Board()
	consumed := s.runner.Replay(r.Context(), b, req.Origin, events)
	sess.Update(b, s.ttl)
	if err := s.store.Set(r.Context(), sess); err != nil {
		s.writeError(w, http.StatusInternalServerError, errors.Wrap(errors.ErrCodeInternal, err, "save session"))
		return
	}
	s.writeJSON(w, http.StatusOK, eventsResponse{Consumed: consumed, Board: sess.Snapshot})
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	f, err := export.ParseFormat(chi.URLParam(r, "format"))
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	sess, ok := s.session(w, r)
	if !ok {
		return
	}

	var notice string
	sink := &export.MemoryDownloader{}
	p := s.exporter.WithSink(sink, export.NotifierFunc(func(_ context.Context, msg string) {
		notice = msg
	}))
	a, err := p.Export(r.Context(), sess.Board(), f)
	if err != nil {
		status := http.StatusUnprocessableEntity
		if errors.Is(err, errors.ErrCodeExportInFlight) {
			status = http.StatusConflict
		}
		s.writeJSON(w, status, errorResponse{
			Code:   errors.GetCode(err),
			Error:  errors.UserMessage(err),
			Notice: notice,
		})
		return
	}

	w.Header().Set("Content-Type", a.MIMEType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", a.Filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(a.Data)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(a.Data)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	unlock := s.locks.lock(id)
	err := s.store.Delete(r.Context(), id)
	unlock()
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, errors.Wrap(errors.ErrCodeInternal, err, "delete session"))
		return
	}
	observability.Board().OnBoardReset(r.Context(), id)
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// Helpers
// =============================================================================

// session loads the board session named in the URL, writing 404 when it
// is missing or expired.
func (s *Server) session(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	id := chi.URLParam(r, "id")
	sess, err := s.store.Get(r.Context(), id)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, errors.Wrap(errors.ErrCodeInternal, err, "load session"))
		return nil, false
	}
	if sess == nil {
		s.writeError(w, http.StatusNotFound, errors.New(errors.ErrCodeBoardNotFound, "board %s not found", id))
		return nil, false
	}
	return sess, true
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Debug("write response", "error", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, err error) {
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	s.writeJSON(w, status, errorResponse{Code: code, Error: errors.UserMessage(err)})
}

func statusFor(err error) int {
	switch errors.GetCode(err) {
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidURL, errors.ErrCodeInvalidFormat,
		errors.ErrCodeInvalidEvent, errors.ErrCodeTooManyItems:
		return http.StatusBadRequest
	case errors.ErrCodeNotFound, errors.ErrCodeBoardNotFound, errors.ErrCodeSessionNotFound:
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid request body")
	}
	return nil
}

func floatParam(v string, def float64) (float64, error) {
	if v == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || f <= 0 {
		return 0, errors.New(errors.ErrCodeInvalidInput, "invalid dimension %q", v)
	}
	return f, nil
}
