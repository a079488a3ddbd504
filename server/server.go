// Package server exposes the chat orchestrator over HTTP. Error responses
// carry a stable kind string and never leak internals.
package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/edupilot-ai/edupilot/artifact"
	"github.com/edupilot-ai/edupilot/core"
	"github.com/edupilot-ai/edupilot/logging"
	"github.com/edupilot-ai/edupilot/orchestrator"
)

// Stable error kinds exposed to callers.
const (
	ErrKindInvalidRequest  = "invalid_request"
	ErrKindSessionNotFound = "session_not_found"
	ErrKindNotFound        = "not_found"
	ErrKindInternal        = "internal_error"
)

// EventLister is the optional raw-log access used by the session events
// endpoint. The in-memory state store implements it.
type EventLister interface {
	Events(sessionID string) ([]core.Event, error)
}

// SessionEnder is the optional logical-delete hook used by the session
// delete endpoint.
type SessionEnder interface {
	EndSession(sessionID, author string) error
}

// CourseRegistrar is the optional write access used by the user course
// endpoint. The in-memory repository implements it.
type CourseRegistrar interface {
	PutCourse(courseID string, detail map[string]any)
}

// Options holds optional server collaborators.
type Options struct {
	// Memory backs the user history endpoint.
	Memory core.MemoryIndex
	// Artifacts backs the artifact endpoints.
	Artifacts core.ArtifactStore
	// Repository backs the user course endpoint when it also implements
	// CourseRegistrar.
	Repository core.Repository
	// Logger receives request diagnostics.
	Logger logging.Logger
}

// Server is the HTTP front end over the orchestrator and state store.
type Server struct {
	orch       *orchestrator.Orchestrator
	store      core.StateStore
	memory     core.MemoryIndex
	artifacts  core.ArtifactStore
	repository core.Repository
	logger     logging.Logger
	router     chi.Router
}

// New builds the server and its routes.
func New(orch *orchestrator.Orchestrator, store core.StateStore, optFns ...func(o *Options)) *Server {
	opts := Options{Logger: logging.NoOpLogger{}}
	for _, fn := range optFns {
		fn(&opts)
	}

	s := &Server{
		orch:       orch,
		store:      store,
		memory:     opts.Memory,
		artifacts:  opts.Artifacts,
		repository: opts.Repository,
		logger:     opts.Logger,
	}

	r := chi.NewRouter()
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Recoverer)

	r.Get("/health", s.handleHealth)
	r.Post("/chat", s.handleChat)

	r.Route("/sessions", func(r chi.Router) {
		r.Post("/", s.handleCreateSession)
		r.Get("/{sessionID}", s.handleSessionState)
		r.Put("/{sessionID}", s.handleUpdateSession)
		r.Get("/{sessionID}/events", s.handleSessionEvents)
		r.Delete("/{sessionID}", s.handleEndSession)
		r.Get("/{sessionID}/artifacts", s.handleListArtifacts)
		r.Get("/{sessionID}/artifacts/{name}", s.handleLoadArtifact)
	})

	r.Route("/users/{userID}", func(r chi.Router) {
		r.Get("/history", s.handleUserHistory)
		r.Post("/courses", s.handleRegisterCourse)
	})

	s.router = r
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

type chatRequest struct {
	SessionID string            `json:"sessionId"`
	Message   string            `json:"message"`
	Profile   *core.UserProfile `json:"userProfile,omitempty"`
	Course    *core.Course      `json:"course,omitempty"`
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, ErrKindInvalidRequest, "request body must be valid JSON")
		return
	}
	// A whitespace-only message still reaches the orchestrator, which
	// re-prompts without changing state; only a missing message is rejected.
	if req.Message == "" {
		s.respondError(w, http.StatusBadRequest, ErrKindInvalidRequest, "message is required")
		return
	}

	resp, err := s.orch.HandleTurn(r.Context(), orchestrator.TurnRequest{
		SessionID: req.SessionID,
		Message:   req.Message,
		Profile:   req.Profile,
		Course:    req.Course,
	})
	if err != nil {
		s.logger.Error("turn failed", "error", err)
		s.respondError(w, http.StatusInternalServerError, ErrKindInternal, "unable to process the message")
		return
	}
	s.respondJSON(w, http.StatusOK, resp)
}

type createSessionRequest struct {
	UserID string `json:"userId"`
}

type createSessionResponse struct {
	SessionID string `json:"sessionId"`
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req createSessionRequest
	if r.Body != nil {
		_ = json.NewDecoder(r.Body).Decode(&req)
	}
	ownerID := req.UserID
	if ownerID == "" {
		ownerID = orchestrator.DefaultOwnerID
	}

	sessionID, err := s.store.CreateSession(ownerID, core.StateDelta{
		core.KeyCurrentStep: string(orchestrator.StepObjectivesCaptured),
	})
	if err != nil {
		s.logger.Error("session creation failed", "error", err)
		s.respondError(w, http.StatusInternalServerError, ErrKindInternal, "unable to create a session")
		return
	}
	s.respondJSON(w, http.StatusCreated, createSessionResponse{SessionID: sessionID})
}

func (s *Server) handleSessionState(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	snap, err := s.store.Snapshot(sessionID)
	if err != nil {
		s.respondStoreError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]any{
		"sessionId": sessionID,
		"state":     snap,
	})
}

func (s *Server) handleUpdateSession(w http.ResponseWriter, r *http.Request) {
	var patch core.StateDelta
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		s.respondError(w, http.StatusBadRequest, ErrKindInvalidRequest, "request body must be a JSON object of state keys")
		return
	}
	if len(patch) == 0 {
		s.respondError(w, http.StatusBadRequest, ErrKindInvalidRequest, "at least one state key is required")
		return
	}
	if raw, ok := patch[core.KeyCurrentStep]; ok {
		value, _ := raw.(string)
		if _, err := orchestrator.ParseStep(value); err != nil {
			s.respondError(w, http.StatusBadRequest, ErrKindInvalidRequest, "unrecognized workflow step")
			return
		}
	}

	sessionID := chi.URLParam(r, "sessionID")
	if err := s.store.AppendEvent(sessionID, patch, core.AuthorAPI); err != nil {
		s.respondStoreError(w, err)
		return
	}
	snap, err := s.store.Snapshot(sessionID)
	if err != nil {
		s.respondStoreError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]any{
		"sessionId": sessionID,
		"state":     snap,
	})
}

func (s *Server) handleSessionEvents(w http.ResponseWriter, r *http.Request) {
	lister, ok := s.store.(EventLister)
	if !ok {
		s.respondError(w, http.StatusNotFound, ErrKindNotFound, "event log access is not available")
		return
	}
	sessionID := chi.URLParam(r, "sessionID")
	events, err := lister.Events(sessionID)
	if err != nil {
		s.respondStoreError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]any{
		"sessionId": sessionID,
		"events":    events,
	})
}

func (s *Server) handleEndSession(w http.ResponseWriter, r *http.Request) {
	ender, ok := s.store.(SessionEnder)
	if !ok {
		s.respondError(w, http.StatusNotFound, ErrKindNotFound, "session deletion is not available")
		return
	}
	sessionID := chi.URLParam(r, "sessionID")
	if err := ender.EndSession(sessionID, core.AuthorAPI); err != nil {
		s.respondStoreError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]any{"sessionId": sessionID, "ended": true})
}

func (s *Server) handleUserHistory(w http.ResponseWriter, r *http.Request) {
	if s.memory == nil {
		s.respondError(w, http.StatusNotFound, ErrKindNotFound, "memory index is not available")
		return
	}
	userID := chi.URLParam(r, "userID")
	records, err := s.memory.Search(r.URL.Query().Get("q"), userID)
	if err != nil {
		s.logger.Error("memory search failed", "user_id", userID, "error", err)
		s.respondError(w, http.StatusInternalServerError, ErrKindInternal, "unable to search history")
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]any{
		"userId":  userID,
		"records": records,
	})
}

func (s *Server) handleRegisterCourse(w http.ResponseWriter, r *http.Request) {
	registrar, ok := s.repository.(CourseRegistrar)
	if !ok {
		s.respondError(w, http.StatusNotFound, ErrKindNotFound, "course registration is not available")
		return
	}

	var course core.Course
	if err := json.NewDecoder(r.Body).Decode(&course); err != nil {
		s.respondError(w, http.StatusBadRequest, ErrKindInvalidRequest, "request body must be valid JSON")
		return
	}
	if course.ID == "" || course.Title == "" {
		s.respondError(w, http.StatusBadRequest, ErrKindInvalidRequest, "course id and title are required")
		return
	}

	detail := map[string]any{
		"name":    course.Title,
		"summary": course.Description,
	}
	for k, v := range course.Details {
		detail[k] = v
	}
	registrar.PutCourse(course.ID, detail)

	userID := chi.URLParam(r, "userID")
	if s.memory != nil {
		content := "Course: " + course.Title + " (" + course.Level + ")"
		if err := s.memory.Add(userID, content, map[string]any{"course_id": course.ID}); err != nil {
			s.logger.Warn("memory add failed", "user_id", userID, "error", err)
		}
	}

	s.respondJSON(w, http.StatusCreated, map[string]any{
		"userId":   userID,
		"courseId": course.ID,
	})
}

func (s *Server) handleListArtifacts(w http.ResponseWriter, r *http.Request) {
	if s.artifacts == nil {
		s.respondError(w, http.StatusNotFound, ErrKindNotFound, "artifact store is not available")
		return
	}
	sessionID := chi.URLParam(r, "sessionID")
	names, err := s.artifacts.List(sessionID)
	if err != nil {
		s.logger.Error("artifact list failed", "session_id", sessionID, "error", err)
		s.respondError(w, http.StatusInternalServerError, ErrKindInternal, "unable to list artifacts")
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]any{
		"sessionId": sessionID,
		"artifacts": names,
	})
}

func (s *Server) handleLoadArtifact(w http.ResponseWriter, r *http.Request) {
	if s.artifacts == nil {
		s.respondError(w, http.StatusNotFound, ErrKindNotFound, "artifact store is not available")
		return
	}
	sessionID := chi.URLParam(r, "sessionID")
	name := chi.URLParam(r, "name")
	data, err := s.artifacts.Load(sessionID, name)
	if err != nil {
		if errors.Is(err, artifact.ErrNotFound) {
			s.respondError(w, http.StatusNotFound, ErrKindNotFound, "artifact not found")
			return
		}
		s.logger.Error("artifact load failed", "session_id", sessionID, "error", err)
		s.respondError(w, http.StatusInternalServerError, ErrKindInternal, "unable to load artifact")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type errorResponse struct {
	Status string `json:"status"`
	Kind   string `json:"kind"`
	Error  string `json:"error"`
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error("response encoding failed", "error", err)
	}
}

func (s *Server) respondError(w http.ResponseWriter, status int, kind, message string) {
	s.respondJSON(w, status, errorResponse{Status: "error", Kind: kind, Error: message})
}

func (s *Server) respondStoreError(w http.ResponseWriter, err error) {
	if errors.Is(err, core.ErrSessionNotFound) {
		s.respondError(w, http.StatusNotFound, ErrKindSessionNotFound, "session not found")
		return
	}
	s.logger.Error("store access failed", "error", err)
	s.respondError(w, http.StatusInternalServerError, ErrKindInternal, "storage failure")
}
