// Package taigatest provides an in-process fake of the Taiga API endpoints
// used by the connector.
package taigatest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"

	"sentry-taiga/internal/common/taiga"
)

const Token = "test-token"

// Request is a recorded create call.
type Request struct {
	Path string
	Body map[string]interface{}
}

// Server is a fake Taiga API. Configure the exported fields before issuing
// requests.
type Server struct {
	*httptest.Server

	Username string
	Password string
	Projects map[string]taiga.Project

	// Ref returned by the next created item.
	NextRef int64

	// Non-zero statuses force failures on the matching endpoint.
	AuthStatus      int
	ProjectStatus   int
	IssueStatus     int
	UserStoryStatus int

	mu       sync.Mutex
	requests []Request
}

// NewServer starts a fake accepting username/password and knowing no projects.
func NewServer(username, password string) *Server {
	s := &Server{
		Username: username,
		Password: password,
		Projects: map[string]taiga.Project{},
		NextRef:  1,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/auth", s.handleAuth)
	mux.HandleFunc("/api/v1/projects/by_slug", s.authorized(s.handleProject))
	mux.HandleFunc("/api/v1/issues", s.authorized(s.handleCreate("/api/v1/issues", func() int { return s.IssueStatus })))
	mux.HandleFunc("/api/v1/userstories", s.authorized(s.handleCreate("/api/v1/userstories", func() int { return s.UserStoryStatus })))

	s.Server = httptest.NewServer(mux)
	return s
}

// AddProject registers a project under its slug.
func (s *Server) AddProject(p taiga.Project) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Projects[p.Slug] = p
}

// Requests returns the create calls received so far.
func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Request, len(s.requests))
	copy(out, s.requests)
	return out
}

// LastRequest returns the most recent create call, or nil.
func (s *Server) LastRequest() *Request {
	reqs := s.Requests()
	if len(reqs) == 0 {
		return nil
	}
	return &reqs[len(reqs)-1]
}

func (s *Server) handleAuth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if s.AuthStatus != 0 {
		writeJSON(w, s.AuthStatus, map[string]string{"_error_message": "auth unavailable"})
		return
	}

	var body struct {
		Type     string `json:"type"`
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"_error_message": "invalid body"})
		return
	}
	if body.Type != "normal" || body.Username != s.Username || body.Password != s.Password {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"_error_message": "Username or password does not matches user."})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"auth_token": Token})
}

func (s *Server) handleProject(w http.ResponseWriter, r *http.Request) {
	if s.ProjectStatus != 0 {
		writeJSON(w, s.ProjectStatus, map[string]string{"_error_message": "project lookup failed"})
		return
	}
	s.mu.Lock()
	p, ok := s.Projects[r.URL.Query().Get("slug")]
	s.mu.Unlock()
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"_error_message": "No Project matches the given query."})
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleCreate(path string, status func() int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		var body map[string]interface{}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"_error_message": "invalid body"})
			return
		}

		s.mu.Lock()
		s.requests = append(s.requests, Request{Path: path, Body: body})
		ref := s.NextRef
		s.NextRef++
		s.mu.Unlock()

		if code := status(); code != 0 {
			writeJSON(w, code, map[string]string{"_error_message": "create rejected"})
			return
		}

		subject, _ := body["subject"].(string)
		writeJSON(w, http.StatusCreated, taiga.Item{ID: ref * 100, Ref: ref, Subject: subject})
	}
}

func (s *Server) authorized(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer "+Token {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Authentication credentials were not provided."})
			return
		}
		next(w, r)
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
