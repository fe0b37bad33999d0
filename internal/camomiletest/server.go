// Package camomiletest provides an in-memory Camomile server for tests. It
// speaks the subset of the HTTP API the client exercises: authentication,
// CRUD on every resource kind, permissions, metadata, count routes, queue
// rotation and server-sent events. State lives in process memory and is
// discarded with the server.
package camomiletest

import (
	"context"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"
)

// Versions reported by the version route.
const (
	ServerVersion = "0.9.0-mock"
	APIVersion    = "0.9.0"
)

// SessionCookie is the name of the session cookie the mock issues on login.
const SessionCookie = "camomile.sid"

type contextKey string

const userContextKey = contextKey("user")

// Server is the mock Camomile server. Create instances with NewServer and
// serve the Router with httptest.NewServer.
type Server struct {
	Router *chi.Mux

	store  *store
	hub    *eventHub
	logger zerolog.Logger
}

// NewServer creates a mock server with an empty store and mounts all
// handlers.
func NewServer() *Server {
	s := &Server{
		Router: chi.NewRouter(),
		store:  newStore(),
		hub:    newEventHub(),
		logger: zerolog.New(os.Stderr).With().Timestamp().Logger().Level(zerolog.Disabled),
	}
	s.mountHandlers()
	return s
}

// SetLogger enables request logging, for debugging a failing test.
func (s *Server) SetLogger(logger zerolog.Logger) {
	s.logger = logger
}

// AddUser seeds an account. Role is "user" or "admin".
func (s *Server) AddUser(username, password, role string) string {
	doc := s.store.addAccount(username, password, role)
	return doc.id()
}

func (s *Server) mountHandlers() {
	s.Router.Use(s.requestLogger)
	s.Router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
	}))

	s.Router.Post("/login", s.handleLogin)
	s.Router.Get("/date", s.handleDate)
	s.Router.Get("/version", s.handleVersion)

	s.Router.Group(func(r chi.Router) {
		r.Use(s.requireSession)

		r.Post("/logout", s.handleLogout)
		r.Get("/me", s.handleMe)
		r.Put("/me", s.handleUpdatePassword)
		r.Get("/me/group", s.handleMyGroups)

		s.mountUserRoutes(r)
		s.mountGroupRoutes(r)
		s.mountCorpusRoutes(r)
		s.mountMediumRoutes(r)
		s.mountLayerRoutes(r)
		s.mountAnnotationRoutes(r)
		s.mountQueueRoutes(r)
		s.mountListenRoutes(r)
	})
}

// requestLogger logs method, path and duration for each request.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.logger.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Dur("duration", time.Since(start)).
			Msg("request")
	})
}

// requireSession resolves the session from the bearer token or the session
// cookie and rejects the request when neither is valid.
func (s *Server) requireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := ""
		if auth := r.Header.Get("Authorization"); strings.HasPrefix(auth, "Bearer ") {
			token = strings.TrimPrefix(auth, "Bearer ")
		} else if c, err := r.Cookie(SessionCookie); err == nil {
			token = c.Value
		}

		user, ok := s.store.userForToken(token)
		if !ok {
			sendError(w, http.StatusUnauthorized, "not authenticated")
			return
		}

		ctx := context.WithValue(r.Context(), userContextKey, user)
		ctx = context.WithValue(ctx, contextKey("token"), token)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func sessionUser(r *http.Request) document {
	user, _ := r.Context().Value(userContextKey).(document)
	return user
}

func sessionToken(r *http.Request) string {
	token, _ := r.Context().Value(contextKey("token")).(string)
	return token
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var creds struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if !readJSON(w, r, &creds) {
		return
	}

	_, token, ok := s.store.authenticate(creds.Username, creds.Password)
	if !ok {
		sendError(w, http.StatusUnauthorized, "authentication failed")
		return
	}

	http.SetCookie(w, &http.Cookie{Name: SessionCookie, Value: token, Path: "/"})
	sendJSON(w, http.StatusOK, map[string]string{
		"success": "Authentication succeeded.",
		"token":   token,
	})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	s.store.dropSession(sessionToken(r))
	sendJSON(w, http.StatusOK, map[string]string{"success": "Logout succeeded."})
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	sendJSON(w, http.StatusOK, sessionUser(r))
}

func (s *Server) handleUpdatePassword(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Password string `json:"password"`
	}
	if !readJSON(w, r, &body) {
		return
	}
	if body.Password == "" {
		sendError(w, http.StatusBadRequest, "password is required")
		return
	}

	username, _ := sessionUser(r)["username"].(string)
	s.store.mu.Lock()
	if acct, ok := s.store.accounts[username]; ok {
		acct.password = body.Password
	}
	s.store.mu.Unlock()
	sendJSON(w, http.StatusOK, map[string]string{"success": "Password updated."})
}

func (s *Server) handleMyGroups(w http.ResponseWriter, r *http.Request) {
	s.sendGroupsOfUser(w, sessionUser(r).id())
}

func (s *Server) handleDate(w http.ResponseWriter, r *http.Request) {
	sendJSON(w, http.StatusOK, map[string]string{
		"date": time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	sendJSON(w, http.StatusOK, map[string]string{
		"version":     ServerVersion,
		"api_version": APIVersion,
	})
}
