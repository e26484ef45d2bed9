package devserver

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/wanderlust-travel/wanderlust-go/pkg/api"
	"github.com/wanderlust-travel/wanderlust-go/pkg/requestid"
)

// DefaultSignupCode authorizes operator registrations unless overridden.
const DefaultSignupCode = "WANDERLUST-OPERATOR"

type account struct {
	user         api.User
	passwordHash []byte
}

// Server holds the in-memory state and the HTTP routes over it.
// Safe for concurrent use.
type Server struct {
	mu          sync.RWMutex
	users       map[string]*account    // user id -> account
	emails      map[string]string      // lowercased email -> user id
	tokens      map[string]string      // bearer token -> user id
	hotels      map[string]*api.Hotel  // hotel id -> hotel
	hotelOwners map[string]string      // hotel id -> operator user id
	messages    map[string]*api.Message

	signupCode string
	log        *slog.Logger
	router     chi.Router
	now        func() time.Time
}

// Option configures the Server.
type Option func(*Server)

// WithSignupCode overrides the operator signup code.
func WithSignupCode(code string) Option {
	return func(s *Server) {
		if code != "" {
			s.signupCode = code
		}
	}
}

// WithLogger sets the request logger.
func WithLogger(log *slog.Logger) Option {
	return func(s *Server) {
		if log != nil {
			s.log = log
		}
	}
}

// WithClock overrides the timestamp source, for deterministic tests.
func WithClock(now func() time.Time) Option {
	return func(s *Server) {
		if now != nil {
			s.now = now
		}
	}
}

// New creates an empty dev server.
func New(opts ...Option) *Server {
	s := &Server{
		users:       make(map[string]*account),
		emails:      make(map[string]string),
		tokens:      make(map[string]string),
		hotels:      make(map[string]*api.Hotel),
		hotelOwners: make(map[string]string),
		messages:    make(map[string]*api.Message),
		signupCode:  DefaultSignupCode,
		log:         slog.Default(),
		now:         time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}

	r := chi.NewRouter()
	r.Use(requestid.Middleware)
	r.Use(s.logRequests)

	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", s.handleRegister)
		r.Post("/login", s.handleLogin)
		r.With(s.requireAuth).Get("/profile", s.handleGetProfile)
		r.With(s.requireAuth).Put("/profile", s.handleUpdateProfile)
	})

	r.Route("/hotels", func(r chi.Router) {
		r.Get("/", s.handleListHotels)
		r.Get("/{id}", s.handleGetHotel)
		r.With(s.requireAuth).Post("/", s.handleCreateHotel)
		r.With(s.requireAuth).Put("/{id}", s.handleUpdateHotel)
		r.With(s.requireAuth).Delete("/{id}", s.handleDeleteHotel)
		r.With(s.requireAuth).Post("/{id}/favorite", s.handleToggleFavorite)
	})

	r.Route("/messages", func(r chi.Router) {
		r.Use(s.requireAuth)
		r.Get("/", s.handleListMessages)
		r.Get("/{id}", s.handleGetMessage)
		r.Post("/", s.handleSendMessage)
		r.Delete("/{id}", s.handleDeleteMessage)
	})

	r.With(s.requireAuth).Post("/upload/profile-photo", s.handleUploadProfilePhoto)

	s.router = r
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.log.Debug("request",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.String("request_id", requestid.FromContext(r.Context())),
		)
		next.ServeHTTP(w, r)
	})
}

type contextKey struct{ name string }

var userKey = &contextKey{"devserver.user"}

// requireAuth resolves the bearer token to a user and rejects the request
// with a 401 envelope otherwise.
func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			s.fail(w, http.StatusUnauthorized, "authorization required")
			return
		}

		s.mu.RLock()
		userID, found := s.tokens[token]
		s.mu.RUnlock()
		if !found {
			s.fail(w, http.StatusUnauthorized, "invalid or expired token")
			return
		}

		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), userKey, userID)))
	})
}

// currentUserID returns the authenticated user id placed by requireAuth.
func currentUserID(r *http.Request) string {
	id, _ := r.Context().Value(userKey).(string)
	return id
}

// currentAccount must only be called below requireAuth.
func (s *Server) currentAccountLocked(r *http.Request) *account {
	return s.users[currentUserID(r)]
}

func newToken() string {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		panic("devserver: crypto/rand unavailable: " + err.Error())
	}
	return base64.RawURLEncoding.EncodeToString(b)
}

type envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

func (s *Server) respond(w http.ResponseWriter, status int, env envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(env); err != nil {
		s.log.Error("failed to encode response", slog.Any("error", err))
	}
}

func (s *Server) ok(w http.ResponseWriter, status int, data any) {
	s.respond(w, status, envelope{Success: true, Data: data})
}

func (s *Server) fail(w http.ResponseWriter, status int, message string) {
	s.respond(w, status, envelope{Success: false, Message: message, Error: message})
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20)).Decode(v); err != nil {
		s.fail(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}
