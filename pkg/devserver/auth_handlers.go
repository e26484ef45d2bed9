package devserver

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/wanderlust-travel/wanderlust-go/pkg/api"
	"github.com/wanderlust-travel/wanderlust-go/pkg/validator"
)

type registerRequest struct {
	Email      string   `json:"email"`
	Password   string   `json:"password"`
	Name       string   `json:"name"`
	Role       api.Role `json:"role"`
	SignupCode string   `json:"signupCode"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !s.decode(w, r, &req) {
		return
	}

	if err := validator.Apply(
		validator.Required("email", req.Email),
		validator.ValidEmail("email", req.Email),
		validator.Required("name", req.Name),
		validator.Required("password", req.Password),
		validator.MinLen("password", req.Password, 8),
		validator.InList("role", req.Role, []api.Role{api.RoleStandard, api.RoleOperator}),
	); err != nil {
		s.fail(w, http.StatusBadRequest, err.Error())
		return
	}

	if req.Role == api.RoleOperator && req.SignupCode != s.signupCode {
		s.fail(w, http.StatusBadRequest, "invalid signup code")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		s.fail(w, http.StatusInternalServerError, "failed to process password")
		return
	}

	emailKey := strings.ToLower(req.Email)

	s.mu.Lock()
	if _, exists := s.emails[emailKey]; exists {
		s.mu.Unlock()
		s.fail(w, http.StatusBadRequest, "email is already registered")
		return
	}

	now := s.now()
	acct := &account{
		user: api.User{
			ID:        uuid.NewString(),
			Email:     req.Email,
			Name:      req.Name,
			Role:      req.Role,
			Favorites: []string{},
			CreatedAt: now,
			UpdatedAt: now,
		},
		passwordHash: hash,
	}
	s.users[acct.user.ID] = acct
	s.emails[emailKey] = acct.user.ID

	token := newToken()
	s.tokens[token] = acct.user.ID
	user := acct.user
	s.mu.Unlock()

	s.ok(w, http.StatusCreated, api.AuthPayload{User: user, Token: token})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !s.decode(w, r, &req) {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	userID, found := s.emails[strings.ToLower(req.Email)]
	if !found {
		s.fail(w, http.StatusBadRequest, "invalid email or password")
		return
	}

	acct := s.users[userID]
	if err := bcrypt.CompareHashAndPassword(acct.passwordHash, []byte(req.Password)); err != nil {
		s.fail(w, http.StatusBadRequest, "invalid email or password")
		return
	}

	token := newToken()
	s.tokens[token] = acct.user.ID

	s.ok(w, http.StatusOK, api.AuthPayload{User: acct.user, Token: token})
}

func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	acct := s.currentAccountLocked(r)
	user := acct.user
	s.mu.RUnlock()

	s.ok(w, http.StatusOK, user)
}

func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req api.UpdateProfileParams
	if !s.decode(w, r, &req) {
		return
	}

	s.mu.Lock()
	acct := s.currentAccountLocked(r)
	if req.Name != "" {
		acct.user.Name = req.Name
	}
	if req.ProfilePhoto != "" {
		acct.user.ProfilePhoto = req.ProfilePhoto
	}
	acct.user.UpdatedAt = s.now()
	user := acct.user
	s.mu.Unlock()

	s.ok(w, http.StatusOK, user)
}

// RevokeToken invalidates a previously issued token. Tests use it to model
// server-side session expiry.
func (s *Server) RevokeToken(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tokens, token)
}
