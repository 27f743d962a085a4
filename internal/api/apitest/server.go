// Package apitest is an in-memory stand-in for the EatFit backend. It is
// used by package tests through httptest and by cmd/devserver for local
// development of the TUI against a live but throwaway API.
package apitest

import (
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"

	"eatfit/internal/model"
)

const bcryptCost = bcrypt.MinCost // keep test suites fast

// Server is an in-memory EatFit backend speaking the same wire format as
// the real one: form-encoded login, FastAPI-style {"detail": ...} errors,
// bearer-guarded /users/me.
type Server struct {
	secret   []byte
	tokenTTL time.Duration
	validate *validator.Validate

	mu       sync.Mutex
	accounts map[string]*account
}

type account struct {
	profile      model.UserProfile
	passwordHash []byte
}

// Option customizes a Server.
type Option func(*Server)

// WithSecret overrides the JWT signing secret.
func WithSecret(secret string) Option {
	return func(s *Server) { s.secret = []byte(secret) }
}

// WithTokenTTL overrides token lifetime; a negative TTL mints expired tokens.
func WithTokenTTL(ttl time.Duration) Option {
	return func(s *Server) { s.tokenTTL = ttl }
}

// New creates an empty fake backend.
func New(opts ...Option) *Server {
	s := &Server{
		secret:   []byte("apitest-secret"),
		tokenTTL: time.Hour,
		validate: validator.New(),
		accounts: make(map[string]*account),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Seed registers an account directly, bypassing the signup endpoint.
func (s *Server) Seed(input model.SignupInput) *model.UserProfile {
	hash, _ := bcrypt.GenerateFromPassword([]byte(input.Password), bcryptCost)
	profile := newProfile(input)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.accounts[input.Email] = &account{profile: profile, passwordHash: hash}
	return &profile
}

// Profile returns a copy of the stored profile for email, if any.
func (s *Server) Profile(email string) *model.UserProfile {
	s.mu.Lock()
	defer s.mu.Unlock()
	if acct, ok := s.accounts[email]; ok {
		p := acct.profile
		return &p
	}
	return nil
}

// MintToken issues a bearer token for email without a login round trip.
func (s *Server) MintToken(email string) string {
	tok, _ := s.signToken(email)
	return tok
}

// Handler returns the HTTP handler for the fake backend.
func (s *Server) Handler() http.Handler {
	e := echo.New()
	e.HideBanner = true

	e.POST("/auth/login", s.login)
	e.POST("/users/", s.signup)

	secured := e.Group("/users", echojwt.WithConfig(echojwt.Config{
		SigningKey:  s.secret,
		TokenLookup: "header:" + echo.HeaderAuthorization + ":Bearer ",
	}))
	secured.GET("/me", s.currentUser)
	secured.PATCH("/me", s.updateCurrentUser)

	return e
}

func (s *Server) login(c echo.Context) error {
	email := c.FormValue("username")
	password := c.FormValue("password")

	s.mu.Lock()
	acct, ok := s.accounts[email]
	s.mu.Unlock()

	if !ok || bcrypt.CompareHashAndPassword(acct.passwordHash, []byte(password)) != nil {
		return detail(c, http.StatusUnauthorized, "Incorrect username or password")
	}

	tok, err := s.signToken(email)
	if err != nil {
		return detail(c, http.StatusInternalServerError, "could not sign token")
	}
	return c.JSON(http.StatusOK, model.Token{AccessToken: tok, TokenType: "bearer"})
}

func (s *Server) signup(c echo.Context) error {
	var input model.SignupInput
	if err := c.Bind(&input); err != nil {
		return detail(c, http.StatusUnprocessableEntity, "invalid request body")
	}
	if err := s.validate.Struct(input); err != nil {
		return detail(c, http.StatusUnprocessableEntity, err.Error())
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.accounts[input.Email]; exists {
		return detail(c, http.StatusBadRequest, "The user with this username already exists in the system.")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcryptCost)
	if err != nil {
		return detail(c, http.StatusInternalServerError, "could not hash password")
	}

	profile := newProfile(input)
	s.accounts[input.Email] = &account{profile: profile, passwordHash: hash}
	return c.JSON(http.StatusCreated, profile)
}

func (s *Server) currentUser(c echo.Context) error {
	acct, ok := s.authenticated(c)
	if !ok {
		return nil
	}

	s.mu.Lock()
	profile := acct.profile
	s.mu.Unlock()
	return c.JSON(http.StatusOK, profile)
}

func (s *Server) updateCurrentUser(c echo.Context) error {
	var patch model.ProfileUpdate
	if err := c.Bind(&patch); err != nil {
		return detail(c, http.StatusUnprocessableEntity, "invalid request body")
	}
	if err := s.validate.Struct(patch); err != nil {
		return detail(c, http.StatusUnprocessableEntity, err.Error())
	}

	acct, ok := s.authenticated(c)
	if !ok {
		return nil
	}

	s.mu.Lock()
	applyPatch(&acct.profile, patch)
	acct.profile.UpdatedAt = time.Now().UTC()
	profile := acct.profile
	s.mu.Unlock()
	return c.JSON(http.StatusOK, profile)
}

// authenticated resolves the account behind the already-verified bearer
// token. The echojwt middleware has checked the signature and expiry; this
// re-parses the token only to read the subject. When it reports false the
// 401 response has already been written.
func (s *Server) authenticated(c echo.Context) (*account, bool) {
	raw := strings.TrimPrefix(c.Request().Header.Get(echo.HeaderAuthorization), "Bearer ")
	claims := &jwt.RegisteredClaims{}
	if _, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (interface{}, error) {
		return s.secret, nil
	}); err != nil {
		detail(c, http.StatusUnauthorized, "Could not validate credentials")
		return nil, false
	}

	s.mu.Lock()
	acct, ok := s.accounts[claims.Subject]
	s.mu.Unlock()
	if !ok {
		detail(c, http.StatusUnauthorized, "Could not validate credentials")
		return nil, false
	}
	return acct, true
}

func (s *Server) signToken(email string) (string, error) {
	now := time.Now()
	claims := &jwt.RegisteredClaims{
		Subject:   email,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

func newProfile(input model.SignupInput) model.UserProfile {
	now := time.Now().UTC()
	return model.UserProfile{
		ID:            uuid.New(),
		Email:         input.Email,
		Height:        input.Height,
		Weight:        input.Weight,
		Age:           input.Age,
		Sex:           input.Sex,
		ActivityLevel: input.ActivityLevel,
		FitnessGoal:   input.FitnessGoal,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

func applyPatch(p *model.UserProfile, patch model.ProfileUpdate) {
	if patch.Height != nil {
		p.Height = patch.Height
	}
	if patch.Weight != nil {
		p.Weight = patch.Weight
	}
	if patch.Age != nil {
		p.Age = patch.Age
	}
	if patch.Sex != nil {
		p.Sex = patch.Sex
	}
	if patch.ActivityLevel != nil {
		p.ActivityLevel = patch.ActivityLevel
	}
	if patch.FitnessGoal != nil {
		p.FitnessGoal = patch.FitnessGoal
	}
}

func detail(c echo.Context, status int, msg string) error {
	return c.JSON(status, echo.Map{"detail": msg})
}
