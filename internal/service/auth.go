package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/msomdec/shoplist/internal/domain"
	"github.com/msomdec/shoplist/internal/observability"
	"golang.org/x/crypto/bcrypt"
)

// TokenTTL is how long an issued bearer token stays valid.
const TokenTTL = 24 * time.Hour

// Claims are the JWT claims issued by AuthService. Subject carries the user
// id and ID (jti) a fresh UUID per issuance, so two logins in the same
// second still produce different tokens.
type Claims struct {
	jwt.RegisteredClaims
}

// AuthService handles user registration, login, and JWT token operations.
type AuthService struct {
	store      domain.DataStore
	validate   *Validator
	jwtSecret  []byte
	bcryptCost int

	dummyOnce sync.Once
	dummyHash []byte
}

// NewAuthService creates a new AuthService.
func NewAuthService(store domain.DataStore, jwtSecret string, bcryptCost int) *AuthService {
	return &AuthService{
		store:      store,
		validate:   NewValidator(),
		jwtSecret:  []byte(jwtSecret),
		bcryptCost: bcryptCost,
	}
}

type registration struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Email    string `json:"email" validate:"required,email,max=254"`
	Password string `json:"password" validate:"required,password,max=72"`
}

// Register creates a new user account together with its default shopping
// list and returns a bearer token for it.
func (s *AuthService) Register(ctx context.Context, username, email, password string) (string, *domain.User, error) {
	req := registration{
		Username: strings.TrimSpace(username),
		Email:    normalizeEmail(email),
		Password: password,
	}
	if err := s.validate.Struct(req); err != nil {
		return "", nil, err
	}

	if err := s.checkAvailable(ctx, req.Username, req.Email); err != nil {
		return "", nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.bcryptCost)
	if err != nil {
		return "", nil, fmt.Errorf("hash password: %w", err)
	}

	user := &domain.User{
		ID:           uuid.NewString(),
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: string(hash),
	}
	err = runUnit(ctx, s.store, "auth.register", func(ctx context.Context, st domain.Store) error {
		if err := st.Users().Create(ctx, user); err != nil {
			return err
		}
		list := &domain.ShoppingList{ID: uuid.NewString(), UserID: user.ID, Name: domain.DefaultListName}
		return st.Lists().Create(ctx, list)
	})
	if err != nil {
		return "", nil, fmt.Errorf("create user: %w", err)
	}

	token, err := s.issueToken(user.ID)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

func (s *AuthService) checkAvailable(ctx context.Context, username, email string) error {
	if _, err := s.store.Users().GetByUsername(ctx, username); err == nil {
		return fmt.Errorf("%w: username is already taken", domain.ErrConflict)
	} else if !errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("check username: %w", err)
	}

	if _, err := s.store.Users().GetByEmail(ctx, email); err == nil {
		return fmt.Errorf("%w: email is already registered", domain.ErrConflict)
	} else if !errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("check email: %w", err)
	}
	return nil
}

// Login verifies credentials and returns a signed token. identifier may be a
// username or an email address. Unknown identifiers and wrong passwords both
// return domain.ErrUnauthorized.
func (s *AuthService) Login(ctx context.Context, identifier, password string) (string, *domain.User, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" || password == "" {
		return "", nil, fmt.Errorf("%w: username or email and password are required", domain.ErrInvalidInput)
	}

	user, err := s.lookup(ctx, identifier)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			// Spend the same bcrypt work as a real check.
			_ = bcrypt.CompareHashAndPassword(s.dummy(), []byte(password))
			observability.AuthFailuresTotal.WithLabelValues("bad_credentials").Inc()
			return "", nil, domain.ErrUnauthorized
		}
		return "", nil, fmt.Errorf("get user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		observability.AuthFailuresTotal.WithLabelValues("bad_credentials").Inc()
		return "", nil, domain.ErrUnauthorized
	}

	token, err := s.issueToken(user.ID)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

// lookup prefers an email match when identifier looks like an address and
// falls back to the username otherwise.
func (s *AuthService) lookup(ctx context.Context, identifier string) (*domain.User, error) {
	if s.validate.IsEmail(identifier) {
		user, err := s.store.Users().GetByEmail(ctx, normalizeEmail(identifier))
		if !errors.Is(err, domain.ErrNotFound) {
			return user, err
		}
	}
	return s.store.Users().GetByUsername(ctx, identifier)
}

func (s *AuthService) dummy() []byte {
	s.dummyOnce.Do(func() {
		s.dummyHash, _ = bcrypt.GenerateFromPassword([]byte(uuid.NewString()), s.bcryptCost)
	})
	return s.dummyHash
}

// ChangePassword replaces the user's password after checking the current one.
func (s *AuthService) ChangePassword(ctx context.Context, userID, current, next string) error {
	if current == "" || next == "" {
		return fmt.Errorf("%w: current and new password are required", domain.ErrInvalidInput)
	}
	if problem := PasswordProblem(next); problem != "" {
		return fmt.Errorf("%w: password %s", domain.ErrInvalidInput, problem)
	}

	user, err := s.store.Users().GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(current)); err != nil {
		return fmt.Errorf("%w: current password is incorrect", domain.ErrInvalidInput)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(next), s.bcryptCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := s.store.Users().UpdatePasswordHash(ctx, userID, string(hash)); err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	return nil
}

// ValidateToken parses and validates a token string and returns the user ID
// from the sub claim.
func (s *AuthService) ValidateToken(tokenString string) (string, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		return s.jwtSecret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !token.Valid {
		observability.AuthFailuresTotal.WithLabelValues("invalid_token").Inc()
		return "", domain.ErrUnauthorized
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil || claims.ID == "" {
		observability.AuthFailuresTotal.WithLabelValues("invalid_token").Inc()
		return "", domain.ErrUnauthorized
	}
	return userID.String(), nil
}

// GetUserByID retrieves a user by their ID.
func (s *AuthService) GetUserByID(ctx context.Context, id string) (*domain.User, error) {
	return s.store.Users().GetByID(ctx, id)
}

func (s *AuthService) issueToken(userID string) (string, error) {
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(TokenTTL)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
