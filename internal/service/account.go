package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/msomdec/shoplist/internal/domain"
)

const maxAPIKeyLength = 512

// Cipher encrypts secrets before they are stored. vault.Vault implements it.
type Cipher interface {
	Encrypt(plaintext string) (string, error)
	Decrypt(envelope string) (string, error)
}

// Profile is the signed-in user's own view of their account.
type Profile struct {
	User             *domain.User
	CustomCategories []string
	HasAPIKey        bool
}

// AccountService manages the per-user secret and the profile view.
type AccountService struct {
	store  domain.Store
	cipher Cipher
}

// NewAccountService creates a new AccountService.
func NewAccountService(store domain.Store, cipher Cipher) *AccountService {
	return &AccountService{store: store, cipher: cipher}
}

// SetAPIKey encrypts apiKey and stores it, replacing any previous key.
func (s *AccountService) SetAPIKey(ctx context.Context, userID, apiKey string) error {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return fmt.Errorf("%w: apiKey is required", domain.ErrInvalidInput)
	}
	if len(apiKey) > maxAPIKeyLength {
		return fmt.Errorf("%w: apiKey must be %d characters or fewer", domain.ErrInvalidInput, maxAPIKeyLength)
	}

	envelope, err := s.cipher.Encrypt(apiKey)
	if err != nil {
		return fmt.Errorf("encrypt api key: %w", err)
	}
	return s.store.Users().SetAPIKey(ctx, userID, envelope)
}

// HasAPIKey reports whether the user has a stored key. The key itself is
// never returned to clients.
func (s *AccountService) HasAPIKey(ctx context.Context, userID string) (bool, error) {
	user, err := s.store.Users().GetByID(ctx, userID)
	if err != nil {
		return false, err
	}
	return user.HasAPIKey(), nil
}

// ClearAPIKey removes the stored key.
func (s *AccountService) ClearAPIKey(ctx context.Context, userID string) error {
	return s.store.Users().SetAPIKey(ctx, userID, "")
}

// RevealAPIKey decrypts the stored key for a single outbound call. It returns
// "" when no key is configured.
func (s *AccountService) RevealAPIKey(ctx context.Context, userID string) (string, error) {
	user, err := s.store.Users().GetByID(ctx, userID)
	if err != nil {
		return "", err
	}
	key, err := s.cipher.Decrypt(user.APIKey)
	if err != nil {
		return "", fmt.Errorf("decrypt api key: %w", err)
	}
	return key, nil
}

// Profile returns the user with their custom categories.
func (s *AccountService) Profile(ctx context.Context, userID string) (*Profile, error) {
	user, err := s.store.Users().GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	categories, err := s.store.Categories().ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if categories == nil {
		categories = []string{}
	}
	return &Profile{User: user, CustomCategories: categories, HasAPIKey: user.HasAPIKey()}, nil
}
