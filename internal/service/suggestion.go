package service

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/msomdec/shoplist/internal/domain"
	"github.com/msomdec/shoplist/internal/observability"
)

const (
	maxSuggestions = 10
	maxHintLength  = 500
)

// SuggestionService asks the configured provider for items to add to a list,
// using the caller's own API key.
type SuggestionService struct {
	accounts *AccountService
	lists    *ListService
	provider domain.SuggestionProvider
	limiter  *KeyedLimiter
}

// NewSuggestionService creates a new SuggestionService. provider may be nil,
// in which case every request fails with domain.ErrInvalidInput. limiter may
// be nil to disable per-user throttling.
func NewSuggestionService(accounts *AccountService, lists *ListService, provider domain.SuggestionProvider, limiter *KeyedLimiter) *SuggestionService {
	return &SuggestionService{accounts: accounts, lists: lists, provider: provider, limiter: limiter}
}

// Suggest returns up to ten new item names for the list. Names already on
// the list and duplicates are dropped.
func (s *SuggestionService) Suggest(ctx context.Context, userID, listID, hint string) ([]string, error) {
	if s.provider == nil {
		return nil, fmt.Errorf("%w: suggestions are not configured", domain.ErrInvalidInput)
	}
	hint = strings.TrimSpace(hint)
	if len(hint) > maxHintLength {
		return nil, fmt.Errorf("%w: hint must be %d characters or fewer", domain.ErrInvalidInput, maxHintLength)
	}
	if s.limiter != nil && !s.limiter.Allow(userID) {
		observability.SuggestionRequestsTotal.WithLabelValues("rate_limited").Inc()
		return nil, fmt.Errorf("%w: too many suggestion requests", domain.ErrRateLimited)
	}

	list, err := s.lists.Get(ctx, userID, listID)
	if err != nil {
		return nil, err
	}

	apiKey, err := s.accounts.RevealAPIKey(ctx, userID)
	if err != nil {
		return nil, err
	}
	if apiKey == "" {
		return nil, fmt.Errorf("%w: no API key configured", domain.ErrInvalidInput)
	}

	raw, err := s.provider.Suggest(ctx, apiKey, suggestionPrompt(list, hint))
	if err != nil {
		observability.SuggestionRequestsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("suggestion provider: %w", err)
	}
	observability.SuggestionRequestsTotal.WithLabelValues("ok").Inc()

	return filterSuggestions(raw, list.Items), nil
}

// listMarker matches bullets and numbering that providers put in front of lines.
var listMarker = regexp.MustCompile(`^\s*(?:[-*•]|\d+[.)])\s*`)

func suggestionPrompt(list *domain.ShoppingList, hint string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Suggest up to %d additional grocery items for a shopping list named %q.\n", maxSuggestions, list.Name)
	if len(list.Items) > 0 {
		names := make([]string, len(list.Items))
		for i, item := range list.Items {
			names[i] = item.Name
		}
		fmt.Fprintf(&b, "The list already contains: %s.\n", strings.Join(names, ", "))
	}
	if hint != "" {
		fmt.Fprintf(&b, "Keep in mind: %s\n", hint)
	}
	b.WriteString("Answer with one item name per line and nothing else.")
	return b.String()
}

func filterSuggestions(raw []string, existing []domain.Item) []string {
	seen := make(map[string]bool, len(existing)+len(raw))
	for _, item := range existing {
		seen[strings.ToLower(item.Name)] = true
	}

	out := []string{}
	for _, name := range raw {
		name = strings.TrimSpace(listMarker.ReplaceAllString(name, ""))
		key := strings.ToLower(name)
		if name == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, name)
		if len(out) == maxSuggestions {
			break
		}
	}
	return out
}
