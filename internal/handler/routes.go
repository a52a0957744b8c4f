package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/msomdec/shoplist/internal/service"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Services bundles what the HTTP layer depends on.
type Services struct {
	Auth         *service.AuthService
	Lists        *service.ListService
	Items        *service.ItemService
	Transfer     *service.TransferService
	Accounts     *service.AccountService
	Categories   *service.CategoryService
	Suggestions  *service.SuggestionService
	LoginLimiter *service.KeyedLimiter // nil disables throttling of /auth routes
	DB           Pinger
}

// RegisterRoutes sets up all HTTP routes on the given mux.
func RegisterRoutes(mux *http.ServeMux, s Services) {
	authH := NewAuthHandler(s.Auth)
	listH := NewListHandler(s.Lists, s.Transfer)
	itemH := NewItemHandler(s.Items)
	accountH := NewAccountHandler(s.Accounts, s.Categories)
	suggestH := NewSuggestionHandler(s.Suggestions)

	public := func(h http.HandlerFunc) http.Handler {
		if s.LoginLimiter == nil {
			return h
		}
		return RateLimit(s.LoginLimiter, h)
	}
	protected := func(h http.HandlerFunc) http.Handler {
		return RequireAuth(s.Auth, h)
	}

	mux.Handle("GET /healthz", HandleHealthz(s.DB))
	mux.Handle("GET /metrics", promhttp.Handler())

	mux.Handle("POST /auth/register", public(authH.HandleRegister))
	mux.Handle("POST /auth/login", public(authH.HandleLogin))

	mux.Handle("GET /api/shopping-lists", protected(listH.HandleList))
	mux.Handle("POST /api/shopping-lists", protected(listH.HandleCreate))
	mux.Handle("GET /api/shopping-lists/{listId}", protected(listH.HandleGet))
	mux.Handle("PUT /api/shopping-lists/{listId}", protected(listH.HandleRename))
	mux.Handle("DELETE /api/shopping-lists/{listId}", protected(listH.HandleDelete))
	mux.Handle("POST /api/shopping-lists/{listId}/items", protected(listH.HandleAddItem))
	mux.Handle("PUT /api/shopping-lists/{listId}/items/{itemId}", protected(listH.HandleUpdateItem))
	mux.Handle("DELETE /api/shopping-lists/{listId}/items/{itemId}", protected(listH.HandleRemoveItem))
	mux.Handle("DELETE /api/shopping-lists/{listId}/items/completed", protected(listH.HandleDeleteCompleted))
	mux.Handle("DELETE /api/shopping-lists/{listId}/items/category/{category}", protected(listH.HandleDeleteCategory))
	mux.Handle("GET /api/shopping-lists/{listId}/export", protected(listH.HandleExport))
	mux.Handle("POST /api/shopping-lists/{listId}/import", protected(listH.HandleImport))

	mux.Handle("GET /api/items", protected(itemH.HandleList))
	mux.Handle("POST /api/items", protected(itemH.HandleCreate))
	mux.Handle("PUT /api/items/{id}", protected(itemH.HandleUpdate))
	mux.Handle("DELETE /api/items/{id}", protected(itemH.HandleDelete))
	mux.Handle("DELETE /api/items/checked", protected(itemH.HandleDeleteChecked))
	mux.Handle("DELETE /api/items/category/{category}", protected(itemH.HandleDeleteCategory))

	mux.Handle("GET /api/user/me", protected(accountH.HandleProfile))
	mux.Handle("PUT /api/user/password", protected(authH.HandleChangePassword))
	mux.Handle("GET /api/user/categories", protected(accountH.HandleCategories))
	mux.Handle("GET /api/user/api-key/status", protected(accountH.HandleAPIKeyStatus))
	mux.Handle("PUT /api/user/api-key", protected(accountH.HandleSetAPIKey))
	mux.Handle("DELETE /api/user/api-key", protected(accountH.HandleClearAPIKey))

	mux.Handle("POST /api/suggestions", protected(suggestH.HandleSuggest))
}

// NewRouter builds the full handler stack: request id, real ip, panic
// recovery, CORS, security headers and instrumentation around the routes.
func NewRouter(s Services, allowedOrigins []string) http.Handler {
	mux := http.NewServeMux()
	RegisterRoutes(mux, s)

	var h http.Handler = Instrument(mux)
	h = SecurityHeaders(h)
	h = cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	})(h)
	h = middleware.Recoverer(h)
	h = middleware.RealIP(h)
	h = middleware.RequestID(h)
	return h
}
