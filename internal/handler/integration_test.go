package handler_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/msomdec/shoplist/internal/handler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type apiClient struct {
	t     *testing.T
	base  string
	token string
}

func newTestServer(t *testing.T) *apiClient {
	t.Helper()
	srv := httptest.NewServer(handler.NewRouter(newTestServices(t), []string{"http://localhost:3000"}))
	t.Cleanup(srv.Close)
	return &apiClient{t: t, base: srv.URL}
}

// do sends body as JSON and decodes the response into out when out is non-nil.
func (c *apiClient) do(method, path string, body any, out any) int {
	c.t.Helper()
	var r io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		r = bytes.NewBufferString(b)
	default:
		data, err := json.Marshal(b)
		require.NoError(c.t, err)
		r = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, c.base+path, r)
	require.NoError(c.t, err)
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(c.t, err)
	defer resp.Body.Close()

	if out != nil {
		require.NoError(c.t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

type authResponse struct {
	Token string          `json:"token"`
	User  handler.UserDTO `json:"user"`
}

type messageResponse struct {
	Message string `json:"message"`
}

func (c *apiClient) register(username string) authResponse {
	c.t.Helper()
	var res authResponse
	status := c.do(http.MethodPost, "/auth/register", map[string]string{
		"username": username,
		"email":    username + "@example.com",
		"password": testPassword,
	}, &res)
	require.Equal(c.t, http.StatusCreated, status)
	c.token = res.Token
	return res
}

func TestIntegration_Scenario(t *testing.T) {
	c := newTestServer(t)

	// Register returns a token and a user view without credentials.
	var raw map[string]any
	status := c.do(http.MethodPost, "/auth/register", map[string]string{
		"username": "alice", "email": "alice@example.com", "password": testPassword,
	}, &raw)
	require.Equal(t, http.StatusCreated, status)
	user := raw["user"].(map[string]any)
	assert.Equal(t, "alice", user["username"])
	assert.NotContains(t, user, "password")
	assert.NotContains(t, user, "passwordHash")

	// Exactly one default list.
	var byUsername, byEmail authResponse
	require.Equal(t, http.StatusOK, c.do(http.MethodPost, "/auth/login",
		map[string]string{"username": "alice", "password": testPassword}, &byUsername))
	require.Equal(t, http.StatusOK, c.do(http.MethodPost, "/auth/login",
		map[string]string{"email": "alice@example.com", "password": testPassword}, &byEmail))
	assert.NotEqual(t, byUsername.Token, byEmail.Token)
	c.token = byEmail.Token

	var lists []handler.ListDTO
	require.Equal(t, http.StatusOK, c.do(http.MethodGet, "/api/shopping-lists", nil, &lists))
	require.Len(t, lists, 1)
	assert.Equal(t, "Shopping List", lists[0].Name)

	var party handler.ListDTO
	require.Equal(t, http.StatusCreated, c.do(http.MethodPost, "/api/shopping-lists", map[string]string{"name": "Party"}, &party))

	var chips handler.ItemDTO
	require.Equal(t, http.StatusCreated, c.do(http.MethodPost, "/api/shopping-lists/"+party.ID+"/items",
		map[string]string{"name": "Chips", "category": "Snacks"}, &chips))
	assert.Equal(t, 1, chips.Quantity)
	assert.Equal(t, "pcs", chips.Units)

	var profile handler.ProfileDTO
	require.Equal(t, http.StatusOK, c.do(http.MethodGet, "/api/user/me", nil, &profile))
	assert.Contains(t, profile.CustomCategories, "Snacks")

	require.Equal(t, http.StatusOK, c.do(http.MethodDelete, "/api/shopping-lists/"+party.ID, nil, nil))

	var items []handler.ItemDTO
	require.Equal(t, http.StatusOK, c.do(http.MethodGet, "/api/items", nil, &items))
	for _, item := range items {
		assert.NotEqual(t, "Chips", item.Name)
	}

	var msg messageResponse
	assert.Equal(t, http.StatusBadRequest, c.do(http.MethodGet, "/api/shopping-lists/not-a-valid-id", nil, &msg))
	assert.NotEmpty(t, msg.Message)
}

func TestIntegration_AuthErrors(t *testing.T) {
	c := newTestServer(t)
	c.register("alice")

	var wrongPassword, unknownUser messageResponse
	assert.Equal(t, http.StatusUnauthorized, c.do(http.MethodPost, "/auth/login",
		map[string]string{"username": "alice", "password": "Wr0ng!Pass"}, &wrongPassword))
	assert.Equal(t, http.StatusUnauthorized, c.do(http.MethodPost, "/auth/login",
		map[string]string{"username": "mallory", "password": "Wr0ng!Pass"}, &unknownUser))
	assert.Equal(t, wrongPassword, unknownUser)

	var msg messageResponse
	assert.Equal(t, http.StatusBadRequest, c.do(http.MethodPost, "/auth/login",
		map[string]string{"username": "alice"}, &msg))
	assert.Equal(t, http.StatusBadRequest, c.do(http.MethodPost, "/auth/login", "{not json", &msg))

	assert.Equal(t, http.StatusBadRequest, c.do(http.MethodPost, "/auth/register", map[string]string{
		"username": "alice", "email": "other@example.com", "password": testPassword,
	}, &msg))
	assert.Contains(t, msg.Message, "username")

	assert.Equal(t, http.StatusBadRequest, c.do(http.MethodPost, "/auth/register", map[string]string{
		"username": "bob", "email": "bob@example.com", "password": "weakpass",
	}, &msg))
	assert.Contains(t, msg.Message, "password")

	c.token = ""
	assert.Equal(t, http.StatusUnauthorized, c.do(http.MethodGet, "/api/shopping-lists", nil, &msg))
	c.token = "not-a-token"
	assert.Equal(t, http.StatusUnauthorized, c.do(http.MethodGet, "/api/items", nil, &msg))
}

func TestIntegration_ItemsAndBulkDeletes(t *testing.T) {
	c := newTestServer(t)
	c.register("alice")

	var lists []handler.ListDTO
	require.Equal(t, http.StatusOK, c.do(http.MethodGet, "/api/shopping-lists", nil, &lists))
	listID := lists[0].ID

	var milk, bread handler.ItemDTO
	require.Equal(t, http.StatusCreated, c.do(http.MethodPost, "/api/shopping-lists/"+listID+"/items",
		map[string]any{"name": "Milk", "category": "Dairy", "quantity": 2}, &milk))
	require.Equal(t, http.StatusCreated, c.do(http.MethodPost, "/api/shopping-lists/"+listID+"/items",
		map[string]any{"name": "Bread", "category": "Bakery"}, &bread))

	// Explicit zero and false are applied; absent fields are kept.
	var updated handler.ItemDTO
	require.Equal(t, http.StatusOK, c.do(http.MethodPut, "/api/shopping-lists/"+listID+"/items/"+milk.ID,
		`{"quantity": 0, "completed": true}`, &updated))
	assert.Equal(t, 0, updated.Quantity)
	assert.True(t, updated.Completed)
	assert.Equal(t, "Milk", updated.Name)

	var msg messageResponse
	assert.Equal(t, http.StatusBadRequest, c.do(http.MethodPut, "/api/items/"+milk.ID, `{"name": null}`, &msg))

	var deleted struct {
		DeletedCount int `json:"deletedCount"`
	}
	require.Equal(t, http.StatusOK, c.do(http.MethodDelete, "/api/shopping-lists/"+listID+"/items/completed", nil, &deleted))
	assert.Equal(t, 1, deleted.DeletedCount)

	var list handler.ListDTO
	require.Equal(t, http.StatusOK, c.do(http.MethodGet, "/api/shopping-lists/"+listID, nil, &list))
	require.Len(t, list.Items, 1)
	assert.Equal(t, bread.ID, list.Items[0].ID)

	// Standalone items and the global bulk deletes.
	var snack handler.ItemDTO
	require.Equal(t, http.StatusCreated, c.do(http.MethodPost, "/api/items",
		map[string]any{"name": "Pretzels", "category": "Snacks", "completed": true}, &snack))
	require.Equal(t, http.StatusOK, c.do(http.MethodDelete, "/api/items/checked", nil, &deleted))
	assert.Equal(t, 1, deleted.DeletedCount)
	require.Equal(t, http.StatusOK, c.do(http.MethodDelete, "/api/items/category/Bakery", nil, &deleted))
	assert.Equal(t, 1, deleted.DeletedCount)

	var items []handler.ItemDTO
	require.Equal(t, http.StatusOK, c.do(http.MethodGet, "/api/items", nil, &items))
	assert.Empty(t, items)

	assert.Equal(t, http.StatusNotFound, c.do(http.MethodDelete, "/api/items/"+bread.ID, nil, &msg))
	assert.Equal(t, http.StatusBadRequest, c.do(http.MethodDelete, "/api/items/nope", nil, &msg))
}

func TestIntegration_OtherUsersCannotTouchItems(t *testing.T) {
	c := newTestServer(t)
	c.register("alice")

	var lists []handler.ListDTO
	require.Equal(t, http.StatusOK, c.do(http.MethodGet, "/api/shopping-lists", nil, &lists))
	aliceList := lists[0].ID
	var milk handler.ItemDTO
	require.Equal(t, http.StatusCreated, c.do(http.MethodPost, "/api/shopping-lists/"+aliceList+"/items",
		map[string]any{"name": "Milk", "category": "Dairy"}, &milk))

	c.register("bob")
	require.Equal(t, http.StatusOK, c.do(http.MethodGet, "/api/shopping-lists", nil, &lists))
	bobList := lists[0].ID

	var msg messageResponse
	assert.Equal(t, http.StatusNotFound, c.do(http.MethodGet, "/api/shopping-lists/"+aliceList, nil, &msg))
	assert.Equal(t, http.StatusNotFound, c.do(http.MethodPut, "/api/shopping-lists/"+bobList+"/items/"+milk.ID,
		`{"completed": true}`, &msg))
	assert.Equal(t, http.StatusNotFound, c.do(http.MethodPut, "/api/items/"+milk.ID, `{"completed": true}`, &msg))
	assert.Equal(t, http.StatusNotFound, c.do(http.MethodDelete, "/api/shopping-lists/"+aliceList, nil, &msg))
}

func TestIntegration_ImportExport(t *testing.T) {
	c := newTestServer(t)
	c.register("alice")

	var party handler.ListDTO
	require.Equal(t, http.StatusCreated, c.do(http.MethodPost, "/api/shopping-lists", map[string]string{"name": "Party"}, &party))
	path := "/api/shopping-lists/" + party.ID

	var imported struct {
		Items         []handler.ItemDTO `json:"items"`
		ImportedCount int               `json:"importedCount"`
	}
	require.Equal(t, http.StatusCreated, c.do(http.MethodPost, path+"/import", `{"items": [
		{"id": "00000000-0000-0000-0000-000000000001", "name": "Chips", "category": "Snacks"},
		{"name": "Soda", "category": "Drinks", "quantity": 6},
		{"name": "Ice", "category": "Freezer", "completed": true}
	]}`, &imported))
	require.Equal(t, 3, imported.ImportedCount)
	assert.NotEqual(t, "00000000-0000-0000-0000-000000000001", imported.Items[0].ID)

	var exported struct {
		Items []handler.ItemDTO `json:"items"`
	}
	require.Equal(t, http.StatusOK, c.do(http.MethodGet, path+"/export", nil, &exported))
	require.Len(t, exported.Items, 3)
	assert.Equal(t, "Chips", exported.Items[0].Name)
	assert.Equal(t, 6, exported.Items[1].Quantity)

	var categories struct {
		Categories []string `json:"categories"`
	}
	require.Equal(t, http.StatusOK, c.do(http.MethodGet, "/api/user/categories", nil, &categories))
	assert.Equal(t, []string{"Drinks", "Snacks"}, categories.Categories)

	var msg messageResponse
	assert.Equal(t, http.StatusBadRequest, c.do(http.MethodPost, path+"/import", `{"items": {"name": "x"}}`, &msg))
	assert.Equal(t, "items must be an array of item objects.", msg.Message)
	assert.Equal(t, http.StatusBadRequest, c.do(http.MethodPost, path+"/import", `{"items": [`, &msg))
	assert.Equal(t, "Invalid request body.", msg.Message)
	assert.Equal(t, http.StatusBadRequest, c.do(http.MethodPost, path+"/import", `{}`, &msg))
	assert.Equal(t, http.StatusBadRequest, c.do(http.MethodPost, path+"/import",
		`{"items": [{"name": "Cake", "category": "Bakery"}, {"name": "", "category": "Bakery"}]}`, &msg))
	assert.Equal(t, "item 1: item name is required", msg.Message)

	var deleted struct {
		DeletedCount int `json:"deletedCount"`
	}
	require.Equal(t, http.StatusOK, c.do(http.MethodDelete, path+"/items/category/Snacks", nil, &deleted))
	assert.Equal(t, 1, deleted.DeletedCount)
}

func TestIntegration_APIKey(t *testing.T) {
	c := newTestServer(t)
	c.register("alice")

	var status struct {
		HasAPIKey bool `json:"hasApiKey"`
	}
	require.Equal(t, http.StatusOK, c.do(http.MethodGet, "/api/user/api-key/status", nil, &status))
	assert.False(t, status.HasAPIKey)

	var raw map[string]any
	require.Equal(t, http.StatusOK, c.do(http.MethodPut, "/api/user/api-key", map[string]string{"apiKey": "sk-secret"}, &raw))
	for _, v := range raw {
		assert.NotEqual(t, "sk-secret", v, "key must not be echoed")
	}

	require.Equal(t, http.StatusOK, c.do(http.MethodGet, "/api/user/api-key/status", nil, &status))
	assert.True(t, status.HasAPIKey)

	require.Equal(t, http.StatusOK, c.do(http.MethodDelete, "/api/user/api-key", nil, nil))
	require.Equal(t, http.StatusOK, c.do(http.MethodGet, "/api/user/api-key/status", nil, &status))
	assert.False(t, status.HasAPIKey)

	var msg messageResponse
	assert.Equal(t, http.StatusBadRequest, c.do(http.MethodPut, "/api/user/api-key", map[string]string{"apiKey": ""}, &msg))

	// No provider configured in tests.
	var lists []handler.ListDTO
	require.Equal(t, http.StatusOK, c.do(http.MethodGet, "/api/shopping-lists", nil, &lists))
	assert.Equal(t, http.StatusBadRequest, c.do(http.MethodPost, "/api/suggestions",
		map[string]string{"listId": lists[0].ID}, &msg))
}

func TestIntegration_ChangePassword(t *testing.T) {
	c := newTestServer(t)
	c.register("alice")

	var msg messageResponse
	assert.Equal(t, http.StatusBadRequest, c.do(http.MethodPut, "/api/user/password",
		map[string]string{"currentPassword": "Wr0ng!Pass", "newPassword": "N3w!Passw0rd"}, &msg))
	require.Equal(t, http.StatusOK, c.do(http.MethodPut, "/api/user/password",
		map[string]string{"currentPassword": testPassword, "newPassword": "N3w!Passw0rd"}, &msg))

	var res authResponse
	assert.Equal(t, http.StatusOK, c.do(http.MethodPost, "/auth/login",
		map[string]string{"username": "alice", "password": "N3w!Passw0rd"}, &res))
}
