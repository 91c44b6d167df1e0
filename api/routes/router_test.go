package routes

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/catalog-api/internal/items"
	"github.com/angelmondragon/catalog-api/internal/users"
	"github.com/angelmondragon/catalog-api/pkg/config"
	"github.com/angelmondragon/catalog-api/pkg/logger"
	"github.com/angelmondragon/catalog-api/pkg/metrics"
	"github.com/angelmondragon/catalog-api/pkg/types"
)

type plainHasher struct{}

func (plainHasher) Hash(password string) (string, error) {
	return "hashed:" + password, nil
}

type testServer struct {
	handler http.Handler
}

func newTestServer(t *testing.T, prefix string) testServer {
	t.Helper()

	cfg := &config.Config{
		App:  config.AppConfig{Version: "1.2.3", APIPrefix: prefix},
		CORS: config.CORSConfig{AllowedHosts: []string{"http://localhost:3000"}, MaxAge: 300},
	}
	logg := logger.Nop()
	reg := prometheus.NewRegistry()
	records := metrics.NewStoreMetrics(reg)

	itemSvc, err := items.NewService(items.ServiceParams{Repo: items.NewMemoryRepository(), Metrics: records, Logger: logg})
	require.NoError(t, err)
	userSvc, err := users.NewService(users.ServiceParams{
		Repo:    users.NewMemoryRepository(),
		Hasher:  plainHasher{},
		Metrics: records,
		Logger:  logg,
	})
	require.NoError(t, err)

	return testServer{handler: NewRouter(cfg, logg, reg, metrics.NewHTTPMetrics(reg), itemSvc, userSvc)}
}

func (s testServer) do(t *testing.T, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), "body=%s", rec.Body.String())
	return out
}

func TestHealthUnderPrefix(t *testing.T) {
	srv := newTestServer(t, "/api")

	rec := srv.do(t, http.MethodGet, "/api/health", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, types.HealthResponse{Status: "healthy", Version: "1.2.3"}, decode[types.HealthResponse](t, rec))

	assert.Equal(t, http.StatusNotFound, srv.do(t, http.MethodGet, "/health", "").Code)
}

func TestEmptyPrefixMountsAtRoot(t *testing.T) {
	srv := newTestServer(t, "")
	assert.Equal(t, http.StatusOK, srv.do(t, http.MethodGet, "/health", "").Code)
	assert.Equal(t, http.StatusOK, srv.do(t, http.MethodGet, "/items", "").Code)
}

func TestTrailingSlashesAreAccepted(t *testing.T) {
	srv := newTestServer(t, "/api")

	rec := srv.do(t, http.MethodPost, "/api/items/", `{"name":"Widget","price":1}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	assert.Equal(t, http.StatusOK, srv.do(t, http.MethodGet, "/api/items/", "").Code)
	assert.Equal(t, http.StatusOK, srv.do(t, http.MethodGet, "/api/items/1/", "").Code)
	assert.Equal(t, http.StatusOK, srv.do(t, http.MethodGet, "/api/users/", "").Code)
}

func TestUnknownRouteReturnsJSON404(t *testing.T) {
	srv := newTestServer(t, "/api")

	rec := srv.do(t, http.MethodGet, "/api/nope", "")
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Not Found", decode[types.ErrorResponse](t, rec).Detail)
}

func TestUnsupportedMethodReturnsJSON405(t *testing.T) {
	srv := newTestServer(t, "/api")

	for _, target := range []string{"/api/items/1", "/api/users"} {
		rec := srv.do(t, http.MethodPatch, target, `{}`)
		require.Equal(t, http.StatusMethodNotAllowed, rec.Code, target)
		assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
		assert.Equal(t, "Method Not Allowed", decode[types.ErrorResponse](t, rec).Detail)
	}
}

func TestCreateThenGetRoundTrip(t *testing.T) {
	srv := newTestServer(t, "/api")

	created := decode[map[string]any](t, srv.do(t, http.MethodPost, "/api/items", `{"name":"Lamp","description":"desk","price":19.5,"is_available":false}`))
	got := srv.do(t, http.MethodGet, fmt.Sprintf("/api/items/%v", created["id"]), "")
	require.Equal(t, http.StatusOK, got.Code)

	fetched := decode[map[string]any](t, got)
	assert.Equal(t, created, fetched)
	assert.Equal(t, "desk", fetched["description"])
	assert.Equal(t, 19.5, fetched["price"])
	assert.Equal(t, false, fetched["is_available"])
	assert.Nil(t, fetched["updated_at"])
	assert.NotEmpty(t, fetched["created_at"])
}

func TestNonPositivePriceNeverInserts(t *testing.T) {
	srv := newTestServer(t, "/api")

	for _, price := range []string{"0", "-5", "-0.01"} {
		rec := srv.do(t, http.MethodPost, "/api/items", `{"name":"x","price":`+price+`}`)
		require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		resp := decode[types.ErrorResponse](t, rec)
		require.Len(t, resp.Errors, 1)
		assert.Equal(t, "body -> price", resp.Errors[0].Field)
		assert.Equal(t, "greater_than", resp.Errors[0].Type)
	}

	page := decode[items.ItemPage](t, srv.do(t, http.MethodGet, "/api/items", ""))
	assert.Equal(t, 0, page.Total)
	assert.Empty(t, page.Items)
}

func TestPaginationConcatenationReproducesCreationOrder(t *testing.T) {
	srv := newTestServer(t, "/api")
	const n, size = 11, 4

	for i := 0; i < n; i++ {
		rec := srv.do(t, http.MethodPost, "/api/items", fmt.Sprintf(`{"name":"item-%d","price":%d}`, i, i+1))
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	var names []string
	pages := 0
	for p := 1; ; p++ {
		page := decode[items.ItemPage](t, srv.do(t, http.MethodGet, fmt.Sprintf("/api/items?page=%d&page_size=%d", p, size), ""))
		require.Equal(t, n, page.Total)
		assert.Equal(t, p, page.Page)
		assert.Equal(t, size, page.PageSize)
		if len(page.Items) == 0 {
			break
		}
		pages++
		for _, item := range page.Items {
			names = append(names, item.Name)
		}
	}

	assert.Equal(t, (n+size-1)/size, pages)
	require.Len(t, names, n)
	for i, name := range names {
		assert.Equal(t, fmt.Sprintf("item-%d", i), name)
	}
}

func TestAvailableOnlyFiltersAndCounts(t *testing.T) {
	srv := newTestServer(t, "/api")
	for i := 0; i < 6; i++ {
		srv.do(t, http.MethodPost, "/api/items", fmt.Sprintf(`{"name":"i%d","price":1,"is_available":%t}`, i, i%2 == 0))
	}

	page := decode[items.ItemPage](t, srv.do(t, http.MethodGet, "/api/items?available_only=yes", ""))
	assert.Equal(t, 3, page.Total)
	for _, item := range page.Items {
		assert.True(t, item.IsAvailable)
	}

	rec := srv.do(t, http.MethodGet, "/api/items?available_only=maybe", "")
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "bool_parsing", decode[types.ErrorResponse](t, rec).Errors[0].Type)
}

func TestDuplicateUsernameKeepsStoreSize(t *testing.T) {
	srv := newTestServer(t, "/api")

	first := srv.do(t, http.MethodPost, "/api/users", `{"email":"ada@example.com","username":"ada","password":"password1"}`)
	require.Equal(t, http.StatusCreated, first.Code)

	dup := srv.do(t, http.MethodPost, "/api/users", `{"email":"ada2@example.com","username":"ada","password":"password2"}`)
	require.Equal(t, http.StatusBadRequest, dup.Code)
	assert.Equal(t, "Username already exists", decode[types.ErrorResponse](t, dup).Detail)

	page := decode[users.UserPage](t, srv.do(t, http.MethodGet, "/api/users", ""))
	assert.Equal(t, 1, page.Total)
}

func TestDuplicateEmailDifferingInDomainCase(t *testing.T) {
	srv := newTestServer(t, "/api")

	first := srv.do(t, http.MethodPost, "/api/users", `{"email":"alice@Example.COM","username":"alice","password":"password1"}`)
	require.Equal(t, http.StatusCreated, first.Code)
	assert.Equal(t, "alice@example.com", decode[map[string]any](t, first)["email"])

	dup := srv.do(t, http.MethodPost, "/api/users", `{"email":"alice@example.com","username":"alice2","password":"password1"}`)
	require.Equal(t, http.StatusBadRequest, dup.Code)
	assert.Equal(t, "Email already exists", decode[types.ErrorResponse](t, dup).Detail)

	page := decode[users.UserPage](t, srv.do(t, http.MethodGet, "/api/users", ""))
	assert.Equal(t, 1, page.Total)
}

func TestPartialUpdateChangesOnlyNamedFields(t *testing.T) {
	srv := newTestServer(t, "/api")
	before := decode[map[string]any](t, srv.do(t, http.MethodPost, "/api/items", `{"name":"Chair","description":"oak","price":40}`))

	rec := srv.do(t, http.MethodPut, "/api/items/1", `{"price":35.25}`)
	require.Equal(t, http.StatusOK, rec.Code)
	after := decode[map[string]any](t, rec)

	assert.Equal(t, 35.25, after["price"])
	assert.NotNil(t, after["updated_at"])
	for _, key := range []string{"id", "name", "description", "is_available", "created_at"} {
		assert.Equal(t, before[key], after[key], key)
	}
}

func TestDeleteThenGetAndIDsNeverReused(t *testing.T) {
	srv := newTestServer(t, "/api")
	srv.do(t, http.MethodPost, "/api/items", `{"name":"a","price":1}`)
	srv.do(t, http.MethodPost, "/api/items", `{"name":"b","price":1}`)

	require.Equal(t, http.StatusNoContent, srv.do(t, http.MethodDelete, "/api/items/2", "").Code)

	rec := srv.do(t, http.MethodGet, "/api/items/2", "")
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Item with id 2 not found", decode[types.ErrorResponse](t, rec).Detail)
	assert.Equal(t, http.StatusNotFound, srv.do(t, http.MethodDelete, "/api/items/2", "").Code)

	next := decode[map[string]any](t, srv.do(t, http.MethodPost, "/api/items", `{"name":"c","price":1}`))
	assert.Equal(t, float64(3), next["id"])
}

func TestUserResponsesNeverCarryPassword(t *testing.T) {
	srv := newTestServer(t, "/api")

	responses := []*httptest.ResponseRecorder{
		srv.do(t, http.MethodPost, "/api/users", `{"email":"ada@example.com","username":"ada","full_name":"Ada","password":"topsecret1"}`),
		srv.do(t, http.MethodGet, "/api/users/1", ""),
		srv.do(t, http.MethodPut, "/api/users/1", `{"password":"topsecret2"}`),
		srv.do(t, http.MethodGet, "/api/users", ""),
	}
	for i, rec := range responses {
		require.Less(t, rec.Code, 300, "response %d: %s", i, rec.Body.String())
		body := rec.Body.String()
		assert.NotContains(t, body, "password", "response %d", i)
		assert.NotContains(t, body, "topsecret", "response %d", i)
	}
}

func TestMalformedBodyAndPathID(t *testing.T) {
	srv := newTestServer(t, "/api")

	rec := srv.do(t, http.MethodPost, "/api/items", `{"name":`)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "json_invalid", decode[types.ErrorResponse](t, rec).Errors[0].Type)

	rec = srv.do(t, http.MethodGet, "/api/users/abc", "")
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	resp := decode[types.ErrorResponse](t, rec)
	assert.Equal(t, "path -> user_id", resp.Errors[0].Field)
	assert.Equal(t, "int_parsing", resp.Errors[0].Type)
}

func TestMetricsEndpointExportsRequestsAndRecords(t *testing.T) {
	srv := newTestServer(t, "/api")
	srv.do(t, http.MethodPost, "/api/items", `{"name":"a","price":1}`)
	srv.do(t, http.MethodGet, "/api/items/1", "")

	rec := srv.do(t, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.True(t, strings.Contains(body, "http_requests_total"), body)
	assert.Contains(t, body, `route="/api/items/{item_id}"`)
	assert.Contains(t, body, `catalog_records{resource="Item"} 1`)
}

func TestCORSPreflight(t *testing.T) {
	srv := newTestServer(t, "/api")

	req := httptest.NewRequest(http.MethodOptions, "/api/items", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	srv.handler.ServeHTTP(rec, req)

	assert.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))
}
