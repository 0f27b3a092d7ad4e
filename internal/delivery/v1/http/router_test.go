package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/DRSN-tech/calories-backend/internal/cfg"
	"github.com/DRSN-tech/calories-backend/internal/infrastructure/token"
	"github.com/DRSN-tech/calories-backend/internal/repository/memory"
	"github.com/DRSN-tech/calories-backend/internal/usecase"
	"github.com/DRSN-tech/calories-backend/pkg/logger"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var today = time.Date(2026, 10, 19, 9, 30, 0, 0, time.UTC)

type jsonEncoder struct{}

func (jsonEncoder) Encode(event *usecase.LedgerEvent) ([]byte, error) { return json.Marshal(event) }

type nopLedgerMetrics struct{}

func (nopLedgerMetrics) EatenProductChanged(string) {}

type testAPI struct {
	t       *testing.T
	handler http.Handler
	store   *memory.Store
	tokens  *token.JWTIssuer

	adminToken  string
	authorToken string
	readerToken string
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()

	store := memory.NewStore()
	cache := memory.NewCacheRepo()
	images := memory.NewImages()
	log := logger.NewNop()
	tx := memory.TxManager{}

	tokens := token.NewJWTIssuer(&cfg.AuthCfg{
		JWTSecret:       strings.Repeat("s", 32),
		AccessTokenTTL:  time.Hour,
		RefreshTokenTTL: 24 * time.Hour,
	})
	auth := usecase.NewAuthUC(store.Users(), tokens, log)

	uc := Usecases{
		Auth:     auth,
		Category: usecase.NewCategoryUC(store.Categories(), store.Products(), cache, tx, log),
		Product:  usecase.NewProductUC(store.Products(), store.Categories(), cache, images, tx, log),
		EatenProduct: usecase.NewEatenProductUC(
			store.EatenProducts(), store.Products(), store.Outbox(), jsonEncoder{}, tx, nopLedgerMetrics{}, log, time.UTC,
		).WithClock(func() time.Time { return today }),
		TotalKcal: usecase.NewTotalKcalUC(store.EatenProducts()),
	}

	mux := chi.NewRouter()
	NewRouter(mux, log, "/swagger/doc.json").Init(uc, nil)

	api := &testAPI{t: t, handler: mux, store: store, tokens: tokens}

	ctx := context.Background()
	admin, err := auth.CreateAdmin(ctx, &usecase.RegisterReq{Username: "admin", Password: "adminpass"})
	require.NoError(t, err)
	author, err := auth.Register(ctx, &usecase.RegisterReq{Username: "author", Password: "authorpass"})
	require.NoError(t, err)
	reader, err := auth.Register(ctx, &usecase.RegisterReq{Username: "reader", Password: "readerpass"})
	require.NoError(t, err)

	api.adminToken = api.access(admin.ID)
	api.authorToken = api.access(author.ID)
	api.readerToken = api.access(reader.ID)

	return api
}

func (a *testAPI) access(userID int64) string {
	a.t.Helper()
	tok, err := a.tokens.Issue(userID, usecase.TokenAccess)
	require.NoError(a.t, err)
	return tok
}

func (a *testAPI) do(method, path, tok string, body any) *httptest.ResponseRecorder {
	a.t.Helper()

	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(a.t, err)
		rd = bytes.NewReader(b)
	}

	req := httptest.NewRequest(method, path, rd)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}

	rec := httptest.NewRecorder()
	a.handler.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func (a *testAPI) seedCatalog() (productID int64) {
	a.t.Helper()

	rec := a.do(http.MethodPost, "/api/v1/categories", a.adminToken, map[string]any{"name": "Fruits", "slug": "fruits"})
	require.Equal(a.t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = a.do(http.MethodPost, "/api/v1/products", a.adminToken, map[string]any{
		"name": "Apple", "weight": 100, "unit_of_measurement": "гр", "kcal": 52, "category": "fruits",
	})
	require.Equal(a.t, http.StatusCreated, rec.Code, rec.Body.String())

	return decode[ProductResponse](a.t, rec).ID
}

func TestCategories_AdminOnly(t *testing.T) {
	api := newTestAPI(t)
	api.seedCatalog()

	tests := []struct {
		name   string
		method string
		path   string
		token  string
		body   any
		want   int
	}{
		{"list anonymous", http.MethodGet, "/api/v1/categories", "", nil, http.StatusUnauthorized},
		{"list user", http.MethodGet, "/api/v1/categories", api.authorToken, nil, http.StatusForbidden},
		{"list admin", http.MethodGet, "/api/v1/categories", api.adminToken, nil, http.StatusOK},
		{"get user", http.MethodGet, "/api/v1/categories/fruits", api.authorToken, nil, http.StatusForbidden},
		{"get admin", http.MethodGet, "/api/v1/categories/fruits", api.adminToken, nil, http.StatusOK},
		{"get missing", http.MethodGet, "/api/v1/categories/nope", api.adminToken, nil, http.StatusNotFound},
		{"create user", http.MethodPost, "/api/v1/categories", api.authorToken, map[string]any{"name": "X", "slug": "x"}, http.StatusForbidden},
		{"create anonymous invalid body", http.MethodPost, "/api/v1/categories", "", map[string]any{}, http.StatusUnauthorized},
		{"create duplicate", http.MethodPost, "/api/v1/categories", api.adminToken, map[string]any{"name": "Fruits", "slug": "fruits2"}, http.StatusBadRequest},
		{"create bad slug", http.MethodPost, "/api/v1/categories", api.adminToken, map[string]any{"name": "Veg", "slug": "veg etables"}, http.StatusBadRequest},
		{"patch admin", http.MethodPatch, "/api/v1/categories/fruits", api.adminToken, map[string]any{"name": "Fresh fruits"}, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := api.do(tt.method, tt.path, tt.token, tt.body)
			assert.Equal(t, tt.want, rec.Code, rec.Body.String())
		})
	}
}

func TestCategories_DeleteKeepsProducts(t *testing.T) {
	api := newTestAPI(t)
	productID := api.seedCatalog()

	rec := api.do(http.MethodDelete, "/api/v1/categories/fruits/", api.adminToken, nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = api.do(http.MethodGet, "/api/v1/products/"+itoa(productID), "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, decode[ProductResponse](t, rec).Category)
}

func TestProducts_ReadOpenWriteAdmin(t *testing.T) {
	api := newTestAPI(t)
	productID := api.seedCatalog()
	body := map[string]any{"name": "Pear", "weight": 100, "unit_of_measurement": "гр", "kcal": 57}

	assert.Equal(t, http.StatusOK, api.do(http.MethodGet, "/api/v1/products", "", nil).Code)
	assert.Equal(t, http.StatusOK, api.do(http.MethodGet, "/api/v1/products/"+itoa(productID), api.authorToken, nil).Code)
	assert.Equal(t, http.StatusNotFound, api.do(http.MethodGet, "/api/v1/products/999", "", nil).Code)
	assert.Equal(t, http.StatusNotFound, api.do(http.MethodGet, "/api/v1/products/abc", "", nil).Code)

	assert.Equal(t, http.StatusUnauthorized, api.do(http.MethodPost, "/api/v1/products", "", body).Code)
	assert.Equal(t, http.StatusForbidden, api.do(http.MethodPost, "/api/v1/products", api.authorToken, body).Code)
	assert.Equal(t, http.StatusForbidden, api.do(http.MethodDelete, "/api/v1/products/"+itoa(productID), api.authorToken, nil).Code)
	assert.Equal(t, http.StatusCreated, api.do(http.MethodPost, "/api/v1/products", api.adminToken, body).Code)
}

func TestProducts_FilterAndSearch(t *testing.T) {
	api := newTestAPI(t)
	api.seedCatalog()
	api.do(http.MethodPost, "/api/v1/products", api.adminToken, map[string]any{
		"name": "Green apple juice", "weight": 100, "unit_of_measurement": "мл", "kcal": 46,
	})

	rec := api.do(http.MethodGet, "/api/v1/products?search=APPLE", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]ProductResponse](t, rec), 2)

	rec = api.do(http.MethodGet, "/api/v1/products?category=fruits", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	products := decode[[]ProductResponse](t, rec)
	require.Len(t, products, 1)
	assert.Equal(t, "Apple", products[0].Name)
}

func TestProducts_ValidationFields(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(http.MethodPost, "/api/v1/products", api.adminToken, map[string]any{
		"name": "Bad", "weight": 0, "unit_of_measurement": "kg",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	resp := decode[ErrorResponse](t, rec)
	assert.Contains(t, resp.Fields, "weight")
	assert.Contains(t, resp.Fields, "unit_of_measurement")
	assert.Contains(t, resp.Fields, "kcal")
}

func TestProducts_PatchCategoryNullClears(t *testing.T) {
	api := newTestAPI(t)
	productID := api.seedCatalog()
	path := "/api/v1/products/" + itoa(productID)

	rec := api.do(http.MethodPatch, path, api.adminToken, map[string]any{"kcal": 60})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	got := decode[ProductResponse](t, rec)
	assert.Equal(t, 60, got.Kcal)
	require.NotNil(t, got.Category)
	assert.Equal(t, "fruits", *got.Category)

	rec = api.do(http.MethodPatch, path, api.adminToken, map[string]any{"category": nil})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Nil(t, decode[ProductResponse](t, rec).Category)

	rec = api.do(http.MethodPatch, path, api.adminToken, map[string]any{"category": "missing"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestProducts_Image(t *testing.T) {
	api := newTestAPI(t)
	productID := api.seedCatalog()
	path := "/api/v1/products/" + itoa(productID) + "/image"

	rec := api.do(http.MethodPost, "/api/v1/products", api.adminToken, map[string]any{
		"name": "Pear", "weight": 100, "unit_of_measurement": "гр", "kcal": 57,
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	pear := decode[ProductResponse](t, rec)
	assert.Nil(t, pear.Image)
	assert.Equal(t, http.StatusNotFound, api.do(http.MethodGet, "/api/v1/products/"+itoa(pear.ID)+"/image", "", nil).Code)

	png := append([]byte("\x89PNG\r\n\x1a\n"), bytes.Repeat([]byte{0}, 64)...)
	upload := func(tok string, data []byte) *httptest.ResponseRecorder {
		var buf bytes.Buffer
		mw := multipart.NewWriter(&buf)
		fw, err := mw.CreateFormFile("image", "apple.png")
		require.NoError(t, err)
		_, err = fw.Write(data)
		require.NoError(t, err)
		require.NoError(t, mw.Close())

		req := httptest.NewRequest(http.MethodPut, path, &buf)
		req.Header.Set("Content-Type", mw.FormDataContentType())
		req.Header.Set("Authorization", "Bearer "+tok)
		rec := httptest.NewRecorder()
		api.handler.ServeHTTP(rec, req)
		return rec
	}

	assert.Equal(t, http.StatusForbidden, upload(api.authorToken, png).Code)
	assert.Equal(t, http.StatusUnsupportedMediaType, upload(api.adminToken, []byte("plain text, not an image")).Code)

	rec = upload(api.adminToken, png)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.NotNil(t, decode[ProductResponse](t, rec).Image)

	rec = api.do(http.MethodGet, path, "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	assert.Equal(t, png, rec.Body.Bytes())
}

func TestMyProducts_Flow(t *testing.T) {
	api := newTestAPI(t)
	productID := api.seedCatalog()

	rec := api.do(http.MethodPost, "/api/v1/my_products", "", map[string]any{"product": productID, "weight": 150})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// user из тела игнорируется, запись принадлежит владельцу токена.
	rec = api.do(http.MethodPost, "/api/v1/my_products/", api.authorToken, map[string]any{"product": productID, "weight": 150, "user": 999})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	created := decode[EatenProductResponse](t, rec)
	assert.Equal(t, "2026-10-19", created.PublicationDate)
	assert.Equal(t, "Apple", created.Product)
	assert.Equal(t, productID, created.ProductID)
	assert.Equal(t, 78, created.Kcal)
	assert.Equal(t, "гр", created.UnitOfMeasurement)
	require.NotNil(t, created.Category)
	assert.Equal(t, "fruits", *created.Category)

	path := "/api/v1/my_products/" + itoa(created.ID)

	assert.Equal(t, http.StatusOK, api.do(http.MethodGet, path, api.authorToken, nil).Code)
	assert.Equal(t, http.StatusNotFound, api.do(http.MethodGet, path, api.readerToken, nil).Code)
	assert.Equal(t, http.StatusNotFound, api.do(http.MethodGet, path, api.adminToken, nil).Code)
	assert.Equal(t, http.StatusNotFound, api.do(http.MethodDelete, path, api.readerToken, nil).Code)
	assert.Equal(t, http.StatusUnauthorized, api.do(http.MethodGet, path, "", nil).Code)

	rec = api.do(http.MethodGet, "/api/v1/my_products", api.readerToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decode[[]EatenProductResponse](t, rec))

	rec = api.do(http.MethodPatch, path, api.authorToken, map[string]any{"weight": 50})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, 26, decode[EatenProductResponse](t, rec).Kcal)

	rec = api.do(http.MethodGet, "/api/v1/my_products?publication_date=2026-10-19&category=fruits&search=app", api.authorToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]EatenProductResponse](t, rec), 1)

	rec = api.do(http.MethodGet, "/api/v1/my_products?publication_date=19.10.2026", api.authorToken, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	assert.Equal(t, http.StatusNoContent, api.do(http.MethodDelete, path, api.authorToken, nil).Code)
	assert.Equal(t, http.StatusNotFound, api.do(http.MethodGet, path, api.authorToken, nil).Code)
}

func TestMyProducts_MissingProduct(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(http.MethodPost, "/api/v1/my_products", api.authorToken, map[string]any{"product": 404, "weight": 10})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = api.do(http.MethodPost, "/api/v1/my_products", api.authorToken, map[string]any{"product": 1, "weight": 0})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTotalKcal(t *testing.T) {
	api := newTestAPI(t)
	productID := api.seedCatalog()

	for _, w := range []int{100, 50} {
		rec := api.do(http.MethodPost, "/api/v1/my_products", api.authorToken, map[string]any{"product": productID, "weight": w})
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	assert.Equal(t, http.StatusUnauthorized, api.do(http.MethodGet, "/api/v1/total_kcal", "", nil).Code)

	rec := api.do(http.MethodGet, "/api/v1/total_kcal", api.authorToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []DailyTotalResponse{{Date: "2026-10-19", TotalKcalForDay: 78}}, decode[[]DailyTotalResponse](t, rec))

	rec = api.do(http.MethodGet, "/api/v1/total_kcal", api.readerToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decode[[]DailyTotalResponse](t, rec))

	rec = api.do(http.MethodGet, "/api/v1/total_kcal/2026-10-19", api.authorToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(78), decode[DailyTotalResponse](t, rec).TotalKcalForDay)

	assert.Equal(t, http.StatusNotFound, api.do(http.MethodGet, "/api/v1/total_kcal/2026-10-18", api.authorToken, nil).Code)
	assert.Equal(t, http.StatusBadRequest, api.do(http.MethodGet, "/api/v1/total_kcal/yesterday", api.authorToken, nil).Code)
}

func TestAuth_Flow(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(http.MethodPost, "/api/v1/auth/users/", "", map[string]any{"username": "newbie", "email": "n@example.com", "password": "longenough"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.False(t, decode[UserResponse](t, rec).IsStaff)

	rec = api.do(http.MethodPost, "/api/v1/auth/users/", "", map[string]any{"username": "newbie", "password": "longenough"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = api.do(http.MethodPost, "/api/v1/auth/jwt/create/", "", map[string]any{"username": "newbie", "password": "wrong-password"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = api.do(http.MethodPost, "/api/v1/auth/jwt/create/", "", map[string]any{"username": "newbie", "password": "longenough"})
	require.Equal(t, http.StatusOK, rec.Code)
	pair := decode[TokenPairResponse](t, rec)

	rec = api.do(http.MethodGet, "/api/v1/auth/users/me/", pair.Access, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "newbie", decode[UserResponse](t, rec).Username)

	// refresh-токен не годится для авторизации запросов.
	assert.Equal(t, http.StatusUnauthorized, api.do(http.MethodGet, "/api/v1/auth/users/me/", pair.Refresh, nil).Code)

	rec = api.do(http.MethodPost, "/api/v1/auth/jwt/refresh/", "", map[string]any{"refresh": pair.Refresh})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, decode[AccessTokenResponse](t, rec).Access)

	assert.Equal(t, http.StatusOK, api.do(http.MethodPost, "/api/v1/auth/jwt/verify/", "", map[string]any{"token": pair.Access}).Code)
	assert.Equal(t, http.StatusUnauthorized, api.do(http.MethodPost, "/api/v1/auth/jwt/verify/", "", map[string]any{"token": "garbage"}).Code)
}

func TestAuthenticator(t *testing.T) {
	api := newTestAPI(t)

	assert.Equal(t, http.StatusUnauthorized, api.do(http.MethodGet, "/api/v1/products", "not-a-jwt", nil).Code)
	assert.Equal(t, http.StatusUnauthorized, api.do(http.MethodGet, "/api/v1/auth/users/me", "", nil).Code)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/users/me", nil)
	req.Header.Set("Authorization", "JWT "+api.authorToken)
	rec := httptest.NewRecorder()
	api.handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAuthenticator_DeletedUser(t *testing.T) {
	api := newTestAPI(t)

	u, err := api.store.Users().GetByUsername(context.Background(), "reader")
	require.NoError(t, err)
	require.NoError(t, api.store.Users().Delete(context.Background(), u.ID))

	assert.Equal(t, http.StatusUnauthorized, api.do(http.MethodGet, "/api/v1/total_kcal", api.readerToken, nil).Code)
}

func TestHealthz(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestBearerToken(t *testing.T) {
	tests := []struct {
		header string
		token  string
		ok     bool
	}{
		{"Bearer abc", "abc", true},
		{"bearer abc", "abc", true},
		{"JWT abc", "abc", true},
		{"Basic abc", "", false},
		{"Bearer", "", false},
		{"Bearer   ", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		token, ok := bearerToken(tt.header)
		assert.Equal(t, tt.ok, ok, tt.header)
		assert.Equal(t, tt.token, token, tt.header)
	}
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}
