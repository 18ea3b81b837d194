package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/akoselev/eshop/internal/common"
	"github.com/akoselev/eshop/internal/server/auth"
	"github.com/akoselev/eshop/internal/server/models"
	"github.com/akoselev/eshop/internal/server/services"
	"github.com/gin-gonic/gin"
)

// fakeSessions scripts the session service behind the handlers.
type fakeSessions struct {
	registerErr error
	loginErr    error
	refreshErr  error
	authErr     error

	user   *services.UserSummary
	pair   *auth.TokenPair
	claims *auth.Claims

	loggedOut []string
}

func (f *fakeSessions) Authorize(ctx context.Context, accessToken string) (*auth.Claims, error) {
	if f.authErr != nil {
		return nil, f.authErr
	}
	return f.claims, nil
}

func (f *fakeSessions) Register(ctx context.Context, number, username, password string) (*services.UserSummary, *auth.TokenPair, error) {
	if f.registerErr != nil {
		return nil, nil, f.registerErr
	}
	return f.user, f.pair, nil
}

func (f *fakeSessions) Login(ctx context.Context, number, password string) (*services.UserSummary, *auth.TokenPair, error) {
	if f.loginErr != nil {
		return nil, nil, f.loginErr
	}
	return f.user, f.pair, nil
}

func (f *fakeSessions) Logout(ctx context.Context, refreshToken string) error {
	f.loggedOut = append(f.loggedOut, refreshToken)
	return nil
}

func (f *fakeSessions) Refresh(ctx context.Context, refreshToken string) (*auth.TokenPair, error) {
	if f.refreshErr != nil {
		return nil, f.refreshErr
	}
	return f.pair, nil
}

func (f *fakeSessions) Profile(ctx context.Context, userID string) (*services.UserSummary, error) {
	return f.user, nil
}

func (f *fakeSessions) UpdateProfile(ctx context.Context, userID, number, username, password string) (*services.UserSummary, error) {
	return f.user, nil
}

func (f *fakeSessions) AddToBasket(ctx context.Context, userID, productID string) ([]string, error) {
	return []string{productID}, nil
}
func (f *fakeSessions) RemoveFromBasket(ctx context.Context, userID, productID string) ([]string, error) {
	return []string{}, nil
}
func (f *fakeSessions) AddToFavorites(ctx context.Context, userID, productID string) ([]string, error) {
	return []string{productID}, nil
}
func (f *fakeSessions) RemoveFromFavorites(ctx context.Context, userID, productID string) ([]string, error) {
	return []string{}, nil
}

type fakeCatalog struct {
	products []*models.Product
	err      error
}

func (f *fakeCatalog) Categories(ctx context.Context) ([]*models.Category, error) { return nil, f.err }
func (f *fakeCatalog) Products(ctx context.Context, filter *models.ProductFilter) ([]*models.Product, error) {
	return f.products, f.err
}
func (f *fakeCatalog) Product(ctx context.Context, id string) (*models.Product, error) {
	if f.err != nil {
		return nil, f.err
	}
	if len(f.products) == 0 {
		return nil, common.ErrorNotFound
	}
	return f.products[0], nil
}
func (f *fakeCatalog) ProductsByIDs(ctx context.Context, ids []string) ([]*models.Product, error) {
	return f.products, f.err
}
func (f *fakeCatalog) Search(ctx context.Context, query string) ([]*models.Product, error) {
	return f.products, f.err
}
func (f *fakeCatalog) Hits(ctx context.Context) ([]*models.Product, error) {
	return f.products, f.err
}
func (f *fakeCatalog) Discounts(ctx context.Context) ([]*models.Product, error) {
	return f.products, f.err
}
func (f *fakeCatalog) CreateProduct(ctx context.Context, p *models.Product) (*models.Product, error) {
	return p, f.err
}
func (f *fakeCatalog) UpdateProduct(ctx context.Context, p *models.Product) (*models.Product, error) {
	if f.err != nil {
		return nil, f.err
	}
	if len(f.products) == 0 {
		return nil, common.ErrorNotFound
	}
	return p, nil
}
func (f *fakeCatalog) DeleteProduct(ctx context.Context, id string) error {
	if f.err != nil {
		return f.err
	}
	if len(f.products) == 0 {
		return common.ErrorNotFound
	}
	return nil
}
func (f *fakeCatalog) CreateCategory(ctx context.Context, c *models.Category) (*models.Category, error) {
	return c, f.err
}

type fakeReviews struct{}

func (f *fakeReviews) Create(ctx context.Context, userID string, r *models.Review) (*models.Review, error) {
	r.ID = "r1"
	r.UserID = userID
	return r, nil
}
func (f *fakeReviews) ListByProduct(ctx context.Context, productID string) ([]*models.Review, error) {
	return []*models.Review{}, nil
}
func (f *fakeReviews) Update(ctx context.Context, userID string, r *models.Review) (*models.Review, error) {
	return r, nil
}
func (f *fakeReviews) Delete(ctx context.Context, userID, reviewID string) error { return nil }
func (f *fakeReviews) ProductScore(ctx context.Context, productID string) (*float64, error) {
	return nil, nil
}

type fakeFiles struct{}

func (f *fakeFiles) GetPresignedPutUrl(ctx context.Context) (string, string, error) {
	return "images/k", "http://signed/put", nil
}
func (f *fakeFiles) GetPresignedGetUrl(ctx context.Context, key string) (string, error) {
	return "http://signed/" + key, nil
}

func newTestRouter(t *testing.T, sessions *fakeSessions) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	SetupRoutes(r, sessions, &fakeCatalog{}, &fakeReviews{}, &fakeFiles{}, 3600)
	return r
}

func happySessions() *fakeSessions {
	return &fakeSessions{
		user: &services.UserSummary{
			ID:        "u1",
			Number:    "79990000001",
			Username:  "Alice",
			Basket:    []string{},
			Favorites: []string{},
		},
		pair:   &auth.TokenPair{AccessToken: "access", RefreshToken: "refresh"},
		claims: &auth.Claims{UserID: "u1", Number: "79990000001", Username: "Alice"},
	}
}

func TestRegister_SetsRefreshCookie(t *testing.T) {
	r := newTestRouter(t, happySessions())

	body := `{"number":"79990000001","username":"Alice","password":"secret123"}`
	req := httptest.NewRequest(http.MethodPost, "/api/auth/register", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		AccessToken string       `json:"accessToken"`
		User        userResponse `json:"user"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.AccessToken != "access" || resp.User.Number != "79990000001" {
		t.Fatalf("unexpected response: %+v", resp)
	}

	cookie := findCookie(w.Result().Cookies(), common.RefreshTokenCookieName)
	if cookie == nil {
		t.Fatal("expected refresh token cookie")
	}
	if cookie.Value != "refresh" || !cookie.HttpOnly {
		t.Fatalf("unexpected cookie: %+v", cookie)
	}
}

func TestRegister_MissingFields(t *testing.T) {
	r := newTestRouter(t, happySessions())

	req := httptest.NewRequest(http.MethodPost, "/api/auth/register", strings.NewReader(`{"number":"1"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestRegister_UsernameLength(t *testing.T) {
	r := newTestRouter(t, happySessions())

	for _, body := range []string{
		`{"number":"79990000001","password":"secret123"}`,
		`{"number":"79990000001","username":"ab","password":"secret123"}`,
		`{"number":"79990000001","username":"` + strings.Repeat("a", 33) + `","password":"secret123"}`,
	} {
		req := httptest.NewRequest(http.MethodPost, "/api/auth/register", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusBadRequest {
			t.Fatalf("body %s: expected 400, got %d", body, w.Code)
		}
	}
}

func TestLogin_UsernameNotRequired(t *testing.T) {
	r := newTestRouter(t, happySessions())

	body := `{"number":"79990000001","password":"secret123"}`
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
}

func TestRegister_Conflict(t *testing.T) {
	s := happySessions()
	s.registerErr = common.ErrorConflict
	r := newTestRouter(t, s)

	body := `{"number":"79990000001","username":"Alice","password":"secret123"}`
	req := httptest.NewRequest(http.MethodPost, "/api/auth/register", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", w.Code)
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	s := happySessions()
	s.loginErr = common.ErrorInvalidCredential
	r := newTestRouter(t, s)

	body := `{"number":"79990000001","password":"wrong"}`
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}

func TestLogout_ConsumesCookie(t *testing.T) {
	s := happySessions()
	r := newTestRouter(t, s)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil)
	req.AddCookie(&http.Cookie{Name: common.RefreshTokenCookieName, Value: "refresh"})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if len(s.loggedOut) != 1 || s.loggedOut[0] != "refresh" {
		t.Fatalf("expected logout of the cookie token, got %+v", s.loggedOut)
	}

	cookie := findCookie(w.Result().Cookies(), common.RefreshTokenCookieName)
	if cookie == nil || cookie.MaxAge >= 0 || cookie.Value != "" {
		t.Fatalf("expected cleared cookie, got %+v", cookie)
	}
}

func TestLogout_WithoutCookieStillSucceeds(t *testing.T) {
	s := happySessions()
	r := newTestRouter(t, s)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if len(s.loggedOut) != 0 {
		t.Fatalf("unexpected logout calls: %+v", s.loggedOut)
	}
}

func TestRefresh_RotatesCookie(t *testing.T) {
	s := happySessions()
	s.pair = &auth.TokenPair{AccessToken: "access2", RefreshToken: "refresh2"}
	r := newTestRouter(t, s)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/refresh", nil)
	req.AddCookie(&http.Cookie{Name: common.RefreshTokenCookieName, Value: "refresh1"})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	cookie := findCookie(w.Result().Cookies(), common.RefreshTokenCookieName)
	if cookie == nil || cookie.Value != "refresh2" {
		t.Fatalf("expected rotated cookie, got %+v", cookie)
	}
}

func TestRefresh_InvalidTokenClearsCookie(t *testing.T) {
	s := happySessions()
	s.refreshErr = common.ErrorInvalidToken
	r := newTestRouter(t, s)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/refresh", nil)
	req.AddCookie(&http.Cookie{Name: common.RefreshTokenCookieName, Value: "stale"})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
	cookie := findCookie(w.Result().Cookies(), common.RefreshTokenCookieName)
	if cookie == nil || cookie.Value != "" {
		t.Fatalf("expected cleared cookie, got %+v", cookie)
	}
}

func TestRefresh_NoCookie(t *testing.T) {
	r := newTestRouter(t, happySessions())

	req := httptest.NewRequest(http.MethodPost, "/api/auth/refresh", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}

func TestMe_RequiresBearerToken(t *testing.T) {
	r := newTestRouter(t, happySessions())

	for _, header := range []string{"", "access", "Basic access"} {
		req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusUnauthorized {
			t.Fatalf("header %q: expected 401, got %d", header, w.Code)
		}
	}
}

func TestMe_RejectedToken(t *testing.T) {
	s := happySessions()
	s.authErr = common.ErrorUnauthorized
	r := newTestRouter(t, s)

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.Header.Set("Authorization", "Bearer whatever")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}

func TestMe_ReturnsProfile(t *testing.T) {
	r := newTestRouter(t, happySessions())

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.Header.Set("Authorization", "Bearer access")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var resp userResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.ID != "u1" || resp.Username != "Alice" {
		t.Fatalf("unexpected profile: %+v", resp)
	}
}

func TestBasketRoutes(t *testing.T) {
	r := newTestRouter(t, happySessions())

	req := httptest.NewRequest(http.MethodPost, "/api/basket/p1", nil)
	req.Header.Set("Authorization", "Bearer access")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var resp struct {
		Basket []string `json:"basket"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Basket) != 1 || resp.Basket[0] != "p1" {
		t.Fatalf("unexpected basket: %+v", resp.Basket)
	}

	// unauthenticated mutation is rejected
	req = httptest.NewRequest(http.MethodDelete, "/api/basket/p1", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}

func findCookie(cookies []*http.Cookie, name string) *http.Cookie {
	for _, c := range cookies {
		if c.Name == name {
			return c
		}
	}
	return nil
}
