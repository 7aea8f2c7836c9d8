package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codecai/factu-core/internal/application/auth"
	"github.com/codecai/factu-core/internal/application/billing"
	"github.com/codecai/factu-core/internal/application/dto"
	"github.com/codecai/factu-core/internal/application/usecase"
	"github.com/codecai/factu-core/internal/domain/entity"
	apphttp "github.com/codecai/factu-core/internal/interfaces/http"
	"github.com/codecai/factu-core/internal/testutil/memstore"
	pkgjwt "github.com/codecai/factu-core/pkg/jwt"
	"github.com/codecai/factu-core/pkg/logger"
)

const (
	testJWTSecret = "test-secret-key-for-unit-tests"
	testIssuer    = "factu-core-test"
)

type fakePDF struct{}

func (fakePDF) GenerateBillPDF(_ context.Context, b *entity.Bill) ([]byte, error) {
	return []byte("%PDF-1.4 " + b.BillNumber), nil
}

// memLimiter contador en memoria con la misma interfaz que el cliente Redis.
type memLimiter struct {
	mu     sync.Mutex
	counts map[string]int64
}

func (m *memLimiter) IncrWithTTL(_ context.Context, key string, _ time.Duration) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counts[key]++
	return m.counts[key], nil
}

func (m *memLimiter) RateLimitKey(parts ...string) string {
	key := "test"
	for _, p := range parts {
		key += ":" + p
	}
	return key
}

type env struct {
	app   *fiber.App
	store *memstore.Store
	roles map[string]*entity.Role
	users map[string]*entity.User
}

func newEnv(t *testing.T, limit apphttp.RateLimitPolicy) *env {
	t.Helper()
	s := memstore.New()
	roles := map[string]*entity.Role{}
	users := map[string]*entity.User{}
	hash, err := auth.HashPassword("Secreto123")
	require.NoError(t, err)
	for i, name := range []string{entity.RoleAdmin, entity.RoleManager, entity.RoleUser, entity.RoleSeller} {
		roles[name] = s.MustRole(t, name)
		users[name] = s.MustUser(t, "user"+strconv.Itoa(i)+"@factucore.com", roles[name].ID, hash)
	}

	deps := apphttp.RouterDeps{
		AppName: "factu-core-test",
		Log:     logger.Nop(),
		Gate:    auth.NewGate(testJWTSecret, s.Users(), s.Roles(), time.Minute, logger.Nop()),
		AuthUC: auth.NewAuthUseCase(s.Users(), s.Roles(),
			auth.JWTConfig{Secret: testJWTSecret, ExpMinutes: 60, Issuer: testIssuer}, entity.RoleUser),
		UserUC:         usecase.NewUserUseCase(s.Users(), s.Roles(), s.Bills()),
		RoleUC:         usecase.NewRoleUseCase(s.Roles()),
		ShopUC:         usecase.NewShopUseCase(s.Shops(), s.Users(), s, logger.Nop()),
		BillUC:         billing.NewBillUseCase(s.Bills(), s.Details(), s.Users(), s),
		BillDetailUC:   billing.NewBillDetailUseCase(s.Bills(), s.Details(), s, nil),
		BillPDF:        billing.NewPDFUseCase(s.Bills(), s.Details(), fakePDF{}),
		RateLimitStore: &memLimiter{counts: map[string]int64{}},
		AuthRateLimit:  limit,
	}
	app := apphttp.NewApp(deps)
	apphttp.Router(app, deps)
	return &env{app: app, store: s, roles: roles, users: users}
}

func (e *env) token(t *testing.T, role string) string {
	t.Helper()
	u := e.users[role]
	tok, err := pkgjwt.Generate(testJWTSecret, testIssuer, 60, pkgjwt.Subject{UserID: u.ID, Email: u.Email, RoleID: u.RoleID})
	require.NoError(t, err)
	return tok
}

func (e *env) do(t *testing.T, method, path, token string, body any) *http.Response {
	t.Helper()
	var r io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}
	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func TestHealth(t *testing.T) {
	e := newEnv(t, apphttp.RateLimitPolicy{})
	resp := e.do(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get(apphttp.HeaderRequestID))
}

func TestAuth_SinTokenEsMissingToken(t *testing.T) {
	e := newEnv(t, apphttp.RateLimitPolicy{})
	resp := e.do(t, http.MethodGet, "/bill", "", nil)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "MISSING_TOKEN", decode[dto.ErrorResponse](t, resp).Code)
}

func TestAuth_TokenExpiradoYMalformadoSonDistintos(t *testing.T) {
	e := newEnv(t, apphttp.RateLimitPolicy{})
	u := e.users[entity.RoleAdmin]
	expired, err := pkgjwt.Generate(testJWTSecret, testIssuer, -1, pkgjwt.Subject{UserID: u.ID, Email: u.Email, RoleID: u.RoleID})
	require.NoError(t, err)

	resp := e.do(t, http.MethodGet, "/auth/profile", expired, nil)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "TOKEN_EXPIRED", decode[dto.ErrorResponse](t, resp).Code)

	resp = e.do(t, http.MethodGet, "/auth/profile", "no.es.jwt", nil)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "INVALID_TOKEN", decode[dto.ErrorResponse](t, resp).Code)
}

func TestAuth_LoginYProfile(t *testing.T) {
	e := newEnv(t, apphttp.RateLimitPolicy{})
	resp := e.do(t, http.MethodPost, "/auth/login", "", dto.LoginRequest{
		Email: e.users[entity.RoleSeller].Email, Password: "Secreto123",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	login := decode[dto.LoginResponse](t, resp)
	require.NotEmpty(t, login.AccessToken)

	resp = e.do(t, http.MethodGet, "/auth/profile", login.AccessToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	profile := decode[dto.ProfileResponse](t, resp)
	assert.Equal(t, e.users[entity.RoleSeller].ID, profile.ID)

	resp = e.do(t, http.MethodPost, "/auth/login", "", dto.LoginRequest{
		Email: e.users[entity.RoleSeller].Email, Password: "Incorrecto1",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestPolicy_RolesPorRuta(t *testing.T) {
	e := newEnv(t, apphttp.RateLimitPolicy{})
	cases := []struct {
		name   string
		role   string
		method string
		path   string
		want   int
	}{
		{"usuario no lista usuarios", entity.RoleUser, http.MethodGet, "/users", http.StatusForbidden},
		{"admin lista usuarios", entity.RoleAdmin, http.MethodGet, "/users", http.StatusOK},
		{"gerente lista facturas", entity.RoleManager, http.MethodGet, "/bill", http.StatusOK},
		{"vendedor no lista facturas", entity.RoleSeller, http.MethodGet, "/bill", http.StatusForbidden},
		{"usuario no borra facturas", entity.RoleUser, http.MethodDelete, "/bill/1", http.StatusForbidden},
		{"gerente no borra facturas", entity.RoleManager, http.MethodDelete, "/bill/1", http.StatusForbidden},
		{"cualquier autenticado lista líneas", entity.RoleSeller, http.MethodGet, "/bill-details", http.StatusOK},
		{"cualquier autenticado ve sus tiendas", entity.RoleUser, http.MethodGet, "/shops/my-shops", http.StatusOK},
		{"usuario no crea roles", entity.RoleUser, http.MethodPost, "/roles", http.StatusForbidden},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp := e.do(t, tc.method, tc.path, e.token(t, tc.role), nil)
			assert.Equal(t, tc.want, resp.StatusCode)
		})
	}
}

func TestPolicy_RolCambiadoDespuesDelToken(t *testing.T) {
	e := newEnv(t, apphttp.RateLimitPolicy{})
	tok := e.token(t, entity.RoleAdmin)
	admin := e.users[entity.RoleAdmin]

	admin.RoleID = e.roles[entity.RoleUser].ID
	require.NoError(t, e.store.Users().Update(context.Background(), admin))

	resp := e.do(t, http.MethodGet, "/users", tok, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestBilling_GrandTotalSiempreIgualALaSumaDeLineas(t *testing.T) {
	e := newEnv(t, apphttp.RateLimitPolicy{})
	tok := e.token(t, entity.RoleAdmin)
	owner := e.users[entity.RoleManager]

	resp := e.do(t, http.MethodPost, "/bill", tok, map[string]any{
		"billNumber": "001", "date": "2024-05-01", "userId": owner.ID,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	bill := decode[dto.BillResponse](t, resp)
	assert.True(t, bill.GrandTotal.IsZero())

	detailTok := e.token(t, entity.RoleSeller)
	resp = e.do(t, http.MethodPost, "/bill-details", detailTok, map[string]any{
		"billId": bill.ID, "name": "Café", "amount": 3, "itemPrice": "2.50",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	first := decode[dto.BillDetailResponse](t, resp)
	assert.True(t, decimal.RequireFromString("7.50").Equal(first.TotalItem))

	resp = e.do(t, http.MethodPost, "/bill-details", detailTok, map[string]any{
		"billId": bill.ID, "name": "Pan", "amount": 2, "itemPrice": "1.25",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = e.do(t, http.MethodPatch, "/bill-details/"+strconv.FormatInt(first.ID, 10), detailTok, map[string]any{"amount": 4})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = e.do(t, http.MethodGet, "/bill/"+strconv.FormatInt(bill.ID, 10), tok, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	got := decode[dto.BillResponse](t, resp)
	require.Len(t, got.Details, 2)
	sum := decimal.Zero
	for _, d := range got.Details {
		sum = sum.Add(d.TotalItem)
	}
	assert.True(t, decimal.RequireFromString("12.50").Equal(got.GrandTotal), "got %s", got.GrandTotal)
	assert.True(t, sum.Equal(got.GrandTotal))

	resp = e.do(t, http.MethodDelete, "/bill-details/"+strconv.FormatInt(first.ID, 10), detailTok, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = e.do(t, http.MethodGet, "/bill/bill-number/001", tok, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, decimal.RequireFromString("2.50").Equal(decode[dto.BillResponse](t, resp).GrandTotal))
}

func TestBilling_GrandTotalNoSePuedeEditar(t *testing.T) {
	e := newEnv(t, apphttp.RateLimitPolicy{})
	tok := e.token(t, entity.RoleAdmin)
	resp := e.do(t, http.MethodPost, "/bill", tok, map[string]any{
		"billNumber": "002", "date": "2024-05-01", "userId": e.users[entity.RoleAdmin].ID,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	bill := decode[dto.BillResponse](t, resp)

	resp = e.do(t, http.MethodPatch, "/bill/"+strconv.FormatInt(bill.ID, 10), tok, map[string]any{"grandTotal": "10"})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "INVALID_INPUT", decode[dto.ErrorResponse](t, resp).Code)
}

func TestBilling_DescargaPDF(t *testing.T) {
	e := newEnv(t, apphttp.RateLimitPolicy{})
	tok := e.token(t, entity.RoleAdmin)
	resp := e.do(t, http.MethodPost, "/bill", tok, map[string]any{
		"billNumber": "003", "date": "2024-05-01", "userId": e.users[entity.RoleAdmin].ID,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	bill := decode[dto.BillResponse](t, resp)

	resp = e.do(t, http.MethodGet, "/bill/"+strconv.FormatInt(bill.ID, 10)+"/pdf", tok, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get(fiber.HeaderContentType))
	assert.Contains(t, resp.Header.Get(fiber.HeaderContentDisposition), "attachment")
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(body, []byte("%PDF")))

	resp = e.do(t, http.MethodGet, "/bill/9999/pdf", tok, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestValidacion_DevuelveDetallePorCampo(t *testing.T) {
	e := newEnv(t, apphttp.RateLimitPolicy{})
	resp := e.do(t, http.MethodPost, "/auth/register", "", map[string]any{
		"email": "no-es-email", "password": "corta",
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	body := decode[dto.ErrorResponse](t, resp)
	assert.Equal(t, "VALIDATION", body.Code)
	assert.Contains(t, body.Details, "email")
	assert.Contains(t, body.Details, "password")
	assert.Contains(t, body.Details, "firstName")
}

func TestValidacion_IDNoNumerico(t *testing.T) {
	e := newEnv(t, apphttp.RateLimitPolicy{})
	resp := e.do(t, http.MethodGet, "/bill/abc", e.token(t, entity.RoleAdmin), nil)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "INVALID_INPUT", decode[dto.ErrorResponse](t, resp).Code)
}

func TestRateLimit_LoginDevuelve429(t *testing.T) {
	e := newEnv(t, apphttp.RateLimitPolicy{Name: "login", Limit: 2, Window: time.Minute})
	in := dto.LoginRequest{Email: "nadie@factucore.com", Password: "Secreto123"}

	for i := 0; i < 2; i++ {
		resp := e.do(t, http.MethodPost, "/auth/login", "", in)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	}
	resp := e.do(t, http.MethodPost, "/auth/login", "", in)
	require.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	assert.Equal(t, "60", resp.Header.Get(fiber.HeaderRetryAfter))
	assert.Equal(t, "RATE_LIMITED", decode[dto.ErrorResponse](t, resp).Code)
}

func TestShops_AdminAsignaYUsuarioVeSusTiendas(t *testing.T) {
	e := newEnv(t, apphttp.RateLimitPolicy{})
	admin := e.token(t, entity.RoleAdmin)
	member := e.users[entity.RoleUser]

	resp := e.do(t, http.MethodPost, "/shops", admin, map[string]any{
		"name": "Tienda Centro", "ruc": "1790012345001", "address": "Av. Amazonas",
		"phoneNumber": "022345678", "country": "Ecuador", "city": "Quito",
		"email": "centro@factucore.com",
		"userIds": []int64{member.ID},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = e.do(t, http.MethodGet, "/shops/my-shops", e.token(t, entity.RoleUser), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	mine := decode[[]dto.ShopResponse](t, resp)
	require.Len(t, mine, 1)
	assert.Equal(t, "Tienda Centro", mine[0].Name)
}

func TestBilling_PrecioConMasDeDosDecimalesEs400(t *testing.T) {
	e := newEnv(t, apphttp.RateLimitPolicy{})
	tok := e.token(t, entity.RoleAdmin)
	resp := e.do(t, http.MethodPost, "/bill", tok, map[string]any{
		"billNumber": "004", "date": "2024-05-01", "userId": e.users[entity.RoleAdmin].ID,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	bill := decode[dto.BillResponse](t, resp)

	resp = e.do(t, http.MethodPost, "/bill-details", tok, map[string]any{
		"billId": bill.ID, "name": "Chicle", "amount": 3, "itemPrice": "0.335",
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "INVALID_INPUT", decode[dto.ErrorResponse](t, resp).Code)

	resp = e.do(t, http.MethodGet, "/bill-details/bill/"+strconv.FormatInt(bill.ID, 10), tok, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, decode[[]dto.BillDetailResponse](t, resp))
}

func TestPolicy_UsuarioEliminadoPierdeAcceso(t *testing.T) {
	e := newEnv(t, apphttp.RateLimitPolicy{})
	tok := e.token(t, entity.RoleManager)
	require.NoError(t, e.store.Users().Delete(context.Background(), e.users[entity.RoleManager].ID))

	resp := e.do(t, http.MethodGet, "/bill", tok, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}
