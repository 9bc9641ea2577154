package v1

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kiosko/internal/app/apptest"
	"kiosko/internal/core/types"
	"kiosko/internal/domain"
	"kiosko/internal/domain/auth"
	"kiosko/internal/domain/documents/payment"
	"kiosko/internal/domain/documents/sale"
	"kiosko/internal/domain/registers/debt"
	"kiosko/internal/domain/reports"
	"kiosko/internal/infrastructure/http/v1/dto"
	"kiosko/pkg/logger"
)

type testAPI struct {
	shop     *apptest.Shop
	router   *gin.Engine
	owner    string
	employee string
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	shop := apptest.New(t)
	api := &testAPI{
		shop:   shop,
		router: NewRouter(RouterConfig{Services: shop.Services, Logger: logger.NewNop()}),
	}
	api.owner = api.login(t, "owner", "owner-pass-1", auth.RoleOwner)
	api.employee = api.login(t, "clerk", "clerk-pass-1", auth.RoleEmployee)
	return api
}

func (a *testAPI) login(t *testing.T, username, password string, role auth.Role) string {
	t.Helper()
	_, err := a.shop.Auth.CreateUser(context.Background(), auth.CreateUserRequest{
		Username: username,
		Password: password,
		Role:     role,
	})
	require.NoError(t, err)

	rec := a.do(t, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"username": username,
		"password": password,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var body dto.LoginResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.NotEmpty(t, body.AccessToken)
	return body.AccessToken
}

func (a *testAPI) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

type errorBody struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details"`
}

func TestHealthEndpoints(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "memory", decode[map[string]any](t, rec)["storage"])

	rec = api.do(t, http.MethodGet, "/ready", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestRequestIDIsEchoed(t *testing.T) {
	api := newTestAPI(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-ID", "req-42")
	rec := httptest.NewRecorder()
	api.router.ServeHTTP(rec, req)

	assert.Equal(t, "req-42", rec.Header().Get("X-Request-ID"))
	assert.NotEmpty(t, rec.Header().Get("X-Trace-ID"))
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(t, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"username": "owner",
		"password": "not-the-password",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "UNAUTHORIZED", decode[errorBody](t, rec).Code)
}

func TestMeListsRolePermissions(t *testing.T) {
	api := newTestAPI(t)

	me := decode[dto.MeResponse](t, api.do(t, http.MethodGet, "/api/v1/auth/me", api.employee, nil))
	assert.Equal(t, "clerk", me.Username)
	assert.Equal(t, "employee", me.Role)
	assert.Contains(t, me.Permissions, string(auth.PermSalesCreate))
	assert.NotContains(t, me.Permissions, string(auth.PermReportsRead))
}

func TestAuthAndPermissionChecks(t *testing.T) {
	api := newTestAPI(t)

	tests := []struct {
		name   string
		method string
		path   string
		token  string
		status int
		code   string
	}{
		{"no token", http.MethodGet, "/api/v1/products", "", http.StatusUnauthorized, "UNAUTHORIZED"},
		{"bad token", http.MethodGet, "/api/v1/products", "garbage", http.StatusUnauthorized, "UNAUTHORIZED"},
		{"employee writes product", http.MethodPost, "/api/v1/products", api.employee, http.StatusForbidden, "FORBIDDEN"},
		{"employee reads reports", http.MethodGet, "/api/v1/reports/profit", api.employee, http.StatusForbidden, "FORBIDDEN"},
		{"employee pays supplier", http.MethodPost, "/api/v1/payments", api.employee, http.StatusForbidden, "FORBIDDEN"},
		{"employee creates user", http.MethodPost, "/api/v1/auth/users", api.employee, http.StatusForbidden, "FORBIDDEN"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := api.do(t, tt.method, tt.path, tt.token, map[string]any{})
			assert.Equal(t, tt.status, rec.Code, rec.Body.String())
			assert.Equal(t, tt.code, decode[errorBody](t, rec).Code)
		})
	}

	rec := api.do(t, http.MethodGet, "/api/v1/products", api.employee, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestProductEndpoints(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(t, http.MethodPost, "/api/v1/products", api.owner, map[string]any{
		"code":             "COF-1",
		"name":             "Coffee beans",
		"category":         "drinks",
		"purchasePrice":    "8.00",
		"salePrice":        "10.00",
		"reorderThreshold": 3,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decode[dto.ProductResponse](t, rec)
	assert.True(t, created.Margin.Equal(types.MustMoney("25")), created.Margin.String())
	assert.True(t, created.UnitProfit.Equal(types.MustMoney("2")))
	assert.True(t, created.NeedsReorder)

	rec = api.do(t, http.MethodPost, "/api/v1/products", api.owner, map[string]any{
		"code": "cof-1", "name": "Duplicate", "purchasePrice": "1", "salePrice": "1",
	})
	assert.Equal(t, http.StatusConflict, rec.Code, rec.Body.String())

	rec = api.do(t, http.MethodGet, "/api/v1/products/by-code/cof-1", api.employee, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, created.ID, decode[dto.ProductResponse](t, rec).ID)

	path := "/api/v1/products/" + created.ID.String()
	rec = api.do(t, http.MethodPut, path, api.owner, map[string]any{"salePrice": "7.00"})
	assert.Equal(t, http.StatusBadRequest, rec.Code, "sale price below cost")

	rec = api.do(t, http.MethodPut, path, api.owner, map[string]any{"salePrice": "12.00"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.True(t, decode[dto.ProductResponse](t, rec).SalePrice.Equal(types.MustMoney("12")))

	rec = api.do(t, http.MethodGet, "/api/v1/products?search=coffee", api.employee, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	list := decode[dto.ListResponse[dto.ProductResponse]](t, rec)
	assert.EqualValues(t, 1, list.TotalCount)

	rec = api.do(t, http.MethodGet, "/api/v1/products/low-stock", api.employee, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	low := decode[struct {
		Items []dto.ProductResponse `json:"items"`
	}](t, rec)
	require.Len(t, low.Items, 1)

	rec = api.do(t, http.MethodPost, path+"/deactivate", api.owner, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, decode[dto.ProductResponse](t, rec).Active)

	rec = api.do(t, http.MethodGet, "/api/v1/products/not-an-id", api.owner, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "VALIDATION_ERROR", decode[errorBody](t, rec).Code)
}

func TestSaleFlow(t *testing.T) {
	api := newTestAPI(t)
	sup := api.shop.Supplier(t, "Dairy Co")
	milk := api.shop.Product(t, "MILK", "1.00", "1.50", false)

	rec := api.do(t, http.MethodPost, "/api/v1/purchases", api.owner, map[string]any{
		"supplierId":   sup.ID.String(),
		"paymentTerms": "cash",
		"lines": []map[string]any{
			{"productId": milk.ID.String(), "quantity": 3, "unitCost": "1.00"},
		},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	pur := decode[dto.PurchaseResponse](t, rec)
	assert.True(t, pur.Paid)
	assert.True(t, pur.Outstanding.IsZero())

	rec = api.do(t, http.MethodPost, "/api/v1/sales", api.employee, map[string]any{
		"paymentMethod": "cash",
		"lines":         []map[string]any{{"productId": milk.ID.String(), "quantity": 2}},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	s := decode[sale.Sale](t, rec)
	assert.True(t, s.Total.Equal(types.MustMoney("3.00")), s.Total.String())
	assert.True(t, s.Profit.Equal(types.MustMoney("1.00")), s.Profit.String())
	assert.NotEmpty(t, s.UserID)

	rec = api.do(t, http.MethodPost, "/api/v1/sales", api.employee, map[string]any{
		"lines": []map[string]any{{"productId": milk.ID.String(), "quantity": 2}},
	})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "INSUFFICIENT_STOCK", decode[errorBody](t, rec).Code)
	assert.EqualValues(t, 1, api.shop.ReloadProduct(t, milk).Stock)

	rec = api.do(t, http.MethodPost, "/api/v1/sales", api.employee, map[string]any{
		"lines": []map[string]any{{"productId": milk.ID.String(), "quantity": 0}},
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = api.do(t, http.MethodGet, "/api/v1/sales/"+s.ID.String(), api.employee, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[sale.Sale](t, rec).Lines, 1)

	rec = api.do(t, http.MethodGet, "/api/v1/sales/by-number/"+s.Number, api.employee, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = api.do(t, http.MethodGet, "/api/v1/sales?from=2025-03-10&to=2025-03-10", api.employee, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 1, decode[domain.ListResult[sale.Sale]](t, rec).TotalCount)

	rec = api.do(t, http.MethodGet, "/api/v1/sales?from=2025-03-11", api.employee, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 0, decode[domain.ListResult[sale.Sale]](t, rec).TotalCount)

	rec = api.do(t, http.MethodGet, "/api/v1/reports/profit?from=2025-03-10&to=2025-03-10", api.owner, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	profit := decode[reports.ProfitReport](t, rec)
	assert.EqualValues(t, 1, profit.SaleCount)
	assert.True(t, profit.ProfitTotal.Equal(types.MustMoney("1.00")))

	rec = api.do(t, http.MethodGet, "/api/v1/reports/profit?from=10-03-2025", api.owner, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSupplierDebtAndPayments(t *testing.T) {
	api := newTestAPI(t)
	sup := api.shop.Supplier(t, "Bakery")
	bread := api.shop.Product(t, "BREAD", "2.00", "3.00", false)

	rec := api.do(t, http.MethodPost, "/api/v1/purchases", api.owner, map[string]any{
		"supplierId":   sup.ID.String(),
		"paymentTerms": "credit",
		"dueDate":      "2025-03-20T00:00:00Z",
		"lines": []map[string]any{
			{"productId": bread.ID.String(), "quantity": 5, "unitCost": "2.00"},
		},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	pur := decode[dto.PurchaseResponse](t, rec)
	assert.True(t, pur.Outstanding.Equal(types.MustMoney("10.00")))

	debtPath := "/api/v1/suppliers/" + sup.ID.String() + "/debt"
	summary := decode[debt.Summary](t, api.do(t, http.MethodGet, debtPath, api.owner, nil))
	assert.True(t, summary.TotalOutstanding.Equal(types.MustMoney("10.00")))
	assert.Equal(t, 1, summary.PendingPurchaseCount)

	rec = api.do(t, http.MethodPost, "/api/v1/payments", api.owner, map[string]any{
		"supplierId": sup.ID.String(),
		"purchaseId": pur.ID.String(),
		"amount":     "10.01",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	body := decode[errorBody](t, rec)
	assert.Equal(t, "BUSINESS_RULE_VIOLATION", body.Code)
	assert.Equal(t, "overpayment", body.Details["rule"])

	rec = api.do(t, http.MethodPost, "/api/v1/payments", api.owner, map[string]any{
		"supplierId": sup.ID.String(),
		"purchaseId": pur.ID.String(),
		"amount":     "10.00",
		"method":     "transfer",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	pay := decode[payment.Payment](t, rec)

	rec = api.do(t, http.MethodGet, "/api/v1/payments/"+pay.ID.String(), api.owner, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	summary = decode[debt.Summary](t, api.do(t, http.MethodGet, debtPath, api.owner, nil))
	assert.True(t, summary.TotalOutstanding.IsZero())

	rec = api.do(t, http.MethodGet, "/api/v1/purchases?unpaid=true", api.owner, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 0, decode[dto.ListResponse[dto.PurchaseResponse]](t, rec).TotalCount)

	rec = api.do(t, http.MethodGet, "/api/v1/payments?supplierId="+sup.ID.String(), api.owner, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 1, decode[domain.ListResult[payment.Payment]](t, rec).TotalCount)
}

func TestLotEndpoints(t *testing.T) {
	api := newTestAPI(t)
	sup := api.shop.Supplier(t, "Farm")
	yogurt := api.shop.Product(t, "YOG", "1.00", "2.00", true)

	rec := api.do(t, http.MethodPost, "/api/v1/purchases", api.owner, map[string]any{
		"supplierId": sup.ID.String(),
		"expiresAt":  "2025-03-15T00:00:00Z",
		"lines": []map[string]any{
			{"productId": yogurt.ID.String(), "quantity": 4, "unitCost": "1.00"},
		},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = api.do(t, http.MethodGet, "/api/v1/products/"+yogurt.ID.String()+"/lots", api.employee, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	lots := decode[struct {
		Items []struct {
			ID       string `json:"id"`
			Quantity int64  `json:"quantity"`
		} `json:"items"`
	}](t, rec)
	require.Len(t, lots.Items, 1)
	assert.EqualValues(t, 4, lots.Items[0].Quantity)

	rec = api.do(t, http.MethodGet, "/api/v1/lots/expiring?days=7", api.employee, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	expiring := decode[struct {
		Days  int   `json:"days"`
		Items []any `json:"items"`
	}](t, rec)
	assert.Equal(t, 7, expiring.Days)
	assert.Len(t, expiring.Items, 1)

	rec = api.do(t, http.MethodGet, "/api/v1/lots/expired", api.employee, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"items":[]}`, rec.Body.String())

	rec = api.do(t, http.MethodDelete, "/api/v1/lots/"+lots.Items[0].ID, api.employee, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = api.do(t, http.MethodDelete, "/api/v1/lots/"+lots.Items[0].ID, api.owner, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.EqualValues(t, 0, api.shop.ReloadProduct(t, yogurt).Stock)
}

func TestUserManagement(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(t, http.MethodPost, "/api/v1/auth/users", api.owner, map[string]any{
		"username": "night-shift",
		"password": "night-pass-1",
		"role":     "employee",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	user := decode[dto.UserResponse](t, rec)
	assert.NotContains(t, rec.Body.String(), "password")

	rec = api.do(t, http.MethodPost, "/api/v1/auth/users", api.owner, map[string]any{
		"username": "bad-role",
		"password": "whatever-1",
		"role":     "admin",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = api.do(t, http.MethodGet, "/api/v1/auth/users", api.owner, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	users := decode[struct {
		Items []dto.UserResponse `json:"items"`
	}](t, rec)
	assert.Len(t, users.Items, 3)

	rec = api.do(t, http.MethodPost, "/api/v1/auth/users/"+user.ID+"/deactivate", api.owner, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, decode[dto.UserResponse](t, rec).Active)

	rec = api.do(t, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"username": "night-shift",
		"password": "night-pass-1",
	})
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestAlertsEndpoint(t *testing.T) {
	api := newTestAPI(t)
	api.shop.Product(t, "SALT", "0.50", "1.00", false)

	rec := api.do(t, http.MethodGet, "/api/v1/alerts", api.employee, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	snap := decode[struct {
		LowStock []any `json:"lowStock"`
	}](t, rec)
	assert.Len(t, snap.LowStock, 1)
}
