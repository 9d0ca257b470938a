package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/datsun80zx/stockdesk/internal/apiclient"
	"github.com/datsun80zx/stockdesk/internal/importer"
	"github.com/datsun80zx/stockdesk/internal/order"
	"github.com/datsun80zx/stockdesk/internal/schema"
	"github.com/datsun80zx/stockdesk/internal/session"
	"github.com/datsun80zx/stockdesk/internal/store"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// upstream fakes the REST backend
type upstream struct {
	mu           sync.Mutex
	rejectOrders bool
	products     []map[string]any
	receipts     []map[string]any
	updated      []map[string]any
	deleted      []string
	dashboard    map[string]any
}

func (u *upstream) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if !strings.HasPrefix(r.Header.Get("Authorization"), "Bearer ") {
		http.Error(w, "missing token", http.StatusUnauthorized)
		return
	}

	u.mu.Lock()
	defer u.mu.Unlock()

	writeJSON := func(status int, v any) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		json.NewEncoder(w).Encode(v)
	}

	switch {
	case r.Method == http.MethodGet && r.URL.Path == "/api/users/profile":
		claims := jwt.MapClaims{}
		token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		_, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) { return testSecret, nil })
		if err != nil {
			http.Error(w, "invalid token", http.StatusUnauthorized)
			return
		}
		sub, _ := claims.GetSubject()
		writeJSON(http.StatusOK, map[string]any{"uid": sub, "companyName": "Quincaillerie " + sub})
	case r.Method == http.MethodGet && r.URL.Path == "/api/ecom_drog/produitmagasinbricolage":
		writeJSON(http.StatusOK, []map[string]any{
			{"id": 7, "nom": "Perceuse", "prixtva": 89.90, "quantite": 5},
			{"id": 8, "nom": "Vis 4x40", "prixtva": 0.15, "quantite": 1000},
		})
	case r.Method == http.MethodPost && r.URL.Path == "/api/ecom_drog/produitmagasinbricolage":
		var p map[string]any
		json.NewDecoder(r.Body).Decode(&p)
		if p["nom"] == "Refus" {
			http.Error(w, "Duplicate product", http.StatusBadRequest)
			return
		}
		u.products = append(u.products, p)
		writeJSON(http.StatusCreated, p)
	case r.Method == http.MethodGet && r.URL.Path == "/api/ecom_drog/customerpath":
		writeJSON(http.StatusOK, []map[string]any{{"id": 1, "name": "Jean Dupont"}})
	case r.Method == http.MethodPost && r.URL.Path == "/api/ecom_drog/receiptpath":
		if u.rejectOrders {
			http.Error(w, "Insufficient stock for product Perceuse", http.StatusBadRequest)
			return
		}
		var rec map[string]any
		json.NewDecoder(r.Body).Decode(&rec)
		rec["id"] = 501
		u.receipts = append(u.receipts, rec)
		writeJSON(http.StatusCreated, rec)
	case r.Method == http.MethodGet && r.URL.Path == "/api/ecom_drog/receiptpath":
		writeJSON(http.StatusOK, []map[string]any{{"id": 501, "customerName": "Jean Dupont"}})
	case r.Method == http.MethodGet && r.URL.Path == "/api/ecom_drog/receiptpath/501/pdf":
		w.Header().Set("Content-Type", "application/pdf")
		w.Write([]byte("%PDF-1.4 receipt"))
	case r.Method == http.MethodGet && r.URL.Path == "/api/ecom_drog/vendorpath":
		writeJSON(http.StatusOK, []map[string]any{{"id": 3, "name": "ABC Tech", "leadTimeDays": 7}})
	case r.Method == http.MethodPut && (r.URL.Path == "/api/ecom_drog/produitmagasinbricolage/7" || r.URL.Path == "/api/ecom_drog/vendorpath/3"):
		var body map[string]any
		json.NewDecoder(r.Body).Decode(&body)
		u.updated = append(u.updated, body)
		writeJSON(http.StatusOK, body)
	case r.Method == http.MethodDelete:
		switch r.URL.Path {
		case "/api/ecom_drog/produitmagasinbricolage/7", "/api/ecom_drog/customerpath/1", "/api/ecom_drog/vendorpath/3":
			u.deleted = append(u.deleted, r.URL.Path)
			w.WriteHeader(http.StatusNoContent)
		default:
			http.Error(w, "Not found", http.StatusNotFound)
		}
	case r.Method == http.MethodGet && r.URL.Path == "/api/dashboard" && u.dashboard != nil:
		writeJSON(http.StatusOK, u.dashboard)
	case r.Method == http.MethodPost && r.URL.Path == "/api/ai/query":
		writeJSON(http.StatusOK, map[string]any{"text": "You have 2 products."})
	default:
		http.NotFound(w, r)
	}
}

type fakeHistory struct {
	runs []store.ImportRun
}

func (f *fakeHistory) ListRuns(_ context.Context, limit int) ([]store.ImportRun, error) {
	if len(f.runs) > limit {
		return f.runs[:limit], nil
	}
	return f.runs, nil
}

type testEnv struct {
	router   *gin.Engine
	upstream *upstream
	token    string
}

func setup(t *testing.T, history History) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	up := &upstream{}
	backend := httptest.NewServer(up)
	t.Cleanup(backend.Close)

	client := apiclient.New(backend.URL, 5*time.Second, nil, nil)
	srv := New(client, importer.NewImporter(nil, nil), order.NewMemoryDraftStore(time.Hour), history, nil)

	return &testEnv{
		router:   srv.Router([]string{"http://localhost:3000"}),
		upstream: up,
		token:    signToken(t, "user-1", time.Now().Add(time.Hour)),
	}
}

var testSecret = []byte("test-secret")

func signToken(t *testing.T, uid string, exp time.Time) string {
	return signTokenWith(t, testSecret, uid, exp)
}

func signTokenWith(t *testing.T, key []byte, uid string, exp time.Time) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   uid,
		"email": uid + "@example.com",
		"exp":   exp.Unix(),
	})
	s, err := token.SignedString(key)
	require.NoError(t, err)
	return s
}

func (e *testEnv) do(method, path string, body any) *httptest.ResponseRecorder {
	return e.doAs(e.token, method, path, body)
}

func (e *testEnv) doAs(token, method, path string, body any) *httptest.ResponseRecorder {
	var r io.Reader
	if body != nil {
		b, _ := json.Marshal(body)
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func (e *testEnv) upload(path, filename, content string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if filename != "" {
		part, _ := mw.CreateFormFile("file", filename)
		part.Write([]byte(content))
	}
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+e.token)
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func TestHealthz(t *testing.T) {
	env := setup(t, nil)
	w := env.doAs("", http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAPIRequiresValidToken(t *testing.T) {
	env := setup(t, nil)

	w := env.doAs("", http.MethodGet, "/api/receipts", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = env.doAs("not-a-jwt", http.MethodGet, "/api/receipts", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	expired := signToken(t, "user-1", time.Now().Add(-time.Minute))
	w = env.doAs(expired, http.MethodGet, "/api/receipts", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestImportTemplate(t *testing.T) {
	env := setup(t, nil)

	w := env.do(http.MethodGet, "/api/imports/customers/template", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), "customer_import_template.csv")
	assert.True(t, strings.HasPrefix(w.Body.String(), `"name",`), w.Body.String())

	w = env.do(http.MethodGet, "/api/imports/widgets/template", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRunImport(t *testing.T) {
	env := setup(t, nil)

	csv := "nom,designation,quantite,prixtva\n" +
		"Marteau,Marteau de charpentier,12,19.90\n" +
		"Refus,Produit refusé,1,1\n" +
		",Sans nom,1,1\n"
	w := env.upload("/api/imports/products", "products.csv", csv)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	body := decode(t, w)
	assert.Equal(t, "Import completed! Success: 1, Failed: 2", body["message"])
	summary := body["summary"].([]any)
	require.Len(t, summary, 2)
	assert.Contains(t, summary[0], "Row 2: ")
	assert.Contains(t, summary[0], "Duplicate product")
	assert.Equal(t, "Row 3: Missing required fields: nom and designation are required", summary[1])

	require.Len(t, env.upstream.products, 1)
	assert.Equal(t, "Marteau", env.upstream.products[0]["nom"])
}

func TestRunImport_FatalErrors(t *testing.T) {
	env := setup(t, nil)

	w := env.upload("/api/imports/products", "", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.upload("/api/imports/products", "products.xlsx", "nom\nx\n")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.upload("/api/imports/products", "products.csv", "nom,designation\n")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.upload("/api/imports/products", "products.csv", "nom,designation\n\"broken,x\n")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	assert.Empty(t, env.upstream.products)
}

func TestActiveImports(t *testing.T) {
	env := setup(t, nil)
	w := env.do(http.MethodGet, "/api/imports/active", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []any{}, decode(t, w)["runs"])
}

func TestImportHistory(t *testing.T) {
	env := setup(t, nil)
	w := env.do(http.MethodGet, "/api/imports/history", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	env = setup(t, &fakeHistory{runs: []store.ImportRun{{RunID: "a"}, {RunID: "b"}}})
	w = env.do(http.MethodGet, "/api/imports/history?limit=1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	runs := decode(t, w)["runs"].([]any)
	require.Len(t, runs, 1)
	assert.Equal(t, "a", runs[0].(map[string]any)["runId"])

	w = env.do(http.MethodGet, "/api/imports/history?limit=zero", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDraftLifecycle(t *testing.T) {
	env := setup(t, nil)

	w := env.do(http.MethodPost, "/api/orders/drafts", nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	draft := decode(t, w)
	id := draft["id"].(string)
	assert.Equal(t, time.Now().Format("2006-01-02"), draft["orderDate"])
	assert.Equal(t, float64(5), draft["remaining"].(map[string]any)["7"])

	base := "/api/orders/drafts/" + id

	w = env.do(http.MethodPost, base+"/submit", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, order.ErrNoCustomer.Error(), decode(t, w)["error"])

	w = env.do(http.MethodPost, base+"/lines", addLineRequest{ProductID: 7, Quantity: 3})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, float64(2), decode(t, w)["remaining"].(map[string]any)["7"])

	w = env.do(http.MethodPost, base+"/lines", addLineRequest{ProductID: 7, Quantity: 4})
	require.Equal(t, http.StatusConflict, w.Code)
	conflict := decode(t, w)
	assert.Equal(t, float64(2), conflict["remaining"])
	assert.Equal(t, "requested quantity (7) exceeds available stock for Perceuse; remaining: 2", conflict["error"])

	w = env.do(http.MethodPost, base+"/lines", addLineRequest{ProductID: 8, Quantity: 10})
	require.Equal(t, http.StatusOK, w.Code)

	w = env.do(http.MethodDelete, base+"/lines/5", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	customer := int64(1)
	date := "2024-02-01"
	w = env.do(http.MethodPut, base, updateDraftRequest{CustomerID: &customer, OrderDate: &date})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = env.do(http.MethodPost, base+"/submit", nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, float64(501), decode(t, w)["receipt"].(map[string]any)["id"])

	require.Len(t, env.upstream.receipts, 1)
	sent := env.upstream.receipts[0]
	assert.Equal(t, "Jean Dupont", sent["customerName"])
	assert.Equal(t, "2024-02-01T00:00:00", sent["orderDate"])
	assert.InDelta(t, 271.2, sent["totalPrice"], 1e-9)

	w = env.do(http.MethodGet, base, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSubmitRejectedKeepsDraft(t *testing.T) {
	env := setup(t, nil)
	env.upstream.rejectOrders = true

	w := env.do(http.MethodPost, "/api/orders/drafts", nil)
	require.Equal(t, http.StatusCreated, w.Code)
	base := "/api/orders/drafts/" + decode(t, w)["id"].(string)

	customer := int64(1)
	require.Equal(t, http.StatusOK, env.do(http.MethodPut, base, updateDraftRequest{CustomerID: &customer}).Code)
	require.Equal(t, http.StatusOK, env.do(http.MethodPost, base+"/lines", addLineRequest{ProductID: 7, Quantity: 5}).Code)

	w = env.do(http.MethodPost, base+"/submit", nil)
	require.Equal(t, http.StatusBadGateway, w.Code)
	assert.Contains(t, decode(t, w)["error"], "Insufficient stock for product Perceuse")

	w = env.do(http.MethodGet, base, nil)
	require.Equal(t, http.StatusOK, w.Code)
	lines := decode(t, w)["cart"].(map[string]any)["lines"].([]any)
	assert.Len(t, lines, 1)
}

func TestDraftsAreScopedToOwner(t *testing.T) {
	env := setup(t, nil)

	w := env.do(http.MethodPost, "/api/orders/drafts", nil)
	require.Equal(t, http.StatusCreated, w.Code)
	path := "/api/orders/drafts/" + decode(t, w)["id"].(string)

	other := signToken(t, "user-2", time.Now().Add(time.Hour))
	assert.Equal(t, http.StatusNotFound, env.doAs(other, http.MethodGet, path, nil).Code)
	assert.Equal(t, http.StatusNotFound, env.doAs(other, http.MethodDelete, path, nil).Code)

	assert.Equal(t, http.StatusNoContent, env.do(http.MethodDelete, path, nil).Code)
	assert.Equal(t, http.StatusNotFound, env.do(http.MethodGet, path, nil).Code)
}

func TestDraftOwnerIsVerifiedByBackend(t *testing.T) {
	env := setup(t, nil)

	w := env.do(http.MethodPost, "/api/orders/drafts", nil)
	require.Equal(t, http.StatusCreated, w.Code)
	path := "/api/orders/drafts/" + decode(t, w)["id"].(string)

	// well-formed claims for the owner, but not signed by the identity provider
	forged := signTokenWith(t, []byte("someone-else"), "user-1", time.Now().Add(time.Hour))
	assert.Equal(t, http.StatusUnauthorized, env.doAs(forged, http.MethodGet, path, nil).Code)
	assert.Equal(t, http.StatusUnauthorized, env.doAs(forged, http.MethodDelete, path, nil).Code)
	assert.Equal(t, http.StatusUnauthorized, env.doAs(forged, http.MethodPost, "/api/orders/drafts", nil).Code)

	assert.Equal(t, http.StatusOK, env.do(http.MethodGet, path, nil).Code)
}

func TestReceipts(t *testing.T) {
	env := setup(t, nil)

	w := env.do(http.MethodGet, "/api/receipts", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = env.do(http.MethodGet, "/api/receipts/501/pdf", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="receipt-501.pdf"`, w.Header().Get("Content-Disposition"))
	assert.Equal(t, "%PDF-1.4 receipt", w.Body.String())

	w = env.do(http.MethodGet, "/api/receipts/999/pdf", nil)
	assert.Equal(t, http.StatusBadGateway, w.Code)

	w = env.do(http.MethodGet, "/api/receipts/abc/pdf", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAssistantQuery(t *testing.T) {
	env := setup(t, nil)

	w := env.do(http.MethodPost, "/api/assistant/query", assistantRequest{Prompt: "how many products?"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "You have 2 products.", decode(t, w)["text"])

	w = env.do(http.MethodPost, "/api/assistant/query", assistantRequest{Prompt: "   "})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(http.MethodPost, "/api/assistant/query", assistantRequest{Prompt: "x", Mode: "delete"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestEntityRoutes(t *testing.T) {
	env := setup(t, nil)

	w := env.do(http.MethodGet, "/api/vendors", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"name":"ABC Tech"`)

	w = env.do(http.MethodGet, "/api/products", nil)
	require.Equal(t, http.StatusOK, w.Code)
	w = env.do(http.MethodGet, "/api/customers", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = env.do(http.MethodPut, "/api/products/7", map[string]any{"nom": "Perceuse", "designation": "Perceuse 18V", "quantite": 4, "prixtva": 92.5})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, float64(7), decode(t, w)["id"])

	w = env.do(http.MethodPut, "/api/vendors/3", map[string]any{"name": "ABC Tech", "leadTimeDays": 10})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	require.Len(t, env.upstream.updated, 2)
	assert.Equal(t, float64(3), env.upstream.updated[1]["id"])
	assert.Equal(t, float64(10), env.upstream.updated[1]["leadTimeDays"])

	assert.Equal(t, http.StatusNoContent, env.do(http.MethodDelete, "/api/products/7", nil).Code)
	assert.Equal(t, http.StatusNoContent, env.do(http.MethodDelete, "/api/customers/1", nil).Code)
	assert.Equal(t, http.StatusNoContent, env.do(http.MethodDelete, "/api/vendors/3", nil).Code)
	assert.Equal(t, []string{
		"/api/ecom_drog/produitmagasinbricolage/7",
		"/api/ecom_drog/customerpath/1",
		"/api/ecom_drog/vendorpath/3",
	}, env.upstream.deleted)
}

func TestEntityRoutes_Rejections(t *testing.T) {
	env := setup(t, nil)

	w := env.do(http.MethodPut, "/api/products/7", map[string]any{"nom": "Perceuse", "quantite": -2})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid entity: Invalid quantite: must be at least 0", decode(t, w)["error"])

	w = env.do(http.MethodPut, "/api/vendors/abc", map[string]any{"name": "x"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid vendor ID", decode(t, w)["error"])

	w = env.do(http.MethodDelete, "/api/customers/0", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(http.MethodDelete, "/api/vendors/99", nil)
	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Equal(t, float64(http.StatusNotFound), decode(t, w)["upstreamStatus"])

	assert.Empty(t, env.upstream.updated)
	assert.Empty(t, env.upstream.deleted)
}

func TestExportRoute(t *testing.T) {
	env := setup(t, nil)

	w := env.do(http.MethodGet, "/api/exports/products", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "text/csv; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Equal(t, fmt.Sprintf(`attachment; filename="products_export_%s.csv"`, time.Now().Format("2006-01-02")), w.Header().Get("Content-Disposition"))

	lines := strings.Split(w.Body.String(), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "id,nom,designation,marque,fournisseur,quantite,prixtva", lines[0])
	assert.Equal(t, `"7","Perceuse","","","","5","89.9"`, lines[1])

	w = env.do(http.MethodGet, "/api/exports/widgets", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDashboardRoute(t *testing.T) {
	env := setup(t, nil)

	// the backend has no summary endpoint: counters come from the lists
	w := env.do(http.MethodGet, "/api/dashboard", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	body := decode(t, w)
	stats := body["stats"].(map[string]any)
	assert.Equal(t, float64(2), stats["totalProducts"])
	assert.Equal(t, float64(1), stats["totalCustomers"])
	assert.Equal(t, float64(1), stats["lowStockItems"])
	assert.Equal(t, float64(1), stats["totalSales"])
	assert.Equal(t, "Welcome back, Quincaillerie user-1", body["welcomeMessage"])

	env.upstream.dashboard = map[string]any{
		"stats":          map[string]any{"totalProducts": 120},
		"welcomeMessage": "Bonjour",
	}
	w = env.do(http.MethodGet, "/api/dashboard", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body = decode(t, w)
	assert.Equal(t, float64(120), body["stats"].(map[string]any)["totalProducts"])
	assert.Equal(t, "Bonjour", body["welcomeMessage"])
}

func TestStatusFor(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{session.ErrNoUser, http.StatusUnauthorized},
		{session.ErrTokenExpired, http.StatusUnauthorized},
		{fmt.Errorf("reading token: %w", session.ErrClosed), http.StatusUnauthorized},
		{order.ErrDraftNotFound, http.StatusNotFound},
		{importer.ErrImportInProgress, http.StatusConflict},
		{&order.StockError{}, http.StatusConflict},
		{fmt.Errorf("listing products: %w", &apiclient.APIError{StatusCode: 500}), http.StatusBadGateway},
		{importer.ErrFileTooLarge, http.StatusBadRequest},
		{fmt.Errorf("%w: Invalid leadTimeDays: must be at least 0", schema.ErrInvalidEntity), http.StatusBadRequest},
		{schema.ErrNothingToExport, http.StatusNotFound},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, statusFor(tc.err), tc.err.Error())
	}
}
