package routes

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"track_swiftly/internal/config"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type testServer struct {
	t      *testing.T
	router *gin.Engine
}

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{Env: "test"},
		JWT:    config.JWTConfig{Secret: "test-secret", ExpiresIn: time.Hour},
	}
}

func newTestServer(t *testing.T, cfg *config.Config) *testServer {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := gorm.Open(sqlite.Open("file:"+name+"?mode=memory&cache=shared"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, config.Migrate(db))

	deps := NewDependencies(db, cfg, nil)
	deps.AccessLog = io.Discard
	r, err := SetupRouter(deps)
	require.NoError(t, err)
	return &testServer{t: t, router: r}
}

func (s *testServer) do(method, path, token string, body interface{}) *httptest.ResponseRecorder {
	s.t.Helper()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(s.t, err)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

// register creates an account and returns its token and id.
func (s *testServer) register(email, role string) (string, string) {
	s.t.Helper()
	w := s.do(http.MethodPost, "/api/auth/register", "", gin.H{
		"email": email, "password": "password123", "name": "Test " + role, "role": role,
	})
	require.Equal(s.t, http.StatusCreated, w.Code, w.Body.String())
	var resp struct {
		Token string `json:"token"`
		User  struct {
			ID string `json:"id"`
		} `json:"user"`
	}
	require.NoError(s.t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.Token, resp.User.ID
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func packageBody(tn, customerID string) gin.H {
	return gin.H{
		"trackingNumber":    tn,
		"senderName":        "Amit Sharma",
		"senderAddress":     "12 MG Road, Bengaluru",
		"receiverName":      "Priya Patel",
		"receiverAddress":   "44 Park Street, Kolkata",
		"receiverPhone":     "+91 98765 43210",
		"estimatedDelivery": "2030-01-15",
		"weight":            2.5,
		"customerId":        customerID,
	}
}

func TestHealthAndNotFound(t *testing.T) {
	s := newTestServer(t, testConfig())

	w := s.do(http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	health := decode[map[string]interface{}](t, w)
	assert.Equal(t, "OK", health["status"])
	assert.Contains(t, health, "uptime")

	w = s.do(http.MethodGet, "/api/nope", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"Route not found"}`, w.Body.String())
}

func TestAuthFlow(t *testing.T) {
	s := newTestServer(t, testConfig())
	token, id := s.register("customer@example.com", "customer")

	w := s.do(http.MethodGet, "/api/auth/me", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	me := decode[map[string]interface{}](t, w)
	assert.Equal(t, id, me["id"])
	assert.NotContains(t, me, "password")

	w = s.do(http.MethodPost, "/api/auth/login", "", gin.H{"email": "customer@example.com", "password": "password123"})
	assert.Equal(t, http.StatusOK, w.Code)

	w = s.do(http.MethodPost, "/api/auth/login", "", gin.H{"email": "customer@example.com", "password": "nope"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	w = s.do(http.MethodPost, "/api/auth/login", "", gin.H{"email": "ghost@example.com", "password": "nope"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.do(http.MethodPost, "/api/auth/register", "", gin.H{
		"email": "customer@example.com", "password": "password123", "name": "Dup", "role": "customer",
	})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = s.do(http.MethodPost, "/api/auth/register", "", gin.H{
		"email": "x@example.com", "password": "123", "name": "X", "role": "boss", "phone": "12345",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	body := decode[struct {
		Details map[string]string `json:"details"`
	}](t, w)
	assert.Contains(t, body.Details, "password")
	assert.Contains(t, body.Details, "role")
	assert.Contains(t, body.Details, "phone")

	assert.Equal(t, http.StatusUnauthorized, s.do(http.MethodGet, "/api/auth/me", "", nil).Code)
	assert.Equal(t, http.StatusUnauthorized, s.do(http.MethodGet, "/api/auth/me", "garbage", nil).Code)
}

func TestPackageLifecycle(t *testing.T) {
	s := newTestServer(t, testConfig())
	adminToken, _ := s.register("admin@cloudtrack.com", "admin")
	staffToken, _ := s.register("delivery@cloudtrack.com", "delivery_staff")
	custToken, custID := s.register("customer@example.com", "customer")
	otherToken, _ := s.register("other@example.com", "customer")

	w := s.do(http.MethodPost, "/api/packages", custToken, packageBody("TS000111222", custID))
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.do(http.MethodPost, "/api/packages", adminToken, packageBody("TS000111222", custID))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	pkg := decode[map[string]interface{}](t, w)
	id := pkg["id"].(string)
	assert.Equal(t, "pending", pkg["status"])
	assert.Equal(t, "TS000111222", pkg["trackingNumber"])
	assert.Equal(t, custID, pkg["customerId"])

	w = s.do(http.MethodPost, "/api/packages", adminToken, packageBody("TS000111222", custID))
	assert.Equal(t, http.StatusConflict, w.Code)

	// public tracking
	w = s.do(http.MethodGet, "/api/packages/track/TS000111222", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, http.StatusNotFound, s.do(http.MethodGet, "/api/packages/track/NOPE", "", nil).Code)

	assert.Equal(t, http.StatusUnauthorized, s.do(http.MethodGet, "/api/packages/"+id, "", nil).Code)
	assert.Equal(t, http.StatusOK, s.do(http.MethodGet, "/api/packages/"+id, custToken, nil).Code)
	assert.Equal(t, http.StatusForbidden, s.do(http.MethodGet, "/api/packages/"+id, otherToken, nil).Code)
	assert.Equal(t, http.StatusForbidden, s.do(http.MethodGet, "/api/packages/"+id+"/history", otherToken, nil).Code)

	w = s.do(http.MethodPatch, "/api/packages/"+id+"/status", custToken, gin.H{"status": "delivered"})
	assert.Equal(t, http.StatusForbidden, w.Code)
	w = s.do(http.MethodPatch, "/api/packages/"+id+"/status", staffToken, gin.H{"status": "teleported"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(http.MethodPatch, "/api/packages/"+id+"/status", staffToken, gin.H{"status": "in_transit", "location": "Hub A"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	updated := decode[map[string]interface{}](t, w)
	assert.Equal(t, "in_transit", updated["status"])
	assert.Equal(t, "Hub A", updated["currentLocation"])

	w = s.do(http.MethodGet, "/api/packages/"+id+"/history", custToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	hist := decode[[]map[string]interface{}](t, w)
	require.Len(t, hist, 2)
	assert.Equal(t, "Warehouse", hist[0]["location"])
	assert.Equal(t, "Hub A", hist[1]["location"])
	assert.Equal(t, "in_transit", hist[1]["status"])

	w = s.do(http.MethodGet, "/api/stats/delivery", staffToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"totalPackages":1,"delivered":0,"inTransit":1,"pending":0,"failed":0}`, w.Body.String())
	assert.Equal(t, http.StatusForbidden, s.do(http.MethodGet, "/api/stats/delivery", custToken, nil).Code)
	assert.Equal(t, http.StatusOK, s.do(http.MethodGet, "/api/stats/customer/"+custID, custToken, nil).Code)
	assert.Equal(t, http.StatusForbidden, s.do(http.MethodGet, "/api/stats/customer/"+custID, otherToken, nil).Code)

	w = s.do(http.MethodGet, "/api/packages?status=in_transit", custToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]map[string]interface{}](t, w), 1)
	w = s.do(http.MethodGet, "/api/packages", otherToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "[]", strings.TrimSpace(w.Body.String()))

	assert.Equal(t, http.StatusForbidden, s.do(http.MethodDelete, "/api/packages/"+id, staffToken, nil).Code)
	assert.Equal(t, http.StatusNoContent, s.do(http.MethodDelete, "/api/packages/"+id, adminToken, nil).Code)
	assert.Equal(t, http.StatusNotFound, s.do(http.MethodGet, "/api/packages/"+id+"/history", adminToken, nil).Code)
	assert.Equal(t, http.StatusNotFound, s.do(http.MethodGet, "/api/packages/track/TS000111222", "", nil).Code)
}

func TestCreatePackageValidation(t *testing.T) {
	s := newTestServer(t, testConfig())
	adminToken, adminID := s.register("admin@cloudtrack.com", "admin")

	body := packageBody("TS1", adminID)
	body["receiverPhone"] = "555-0100"
	body["weight"] = -1
	w := s.do(http.MethodPost, "/api/packages", adminToken, body)
	require.Equal(t, http.StatusBadRequest, w.Code)
	details := decode[struct {
		Details map[string]string `json:"details"`
	}](t, w).Details
	assert.Contains(t, details, "receiverPhone")
	assert.Contains(t, details, "weight")

	body = packageBody("TS1", adminID)
	body["estimatedDelivery"] = "next tuesday"
	w = s.do(http.MethodPost, "/api/packages", adminToken, body)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	body = packageBody("TS1", "no-such-user")
	w = s.do(http.MethodPost, "/api/packages", adminToken, body)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// customerId defaults to the creating admin
	body = packageBody("TS1", "")
	delete(body, "customerId")
	w = s.do(http.MethodPost, "/api/packages", adminToken, body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, adminID, decode[map[string]interface{}](t, w)["customerId"])
}

func TestUserEndpoints(t *testing.T) {
	s := newTestServer(t, testConfig())
	adminToken, adminID := s.register("admin@cloudtrack.com", "admin")
	custToken, custID := s.register("customer@example.com", "customer")
	_, staffID := s.register("delivery@cloudtrack.com", "delivery_staff")

	w := s.do(http.MethodGet, "/api/users?role=customer", adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]map[string]interface{}](t, w), 1)
	assert.Equal(t, http.StatusForbidden, s.do(http.MethodGet, "/api/users", custToken, nil).Code)

	assert.Equal(t, http.StatusOK, s.do(http.MethodGet, "/api/users/"+custID, custToken, nil).Code)
	assert.Equal(t, http.StatusForbidden, s.do(http.MethodGet, "/api/users/"+staffID, custToken, nil).Code)
	assert.Equal(t, http.StatusNotFound, s.do(http.MethodGet, "/api/users/missing", adminToken, nil).Code)

	w = s.do(http.MethodPatch, "/api/users/"+custID, custToken, gin.H{"name": "Priya P", "phone": "9876543210"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Priya P", decode[map[string]interface{}](t, w)["name"])
	w = s.do(http.MethodPatch, "/api/users/"+custID, custToken, gin.H{"phone": "123"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(http.MethodDelete, "/api/users/"+adminID, adminToken, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"Cannot delete your own account"}`, w.Body.String())
	assert.Equal(t, http.StatusOK, s.do(http.MethodGet, "/api/auth/me", adminToken, nil).Code)

	assert.Equal(t, http.StatusForbidden, s.do(http.MethodDelete, "/api/users/"+staffID, custToken, nil).Code)
	assert.Equal(t, http.StatusNoContent, s.do(http.MethodDelete, "/api/users/"+custID, adminToken, nil).Code)
	assert.Equal(t, http.StatusNotFound, s.do(http.MethodDelete, "/api/users/"+custID, adminToken, nil).Code)

	// the deleted account's token no longer works
	assert.Equal(t, http.StatusUnauthorized, s.do(http.MethodGet, "/api/auth/me", custToken, nil).Code)
}

func TestRateLimit(t *testing.T) {
	cfg := testConfig()
	cfg.RateLimit = config.RateLimitConfig{Enabled: true, Requests: 2, Window: time.Hour}
	s := newTestServer(t, cfg)

	assert.Equal(t, http.StatusOK, s.do(http.MethodGet, "/health", "", nil).Code)
	assert.Equal(t, http.StatusOK, s.do(http.MethodGet, "/health", "", nil).Code)
	assert.Equal(t, http.StatusTooManyRequests, s.do(http.MethodGet, "/health", "", nil).Code)
}
