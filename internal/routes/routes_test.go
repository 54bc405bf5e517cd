package routes

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"trip_tracker/internal/controllers"
	"trip_tracker/internal/heatmap"
	"trip_tracker/internal/metrics"
	"trip_tracker/internal/middleware"
	"trip_tracker/internal/points"
	"trip_tracker/internal/storage/storagetest"
	"trip_tracker/internal/trips"
	"trip_tracker/internal/users"
)

const testKey = "test-key"

func init() {
	gin.SetMode(gin.TestMode)
}

func newRouter(t *testing.T, db *gorm.DB, limiter *middleware.RateLimiter) *gin.Engine {
	t.Helper()

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("db.DB: %v", err)
	}
	collector := metrics.NewCollector()
	userSvc := users.NewService(db)
	tripSvc := trips.NewService(db, trips.WithRecorder(collector))
	engine := points.NewEngine(db, points.WithRecorder(collector))

	return SetupRouter(Deps{
		Auth:           controllers.NewAuthController(userSvc, middleware.NewAuth("secret", time.Hour)),
		Users:          controllers.NewUserController(userSvc, tripSvc),
		Trips:          controllers.NewTripController(tripSvc),
		Points:         controllers.NewPointController(points.NewService(db), engine),
		Heatmap:        controllers.NewHeatmapController(heatmap.NewService(engine, heatmap.DefaultCellLevel)),
		Health:         controllers.NewHealthController(sqlDB),
		Tokens:         middleware.NewAuth("secret", time.Hour),
		APIKeys:        []string{testKey},
		Limiter:        limiter,
		Metrics:        collector,
		MetricsHandler: collector.Handler(),
	})
}

func do(r http.Handler, method, target, body string, header map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range header {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

var withKey = map[string]string{middleware.APIKeyHeader: testKey}

func TestProtectedRoutesNeedAPIKey(t *testing.T) {
	r := newRouter(t, storagetest.Open(t), nil)

	for _, target := range []string{"/trips/1", "/users/1", "/points/range", "/heatmap"} {
		if w := do(r, http.MethodGet, target, "", nil); w.Code != http.StatusForbidden {
			t.Errorf("%s without key: status = %d, want 403", target, w.Code)
		}
	}
	if w := do(r, http.MethodGet, "/health", "", nil); w.Code != http.StatusOK {
		t.Fatalf("/health: status = %d", w.Code)
	}
	if w := do(r, http.MethodGet, "/metrics", "", nil); w.Code != http.StatusOK {
		t.Fatalf("/metrics: status = %d", w.Code)
	}
}

func TestTripLifecycle(t *testing.T) {
	db := storagetest.Open(t)
	storagetest.CreateUser(t, db, 1)
	r := newRouter(t, db, nil)

	body := `{"user_id":1,"trip_type":"walk","trip":[
		{"latitude":55.67422,"longitude":12.59093,"time":"2025-09-13T15:05:30Z"},
		{"latitude":55.67238,"longitude":12.59426,"time":"2025-09-13T15:05:00Z"}]}`
	w := do(r, http.MethodPost, "/trips", body, withKey)
	if w.Code != http.StatusCreated {
		t.Fatalf("create: status = %d, body %s", w.Code, w.Body)
	}
	var created struct{ ID uint }
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil || created.ID == 0 {
		t.Fatalf("create body %s: %v", w.Body, err)
	}

	tripURL := fmt.Sprintf("/trips/%d", created.ID)

	w = do(r, http.MethodGet, tripURL+"/points", "", withKey)
	var list struct {
		Data []struct {
			Time  time.Time
			Speed float64
		}
	}
	if err := json.Unmarshal(w.Body.Bytes(), &list); err != nil {
		t.Fatalf("points body %s: %v", w.Body, err)
	}
	if len(list.Data) != 2 || !list.Data[0].Time.Before(list.Data[1].Time) {
		t.Fatalf("points = %+v, want two in time order", list.Data)
	}

	// One trip is far below the anonymity threshold.
	w = do(r, http.MethodGet, "/points/window/55.68/55.67/12.5/12.6", "", withKey)
	if w.Code != http.StatusForbidden || strings.Contains(w.Body.String(), "latitude") {
		t.Fatalf("window: status = %d, body %s", w.Code, w.Body)
	}

	if w := do(r, http.MethodDelete, tripURL, "", withKey); w.Code != http.StatusOK {
		t.Fatalf("delete: status = %d", w.Code)
	}
	if w := do(r, http.MethodGet, tripURL, "", withKey); w.Code != http.StatusNotFound {
		t.Fatalf("get after delete: status = %d, want 404", w.Code)
	}
}

func TestCreateTripForUnknownUser(t *testing.T) {
	r := newRouter(t, storagetest.Open(t), nil)

	body := `{"user_id":42,"trip_type":"bike","trip":[
		{"latitude":1,"longitude":1,"time":"2025-09-13T15:05:00Z"},
		{"latitude":1.001,"longitude":1,"time":"2025-09-13T15:06:00Z"}]}`
	w := do(r, http.MethodPost, "/trips", body, withKey)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400, body %s", w.Code, w.Body)
	}
}

func TestRegisterLoginMe(t *testing.T) {
	r := newRouter(t, storagetest.Open(t), nil)

	creds := `{"email":"Rider@Example.com","password":"long enough secret"}`
	if w := do(r, http.MethodPost, "/auth/register", creds, nil); w.Code != http.StatusCreated {
		t.Fatalf("register: status = %d, body %s", w.Code, w.Body)
	}
	if w := do(r, http.MethodPost, "/auth/register", creds, nil); w.Code != http.StatusConflict {
		t.Fatalf("second register: status = %d, want 409", w.Code)
	}

	w := do(r, http.MethodPost, "/auth/login", creds, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("login: status = %d, body %s", w.Code, w.Body)
	}
	var login struct {
		AccessToken string `json:"accessToken"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &login); err != nil || login.AccessToken == "" {
		t.Fatalf("login body %s: %v", w.Body, err)
	}

	if w := do(r, http.MethodGet, "/auth/me", "", nil); w.Code != http.StatusUnauthorized {
		t.Fatalf("me without token: status = %d, want 401", w.Code)
	}
	w = do(r, http.MethodGet, "/auth/me", "", map[string]string{"Authorization": "Bearer " + login.AccessToken})
	if w.Code != http.StatusOK {
		t.Fatalf("me: status = %d, body %s", w.Code, w.Body)
	}
}

func TestSpatialReadsAreRateLimited(t *testing.T) {
	limiter := middleware.NewRateLimiter(middleware.RateLimiterConfig{Rate: 0.001, Burst: 1})
	t.Cleanup(limiter.Stop)
	r := newRouter(t, storagetest.Open(t), limiter)

	target := "/points/window/1/0/0/1"
	if w := do(r, http.MethodGet, target, "", withKey); w.Code == http.StatusTooManyRequests {
		t.Fatal("first request was throttled")
	}
	w := do(r, http.MethodGet, target, "", withKey)
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("second request: status = %d, want 429", w.Code)
	}
	if w.Header().Get("Retry-After") == "" {
		t.Fatal("missing Retry-After")
	}
}

func TestRequestIDIsEchoed(t *testing.T) {
	r := newRouter(t, storagetest.Open(t), nil)

	w := do(r, http.MethodGet, "/health", "", map[string]string{middleware.RequestIDHeader: "abc-123"})
	if got := w.Header().Get(middleware.RequestIDHeader); got != "abc-123" {
		t.Fatalf("X-Request-ID = %q", got)
	}
}
