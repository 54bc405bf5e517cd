package logger

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	logrus "github.com/sirupsen/logrus"
)

func TestSetupWritesToRotatingFile(t *testing.T) {
	dir := t.TempDir()
	prevOut, prevLevel := logrus.StandardLogger().Out, logrus.GetLevel()
	t.Cleanup(func() {
		logrus.SetOutput(prevOut)
		logrus.SetLevel(prevLevel)
	})

	if err := Setup(dir, "debug"); err != nil {
		t.Fatalf("Setup: %v", err)
	}
	logrus.WithField("trip_id", 3).Info("createTrip: stored")

	data, err := os.ReadFile(filepath.Join(dir, "app.log"))
	if err != nil {
		t.Fatalf("read app.log: %v", err)
	}
	if !strings.Contains(string(data), "createTrip: stored") || !strings.Contains(string(data), "trip_id=3") {
		t.Fatalf("app.log missing entry: %s", data)
	}
}

func TestSetupRejectsUnknownLevel(t *testing.T) {
	if err := Setup(t.TempDir(), "chatty"); err == nil {
		t.Fatal("Setup should reject an unknown level")
	}
}

func TestAccessLogSkipsHealth(t *testing.T) {
	gin.SetMode(gin.TestMode)
	var buf bytes.Buffer

	r := gin.New()
	r.Use(AccessLogTo(&buf))
	r.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/trips/:id", func(c *gin.Context) {
		c.Header("X-Request-ID", "req-1")
		c.Status(http.StatusNotFound)
	})

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", nil))
	if buf.Len() != 0 {
		t.Fatalf("health check was logged: %s", buf.String())
	}

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/trips/9", nil))
	if !strings.Contains(buf.String(), "/trips/9") {
		t.Fatalf("request not logged: %s", buf.String())
	}
}
