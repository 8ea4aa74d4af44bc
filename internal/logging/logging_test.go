package logging

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

func TestComponentLoggerFollowsOutput(t *testing.T) {
	logger := Component("test") // created before the output changes

	var buf bytes.Buffer
	SetOutput(&buf)
	defer SetOutput(os.Stderr)

	logger.Info().Str(ID, "42").Msg("hello")

	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("not JSON: %q", buf.String())
	}
	if entry[COMPONENT] != "test" || entry[ID] != "42" || entry["message"] != "hello" {
		t.Errorf("entry = %v", entry)
	}
}

func TestSetupLevel(t *testing.T) {
	defer zerolog.SetGlobalLevel(zerolog.InfoLevel)

	Setup("warn", "json")
	if zerolog.GlobalLevel() != zerolog.WarnLevel {
		t.Errorf("level = %s, want warn", zerolog.GlobalLevel())
	}
	Setup("bogus", "json")
	if zerolog.GlobalLevel() != zerolog.InfoLevel {
		t.Errorf("level = %s, want info fallback", zerolog.GlobalLevel())
	}
}

func TestMiddlewareLogsRequest(t *testing.T) {
	gin.SetMode(gin.TestMode)
	var buf bytes.Buffer
	SetOutput(&buf)
	defer SetOutput(os.Stderr)

	r := gin.New()
	r.Use(Middleware())
	r.GET("/missing", func(c *gin.Context) { c.Status(http.StatusNotFound) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/missing", nil))

	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("not JSON: %q", buf.String())
	}
	if entry["level"] != "warn" || entry["path"] != "/missing" || entry["status"] != float64(404) {
		t.Errorf("entry = %v", entry)
	}
}
