package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"gdccrm/internal/models"
	"gdccrm/internal/session"

	"github.com/gin-gonic/gin"
)

func TestDecide(t *testing.T) {
	user := &models.User{Name: "Admin"}
	anon := session.Context{Configured: true}
	signedIn := session.Context{Configured: true, User: user}
	demo := session.Context{Configured: false}
	broken := session.Context{Configured: true, Err: errors.New("db down")}

	tests := []struct {
		name string
		sc   session.Context
		path string
		want Decision
	}{
		{"anon dashboard root", anon, "/dashboard", RedirectToLogin},
		{"anon nested detail", anon, "/dashboard/enquiries/123/edit", RedirectToLogin},
		{"anon login", anon, "/login", Allow},
		{"anon lookalike prefix", anon, "/dashboardish", Allow},
		{"anon diagnostics", anon, "/api/env-check", Allow},
		{"signed in login", signedIn, "/login", RedirectToDashboard},
		{"signed in dashboard", signedIn, "/dashboard/customers", Allow},
		{"demo dashboard", demo, "/dashboard", Allow},
		{"demo login", demo, "/login", Allow},
		{"error fails open", broken, "/dashboard/enquiries", Allow},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Decide(tt.sc, tt.path); got != tt.want {
				t.Errorf("Decide = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGuardRedirects(t *testing.T) {
	gin.SetMode(gin.TestMode)

	serve := func(sc session.Context, path string) *httptest.ResponseRecorder {
		r := gin.New()
		r.Use(func(c *gin.Context) {
			session.Set(c, sc)
			c.Next()
		})
		r.Use(Guard())
		r.GET("/*any", func(c *gin.Context) { c.String(http.StatusOK, "ok") })

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		return w
	}

	w := serve(session.Context{Configured: true}, "/dashboard/enquiries")
	if w.Code != http.StatusFound || w.Header().Get("Location") != LoginPath {
		t.Errorf("anon: %d %q", w.Code, w.Header().Get("Location"))
	}

	w = serve(session.Context{Configured: true, User: &models.User{}}, "/login")
	if w.Code != http.StatusFound || w.Header().Get("Location") != ProtectedRoot {
		t.Errorf("signed in: %d %q", w.Code, w.Header().Get("Location"))
	}

	w = serve(session.Context{}, "/dashboard")
	if w.Code != http.StatusOK || w.Body.String() != "ok" {
		t.Errorf("demo: %d %q", w.Code, w.Body)
	}
}
