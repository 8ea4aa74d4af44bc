package server

import (
	"net/http"

	"gdccrm/internal/config"
	"gdccrm/internal/events"
	"gdccrm/internal/handlers"
	"gdccrm/internal/logging"
	"gdccrm/internal/metrics"
	"gdccrm/internal/middleware"
	"gdccrm/internal/session"
	"gdccrm/web"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
)

const sessionCookie = "crm_session"

// NewRouter wires middleware and routes. store is nil in demo mode.
func NewRouter(cfg *config.Config, store handlers.Store, broker *events.Broker) (*gin.Engine, error) {
	r := gin.New()
	r.Use(gin.Recovery(), logging.Middleware(), metrics.Middleware())

	tmpl, err := web.Templates(handlers.TemplateFuncs())
	if err != nil {
		return nil, errors.Wrap(err, "parse templates")
	}
	r.SetHTMLTemplate(tmpl)
	r.StaticFS("/static", http.FS(web.Static()))

	cookieStore := cookie.NewStore([]byte(cfg.SessionSecret))
	cookieStore.Options(sessions.Options{
		Path:     "/",
		MaxAge:   7 * 24 * 60 * 60,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	r.Use(sessions.Sessions(sessionCookie, cookieStore))

	var users session.UserStore
	if store != nil {
		users = store
	}
	r.Use(session.Middleware(users, store != nil))
	r.Use(middleware.Guard())

	h := handlers.New(cfg, store, broker)

	r.GET("/", h.Index)

	// AUTH
	r.GET(middleware.LoginPath, h.ShowLogin)
	r.POST(middleware.LoginPath, h.Login)
	r.POST("/logout", h.Logout)
	r.GET("/logout", h.Logout)

	dash := r.Group(middleware.ProtectedRoot)
	dash.GET("", h.Dashboard)
	dash.POST("/staff", h.SelectStaff)
	dash.GET("/events", h.Events)

	// ENQUIRIES
	dash.GET("/enquiries", h.ListEnquiries)
	dash.GET("/enquiries/new", h.ShowNewEnquiry)
	dash.POST("/enquiries/new", h.CreateEnquiry)
	dash.GET("/enquiries/:id", h.ShowEnquiry)
	dash.GET("/enquiries/:id/edit", h.ShowEditEnquiry)
	dash.POST("/enquiries/:id/edit", h.UpdateEnquiry)

	// CUSTOMERS
	dash.GET("/customers", h.ListCustomers)
	dash.GET("/customers/new", h.ShowNewCustomer)
	dash.POST("/customers/new", h.CreateCustomer)
	dash.GET("/customers/lookup", h.LookupCustomer)
	dash.GET("/customers/:id", h.ShowCustomer)
	dash.GET("/customers/:id/edit", h.ShowEditCustomer)
	dash.POST("/customers/:id/edit", h.UpdateCustomer)

	// DIAGNOSTICS
	api := r.Group("/api")
	api.GET("/env-check", h.EnvCheck)
	api.GET("/test-db", h.TestDB)
	api.GET("/check-enquiries", h.CheckEnquiries)

	r.GET("/metrics", metrics.Handler())
	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})

	return r, nil
}
