package session

import (
	"context"

	"gdccrm/internal/apperr"
	"gdccrm/internal/events"
	"gdccrm/internal/logging"
	"gdccrm/internal/models"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// cookie session keys
const (
	KeyUserID = "user_id"
	KeyStaff  = "selected_staff"
)

const contextKey = "Session"

var log = logging.Component("session")

// Context is the per-request view of who is signed in.
type Context struct {
	User       *models.User
	Configured bool   // false in demo mode: no backend, no auth
	Staff      string // selected staff member, "" for none
	Err        error  // set when the session could not be checked
}

func (s Context) Authenticated() bool {
	return s.User != nil
}

type UserStore interface {
	GetUser(ctx context.Context, id uuid.UUID) (*models.User, error)
}

type Authenticator interface {
	Authenticate(ctx context.Context, email, password string) (*models.User, error)
}

// Middleware resolves the Context once per request and stores it on the
// gin context. Unconfigured deployments resolve to "no user" without
// touching the store. A cookie pointing at a user that no longer exists is
// cleared.
func Middleware(store UserStore, configured bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := sessions.Default(c)
		sc := Context{Configured: configured}
		sc.Staff, _ = sess.Get(KeyStaff).(string)

		if configured {
			if raw, ok := sess.Get(KeyUserID).(string); ok && raw != "" {
				sc.User, sc.Err = loadUser(c.Request.Context(), store, raw)
				if apperr.IsNotFound(sc.Err) {
					sc.Err = nil
					sess.Delete(KeyUserID)
					_ = sess.Save()
				}
				if sc.Err != nil {
					log.Error().Err(sc.Err).Msg("failed to resolve session")
				}
			}
		}

		Set(c, sc)
		c.Next()
	}
}

func loadUser(ctx context.Context, store UserStore, raw string) (*models.User, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, apperr.NotFound("malformed session user id")
	}
	return store.GetUser(ctx, id)
}

// From returns the Context resolved by Middleware (zero Context if none).
func From(c *gin.Context) Context {
	if v, ok := c.Get(contextKey); ok {
		if sc, ok := v.(Context); ok {
			return sc
		}
	}
	return Context{}
}

// Set replaces the request's Context.
func Set(c *gin.Context, sc Context) {
	c.Set(contextKey, sc)
}

// SignIn checks credentials and makes the user the session's identity.
// Rejected credentials give an apperr Auth error.
func SignIn(c *gin.Context, auth Authenticator, broker *events.Broker, email, password string) (*models.User, error) {
	user, err := auth.Authenticate(c.Request.Context(), email, password)
	if err != nil {
		return nil, err
	}

	sess := sessions.Default(c)
	sess.Set(KeyUserID, user.ID.String())
	if err := sess.Save(); err != nil {
		return nil, apperr.Backend("Failed to save session", err)
	}

	sc := From(c)
	sc.User = user
	sc.Err = nil
	Set(c, sc)

	broker.Publish(events.TopicSession, events.ActionSignedIn, user.ID.String())
	return user, nil
}

// SignOut clears the whole cookie session, selected staff included.
func SignOut(c *gin.Context, broker *events.Broker) error {
	sc := From(c)

	sess := sessions.Default(c)
	sess.Clear()
	if err := sess.Save(); err != nil {
		return apperr.Backend("Failed to clear session", err)
	}

	Set(c, Context{Configured: sc.Configured})
	if sc.User != nil {
		broker.Publish(events.TopicSession, events.ActionSignedOut, sc.User.ID.String())
	}
	return nil
}

// SelectStaff caches the chosen staff member in the session. An empty name
// clears the selection.
func SelectStaff(c *gin.Context, roster models.Roster, name string) error {
	if name != "" && !roster.Contains(name) {
		return apperr.Validation("Unknown staff member: " + name)
	}

	sess := sessions.Default(c)
	if name == "" {
		sess.Delete(KeyStaff)
	} else {
		sess.Set(KeyStaff, name)
	}
	if err := sess.Save(); err != nil {
		return apperr.Backend("Failed to save session", err)
	}

	sc := From(c)
	sc.Staff = name
	Set(c, sc)
	return nil
}
