package directory

import (
	"time"

	"github.com/gofiber/fiber/v2"
	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-print"
)

const (
	localsSessionKey = "directory:session"
	localsAccountKey = "directory:account"
)

// RouteAuthenticator binds the authenticator to the HTTP transport: it
// issues the session cookie on login, clears it on logout, and guards
// privileged routes. The cookie is HTTP only, secure, same-site strict,
// with a fixed non-sliding expiry.
type RouteAuthenticator struct {
	auth           Authenticator
	cfg            Config
	cookieDuration time.Duration
	Logger         Logger
}

func NewHTTPAuthenticator(auther Authenticator, cfg Config) (*RouteAuthenticator, error) {
	cookieDuration := 24 * time.Hour
	if cfg.GetTokenExpiration() > 0 {
		cookieDuration = time.Duration(cfg.GetTokenExpiration()) * time.Hour
	}

	return &RouteAuthenticator{
		cfg:            cfg,
		auth:           auther,
		Logger:         defLogger{},
		cookieDuration: cookieDuration,
	}, nil
}

func (a *RouteAuthenticator) WithLogger(logger Logger) *RouteAuthenticator {
	a.Logger = logger
	return a
}

func (a RouteAuthenticator) GetCookieDuration() time.Duration {
	return a.cookieDuration
}

// Login runs the full authentication chain and, on success, resolves the
// live account and sets the session cookie.
func (a *RouteAuthenticator) Login(c *fiber.Ctx, login, password string) (*Account, error) {
	token, err := a.auth.Login(c.UserContext(), login, password)
	if err != nil {
		a.Logger.Error("login error: %v", err)
		return nil, err
	}

	session, err := a.auth.SessionFromToken(token)
	if err != nil {
		return nil, err
	}

	account, err := a.auth.AccountFromSession(c.UserContext(), session)
	if err != nil {
		return nil, err
	}

	a.setCookieToken(c, token, a.cookieDuration)
	return account, nil
}

// Logout clears the session cookie. The token model is stateless, so
// there is no server side session to tear down.
func (a *RouteAuthenticator) Logout(c *fiber.Ctx) {
	a.cookieDel(c, a.cfg.GetContextKey())
}

// RequireSession parses the session cookie, re-fetches the live account
// by the login claim, and blocks revoked accounts. The resolved session
// and account are stored on the request for handlers.
func (a *RouteAuthenticator) RequireSession() fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw := c.Cookies(a.cfg.GetContextKey())
		if raw == "" {
			return a.RespondError(c, ErrUnableToFindSession)
		}

		session, err := a.auth.SessionFromToken(raw)
		if err != nil {
			return a.RespondError(c, err)
		}

		account, err := a.auth.AccountFromSession(c.UserContext(), session)
		if err != nil {
			return a.RespondError(c, err)
		}

		if !account.IsActive() {
			return a.RespondError(c, ErrAccountDeactivated)
		}

		c.Locals(localsSessionKey, session)
		c.Locals(localsAccountKey, account)

		return c.Next()
	}
}

// RequireAdmin gates a route on the live account's role. Runs after
// RequireSession; the role claim in the token is never consulted.
func (a *RouteAuthenticator) RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		account := CurrentAccount(c)
		if account == nil {
			return a.RespondError(c, ErrUnableToFindSession)
		}

		if !account.IsAdmin {
			return a.RespondError(c, ErrForbidden)
		}

		return c.Next()
	}
}

// RespondError translates an error to its response status. Rich errors
// carry their status and text code; anything else is logged and surfaced
// as a generic internal error without leaking detail.
func (a *RouteAuthenticator) RespondError(c *fiber.Ctx, err error) error {
	var richErr *goerrors.Error
	if !goerrors.As(err, &richErr) {
		richErr = goerrors.Wrap(err, goerrors.CategoryInternal, "internal server error").
			WithCode(goerrors.CodeInternal)
	}

	if richErr.Category == goerrors.CategoryInternal {
		a.Logger.Error("internal error on %s %s: %v %s",
			c.Method(), c.Path(), err, print.MaybePrettyJSON(richErr.Metadata))
		return c.Status(goerrors.CodeInternal).JSON(fiber.Map{
			"message": "internal server error",
		})
	}

	return c.Status(HTTPStatus(richErr)).JSON(fiber.Map{
		"message":   richErr.Message,
		"text_code": richErr.TextCode,
	})
}

// CurrentSession returns the session stored by RequireSession
func CurrentSession(c *fiber.Ctx) Session {
	if session, ok := c.Locals(localsSessionKey).(Session); ok {
		return session
	}
	return nil
}

// CurrentAccount returns the live account stored by RequireSession
func CurrentAccount(c *fiber.Ctx) *Account {
	if account, ok := c.Locals(localsAccountKey).(*Account); ok {
		return account
	}
	return nil
}

func (a *RouteAuthenticator) setCookieToken(c *fiber.Ctx, val string, duration time.Duration) {
	c.Cookie(&fiber.Cookie{
		Name:     a.cfg.GetContextKey(),
		Value:    val,
		Expires:  time.Now().Add(duration),
		HTTPOnly: true,
		Secure:   true,
		SameSite: fiber.CookieSameSiteStrictMode,
	})
}

func (a *RouteAuthenticator) cookieDel(c *fiber.Ctx, name string) {
	c.Cookie(&fiber.Cookie{
		Name:     name,
		Value:    "",
		Expires:  time.Now().Add(-time.Hour * (24 * 365)),
		HTTPOnly: true,
		Secure:   true,
		SameSite: fiber.CookieSameSiteStrictMode,
	})
}
