package account

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"github.com/opdhq/opd/internal/platform/auth"
	"github.com/opdhq/opd/internal/platform/web"
	"github.com/opdhq/opd/pkg/forms"
)

type Handler struct {
	svc      *Service
	sessions *auth.Manager
}

func NewHandler(svc *Service, sessions *auth.Manager) *Handler {
	return &Handler{svc: svc, sessions: sessions}
}

// RegisterRoutes mounts the public auth pages on the root group and logout
// on the session-protected group.
func (h *Handler) RegisterRoutes(public, protected *echo.Group) {
	public.GET("/signup/", h.SignupPage)
	public.POST("/signup/", h.Signup)
	public.GET("/login/", h.LoginPage)
	public.POST("/login/", h.Login)
	protected.POST("/logout/", h.Logout)
}

type signupPage struct {
	Values forms.Values
	Errors forms.Errors
}

type loginPage struct {
	Values forms.Values
	Errors forms.Errors
	Next   string
}

func (h *Handler) SignupPage(c echo.Context) error {
	return web.RenderPage(c, http.StatusOK, "signup.html", "Sign up",
		signupPage{Values: forms.NewValues(nil), Errors: forms.Errors{}})
}

func (h *Handler) Signup(c echo.Context) error {
	values, err := c.FormParams()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed form")
	}
	v := forms.NewValues(values)

	in, errs := ParseSignupForm(v)
	if errs.HasAny() {
		return web.RenderPage(c, http.StatusOK, "signup.html", "Sign up",
			signupPage{Values: v, Errors: errs})
	}

	d, err := h.svc.Signup(c.Request().Context(), in)
	if errors.Is(err, ErrDuplicateUsername) {
		errs.Add("username", "That username is already taken.")
		return web.RenderPage(c, http.StatusOK, "signup.html", "Sign up",
			signupPage{Values: v, Errors: errs})
	}
	if err != nil {
		return err
	}

	cookie, err := h.sessions.Issue(c.Request().Context(), d.ID, d.Username)
	if err != nil {
		return err
	}
	c.SetCookie(cookie)
	log.Info().Int64("doctor_id", d.ID).Msg("doctor signed up")
	web.AddFlash(c, web.FlashSuccess, "Welcome! Your account is ready.")
	return c.Redirect(http.StatusFound, "/patients/")
}

func (h *Handler) LoginPage(c echo.Context) error {
	return web.RenderPage(c, http.StatusOK, "login.html", "Log in",
		loginPage{Values: forms.NewValues(nil), Errors: forms.Errors{}, Next: safeNext(c.QueryParam("next"))})
}

func (h *Handler) Login(c echo.Context) error {
	values, err := c.FormParams()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed form")
	}
	v := forms.NewValues(values)
	next := safeNext(c.QueryParam("next"))

	in, errs := ParseLoginForm(v)
	if !errs.HasAny() {
		d, err := h.svc.Authenticate(c.Request().Context(), in)
		switch {
		case errors.Is(err, ErrBadCredentials):
			errs.Add("", "Your username and password didn't match. Please try again.")
		case err != nil:
			return err
		default:
			cookie, err := h.sessions.Issue(c.Request().Context(), d.ID, d.Username)
			if err != nil {
				return err
			}
			c.SetCookie(cookie)
			log.Info().Int64("doctor_id", d.ID).Msg("doctor logged in")
			if next == "" {
				next = "/patients/"
			}
			return c.Redirect(http.StatusFound, next)
		}
	}
	return web.RenderPage(c, http.StatusOK, "login.html", "Log in",
		loginPage{Values: v, Errors: errs, Next: next})
}

func (h *Handler) Logout(c echo.Context) error {
	var raw string
	if ck, err := c.Cookie(auth.CookieName); err == nil {
		raw = ck.Value
	}
	cookie, err := h.sessions.Destroy(c.Request().Context(), raw)
	if err != nil {
		return err
	}
	c.SetCookie(cookie)
	web.AddFlash(c, web.FlashInfo, "You have been logged out.")
	return c.Redirect(http.StatusFound, auth.LoginPath)
}

// safeNext keeps post-login redirects on this site. Anything that is not a
// local absolute path is dropped.
func safeNext(next string) string {
	if strings.HasPrefix(next, "/") && !strings.HasPrefix(next, "//") && !strings.Contains(next, "\\") {
		return next
	}
	return ""
}
