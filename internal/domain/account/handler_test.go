package account

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/opdhq/opd/internal/platform/auth"
	"github.com/opdhq/opd/internal/platform/web"
)

func newTestServer(t *testing.T) *echo.Echo {
	t.Helper()
	e := echo.New()
	r, err := web.NewRenderer()
	if err != nil {
		t.Fatalf("NewRenderer() error = %v", err)
	}
	e.Renderer = r

	sessions := auth.NewManager(auth.NewMemorySessionStore(),
		[]byte("test-secret-key-that-is-long-enough"), time.Hour, false)
	NewHandler(NewService(newMemRepo()), sessions).RegisterRoutes(e.Group(""), e.Group(""))
	return e
}

func postForm(e *echo.Echo, path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestSignupFlow(t *testing.T) {
	e := newTestServer(t)

	rec := postForm(e, "/signup/", url.Values{
		"username":  {"mehta"},
		"email":     {"m@x.example"},
		"password1": {"letmein-please"},
		"password2": {"letmein-please"},
	})
	if rec.Code != http.StatusFound {
		t.Fatalf("signup status = %d, want 302; body: %s", rec.Code, rec.Body.String())
	}
	if loc := rec.Header().Get("Location"); loc != "/patients/" {
		t.Errorf("signup redirected to %q, want /patients/", loc)
	}

	sessionSet := false
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == auth.CookieName && ck.Value != "" {
			sessionSet = true
			if !ck.HttpOnly {
				t.Error("session cookie is not HttpOnly")
			}
		}
	}
	if !sessionSet {
		t.Error("signup did not start a session")
	}
}

func TestSignupDuplicateUsernameRerenders(t *testing.T) {
	e := newTestServer(t)

	form := url.Values{
		"username":  {"mehta"},
		"email":     {"m@x.example"},
		"password1": {"letmein-please"},
		"password2": {"letmein-please"},
	}
	if rec := postForm(e, "/signup/", form); rec.Code != http.StatusFound {
		t.Fatalf("first signup status = %d, want 302", rec.Code)
	}

	rec := postForm(e, "/signup/", form)
	if rec.Code != http.StatusOK {
		t.Fatalf("duplicate signup status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "already taken") {
		t.Error("duplicate signup page does not surface the username error")
	}
}

func TestLoginWrongPassword(t *testing.T) {
	e := newTestServer(t)

	postForm(e, "/signup/", url.Values{
		"username":  {"mehta"},
		"email":     {"m@x.example"},
		"password1": {"letmein-please"},
		"password2": {"letmein-please"},
	})

	rec := postForm(e, "/login/", url.Values{
		"username": {"mehta"},
		"password": {"wrong-pass"},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("login status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "didn&#39;t match") {
		t.Error("failed login page does not show the non-field error")
	}
}

func TestLoginHonorsNext(t *testing.T) {
	e := newTestServer(t)

	postForm(e, "/signup/", url.Values{
		"username":  {"mehta"},
		"email":     {"m@x.example"},
		"password1": {"letmein-please"},
		"password2": {"letmein-please"},
	})

	rec := postForm(e, "/login/?next=/patients/7/", url.Values{
		"username": {"mehta"},
		"password": {"letmein-please"},
	})
	if rec.Code != http.StatusFound {
		t.Fatalf("login status = %d, want 302", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/patients/7/" {
		t.Errorf("login redirected to %q, want /patients/7/", loc)
	}
}

func TestLoginRejectsOffsiteNext(t *testing.T) {
	e := newTestServer(t)

	postForm(e, "/signup/", url.Values{
		"username":  {"mehta"},
		"email":     {"m@x.example"},
		"password1": {"letmein-please"},
		"password2": {"letmein-please"},
	})

	rec := postForm(e, "/login/?next=//evil.example/", url.Values{
		"username": {"mehta"},
		"password": {"letmein-please"},
	})
	if rec.Code != http.StatusFound {
		t.Fatalf("login status = %d, want 302", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/patients/" {
		t.Errorf("login redirected to %q, want the default /patients/", loc)
	}
}

func TestLogoutClearsSession(t *testing.T) {
	e := newTestServer(t)

	rec := postForm(e, "/signup/", url.Values{
		"username":  {"mehta"},
		"email":     {"m@x.example"},
		"password1": {"letmein-please"},
		"password2": {"letmein-please"},
	})
	var session *http.Cookie
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == auth.CookieName {
			session = ck
		}
	}
	if session == nil {
		t.Fatal("signup did not set a session cookie")
	}

	req := httptest.NewRequest(http.MethodPost, "/logout/", nil)
	req.AddCookie(&http.Cookie{Name: session.Name, Value: session.Value})
	out := httptest.NewRecorder()
	e.ServeHTTP(out, req)

	if out.Code != http.StatusFound {
		t.Fatalf("logout status = %d, want 302", out.Code)
	}
	if loc := out.Header().Get("Location"); loc != "/login/" {
		t.Errorf("logout redirected to %q, want /login/", loc)
	}
	cleared := false
	for _, ck := range out.Result().Cookies() {
		if ck.Name == auth.CookieName && ck.Value == "" && ck.Expires.Before(time.Now()) {
			cleared = true
		}
	}
	if !cleared {
		t.Error("logout did not clear the session cookie")
	}
}

func TestSafeNext(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"/patients/", "/patients/"},
		{"//evil.example", ""},
		{"https://evil.example", ""},
		{"", ""},
		{`/\evil`, ""},
	}
	for _, tt := range tests {
		if got := safeNext(tt.in); got != tt.want {
			t.Errorf("safeNext(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
