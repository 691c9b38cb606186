package pagination

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func newContext(target string) echo.Context {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec)
}

func TestFromContext_Defaults(t *testing.T) {
	p := FromContext(newContext("/patients/"))
	if p.Limit != DefaultLimit {
		t.Errorf("expected default limit %d, got %d", DefaultLimit, p.Limit)
	}
	if p.Offset != 0 {
		t.Errorf("expected offset 0, got %d", p.Offset)
	}
}

func TestFromContext_Explicit(t *testing.T) {
	p := FromContext(newContext("/patients/?limit=10&offset=30"))
	if p.Limit != 10 || p.Offset != 30 {
		t.Errorf("got %+v", p)
	}
}

func TestFromContext_Clamped(t *testing.T) {
	p := FromContext(newContext("/patients/?limit=9999&offset=-5"))
	if p.Limit != MaxLimit {
		t.Errorf("expected limit clamped to %d, got %d", MaxLimit, p.Limit)
	}
	if p.Offset != 0 {
		t.Errorf("expected offset clamped to 0, got %d", p.Offset)
	}
}

func TestPageNavigation(t *testing.T) {
	p := Params{Limit: 25, Offset: 50}
	if !p.HasNext(100) {
		t.Error("expected HasNext(100) == true")
	}
	if p.HasNext(75) {
		t.Error("expected HasNext(75) == false")
	}
	if !p.HasPrevious() {
		t.Error("expected HasPrevious() == true")
	}
	if p.NextOffset() != 75 {
		t.Errorf("NextOffset = %d", p.NextOffset())
	}
	if p.PreviousOffset() != 25 {
		t.Errorf("PreviousOffset = %d", p.PreviousOffset())
	}
	if (Params{Limit: 25, Offset: 10}).PreviousOffset() != 0 {
		t.Error("PreviousOffset should clamp to 0")
	}
}
