package patient

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"github.com/opdhq/opd/internal/platform/auth"
	"github.com/opdhq/opd/internal/platform/web"
	"github.com/opdhq/opd/pkg/forms"
	"github.com/opdhq/opd/pkg/money"
	"github.com/opdhq/opd/pkg/pagination"
)

// HistoryEntry is one row of the visit history shown on the patient page.
type HistoryEntry struct {
	ID        int64
	VisitDate time.Time
	Symptoms  string
	Diagnosis string
	Fee       money.Amount
}

// VisitHistory supplies the visit rows for the patient detail page.
type VisitHistory interface {
	HistoryForPatient(ctx context.Context, patientID, doctorID int64) ([]HistoryEntry, error)
}

type Handler struct {
	svc    *Service
	visits VisitHistory
}

func NewHandler(svc *Service, visits VisitHistory) *Handler {
	return &Handler{svc: svc, visits: visits}
}

func (h *Handler) RegisterRoutes(g *echo.Group) {
	g.GET("/patients/", h.List)
	g.GET("/patients/new/", h.NewForm)
	g.POST("/patients/new/", h.Create)
	g.GET("/patients/:id/", h.Detail)
	g.GET("/patients/:id/edit/", h.EditForm)
	g.POST("/patients/:id/edit/", h.Update)
	g.GET("/patients/:id/delete/", h.ConfirmDelete)
	g.POST("/patients/:id/delete/", h.Delete)
}

var errNotFoundPage = echo.NewHTTPError(http.StatusNotFound, "page not found")

func idParam(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, errNotFoundPage
	}
	return id, nil
}

type listPage struct {
	Patients []*Patient
	Total    int
	Page     pagination.Params
}

type formPage struct {
	Values  forms.Values
	Errors  forms.Errors
	Editing bool
}

type detailPage struct {
	Patient *Patient
	Visits  []HistoryEntry
}

func (h *Handler) List(c echo.Context) error {
	doctorID := auth.DoctorIDFromContext(c.Request().Context())
	pg := pagination.FromContext(c)
	items, total, err := h.svc.List(c.Request().Context(), doctorID, pg.Limit, pg.Offset)
	if err != nil {
		return err
	}
	return web.RenderPage(c, http.StatusOK, "patient_list.html", "Patients",
		listPage{Patients: items, Total: total, Page: pg})
}

func (h *Handler) NewForm(c echo.Context) error {
	return web.RenderPage(c, http.StatusOK, "patient_form.html", "Register patient",
		formPage{Values: forms.NewValues(nil), Errors: forms.Errors{}})
}

func (h *Handler) Create(c echo.Context) error {
	values, err := c.FormParams()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed form")
	}
	v := forms.NewValues(values)

	in, errs := ParseForm(v)
	if errs.HasAny() {
		return web.RenderPage(c, http.StatusOK, "patient_form.html", "Register patient",
			formPage{Values: v, Errors: errs})
	}

	doctorID := auth.DoctorIDFromContext(c.Request().Context())
	p, err := h.svc.Register(c.Request().Context(), doctorID, in)
	if err != nil {
		return err
	}
	log.Info().Int64("patient_id", p.ID).Int64("doctor_id", doctorID).Msg("patient registered")
	web.AddFlash(c, web.FlashSuccess, fmt.Sprintf("Patient %s registered.", p.FullName()))
	return c.Redirect(http.StatusFound, "/patients/")
}

func (h *Handler) Detail(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	doctorID := auth.DoctorIDFromContext(c.Request().Context())
	p, err := h.svc.Get(c.Request().Context(), id, doctorID)
	if errors.Is(err, ErrNotFound) {
		return errNotFoundPage
	}
	if err != nil {
		return err
	}
	visits, err := h.visits.HistoryForPatient(c.Request().Context(), p.ID, doctorID)
	if err != nil {
		return err
	}
	return web.RenderPage(c, http.StatusOK, "patient_detail.html", p.FullName(),
		detailPage{Patient: p, Visits: visits})
}

func (h *Handler) EditForm(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	doctorID := auth.DoctorIDFromContext(c.Request().Context())
	p, err := h.svc.Get(c.Request().Context(), id, doctorID)
	if errors.Is(err, ErrNotFound) {
		return errNotFoundPage
	}
	if err != nil {
		return err
	}
	return web.RenderPage(c, http.StatusOK, "patient_form.html", "Edit patient",
		formPage{Values: valuesFromPatient(p), Errors: forms.Errors{}, Editing: true})
}

func (h *Handler) Update(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	values, err := c.FormParams()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed form")
	}
	v := forms.NewValues(values)

	in, errs := ParseForm(v)
	if errs.HasAny() {
		return web.RenderPage(c, http.StatusOK, "patient_form.html", "Edit patient",
			formPage{Values: v, Errors: errs, Editing: true})
	}

	doctorID := auth.DoctorIDFromContext(c.Request().Context())
	p, err := h.svc.Update(c.Request().Context(), id, doctorID, in)
	if errors.Is(err, ErrNotFound) {
		return errNotFoundPage
	}
	if err != nil {
		return err
	}
	web.AddFlash(c, web.FlashSuccess, "Patient details updated.")
	return c.Redirect(http.StatusFound, fmt.Sprintf("/patients/%d/", p.ID))
}

func (h *Handler) ConfirmDelete(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	doctorID := auth.DoctorIDFromContext(c.Request().Context())
	p, err := h.svc.Get(c.Request().Context(), id, doctorID)
	if errors.Is(err, ErrNotFound) {
		return errNotFoundPage
	}
	if err != nil {
		return err
	}
	return web.RenderPage(c, http.StatusOK, "patient_confirm_delete.html", "Delete patient",
		detailPage{Patient: p})
}

func (h *Handler) Delete(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	doctorID := auth.DoctorIDFromContext(c.Request().Context())
	err = h.svc.Delete(c.Request().Context(), id, doctorID)
	if errors.Is(err, ErrNotFound) {
		return errNotFoundPage
	}
	if err != nil {
		return err
	}
	log.Info().Int64("patient_id", id).Int64("doctor_id", doctorID).Msg("patient deleted")
	web.AddFlash(c, web.FlashSuccess, "Patient deleted.")
	return c.Redirect(http.StatusFound, "/patients/")
}

func valuesFromPatient(p *Patient) forms.Values {
	return forms.NewValues(url.Values{
		"first_name": {p.FirstName},
		"last_name":  {p.LastName},
		"gender":     {p.Gender},
		"age":        {strconv.Itoa(p.Age)},
		"phone":      {p.Phone},
		"address":    {p.Address},
	})
}
