package visit

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"github.com/opdhq/opd/internal/domain/patient"
	"github.com/opdhq/opd/internal/platform/auth"
	"github.com/opdhq/opd/internal/platform/web"
	"github.com/opdhq/opd/pkg/forms"
	"github.com/opdhq/opd/pkg/money"
)

// BillSummary is the billing slice shown on the visit detail page.
type BillSummary struct {
	ID     int64
	Total  money.Amount
	Status string
}

// BillSource looks up the bill for a visit, if one exists. No bill is
// (nil, nil).
type BillSource interface {
	SummaryForVisit(ctx context.Context, visitID int64) (*BillSummary, error)
}

type Handler struct {
	svc   *Service
	bills BillSource
}

func NewHandler(svc *Service, bills BillSource) *Handler {
	return &Handler{svc: svc, bills: bills}
}

func (h *Handler) RegisterRoutes(g *echo.Group) {
	g.GET("/patients/:id/visits/new/", h.NewForm)
	g.POST("/patients/:id/visits/new/", h.Create)
	g.GET("/visits/:id/", h.Detail)
}

var errNotFoundPage = echo.NewHTTPError(http.StatusNotFound, "page not found")

func idParam(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, errNotFoundPage
	}
	return id, nil
}

type formPage struct {
	Patient *patient.Patient
	Values  forms.Values
	Errors  forms.Errors
}

type detailPage struct {
	Visit   *Visit
	Patient *patient.Patient
	Bill    *BillSummary
}

func (h *Handler) NewForm(c echo.Context) error {
	patientID, err := idParam(c)
	if err != nil {
		return err
	}
	doctorID := auth.DoctorIDFromContext(c.Request().Context())
	p, err := h.svc.patients.Get(c.Request().Context(), patientID, doctorID)
	if errors.Is(err, patient.ErrNotFound) {
		return errNotFoundPage
	}
	if err != nil {
		return err
	}
	return web.RenderPage(c, http.StatusOK, "visit_form.html", "Record visit",
		formPage{Patient: p, Values: forms.NewValues(nil), Errors: forms.Errors{}})
}

func (h *Handler) Create(c echo.Context) error {
	patientID, err := idParam(c)
	if err != nil {
		return err
	}
	doctorID := auth.DoctorIDFromContext(c.Request().Context())
	p, err := h.svc.patients.Get(c.Request().Context(), patientID, doctorID)
	if errors.Is(err, patient.ErrNotFound) {
		return errNotFoundPage
	}
	if err != nil {
		return err
	}

	values, err := c.FormParams()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed form")
	}
	v := forms.NewValues(values)

	in, errs := ParseForm(v, time.Now())
	if errs.HasAny() {
		return web.RenderPage(c, http.StatusOK, "visit_form.html", "Record visit",
			formPage{Patient: p, Values: v, Errors: errs})
	}

	vis, err := h.svc.Record(c.Request().Context(), patientID, doctorID, in)
	if errors.Is(err, ErrNotFound) {
		return errNotFoundPage
	}
	if err != nil {
		return err
	}
	log.Info().Int64("visit_id", vis.ID).Int64("patient_id", patientID).
		Int64("doctor_id", doctorID).Msg("visit recorded")
	web.AddFlash(c, web.FlashSuccess, "Visit recorded.")
	return c.Redirect(http.StatusFound, fmt.Sprintf("/patients/%d/", patientID))
}

func (h *Handler) Detail(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	doctorID := auth.DoctorIDFromContext(c.Request().Context())
	vis, err := h.svc.Get(c.Request().Context(), id, doctorID)
	if errors.Is(err, ErrNotFound) {
		return errNotFoundPage
	}
	if err != nil {
		return err
	}
	p, err := h.svc.patients.Get(c.Request().Context(), vis.PatientID, doctorID)
	if err != nil {
		return err
	}
	bill, err := h.bills.SummaryForVisit(c.Request().Context(), vis.ID)
	if err != nil {
		return err
	}
	return web.RenderPage(c, http.StatusOK, "visit_detail.html",
		fmt.Sprintf("Visit %d", vis.ID), detailPage{Visit: vis, Patient: p, Bill: bill})
}
