package billing

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"github.com/opdhq/opd/internal/domain/patient"
	"github.com/opdhq/opd/internal/domain/visit"
	"github.com/opdhq/opd/internal/platform/auth"
	"github.com/opdhq/opd/internal/platform/pdf"
	"github.com/opdhq/opd/internal/platform/web"
	"github.com/opdhq/opd/pkg/forms"
)

type Handler struct {
	svc      *Service
	renderer pdf.Renderer
}

func NewHandler(svc *Service, renderer pdf.Renderer) *Handler {
	return &Handler{svc: svc, renderer: renderer}
}

func (h *Handler) RegisterRoutes(g *echo.Group) {
	g.GET("/visits/:id/bill/", h.NewForm)
	g.POST("/visits/:id/bill/", h.Create)
	g.GET("/billing/:id/", h.Detail)
	g.GET("/billing/:id/pdf/", h.Download)
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
	Visit   *visit.Visit
	Patient *patient.Patient
	Values  forms.Values
	Errors  forms.Errors
}

type detailPage struct {
	Bill    *Bill
	Visit   *visit.Visit
	Patient *patient.Patient
}

func (h *Handler) NewForm(c echo.Context) error {
	visitID, err := idParam(c)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()
	doctorID := auth.DoctorIDFromContext(ctx)

	v, err := h.svc.visits.Get(ctx, visitID, doctorID)
	if errors.Is(err, visit.ErrNotFound) {
		return errNotFoundPage
	}
	if err != nil {
		return err
	}

	if existing, err := h.svc.repo.GetByVisit(ctx, visitID); err == nil {
		web.AddFlash(c, web.FlashInfo, "This visit has already been billed.")
		return c.Redirect(http.StatusFound, fmt.Sprintf("/billing/%d/", existing.ID))
	} else if !errors.Is(err, ErrNotFound) {
		return err
	}

	p, err := h.svc.patients.Get(ctx, v.PatientID, doctorID)
	if err != nil {
		return err
	}
	// First render pre-fills the total from the consultation fee.
	values := forms.NewValues(url.Values{"total_amount": {v.Fee.String()}})
	return web.RenderPage(c, http.StatusOK, "bill_form.html", "Create bill",
		formPage{Visit: v, Patient: p, Values: values, Errors: forms.Errors{}})
}

func (h *Handler) Create(c echo.Context) error {
	visitID, err := idParam(c)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()
	doctorID := auth.DoctorIDFromContext(ctx)

	v, err := h.svc.visits.Get(ctx, visitID, doctorID)
	if errors.Is(err, visit.ErrNotFound) {
		return errNotFoundPage
	}
	if err != nil {
		return err
	}

	values, err := c.FormParams()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed form")
	}
	fv := forms.NewValues(values)

	in, errs := ParseForm(fv)
	if errs.HasAny() {
		p, err := h.svc.patients.Get(ctx, v.PatientID, doctorID)
		if err != nil {
			return err
		}
		return web.RenderPage(c, http.StatusOK, "bill_form.html", "Create bill",
			formPage{Visit: v, Patient: p, Values: fv, Errors: errs})
	}

	b, err := h.svc.Create(ctx, visitID, doctorID, in)
	if errors.Is(err, ErrAlreadyBilled) {
		existing, lookupErr := h.svc.repo.GetByVisit(ctx, visitID)
		if lookupErr != nil {
			return lookupErr
		}
		web.AddFlash(c, web.FlashInfo, "This visit has already been billed.")
		return c.Redirect(http.StatusFound, fmt.Sprintf("/billing/%d/", existing.ID))
	}
	if errors.Is(err, ErrNotFound) {
		return errNotFoundPage
	}
	if err != nil {
		return err
	}
	log.Info().Int64("bill_id", b.ID).Int64("visit_id", visitID).
		Int64("doctor_id", doctorID).Msg("bill created")
	web.AddFlash(c, web.FlashSuccess, "Bill created.")
	return c.Redirect(http.StatusFound, fmt.Sprintf("/billing/%d/", b.ID))
}

func (h *Handler) Detail(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	doctorID := auth.DoctorIDFromContext(c.Request().Context())
	b, v, p, err := h.svc.Get(c.Request().Context(), id, doctorID)
	if errors.Is(err, ErrNotFound) {
		return errNotFoundPage
	}
	if err != nil {
		return err
	}
	return web.RenderPage(c, http.StatusOK, "bill_detail.html",
		fmt.Sprintf("Bill %d", b.ID), detailPage{Bill: b, Visit: v, Patient: p})
}

func (h *Handler) Download(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()
	doctorID := auth.DoctorIDFromContext(ctx)
	b, v, p, err := h.svc.Get(ctx, id, doctorID)
	if errors.Is(err, ErrNotFound) {
		return errNotFoundPage
	}
	if err != nil {
		return err
	}

	doc := pdf.BillDocument{
		BillID:      b.ID,
		Status:      b.Status,
		Notes:       b.Notes,
		Total:       b.Total.String(),
		PatientName: p.FullName(),
		PatientAge:  p.Age,
		Gender:      p.GenderLabel(),
		VisitDate:   v.VisitDate,
		Diagnosis:   v.Diagnosis,
		Fee:         v.Fee.String(),
		DoctorName:  auth.UsernameFromContext(ctx),
		CreatedAt:   b.CreatedAt,
	}
	out, err := h.renderer.Render(doc)
	if err != nil {
		log.Error().Err(err).Int64("bill_id", b.ID).Msg("bill pdf render failed")
		web.AddFlash(c, web.FlashError, "Could not generate the PDF. Please try again.")
		return c.Redirect(http.StatusFound, fmt.Sprintf("/billing/%d/", b.ID))
	}

	c.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf(`attachment; filename="bill-%d.pdf"`, b.ID))
	return c.Blob(http.StatusOK, "application/pdf", out)
}
