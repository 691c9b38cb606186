// Package dashboard serves the landing page: a doctor's latest patients
// and visits at a glance.
package dashboard

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/opdhq/opd/internal/domain/patient"
	"github.com/opdhq/opd/internal/domain/visit"
	"github.com/opdhq/opd/internal/platform/auth"
	"github.com/opdhq/opd/internal/platform/web"
)

// recentCount caps both panels on the dashboard.
const recentCount = 5

type Handler struct {
	patients *patient.Service
	visits   *visit.Service
}

func NewHandler(patients *patient.Service, visits *visit.Service) *Handler {
	return &Handler{patients: patients, visits: visits}
}

func (h *Handler) RegisterRoutes(g *echo.Group) {
	g.GET("/", h.Dashboard)
}

type dashboardPage struct {
	Patients []*patient.Patient
	Visits   []*visit.Visit
}

func (h *Handler) Dashboard(c echo.Context) error {
	ctx := c.Request().Context()
	doctorID := auth.DoctorIDFromContext(ctx)

	patients, err := h.patients.Recent(ctx, doctorID, recentCount)
	if err != nil {
		return err
	}
	visits, err := h.visits.Recent(ctx, doctorID, recentCount)
	if err != nil {
		return err
	}
	return web.RenderPage(c, http.StatusOK, "dashboard.html", "Dashboard",
		dashboardPage{Patients: patients, Visits: visits})
}
