package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/medportal/portal/internal/core/ports"
)

type DashboardHandler struct {
	service ports.DashboardService
}

func NewDashboardHandler(service ports.DashboardService) *DashboardHandler {
	return &DashboardHandler{service: service}
}

// Show serves every dashboard path. The chrome comes from the path, the
// content from the signed-in identity.
//
// @Summary      Dashboard
// @Tags         dashboard
// @Produce      json
// @Success      200  {object}  page{data=ports.Dashboard}
// @Failure      303  {string}  string  "redirect to /login"
// @Failure      503  {object}  map[string]string
// @Router       /dashboard [get]
// @Router       /doctor/dashboard [get]
// @Router       /admin/dashboard [get]
func (h *DashboardHandler) Show(c echo.Context) error {
	_, identity, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	d, err := h.service.Build(c.Request().Context(), identity)
	if err != nil {
		return err
	}
	return render(c, http.StatusOK, d)
}
