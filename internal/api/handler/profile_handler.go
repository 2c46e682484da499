package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/medportal/portal/internal/core/ports"
)

type ProfileHandler struct {
	service ports.ProfileService
}

func NewProfileHandler(service ports.ProfileService) *ProfileHandler {
	return &ProfileHandler{service: service}
}

// Get handles GET /profile.
//
// @Summary      Show the signed-in profile
// @Tags         profile
// @Produce      json
// @Success      200  {object}  page{data=domain.Identity}
// @Failure      303  {string}  string  "redirect to /login"
// @Router       /profile [get]
func (h *ProfileHandler) Get(c echo.Context) error {
	identity, err := h.service.Get(c.Request().Context())
	if err != nil {
		return err
	}
	return render(c, http.StatusOK, identity)
}

// Update handles PUT /profile. Only the fields present in the body change.
//
// @Summary      Update the signed-in profile
// @Tags         profile
// @Accept       json
// @Produce      json
// @Param        body  body      profileRequest  true  "Fields to change"
// @Success      200   {object}  page{data=domain.Identity}
// @Failure      400   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /profile [put]
func (h *ProfileHandler) Update(c echo.Context) error {
	var req profileRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	store, err := ctxSession(c)
	if err != nil {
		return err
	}

	merged, err := h.service.Update(c.Request().Context(), store, toPatch(req))
	if err != nil {
		return err
	}
	return render(c, http.StatusOK, merged)
}
