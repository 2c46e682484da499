package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/medportal/portal/internal/core/domain"
	"github.com/medportal/portal/internal/core/ports"
)

type AppointmentHandler struct {
	service ports.AppointmentService
}

func NewAppointmentHandler(service ports.AppointmentService) *AppointmentHandler {
	return &AppointmentHandler{service: service}
}

// List handles GET /appointments.
//
// @Summary      List appointments
// @Tags         appointments
// @Produce      json
// @Success      200  {object}  page{data=[]domain.Appointment}
// @Router       /appointments [get]
func (h *AppointmentHandler) List(c echo.Context) error {
	_, identity, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	appts, err := h.service.List(c.Request().Context(), identity)
	if err != nil {
		return err
	}
	return render(c, http.StatusOK, appts)
}

// Create handles POST /appointments. New appointments start PENDING.
//
// @Summary      Book an appointment
// @Tags         appointments
// @Accept       json
// @Produce      json
// @Param        body  body      appointmentRequest  true  "Appointment"
// @Success      201   {object}  page{data=domain.Appointment}
// @Failure      400   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /appointments [post]
func (h *AppointmentHandler) Create(c echo.Context) error {
	var req appointmentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	_, identity, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	appt, err := h.service.Book(c.Request().Context(), identity, toAppointment(req))
	if err != nil {
		return err
	}
	return render(c, http.StatusCreated, appt)
}

// Detail handles GET /appointments/:id. The doctor is looked up when the
// backend did not embed it.
//
// @Summary      Appointment detail
// @Tags         appointments
// @Produce      json
// @Param        id   path      string  true  "Appointment id"
// @Success      200  {object}  page{data=domain.Appointment}
// @Failure      404  {object}  errorResponse
// @Router       /appointments/{id} [get]
func (h *AppointmentHandler) Detail(c echo.Context) error {
	appt, err := h.service.Detail(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return render(c, http.StatusOK, appt)
}

// UpdateStatus handles PUT /appointments/:id/status.
//
// @Summary      Change appointment status
// @Tags         appointments
// @Accept       json
// @Produce      json
// @Param        id    path      string         true  "Appointment id"
// @Param        body  body      statusRequest  true  "New status"
// @Success      200   {object}  messageResponse
// @Failure      400   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /appointments/{id}/status [put]
func (h *AppointmentHandler) UpdateStatus(c echo.Context) error {
	var req statusRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	status := domain.AppointmentStatus(req.Status)
	if err := h.service.SetStatus(c.Request().Context(), c.Param("id"), status); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "appointment " + string(status)})
}
