package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/medportal/portal/internal/core/ports"
)

// DirectoryHandler serves the list screens reached from the navigation
// links: doctors, patients, payments and reports.
type DirectoryHandler struct {
	service ports.DirectoryService
}

func NewDirectoryHandler(service ports.DirectoryService) *DirectoryHandler {
	return &DirectoryHandler{service: service}
}

// Doctors handles GET /admin/doctors.
//
// @Summary      List doctors
// @Tags         directory
// @Produce      json
// @Success      200  {object}  page{data=[]domain.Doctor}
// @Router       /admin/doctors [get]
func (h *DirectoryHandler) Doctors(c echo.Context) error {
	docs, err := h.service.Doctors(c.Request().Context())
	if err != nil {
		return err
	}
	return render(c, http.StatusOK, docs)
}

// Patients handles GET /admin/patients and GET /doctor/patients.
//
// @Summary      List patients
// @Tags         directory
// @Produce      json
// @Success      200  {object}  page{data=[]domain.Patient}
// @Router       /admin/patients [get]
// @Router       /doctor/patients [get]
func (h *DirectoryHandler) Patients(c echo.Context) error {
	_, identity, err := ctxIdentity(c)
	if err != nil {
		return err
	}
	ps, err := h.service.Patients(c.Request().Context(), identity)
	if err != nil {
		return err
	}
	return render(c, http.StatusOK, ps)
}

// Payments handles GET /payments and GET /admin/payments.
//
// @Summary      List payments
// @Tags         directory
// @Produce      json
// @Success      200  {object}  page{data=[]domain.Payment}
// @Router       /payments [get]
// @Router       /admin/payments [get]
func (h *DirectoryHandler) Payments(c echo.Context) error {
	_, identity, err := ctxIdentity(c)
	if err != nil {
		return err
	}
	pays, err := h.service.Payments(c.Request().Context(), identity)
	if err != nil {
		return err
	}
	return render(c, http.StatusOK, pays)
}

// Reports handles GET /admin/reports.
//
// @Summary      List reports
// @Tags         directory
// @Produce      json
// @Success      200  {object}  page{data=[]domain.Report}
// @Router       /admin/reports [get]
func (h *DirectoryHandler) Reports(c echo.Context) error {
	_, identity, err := ctxIdentity(c)
	if err != nil {
		return err
	}
	reps, err := h.service.Reports(c.Request().Context(), identity)
	if err != nil {
		return err
	}
	return render(c, http.StatusOK, reps)
}
