package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/medportal/portal/internal/core/domain"
	"github.com/medportal/portal/internal/core/ports"
)

const dateLayout = "2006-01-02"

type RecordHandler struct {
	service ports.RecordService
}

func NewRecordHandler(service ports.RecordService) *RecordHandler {
	return &RecordHandler{service: service}
}

// List handles GET /medical-records.
//
// @Summary      List medical records
// @Description  Records visible to the signed-in user, newest first. q matches diagnosis,
// @Description  treatment, notes, doctor and patient names; matches are highlighted.
// @Tags         medical-records
// @Produce      json
// @Param        q       query     string  false  "Search text"
// @Param        status  query     string  false  "ACTIVE, RESOLVED or ARCHIVED"
// @Param        from    query     string  false  "First day, YYYY-MM-DD"
// @Param        to      query     string  false  "Last day, YYYY-MM-DD"
// @Success      200     {object}  page{data=recordListResponse}
// @Failure      400     {object}  errorResponse
// @Router       /medical-records [get]
func (h *RecordHandler) List(c echo.Context) error {
	_, identity, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	view := recordQueryView{
		Text:   strings.TrimSpace(c.QueryParam("q")),
		Status: strings.ToUpper(strings.TrimSpace(c.QueryParam("status"))),
		From:   c.QueryParam("from"),
		To:     c.QueryParam("to"),
	}
	q, err := parseRecordQuery(view)
	if err != nil {
		return err
	}

	hits, err := h.service.List(c.Request().Context(), identity, q)
	if err != nil {
		return err
	}
	return render(c, http.StatusOK, recordListResponse{Query: view, Count: len(hits), Records: hits})
}

func parseRecordQuery(v recordQueryView) (ports.RecordQuery, error) {
	q := ports.RecordQuery{Text: v.Text}

	switch status := domain.RecordStatus(v.Status); status {
	case "":
	case domain.RecordActive, domain.RecordResolved, domain.RecordArchived:
		q.Status = status
	default:
		return q, echo.NewHTTPError(http.StatusBadRequest, "status must be one of: ACTIVE RESOLVED ARCHIVED")
	}

	if v.From != "" {
		from, err := time.Parse(dateLayout, v.From)
		if err != nil {
			return q, echo.NewHTTPError(http.StatusBadRequest, "from must be a date (YYYY-MM-DD)")
		}
		q.From = from
	}
	if v.To != "" {
		to, err := time.Parse(dateLayout, v.To)
		if err != nil {
			return q, echo.NewHTTPError(http.StatusBadRequest, "to must be a date (YYYY-MM-DD)")
		}
		// inclusive of the whole last day
		q.To = to.Add(24*time.Hour - time.Nanosecond)
	}
	if !q.From.IsZero() && !q.To.IsZero() && q.To.Before(q.From) {
		return q, echo.NewHTTPError(http.StatusBadRequest, "to must not be before from")
	}
	return q, nil
}

// Create handles POST /medical-records.
//
// @Summary      Create a medical record
// @Tags         medical-records
// @Accept       json
// @Produce      json
// @Param        body  body      recordRequest  true  "Record"
// @Success      201   {object}  page{data=domain.MedicalRecord}
// @Failure      400   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /medical-records [post]
func (h *RecordHandler) Create(c echo.Context) error {
	var req recordRequest
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

	rec, err := h.service.Create(c.Request().Context(), identity, toRecord(req))
	if err != nil {
		return err
	}
	return render(c, http.StatusCreated, rec)
}

// Update handles PUT /medical-records/:id.
//
// @Summary      Update a medical record
// @Tags         medical-records
// @Accept       json
// @Produce      json
// @Param        id    path      string         true  "Record id"
// @Param        body  body      recordRequest  true  "Record"
// @Success      200   {object}  page{data=domain.MedicalRecord}
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /medical-records/{id} [put]
func (h *RecordHandler) Update(c echo.Context) error {
	var req recordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	rec, err := h.service.Update(c.Request().Context(), c.Param("id"), toRecord(req))
	if err != nil {
		return err
	}
	return render(c, http.StatusOK, rec)
}

// Delete handles DELETE /medical-records/:id.
//
// @Summary      Delete a medical record
// @Tags         medical-records
// @Param        id   path  string  true  "Record id"
// @Success      204
// @Failure      404  {object}  errorResponse
// @Router       /medical-records/{id} [delete]
func (h *RecordHandler) Delete(c echo.Context) error {
	if err := h.service.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
