package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/greenops/carbon-management/internal/api/metrics"
	"github.com/greenops/carbon-management/internal/api/response"
	"github.com/greenops/carbon-management/internal/core/ports"
)

// CarbonHandler serves the caller's own carbon records.
type CarbonHandler struct {
	service ports.CarbonService
}

func NewCarbonHandler(service ports.CarbonService) *CarbonHandler {
	return &CarbonHandler{service: service}
}

// Create handles POST /api/carbon.
//
// @Summary      Record fuel consumption
// @Tags         carbon
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createCarbonRequest  true  "Carbon record"
// @Success      201   {object}  response.Envelope{data=domain.CarbonRecord}
// @Failure      400   {object}  response.Envelope
// @Failure      401   {object}  response.Envelope
// @Router       /carbon [post]
func (h *CarbonHandler) Create(c echo.Context) error {
	caller, err := callerIdentity(c)
	if err != nil {
		return err
	}
	var req createCarbonRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	rec, err := h.service.Create(c.Request().Context(), caller.SubjectID, req.toInput())
	if err != nil {
		return err
	}
	metrics.CarbonRecordsCreatedTotal.Inc()
	return response.Success(c, http.StatusCreated, "Carbon data created successfully", rec)
}

// ListMine handles GET /api/carbon/my-data.
//
// @Summary      List own carbon records
// @Tags         carbon
// @Produce      json
// @Security     BearerAuth
// @Param        page       query     int     false  "Page (default 1)"
// @Param        limit      query     int     false  "Page size 1..100 (default 10)"
// @Param        startDate  query     string  false  "RFC3339 lower bound on createdAt"
// @Param        endDate    query     string  false  "RFC3339 upper bound on createdAt"
// @Success      200        {object}  response.Envelope{data=ports.CarbonPage}
// @Failure      400        {object}  response.Envelope
// @Failure      401        {object}  response.Envelope
// @Router       /carbon/my-data [get]
func (h *CarbonHandler) ListMine(c echo.Context) error {
	caller, err := callerIdentity(c)
	if err != nil {
		return err
	}
	var req carbonQueryRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	q, err := req.toQuery()
	if err != nil {
		return err
	}

	page, err := h.service.ListMine(c.Request().Context(), caller.SubjectID, q)
	if err != nil {
		return err
	}
	return response.Success(c, http.StatusOK, "Carbon data retrieved successfully", page)
}

// Get handles GET /api/carbon/:id.
//
// @Summary      Get one of the caller's carbon records
// @Tags         carbon
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Record ID"
// @Success      200  {object}  response.Envelope{data=domain.CarbonRecord}
// @Failure      404  {object}  response.Envelope
// @Router       /carbon/{id} [get]
func (h *CarbonHandler) Get(c echo.Context) error {
	caller, err := callerIdentity(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	rec, err := h.service.Get(c.Request().Context(), caller.SubjectID, id)
	if err != nil {
		return err
	}
	return response.Success(c, http.StatusOK, "Carbon data retrieved successfully", rec)
}

// Update handles PUT /api/carbon/:id. Absent fields keep their value.
//
// @Summary      Partially update a carbon record
// @Tags         carbon
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int                  true  "Record ID"
// @Param        body  body      updateCarbonRequest  true  "Fields to change"
// @Success      200   {object}  response.Envelope{data=domain.CarbonRecord}
// @Failure      400   {object}  response.Envelope
// @Failure      404   {object}  response.Envelope
// @Router       /carbon/{id} [put]
func (h *CarbonHandler) Update(c echo.Context) error {
	caller, err := callerIdentity(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req updateCarbonRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	rec, err := h.service.Update(c.Request().Context(), caller.SubjectID, id, req.toPatch())
	if err != nil {
		return err
	}
	return response.Success(c, http.StatusOK, "Carbon data updated successfully", rec)
}

// Delete handles DELETE /api/carbon/:id.
//
// @Summary      Delete a carbon record
// @Tags         carbon
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Record ID"
// @Success      200  {object}  response.Envelope
// @Failure      404  {object}  response.Envelope
// @Router       /carbon/{id} [delete]
func (h *CarbonHandler) Delete(c echo.Context) error {
	caller, err := callerIdentity(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	if err := h.service.Delete(c.Request().Context(), caller.SubjectID, id); err != nil {
		return err
	}
	return response.Success(c, http.StatusOK, "Carbon data deleted successfully", nil)
}
