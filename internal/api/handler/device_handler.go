package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/greenops/carbon-management/internal/api/metrics"
	"github.com/greenops/carbon-management/internal/api/response"
	"github.com/greenops/carbon-management/internal/core/ports"
)

// DeviceHandler serves devices and their maintenance history.
type DeviceHandler struct {
	service ports.DeviceService
}

func NewDeviceHandler(service ports.DeviceService) *DeviceHandler {
	return &DeviceHandler{service: service}
}

// List handles GET /api/devices.
//
// @Summary      List devices
// @Tags         devices
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Envelope{data=[]domain.Device}
// @Router       /devices [get]
func (h *DeviceHandler) List(c echo.Context) error {
	devices, err := h.service.List(c.Request().Context())
	if err != nil {
		return err
	}
	return response.Success(c, http.StatusOK, "Devices retrieved successfully", devices)
}

// Get handles GET /api/devices/:id.
//
// @Summary      Get a device
// @Tags         devices
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Device ID"
// @Success      200  {object}  response.Envelope{data=domain.Device}
// @Failure      404  {object}  response.Envelope
// @Router       /devices/{id} [get]
func (h *DeviceHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	device, err := h.service.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return response.Success(c, http.StatusOK, "Device retrieved successfully", device)
}

// Maintenance handles GET /api/devices/:id/maintenance.
//
// @Summary      Maintenance history of a device
// @Tags         devices
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Device ID"
// @Success      200  {object}  response.Envelope{data=[]domain.MaintenanceRecord}
// @Failure      404  {object}  response.Envelope
// @Router       /devices/{id}/maintenance [get]
func (h *DeviceHandler) Maintenance(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	recs, err := h.service.MaintenanceHistory(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return response.Success(c, http.StatusOK, "Maintenance records retrieved successfully", recs)
}

// CreateMaintenance handles POST /api/devices/maintenance.
//
// @Summary      Log maintenance work
// @Tags         devices
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createMaintenanceRequest  true  "Maintenance record"
// @Success      201   {object}  response.Envelope{data=domain.MaintenanceRecord}
// @Failure      400   {object}  response.Envelope
// @Failure      404   {object}  response.Envelope
// @Router       /devices/maintenance [post]
func (h *DeviceHandler) CreateMaintenance(c echo.Context) error {
	caller, err := callerIdentity(c)
	if err != nil {
		return err
	}
	var req createMaintenanceRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	rec, err := h.service.CreateMaintenance(c.Request().Context(), caller.SubjectID, req.toInput())
	if err != nil {
		return err
	}
	metrics.MaintenanceRecordsCreatedTotal.WithLabelValues(string(rec.Type)).Inc()
	return response.Success(c, http.StatusCreated, "Maintenance record created successfully", rec)
}

// UpdateStatus handles PUT /api/devices/:id/status.
//
// @Summary      Change device status
// @Tags         devices
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int                        true  "Device ID"
// @Param        body  body      updateDeviceStatusRequest  true  "New status"
// @Success      200   {object}  response.Envelope{data=domain.Device}
// @Failure      400   {object}  response.Envelope
// @Failure      404   {object}  response.Envelope
// @Router       /devices/{id}/status [put]
func (h *DeviceHandler) UpdateStatus(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req updateDeviceStatusRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	device, err := h.service.UpdateStatus(c.Request().Context(), id, req.toInput())
	if err != nil {
		return err
	}
	return response.Success(c, http.StatusOK, "Device status updated successfully", device)
}

// MaintenanceStats handles GET /api/devices/maintenance/stats.
//
// @Summary      Maintenance counts by type
// @Tags         devices
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Envelope{data=domain.MaintenanceStats}
// @Router       /devices/maintenance/stats [get]
func (h *DeviceHandler) MaintenanceStats(c echo.Context) error {
	stats, err := h.service.MaintenanceStats(c.Request().Context())
	if err != nil {
		return err
	}
	return response.Success(c, http.StatusOK, "Maintenance statistics retrieved successfully", stats)
}
