package handler

import (
	"strings"
	"time"

	"github.com/greenops/carbon-management/internal/core/domain"
	"github.com/greenops/carbon-management/internal/core/ports"
)

// --- Auth ---

type registerRequest struct {
	Name     string `json:"name"     validate:"required,min=1,max=100"`
	Email    string `json:"email"    validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=6,max=72"`
	Role     string `json:"role"     validate:"omitempty,oneof=user admin reviewer"`
}

func (r *registerRequest) normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = strings.TrimSpace(r.Email)
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type userResponse struct {
	ID   int64       `json:"id"`
	Name string      `json:"name"`
	Role domain.Role `json:"role"`
	Mail string      `json:"mail"`
}

type authResponse struct {
	User  userResponse `json:"user"`
	Token string       `json:"token"`
}

func toUserResponse(id *domain.Identity) userResponse {
	return userResponse{ID: id.ID, Name: id.DisplayName, Role: id.Role, Mail: id.Email}
}

// --- Carbon ---

type createCarbonRequest struct {
	FuelName    string   `json:"fuelName"    validate:"required,min=1,max=255"`
	Consumption float64  `json:"consumption" validate:"required,gt=0"`
	Electricity *float64 `json:"electricity" validate:"omitnil,gte=0"`
	Coefficient float64  `json:"coefficient" validate:"required,gt=0"`
}

func (r createCarbonRequest) toInput() ports.CarbonInput {
	return ports.CarbonInput{
		FuelName:    r.FuelName,
		Consumption: r.Consumption,
		Electricity: r.Electricity,
		Coefficient: r.Coefficient,
	}
}

// updateCarbonRequest is createCarbonRequest with every field optional.
type updateCarbonRequest struct {
	FuelName    *string  `json:"fuelName"    validate:"omitnil,min=1,max=255"`
	Consumption *float64 `json:"consumption" validate:"omitnil,gt=0"`
	Electricity *float64 `json:"electricity" validate:"omitnil,gte=0"`
	Coefficient *float64 `json:"coefficient" validate:"omitnil,gt=0"`
}

func (r updateCarbonRequest) toPatch() ports.CarbonPatch {
	return ports.CarbonPatch{
		FuelName:    r.FuelName,
		Consumption: r.Consumption,
		Electricity: r.Electricity,
		Coefficient: r.Coefficient,
	}
}

type carbonQueryRequest struct {
	Page      int    `query:"page"      validate:"omitempty,min=1,max=100000"`
	Limit     int    `query:"limit"     validate:"omitempty,min=1,max=100"`
	StartDate string `query:"startDate" validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
	EndDate   string `query:"endDate"   validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
}

// toQuery parses the already validated dates and checks their order.
func (r carbonQueryRequest) toQuery() (ports.CarbonQuery, error) {
	q := ports.CarbonQuery{Page: r.Page, Limit: r.Limit}
	if r.StartDate != "" {
		q.StartDate, _ = time.Parse(time.RFC3339, r.StartDate)
	}
	if r.EndDate != "" {
		q.EndDate, _ = time.Parse(time.RFC3339, r.EndDate)
	}
	if !q.StartDate.IsZero() && !q.EndDate.IsZero() && q.EndDate.Before(q.StartDate) {
		return q, domain.NewValidationError("endDate", "endDate must not be before startDate")
	}
	return q, nil
}

// --- Devices ---

type createMaintenanceRequest struct {
	DeviceID        int64  `json:"deviceId"        validate:"required,gt=0"`
	Type            string `json:"type"            validate:"required,oneof=routine repair inspection"`
	Description     string `json:"description"     validate:"required,min=1,max=2000"`
	MaintenanceTime string `json:"maintenanceTime" validate:"required,datetime=2006-01-02T15:04:05Z07:00"`
}

func (r createMaintenanceRequest) toInput() ports.MaintenanceInput {
	at, _ := time.Parse(time.RFC3339, r.MaintenanceTime)
	return ports.MaintenanceInput{
		DeviceID:        r.DeviceID,
		Type:            domain.MaintenanceType(r.Type),
		Description:     r.Description,
		MaintenanceTime: at,
	}
}

type updateDeviceStatusRequest struct {
	Status  string   `json:"status"  validate:"required,oneof=active idle fault"`
	Runtime *float64 `json:"runtime" validate:"omitnil,gte=0"`
}

func (r updateDeviceStatusRequest) toInput() ports.DeviceStatusInput {
	return ports.DeviceStatusInput{Status: domain.DeviceStatus(r.Status), RuntimeHours: r.Runtime}
}
