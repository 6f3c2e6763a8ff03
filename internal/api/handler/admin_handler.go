package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/greenops/carbon-management/internal/api/response"
	"github.com/greenops/carbon-management/internal/core/domain"
	"github.com/greenops/carbon-management/internal/core/ports"
)

// AdminHandler serves cross-user reporting. Route gating decides who may
// reach each method.
type AdminHandler struct {
	carbon ports.CarbonService
	auth   ports.AuthService
}

func NewAdminHandler(carbon ports.CarbonService, auth ports.AuthService) *AdminHandler {
	return &AdminHandler{carbon: carbon, auth: auth}
}

// AllCarbonData handles GET /api/admin/all-carbon-data.
//
// @Summary      Every carbon record
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Envelope{data=[]domain.CarbonRecord}
// @Failure      403  {object}  response.Envelope
// @Router       /admin/all-carbon-data [get]
func (h *AdminHandler) AllCarbonData(c echo.Context) error {
	recs, err := h.carbon.ListAll(c.Request().Context())
	if err != nil {
		return err
	}
	return response.Success(c, http.StatusOK, "All carbon data retrieved successfully", recs)
}

// UserCarbonData handles GET /api/admin/user-carbon-data/:userId.
//
// @Summary      Carbon records of one user
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        userId  path      int  true  "User ID"
// @Success      200     {object}  response.Envelope{data=[]domain.CarbonRecord}
// @Failure      400     {object}  response.Envelope
// @Failure      403     {object}  response.Envelope
// @Router       /admin/user-carbon-data/{userId} [get]
func (h *AdminHandler) UserCarbonData(c echo.Context) error {
	userID, err := pathID(c, "userId")
	if err != nil {
		return err
	}
	recs, err := h.carbon.ListByUser(c.Request().Context(), userID)
	if err != nil {
		return err
	}
	return response.Success(c, http.StatusOK, "User carbon data retrieved successfully", recs)
}

// CarbonStats handles GET /api/admin/carbon-stats.
//
// @Summary      Aggregate carbon statistics
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Envelope{data=domain.CarbonStats}
// @Failure      403  {object}  response.Envelope
// @Router       /admin/carbon-stats [get]
func (h *AdminHandler) CarbonStats(c echo.Context) error {
	stats, err := h.carbon.Stats(c.Request().Context())
	if err != nil {
		return err
	}
	return response.Success(c, http.StatusOK, "Carbon statistics retrieved successfully", stats)
}

type adminUserResponse struct {
	ID         int64       `json:"id"`
	Name       string      `json:"name"`
	Role       domain.Role `json:"role"`
	Mail       string      `json:"mail"`
	CreateTime string      `json:"createTime"`
}

// Users handles GET /api/admin/users.
//
// @Summary      List registered users
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Envelope{data=[]adminUserResponse}
// @Failure      403  {object}  response.Envelope
// @Router       /admin/users [get]
func (h *AdminHandler) Users(c echo.Context) error {
	ids, err := h.auth.ListIdentities(c.Request().Context())
	if err != nil {
		return err
	}
	out := make([]adminUserResponse, 0, len(ids))
	for _, id := range ids {
		out = append(out, adminUserResponse{
			ID:         id.ID,
			Name:       id.DisplayName,
			Role:       id.Role,
			Mail:       id.Email,
			CreateTime: response.Timestamp(id.CreatedAt),
		})
	}
	c.Response().Header().Set("X-Total-Count", strconv.Itoa(len(out)))
	return response.Success(c, http.StatusOK, "Users retrieved successfully", out)
}
