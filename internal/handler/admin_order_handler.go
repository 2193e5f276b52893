package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"petstore/internal/domain/model"
	"petstore/internal/repository"
	"petstore/internal/usecase"
)

type AdminOrderHandler struct {
	uc *usecase.AdminOrderUsecase
}

func NewAdminOrderHandler(uc *usecase.AdminOrderUsecase) *AdminOrderHandler {
	return &AdminOrderHandler{uc: uc}
}

type OrderStatusUpdateRequest struct {
	Status string `json:"status" validate:"required,oneof=SHIPPED DELIVERED"`
}

// g は /admin（認証済み＋ADMIN）
func (h *AdminOrderHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/orders", h.list)
	g.PUT("/orders/:id/status", h.updateStatus)
	g.GET("/audit-logs", h.auditLogs)
}

func (h *AdminOrderHandler) list(c echo.Context) error {
	page := 1
	if v := c.QueryParam("page"); v != "" {
		p, err := strconv.Atoi(v)
		if err != nil {
			return errorJSON(c, http.StatusBadRequest, "invalid page")
		}
		page = p
	}

	limit := 50
	if v := c.QueryParam("limit"); v != "" {
		l, err := strconv.Atoi(v)
		if err != nil {
			return errorJSON(c, http.StatusBadRequest, "invalid limit")
		}
		limit = l
	}

	var userID *int64
	if v := c.QueryParam("userId"); v != "" {
		id, err := parseInt64(v)
		if err != nil {
			return errorJSON(c, http.StatusBadRequest, "invalid userId")
		}
		userID = &id
	}

	f := repository.AdminOrderListFilter{
		Page:   page,
		Limit:  limit,
		Status: c.QueryParam("status"),
		UserID: userID,
	}
	if v := c.QueryParam("from"); v != "" {
		tm, ok := usecase.ParseDateTimeRFC3339(v)
		if !ok {
			return errorJSON(c, http.StatusBadRequest, "invalid from")
		}
		f.From = tm
	}
	if v := c.QueryParam("to"); v != "" {
		tm, ok := usecase.ParseDateTimeRFC3339(v)
		if !ok {
			return errorJSON(c, http.StatusBadRequest, "invalid to")
		}
		f.To = tm
	}

	out, err := h.uc.List(c.Request().Context(), f)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *AdminOrderHandler) updateStatus(c echo.Context) error {
	orderID, ok := pathID(c, "id")
	if !ok {
		return errorJSON(c, http.StatusBadRequest, "invalid id")
	}

	var req OrderStatusUpdateRequest
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}

	//操作した管理者ID（監査ログ用）
	adminID, ok := getUserIDFromContext(c)
	if !ok {
		return errorJSON(c, http.StatusUnauthorized, "unauthorized")
	}

	if err := h.uc.UpdateStatus(c.Request().Context(), adminID, orderID,
		usecase.AdminUpdateOrderStatusInput{Status: req.Status}); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, SuccessResponse{Message: "updated"})
}

// GET /admin/audit-logs?orderId=|petId=&action=&actorUserId=&from=&to=&limit=&offset=
func (h *AdminOrderHandler) auditLogs(c echo.Context) error {
	var f repository.AuditLogFilter

	if v := c.QueryParam("actorUserId"); v != "" {
		id, err := parseInt64(v)
		if err != nil {
			return errorJSON(c, http.StatusBadRequest, "invalid actorUserId")
		}
		f.ActorUserID = &id
	}

	//対象は注文かペットのどちらか一方
	orderID, petID := c.QueryParam("orderId"), c.QueryParam("petId")
	switch {
	case orderID != "" && petID != "":
		return errorJSON(c, http.StatusBadRequest, "specify either orderId or petId")
	case orderID != "":
		id, err := parseInt64(orderID)
		if err != nil {
			return errorJSON(c, http.StatusBadRequest, "invalid orderId")
		}
		res := model.OrderResource(id)
		f.Resource = &res
	case petID != "":
		id, err := parseInt64(petID)
		if err != nil {
			return errorJSON(c, http.StatusBadRequest, "invalid petId")
		}
		res := model.PetResource(id)
		f.Resource = &res
	}

	if v := c.QueryParam("action"); v != "" {
		a := model.AuditAction(strings.ToUpper(v))
		f.Action = &a
	}
	if v := c.QueryParam("from"); v != "" {
		tm, ok := usecase.ParseDateTimeRFC3339(v)
		if !ok {
			return errorJSON(c, http.StatusBadRequest, "invalid from")
		}
		f.From = tm
	}
	if v := c.QueryParam("to"); v != "" {
		tm, ok := usecase.ParseDateTimeRFC3339(v)
		if !ok {
			return errorJSON(c, http.StatusBadRequest, "invalid to")
		}
		f.To = tm
	}
	if v := c.QueryParam("limit"); v != "" {
		l, err := strconv.Atoi(v)
		if err != nil {
			return errorJSON(c, http.StatusBadRequest, "invalid limit")
		}
		f.Limit = l
	}
	if v := c.QueryParam("offset"); v != "" {
		o, err := strconv.Atoi(v)
		if err != nil {
			return errorJSON(c, http.StatusBadRequest, "invalid offset")
		}
		f.Offset = o
	}

	logs, err := h.uc.AuditLogs(c.Request().Context(), f)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, logs)
}
