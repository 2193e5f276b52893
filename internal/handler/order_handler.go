package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"petstore/internal/usecase"
)

// /stores/checkout, /stores/order(s) のHTTP
type OrderHandler struct {
	uc *usecase.OrderUsecase
}

func NewOrderHandler(uc *usecase.OrderUsecase) *OrderHandler {
	return &OrderHandler{uc: uc}
}

// g は /stores（認証済み）
func (h *OrderHandler) RegisterRoutes(g *echo.Group) {
	g.POST("/checkout", h.checkout)
	g.GET("/orders", h.list)
	g.GET("/order/:orderId", h.detail)
	g.POST("/order/:orderId/pay", h.pay)
	g.DELETE("/order/:orderId", h.cancel)
}

// ?discountCode=SAVE20 は任意
func (h *OrderHandler) checkout(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return errorJSON(c, http.StatusUnauthorized, "unauthorized")
	}

	out, err := h.uc.Checkout(c.Request().Context(), userID, c.QueryParam("discountCode"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, out)
}

func (h *OrderHandler) list(c echo.Context) error {
	actor, ok := getActor(c)
	if !ok {
		return errorJSON(c, http.StatusUnauthorized, "unauthorized")
	}

	out, err := h.uc.List(c.Request().Context(), actor)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *OrderHandler) detail(c echo.Context) error {
	actor, ok := getActor(c)
	if !ok {
		return errorJSON(c, http.StatusUnauthorized, "unauthorized")
	}
	orderID, ok := pathID(c, "orderId")
	if !ok {
		return errorJSON(c, http.StatusBadRequest, "invalid id")
	}

	out, err := h.uc.Get(c.Request().Context(), actor, orderID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *OrderHandler) pay(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return errorJSON(c, http.StatusUnauthorized, "unauthorized")
	}
	orderID, ok := pathID(c, "orderId")
	if !ok {
		return errorJSON(c, http.StatusBadRequest, "invalid id")
	}

	var req usecase.PayOrderInput
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}

	out, err := h.uc.Pay(c.Request().Context(), userID, orderID, req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *OrderHandler) cancel(c echo.Context) error {
	actor, ok := getActor(c)
	if !ok {
		return errorJSON(c, http.StatusUnauthorized, "unauthorized")
	}
	orderID, ok := pathID(c, "orderId")
	if !ok {
		return errorJSON(c, http.StatusBadRequest, "invalid id")
	}

	if err := h.uc.Cancel(c.Request().Context(), actor, orderID); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, SuccessResponse{Message: "canceled"})
}
