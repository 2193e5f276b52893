package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"petstore/internal/usecase"
)

type DiscountHandler struct {
	uc *usecase.DiscountUsecase
}

func NewDiscountHandler(uc *usecase.DiscountUsecase) *DiscountHandler {
	return &DiscountHandler{uc: uc}
}

func (h *DiscountHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/discounts/active", h.active)
}

func (h *DiscountHandler) active(c echo.Context) error {
	list, err := h.uc.ListActive(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, list)
}
