package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"petstore/internal/usecase"
)

// /stores/cart のHTTP
type CartHandler struct {
	uc        *usecase.CartUsecase
	discounts *usecase.DiscountUsecase
}

// DI
func NewCartHandler(uc *usecase.CartUsecase, discounts *usecase.DiscountUsecase) *CartHandler {
	return &CartHandler{uc: uc, discounts: discounts}
}

// g は /stores（認証済み）
func (h *CartHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/cart/discount/validate", h.validateDiscount)
	g.GET("/cart/:userId", h.getCart)
	g.POST("/cart/add/:petId", h.addPet)
	g.DELETE("/cart/item/:itemId", h.deleteItem)
}

func (h *CartHandler) getCart(c echo.Context) error {
	actorID, ok := getUserIDFromContext(c)
	if !ok {
		return errorJSON(c, http.StatusUnauthorized, "unauthorized")
	}
	userID, ok := pathID(c, "userId")
	if !ok {
		return errorJSON(c, http.StatusBadRequest, "invalid userId")
	}

	out, err := h.uc.GetCart(c.Request().Context(), actorID, userID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *CartHandler) addPet(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return errorJSON(c, http.StatusUnauthorized, "unauthorized")
	}
	petID, ok := pathID(c, "petId")
	if !ok {
		return errorJSON(c, http.StatusBadRequest, "invalid petId")
	}

	out, err := h.uc.AddPet(c.Request().Context(), userID, petID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *CartHandler) deleteItem(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return errorJSON(c, http.StatusUnauthorized, "unauthorized")
	}
	itemID, ok := pathID(c, "itemId")
	if !ok {
		return errorJSON(c, http.StatusBadRequest, "invalid id")
	}

	out, err := h.uc.RemoveItem(c.Request().Context(), userID, itemID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

// ?code=SAVE20&total=100.00
func (h *CartHandler) validateDiscount(c echo.Context) error {
	out, err := h.discounts.Validate(c.Request().Context(), c.QueryParam("code"), c.QueryParam("total"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}
