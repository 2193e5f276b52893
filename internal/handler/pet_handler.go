package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"petstore/internal/usecase"
)

// /pets の公開API（閲覧のみ）
type PetHandler struct {
	uc *usecase.PetUsecase
}

// DI
func NewPetHandler(uc *usecase.PetUsecase) *PetHandler {
	return &PetHandler{uc: uc}
}

func (h *PetHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/pets", h.list)
	e.GET("/pets/:id", h.detail)
}

func (h *PetHandler) list(c echo.Context) error {
	// page（default 1）
	page := 1
	if v := c.QueryParam("page"); v != "" {
		p, err := strconv.Atoi(v)
		if err != nil {
			return errorJSON(c, http.StatusBadRequest, "invalid page")
		}
		page = p
	}

	// limit（default 20）
	limit := 20
	if v := c.QueryParam("limit"); v != "" {
		l, err := strconv.Atoi(v)
		if err != nil {
			return errorJSON(c, http.StatusBadRequest, "invalid limit")
		}
		limit = l
	}

	out, err := h.uc.List(c.Request().Context(), usecase.ListPetsInput{
		Page:     page,
		Limit:    limit,
		Q:        c.QueryParam("q"),
		Category: c.QueryParam("category"),
		Status:   c.QueryParam("status"),
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *PetHandler) detail(c echo.Context) error {
	id, err := parseInt64(c.Param("id"))
	if err != nil {
		return errorJSON(c, http.StatusBadRequest, "invalid id")
	}

	out, err := h.uc.Get(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func parseInt64(s string) (int64, error) {
	return strconv.ParseInt(s, 10, 64)
}
