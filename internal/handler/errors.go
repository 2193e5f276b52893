package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"petstore/internal/domain/model"
	"petstore/internal/middleware"
	"petstore/internal/usecase"
	"petstore/internal/validator"
)

// エラーボディ。storefrontはmessageを表示する
type ErrorResponse struct {
	Timestamp time.Time `json:"timestamp"`
	Status    int       `json:"status"`
	Error     string    `json:"error"`
	Message   string    `json:"message"`
	Path      string    `json:"path"`
}

type SuccessResponse struct {
	Message string `json:"message"`
}

func errorJSON(c echo.Context, status int, msg string) error {
	return c.JSON(status, ErrorResponse{
		Timestamp: time.Now().UTC(),
		Status:    status,
		Error:     http.StatusText(status),
		Message:   msg,
		Path:      c.Request().URL.Path,
	})
}

func writeError(c echo.Context, err error) error {
	if err == nil {
		return nil
	}
	if he, ok := usecase.AsHTTPError(err); ok {
		return errorJSON(c, he.Status, he.Message)
	}
	var verr *validator.ValidationError
	if errors.As(err, &verr) {
		return errorJSON(c, http.StatusBadRequest, verr.Error())
	}

	switch {
	case errors.Is(err, usecase.ErrValidation):
		return errorJSON(c, http.StatusBadRequest, "validation error")
	case errors.Is(err, usecase.ErrUnauthorized):
		return errorJSON(c, http.StatusUnauthorized, "unauthorized")
	case errors.Is(err, usecase.ErrForbidden):
		return errorJSON(c, http.StatusForbidden, "forbidden")
	case errors.Is(err, usecase.ErrNotFound):
		return errorJSON(c, http.StatusNotFound, "not found")
	case errors.Is(err, usecase.ErrConflict):
		return errorJSON(c, http.StatusConflict, "conflict")
	}

	//500
	c.Logger().Error(err)
	return errorJSON(c, http.StatusInternalServerError, "internal error")
}

// bind + validate。失敗時はレスポンスを書いて false
func bindAndValidate(c echo.Context, req interface{}) (bool, error) {
	if err := c.Bind(req); err != nil {
		return false, errorJSON(c, http.StatusBadRequest, "invalid body")
	}
	if err := c.Validate(req); err != nil {
		return false, writeError(c, err)
	}
	return true, nil
}

func getUserIDFromContext(c echo.Context) (int64, bool) {
	id, ok := c.Get(middleware.CtxUserIDKey).(int64)
	return id, ok && id > 0
}

func getActor(c echo.Context) (usecase.Actor, bool) {
	id, ok := getUserIDFromContext(c)
	if !ok {
		return usecase.Actor{}, false
	}
	role, _ := c.Get(middleware.CtxUserRoleKey).(string)
	return usecase.Actor{UserID: id, Role: model.Role(role)}, true
}

func pathID(c echo.Context, name string) (int64, bool) {
	id, err := parseInt64(c.Param(name))
	return id, err == nil && id > 0
}
