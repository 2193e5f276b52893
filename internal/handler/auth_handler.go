package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"petstore/internal/usecase/auth"
)

type AuthHandler struct {
	registerUC *auth.RegisterUserUsecase // 会員登録usecase
	loginUC    *auth.LoginUsecase        // ログインusecase
	logoutUC   *auth.LogoutUsecase
	meUC       *auth.MeUsecase
}

// DIコンストラクタ
func NewAuthHandler(
	registerUC *auth.RegisterUserUsecase,
	loginUC *auth.LoginUsecase,
	logoutUC *auth.LogoutUsecase,
	meUC *auth.MeUsecase,
) *AuthHandler {
	return &AuthHandler{
		registerUC: registerUC,
		loginUC:    loginUC,
		logoutUC:   logoutUC,
		meUC:       meUC,
	}
}

// /auth/register のリクエストボディ。
type registerRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// /auth/login のリクエストボディ。
type loginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

func (h *AuthHandler) RegisterPublicRoutes(e *echo.Echo) {
	e.POST("/auth/register", h.Register)
	e.POST("/auth/login", h.Login)
}

// g は /auth（認証済み）
func (h *AuthHandler) RegisterRoutes(g *echo.Group) {
	g.POST("/logout", h.Logout)
	g.GET("/me", h.Me)
}

// POST /auth/register
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}

	out, err := h.registerUC.Execute(c.Request().Context(), auth.RegisterUserInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return writeAuthError(c, err)
	}
	return c.JSON(http.StatusCreated, out)
}

// POST /auth/login
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}

	out, err := h.loginUC.Execute(c.Request().Context(), auth.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return writeAuthError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

// POST /auth/logout。token_versionを上げるので以降そのトークンは401
func (h *AuthHandler) Logout(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return errorJSON(c, http.StatusUnauthorized, "unauthorized")
	}
	if err := h.logoutUC.Execute(c.Request().Context(), userID); err != nil {
		return writeAuthError(c, err)
	}
	return c.JSON(http.StatusOK, SuccessResponse{Message: "logout success"})
}

func (h *AuthHandler) Me(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return errorJSON(c, http.StatusUnauthorized, "unauthorized")
	}
	u, err := h.meUC.Execute(c.Request().Context(), userID)
	if err != nil {
		return writeAuthError(c, err)
	}
	return c.JSON(http.StatusOK, u)
}

func writeAuthError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, auth.ErrInvalidCredentials):
		return errorJSON(c, http.StatusUnauthorized, "invalid credentials")
	case errors.Is(err, auth.ErrUserInactive):
		return errorJSON(c, http.StatusForbidden, "user is inactive")
	case errors.Is(err, auth.ErrInvalidEmailFormat):
		return errorJSON(c, http.StatusBadRequest, "invalid email format")
	case errors.Is(err, auth.ErrPasswordTooShort):
		return errorJSON(c, http.StatusBadRequest, "password too short")
	case errors.Is(err, auth.ErrWeakPassword):
		return errorJSON(c, http.StatusBadRequest, "weak password")
	case errors.Is(err, auth.ErrEmailAlreadyExists):
		return errorJSON(c, http.StatusConflict, "email already exists")
	}
	return writeError(c, err)
}
