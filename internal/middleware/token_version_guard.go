package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"petstore/internal/repository"
)

// JWTのtvとDBのtoken_versionが一致するか確認。ログアウト済みのトークンはここで弾く
func TokenVersionGuard(userRepo repository.UserRepository) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			userID, ok := c.Get(CtxUserIDKey).(int64)
			if !ok || userID <= 0 {
				return errorJSON(c, http.StatusUnauthorized, "unauthorized")
			}

			tv, ok := c.Get(CtxTokenVersionKey).(int)
			if !ok || tv < 0 {
				return errorJSON(c, http.StatusUnauthorized, "unauthorized")
			}

			//DBから最新のuserを取得する
			user, err := userRepo.FindByID(c.Request().Context(), userID)
			if err != nil || user == nil || !user.IsActive {
				return errorJSON(c, http.StatusUnauthorized, "unauthorized")
			}

			if user.TokenVersion != tv {
				return errorJSON(c, http.StatusUnauthorized, "unauthorized")
			}

			return next(c)
		}
	}
}
