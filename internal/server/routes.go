package server

import (
	"github.com/labstack/echo/v4"

	"petstore/internal/config"
	"petstore/internal/handler"
	"petstore/internal/middleware"
	"petstore/internal/repository"
)

type Handlers struct {
	Auth       *handler.AuthHandler
	Pet        *handler.PetHandler
	Cart       *handler.CartHandler
	Order      *handler.OrderHandler
	Discount   *handler.DiscountHandler
	Address    *handler.AddressHandler
	AdminOrder *handler.AdminOrderHandler
}

func RegisterRoutes(e *echo.Echo, cfg config.Config, userRepo repository.UserRepository, h Handlers) {
	//公開
	h.Auth.RegisterPublicRoutes(e)
	h.Pet.RegisterRoutes(e)
	h.Discount.RegisterRoutes(e)

	//ログイン必須
	authed := []echo.MiddlewareFunc{
		middleware.AuthJWT(cfg),
		middleware.TokenVersionGuard(userRepo),
	}

	h.Auth.RegisterRoutes(e.Group("/auth", authed...))

	stores := e.Group("/stores", authed...)
	h.Cart.RegisterRoutes(stores)
	h.Order.RegisterRoutes(stores)

	h.Address.RegisterRoutes(e.Group("/addresses", authed...))

	admin := e.Group("/admin", append(authed, middleware.AdminRoleGuard())...)
	h.AdminOrder.RegisterRoutes(admin)
}
