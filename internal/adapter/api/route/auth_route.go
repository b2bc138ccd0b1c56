package route

import (
	"github.com/gin-gonic/gin"

	"github.com/dmtavares/pdv-varejo/internal/adapter/api/controller"
	"github.com/dmtavares/pdv-varejo/pkg/middleware"
)

// RegisterAuthRoutes registra as rotas do módulo de autenticação
func RegisterAuthRoutes(r *gin.RouterGroup, authController *controller.AuthController) {
	auth := r.Group("/auth")
	{
		auth.POST("/login", authController.Login)
		auth.GET("/me", middleware.AuthMiddleware(), authController.Me)
	}
}
