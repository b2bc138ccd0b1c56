package route

import (
	"github.com/gin-gonic/gin"

	"github.com/dmtavares/pdv-varejo/internal/adapter/api/controller"
	"github.com/dmtavares/pdv-varejo/internal/domain/user"
	"github.com/dmtavares/pdv-varejo/pkg/middleware"
)

// RegisterUserRoutes registra as rotas do módulo de usuários. Criação e
// alteração de status são restritas a administradores e gerentes.
func RegisterUserRoutes(r *gin.RouterGroup, userController *controller.UserController) {
	users := r.Group("/users")
	users.Use(middleware.AuthMiddleware())
	{
		users.GET("", userController.List)
		users.GET("/:id", userController.FindByID)

		restricted := users.Group("")
		restricted.Use(middleware.RoleMiddleware(string(user.RoleAdmin), string(user.RoleManager)))
		{
			restricted.POST("", userController.Create)
			restricted.PUT("/:id/status", userController.UpdateStatus)
		}
	}
}
