package route

import (
	"github.com/gin-gonic/gin"

	"github.com/dmtavares/pdv-varejo/internal/adapter/api/controller"
	"github.com/dmtavares/pdv-varejo/pkg/middleware"
)

// RegisterPaymentRoutes registra as rotas do módulo de pagamentos.
// O webhook fica fora do grupo autenticado: o processador externo não
// envia token JWT. A rota de cartão é um alias histórico do mesmo receptor.
func RegisterPaymentRoutes(r *gin.RouterGroup, paymentController *controller.PaymentController) {
	r.POST("/payments/webhook", paymentController.Webhook)
	r.POST("/payments/card/webhook", paymentController.Webhook)

	payments := r.Group("/payments")
	payments.Use(middleware.AuthMiddleware())
	{
		payments.POST("/cash", paymentController.Cash)
		payments.POST("/card", paymentController.Card)
		payments.POST("/pix", paymentController.Pix)
		payments.POST("/pix/confirm", paymentController.ConfirmPix)
		payments.GET("/status", paymentController.Status)
		payments.GET("/sale/:saleId", paymentController.ListBySale)
		payments.GET("/:id", paymentController.FindByID)
	}
}
