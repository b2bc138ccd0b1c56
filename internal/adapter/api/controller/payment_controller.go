package controller

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dmtavares/pdv-varejo/internal/adapter/api/dto"
	"github.com/dmtavares/pdv-varejo/internal/adapter/repository"
	paymentdomain "github.com/dmtavares/pdv-varejo/internal/domain/payment"
	saledomain "github.com/dmtavares/pdv-varejo/internal/domain/sale"
	"github.com/dmtavares/pdv-varejo/pkg/logger"
)

// PaymentController gerencia as requisições relacionadas a pagamentos
type PaymentController struct {
	paymentRepo paymentdomain.Repository
	saleRepo    saledomain.Repository
	gateway     paymentdomain.Gateway
	logger      logger.Logger
}

// NewPaymentController cria uma nova instância de PaymentController
func NewPaymentController(paymentRepo paymentdomain.Repository, saleRepo saledomain.Repository, gateway paymentdomain.Gateway, logger logger.Logger) *PaymentController {
	return &PaymentController{
		paymentRepo: paymentRepo,
		saleRepo:    saleRepo,
		gateway:     gateway,
		logger:      logger,
	}
}

// Cash registra um pagamento em dinheiro
// @Summary Pagamento em dinheiro
// @Description Registra um pagamento em dinheiro, confirmado de imediato
// @Tags payments
// @Accept json
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Param payment body dto.CashPaymentRequest true "Dados do pagamento"
// @Success 201 {object} dto.PaymentResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /payments/cash [post]
func (c *PaymentController) Cash(ctx *gin.Context) {
	var req dto.CashPaymentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "dados inválidos", err.Error()))
		return
	}

	if !c.saleExists(ctx, req.SaleID) {
		return
	}

	userID := ctx.GetString("user_id")

	p, err := paymentdomain.NewCashPayment(req.SaleID, userID, req.Amount)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "erro ao criar pagamento", err.Error()))
		return
	}

	if err := c.paymentRepo.Create(ctx, p); err != nil {
		c.logger.Error("Erro ao salvar pagamento em dinheiro", "error", err)
		ctx.JSON(http.StatusInternalServerError, dto.NewErrorResponse(http.StatusInternalServerError, "erro ao salvar pagamento", err.Error()))
		return
	}

	ctx.JSON(http.StatusCreated, dto.ToPaymentResponse(p))
}

// Card processa um pagamento com cartão tokenizado
// @Summary Pagamento com cartão
// @Description Processa um pagamento com cartão através do processador externo. Apenas o token do cartão trafega.
// @Tags payments
// @Accept json
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Param payment body dto.CardPaymentRequest true "Dados do pagamento"
// @Success 201 {object} dto.PaymentResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 502 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /payments/card [post]
func (c *PaymentController) Card(ctx *gin.Context) {
	var req dto.CardPaymentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "dados inválidos", err.Error()))
		return
	}

	if !c.saleExists(ctx, req.SaleID) {
		return
	}

	userID := ctx.GetString("user_id")

	p, err := paymentdomain.NewCardPayment(req.SaleID, userID, req.Amount, req.HolderName, req.HolderDocument, req.MethodID, req.Installments)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "erro ao criar pagamento", err.Error()))
		return
	}
	p.CorrelationID = p.ID

	result, err := c.gateway.CreateCardCharge(ctx, paymentdomain.CardCharge{
		Amount:       p.Amount,
		Token:        req.Token,
		Description:  "venda " + req.SaleID,
		Installments: p.Installments,
		MethodID:     p.MethodID,
		PayerEmail:   req.PayerEmail,
		PayerName:    p.HolderName,
		PayerDoc:     p.HolderDocument,
		Reference:    p.CorrelationID,
	})
	if err != nil {
		if errors.Is(err, paymentdomain.ErrGatewayUnavailable) {
			ctx.JSON(http.StatusBadGateway, dto.NewErrorResponse(http.StatusBadGateway, "processador de pagamentos indisponível", err.Error()))
			return
		}
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "pagamento recusado pelo processador", err.Error()))
		return
	}

	p.TransactionID = result.ID
	p.StatusDetail = result.StatusDetail

	if result.Approved() {
		if err := p.Confirm(time.Now()); err != nil && !errors.Is(err, paymentdomain.ErrAlreadyConfirmed) {
			c.logger.Error("Erro ao confirmar pagamento aprovado", "error", err)
		}
	}

	if err := c.paymentRepo.Create(ctx, p); err != nil {
		c.logger.Error("Erro ao salvar pagamento com cartão", "error", err, "transaction_id", p.TransactionID)
		ctx.JSON(http.StatusInternalServerError, dto.NewErrorResponse(http.StatusInternalServerError, "erro ao salvar pagamento", err.Error()))
		return
	}

	if result.Status == paymentdomain.GatewayStatusRejected {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "pagamento recusado", result.StatusDetail))
		return
	}

	ctx.JSON(http.StatusCreated, dto.ToPaymentResponse(p))
}

// Pix cria uma cobrança PIX
// @Summary Cobrança PIX
// @Description Cria uma cobrança PIX no processador externo, com validade de 30 minutos
// @Tags payments
// @Accept json
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Param payment body dto.PixPaymentRequest true "Dados da cobrança"
// @Success 201 {object} dto.PaymentResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 502 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /payments/pix [post]
func (c *PaymentController) Pix(ctx *gin.Context) {
	var req dto.PixPaymentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "dados inválidos", err.Error()))
		return
	}

	if !c.saleExists(ctx, req.SaleID) {
		return
	}

	userID := ctx.GetString("user_id")

	// Valida valor e documento antes de qualquer chamada ao processador
	p, err := paymentdomain.NewPixPayment(req.SaleID, userID, req.Amount, req.PayerName, req.PayerDocument)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "erro ao criar cobrança", err.Error()))
		return
	}
	p.CorrelationID = paymentdomain.NewCorrelationID(req.SaleID)

	result, err := c.gateway.CreatePixCharge(ctx, paymentdomain.PixCharge{
		Amount:      p.Amount,
		Description: "venda " + req.SaleID,
		PayerEmail:  paymentdomain.SynthesizePayerEmail(req.PayerEmail, p.PayerDocument, p.PayerName),
		PayerName:   p.PayerName,
		PayerDoc:    p.PayerDocument,
		Reference:   p.CorrelationID,
	})
	if err != nil {
		if errors.Is(err, paymentdomain.ErrGatewayUnavailable) {
			ctx.JSON(http.StatusBadGateway, dto.NewErrorResponse(http.StatusBadGateway, "processador de pagamentos indisponível", err.Error()))
			return
		}
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "cobrança recusada pelo processador", err.Error()))
		return
	}

	p.TransactionID = result.ID
	p.TxID = result.ID
	p.StatusDetail = result.StatusDetail
	p.QRCode = result.QRCode
	p.QRCodeBase64 = result.QRCodeBase64

	if err := c.paymentRepo.Create(ctx, p); err != nil {
		c.logger.Error("Erro ao salvar cobrança PIX", "error", err, "txid", p.TxID)
		ctx.JSON(http.StatusInternalServerError, dto.NewErrorResponse(http.StatusInternalServerError, "erro ao salvar cobrança", err.Error()))
		return
	}

	ctx.JSON(http.StatusCreated, dto.ToPaymentResponse(p))
}

// ConfirmPix verifica no processador e confirma uma cobrança PIX
// @Summary Confirmar cobrança PIX
// @Description Consulta o processador e confirma a cobrança PIX se o pagamento foi aprovado
// @Tags payments
// @Accept json
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Param confirm body dto.PixConfirmRequest true "TxID da cobrança"
// @Success 200 {object} dto.PaymentResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 502 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /payments/pix/confirm [post]
func (c *PaymentController) ConfirmPix(ctx *gin.Context) {
	var req dto.PixConfirmRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "dados inválidos", err.Error()))
		return
	}

	p, err := c.paymentRepo.FindByTransactionID(ctx, req.TxID)
	if err != nil {
		if errors.Is(err, repository.ErrPaymentNotFound) {
			ctx.JSON(http.StatusNotFound, dto.NewErrorResponse(http.StatusNotFound, "cobrança não encontrada", ""))
			return
		}
		c.logger.Error("Erro ao buscar cobrança PIX", "error", err, "txid", req.TxID)
		ctx.JSON(http.StatusInternalServerError, dto.NewErrorResponse(http.StatusInternalServerError, "erro ao buscar cobrança", err.Error()))
		return
	}

	// Confirmação repetida é idempotente
	if p.IsConfirmed() {
		ctx.JSON(http.StatusOK, dto.ToPaymentResponse(p))
		return
	}

	if p.IsExpired(time.Now()) {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "cobrança PIX expirada", ""))
		return
	}

	result, err := c.gateway.GetPayment(ctx, p.TransactionID)
	if err != nil {
		if errors.Is(err, paymentdomain.ErrGatewayUnavailable) {
			ctx.JSON(http.StatusBadGateway, dto.NewErrorResponse(http.StatusBadGateway, "processador de pagamentos indisponível", err.Error()))
			return
		}
		ctx.JSON(http.StatusInternalServerError, dto.NewErrorResponse(http.StatusInternalServerError, "erro ao consultar processador", err.Error()))
		return
	}

	if !result.Approved() {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "pagamento ainda não aprovado", result.Status))
		return
	}

	p.StatusDetail = result.StatusDetail
	if err := p.Confirm(time.Now()); err != nil && !errors.Is(err, paymentdomain.ErrAlreadyConfirmed) {
		ctx.JSON(http.StatusInternalServerError, dto.NewErrorResponse(http.StatusInternalServerError, "erro ao confirmar cobrança", err.Error()))
		return
	}

	if err := c.paymentRepo.Confirm(ctx, p); err != nil {
		c.logger.Error("Erro ao gravar confirmação de cobrança PIX", "error", err, "txid", p.TxID)
		ctx.JSON(http.StatusInternalServerError, dto.NewErrorResponse(http.StatusInternalServerError, "erro ao confirmar cobrança", err.Error()))
		return
	}

	ctx.JSON(http.StatusOK, dto.ToPaymentResponse(p))
}

// Webhook recebe as notificações do processador de pagamentos
// @Summary Webhook do processador
// @Description Recebe a notificação do processador e confirma o pagamento correspondente se aprovado
// @Tags payments
// @Accept json
// @Produce json
// @Param notification body dto.WebhookRequest true "Notificação do processador"
// @Success 200 {object} dto.SuccessResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /payments/webhook [post]
func (c *PaymentController) Webhook(ctx *gin.Context) {
	var req dto.WebhookRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "notificação inválida", err.Error()))
		return
	}

	// Apenas notificações de pagamento interessam; as demais são
	// reconhecidas para que o processador pare de reenviar
	if req.Type != "payment" || req.Data.ID == "" {
		ctx.JSON(http.StatusOK, dto.NewSuccessResponse("notificação ignorada", nil))
		return
	}

	result, err := c.gateway.GetPayment(ctx, req.Data.ID)
	if err != nil {
		c.logger.Error("Erro ao consultar processador após webhook", "error", err, "transaction_id", req.Data.ID)
		ctx.JSON(http.StatusInternalServerError, dto.NewErrorResponse(http.StatusInternalServerError, "erro ao consultar processador", err.Error()))
		return
	}

	p, err := c.paymentRepo.FindByTransactionID(ctx, req.Data.ID)
	if err != nil {
		if errors.Is(err, repository.ErrPaymentNotFound) && result.Reference != "" {
			// O processador pode notificar antes do registro local ter o ID
			// da transação; a referência externa resolve a correlação
			p, err = c.paymentRepo.FindByCorrelationID(ctx, result.Reference)
		}
		if err != nil {
			if errors.Is(err, repository.ErrPaymentNotFound) {
				c.logger.Warn("Webhook para pagamento desconhecido", "transaction_id", req.Data.ID)
				ctx.JSON(http.StatusOK, dto.NewSuccessResponse("pagamento não reconhecido", nil))
				return
			}
			c.logger.Error("Erro ao buscar pagamento do webhook", "error", err, "transaction_id", req.Data.ID)
			ctx.JSON(http.StatusInternalServerError, dto.NewErrorResponse(http.StatusInternalServerError, "erro ao buscar pagamento", err.Error()))
			return
		}
	}

	if p.IsConfirmed() || !result.Approved() {
		ctx.JSON(http.StatusOK, dto.NewSuccessResponse("notificação processada", nil))
		return
	}

	if p.TransactionID == "" {
		p.TransactionID = result.ID
	}
	p.StatusDetail = result.StatusDetail

	if err := p.Confirm(time.Now()); err != nil && !errors.Is(err, paymentdomain.ErrAlreadyConfirmed) {
		ctx.JSON(http.StatusInternalServerError, dto.NewErrorResponse(http.StatusInternalServerError, "erro ao confirmar pagamento", err.Error()))
		return
	}

	if err := c.paymentRepo.Confirm(ctx, p); err != nil {
		c.logger.Error("Erro ao gravar confirmação via webhook", "error", err, "transaction_id", p.TransactionID)
		ctx.JSON(http.StatusInternalServerError, dto.NewErrorResponse(http.StatusInternalServerError, "erro ao confirmar pagamento", err.Error()))
		return
	}

	c.logger.Info("Pagamento confirmado via webhook", "payment_id", p.ID, "transaction_id", p.TransactionID)
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse("pagamento confirmado", nil))
}

// FindByID busca um pagamento pelo ID
// @Summary Buscar pagamento
// @Description Busca um pagamento pelo ID interno
// @Tags payments
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Param id path string true "ID do pagamento"
// @Success 200 {object} dto.PaymentResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /payments/{id} [get]
func (c *PaymentController) FindByID(ctx *gin.Context) {
	id := ctx.Param("id")

	p, err := c.paymentRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrPaymentNotFound) {
			ctx.JSON(http.StatusNotFound, dto.NewErrorResponse(http.StatusNotFound, "pagamento não encontrado", ""))
			return
		}
		c.logger.Error("Erro ao buscar pagamento", "error", err, "payment_id", id)
		ctx.JSON(http.StatusInternalServerError, dto.NewErrorResponse(http.StatusInternalServerError, "erro ao buscar pagamento", err.Error()))
		return
	}

	ctx.JSON(http.StatusOK, dto.ToPaymentResponse(p))
}

// Status consulta o status armazenado de um pagamento. A consulta não
// dispara transição alguma: a confirmação só acontece pela operação de
// confirmação ou pelo webhook.
// @Summary Consultar status de pagamento
// @Description Retorna o status armazenado de um pagamento de cartão ou PIX, pelo ID interno ou do processador
// @Tags payments
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Param id query string true "ID do pagamento (interno ou do processador)"
// @Success 200 {object} dto.PaymentResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /payments/status [get]
func (c *PaymentController) Status(ctx *gin.Context) {
	id := ctx.Query("id")
	if id == "" {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "id não informado", "informe o parâmetro id"))
		return
	}

	p, err := c.paymentRepo.FindByID(ctx, id)
	if errors.Is(err, repository.ErrPaymentNotFound) {
		p, err = c.paymentRepo.FindByTransactionID(ctx, id)
	}
	if err != nil {
		if errors.Is(err, repository.ErrPaymentNotFound) {
			ctx.JSON(http.StatusNotFound, dto.NewErrorResponse(http.StatusNotFound, "pagamento não encontrado", ""))
			return
		}
		c.logger.Error("Erro ao consultar status de pagamento", "error", err, "payment_id", id)
		ctx.JSON(http.StatusInternalServerError, dto.NewErrorResponse(http.StatusInternalServerError, "erro ao consultar pagamento", err.Error()))
		return
	}

	ctx.JSON(http.StatusOK, dto.ToPaymentResponse(p))
}

// ListBySale lista os pagamentos de uma venda
// @Summary Listar pagamentos de uma venda
// @Description Lista os pagamentos registrados para uma venda
// @Tags payments
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Param saleId path string true "ID da venda"
// @Success 200 {object} dto.SuccessResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /payments/sale/{saleId} [get]
func (c *PaymentController) ListBySale(ctx *gin.Context) {
	saleID := ctx.Param("saleId")

	payments, err := c.paymentRepo.FindBySale(ctx, saleID)
	if err != nil {
		c.logger.Error("Erro ao listar pagamentos da venda", "error", err, "sale_id", saleID)
		ctx.JSON(http.StatusInternalServerError, dto.NewErrorResponse(http.StatusInternalServerError, "erro ao listar pagamentos", err.Error()))
		return
	}

	items := make([]dto.PaymentResponse, 0, len(payments))
	for _, p := range payments {
		items = append(items, dto.ToPaymentResponse(p))
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse("pagamentos da venda", items))
}

// saleExists verifica se a venda existe e não está cancelada, escrevendo a
// resposta de erro quando não for o caso
func (c *PaymentController) saleExists(ctx *gin.Context, saleID string) bool {
	s, err := c.saleRepo.FindByID(ctx, saleID)
	if err != nil {
		if errors.Is(err, repository.ErrSaleNotFound) {
			ctx.JSON(http.StatusNotFound, dto.NewErrorResponse(http.StatusNotFound, "venda não encontrada", ""))
			return false
		}
		c.logger.Error("Erro ao buscar venda do pagamento", "error", err, "sale_id", saleID)
		ctx.JSON(http.StatusInternalServerError, dto.NewErrorResponse(http.StatusInternalServerError, "erro ao buscar venda", err.Error()))
		return false
	}

	if s.IsCancelled() {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "venda cancelada", "não é possível registrar pagamento para venda cancelada"))
		return false
	}

	return true
}
