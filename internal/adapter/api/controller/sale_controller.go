package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/dmtavares/pdv-varejo/internal/adapter/api/dto"
	"github.com/dmtavares/pdv-varejo/internal/adapter/repository"
	customerdomain "github.com/dmtavares/pdv-varejo/internal/domain/customer"
	saledomain "github.com/dmtavares/pdv-varejo/internal/domain/sale"
	"github.com/dmtavares/pdv-varejo/pkg/logger"
)

// SaleController gerencia as requisições relacionadas a vendas
type SaleController struct {
	saleRepo     saledomain.Repository
	customerRepo customerdomain.Repository
	logger       logger.Logger
}

// NewSaleController cria uma nova instância de SaleController
func NewSaleController(saleRepo saledomain.Repository, customerRepo customerdomain.Repository, logger logger.Logger) *SaleController {
	return &SaleController{
		saleRepo:     saleRepo,
		customerRepo: customerRepo,
		logger:       logger,
	}
}

// Create registra uma nova venda
// @Summary Registrar venda
// @Description Registra uma venda com seus itens, baixando o estoque de cada produto em uma única transação
// @Tags sales
// @Accept json
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Param sale body dto.SaleRequest true "Dados da venda"
// @Success 201 {object} dto.SaleResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /sales [post]
func (c *SaleController) Create(ctx *gin.Context) {
	var req dto.SaleRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "dados inválidos", err.Error()))
		return
	}

	branchID := ctx.GetString("branch_id")
	userID := ctx.GetString("user_id")

	items := make([]saledomain.Item, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, saledomain.Item{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			Discount:  item.Discount,
		})
	}

	s, err := saledomain.NewSale(branchID, userID, items, req.PaymentMethod, req.Discount)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "erro ao criar venda", err.Error()))
		return
	}

	// O CPF só entra na venda quando o cliente pede a inclusão na nota
	if req.IncludeCPF {
		cpf, err := saledomain.NormalizeCPF(req.CPF)
		if err != nil {
			ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "CPF inválido", err.Error()))
			return
		}
		s.CPF = cpf
	}

	s.CustomerName = req.CustomerName

	if req.CustomerID != "" {
		if _, err := c.customerRepo.FindByID(ctx, req.CustomerID); err != nil {
			if errors.Is(err, repository.ErrCustomerNotFound) {
				ctx.JSON(http.StatusNotFound, dto.NewErrorResponse(http.StatusNotFound, "cliente não encontrado", ""))
				return
			}
			c.logger.Error("Erro ao buscar cliente da venda", "error", err, "customer_id", req.CustomerID)
			ctx.JSON(http.StatusInternalServerError, dto.NewErrorResponse(http.StatusInternalServerError, "erro ao buscar cliente", err.Error()))
			return
		}
		s.CustomerID = req.CustomerID
	}

	if err := c.saleRepo.Create(ctx, s); err != nil {
		switch {
		case errors.Is(err, repository.ErrProductNotFound):
			ctx.JSON(http.StatusNotFound, dto.NewErrorResponse(http.StatusNotFound, "produto não encontrado", err.Error()))
		case errors.Is(err, repository.ErrInsufficientStock):
			ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "estoque insuficiente", err.Error()))
		default:
			c.logger.Error("Erro ao registrar venda", "error", err)
			ctx.JSON(http.StatusInternalServerError, dto.NewErrorResponse(http.StatusInternalServerError, "erro ao registrar venda", err.Error()))
		}
		return
	}

	if s.CustomerID != "" {
		if err := c.customerRepo.UpdateLastPurchase(ctx, s.CustomerID); err != nil {
			c.logger.Warn("Erro ao atualizar última compra do cliente", "error", err, "customer_id", s.CustomerID)
		}
	}

	ctx.JSON(http.StatusCreated, dto.ToSaleResponse(s))
}

// FindByID busca uma venda pelo ID
// @Summary Buscar venda
// @Description Busca uma venda pelo ID, incluindo seus itens
// @Tags sales
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Param id path string true "ID da venda"
// @Success 200 {object} dto.SaleResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /sales/{id} [get]
func (c *SaleController) FindByID(ctx *gin.Context) {
	id := ctx.Param("id")

	s, err := c.saleRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrSaleNotFound) {
			ctx.JSON(http.StatusNotFound, dto.NewErrorResponse(http.StatusNotFound, "venda não encontrada", ""))
			return
		}
		c.logger.Error("Erro ao buscar venda", "error", err, "sale_id", id)
		ctx.JSON(http.StatusInternalServerError, dto.NewErrorResponse(http.StatusInternalServerError, "erro ao buscar venda", err.Error()))
		return
	}

	ctx.JSON(http.StatusOK, dto.ToSaleResponse(s))
}

// List lista as vendas da filial
// @Summary Listar vendas
// @Description Lista as vendas mais recentes da filial com paginação; aceita filtro por cliente
// @Tags sales
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Param page query int false "Página"
// @Param page_size query int false "Tamanho da página"
// @Param customer_id query string false "Filtro por cliente"
// @Success 200 {object} dto.SaleListResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /sales [get]
func (c *SaleController) List(ctx *gin.Context) {
	branchID := ctx.GetString("branch_id")

	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(ctx.DefaultQuery("page_size", "10"))
	pagination := dto.GetPagination(page, pageSize)

	var (
		sales []*saledomain.Sale
		err   error
	)

	if customerID := ctx.Query("customer_id"); customerID != "" {
		sales, err = c.saleRepo.ListByCustomer(ctx, customerID, pagination.PageSize, pagination.Offset())
	} else {
		sales, err = c.saleRepo.List(ctx, branchID, pagination.PageSize, pagination.Offset())
	}
	if err != nil {
		c.logger.Error("Erro ao listar vendas", "error", err)
		ctx.JSON(http.StatusInternalServerError, dto.NewErrorResponse(http.StatusInternalServerError, "erro ao listar vendas", err.Error()))
		return
	}

	total, err := c.saleRepo.CountByBranch(ctx, branchID)
	if err != nil {
		c.logger.Error("Erro ao contar vendas", "error", err)
		ctx.JSON(http.StatusInternalServerError, dto.NewErrorResponse(http.StatusInternalServerError, "erro ao listar vendas", err.Error()))
		return
	}

	ctx.JSON(http.StatusOK, dto.ToSaleListResponse(sales, total, pagination.Page, pagination.PageSize))
}

// UpdateStatus aplica uma transição de status à venda. A única transição
// permitida é concluida → cancelada, que repõe o estoque de cada item em
// uma única transação.
// @Summary Atualizar status da venda
// @Description Aplica uma transição de status à venda; cancelar repõe o estoque de cada item
// @Tags sales
// @Accept json
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Param id path string true "ID da venda"
// @Param status body dto.SaleStatusRequest true "Novo status"
// @Success 200 {object} dto.SaleResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /sales/{id} [put]
func (c *SaleController) UpdateStatus(ctx *gin.Context) {
	var req dto.SaleStatusRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "dados inválidos", err.Error()))
		return
	}

	if saledomain.Status(req.Status) != saledomain.StatusCancelled {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "transição de status inválida", saledomain.ErrInvalidTransition.Error()))
		return
	}

	id := ctx.Param("id")
	userID := ctx.GetString("user_id")

	s, err := c.saleRepo.Cancel(ctx, id, userID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrSaleNotFound):
			ctx.JSON(http.StatusNotFound, dto.NewErrorResponse(http.StatusNotFound, "venda não encontrada", ""))
		case errors.Is(err, saledomain.ErrAlreadyCancelled):
			ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "venda já cancelada", err.Error()))
		default:
			c.logger.Error("Erro ao cancelar venda", "error", err, "sale_id", id)
			ctx.JSON(http.StatusInternalServerError, dto.NewErrorResponse(http.StatusInternalServerError, "erro ao cancelar venda", err.Error()))
		}
		return
	}

	ctx.JSON(http.StatusOK, dto.ToSaleResponse(s))
}
