package dto

import (
	"time"

	"github.com/dmtavares/pdv-varejo/internal/domain/product"
	"github.com/dmtavares/pdv-varejo/internal/domain/stock"
)

// ProductRequest representa a requisição de produto
type ProductRequest struct {
	Name        string  `json:"name" binding:"required"`
	Code        string  `json:"code" binding:"required"`
	Barcode     string  `json:"barcode"`
	Description string  `json:"description"`
	CategoryID  string  `json:"category_id"`
	SupplierID  string  `json:"supplier_id"`
	CostPrice   float64 `json:"cost_price"`
	SalePrice   float64 `json:"sale_price" binding:"required"`
	Stock       int     `json:"stock"`
	MinStock    int     `json:"min_stock"`
	MaxStock    int     `json:"max_stock"`
	Unit        string  `json:"unit"`
}

// ProductResponse representa a resposta de produto
type ProductResponse struct {
	ID          string         `json:"id"`
	BranchID    string         `json:"branch_id"`
	Name        string         `json:"name"`
	Code        string         `json:"code"`
	Barcode     string         `json:"barcode"`
	Description string         `json:"description"`
	CategoryID  string         `json:"category_id"`
	SupplierID  string         `json:"supplier_id"`
	CostPrice   float64        `json:"cost_price"`
	SalePrice   float64        `json:"sale_price"`
	Stock       int            `json:"stock"`
	MinStock    int            `json:"min_stock"`
	MaxStock    int            `json:"max_stock"`
	Unit        string         `json:"unit"`
	Status      product.Status `json:"status"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

// ProductListResponse representa a resposta de lista de produtos
type ProductListResponse struct {
	Items      []ProductResponse `json:"items"`
	Total      int               `json:"total"`
	Page       int               `json:"page"`
	Size       int               `json:"size"`
	TotalPages int               `json:"total_pages"`
}

// StockMovementRequest representa a requisição de movimentação de estoque.
// A quantidade zero é aceita no ajuste, onde representa o estoque absoluto
// resultante.
type StockMovementRequest struct {
	Type      stock.MovementType `json:"type" binding:"required"`
	Quantity  int                `json:"quantity" binding:"gte=0"`
	Reason    string             `json:"reason" binding:"required"`
	Reference string             `json:"reference"`
}

// StockMovementResponse representa a resposta de movimentação de estoque
type StockMovementResponse struct {
	ID        string             `json:"id"`
	ProductID string             `json:"product_id"`
	BranchID  string             `json:"branch_id"`
	Type      stock.MovementType `json:"type"`
	Quantity  int                `json:"quantity"`
	PrevStock int                `json:"prev_stock"`
	NewStock  int                `json:"new_stock"`
	Reason    string             `json:"reason"`
	Reference string             `json:"reference"`
	UserID    string             `json:"user_id"`
	CreatedAt time.Time          `json:"created_at"`
}

// StockMovementListResponse representa a resposta de lista de movimentações
type StockMovementListResponse struct {
	Items []StockMovementResponse `json:"items"`
	Page  int                     `json:"page"`
	Size  int                     `json:"size"`
}

// ToProductResponse converte um produto de domínio para DTO de resposta
func ToProductResponse(p *product.Product) ProductResponse {
	return ProductResponse{
		ID:          p.ID,
		BranchID:    p.BranchID,
		Name:        p.Name,
		Code:        p.Code,
		Barcode:     p.Barcode,
		Description: p.Description,
		CategoryID:  p.CategoryID,
		SupplierID:  p.SupplierID,
		CostPrice:   p.CostPrice,
		SalePrice:   p.SalePrice,
		Stock:       p.Stock,
		MinStock:    p.MinStock,
		MaxStock:    p.MaxStock,
		Unit:        p.Unit,
		Status:      p.Status,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

// ToProductListResponse converte uma lista de produtos para DTO de resposta
func ToProductListResponse(products []*product.Product, total, page, pageSize int) ProductListResponse {
	items := make([]ProductResponse, 0, len(products))
	for _, p := range products {
		items = append(items, ToProductResponse(p))
	}

	return ProductListResponse{
		Items:      items,
		Total:      total,
		Page:       page,
		Size:       pageSize,
		TotalPages: calculateTotalPages(total, pageSize),
	}
}

// ToStockMovementResponse converte uma movimentação de domínio para DTO de resposta
func ToStockMovementResponse(m *stock.Movement) StockMovementResponse {
	return StockMovementResponse{
		ID:        m.ID,
		ProductID: m.ProductID,
		BranchID:  m.BranchID,
		Type:      m.Type,
		Quantity:  m.Quantity,
		PrevStock: m.PrevStock,
		NewStock:  m.NewStock,
		Reason:    m.Reason,
		Reference: m.Reference,
		UserID:    m.UserID,
		CreatedAt: m.CreatedAt,
	}
}

// ToStockMovementListResponse converte uma lista de movimentações para DTO de resposta
func ToStockMovementListResponse(movements []*stock.Movement, page, pageSize int) StockMovementListResponse {
	items := make([]StockMovementResponse, 0, len(movements))
	for _, m := range movements {
		items = append(items, ToStockMovementResponse(m))
	}

	return StockMovementListResponse{
		Items: items,
		Page:  page,
		Size:  pageSize,
	}
}
