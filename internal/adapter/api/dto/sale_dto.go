package dto

import (
	"time"

	"github.com/dmtavares/pdv-varejo/internal/domain/sale"
)

// SaleItemRequest representa um item do carrinho na requisição de venda
type SaleItemRequest struct {
	ProductID string  `json:"product_id" binding:"required"`
	Quantity  int     `json:"quantity" binding:"required"`
	UnitPrice float64 `json:"unit_price"`
	Discount  float64 `json:"discount"`
}

// SaleRequest representa a requisição de venda. O CPF só é considerado
// quando o cliente pede a inclusão na nota (include_cpf).
type SaleRequest struct {
	CustomerID    string             `json:"customer_id"`
	CustomerName  string             `json:"customer_name"`
	CPF           string             `json:"cpf"`
	IncludeCPF    bool               `json:"include_cpf"`
	Items         []SaleItemRequest  `json:"items" binding:"required"`
	PaymentMethod sale.PaymentMethod `json:"payment_method" binding:"required"`
	Discount      float64            `json:"discount"`
}

// SaleStatusRequest representa a requisição de transição de status da venda
type SaleStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// SaleItemResponse representa um item da venda na resposta
type SaleItemResponse struct {
	ID          string  `json:"id"`
	ProductID   string  `json:"product_id"`
	ProductName string  `json:"product_name"`
	ProductCode string  `json:"product_code"`
	Barcode     string  `json:"barcode"`
	Quantity    int     `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
	Discount    float64 `json:"discount"`
	Total       float64 `json:"total"`
}

// SaleResponse representa a resposta de venda
type SaleResponse struct {
	ID            string             `json:"id"`
	Number        int64              `json:"number"`
	BranchID      string             `json:"branch_id"`
	CustomerID    string             `json:"customer_id,omitempty"`
	CustomerName  string             `json:"customer_name,omitempty"`
	CPF           string             `json:"cpf,omitempty"`
	UserID        string             `json:"user_id"`
	Subtotal      float64            `json:"subtotal"`
	Discount      float64            `json:"discount"`
	Total         float64            `json:"total"`
	PaymentMethod sale.PaymentMethod `json:"payment_method"`
	Status        sale.Status        `json:"status"`
	CreatedAt     time.Time          `json:"created_at"`
	Items         []SaleItemResponse `json:"items"`
}

// SaleListResponse representa a resposta de lista de vendas
type SaleListResponse struct {
	Items      []SaleResponse `json:"items"`
	Total      int            `json:"total"`
	Page       int            `json:"page"`
	Size       int            `json:"size"`
	TotalPages int            `json:"total_pages"`
}

// ToSaleResponse converte uma venda de domínio para DTO de resposta
func ToSaleResponse(s *sale.Sale) SaleResponse {
	items := make([]SaleItemResponse, 0, len(s.Items))
	for _, item := range s.Items {
		items = append(items, SaleItemResponse{
			ID:          item.ID,
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			ProductCode: item.ProductCode,
			Barcode:     item.Barcode,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			Discount:    item.Discount,
			Total:       item.Total,
		})
	}

	return SaleResponse{
		ID:            s.ID,
		Number:        s.Number,
		BranchID:      s.BranchID,
		CustomerID:    s.CustomerID,
		CustomerName:  s.CustomerName,
		CPF:           s.CPF,
		UserID:        s.UserID,
		Subtotal:      s.Subtotal,
		Discount:      s.Discount,
		Total:         s.Total,
		PaymentMethod: s.PaymentMethod,
		Status:        s.Status,
		CreatedAt:     s.CreatedAt,
		Items:         items,
	}
}

// ToSaleListResponse converte uma lista de vendas para DTO de resposta
func ToSaleListResponse(sales []*sale.Sale, total, page, pageSize int) SaleListResponse {
	items := make([]SaleResponse, 0, len(sales))
	for _, s := range sales {
		items = append(items, ToSaleResponse(s))
	}

	return SaleListResponse{
		Items:      items,
		Total:      total,
		Page:       page,
		Size:       pageSize,
		TotalPages: calculateTotalPages(total, pageSize),
	}
}
