package product

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrEmptyName       = errors.New("nome não pode ser vazio")
	ErrEmptyCode       = errors.New("código não pode ser vazio")
	ErrInvalidPrice    = errors.New("preço de venda deve ser maior que zero")
	ErrInvalidStock    = errors.New("quantidade em estoque não pode ser negativa")
	ErrProductInactive = errors.New("produto inativo")
)

// Status representa o estado do produto
type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

// Product representa um produto do catálogo
type Product struct {
	ID          string    `json:"id"`               // ID do Produto
	BranchID    string    `json:"branch_id"`        // ID da Filial
	Name        string    `json:"name"`             // Nome do Produto
	Code        string    `json:"code"`             // Código Interno
	Barcode     string    `json:"barcode"`          // Código de Barras (EAN)
	Description string    `json:"description"`      // Descrição
	CategoryID  string    `json:"category_id"`      // ID da Categoria
	SupplierID  string    `json:"supplier_id"`      // ID do Fornecedor
	CostPrice   float64   `json:"cost_price"`       // Preço de Custo
	SalePrice   float64   `json:"sale_price"`       // Preço de Venda
	Stock       int       `json:"stock"`            // Quantidade em Estoque
	MinStock    int       `json:"min_stock"`        // Estoque Mínimo
	MaxStock    int       `json:"max_stock"`        // Estoque Máximo
	Unit        string    `json:"unit"`             // Unidade de Medida (UN, KG, L)
	Status      Status    `json:"status"`           // Status do Produto
	CreatedAt   time.Time `json:"created_at"`       // Data de Criação
	UpdatedAt   time.Time `json:"updated_at"`       // Data de Atualização
}

// NewProduct cria um novo produto
func NewProduct(branchID, name, code string, salePrice float64) (*Product, error) {
	if name == "" {
		return nil, ErrEmptyName
	}

	if code == "" {
		return nil, ErrEmptyCode
	}

	if salePrice <= 0 {
		return nil, ErrInvalidPrice
	}

	now := time.Now()
	return &Product{
		ID:        uuid.New().String(),
		BranchID:  branchID,
		Name:      name,
		Code:      code,
		SalePrice: salePrice,
		Unit:      "UN",
		Status:    StatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// IsActive verifica se o produto está ativo
func (p *Product) IsActive() bool {
	return p.Status == StatusActive
}

// Activate ativa o produto
func (p *Product) Activate() {
	p.Status = StatusActive
	p.UpdatedAt = time.Now()
}

// Deactivate desativa o produto
func (p *Product) Deactivate() {
	p.Status = StatusInactive
	p.UpdatedAt = time.Now()
}

// HasStock verifica se há estoque disponível para a quantidade solicitada
func (p *Product) HasStock(quantity int) bool {
	return p.Stock >= quantity
}

// IsBelowMinStock verifica se o estoque está abaixo do mínimo configurado
func (p *Product) IsBelowMinStock() bool {
	return p.Stock < p.MinStock
}

// Update atualiza os dados do produto
func (p *Product) Update(
	name string,
	barcode string,
	description string,
	categoryID string,
	supplierID string,
	costPrice float64,
	salePrice float64,
	minStock int,
	maxStock int,
	unit string,
) error {
	if name == "" {
		return ErrEmptyName
	}

	if salePrice <= 0 {
		return ErrInvalidPrice
	}

	p.Name = name
	p.Barcode = barcode
	p.Description = description
	p.CategoryID = categoryID
	p.SupplierID = supplierID
	p.CostPrice = costPrice
	p.SalePrice = salePrice
	p.MinStock = minStock
	p.MaxStock = maxStock
	if unit != "" {
		p.Unit = unit
	}
	p.UpdatedAt = time.Now()

	return nil
}
