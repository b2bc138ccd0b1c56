package dto

import (
	"time"

	"github.com/dmtavares/pdv-varejo/internal/domain/customer"
)

// CustomerAddressRequest representa a requisição de endereço do cliente
type CustomerAddressRequest struct {
	Street     string `json:"street"`
	Number     string `json:"number"`
	Complement string `json:"complement"`
	District   string `json:"district"`
	City       string `json:"city"`
	State      string `json:"state"`
	ZipCode    string `json:"zip_code"`
}

// CustomerRequest representa a requisição de cliente
type CustomerRequest struct {
	PersonType   customer.PersonType    `json:"person_type" binding:"required"`
	Name         string                 `json:"name" binding:"required"`
	Document     string                 `json:"document" binding:"required"`
	Email        string                 `json:"email"`
	Phone        string                 `json:"phone"`
	Address      CustomerAddressRequest `json:"address"`
	CreditLimit  float64                `json:"credit_limit"`
	Observations string                 `json:"observations"`
}

// CustomerResponse representa a resposta de cliente
type CustomerResponse struct {
	ID             string              `json:"id"`
	BranchID       string              `json:"branch_id"`
	PersonType     customer.PersonType `json:"person_type"`
	Name           string              `json:"name"`
	Document       string              `json:"document"`
	Email          string              `json:"email"`
	Phone          string              `json:"phone"`
	Address        customer.Address    `json:"address"`
	Status         customer.Status     `json:"status"`
	CreditLimit    float64             `json:"credit_limit"`
	Observations   string              `json:"observations"`
	LastPurchaseAt *time.Time          `json:"last_purchase_at,omitempty"`
	CreatedAt      time.Time           `json:"created_at"`
	UpdatedAt      time.Time           `json:"updated_at"`
}

// CustomerListResponse representa a resposta de lista de clientes
type CustomerListResponse struct {
	Items      []CustomerResponse `json:"items"`
	Total      int                `json:"total"`
	Page       int                `json:"page"`
	Size       int                `json:"size"`
	TotalPages int                `json:"total_pages"`
}

// ToCustomerResponse converte um cliente de domínio para DTO de resposta
func ToCustomerResponse(c *customer.Customer) CustomerResponse {
	return CustomerResponse{
		ID:             c.ID,
		BranchID:       c.BranchID,
		PersonType:     c.PersonType,
		Name:           c.Name,
		Document:       c.Document,
		Email:          c.Email,
		Phone:          c.Phone,
		Address:        c.Address,
		Status:         c.Status,
		CreditLimit:    c.CreditLimit,
		Observations:   c.Observations,
		LastPurchaseAt: c.LastPurchaseAt,
		CreatedAt:      c.CreatedAt,
		UpdatedAt:      c.UpdatedAt,
	}
}

// ToCustomerListResponse converte uma lista de clientes para DTO de resposta
func ToCustomerListResponse(customers []*customer.Customer, total, page, pageSize int) CustomerListResponse {
	items := make([]CustomerResponse, 0, len(customers))
	for _, c := range customers {
		items = append(items, ToCustomerResponse(c))
	}

	return CustomerListResponse{
		Items:      items,
		Total:      total,
		Page:       page,
		Size:       pageSize,
		TotalPages: calculateTotalPages(total, pageSize),
	}
}
