package customer

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrEmptyName     = errors.New("nome não pode ser vazio")
	ErrEmptyDocument = errors.New("documento não pode ser vazio")
)

// PersonType define o tipo de pessoa (física ou jurídica)
type PersonType string

const (
	PersonTypePF PersonType = "PF" // Pessoa Física
	PersonTypePJ PersonType = "PJ" // Pessoa Jurídica
)

// Status representa o estado do cliente
type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
	StatusBlocked  Status = "blocked"
)

// Address representa o endereço do cliente
type Address struct {
	Street     string `json:"street"`     // Logradouro
	Number     string `json:"number"`     // Número
	Complement string `json:"complement"` // Complemento
	District   string `json:"district"`   // Bairro
	City       string `json:"city"`       // Cidade
	State      string `json:"state"`      // Estado
	ZipCode    string `json:"zip_code"`   // CEP
}

// Customer representa um cliente no sistema
type Customer struct {
	ID             string     `json:"id"`               // ID do Cliente
	BranchID       string     `json:"branch_id"`        // ID da Filial
	PersonType     PersonType `json:"person_type"`      // Tipo de Pessoa (PF/PJ)
	Name           string     `json:"name"`             // Nome/Razão Social
	Document       string     `json:"document"`         // CPF/CNPJ
	Email          string     `json:"email"`            // Email
	Phone          string     `json:"phone"`            // Telefone
	Address        Address    `json:"address"`          // Endereço
	Status         Status     `json:"status"`           // Status do Cliente
	CreditLimit    float64    `json:"credit_limit"`     // Limite de Crédito
	Observations   string     `json:"observations"`     // Observações
	LastPurchaseAt *time.Time `json:"last_purchase_at"` // Data da Última Compra
	CreatedAt      time.Time  `json:"created_at"`       // Data de Criação
	UpdatedAt      time.Time  `json:"updated_at"`       // Data de Atualização
}

// NewCustomer cria um novo cliente
func NewCustomer(branchID string, personType PersonType, name, document string) (*Customer, error) {
	if name == "" {
		return nil, ErrEmptyName
	}

	if document == "" {
		return nil, ErrEmptyDocument
	}

	now := time.Now()
	return &Customer{
		ID:         uuid.New().String(),
		BranchID:   branchID,
		PersonType: personType,
		Name:       name,
		Document:   document,
		Status:     StatusActive,
		CreatedAt:  now,
		UpdatedAt:  now,
	}, nil
}

// IsActive verifica se o cliente está ativo
func (c *Customer) IsActive() bool {
	return c.Status == StatusActive
}

// Activate ativa o cliente
func (c *Customer) Activate() {
	c.Status = StatusActive
	c.UpdatedAt = time.Now()
}

// Deactivate desativa o cliente
func (c *Customer) Deactivate() {
	c.Status = StatusInactive
	c.UpdatedAt = time.Now()
}

// Block bloqueia o cliente
func (c *Customer) Block() {
	c.Status = StatusBlocked
	c.UpdatedAt = time.Now()
}

// Update atualiza os dados do cliente
func (c *Customer) Update(name, email, phone string, address Address, creditLimit float64, observations string) error {
	if name == "" {
		return ErrEmptyName
	}

	c.Name = name
	c.Email = email
	c.Phone = phone
	c.Address = address
	c.CreditLimit = creditLimit
	c.Observations = observations
	c.UpdatedAt = time.Now()

	return nil
}

// UpdateLastPurchase atualiza a data da última compra
func (c *Customer) UpdateLastPurchase() {
	now := time.Now()
	c.LastPurchaseAt = &now
	c.UpdatedAt = now
}
