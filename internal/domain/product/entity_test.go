package product

import (
	"errors"
	"testing"
)

func TestNewProductValidation(t *testing.T) {
	if _, err := NewProduct("b1", "", "001", 10); !errors.Is(err, ErrEmptyName) {
		t.Errorf("sem nome: err = %v, esperado ErrEmptyName", err)
	}

	if _, err := NewProduct("b1", "Arroz 5kg", "", 10); !errors.Is(err, ErrEmptyCode) {
		t.Errorf("sem código: err = %v, esperado ErrEmptyCode", err)
	}

	if _, err := NewProduct("b1", "Arroz 5kg", "001", 0); !errors.Is(err, ErrInvalidPrice) {
		t.Errorf("preço zero: err = %v, esperado ErrInvalidPrice", err)
	}
}

func TestHasStock(t *testing.T) {
	p, err := NewProduct("b1", "Arroz 5kg", "001", 25.90)
	if err != nil {
		t.Fatalf("NewProduct: %v", err)
	}

	p.Stock = 5
	if !p.HasStock(5) {
		t.Error("deveria haver estoque para quantidade igual ao disponível")
	}
	if p.HasStock(6) {
		t.Error("não deveria haver estoque para quantidade acima do disponível")
	}
}

func TestIsBelowMinStock(t *testing.T) {
	p, _ := NewProduct("b1", "Feijão 1kg", "002", 8.50)
	p.Stock = 2
	p.MinStock = 5

	if !p.IsBelowMinStock() {
		t.Error("estoque abaixo do mínimo deveria ser sinalizado")
	}

	p.Stock = 5
	if p.IsBelowMinStock() {
		t.Error("estoque igual ao mínimo não deveria ser sinalizado")
	}
}
