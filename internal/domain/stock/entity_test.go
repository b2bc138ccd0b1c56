package stock

import (
	"errors"
	"testing"
)

func TestNewMovementValidation(t *testing.T) {
	if _, err := NewMovement("", "b1", TypeIn, 1, "compra", "", "u1"); !errors.Is(err, ErrEmptyProduct) {
		t.Errorf("sem produto: err = %v, esperado ErrEmptyProduct", err)
	}

	if _, err := NewMovement("p1", "b1", TypeIn, 0, "compra", "", "u1"); !errors.Is(err, ErrInvalidQuantity) {
		t.Errorf("quantidade zero: err = %v, esperado ErrInvalidQuantity", err)
	}

	if _, err := NewMovement("p1", "b1", "TRANSFER", 1, "", "", "u1"); !errors.Is(err, ErrInvalidType) {
		t.Errorf("tipo desconhecido: err = %v, esperado ErrInvalidType", err)
	}
}

func TestNewMovementAdjustmentToZero(t *testing.T) {
	// Baixa total: no ajuste a quantidade é o estoque absoluto resultante
	adj, err := NewMovement("p1", "b1", TypeAdjustment, 0, "inventário", "", "u1")
	if err != nil {
		t.Fatalf("ajuste para zero: err = %v", err)
	}
	if adj.Quantity != 0 {
		t.Errorf("quantidade = %d, esperado 0", adj.Quantity)
	}

	if _, err := NewMovement("p1", "b1", TypeAdjustment, -1, "inventário", "", "u1"); !errors.Is(err, ErrInvalidQuantity) {
		t.Errorf("ajuste negativo: err = %v, esperado ErrInvalidQuantity", err)
	}
}

func TestMovementDelta(t *testing.T) {
	in, _ := NewMovement("p1", "b1", TypeIn, 3, "compra", "", "u1")
	if in.Delta() != 3 {
		t.Errorf("delta IN = %d, esperado 3", in.Delta())
	}

	out, _ := NewMovement("p1", "b1", TypeOut, 2, ReasonSale, "", "u1")
	if out.Delta() != -2 {
		t.Errorf("delta OUT = %d, esperado -2", out.Delta())
	}

	adj, _ := NewMovement("p1", "b1", TypeAdjustment, 10, "inventário", "", "u1")
	if adj.Delta() != 0 {
		t.Errorf("delta ADJUSTMENT = %d, esperado 0 (absoluto)", adj.Delta())
	}
}
