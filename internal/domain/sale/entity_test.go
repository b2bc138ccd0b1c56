package sale

import (
	"errors"
	"math"
	"testing"
)

func cartItem(productID string, qty int, unitPrice float64) Item {
	return Item{
		ProductID:   productID,
		ProductName: "Produto " + productID,
		ProductCode: "C-" + productID,
		Quantity:    qty,
		UnitPrice:   unitPrice,
	}
}

func TestNewSaleComputesTotals(t *testing.T) {
	items := []Item{
		cartItem("p1", 2, 10.00),
		cartItem("p2", 1, 5.50),
	}

	s, err := NewSale("b1", "u1", items, PaymentCash, 2.50)
	if err != nil {
		t.Fatalf("NewSale: %v", err)
	}

	if math.Abs(s.Subtotal-25.50) > 1e-9 {
		t.Errorf("subtotal = %.2f, esperado 25.50", s.Subtotal)
	}
	if math.Abs(s.Total-(s.Subtotal-s.Discount)) > 1e-9 {
		t.Errorf("total = %.2f, esperado subtotal - desconto = %.2f", s.Total, s.Subtotal-s.Discount)
	}

	sum := 0.0
	for _, it := range s.Items {
		sum += it.Total
	}
	if math.Abs(s.Subtotal-sum) > 1e-9 {
		t.Errorf("subtotal = %.2f difere da soma dos itens %.2f", s.Subtotal, sum)
	}
}

func TestNewSaleExampleScenario(t *testing.T) {
	// Carrinho com 2 unidades a 10.00 e sem desconto
	s, err := NewSale("b1", "u1", []Item{cartItem("p1", 2, 10.00)}, PaymentPix, 0)
	if err != nil {
		t.Fatalf("NewSale: %v", err)
	}

	if s.Subtotal != 20.00 || s.Total != 20.00 {
		t.Errorf("subtotal/total = %.2f/%.2f, esperado 20.00/20.00", s.Subtotal, s.Total)
	}
	if s.Status != StatusCompleted {
		t.Errorf("status = %s, esperado %s", s.Status, StatusCompleted)
	}
}

func TestNewSaleRejectsEmptyCart(t *testing.T) {
	if _, err := NewSale("b1", "u1", nil, PaymentCash, 0); !errors.Is(err, ErrEmptyItems) {
		t.Errorf("err = %v, esperado ErrEmptyItems", err)
	}
}

func TestNewSaleRejectsInvalidPaymentMethod(t *testing.T) {
	items := []Item{cartItem("p1", 1, 1.00)}
	if _, err := NewSale("b1", "u1", items, "cheque", 0); !errors.Is(err, ErrInvalidPaymentMethod) {
		t.Errorf("err = %v, esperado ErrInvalidPaymentMethod", err)
	}
}

func TestNewSaleRejectsInvalidQuantityAndPrice(t *testing.T) {
	if _, err := NewSale("b1", "u1", []Item{cartItem("p1", 0, 1.00)}, PaymentCash, 0); !errors.Is(err, ErrInvalidQuantity) {
		t.Errorf("err = %v, esperado ErrInvalidQuantity", err)
	}

	if _, err := NewSale("b1", "u1", []Item{cartItem("p1", 1, 0)}, PaymentCash, 0); !errors.Is(err, ErrInvalidUnitPrice) {
		t.Errorf("err = %v, esperado ErrInvalidUnitPrice", err)
	}
}

func TestNewSaleRejectsInvalidDiscount(t *testing.T) {
	items := []Item{cartItem("p1", 1, 10.00)}

	if _, err := NewSale("b1", "u1", items, PaymentCash, -1); !errors.Is(err, ErrInvalidDiscount) {
		t.Errorf("desconto negativo: err = %v, esperado ErrInvalidDiscount", err)
	}

	items = []Item{cartItem("p1", 1, 10.00)}
	if _, err := NewSale("b1", "u1", items, PaymentCash, 10.01); !errors.Is(err, ErrInvalidDiscount) {
		t.Errorf("desconto maior que subtotal: err = %v, esperado ErrInvalidDiscount", err)
	}
}

func TestNormalizeCPF(t *testing.T) {
	got, err := NormalizeCPF("529.982.247-25")
	if err != nil {
		t.Fatalf("NormalizeCPF: %v", err)
	}
	if got != "52998224725" {
		t.Errorf("cpf = %s, esperado 52998224725", got)
	}

	if _, err := NormalizeCPF("1234567890"); !errors.Is(err, ErrInvalidCPF) {
		t.Errorf("cpf curto: err = %v, esperado ErrInvalidCPF", err)
	}

	if _, err := NormalizeCPF("123456789012"); !errors.Is(err, ErrInvalidCPF) {
		t.Errorf("cpf longo: err = %v, esperado ErrInvalidCPF", err)
	}
}

func TestCancelTransition(t *testing.T) {
	s, err := NewSale("b1", "u1", []Item{cartItem("p1", 1, 10.00)}, PaymentCash, 0)
	if err != nil {
		t.Fatalf("NewSale: %v", err)
	}

	if err := s.Cancel(); err != nil {
		t.Fatalf("Cancel: %v", err)
	}
	if !s.IsCancelled() {
		t.Error("venda deveria estar cancelada")
	}

	// Segundo cancelamento é rejeitado
	if err := s.Cancel(); !errors.Is(err, ErrAlreadyCancelled) {
		t.Errorf("err = %v, esperado ErrAlreadyCancelled", err)
	}
}
