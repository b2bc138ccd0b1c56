package memory

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/dmtavares/pdv-varejo/internal/adapter/repository"
	"github.com/dmtavares/pdv-varejo/internal/domain/product"
	"github.com/dmtavares/pdv-varejo/internal/domain/sale"
	"github.com/dmtavares/pdv-varejo/internal/domain/stock"
)

func seedProduct(t *testing.T, store *Store, name, code string, price float64, stockQty int) *product.Product {
	t.Helper()

	p, err := product.NewProduct("b1", name, code, price)
	if err != nil {
		t.Fatalf("NewProduct: %v", err)
	}
	p.Stock = stockQty

	if err := NewProductRepository(store).Create(context.Background(), p); err != nil {
		t.Fatalf("Create product: %v", err)
	}

	return p
}

func newSaleFor(t *testing.T, p *product.Product, qty int) *sale.Sale {
	t.Helper()

	items := []sale.Item{{
		ProductID: p.ID,
		Quantity:  qty,
		UnitPrice: p.SalePrice,
	}}

	s, err := sale.NewSale("b1", "u1", items, sale.PaymentCash, 0)
	if err != nil {
		t.Fatalf("NewSale: %v", err)
	}

	return s
}

func TestSaleCreateDecrementsStock(t *testing.T) {
	store := NewStore()
	p := seedProduct(t, store, "Arroz 5kg", "001", 10.00, 10)

	repo := NewSaleRepository(store)
	s := newSaleFor(t, p, 2)

	if err := repo.Create(context.Background(), s); err != nil {
		t.Fatalf("Create: %v", err)
	}

	got, err := NewProductRepository(store).FindByID(context.Background(), p.ID)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if got.Stock != 8 {
		t.Errorf("estoque = %d, esperado 8", got.Stock)
	}

	if s.Number != 1 {
		t.Errorf("número da venda = %d, esperado 1", s.Number)
	}

	// Snapshot do produto capturado no item
	if s.Items[0].ProductName != "Arroz 5kg" || s.Items[0].ProductCode != "001" {
		t.Errorf("snapshot do item = %q/%q, esperado nome e código do produto",
			s.Items[0].ProductName, s.Items[0].ProductCode)
	}

	// Movimentação OUT registrada no razão
	movements, err := NewStockRepository(store).ListByProduct(context.Background(), p.ID, 10, 0)
	if err != nil {
		t.Fatalf("ListByProduct: %v", err)
	}
	if len(movements) != 1 {
		t.Fatalf("movimentações = %d, esperado 1", len(movements))
	}
	if movements[0].Type != stock.TypeOut || movements[0].Quantity != 2 {
		t.Errorf("movimentação = %s/%d, esperado OUT/2", movements[0].Type, movements[0].Quantity)
	}
	if movements[0].PrevStock != 10 || movements[0].NewStock != 8 {
		t.Errorf("prev/new = %d/%d, esperado 10/8", movements[0].PrevStock, movements[0].NewStock)
	}
}

func TestSaleCreateRejectsInsufficientStock(t *testing.T) {
	store := NewStore()
	p := seedProduct(t, store, "Feijão 1kg", "002", 8.50, 3)

	repo := NewSaleRepository(store)
	s := newSaleFor(t, p, 5)

	err := repo.Create(context.Background(), s)
	if !errors.Is(err, repository.ErrInsufficientStock) {
		t.Fatalf("err = %v, esperado ErrInsufficientStock", err)
	}

	// A mensagem informa a quantidade disponível
	if !strings.Contains(err.Error(), "disponível 3") {
		t.Errorf("mensagem deveria informar o disponível: %v", err)
	}

	// Estoque permanece inalterado
	got, _ := NewProductRepository(store).FindByID(context.Background(), p.ID)
	if got.Stock != 3 {
		t.Errorf("estoque = %d, esperado 3 (inalterado)", got.Stock)
	}

	// Nada foi persistido
	if _, err := repo.FindByID(context.Background(), s.ID); !errors.Is(err, repository.ErrSaleNotFound) {
		t.Errorf("venda não deveria ter sido persistida")
	}
}

func TestSaleCreateRejectsUnknownProduct(t *testing.T) {
	store := NewStore()
	repo := NewSaleRepository(store)

	items := []sale.Item{{ProductID: "inexistente", Quantity: 1, UnitPrice: 1.00}}
	s, err := sale.NewSale("b1", "u1", items, sale.PaymentCash, 0)
	if err != nil {
		t.Fatalf("NewSale: %v", err)
	}

	if err := repo.Create(context.Background(), s); !errors.Is(err, repository.ErrProductNotFound) {
		t.Errorf("err = %v, esperado ErrProductNotFound", err)
	}
}

func TestConcurrentSalesProduceDistinctNumbers(t *testing.T) {
	store := NewStore()
	p := seedProduct(t, store, "Leite 1L", "003", 4.99, 1000)

	repo := NewSaleRepository(store)

	const n = 50
	var wg sync.WaitGroup
	numbers := make(chan int64, n)

	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			s := newSaleFor(t, p, 1)
			if err := repo.Create(context.Background(), s); err != nil {
				t.Errorf("Create: %v", err)
				return
			}
			numbers <- s.Number
		}()
	}

	wg.Wait()
	close(numbers)

	seen := make(map[int64]bool)
	for num := range numbers {
		if seen[num] {
			t.Fatalf("número de venda duplicado: %d", num)
		}
		seen[num] = true
	}

	if len(seen) != n {
		t.Errorf("números distintos = %d, esperado %d", len(seen), n)
	}

	// Todo o estoque baixado exatamente uma vez por venda
	got, _ := NewProductRepository(store).FindByID(context.Background(), p.ID)
	if got.Stock != 1000-n {
		t.Errorf("estoque = %d, esperado %d", got.Stock, 1000-n)
	}
}

func TestConcurrentSalesNeverOversell(t *testing.T) {
	store := NewStore()
	p := seedProduct(t, store, "Café 500g", "004", 15.90, 10)

	repo := NewSaleRepository(store)

	const n = 30
	var wg sync.WaitGroup

	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			s := newSaleFor(t, p, 1)
			// Falhas por falta de estoque são esperadas
			_ = repo.Create(context.Background(), s)
		}()
	}

	wg.Wait()

	got, _ := NewProductRepository(store).FindByID(context.Background(), p.ID)
	if got.Stock < 0 {
		t.Fatalf("estoque negativo: %d", got.Stock)
	}
	if got.Stock != 0 {
		t.Errorf("estoque = %d, esperado 0 (10 vendas de 1 unidade)", got.Stock)
	}
}

func TestCancelRestoresStockOnce(t *testing.T) {
	store := NewStore()
	p := seedProduct(t, store, "Açúcar 1kg", "005", 5.49, 10)

	repo := NewSaleRepository(store)
	s := newSaleFor(t, p, 4)

	if err := repo.Create(context.Background(), s); err != nil {
		t.Fatalf("Create: %v", err)
	}

	cancelled, err := repo.Cancel(context.Background(), s.ID, "u2")
	if err != nil {
		t.Fatalf("Cancel: %v", err)
	}
	if cancelled.Status != sale.StatusCancelled {
		t.Errorf("status = %s, esperado cancelada", cancelled.Status)
	}

	got, _ := NewProductRepository(store).FindByID(context.Background(), p.ID)
	if got.Stock != 10 {
		t.Errorf("estoque = %d, esperado 10 (restaurado)", got.Stock)
	}

	// Movimentação IN de compensação registrada
	movements, _ := NewStockRepository(store).ListByProduct(context.Background(), p.ID, 10, 0)
	var hasCompensation bool
	for _, m := range movements {
		if m.Type == stock.TypeIn && m.Reason == stock.ReasonSaleCancellation {
			hasCompensation = true
		}
	}
	if !hasCompensation {
		t.Error("cancelamento deveria registrar movimentação IN de compensação")
	}

	// Segundo cancelamento é rejeitado e não repõe de novo
	if _, err := repo.Cancel(context.Background(), s.ID, "u2"); !errors.Is(err, sale.ErrAlreadyCancelled) {
		t.Errorf("err = %v, esperado ErrAlreadyCancelled", err)
	}

	got, _ = NewProductRepository(store).FindByID(context.Background(), p.ID)
	if got.Stock != 10 {
		t.Errorf("estoque = %d, esperado 10 (sem segunda reposição)", got.Stock)
	}
}

func TestStockApplyAdjustment(t *testing.T) {
	store := NewStore()
	p := seedProduct(t, store, "Óleo 900ml", "006", 9.90, 7)

	repo := NewStockRepository(store)

	m, err := stock.NewMovement(p.ID, "b1", stock.TypeAdjustment, 20, "inventário", "", "u1")
	if err != nil {
		t.Fatalf("NewMovement: %v", err)
	}

	applied, err := repo.Apply(context.Background(), m)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}

	if applied.PrevStock != 7 || applied.NewStock != 20 {
		t.Errorf("prev/new = %d/%d, esperado 7/20", applied.PrevStock, applied.NewStock)
	}

	got, _ := NewProductRepository(store).FindByID(context.Background(), p.ID)
	if got.Stock != 20 {
		t.Errorf("estoque = %d, esperado 20", got.Stock)
	}

	// Baixa total: ajuste com quantidade zero zera o estoque
	m, err = stock.NewMovement(p.ID, "b1", stock.TypeAdjustment, 0, "inventário", "", "u1")
	if err != nil {
		t.Fatalf("NewMovement: %v", err)
	}

	applied, err = repo.Apply(context.Background(), m)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if applied.PrevStock != 20 || applied.NewStock != 0 {
		t.Errorf("prev/new = %d/%d, esperado 20/0", applied.PrevStock, applied.NewStock)
	}

	got, _ = NewProductRepository(store).FindByID(context.Background(), p.ID)
	if got.Stock != 0 {
		t.Errorf("estoque = %d, esperado 0", got.Stock)
	}
}

func TestStockApplyOutRejectsNegative(t *testing.T) {
	store := NewStore()
	p := seedProduct(t, store, "Sal 1kg", "007", 2.99, 2)

	repo := NewStockRepository(store)

	m, err := stock.NewMovement(p.ID, "b1", stock.TypeOut, 3, "perda", "", "u1")
	if err != nil {
		t.Fatalf("NewMovement: %v", err)
	}

	if _, err := repo.Apply(context.Background(), m); !errors.Is(err, repository.ErrInsufficientStock) {
		t.Errorf("err = %v, esperado ErrInsufficientStock", err)
	}

	got, _ := NewProductRepository(store).FindByID(context.Background(), p.ID)
	if got.Stock != 2 {
		t.Errorf("estoque = %d, esperado 2 (inalterado)", got.Stock)
	}
}
