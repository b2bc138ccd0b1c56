package controller

import (
	"math"
	"net/http"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/dmtavares/pdv-varejo/internal/domain/sale"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestSaleCreate(t *testing.T) {
	env := newTestEnv(t)
	p := env.seedTestProduct(t, "Arroz 5kg", "001", 25.90, 10)

	rec := env.do(t, http.MethodPost, "/api/v1/sales", gin.H{
		"customer_name": "João",
		"cpf":           "529.982.247-25",
		"include_cpf":   true,
		"items": []gin.H{
			{"product_id": p.ID, "quantity": 2, "unit_price": 25.90},
		},
		"payment_method": sale.PaymentCash,
		"discount":       1.80,
	})

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, corpo: %s", rec.Code, rec.Body.String())
	}

	var body map[string]interface{}
	decode(t, rec, &body)

	if body["number"].(float64) != 1 {
		t.Errorf("number = %v, esperado 1", body["number"])
	}
	if !almostEqual(body["subtotal"].(float64), 51.80) {
		t.Errorf("subtotal = %v, esperado 51.80", body["subtotal"])
	}
	if !almostEqual(body["total"].(float64), 50.00) {
		t.Errorf("total = %v, esperado 50.00", body["total"])
	}
	if body["cpf"].(string) != "52998224725" {
		t.Errorf("cpf = %v, esperado normalizado", body["cpf"])
	}
	if body["status"].(string) != string(sale.StatusCompleted) {
		t.Errorf("status = %v, esperado concluida", body["status"])
	}

	items := body["items"].([]interface{})
	if len(items) != 1 {
		t.Fatalf("itens = %d, esperado 1", len(items))
	}
	item := items[0].(map[string]interface{})
	if item["product_name"].(string) != "Arroz 5kg" {
		t.Errorf("snapshot do item = %v", item["product_name"])
	}

	// Estoque baixado
	recProduct := env.do(t, http.MethodGet, "/api/v1/products/"+p.ID, nil)
	var gotProduct map[string]interface{}
	decode(t, recProduct, &gotProduct)
	if gotProduct["stock"].(float64) != 8 {
		t.Errorf("estoque = %v, esperado 8", gotProduct["stock"])
	}
}

func TestSaleCreateEmptyCart(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/v1/sales", gin.H{
		"items":          []gin.H{},
		"payment_method": sale.PaymentCash,
	})

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, esperado 400", rec.Code)
	}
}

func TestSaleCreateInvalidCPF(t *testing.T) {
	env := newTestEnv(t)
	p := env.seedTestProduct(t, "Feijão 1kg", "002", 8.50, 10)

	rec := env.do(t, http.MethodPost, "/api/v1/sales", gin.H{
		"cpf":         "123",
		"include_cpf": true,
		"items": []gin.H{
			{"product_id": p.ID, "quantity": 1, "unit_price": 8.50},
		},
		"payment_method": sale.PaymentCash,
	})

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, esperado 400", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "CPF") {
		t.Errorf("corpo deveria mencionar CPF: %s", rec.Body.String())
	}
}

func TestSaleCreateIgnoresCPFWithoutFlag(t *testing.T) {
	env := newTestEnv(t)
	p := env.seedTestProduct(t, "Macarrão 500g", "012", 4.20, 10)

	// Sem o pedido de inclusão na nota, o CPF enviado não entra na venda
	rec := env.do(t, http.MethodPost, "/api/v1/sales", gin.H{
		"cpf": "529.982.247-25",
		"items": []gin.H{
			{"product_id": p.ID, "quantity": 1, "unit_price": 4.20},
		},
		"payment_method": sale.PaymentCash,
	})

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, corpo: %s", rec.Code, rec.Body.String())
	}

	var body map[string]interface{}
	decode(t, rec, &body)
	if cpf, ok := body["cpf"].(string); ok && cpf != "" {
		t.Errorf("cpf = %q, esperado vazio sem include_cpf", cpf)
	}
}

func TestSaleCreateInsufficientStock(t *testing.T) {
	env := newTestEnv(t)
	p := env.seedTestProduct(t, "Café 500g", "003", 15.90, 3)

	rec := env.do(t, http.MethodPost, "/api/v1/sales", gin.H{
		"items": []gin.H{
			{"product_id": p.ID, "quantity": 5, "unit_price": 15.90},
		},
		"payment_method": sale.PaymentCash,
	})

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, esperado 400", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "disponível 3") {
		t.Errorf("corpo deveria informar o estoque disponível: %s", rec.Body.String())
	}
}

func TestSaleCreateUnknownProduct(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/v1/sales", gin.H{
		"items": []gin.H{
			{"product_id": "inexistente", "quantity": 1, "unit_price": 1.00},
		},
		"payment_method": sale.PaymentCash,
	})

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, esperado 404", rec.Code)
	}
}

func TestSaleCreateInvalidPaymentMethod(t *testing.T) {
	env := newTestEnv(t)
	p := env.seedTestProduct(t, "Leite 1L", "004", 4.99, 10)

	rec := env.do(t, http.MethodPost, "/api/v1/sales", gin.H{
		"items": []gin.H{
			{"product_id": p.ID, "quantity": 1, "unit_price": 4.99},
		},
		"payment_method": "cheque",
	})

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, esperado 400", rec.Code)
	}
}

func TestSaleCancel(t *testing.T) {
	env := newTestEnv(t)
	p := env.seedTestProduct(t, "Açúcar 1kg", "005", 5.49, 10)

	created := env.createTestSale(t, p, 4)
	saleID := created["id"].(string)

	rec := env.do(t, http.MethodPut, "/api/v1/sales/"+saleID, gin.H{"status": sale.StatusCancelled})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, corpo: %s", rec.Code, rec.Body.String())
	}

	var body map[string]interface{}
	decode(t, rec, &body)
	if body["status"].(string) != string(sale.StatusCancelled) {
		t.Errorf("status = %v, esperado cancelada", body["status"])
	}

	// Estoque restaurado
	recProduct := env.do(t, http.MethodGet, "/api/v1/products/"+p.ID, nil)
	var gotProduct map[string]interface{}
	decode(t, recProduct, &gotProduct)
	if gotProduct["stock"].(float64) != 10 {
		t.Errorf("estoque = %v, esperado 10", gotProduct["stock"])
	}

	// Segundo cancelamento é rejeitado
	rec = env.do(t, http.MethodPut, "/api/v1/sales/"+saleID, gin.H{"status": sale.StatusCancelled})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status do segundo cancelamento = %d, esperado 400", rec.Code)
	}
}

func TestSaleCancelNotFound(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPut, "/api/v1/sales/inexistente", gin.H{"status": sale.StatusCancelled})
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, esperado 404", rec.Code)
	}
}

func TestSaleUpdateStatusInvalidTransition(t *testing.T) {
	env := newTestEnv(t)
	p := env.seedTestProduct(t, "Sal 1kg", "013", 2.99, 10)

	created := env.createTestSale(t, p, 1)
	saleID := created["id"].(string)

	// A única transição aceita é para cancelada
	rec := env.do(t, http.MethodPut, "/api/v1/sales/"+saleID, gin.H{"status": "concluida"})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, esperado 400", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "transição de status inválida") {
		t.Errorf("corpo deveria apontar transição inválida: %s", rec.Body.String())
	}

	// Sem corpo a requisição também é rejeitada
	rec = env.do(t, http.MethodPut, "/api/v1/sales/"+saleID, nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("sem corpo: status = %d, esperado 400", rec.Code)
	}
}

func TestSaleFindByID(t *testing.T) {
	env := newTestEnv(t)
	p := env.seedTestProduct(t, "Óleo 900ml", "006", 9.90, 10)

	created := env.createTestSale(t, p, 1)
	saleID := created["id"].(string)

	rec := env.do(t, http.MethodGet, "/api/v1/sales/"+saleID, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var body map[string]interface{}
	decode(t, rec, &body)
	if body["id"].(string) != saleID {
		t.Errorf("id = %v, esperado %s", body["id"], saleID)
	}
}

func TestStockMovementEndpoints(t *testing.T) {
	env := newTestEnv(t)
	p := env.seedTestProduct(t, "Sal 1kg", "007", 2.99, 5)

	// Entrada de mercadoria
	rec := env.do(t, http.MethodPost, "/api/v1/products/"+p.ID+"/stock", gin.H{
		"type":     "IN",
		"quantity": 10,
		"reason":   "compra",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, corpo: %s", rec.Code, rec.Body.String())
	}

	var movement map[string]interface{}
	decode(t, rec, &movement)
	if movement["prev_stock"].(float64) != 5 || movement["new_stock"].(float64) != 15 {
		t.Errorf("prev/new = %v/%v, esperado 5/15", movement["prev_stock"], movement["new_stock"])
	}

	// Saída maior que o estoque é rejeitada
	rec = env.do(t, http.MethodPost, "/api/v1/products/"+p.ID+"/stock", gin.H{
		"type":     "OUT",
		"quantity": 100,
		"reason":   "perda",
	})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, esperado 400", rec.Code)
	}

	// Ajuste para zero (baixa total) é aceito
	rec = env.do(t, http.MethodPost, "/api/v1/products/"+p.ID+"/stock", gin.H{
		"type":     "ADJUSTMENT",
		"quantity": 0,
		"reason":   "inventário",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("ajuste para zero: status = %d, corpo: %s", rec.Code, rec.Body.String())
	}
	decode(t, rec, &movement)
	if movement["new_stock"].(float64) != 0 {
		t.Errorf("new_stock = %v, esperado 0", movement["new_stock"])
	}

	// Histórico registrado
	rec = env.do(t, http.MethodGet, "/api/v1/products/"+p.ID+"/stock", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var list map[string]interface{}
	decode(t, rec, &list)
	if len(list["items"].([]interface{})) != 2 {
		t.Errorf("movimentações = %d, esperado 2", len(list["items"].([]interface{})))
	}
}

func TestProductFindByCode(t *testing.T) {
	env := newTestEnv(t)
	p := env.seedTestProduct(t, "Vinagre 750ml", "015", 3.45, 10)

	rec := env.do(t, http.MethodGet, "/api/v1/products/code/015", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, corpo: %s", rec.Code, rec.Body.String())
	}

	var body map[string]interface{}
	decode(t, rec, &body)
	if body["id"].(string) != p.ID {
		t.Errorf("id = %v, esperado %s", body["id"], p.ID)
	}

	rec = env.do(t, http.MethodGet, "/api/v1/products/code/999", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("código desconhecido: status = %d, esperado 404", rec.Code)
	}
}
