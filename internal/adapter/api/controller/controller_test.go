package controller

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/dmtavares/pdv-varejo/internal/adapter/gateway"
	"github.com/dmtavares/pdv-varejo/internal/adapter/repository/memory"
	"github.com/dmtavares/pdv-varejo/internal/domain/product"
	"github.com/dmtavares/pdv-varejo/internal/domain/sale"
	"github.com/dmtavares/pdv-varejo/pkg/logger"
)

// testEnv reúne o router e as dependências em memória dos testes de
// controller
type testEnv struct {
	router  *gin.Engine
	store   *memory.Store
	gateway *gateway.SimulatedGateway
}

// fakeAuth injeta as claims que o middleware de autenticação colocaria
// no contexto
func fakeAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("user_id", "u1")
		c.Set("branch_id", "b1")
		c.Set("user_role", "cashier")
		c.Next()
	}
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	gin.SetMode(gin.TestMode)

	store := memory.NewStore()
	log := logger.NewLogger()
	g := gateway.NewSimulatedGateway(log)

	productRepo := memory.NewProductRepository(store)
	stockRepo := memory.NewStockRepository(store)
	customerRepo := memory.NewCustomerRepository(store)
	saleRepo := memory.NewSaleRepository(store)
	paymentRepo := memory.NewPaymentRepository(store)

	productController := NewProductController(productRepo, stockRepo, log)
	saleController := NewSaleController(saleRepo, customerRepo, log)
	paymentController := NewPaymentController(paymentRepo, saleRepo, g, log)

	router := gin.New()
	api := router.Group("/api/v1")

	api.POST("/payments/webhook", paymentController.Webhook)
	api.POST("/payments/card/webhook", paymentController.Webhook)

	authed := api.Group("")
	authed.Use(fakeAuth())
	{
		authed.POST("/products", productController.Create)
		authed.GET("/products/code/:code", productController.FindByCode)
		authed.GET("/products/:id", productController.FindByID)
		authed.POST("/products/:id/stock", productController.AddStockMovement)
		authed.GET("/products/:id/stock", productController.ListStockMovements)

		authed.POST("/sales", saleController.Create)
		authed.GET("/sales/:id", saleController.FindByID)
		authed.PUT("/sales/:id", saleController.UpdateStatus)

		authed.POST("/payments/cash", paymentController.Cash)
		authed.POST("/payments/card", paymentController.Card)
		authed.POST("/payments/pix", paymentController.Pix)
		authed.POST("/payments/pix/confirm", paymentController.ConfirmPix)
		authed.GET("/payments/status", paymentController.Status)
		authed.GET("/payments/:id", paymentController.FindByID)
	}

	return &testEnv{
		router:  router,
		store:   store,
		gateway: g,
	}
}

// do executa uma requisição JSON contra o router de teste
func (e *testEnv) do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, out interface{}) {
	t.Helper()

	if err := json.Unmarshal(rec.Body.Bytes(), out); err != nil {
		t.Fatalf("decode resposta: %v (corpo: %s)", err, rec.Body.String())
	}
}

// seedTestProduct cadastra um produto direto no repositório em memória
func (e *testEnv) seedTestProduct(t *testing.T, name, code string, price float64, stockQty int) *product.Product {
	t.Helper()

	p, err := product.NewProduct("b1", name, code, price)
	if err != nil {
		t.Fatalf("NewProduct: %v", err)
	}
	p.Stock = stockQty

	if err := memory.NewProductRepository(e.store).Create(context.Background(), p); err != nil {
		t.Fatalf("Create product: %v", err)
	}

	return p
}

// createTestSale registra uma venda pela API e retorna o corpo decodificado
func (e *testEnv) createTestSale(t *testing.T, p *product.Product, qty int) map[string]interface{} {
	t.Helper()

	rec := e.do(t, http.MethodPost, "/api/v1/sales", gin.H{
		"items": []gin.H{
			{"product_id": p.ID, "quantity": qty, "unit_price": p.SalePrice},
		},
		"payment_method": sale.PaymentCash,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("criar venda: status = %d, corpo: %s", rec.Code, rec.Body.String())
	}

	var body map[string]interface{}
	decode(t, rec, &body)
	return body
}
