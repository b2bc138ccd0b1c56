package gateway

import (
	"context"
	"encoding/base64"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/dmtavares/pdv-varejo/internal/domain/payment"
	"github.com/dmtavares/pdv-varejo/pkg/logger"
)

// SimulatedGateway implementa payment.Gateway sem comunicação externa.
// É selecionado na inicialização quando nenhuma credencial do processador
// está configurada: cobranças de cartão são aprovadas de imediato e
// cobranças PIX nascem pendentes com QR code gerado localmente, aguardando
// confirmação via webhook ou consulta.
type SimulatedGateway struct {
	mu      sync.RWMutex
	charges map[string]*payment.ChargeResult
	logger  logger.Logger
}

// NewSimulatedGateway cria o gateway simulado de pagamentos
func NewSimulatedGateway(logger logger.Logger) *SimulatedGateway {
	return &SimulatedGateway{
		charges: make(map[string]*payment.ChargeResult),
		logger:  logger,
	}
}

// CreateCardCharge aprova a cobrança de cartão imediatamente
func (g *SimulatedGateway) CreateCardCharge(ctx context.Context, charge payment.CardCharge) (*payment.ChargeResult, error) {
	result := &payment.ChargeResult{
		ID:           "sim-" + uuid.New().String(),
		Status:       payment.GatewayStatusApproved,
		StatusDetail: "accredited",
		Reference:    charge.Reference,
	}

	g.store(result)
	g.logger.Info("Cobrança de cartão simulada aprovada", "transaction_id", result.ID, "amount", charge.Amount)

	return result, nil
}

// CreatePixCharge cria uma cobrança PIX pendente com QR code gerado localmente
func (g *SimulatedGateway) CreatePixCharge(ctx context.Context, charge payment.PixCharge) (*payment.ChargeResult, error) {
	id := "sim-" + uuid.New().String()
	qrCode := fmt.Sprintf("00020126580014br.gov.bcb.pix0136%s5204000053039865405%.2f5802BR", uuid.New().String(), charge.Amount)

	result := &payment.ChargeResult{
		ID:           id,
		Status:       payment.GatewayStatusPending,
		StatusDetail: "pending_waiting_transfer",
		Reference:    charge.Reference,
		QRCode:       qrCode,
		QRCodeBase64: base64.StdEncoding.EncodeToString([]byte(qrCode)),
	}

	g.store(result)
	g.logger.Info("Cobrança PIX simulada criada", "transaction_id", id, "amount", charge.Amount)

	return result, nil
}

// GetPayment retorna o estado atual da cobrança simulada
func (g *SimulatedGateway) GetPayment(ctx context.Context, id string) (*payment.ChargeResult, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	result, ok := g.charges[id]
	if !ok {
		return nil, fmt.Errorf("cobrança não encontrada no processador: %s", id)
	}

	copied := *result
	return &copied, nil
}

// SettlePix marca uma cobrança PIX simulada como aprovada, emulando a
// confirmação que o processador real envia por webhook
func (g *SimulatedGateway) SettlePix(id string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	result, ok := g.charges[id]
	if !ok {
		return fmt.Errorf("cobrança não encontrada no processador: %s", id)
	}

	result.Status = payment.GatewayStatusApproved
	result.StatusDetail = "accredited"

	return nil
}

func (g *SimulatedGateway) store(result *payment.ChargeResult) {
	g.mu.Lock()
	defer g.mu.Unlock()

	copied := *result
	g.charges[result.ID] = &copied
}
