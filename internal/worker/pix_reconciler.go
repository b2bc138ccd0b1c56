// Package worker contém as tarefas agendadas do sistema.
package worker

import (
	"context"
	"errors"
	"time"

	"github.com/go-co-op/gocron"

	paymentdomain "github.com/dmtavares/pdv-varejo/internal/domain/payment"
	"github.com/dmtavares/pdv-varejo/pkg/logger"
)

// reconcileWindow limita a varredura às cobranças recentes. Cobranças
// mais antigas já expiraram há muito e não mudam de estado.
const reconcileWindow = 24 * time.Hour

// PixReconciler varre periodicamente as cobranças PIX pendentes e
// consulta o processador para confirmar as que foram pagas sem que o
// webhook tenha chegado.
type PixReconciler struct {
	paymentRepo paymentdomain.Repository
	gateway     paymentdomain.Gateway
	logger      logger.Logger
}

// NewPixReconciler cria um novo reconciliador de cobranças PIX
func NewPixReconciler(paymentRepo paymentdomain.Repository, gateway paymentdomain.Gateway, logger logger.Logger) *PixReconciler {
	return &PixReconciler{
		paymentRepo: paymentRepo,
		gateway:     gateway,
		logger:      logger,
	}
}

// Start agenda a varredura a cada 5 minutos e inicia o agendador em
// segundo plano. Retorna o agendador para que o chamador possa pará-lo.
func (w *PixReconciler) Start() *gocron.Scheduler {
	s := gocron.NewScheduler(time.UTC)
	if _, err := s.Every(5).Minutes().Do(w.Run); err != nil {
		w.logger.Error("Erro ao agendar reconciliação de cobranças PIX", "error", err)
	}
	s.StartAsync()

	w.logger.Info("Reconciliador de cobranças PIX iniciado")
	return s
}

// Run executa uma varredura das cobranças PIX pendentes
func (w *PixReconciler) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	now := time.Now()

	pending, err := w.paymentRepo.ListPending(ctx, paymentdomain.MethodPix, now.Add(-reconcileWindow))
	if err != nil {
		w.logger.Error("Erro ao listar cobranças PIX pendentes", "error", err)
		return
	}

	for _, p := range pending {
		if p.IsExpired(now) || p.TransactionID == "" {
			continue
		}

		result, err := w.gateway.GetPayment(ctx, p.TransactionID)
		if err != nil {
			if errors.Is(err, paymentdomain.ErrGatewayUnavailable) {
				w.logger.Warn("Processador indisponível durante reconciliação", "error", err)
				return
			}
			w.logger.Error("Erro ao consultar cobrança PIX", "error", err, "txid", p.TxID)
			continue
		}

		if !result.Approved() {
			continue
		}

		p.StatusDetail = result.StatusDetail
		if err := p.Confirm(now); err != nil {
			if !errors.Is(err, paymentdomain.ErrAlreadyConfirmed) {
				w.logger.Error("Erro ao confirmar cobrança PIX", "error", err, "txid", p.TxID)
			}
			continue
		}

		if err := w.paymentRepo.Confirm(ctx, p); err != nil {
			w.logger.Error("Erro ao gravar confirmação de cobrança PIX", "error", err, "txid", p.TxID)
			continue
		}

		w.logger.Info("Cobrança PIX confirmada pela reconciliação", "payment_id", p.ID, "txid", p.TxID)
	}
}
