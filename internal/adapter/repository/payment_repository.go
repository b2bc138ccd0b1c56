package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmtavares/pdv-varejo/internal/domain/payment"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Erros específicos do repositório
var (
	ErrPaymentNotFound = errors.New("pagamento não encontrado")
)

const paymentColumns = `id, sale_id, user_id, method, amount, status,
		transaction_id, correlation_id, status_detail, notes, holder_name,
		holder_document, installments, method_id, txid, pix_key, payer_name,
		payer_document, qr_code, qr_code_base64, expires_at, confirmed_at,
		created_at`

// PaymentRepository implementa a interface payment.Repository
type PaymentRepository struct {
	db *pgxpool.Pool
}

// NewPaymentRepository cria uma nova instância de PaymentRepository
func NewPaymentRepository(db *pgxpool.Pool) payment.Repository {
	return &PaymentRepository{
		db: db,
	}
}

// Create implementa payment.Repository.Create
func (r *PaymentRepository) Create(ctx context.Context, p *payment.Payment) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO payments (
			id, sale_id, user_id, method, amount, status, transaction_id,
			correlation_id, status_detail, notes, holder_name,
			holder_document, installments, method_id, txid, pix_key,
			payer_name, payer_document, qr_code, qr_code_base64, expires_at,
			confirmed_at, created_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14,
			$15, $16, $17, $18, $19, $20, $21, $22, $23
		)`,
		p.ID, p.SaleID, p.UserID, p.Method, p.Amount, p.Status,
		p.TransactionID, p.CorrelationID, p.StatusDetail, p.Notes,
		p.HolderName, p.HolderDocument, p.Installments, p.MethodID, p.TxID,
		p.PixKey, p.PayerName, p.PayerDocument, p.QRCode, p.QRCodeBase64,
		p.ExpiresAt, p.ConfirmedAt, p.CreatedAt)

	if err != nil {
		return fmt.Errorf("erro ao criar pagamento: %w", err)
	}

	return nil
}

// FindByID implementa payment.Repository.FindByID
func (r *PaymentRepository) FindByID(ctx context.Context, id string) (*payment.Payment, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+paymentColumns+` FROM payments WHERE id = $1`, id)

	return scanPayment(row)
}

// FindByTransactionID implementa payment.Repository.FindByTransactionID
func (r *PaymentRepository) FindByTransactionID(ctx context.Context, transactionID string) (*payment.Payment, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+paymentColumns+` FROM payments WHERE transaction_id = $1`,
		transactionID)

	return scanPayment(row)
}

// FindByCorrelationID implementa payment.Repository.FindByCorrelationID
func (r *PaymentRepository) FindByCorrelationID(ctx context.Context, correlationID string) (*payment.Payment, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+paymentColumns+` FROM payments WHERE correlation_id = $1`,
		correlationID)

	return scanPayment(row)
}

// FindBySale implementa payment.Repository.FindBySale
func (r *PaymentRepository) FindBySale(ctx context.Context, saleID string) ([]*payment.Payment, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+paymentColumns+` FROM payments
		WHERE sale_id = $1
		ORDER BY created_at ASC`,
		saleID)
	if err != nil {
		return nil, fmt.Errorf("erro ao listar pagamentos da venda: %w", err)
	}
	defer rows.Close()

	return scanPaymentRows(rows)
}

// ListPending implementa payment.Repository.ListPending
func (r *PaymentRepository) ListPending(ctx context.Context, method payment.Method, since time.Time) ([]*payment.Payment, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+paymentColumns+` FROM payments
		WHERE method = $1 AND status = $2 AND created_at >= $3
		ORDER BY created_at ASC`,
		method, payment.StatusPending, since)
	if err != nil {
		return nil, fmt.Errorf("erro ao listar pagamentos pendentes: %w", err)
	}
	defer rows.Close()

	return scanPaymentRows(rows)
}

// Confirm implementa payment.Repository.Confirm
func (r *PaymentRepository) Confirm(ctx context.Context, p *payment.Payment) error {
	result, err := r.db.Exec(ctx,
		`UPDATE payments SET status = $1, confirmed_at = $2, notes = $3,
			status_detail = $4
		WHERE id = $5`,
		p.Status, p.ConfirmedAt, p.Notes, p.StatusDetail, p.ID)

	if err != nil {
		return fmt.Errorf("erro ao confirmar pagamento: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrPaymentNotFound
	}

	return nil
}

func scanPayment(row pgx.Row) (*payment.Payment, error) {
	var p payment.Payment

	err := row.Scan(
		&p.ID, &p.SaleID, &p.UserID, &p.Method, &p.Amount, &p.Status,
		&p.TransactionID, &p.CorrelationID, &p.StatusDetail, &p.Notes,
		&p.HolderName, &p.HolderDocument, &p.Installments, &p.MethodID,
		&p.TxID, &p.PixKey, &p.PayerName, &p.PayerDocument, &p.QRCode,
		&p.QRCodeBase64, &p.ExpiresAt, &p.ConfirmedAt, &p.CreatedAt)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPaymentNotFound
		}
		return nil, fmt.Errorf("erro ao buscar pagamento: %w", err)
	}

	return &p, nil
}

func scanPaymentRows(rows pgx.Rows) ([]*payment.Payment, error) {
	payments := make([]*payment.Payment, 0)

	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		payments = append(payments, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("erro ao ler resultados: %w", err)
	}

	return payments, nil
}
