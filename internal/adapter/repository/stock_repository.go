package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmtavares/pdv-varejo/internal/domain/stock"
	"github.com/dmtavares/pdv-varejo/internal/infrastructure/database"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrInsufficientStock indica que a movimentação deixaria o estoque
// negativo. A mensagem informa a quantidade disponível.
var ErrInsufficientStock = errors.New("estoque insuficiente")

// StockRepository implementa a interface stock.Repository
type StockRepository struct {
	db *pgxpool.Pool
}

// NewStockRepository cria uma nova instância de StockRepository
func NewStockRepository(db *pgxpool.Pool) stock.Repository {
	return &StockRepository{
		db: db,
	}
}

// Apply implementa stock.Repository.Apply. A leitura do estoque corrente,
// a atualização do produto e o registro no razão acontecem na mesma
// transação, com lock da linha do produto.
func (r *StockRepository) Apply(ctx context.Context, m *stock.Movement) (*stock.Movement, error) {
	err := database.Transaction(ctx, r.db, func(tx pgx.Tx) error {
		var prevStock int
		err := tx.QueryRow(ctx,
			"SELECT stock FROM products WHERE id = $1 FOR UPDATE",
			m.ProductID).Scan(&prevStock)

		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return ErrProductNotFound
			}
			return fmt.Errorf("erro ao buscar estoque do produto: %w", err)
		}

		newStock := prevStock
		switch m.Type {
		case stock.TypeIn:
			newStock = prevStock + m.Quantity
		case stock.TypeOut:
			newStock = prevStock - m.Quantity
		case stock.TypeAdjustment:
			// Para ajuste a quantidade informada é o novo estoque absoluto
			newStock = m.Quantity
		}

		if newStock < 0 {
			return fmt.Errorf("%w: disponível %d, solicitado %d",
				ErrInsufficientStock, prevStock, m.Quantity)
		}

		m.PrevStock = prevStock
		m.NewStock = newStock

		_, err = tx.Exec(ctx,
			"UPDATE products SET stock = $1, updated_at = $2 WHERE id = $3",
			newStock, time.Now(), m.ProductID)
		if err != nil {
			return fmt.Errorf("erro ao atualizar estoque: %w", err)
		}

		return insertMovement(ctx, tx, m)
	})

	if err != nil {
		return nil, err
	}

	return m, nil
}

// ListByProduct implementa stock.Repository.ListByProduct
func (r *StockRepository) ListByProduct(ctx context.Context, productID string, limit, offset int) ([]*stock.Movement, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, product_id, branch_id, type, quantity, prev_stock,
			new_stock, reason, reference, user_id, created_at
		FROM stock_movements
		WHERE product_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`,
		productID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("erro ao listar movimentações: %w", err)
	}
	defer rows.Close()

	return scanMovementRows(rows)
}

// ListByPeriod implementa stock.Repository.ListByPeriod
func (r *StockRepository) ListByPeriod(ctx context.Context, branchID string, from, to time.Time, limit, offset int) ([]*stock.Movement, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, product_id, branch_id, type, quantity, prev_stock,
			new_stock, reason, reference, user_id, created_at
		FROM stock_movements
		WHERE branch_id = $1 AND created_at >= $2 AND created_at <= $3
		ORDER BY created_at DESC
		LIMIT $4 OFFSET $5`,
		branchID, from, to, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("erro ao listar movimentações: %w", err)
	}
	defer rows.Close()

	return scanMovementRows(rows)
}

// insertMovement grava uma movimentação no razão dentro de uma transação.
// Também é usado pelo repositório de vendas para as baixas e reposições.
func insertMovement(ctx context.Context, tx pgx.Tx, m *stock.Movement) error {
	_, err := tx.Exec(ctx,
		`INSERT INTO stock_movements (
			id, product_id, branch_id, type, quantity, prev_stock,
			new_stock, reason, reference, user_id, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		m.ID, m.ProductID, m.BranchID, m.Type, m.Quantity, m.PrevStock,
		m.NewStock, m.Reason, m.Reference, m.UserID, m.CreatedAt)

	if err != nil {
		return fmt.Errorf("erro ao registrar movimentação de estoque: %w", err)
	}

	return nil
}

func scanMovementRows(rows pgx.Rows) ([]*stock.Movement, error) {
	movements := make([]*stock.Movement, 0)

	for rows.Next() {
		var m stock.Movement

		err := rows.Scan(
			&m.ID, &m.ProductID, &m.BranchID, &m.Type, &m.Quantity,
			&m.PrevStock, &m.NewStock, &m.Reason, &m.Reference, &m.UserID,
			&m.CreatedAt)

		if err != nil {
			return nil, fmt.Errorf("erro ao ler movimentação: %w", err)
		}

		movements = append(movements, &m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("erro ao ler resultados: %w", err)
	}

	return movements, nil
}
