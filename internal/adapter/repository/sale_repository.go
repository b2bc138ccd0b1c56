package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/dmtavares/pdv-varejo/internal/domain/sale"
	"github.com/dmtavares/pdv-varejo/internal/domain/stock"
	"github.com/dmtavares/pdv-varejo/internal/infrastructure/database"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Erros específicos do repositório
var (
	ErrSaleNotFound = errors.New("venda não encontrada")
)

// SaleRepository implementa a interface sale.Repository
type SaleRepository struct {
	db *pgxpool.Pool
}

// NewSaleRepository cria uma nova instância de SaleRepository
func NewSaleRepository(db *pgxpool.Pool) sale.Repository {
	return &SaleRepository{
		db: db,
	}
}

// Create implementa sale.Repository.Create. Toda a orquestração da venda
// acontece em uma única transação: lock dos produtos, verificação de
// estoque, inserção da venda e dos itens, baixa do estoque e registro das
// movimentações OUT. Qualquer falha desfaz todas as escritas.
func (r *SaleRepository) Create(ctx context.Context, s *sale.Sale) error {
	return database.Transaction(ctx, r.db, func(tx pgx.Tx) error {
		// Lock e verificação de estoque de todos os produtos antes de
		// qualquer escrita. O snapshot de nome/código/barras é capturado
		// aqui; valores enviados na requisição são mantidos apenas como
		// fallback quando o cadastro não os possui.
		prevStocks := make(map[string]int, len(s.Items))

		for i := range s.Items {
			item := &s.Items[i]

			var name, code, barcode string
			var available int
			err := tx.QueryRow(ctx,
				"SELECT name, code, barcode, stock FROM products WHERE id = $1 FOR UPDATE",
				item.ProductID).Scan(&name, &code, &barcode, &available)

			if err != nil {
				if errors.Is(err, pgx.ErrNoRows) {
					return fmt.Errorf("%w: produto %s", ErrProductNotFound, item.ProductID)
				}
				return fmt.Errorf("erro ao buscar produto %s: %w", item.ProductID, err)
			}

			if available < item.Quantity {
				return fmt.Errorf("%w: produto %s, disponível %d, solicitado %d",
					ErrInsufficientStock, name, available, item.Quantity)
			}

			item.ProductName = name
			if code != "" {
				item.ProductCode = code
			}
			if barcode != "" {
				item.Barcode = barcode
			}
			prevStocks[item.ProductID] = available
		}

		// Inserir a venda; o número vem da sequence do banco
		var customerID *string
		if s.CustomerID != "" {
			customerID = &s.CustomerID
		}

		err := tx.QueryRow(ctx,
			`INSERT INTO sales (
				id, branch_id, customer_id, customer_name, cpf, user_id,
				subtotal, discount, total, payment_method, status, created_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
			RETURNING number`,
			s.ID, s.BranchID, customerID, s.CustomerName, s.CPF, s.UserID,
			s.Subtotal, s.Discount, s.Total, s.PaymentMethod, s.Status,
			s.CreatedAt).Scan(&s.Number)

		if err != nil {
			return fmt.Errorf("erro ao criar venda: %w", err)
		}

		reference := "venda " + strconv.FormatInt(s.Number, 10)

		for i := range s.Items {
			item := &s.Items[i]

			_, err := tx.Exec(ctx,
				`INSERT INTO sale_items (
					id, sale_id, product_id, product_name, product_code,
					barcode, quantity, unit_price, discount, total
				) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
				item.ID, item.SaleID, item.ProductID, item.ProductName,
				item.ProductCode, item.Barcode, item.Quantity, item.UnitPrice,
				item.Discount, item.Total)
			if err != nil {
				return fmt.Errorf("erro ao criar item da venda: %w", err)
			}

			// Baixa do estoque, com guarda contra estoque negativo
			result, err := tx.Exec(ctx,
				`UPDATE products SET stock = stock - $1, updated_at = now()
				WHERE id = $2 AND stock >= $1`,
				item.Quantity, item.ProductID)
			if err != nil {
				return fmt.Errorf("erro ao baixar estoque: %w", err)
			}
			if result.RowsAffected() == 0 {
				return fmt.Errorf("%w: produto %s", ErrInsufficientStock, item.ProductName)
			}

			movement, err := stock.NewMovement(item.ProductID, s.BranchID,
				stock.TypeOut, item.Quantity, stock.ReasonSale, reference, s.UserID)
			if err != nil {
				return err
			}
			movement.PrevStock = prevStocks[item.ProductID]
			movement.NewStock = movement.PrevStock - item.Quantity

			if err := insertMovement(ctx, tx, movement); err != nil {
				return err
			}
		}

		return nil
	})
}

// FindByID implementa sale.Repository.FindByID
func (r *SaleRepository) FindByID(ctx context.Context, id string) (*sale.Sale, error) {
	row := r.db.QueryRow(ctx,
		`SELECT id, number, branch_id, customer_id, customer_name, cpf,
			user_id, subtotal, discount, total, payment_method, status,
			created_at
		FROM sales WHERE id = $1`, id)

	s, err := scanSale(row)
	if err != nil {
		return nil, err
	}

	items, err := r.findItems(ctx, s.ID)
	if err != nil {
		return nil, err
	}
	s.Items = items

	return s, nil
}

// List implementa sale.Repository.List
func (r *SaleRepository) List(ctx context.Context, branchID string, limit, offset int) ([]*sale.Sale, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, number, branch_id, customer_id, customer_name, cpf,
			user_id, subtotal, discount, total, payment_method, status,
			created_at
		FROM sales
		WHERE branch_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`,
		branchID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("erro ao listar vendas: %w", err)
	}
	defer rows.Close()

	return r.scanSalesWithItems(ctx, rows)
}

// ListByCustomer implementa sale.Repository.ListByCustomer
func (r *SaleRepository) ListByCustomer(ctx context.Context, customerID string, limit, offset int) ([]*sale.Sale, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, number, branch_id, customer_id, customer_name, cpf,
			user_id, subtotal, discount, total, payment_method, status,
			created_at
		FROM sales
		WHERE customer_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`,
		customerID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("erro ao listar vendas do cliente: %w", err)
	}
	defer rows.Close()

	return r.scanSalesWithItems(ctx, rows)
}

// Cancel implementa sale.Repository.Cancel. A reposição do estoque de
// cada item, o registro das movimentações IN de compensação e a mudança
// de status acontecem na mesma transação, nessa ordem.
func (r *SaleRepository) Cancel(ctx context.Context, id, userID string) (*sale.Sale, error) {
	var cancelled *sale.Sale

	err := database.Transaction(ctx, r.db, func(tx pgx.Tx) error {
		row := tx.QueryRow(ctx,
			`SELECT id, number, branch_id, customer_id, customer_name, cpf,
				user_id, subtotal, discount, total, payment_method, status,
				created_at
			FROM sales WHERE id = $1 FOR UPDATE`, id)

		s, err := scanSale(row)
		if err != nil {
			return err
		}

		if err := s.Cancel(); err != nil {
			return err
		}

		items, err := r.findItemsTx(ctx, tx, s.ID)
		if err != nil {
			return err
		}
		s.Items = items

		reference := "venda " + strconv.FormatInt(s.Number, 10)

		for _, item := range items {
			var prevStock int
			err := tx.QueryRow(ctx,
				"SELECT stock FROM products WHERE id = $1 FOR UPDATE",
				item.ProductID).Scan(&prevStock)
			if err != nil {
				if errors.Is(err, pgx.ErrNoRows) {
					return fmt.Errorf("%w: produto %s", ErrProductNotFound, item.ProductID)
				}
				return fmt.Errorf("erro ao buscar produto %s: %w", item.ProductID, err)
			}

			_, err = tx.Exec(ctx,
				"UPDATE products SET stock = stock + $1, updated_at = now() WHERE id = $2",
				item.Quantity, item.ProductID)
			if err != nil {
				return fmt.Errorf("erro ao repor estoque: %w", err)
			}

			movement, err := stock.NewMovement(item.ProductID, s.BranchID,
				stock.TypeIn, item.Quantity, stock.ReasonSaleCancellation,
				reference, userID)
			if err != nil {
				return err
			}
			movement.PrevStock = prevStock
			movement.NewStock = prevStock + item.Quantity

			if err := insertMovement(ctx, tx, movement); err != nil {
				return err
			}
		}

		// Status é atualizado por último, após a reposição do estoque
		_, err = tx.Exec(ctx,
			"UPDATE sales SET status = $1 WHERE id = $2",
			sale.StatusCancelled, s.ID)
		if err != nil {
			return fmt.Errorf("erro ao cancelar venda: %w", err)
		}

		cancelled = s
		return nil
	})

	if err != nil {
		return nil, err
	}

	return cancelled, nil
}

// CountByBranch implementa sale.Repository.CountByBranch
func (r *SaleRepository) CountByBranch(ctx context.Context, branchID string) (int, error) {
	var count int
	err := r.db.QueryRow(ctx,
		"SELECT COUNT(*) FROM sales WHERE branch_id = $1",
		branchID).Scan(&count)

	if err != nil {
		return 0, fmt.Errorf("erro ao contar vendas: %w", err)
	}

	return count, nil
}

func (r *SaleRepository) findItems(ctx context.Context, saleID string) ([]sale.Item, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, sale_id, product_id, product_name, product_code,
			barcode, quantity, unit_price, discount, total
		FROM sale_items WHERE sale_id = $1`, saleID)
	if err != nil {
		return nil, fmt.Errorf("erro ao buscar itens da venda: %w", err)
	}
	defer rows.Close()

	return scanItemRows(rows)
}

func (r *SaleRepository) findItemsTx(ctx context.Context, tx pgx.Tx, saleID string) ([]sale.Item, error) {
	rows, err := tx.Query(ctx,
		`SELECT id, sale_id, product_id, product_name, product_code,
			barcode, quantity, unit_price, discount, total
		FROM sale_items WHERE sale_id = $1`, saleID)
	if err != nil {
		return nil, fmt.Errorf("erro ao buscar itens da venda: %w", err)
	}
	defer rows.Close()

	return scanItemRows(rows)
}

func (r *SaleRepository) scanSalesWithItems(ctx context.Context, rows pgx.Rows) ([]*sale.Sale, error) {
	sales := make([]*sale.Sale, 0)

	for rows.Next() {
		s, err := scanSale(rows)
		if err != nil {
			return nil, err
		}
		sales = append(sales, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("erro ao ler resultados: %w", err)
	}

	for _, s := range sales {
		items, err := r.findItems(ctx, s.ID)
		if err != nil {
			return nil, err
		}
		s.Items = items
	}

	return sales, nil
}

func scanSale(row pgx.Row) (*sale.Sale, error) {
	var s sale.Sale
	var customerID *string

	err := row.Scan(
		&s.ID, &s.Number, &s.BranchID, &customerID, &s.CustomerName, &s.CPF,
		&s.UserID, &s.Subtotal, &s.Discount, &s.Total, &s.PaymentMethod,
		&s.Status, &s.CreatedAt)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSaleNotFound
		}
		return nil, fmt.Errorf("erro ao buscar venda: %w", err)
	}

	if customerID != nil {
		s.CustomerID = *customerID
	}

	return &s, nil
}

func scanItemRows(rows pgx.Rows) ([]sale.Item, error) {
	items := make([]sale.Item, 0)

	for rows.Next() {
		var it sale.Item

		err := rows.Scan(
			&it.ID, &it.SaleID, &it.ProductID, &it.ProductName,
			&it.ProductCode, &it.Barcode, &it.Quantity, &it.UnitPrice,
			&it.Discount, &it.Total)

		if err != nil {
			return nil, fmt.Errorf("erro ao ler item da venda: %w", err)
		}

		items = append(items, it)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("erro ao ler resultados: %w", err)
	}

	return items, nil
}
