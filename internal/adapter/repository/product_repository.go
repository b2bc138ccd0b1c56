package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmtavares/pdv-varejo/internal/domain/product"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Erros específicos do repositório
var (
	ErrProductNotFound     = errors.New("produto não encontrado")
	ErrProductDuplicateKey = errors.New("produto com mesmo código já existe")
)

const productColumns = `id, branch_id, name, code, barcode, description, category_id,
		supplier_id, cost_price, sale_price, stock, min_stock, max_stock,
		unit, status, created_at, updated_at`

// ProductRepository implementa a interface product.Repository
type ProductRepository struct {
	db *pgxpool.Pool
}

// NewProductRepository cria uma nova instância de ProductRepository
func NewProductRepository(db *pgxpool.Pool) product.Repository {
	return &ProductRepository{
		db: db,
	}
}

// Create implementa product.Repository.Create
func (r *ProductRepository) Create(ctx context.Context, p *product.Product) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO products (
			id, branch_id, name, code, barcode, description, category_id,
			supplier_id, cost_price, sale_price, stock, min_stock, max_stock,
			unit, status, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17
		)`,
		p.ID, p.BranchID, p.Name, p.Code, p.Barcode, p.Description,
		p.CategoryID, p.SupplierID, p.CostPrice, p.SalePrice, p.Stock,
		p.MinStock, p.MaxStock, p.Unit, p.Status, p.CreatedAt, p.UpdatedAt)

	if err != nil {
		if strings.Contains(err.Error(), "duplicate key") {
			return ErrProductDuplicateKey
		}
		return fmt.Errorf("erro ao criar produto: %w", err)
	}

	return nil
}

// FindByID implementa product.Repository.FindByID
func (r *ProductRepository) FindByID(ctx context.Context, id string) (*product.Product, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+productColumns+` FROM products WHERE id = $1`, id)

	return scanProduct(row)
}

// FindByCode implementa product.Repository.FindByCode
func (r *ProductRepository) FindByCode(ctx context.Context, branchID, code string) (*product.Product, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+productColumns+` FROM products WHERE branch_id = $1 AND code = $2`,
		branchID, code)

	return scanProduct(row)
}

// FindByBarcode implementa product.Repository.FindByBarcode
func (r *ProductRepository) FindByBarcode(ctx context.Context, branchID, barcode string) (*product.Product, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+productColumns+` FROM products WHERE branch_id = $1 AND barcode = $2`,
		branchID, barcode)

	return scanProduct(row)
}

// FindByName implementa product.Repository.FindByName
func (r *ProductRepository) FindByName(ctx context.Context, branchID, name string, limit, offset int) ([]*product.Product, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+productColumns+` FROM products
		WHERE branch_id = $1 AND name ILIKE $2
		ORDER BY name ASC
		LIMIT $3 OFFSET $4`,
		branchID, "%"+name+"%", limit, offset)
	if err != nil {
		return nil, fmt.Errorf("erro ao buscar produtos: %w", err)
	}
	defer rows.Close()

	return scanProductRows(rows)
}

// List implementa product.Repository.List
func (r *ProductRepository) List(ctx context.Context, branchID string, limit, offset int) ([]*product.Product, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+productColumns+` FROM products
		WHERE branch_id = $1
		ORDER BY name ASC
		LIMIT $2 OFFSET $3`,
		branchID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("erro ao listar produtos: %w", err)
	}
	defer rows.Close()

	return scanProductRows(rows)
}

// ListBelowMinStock implementa product.Repository.ListBelowMinStock
func (r *ProductRepository) ListBelowMinStock(ctx context.Context, branchID string) ([]*product.Product, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+productColumns+` FROM products
		WHERE branch_id = $1 AND stock < min_stock AND status = 'active'
		ORDER BY name ASC`,
		branchID)
	if err != nil {
		return nil, fmt.Errorf("erro ao listar produtos com estoque baixo: %w", err)
	}
	defer rows.Close()

	return scanProductRows(rows)
}

// Update implementa product.Repository.Update
func (r *ProductRepository) Update(ctx context.Context, p *product.Product) error {
	result, err := r.db.Exec(ctx,
		`UPDATE products SET
			name = $1, barcode = $2, description = $3, category_id = $4,
			supplier_id = $5, cost_price = $6, sale_price = $7,
			min_stock = $8, max_stock = $9, unit = $10, status = $11,
			updated_at = $12
		WHERE id = $13`,
		p.Name, p.Barcode, p.Description, p.CategoryID, p.SupplierID,
		p.CostPrice, p.SalePrice, p.MinStock, p.MaxStock, p.Unit, p.Status,
		p.UpdatedAt, p.ID)

	if err != nil {
		if strings.Contains(err.Error(), "duplicate key") {
			return ErrProductDuplicateKey
		}
		return fmt.Errorf("erro ao atualizar produto: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrProductNotFound
	}

	return nil
}

// UpdateStatus implementa product.Repository.UpdateStatus
func (r *ProductRepository) UpdateStatus(ctx context.Context, id string, status product.Status) error {
	result, err := r.db.Exec(ctx,
		"UPDATE products SET status = $1, updated_at = $2 WHERE id = $3",
		status, time.Now(), id)

	if err != nil {
		return fmt.Errorf("erro ao atualizar status do produto: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrProductNotFound
	}

	return nil
}

// Delete implementa product.Repository.Delete
func (r *ProductRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.Exec(ctx, "DELETE FROM products WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("erro ao excluir produto: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrProductNotFound
	}

	return nil
}

// CountByBranch implementa product.Repository.CountByBranch
func (r *ProductRepository) CountByBranch(ctx context.Context, branchID string) (int, error) {
	var count int
	err := r.db.QueryRow(ctx,
		"SELECT COUNT(*) FROM products WHERE branch_id = $1",
		branchID).Scan(&count)

	if err != nil {
		return 0, fmt.Errorf("erro ao contar produtos: %w", err)
	}

	return count, nil
}

func scanProduct(row pgx.Row) (*product.Product, error) {
	var p product.Product

	err := row.Scan(
		&p.ID, &p.BranchID, &p.Name, &p.Code, &p.Barcode, &p.Description,
		&p.CategoryID, &p.SupplierID, &p.CostPrice, &p.SalePrice, &p.Stock,
		&p.MinStock, &p.MaxStock, &p.Unit, &p.Status, &p.CreatedAt, &p.UpdatedAt)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("erro ao buscar produto: %w", err)
	}

	return &p, nil
}

func scanProductRows(rows pgx.Rows) ([]*product.Product, error) {
	products := make([]*product.Product, 0)

	for rows.Next() {
		var p product.Product

		err := rows.Scan(
			&p.ID, &p.BranchID, &p.Name, &p.Code, &p.Barcode, &p.Description,
			&p.CategoryID, &p.SupplierID, &p.CostPrice, &p.SalePrice, &p.Stock,
			&p.MinStock, &p.MaxStock, &p.Unit, &p.Status, &p.CreatedAt, &p.UpdatedAt)

		if err != nil {
			return nil, fmt.Errorf("erro ao ler produto: %w", err)
		}

		products = append(products, &p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("erro ao ler resultados: %w", err)
	}

	return products, nil
}
