package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"fitclub_backend/internal/models"
)

// ProductRepository defines the interface for inventory product database operations.
type ProductRepository interface {
	CreateProduct(executor SQLExecutor, product *models.Product) (*models.Product, error)
	GetProductByID(id int64) (*models.Product, error)
	GetProducts(page, pageSize int, category *string, searchTerm *string) ([]models.Product, int, error)
	UpdateProduct(executor SQLExecutor, id int64, fields *Fields) (*models.Product, error)
	DeleteProduct(executor SQLExecutor, id int64) error
}

type productRepository struct {
	db *sql.DB
}

// NewProductRepository creates a new instance of ProductRepository.
func NewProductRepository(db *sql.DB) ProductRepository {
	return &productRepository{db: db}
}

const productColumns = `product_id, name, category, price, stock_quantity, created_at, updated_at`

func scanProduct(row scanner) (*models.Product, error) {
	var p models.Product
	var category sql.NullString

	err := row.Scan(&p.ProductID, &p.Name, &category, &p.Price, &p.StockQuantity, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if category.Valid {
		p.Category = &category.String
	}
	return &p, nil
}

// CreateProduct inserts a new inventory item.
func (r *productRepository) CreateProduct(executor SQLExecutor, product *models.Product) (*models.Product, error) {
	fields := (&Fields{}).
		Set("name", product.Name).
		Set("price", product.Price).
		Set("stockQuantity", product.StockQuantity)
	fields.SetIf(product.Category != nil, "category", product.Category)

	query, args, err := BuildInsertQuery("products", fields)
	if err != nil {
		return nil, err
	}
	query = strings.Replace(query, "RETURNING *", "RETURNING "+productColumns, 1)

	created, err := scanProduct(executor.QueryRow(query, args...))
	if err != nil {
		return nil, fmt.Errorf("%w: creating product: %v", ErrDatabaseError, err)
	}
	return created, nil
}

// GetProductByID retrieves a product by its ID.
func (r *productRepository) GetProductByID(id int64) (*models.Product, error) {
	query := fmt.Sprintf(`SELECT %s FROM products WHERE product_id = $1`, productColumns)
	product, err := scanProduct(r.db.QueryRow(query, id))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting product by ID %d: %v", ErrDatabaseError, id, err)
	}
	return product, nil
}

// GetProducts retrieves one page of products with optional category filter and
// name search, plus the total matching count. The data and count queries run
// concurrently on the shared pool.
func (r *productRepository) GetProducts(page, pageSize int, category *string, searchTerm *string) ([]models.Product, int, error) {
	var conditions []string
	var args []interface{}
	argCount := 1

	if category != nil && *category != "" {
		conditions = append(conditions, fmt.Sprintf("category = $%d", argCount))
		args = append(args, *category)
		argCount++
	}
	if searchTerm != nil && *searchTerm != "" {
		pattern := "%" + strings.ToLower(*searchTerm) + "%"
		conditions = append(conditions, fmt.Sprintf("LOWER(name) LIKE $%d", argCount))
		args = append(args, pattern)
		argCount++
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
	}

	countQuery := "SELECT COUNT(*) FROM products" + whereClause
	countCh := runCount(r.db, countQuery, args)

	var queryBuilder strings.Builder
	queryBuilder.WriteString(fmt.Sprintf("SELECT %s FROM products", productColumns))
	queryBuilder.WriteString(whereClause)
	queryBuilder.WriteString(" ORDER BY name ASC")
	queryBuilder.WriteString(fmt.Sprintf(" LIMIT $%d OFFSET $%d", argCount, argCount+1))
	pagedArgs := append(append([]interface{}{}, args...), pageSize, (page-1)*pageSize)

	rows, err := r.db.Query(queryBuilder.String(), pagedArgs...)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: querying products: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	products := []models.Product{}
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("%w: scanning product: %v", ErrDatabaseError, err)
		}
		products = append(products, *product)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("%w: iterating product rows: %v", ErrDatabaseError, err)
	}

	count := <-countCh
	if count.err != nil {
		return nil, 0, fmt.Errorf("%w: counting products: %v", ErrDatabaseError, count.err)
	}

	return products, count.total, nil
}

// UpdateProduct applies a partial update built from the supplied fields.
func (r *productRepository) UpdateProduct(executor SQLExecutor, id int64, fields *Fields) (*models.Product, error) {
	query, args, err := BuildUpdateQuery("products", fields, "", id)
	if err != nil {
		return nil, err
	}
	query = strings.Replace(query, "RETURNING *", "RETURNING "+productColumns, 1)

	updated, err := scanProduct(executor.QueryRow(query, args...))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: updating product ID %d: %v", ErrDatabaseError, id, err)
	}
	return updated, nil
}

// DeleteProduct removes a product from the database.
func (r *productRepository) DeleteProduct(executor SQLExecutor, id int64) error {
	result, err := executor.Exec(`DELETE FROM products WHERE product_id = $1`, id)
	if err != nil {
		return fmt.Errorf("%w: deleting product ID %d: %v", ErrDatabaseError, id, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: getting rows affected for deleting product ID %d: %v", ErrDatabaseError, id, err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
