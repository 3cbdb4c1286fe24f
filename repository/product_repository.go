package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"pricetracker/models"
)

// ErrNotFound is returned when a product does not exist or is inactive.
var ErrNotFound = errors.New("product not found")

// ProductRepository persists products and their price history.
type ProductRepository struct {
	db *sql.DB
}

func NewProductRepository(db *sql.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

const productColumns = `id, name, url, description, image_url, selector, target_price, current_price,
	notification_email, target_notified, is_active, last_checked, created_at, updated_at`

// Create inserts a new product. The id is written back into p.
func (r *ProductRepository) Create(p *models.Product) error {
	now := time.Now()
	p.CreatedAt = now
	p.UpdatedAt = now
	p.IsActive = true

	query := `
		INSERT INTO products (name, url, description, image_url, selector, target_price, current_price,
			notification_email, target_notified, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id
	`

	err := r.db.QueryRow(query, p.Name, p.URL, p.Description, p.ImageURL, p.Selector,
		p.TargetPrice, p.CurrentPrice, p.NotificationEmail, p.TargetNotified,
		p.IsActive, p.CreatedAt, p.UpdatedAt).Scan(&p.ID)
	if err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}

	return nil
}

// GetByID returns a product by id, active or not.
func (r *ProductRepository) GetByID(id int) (*models.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`

	p, err := scanProduct(r.db.QueryRow(query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get product: %w", err)
	}

	return p, nil
}

// GetAll returns every tracked product, newest first.
func (r *ProductRepository) GetAll() ([]models.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products ORDER BY created_at DESC, id DESC`
	return r.queryProducts(query)
}

// GetActive returns products participating in scheduled polling, in a stable
// order so sweeps are deterministic.
func (r *ProductRepository) GetActive() ([]models.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE is_active = TRUE ORDER BY id`
	return r.queryProducts(query)
}

// Update saves user-editable fields of a product.
func (r *ProductRepository) Update(p *models.Product) error {
	p.UpdatedAt = time.Now()

	query := `
		UPDATE products
		SET name = $1, url = $2, description = $3, image_url = $4, selector = $5,
			target_price = $6, notification_email = $7, is_active = $8, updated_at = $9
		WHERE id = $10
	`

	result, err := r.db.Exec(query, p.Name, p.URL, p.Description, p.ImageURL,
		p.Selector, p.TargetPrice, p.NotificationEmail, p.IsActive, p.UpdatedAt, p.ID)
	if err != nil {
		return fmt.Errorf("failed to update product: %w", err)
	}

	return requireRow(result)
}

// UpdateAfterCheck saves the tracking state mutated by a price check:
// current price, the target-notified latch and the last-checked timestamp.
func (r *ProductRepository) UpdateAfterCheck(p *models.Product) error {
	p.UpdatedAt = time.Now()

	query := `
		UPDATE products
		SET current_price = $1, target_notified = $2, last_checked = $3, updated_at = $4
		WHERE id = $5
	`

	result, err := r.db.Exec(query, p.CurrentPrice, p.TargetNotified, p.LastChecked, p.UpdatedAt, p.ID)
	if err != nil {
		return fmt.Errorf("failed to update product after check: %w", err)
	}

	return requireRow(result)
}

// MarkChecked advances last_checked after a failed fetch or extraction
// attempt, leaving the rest of the tracking state untouched.
func (r *ProductRepository) MarkChecked(id int, at time.Time) error {
	query := `UPDATE products SET last_checked = $1, updated_at = $1 WHERE id = $2`

	result, err := r.db.Exec(query, at, id)
	if err != nil {
		return fmt.Errorf("failed to mark product checked: %w", err)
	}

	return requireRow(result)
}

// Delete removes a product; its price history goes with it via ON DELETE CASCADE.
func (r *ProductRepository) Delete(id int) error {
	result, err := r.db.Exec(`DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}

	return requireRow(result)
}

// AddHistory appends one price observation. History rows are never updated.
func (r *ProductRepository) AddHistory(h *models.PriceHistory) error {
	query := `
		INSERT INTO price_history (product_id, price, recorded_at)
		VALUES ($1, $2, $3)
		RETURNING id
	`

	if err := r.db.QueryRow(query, h.ProductID, h.Price, h.RecordedAt).Scan(&h.ID); err != nil {
		return fmt.Errorf("failed to add price history: %w", err)
	}

	return nil
}

// GetHistory returns price history for a product, newest first.
func (r *ProductRepository) GetHistory(productID, limit int) ([]models.PriceHistory, error) {
	if limit <= 0 {
		limit = 100
	}

	query := `
		SELECT id, product_id, price, recorded_at
		FROM price_history
		WHERE product_id = $1
		ORDER BY recorded_at DESC, id DESC
		LIMIT $2
	`

	rows, err := r.db.Query(query, productID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get price history: %w", err)
	}
	defer rows.Close()

	var history []models.PriceHistory
	for rows.Next() {
		var h models.PriceHistory
		if err := rows.Scan(&h.ID, &h.ProductID, &h.Price, &h.RecordedAt); err != nil {
			return nil, fmt.Errorf("failed to scan price history: %w", err)
		}
		history = append(history, h)
	}

	return history, rows.Err()
}

func (r *ProductRepository) queryProducts(query string, args ...interface{}) ([]models.Product, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	var products []models.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, *p)
	}

	return products, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanProduct(row rowScanner) (*models.Product, error) {
	var p models.Product
	var lastChecked sql.NullTime

	err := row.Scan(
		&p.ID, &p.Name, &p.URL, &p.Description, &p.ImageURL, &p.Selector,
		&p.TargetPrice, &p.CurrentPrice, &p.NotificationEmail, &p.TargetNotified,
		&p.IsActive, &lastChecked, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if lastChecked.Valid {
		t := lastChecked.Time
		p.LastChecked = &t
	}

	return &p, nil
}

func requireRow(result sql.Result) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return nil
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
