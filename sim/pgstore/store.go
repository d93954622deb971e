// Package pgstore implements the engine's Repository contract over
// PostgreSQL using pgx.
package pgstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/retail-sim/retail-sim/sim"
)

var _ sim.Repository = (*Store)(nil)

// Store is the PostgreSQL-backed repository.
type Store struct {
	pool *pgxpool.Pool
}

// New wraps an open connection pool.
func New(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

const schema = `
CREATE TABLE IF NOT EXISTS products (
    product_id         BIGINT PRIMARY KEY,
    name               TEXT NOT NULL,
    manufacturer       TEXT NOT NULL,
    price              BIGINT NOT NULL,
    store_quantity     INT NOT NULL DEFAULT 0,
    warehouse_quantity INT NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS sales (
    sale_id      BIGSERIAL PRIMARY KEY,
    sale_date    TIMESTAMPTZ NOT NULL,
    total_amount BIGINT NOT NULL
);

CREATE TABLE IF NOT EXISTS sale_items (
    sale_item_id BIGSERIAL PRIMARY KEY,
    sale_id      BIGINT NOT NULL REFERENCES sales (sale_id),
    product_id   BIGINT NOT NULL REFERENCES products (product_id),
    quantity     INT NOT NULL,
    unit_price   BIGINT NOT NULL,
    total_price  BIGINT NOT NULL
);

CREATE TABLE IF NOT EXISTS waiting_orders (
    order_id          BIGSERIAL PRIMARY KEY,
    product_id        BIGINT NOT NULL REFERENCES products (product_id),
    quantity          INT NOT NULL,
    request_date      TIMESTAMPTZ NOT NULL,
    status            TEXT NOT NULL DEFAULT 'waiting',
    processed_date    TIMESTAMPTZ,
    processed_sale_id BIGINT
);
`

// EnsureSchema creates the four simulation tables if missing.
func (s *Store) EnsureSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

// SeedProducts upserts the catalog rows.
func (s *Store) SeedProducts(ctx context.Context, products []sim.Product) error {
	for _, p := range products {
		_, err := s.pool.Exec(ctx, `
			INSERT INTO products (product_id, name, manufacturer, price, store_quantity, warehouse_quantity)
			VALUES ($1, $2, $3, $4, $5, $6)
			ON CONFLICT (product_id) DO UPDATE
			SET name = EXCLUDED.name, manufacturer = EXCLUDED.manufacturer, price = EXCLUDED.price,
			    store_quantity = EXCLUDED.store_quantity, warehouse_quantity = EXCLUDED.warehouse_quantity`,
			p.ID, p.Name, p.Manufacturer, p.Price, p.StoreQty, p.WarehouseQty,
		)
		if err != nil {
			return fmt.Errorf("seed product %d: %w", p.ID, err)
		}
	}
	return nil
}

func (s *Store) ListProducts(ctx context.Context) ([]sim.Product, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT product_id, name, manufacturer, price, store_quantity, warehouse_quantity
		FROM products ORDER BY product_id`)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	var out []sim.Product
	for rows.Next() {
		var p sim.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Manufacturer, &p.Price, &p.StoreQty, &p.WarehouseQty); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *Store) GetProduct(ctx context.Context, id int64) (sim.Product, error) {
	var p sim.Product
	err := s.pool.QueryRow(ctx, `
		SELECT product_id, name, manufacturer, price, store_quantity, warehouse_quantity
		FROM products WHERE product_id = $1`, id,
	).Scan(&p.ID, &p.Name, &p.Manufacturer, &p.Price, &p.StoreQty, &p.WarehouseQty)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return sim.Product{}, fmt.Errorf("product %d: %w", id, sim.ErrNotFound)
		}
		return sim.Product{}, fmt.Errorf("get product %d: %w", id, err)
	}
	return p, nil
}

func (s *Store) UpdateInventory(ctx context.Context, id int64, storeQty, warehouseQty int) error {
	cmd, err := s.pool.Exec(ctx, `
		UPDATE products SET store_quantity = $2, warehouse_quantity = $3 WHERE product_id = $1`,
		id, storeQty, warehouseQty)
	if err != nil {
		return fmt.Errorf("update inventory %d: %w", id, err)
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("product %d: %w", id, sim.ErrNotFound)
	}
	return nil
}

func (s *Store) CreateSale(ctx context.Context, totalAmount int64, at time.Time) (int64, error) {
	var id int64
	err := s.pool.QueryRow(ctx, `
		INSERT INTO sales (sale_date, total_amount) VALUES ($1, $2) RETURNING sale_id`,
		at, totalAmount,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("create sale: %w", err)
	}
	return id, nil
}

func (s *Store) AppendSaleItem(ctx context.Context, item sim.SaleItem) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO sale_items (sale_id, product_id, quantity, unit_price, total_price)
		VALUES ($1, $2, $3, $4, $5)`,
		item.SaleID, item.ProductID, item.Quantity, item.UnitPrice, item.TotalPrice)
	if err != nil {
		return fmt.Errorf("append sale item: %w", err)
	}
	return nil
}

func (s *Store) ListSaleItems(ctx context.Context, saleID int64) ([]sim.SaleItem, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT sale_item_id, sale_id, product_id, quantity, unit_price, total_price
		FROM sale_items WHERE sale_id = $1 ORDER BY sale_item_id`, saleID)
	if err != nil {
		return nil, fmt.Errorf("list sale items: %w", err)
	}
	defer rows.Close()

	var out []sim.SaleItem
	for rows.Next() {
		var item sim.SaleItem
		if err := rows.Scan(&item.ID, &item.SaleID, &item.ProductID, &item.Quantity, &item.UnitPrice, &item.TotalPrice); err != nil {
			return nil, fmt.Errorf("scan sale item: %w", err)
		}
		out = append(out, item)
	}
	return out, rows.Err()
}

func (s *Store) ListSales(ctx context.Context) ([]sim.Sale, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT sale_id, sale_date, total_amount FROM sales ORDER BY sale_id`)
	if err != nil {
		return nil, fmt.Errorf("list sales: %w", err)
	}
	defer rows.Close()

	var out []sim.Sale
	for rows.Next() {
		var sale sim.Sale
		if err := rows.Scan(&sale.ID, &sale.SaleDate, &sale.TotalAmount); err != nil {
			return nil, fmt.Errorf("scan sale: %w", err)
		}
		out = append(out, sale)
	}
	return out, rows.Err()
}

func (s *Store) CreateWaitingOrder(ctx context.Context, productID int64, qty int, at time.Time) (int64, error) {
	var id int64
	err := s.pool.QueryRow(ctx, `
		INSERT INTO waiting_orders (product_id, quantity, request_date, status)
		VALUES ($1, $2, $3, 'waiting') RETURNING order_id`,
		productID, qty, at,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("create waiting order: %w", err)
	}
	return id, nil
}

func (s *Store) ListWaitingOrders(ctx context.Context) ([]sim.WaitingOrder, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT order_id, product_id, quantity, request_date, status, processed_date, processed_sale_id
		FROM waiting_orders WHERE status = 'waiting'
		ORDER BY request_date ASC, order_id ASC`)
	if err != nil {
		return nil, fmt.Errorf("list waiting orders: %w", err)
	}
	defer rows.Close()

	var out []sim.WaitingOrder
	for rows.Next() {
		var o sim.WaitingOrder
		if err := rows.Scan(&o.ID, &o.ProductID, &o.Quantity, &o.RequestDate, &o.Status, &o.ProcessedDate, &o.ProcessedSaleID); err != nil {
			return nil, fmt.Errorf("scan waiting order: %w", err)
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

func (s *Store) MarkWaitingOrderProcessed(ctx context.Context, orderID, saleID int64, at time.Time) error {
	cmd, err := s.pool.Exec(ctx, `
		UPDATE waiting_orders
		SET status = 'processed', processed_date = $2, processed_sale_id = $3
		WHERE order_id = $1 AND status = 'waiting'`,
		orderID, at, saleID)
	if err != nil {
		return fmt.Errorf("mark waiting order %d: %w", orderID, err)
	}
	if cmd.RowsAffected() > 0 {
		return nil
	}

	// No row touched: either already processed (idempotent no-op) or the
	// id does not exist.
	var exists bool
	if err := s.pool.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM waiting_orders WHERE order_id = $1)`, orderID,
	).Scan(&exists); err != nil {
		return fmt.Errorf("check waiting order %d: %w", orderID, err)
	}
	if !exists {
		return fmt.Errorf("waiting order %d: %w", orderID, sim.ErrNotFound)
	}
	return nil
}

func (s *Store) ClearWaitingOrders(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, `DELETE FROM waiting_orders`); err != nil {
		return fmt.Errorf("clear waiting orders: %w", err)
	}
	return nil
}

func (s *Store) ClearSales(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, `DELETE FROM sales`); err != nil {
		return fmt.Errorf("clear sales: %w", err)
	}
	return nil
}

func (s *Store) ClearSaleItems(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, `DELETE FROM sale_items`); err != nil {
		return fmt.Errorf("clear sale items: %w", err)
	}
	return nil
}
