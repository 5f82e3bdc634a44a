package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/badrothmani2021/merjane/internal/domain"
)

type orderRepository struct {
	db       *sql.DB
	products domain.ProductRepository
}

// NewOrderRepository создаёт PostgreSQL-реализацию OrderRepository.
// Позиции заказа хранятся как ссылки на товары и гидрируются свежим
// состоянием через репозиторий товаров при каждом чтении.
func NewOrderRepository(store *Store, products domain.ProductRepository) domain.OrderRepository {
	return &orderRepository{db: store.DB(), products: products}
}

func (r *orderRepository) Create(order domain.Order) error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO orders (id, created_at, updated_at) VALUES ($1,$2,$3)
	`, order.ID, order.CreatedAt, order.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrOrderConflict
		}
		return fmt.Errorf("insert order: %w", err)
	}

	for position, productID := range order.ItemIDs() {
		if _, err = tx.ExecContext(ctx, `
			INSERT INTO order_items (order_id, position, product_id) VALUES ($1,$2,$3)
		`, order.ID, position, productID); err != nil {
			return fmt.Errorf("insert order item: %w", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit create order: %w", err)
	}

	return nil
}

func (r *orderRepository) Get(id string) (domain.Order, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	var order domain.Order
	err := r.db.QueryRowContext(ctx, `
		SELECT id, created_at, updated_at FROM orders WHERE id = $1
	`, id).Scan(&order.ID, &order.CreatedAt, &order.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Order{}, domain.ErrOrderNotFound
		}
		return domain.Order{}, fmt.Errorf("select order: %w", err)
	}

	productIDs, err := r.loadItemIDs(ctx, order.ID)
	if err != nil {
		return domain.Order{}, err
	}

	// Повторные вхождения одного товара гидрируются в общий экземпляр.
	hydrated := make(map[string]*domain.Product, len(productIDs))
	items := make([]*domain.Product, 0, len(productIDs))
	for _, productID := range productIDs {
		if p, ok := hydrated[productID]; ok {
			items = append(items, p)
			continue
		}
		product, err := r.products.Get(productID)
		if err != nil {
			return domain.Order{}, err
		}
		p := product
		hydrated[productID] = &p
		items = append(items, &p)
	}
	order.Items = items

	return order, nil
}

func (r *orderRepository) loadItemIDs(ctx context.Context, orderID string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT product_id
		FROM order_items
		WHERE order_id = $1
		ORDER BY position ASC
	`, orderID)
	if err != nil {
		return nil, fmt.Errorf("load order items: %w", err)
	}
	defer rows.Close()

	ids := make([]string, 0)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan order item: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate order items: %w", err)
	}

	return ids, nil
}

var _ domain.OrderRepository = (*orderRepository)(nil)
