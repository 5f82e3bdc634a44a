package memory

import (
	"sync"
	"time"

	"github.com/badrothmani2021/merjane/internal/domain"
)

// orderRecord хранит заказ в виде ссылок на товары: состояние самих товаров
// живёт в репозитории товаров и гидрируется свежим при каждом чтении.
type orderRecord struct {
	id        string
	itemIDs   []string
	createdAt time.Time
	updatedAt time.Time
}

// orderRepositoryInMemory — простая in-memory реализация OrderRepository.
type orderRepositoryInMemory struct {
	mu       sync.RWMutex
	items    map[string]orderRecord
	products domain.ProductRepository
}

// NewOrderRepository возвращает in-memory репозиторий заказов поверх репозитория товаров.
func NewOrderRepository(products domain.ProductRepository) domain.OrderRepository {
	return &orderRepositoryInMemory{
		items:    make(map[string]orderRecord),
		products: products,
	}
}

// Create сохраняет новый заказ, если ID ещё не занят. Товары позиций должны
// существовать в репозитории товаров.
func (r *orderRepositoryInMemory) Create(order domain.Order) error {
	itemIDs := order.ItemIDs()
	for _, id := range itemIDs {
		if _, err := r.products.Get(id); err != nil {
			return err
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.items[order.ID]; exists {
		return domain.ErrOrderConflict
	}
	r.items[order.ID] = orderRecord{
		id:        order.ID,
		itemIDs:   itemIDs,
		createdAt: order.CreatedAt,
		updatedAt: order.UpdatedAt,
	}
	return nil
}

// Get возвращает заказ с гидрированными позициями или ErrOrderNotFound.
func (r *orderRepositoryInMemory) Get(id string) (domain.Order, error) {
	r.mu.RLock()
	record, ok := r.items[id]
	r.mu.RUnlock()
	if !ok {
		return domain.Order{}, domain.ErrOrderNotFound
	}

	// Повторные вхождения одного товара гидрируются в один экземпляр:
	// мутации по позициям применяются к общему состоянию, а не к копиям.
	hydrated := make(map[string]*domain.Product, len(record.itemIDs))
	items := make([]*domain.Product, 0, len(record.itemIDs))
	for _, productID := range record.itemIDs {
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

	return domain.Order{
		ID:        record.id,
		Items:     items,
		CreatedAt: record.createdAt,
		UpdatedAt: record.updatedAt,
	}, nil
}

var _ domain.OrderRepository = (*orderRepositoryInMemory)(nil)
