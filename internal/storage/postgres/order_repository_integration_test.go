package postgres

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/badrothmani2021/merjane/internal/domain"
)

func TestOrderRepositoryIntegration_CreateGet(t *testing.T) {
	store := openPostgresStoreForIntegrationTest(t)
	products := NewProductRepository(store)
	orders := NewOrderRepository(store, products)

	first := integrationProduct()
	second := integrationProduct()
	second.Name = "Milk"
	for _, p := range []domain.Product{first, second} {
		if err := products.Create(p); err != nil {
			t.Fatalf("create product: %v", err)
		}
	}

	now := time.Now().UTC().Truncate(time.Microsecond)
	order := domain.Order{
		ID:        uuid.NewString(),
		Items:     []*domain.Product{{ID: first.ID}, {ID: second.ID}, {ID: first.ID}},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := orders.Create(order); err != nil {
		t.Fatalf("create order: %v", err)
	}

	stored, err := orders.Get(order.ID)
	if err != nil {
		t.Fatalf("get order: %v", err)
	}
	if len(stored.Items) != 3 {
		t.Fatalf("expected 3 items, got %d", len(stored.Items))
	}
	// Порядок позиций сохраняется, дубликаты делят один экземпляр товара.
	if stored.Items[0].Name != "Butter" || stored.Items[1].Name != "Milk" {
		t.Fatalf("unexpected item order: %s, %s", stored.Items[0].Name, stored.Items[1].Name)
	}
	if stored.Items[0] != stored.Items[2] {
		t.Fatal("expected duplicate occurrences to share one product instance")
	}
}

func TestOrderRepositoryIntegration_GetMissing(t *testing.T) {
	store := openPostgresStoreForIntegrationTest(t)
	orders := NewOrderRepository(store, NewProductRepository(store))

	if _, err := orders.Get(uuid.NewString()); err != domain.ErrOrderNotFound {
		t.Fatalf("expected ErrOrderNotFound, got %v", err)
	}
}

func TestOrderRepositoryIntegration_CreateConflict(t *testing.T) {
	store := openPostgresStoreForIntegrationTest(t)
	orders := NewOrderRepository(store, NewProductRepository(store))

	now := time.Now().UTC().Truncate(time.Microsecond)
	order := domain.Order{ID: uuid.NewString(), CreatedAt: now, UpdatedAt: now}
	if err := orders.Create(order); err != nil {
		t.Fatalf("create order: %v", err)
	}
	if err := orders.Create(order); err != domain.ErrOrderConflict {
		t.Fatalf("expected ErrOrderConflict, got %v", err)
	}
}

func TestOrderRepositoryIntegration_EmptyOrder(t *testing.T) {
	store := openPostgresStoreForIntegrationTest(t)
	orders := NewOrderRepository(store, NewProductRepository(store))

	now := time.Now().UTC().Truncate(time.Microsecond)
	order := domain.Order{ID: uuid.NewString(), CreatedAt: now, UpdatedAt: now}
	if err := orders.Create(order); err != nil {
		t.Fatalf("create order: %v", err)
	}

	stored, err := orders.Get(order.ID)
	if err != nil {
		t.Fatalf("get order: %v", err)
	}
	if len(stored.Items) != 0 {
		t.Fatalf("expected empty order, got %d items", len(stored.Items))
	}
}
