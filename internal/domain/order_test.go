package domain_test

import (
	"testing"

	"github.com/badrothmani2021/merjane/internal/domain"
)

func TestOrderItemIDs_SkipsNilItems(t *testing.T) {
	order := domain.Order{
		ID: "order-1",
		Items: []*domain.Product{
			{ID: "product-1"},
			nil,
			{ID: "product-2"},
		},
	}

	ids := order.ItemIDs()
	if len(ids) != 2 {
		t.Fatalf("expected 2 ids, got %d", len(ids))
	}
	if ids[0] != "product-1" || ids[1] != "product-2" {
		t.Fatalf("unexpected ids: %v", ids)
	}
}

func TestOrderItemIDs_EmptyOrder(t *testing.T) {
	order := domain.Order{ID: "order-1"}
	if ids := order.ItemIDs(); len(ids) != 0 {
		t.Fatalf("expected no ids, got %v", ids)
	}
}
