package availability

import (
	"time"

	"github.com/badrothmani2021/merjane/internal/domain"
)

// standardRule обрабатывает обычные складские товары.
type standardRule struct {
	products domain.ProductRepository
	notifier domain.Notifier
}

// NewStandardRule возвращает правило для категории standard.
func NewStandardRule(products domain.ProductRepository, notifier domain.Notifier) Rule {
	return &standardRule{products: products, notifier: notifier}
}

// Apply: товар доступен ⇔ Available > 0.
// Доступен — списываем единицу и сохраняем. Недоступен при LeadTimeDays > 0 —
// сохраняем без изменения количества и уведомляем о задержке. Недоступен при
// нулевом сроке поставки — ни записи, ни уведомления.
func (r *standardRule) Apply(product *domain.Product, _ time.Time) error {
	if product.InStock() {
		product.Available--
		return r.products.Save(product)
	}

	if product.LeadTimeDays <= 0 {
		return nil
	}

	if err := r.products.Save(product); err != nil {
		return err
	}
	return r.notifier.SendDelayNotification(product.LeadTimeDays, product.Name)
}

var _ Rule = (*standardRule)(nil)
