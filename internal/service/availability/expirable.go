package availability

import (
	"time"

	"github.com/badrothmani2021/merjane/internal/domain"
)

// expirableRule обрабатывает скоропортящиеся товары.
type expirableRule struct {
	products domain.ProductRepository
	notifier domain.Notifier
}

// NewExpirableRule возвращает правило для категории expirable.
func NewExpirableRule(products domain.ProductRepository, notifier domain.Notifier) Rule {
	return &expirableRule{products: products, notifier: notifier}
}

// Apply: товар доступен ⇔ Available > 0 и срок годности задан и строго позже today.
// Доступен — списываем единицу и сохраняем. Иначе (просрочен, нет на складе или
// дата отсутствует) — уведомляем об истечении срока, обнуляем остаток и сохраняем.
// При отсутствующей дате в уведомление подставляется today.
func (r *expirableRule) Apply(product *domain.Product, today time.Time) error {
	if product.InStock() && product.NotExpired(today) {
		product.Available--
		return r.products.Save(product)
	}

	expiry := today
	if product.ExpiryDate != nil {
		expiry = *product.ExpiryDate
	}
	if err := r.notifier.SendExpirationNotification(product.Name, expiry); err != nil {
		return err
	}
	product.Available = 0
	return r.products.Save(product)
}

var _ Rule = (*expirableRule)(nil)
