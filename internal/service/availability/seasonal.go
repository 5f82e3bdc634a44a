package availability

import (
	"time"

	"github.com/badrothmani2021/merjane/internal/domain"
)

// seasonalRule обрабатывает сезонные товары.
type seasonalRule struct {
	products domain.ProductRepository
	notifier domain.Notifier
}

// NewSeasonalRule возвращает правило для категории seasonal.
func NewSeasonalRule(products domain.ProductRepository, notifier domain.Notifier) Rule {
	return &seasonalRule{products: products, notifier: notifier}
}

// Apply: товар доступен ⇔ today ∈ [SeasonStart, SeasonEnd) и Available > 0.
// Доступен — списываем единицу и сохраняем. Иначе ветки в строгом порядке
// старшинства: дозаказ прибудет после закрытия сезона — out-of-stock с
// обнулением остатка; сезон ещё не открыт — out-of-stock без изменения
// количества; просто нет на складе внутри сезона — уведомление о задержке.
func (r *seasonalRule) Apply(product *domain.Product, today time.Time) error {
	if product.InSeason(today) && product.InStock() {
		product.Available--
		return r.products.Save(product)
	}

	arrival := today.AddDate(0, 0, product.LeadTimeDays)

	if product.SeasonEnd != nil && arrival.After(*product.SeasonEnd) {
		if err := r.notifier.SendOutOfStockNotification(product.Name); err != nil {
			return err
		}
		product.Available = 0
		return r.products.Save(product)
	}

	if product.SeasonStart != nil && today.Before(*product.SeasonStart) {
		if err := r.notifier.SendOutOfStockNotification(product.Name); err != nil {
			return err
		}
		return r.products.Save(product)
	}

	if err := r.products.Save(product); err != nil {
		return err
	}
	return r.notifier.SendDelayNotification(product.LeadTimeDays, product.Name)
}

var _ Rule = (*seasonalRule)(nil)
