package availability

import (
	"fmt"

	"github.com/badrothmani2021/merjane/internal/domain"
)

// Selector сопоставляет сырую метку категории с правилом доступности.
// Метка канонизируется на этой границе; дальше по стеку ходит только
// типизированный тег, поэтому "неизвестная категория" не может просочиться
// внутрь правил.
type Selector struct {
	standard  Rule
	expirable Rule
	seasonal  Rule
}

// NewSelector собирает селектор с правилами для всех известных категорий.
func NewSelector(products domain.ProductRepository, notifier domain.Notifier) *Selector {
	return &Selector{
		standard:  NewStandardRule(products, notifier),
		expirable: NewExpirableRule(products, notifier),
		seasonal:  NewSeasonalRule(products, notifier),
	}
}

// Select возвращает правило для метки категории (регистронезависимо).
// Отсутствующая, пустая или неизвестная метка — ErrInvalidProductType;
// ошибка поднимается вызывающему и никогда не подменяется правилом по умолчанию.
func (s *Selector) Select(label string) (Rule, error) {
	productType, err := domain.ParseProductType(label)
	if err != nil {
		return nil, err
	}

	switch productType {
	case domain.ProductTypeStandard:
		return s.standard, nil
	case domain.ProductTypeExpirable:
		return s.expirable, nil
	case domain.ProductTypeSeasonal:
		return s.seasonal, nil
	default:
		// Недостижимо, пока ParseProductType и этот switch покрывают один набор тегов.
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidProductType, label)
	}
}
