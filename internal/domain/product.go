// Package domain содержит модель товара и заказа, контракты хранилищ
// и нотификатора, а также ошибки-сентинелы уровня домена.
package domain

import (
	"fmt"
	"strings"
	"time"
)

// ProductType — канонический тег категории товара. Категория определяет,
// какое правило доступности применяется к позиции заказа.
type ProductType string

const (
	// ProductTypeStandard — обычный складской товар.
	ProductTypeStandard ProductType = "standard"
	// ProductTypeExpirable — товар с ограниченным сроком годности.
	ProductTypeExpirable ProductType = "expirable"
	// ProductTypeSeasonal — товар, продаваемый только внутри сезонного окна.
	ProductTypeSeasonal ProductType = "seasonal"
)

// ParseProductType канонизирует сырую метку категории: пробелы по краям
// и регистр не учитываются. Историческая метка "normal" считается синонимом
// standard. Неизвестная или пустая метка — ErrInvalidProductType.
func ParseProductType(label string) (ProductType, error) {
	switch strings.ToLower(strings.TrimSpace(label)) {
	case "standard", "normal":
		return ProductTypeStandard, nil
	case "expirable":
		return ProductTypeExpirable, nil
	case "seasonal":
		return ProductTypeSeasonal, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidProductType, label)
	}
}

// Product представляет товар каталога. Type хранит сырую метку категории,
// как её прислал клиент; канонизация выполняется на границе выбора правила.
type Product struct {
	ID           string
	Name         string
	Type         string
	Available    int
	LeadTimeDays int
	ExpiryDate   *time.Time
	SeasonStart  *time.Time
	SeasonEnd    *time.Time
	Version      int64
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// InStock сообщает, есть ли товар на складе.
func (p *Product) InStock() bool {
	return p.Available > 0
}

// NotExpired сообщает, годен ли товар на дату today: срок годности должен
// быть задан и лежать строго позже today. Отсутствующая дата трактуется
// как просроченный товар.
func (p *Product) NotExpired(today time.Time) bool {
	return p.ExpiryDate != nil && p.ExpiryDate.After(today)
}

// InSeason сообщает, попадает ли today в сезонное окно [SeasonStart, SeasonEnd).
// Начало включительно, конец исключительно. Отсутствующая граница окна
// означает, что товар вне сезона.
func (p *Product) InSeason(today time.Time) bool {
	if p.SeasonStart == nil || p.SeasonEnd == nil {
		return false
	}
	return !today.Before(*p.SeasonStart) && today.Before(*p.SeasonEnd)
}

// ValidateInvariants проверяет инварианты товара и возвращает все нарушения.
func (p *Product) ValidateInvariants() []error {
	var errs []error

	if strings.TrimSpace(p.Name) == "" {
		errs = append(errs, ErrProductNameRequired)
	}
	if _, err := ParseProductType(p.Type); err != nil {
		errs = append(errs, err)
	}
	if p.Available < 0 {
		errs = append(errs, ErrAvailableNegative)
	}
	if p.LeadTimeDays < 0 {
		errs = append(errs, ErrLeadTimeNegative)
	}
	if p.SeasonStart != nil && p.SeasonEnd != nil && !p.SeasonStart.Before(*p.SeasonEnd) {
		errs = append(errs, ErrSeasonWindowInvalid)
	}

	return errs
}
