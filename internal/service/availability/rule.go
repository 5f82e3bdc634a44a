// Package availability реализует правила доступности товара по категориям.
// Каждое правило — чистая политика одной категории: по состоянию товара и
// текущей дате оно решает исход позиции заказа, мутирует товар на месте,
// сохраняет мутацию в хранилище и при необходимости отправляет уведомление.
package availability

import (
	"time"

	"github.com/badrothmani2021/merjane/internal/domain"
)

// Rule — контракт правила доступности одной категории товара.
// Реализация детерминирована относительно (product, today) и не читает
// никакого состояния кроме самого товара и переданной даты.
type Rule interface {
	// Apply применяет правило к товару: мутирует количество/срок поставки,
	// сохраняет товар и отправляет уведомление согласно ветке решения.
	// Ошибка хранилища или нотификатора возвращается наверх как есть.
	Apply(product *domain.Product, today time.Time) error
}
