package domain

import "time"

// Order агрегирует заказ клиента. Позиция заказа — это ссылка на товар;
// каждое вхождение означает запрос одной единицы. Заказ без позиций валиден
// и обрабатывается как no-op.
type Order struct {
	ID        string
	Items     []*Product
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ItemIDs возвращает идентификаторы товаров заказа, пропуская пустые позиции.
func (o *Order) ItemIDs() []string {
	ids := make([]string, 0, len(o.Items))
	for _, item := range o.Items {
		if item == nil {
			continue
		}
		ids = append(ids, item.ID)
	}
	return ids
}
