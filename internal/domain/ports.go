package domain

import "time"

// ProductRepository описывает требования к хранилищу товаров.
type ProductRepository interface {
	// Create сохраняет новый товар. Возвращает ошибку, если запись с таким ID уже существует.
	Create(product Product) error
	// Get возвращает товар по идентификатору или ErrProductNotFound, если его нет.
	Get(id string) (Product, error)
	// List возвращает товары с опциональным ограничением на количество.
	List(limit int) ([]Product, error)
	// Save применяет обновления к товару с учётом optimistic locking:
	// при расхождении версий возвращается ErrProductVersionConflict.
	// При успехе версия товара инкрементируется на месте, поэтому повторное
	// сохранение того же экземпляра в рамках одного прохода не конфликтует.
	Save(product *Product) error
}

// OrderRepository описывает требования к хранилищу заказов.
type OrderRepository interface {
	// Create сохраняет новый заказ со ссылками на существующие товары.
	Create(order Order) error
	// Get возвращает заказ с гидрированными позициями или ErrOrderNotFound.
	// Состояние товаров загружается свежим при каждом вызове.
	Get(id string) (Order, error)
}

// Notifier отправляет уведомления клиенту и операторам. Доставка — fire-and-forget:
// ядро не интерпретирует результат доставки, но ошибка публикации прерывает
// обработку оставшихся позиций заказа.
type Notifier interface {
	// SendDelayNotification сообщает о задержке поставки товара.
	SendDelayNotification(leadTimeDays int, productName string) error
	// SendExpirationNotification сообщает об истечении срока годности.
	SendExpirationNotification(productName string, expiryDate time.Time) error
	// SendOutOfStockNotification сообщает, что товар недоступен до конца сезона.
	SendOutOfStockNotification(productName string) error
}
