package domain

import "errors"

var (
	// ErrInvalidProductType — неизвестная, пустая или искажённая метка категории.
	// Дефект клиентских данных: не ретраится и никогда не понижается до категории по умолчанию.
	ErrInvalidProductType = errors.New("invalid product type")
	// Ошибка отсутствующего имени товара.
	ErrProductNameRequired = errors.New("product name is required")
	// Ошибка отрицательного количества на складе.
	ErrAvailableNegative = errors.New("available must be non-negative")
	// Ошибка отрицательного срока поставки.
	ErrLeadTimeNegative = errors.New("lead time must be non-negative")
	// Ошибка пустого или вывернутого сезонного окна.
	ErrSeasonWindowInvalid = errors.New("season start must be before season end")
	// ErrProductNotFound возвращается, если товар не найден в репозитории.
	ErrProductNotFound = errors.New("product not found")
	// ErrProductConflict сигнализирует о попытке создать товар с занятым ID.
	ErrProductConflict = errors.New("product already exists")
	// ErrProductVersionConflict сигнализирует о конфликте версий при сохранении товара.
	ErrProductVersionConflict = errors.New("product version conflict")
	// ErrOrderNotFound возвращается, если заказ не найден в репозитории.
	ErrOrderNotFound = errors.New("order not found")
	// ErrOrderConflict сигнализирует о попытке создать заказ с занятым ID.
	ErrOrderConflict = errors.New("order already exists")
	// ErrNotificationPublish — ошибка при публикации уведомления.
	ErrNotificationPublish = errors.New("notification publish failed")
)

// IsInvalidProductType проверяет, является ли ошибка дефектом метки категории.
func IsInvalidProductType(err error) bool {
	return errors.Is(err, ErrInvalidProductType)
}

// IsVersionConflict проверяет, является ли ошибка конфликтом версий.
func IsVersionConflict(err error) bool {
	return errors.Is(err, ErrProductVersionConflict)
}
