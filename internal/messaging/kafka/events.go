package kafka

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// NotificationKind определяет вид уведомления
type NotificationKind string

const (
	// NotificationKindDelay — поставка товара задерживается на lead time.
	NotificationKindDelay NotificationKind = "notification.delay"
	// NotificationKindExpiration — срок годности товара истёк.
	NotificationKindExpiration NotificationKind = "notification.expiration"
	// NotificationKindOutOfStock — товар недоступен до конца сезона.
	NotificationKindOutOfStock NotificationKind = "notification.out_of_stock"
)

// Topics для Kafka
const (
	TopicNotifications   = "merjane.notifications"
	TopicDeadLetterQueue = "merjane.notifications.dlq" // Dead Letter Queue для failed messages
)

// Kafka headers для retry логики
const (
	HeaderRetryCount    = "x-retry-count"
	HeaderOriginalTopic = "x-original-topic"
	HeaderErrorMessage  = "x-error-message"
	HeaderFailedAt      = "x-failed-at"
)

// NotificationEvent представляет событие уведомления клиента/операторов.
// Вид уведомления определяется формой payload: delay несёт lead time,
// expiration — дату истечения срока, out-of-stock — только имя товара.
type NotificationEvent struct {
	ID           string           `json:"id"`
	Kind         NotificationKind `json:"kind"`
	ProductName  string           `json:"product_name"`
	LeadTimeDays int              `json:"lead_time_days,omitempty"`
	ExpiryDate   *time.Time       `json:"expiry_date,omitempty"`
	OccurredAt   time.Time        `json:"occurred_at"`
}

// NewDelayEvent создаёт событие задержки поставки.
func NewDelayEvent(leadTimeDays int, productName string) *NotificationEvent {
	return &NotificationEvent{
		ID:           uuid.NewString(),
		Kind:         NotificationKindDelay,
		ProductName:  productName,
		LeadTimeDays: leadTimeDays,
		OccurredAt:   time.Now().UTC(),
	}
}

// NewExpirationEvent создаёт событие истечения срока годности.
func NewExpirationEvent(productName string, expiryDate time.Time) *NotificationEvent {
	return &NotificationEvent{
		ID:          uuid.NewString(),
		Kind:        NotificationKindExpiration,
		ProductName: productName,
		ExpiryDate:  &expiryDate,
		OccurredAt:  time.Now().UTC(),
	}
}

// NewOutOfStockEvent создаёт событие недоступности сезонного товара.
func NewOutOfStockEvent(productName string) *NotificationEvent {
	return &NotificationEvent{
		ID:          uuid.NewString(),
		Kind:        NotificationKindOutOfStock,
		ProductName: productName,
		OccurredAt:  time.Now().UTC(),
	}
}

// DeadLetter — уведомление, которое worker не смог обработать после всех
// retry. Payload хранится как raw JSON: в DLQ попадают и сообщения, которые
// не распарсились в NotificationEvent.
type DeadLetter struct {
	ID                string          `json:"id"`
	OriginalTopic     string          `json:"original_topic"`
	OriginalPartition int32           `json:"original_partition"`
	OriginalOffset    int64           `json:"original_offset"`
	Key               string          `json:"key"`
	Payload           json.RawMessage `json:"payload"`
	ErrorMessage      string          `json:"error_message"`
	RetryCount        int             `json:"retry_count"`
	FailedAt          time.Time       `json:"failed_at"`
}
