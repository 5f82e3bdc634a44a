package kafka

import (
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/badrothmani2021/merjane/internal/domain"
	"github.com/badrothmani2021/merjane/internal/metrics"
)

// publisher — минимальный контракт публикации, который нужен нотификатору.
type publisher interface {
	PublishNotification(event *NotificationEvent) error
}

// Notifier реализует domain.Notifier поверх Kafka: каждое уведомление
// публикуется как событие в топик уведомлений; доставку конечному адресату
// выполняет отдельный worker, читающий этот топик.
type Notifier struct {
	producer publisher
	logger   *log.Entry
	metrics  *metrics.FulfillmentMetrics
}

// NewNotifier создаёт Kafka-нотификатор.
func NewNotifier(producer *Producer, logger *log.Entry) *Notifier {
	if logger == nil {
		logger = log.New().WithField("component", "kafka-notifier")
	}
	return &Notifier{producer: producer, logger: logger}
}

// newNotifierWithPublisher используется в тестах для подмены producer.
func newNotifierWithPublisher(producer publisher, logger *log.Entry) *Notifier {
	if logger == nil {
		logger = log.New().WithField("component", "kafka-notifier")
	}
	return &Notifier{producer: producer, logger: logger}
}

// WithMetrics включает учёт отправленных уведомлений.
func (n *Notifier) WithMetrics(m *metrics.FulfillmentMetrics) *Notifier {
	n.metrics = m
	return n
}

// SendDelayNotification публикует событие задержки поставки.
func (n *Notifier) SendDelayNotification(leadTimeDays int, productName string) error {
	return n.publish(NewDelayEvent(leadTimeDays, productName))
}

// SendExpirationNotification публикует событие истечения срока годности.
func (n *Notifier) SendExpirationNotification(productName string, expiryDate time.Time) error {
	return n.publish(NewExpirationEvent(productName, expiryDate))
}

// SendOutOfStockNotification публикует событие недоступности сезонного товара.
func (n *Notifier) SendOutOfStockNotification(productName string) error {
	return n.publish(NewOutOfStockEvent(productName))
}

func (n *Notifier) publish(event *NotificationEvent) error {
	if err := n.producer.PublishNotification(event); err != nil {
		n.logger.WithError(err).WithFields(log.Fields{
			"kind":    event.Kind,
			"product": event.ProductName,
		}).Error("failed to publish notification")
		return fmt.Errorf("%w: %s", domain.ErrNotificationPublish, event.Kind)
	}

	if n.metrics != nil {
		n.metrics.RecordNotificationSent(string(event.Kind))
	}
	n.logger.WithFields(log.Fields{
		"kind":    event.Kind,
		"product": event.ProductName,
	}).Debug("notification published")
	return nil
}

var _ domain.Notifier = (*Notifier)(nil)
