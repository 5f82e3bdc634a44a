package app

import (
	log "github.com/sirupsen/logrus"

	"github.com/badrothmani2021/merjane/internal/domain"
	"github.com/badrothmani2021/merjane/internal/service/notifier"
	"github.com/badrothmani2021/merjane/internal/storage/memory"
)

// Dependencies содержит все зависимости приложения.
type Dependencies struct {
	Products domain.ProductRepository
	Orders   domain.OrderRepository
	Notifier domain.Notifier
	Logger   *log.Entry
}

// NewDependencies создаёт зависимости по умолчанию: in-memory хранилище
// и mock-нотификатор. Run подменяет их на PostgreSQL и Kafka, когда
// соответствующее окружение настроено.
// NOTE: mock-нотификатор пишет уведомления только в память процесса;
// в production должен быть настроен KAFKA_BROKERS.
func NewDependencies(logger *log.Entry) *Dependencies {
	if logger == nil {
		logger = log.WithField("component", "app")
	}

	products := memory.NewProductRepository()
	return &Dependencies{
		Products: products,
		Orders:   memory.NewOrderRepository(products),
		Notifier: notifier.NewMockNotifier(),
		Logger:   logger,
	}
}
