// Package fulfillment содержит движок обработки заказа: обход позиций,
// выбор правила доступности по категории и применение правила к товару.
package fulfillment

import (
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/badrothmani2021/merjane/internal/domain"
	"github.com/badrothmani2021/merjane/internal/metrics"
	"github.com/badrothmani2021/merjane/internal/service/availability"
)

// Clock отдаёт текущую дату; подменяется в тестах.
type Clock func() time.Time

// Processor обходит позиции заказа и применяет к каждой правило её категории.
// Политика ошибок — fail-fast: первая ошибка (неизвестная категория, отказ
// хранилища или нотификатора) прерывает обработку оставшихся позиций; уже
// сохранённые мутации предыдущих позиций не компенсируются.
type Processor struct {
	selector *availability.Selector
	logger   *log.Entry
	metrics  *metrics.FulfillmentMetrics
	now      Clock
}

// NewProcessor создаёт движок обработки заказов.
func NewProcessor(selector *availability.Selector, logger *log.Entry) *Processor {
	return newProcessor(selector, logger, metrics.NewFulfillmentMetrics())
}

// NewProcessorWithoutMetrics создаёт движок без метрик (для тестов).
func NewProcessorWithoutMetrics(selector *availability.Selector, logger *log.Entry) *Processor {
	return newProcessor(selector, logger, nil)
}

func newProcessor(selector *availability.Selector, logger *log.Entry, m *metrics.FulfillmentMetrics) *Processor {
	if logger == nil {
		logger = log.New().WithField("component", "fulfillment")
	}
	return &Processor{
		selector: selector,
		logger:   logger,
		metrics:  m,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// WithClock подменяет источник текущей даты. Правила получают дату от движка
// и сами к часам не обращаются.
func (p *Processor) WithClock(clock Clock) *Processor {
	if clock != nil {
		p.now = clock
	}
	return p
}

// Process обрабатывает заказ позиция за позицией.
// Повторный вызов не идемпотентен: каждая обработка списывает по единице
// доступного остатка на позицию.
func (p *Processor) Process(order *domain.Order) error {
	if order == nil || order.Items == nil {
		p.logger.Warn("received nil order or order with nil items")
		return nil
	}

	start := p.now()
	today := start
	logger := p.logger.WithField("order_id", order.ID)
	logger.Info("processing order")

	if p.metrics != nil {
		defer func() {
			p.metrics.RecordOrderDuration(time.Since(start))
		}()
	}

	for _, item := range order.Items {
		if item == nil {
			logger.Warn("encountered nil item in order, skipping")
			continue
		}

		if err := p.processItem(item, today, logger); err != nil {
			if p.metrics != nil {
				p.metrics.RecordOrderFailed()
			}
			return err
		}
	}

	if p.metrics != nil {
		p.metrics.RecordOrderProcessed()
	}
	logger.Info("completed processing order")
	return nil
}

func (p *Processor) processItem(item *domain.Product, today time.Time, logger *log.Entry) error {
	rule, err := p.selector.Select(item.Type)
	if err != nil {
		logger.WithError(err).WithField("product_id", item.ID).Error("cannot resolve availability rule")
		if p.metrics != nil {
			p.metrics.RecordInvalidProductType()
		}
		return err
	}

	if err := rule.Apply(item, today); err != nil {
		logger.WithError(err).WithFields(log.Fields{
			"product_id":   item.ID,
			"product_type": item.Type,
		}).Error("availability rule failed")
		return err
	}

	if p.metrics != nil {
		// Метка метрики — канонический тег, чтобы регистр не плодил серии.
		productType, _ := domain.ParseProductType(item.Type)
		p.metrics.RecordItemProcessed(string(productType))
	}
	logger.WithFields(log.Fields{
		"product_id":   item.ID,
		"product_type": item.Type,
	}).Debug("processed order item")
	return nil
}
