package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// FulfillmentMetrics содержит метрики обработки заказов.
type FulfillmentMetrics struct {
	// Счётчики заказов
	ordersProcessed prometheus.Counter
	ordersFailed    prometheus.Counter

	// Счётчики позиций и уведомлений
	itemsProcessed    *prometheus.CounterVec
	notificationsSent *prometheus.CounterVec
	invalidTypes      prometheus.Counter

	// Гистограмма времени обработки заказа
	orderDuration prometheus.Histogram
}

// NewFulfillmentMetrics создаёт новый экземпляр метрик обработки заказов.
func NewFulfillmentMetrics() *FulfillmentMetrics {
	return newFulfillmentMetricsWithRegisterer(prometheus.DefaultRegisterer)
}

func newFulfillmentMetricsWithRegisterer(registerer prometheus.Registerer) *FulfillmentMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	return &FulfillmentMetrics{
		ordersProcessed: registerCounter(registerer, prometheus.CounterOpts{
			Name: "merjane_orders_processed_total",
			Help: "Total number of orders processed successfully",
		}),
		ordersFailed: registerCounter(registerer, prometheus.CounterOpts{
			Name: "merjane_orders_failed_total",
			Help: "Total number of orders aborted on the first failing item",
		}),
		itemsProcessed: registerCounterVec(registerer, prometheus.CounterOpts{
			Name: "merjane_order_items_processed_total",
			Help: "Total number of order items processed, by product type",
		}, []string{"product_type"}),
		notificationsSent: registerCounterVec(registerer, prometheus.CounterOpts{
			Name: "merjane_notifications_sent_total",
			Help: "Total number of notifications sent, by kind",
		}, []string{"kind"}),
		invalidTypes: registerCounter(registerer, prometheus.CounterOpts{
			Name: "merjane_invalid_product_type_total",
			Help: "Total number of order items rejected due to an unknown product type",
		}),
		orderDuration: registerHistogram(registerer, prometheus.HistogramOpts{
			Name:    "merjane_order_processing_duration_seconds",
			Help:    "Duration of order processing in seconds",
			Buckets: prometheus.DefBuckets,
		}),
	}
}

func registerCounter(registerer prometheus.Registerer, opts prometheus.CounterOpts) prometheus.Counter {
	collector := prometheus.NewCounter(opts)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(prometheus.Counter)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register counter %q: %v", opts.Name, err))
	}
	return collector
}

func registerCounterVec(registerer prometheus.Registerer, opts prometheus.CounterOpts, labels []string) *prometheus.CounterVec {
	collector := prometheus.NewCounterVec(opts, labels)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(*prometheus.CounterVec)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register counter vec %q: %v", opts.Name, err))
	}
	return collector
}

func registerHistogram(registerer prometheus.Registerer, opts prometheus.HistogramOpts) prometheus.Histogram {
	collector := prometheus.NewHistogram(opts)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(prometheus.Histogram)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register histogram %q: %v", opts.Name, err))
	}
	return collector
}

// RecordOrderProcessed увеличивает счётчик успешно обработанных заказов.
func (m *FulfillmentMetrics) RecordOrderProcessed() {
	m.ordersProcessed.Inc()
}

// RecordOrderFailed увеличивает счётчик прерванных заказов.
func (m *FulfillmentMetrics) RecordOrderFailed() {
	m.ordersFailed.Inc()
}

// RecordItemProcessed увеличивает счётчик обработанных позиций по типу товара.
func (m *FulfillmentMetrics) RecordItemProcessed(productType string) {
	m.itemsProcessed.WithLabelValues(productType).Inc()
}

// RecordNotificationSent увеличивает счётчик отправленных уведомлений по виду.
func (m *FulfillmentMetrics) RecordNotificationSent(kind string) {
	m.notificationsSent.WithLabelValues(kind).Inc()
}

// RecordInvalidProductType увеличивает счётчик позиций с неизвестной категорией.
func (m *FulfillmentMetrics) RecordInvalidProductType() {
	m.invalidTypes.Inc()
}

// RecordOrderDuration записывает время обработки заказа.
func (m *FulfillmentMetrics) RecordOrderDuration(duration time.Duration) {
	m.orderDuration.Observe(duration.Seconds())
}
