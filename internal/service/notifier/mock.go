// Package notifier содержит реализации domain.Notifier, не требующие внешней инфраструктуры.
package notifier

import (
	"sync"
	"time"

	"github.com/badrothmani2021/merjane/internal/domain"
)

// SentNotification фиксирует одно отправленное уведомление для проверок в тестах.
type SentNotification struct {
	Kind         string
	ProductName  string
	LeadTimeDays int
	ExpiryDate   time.Time
}

// Виды уведомлений, различаемые по форме payload.
const (
	KindDelay      = "delay"
	KindExpiration = "expiration"
	KindOutOfStock = "out_of_stock"
)

// MockNotifier — конфигурируемая заглушка Notifier для тестов и локальной разработки.
type MockNotifier struct {
	DelayErr      error
	ExpirationErr error
	OutOfStockErr error

	mu   sync.Mutex
	sent []SentNotification
}

// NewMockNotifier возвращает mock с успешным сценарием по умолчанию.
func NewMockNotifier() *MockNotifier {
	return &MockNotifier{}
}

// SendDelayNotification возвращает заранее настроенную ошибку и записывает вызов.
func (m *MockNotifier) SendDelayNotification(leadTimeDays int, productName string) error {
	if m.DelayErr != nil {
		return m.DelayErr
	}
	m.record(SentNotification{Kind: KindDelay, ProductName: productName, LeadTimeDays: leadTimeDays})
	return nil
}

// SendExpirationNotification возвращает заранее настроенную ошибку и записывает вызов.
func (m *MockNotifier) SendExpirationNotification(productName string, expiryDate time.Time) error {
	if m.ExpirationErr != nil {
		return m.ExpirationErr
	}
	m.record(SentNotification{Kind: KindExpiration, ProductName: productName, ExpiryDate: expiryDate})
	return nil
}

// SendOutOfStockNotification возвращает заранее настроенную ошибку и записывает вызов.
func (m *MockNotifier) SendOutOfStockNotification(productName string) error {
	if m.OutOfStockErr != nil {
		return m.OutOfStockErr
	}
	m.record(SentNotification{Kind: KindOutOfStock, ProductName: productName})
	return nil
}

// Sent возвращает копию списка отправленных уведомлений.
func (m *MockNotifier) Sent() []SentNotification {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]SentNotification, len(m.sent))
	copy(out, m.sent)
	return out
}

func (m *MockNotifier) record(n SentNotification) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, n)
}

var _ domain.Notifier = (*MockNotifier)(nil)
