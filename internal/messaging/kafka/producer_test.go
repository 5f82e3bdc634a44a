package kafka

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	log "github.com/sirupsen/logrus"
)

func TestProducer_PublishNotification(t *testing.T) {
	mockProducer := mocks.NewSyncProducer(t, nil)
	mockProducer.ExpectSendMessageWithCheckerFunctionAndSucceed(func(value []byte) error {
		var event NotificationEvent
		if err := json.Unmarshal(value, &event); err != nil {
			return err
		}
		if event.Kind != NotificationKindDelay || event.ProductName != "Butter" {
			return errors.New("unexpected event payload")
		}
		return nil
	})

	producer := &Producer{
		producer: mockProducer,
		logger:   log.WithField("component", "kafka-producer-test"),
	}

	if err := producer.PublishNotification(NewDelayEvent(3, "Butter")); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if err := mockProducer.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestProducer_PublishNotification_Error(t *testing.T) {
	mockProducer := mocks.NewSyncProducer(t, nil)
	mockProducer.ExpectSendMessageAndFail(sarama.ErrOutOfBrokers)

	producer := &Producer{
		producer: mockProducer,
		logger:   log.WithField("component", "kafka-producer-test"),
	}

	if err := producer.PublishNotification(NewOutOfStockEvent("Watermelon")); err == nil {
		t.Fatal("expected error, got nil")
	}

	if err := mockProducer.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestProducer_PublishDeadLetter(t *testing.T) {
	mockProducer := mocks.NewSyncProducer(t, nil)
	mockProducer.ExpectSendMessageWithCheckerFunctionAndSucceed(func(value []byte) error {
		var letter DeadLetter
		if err := json.Unmarshal(value, &letter); err != nil {
			return err
		}
		if letter.OriginalTopic != TopicNotifications || letter.ErrorMessage != "delivery failed" {
			return errors.New("unexpected dead letter payload")
		}
		return nil
	})

	producer := &Producer{
		producer: mockProducer,
		logger:   log.WithField("component", "kafka-producer-test"),
	}

	letter := &DeadLetter{
		ID:            "dl-1",
		OriginalTopic: TopicNotifications,
		Key:           "Butter",
		Payload:       json.RawMessage(`{}`),
		ErrorMessage:  "delivery failed",
		RetryCount:    3,
		FailedAt:      time.Now().UTC(),
	}
	if err := producer.PublishDeadLetter(letter); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if err := mockProducer.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestNewDelayEvent(t *testing.T) {
	event := NewDelayEvent(14, "Chocolate")

	if event.Kind != NotificationKindDelay {
		t.Errorf("expected kind %s, got %s", NotificationKindDelay, event.Kind)
	}
	if event.ProductName != "Chocolate" {
		t.Errorf("expected product name Chocolate, got %s", event.ProductName)
	}
	if event.LeadTimeDays != 14 {
		t.Errorf("expected lead time 14, got %d", event.LeadTimeDays)
	}
	if event.ID == "" {
		t.Error("event id should not be empty")
	}

	// Проверяем, что timestamp установлен
	if event.OccurredAt.IsZero() {
		t.Error("occurred_at should not be zero")
	}

	// Проверяем, что timestamp близок к текущему времени
	if time.Since(event.OccurredAt) > time.Second {
		t.Error("occurred_at should be close to current time")
	}
}

func TestNewExpirationEvent(t *testing.T) {
	expiry := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	event := NewExpirationEvent("Milk", expiry)

	if event.Kind != NotificationKindExpiration {
		t.Errorf("expected kind %s, got %s", NotificationKindExpiration, event.Kind)
	}
	if event.ProductName != "Milk" {
		t.Errorf("expected product name Milk, got %s", event.ProductName)
	}
	if event.ExpiryDate == nil || !event.ExpiryDate.Equal(expiry) {
		t.Errorf("expected expiry date %v, got %v", expiry, event.ExpiryDate)
	}
	if event.OccurredAt.IsZero() {
		t.Error("occurred_at should not be zero")
	}
}

func TestNewOutOfStockEvent(t *testing.T) {
	event := NewOutOfStockEvent("Grapes")

	if event.Kind != NotificationKindOutOfStock {
		t.Errorf("expected kind %s, got %s", NotificationKindOutOfStock, event.Kind)
	}
	if event.ProductName != "Grapes" {
		t.Errorf("expected product name Grapes, got %s", event.ProductName)
	}
	if event.LeadTimeDays != 0 {
		t.Errorf("out of stock event should not carry lead time, got %d", event.LeadTimeDays)
	}
	if event.ExpiryDate != nil {
		t.Errorf("out of stock event should not carry expiry date, got %v", event.ExpiryDate)
	}
}
