package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/IBM/sarama"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// NotificationHandler доставляет одно уведомление. Ошибка означает, что
// доставка не удалась и сообщение пойдёт на retry либо в DLQ.
type NotificationHandler func(ctx context.Context, event *NotificationEvent) error

// Consumer читает топик уведомлений как consumer group. Сообщение, которое
// не удалось обработать после maxRetries попыток, уходит в DLQ через dlq.
type Consumer struct {
	group      sarama.ConsumerGroup
	handler    NotificationHandler
	logger     *log.Entry
	wg         sync.WaitGroup
	dlq        *Producer
	maxRetries int
}

// NewConsumer создаёт consumer без DLQ: исчерпанные retry остаются ошибкой.
func NewConsumer(brokers []string, groupID string, handler NotificationHandler, logger *log.Entry) (*Consumer, error) {
	return NewConsumerWithDLQ(brokers, groupID, handler, nil, 3, logger)
}

// NewConsumerWithDLQ создаёт consumer с отправкой исчерпанных сообщений в DLQ.
func NewConsumerWithDLQ(brokers []string, groupID string, handler NotificationHandler, dlq *Producer, maxRetries int, logger *log.Entry) (*Consumer, error) {
	if logger == nil {
		logger = log.New().WithField("component", "kafka-consumer")
	}

	config := sarama.NewConfig()
	config.Consumer.Group.Rebalance.Strategy = sarama.NewBalanceStrategyRoundRobin()
	config.Consumer.Offsets.Initial = sarama.OffsetNewest
	config.Consumer.Return.Errors = true

	group, err := sarama.NewConsumerGroup(brokers, groupID, config)
	if err != nil {
		return nil, fmt.Errorf("create kafka consumer: %w", err)
	}

	return &Consumer{
		group:      group,
		handler:    handler,
		logger:     logger,
		dlq:        dlq,
		maxRetries: maxRetries,
	}, nil
}

// Start запускает чтение топика уведомлений до отмены контекста.
func (c *Consumer) Start(ctx context.Context) error {
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		for {
			// Consume возвращается при каждом rebalance, поэтому цикл.
			if err := c.group.Consume(ctx, []string{TopicNotifications}, c); err != nil {
				c.logger.WithError(err).Error("consume loop error")
			}
			if ctx.Err() != nil {
				return
			}
		}
	}()

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		for err := range c.group.Errors() {
			c.logger.WithError(err).Error("consumer group error")
		}
	}()

	c.logger.WithField("topic", TopicNotifications).Info("kafka consumer started")
	return nil
}

// Stop останавливает consumer и дожидается фоновых горутин.
func (c *Consumer) Stop() error {
	if err := c.group.Close(); err != nil {
		return fmt.Errorf("close kafka consumer: %w", err)
	}
	c.wg.Wait()
	c.logger.Info("kafka consumer stopped")
	return nil
}

// Setup вызывается при старте consumer session.
func (c *Consumer) Setup(sarama.ConsumerGroupSession) error {
	return nil
}

// Cleanup вызывается при завершении consumer session.
func (c *Consumer) Cleanup(sarama.ConsumerGroupSession) error {
	return nil
}

// ConsumeClaim обрабатывает сообщения одной партиции.
func (c *Consumer) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for {
		select {
		case message := <-claim.Messages():
			if message == nil {
				return nil
			}

			if err := c.handleMessage(session.Context(), message); err != nil {
				// Не маркируем: сообщение будет перечитано при следующем claim.
				c.logger.WithError(err).WithFields(log.Fields{
					"partition": message.Partition,
					"offset":    message.Offset,
				}).Error("notification processing failed")
				continue
			}

			session.MarkMessage(message, "")

		case <-session.Context().Done():
			return nil
		}
	}
}

// handleMessage разбирает уведомление и доставляет его через handler.
// Нечитаемый payload считается той же неудачей, что и ошибка доставки:
// после maxRetries оба уходят в DLQ.
func (c *Consumer) handleMessage(ctx context.Context, message *sarama.ConsumerMessage) error {
	attempt := retryCountFrom(message)

	event, err := ParseNotificationEvent(message)
	if err == nil {
		err = c.handler(ctx, event)
	}
	if err == nil {
		return nil
	}

	if attempt < c.maxRetries {
		c.logger.WithError(err).WithFields(log.Fields{
			"offset":      message.Offset,
			"retry_count": attempt,
			"max_retries": c.maxRetries,
		}).Warn("notification failed, will retry")
		return err
	}

	if c.dlq == nil {
		return err
	}

	letter := newDeadLetter(message, err, attempt)
	if dlqErr := c.dlq.PublishDeadLetter(letter); dlqErr != nil {
		c.logger.WithError(dlqErr).Error("failed to move notification to dlq")
		return fmt.Errorf("publish dead letter: %w", dlqErr)
	}

	c.logger.WithFields(log.Fields{
		"offset":      message.Offset,
		"retry_count": attempt,
		"dead_letter": letter.ID,
	}).Info("notification moved to dlq after max retries")
	return nil
}

// retryCountFrom извлекает счётчик попыток из заголовков сообщения.
func retryCountFrom(message *sarama.ConsumerMessage) int {
	for _, header := range message.Headers {
		if string(header.Key) != HeaderRetryCount {
			continue
		}
		if count, err := strconv.Atoi(string(header.Value)); err == nil {
			return count
		}
	}
	return 0
}

// newDeadLetter снимает слепок необработанного сообщения для DLQ.
func newDeadLetter(message *sarama.ConsumerMessage, cause error, retryCount int) *DeadLetter {
	payload := json.RawMessage(message.Value)
	if !json.Valid(message.Value) {
		// Нечитаемый payload сериализуем строкой, чтобы DLQ-запись осталась валидным JSON.
		if quoted, err := json.Marshal(string(message.Value)); err == nil {
			payload = quoted
		}
	}

	return &DeadLetter{
		ID:                uuid.NewString(),
		OriginalTopic:     message.Topic,
		OriginalPartition: message.Partition,
		OriginalOffset:    message.Offset,
		Key:               string(message.Key),
		Payload:           payload,
		ErrorMessage:      cause.Error(),
		RetryCount:        retryCount,
		FailedAt:          time.Now().UTC(),
	}
}

// ParseNotificationEvent разбирает NotificationEvent из сообщения топика.
func ParseNotificationEvent(message *sarama.ConsumerMessage) (*NotificationEvent, error) {
	var event NotificationEvent
	if err := json.Unmarshal(message.Value, &event); err != nil {
		return nil, fmt.Errorf("unmarshal notification event: %w", err)
	}
	return &event, nil
}
