// notification-worker читает топик уведомлений и доставляет их адресатам.
// Текущая доставка — запись в лог; сообщение, которое не удалось обработать
// после всех retry, уходит в DLQ.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	log "github.com/sirupsen/logrus"

	"github.com/badrothmani2021/merjane/internal/messaging/kafka"
)

const defaultGroupID = "merjane-notification-worker"

func main() {
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	log.SetLevel(log.InfoLevel)

	var (
		brokersRaw string
		groupID    string
		maxRetries int
	)

	flag.StringVar(&brokersRaw, "brokers", "", "Kafka brokers as comma-separated list (fallback: KAFKA_BROKERS)")
	flag.StringVar(&groupID, "group", defaultGroupID, "consumer group id")
	flag.IntVar(&maxRetries, "max-retries", 3, "retry attempts before a message goes to DLQ")
	flag.Parse()

	if strings.TrimSpace(brokersRaw) == "" {
		brokersRaw = os.Getenv("KAFKA_BROKERS")
	}
	brokers := parseBrokers(brokersRaw)
	if len(brokers) == 0 {
		fail("kafka brokers are required (-brokers or KAFKA_BROKERS)")
	}

	logger := log.WithField("component", "notification-worker")

	dlqProducer, err := kafka.NewProducer(brokers, logger.WithField("component", "kafka-producer"))
	if err != nil {
		fail("create dlq producer: %v", err)
	}

	consumer, err := kafka.NewConsumerWithDLQ(
		brokers,
		groupID,
		func(_ context.Context, event *kafka.NotificationEvent) error {
			return deliverNotification(event, logger)
		},
		dlqProducer,
		maxRetries,
		logger.WithField("component", "kafka-consumer"),
	)
	if err != nil {
		fail("create consumer: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := consumer.Start(ctx); err != nil {
		fail("start consumer: %v", err)
	}
	logger.WithField("brokers", brokers).Info("notification worker started")

	<-ctx.Done()
	logger.Info("получен сигнал остановки, останавливаем worker")

	if err := consumer.Stop(); err != nil {
		logger.WithError(err).Warn("failed to stop consumer")
	}
	if err := dlqProducer.Close(); err != nil {
		logger.WithError(err).Warn("failed to close dlq producer")
	}

	logger.Info("notification worker остановлен")
}

// deliverNotification доставляет одно уведомление из топика.
func deliverNotification(event *kafka.NotificationEvent, logger *log.Entry) error {
	text, err := formatNotification(event)
	if err != nil {
		return err
	}

	logger.WithFields(log.Fields{
		"event_id": event.ID,
		"kind":     event.Kind,
		"product":  event.ProductName,
	}).Info(text)
	return nil
}

// formatNotification строит текст уведомления по виду события.
func formatNotification(event *kafka.NotificationEvent) (string, error) {
	switch event.Kind {
	case kafka.NotificationKindDelay:
		return fmt.Sprintf("delivery of %s is delayed by %d day(s)", event.ProductName, event.LeadTimeDays), nil
	case kafka.NotificationKindExpiration:
		if event.ExpiryDate == nil {
			return fmt.Sprintf("%s is expired", event.ProductName), nil
		}
		return fmt.Sprintf("%s is expired since %s", event.ProductName, event.ExpiryDate.Format("2006-01-02")), nil
	case kafka.NotificationKindOutOfStock:
		return fmt.Sprintf("%s is out of stock until the next season", event.ProductName), nil
	default:
		return "", fmt.Errorf("unknown notification kind: %q", event.Kind)
	}
}

func parseBrokers(raw string) []string {
	chunks := strings.Split(raw, ",")
	brokers := make([]string, 0, len(chunks))
	for _, chunk := range chunks {
		broker := strings.TrimSpace(chunk)
		if broker == "" {
			continue
		}
		brokers = append(brokers, broker)
	}
	return brokers
}

func fail(format string, args ...any) {
	_, _ = fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
