package queue

import (
	"context"
	"fmt"
	"time"

	"github.com/OFFIS-RIT/contingency/backend/internal/util"
	"github.com/OFFIS-RIT/contingency/backend/pkg/logger"

	"github.com/rabbitmq/amqp091-go"
)

const (
	AnalysisQueue = "analysis_queue"

	retrySuffix = "_retry"
	dlqSuffix   = "_dlq"

	// retryDelayMs is how long a failed message waits in the retry queue.
	retryDelayMs = 10000
	// maxRetries is the number of redeliveries before a message is dead-lettered.
	maxRetries = 10
)

// Queues lists every work queue a worker consumes.
var Queues = []string{AnalysisQueue}

func Init() *amqp091.Connection {
	user := util.GetEnv("RABBITMQ_USER")
	pass := util.GetEnv("RABBITMQ_PASSWORD")
	host := util.GetEnv("RABBITMQ_HOST")
	port := util.GetEnv("RABBITMQ_PORT")

	connURL := fmt.Sprintf(
		"amqp://%s:%s@%s:%s/",
		user,
		pass,
		host,
		port,
	)

	conn, err := amqp091.Dial(connURL)
	if err != nil {
		logger.Fatal("Failed to connect to RabbitMQ", "err", err)
	}

	return conn
}

// Declarer is the subset of *amqp091.Channel used to declare queues.
type Declarer interface {
	QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp091.Table) (amqp091.Queue, error)
}

// SetupQueues declares each work queue together with its dead-letter queue
// and a retry queue that hands messages back to the work queue after
// retryDelayMs.
func SetupQueues(ch Declarer, queueNames []string) error {
	for _, name := range queueNames {
		_, err := ch.QueueDeclare(
			name,
			true,  // durable
			false, // autoDelete
			false, // exclusive
			false, // noWait
			nil,   // args
		)
		if err != nil {
			return fmt.Errorf("declare %s: %w", name, err)
		}

		dlqName := name + dlqSuffix
		_, err = ch.QueueDeclare(
			dlqName,
			true,
			false,
			false,
			false,
			nil,
		)
		if err != nil {
			return fmt.Errorf("declare %s: %w", dlqName, err)
		}

		retryName := name + retrySuffix
		_, err = ch.QueueDeclare(
			retryName,
			true,
			false,
			false,
			false,
			amqp091.Table{
				"x-message-ttl":             int32(retryDelayMs),
				"x-dead-letter-exchange":    "",
				"x-dead-letter-routing-key": name,
			},
		)
		if err != nil {
			return fmt.Errorf("declare %s: %w", retryName, err)
		}
	}

	return nil
}

// Publisher sends a message to a queue on the default exchange.
type Publisher interface {
	Publish(ctx context.Context, queueName string, msg amqp091.Publishing) error
}

// ChannelPublisher publishes on an AMQP channel.
type ChannelPublisher struct {
	Ch *amqp091.Channel
}

func (p ChannelPublisher) Publish(ctx context.Context, queueName string, msg amqp091.Publishing) error {
	return p.Ch.PublishWithContext(
		ctx,
		"",
		queueName,
		false,
		false,
		msg,
	)
}

// PublishFIFO publishes a persistent message to queueName.
func PublishFIFO(ctx context.Context, pub Publisher, queueName string, data []byte) error {
	publishing := amqp091.Publishing{
		ContentType:  "application/json",
		Body:         data,
		DeliveryMode: amqp091.Persistent,
		Timestamp:    time.Now(),
	}

	return pub.Publish(ctx, queueName, publishing)
}
