package queue

import (
	"context"
	"errors"

	"github.com/OFFIS-RIT/contingency/backend/pkg/ai"
	"github.com/OFFIS-RIT/contingency/backend/pkg/graph"
	"github.com/OFFIS-RIT/contingency/backend/pkg/loader"
	"github.com/OFFIS-RIT/contingency/backend/pkg/logger"

	"github.com/rabbitmq/amqp091-go"
)

type permanentError struct {
	err error
}

func (e *permanentError) Error() string { return e.err.Error() }
func (e *permanentError) Unwrap() error { return e.err }

// Permanent marks err so the message is dead-lettered without retrying.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &permanentError{err: err}
}

// IsRetryable reports whether redelivering the message could succeed.
func IsRetryable(err error) bool {
	var p *permanentError
	switch {
	case err == nil:
		return false
	case errors.As(err, &p):
		return false
	case errors.Is(err, graph.ErrGenerationUnavailable),
		errors.Is(err, ai.ErrMissingCredentials),
		errors.Is(err, loader.ErrEmptyNarrative),
		errors.Is(err, loader.ErrNoLoader):
		return false
	}
	return true
}

func retryCount(headers amqp091.Table) int {
	switch v := headers["x-retries"].(type) {
	case int32:
		return int(v)
	case int64:
		return int(v)
	case int:
		return v
	}
	return 0
}

// HandleProcessingError routes a failed message to the retry queue, or to
// the dead-letter queue once it was retried maxRetries times or err is not
// retryable. The delivery is acked once the copy is published and requeued
// when publishing fails.
func HandleProcessingError(ctx context.Context, pub Publisher, msg amqp091.Delivery, queueName string, err error) {
	retries := retryCount(msg.Headers)

	if retries >= maxRetries || !IsRetryable(err) {
		dlqName := queueName + dlqSuffix
		logger.Info("[Queue] Sending message to DLQ", "dlq", dlqName, "retries", retries, "err", err)
		pubErr := pub.Publish(ctx, dlqName, amqp091.Publishing{
			ContentType: msg.ContentType,
			Body:        msg.Body,
			Headers:     msg.Headers,
		})
		if pubErr != nil {
			logger.Error("[Queue] Failed to publish to DLQ", "dlq", dlqName, "err", pubErr)
			msg.Nack(false, true)
			return
		}
		msg.Ack(false)
		return
	}

	retryName := queueName + retrySuffix
	headers := amqp091.Table{}
	for k, v := range msg.Headers {
		headers[k] = v
	}
	headers["x-retries"] = int32(retries + 1)

	pubErr := pub.Publish(ctx, retryName, amqp091.Publishing{
		ContentType:  msg.ContentType,
		Body:         msg.Body,
		Headers:      headers,
		DeliveryMode: amqp091.Persistent,
	})
	if pubErr != nil {
		logger.Error("[Queue] Failed to publish to retry queue", "retry_queue", retryName, "err", pubErr)
		msg.Nack(false, true)
		return
	}
	msg.Ack(false)
}
