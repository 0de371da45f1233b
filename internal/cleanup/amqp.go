package cleanup

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"cafe/pkg/imagestore"
	"cafe/pkg/rabbitmq"

	amqp "github.com/streadway/amqp"
)

// QueueName is the durable queue holding cleanup jobs.
const QueueName = "asset_cleanup"

const jobType = "asset.cleanup"

// Publisher is the part of the broker client the queue publishes with.
type Publisher interface {
	PublishJSON(queue, messageType string, v interface{}) error
}

// AMQPQueue hands jobs to RabbitMQ so they survive restarts and can be
// processed by any instance.
type AMQPQueue struct {
	publisher Publisher
	sink      errorSink

	mu     sync.RWMutex
	closed bool
}

// NewAMQPQueue creates a queue publishing through publisher.
func NewAMQPQueue(publisher Publisher, errBuffer int) *AMQPQueue {
	return &AMQPQueue{publisher: publisher, sink: newErrorSink(errBuffer)}
}

// Enqueue publishes a job. An empty id is ignored.
func (q *AMQPQueue) Enqueue(_ context.Context, publicID string) error {
	if publicID == "" {
		return nil
	}
	q.mu.RLock()
	defer q.mu.RUnlock()
	if q.closed {
		return ErrClosed
	}
	return q.publisher.PublishJSON(QueueName, jobType, Job{PublicID: publicID})
}

// Errors reports jobs the consumer failed to process.
func (q *AMQPQueue) Errors() <-chan error {
	return q.sink.errs
}

// Close stops accepting jobs and closes Errors.
func (q *AMQPQueue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return
	}
	q.closed = true
	close(q.sink.errs)
}

// Handle processes one job body. Failures are reported on Errors and returned
// so the delivery is nacked.
func (q *AMQPQueue) Handle(ctx context.Context, destroyer imagestore.Destroyer, body []byte) error {
	var job Job
	if err := json.Unmarshal(body, &job); err != nil {
		err = fmt.Errorf("malformed cleanup job: %w", err)
		q.report("", err)
		return err
	}
	if job.PublicID == "" {
		return nil
	}
	if err := destroyer.Destroy(ctx, job.PublicID); err != nil {
		q.report(job.PublicID, err)
		return err
	}
	return nil
}

func (q *AMQPQueue) report(publicID string, err error) {
	q.mu.RLock()
	defer q.mu.RUnlock()
	if !q.closed {
		q.sink.report(publicID, err)
	}
}

// StartConsumer consumes the cleanup queue, acking deleted assets and
// dropping failed ones without requeue.
func (q *AMQPQueue) StartConsumer(client *rabbitmq.Client, destroyer imagestore.Destroyer) error {
	return client.Consume(QueueName, false, func(msg amqp.Delivery) error {
		return q.Handle(context.Background(), destroyer, msg.Body)
	})
}
