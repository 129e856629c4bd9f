package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/pfotenwerk/backoffice/internal/queue"
	"github.com/pfotenwerk/backoffice/pkg/logger"
	"github.com/pfotenwerk/backoffice/pkg/prom"
	"github.com/pfotenwerk/backoffice/pkg/worker"
)

// SendTimeout bounds a single SMTP delivery attempt.
const SendTimeout = 30 * time.Second

// Sender delivers a single rendered email. Satisfied by *Mailer.
type Sender interface {
	Send(job EmailJob) error
}

// Consumer drains the email queue and delivers each job through a worker
// pool. Failed jobs are retried by the queue and eventually land in the
// dead letter stream.
type Consumer struct {
	queue  *queue.Queue
	sender Sender
	pool   *worker.WorkerManager
}

func NewConsumer(q *queue.Queue, sender Sender, workers int) *Consumer {
	if workers < 1 {
		workers = 1
	}
	return &Consumer{
		queue:  q,
		sender: sender,
		pool:   worker.NewWorkerManager(workers*4, workers, nil),
	}
}

func (c *Consumer) Start() error {
	c.pool.SetWorker(c.workerHandler)
	go func() {
		if err := c.pool.Start(); err != nil {
			logger.Info("[notify] worker pool stopped", "reason", err)
		}
	}()
	return c.queue.Consume(c.handle)
}

func (c *Consumer) Stop(timeout time.Duration) error {
	err := c.queue.Stop(timeout)
	c.pool.Exit()
	return err
}

type sendJob struct {
	msg    *queue.Message
	result chan error
}

// handle hands the message to the pool and blocks until a worker reports
// back, so acking stays tied to the delivery outcome.
func (c *Consumer) handle(ctx context.Context, msg *queue.Message) error {
	job := &sendJob{msg: msg, result: make(chan error, 1)}
	c.pool.Enqueue(job)

	select {
	case err := <-job.result:
		return err
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(SendTimeout + time.Second):
		return fmt.Errorf("timeout waiting for worker to deliver message %s", msg.ID)
	}
}

func (c *Consumer) workerHandler(_ int, v interface{}) {
	job, ok := v.(*sendJob)
	if !ok {
		return
	}
	job.result <- c.deliver(job.msg)
}

func (c *Consumer) deliver(msg *queue.Message) error {
	var job EmailJob
	if err := json.Unmarshal(msg.Data, &job); err != nil {
		// Undecodable payloads can never succeed; ack them away.
		logger.Error("[notify] dropping malformed job", "message_id", msg.ID, "error", err)
		return nil
	}

	if err := c.sender.Send(job); err != nil {
		prom.IncCounterVec(prom.SystemEmails, prom.MetricEmailsSent, job.Template, "error")
		return fmt.Errorf("send %s to %s: %w", job.Template, job.Recipient, err)
	}

	prom.IncCounterVec(prom.SystemEmails, prom.MetricEmailsSent, job.Template, "ok")
	logger.Info("[notify] email delivered", "template", job.Template, "recipient", job.Recipient)
	return nil
}
