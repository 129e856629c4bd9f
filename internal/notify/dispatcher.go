package notify

import (
	"context"

	"github.com/pfotenwerk/backoffice/internal/queue"
	"github.com/pfotenwerk/backoffice/pkg/prom"
)

// QueueDispatcher publishes jobs onto the redis stream consumed by the
// notifier process.
type QueueDispatcher struct {
	queue *queue.Queue
}

func NewQueueDispatcher(q *queue.Queue) *QueueDispatcher {
	return &QueueDispatcher{queue: q}
}

func (d *QueueDispatcher) Enqueue(ctx context.Context, job EmailJob) error {
	_, err := d.queue.PublishJSON(ctx, job, map[string]string{"template": job.Template})
	if err != nil {
		return err
	}
	prom.IncCounterVec(prom.SystemEmails, prom.MetricEmailsEnqueued, job.Template)
	return nil
}
