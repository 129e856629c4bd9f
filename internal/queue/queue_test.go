package queue

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/pfotenwerk/backoffice/pkg/redis"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestQueue(t *testing.T, config QueueConfig) *Queue {
	t.Helper()

	mr := miniredis.RunT(t)
	client := goredis.NewUniversalClient(&goredis.UniversalOptions{Addrs: []string{mr.Addr()}})
	t.Cleanup(func() { _ = client.Close() })

	q, err := NewQueue(redis.NewFromClient(client, "test"), config)
	require.NoError(t, err)
	t.Cleanup(func() { _ = q.Stop(2 * time.Second) })

	return q
}

func TestQueue_PublishAndLen(t *testing.T) {
	q := newTestQueue(t, QueueConfig{Name: "emails"})

	_, err := q.PublishJSON(t.Context(), map[string]string{"to": "anna@example.org"}, map[string]string{"template": "booking_created"})
	require.NoError(t, err)

	n, err := q.Len()
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestQueue_ConsumeAcks(t *testing.T) {
	q := newTestQueue(t, QueueConfig{
		Name:         "emails",
		PollInterval: 20 * time.Millisecond,
	})

	var handled atomic.Int32
	var gotTemplate atomic.Value
	err := q.Consume(func(_ context.Context, msg *Message) error {
		handled.Add(1)
		gotTemplate.Store(msg.Metadata["template"])
		return nil
	})
	require.NoError(t, err)

	_, err = q.Publish(t.Context(), []byte(`{"recipient":"anna@example.org"}`), map[string]string{"template": "invoice_created"})
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		return handled.Load() == 1
	}, 2*time.Second, 20*time.Millisecond)
	assert.Equal(t, "invoice_created", gotTemplate.Load())
}

func TestQueue_RequiresName(t *testing.T) {
	mr := miniredis.RunT(t)
	client := goredis.NewUniversalClient(&goredis.UniversalOptions{Addrs: []string{mr.Addr()}})
	t.Cleanup(func() { _ = client.Close() })

	_, err := NewQueue(redis.NewFromClient(client, "test"), QueueConfig{})
	assert.Error(t, err)
}
