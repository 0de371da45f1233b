package cleanup

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDestroyer struct {
	mu    sync.Mutex
	calls []string
	fail  map[string]bool
}

func (f *fakeDestroyer) Destroy(_ context.Context, publicID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, publicID)
	if f.fail[publicID] {
		return errors.New("remote unavailable")
	}
	return nil
}

func (f *fakeDestroyer) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := append([]string(nil), f.calls...)
	sort.Strings(out)
	return out
}

func TestWorkerQueue_ProcessesJobs(t *testing.T) {
	d := &fakeDestroyer{}
	q := NewWorkerQueue(d, 2, 8)
	ctx := context.Background()

	require.NoError(t, q.Enqueue(ctx, "avatars/a"))
	require.NoError(t, q.Enqueue(ctx, "products/b"))
	require.NoError(t, q.Enqueue(ctx, ""))
	q.Close()

	assert.Equal(t, []string{"avatars/a", "products/b"}, d.Calls())
	_, open := <-q.Errors()
	assert.False(t, open)
}

func TestWorkerQueue_ReportsFailures(t *testing.T) {
	d := &fakeDestroyer{fail: map[string]bool{"bad": true}}
	q := NewWorkerQueue(d, 1, 4)

	require.NoError(t, q.Enqueue(context.Background(), "bad"))
	require.NoError(t, q.Enqueue(context.Background(), "good"))
	q.Close()

	var errs []error
	for err := range q.Errors() {
		errs = append(errs, err)
	}
	require.Len(t, errs, 1)
	var jobErr *JobError
	require.True(t, errors.As(errs[0], &jobErr))
	assert.Equal(t, "bad", jobErr.PublicID)
}

func TestWorkerQueue_EnqueueAfterClose(t *testing.T) {
	q := NewWorkerQueue(&fakeDestroyer{}, 1, 1)
	q.Close()
	q.Close()
	assert.ErrorIs(t, q.Enqueue(context.Background(), "x"), ErrClosed)
}

func TestWorkerQueue_EnqueueHonoursContext(t *testing.T) {
	block := make(chan struct{})
	d := destroyerFunc(func(context.Context, string) error {
		<-block
		return nil
	})
	q := NewWorkerQueue(d, 1, 0)
	defer func() {
		close(block)
		q.Close()
	}()

	ctx := context.Background()
	require.NoError(t, q.Enqueue(ctx, "first"))

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	assert.ErrorIs(t, q.Enqueue(cancelled, "second"), context.Canceled)
}

type destroyerFunc func(ctx context.Context, publicID string) error

func (f destroyerFunc) Destroy(ctx context.Context, publicID string) error { return f(ctx, publicID) }

type fakePublisher struct {
	queue string
	body  []byte
}

func (p *fakePublisher) PublishJSON(queue, _ string, v interface{}) error {
	p.queue = queue
	b, err := json.Marshal(v)
	p.body = b
	return err
}

func TestAMQPQueue_RoundTrip(t *testing.T) {
	pub := &fakePublisher{}
	q := NewAMQPQueue(pub, 4)
	defer q.Close()

	require.NoError(t, q.Enqueue(context.Background(), "avatars/a"))
	assert.Equal(t, QueueName, pub.queue)

	d := &fakeDestroyer{fail: map[string]bool{"avatars/a": true}}
	err := q.Handle(context.Background(), d, pub.body)
	assert.Error(t, err)
	assert.Equal(t, []string{"avatars/a"}, d.Calls())

	select {
	case reported := <-q.Errors():
		assert.Contains(t, reported.Error(), "avatars/a")
	default:
		t.Fatal("expected a reported failure")
	}

	assert.Error(t, q.Handle(context.Background(), d, []byte("not json")))
}
