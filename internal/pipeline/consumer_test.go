package pipeline

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/bioquery/taxoblast/internal/core"
	"github.com/bioquery/taxoblast/internal/data"
	"github.com/bioquery/taxoblast/internal/domain/model"
	"github.com/bioquery/taxoblast/internal/mocks"
)

type recordingProcessor struct {
	processed []int64
	err       error
}

func (p *recordingProcessor) Process(_ context.Context, job *model.Job) error {
	p.processed = append(p.processed, job.ID)
	return p.err
}

func newTestConsumer(queue core.JobQueue, jobs core.JobRepository, proc JobProcessor) *Consumer {
	return NewConsumer(ConsumerOptions{
		Queue:        queue,
		Jobs:         jobs,
		Processor:    proc,
		ErrorBackoff: time.Millisecond,
	})
}

func TestHandleDispatchesPendingJob(t *testing.T) {
	ctrl := gomock.NewController(t)
	queue := mocks.NewMockJobQueue(ctrl)
	jobs := mocks.NewMockJobRepository(ctrl)
	proc := &recordingProcessor{}

	job := pendingJob()
	jobs.EXPECT().GetByID(gomock.Any(), int64(7)).Return(job, nil)
	queue.EXPECT().Delete(gomock.Any(), "rh-1").Return(nil)

	c := newTestConsumer(queue, jobs, proc)
	err := c.handle(context.Background(), &core.QueueMessage{Body: `{"jobId":7}`, ReceiptHandle: "rh-1"})
	require.NoError(t, err)
	assert.Equal(t, []int64{7}, proc.processed)
}

func TestHandleDeletesMessageEvenWhenJobFails(t *testing.T) {
	ctrl := gomock.NewController(t)
	queue := mocks.NewMockJobQueue(ctrl)
	jobs := mocks.NewMockJobRepository(ctrl)
	proc := &recordingProcessor{err: errors.New("tool failed")}

	jobs.EXPECT().GetByID(gomock.Any(), int64(7)).Return(pendingJob(), nil)
	queue.EXPECT().Delete(gomock.Any(), "rh-1").Return(nil)

	c := newTestConsumer(queue, jobs, proc)
	err := c.handle(context.Background(), &core.QueueMessage{Body: `{"jobId":7}`, ReceiptHandle: "rh-1"})
	require.NoError(t, err, "a failed job still lands in a terminal state, so the message is done")
	assert.Equal(t, []int64{7}, proc.processed)
}

func TestHandleSkipsNonPendingJob(t *testing.T) {
	ctrl := gomock.NewController(t)
	queue := mocks.NewMockJobQueue(ctrl)
	jobs := mocks.NewMockJobRepository(ctrl)
	proc := &recordingProcessor{}

	job := pendingJob()
	job.Status = model.JobStatusCompleted
	jobs.EXPECT().GetByID(gomock.Any(), int64(7)).Return(job, nil)
	queue.EXPECT().Delete(gomock.Any(), "rh-redelivered").Return(nil)

	c := newTestConsumer(queue, jobs, proc)
	err := c.handle(context.Background(), &core.QueueMessage{Body: `{"jobId":7}`, ReceiptHandle: "rh-redelivered"})
	require.NoError(t, err)
	assert.Empty(t, proc.processed, "redelivered notification must not rerun the job")
}

func TestHandleDeletesMessageForMissingJob(t *testing.T) {
	ctrl := gomock.NewController(t)
	queue := mocks.NewMockJobQueue(ctrl)
	jobs := mocks.NewMockJobRepository(ctrl)
	proc := &recordingProcessor{}

	jobs.EXPECT().GetByID(gomock.Any(), int64(999)).Return(nil, data.ErrJobNotFound)
	queue.EXPECT().Delete(gomock.Any(), "rh-gone").Return(nil)

	c := newTestConsumer(queue, jobs, proc)
	err := c.handle(context.Background(), &core.QueueMessage{Body: `{"jobId":999}`, ReceiptHandle: "rh-gone"})
	require.NoError(t, err)
	assert.Empty(t, proc.processed)
}

func TestHandleDiscardsMalformedMessage(t *testing.T) {
	ctrl := gomock.NewController(t)
	queue := mocks.NewMockJobQueue(ctrl)
	jobs := mocks.NewMockJobRepository(ctrl)
	proc := &recordingProcessor{}

	queue.EXPECT().Delete(gomock.Any(), "rh-poison").Return(nil)

	c := newTestConsumer(queue, jobs, proc)
	err := c.handle(context.Background(), &core.QueueMessage{Body: "not json", ReceiptHandle: "rh-poison"})
	require.NoError(t, err)
	assert.Empty(t, proc.processed)
}

func TestHandleLeavesMessageOnLookupFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	queue := mocks.NewMockJobQueue(ctrl)
	jobs := mocks.NewMockJobRepository(ctrl)
	proc := &recordingProcessor{}

	jobs.EXPECT().GetByID(gomock.Any(), int64(7)).Return(nil, errors.New("db unavailable"))
	// No Delete expectation: the message must stay queued for redelivery.

	c := newTestConsumer(queue, jobs, proc)
	err := c.handle(context.Background(), &core.QueueMessage{Body: `{"jobId":7}`, ReceiptHandle: "rh-1"})
	require.Error(t, err)
	assert.Empty(t, proc.processed)
}

func TestRunStopsOnContextCancel(t *testing.T) {
	ctrl := gomock.NewController(t)
	queue := mocks.NewMockJobQueue(ctrl)
	jobs := mocks.NewMockJobRepository(ctrl)

	ctx, cancel := context.WithCancel(context.Background())
	queue.EXPECT().Receive(gomock.Any()).DoAndReturn(func(ctx context.Context) (*core.QueueMessage, error) {
		cancel()
		return nil, ctx.Err()
	}).AnyTimes()

	c := newTestConsumer(queue, jobs, &recordingProcessor{})
	done := make(chan error, 1)
	go func() { done <- c.Run(ctx) }()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(5 * time.Second):
		t.Fatal("consumer did not stop after context cancellation")
	}
}

func TestRunBacksOffAfterReceiveError(t *testing.T) {
	ctrl := gomock.NewController(t)
	queue := mocks.NewMockJobQueue(ctrl)
	jobs := mocks.NewMockJobRepository(ctrl)
	proc := &recordingProcessor{}

	ctx, cancel := context.WithCancel(context.Background())
	job := pendingJob()

	gomock.InOrder(
		queue.EXPECT().Receive(gomock.Any()).Return(nil, errors.New("queue unavailable")),
		queue.EXPECT().Receive(gomock.Any()).Return(&core.QueueMessage{Body: `{"jobId":7}`, ReceiptHandle: "rh-1"}, nil),
	)
	jobs.EXPECT().GetByID(gomock.Any(), int64(7)).Return(job, nil)
	queue.EXPECT().Delete(gomock.Any(), "rh-1").DoAndReturn(func(context.Context, string) error {
		cancel()
		return nil
	})
	// Allow further polls between Delete and loop exit.
	queue.EXPECT().Receive(gomock.Any()).Return(nil, context.Canceled).AnyTimes()

	c := newTestConsumer(queue, jobs, proc)
	done := make(chan error, 1)
	go func() { done <- c.Run(ctx) }()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, []int64{7}, proc.processed)
	case <-time.After(5 * time.Second):
		t.Fatal("consumer did not recover from receive error")
	}
}
