package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/bioquery/taxoblast/internal/domain/model"
	"github.com/bioquery/taxoblast/internal/mocks"
)

func newJobService(t *testing.T) (*JobService, *mocks.MockJobRepository, *mocks.MockResultRepository, *mocks.MockJobQueue) {
	t.Helper()
	ctrl := gomock.NewController(t)
	jobs := mocks.NewMockJobRepository(ctrl)
	results := mocks.NewMockResultRepository(ctrl)
	queue := mocks.NewMockJobQueue(ctrl)
	svc := NewJobService(JobServiceOptions{Jobs: jobs, Results: results, Queue: queue})
	return svc, jobs, results, queue
}

func ownedJob(userID int64) *model.Job {
	return &model.Job{
		ID:          7,
		UserID:      userID,
		QueryTaxon:  "yeast",
		TargetTaxon: "e coli",
		Status:      model.JobStatusPending,
	}
}

func TestSubmitCreatesAndEnqueues(t *testing.T) {
	svc, jobs, _, queue := newJobService(t)

	req := &model.CreateJobRequest{UserID: 1, QueryTaxon: "yeast", TargetTaxon: "e coli"}
	created := ownedJob(1)

	gomock.InOrder(
		jobs.EXPECT().Create(gomock.Any(), req).Return(created, nil),
		queue.EXPECT().Enqueue(gomock.Any(), created.ID).Return(nil),
	)

	job, err := svc.Submit(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, model.JobStatusPending, job.Status)
}

func TestSubmitEnqueueFailureMarksJobFailed(t *testing.T) {
	svc, jobs, _, queue := newJobService(t)

	req := &model.CreateJobRequest{UserID: 1, QueryTaxon: "yeast", TargetTaxon: "e coli"}
	created := ownedJob(1)

	gomock.InOrder(
		jobs.EXPECT().Create(gomock.Any(), req).Return(created, nil),
		queue.EXPECT().Enqueue(gomock.Any(), created.ID).Return(errors.New("queue unavailable")),
		jobs.EXPECT().UpdateByID(gomock.Any(), created.ID, gomock.Cond(func(upd model.JobUpdate) bool {
			return upd.Status != nil && *upd.Status == model.JobStatusFailed
		})).Return(created, nil),
	)

	_, err := svc.Submit(context.Background(), req)
	require.Error(t, err)
}

func TestGetEnforcesOwnership(t *testing.T) {
	svc, jobs, _, _ := newJobService(t)

	jobs.EXPECT().GetByID(gomock.Any(), int64(7)).Return(ownedJob(1), nil).Times(3)

	_, err := svc.Get(context.Background(), model.Principal{UserID: 2}, 7)
	assert.ErrorIs(t, err, ErrForbidden)

	job, err := svc.Get(context.Background(), model.Principal{UserID: 1}, 7)
	require.NoError(t, err)
	assert.Equal(t, int64(7), job.ID)

	_, err = svc.Get(context.Background(), model.Principal{UserID: 2, Admin: true}, 7)
	assert.NoError(t, err, "admins may read any job")
}

func TestGetResult(t *testing.T) {
	svc, jobs, results, _ := newJobService(t)

	resultID := int64(99)
	completed := ownedJob(1)
	completed.Status = model.JobStatusCompleted
	completed.ResultID = &resultID

	jobs.EXPECT().GetByID(gomock.Any(), int64(7)).Return(completed, nil)
	results.EXPECT().GetByID(gomock.Any(), resultID).Return(&model.JobResult{ID: resultID, QueryID: "YAL001C"}, nil)

	res, err := svc.GetResult(context.Background(), model.Principal{UserID: 1}, 7)
	require.NoError(t, err)
	assert.Equal(t, "YAL001C", res.QueryID)
}

func TestGetResultNotReady(t *testing.T) {
	svc, jobs, _, _ := newJobService(t)

	running := ownedJob(1)
	running.Status = model.JobStatusRunningBlast
	jobs.EXPECT().GetByID(gomock.Any(), int64(7)).Return(running, nil)

	_, err := svc.GetResult(context.Background(), model.Principal{UserID: 1}, 7)
	assert.ErrorIs(t, err, ErrResultNotReady)
}

func TestListScopesNonAdminToOwnJobs(t *testing.T) {
	svc, jobs, _, _ := newJobService(t)

	jobs.EXPECT().List(gomock.Any(), gomock.Cond(func(opts model.JobListOptions) bool {
		return opts.UserID == 1
	})).Return([]*model.Job{ownedJob(1)}, nil)

	// A non-admin asking for another user's jobs gets their own instead.
	out, err := svc.List(context.Background(), model.Principal{UserID: 1}, model.JobListOptions{UserID: 2})
	require.NoError(t, err)
	assert.Len(t, out, 1)
}

func TestDeleteEnforcesOwnership(t *testing.T) {
	svc, jobs, _, _ := newJobService(t)

	jobs.EXPECT().GetByID(gomock.Any(), int64(7)).Return(ownedJob(1), nil)

	_, err := svc.Delete(context.Background(), model.Principal{UserID: 2}, 7)
	assert.ErrorIs(t, err, ErrForbidden)

	jobs.EXPECT().GetByID(gomock.Any(), int64(7)).Return(ownedJob(1), nil)
	jobs.EXPECT().Delete(gomock.Any(), int64(7)).Return(true, nil)

	ok, err := svc.Delete(context.Background(), model.Principal{UserID: 1}, 7)
	require.NoError(t, err)
	assert.True(t, ok)
}
