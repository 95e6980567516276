package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJobStatusValid(t *testing.T) {
	for _, s := range []JobStatus{
		JobStatusPending, JobStatusGettingGenomes, JobStatusRunningBlast,
		JobStatusCompleted, JobStatusFailed,
	} {
		assert.True(t, s.Valid(), "status %q should be valid", s)
	}
	assert.False(t, JobStatus("running").Valid())
	assert.False(t, JobStatus("").Valid())
}

func TestJobStatusTransitions(t *testing.T) {
	t.Run("forward path", func(t *testing.T) {
		assert.True(t, JobStatusPending.CanTransitionTo(JobStatusGettingGenomes))
		assert.True(t, JobStatusGettingGenomes.CanTransitionTo(JobStatusRunningBlast))
		assert.True(t, JobStatusRunningBlast.CanTransitionTo(JobStatusCompleted))
	})

	t.Run("failed reachable from any non-terminal state", func(t *testing.T) {
		for _, s := range []JobStatus{JobStatusPending, JobStatusGettingGenomes, JobStatusRunningBlast} {
			assert.True(t, s.CanTransitionTo(JobStatusFailed), "from %q", s)
		}
	})

	t.Run("no backwards or skipping transitions", func(t *testing.T) {
		assert.False(t, JobStatusPending.CanTransitionTo(JobStatusRunningBlast))
		assert.False(t, JobStatusGettingGenomes.CanTransitionTo(JobStatusPending))
		assert.False(t, JobStatusRunningBlast.CanTransitionTo(JobStatusGettingGenomes))
	})

	t.Run("terminal states are sinks", func(t *testing.T) {
		for _, s := range []JobStatus{JobStatusCompleted, JobStatusFailed} {
			assert.True(t, s.Terminal())
			for _, next := range []JobStatus{JobStatusPending, JobStatusGettingGenomes, JobStatusRunningBlast, JobStatusCompleted, JobStatusFailed} {
				assert.False(t, s.CanTransitionTo(next), "from %q to %q", s, next)
			}
		}
	})
}

func TestCreateJobRequestValidate(t *testing.T) {
	valid := CreateJobRequest{UserID: 1, QueryTaxon: "yeast", TargetTaxon: "e coli"}
	require.NoError(t, valid.Validate())

	t.Run("missing user", func(t *testing.T) {
		req := valid
		req.UserID = 0
		assert.Error(t, req.Validate())
	})

	t.Run("blank query taxon", func(t *testing.T) {
		req := valid
		req.QueryTaxon = "   "
		assert.Error(t, req.Validate())
	})

	t.Run("blank target taxon", func(t *testing.T) {
		req := valid
		req.TargetTaxon = ""
		assert.Error(t, req.Validate())
	})
}

func TestJobUpdateIsZero(t *testing.T) {
	assert.True(t, JobUpdate{}.IsZero())

	status := JobStatusFailed
	assert.False(t, JobUpdate{Status: &status}.IsZero())

	acc := "GCF_000146045.2"
	assert.False(t, JobUpdate{QueryAccession: &acc}.IsZero())
}
