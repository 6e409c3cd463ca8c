/*
reconciler_test.go - Tests for background used-hours reconciliation
*/
package api

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Jaliko05/time-flow-sub000/tracking"
	"github.com/Jaliko05/time-flow-sub000/tracking/store"
)

func TestReconcileUsedHours_RestoresDrift(t *testing.T) {
	// GIVEN: Seeded data where a project's used hours were edited out-of-band
	// WHEN: Running a reconciliation pass
	// THEN: used_hours is restored to the activity-log sum

	mem := store.NewMemory()
	ctx := context.Background()
	require.NoError(t, SeedDemo(ctx, mem))

	project, err := mem.GetProject(ctx, "project-portal")
	require.NoError(t, err)
	project.UsedHours = tracking.NewHours(999)
	require.NoError(t, mem.SaveProject(ctx, *project))

	fixed, err := ReconcileUsedHours(ctx, mem)
	require.NoError(t, err)
	assert.Equal(t, 1, fixed)

	restored, err := mem.GetProject(ctx, "project-portal")
	require.NoError(t, err)
	assert.True(t, restored.UsedHours.Equal(tracking.NewHours(18.5)),
		"used hours = %s, want 18.5", restored.UsedHours)
}

func TestReconcileUsedHours_CleanDataUntouched(t *testing.T) {
	mem := store.NewMemory()
	ctx := context.Background()
	require.NoError(t, SeedDemo(ctx, mem))

	fixed, err := ReconcileUsedHours(ctx, mem)
	require.NoError(t, err)
	assert.Zero(t, fixed, "seeded data already satisfies the invariant")
}
