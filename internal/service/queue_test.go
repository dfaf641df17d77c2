package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
)

func intPtr(v int) *int { return &v }

func TestListQueueAuthorization(t *testing.T) {
	env := newTestEnv(t, true)
	ctx := context.Background()

	_, err := env.svc.ListQueue(ctx, nil, QueueQuery{})
	requireCode(t, err, codes.Unauthenticated)

	_, err = env.svc.ListQueue(ctx, testUser, QueueQuery{})
	requireCode(t, err, codes.PermissionDenied)
}

func TestListQueueClamping(t *testing.T) {
	env := newTestEnv(t, true)
	ctx := context.Background()

	table := []struct {
		limit, offset         *int
		wantLimit, wantOffset int
	}{
		{nil, nil, 20, 0},
		{intPtr(500), nil, 100, 0},
		{intPtr(0), nil, 1, 0},
		{intPtr(-3), nil, 1, 0},
		{intPtr(50), intPtr(-5), 50, 0},
		{nil, intPtr(7), 20, 7},
	}

	for _, row := range table {
		page, err := env.svc.ListQueue(ctx, testAdmin, QueueQuery{Limit: row.limit, Offset: row.offset})
		require.NoError(t, err)
		assert.Equal(t, row.wantLimit, page.Limit)
		assert.Equal(t, row.wantOffset, page.Offset)
		assert.NotNil(t, page.Items)
	}
}

func TestListQueueValidation(t *testing.T) {
	env := newTestEnv(t, true)
	ctx := context.Background()

	_, err := env.svc.ListQueue(ctx, testAdmin, QueueQuery{Status: "bogus"})
	requireCode(t, err, codes.InvalidArgument)

	_, err = env.svc.ListQueue(ctx, testAdmin, QueueQuery{Severity: "severe"})
	requireCode(t, err, codes.InvalidArgument)

	for _, s := range []string{"pending", "approved", "rejected"} {
		_, err = env.svc.ListQueue(ctx, testAdmin, QueueQuery{Status: s, Severity: "critical"})
		require.NoError(t, err)
	}
}

func TestListQueuePagination(t *testing.T) {
	env := newTestEnv(t, true)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		require.NoError(t, env.ingest(t, fmt.Sprintf("p%d", i), "u1", "buy now"))
	}
	require.NoError(t, env.ingest(t, "p5", "u1", "you subhuman"))

	page, err := env.svc.ListQueue(ctx, testAdmin, QueueQuery{Limit: intPtr(2), Offset: intPtr(1)})
	require.NoError(t, err)
	assert.EqualValues(t, 6, page.Total)
	require.Len(t, page.Items, 2)
	assert.Equal(t, "p4", page.Items[0].ContentID)
	assert.Equal(t, "p3", page.Items[1].ContentID)

	page, err = env.svc.ListQueue(ctx, testAdmin, QueueQuery{Severity: "high"})
	require.NoError(t, err)
	assert.EqualValues(t, 1, page.Total)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "p5", page.Items[0].ContentID)

	_, err = env.svc.Review(ctx, testAdmin, ReviewRequest{ContentID: "p0", Action: ActionApprove})
	require.NoError(t, err)

	page, err = env.svc.ListQueue(ctx, testAdmin, QueueQuery{})
	require.NoError(t, err)
	assert.EqualValues(t, 5, page.Total)

	page, err = env.svc.ListQueue(ctx, testAdmin, QueueQuery{Status: "approved"})
	require.NoError(t, err)
	assert.EqualValues(t, 1, page.Total)
	assert.Equal(t, "p0", page.Items[0].ContentID)
}
