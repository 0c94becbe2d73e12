package service

import (
	"context"
	"errors"
	"testing"

	"github.com/alexanderramin/strata/internal/domain"
	"github.com/alexanderramin/strata/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddRelation_UniquePerType(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	t1 := testutil.SeedTask(t, e.db, e.h.UseCase.ID, "T1")
	t2 := testutil.SeedTask(t, e.db, e.h.UseCase.ID, "T2")
	svc := e.relations()

	_, err := svc.Add(ctx, "alice", t1.ID, t2.ID, domain.RelationBlocks)
	require.NoError(t, err)
	_, err = svc.Add(ctx, "alice", t1.ID, t2.ID, domain.RelationRelatesTo)
	require.NoError(t, err)

	_, err = svc.Add(ctx, "alice", t1.ID, t2.ID, domain.RelationBlocks)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrConflict))

	out, err := svc.ListOutgoing(ctx, t1.ID)
	require.NoError(t, err)
	assert.Len(t, out, 2)

	in, err := svc.ListIncoming(ctx, t2.ID)
	require.NoError(t, err)
	assert.Len(t, in, 2)
}

func TestAddRelation_CyclesAllowed(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	t1 := testutil.SeedTask(t, e.db, e.h.UseCase.ID, "T1")
	t2 := testutil.SeedTask(t, e.db, e.h.UseCase.ID, "T2")

	_, err := e.relations().Add(ctx, "alice", t1.ID, t2.ID, domain.RelationBlocks)
	require.NoError(t, err)
	_, err = e.relations().Add(ctx, "alice", t2.ID, t1.ID, domain.RelationBlocks)
	require.NoError(t, err)
}

func TestAddRelation_Rejections(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	t1 := testutil.SeedTask(t, e.db, e.h.UseCase.ID, "T1")

	_, err := e.relations().Add(ctx, "alice", t1.ID, t1.ID, domain.RelationRelatesTo)
	assert.True(t, errors.Is(err, domain.ErrBusinessRule), "self relation")

	_, err = e.relations().Add(ctx, "alice", t1.ID, "ghost", domain.RelationFixes)
	assert.True(t, errors.Is(err, domain.ErrNotFound), "missing target")

	_, err = e.relations().Add(ctx, "alice", "ghost", t1.ID, domain.RelationFixes)
	assert.True(t, errors.Is(err, domain.ErrNotFound), "missing source")

	t2 := testutil.SeedTask(t, e.db, e.h.UseCase.ID, "T2")
	_, err = e.relations().Add(ctx, "alice", t1.ID, t2.ID, "depends_on")
	assert.True(t, errors.Is(err, domain.ErrValidation))

	out, err := e.relations().ListOutgoing(ctx, t1.ID)
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestAddRelation_Cap(t *testing.T) {
	e := newTestEnv(t)
	e.limits.TaskRelationsMax = 2
	ctx := context.Background()
	src := testutil.SeedTask(t, e.db, e.h.UseCase.ID, "Hub")
	a := testutil.SeedTask(t, e.db, e.h.UseCase.ID, "A")
	b := testutil.SeedTask(t, e.db, e.h.UseCase.ID, "B")
	c := testutil.SeedTask(t, e.db, e.h.UseCase.ID, "C")

	_, err := e.relations().Add(ctx, "alice", src.ID, a.ID, domain.RelationRelatesTo)
	require.NoError(t, err)
	_, err = e.relations().Add(ctx, "alice", src.ID, b.ID, domain.RelationRelatesTo)
	require.NoError(t, err)
	_, err = e.relations().Add(ctx, "alice", src.ID, c.ID, domain.RelationRelatesTo)
	assert.True(t, errors.Is(err, domain.ErrBusinessRule))
}

func TestRemoveRelation_OnlyOwnedEdges(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	t1 := testutil.SeedTask(t, e.db, e.h.UseCase.ID, "T1")
	t2 := testutil.SeedTask(t, e.db, e.h.UseCase.ID, "T2")
	rel := testutil.SeedRelation(t, e.db, t1.ID, t2.ID, domain.RelationBlocks)

	removed, err := e.relations().Remove(ctx, "alice", t2.ID, rel.ID)
	require.NoError(t, err)
	assert.False(t, removed, "target task does not own the edge")

	removed, err = e.relations().Remove(ctx, "alice", t1.ID, "unknown")
	require.NoError(t, err)
	assert.False(t, removed)

	out, err := e.relations().ListOutgoing(ctx, t1.ID)
	require.NoError(t, err)
	assert.Len(t, out, 1)

	removed, err = e.relations().Remove(ctx, "alice", t1.ID, rel.ID)
	require.NoError(t, err)
	assert.True(t, removed)
}

func TestRelation_AccessDenied(t *testing.T) {
	e := newTestEnv(t)
	e.gate = testutil.NewDenyGate("mallory")
	ctx := context.Background()
	t1 := testutil.SeedTask(t, e.db, e.h.UseCase.ID, "T1")
	t2 := testutil.SeedTask(t, e.db, e.h.UseCase.ID, "T2")

	_, err := e.relations().Add(ctx, "mallory", t1.ID, t2.ID, domain.RelationBlocks)
	assert.True(t, errors.Is(err, domain.ErrAccessDenied))
}
