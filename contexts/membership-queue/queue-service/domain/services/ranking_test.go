package services

import (
	"testing"

	"fundqueue/contexts/membership-queue/queue-service/domain/entities"
	domainerrors "fundqueue/contexts/membership-queue/queue-service/domain/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func member(id string, position int, seq int64) entities.Member {
	return entities.Member{MemberID: id, QueuePosition: position, InsertionSeq: seq}
}

func ids(members []entities.Member) []string {
	out := make([]string, 0, len(members))
	for _, m := range members {
		out = append(out, m.MemberID)
	}
	return out
}

func TestSortQueueBreaksTiesByInsertionOrder(t *testing.T) {
	members := []entities.Member{
		member("late", entities.EndOfQueuePosition, 5),
		member("early", entities.EndOfQueuePosition, 4),
		member("second", 2, 2),
		member("first", 1, 1),
	}
	sorted := SortQueue(members)
	assert.Equal(t, []string{"first", "second", "early", "late"}, ids(sorted))
	assert.Equal(t, "late", members[0].MemberID, "input must not be reordered")
}

func TestReassignProducesContiguousRanks(t *testing.T) {
	members := []entities.Member{
		member("c", 7, 3),
		member("a", 1, 1),
		member("new", entities.EndOfQueuePosition, 4),
		member("b", 4, 2),
	}
	ranked, changes := Reassign(members)
	require.NoError(t, VerifySnapshot(ranked))
	assert.Equal(t, []string{"a", "b", "c", "new"}, ids(ranked))
	for i, m := range ranked {
		assert.Equal(t, i+1, m.QueuePosition)
	}
	assert.ElementsMatch(t, []PositionChange{
		{MemberID: "b", From: 4, To: 2},
		{MemberID: "c", From: 7, To: 3},
		{MemberID: "new", From: entities.EndOfQueuePosition, To: 4},
	}, changes)
}

func TestReassignIsIdempotent(t *testing.T) {
	members := []entities.Member{member("x", 9, 1), member("y", 3, 2), member("z", 3, 3)}
	once, _ := Reassign(members)
	twice, changes := Reassign(once)
	assert.Equal(t, once, twice)
	assert.Empty(t, changes)
}

func TestReassignEmptyQueue(t *testing.T) {
	ranked, changes := Reassign(nil)
	assert.Empty(t, ranked)
	assert.Empty(t, changes)
	assert.NoError(t, VerifySnapshot(ranked))
}

func TestVerifySnapshotRejectsGapsAndDuplicates(t *testing.T) {
	err := VerifySnapshot([]entities.Member{member("a", 1, 1), member("b", 1, 2)})
	assert.ErrorIs(t, err, domainerrors.ErrInvariantViolation)

	err = VerifySnapshot([]entities.Member{member("a", 1, 1), member("b", 3, 2)})
	assert.ErrorIs(t, err, domainerrors.ErrInvariantViolation)

	err = VerifySnapshot([]entities.Member{member("a", 0, 1)})
	assert.ErrorIs(t, err, domainerrors.ErrInvariantViolation)
}
