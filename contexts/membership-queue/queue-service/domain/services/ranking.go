package services

import (
	"fmt"
	"sort"

	"fundqueue/contexts/membership-queue/queue-service/domain/entities"
	domainerrors "fundqueue/contexts/membership-queue/queue-service/domain/errors"
)

type PositionChange struct {
	MemberID string
	From     int
	To       int
}

// SortQueue returns a copy of members ordered by queue position. Equal
// positions keep insertion order; member id is the last resort so the order
// never depends on map iteration or scan order.
func SortQueue(members []entities.Member) []entities.Member {
	items := append([]entities.Member(nil), members...)
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].QueuePosition != items[j].QueuePosition {
			return items[i].QueuePosition < items[j].QueuePosition
		}
		if items[i].InsertionSeq != items[j].InsertionSeq {
			return items[i].InsertionSeq < items[j].InsertionSeq
		}
		return items[i].MemberID < items[j].MemberID
	})
	return items
}

// Reassign ranks members 1..N in queue order and reports only the members
// whose position actually moved.
func Reassign(members []entities.Member) ([]entities.Member, []PositionChange) {
	ordered := SortQueue(members)
	changes := make([]PositionChange, 0)
	for i := range ordered {
		next := i + 1
		if ordered[i].QueuePosition != next {
			changes = append(changes, PositionChange{
				MemberID: ordered[i].MemberID,
				From:     ordered[i].QueuePosition,
				To:       next,
			})
			ordered[i].QueuePosition = next
		}
	}
	return ordered, changes
}

// VerifySnapshot checks that positions are exactly {1..N}.
func VerifySnapshot(members []entities.Member) error {
	seen := make(map[int]string, len(members))
	for _, member := range members {
		if member.QueuePosition < 1 || member.QueuePosition > len(members) {
			return fmt.Errorf("%w: member %s has position %d outside 1..%d",
				domainerrors.ErrInvariantViolation, member.MemberID, member.QueuePosition, len(members))
		}
		if other, ok := seen[member.QueuePosition]; ok {
			return fmt.Errorf("%w: members %s and %s share position %d",
				domainerrors.ErrInvariantViolation, other, member.MemberID, member.QueuePosition)
		}
		seen[member.QueuePosition] = member.MemberID
	}
	return nil
}
