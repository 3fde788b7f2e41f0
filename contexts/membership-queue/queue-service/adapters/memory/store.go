package memory

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"fundqueue/contexts/membership-queue/queue-service/domain/entities"
	domainerrors "fundqueue/contexts/membership-queue/queue-service/domain/errors"
	"fundqueue/contexts/membership-queue/queue-service/ports"
)

// Store is the in-process queue store. Every write path holds the single
// store mutex, which gives RewritePositions the same isolation a table lock
// gives the postgres adapter.
type Store struct {
	mu sync.RWMutex

	members  map[string]entities.Member
	profiles map[string]entities.Profile
	payments []entities.Payment
	nextSeq  int64

	// failure injection for degraded-path tests
	membersErr  error
	profileErrs map[string]error
	ledgerErr   error
}

func NewStore(seed []entities.Member) *Store {
	store := &Store{
		members:     make(map[string]entities.Member, len(seed)),
		profiles:    make(map[string]entities.Profile),
		profileErrs: make(map[string]error),
	}
	for _, member := range seed {
		if member.InsertionSeq == 0 {
			store.nextSeq++
			member.InsertionSeq = store.nextSeq
		} else if member.InsertionSeq > store.nextSeq {
			store.nextSeq = member.InsertionSeq
		}
		store.members[strings.TrimSpace(member.MemberID)] = member
	}
	return store
}

func (s *Store) SetProfile(profile entities.Profile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profiles[strings.TrimSpace(profile.MemberID)] = profile
}

func (s *Store) SetProfileError(memberID string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profileErrs[strings.TrimSpace(memberID)] = err
}

func (s *Store) AddPayment(payment entities.Payment) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.payments = append(s.payments, payment)
}

// SetMembersError makes every member read fail with err wrapped as
// ErrDataUnavailable; nil restores normal behaviour.
func (s *Store) SetMembersError(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.membersErr = err
}

func (s *Store) SetLedgerError(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ledgerErr = err
}

func (s *Store) ListMembers(_ context.Context) ([]entities.Member, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.membersErr != nil {
		return nil, fmt.Errorf("%w: %v", domainerrors.ErrDataUnavailable, s.membersErr)
	}
	items := make([]entities.Member, 0, len(s.members))
	for _, member := range s.members {
		items = append(items, member)
	}
	return items, nil
}

func (s *Store) GetMember(_ context.Context, memberID string) (entities.Member, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.membersErr != nil {
		return entities.Member{}, fmt.Errorf("%w: %v", domainerrors.ErrDataUnavailable, s.membersErr)
	}
	member, ok := s.members[strings.TrimSpace(memberID)]
	if !ok {
		return entities.Member{}, domainerrors.ErrMemberNotFound
	}
	return member, nil
}

func (s *Store) CreateMember(_ context.Context, member entities.Member) (entities.Member, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.membersErr != nil {
		return entities.Member{}, fmt.Errorf("%w: %v", domainerrors.ErrDataUnavailable, s.membersErr)
	}
	memberID := strings.TrimSpace(member.MemberID)
	if _, exists := s.members[memberID]; exists {
		return entities.Member{}, domainerrors.ErrDuplicateMember
	}
	s.nextSeq++
	member.MemberID = memberID
	member.InsertionSeq = s.nextSeq
	s.members[memberID] = member
	return member, nil
}

func (s *Store) UpdateMember(_ context.Context, memberID string, mutate ports.MemberMutation) (entities.Member, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.membersErr != nil {
		return entities.Member{}, fmt.Errorf("%w: %v", domainerrors.ErrDataUnavailable, s.membersErr)
	}
	memberID = strings.TrimSpace(memberID)
	current, ok := s.members[memberID]
	if !ok {
		return entities.Member{}, domainerrors.ErrMemberNotFound
	}
	next, err := mutate(current)
	if err != nil {
		return entities.Member{}, err
	}
	next.MemberID = current.MemberID
	next.InsertionSeq = current.InsertionSeq
	next.CreatedAt = current.CreatedAt
	s.members[memberID] = next
	return next, nil
}

func (s *Store) DeleteMember(_ context.Context, memberID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.membersErr != nil {
		return fmt.Errorf("%w: %v", domainerrors.ErrDataUnavailable, s.membersErr)
	}
	memberID = strings.TrimSpace(memberID)
	if _, ok := s.members[memberID]; !ok {
		return domainerrors.ErrMemberNotFound
	}
	delete(s.members, memberID)
	return nil
}

func (s *Store) RewritePositions(_ context.Context, plan ports.PositionPlan) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.membersErr != nil {
		return 0, fmt.Errorf("%w: %v", domainerrors.ErrDataUnavailable, s.membersErr)
	}
	current := make([]entities.Member, 0, len(s.members))
	for _, member := range s.members {
		current = append(current, member)
	}
	moves, err := plan(current)
	if err != nil {
		return 0, err
	}
	now := time.Now().UTC()
	for memberID, position := range moves {
		member, ok := s.members[memberID]
		if !ok {
			return 0, domainerrors.ErrMemberNotFound
		}
		member.QueuePosition = position
		member.UpdatedAt = now
		s.members[memberID] = member
	}
	return len(current), nil
}

func (s *Store) GetProfile(_ context.Context, memberID string) (entities.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	memberID = strings.TrimSpace(memberID)
	if err := s.profileErrs[memberID]; err != nil {
		return entities.Profile{}, err
	}
	profile, ok := s.profiles[memberID]
	if !ok {
		return entities.Profile{}, domainerrors.ErrMemberNotFound
	}
	return profile, nil
}

func (s *Store) ListCompletedPayments(_ context.Context) ([]entities.Payment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.ledgerErr != nil {
		return nil, fmt.Errorf("%w: %v", domainerrors.ErrDataUnavailable, s.ledgerErr)
	}
	items := make([]entities.Payment, 0, len(s.payments))
	for _, payment := range s.payments {
		if payment.Status == entities.PaymentStatusCompleted {
			items = append(items, payment)
		}
	}
	return items, nil
}

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}

var _ ports.MemberRepository = (*Store)(nil)
var _ ports.ProfileReader = (*Store)(nil)
var _ ports.PaymentLedger = (*Store)(nil)
var _ ports.Clock = (*Store)(nil)
