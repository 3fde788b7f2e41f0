package services

import "fundqueue/contexts/membership-queue/queue-service/domain/entities"

// EligibilityEvaluator reads the eligibility flag maintained by billing
// events. A member who already received a payout is never eligible again,
// whatever the stored flag says.
type EligibilityEvaluator struct{}

func (EligibilityEvaluator) IsEligible(member entities.Member) bool {
	return member.IsEligible && !member.HasReceivedPayout
}

// Normalize clears a stale eligibility flag on past winners before the member
// is persisted.
func (e EligibilityEvaluator) Normalize(member entities.Member) entities.Member {
	member.IsEligible = e.IsEligible(member)
	return member
}

func (e EligibilityEvaluator) CountEligible(members []entities.Member) int {
	count := 0
	for _, member := range members {
		if e.IsEligible(member) {
			count++
		}
	}
	return count
}
