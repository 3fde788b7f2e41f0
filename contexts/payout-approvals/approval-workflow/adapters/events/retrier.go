package events

import (
	"context"
	"errors"
	"time"

	domainerrors "fundqueue/contexts/payout-approvals/approval-workflow/domain/errors"
	"fundqueue/contexts/payout-approvals/approval-workflow/ports"

	"github.com/cenkalti/backoff/v4"
)

// BackoffRetrier retries a delivery with exponential backoff inside one
// relay cycle. Payloads that can never be delivered fail immediately.
type BackoffRetrier struct {
	InitialInterval time.Duration
	MaxInterval     time.Duration
	MaxRetries      uint64
}

func (r BackoffRetrier) Retry(ctx context.Context, op func() error) error {
	policy := backoff.NewExponentialBackOff()
	if r.InitialInterval > 0 {
		policy.InitialInterval = r.InitialInterval
	}
	if r.MaxInterval > 0 {
		policy.MaxInterval = r.MaxInterval
	}
	maxRetries := r.MaxRetries
	if maxRetries == 0 {
		maxRetries = 3
	}
	return backoff.Retry(func() error {
		err := op()
		if isPermanent(err) {
			return backoff.Permanent(err)
		}
		return err
	}, backoff.WithContext(backoff.WithMaxRetries(policy, maxRetries), ctx))
}

func isPermanent(err error) bool {
	return errors.Is(err, domainerrors.ErrOutboxDecode) ||
		errors.Is(err, domainerrors.ErrUnknownChannel) ||
		errors.Is(err, domainerrors.ErrInvalidInput)
}

var _ ports.Retrier = BackoffRetrier{}
