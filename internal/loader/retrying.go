package loader

import (
	"context"
	"errors"
	"time"

	"github.com/sethvargo/go-retry"
)

// Retrying wraps any Capability with exponential backoff for transient
// failures, grounded in holomush-holomush's use of
// github.com/sethvargo/go-retry for resilient operations — here it
// covers the one transient failure mode a loader can legitimately
// have (a half-written file, a racing env mutation in a test
// harness). ErrNotFound is never retried: it's a permanent answer,
// not a transient one.
type Retrying struct {
	Inner      Capability
	MaxRetries uint64
	BaseDelay  time.Duration
}

func NewRetrying(inner Capability) *Retrying {
	return &Retrying{Inner: inner, MaxRetries: 3, BaseDelay: 20 * time.Millisecond}
}

func (r *Retrying) SchemeMatches(key string) bool { return r.Inner.SchemeMatches(key) }
func (r *Retrying) IsSafeForHermetic() bool       { return r.Inner.IsSafeForHermetic() }

func (r *Retrying) Load(key string) (string, error) {
	backoff := retry.WithMaxRetries(r.MaxRetries, retry.NewExponential(r.BaseDelay))
	var src string
	err := retry.Do(context.Background(), backoff, func(ctx context.Context) error {
		s, err := r.Inner.Load(key)
		if errors.Is(err, ErrNotFound) {
			return err
		}
		if err != nil {
			return retry.RetryableError(err)
		}
		src = s
		return nil
	})
	return src, err
}
