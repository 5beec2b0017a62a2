package record

import (
	"math"

	"garagelink/config"
	"garagelink/services/apperr"
)

// FeePolicy computes the platform fee and garage earnings for a service
// amount. It is pure: same amount in, same split out. The split is fixed at
// Initiate time and never recomputed, so policy changes cannot retroactively
// alter historical records.
type FeePolicy struct {
	Fee     float64
	Minimum float64
	Mode    string
}

// NewFeePolicy builds the policy from configuration. Config validation
// guarantees Minimum > Fee, so deducted-mode earnings are never negative.
func NewFeePolicy(cfg *config.Config) FeePolicy {
	return FeePolicy{
		Fee:     cfg.PlatformFee,
		Minimum: cfg.MinServiceAmount,
		Mode:    cfg.FeeMode,
	}
}

// Compute returns (platformFee, garageEarnings) for the amount.
func (p FeePolicy) Compute(amount float64) (float64, float64, error) {
	if amount < p.Minimum {
		return 0, 0, apperr.Wrap(apperr.ErrInvalidAmount, "amount %.2f is below the minimum %.2f", amount, p.Minimum)
	}
	switch p.Mode {
	case config.FeeModeDeducted:
		return p.Fee, round2(amount - p.Fee), nil
	default:
		// additive: the customer pays amount + fee, the garage keeps the full amount.
		return p.Fee, amount, nil
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
