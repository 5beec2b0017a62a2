package review

import (
	"context"
	"math"
	"sync"
)

// recomputeRating recomputes the garage's cached aggregate from scratch and
// writes it through the repository's dedicated rating path. The mutation that
// triggered it is not complete until this returns.
func (s *DefaultReviewService) recomputeRating(ctx context.Context, garageID string) error {
	reviews, err := s.Reviews.ListByGarage(ctx, garageID)
	if err != nil {
		return err
	}
	if len(reviews) == 0 {
		return s.Garages.SetRatingStats(ctx, garageID, 0, 0)
	}

	sum := 0
	for _, rev := range reviews {
		sum += rev.Rating
	}
	avg := float64(sum) / float64(len(reviews))
	// Round half away from zero at one decimal, like Math.round(avg*10)/10.
	rating := math.Round(avg*10) / 10

	return s.Garages.SetRatingStats(ctx, garageID, rating, len(reviews))
}

// keyedMutex serializes work per key while leaving distinct keys independent.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func (k *keyedMutex) lock(key string) (unlock func()) {
	k.mu.Lock()
	if k.locks == nil {
		k.locks = make(map[string]*sync.Mutex)
	}
	m, ok := k.locks[key]
	if !ok {
		m = &sync.Mutex{}
		k.locks[key] = m
	}
	k.mu.Unlock()

	m.Lock()
	return m.Unlock
}
