package collect

// Sampler draws items from one ItemSet with probability weight/WeightSum.
// It is not safe for concurrent use; give each worker its own.
type Sampler struct {
	set *ItemSet
	rng RandomSource
}

// NewSampler binds a pool to a random source. A nil rng gets DefaultRNG.
func NewSampler(set *ItemSet, rng RandomSource) *Sampler {
	if rng == nil {
		rng = DefaultRNG()
	}
	return &Sampler{set: set, rng: rng}
}

// Draw performs one weighted draw.
// r is uniform in [1, WeightSum]; items are scanned in id order and the
// first one whose weight covers what is left of r wins. Zero-weight items
// are never picked. The caller guarantees WeightSum > 0.
func (s *Sampler) Draw() Item {
	r := s.rng.IntN(s.set.weightSum) + 1
	for _, it := range s.set.items {
		if r <= it.Weight {
			return it
		}
		r -= it.Weight
	}
	// unreachable while weightSum matches the items
	return s.set.items[len(s.set.items)-1]
}
