package collect

// RunTrial draws from the sampler's pool until every target has been seen
// at least once and returns the number of draws taken.
// A pool without targets is already complete: it returns 0 and never draws.
func RunTrial(s *Sampler) int {
	need := s.set.targetCount
	if need == 0 {
		return 0
	}

	got := make(map[int]struct{}, need)
	draws := 0
	for {
		draws++
		it := s.Draw()
		if it.Target {
			got[it.ID] = struct{}{}
		}
		if len(got) == need {
			return draws
		}
	}
}

// runTrials runs n trials on one sampler into a fresh slice.
func runTrials(s *Sampler, n int) []int {
	out := make([]int, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, RunTrial(s))
	}
	return out
}
