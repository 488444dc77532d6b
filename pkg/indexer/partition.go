package indexer

import "math/rand"

// Dedup reduces subs to its distinct entries. Result order is not
// guaranteed to match input order; downstream partitioning only relies
// on it for load spread, never correctness.
func Dedup(subs []string) []string {
	seen := make(map[string]struct{}, len(subs))
	out := make([]string, 0, len(subs))
	for _, s := range subs {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}

// Partition assigns subreddits to worker groups. With targetWorkers
// unset (<= 0) or at least len(subs), every subreddit gets its own
// group. Otherwise the list is shuffled and dealt round-robin, which
// bounds group size to ceil(n/targetWorkers) and spreads load
// independent of any clustering in the source list. Groups are disjoint
// and their union is exactly the input.
func Partition(subs []string, targetWorkers int) [][]string {
	if targetWorkers <= 0 || targetWorkers >= len(subs) {
		groups := make([][]string, len(subs))
		for i, s := range subs {
			groups[i] = []string{s}
		}
		return groups
	}

	shuffled := make([]string, len(subs))
	copy(shuffled, subs)
	rand.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	groups := make([][]string, targetWorkers)
	for i, s := range shuffled {
		groups[i%targetWorkers] = append(groups[i%targetWorkers], s)
	}
	return groups
}
