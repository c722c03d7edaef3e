package agent

// computePriority assigns each reactor slot a priority following the
// original's recursive TeleoReactor::getPriority formula: a reactor with no
// externals has priority 0, and a reactor with externals has priority
// 1 + max(priority(owner(t))) over the timelines t it reads. Independent
// reactors — no ownership path between them — therefore land on the same
// priority value, not on distinct ones; within a priority tier, run order
// falls back to assembly/slot index (see orderByPriority).
//
// The computation walks the ownership graph (edge owner -> subscriber, one
// per "subscriber reads a timeline owner publishes" relationship) in
// topological order via Kahn's algorithm, which both replaces the
// original's unbounded recursion with an explicit, cycle-detecting sort and
// guarantees every predecessor's priority is already known by the time a
// node is processed.
//
// edges[i] lists the slot indices that depend on slot i (i.e. i's
// subscribers). The returned slice maps slot index -> priority.
func computePriority(n int, edges [][]int) ([]int, error) {
	indegree := make([]int, n)
	preds := make([][]int, n)
	for owner, subs := range edges {
		for _, s := range subs {
			indegree[s]++
			preds[s] = append(preds[s], owner)
		}
	}

	priority := make([]int, n)
	processed := 0

	ready := make([]int, 0, n)
	for i := 0; i < n; i++ {
		if indegree[i] == 0 {
			ready = append(ready, i)
		}
	}

	for len(ready) > 0 {
		// Pop the lowest-indexed ready node so that, among reactors with no
		// ordering constraint between them, processing order (and hence the
		// final within-tier run order) is deterministic.
		minIdx := 0
		for i := 1; i < len(ready); i++ {
			if ready[i] < ready[minIdx] {
				minIdx = i
			}
		}
		node := ready[minIdx]
		ready = append(ready[:minIdx], ready[minIdx+1:]...)

		p := 0
		for _, owner := range preds[node] {
			if priority[owner]+1 > p {
				p = priority[owner] + 1
			}
		}
		priority[node] = p
		processed++

		for _, s := range edges[node] {
			indegree[s]--
			if indegree[s] == 0 {
				ready = append(ready, s)
			}
		}
	}

	if processed < n {
		return nil, ErrPriorityCycle
	}
	return priority, nil
}
