package model

import "sort"

// TopoOrder computes the build order of projects by Kahn's algorithm over
// the `dependson` edges (spec.md §3 "Build graph", §4.2). Ties are broken
// by workspace-declaration order for deterministic builds. If the graph is
// not a DAG, ok is false and cycle lists every project with non-zero
// in-degree after the pass — the residual set, which spec.md §4.2 and
// testable property #4 require to name every project on a cycle exactly
// once.
func TopoOrder(projects []*Project) (order []*Project, cycle []string, ok bool) {
	index := make(map[string]int, len(projects))
	declOrder := make(map[string]int, len(projects))
	for i, p := range projects {
		index[p.Name] = i
		declOrder[p.Name] = i
	}

	inDegree := make([]int, len(projects))
	// adjacency[i] = indices of projects that depend on projects[i]
	adjacency := make([][]int, len(projects))

	for _, p := range projects {
		pi := index[p.Name]
		seen := map[string]bool{}
		for _, dep := range p.DependsOn {
			if seen[dep] {
				continue // duplicate dependency edge, count once
			}
			seen[dep] = true
			di, found := index[dep]
			if !found {
				continue // undefined dependency is a resolution error, not a cycle
			}
			adjacency[di] = append(adjacency[di], pi)
			inDegree[pi]++
		}
	}

	// ready holds indices with in-degree zero, kept sorted by declaration
	// order so dequeue order — and therefore build order among independent
	// projects — is deterministic.
	var ready []int
	for i := range projects {
		if inDegree[i] == 0 {
			ready = append(ready, i)
		}
	}
	sort.Ints(ready)

	visited := make([]bool, len(projects))
	for len(ready) > 0 {
		// Pop the smallest declaration index.
		i := ready[0]
		ready = ready[1:]
		visited[i] = true
		order = append(order, projects[i])

		var newlyReady []int
		for _, j := range adjacency[i] {
			inDegree[j]--
			if inDegree[j] == 0 {
				newlyReady = append(newlyReady, j)
			}
		}
		sort.Ints(newlyReady)
		ready = mergeSortedInts(ready, newlyReady)
	}

	if len(order) != len(projects) {
		for i, p := range projects {
			if !visited[i] {
				cycle = append(cycle, p.Name)
			}
		}
		sort.Strings(cycle)
		return nil, cycle, false
	}
	return order, nil, true
}

func mergeSortedInts(a, b []int) []int {
	out := make([]int, 0, len(a)+len(b))
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		if a[i] <= b[j] {
			out = append(out, a[i])
			i++
		} else {
			out = append(out, b[j])
			j++
		}
	}
	out = append(out, a[i:]...)
	out = append(out, b[j:]...)
	return out
}
