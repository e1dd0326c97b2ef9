package core

import "context"

// depsFunc returns the direct prerequisite ids of a wire.
type depsFunc func(ctx context.Context, id string) ([]string, error)

// findCycle checks whether an edge from wireID to dependsOn would close a
// cycle. It walks the existing graph from dependsOn along prerequisite edges
// looking for wireID, visiting each node at most once. The returned path
// begins and ends at wireID; nil means the edge is safe.
func findCycle(ctx context.Context, wireID, dependsOn string, deps depsFunc) ([]string, error) {
	if wireID == dependsOn {
		return []string{wireID, wireID}, nil
	}

	visited := make(map[string]bool)
	parent := make(map[string]string)
	stack := []string{dependsOn}

	for len(stack) > 0 {
		current := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if visited[current] {
			continue
		}
		visited[current] = true

		if current == wireID {
			return cyclePath(wireID, dependsOn, parent), nil
		}

		next, err := deps(ctx, current)
		if err != nil {
			return nil, err
		}
		for _, dep := range next {
			if visited[dep] {
				continue
			}
			if _, seen := parent[dep]; !seen {
				parent[dep] = current
			}
			stack = append(stack, dep)
		}
	}
	return nil, nil
}

// cyclePath rebuilds the loop from the parent pointers recorded during the
// walk, falling back to the minimal three-node form if the chain cannot be
// followed.
func cyclePath(wireID, dependsOn string, parent map[string]string) []string {
	chain := []string{}
	node := wireID
	for node != dependsOn {
		chain = append(chain, node)
		p, ok := parent[node]
		if !ok {
			return []string{wireID, dependsOn, wireID}
		}
		node = p
	}
	chain = append(chain, dependsOn)

	for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}
	return append([]string{wireID}, chain...)
}
