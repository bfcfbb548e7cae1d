package graph

import "github.com/polinet/tradegraph/model"

// Components returns the connected components of the graph over all edge
// kinds. Each component lists its node keys in discovery order; components
// appear in the node insertion order of their first member. Isolated nodes
// form components of size one.
func Components(g *model.Graph) [][]string {
	visited := make(map[string]bool)
	var components [][]string

	for _, start := range g.NodeKeys() {
		if visited[start] {
			continue
		}
		visited[start] = true

		component := []string{start}
		queue := []string{start}
		for len(queue) > 0 {
			current := queue[0]
			queue = queue[1:]

			for _, edge := range g.EdgesOf(current) {
				next, ok := edge.Other(current)
				if !ok || visited[next] {
					continue
				}
				visited[next] = true
				component = append(component, next)
				queue = append(queue, next)
			}
		}
		components = append(components, component)
	}

	return components
}

// ConnectedKeys returns the keys of all nodes with at least one edge, in
// insertion order. The exporter uses it to drop unconnected clutter before
// rendering.
func ConnectedKeys(g *model.Graph) []string {
	var keys []string
	for _, key := range g.NodeKeys() {
		if g.Degree(key) > 0 {
			keys = append(keys, key)
		}
	}
	return keys
}
