package model

import "fmt"

// Graph is an undirected, attributed multigraph over politician and
// transaction nodes. It is the single mutable artifact passed through the
// pipeline; each stage adds annotations but never removes nodes or edges of a
// prior stage.
//
// Node iteration order is pinned to insertion order so that analysis results
// are reproducible for identical input.
type Graph struct {
	nodes map[string]*Node
	order []string
	edges []*Edge
	adj   map[string][]*Edge
}

// NewGraph creates an empty graph
func NewGraph() *Graph {
	return &Graph{
		nodes: make(map[string]*Node),
		adj:   make(map[string][]*Edge),
	}
}

// AddNode inserts a node, keeping the first node inserted under a key.
// It returns the node stored under the key.
func (g *Graph) AddNode(n *Node) *Node {
	if existing, ok := g.nodes[n.Key]; ok {
		return existing
	}
	g.nodes[n.Key] = n
	g.order = append(g.order, n.Key)
	return n
}

// AddEdge inserts an edge. Both endpoints must already exist.
func (g *Graph) AddEdge(e *Edge) error {
	if _, ok := g.nodes[e.Source]; !ok {
		return fmt.Errorf("edge source %q is not a node", e.Source)
	}
	if _, ok := g.nodes[e.Target]; !ok {
		return fmt.Errorf("edge target %q is not a node", e.Target)
	}
	g.edges = append(g.edges, e)
	g.adj[e.Source] = append(g.adj[e.Source], e)
	g.adj[e.Target] = append(g.adj[e.Target], e)
	return nil
}

// Node returns the node stored under key
func (g *Graph) Node(key string) (*Node, bool) {
	n, ok := g.nodes[key]
	return n, ok
}

// Nodes returns all nodes in insertion order
func (g *Graph) Nodes() []*Node {
	nodes := make([]*Node, 0, len(g.order))
	for _, key := range g.order {
		nodes = append(nodes, g.nodes[key])
	}
	return nodes
}

// NodeKeys returns all node keys in insertion order
func (g *Graph) NodeKeys() []string {
	keys := make([]string, len(g.order))
	copy(keys, g.order)
	return keys
}

// Edges returns all edges in insertion order
func (g *Graph) Edges() []*Edge {
	return g.edges
}

// EdgesOf returns the edges incident to key
func (g *Graph) EdgesOf(key string) []*Edge {
	return g.adj[key]
}

// Degree returns the number of edges incident to key
func (g *Graph) Degree(key string) int {
	return len(g.adj[key])
}

// Neighbors returns the distinct neighbors of key, in edge insertion order
func (g *Graph) Neighbors(key string) []string {
	seen := make(map[string]bool)
	var neighbors []string
	for _, e := range g.adj[key] {
		other, ok := e.Other(key)
		if !ok || seen[other] {
			continue
		}
		seen[other] = true
		neighbors = append(neighbors, other)
	}
	return neighbors
}

// NodeCount returns the number of nodes
func (g *Graph) NodeCount() int {
	return len(g.nodes)
}

// EdgeCount returns the number of edges
func (g *Graph) EdgeCount() int {
	return len(g.edges)
}
