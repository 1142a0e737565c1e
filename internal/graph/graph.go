// Package graph keeps the dependency edges between todos.
package graph

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/gammazero/toposort"
)

var (
	// ErrUnknownNode is returned when an edge names a node that was never added.
	ErrUnknownNode = errors.New("unknown node")
	// ErrCycle is returned when an edge would close a dependency cycle.
	ErrCycle = errors.New("dependency cycle")
)

// Edge reads "Child must be completed before Parent".
type Edge struct {
	Parent string
	Child  string
}

// Graph is a directed acyclic graph of todo identities.
// A parent waits on its children; a child is a prerequisite of its parents.
type Graph struct {
	mu       sync.RWMutex
	nodes    map[string]struct{}
	children map[string]map[string]struct{} // parent -> children
	parents  map[string]map[string]struct{} // child -> parents
}

// New creates an empty graph.
func New() *Graph {
	return &Graph{
		nodes:    make(map[string]struct{}),
		children: make(map[string]map[string]struct{}),
		parents:  make(map[string]map[string]struct{}),
	}
}

// AddNode registers id. Returns error if it already exists.
func (g *Graph) AddNode(id string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, exists := g.nodes[id]; exists {
		return fmt.Errorf("node %q already exists", id)
	}
	g.nodes[id] = struct{}{}
	return nil
}

// RemoveNode drops id together with every edge touching it.
func (g *Graph) RemoveNode(id string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	for child := range g.children[id] {
		delete(g.parents[child], id)
	}
	for parent := range g.parents[id] {
		delete(g.children[parent], id)
	}
	delete(g.children, id)
	delete(g.parents, id)
	delete(g.nodes, id)
}

// AddEdge records that child must be completed before parent.
// Adding an existing edge is a no-op. Edges that would close a cycle,
// including self-loops, are rejected with ErrCycle and leave the graph unchanged.
func (g *Graph) AddEdge(parent, child string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	for _, id := range []string{parent, child} {
		if _, exists := g.nodes[id]; !exists {
			return fmt.Errorf("%w: %q", ErrUnknownNode, id)
		}
	}

	if parent == child {
		return fmt.Errorf("%w: %q depends on itself", ErrCycle, parent)
	}

	if _, exists := g.children[parent][child]; exists {
		return nil
	}

	link(g.children, parent, child)
	link(g.parents, child, parent)

	// Validate by sorting; undo the edge if it closed a cycle
	if _, err := g.order(); err != nil {
		delete(g.children[parent], child)
		delete(g.parents[child], parent)
		return fmt.Errorf("%w: %q -> %q", ErrCycle, parent, child)
	}

	return nil
}

// Children returns the prerequisites of id, sorted.
func (g *Graph) Children(id string) []string {
	g.mu.RLock()
	defer g.mu.RUnlock()

	return sortedKeys(g.children[id])
}

// Parents returns the nodes waiting on id, sorted.
func (g *Graph) Parents(id string) []string {
	g.mu.RLock()
	defer g.mu.RUnlock()

	return sortedKeys(g.parents[id])
}

// Edges returns every edge sorted by parent, then child.
func (g *Graph) Edges() []Edge {
	g.mu.RLock()
	defer g.mu.RUnlock()

	var edges []Edge
	for parent, children := range g.children {
		for child := range children {
			edges = append(edges, Edge{Parent: parent, Child: child})
		}
	}
	sort.Slice(edges, func(i, j int) bool {
		if edges[i].Parent != edges[j].Parent {
			return edges[i].Parent < edges[j].Parent
		}
		return edges[i].Child < edges[j].Child
	})
	return edges
}

// Order returns every node so that each child comes before its parents.
func (g *Graph) Order() ([]string, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	return g.order()
}

// order runs a topological sort using gammazero/toposort. Caller holds the lock.
func (g *Graph) order() ([]string, error) {
	// Sorted node iteration keeps the result stable between runs
	ids := sortedKeys(g.nodes)

	var edges []toposort.Edge
	for _, id := range ids {
		// Every node gets an edge from nil so isolated nodes are included
		edges = append(edges, toposort.Edge{nil, id})
		for _, parent := range sortedKeys(g.parents[id]) {
			// Edge (child, parent) means the child must come first
			edges = append(edges, toposort.Edge{id, parent})
		}
	}

	sorted, err := toposort.Toposort(edges)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCycle, err)
	}

	order := make([]string, 0, len(sorted))
	for _, id := range sorted {
		if id != nil {
			order = append(order, id.(string))
		}
	}
	return order, nil
}

func link(m map[string]map[string]struct{}, from, to string) {
	if m[from] == nil {
		m[from] = make(map[string]struct{})
	}
	m[from][to] = struct{}{}
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
