package graph

import (
	"errors"
	"reflect"
	"testing"
)

// newGraph creates a graph with the given nodes.
func newGraph(t *testing.T, ids ...string) *Graph {
	t.Helper()
	g := New()
	for _, id := range ids {
		if err := g.AddNode(id); err != nil {
			t.Fatalf("AddNode(%q) failed: %v", id, err)
		}
	}
	return g
}

func TestAddEdge(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(g *Graph)
		parent  string
		child   string
		wantErr error
	}{
		{
			name:   "simple edge",
			setup:  func(g *Graph) {},
			parent: "A",
			child:  "B",
		},
		{
			name: "duplicate edge is a no-op",
			setup: func(g *Graph) {
				g.AddEdge("A", "B")
			},
			parent: "A",
			child:  "B",
		},
		{
			name:    "self-loop",
			setup:   func(g *Graph) {},
			parent:  "A",
			child:   "A",
			wantErr: ErrCycle,
		},
		{
			name: "direct cycle",
			setup: func(g *Graph) {
				g.AddEdge("A", "B")
			},
			parent:  "B",
			child:   "A",
			wantErr: ErrCycle,
		},
		{
			name: "transitive cycle",
			setup: func(g *Graph) {
				g.AddEdge("A", "B")
				g.AddEdge("B", "C")
			},
			parent:  "C",
			child:   "A",
			wantErr: ErrCycle,
		},
		{
			name: "diamond is fine",
			setup: func(g *Graph) {
				g.AddEdge("A", "B")
				g.AddEdge("A", "C")
				g.AddEdge("B", "D")
			},
			parent: "C",
			child:  "D",
		},
		{
			name:    "unknown parent",
			setup:   func(g *Graph) {},
			parent:  "nonexistent",
			child:   "A",
			wantErr: ErrUnknownNode,
		},
		{
			name:    "unknown child",
			setup:   func(g *Graph) {},
			parent:  "A",
			child:   "nonexistent",
			wantErr: ErrUnknownNode,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := newGraph(t, "A", "B", "C", "D")
			tt.setup(g)
			before := g.Edges()

			err := g.AddEdge(tt.parent, tt.child)

			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("AddEdge(%q, %q) error = %v, want %v", tt.parent, tt.child, err, tt.wantErr)
			}

			if err != nil {
				// A rejected edge leaves the graph untouched
				if after := g.Edges(); !reflect.DeepEqual(before, after) {
					t.Errorf("edges changed after rejected AddEdge: %v -> %v", before, after)
				}
				return
			}

			if !contains(g.Children(tt.parent), tt.child) {
				t.Errorf("Children(%q) = %v, missing %q", tt.parent, g.Children(tt.parent), tt.child)
			}
			if !contains(g.Parents(tt.child), tt.parent) {
				t.Errorf("Parents(%q) = %v, missing %q", tt.child, g.Parents(tt.child), tt.parent)
			}
		})
	}
}

func TestAddNodeDuplicate(t *testing.T) {
	g := newGraph(t, "A")
	if err := g.AddNode("A"); err == nil {
		t.Fatal("Expected error when adding duplicate node")
	}
}

func TestChildrenAndParents(t *testing.T) {
	g := newGraph(t, "P", "C1", "C2", "Q")
	g.AddEdge("P", "C2")
	g.AddEdge("P", "C1")
	g.AddEdge("Q", "C1")

	if got, want := g.Children("P"), []string{"C1", "C2"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Children(P) = %v, want %v", got, want)
	}
	if got, want := g.Parents("C1"), []string{"P", "Q"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Parents(C1) = %v, want %v", got, want)
	}
	if got := g.Children("C1"); len(got) != 0 {
		t.Errorf("Children(C1) = %v, want none", got)
	}
	if got := g.Parents("missing"); len(got) != 0 {
		t.Errorf("Parents(missing) = %v, want none", got)
	}
}

func TestRemoveNode(t *testing.T) {
	g := newGraph(t, "A", "B", "C")
	g.AddEdge("A", "B")
	g.AddEdge("B", "C")

	g.RemoveNode("B")

	if err := g.AddNode("B"); err != nil {
		t.Errorf("B still registered: %v", err)
	}
	if got := g.Children("A"); len(got) != 0 {
		t.Errorf("Children(A) = %v after removing B", got)
	}
	if got := g.Parents("C"); len(got) != 0 {
		t.Errorf("Parents(C) = %v after removing B", got)
	}
	if got := g.Edges(); len(got) != 0 {
		t.Errorf("Edges() = %v, want none", got)
	}
}

func TestOrder(t *testing.T) {
	g := newGraph(t, "release", "build", "test", "docs")
	g.AddEdge("release", "test")
	g.AddEdge("test", "build")
	g.AddEdge("release", "docs")

	order, err := g.Order()
	if err != nil {
		t.Fatalf("Order() failed: %v", err)
	}
	if len(order) != 4 {
		t.Fatalf("Order() = %v, want 4 nodes", order)
	}

	pos := make(map[string]int)
	for i, id := range order {
		pos[id] = i
	}
	for _, e := range g.Edges() {
		if pos[e.Child] > pos[e.Parent] {
			t.Errorf("child %q ordered after parent %q in %v", e.Child, e.Parent, order)
		}
	}
}

func TestOrderDisconnected(t *testing.T) {
	g := newGraph(t, "A", "B", "C")

	order, err := g.Order()
	if err != nil {
		t.Fatalf("Order() failed: %v", err)
	}
	if len(order) != 3 {
		t.Errorf("Order() = %v, want all 3 isolated nodes", order)
	}
}

func contains(ids []string, want string) bool {
	for _, id := range ids {
		if id == want {
			return true
		}
	}
	return false
}
