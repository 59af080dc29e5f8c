// Package cycle tracks which annotation types hold attributes of which
// other annotation types and finds the attribute edges that lie on a
// cycle. The graph only grows; each new node is checked against the part
// of the graph reachable from it.
package cycle

// NodeID indexes a node of the arena.
type NodeID int32

// NoNode is returned for unknown names.
const NoNode NodeID = -1

// Edge is an attribute of an annotation type whose type (one array
// dimension peeled) is the annotation type To.
type Edge struct {
	// Attr is the attribute's index in declaration order.
	Attr int
	To   string
}

// Cycle is one attribute edge lying on a cycle.
type Cycle struct {
	Attr int
	To   NodeID
	// Self marks an attribute typed with its own declaring type.
	Self bool
}

type edge struct {
	attr    int
	to      NodeID
	toName  string
	inCycle bool
}

type node struct {
	name  string
	edges []edge
}

// Graph is the attribute-type graph of one compile run. It is not safe
// for concurrent mutation.
type Graph struct {
	nodes   []node
	index   map[string]NodeID
	pending map[string][]pendingEdge
}

type pendingEdge struct {
	from NodeID
	edge int
}

// New returns an empty graph.
func New() *Graph {
	return &Graph{
		index:   make(map[string]NodeID),
		pending: make(map[string][]pendingEdge),
	}
}

// Len returns the number of nodes.
func (g *Graph) Len() int { return len(g.nodes) }

// Lookup returns the node called name, or NoNode.
func (g *Graph) Lookup(name string) NodeID {
	if id, ok := g.index[name]; ok {
		return id
	}
	return NoNode
}

// Name returns the name id was added with.
func (g *Graph) Name(id NodeID) string {
	if id < 0 || int(id) >= len(g.nodes) {
		return ""
	}
	return g.nodes[id].name
}

// AddNode adds name with its outgoing edges and checks the strongly
// connected component reachable from it. Edges to names not added yet
// stay pending until those nodes arrive. Adding a name twice returns the
// existing node unchanged.
func (g *Graph) AddNode(name string, edges []Edge) NodeID {
	if id, ok := g.index[name]; ok {
		return id
	}
	id := NodeID(len(g.nodes))
	n := node{name: name, edges: make([]edge, 0, len(edges))}
	g.nodes = append(g.nodes, n)
	g.index[name] = id

	for _, e := range edges {
		to := g.Lookup(e.To)
		if e.To == name {
			to = id
		}
		g.nodes[id].edges = append(g.nodes[id].edges, edge{attr: e.Attr, to: to, toName: e.To})
		if to == NoNode {
			g.pending[e.To] = append(g.pending[e.To], pendingEdge{from: id, edge: len(g.nodes[id].edges) - 1})
		}
	}
	for _, p := range g.pending[name] {
		g.nodes[p.from].edges[p.edge].to = id
	}
	delete(g.pending, name)

	g.check(id)
	return id
}

// Cycles returns the edges of id that lie on a cycle, in attribute order.
func (g *Graph) Cycles(id NodeID) []Cycle {
	if id < 0 || int(id) >= len(g.nodes) {
		return nil
	}
	var out []Cycle
	for _, e := range g.nodes[id].edges {
		if e.inCycle {
			out = append(out, Cycle{Attr: e.attr, To: e.to, Self: e.to == id})
		}
	}
	return out
}

// check runs Tarjan's algorithm from start and marks the edges inside
// every non-trivial component it finds.
func (g *Graph) check(start NodeID) {
	t := tarjan{
		g:       g,
		index:   make(map[NodeID]int),
		low:     make(map[NodeID]int),
		onStack: make(map[NodeID]bool),
	}
	t.visit(start)
}

type tarjan struct {
	g       *Graph
	next    int
	index   map[NodeID]int
	low     map[NodeID]int
	stack   []NodeID
	onStack map[NodeID]bool
}

func (t *tarjan) visit(v NodeID) {
	t.index[v] = t.next
	t.low[v] = t.next
	t.next++
	t.stack = append(t.stack, v)
	t.onStack[v] = true

	for _, e := range t.g.nodes[v].edges {
		w := e.to
		if w == NoNode {
			continue
		}
		if _, seen := t.index[w]; !seen {
			t.visit(w)
			t.low[v] = min(t.low[v], t.low[w])
		} else if t.onStack[w] {
			t.low[v] = min(t.low[v], t.index[w])
		}
	}

	if t.low[v] != t.index[v] {
		return
	}
	members := make(map[NodeID]bool)
	for {
		w := t.stack[len(t.stack)-1]
		t.stack = t.stack[:len(t.stack)-1]
		t.onStack[w] = false
		members[w] = true
		if w == v {
			break
		}
	}
	for m := range members {
		edges := t.g.nodes[m].edges
		for i := range edges {
			to := edges[i].to
			if to == NoNode || !members[to] {
				continue
			}
			if to == m || len(members) > 1 {
				edges[i].inCycle = true
			}
		}
	}
}
