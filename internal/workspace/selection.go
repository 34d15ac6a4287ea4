package workspace

import (
	"slices"

	"scene-editor/internal/scene"
)

// EntityKind tells which part of a navmesh an entity refers to.
type EntityKind uint8

const (
	EntityVertex EntityKind = iota
	EntityEdge
)

func (k EntityKind) String() string {
	if k == EntityEdge {
		return "edge"
	}
	return "vertex"
}

// NavmeshEntity is one selected vertex or edge.
type NavmeshEntity struct {
	Kind   EntityKind `json:"kind"`
	Vertex uint32     `json:"vertex,omitempty"`
	Edge   scene.Edge `json:"edge,omitempty"`
}

// Vertex selects a single navmesh vertex.
func Vertex(index uint32) NavmeshEntity {
	return NavmeshEntity{Kind: EntityVertex, Vertex: index}
}

// EdgeEntity selects a navmesh edge.
func EdgeEntity(edge scene.Edge) NavmeshEntity {
	return NavmeshEntity{Kind: EntityEdge, Edge: edge}
}

// Same reports whether e and o select the same part of the mesh.
func (e NavmeshEntity) Same(o NavmeshEntity) bool {
	if e.Kind != o.Kind {
		return false
	}
	if e.Kind == EntityEdge {
		return e.Edge.Same(o.Edge)
	}
	return e.Vertex == o.Vertex
}

// NavmeshSelection is the set of entities selected on one navmesh node.
type NavmeshSelection struct {
	Node     scene.Handle    `json:"node"`
	Entities []NavmeshEntity `json:"entities"`
}

// Contains reports whether entity is selected.
func (s NavmeshSelection) Contains(entity NavmeshEntity) bool {
	return slices.ContainsFunc(s.Entities, entity.Same)
}

// With returns a copy of s that also selects entity.
func (s NavmeshSelection) With(entity NavmeshEntity) NavmeshSelection {
	if s.Contains(entity) {
		return s
	}
	return NavmeshSelection{Node: s.Node, Entities: append(slices.Clone(s.Entities), entity)}
}

// UniqueVertices lists every vertex referenced by the selection, ascending
// and without duplicates.
func (s NavmeshSelection) UniqueVertices() []uint32 {
	var out []uint32
	for _, e := range s.Entities {
		if e.Kind == EntityEdge {
			out = append(out, e.Edge.A, e.Edge.B)
		} else {
			out = append(out, e.Vertex)
		}
	}
	slices.Sort(out)
	return slices.Compact(out)
}

// Edges lists the selected edges in selection order.
func (s NavmeshSelection) Edges() []scene.Edge {
	var out []scene.Edge
	for _, e := range s.Entities {
		if e.Kind == EntityEdge {
			out = append(out, e.Edge)
		}
	}
	return out
}

// Selection is what the editor currently operates on.
type Selection struct {
	Nodes   []scene.Handle    `json:"nodes,omitempty"`
	Navmesh *NavmeshSelection `json:"navmesh,omitempty"`
}

// IsEmpty reports whether nothing is selected.
func (s Selection) IsEmpty() bool {
	return len(s.Nodes) == 0 && (s.Navmesh == nil || len(s.Navmesh.Entities) == 0)
}

// Clone returns a deep copy.
func (s Selection) Clone() Selection {
	out := Selection{Nodes: slices.Clone(s.Nodes)}
	if s.Navmesh != nil {
		nav := NavmeshSelection{Node: s.Navmesh.Node, Entities: slices.Clone(s.Navmesh.Entities)}
		out.Navmesh = &nav
	}
	return out
}

// Equal reports whether both selections hold the same entries in the same
// order.
func (s Selection) Equal(o Selection) bool {
	if !slices.Equal(s.Nodes, o.Nodes) {
		return false
	}
	if (s.Navmesh == nil) != (o.Navmesh == nil) {
		return false
	}
	if s.Navmesh == nil {
		return true
	}
	return s.Navmesh.Node == o.Navmesh.Node && slices.EqualFunc(s.Navmesh.Entities, o.Navmesh.Entities, NavmeshEntity.Same)
}

// ChangeSelection swaps the workspace selection.
type ChangeSelection struct {
	next Selection
	prev Selection
}

// NewChangeSelection records a switch from prev to next.
func NewChangeSelection(next, prev Selection) *ChangeSelection {
	return &ChangeSelection{next: next.Clone(), prev: prev.Clone()}
}

func (c *ChangeSelection) Name(*Workspace) string { return "Change selection" }

func (c *ChangeSelection) Execute(w *Workspace) { w.Selection = c.next.Clone() }

func (c *ChangeSelection) Revert(w *Workspace) { w.Selection = c.prev.Clone() }
