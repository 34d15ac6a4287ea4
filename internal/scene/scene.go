// Package scene holds the editable scene graph: a pool of nodes addressed by
// generational handles. Every type exposes its fields through generated
// property tables so the editor can edit it by path.
package scene

import "fmt"

//go:generate go run scene-editor/cmd/fieldgen -type Vec3,Transform,Vertex,Triangle,Navmesh,Node -output fields_gen.go

// Handle addresses a node slot. A handle goes stale once its node is removed,
// even if the slot is later reused.
type Handle struct {
	Index      uint32 `json:"index"`
	Generation uint32 `json:"generation"`
}

// None is the zero handle; it never addresses a node.
var None = Handle{}

func (h Handle) String() string {
	return fmt.Sprintf("%d:%d", h.Index, h.Generation)
}

// IsNone reports whether h is the zero handle.
func (h Handle) IsNone() bool { return h == None }

type slot struct {
	generation uint32
	node       *Node
}

// Scene is a pool of nodes. It is not safe for concurrent use.
type Scene struct {
	slots []slot
	free  []uint32
}

// New returns an empty scene.
func New() *Scene {
	return &Scene{}
}

// Add stores node and returns its handle.
func (s *Scene) Add(node *Node) Handle {
	if node == nil {
		node = DefaultNode()
	}
	if n := len(s.free); n > 0 {
		index := s.free[n-1]
		s.free = s.free[:n-1]
		s.slots[index].generation++
		s.slots[index].node = node
		return Handle{Index: index, Generation: s.slots[index].generation}
	}
	s.slots = append(s.slots, slot{generation: 1, node: node})
	return Handle{Index: uint32(len(s.slots) - 1), Generation: 1}
}

// Remove takes the node out of the scene. It returns nil for stale handles.
func (s *Scene) Remove(h Handle) *Node {
	node := s.Node(h)
	if node == nil {
		return nil
	}
	s.slots[h.Index].node = nil
	s.free = append(s.free, h.Index)
	return node
}

// Node returns the node behind h, or nil when h is stale.
func (s *Scene) Node(h Handle) *Node {
	if s == nil || int(h.Index) >= len(s.slots) {
		return nil
	}
	sl := s.slots[h.Index]
	if sl.generation != h.Generation || sl.node == nil {
		return nil
	}
	return sl.node
}

// Handles lists live handles in slot order.
func (s *Scene) Handles() []Handle {
	if s == nil {
		return nil
	}
	handles := make([]Handle, 0, len(s.slots)-len(s.free))
	for i, sl := range s.slots {
		if sl.node != nil {
			handles = append(handles, Handle{Index: uint32(i), Generation: sl.generation})
		}
	}
	return handles
}

// Len reports the number of live nodes.
func (s *Scene) Len() int {
	if s == nil {
		return 0
	}
	return len(s.slots) - len(s.free)
}
