package scene

// Vertex is one navmesh corner.
type Vertex struct {
	Position Vec3 `json:"position"`
}

// Triangle indexes three vertices of the owning navmesh.
type Triangle struct {
	A uint32 `json:"a"`
	B uint32 `json:"b"`
	C uint32 `json:"c"`
}

// Edges returns the triangle's edges in winding order.
func (t Triangle) Edges() [3]Edge {
	return [3]Edge{{A: t.A, B: t.B}, {A: t.B, B: t.C}, {A: t.C, B: t.A}}
}

// Indices returns the vertex indices in winding order.
func (t Triangle) Indices() [3]uint32 { return [3]uint32{t.A, t.B, t.C} }

// Edge joins two navmesh vertices. Edges compare equal regardless of
// direction through Same.
type Edge struct {
	A uint32 `json:"a"`
	B uint32 `json:"b"`
}

// Same reports whether e and o join the same two vertices.
func (e Edge) Same(o Edge) bool {
	return (e.A == o.A && e.B == o.B) || (e.A == o.B && e.B == o.A)
}

// Navmesh is a triangulated walkable surface.
type Navmesh struct {
	Vertices  []Vertex   `json:"vertices"`
	Triangles []Triangle `json:"triangles"`
}

// Clone returns a deep copy.
func (n *Navmesh) Clone() *Navmesh {
	if n == nil {
		return nil
	}
	return &Navmesh{
		Vertices:  append([]Vertex(nil), n.Vertices...),
		Triangles: append([]Triangle(nil), n.Triangles...),
	}
}

// TrianglesWithout returns the triangles that reference none of the given
// vertices, with the remaining vertex indices shifted to account for the
// removed ones.
func (n *Navmesh) TrianglesWithout(vertices []uint32) []Triangle {
	removed := make(map[uint32]struct{}, len(vertices))
	for _, v := range vertices {
		removed[v] = struct{}{}
	}
	shift := func(i uint32) uint32 {
		var below uint32
		for v := range removed {
			if v < i {
				below++
			}
		}
		return i - below
	}
	out := make([]Triangle, 0, len(n.Triangles))
	for _, tri := range n.Triangles {
		_, a := removed[tri.A]
		_, b := removed[tri.B]
		_, c := removed[tri.C]
		if a || b || c {
			continue
		}
		out = append(out, Triangle{A: shift(tri.A), B: shift(tri.B), C: shift(tri.C)})
	}
	return out
}
