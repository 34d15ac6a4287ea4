package scene

import "math"

// Vec3 is a point or direction in scene space.
type Vec3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

func (v Vec3) Add(o Vec3) Vec3      { return Vec3{X: v.X + o.X, Y: v.Y + o.Y, Z: v.Z + o.Z} }
func (v Vec3) Sub(o Vec3) Vec3      { return Vec3{X: v.X - o.X, Y: v.Y - o.Y, Z: v.Z - o.Z} }
func (v Vec3) Scale(k float64) Vec3 { return Vec3{X: v.X * k, Y: v.Y * k, Z: v.Z * k} }

// Len returns the euclidean length of v.
func (v Vec3) Len() float64 { return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z) }

// Transform places a node in its parent space.
type Transform struct {
	Position Vec3 `json:"position" inspect:"display_name=Position"`
	Rotation Vec3 `json:"rotation" inspect:"display_name=Rotation (deg)"`
	Scale    Vec3 `json:"scale" inspect:"display_name=Scale"`
}

// Node is one entity of the scene.
type Node struct {
	Name      string    `json:"name" inspect:"group=Common"`
	Visible   bool      `json:"visible" inspect:"group=Common"`
	Transform Transform `json:"transform" inspect:"group=Common"`
	Tags      []string  `json:"tags" inspect:"group=Common"`
	Navmesh   *Navmesh  `json:"navmesh,omitempty" inspect:"group=Navigation"`

	// Selected is editor bookkeeping and not editable by path.
	Selected bool `json:"-" inspect:"-"`
}

// DefaultNode returns the values a freshly created node starts with.
func DefaultNode() *Node {
	return &Node{
		Name:      "Node",
		Visible:   true,
		Transform: Transform{Scale: Vec3{X: 1, Y: 1, Z: 1}},
		Tags:      []string{},
	}
}

// NewNavmeshNode returns a default node carrying an empty navmesh.
func NewNavmeshNode(name string) *Node {
	node := DefaultNode()
	node.Name = name
	node.Navmesh = &Navmesh{Vertices: []Vertex{}, Triangles: []Triangle{}}
	return node
}
