// Package navmesh implements the interactive navmesh editing mode: picking
// vertices and edges, dragging them, extruding edges and deleting vertices.
// Every committed change is returned as a workspace command for the caller
// to push onto the undo stack; the mode never records history itself.
package navmesh

import (
	"math"
	"slices"

	"scene-editor/internal/property"
	"scene-editor/internal/scene"
	"scene-editor/internal/workspace"
)

const (
	verticesPath  = "navmesh.vertices"
	trianglesPath = "navmesh.triangles"
)

// PickKind tells what lies under the pointer.
type PickKind uint8

const (
	PickNothing PickKind = iota
	PickGizmo
	PickVertex
	PickEdge
)

// Pick is the caller's hit test result for a pointer press.
type Pick struct {
	Kind   PickKind
	Vertex uint32
	Edge   scene.Edge
}

// Modifiers are the keyboard modifiers held during an input event.
type Modifiers struct {
	Shift   bool
	Control bool
}

// Key identifies the keys the mode reacts to.
type Key uint8

const (
	KeyDelete Key = iota + 1
	KeyA
)

// Options tune the editing mode.
type Options struct {
	// Snap rounds committed vertex positions to multiples of Snap when
	// positive.
	Snap float64
}

type dragKind uint8

const (
	dragMoveSelection dragKind = iota + 1
	dragEdgeDuplication
)

type dragContext struct {
	kind dragKind
	// initial holds every vertex position at the start of a move.
	initial []scene.Vec3
	// vertices are the two extruded vertices of an edge duplication.
	vertices [2]scene.Vertex
	opposite scene.Edge
}

// EditMode edits the navmesh of one node.
type EditMode struct {
	node  scene.Handle
	props workspace.Properties
	opts  Options
	drag  *dragContext
}

// NewEditMode returns a mode that builds its property commands from props.
func NewEditMode(props workspace.Properties, opts Options) *EditMode {
	return &EditMode{props: props, opts: opts}
}

// SetNavmesh selects the node being edited and abandons any drag in progress.
func (m *EditMode) SetNavmesh(node scene.Handle) {
	m.node = node
	m.drag = nil
}

// Navmesh returns the node being edited.
func (m *EditMode) Navmesh() scene.Handle { return m.node }

// Dragging reports whether a pointer drag is in progress.
func (m *EditMode) Dragging() bool { return m.drag != nil }

// Duplicating reports whether the current drag extrudes an edge.
func (m *EditMode) Duplicating() bool {
	return m.drag != nil && m.drag.kind == dragEdgeDuplication
}

func (m *EditMode) mesh(w *workspace.Workspace) *scene.Navmesh {
	node := w.Scene.Node(m.node)
	if node == nil {
		return nil
	}
	return node.Navmesh
}

func (m *EditMode) selection(w *workspace.Workspace) *workspace.NavmeshSelection {
	if nav := w.Selection.Navmesh; nav != nil && nav.Node == m.node {
		return nav
	}
	return nil
}

func (m *EditMode) emptySelection() workspace.Selection {
	return workspace.Selection{Navmesh: &workspace.NavmeshSelection{Node: m.node}}
}

// PointerDown starts a move when the gizmo is hit, otherwise selects the
// picked vertex or edge. Shift extends the current selection. It returns the
// selection change to push, or nil.
func (m *EditMode) PointerDown(w *workspace.Workspace, pick Pick, mods Modifiers) workspace.Command {
	mesh := m.mesh(w)
	if mesh == nil {
		return nil
	}

	if pick.Kind == PickGizmo {
		initial := make([]scene.Vec3, len(mesh.Vertices))
		for i, v := range mesh.Vertices {
			initial[i] = v.Position
		}
		m.drag = &dragContext{kind: dragMoveSelection, initial: initial}
		return nil
	}

	next := workspace.NavmeshSelection{Node: m.node}
	if current := m.selection(w); current != nil && mods.Shift {
		next.Entities = slices.Clone(current.Entities)
	}
	switch pick.Kind {
	case PickVertex:
		if int(pick.Vertex) < len(mesh.Vertices) {
			next = next.With(workspace.Vertex(pick.Vertex))
		}
	case PickEdge:
		if validEdge(mesh, pick.Edge) {
			next = next.With(workspace.EdgeEntity(pick.Edge))
		}
	}

	selection := workspace.Selection{Navmesh: &next}
	if selection.Equal(w.Selection) {
		return nil
	}
	return workspace.NewChangeSelection(selection, w.Selection)
}

// Drag applies offset to whatever the current drag moves. Holding shift while
// dragging a single selected edge switches to extruding a copy of that edge;
// the returned command clears the selection when that happens.
func (m *EditMode) Drag(w *workspace.Workspace, offset scene.Vec3, mods Modifiers) workspace.Command {
	if m.drag == nil {
		return nil
	}
	mesh := m.mesh(w)
	if mesh == nil {
		return nil
	}

	var cmd workspace.Command
	if sel := m.selection(w); sel != nil && len(sel.Entities) == 1 && sel.Entities[0].Kind == workspace.EntityEdge {
		edge := sel.Entities[0].Edge
		if mods.Shift && m.drag.kind != dragEdgeDuplication && validEdge(mesh, edge) {
			m.restore(w)
			m.drag = &dragContext{
				kind:     dragEdgeDuplication,
				vertices: [2]scene.Vertex{mesh.Vertices[edge.A], mesh.Vertices[edge.B]},
				opposite: edge,
			}
			cmd = workspace.NewChangeSelection(m.emptySelection(), w.Selection)
		}
	}

	switch m.drag.kind {
	case dragMoveSelection:
		if sel := m.selection(w); sel != nil {
			for _, v := range sel.UniqueVertices() {
				if int(v) < len(mesh.Vertices) {
					mesh.Vertices[v].Position = mesh.Vertices[v].Position.Add(offset)
				}
			}
		}
	case dragEdgeDuplication:
		for i := range m.drag.vertices {
			m.drag.vertices[i].Position = m.drag.vertices[i].Position.Add(offset)
		}
	}
	return cmd
}

// PointerUp ends the drag and returns the command that commits it, or nil
// when nothing changed.
func (m *EditMode) PointerUp(w *workspace.Workspace) workspace.Command {
	drag := m.drag
	m.drag = nil
	if drag == nil || m.mesh(w) == nil {
		return nil
	}
	switch drag.kind {
	case dragMoveSelection:
		return m.commitMove(w, drag)
	case dragEdgeDuplication:
		return m.commitEdge(w, drag)
	}
	return nil
}

// Cancel abandons the drag and puts moved vertices back.
func (m *EditMode) Cancel(w *workspace.Workspace) {
	if m.drag == nil {
		return
	}
	m.restore(w)
	m.drag = nil
}

func (m *EditMode) restore(w *workspace.Workspace) {
	mesh := m.mesh(w)
	if mesh == nil || m.drag == nil || m.drag.kind != dragMoveSelection {
		return
	}
	for i, pos := range m.drag.initial {
		if i < len(mesh.Vertices) {
			mesh.Vertices[i].Position = pos
		}
	}
}

// commitMove puts the initial positions back and returns one Set per moved
// vertex, so executing the group installs the final positions and reverting
// it restores the initial ones.
func (m *EditMode) commitMove(w *workspace.Workspace, drag *dragContext) workspace.Command {
	sel := m.selection(w)
	if sel == nil {
		return nil
	}
	mesh := m.mesh(w)
	group := workspace.NewGroup().WithName("Move navmesh vertices")
	for _, v := range sel.UniqueVertices() {
		if int(v) >= len(mesh.Vertices) || int(v) >= len(drag.initial) {
			continue
		}
		final := m.snap(mesh.Vertices[v].Position)
		mesh.Vertices[v].Position = drag.initial[v]
		if final == drag.initial[v] {
			continue
		}
		group.Push(m.props.Set(m.node, vertexPositionPath(v), final))
	}
	if group.Len() == 0 {
		return nil
	}
	return group
}

// commitEdge appends the two extruded vertices and the two triangles joining
// them to the opposite edge, then selects the new edge.
func (m *EditMode) commitEdge(w *workspace.Workspace, drag *dragContext) workspace.Command {
	mesh := m.mesh(w)
	begin := uint32(len(mesh.Vertices))
	end := begin + 1
	opp := drag.opposite

	a, b := drag.vertices[0], drag.vertices[1]
	a.Position = m.snap(a.Position)
	b.Position = m.snap(b.Position)

	selected := workspace.NavmeshSelection{
		Node:     m.node,
		Entities: []workspace.NavmeshEntity{workspace.EdgeEntity(scene.Edge{A: begin, B: end})},
	}

	return workspace.NewGroup(
		m.props.AddItem(m.node, verticesPath, a),
		m.props.AddItem(m.node, verticesPath, b),
		m.props.AddItem(m.node, trianglesPath, scene.Triangle{A: opp.A, B: begin, C: opp.B}),
		m.props.AddItem(m.node, trianglesPath, scene.Triangle{A: begin, B: end, C: opp.B}),
		workspace.NewChangeSelection(workspace.Selection{Navmesh: &selected}, w.Selection),
	).WithName("Add navmesh edge")
}

// KeyDown handles Delete and Ctrl+A. It reports whether the key was consumed.
func (m *EditMode) KeyDown(w *workspace.Workspace, key Key, mods Modifiers) (workspace.Command, bool) {
	mesh := m.mesh(w)
	switch {
	case key == KeyDelete:
		if mesh == nil {
			return nil, true
		}
		return m.deleteSelection(w, mesh), true
	case key == KeyA && mods.Control:
		if mesh == nil {
			return nil, true
		}
		all := workspace.NavmeshSelection{Node: m.node}
		for i := range mesh.Vertices {
			all.Entities = append(all.Entities, workspace.Vertex(uint32(i)))
		}
		return workspace.NewChangeSelection(workspace.Selection{Navmesh: &all}, w.Selection), true
	}
	return nil, false
}

// deleteSelection replaces the triangle list with the triangles that survive,
// removes the selected vertices and clears the selection. NewGroup runs the
// removals from the highest index down.
func (m *EditMode) deleteSelection(w *workspace.Workspace, mesh *scene.Navmesh) workspace.Command {
	sel := m.selection(w)
	if sel == nil || len(sel.Entities) == 0 {
		return nil
	}
	var vertices []uint32
	for _, v := range sel.UniqueVertices() {
		if int(v) < len(mesh.Vertices) {
			vertices = append(vertices, v)
		}
	}
	cmds := []workspace.Command{m.props.Set(m.node, trianglesPath, mesh.TrianglesWithout(vertices))}
	for _, v := range vertices {
		cmds = append(cmds, m.props.RemoveItem(m.node, verticesPath, int(v)))
	}
	cmds = append(cmds, workspace.NewChangeSelection(m.emptySelection(), w.Selection))
	return workspace.NewGroup(cmds...).WithName("Delete navmesh vertices")
}

// Connect bridges the first two selected edges with two triangles.
func (m *EditMode) Connect(w *workspace.Workspace) workspace.Command {
	mesh := m.mesh(w)
	sel := m.selection(w)
	if mesh == nil || sel == nil {
		return nil
	}
	edges := sel.Edges()
	if len(edges) < 2 || !validEdge(mesh, edges[0]) || !validEdge(mesh, edges[1]) {
		return nil
	}
	e0, e1 := edges[0], edges[1]
	return workspace.NewGroup(
		m.props.AddItem(m.node, trianglesPath, scene.Triangle{A: e0.A, B: e0.B, C: e1.A}),
		m.props.AddItem(m.node, trianglesPath, scene.Triangle{A: e1.A, B: e1.B, C: e0.A}),
	).WithName("Connect navmesh edges")
}

func (m *EditMode) snap(v scene.Vec3) scene.Vec3 {
	step := m.opts.Snap
	if step <= 0 {
		return v
	}
	round := func(x float64) float64 { return math.Round(x/step) * step }
	return scene.Vec3{X: round(v.X), Y: round(v.Y), Z: round(v.Z)}
}

func validEdge(mesh *scene.Navmesh, e scene.Edge) bool {
	n := uint32(len(mesh.Vertices))
	return e.A < n && e.B < n
}

func vertexPositionPath(v uint32) string {
	return property.Join(property.Index(verticesPath, int(v)), "position")
}
