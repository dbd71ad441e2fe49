package ui

import "fmt"

// Inspector is a right-side panel that shows the selected entity: module name, floor position,
// yaw and unit cost. It owns its nodes and updates their text when AppendNodes is called with
// visible true.
type Inspector struct {
	panel    *Node
	title    *Node
	name     *Node
	position *Node
	rotation *Node
	cost     *Node
	hint     *Node
}

// NewInspector creates an Inspector with nodes styled by the engine's CSS (.inspector, .inspector-title, etc.).
func NewInspector() *Inspector {
	in := &Inspector{
		panel:    NewNode("panel", "inspector", "", ""),
		title:    NewNode("label", "inspector-title", "", "Selección"),
		name:     NewNode("label", "inspector-row", "", ""),
		position: NewNode("label", "inspector-row", "", ""),
		rotation: NewNode("label", "inspector-row", "", ""),
		cost:     NewNode("label", "inspector-row", "", ""),
		hint:     NewNode("label", "inspector-hint", "", "R: rotar   Supr: eliminar"),
	}
	in.panel.Chrome = true
	return in
}

// Selection holds the data shown in the inspector. The app layer fills it from the placement
// session; ui does not look entities up itself.
type Selection struct {
	Name     string
	Position [3]float64
	Rotation float64
	Cost     string
}

const (
	inspectorWidth = 240
	inspectorRow   = 26
	inspectorPad   = 12
)

// AppendNodes lays the inspector out against the right edge below top and appends its nodes to
// dst when visible is true. When visible is false, dst is returned unchanged.
func (in *Inspector) AppendNodes(dst []*Node, visible bool, sel Selection, screenW, top float32) []*Node {
	if !visible {
		return dst
	}
	x := screenW - inspectorWidth - inspectorPad
	y := top + inspectorPad
	in.name.Text = sel.Name
	in.position.Text = fmt.Sprintf("Posición: %.1f, %.1f", sel.Position[0], sel.Position[2])
	in.rotation.Text = fmt.Sprintf("Rotación: %.0f°", sel.Rotation)
	in.cost.Text = "Coste: " + sel.Cost

	rows := []*Node{in.title, in.name, in.position, in.rotation, in.cost, in.hint}
	in.panel.At(x, y, inspectorWidth, float32(len(rows)*inspectorRow+inspectorPad))
	dst = append(dst, in.panel)
	for i, r := range rows {
		r.At(x, y+inspectorPad/2+float32(i*inspectorRow), inspectorWidth, inspectorRow)
		dst = append(dst, r)
	}
	return dst
}
