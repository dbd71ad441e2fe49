package ui

import (
	"strings"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// Node is a single UI element: panel, label, button, etc. Classes and ID are matched against the
// stylesheet; Bounds are set by layout code. Nodes with OnClick receive clicks; Chrome nodes
// swallow pointer input so it never reaches the 3D viewport.
type Node struct {
	Type    string // "panel", "label", "button", ...
	Classes []string
	ID      string
	Bounds  rl.Rectangle
	Text    string
	OnClick func()
	Chrome  bool
}

// NewNode creates a node with type, space-separated classes, id and text.
func NewNode(typ, classes, id, text string) *Node {
	return &Node{
		Type:    typ,
		Classes: strings.Fields(classes),
		ID:      id,
		Text:    text,
	}
}

// At sets the bounds and returns n, for chained layout.
func (n *Node) At(x, y, w, h float32) *Node {
	n.Bounds = rl.NewRectangle(x, y, w, h)
	return n
}

// Click sets the click handler and returns n.
func (n *Node) Click(fn func()) *Node {
	n.OnClick = fn
	return n
}

// Toggle adds class when on is true. It returns n.
func (n *Node) Toggle(class string, on bool) *Node {
	if on {
		n.Classes = append(n.Classes, class)
	}
	return n
}

func (n *Node) styleKey() string {
	return strings.Join(n.Classes, ".") + "#" + n.ID
}
