package ui

import (
	"fmt"

	"floorplanner/internal/budget"
	"floorplanner/internal/placement"
	"floorplanner/internal/ui/panel"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// Layout sizes in pixels.
const (
	SidebarWidth = 280
	TopBarHeight = 56

	cardHeight     = 52
	checkHeight    = 22
	checklistWidth = 220
	sectionHeight  = 32
	gap            = 6
	buttonWidth    = 104
	buttonHeight   = 32
	barWidth       = 220
	barHeight      = 10
)

// Actions are the handlers behind panel buttons. Nil handlers leave their button inert.
type Actions struct {
	ChooseModule func(id string)
	SetTool      func(t placement.Tool)
	EditCosts    func()
	EditLimit    func()
	ClearAll     func()
	Export       func()
}

// Status is what the panels show this frame.
type Status struct {
	Budget    budget.State
	Format    budget.Formatter
	Tool      placement.Tool
	Selection *Selection // nil when nothing is selected
}

// Panels lays out the sidebar (catalog cards), the checklist, the top bar (budget and buttons),
// the tool bar, the inspector and the modal dialog as nodes for the Engine.
type Panels struct {
	Cards     *panel.Cards
	Dialogs   *panel.Dialogs
	Actions   Actions
	inspector *Inspector
}

// NewPanels returns panels over cards and dialogs.
func NewPanels(cards *panel.Cards, dialogs *panel.Dialogs, actions Actions) *Panels {
	return &Panels{Cards: cards, Dialogs: dialogs, Actions: actions, inspector: NewInspector()}
}

var toolButtons = []struct {
	tool  placement.Tool
	label string
}{
	{placement.ToolSelect, "Seleccionar"},
	{placement.ToolEdit, "Editar"},
	{placement.ToolDelete, "Eliminar"},
}

// Build returns the nodes for a screenW×screenH frame, back to front.
func (p *Panels) Build(screenW, screenH float32, st Status) []*Node {
	var nodes []*Node
	nodes = p.sidebar(nodes, screenH)
	nodes = p.topBar(nodes, screenW, st)
	nodes = p.toolBar(nodes, st.Tool)
	nodes = p.checklist(nodes, screenW, screenH)
	if st.Selection != nil {
		nodes = p.inspector.AppendNodes(nodes, true, *st.Selection, screenW, TopBarHeight)
	}
	if p.Dialogs.Open() {
		nodes = p.dialog(nodes, screenW, screenH)
	}
	return nodes
}

func (p *Panels) sidebar(nodes []*Node, screenH float32) []*Node {
	side := NewNode("panel", "sidebar", "", "").At(0, 0, SidebarWidth, screenH)
	side.Chrome = true
	nodes = append(nodes, side)

	x, w := float32(gap*2), float32(SidebarWidth-gap*4)
	y := float32(gap * 2)
	nodes = append(nodes, NewNode("label", "section", "", "Módulos").At(x, y, w, sectionHeight))
	y += sectionHeight
	for _, c := range p.Cards.Cards() {
		id := c.ID
		card := NewNode("button", "card", "", c.Name+"\n"+c.Cost).
			At(x, y, w, cardHeight).
			Toggle("active", c.Active)
		if p.Actions.ChooseModule != nil {
			card.Click(func() { p.Actions.ChooseModule(id) })
		}
		nodes = append(nodes, card)
		y += cardHeight + gap
	}

	return nodes
}

// checklist sits in the bottom-right corner of the viewport.
func (p *Panels) checklist(nodes []*Node, screenW, screenH float32) []*Node {
	items := p.Cards.Checklist()
	w := float32(checklistWidth)
	h := float32(sectionHeight + len(items)*checkHeight + gap*2)
	x, y := screenW-w-gap*2, screenH-h-gap*2
	box := NewNode("panel", "checklist", "", "").At(x, y, w, h)
	box.Chrome = true
	nodes = append(nodes, box)
	nodes = append(nodes, NewNode("label", "section", "", "Checklist").At(x, y+gap, w, sectionHeight))
	y += sectionHeight + gap
	for _, item := range items {
		mark := "[ ] "
		if item.Done {
			mark = "[x] "
		}
		nodes = append(nodes, NewNode("label", "check", "", mark+item.Name).
			At(x, y, w, checkHeight).
			Toggle("done", item.Done))
		y += checkHeight
	}
	return nodes
}

func (p *Panels) topBar(nodes []*Node, screenW float32, st Status) []*Node {
	bar := NewNode("panel", "topbar", "", "").At(SidebarWidth, 0, screenW-SidebarWidth, TopBarHeight)
	bar.Chrome = true
	nodes = append(nodes, bar)

	x := float32(SidebarWidth + gap*2)
	nodes = append(nodes, NewNode("label", "budget", "", "Presupuesto: "+st.Format.Cost(st.Budget.Total)).
		At(x, gap, 260, TopBarHeight/2))

	limit := NewNode("button", "limit", "", "Límite: "+st.Format.Cost(st.Budget.Limit)).
		At(x+270, gap, 200, TopBarHeight/2)
	if p.Actions.EditLimit != nil {
		limit.Click(p.Actions.EditLimit)
	}
	nodes = append(nodes, limit)

	trackY := float32(TopBarHeight - barHeight - gap*2)
	nodes = append(nodes, NewNode("panel", "track", "", "").At(x, trackY, barWidth, barHeight))
	fill := float32(st.Budget.Percent) / 100 * barWidth
	nodes = append(nodes, NewNode("panel", "fill", "", "").
		At(x, trackY, fill, barHeight).
		Toggle("over", st.Budget.OverLimit))
	nodes = append(nodes, NewNode("label", "percent", "", fmt.Sprintf("%.0f%%", st.Budget.Percent)).
		At(x+barWidth+gap, trackY-gap, 60, barHeight+gap*2))

	buttons := []struct {
		label string
		fn    func()
	}{
		{"Costes", p.Actions.EditCosts},
		{"Limpiar", p.Actions.ClearAll},
		{"Captura", p.Actions.Export},
	}
	bx := screenW - float32(len(buttons))*(buttonWidth+gap) - gap
	for _, b := range buttons {
		n := NewNode("button", "button", "", b.label).At(bx, (TopBarHeight-buttonHeight)/2, buttonWidth, buttonHeight)
		if b.fn != nil {
			n.Click(b.fn)
		}
		nodes = append(nodes, n)
		bx += buttonWidth + gap
	}
	return nodes
}

func (p *Panels) toolBar(nodes []*Node, active placement.Tool) []*Node {
	x := float32(SidebarWidth + gap*2)
	y := float32(TopBarHeight + gap*2)
	for _, tb := range toolButtons {
		t := tb.tool
		n := NewNode("button", "button tool", "", tb.label).
			At(x, y, buttonWidth, buttonHeight).
			Toggle("active", t == active)
		n.Chrome = true
		if p.Actions.SetTool != nil {
			n.Click(func() { p.Actions.SetTool(t) })
		}
		nodes = append(nodes, n)
		x += buttonWidth + gap
	}
	return nodes
}

const (
	dialogWidth  = 420
	fieldHeight  = 30
	dialogMargin = 16
)

func (p *Panels) dialog(nodes []*Node, screenW, screenH float32) []*Node {
	d := p.Dialogs
	shade := NewNode("panel", "shade", "", "").At(0, 0, screenW, screenH)
	shade.Chrome = true
	nodes = append(nodes, shade)

	rows := len(d.Fields())
	h := float32(dialogMargin*3 + sectionHeight + rows*(fieldHeight+gap) + buttonHeight)
	if d.Err() != "" {
		h += sectionHeight
	}
	x, y := (screenW-dialogWidth)/2, (screenH-h)/2
	box := NewNode("panel", "dialog", "", "").At(x, y, dialogWidth, h)
	box.Chrome = true
	nodes = append(nodes, box)

	inner := float32(dialogWidth - dialogMargin*2)
	cy := y + dialogMargin
	nodes = append(nodes, NewNode("label", "dialog-title", "", d.Title()).At(x+dialogMargin, cy, inner, sectionHeight))
	cy += sectionHeight

	for i, f := range d.Fields() {
		if f.Label != "" {
			nodes = append(nodes, NewNode("label", "field-label", "", f.Label).At(x+dialogMargin, cy, inner/2, fieldHeight))
		}
		fx, fw := x+dialogMargin, inner
		if f.Label != "" {
			fx, fw = x+dialogMargin+inner/2, inner/2
		}
		text := f.Value
		if i == d.Focus() {
			text += "|"
		}
		nodes = append(nodes, NewNode("button", "field", "", text).
			At(fx, cy, fw, fieldHeight).
			Toggle("focus", i == d.Focus()).
			Click(func() { d.SetFocus(i) }))
		cy += fieldHeight + gap
	}
	if d.Err() != "" {
		nodes = append(nodes, NewNode("label", "dialog-error", "", d.Err()).At(x+dialogMargin, cy, inner, sectionHeight))
		cy += sectionHeight
	}

	accept := "Aceptar"
	if d.Kind() == panel.CostEditor {
		accept = "Guardar"
	}
	cy += dialogMargin
	bx := x + dialogWidth - dialogMargin - 2*buttonWidth - gap
	nodes = append(nodes, NewNode("button", "button primary", "", accept).
		At(bx, cy, buttonWidth, buttonHeight).
		Click(func() { _ = d.Accept() }))
	nodes = append(nodes, NewNode("button", "button", "", "Cancelar").
		At(bx+buttonWidth+gap, cy, buttonWidth, buttonHeight).
		Click(d.Dismiss))
	return nodes
}

// UpdateDialog feeds typed text and Enter/Tab/Backspace/Esc to the open dialog. It reports
// whether a dialog consumed the keyboard this frame.
func (p *Panels) UpdateDialog() bool {
	d := p.Dialogs
	if !d.Open() {
		return false
	}
	for c := rl.GetCharPressed(); c != 0; c = rl.GetCharPressed() {
		d.Type(c)
	}
	switch {
	case rl.IsKeyPressed(rl.KeyBackspace):
		d.Backspace()
	case rl.IsKeyPressed(rl.KeyTab):
		d.NextField()
	case rl.IsKeyPressed(rl.KeyEnter), rl.IsKeyPressed(rl.KeyKpEnter):
		_ = d.Accept()
	case rl.IsKeyPressed(rl.KeyEscape):
		d.Dismiss()
	}
	return true
}
