package panel

import (
	"unicode/utf8"

	"floorplanner/internal/catalog"
)

// Kind is the kind of the open dialog.
type Kind int

const (
	None Kind = iota
	Confirm
	Prompt
	CostEditor
)

// Field is one editable text input of a dialog.
type Field struct {
	ID    string
	Label string
	Value string
}

// Dialogs holds at most one modal dialog. It implements placement.Confirmer. While a dialog is
// open, keyboard shortcuts and viewport clicks are blocked by the caller.
type Dialogs struct {
	kind     Kind
	title    string
	fields   []Field
	focus    int
	err      string
	onYes    func()
	onSubmit func(values map[string]string) error
}

// Confirm opens a yes/no dialog. onYes runs only when Accept is called. A dialog that is already
// open is replaced.
func (d *Dialogs) Confirm(prompt string, onYes func()) {
	d.reset(Confirm, prompt)
	d.onYes = onYes
}

// OpenPrompt opens a single-input dialog prefilled with value. submit gets the typed text; when
// it returns an error the dialog stays open and shows it.
func (d *Dialogs) OpenPrompt(title, value string, submit func(string) error) {
	d.reset(Prompt, title)
	d.fields = []Field{{ID: "value", Value: value}}
	d.onSubmit = func(v map[string]string) error { return submit(v["value"]) }
}

// OpenCostEditor opens one input per module, prefilled with its unit cost. submit receives id →
// typed value.
func (d *Dialogs) OpenCostEditor(title string, defs []catalog.ModuleDefinition, format func(float64) string, submit func(map[string]string) error) {
	d.reset(CostEditor, title)
	for _, def := range defs {
		d.fields = append(d.fields, Field{ID: def.ID, Label: def.Name, Value: format(def.UnitCost)})
	}
	d.onSubmit = submit
}

func (d *Dialogs) reset(k Kind, title string) {
	*d = Dialogs{kind: k, title: title}
}

// Kind is the open dialog, or None.
func (d *Dialogs) Kind() Kind { return d.kind }

// Open reports whether a dialog is showing.
func (d *Dialogs) Open() bool { return d.kind != None }

// Title is the prompt or heading of the open dialog.
func (d *Dialogs) Title() string { return d.title }

// Fields returns the inputs of the open dialog.
func (d *Dialogs) Fields() []Field { return d.fields }

// Focus is the index of the field receiving typed text.
func (d *Dialogs) Focus() int { return d.focus }

// Err is the message of the last rejected submit.
func (d *Dialogs) Err() string { return d.err }

// SetFocus moves typing to field i. Out of range is ignored.
func (d *Dialogs) SetFocus(i int) {
	if i >= 0 && i < len(d.fields) {
		d.focus = i
	}
}

// NextField moves the focus forward, wrapping around.
func (d *Dialogs) NextField() {
	if len(d.fields) > 0 {
		d.focus = (d.focus + 1) % len(d.fields)
	}
}

// Type appends r to the focused field.
func (d *Dialogs) Type(r rune) {
	if d.focus < len(d.fields) {
		d.fields[d.focus].Value += string(r)
	}
}

// Backspace removes the last rune of the focused field.
func (d *Dialogs) Backspace() {
	if d.focus >= len(d.fields) {
		return
	}
	v := d.fields[d.focus].Value
	if v == "" {
		return
	}
	_, size := utf8.DecodeLastRuneInString(v)
	d.fields[d.focus].Value = v[:len(v)-size]
}

// Accept confirms the dialog. Confirm dialogs close and run onYes. Input dialogs submit their
// values and close unless submit fails.
func (d *Dialogs) Accept() error {
	switch d.kind {
	case Confirm:
		onYes := d.onYes
		d.reset(None, "")
		if onYes != nil {
			onYes()
		}
	case Prompt, CostEditor:
		values := make(map[string]string, len(d.fields))
		for _, f := range d.fields {
			values[f.ID] = f.Value
		}
		if err := d.onSubmit(values); err != nil {
			d.err = err.Error()
			return err
		}
		d.reset(None, "")
	}
	return nil
}

// Dismiss closes the dialog without running any callback.
func (d *Dialogs) Dismiss() {
	d.reset(None, "")
}
