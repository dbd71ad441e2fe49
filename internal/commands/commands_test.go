package commands

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePlanner struct {
	calls []string
	fps   *bool
	grid  *bool
	scale float64
	err   error
}

func (f *fakePlanner) record(s string) error {
	f.calls = append(f.calls, s)
	return f.err
}

func (f *fakePlanner) ChooseModule(id string) error    { return f.record("place " + id) }
func (f *fakePlanner) EditCost(id, value string) error { return f.record("cost " + id + "=" + value) }
func (f *fakePlanner) SetBudget(value string) error    { return f.record("budget " + value) }
func (f *fakePlanner) SetTool(name string) error       { return f.record("tool " + name) }
func (f *fakePlanner) Rotate()                         { _ = f.record("rotate") }
func (f *fakePlanner) Cancel()                         { _ = f.record("cancel") }
func (f *fakePlanner) RequestClearAll()                { _ = f.record("clear") }
func (f *fakePlanner) Export(scale float64) error {
	f.scale = scale
	return f.record("export")
}
func (f *fakePlanner) CatalogLines() []string { return []string{"banco  120 €", "silla  100 €"} }
func (f *fakePlanner) ShowFPS(show bool)      { f.fps = &show }
func (f *fakePlanner) ShowGrid(show bool)     { f.grid = &show }

func setup() (*Registry, *fakePlanner, *[]string) {
	reg := NewRegistry()
	p := &fakePlanner{}
	var out []string
	RegisterPlanner(reg, p, func(s string) { out = append(out, s) })
	return reg, p, &out
}

func run(t *testing.T, reg *Registry, line string) error {
	t.Helper()
	args, ok := Parse(line)
	require.True(t, ok, line)
	return reg.Execute(args)
}

func TestParse(t *testing.T) {
	args, ok := Parse("cmd cost banco 90")
	require.True(t, ok)
	assert.Equal(t, []string{"cost", "banco", "90"}, args)

	args, ok = Parse("cmd   ")
	assert.True(t, ok)
	assert.Nil(t, args)

	_, ok = Parse("hello there")
	assert.False(t, ok)
	_, ok = Parse("CMD rotate")
	assert.False(t, ok)
}

func TestExecuteErrors(t *testing.T) {
	reg, _, _ := setup()
	assert.ErrorContains(t, reg.Execute(nil), "missing subcommand")
	assert.ErrorContains(t, reg.Execute([]string{"fly"}), "unknown command")
	assert.ErrorContains(t, reg.Execute([]string{"fps", "--loud"}), "usage")
}

func TestPlannerCommands(t *testing.T) {
	reg, p, _ := setup()
	for _, line := range []string{
		"cmd place sofa",
		"cmd cost banco 90",
		"cmd budget 15000",
		"cmd tool delete",
		"cmd rotate",
		"cmd cancel",
		"cmd clear",
		"cmd export",
	} {
		require.NoError(t, run(t, reg, line), line)
	}
	assert.Equal(t, []string{
		"place sofa",
		"cost banco=90",
		"budget 15000",
		"tool delete",
		"rotate",
		"cancel",
		"clear",
		"export",
	}, p.calls)
	assert.Equal(t, 0.0, p.scale)

	require.NoError(t, run(t, reg, "cmd export --scale 3"))
	assert.Equal(t, 3.0, p.scale)
	require.NoError(t, run(t, reg, "cmd export"))
	assert.Equal(t, 0.0, p.scale, "flags reset between runs")
}

func TestPlannerCommandArgs(t *testing.T) {
	reg, p, _ := setup()
	assert.Error(t, run(t, reg, "cmd cost banco"))
	assert.Error(t, run(t, reg, "cmd budget"))
	assert.Error(t, run(t, reg, "cmd tool select edit"))
	assert.Empty(t, p.calls)
}

func TestPlannerErrorsPropagate(t *testing.T) {
	reg, p, _ := setup()
	p.err = errors.New("invalid cost")
	assert.ErrorContains(t, run(t, reg, "cmd cost banco abc"), "invalid cost")
}

func TestToggleCommands(t *testing.T) {
	reg, p, _ := setup()
	require.NoError(t, run(t, reg, "cmd fps --show"))
	require.NotNil(t, p.fps)
	assert.True(t, *p.fps)

	require.NoError(t, run(t, reg, "cmd fps --hide"))
	assert.False(t, *p.fps)

	assert.Error(t, run(t, reg, "cmd fps"))
	assert.Error(t, run(t, reg, "cmd grid --show --hide"))

	require.NoError(t, run(t, reg, "cmd grid --hide"))
	require.NotNil(t, p.grid)
	assert.False(t, *p.grid)
}

func TestCatalogAndHelpWriteOutput(t *testing.T) {
	reg, _, out := setup()
	require.NoError(t, run(t, reg, "cmd catalog"))
	assert.Equal(t, []string{"banco  120 €", "silla  100 €"}, *out)

	*out = nil
	require.NoError(t, run(t, reg, "cmd help"))
	assert.Len(t, *out, len(reg.Names()))
	assert.True(t, strings.HasPrefix((*out)[0], "cmd budget"))
}

func TestDispatch(t *testing.T) {
	reg, p, _ := setup()
	ok, err := reg.Dispatch("  cmd rotate")
	assert.True(t, ok)
	assert.NoError(t, err)
	assert.Equal(t, []string{"rotate"}, p.calls)

	ok, err = reg.Dispatch("rotate please")
	assert.False(t, ok)
	assert.NoError(t, err)

	ok, err = reg.Dispatch("cmd ")
	assert.True(t, ok)
	assert.Error(t, err)
}
