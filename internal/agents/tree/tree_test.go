package tree

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zeusync/arena/internal/core/geometry"
	"github.com/zeusync/arena/internal/core/rules"
	"github.com/zeusync/arena/internal/core/sim"
)

const duelist = `
root: main
nodes:
  main:      {type: selector, children: [flee, attack, search]}
  flee:      {type: sequence, children: [hurt, run, swerve]}
  hurt:      {type: condition, condition: health_below, params: {value: 30}}
  run:       {type: action, action: advance, params: {speed: 20, steer: false}}
  swerve:    {type: action, action: turn, params: {rate: 0.2}}
  attack:    {type: sequence, children: [seen, aim, trigger]}
  seen:      {type: condition, condition: target_visible, params: {range: 150}}
  aim:       {type: action, action: aim}
  trigger:   {type: selector, children: [shoot, hold]}
  shoot:     {type: sequence, children: [ready, fire]}
  ready:     {type: condition, condition: cooldown_ready}
  fire:      {type: action, action: fire}
  hold:      {type: action, action: hold}
  search:    {type: action, action: sweep, params: {step: 10}}
`

func build(t *testing.T, src string) *Agent {
	t.Helper()
	c, err := Decode(strings.NewReader(src))
	require.NoError(t, err)
	root, err := c.Build(Builtins())
	require.NoError(t, err)
	return NewAgent(root)
}

func view(targets ...sim.Target) sim.View {
	return sim.View{Name: "albert", Health: 100, TurretAngle: 0.5, Rules: rules.Default(), Targets: targets}
}

func TestDuelistTree(t *testing.T) {
	a := build(t, duelist)

	t.Run("search", func(t *testing.T) {
		act := a.Decide(view())
		assert.InDelta(t, 0.5+geometry.Radians(10), act.TurretAngle, 1e-12)
		assert.False(t, act.Shoot)
	})

	t.Run("target out of range", func(t *testing.T) {
		act := a.Decide(view(sim.Target{Name: "bob", Distance: 190}))
		assert.InDelta(t, 0.5+geometry.Radians(10), act.TurretAngle, 1e-12)
	})

	t.Run("attack", func(t *testing.T) {
		act := a.Decide(view(sim.Target{Name: "bob", Distance: 80, Bearing: -0.2}))
		assert.InDelta(t, 0.3, act.TurretAngle, 1e-12)
		assert.True(t, act.Shoot)
	})

	t.Run("attack while cooling down", func(t *testing.T) {
		v := view(sim.Target{Name: "bob", Distance: 80, Bearing: -0.2})
		v.Cooldown = 4
		act := a.Decide(v)
		assert.InDelta(t, 0.3, act.TurretAngle, 1e-12)
		assert.False(t, act.Shoot)
		assert.Zero(t, act.V)
	})

	t.Run("flee", func(t *testing.T) {
		v := view(sim.Target{Name: "bob", Distance: 80})
		v.Health = 20
		act := a.Decide(v)
		assert.Equal(t, sim.Action{V: 20, W: 0.2, TurretAngle: 0.5}, act)
	})
}

func TestAdvanceDefaultsAndSteering(t *testing.T) {
	a := build(t, `
root: go
nodes:
  go: {type: action, action: advance}
`)
	act := a.Decide(view(sim.Target{Name: "bob", Distance: 80, Bearing: 0.1}))
	assert.Equal(t, 20.0, act.V)
	assert.InDelta(t, 0.6, act.W, 1e-12)
}

func TestInverter(t *testing.T) {
	visible := NewCondition("visible", func(c *Context) bool { return len(c.View.Targets) > 0 })
	n := NewInverter("alone", visible)

	assert.Equal(t, StatusSuccess, n.Tick(&Context{View: view()}))
	assert.Equal(t, StatusFailure, n.Tick(&Context{View: view(sim.Target{Name: "bob"})}))
	assert.Equal(t, "alone", n.Name())
}

func TestCompositesShortCircuit(t *testing.T) {
	var trace []string
	leaf := func(name string, st Status) Node {
		return NewAction(name, func(*Context) Status {
			trace = append(trace, name)
			return st
		})
	}

	seq := NewSequence("seq", leaf("a", StatusSuccess), leaf("b", StatusFailure), leaf("c", StatusSuccess))
	assert.Equal(t, StatusFailure, seq.Tick(&Context{}))
	assert.Equal(t, []string{"a", "b"}, trace)

	trace = nil
	sel := NewSelector("sel", leaf("a", StatusFailure), leaf("b", StatusSuccess), leaf("c", StatusSuccess))
	assert.Equal(t, StatusSuccess, sel.Tick(&Context{}))
	assert.Equal(t, []string{"a", "b"}, trace)

	assert.Equal(t, StatusSuccess, NewSequence("empty").Tick(&Context{}))
	assert.Equal(t, StatusFailure, NewSelector("empty").Tick(&Context{}))
}

func TestSharedNodeIsNotACycle(t *testing.T) {
	c, err := Decode(strings.NewReader(`
root: main
nodes:
  main: {type: selector, children: [left, right]}
  left: {type: sequence, children: [fire]}
  right: {type: sequence, children: [fire]}
  fire: {type: action, action: fire}
`))
	require.NoError(t, err)
	_, err = c.Build(Builtins())
	assert.NoError(t, err)
}

func TestBuildErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want error
	}{
		{"no root", `nodes: {}`, ErrInvalidTree},
		{"unknown node", "root: a\nnodes:\n  a: {type: sequence, children: [b]}\n", ErrInvalidTree},
		{"cycle", "root: a\nnodes:\n  a: {type: sequence, children: [b]}\n  b: {type: inverter, child: a}\n", ErrCycle},
		{"unknown leaf", "root: a\nnodes:\n  a: {type: action, action: teleport}\n", ErrUnknownLeaf},
		{"missing param", "root: a\nnodes:\n  a: {type: condition, condition: health_below}\n", ErrInvalidParam},
		{"bad param", "root: a\nnodes:\n  a: {type: action, action: sweep, params: {step: wide}}\n", ErrInvalidParam},
		{"bad flag", "root: a\nnodes:\n  a: {type: action, action: advance, params: {steer: 3}}\n", ErrInvalidParam},
		{"unsupported type", "root: a\nnodes:\n  a: {type: parallel, children: [a]}\n", ErrInvalidTree},
		{"childless", "root: a\nnodes:\n  a: {type: selector}\n", ErrInvalidTree},
		{"inverter without child", "root: a\nnodes:\n  a: {type: inverter}\n", ErrInvalidTree},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := Decode(strings.NewReader(tt.src))
			require.NoError(t, err)
			_, err = c.Build(Builtins())
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestDecodeRejectsUnknownFields(t *testing.T) {
	_, err := Decode(strings.NewReader("root: a\nbranches: {}\n"))
	assert.Error(t, err)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "duelist.yaml")
	require.NoError(t, os.WriteFile(path, []byte(duelist), 0o600))

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "main", c.Root)
	assert.Len(t, c.Nodes, 14)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestTreeAgentInSimulation(t *testing.T) {
	s, err := sim.New(rules.Default(), 1)
	require.NoError(t, err)
	require.NoError(t, s.PlacePlayer("A", build(t, duelist), geometry.Vec(100, 500), 0))
	require.NoError(t, s.PlacePlayer("B", sim.AgentFunc(func(sim.View) sim.Action { return sim.Action{} }), geometry.Vec(200, 500), math.Pi))

	hits := 0
	s.HitSignal().Connect(func(sim.Hit) error {
		hits++
		return nil
	})
	for i := 0; i < 25; i++ {
		require.NoError(t, s.Update())
	}
	assert.Equal(t, 3, hits)
	b, ok := s.Robot("B")
	require.True(t, ok)
	assert.Equal(t, 70.0, b.Health())
}
