package tree

import (
	"github.com/zeusync/arena/internal/core/sim"
)

// Context is passed to every node during one evaluation.
type Context struct {
	View sim.View
	// Action starts out holding the turret still and is returned as the
	// robot's decision once the root has been evaluated.
	Action sim.Action
}

// Agent drives a robot with a behaviour tree.
type Agent struct {
	root Node
}

var _ sim.Agent = (*Agent)(nil)

func NewAgent(root Node) *Agent {
	return &Agent{root: root}
}

func (a *Agent) Decide(v sim.View) sim.Action {
	c := &Context{View: v, Action: sim.Action{TurretAngle: v.TurretAngle}}
	if a.root != nil {
		a.root.Tick(c)
	}
	return c.Action
}
