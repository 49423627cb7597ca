// Package tree builds robot agents out of behaviour trees.
//
// A tree is evaluated once per tick against a Context holding the robot's
// View. Action leaves write into Context.Action, which becomes the robot's
// decision for the tick. Nodes hold no per-robot state, so one built tree can
// drive any number of robots.
package tree

// Status is the result of evaluating a node.
type Status int

const (
	StatusSuccess Status = iota
	StatusFailure
)

func (s Status) String() string {
	if s == StatusSuccess {
		return "success"
	}
	return "failure"
}

// Node is one vertex of a behaviour tree.
type Node interface {
	Tick(c *Context) Status
	Name() string
}

type baseNode struct{ name string }

func (b baseNode) Name() string { return b.name }

// ActionFunc wraps a function as a leaf that changes the pending action.
type ActionFunc struct {
	baseNode
	Fn func(c *Context) Status
}

func NewAction(name string, fn func(c *Context) Status) ActionFunc {
	return ActionFunc{baseNode: baseNode{name: name}, Fn: fn}
}

func (a ActionFunc) Tick(c *Context) Status { return a.Fn(c) }

// ConditionFunc wraps a predicate as a leaf.
type ConditionFunc struct {
	baseNode
	Fn func(c *Context) bool
}

func NewCondition(name string, fn func(c *Context) bool) ConditionFunc {
	return ConditionFunc{baseNode: baseNode{name: name}, Fn: fn}
}

func (n ConditionFunc) Tick(c *Context) Status {
	if n.Fn(c) {
		return StatusSuccess
	}
	return StatusFailure
}

// Sequence runs children until one fails; success if all succeed.
type Sequence struct {
	baseNode
	children []Node
}

func NewSequence(name string, children ...Node) *Sequence {
	return &Sequence{baseNode: baseNode{name: name}, children: children}
}

func (s *Sequence) Tick(c *Context) Status {
	for _, ch := range s.children {
		if ch.Tick(c) == StatusFailure {
			return StatusFailure
		}
	}
	return StatusSuccess
}

// Selector runs children until one succeeds; failure if all fail.
type Selector struct {
	baseNode
	children []Node
}

func NewSelector(name string, children ...Node) *Selector {
	return &Selector{baseNode: baseNode{name: name}, children: children}
}

func (s *Selector) Tick(c *Context) Status {
	for _, ch := range s.children {
		if ch.Tick(c) == StatusSuccess {
			return StatusSuccess
		}
	}
	return StatusFailure
}

// Inverter flips the status of its child.
type Inverter struct {
	baseNode
	child Node
}

func NewInverter(name string, child Node) *Inverter {
	return &Inverter{baseNode: baseNode{name: name}, child: child}
}

func (n *Inverter) Tick(c *Context) Status {
	if n.child.Tick(c) == StatusSuccess {
		return StatusFailure
	}
	return StatusSuccess
}
