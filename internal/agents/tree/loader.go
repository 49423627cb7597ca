package tree

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

var (
	ErrInvalidTree = errors.New("invalid behaviour tree")
	ErrCycle       = errors.New("behaviour tree contains a cycle")
)

// Config describes a tree as a root plus a flat set of named nodes that
// reference each other by name.
//
//	root: attack
//	nodes:
//	  attack: {type: sequence, children: [seen, aim]}
//	  seen:   {type: condition, condition: target_visible}
//	  aim:    {type: action, action: aim}
type Config struct {
	Root  string                `yaml:"root"`
	Nodes map[string]ConfigNode `yaml:"nodes"`
}

type ConfigNode struct {
	Type      string         `yaml:"type"`
	Children  []string       `yaml:"children,omitempty"`
	Child     string         `yaml:"child,omitempty"`
	Action    string         `yaml:"action,omitempty"`
	Condition string         `yaml:"condition,omitempty"`
	Params    map[string]any `yaml:"params,omitempty"`
}

// Decode reads a tree description from YAML.
func Decode(r io.Reader) (*Config, error) {
	var c Config
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil {
		return nil, fmt.Errorf("decode tree: %w", err)
	}
	return &c, nil
}

// Load reads a tree description from a YAML file.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	c, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// Build instantiates the tree with leaves from reg. A node referenced from
// several parents is built once and shared.
func (c *Config) Build(reg *Registry) (Node, error) {
	if c.Root == "" {
		return nil, fmt.Errorf("%w: no root", ErrInvalidTree)
	}

	created := make(map[string]Node)
	visiting := make(map[string]bool)
	var buildNode func(name string) (Node, error)
	buildNode = func(name string) (Node, error) {
		if n, ok := created[name]; ok {
			return n, nil
		}
		if visiting[name] {
			return nil, fmt.Errorf("%w: through %q", ErrCycle, name)
		}
		nc, ok := c.Nodes[name]
		if !ok {
			return nil, fmt.Errorf("%w: unknown node %q", ErrInvalidTree, name)
		}
		visiting[name] = true
		defer delete(visiting, name)

		buildChildren := func() ([]Node, error) {
			if len(nc.Children) == 0 {
				return nil, fmt.Errorf("%w: %s %q has no children", ErrInvalidTree, nc.Type, name)
			}
			children := make([]Node, 0, len(nc.Children))
			for _, chname := range nc.Children {
				ch, err := buildNode(chname)
				if err != nil {
					return nil, err
				}
				children = append(children, ch)
			}
			return children, nil
		}

		var (
			n   Node
			err error
		)
		switch strings.ToLower(nc.Type) {
		case "sequence":
			var children []Node
			if children, err = buildChildren(); err == nil {
				n = NewSequence(name, children...)
			}
		case "selector":
			var children []Node
			if children, err = buildChildren(); err == nil {
				n = NewSelector(name, children...)
			}
		case "inverter":
			if nc.Child == "" {
				return nil, fmt.Errorf("%w: inverter %q requires child", ErrInvalidTree, name)
			}
			var child Node
			if child, err = buildNode(nc.Child); err == nil {
				n = NewInverter(name, child)
			}
		case "action":
			n, err = reg.NewAction(nc.Action, nc.Params)
		case "condition":
			n, err = reg.NewCondition(nc.Condition, nc.Params)
		default:
			return nil, fmt.Errorf("%w: node %q has unsupported type %q", ErrInvalidTree, name, nc.Type)
		}
		if err != nil {
			return nil, fmt.Errorf("node %q: %w", name, err)
		}
		created[name] = n
		return n, nil
	}
	return buildNode(c.Root)
}
