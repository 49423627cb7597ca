// Package config describes a match: the rules, the seed, how long to play
// and who plays.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/cespare/xxhash/v2"
	"gopkg.in/yaml.v3"

	"github.com/zeusync/arena/internal/agents"
	"github.com/zeusync/arena/internal/agents/tree"
	"github.com/zeusync/arena/internal/core/rules"
	"github.com/zeusync/arena/internal/core/sim"
	"github.com/zeusync/arena/internal/game"
)

var ErrInvalidConfig = errors.New("invalid arena config")

const DefaultMaxTicks = 10000

// DefaultSeed is the seed of the demo match.
var DefaultSeed = xxhash.Sum64String("Not Random")

// Player describes one participant. Agent names a built-in strategy; when
// Tree is set the player is driven by the behaviour tree in that file and
// Agent may be empty or "tree".
type Player struct {
	Name   string        `yaml:"name"`
	Agent  string        `yaml:"agent,omitempty"`
	Lives  int           `yaml:"lives"`
	Params agents.Params `yaml:"params,omitempty"`
	Tree   string        `yaml:"tree,omitempty"`
}

type Config struct {
	Seed     uint64      `yaml:"seed"`
	MaxTicks uint64      `yaml:"max_ticks"`
	Rules    rules.Rules `yaml:"rules"`
	Players  []Player    `yaml:"players"`

	// BaseDir resolves relative tree paths. Load sets it to the directory
	// of the config file.
	BaseDir string `yaml:"-"`
}

var demoNames = []string{
	"Albert", "Bob", "Charlie", "Daisy", "Eric", "Frank",
	"Guinevere", "Hiro", "Isabel", "Julia", "Kate", "Ludwig",
	"Marge", "Nemo", "Oscar", "Paige", "Quentin", "Romeo",
	"Stuart", "Tina", "Usain", "Val", "Wilhelm", "Xerxes",
	"Yvonne", "Zack",
}

// Default is the demo match: 26 hunters with ten lives each.
func Default() *Config {
	c := &Config{
		Seed:     DefaultSeed,
		MaxTicks: DefaultMaxTicks,
		Rules:    rules.Default(),
	}
	c.Players = defaultPlayers()
	return c
}

func defaultPlayers() []Player {
	players := make([]Player, 0, len(demoNames))
	for _, name := range demoNames {
		players = append(players, Player{
			Name:   name,
			Agent:  "hunter",
			Lives:  10,
			Params: agents.Params{"range": 100, "speed": 20, "turn": 30},
		})
	}
	return players
}

// Decode reads a config from YAML. Omitted fields, including individual
// rules, keep their defaults; an empty player list means the demo roster.
func Decode(r io.Reader) (*Config, error) {
	c := &Config{
		Seed:     DefaultSeed,
		MaxTicks: DefaultMaxTicks,
		Rules:    rules.Default(),
	}
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if len(c.Players) == 0 {
		c.Players = defaultPlayers()
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Load reads a config file.
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
	c.BaseDir = filepath.Dir(path)
	return c, nil
}

// Validate checks the rules and the roster. Agent parameters are checked
// when the agents are built.
func (c *Config) Validate() error {
	if err := c.Rules.Validate(); err != nil {
		return err
	}
	seen := make(map[string]bool, len(c.Players))
	for i, p := range c.Players {
		switch {
		case p.Name == "":
			return fmt.Errorf("%w: player %d has no name", ErrInvalidConfig, i)
		case seen[p.Name]:
			return fmt.Errorf("%w: player %q listed twice", ErrInvalidConfig, p.Name)
		case p.Lives < 0:
			return fmt.Errorf("%w: player %q: %w", ErrInvalidConfig, p.Name, game.ErrInvalidLives)
		case p.Tree == "" && (p.Agent == "" || p.Agent == "tree"):
			return fmt.Errorf("%w: player %q needs an agent or a tree", ErrInvalidConfig, p.Name)
		}
		seen[p.Name] = true
	}
	return nil
}

// Factory returns the agent constructor for p. A behaviour tree is read and
// built once; every agent it hands out shares the built nodes.
func (c *Config) Factory(p Player) (func() sim.Agent, error) {
	if p.Tree == "" {
		return agents.Factory(p.Agent, p.Params)
	}

	path := p.Tree
	if !filepath.IsAbs(path) && c.BaseDir != "" {
		path = filepath.Join(c.BaseDir, path)
	}
	tc, err := tree.Load(path)
	if err != nil {
		return nil, fmt.Errorf("player %q: %w", p.Name, err)
	}
	root, err := tc.Build(tree.Builtins())
	if err != nil {
		return nil, fmt.Errorf("player %q: %s: %w", p.Name, path, err)
	}
	return func() sim.Agent { return tree.NewAgent(root) }, nil
}

// Populate adds every configured player to the session.
func (c *Config) Populate(g *game.Session) error {
	for _, p := range c.Players {
		factory, err := c.Factory(p)
		if err != nil {
			return err
		}
		if err := g.AddPlayer(p.Name, p.Lives, factory); err != nil {
			return err
		}
	}
	return nil
}
