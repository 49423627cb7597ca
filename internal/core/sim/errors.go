package sim

import (
	"errors"

	"github.com/zeusync/arena/internal/core/rules"
)

// Simulation errors
var (
	ErrInvalidName   = errors.New("invalid player name")
	ErrDuplicateName = errors.New("player name already registered")
	ErrMissingAgent  = errors.New("robot has no agent")
	ErrReentrant     = errors.New("simulation is mid-tick")
	ErrInvalidRules  = rules.ErrInvalidRules
)
