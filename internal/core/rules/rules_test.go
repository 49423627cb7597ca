package rules

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	r := Default()
	require.NoError(t, r.Validate())
	assert.Equal(t, 1000.0, r.ArenaWidth)
	assert.Equal(t, 200.0, r.ScanRange)
	assert.InDelta(t, math.Pi/3, r.ScanAngle, 1e-12)
	assert.Equal(t, 20.0, r.VMax)
	assert.Equal(t, 10.0, r.CollisionDamage)
	assert.Equal(t, 100.0, r.MaxHealth)
}

func TestValidateRejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Rules)
	}{
		{"zero arena", func(r *Rules) { r.ArenaWidth = 0 }},
		{"negative speed", func(r *Rules) { r.VMax = -1 }},
		{"nan scan range", func(r *Rules) { r.ScanRange = math.NaN() }},
		{"infinite turn", func(r *Rules) { r.WMax = math.Inf(1) }},
		{"negative damage", func(r *Rules) { r.CollisionDamage = -10 }},
		{"zero time step", func(r *Rules) { r.TimeStep = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := Default()
			tt.mutate(&r)
			assert.ErrorIs(t, r.Validate(), ErrInvalidRules)
		})
	}
}

func TestDecodeKeepsDefaults(t *testing.T) {
	r, err := Decode(strings.NewReader("arena_width: 500\ncollision_damage: 25\n"))
	require.NoError(t, err)
	assert.Equal(t, 500.0, r.ArenaWidth)
	assert.Equal(t, 25.0, r.CollisionDamage)
	assert.Equal(t, Default().ArenaHeight, r.ArenaHeight)
	assert.Equal(t, Default().ShotCooldown, r.ShotCooldown)
}

func TestDecodeEmptyDocument(t *testing.T) {
	r, err := Decode(strings.NewReader(""))
	require.NoError(t, err)
	assert.Equal(t, Default(), r)
}

func TestDecodeInvalid(t *testing.T) {
	_, err := Decode(strings.NewReader("v_max: -3\n"))
	assert.ErrorIs(t, err, ErrInvalidRules)

	_, err = Decode(strings.NewReader("v_max: [nope\n"))
	assert.Error(t, err)
}

func TestDecodeRejectsUnknownFields(t *testing.T) {
	_, err := Decode(strings.NewReader("v-max: 30\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "v-max")
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yaml")
	require.NoError(t, os.WriteFile(path, []byte("scan_range: 300\n"), 0o600))

	r, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 300.0, r.ScanRange)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
