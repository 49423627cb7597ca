package bus

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type hit struct {
	attacker, victim string
}

func TestEmitDeliversInRegistrationOrder(t *testing.T) {
	s := NewSignal[string]()
	var calls []string
	for _, tag := range []string{"a", "b", "c"} {
		s.Connect(func(name string) error {
			calls = append(calls, tag+":"+name)
			return nil
		})
	}

	require.NoError(t, s.Emit("bob"))
	assert.Equal(t, []string{"a:bob", "b:bob", "c:bob"}, calls)
	assert.Equal(t, 3, s.Len())
}

func TestEmitWithoutListeners(t *testing.T) {
	s := NewSignal[hit]()
	assert.NoError(t, s.Emit(hit{"a", "b"}))
}

func TestEmitCarriesPayload(t *testing.T) {
	s := NewSignal[hit]()
	var got hit
	s.Connect(func(h hit) error { got = h; return nil })

	require.NoError(t, s.Emit(hit{attacker: "albert", victim: "bob"}))
	assert.Equal(t, hit{attacker: "albert", victim: "bob"}, got)
}

func TestListenerErrorStopsEmission(t *testing.T) {
	s := NewSignal[int]()
	boom := errors.New("boom")
	var after bool
	s.Connect(func(int) error { return boom })
	s.Connect(func(int) error { after = true; return nil })

	err := s.Emit(1)
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.ErrorIs(t, err, ErrListenerFailed)
	assert.False(t, after, "listeners after a failing one must not run")
}

func TestListenerPanicPropagates(t *testing.T) {
	s := NewSignal[int]()
	s.Connect(func(int) error { panic("listener panic") })
	assert.PanicsWithValue(t, "listener panic", func() { _ = s.Emit(1) })
}

func TestCancel(t *testing.T) {
	s := NewSignal[int]()
	count := 0
	sub := s.Connect(func(int) error { count++; return nil })
	assert.NotEmpty(t, sub.ID())
	assert.True(t, sub.IsActive())

	require.NoError(t, s.Emit(1))
	require.NoError(t, sub.Cancel())
	require.NoError(t, sub.Cancel())
	require.NoError(t, s.Emit(2))

	assert.Equal(t, 1, count)
	assert.False(t, sub.IsActive())
	assert.Equal(t, 0, s.Len())
}

func TestConnectDuringEmitTakesEffectNextTime(t *testing.T) {
	s := NewSignal[int]()
	late := 0
	s.Connect(func(int) error {
		s.Connect(func(int) error { late++; return nil })
		return nil
	})

	require.NoError(t, s.Emit(1))
	assert.Equal(t, 0, late)
	require.NoError(t, s.Emit(2))
	assert.Equal(t, 1, late)
}

func TestSubscriptionIDsAreUnique(t *testing.T) {
	s := NewSignal[int]()
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		id := s.Connect(func(int) error { return nil }).ID()
		assert.False(t, seen[id])
		seen[id] = true
	}
}
