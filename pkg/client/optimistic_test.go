package client

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMirrorApplyConfirmsWithServerList(t *testing.T) {
	var m Mirror[string]
	m.Reset([]string{"b", "c"})

	got, err := m.Apply(
		func(items []string) []string { return append([]string{"a"}, items...) },
		func() ([]string, error) { return []string{"a", "b", "c"}, nil },
	)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, got)
	assert.Equal(t, []string{"a", "b", "c"}, m.Items())
}

func TestMirrorApplyRollsBackOnFailure(t *testing.T) {
	var m Mirror[string]
	m.Reset([]string{"b", "c"})

	boom := errors.New("network down")
	var sawOptimistic []string
	got, err := m.Apply(
		func(items []string) []string {
			next := append([]string{"a"}, items...)
			sawOptimistic = next
			return next
		},
		func() ([]string, error) {
			// the optimistic state is visible while the call is in flight
			assert.Equal(t, sawOptimistic, m.Items())
			return nil, boom
		},
	)
	require.ErrorIs(t, err, boom)
	assert.Equal(t, []string{"b", "c"}, got)
	assert.Equal(t, []string{"b", "c"}, m.Items())
}

func TestMirrorApplyAdoptsServerDivergence(t *testing.T) {
	// The server list wins even when it differs from the optimistic guess.
	var m Mirror[string]
	m.Reset([]string{"b"})

	got, err := m.Apply(
		func(items []string) []string { return append([]string{"a"}, items...) },
		func() ([]string, error) { return []string{"a", "z", "b"}, nil },
	)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "z", "b"}, got)
}

func TestMirrorItemsReturnsCopy(t *testing.T) {
	var m Mirror[string]
	m.Reset([]string{"a", "b"})

	items := m.Items()
	items[0] = "mutated"
	assert.Equal(t, []string{"a", "b"}, m.Items())
}
