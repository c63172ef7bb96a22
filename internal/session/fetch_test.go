package session_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jpl-au/devise/internal/session"
)

func TestFetchGuard_StaleTokenDetected(t *testing.T) {
	g := session.NewFetchGuard()

	first := g.Begin("tab-1")
	assert.True(t, g.Current("tab-1", first))

	// A newer fetch strands the older token
	second := g.Begin("tab-1")
	assert.False(t, g.Current("tab-1", first))
	assert.True(t, g.Current("tab-1", second))

	// Tabs are independent
	other := g.Begin("tab-2")
	assert.True(t, g.Current("tab-2", other))
	assert.True(t, g.Current("tab-1", second))
}

func TestFetchGuard_Forget(t *testing.T) {
	g := session.NewFetchGuard()

	token := g.Begin("tab-1")
	g.Forget("tab-1")
	assert.False(t, g.Current("tab-1", token))
}
