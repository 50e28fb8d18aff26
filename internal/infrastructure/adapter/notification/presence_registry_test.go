package notification

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestPresenceRegistry(t *testing.T) {
	registry := NewPresenceRegistry()
	alice, bob := uuid.New(), uuid.New()

	registry.Register(alice, "c2")
	registry.Register(alice, "c1")
	registry.Register(bob, "c3")

	assert.Equal(t, []string{"c1", "c2"}, registry.Connections(alice))
	assert.Equal(t, []string{"c3"}, registry.Connections(bob))
	assert.Empty(t, registry.Connections(uuid.New()))

	registry.Unregister("c2")
	assert.Equal(t, []string{"c1"}, registry.Connections(alice))

	registry.Register(bob, "c1")
	assert.Empty(t, registry.Connections(alice))
	assert.Equal(t, []string{"c1", "c3"}, registry.Connections(bob))

	registry.Unregister("unknown")
	registry.Unregister("c1")
	registry.Unregister("c3")
	assert.Empty(t, registry.Connections(bob))
	assert.Empty(t, registry.byConn)
	assert.Empty(t, registry.byAccount)
}
