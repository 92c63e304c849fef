package context

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/dtroode/userkeeper/internal/model"
)

func TestManager_RoundTrip(t *testing.T) {
	m := NewManager()
	identity := model.Identity{UserID: uuid.New(), Role: model.RoleUser}

	ctx := m.SetIdentityToContext(context.Background(), identity)
	got, ok := m.GetIdentityFromContext(ctx)

	assert.True(t, ok)
	assert.Equal(t, identity, got)
}

func TestManager_Missing(t *testing.T) {
	m := NewManager()

	_, ok := m.GetIdentityFromContext(context.Background())
	assert.False(t, ok)

	ctx := context.WithValue(context.Background(), "identity", "spoofed")
	_, ok = m.GetIdentityFromContext(ctx)
	assert.False(t, ok)
}
