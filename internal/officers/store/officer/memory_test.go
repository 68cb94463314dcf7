package officer

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryStore(t *testing.T) {
	runStoreContract(t, func(*testing.T) officerStore { return NewInMemory() })
}

func TestInMemoryReturnsCopies(t *testing.T) {
	s := NewInMemory()
	ctx := context.Background()
	require.NoError(t, s.Create(ctx, newOfficer(t, "P1", "Jane", time.Now())))

	got, err := s.FindByName(ctx, "Jane")
	require.NoError(t, err)
	got.PasswordHash = "tampered"

	again, err := s.FindByID(ctx, "P1")
	require.NoError(t, err)
	assert.Equal(t, "$2a$10$hash-P1", again.PasswordHash)
}
