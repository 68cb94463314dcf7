package officer

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"precinct/internal/officers/models"
	"precinct/pkg/platform/sentinel"
	"precinct/pkg/testutil"
)

type officerStore interface {
	Create(ctx context.Context, o *models.Officer) error
	FindByID(ctx context.Context, policeID string) (*models.Officer, error)
	FindByName(ctx context.Context, policeName string) (*models.Officer, error)
}

var (
	_ officerStore = (*InMemory)(nil)
	_ officerStore = (*PostgresStore)(nil)
)

func newOfficer(t *testing.T, policeID, name string, createdAt time.Time) *models.Officer {
	t.Helper()
	o, err := models.NewOfficer(models.Registration{
		PoliceID:      policeID,
		PoliceName:    name,
		Department:    "Narcotics",
		PoliceAddress: "12 Station Rd",
		Designation:   "Sergeant",
		Password:      "pw",
	}, "$2a$10$hash-"+policeID, createdAt)
	require.NoError(t, err)
	return o
}

func runStoreContract(t *testing.T, newStore func(t *testing.T) officerStore) {
	ctx := context.Background()
	base := time.Now().UTC().Truncate(time.Microsecond)

	t.Run("create then find by id and name", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.Create(ctx, newOfficer(t, "P1", "Jane", base)))

		byID, err := s.FindByID(ctx, "P1")
		require.NoError(t, err)
		assert.Equal(t, "Jane", byID.PoliceName)
		assert.Equal(t, "$2a$10$hash-P1", byID.PasswordHash)
		assert.True(t, base.Equal(byID.CreatedAt))

		byName, err := s.FindByName(ctx, "Jane")
		require.NoError(t, err)
		assert.Equal(t, "P1", byName.PoliceID)
	})

	t.Run("unknown officer is not found", func(t *testing.T) {
		s := newStore(t)
		_, err := s.FindByID(ctx, "nope")
		assert.ErrorIs(t, err, sentinel.ErrNotFound)
		_, err = s.FindByName(ctx, "nobody")
		assert.ErrorIs(t, err, sentinel.ErrNotFound)
	})

	t.Run("duplicate police id is rejected", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.Create(ctx, newOfficer(t, "P1", "Jane", base)))
		err := s.Create(ctx, newOfficer(t, "P1", "John", base))
		assert.ErrorIs(t, err, sentinel.ErrAlreadyUsed)

		got, err := s.FindByID(ctx, "P1")
		require.NoError(t, err)
		assert.Equal(t, "Jane", got.PoliceName)
	})

	t.Run("shared name resolves to the first registration", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.Create(ctx, newOfficer(t, "P1", "Sam", base)))
		require.NoError(t, s.Create(ctx, newOfficer(t, "P2", "Sam", base.Add(time.Second))))

		got, err := s.FindByName(ctx, "Sam")
		require.NoError(t, err)
		assert.Equal(t, "P1", got.PoliceID)
	})

	t.Run("name lookup is exact", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.Create(ctx, newOfficer(t, "P1", "Jane", base)))
		_, err := s.FindByName(ctx, "jane")
		assert.ErrorIs(t, err, sentinel.ErrNotFound)
	})

	t.Run("concurrent registrations of one id admit exactly one", func(t *testing.T) {
		s := newStore(t)
		result := testutil.RunConcurrent(10, func(i int) error {
			return s.Create(ctx, newOfficerNoT("P9", fmt.Sprintf("racer-%d", i), base))
		})
		assert.Equal(t, int32(1), result.Successes)
		assert.Equal(t, int32(9), result.Conflicts)
	})
}

func newOfficerNoT(policeID, name string, createdAt time.Time) *models.Officer {
	return &models.Officer{
		PoliceID:      policeID,
		PoliceName:    name,
		Department:    "Narcotics",
		PoliceAddress: "12 Station Rd",
		Designation:   "Sergeant",
		PasswordHash:  "$2a$10$hash",
		CreatedAt:     createdAt,
	}
}
