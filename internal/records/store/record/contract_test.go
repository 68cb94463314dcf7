package record

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"precinct/internal/records/models"
	"precinct/pkg/platform/sentinel"
	"precinct/pkg/testutil"
)

type recordStore interface {
	List(ctx context.Context) ([]*models.Record, error)
	ListByPrefix(ctx context.Context, prefix string) ([]*models.Record, error)
	FindByID(ctx context.Context, id string) (*models.Record, error)
	Create(ctx context.Context, rec *models.Record) error
	Update(ctx context.Context, rec *models.Record) error
	Delete(ctx context.Context, id string) error
}

var (
	_ recordStore = (*InMemory)(nil)
	_ recordStore = (*PostgresStore)(nil)
)

func newRecord(t *testing.T, id, name string) *models.Record {
	t.Helper()
	rec, err := models.NewRecord(id, name, "", "NID-"+id, time.Now().UTC().Truncate(time.Microsecond))
	require.NoError(t, err)
	return rec
}

func ids(recs []*models.Record) []string {
	out := make([]string, len(recs))
	for i, r := range recs {
		out[i] = r.ID
	}
	return out
}

// runStoreContract exercises behavior every record store must share.
func runStoreContract(t *testing.T, newStore func(t *testing.T) recordStore) {
	ctx := context.Background()

	t.Run("list on empty store is empty, not nil", func(t *testing.T) {
		s := newStore(t)
		recs, err := s.List(ctx)
		require.NoError(t, err)
		assert.NotNil(t, recs)
		assert.Empty(t, recs)
	})

	t.Run("list keeps insertion order", func(t *testing.T) {
		s := newStore(t)
		for _, id := range []string{"zz", "aa", "mm"} {
			require.NoError(t, s.Create(ctx, newRecord(t, id, "n-"+id)))
		}
		recs, err := s.List(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"zz", "aa", "mm"}, ids(recs))
	})

	t.Run("create rejects a duplicate id", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.Create(ctx, newRecord(t, "dup", "first")))
		err := s.Create(ctx, newRecord(t, "dup", "second"))
		assert.ErrorIs(t, err, sentinel.ErrAlreadyUsed)

		got, err := s.FindByID(ctx, "dup")
		require.NoError(t, err)
		assert.Equal(t, "first", got.Name)
	})

	t.Run("prefix match is literal", func(t *testing.T) {
		s := newStore(t)
		for _, id := range []string{"a1b2", "a1c3", "b1", "a_x", "a%y"} {
			require.NoError(t, s.Create(ctx, newRecord(t, id, "n")))
		}

		recs, err := s.ListByPrefix(ctx, "a1")
		require.NoError(t, err)
		assert.Equal(t, []string{"a1b2", "a1c3"}, ids(recs))

		recs, err = s.ListByPrefix(ctx, "a_")
		require.NoError(t, err)
		assert.Equal(t, []string{"a_x"}, ids(recs))

		recs, err = s.ListByPrefix(ctx, "a%")
		require.NoError(t, err)
		assert.Equal(t, []string{"a%y"}, ids(recs))

		recs, err = s.ListByPrefix(ctx, "nomatch")
		require.NoError(t, err)
		assert.Empty(t, recs)
	})

	t.Run("update changes only the target", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.Create(ctx, newRecord(t, "u1", "Alice")))
		require.NoError(t, s.Create(ctx, newRecord(t, "u2", "Carol")))

		changed := newRecord(t, "u1", "Alice Smith")
		changed.Sex = models.SexFemale
		changed.NationalID = ""
		require.NoError(t, s.Update(ctx, changed))

		got, err := s.FindByID(ctx, "u1")
		require.NoError(t, err)
		assert.Equal(t, "Alice Smith", got.Name)
		assert.Equal(t, models.SexFemale, got.Sex)
		assert.Empty(t, got.NationalID)

		other, err := s.FindByID(ctx, "u2")
		require.NoError(t, err)
		assert.Equal(t, "Carol", other.Name)

		recs, err := s.List(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"u1", "u2"}, ids(recs))
	})

	t.Run("update of missing id reports not found", func(t *testing.T) {
		s := newStore(t)
		assert.ErrorIs(t, s.Update(ctx, newRecord(t, "ghost", "x")), sentinel.ErrNotFound)
		recs, err := s.List(ctx)
		require.NoError(t, err)
		assert.Empty(t, recs)
	})

	t.Run("delete removes the id", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.Create(ctx, newRecord(t, "d1", "x")))
		require.NoError(t, s.Create(ctx, newRecord(t, "d2", "y")))

		require.NoError(t, s.Delete(ctx, "d1"))
		assert.ErrorIs(t, s.Delete(ctx, "d1"), sentinel.ErrNotFound)

		_, err := s.FindByID(ctx, "d1")
		assert.ErrorIs(t, err, sentinel.ErrNotFound)

		recs, err := s.List(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"d2"}, ids(recs))
	})

	t.Run("concurrent creates of one id admit exactly one", func(t *testing.T) {
		s := newStore(t)
		rec := newRecord(t, "race", "x")
		res := testutil.RunConcurrent(16, func(int) error {
			cp := *rec
			return s.Create(ctx, &cp)
		})
		assert.Equal(t, int32(1), res.Successes)
		assert.Equal(t, int32(15), res.Conflicts)
	})
}
