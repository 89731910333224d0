package history

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arcanaland/taromancer/internal/card"
	"github.com/arcanaland/taromancer/internal/spread"
)

func result(i int) spread.Result {
	return spread.Result{
		ID:        fmt.Sprintf("r-%d", i),
		Kind:      spread.Daily,
		Question:  fmt.Sprintf("question %d", i),
		Topic:     card.TopicGeneral,
		Timestamp: time.UnixMilli(int64(1700000000000 + i)),
		Cards: []spread.DrawnCard{{
			Card:     card.Card{ID: card.MajorID(i % 22), NameEn: "card"},
			Reversed: i%2 == 0,
			Position: spread.Position{Index: 0, Label: "Card of the Day"},
		}},
	}
}

func openSQLite(t *testing.T) *SQLiteKV {
	t.Helper()
	kv, err := OpenSQLite(context.Background(), filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { kv.Close() })
	return kv
}

func stores(t *testing.T) map[string]KV {
	return map[string]KV{
		"memory": NewMemoryKV(),
		"sqlite": openSQLite(t),
	}
}

func TestStore_AddListClear(t *testing.T) {
	for name, kv := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			s, err := NewStore(kv, 4)
			require.NoError(t, err)

			list, err := s.List(ctx, "42")
			require.NoError(t, err)
			assert.Empty(t, list)

			require.NoError(t, s.Add(ctx, "42", result(1)))
			require.NoError(t, s.Add(ctx, "42", result(2)))

			list, err = s.List(ctx, "42")
			require.NoError(t, err)
			require.Len(t, list, 2)
			assert.Equal(t, "r-2", list[0].ID)
			assert.Equal(t, "r-1", list[1].ID)
			assert.True(t, list[1].Timestamp.Equal(result(1).Timestamp))

			other, err := s.List(ctx, "7")
			require.NoError(t, err)
			assert.Empty(t, other)

			require.NoError(t, s.Clear(ctx, "42"))
			list, err = s.List(ctx, "42")
			require.NoError(t, err)
			assert.Empty(t, list)
		})
	}
}

func TestStore_CapsAtMaxEntries(t *testing.T) {
	ctx := context.Background()
	s, err := NewStore(openSQLite(t), 0)
	require.NoError(t, err)

	for i := 0; i < MaxEntries+5; i++ {
		require.NoError(t, s.Add(ctx, "u", result(i)))
	}

	list, err := s.List(ctx, "u")
	require.NoError(t, err)
	require.Len(t, list, MaxEntries)
	assert.Equal(t, fmt.Sprintf("r-%d", MaxEntries+4), list[0].ID)
	assert.Equal(t, "r-5", list[MaxEntries-1].ID)
}

func TestStore_PersistsAcrossStores(t *testing.T) {
	ctx := context.Background()
	kv := openSQLite(t)

	s1, err := NewStore(kv, 1)
	require.NoError(t, err)
	require.NoError(t, s1.Add(ctx, "u", result(3)))

	s2, err := NewStore(kv, 1)
	require.NoError(t, err)
	list, err := s2.List(ctx, "u")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, result(3).Cards[0].Card.ID, list[0].Cards[0].Card.ID)
}

func TestStore_SharedDatabase(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "history.db")

	open := func() *Store {
		kv, err := OpenSQLite(ctx, path)
		require.NoError(t, err)
		t.Cleanup(func() { kv.Close() })
		s, err := NewStore(kv, 4)
		require.NoError(t, err)
		return s
	}
	server, cli := open(), open()

	require.NoError(t, server.Add(ctx, "u", result(1)))
	require.NoError(t, cli.Add(ctx, "u", result(2)))

	list, err := server.List(ctx, "u")
	require.NoError(t, err)
	assert.Equal(t, []string{"r-2", "r-1"}, ids(list))

	require.NoError(t, server.Add(ctx, "u", result(3)))
	list, err = cli.List(ctx, "u")
	require.NoError(t, err)
	assert.Equal(t, []string{"r-3", "r-2", "r-1"}, ids(list))

	require.NoError(t, cli.Clear(ctx, "u"))
	list, err = server.List(ctx, "u")
	require.NoError(t, err)
	assert.Empty(t, list)
}

func ids(list []spread.Result) []string {
	out := make([]string, len(list))
	for i, r := range list {
		out[i] = r.ID
	}
	return out
}

func TestStore_RequiresUser(t *testing.T) {
	s, err := NewStore(NewMemoryKV(), 1)
	require.NoError(t, err)

	assert.ErrorIs(t, s.Add(context.Background(), "", result(1)), ErrNoUser)
	_, err = s.List(context.Background(), "")
	assert.ErrorIs(t, err, ErrNoUser)
}

func TestSQLiteKV_Scopes(t *testing.T) {
	ctx := context.Background()
	kv := openSQLite(t)

	require.NoError(t, kv.Set(ctx, "b", Key, "[]"))
	require.NoError(t, kv.Set(ctx, "a", Key, "[]"))
	require.NoError(t, kv.Set(ctx, "c", "other", "x"))
	require.NoError(t, kv.Set(ctx, "a", Key, "[1]"))

	scopes, err := kv.Scopes(ctx, Key)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, scopes)

	v, ok, err := kv.Get(ctx, "a", Key)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "[1]", v)
}
