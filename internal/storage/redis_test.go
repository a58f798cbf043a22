package storage

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/require"
)

func setupRedisStore(t *testing.T) (*RedisStore[*slotSpec], *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client, err := NewRedisClient(context.Background(), "redis://"+mr.Addr())
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	return NewRedisStore[*slotSpec](client, "tracker:save:"), mr
}

func TestNewRedisClient_BadURL(t *testing.T) {
	_, err := NewRedisClient(context.Background(), "not a url")
	require.Error(t, err)
	require.Contains(t, err.Error(), "parsing redis url")
}

func TestRedisStore_SaveGet(t *testing.T) {
	ctx := context.Background()
	store, mr := setupRedisStore(t)

	require.NoError(t, store.Save(ctx, "run-1", &slotSpec{Label: "first"}))
	require.NoError(t, store.Save(ctx, "run-1", &slotSpec{Label: "second"}))

	got, err := store.Get(ctx, "run-1")
	require.NoError(t, err)
	require.Equal(t, "second", got.Label)

	raw, err := mr.Get("tracker:save:run-1")
	require.NoError(t, err)
	require.True(t, strings.Contains(raw, `"version":1`))
	require.True(t, strings.Contains(raw, `"id":"run-1"`))
}

func TestRedisStore_Get_NotFound(t *testing.T) {
	store, _ := setupRedisStore(t)

	_, err := store.Get(context.Background(), "missing")
	require.True(t, errors.Is(err, ErrNotFound))
}

func TestRedisStore_Get_Corrupt(t *testing.T) {
	tests := map[string]struct {
		value  string
		expErr string
	}{
		"not json":     {value: "{nope", expErr: "unmarshalling asset"},
		"no version":   {value: `{"id":"run-1","spec":{}}`, expErr: "version must be set"},
		"invalid spec": {value: `{"version":1,"id":"run-1","spec":{"bad":true}}`, expErr: "spec is invalid"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			store, mr := setupRedisStore(t)
			require.NoError(t, mr.Set("tracker:save:run-1", tt.value))

			_, err := store.Get(context.Background(), "run-1")
			require.Error(t, err)
			require.Contains(t, err.Error(), tt.expErr)
		})
	}
}

func TestRedisStore_Save_Invalid(t *testing.T) {
	store, mr := setupRedisStore(t)

	err := store.Save(context.Background(), "run*", &slotSpec{})
	require.Error(t, err)
	require.Empty(t, mr.Keys())
}

func TestRedisStore_ListDelete(t *testing.T) {
	ctx := context.Background()
	store, mr := setupRedisStore(t)

	for _, id := range []string{"zeta", "alpha", "mid"} {
		require.NoError(t, store.Save(ctx, id, &slotSpec{Label: id}))
	}
	// Keys outside the prefix belong to someone else.
	require.NoError(t, mr.Set("other:alpha", "x"))

	ids, err := store.List(ctx)
	require.NoError(t, err)
	require.Equal(t, []string{"alpha", "mid", "zeta"}, ids)

	require.NoError(t, store.Delete(ctx, "mid"))
	require.True(t, errors.Is(store.Delete(ctx, "mid"), ErrNotFound))

	ids, err = store.List(ctx)
	require.NoError(t, err)
	require.Equal(t, []string{"alpha", "zeta"}, ids)
	require.True(t, mr.Exists("other:alpha"))
}
