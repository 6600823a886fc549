package cache

import (
	"context"
	"sync"
	"testing"
	"time"

	"carsurvey/internal/model"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return mr, client
}

func session(id string) *model.Session {
	age := 33
	return &model.Session{
		ID:      id,
		State:   model.StateVehicle,
		Answers: model.Answers{Age: &age, HasLicense: model.Yes},
		Cars:    []model.CarEntry{},
	}
}

func TestRedisSessionCache(t *testing.T) {
	ctx := context.Background()
	mr, client := newRedis(t)
	c := NewSessionCache(client, time.Minute)

	missing, err := c.Get(ctx, "nope")
	require.NoError(t, err)
	assert.Nil(t, missing)

	require.NoError(t, c.Set(ctx, session("abc")))
	assert.True(t, mr.Exists("survey:session:abc"))
	assert.Equal(t, time.Minute, mr.TTL("survey:session:abc"))

	got, err := c.Get(ctx, "abc")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, model.StateVehicle, got.State)
	assert.Equal(t, 33, *got.Answers.Age)

	mr.FastForward(2 * time.Minute)
	expired, err := c.Get(ctx, "abc")
	require.NoError(t, err)
	assert.Nil(t, expired)

	require.NoError(t, c.Set(ctx, session("def")))
	require.NoError(t, c.Delete(ctx, "def"))
	assert.False(t, mr.Exists("survey:session:def"))
}

func TestMemorySessionCache(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	c := NewMemorySessionCache(time.Minute).(*memorySessionCache)
	c.now = func() time.Time { return now }

	require.NoError(t, c.Set(ctx, session("abc")))

	got, err := c.Get(ctx, "abc")
	require.NoError(t, err)
	require.NotNil(t, got)

	// Callers get their own copy.
	got.State = model.StateSubmitted
	again, err := c.Get(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, model.StateVehicle, again.State)

	now = now.Add(2 * time.Minute)
	expired, err := c.Get(ctx, "abc")
	require.NoError(t, err)
	assert.Nil(t, expired)

	require.NoError(t, c.Set(ctx, session("def")))
	require.NoError(t, c.Delete(ctx, "def"))
	gone, err := c.Get(ctx, "def")
	require.NoError(t, err)
	assert.Nil(t, gone)
}

func TestResponseStore(t *testing.T) {
	ctx := context.Background()
	mr, client := newRedis(t)
	store := NewResponseStore(client)

	empty, err := store.List(ctx)
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)

	for _, id := range []string{"s1", "s2", "s3"} {
		r := &model.Response{SessionID: id, Outcome: model.OutcomeCompleted}
		require.NoError(t, store.Append(ctx, r))
		assert.NotEmpty(t, r.ID)
	}

	got, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "s1", got[0].SessionID)
	assert.Equal(t, "s3", got[2].SessionID)

	raw, err := mr.Get(ResponsesKey)
	require.NoError(t, err)
	assert.Equal(t, byte('['), raw[0], "collection is stored as one JSON array")
}

func TestResponseStoreConcurrentAppends(t *testing.T) {
	ctx := context.Background()
	_, client := newRedis(t)
	store := NewResponseStore(client)

	const writers = 5
	var wg sync.WaitGroup
	errs := make(chan error, writers)
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- store.Append(ctx, &model.Response{Outcome: model.OutcomeCompleted})
		}()
	}
	wg.Wait()
	close(errs)

	succeeded := 0
	for err := range errs {
		if err == nil {
			succeeded++
		} else {
			assert.ErrorIs(t, err, ErrAppendConflict)
		}
	}

	got, err := store.List(ctx)
	require.NoError(t, err)
	assert.Len(t, got, succeeded, "no append is lost or duplicated")
}

func TestResponseStoreCorruptValue(t *testing.T) {
	ctx := context.Background()
	mr, client := newRedis(t)
	require.NoError(t, mr.Set(ResponsesKey, "{not json"))

	_, err := NewResponseStore(client).List(ctx)
	assert.Error(t, err)
}
