package session

import (
	"context"
	"testing"
	"time"

	"luna_assistant/internal/model"

	"github.com/alicebob/miniredis/v2"
	"github.com/cloudwego/eino/schema"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedisRepo(t *testing.T, mr *miniredis.Miniredis, instance string) *RedisRepository {
	t.Helper()
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return NewRedisRepositoryWithClient(client, 40*time.Minute, instance)
}

func TestRedisRepositoryRoundTrip(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	repo := newRedisRepo(t, mr, "inst1")

	state := newState("s1", time.Now().UTC())
	state.Preferences.Dislikes = []string{"broccoli"}
	state.History = append(state.History, schema.UserMessage("hi"), schema.AssistantMessage("hello", nil))
	require.NoError(t, repo.Save(ctx, state))

	assert.True(t, mr.Exists("luna:inst1:session:s1"))
	assert.Equal(t, 40*time.Minute, mr.TTL("luna:inst1:session:s1"))

	got, err := repo.Load(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "s1", got.ID)
	assert.Equal(t, []string{"broccoli"}, got.Preferences.Dislikes)
	assert.Empty(t, got.Preferences.Likes)
	require.Len(t, got.History, 2)
	assert.Equal(t, "hello", got.History[1].Content)
}

func TestRedisRepositoryLoadRefreshesTTL(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	repo := newRedisRepo(t, mr, "inst1")

	require.NoError(t, repo.Save(ctx, newState("s1", time.Now())))
	mr.FastForward(30 * time.Minute)

	_, err := repo.Load(ctx, "s1")
	require.NoError(t, err)

	assert.Equal(t, 40*time.Minute, mr.TTL("luna:inst1:session:s1"))

	mr.FastForward(41 * time.Minute)
	_, err = repo.Load(ctx, "s1")
	assert.ErrorIs(t, err, model.ErrSessionNotFound)
}

func TestRedisRepositoryIsolatesInstances(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	first := newRedisRepo(t, mr, "first")
	second := newRedisRepo(t, mr, "second")

	require.NoError(t, first.Save(ctx, newState("s1", time.Now())))

	_, err := second.Load(ctx, "s1")
	assert.ErrorIs(t, err, model.ErrSessionNotFound)

	count, err := second.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestRedisRepositoryClosePurgesOwnKeys(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	mine := newRedisRepo(t, mr, "mine")
	other := newRedisRepo(t, mr, "other")

	require.NoError(t, mine.Save(ctx, newState("a", time.Now())))
	require.NoError(t, mine.Save(ctx, newState("b", time.Now())))
	require.NoError(t, other.Save(ctx, newState("c", time.Now())))

	count, err := mine.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	require.NoError(t, mine.Close(ctx))

	assert.False(t, mr.Exists("luna:mine:session:a"))
	assert.False(t, mr.Exists("luna:mine:session:b"))
	assert.True(t, mr.Exists("luna:other:session:c"))
}

func TestRedisRepositoryDelete(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	repo := newRedisRepo(t, mr, "inst1")

	require.NoError(t, repo.Save(ctx, newState("s1", time.Now())))
	require.NoError(t, repo.Delete(ctx, "s1"))

	_, err := repo.Load(ctx, "s1")
	assert.ErrorIs(t, err, model.ErrSessionNotFound)

	assert.ErrorIs(t, repo.Delete(ctx, "s1"), model.ErrSessionNotFound)
}

func TestRedisRepositoryPingReportsOutage(t *testing.T) {
	mr := miniredis.RunT(t)
	repo := newRedisRepo(t, mr, "inst1")

	require.NoError(t, repo.Ping(context.Background()))

	mr.Close()
	assert.Error(t, repo.Ping(context.Background()))
}

func TestNewRedisRepositoryRequiresURL(t *testing.T) {
	_, err := NewRedisRepository(context.Background(), "", time.Minute, "x")
	assert.Error(t, err)
}

func TestNewRedisRepositoryConnects(t *testing.T) {
	mr := miniredis.RunT(t)
	repo, err := NewRedisRepository(context.Background(), "redis://"+mr.Addr(), time.Minute, "x")
	require.NoError(t, err)
	assert.NoError(t, repo.Ping(context.Background()))
	assert.NoError(t, repo.Close(context.Background()))
}
