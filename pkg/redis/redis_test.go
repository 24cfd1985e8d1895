package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type payload struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func TestJSONHelpers(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	ctx := context.Background()

	var missing payload
	found, err := GetJSON(ctx, client, "absent", &missing)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, SetJSON(ctx, client, "k", payload{Name: "cart", Count: 2}, time.Minute))

	var got payload
	found, err = GetJSON(ctx, client, "k", &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, payload{Name: "cart", Count: 2}, got)
	assert.Equal(t, time.Minute, mr.TTL("k"))
}

func TestGetJSON_CorruptValue(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	require.NoError(t, mr.Set("bad", "{not json"))

	var got payload
	found, err := GetJSON(context.Background(), client, "bad", &got)
	assert.Error(t, err)
	assert.False(t, found)
}
