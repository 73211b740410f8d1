package postgres

import (
	"context"
	"fmt"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jacentio/eventease/model"
	"github.com/jacentio/eventease/service"
)

// openTest connects to the database named by EVENTEASE_TEST_PG_DSN, using a
// fresh table per test.
func openTest(t *testing.T) *KV {
	t.Helper()
	dsn := os.Getenv("EVENTEASE_TEST_PG_DSN")
	if dsn == "" {
		t.Skip("EVENTEASE_TEST_PG_DSN not set")
	}

	ctx := context.Background()
	table := fmt.Sprintf("eventease_test_%s", uuid.New().String()[:8])
	kv, err := Open(ctx, Config{DSN: dsn, Table: table})
	require.NoError(t, err)
	t.Cleanup(func() {
		_, _ = kv.pool.Exec(context.Background(), "DROP TABLE IF EXISTS "+kv.table)
		kv.Close()
	})
	return kv
}

func TestOpen_BadDSN(t *testing.T) {
	_, err := Open(context.Background(), Config{DSN: "postgres://%zz"})
	assert.Error(t, err)
}

func TestKV_GetSet(t *testing.T) {
	ctx := context.Background()
	kv := openTest(t)

	_, ok, err := kv.Get(ctx, "events")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, kv.Set(ctx, "events", "[]"))
	require.NoError(t, kv.Set(ctx, "events", `[{"id":1}]`))

	v, ok, err := kv.Get(ctx, "events")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `[{"id":1}]`, v)
}

func TestKV_BacksServices(t *testing.T) {
	ctx := context.Background()
	kv := openTest(t)

	events, err := service.NewEventService(kv, service.Config{Namespace: "pg"})
	require.NoError(t, err)
	ev, err := events.AddEvent(ctx, model.Event{Name: "Postgres Day", Location: "DB Room"})
	require.NoError(t, err)

	counter, ok, err := kv.Get(ctx, "pg:lastEventId")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, fmt.Sprint(ev.ID), counter)
}
