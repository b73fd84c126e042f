package assistant

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStateStore(t *testing.T) (*StateStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewStateStore(client), mr
}

func TestStateStoreRoundTrip(t *testing.T) {
	store, _ := newStateStore(t)
	ctx := context.Background()

	state := NewDialogueState()
	state.Append(NewMessage(SenderUser, "quero agendar"))
	state.Append(NewMessage(SenderAssistant, "qual serviço?"))
	state.LastService = "Escova"
	state.Flow = AwaitingConfirm{
		Service: "Escova",
		Date:    time.Date(2025, 8, 16, 0, 0, 0, 0, time.UTC),
		Time:    "14:00",
	}

	require.NoError(t, store.Save(ctx, "sess-1", state))

	loaded, err := store.Load(ctx, "sess-1")
	require.NoError(t, err)

	require.Len(t, loaded.Transcript, 2)
	assert.Equal(t, "quero agendar", loaded.Transcript[0].Text)
	assert.Equal(t, SenderUser, loaded.Transcript[0].Sender)
	assert.Equal(t, "Escova", loaded.LastService)

	confirm, ok := loaded.Flow.(AwaitingConfirm)
	require.True(t, ok, "flow = %T", loaded.Flow)
	assert.Equal(t, "Escova", confirm.Service)
	assert.Equal(t, time.Date(2025, 8, 16, 0, 0, 0, 0, time.UTC), confirm.Date)
	assert.Equal(t, "14:00", confirm.Time)
}

func TestStateStoreRoundTripMidFlowStages(t *testing.T) {
	store, _ := newStateStore(t)
	ctx := context.Background()

	state := NewDialogueState()
	state.Flow = AwaitingService{}
	require.NoError(t, store.Save(ctx, "sess-a", state))
	loaded, err := store.Load(ctx, "sess-a")
	require.NoError(t, err)
	assert.Equal(t, StageService, loaded.Stage())

	state = NewDialogueState()
	state.Flow = AwaitingDateTime{Service: "Manicure"}
	require.NoError(t, store.Save(ctx, "sess-b", state))
	loaded, err = store.Load(ctx, "sess-b")
	require.NoError(t, err)
	dt, ok := loaded.Flow.(AwaitingDateTime)
	require.True(t, ok, "flow = %T", loaded.Flow)
	assert.Equal(t, "Manicure", dt.Service)
}

func TestStateStoreLoadMissingReturnsFreshState(t *testing.T) {
	store, _ := newStateStore(t)

	state, err := store.Load(context.Background(), "never-seen")
	require.NoError(t, err)
	require.NotNil(t, state)
	assert.Empty(t, state.Transcript)
	assert.Equal(t, StageNone, state.Stage())
}

func TestStateStoreLoadMalformedReturnsFreshState(t *testing.T) {
	store, mr := newStateStore(t)
	require.NoError(t, mr.Set(stateKeyPrefix+"sess-1", "{not json"))

	state, err := store.Load(context.Background(), "sess-1")
	require.NoError(t, err)
	require.NotNil(t, state)
	assert.Equal(t, StageNone, state.Stage())
}

func TestStateStoreInconsistentPendingResetsFlow(t *testing.T) {
	store, mr := newStateStore(t)

	// A confirm stage without its pending slots cannot be resumed.
	require.NoError(t, mr.Set(stateKeyPrefix+"sess-1", `{"transcript":[],"stage":"final_confirm"}`))

	state, err := store.Load(context.Background(), "sess-1")
	require.NoError(t, err)
	assert.Equal(t, StageNone, state.Stage())
}

func TestStateStoreAppliesTTL(t *testing.T) {
	store, mr := newStateStore(t)

	require.NoError(t, store.Save(context.Background(), "sess-1", NewDialogueState()))
	ttl := mr.TTL(stateKeyPrefix + "sess-1")
	assert.Equal(t, defaultSessionTTL, ttl)
}

func TestStateStoreWithTTL(t *testing.T) {
	store, mr := newStateStore(t)
	store = store.WithTTL(time.Hour)

	require.NoError(t, store.Save(context.Background(), "sess-1", NewDialogueState()))
	assert.Equal(t, time.Hour, mr.TTL(stateKeyPrefix+"sess-1"))
}

func TestStateStoreDelete(t *testing.T) {
	store, mr := newStateStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "sess-1", NewDialogueState()))
	require.True(t, mr.Exists(stateKeyPrefix+"sess-1"))

	require.NoError(t, store.Delete(ctx, "sess-1"))
	assert.False(t, mr.Exists(stateKeyPrefix+"sess-1"))
}

func TestStateStoreNilClientNoOps(t *testing.T) {
	store := NewStateStore(nil)

	require.NoError(t, store.Save(context.Background(), "sess-1", NewDialogueState()))
	state, err := store.Load(context.Background(), "sess-1")
	require.NoError(t, err)
	assert.Equal(t, StageNone, state.Stage())
}
