package groupstore

import (
	"context"
	"sync"
	"testing"
	"time"

	"campuslink_server/bus"
	"campuslink_server/models"
	"campuslink_server/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingKV wraps the in-memory KV and records how many Sets each key
// received, so tests can assert on write coalescing.
type countingKV struct {
	*storage.Memory
	mu   sync.Mutex
	sets map[string]int
}

func newCountingKV() *countingKV {
	return &countingKV{Memory: storage.NewMemory(), sets: make(map[string]int)}
}

func (c *countingKV) Set(ctx context.Context, key string, value []byte) error {
	c.mu.Lock()
	c.sets[key]++
	c.mu.Unlock()
	return c.Memory.Set(ctx, key, value)
}

func (c *countingKV) setCount(key string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sets[key]
}

func creator() models.GroupMember {
	return models.GroupMember{MemberID: "u-1", Name: "Maya Patel"}
}

func TestSnapshotRoundTrip(t *testing.T) {
	kv := storage.NewMemory()
	tab1 := New(kv, bus.NewMemory())
	defer tab1.Close()

	group, err := tab1.CreateGroup("Algorithms Study", "CS", "Mon 5pm", creator())
	require.NoError(t, err)
	tab1.SendMessage(group.GroupID, "u-1", "first meeting this Monday")
	tab1.Flush()

	// A fresh context over the same storage hydrates to the same state.
	tab2 := New(kv, nil)
	defer tab2.Close()
	assert.Equal(t, tab1.Snapshot(), tab2.Snapshot())
}

func TestCreateGroupValidation(t *testing.T) {
	tab := New(storage.NewMemory(), nil)
	defer tab.Close()

	before := tab.Groups()
	_, err := tab.CreateGroup("   ", "CS", "Mon 5pm", creator())
	assert.ErrorIs(t, err, models.ErrValidation)
	assert.Equal(t, before, tab.Groups())
}

func TestCreateGroupSeedsCreatorAsSoleMember(t *testing.T) {
	tab := New(storage.NewMemory(), nil)
	defer tab.Close()

	group, err := tab.CreateGroup("Algorithms Study", "CS", "Mon 5pm", creator())
	require.NoError(t, err)

	assert.Equal(t, 1, group.MemberCount)
	members := tab.Members(group.GroupID)
	require.Len(t, members, 1)
	assert.Equal(t, "u-1", members[0].MemberID)
	assert.Equal(t, "MP", members[0].Initials)

	// New groups are prepended.
	assert.Equal(t, group.GroupID, tab.Groups()[0].GroupID)
}

func TestSendMessageNoOps(t *testing.T) {
	tab := New(storage.NewMemory(), nil)
	defer tab.Close()

	before := len(tab.Messages("g-demo"))
	tab.SendMessage("", "u-1", "hello")
	tab.SendMessage("g-demo", "u-1", "   ")
	assert.Len(t, tab.Messages("g-demo"), before)
}

func TestDebounceCoalescing(t *testing.T) {
	kv := newCountingKV()
	b := bus.NewMemory()

	var publishes int
	var mu sync.Mutex
	_, err := b.Subscribe(Topic, func([]byte) {
		mu.Lock()
		publishes++
		mu.Unlock()
	})
	require.NoError(t, err)

	tab := New(kv, b)
	defer tab.Close()

	for i := 0; i < 5; i++ {
		tab.SendMessage("g-demo", "u-1", "msg")
	}
	time.Sleep(DebounceWindow + 300*time.Millisecond)

	assert.Equal(t, 1, kv.setCount(KeyMessages))
	assert.Equal(t, 1, kv.setCount(KeyUpdatedAt))
	mu.Lock()
	assert.Equal(t, 1, publishes)
	mu.Unlock()

	// Only changed pieces are written: no group mutation happened.
	assert.Equal(t, 0, kv.setCount(KeyGroups))

	// The persisted state reflects all five mutations.
	tab2 := New(kv, nil)
	defer tab2.Close()
	assert.Len(t, tab2.Messages("g-demo"), len(defaultSnapshot().Messages["g-demo"])+5)
}

func TestCrossTabConvergence(t *testing.T) {
	kv := storage.NewMemory()
	b := bus.NewMemory()

	tab1 := New(kv, b)
	defer tab1.Close()
	tab2 := New(kv, b)
	defer tab2.Close()

	group, err := tab1.CreateGroup("Physics Lab Prep", "Physics", "Fri 3pm", creator())
	require.NoError(t, err)
	tab1.SendMessage(group.GroupID, "u-1", "bring last year's papers")
	tab1.Flush()

	assert.Equal(t, tab1.Snapshot(), tab2.Snapshot())
	assert.Equal(t, 1, tab2.applied)
}

func TestPingFallbackWithoutBus(t *testing.T) {
	kv := storage.NewMemory()

	tab1 := New(kv, nil)
	defer tab1.Close()
	tab2 := New(kv, nil)
	defer tab2.Close()

	_, err := tab1.CreateGroup("Spanish Conversation", "Languages", "Wed 7pm", creator())
	require.NoError(t, err)
	tab1.Flush()

	// With no broadcast channel the ping key must have been bumped.
	_, err = kv.Get(context.Background(), KeyPing)
	require.NoError(t, err)

	assert.Equal(t, tab1.Snapshot(), tab2.Snapshot())
}

func TestStaleNotificationIsIgnored(t *testing.T) {
	kv := storage.NewMemory()
	tab := New(kv, nil)
	defer tab.Close()

	_, err := tab.CreateGroup("Algorithms Study", "CS", "Mon 5pm", creator())
	require.NoError(t, err)
	tab.Flush()
	applied := tab.applied

	// A notification carrying an already-applied token changes nothing.
	changed := tab.applyIncomingChange()
	assert.False(t, changed)
	assert.Equal(t, applied, tab.applied)
}

func TestCorruptSnapshotFallsBackToDefaults(t *testing.T) {
	kv := storage.NewMemory()
	ctx := context.Background()
	require.NoError(t, kv.Set(ctx, KeyGroups, []byte("{not json")))
	require.NoError(t, kv.Set(ctx, KeyMessages, []byte("also corrupt")))

	tab := New(kv, nil)
	defer tab.Close()

	groups := tab.Groups()
	require.NotEmpty(t, groups)
	assert.Equal(t, defaultSnapshot().Groups[0].Name, groups[0].Name)
}

func TestAddMemberBumpsCount(t *testing.T) {
	tab := New(storage.NewMemory(), nil)
	defer tab.Close()

	group, err := tab.CreateGroup("Algorithms Study", "CS", "Mon 5pm", creator())
	require.NoError(t, err)

	err = tab.AddMember(group.GroupID, models.GroupMember{MemberID: "u-2", Name: "Jordan Lee"})
	require.NoError(t, err)

	got, ok := tab.Group(group.GroupID)
	require.True(t, ok)
	assert.Equal(t, 2, got.MemberCount)

	err = tab.AddMember("g-nope", models.GroupMember{MemberID: "u-3", Name: "Sam"})
	assert.ErrorIs(t, err, models.ErrNotFound)
}
