package groupstore

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strconv"
	"strings"
	"sync"
	"time"

	"campuslink_server/bus"
	"campuslink_server/models"
	"campuslink_server/storage"
	"campuslink_server/utils"

	"github.com/google/uuid"
)

// Storage keys for the snapshot pieces. All values are JSON-encoded.
const (
	KeyGroups    = "studyGroups"
	KeyMessages  = "studyGroupMessages"
	KeyMembers   = "studyGroupMembers"
	KeyUpdatedAt = "studyGroupsUpdatedAt"
	KeyPing      = "studyGroupsPing"
)

// Topic is the broadcast-channel topic for snapshot change notifications.
const Topic = "studyGroups.changed"

// DebounceWindow batches rapid successive mutations into one persisted
// write and one notification.
const DebounceWindow = 120 * time.Millisecond

// Store keeps one execution context's view of the shared study-group
// snapshot. Every context holding a Store over the same KV converges on
// the same state: mutations are applied in memory first, flushed to the
// KV behind a debounce window, and announced on the bus (or, when no bus
// is available, by bumping a dedicated ping key that KV watchers observe).
//
// Ordering across contexts is last-write-observed-wins, gated by the
// update token: a notification whose token matches the last applied one
// is ignored.
type Store struct {
	kv  storage.KV
	bus bus.Bus

	mu          sync.Mutex
	groups      []models.StudyGroup
	messages    map[string][]models.GroupMessage
	members     map[string][]models.GroupMember
	lastApplied int64
	dirty       map[string]bool

	flusher *utils.Debouncer
	cancels []func()

	// applied counts snapshot replacements from incoming notifications.
	applied int
}

// New hydrates a Store from the KV and starts listening on both
// notification channels. A nil bus is allowed; the store then relies on
// the ping-key fallback alone.
func New(kv storage.KV, b bus.Bus) *Store {
	s := &Store{
		kv:    kv,
		bus:   b,
		dirty: make(map[string]bool),
	}
	s.flusher = utils.NewDebouncer(DebounceWindow, s.flush)

	snap, token := readSnapshot(kv)
	s.groups = snap.Groups
	s.messages = snap.Messages
	s.members = snap.Members
	s.lastApplied = token

	if b != nil {
		cancel, err := b.Subscribe(Topic, func([]byte) {
			s.applyIncomingChange()
		})
		if err != nil {
			log.Printf("groupstore: bus subscribe failed, relying on storage events: %v", err)
		} else {
			s.cancels = append(s.cancels, cancel)
		}
	}
	s.cancels = append(s.cancels, kv.Watch(func(key string) {
		if key == KeyUpdatedAt || key == KeyPing {
			s.applyIncomingChange()
		}
	}))
	return s
}

// Close cancels the pending debounced write, if any, and detaches from
// both notification channels. In-memory state that was never flushed is
// dropped, matching unmount semantics.
func (s *Store) Close() {
	s.flusher.Stop()
	for _, cancel := range s.cancels {
		cancel()
	}
}

// Flush forces a pending debounced write out immediately.
func (s *Store) Flush() {
	s.flusher.Flush()
}

// CreateGroup validates the name, creates the group with the creator as
// sole member, prepends it to the list and schedules a debounced flush.
func (s *Store) CreateGroup(name, subject, schedule string, creator models.GroupMember) (models.StudyGroup, error) {
	if strings.TrimSpace(name) == "" {
		return models.StudyGroup{}, fmt.Errorf("%w: group name is required", models.ErrValidation)
	}
	if creator.Initials == "" {
		creator.Initials = utils.Initials(creator.Name)
	}

	group := models.StudyGroup{
		GroupID:     fmt.Sprintf("g-%d", time.Now().UnixMilli()),
		Name:        strings.TrimSpace(name),
		Subject:     subject,
		Schedule:    schedule,
		MemberCount: 1,
		CreatedBy:   creator.MemberID,
		CreatedAt:   time.Now().Format(time.RFC3339),
	}

	s.mu.Lock()
	s.groups = append([]models.StudyGroup{group}, s.groups...)
	s.members[group.GroupID] = []models.GroupMember{creator}
	s.dirty[KeyGroups] = true
	s.dirty[KeyMembers] = true
	s.mu.Unlock()

	s.flusher.Trigger()
	return group, nil
}

// SendMessage appends a message to the group's sequence. Empty content or
// a missing group id is a silent no-op.
func (s *Store) SendMessage(groupID, senderID, content string) {
	if groupID == "" || strings.TrimSpace(content) == "" {
		return
	}
	msg := models.GroupMessage{
		MessageID: uuid.New().String(),
		GroupID:   groupID,
		SenderID:  senderID,
		Content:   content,
		CreatedAt: time.Now().Format(time.RFC3339),
	}

	s.mu.Lock()
	s.messages[groupID] = append(s.messages[groupID], msg)
	s.dirty[KeyMessages] = true
	s.mu.Unlock()

	s.flusher.Trigger()
}

// AddMember appends a member to an existing group and bumps its count.
func (s *Store) AddMember(groupID string, member models.GroupMember) error {
	if member.Initials == "" {
		member.Initials = utils.Initials(member.Name)
	}

	s.mu.Lock()
	idx := -1
	for i := range s.groups {
		if s.groups[i].GroupID == groupID {
			idx = i
			break
		}
	}
	if idx < 0 {
		s.mu.Unlock()
		return fmt.Errorf("%w: group %s", models.ErrNotFound, groupID)
	}
	s.members[groupID] = append(s.members[groupID], member)
	s.groups[idx].MemberCount = len(s.members[groupID])
	s.dirty[KeyGroups] = true
	s.dirty[KeyMembers] = true
	s.mu.Unlock()

	s.flusher.Trigger()
	return nil
}

// Group looks up a group by id in the in-memory view.
func (s *Store) Group(groupID string) (models.StudyGroup, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, g := range s.groups {
		if g.GroupID == groupID {
			return g, true
		}
	}
	return models.StudyGroup{}, false
}

// Groups returns a copy of the in-memory group list.
func (s *Store) Groups() []models.StudyGroup {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.StudyGroup, len(s.groups))
	copy(out, s.groups)
	return out
}

// Messages returns a copy of the group's message sequence.
func (s *Store) Messages(groupID string) []models.GroupMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.GroupMessage, len(s.messages[groupID]))
	copy(out, s.messages[groupID])
	return out
}

// Members returns a copy of the group's member sequence.
func (s *Store) Members(groupID string) []models.GroupMember {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.GroupMember, len(s.members[groupID]))
	copy(out, s.members[groupID])
	return out
}

// Snapshot returns a deep copy of the full in-memory snapshot.
func (s *Store) Snapshot() models.GroupSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := models.GroupSnapshot{
		Groups:   make([]models.StudyGroup, len(s.groups)),
		Messages: make(map[string][]models.GroupMessage, len(s.messages)),
		Members:  make(map[string][]models.GroupMember, len(s.members)),
	}
	copy(snap.Groups, s.groups)
	for k, v := range s.messages {
		msgs := make([]models.GroupMessage, len(v))
		copy(msgs, v)
		snap.Messages[k] = msgs
	}
	for k, v := range s.members {
		mems := make([]models.GroupMember, len(v))
		copy(mems, v)
		snap.Members[k] = mems
	}
	return snap
}

// flush writes the dirty snapshot pieces, then the update token, then
// notifies other contexts. Write failures are logged and the optimistic
// in-memory state is kept; the next successful flush reconverges.
func (s *Store) flush() {
	ctx := context.Background()

	s.mu.Lock()
	if len(s.dirty) == 0 {
		s.mu.Unlock()
		return
	}
	pieces := make(map[string][]byte, len(s.dirty))
	var err error
	if s.dirty[KeyGroups] {
		if pieces[KeyGroups], err = json.Marshal(s.groups); err != nil {
			log.Printf("groupstore: failed to encode groups: %v", err)
			delete(pieces, KeyGroups)
		}
	}
	if s.dirty[KeyMessages] {
		if pieces[KeyMessages], err = json.Marshal(s.messages); err != nil {
			log.Printf("groupstore: failed to encode messages: %v", err)
			delete(pieces, KeyMessages)
		}
	}
	if s.dirty[KeyMembers] {
		if pieces[KeyMembers], err = json.Marshal(s.members); err != nil {
			log.Printf("groupstore: failed to encode members: %v", err)
			delete(pieces, KeyMembers)
		}
	}
	s.dirty = make(map[string]bool)

	// The token is taken from the clock but forced monotonic so two
	// flushes inside the same millisecond still look distinct.
	token := time.Now().UnixMilli()
	if token <= s.lastApplied {
		token = s.lastApplied + 1
	}
	s.lastApplied = token
	s.mu.Unlock()

	for key, value := range pieces {
		if err := s.kv.Set(ctx, key, value); err != nil {
			log.Printf("groupstore: failed to persist %s: %v", key, err)
		}
	}
	tokenBytes := []byte(strconv.FormatInt(token, 10))
	if err := s.kv.Set(ctx, KeyUpdatedAt, tokenBytes); err != nil {
		log.Printf("groupstore: failed to persist update token: %v", err)
	}

	s.notify(ctx, tokenBytes)
}

// notify announces the change on the broadcast channel; when that is
// unavailable it falls back to bumping the ping key, whose mutation other
// contexts observe through their KV watcher.
func (s *Store) notify(ctx context.Context, token []byte) {
	if s.bus != nil {
		err := s.bus.Publish(ctx, Topic, token)
		if err == nil {
			return
		}
		log.Printf("groupstore: bus publish failed, falling back to ping key: %v", err)
	}
	if err := s.kv.Set(ctx, KeyPing, token); err != nil {
		log.Printf("groupstore: failed to bump ping key: %v", err)
	}
}

// applyIncomingChange re-reads the snapshot if the persisted token moved
// past the last one this context applied. Reports whether state changed.
func (s *Store) applyIncomingChange() bool {
	token := readToken(s.kv)

	s.mu.Lock()
	if token == 0 || token == s.lastApplied {
		s.mu.Unlock()
		return false
	}
	s.mu.Unlock()

	// Re-read outside the lock; all three pieces were persisted before
	// the token, so the snapshot is complete.
	snap, _ := readSnapshot(s.kv)

	s.mu.Lock()
	defer s.mu.Unlock()
	if token == s.lastApplied {
		return false
	}
	s.groups = snap.Groups
	s.messages = snap.Messages
	s.members = snap.Members
	s.lastApplied = token
	s.applied++
	return true
}

func readToken(kv storage.KV) int64 {
	raw, err := kv.Get(context.Background(), KeyUpdatedAt)
	if err != nil {
		return 0
	}
	token, err := strconv.ParseInt(string(raw), 10, 64)
	if err != nil {
		log.Printf("groupstore: unparseable update token %q: %v", raw, err)
		return 0
	}
	return token
}

// readSnapshot loads the three snapshot pieces plus the update token,
// substituting built-in defaults for any piece that is missing or fails
// to decode. It never fails.
func readSnapshot(kv storage.KV) (models.GroupSnapshot, int64) {
	ctx := context.Background()
	snap := defaultSnapshot()

	if raw, err := kv.Get(ctx, KeyGroups); err == nil {
		var groups []models.StudyGroup
		if err := json.Unmarshal(raw, &groups); err != nil {
			log.Printf("groupstore: corrupt %s, using defaults: %v", KeyGroups, err)
		} else {
			snap.Groups = groups
		}
	}
	if raw, err := kv.Get(ctx, KeyMessages); err == nil {
		var messages map[string][]models.GroupMessage
		if err := json.Unmarshal(raw, &messages); err != nil {
			log.Printf("groupstore: corrupt %s, using defaults: %v", KeyMessages, err)
		} else {
			snap.Messages = messages
		}
	}
	if raw, err := kv.Get(ctx, KeyMembers); err == nil {
		var members map[string][]models.GroupMember
		if err := json.Unmarshal(raw, &members); err != nil {
			log.Printf("groupstore: corrupt %s, using defaults: %v", KeyMembers, err)
		} else {
			snap.Members = members
		}
	}
	if snap.Messages == nil {
		snap.Messages = make(map[string][]models.GroupMessage)
	}
	if snap.Members == nil {
		snap.Members = make(map[string][]models.GroupMember)
	}

	return snap, readToken(kv)
}

// defaultSnapshot seeds a first-run context with one demo group so the
// feature is never empty.
func defaultSnapshot() models.GroupSnapshot {
	const demoGroupID = "g-demo"
	return models.GroupSnapshot{
		Groups: []models.StudyGroup{
			{
				GroupID:     demoGroupID,
				Name:        "Calculus II Crew",
				Subject:     "Math",
				Schedule:    "Tue/Thu 6pm, Library 2F",
				MemberCount: 2,
				CreatedAt:   "2024-09-01T12:00:00Z",
			},
		},
		Messages: map[string][]models.GroupMessage{
			demoGroupID: {
				{
					MessageID: "m-demo-1",
					GroupID:   demoGroupID,
					Content:   "Welcome to the group! Drop your questions here.",
					CreatedAt: "2024-09-01T12:00:00Z",
				},
			},
		},
		Members: map[string][]models.GroupMember{
			demoGroupID: {
				{MemberID: "u-demo-1", Name: "Maya Patel", Initials: "MP"},
				{MemberID: "u-demo-2", Name: "Jordan Lee", Initials: "JL"},
			},
		},
	}
}
