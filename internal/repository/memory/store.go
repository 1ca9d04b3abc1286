// Package memory implements every repository contract over one in-process store.
// A single lock guards all tables; Transaction holds it for the whole callback and
// restores a snapshot when the callback fails, giving all-or-nothing commits.
package memory

import (
	"sync"

	"github.com/google/uuid"
	catent "github.com/radu-bors/Clique-backend/internal/domain/catalog/entities"
	chatent "github.com/radu-bors/Clique-backend/internal/domain/chat/entities"
	dirent "github.com/radu-bors/Clique-backend/internal/domain/directory/entities"
	evtent "github.com/radu-bors/Clique-backend/internal/domain/event/entities"
	matchent "github.com/radu-bors/Clique-backend/internal/domain/matching/entities"
)

type tables struct {
	users         map[uuid.UUID]dirent.User
	activities    map[uuid.UUID]catent.Activity
	activityOrder []uuid.UUID
	events        map[uuid.UUID]evtent.Event
	eventOrder    []uuid.UUID
	matches       map[matchent.Key]matchent.Match
	matchOrder    []matchent.Key
	chatIndex     map[uuid.UUID]matchent.Key
	invites       map[matchent.Key]struct{}
	// chats keeps each channel sorted by datetime
	chats map[uuid.UUID][]chatent.Message
}

func newTables() *tables {
	return &tables{
		users:      make(map[uuid.UUID]dirent.User),
		activities: make(map[uuid.UUID]catent.Activity),
		events:     make(map[uuid.UUID]evtent.Event),
		matches:    make(map[matchent.Key]matchent.Match),
		chatIndex:  make(map[uuid.UUID]matchent.Key),
		invites:    make(map[matchent.Key]struct{}),
		chats:      make(map[uuid.UUID][]chatent.Message),
	}
}

func (t *tables) clone() *tables {
	c := &tables{
		users:         make(map[uuid.UUID]dirent.User, len(t.users)),
		activities:    make(map[uuid.UUID]catent.Activity, len(t.activities)),
		activityOrder: append([]uuid.UUID(nil), t.activityOrder...),
		events:        make(map[uuid.UUID]evtent.Event, len(t.events)),
		eventOrder:    append([]uuid.UUID(nil), t.eventOrder...),
		matches:       make(map[matchent.Key]matchent.Match, len(t.matches)),
		matchOrder:    append([]matchent.Key(nil), t.matchOrder...),
		chatIndex:     make(map[uuid.UUID]matchent.Key, len(t.chatIndex)),
		invites:       make(map[matchent.Key]struct{}, len(t.invites)),
		chats:         make(map[uuid.UUID][]chatent.Message, len(t.chats)),
	}
	for k, v := range t.users {
		c.users[k] = v
	}
	for k, v := range t.activities {
		c.activities[k] = v
	}
	for k, v := range t.events {
		c.events[k] = v
	}
	for k, v := range t.matches {
		c.matches[k] = v
	}
	for k, v := range t.chatIndex {
		c.chatIndex[k] = v
	}
	for k := range t.invites {
		c.invites[k] = struct{}{}
	}
	for k, v := range t.chats {
		c.chats[k] = append([]chatent.Message(nil), v...)
	}
	return c
}

// Store is the shared in-memory backend.
type Store struct {
	mu   sync.RWMutex
	data *tables
}

func NewStore() *Store {
	return &Store{data: newTables()}
}

// transaction runs fn under the write lock and rolls back on error.
func (s *Store) transaction(fn func(t *tables) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.data.clone()
	if err := fn(s.data); err != nil {
		s.data = snapshot
		return err
	}
	return nil
}

func (s *Store) read(fn func(t *tables)) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	fn(s.data)
}

func (s *Store) Users() *UserRepository {
	return &UserRepository{store: s}
}

func (s *Store) Activities() *ActivityRepository {
	return &ActivityRepository{store: s}
}

func (s *Store) Events() *EventRepository {
	return &EventRepository{store: s}
}

func (s *Store) Matches() *MatchRepository {
	return &MatchRepository{store: s}
}

func (s *Store) Chats() *ChatRepository {
	return &ChatRepository{store: s}
}

func (s *Store) Loader() *Loader {
	return &Loader{store: s}
}
