package todo

import (
	"math"
	"sort"
	"sync"

	log "github.com/sirupsen/logrus"
)

type StoreOptions struct {
	Emitter Emitter
}

// Store owns the todo items and the identifier counter. Each method runs as a
// single critical section and emits its notification before releasing the lock,
// so observers see notifications in mutation order.
type Store struct {
	mux     sync.Mutex
	todos   map[uint32]Item
	nextID  uint32
	emitter Emitter
}

func New() *Store {
	return NewWithOptions(StoreOptions{})
}

func NewWithOptions(options StoreOptions) *Store {
	emitter := options.Emitter
	if emitter == nil {
		emitter = discard{}
	}

	return &Store{
		todos:   make(map[uint32]Item),
		emitter: emitter,
	}
}

// Create stores a new item under the next identifier and returns it.
//
// The counter saturates at math.MaxUint32: once there, every Create reuses
// that identifier and replaces the item stored under it.
func (s *Store) Create(description string) uint32 {
	s.mux.Lock()
	defer s.mux.Unlock()

	id := s.nextID
	if id == math.MaxUint32 {
		log.WithField("id", id).Warn("todo identifier space exhausted, reusing last identifier")
	}

	s.todos[id] = Item{ID: id, Description: description}

	if s.nextID < math.MaxUint32 {
		s.nextID++
	}

	s.emitter.Emit(Created{ID: id, Description: description})

	return id
}

func (s *Store) Read(id uint32) (Item, bool) {
	s.mux.Lock()
	defer s.mux.Unlock()

	item, ok := s.todos[id]

	return item, ok
}

func (s *Store) UpdateStatus(id uint32, done bool) bool {
	s.mux.Lock()
	defer s.mux.Unlock()

	item, ok := s.todos[id]
	if !ok {
		return false
	}

	item.Done = done
	s.todos[id] = item

	s.emitter.Emit(StatusUpdated{ID: id, Done: done})

	return true
}

func (s *Store) UpdateDescription(id uint32, description string) bool {
	s.mux.Lock()
	defer s.mux.Unlock()

	item, ok := s.todos[id]
	if !ok {
		return false
	}

	item.Description = description
	s.todos[id] = item

	s.emitter.Emit(DescriptionUpdated{ID: id, Description: description})

	return true
}

func (s *Store) Delete(id uint32) bool {
	s.mux.Lock()
	defer s.mux.Unlock()

	if _, ok := s.todos[id]; !ok {
		return false
	}

	delete(s.todos, id)

	s.emitter.Emit(Deleted{ID: id})

	return true
}

// List returns a copy of every item ordered by identifier.
func (s *Store) List() []Item {
	s.mux.Lock()
	defer s.mux.Unlock()

	items := make([]Item, 0, len(s.todos))
	for _, item := range s.todos {
		items = append(items, item)
	}

	sort.Slice(items, func(i, j int) bool {
		return items[i].ID < items[j].ID
	})

	return items
}

func (s *Store) Len() int {
	s.mux.Lock()
	defer s.mux.Unlock()

	return len(s.todos)
}

// NextID is the identifier the next Create will assign.
func (s *Store) NextID() uint32 {
	s.mux.Lock()
	defer s.mux.Unlock()

	return s.nextID
}
