package sse

import (
	"net/http"
	"sync"

	"github.com/julienschmidt/httprouter"
	gonanoid "github.com/matoous/go-nanoid/v2"
	log "github.com/sirupsen/logrus"

	"github.com/timada-org/todo/internal/core"
	"github.com/timada-org/todo/pkg/topic"
)

type Server struct {
	mux                 sync.RWMutex
	bus                 *core.EventBus
	NewSessionHandler   func(id string, session *Session)
	CloseSessionHandler func(id string, session *Session)
	sessions            map[string]*Session
}

func New(bus *core.EventBus) *Server {
	return &Server{
		bus:      bus,
		sessions: make(map[string]*Session),
	}
}

// HandleFunc streams bus events matching the "filter" query parameter.
func (s *Server) HandleFunc() httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
		value := r.URL.Query().Get("filter")
		if value == "" {
			value = DefaultFilter
		}

		filter, err := topic.NewFilter(value)
		if err != nil {
			http.Error(w, "Bad request.", http.StatusBadRequest)
			return
		}

		if _, ok := w.(http.Flusher); !ok {
			http.Error(w, "Streaming unsupported.", http.StatusInternalServerError)
			return
		}

		id, err := gonanoid.New()
		if err != nil {
			log.WithError(err).Error("failed to generate session id")
			http.Error(w, "Internal server error.", http.StatusInternalServerError)
			return
		}

		subscription, err := s.bus.Subscribe(filter)
		if err != nil {
			log.WithError(err).Error("failed to subscribe session")
			http.Error(w, "Internal server error.", http.StatusInternalServerError)
			return
		}

		session := newSession(id, subscription)

		s.mux.Lock()
		s.sessions[id] = session
		s.mux.Unlock()

		if s.NewSessionHandler != nil {
			s.NewSessionHandler(id, session)
		}

		session.listen(w, r)

		s.bus.Unsubscribe(subscription.ID)

		s.mux.Lock()
		delete(s.sessions, id)
		s.mux.Unlock()

		if s.CloseSessionHandler != nil {
			s.CloseSessionHandler(id, session)
		}
	}
}

func (s *Server) Get(id string) (*Session, bool) {
	s.mux.RLock()
	defer s.mux.RUnlock()

	session, ok := s.sessions[id]

	return session, ok
}
