package camomiletest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
)

type sseEvent struct {
	name string
	data []byte
}

// eventChannel is one open listen channel with its subscriptions.
type eventChannel struct {
	id            string
	subscriptions map[string]bool // "resource:id"
	events        chan sseEvent
}

// eventHub tracks listen channels and fans mutations out to subscribers.
type eventHub struct {
	mu       sync.Mutex
	channels map[string]*eventChannel
}

func newEventHub() *eventHub {
	return &eventHub{channels: map[string]*eventChannel{}}
}

func (h *eventHub) open() *eventChannel {
	ch := &eventChannel{
		id:            newID(),
		subscriptions: map[string]bool{},
		events:        make(chan sseEvent, 64),
	}
	h.mu.Lock()
	h.channels[ch.id] = ch
	h.mu.Unlock()
	return ch
}

func (h *eventHub) get(id string) (*eventChannel, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	ch, ok := h.channels[id]
	return ch, ok
}

func (h *eventHub) close(id string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.channels, id)
}

func (h *eventHub) subscribe(channelID, resource, resourceID string, on bool) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	ch, ok := h.channels[channelID]
	if !ok {
		return false
	}
	key := resource + ":" + resourceID
	if on {
		ch.subscriptions[key] = true
	} else {
		delete(ch.subscriptions, key)
	}
	return true
}

// broadcast delivers an event to every channel watching the resource. Slow
// consumers drop events rather than block a handler.
func (h *eventHub) broadcast(resource, resourceID string, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		return
	}
	event := sseEvent{name: resource + ":" + resourceID, data: data}

	h.mu.Lock()
	defer h.mu.Unlock()
	for _, ch := range h.channels {
		if !ch.subscriptions[event.name] {
			continue
		}
		select {
		case ch.events <- event:
		default:
		}
	}
}

func (s *Server) mountListenRoutes(r chi.Router) {
	r.Route("/listen", func(r chi.Router) {
		r.Post("/", s.handleOpenChannel)
		r.Get("/{channel}", s.handleStreamChannel)
		r.Put("/{channel}/{resource}/{rid}", s.handleSubscribe)
		r.Delete("/{channel}/{resource}/{rid}", s.handleUnsubscribe)
	})
}

func (s *Server) handleOpenChannel(w http.ResponseWriter, r *http.Request) {
	ch := s.hub.open()
	sendJSON(w, http.StatusOK, map[string]string{"channel_id": ch.id})
}

func (s *Server) handleStreamChannel(w http.ResponseWriter, r *http.Request) {
	ch, ok := s.hub.get(chi.URLParam(r, "channel"))
	if !ok {
		sendError(w, http.StatusNotFound, "no such channel")
		return
	}
	flusher, ok := w.(http.Flusher)
	if !ok {
		sendError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	defer s.hub.close(ch.id)
	for {
		select {
		case <-r.Context().Done():
			return
		case event := <-ch.events:
			fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event.name, event.data)
			flusher.Flush()
		}
	}
}

func validWatchResource(resource string) bool {
	switch resource {
	case "corpus", "medium", "layer", "queue":
		return true
	}
	return false
}

func (s *Server) handleSubscribe(w http.ResponseWriter, r *http.Request) {
	s.updateSubscription(w, r, true)
}

func (s *Server) handleUnsubscribe(w http.ResponseWriter, r *http.Request) {
	s.updateSubscription(w, r, false)
}

func (s *Server) updateSubscription(w http.ResponseWriter, r *http.Request, on bool) {
	resource := chi.URLParam(r, "resource")
	if !validWatchResource(resource) {
		sendError(w, http.StatusBadRequest, "invalid resource kind")
		return
	}
	if !s.hub.subscribe(chi.URLParam(r, "channel"), resource, chi.URLParam(r, "rid"), on) {
		sendError(w, http.StatusNotFound, "no such channel")
		return
	}
	sendJSON(w, http.StatusOK, map[string]string{"success": "Subscription updated."})
}
