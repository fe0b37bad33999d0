package camomiletest

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// withHistory snapshots a stored document, attaching the recorded history
// when the request asks for it. Callers hold the store mutex; the snapshot is
// what leaves the lock, never the stored map itself.
func (s *Server) withHistory(r *http.Request, doc document) document {
	cp := doc.clone()
	if r.URL.Query().Get("history") != "on" {
		return cp
	}
	events := s.store.history[doc.id()]
	history := make([]document, len(events))
	copy(history, events)
	cp["history"] = history
	return cp
}

func (s *Server) mountCorpusRoutes(r chi.Router) {
	r.Route("/corpus", func(r chi.Router) {
		r.Post("/", s.handleCreateCorpus)
		r.Get("/", s.handleListCorpora)
		r.Get("/count", s.handleCountCorpora)

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.handleGetCorpus)
			r.Put("/", s.handleUpdateCorpus)
			r.Delete("/", s.handleDeleteCorpus)

			r.Post("/medium", s.handleAddMedia)
			r.Get("/medium", s.handleListMedia)
			r.Get("/medium/count", s.handleCountMedia)

			r.Post("/layer", s.handleAddLayer)
			r.Get("/layer", s.handleListLayers)
			r.Get("/layer/count", s.handleCountLayers)

			r.Get("/permissions", s.permissionsHandler("corpus").get)
			r.Put("/user/{principal}", s.permissionsHandler("corpus").setUser)
			r.Delete("/user/{principal}", s.permissionsHandler("corpus").removeUser)
			r.Put("/group/{principal}", s.permissionsHandler("corpus").setGroup)
			r.Delete("/group/{principal}", s.permissionsHandler("corpus").removeGroup)

			s.mountMetadataRoutes(r, "corpus")
		})
	})
}

func (s *Server) handleCreateCorpus(w http.ResponseWriter, r *http.Request) {
	var body document
	if !readJSON(w, r, &body) {
		return
	}
	name, _ := body["name"].(string)
	if name == "" {
		sendError(w, http.StatusBadRequest, "invalid name")
		return
	}

	s.store.mu.Lock()
	for _, c := range s.store.corpora {
		if c["name"] == name {
			s.store.mu.Unlock()
			sendError(w, http.StatusConflict, "corpus name already exists")
			return
		}
	}
	doc := document{"_id": newID(), "name": name}
	if desc, ok := body["description"]; ok {
		doc["description"] = desc
	}
	s.store.corpora[doc.id()] = doc
	s.store.corpusPerms[doc.id()] = newPermissions()
	s.store.corpusPerms[doc.id()].users[sessionUser(r).id()] = 3
	response := doc.clone()
	s.store.mu.Unlock()

	sendJSON(w, http.StatusCreated, response)
}

func (s *Server) handleListCorpora(w http.ResponseWriter, r *http.Request) {
	s.store.mu.Lock()
	corpora := []document{}
	for _, doc := range s.store.corpora {
		corpora = append(corpora, s.withHistory(r, doc))
	}
	s.store.mu.Unlock()
	sendJSON(w, http.StatusOK, corpora)
}

func (s *Server) handleCountCorpora(w http.ResponseWriter, r *http.Request) {
	s.store.mu.Lock()
	n := len(s.store.corpora)
	s.store.mu.Unlock()
	sendJSON(w, http.StatusOK, n)
}

func (s *Server) corpusOr404(w http.ResponseWriter, r *http.Request) (document, bool) {
	s.store.mu.Lock()
	doc, ok := s.store.corpora[chi.URLParam(r, "id")]
	s.store.mu.Unlock()
	if !ok {
		sendError(w, http.StatusNotFound, "no such corpus")
		return nil, false
	}
	return doc, true
}

func (s *Server) handleGetCorpus(w http.ResponseWriter, r *http.Request) {
	doc, ok := s.corpusOr404(w, r)
	if !ok {
		return
	}
	s.store.mu.Lock()
	response := s.withHistory(r, doc)
	s.store.mu.Unlock()
	sendJSON(w, http.StatusOK, response)
}

func (s *Server) handleUpdateCorpus(w http.ResponseWriter, r *http.Request) {
	doc, ok := s.corpusOr404(w, r)
	if !ok {
		return
	}
	var body document
	if !readJSON(w, r, &body) {
		return
	}

	s.store.mu.Lock()
	changes := map[string]any{}
	for _, field := range []string{"name", "description"} {
		if v, ok := body[field]; ok {
			doc[field] = v
			changes[field] = v
		}
	}
	s.store.recordHistory(doc.id(), sessionUser(r).id(), changes)
	response := doc.clone()
	s.store.mu.Unlock()

	s.hub.broadcast("corpus", response.id(), map[string]any{"event": "update", "corpus": response})
	sendJSON(w, http.StatusOK, response)
}

func (s *Server) handleDeleteCorpus(w http.ResponseWriter, r *http.Request) {
	doc, ok := s.corpusOr404(w, r)
	if !ok {
		return
	}

	s.store.mu.Lock()
	corpusID := doc.id()
	delete(s.store.corpora, corpusID)
	delete(s.store.corpusPerms, corpusID)
	for id, m := range s.store.media {
		if m["id_corpus"] == corpusID {
			delete(s.store.media, id)
		}
	}
	for id, l := range s.store.layers {
		if l["id_corpus"] == corpusID {
			for aid, a := range s.store.annotations {
				if a["id_layer"] == id {
					delete(s.store.annotations, aid)
				}
			}
			delete(s.store.layers, id)
			delete(s.store.layerPerms, id)
		}
	}
	s.store.mu.Unlock()

	s.hub.broadcast("corpus", corpusID, map[string]any{"event": "delete"})
	sendJSON(w, http.StatusOK, map[string]string{"success": "Corpus deleted."})
}

func (s *Server) mountMediumRoutes(r chi.Router) {
	r.Route("/medium/{id}", func(r chi.Router) {
		r.Get("/", s.handleGetMedium)
		r.Put("/", s.handleUpdateMedium)
		r.Delete("/", s.handleDeleteMedium)
		r.Get("/{format}", s.handleStreamMedium)
		s.mountMetadataRoutes(r, "medium")
	})
}

func (s *Server) handleAddMedia(w http.ResponseWriter, r *http.Request) {
	corpus, ok := s.corpusOr404(w, r)
	if !ok {
		return
	}
	var body any
	if !readJSON(w, r, &body) {
		return
	}

	makeMedium := func(corpusID string, fields map[string]any) (document, bool) {
		name, _ := fields["name"].(string)
		if name == "" {
			return nil, false
		}
		doc := document{"_id": newID(), "id_corpus": corpusID, "name": name}
		for _, field := range []string{"url", "description"} {
			if v, ok := fields[field]; ok {
				doc[field] = v
			}
		}
		return doc, true
	}

	switch v := body.(type) {
	case []any:
		created := []document{}
		s.store.mu.Lock()
		corpusID := corpus.id()
		for _, item := range v {
			fields, _ := item.(map[string]any)
			doc, ok := makeMedium(corpusID, fields)
			if !ok {
				s.store.mu.Unlock()
				sendError(w, http.StatusBadRequest, "invalid name")
				return
			}
			s.store.media[doc.id()] = doc
			created = append(created, doc.clone())
		}
		s.store.mu.Unlock()
		s.hub.broadcast("corpus", corpusID, map[string]any{"event": "add_medium"})
		sendJSON(w, http.StatusCreated, created)
	case map[string]any:
		s.store.mu.Lock()
		corpusID := corpus.id()
		doc, ok := makeMedium(corpusID, v)
		if !ok {
			s.store.mu.Unlock()
			sendError(w, http.StatusBadRequest, "invalid name")
			return
		}
		s.store.media[doc.id()] = doc
		response := doc.clone()
		s.store.mu.Unlock()
		s.hub.broadcast("corpus", corpusID, map[string]any{"event": "add_medium", "medium": response})
		sendJSON(w, http.StatusCreated, response)
	default:
		sendError(w, http.StatusBadRequest, "invalid body")
	}
}

func (s *Server) handleListMedia(w http.ResponseWriter, r *http.Request) {
	corpus, ok := s.corpusOr404(w, r)
	if !ok {
		return
	}
	s.store.mu.Lock()
	media := []document{}
	for _, doc := range s.store.media {
		if doc["id_corpus"] == corpus.id() {
			media = append(media, s.withHistory(r, doc))
		}
	}
	s.store.mu.Unlock()
	sendJSON(w, http.StatusOK, media)
}

func (s *Server) handleCountMedia(w http.ResponseWriter, r *http.Request) {
	corpus, ok := s.corpusOr404(w, r)
	if !ok {
		return
	}
	s.store.mu.Lock()
	n := 0
	for _, doc := range s.store.media {
		if doc["id_corpus"] == corpus.id() {
			n++
		}
	}
	s.store.mu.Unlock()
	sendJSON(w, http.StatusOK, n)
}

func (s *Server) mediumOr404(w http.ResponseWriter, r *http.Request) (document, bool) {
	s.store.mu.Lock()
	doc, ok := s.store.media[chi.URLParam(r, "id")]
	s.store.mu.Unlock()
	if !ok {
		sendError(w, http.StatusNotFound, "no such medium")
		return nil, false
	}
	return doc, true
}

func (s *Server) handleGetMedium(w http.ResponseWriter, r *http.Request) {
	doc, ok := s.mediumOr404(w, r)
	if !ok {
		return
	}
	s.store.mu.Lock()
	response := s.withHistory(r, doc)
	s.store.mu.Unlock()
	sendJSON(w, http.StatusOK, response)
}

func (s *Server) handleUpdateMedium(w http.ResponseWriter, r *http.Request) {
	doc, ok := s.mediumOr404(w, r)
	if !ok {
		return
	}
	var body document
	if !readJSON(w, r, &body) {
		return
	}

	s.store.mu.Lock()
	changes := map[string]any{}
	for _, field := range []string{"name", "url", "description"} {
		if v, ok := body[field]; ok {
			doc[field] = v
			changes[field] = v
		}
	}
	s.store.recordHistory(doc.id(), sessionUser(r).id(), changes)
	response := doc.clone()
	s.store.mu.Unlock()

	s.hub.broadcast("medium", response.id(), map[string]any{"event": "update", "medium": response})
	sendJSON(w, http.StatusOK, response)
}

func (s *Server) handleDeleteMedium(w http.ResponseWriter, r *http.Request) {
	doc, ok := s.mediumOr404(w, r)
	if !ok {
		return
	}
	s.store.mu.Lock()
	mediumID := doc.id()
	delete(s.store.media, mediumID)
	s.store.mu.Unlock()
	s.hub.broadcast("medium", mediumID, map[string]any{"event": "delete"})
	sendJSON(w, http.StatusOK, map[string]string{"success": "Medium deleted."})
}

func (s *Server) handleStreamMedium(w http.ResponseWriter, r *http.Request) {
	doc, ok := s.mediumOr404(w, r)
	if !ok {
		return
	}
	format := chi.URLParam(r, "format")
	switch format {
	case "video", "webm", "mp4", "ogv":
	default:
		sendError(w, http.StatusNotFound, "no such format")
		return
	}
	// The mock has no real media; it streams a recognizable placeholder.
	w.Header().Set("Content-Type", "application/octet-stream")
	s.store.mu.Lock()
	name, _ := doc["name"].(string)
	s.store.mu.Unlock()
	w.Write([]byte(format + ":" + name))
}

func (s *Server) mountLayerRoutes(r chi.Router) {
	r.Route("/layer/{id}", func(r chi.Router) {
		r.Get("/", s.handleGetLayer)
		r.Put("/", s.handleUpdateLayer)
		r.Delete("/", s.handleDeleteLayer)

		r.Post("/annotation", s.handleAddAnnotations)
		r.Get("/annotation", s.handleListAnnotations)
		r.Get("/annotation/count", s.handleCountAnnotations)

		r.Get("/permissions", s.permissionsHandler("layer").get)
		r.Put("/user/{principal}", s.permissionsHandler("layer").setUser)
		r.Delete("/user/{principal}", s.permissionsHandler("layer").removeUser)
		r.Put("/group/{principal}", s.permissionsHandler("layer").setGroup)
		r.Delete("/group/{principal}", s.permissionsHandler("layer").removeGroup)

		s.mountMetadataRoutes(r, "layer")
	})
}

func (s *Server) handleAddLayer(w http.ResponseWriter, r *http.Request) {
	corpus, ok := s.corpusOr404(w, r)
	if !ok {
		return
	}
	var body document
	if !readJSON(w, r, &body) {
		return
	}
	name, _ := body["name"].(string)
	if name == "" {
		sendError(w, http.StatusBadRequest, "invalid name")
		return
	}

	s.store.mu.Lock()
	doc := document{"_id": newID(), "id_corpus": corpus.id(), "name": name}
	for _, field := range []string{"fragment_type", "data_type", "description"} {
		if v, ok := body[field]; ok {
			doc[field] = v
		}
	}
	s.store.layers[doc.id()] = doc
	s.store.layerPerms[doc.id()] = newPermissions()
	s.store.layerPerms[doc.id()].users[sessionUser(r).id()] = 3

	// bulk annotations created with the layer show up in the create response
	// but are not stored on the layer document itself
	response := doc.clone()
	if annotations, ok := body["annotations"].([]any); ok {
		created := []document{}
		for _, item := range annotations {
			fields, _ := item.(map[string]any)
			a := document{"_id": newID(), "id_layer": doc.id()}
			for _, field := range []string{"id_medium", "fragment", "data"} {
				if v, ok := fields[field]; ok {
					a[field] = v
				}
			}
			s.store.annotations[a.id()] = a
			created = append(created, a.clone())
		}
		response["annotations"] = created
	}
	corpusID := corpus.id()
	s.store.mu.Unlock()

	s.hub.broadcast("corpus", corpusID, map[string]any{"event": "add_layer", "layer": response})
	sendJSON(w, http.StatusCreated, response)
}

func (s *Server) handleListLayers(w http.ResponseWriter, r *http.Request) {
	corpus, ok := s.corpusOr404(w, r)
	if !ok {
		return
	}
	s.store.mu.Lock()
	layers := []document{}
	for _, doc := range s.store.layers {
		if doc["id_corpus"] == corpus.id() {
			layers = append(layers, s.withHistory(r, doc))
		}
	}
	s.store.mu.Unlock()
	sendJSON(w, http.StatusOK, layers)
}

func (s *Server) handleCountLayers(w http.ResponseWriter, r *http.Request) {
	corpus, ok := s.corpusOr404(w, r)
	if !ok {
		return
	}
	s.store.mu.Lock()
	n := 0
	for _, doc := range s.store.layers {
		if doc["id_corpus"] == corpus.id() {
			n++
		}
	}
	s.store.mu.Unlock()
	sendJSON(w, http.StatusOK, n)
}

func (s *Server) layerOr404(w http.ResponseWriter, r *http.Request) (document, bool) {
	s.store.mu.Lock()
	doc, ok := s.store.layers[chi.URLParam(r, "id")]
	s.store.mu.Unlock()
	if !ok {
		sendError(w, http.StatusNotFound, "no such layer")
		return nil, false
	}
	return doc, true
}

func (s *Server) handleGetLayer(w http.ResponseWriter, r *http.Request) {
	doc, ok := s.layerOr404(w, r)
	if !ok {
		return
	}
	s.store.mu.Lock()
	response := s.withHistory(r, doc)
	s.store.mu.Unlock()
	sendJSON(w, http.StatusOK, response)
}

func (s *Server) handleUpdateLayer(w http.ResponseWriter, r *http.Request) {
	doc, ok := s.layerOr404(w, r)
	if !ok {
		return
	}
	var body document
	if !readJSON(w, r, &body) {
		return
	}

	s.store.mu.Lock()
	changes := map[string]any{}
	for _, field := range []string{"name", "fragment_type", "data_type", "description"} {
		if v, ok := body[field]; ok {
			doc[field] = v
			changes[field] = v
		}
	}
	s.store.recordHistory(doc.id(), sessionUser(r).id(), changes)
	response := doc.clone()
	s.store.mu.Unlock()

	s.hub.broadcast("layer", response.id(), map[string]any{"event": "update", "layer": response})
	sendJSON(w, http.StatusOK, response)
}

func (s *Server) handleDeleteLayer(w http.ResponseWriter, r *http.Request) {
	doc, ok := s.layerOr404(w, r)
	if !ok {
		return
	}
	s.store.mu.Lock()
	layerID := doc.id()
	delete(s.store.layers, layerID)
	delete(s.store.layerPerms, layerID)
	for aid, a := range s.store.annotations {
		if a["id_layer"] == layerID {
			delete(s.store.annotations, aid)
		}
	}
	s.store.mu.Unlock()
	s.hub.broadcast("layer", layerID, map[string]any{"event": "delete"})
	sendJSON(w, http.StatusOK, map[string]string{"success": "Layer deleted."})
}

func (s *Server) mountAnnotationRoutes(r chi.Router) {
	r.Route("/annotation/{id}", func(r chi.Router) {
		r.Get("/", s.handleGetAnnotation)
		r.Put("/", s.handleUpdateAnnotation)
		r.Delete("/", s.handleDeleteAnnotation)
	})
}

func (s *Server) handleAddAnnotations(w http.ResponseWriter, r *http.Request) {
	layer, ok := s.layerOr404(w, r)
	if !ok {
		return
	}
	var body any
	if !readJSON(w, r, &body) {
		return
	}

	makeAnnotation := func(layerID string, fields map[string]any) document {
		doc := document{"_id": newID(), "id_layer": layerID}
		for _, field := range []string{"id_medium", "fragment", "data"} {
			if v, ok := fields[field]; ok {
				doc[field] = v
			}
		}
		return doc
	}

	switch v := body.(type) {
	case []any:
		created := []document{}
		s.store.mu.Lock()
		layerID := layer.id()
		for _, item := range v {
			fields, _ := item.(map[string]any)
			doc := makeAnnotation(layerID, fields)
			s.store.annotations[doc.id()] = doc
			created = append(created, doc.clone())
		}
		s.store.mu.Unlock()
		s.hub.broadcast("layer", layerID, map[string]any{"event": "add_annotation"})
		sendJSON(w, http.StatusCreated, created)
	case map[string]any:
		s.store.mu.Lock()
		layerID := layer.id()
		doc := makeAnnotation(layerID, v)
		s.store.annotations[doc.id()] = doc
		response := doc.clone()
		s.store.mu.Unlock()
		s.hub.broadcast("layer", layerID, map[string]any{"event": "add_annotation", "annotation": response})
		sendJSON(w, http.StatusCreated, response)
	default:
		sendError(w, http.StatusBadRequest, "invalid body")
	}
}

func (s *Server) handleListAnnotations(w http.ResponseWriter, r *http.Request) {
	layer, ok := s.layerOr404(w, r)
	if !ok {
		return
	}
	mediumFilter := r.URL.Query().Get("medium")

	s.store.mu.Lock()
	annotations := []document{}
	for _, doc := range s.store.annotations {
		if doc["id_layer"] != layer.id() {
			continue
		}
		if mediumFilter != "" && doc["id_medium"] != mediumFilter {
			continue
		}
		annotations = append(annotations, s.withHistory(r, doc))
	}
	s.store.mu.Unlock()
	sendJSON(w, http.StatusOK, annotations)
}

func (s *Server) handleCountAnnotations(w http.ResponseWriter, r *http.Request) {
	layer, ok := s.layerOr404(w, r)
	if !ok {
		return
	}
	mediumFilter := r.URL.Query().Get("medium")

	s.store.mu.Lock()
	n := 0
	for _, doc := range s.store.annotations {
		if doc["id_layer"] != layer.id() {
			continue
		}
		if mediumFilter != "" && doc["id_medium"] != mediumFilter {
			continue
		}
		n++
	}
	s.store.mu.Unlock()
	sendJSON(w, http.StatusOK, n)
}

func (s *Server) annotationOr404(w http.ResponseWriter, r *http.Request) (document, bool) {
	s.store.mu.Lock()
	doc, ok := s.store.annotations[chi.URLParam(r, "id")]
	s.store.mu.Unlock()
	if !ok {
		sendError(w, http.StatusNotFound, "no such annotation")
		return nil, false
	}
	return doc, true
}

func (s *Server) handleGetAnnotation(w http.ResponseWriter, r *http.Request) {
	doc, ok := s.annotationOr404(w, r)
	if !ok {
		return
	}
	s.store.mu.Lock()
	response := s.withHistory(r, doc)
	s.store.mu.Unlock()
	sendJSON(w, http.StatusOK, response)
}

func (s *Server) handleUpdateAnnotation(w http.ResponseWriter, r *http.Request) {
	doc, ok := s.annotationOr404(w, r)
	if !ok {
		return
	}
	var body document
	if !readJSON(w, r, &body) {
		return
	}

	s.store.mu.Lock()
	changes := map[string]any{}
	for _, field := range []string{"fragment", "data"} {
		if v, ok := body[field]; ok {
			doc[field] = v
			changes[field] = v
		}
	}
	s.store.recordHistory(doc.id(), sessionUser(r).id(), changes)
	response := doc.clone()
	s.store.mu.Unlock()

	sendJSON(w, http.StatusOK, response)
}

func (s *Server) handleDeleteAnnotation(w http.ResponseWriter, r *http.Request) {
	doc, ok := s.annotationOr404(w, r)
	if !ok {
		return
	}
	s.store.mu.Lock()
	delete(s.store.annotations, doc.id())
	s.store.mu.Unlock()
	sendJSON(w, http.StatusOK, map[string]string{"success": "Annotation deleted."})
}

func (s *Server) mountQueueRoutes(r chi.Router) {
	r.Route("/queue", func(r chi.Router) {
		r.Post("/", s.handleCreateQueue)
		r.Get("/", s.handleListQueues)
		r.Get("/count", s.handleCountQueues)

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.handleGetQueue)
			r.Put("/", s.handleUpdateQueue)
			r.Delete("/", s.handleDeleteQueue)
			r.Put("/next", s.handleEnqueue)
			r.Get("/next", s.handlePick)
			r.Get("/all", s.handlePickAll)
			r.Get("/length", s.handlePickLength)
		})
	})
}

func (s *Server) handleCreateQueue(w http.ResponseWriter, r *http.Request) {
	var body document
	if !readJSON(w, r, &body) {
		return
	}
	name, _ := body["name"].(string)
	if name == "" {
		sendError(w, http.StatusBadRequest, "invalid name")
		return
	}

	doc := document{"_id": newID(), "name": name, "list": []any{}}
	for _, field := range []string{"description", "list"} {
		if v, ok := body[field]; ok {
			doc[field] = v
		}
	}
	s.store.mu.Lock()
	s.store.queues[doc.id()] = doc
	response := doc.clone()
	s.store.mu.Unlock()
	sendJSON(w, http.StatusCreated, response)
}

func (s *Server) handleListQueues(w http.ResponseWriter, r *http.Request) {
	s.store.mu.Lock()
	queues := []document{}
	for _, doc := range s.store.queues {
		queues = append(queues, doc.clone())
	}
	s.store.mu.Unlock()
	sendJSON(w, http.StatusOK, queues)
}

func (s *Server) handleCountQueues(w http.ResponseWriter, r *http.Request) {
	s.store.mu.Lock()
	n := len(s.store.queues)
	s.store.mu.Unlock()
	sendJSON(w, http.StatusOK, n)
}

func (s *Server) queueOr404(w http.ResponseWriter, r *http.Request) (document, bool) {
	s.store.mu.Lock()
	doc, ok := s.store.queues[chi.URLParam(r, "id")]
	s.store.mu.Unlock()
	if !ok {
		sendError(w, http.StatusNotFound, "no such queue")
		return nil, false
	}
	return doc, true
}

func (s *Server) handleGetQueue(w http.ResponseWriter, r *http.Request) {
	doc, ok := s.queueOr404(w, r)
	if !ok {
		return
	}
	s.store.mu.Lock()
	response := doc.clone()
	s.store.mu.Unlock()
	sendJSON(w, http.StatusOK, response)
}

func (s *Server) handleUpdateQueue(w http.ResponseWriter, r *http.Request) {
	doc, ok := s.queueOr404(w, r)
	if !ok {
		return
	}
	var body document
	if !readJSON(w, r, &body) {
		return
	}
	s.store.mu.Lock()
	for _, field := range []string{"name", "description", "list"} {
		if v, ok := body[field]; ok {
			doc[field] = v
		}
	}
	response := doc.clone()
	s.store.mu.Unlock()
	s.hub.broadcast("queue", response.id(), map[string]any{"event": "update"})
	sendJSON(w, http.StatusOK, response)
}

func (s *Server) handleDeleteQueue(w http.ResponseWriter, r *http.Request) {
	doc, ok := s.queueOr404(w, r)
	if !ok {
		return
	}
	s.store.mu.Lock()
	queueID := doc.id()
	delete(s.store.queues, queueID)
	s.store.mu.Unlock()
	s.hub.broadcast("queue", queueID, map[string]any{"event": "delete"})
	sendJSON(w, http.StatusOK, map[string]string{"success": "Queue deleted."})
}

func (s *Server) handleEnqueue(w http.ResponseWriter, r *http.Request) {
	doc, ok := s.queueOr404(w, r)
	if !ok {
		return
	}
	var body any
	if !readJSON(w, r, &body) {
		return
	}

	s.store.mu.Lock()
	list, _ := doc["list"].([]any)
	switch v := body.(type) {
	case []any:
		list = append(list, v...)
	default:
		list = append(list, v)
	}
	doc["list"] = list
	response := doc.clone()
	s.store.mu.Unlock()

	s.hub.broadcast("queue", response.id(), map[string]any{"event": "push"})
	sendJSON(w, http.StatusOK, response)
}

func (s *Server) handlePick(w http.ResponseWriter, r *http.Request) {
	doc, ok := s.queueOr404(w, r)
	if !ok {
		return
	}
	s.store.mu.Lock()
	list, _ := doc["list"].([]any)
	if len(list) == 0 {
		s.store.mu.Unlock()
		sendError(w, http.StatusBadRequest, "queue is empty")
		return
	}
	item := list[0]
	doc["list"] = list[1:]
	queueID := doc.id()
	s.store.mu.Unlock()

	s.hub.broadcast("queue", queueID, map[string]any{"event": "pop"})
	sendJSON(w, http.StatusOK, item)
}

func (s *Server) handlePickAll(w http.ResponseWriter, r *http.Request) {
	doc, ok := s.queueOr404(w, r)
	if !ok {
		return
	}
	s.store.mu.Lock()
	list, _ := doc["list"].([]any)
	items := make([]any, len(list))
	copy(items, list)
	s.store.mu.Unlock()
	sendJSON(w, http.StatusOK, items)
}

func (s *Server) handlePickLength(w http.ResponseWriter, r *http.Request) {
	doc, ok := s.queueOr404(w, r)
	if !ok {
		return
	}
	s.store.mu.Lock()
	list, _ := doc["list"].([]any)
	n := len(list)
	s.store.mu.Unlock()
	sendJSON(w, http.StatusOK, n)
}
