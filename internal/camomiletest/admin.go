package camomiletest

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
)

// isAdmin reports whether the session user has the admin role.
func isAdmin(r *http.Request) bool {
	role, _ := sessionUser(r)["role"].(string)
	return role == "admin"
}

func (s *Server) mountUserRoutes(r chi.Router) {
	r.Route("/user", func(r chi.Router) {
		r.Post("/", s.handleCreateUser)
		r.Get("/", s.handleListUsers)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.handleGetUser)
			r.Put("/", s.handleUpdateUser)
			r.Delete("/", s.handleDeleteUser)
			r.Get("/group", s.handleUserGroups)
		})
	})
}

func (s *Server) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	if !isAdmin(r) {
		sendError(w, http.StatusForbidden, "admin role required")
		return
	}
	var body document
	if !readJSON(w, r, &body) {
		return
	}
	username, _ := body["username"].(string)
	password, _ := body["password"].(string)
	role, _ := body["role"].(string)
	if username == "" || password == "" {
		sendError(w, http.StatusBadRequest, "username and password are required")
		return
	}
	if role != "user" && role != "admin" {
		sendError(w, http.StatusBadRequest, "invalid role")
		return
	}

	s.store.mu.Lock()
	if _, exists := s.store.accounts[username]; exists {
		s.store.mu.Unlock()
		sendError(w, http.StatusConflict, "username already exists")
		return
	}
	doc := document{"_id": newID(), "username": username, "role": role}
	if desc, ok := body["description"]; ok {
		doc["description"] = desc
	}
	s.store.accounts[username] = &account{doc: doc, password: password}
	response := doc.clone()
	s.store.mu.Unlock()

	sendJSON(w, http.StatusCreated, response)
}

func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	s.store.mu.Lock()
	users := []document{}
	for _, acct := range s.store.accounts {
		users = append(users, acct.doc.clone())
	}
	s.store.mu.Unlock()
	sendJSON(w, http.StatusOK, users)
}

func (s *Server) accountOr404(w http.ResponseWriter, r *http.Request) (*account, bool) {
	id := chi.URLParam(r, "id")
	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	for _, acct := range s.store.accounts {
		if acct.doc.id() == id {
			return acct, true
		}
	}
	sendError(w, http.StatusNotFound, "no such user")
	return nil, false
}

func (s *Server) handleGetUser(w http.ResponseWriter, r *http.Request) {
	acct, ok := s.accountOr404(w, r)
	if !ok {
		return
	}
	s.store.mu.Lock()
	response := acct.doc.clone()
	s.store.mu.Unlock()
	sendJSON(w, http.StatusOK, response)
}

func (s *Server) handleUpdateUser(w http.ResponseWriter, r *http.Request) {
	if !isAdmin(r) {
		sendError(w, http.StatusForbidden, "admin role required")
		return
	}
	acct, ok := s.accountOr404(w, r)
	if !ok {
		return
	}
	var body document
	if !readJSON(w, r, &body) {
		return
	}

	s.store.mu.Lock()
	if password, ok := body["password"].(string); ok && password != "" {
		acct.password = password
	}
	if role, ok := body["role"].(string); ok && role != "" {
		acct.doc["role"] = role
	}
	if desc, ok := body["description"]; ok {
		acct.doc["description"] = desc
	}
	doc := acct.doc.clone()
	s.store.mu.Unlock()

	sendJSON(w, http.StatusOK, doc)
}

func (s *Server) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	if !isAdmin(r) {
		sendError(w, http.StatusForbidden, "admin role required")
		return
	}
	acct, ok := s.accountOr404(w, r)
	if !ok {
		return
	}
	s.store.mu.Lock()
	userID := acct.doc.id()
	username, _ := acct.doc["username"].(string)
	delete(s.store.accounts, username)
	for token, id := range s.store.sessions {
		if id == userID {
			delete(s.store.sessions, token)
		}
	}
	for _, group := range s.store.groups {
		removeGroupMember(group, userID)
	}
	s.store.mu.Unlock()

	sendJSON(w, http.StatusOK, map[string]string{"success": "User deleted."})
}

func (s *Server) handleUserGroups(w http.ResponseWriter, r *http.Request) {
	acct, ok := s.accountOr404(w, r)
	if !ok {
		return
	}
	s.store.mu.Lock()
	userID := acct.doc.id()
	s.store.mu.Unlock()
	s.sendGroupsOfUser(w, userID)
}

// sendGroupsOfUser answers with every group that lists the user as a member.
func (s *Server) sendGroupsOfUser(w http.ResponseWriter, userID string) {
	s.store.mu.Lock()
	groups := []document{}
	for _, group := range s.store.groups {
		if groupHasMember(group, userID) {
			groups = append(groups, group.clone())
		}
	}
	s.store.mu.Unlock()
	sendJSON(w, http.StatusOK, groups)
}

func groupMembers(group document) []any {
	members, _ := group["users"].([]any)
	return members
}

func groupHasMember(group document, userID string) bool {
	for _, member := range groupMembers(group) {
		if member == userID {
			return true
		}
	}
	return false
}

func removeGroupMember(group document, userID string) {
	members := groupMembers(group)
	kept := members[:0]
	for _, member := range members {
		if member != userID {
			kept = append(kept, member)
		}
	}
	group["users"] = kept
}

func (s *Server) mountGroupRoutes(r chi.Router) {
	r.Route("/group", func(r chi.Router) {
		r.Post("/", s.handleCreateGroup)
		r.Get("/", s.handleListGroups)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.handleGetGroup)
			r.Put("/", s.handleUpdateGroup)
			r.Delete("/", s.handleDeleteGroup)
			r.Put("/user/{uid}", s.handleAddGroupMember)
			r.Delete("/user/{uid}", s.handleRemoveGroupMember)
		})
	})
}

func (s *Server) handleCreateGroup(w http.ResponseWriter, r *http.Request) {
	if !isAdmin(r) {
		sendError(w, http.StatusForbidden, "admin role required")
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
	for _, g := range s.store.groups {
		if g["name"] == name {
			s.store.mu.Unlock()
			sendError(w, http.StatusConflict, "group name already exists")
			return
		}
	}
	doc := document{"_id": newID(), "name": name, "users": []any{}}
	if desc, ok := body["description"]; ok {
		doc["description"] = desc
	}
	s.store.groups[doc.id()] = doc
	response := doc.clone()
	s.store.mu.Unlock()

	sendJSON(w, http.StatusCreated, response)
}

func (s *Server) handleListGroups(w http.ResponseWriter, r *http.Request) {
	s.store.mu.Lock()
	groups := []document{}
	for _, doc := range s.store.groups {
		groups = append(groups, doc.clone())
	}
	s.store.mu.Unlock()
	sendJSON(w, http.StatusOK, groups)
}

func (s *Server) groupOr404(w http.ResponseWriter, r *http.Request) (document, bool) {
	s.store.mu.Lock()
	doc, ok := s.store.groups[chi.URLParam(r, "id")]
	s.store.mu.Unlock()
	if !ok {
		sendError(w, http.StatusNotFound, "no such group")
		return nil, false
	}
	return doc, true
}

func (s *Server) handleGetGroup(w http.ResponseWriter, r *http.Request) {
	doc, ok := s.groupOr404(w, r)
	if !ok {
		return
	}
	s.store.mu.Lock()
	response := doc.clone()
	s.store.mu.Unlock()
	sendJSON(w, http.StatusOK, response)
}

func (s *Server) handleUpdateGroup(w http.ResponseWriter, r *http.Request) {
	if !isAdmin(r) {
		sendError(w, http.StatusForbidden, "admin role required")
		return
	}
	doc, ok := s.groupOr404(w, r)
	if !ok {
		return
	}
	var body document
	if !readJSON(w, r, &body) {
		return
	}
	s.store.mu.Lock()
	for _, field := range []string{"name", "description"} {
		if v, ok := body[field]; ok {
			doc[field] = v
		}
	}
	response := doc.clone()
	s.store.mu.Unlock()
	sendJSON(w, http.StatusOK, response)
}

func (s *Server) handleDeleteGroup(w http.ResponseWriter, r *http.Request) {
	if !isAdmin(r) {
		sendError(w, http.StatusForbidden, "admin role required")
		return
	}
	doc, ok := s.groupOr404(w, r)
	if !ok {
		return
	}
	s.store.mu.Lock()
	delete(s.store.groups, doc.id())
	for _, perms := range s.store.corpusPerms {
		delete(perms.groups, doc.id())
	}
	for _, perms := range s.store.layerPerms {
		delete(perms.groups, doc.id())
	}
	s.store.mu.Unlock()
	sendJSON(w, http.StatusOK, map[string]string{"success": "Group deleted."})
}

func (s *Server) handleAddGroupMember(w http.ResponseWriter, r *http.Request) {
	doc, ok := s.groupOr404(w, r)
	if !ok {
		return
	}
	userID := chi.URLParam(r, "uid")

	s.store.mu.Lock()
	found := false
	for _, acct := range s.store.accounts {
		if acct.doc.id() == userID {
			found = true
			break
		}
	}
	if !found {
		s.store.mu.Unlock()
		sendError(w, http.StatusNotFound, "no such user")
		return
	}
	if !groupHasMember(doc, userID) {
		doc["users"] = append(groupMembers(doc), userID)
	}
	response := doc.clone()
	s.store.mu.Unlock()

	sendJSON(w, http.StatusOK, response)
}

func (s *Server) handleRemoveGroupMember(w http.ResponseWriter, r *http.Request) {
	doc, ok := s.groupOr404(w, r)
	if !ok {
		return
	}
	s.store.mu.Lock()
	removeGroupMember(doc, chi.URLParam(r, "uid"))
	response := doc.clone()
	s.store.mu.Unlock()
	sendJSON(w, http.StatusOK, response)
}

// permissionRoutes serves the permission handlers for one resource kind.
type permissionRoutes struct {
	s        *Server
	resource string
}

func (s *Server) permissionsHandler(resource string) permissionRoutes {
	return permissionRoutes{s: s, resource: resource}
}

func (p permissionRoutes) table(id string) (*permissions, bool) {
	switch p.resource {
	case "corpus":
		perms, ok := p.s.store.corpusPerms[id]
		return perms, ok
	case "layer":
		perms, ok := p.s.store.layerPerms[id]
		return perms, ok
	}
	return nil, false
}

func (p permissionRoutes) resolve(w http.ResponseWriter, r *http.Request) (*permissions, bool) {
	p.s.store.mu.Lock()
	perms, ok := p.table(chi.URLParam(r, "id"))
	p.s.store.mu.Unlock()
	if !ok {
		sendError(w, http.StatusNotFound, "no such "+p.resource)
		return nil, false
	}
	return perms, true
}

func (p permissionRoutes) render(perms *permissions) document {
	users := map[string]int{}
	groups := map[string]int{}
	p.s.store.mu.Lock()
	for id, right := range perms.users {
		users[id] = right
	}
	for id, right := range perms.groups {
		groups[id] = right
	}
	p.s.store.mu.Unlock()
	return document{"users": users, "groups": groups}
}

func (p permissionRoutes) get(w http.ResponseWriter, r *http.Request) {
	perms, ok := p.resolve(w, r)
	if !ok {
		return
	}
	sendJSON(w, http.StatusOK, p.render(perms))
}

func (p permissionRoutes) set(w http.ResponseWriter, r *http.Request, principal string) {
	perms, ok := p.resolve(w, r)
	if !ok {
		return
	}
	var body struct {
		Right int `json:"right"`
	}
	if !readJSON(w, r, &body) {
		return
	}
	if body.Right < 1 || body.Right > 3 {
		sendError(w, http.StatusBadRequest, "invalid right")
		return
	}

	p.s.store.mu.Lock()
	if principal == "user" {
		perms.users[chi.URLParam(r, "principal")] = body.Right
	} else {
		perms.groups[chi.URLParam(r, "principal")] = body.Right
	}
	p.s.store.mu.Unlock()

	sendJSON(w, http.StatusOK, p.render(perms))
}

func (p permissionRoutes) remove(w http.ResponseWriter, r *http.Request, principal string) {
	perms, ok := p.resolve(w, r)
	if !ok {
		return
	}
	p.s.store.mu.Lock()
	if principal == "user" {
		delete(perms.users, chi.URLParam(r, "principal"))
	} else {
		delete(perms.groups, chi.URLParam(r, "principal"))
	}
	p.s.store.mu.Unlock()

	sendJSON(w, http.StatusOK, p.render(perms))
}

func (p permissionRoutes) setUser(w http.ResponseWriter, r *http.Request) {
	p.set(w, r, "user")
}

func (p permissionRoutes) removeUser(w http.ResponseWriter, r *http.Request) {
	p.remove(w, r, "user")
}

func (p permissionRoutes) setGroup(w http.ResponseWriter, r *http.Request) {
	p.set(w, r, "group")
}

func (p permissionRoutes) removeGroup(w http.ResponseWriter, r *http.Request) {
	p.remove(w, r, "group")
}

// mountMetadataRoutes adds the metadata tree routes under an already resolved
// resource route.
func (s *Server) mountMetadataRoutes(r chi.Router, resource string) {
	h := metadataRoutes{s: s, resource: resource}
	r.Get("/metadata", h.get)
	r.Get("/metadata/*", h.get)
	r.Post("/metadata", h.merge)
	r.Delete("/metadata/*", h.remove)
}

type metadataRoutes struct {
	s        *Server
	resource string
}

func (m metadataRoutes) treeKey(r *http.Request) string {
	return m.resource + "/" + chi.URLParam(r, "id")
}

func (m metadataRoutes) exists(r *http.Request) bool {
	id := chi.URLParam(r, "id")
	switch m.resource {
	case "corpus":
		_, ok := m.s.store.corpora[id]
		return ok
	case "medium":
		_, ok := m.s.store.media[id]
		return ok
	case "layer":
		_, ok := m.s.store.layers[id]
		return ok
	}
	return false
}

// cloneTree deep-copies a metadata node so responses never reference the
// stored tree, which mergeTree mutates in place.
func cloneTree(v any) any {
	switch node := v.(type) {
	case map[string]any:
		cp := make(map[string]any, len(node))
		for k, val := range node {
			cp[k] = cloneTree(val)
		}
		return cp
	case []any:
		cp := make([]any, len(node))
		for i, val := range node {
			cp[i] = cloneTree(val)
		}
		return cp
	default:
		return v
	}
}

// descend walks the metadata tree along a dot-free slash path.
func descend(tree map[string]any, segments []string) (any, bool) {
	var node any = tree
	for _, segment := range segments {
		m, ok := node.(map[string]any)
		if !ok {
			return nil, false
		}
		node, ok = m[segment]
		if !ok {
			return nil, false
		}
	}
	return node, true
}

// metadataSegments parses the wildcard tail. Key paths may use "/" or "."
// as separators; a trailing "." segment asks for the child key names.
func metadataSegments(r *http.Request) (segments []string, listKeys bool) {
	raw := strings.Trim(chi.URLParam(r, "*"), "/")
	if raw == "." {
		return nil, true
	}
	if strings.HasSuffix(raw, "/.") {
		listKeys = true
		raw = strings.TrimSuffix(raw, "/.")
	}
	if raw == "" {
		return nil, listKeys
	}
	segments = strings.FieldsFunc(raw, func(c rune) bool {
		return c == '/' || c == '.'
	})
	return segments, listKeys
}

func (m metadataRoutes) get(w http.ResponseWriter, r *http.Request) {
	m.s.store.mu.Lock()
	if !m.exists(r) {
		m.s.store.mu.Unlock()
		sendError(w, http.StatusNotFound, "no such "+m.resource)
		return
	}
	tree := m.s.store.metadata[m.treeKey(r)]
	segments, listKeys := metadataSegments(r)

	node, ok := descend(tree, segments)
	if !ok {
		m.s.store.mu.Unlock()
		sendError(w, http.StatusNotFound, "no such metadata key")
		return
	}
	if listKeys {
		keys := []string{}
		if sub, ok := node.(map[string]any); ok {
			for k := range sub {
				keys = append(keys, k)
			}
		}
		m.s.store.mu.Unlock()
		sendJSON(w, http.StatusOK, keys)
		return
	}
	response := cloneTree(node)
	m.s.store.mu.Unlock()
	sendJSON(w, http.StatusOK, response)
}

// mergeTree merges src into dst recursively, replacing scalar values.
func mergeTree(dst, src map[string]any) {
	for k, v := range src {
		if sub, ok := v.(map[string]any); ok {
			if existing, ok := dst[k].(map[string]any); ok {
				mergeTree(existing, sub)
				continue
			}
		}
		dst[k] = v
	}
}

func (m metadataRoutes) merge(w http.ResponseWriter, r *http.Request) {
	var body map[string]any
	if !readJSON(w, r, &body) {
		return
	}
	m.s.store.mu.Lock()
	if !m.exists(r) {
		m.s.store.mu.Unlock()
		sendError(w, http.StatusNotFound, "no such "+m.resource)
		return
	}
	key := m.treeKey(r)
	tree := m.s.store.metadata[key]
	if tree == nil {
		tree = map[string]any{}
		m.s.store.metadata[key] = tree
	}
	mergeTree(tree, body)
	m.s.store.mu.Unlock()

	m.s.hub.broadcast(m.resource, chi.URLParam(r, "id"), map[string]any{"event": "metadata"})
	sendJSON(w, http.StatusOK, map[string]string{"success": "Metadata updated."})
}

func (m metadataRoutes) remove(w http.ResponseWriter, r *http.Request) {
	segments, _ := metadataSegments(r)
	if len(segments) == 0 {
		sendError(w, http.StatusBadRequest, "metadata key required")
		return
	}

	m.s.store.mu.Lock()
	if !m.exists(r) {
		m.s.store.mu.Unlock()
		sendError(w, http.StatusNotFound, "no such "+m.resource)
		return
	}
	tree := m.s.store.metadata[m.treeKey(r)]
	parent, ok := descend(tree, segments[:len(segments)-1])
	if ok {
		if node, isMap := parent.(map[string]any); isMap {
			delete(node, segments[len(segments)-1])
		}
	}
	m.s.store.mu.Unlock()

	sendJSON(w, http.StatusOK, map[string]string{"success": "Metadata deleted."})
}
