package camomiletest

import (
	"sync"

	"github.com/google/uuid"
)

// document is a stored resource. The mock keeps everything as loose maps,
// the same shape the real server serializes.
type document map[string]any

func (d document) id() string {
	id, _ := d["_id"].(string)
	return id
}

func (d document) clone() document {
	cp := make(document, len(d))
	for k, v := range d {
		cp[k] = v
	}
	return cp
}

// account is a seeded user with its password kept aside of the public
// document.
type account struct {
	doc      document
	password string
}

// permissions tracks rights per user and group ID for one resource.
type permissions struct {
	users  map[string]int
	groups map[string]int
}

func newPermissions() *permissions {
	return &permissions{
		users:  map[string]int{},
		groups: map[string]int{},
	}
}

// store is the in-memory state behind the mock server. All access goes
// through the mutex; handlers never hold references across requests.
type store struct {
	mu sync.Mutex

	accounts map[string]*account // keyed by username
	sessions map[string]string   // token -> user ID

	groups      map[string]document
	corpora     map[string]document
	media       map[string]document
	layers      map[string]document
	annotations map[string]document
	queues      map[string]document

	corpusPerms map[string]*permissions
	layerPerms  map[string]*permissions

	metadata map[string]map[string]any // "<resource>/<id>" -> tree
	history  map[string][]document     // resource ID -> events
}

func newStore() *store {
	return &store{
		accounts:    map[string]*account{},
		sessions:    map[string]string{},
		groups:      map[string]document{},
		corpora:     map[string]document{},
		media:       map[string]document{},
		layers:      map[string]document{},
		annotations: map[string]document{},
		queues:      map[string]document{},
		corpusPerms: map[string]*permissions{},
		layerPerms:  map[string]*permissions{},
		metadata:    map[string]map[string]any{},
		history:     map[string][]document{},
	}
}

func newID() string {
	return uuid.NewString()
}

func (s *store) addAccount(username, password, role string) document {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc := document{
		"_id":      newID(),
		"username": username,
		"role":     role,
	}
	s.accounts[username] = &account{doc: doc, password: password}
	return doc.clone()
}

func (s *store) authenticate(username, password string) (document, string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	acct, ok := s.accounts[username]
	if !ok || acct.password != password {
		return nil, "", false
	}
	token := uuid.NewString()
	s.sessions[token] = acct.doc.id()
	return acct.doc.clone(), token, true
}

func (s *store) userForToken(token string) (document, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	userID, ok := s.sessions[token]
	if !ok {
		return nil, false
	}
	for _, acct := range s.accounts {
		if acct.doc.id() == userID {
			return acct.doc.clone(), true
		}
	}
	return nil, false
}

func (s *store) dropSession(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, token)
}

func (s *store) recordHistory(resourceID string, userID string, changes map[string]any) {
	s.history[resourceID] = append(s.history[resourceID], document{
		"id_user": userID,
		"changes": changes,
	})
}
