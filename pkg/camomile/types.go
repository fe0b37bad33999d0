package camomile

import (
	"github.com/mitchellh/mapstructure"
)

// Right is the permission level a user or group holds on a corpus or layer.
type Right int

const (
	RightRead  Right = 1
	RightWrite Right = 2
	RightAdmin Right = 3
)

// Description holds the free-form description document attached to most
// resources. The server stores it verbatim; the client never inspects it.
type Description map[string]any

// Decode maps the description onto out, which must be a pointer to a struct
// or map. Field matching is case-insensitive on field names and honors
// `mapstructure` tags.
func (d Description) Decode(out any) error {
	if err := mapstructure.Decode(map[string]any(d), out); err != nil {
		return ErrSerialization.MsgErr("cannot decode description", err)
	}
	return nil
}

// User is an account on the Camomile server.
type User struct {
	ID          string      `json:"_id"`
	Username    string      `json:"username"`
	Role        string      `json:"role"`
	Description Description `json:"description,omitempty"`
}

// Group is a named set of users.
type Group struct {
	ID          string      `json:"_id"`
	Name        string      `json:"name"`
	Description Description `json:"description,omitempty"`
	Users       []string    `json:"users,omitempty"`
}

// Corpus is a top-level collection of media.
type Corpus struct {
	ID          string      `json:"_id"`
	Name        string      `json:"name"`
	Description Description `json:"description,omitempty"`
	History     []Event     `json:"history,omitempty"`
}

// Medium is a single annotated resource (e.g. an audio or video file) within
// a corpus.
type Medium struct {
	ID          string      `json:"_id"`
	IDCorpus    string      `json:"id_corpus"`
	Name        string      `json:"name"`
	URL         string      `json:"url,omitempty"`
	Description Description `json:"description,omitempty"`
	History     []Event     `json:"history,omitempty"`
}

// Layer is a named set of annotations attached to a corpus.
type Layer struct {
	ID           string       `json:"_id"`
	IDCorpus     string       `json:"id_corpus"`
	Name         string       `json:"name"`
	FragmentType string       `json:"fragment_type"`
	DataType     string       `json:"data_type"`
	Description  Description  `json:"description,omitempty"`
	Annotations  []Annotation `json:"annotations,omitempty"`
	History      []Event      `json:"history,omitempty"`
}

// Annotation is a fragment of structured data attached to a medium via a
// layer. Fragment and Data are free-form documents whose shape is declared by
// the layer's fragment_type and data_type; the client passes them through
// unchanged.
type Annotation struct {
	ID       string  `json:"_id"`
	IDLayer  string  `json:"id_layer"`
	IDMedium string  `json:"id_medium"`
	Fragment any     `json:"fragment"`
	Data     any     `json:"data"`
	History  []Event `json:"history,omitempty"`
}

// Queue is a server-managed work-distribution list of annotation tasks.
type Queue struct {
	ID          string      `json:"_id"`
	Name        string      `json:"name"`
	Description Description `json:"description,omitempty"`
	List        []any       `json:"list,omitempty"`
}

// Permissions lists the rights held on a corpus or layer, keyed by user and
// group ID.
type Permissions struct {
	Users  map[string]Right `json:"users,omitempty"`
	Groups map[string]Right `json:"groups,omitempty"`
}

// Event is one entry of a resource's modification history, returned when a
// read is issued with History set.
type Event struct {
	Date    string         `json:"date,omitempty"`
	IDUser  string         `json:"id_user,omitempty"`
	Changes map[string]any `json:"changes,omitempty"`
}

// ServerInfo is the version document returned by the server.
type ServerInfo struct {
	Version    string `json:"version"`
	APIVersion string `json:"api_version"`
}
