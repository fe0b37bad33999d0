package cli

import (
	"fmt"
	"strings"
)

// resourceRef is a parsed RESOURCE[/ID[/SUBRESOURCE]] argument, the addressing
// scheme shared by the get, update and delete commands.
type resourceRef struct {
	Kind string
	ID   string
	Sub  string
}

// resourceKinds are the addressable resource kinds.
var resourceKinds = map[string]bool{
	"corpus":     true,
	"medium":     true,
	"layer":      true,
	"annotation": true,
	"queue":      true,
	"user":       true,
	"group":      true,
}

// subResources maps a parent kind to the collections listable under it.
var subResources = map[string]map[string]bool{
	"corpus": {"medium": true, "layer": true},
	"layer":  {"annotation": true},
	"user":   {"group": true},
}

// parseResourceRef parses an argument of the form
// <kind>, <kind>/<id> or <kind>/<id>/<subresource>.
func parseResourceRef(arg string) (resourceRef, error) {
	parts := strings.Split(strings.Trim(arg, "/"), "/")

	ref := resourceRef{Kind: parts[0]}
	if !resourceKinds[ref.Kind] {
		return ref, fmt.Errorf("unknown resource kind %q. Expected one of: corpus, medium, layer, annotation, queue, user, group", ref.Kind)
	}

	switch len(parts) {
	case 1:
		return ref, nil
	case 2:
		ref.ID = parts[1]
		return ref, nil
	case 3:
		ref.ID = parts[1]
		ref.Sub = parts[2]
		if !subResources[ref.Kind][ref.Sub] {
			return ref, fmt.Errorf("resource kind %q has no %q collection", ref.Kind, ref.Sub)
		}
		return ref, nil
	default:
		return ref, fmt.Errorf("invalid resource path %q. Expected <kind>[/<id>[/<collection>]]", arg)
	}
}
