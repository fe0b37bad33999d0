package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/tidwall/gjson"
	"gopkg.in/yaml.v3"
)

// ResourceDocument is one document of a multi-document create file, converted
// to JSON for downstream processing.
type ResourceDocument struct {
	Kind string
	JSON []byte
}

// LoadResourceDocuments reads a YAML file that may contain several documents
// separated by "---" and returns them in file order. Every document must
// carry a "kind" field naming the resource kind to create.
func LoadResourceDocuments(filename string) ([]ResourceDocument, error) {
	raw, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("unable to read file %s: %w", filename, err)
	}

	var docs []ResourceDocument
	decoder := yaml.NewDecoder(bytes.NewReader(raw))
	for index := 0; ; index++ {
		var doc map[string]any
		err := decoder.Decode(&doc)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("unable to parse document %d in %s: %w", index+1, filename, err)
		}
		if len(doc) == 0 {
			continue
		}

		jsonBytes, err := json.Marshal(doc)
		if err != nil {
			return nil, fmt.Errorf("unable to convert document %d in %s: %w", index+1, filename, err)
		}

		kind := strings.ToLower(gjson.GetBytes(jsonBytes, "kind").String())
		if kind == "" {
			return nil, fmt.Errorf("document %d in %s has no kind field", index+1, filename)
		}
		if !resourceKinds[kind] {
			return nil, fmt.Errorf("document %d in %s has unknown kind %q", index+1, filename, kind)
		}

		docs = append(docs, ResourceDocument{Kind: kind, JSON: jsonBytes})
	}

	if len(docs) == 0 {
		return nil, fmt.Errorf("no documents found in %s", filename)
	}
	return docs, nil
}
