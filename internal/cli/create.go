package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/tidwall/gjson"

	"github.com/camomile-project/camomile-go/pkg/camomile"
)

var ignoreErrors bool

// createCmd represents the create command
var createCmd = &cobra.Command{
	Use:   "create -f FILENAME [flags]",
	Short: "Create resources from a file",
	Long: `Create resources from a YAML file. The resource kind is determined by
the 'kind' field of each document; a file may contain several documents
separated by "---".

Media and layers name their corpus with a 'corpus' field, annotations their
layer with a 'layer' field:

  kind: corpus
  name: interviews
  ---
  kind: layer
  corpus: <corpus-id>
  name: speech
  fragment_type: segment
  data_type: label

Examples:
  # Create a corpus
  camomile create -f corpus.yaml

  # Create several resources, continuing past failures
  camomile create -f resources.yaml -i`,
	RunE: createResources,
}

// createResources handles the creation of resources from a file
func createResources(cmd *cobra.Command, args []string) error {
	filename, err := cmd.Flags().GetString("filename")
	if err != nil {
		return err
	}
	if filename == "" {
		return fmt.Errorf("filename is required")
	}

	docs, err := LoadResourceDocuments(filename)
	if err != nil {
		return err
	}

	client, err := newClient()
	if err != nil {
		return err
	}

	var statusValues []map[string]any
	defer func() {
		if len(statusValues) == 0 {
			return
		}
		if jsonOutput {
			printJSON(statusValues)
			return
		}
		for _, status := range statusValues {
			created, _ := status["created"].(bool)
			if created {
				okLabel.Fprintf(os.Stdout, "[OK] ")
				fmt.Fprintf(os.Stdout, "Created %s: %s\n", status["kind"], status["id"])
			} else {
				errorLabel.Fprintf(os.Stderr, "[ERROR] ")
				fmt.Fprintf(os.Stderr, "%s: %s\n", status["kind"], status["error"])
			}
		}
	}()

	for _, doc := range docs {
		id, err := createOneResource(cmd.Context(), client, doc)
		if err != nil {
			statusValues = append(statusValues, map[string]any{
				"kind":    doc.Kind,
				"created": false,
				"error":   err.Error(),
			})
			if !ignoreErrors {
				return ErrAlreadyHandled
			}
			continue
		}
		statusValues = append(statusValues, map[string]any{
			"kind":    doc.Kind,
			"created": true,
			"id":      id,
		})
	}
	return nil
}

// createOneResource dispatches a document to the matching client call and
// returns the created resource's ID.
func createOneResource(ctx context.Context, client *camomile.Client, doc ResourceDocument) (string, error) {
	switch doc.Kind {
	case "corpus":
		var opts camomile.CorpusOptions
		if err := json.Unmarshal(doc.JSON, &opts); err != nil {
			return "", err
		}
		corpus, err := client.CreateCorpus(ctx, opts)
		if err != nil {
			return "", err
		}
		return corpus.ID, nil

	case "medium":
		corpusID := gjson.GetBytes(doc.JSON, "corpus").String()
		var opts camomile.MediumOptions
		if err := json.Unmarshal(doc.JSON, &opts); err != nil {
			return "", err
		}
		medium, err := client.AddMedium(ctx, corpusID, opts)
		if err != nil {
			return "", err
		}
		return medium.ID, nil

	case "layer":
		corpusID := gjson.GetBytes(doc.JSON, "corpus").String()
		var opts camomile.LayerOptions
		if err := json.Unmarshal(doc.JSON, &opts); err != nil {
			return "", err
		}
		layer, err := client.AddLayer(ctx, corpusID, opts)
		if err != nil {
			return "", err
		}
		return layer.ID, nil

	case "annotation":
		layerID := gjson.GetBytes(doc.JSON, "layer").String()
		var opts camomile.AnnotationOptions
		if err := json.Unmarshal(doc.JSON, &opts); err != nil {
			return "", err
		}
		annotation, err := client.AddAnnotation(ctx, layerID, opts)
		if err != nil {
			return "", err
		}
		return annotation.ID, nil

	case "queue":
		var opts camomile.QueueOptions
		if err := json.Unmarshal(doc.JSON, &opts); err != nil {
			return "", err
		}
		queue, err := client.CreateQueue(ctx, opts)
		if err != nil {
			return "", err
		}
		return queue.ID, nil

	case "user":
		var opts camomile.UserOptions
		if err := json.Unmarshal(doc.JSON, &opts); err != nil {
			return "", err
		}
		user, err := client.CreateUser(ctx, opts)
		if err != nil {
			return "", err
		}
		return user.ID, nil

	case "group":
		var opts camomile.GroupOptions
		if err := json.Unmarshal(doc.JSON, &opts); err != nil {
			return "", err
		}
		group, err := client.CreateGroup(ctx, opts)
		if err != nil {
			return "", err
		}
		return group.ID, nil
	}
	return "", fmt.Errorf("unknown resource kind %q", doc.Kind)
}

// init initializes the create command with its flags and adds it to the root command
func init() {
	createCmd.Flags().StringP("filename", "f", "", "Filename to use to create the resources")
	createCmd.MarkFlagRequired("filename")
	createCmd.Flags().BoolVarP(&ignoreErrors, "ignore-errors", "i", false, "Ignore errors and continue with the next resource")

	rootCmd.AddCommand(createCmd)
}
