package cli

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"sigs.k8s.io/yaml"

	"github.com/camomile-project/camomile-go/pkg/camomile"
)

var getHistory bool

// getCmd represents the get command
var getCmd = &cobra.Command{
	Use:   "get RESOURCE[/ID[/COLLECTION]] [flags]",
	Short: "Get resources by kind or ID",
	Long: `Get resources by kind or ID. Without an ID the command lists the
collection; with an ID it returns one document.

Examples:
  # List all corpora
  camomile get corpus

  # Get one corpus with its modification history
  camomile get corpus/<id> --history

  # List the media of a corpus
  camomile get corpus/<id>/medium

  # List the annotations of a layer in JSON format
  camomile get layer/<id>/annotation -j`,
	Args: cobra.ExactArgs(1),
	RunE: getResource,
}

// getResource handles retrieving resources and formats the output in YAML or
// JSON
func getResource(cmd *cobra.Command, args []string) error {
	ref, err := parseResourceRef(args[0])
	if err != nil {
		return err
	}

	client, err := newClient()
	if err != nil {
		return err
	}

	value, err := fetchResource(cmd.Context(), client, ref)
	if err != nil {
		return err
	}
	return printResource(value)
}

// fetchResource dispatches a parsed reference to the matching client call.
func fetchResource(ctx context.Context, client *camomile.Client, ref resourceRef) (any, error) {
	opts := camomile.GetOptions{History: getHistory}

	if ref.Sub != "" {
		switch ref.Kind + "/" + ref.Sub {
		case "corpus/medium":
			return client.GetMedia(ctx, ref.ID, opts)
		case "corpus/layer":
			return client.GetLayers(ctx, ref.ID, opts)
		case "layer/annotation":
			return client.GetAnnotations(ctx, ref.ID, camomile.AnnotationFilter{History: getHistory})
		case "user/group":
			return client.UserGroups(ctx, ref.ID)
		}
	}

	if ref.ID == "" {
		switch ref.Kind {
		case "corpus":
			return client.GetCorpora(ctx, opts)
		case "queue":
			return client.GetQueues(ctx)
		case "user":
			return client.GetUsers(ctx)
		case "group":
			return client.GetGroups(ctx)
		default:
			return nil, fmt.Errorf("%s can only be fetched by ID", ref.Kind)
		}
	}

	switch ref.Kind {
	case "corpus":
		return client.GetCorpus(ctx, ref.ID, opts)
	case "medium":
		return client.GetMedium(ctx, ref.ID, opts)
	case "layer":
		return client.GetLayer(ctx, ref.ID, opts)
	case "annotation":
		return client.GetAnnotation(ctx, ref.ID, opts)
	case "queue":
		return client.GetQueue(ctx, ref.ID)
	case "user":
		return client.GetUser(ctx, ref.ID)
	case "group":
		return client.GetGroup(ctx, ref.ID)
	}
	return nil, fmt.Errorf("unknown resource kind %q", ref.Kind)
}

// printResource renders a value as indented JSON or YAML per the global flag.
func printResource(value any) error {
	if jsonOutput {
		output := map[string]any{
			"result": 1,
			"value":  value,
		}
		jsonBytes, err := json.MarshalIndent(output, "", "    ")
		if err != nil {
			return fmt.Errorf("failed to format JSON output: %v", err)
		}
		fmt.Println(string(jsonBytes))
		return nil
	}

	yamlBytes, err := yaml.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to convert to YAML: %v", err)
	}
	fmt.Println(string(yamlBytes))
	return nil
}

// init initializes the get command with its flags and adds it to the root command
func init() {
	rootCmd.AddCommand(getCmd)

	getCmd.Flags().BoolVar(&getHistory, "history", false, "Include modification history in the returned documents")
}
