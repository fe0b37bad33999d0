package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/camomile-project/camomile-go/pkg/camomile"
)

// deleteCmd represents the delete command
var deleteCmd = &cobra.Command{
	Use:   "delete RESOURCE/ID [flags]",
	Short: "Delete a resource",
	Long: `Delete a resource by kind and ID. Deleting a corpus removes its media,
layers and annotations; deleting a layer removes its annotations.

Examples:
  # Delete a corpus
  camomile delete corpus/<id>

  # Delete an annotation
  camomile delete annotation/<id>`,
	Args: cobra.ExactArgs(1),
	RunE: deleteResource,
}

// deleteResource handles the delete command execution
func deleteResource(cmd *cobra.Command, args []string) error {
	ref, err := parseResourceRef(args[0])
	if err != nil {
		return err
	}
	if ref.ID == "" || ref.Sub != "" {
		return fmt.Errorf("delete addresses one resource. Expected <kind>/<id>")
	}

	client, err := newClient()
	if err != nil {
		return err
	}

	if err := dispatchDelete(cmd.Context(), client, ref); err != nil {
		return err
	}

	if jsonOutput {
		printJSON(map[string]any{"result": 1, "deleted": args[0]})
	} else {
		okLabel.Printf("✓ Deleted %s\n", args[0])
	}
	return nil
}

func dispatchDelete(ctx context.Context, client *camomile.Client, ref resourceRef) error {
	switch ref.Kind {
	case "corpus":
		return client.DeleteCorpus(ctx, ref.ID)
	case "medium":
		return client.DeleteMedium(ctx, ref.ID)
	case "layer":
		return client.DeleteLayer(ctx, ref.ID)
	case "annotation":
		return client.DeleteAnnotation(ctx, ref.ID)
	case "queue":
		return client.DeleteQueue(ctx, ref.ID)
	case "user":
		return client.DeleteUser(ctx, ref.ID)
	case "group":
		return client.DeleteGroup(ctx, ref.ID)
	}
	return fmt.Errorf("unknown resource kind %q", ref.Kind)
}

func init() {
	rootCmd.AddCommand(deleteCmd)
}
