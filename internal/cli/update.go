package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/tidwall/sjson"

	"github.com/camomile-project/camomile-go/pkg/camomile"
)

var updateSets []string

// updateCmd represents the update command
var updateCmd = &cobra.Command{
	Use:   "update RESOURCE/ID --set KEY=VALUE [flags]",
	Short: "Update fields of a resource",
	Long: `Update fields of a resource. Each --set flag names one field; dotted
keys address nested fields of the description document. Values are parsed as
JSON when possible and treated as strings otherwise.

Examples:
  # Rename a corpus
  camomile update corpus/<id> --set name=debates

  # Change a nested description field
  camomile update medium/<id> --set description.channel=left

  # Replace an annotation's data
  camomile update annotation/<id> --set 'data={"label": "speech"}'`,
	Args: cobra.ExactArgs(1),
	RunE: updateResource,
}

// buildPatch folds the --set flags into one JSON patch document.
func buildPatch(sets []string) ([]byte, error) {
	patch := []byte("{}")
	for _, set := range sets {
		key, value, found := strings.Cut(set, "=")
		if !found || key == "" {
			return nil, fmt.Errorf("invalid --set %q. Expected KEY=VALUE", set)
		}

		var err error
		if json.Valid([]byte(value)) {
			patch, err = sjson.SetRawBytes(patch, key, []byte(value))
		} else {
			patch, err = sjson.SetBytes(patch, key, value)
		}
		if err != nil {
			return nil, fmt.Errorf("invalid --set %q: %w", set, err)
		}
	}
	return patch, nil
}

// updateResource handles the update command execution
func updateResource(cmd *cobra.Command, args []string) error {
	ref, err := parseResourceRef(args[0])
	if err != nil {
		return err
	}
	if ref.ID == "" || ref.Sub != "" {
		return fmt.Errorf("update addresses one resource. Expected <kind>/<id>")
	}
	if len(updateSets) == 0 {
		return fmt.Errorf("at least one --set is required")
	}

	patch, err := buildPatch(updateSets)
	if err != nil {
		return err
	}

	client, err := newClient()
	if err != nil {
		return err
	}

	value, err := applyUpdate(cmd.Context(), client, ref, patch)
	if err != nil {
		return err
	}
	return printResource(value)
}

// applyUpdate decodes the patch into the typed update for the resource kind
// and issues it.
func applyUpdate(ctx context.Context, client *camomile.Client, ref resourceRef, patch []byte) (any, error) {
	switch ref.Kind {
	case "corpus":
		var update camomile.CorpusUpdate
		if err := json.Unmarshal(patch, &update); err != nil {
			return nil, err
		}
		return client.UpdateCorpus(ctx, ref.ID, update)
	case "medium":
		var update camomile.MediumUpdate
		if err := json.Unmarshal(patch, &update); err != nil {
			return nil, err
		}
		return client.UpdateMedium(ctx, ref.ID, update)
	case "layer":
		var update camomile.LayerUpdate
		if err := json.Unmarshal(patch, &update); err != nil {
			return nil, err
		}
		return client.UpdateLayer(ctx, ref.ID, update)
	case "annotation":
		var update camomile.AnnotationUpdate
		if err := json.Unmarshal(patch, &update); err != nil {
			return nil, err
		}
		return client.UpdateAnnotation(ctx, ref.ID, update)
	case "queue":
		var update camomile.QueueUpdate
		if err := json.Unmarshal(patch, &update); err != nil {
			return nil, err
		}
		return client.UpdateQueue(ctx, ref.ID, update)
	case "user":
		var update camomile.UserUpdate
		if err := json.Unmarshal(patch, &update); err != nil {
			return nil, err
		}
		return client.UpdateUser(ctx, ref.ID, update)
	case "group":
		var update camomile.GroupUpdate
		if err := json.Unmarshal(patch, &update); err != nil {
			return nil, err
		}
		return client.UpdateGroup(ctx, ref.ID, update)
	}
	return nil, fmt.Errorf("unknown resource kind %q", ref.Kind)
}

// init initializes the update command with its flags and adds it to the root command
func init() {
	updateCmd.Flags().StringArrayVar(&updateSets, "set", nil, "Field to set, as KEY=VALUE (repeatable)")

	rootCmd.AddCommand(updateCmd)
}
