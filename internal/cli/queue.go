package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

// queueCmd groups the queue rotation commands. CRUD on queues goes through
// the generic get, create, update and delete commands; push and pop are the
// rotation itself.
var queueCmd = &cobra.Command{
	Use:   "queue",
	Short: "Work with annotation queues",
	Long: `Work with annotation queues. A queue distributes work items in FIFO
order: push appends items, pop removes and returns the first one.

Examples:
  # Append two items
  camomile queue push <queue-id> '{"layer": "l1"}' '{"layer": "l2"}'

  # Take the next item
  camomile queue pop <queue-id>

  # Inspect without consuming
  camomile queue peek <queue-id>
  camomile queue length <queue-id>`,
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

var queuePushCmd = &cobra.Command{
	Use:   "push QUEUE_ID ITEM [ITEM...]",
	Short: "Append items to a queue",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient()
		if err != nil {
			return err
		}

		// each argument is a JSON document, or a bare string when not valid JSON
		items := make([]any, 0, len(args)-1)
		for _, arg := range args[1:] {
			var item any
			if err := json.Unmarshal([]byte(arg), &item); err != nil {
				item = arg
			}
			items = append(items, item)
		}

		if err := client.Enqueue(cmd.Context(), args[0], items...); err != nil {
			return err
		}

		if jsonOutput {
			printJSON(map[string]any{"result": 1, "pushed": len(items)})
		} else {
			okLabel.Printf("✓ Pushed %d item(s)\n", len(items))
		}
		return nil
	},
}

var queuePopCmd = &cobra.Command{
	Use:   "pop QUEUE_ID",
	Short: "Remove and return the first item of a queue",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient()
		if err != nil {
			return err
		}

		item, err := client.Pick(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return printResource(item)
	},
}

var queuePeekCmd = &cobra.Command{
	Use:   "peek QUEUE_ID",
	Short: "List the items of a queue without consuming them",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient()
		if err != nil {
			return err
		}

		items, err := client.PickAll(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return printResource(items)
	},
}

var queueLengthCmd = &cobra.Command{
	Use:   "length QUEUE_ID",
	Short: "Print the number of items remaining in a queue",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient()
		if err != nil {
			return err
		}

		n, err := client.PickLength(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		if jsonOutput {
			printJSON(map[string]int{"length": n})
		} else {
			fmt.Println(n)
		}
		return nil
	},
}

func init() {
	queueCmd.AddCommand(queuePushCmd)
	queueCmd.AddCommand(queuePopCmd)
	queueCmd.AddCommand(queuePeekCmd)
	queueCmd.AddCommand(queueLengthCmd)
	rootCmd.AddCommand(queueCmd)
}
