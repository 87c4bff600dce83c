package cmd

import (
	"fmt"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

var evaluateShowMisses bool

var evaluateCmd = &cobra.Command{
	Use:   "evaluate",
	Short: "Score the trained artifact against the built-in dataset",
	Long: `Predicts every built-in example with the current artifact and reports
accuracy plus per-label precision and recall. The examples are the same ones
the classifier was trained on, so the figures measure fit rather than
generalization.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		appInstance, err := GetAppFromContext(cmd.Context())
		if err != nil {
			return err
		}

		ev, err := appInstance.Training.Evaluate(cmd.Context())
		if err != nil {
			return fmt.Errorf("error evaluating artifact: %w", err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Model %s\n", ev.ModelID)
		fmt.Fprintf(out, "Accuracy: %d/%d (%.1f%%)\n\n", ev.Correct, ev.Total, ev.Accuracy*100)

		table := tablewriter.NewWriter(out)
		table.SetHeader([]string{"Label", "Support", "Predicted", "Correct", "Precision", "Recall"})
		table.SetBorder(false)
		table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
		table.SetAlignment(tablewriter.ALIGN_LEFT)
		for _, m := range ev.PerLabel {
			table.Append([]string{
				m.Label.String(),
				strconv.Itoa(m.Support),
				strconv.Itoa(m.Predicted),
				strconv.Itoa(m.Correct),
				fmt.Sprintf("%.2f", m.Precision),
				fmt.Sprintf("%.2f", m.Recall),
			})
		}
		table.Render()

		if evaluateShowMisses && len(ev.Misses) > 0 {
			fmt.Fprintln(out)
			misses := tablewriter.NewWriter(out)
			misses.SetHeader([]string{"Reason", "Expected", "Predicted"})
			misses.SetBorder(false)
			misses.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
			misses.SetAlignment(tablewriter.ALIGN_LEFT)
			for _, m := range ev.Misses {
				misses.Append([]string{m.Text, m.Expected.String(), m.Predicted.String()})
			}
			misses.Render()
		}
		return nil
	},
}

func init() {
	evaluateCmd.Flags().BoolVar(&evaluateShowMisses, "misses", false, "List the examples the model gets wrong")
	rootCmd.AddCommand(evaluateCmd)
}
