package cmd

import (
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"leavereason/internal/dataset"
	"leavereason/internal/models"
)

var datasetSummary bool

var datasetCmd = &cobra.Command{
	Use:   "dataset",
	Short: "Show the built-in training examples",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		examples := dataset.Examples()

		table := tablewriter.NewWriter(cmd.OutOrStdout())
		table.SetBorder(false)
		table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
		table.SetAlignment(tablewriter.ALIGN_LEFT)

		if datasetSummary {
			counts := dataset.CountByLabel(examples)
			table.SetHeader([]string{"Label", "Examples"})
			for _, l := range models.AllLabels() {
				table.Append([]string{l.String(), strconv.Itoa(counts[l])})
			}
			table.SetFooter([]string{"Total", strconv.Itoa(len(examples))})
		} else {
			table.SetHeader([]string{"#", "Reason", "Label"})
			for i, ex := range examples {
				table.Append([]string{strconv.Itoa(i + 1), ex.Text, ex.Label.String()})
			}
		}
		table.Render()
		return nil
	},
}

func init() {
	datasetCmd.Flags().BoolVarP(&datasetSummary, "summary", "s", false, "Show per-label counts instead of every example")
	rootCmd.AddCommand(datasetCmd)
}
