package cmd

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"leavereason/internal/clix"
	"leavereason/internal/models"
	"leavereason/internal/store"
)

// historyCmd represents the base command for prediction history operations
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "View recorded predictions",
	Long: `Displays predictions recorded by the predict command and the HTTP API.
Recording is enabled by setting history.driver and history.dsn.`,
}

var listHistoryCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent predictions, newest first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		appInstance, err := GetAppFromContext(cmd.Context())
		if err != nil {
			return err
		}

		pagination, err := clix.ParsePagination(cmd.Flags())
		if err != nil {
			return err
		}
		labels, err := clix.ParseLabels(cmd.Flags())
		if err != nil {
			return err
		}

		predictions, err := appInstance.History.ListPredictions(cmd.Context(), store.ListOptions{
			Limit:      pagination.Limit,
			Offset:     pagination.Offset,
			Categories: labels,
		})
		if err != nil {
			return historyError(err)
		}

		out := cmd.OutOrStdout()
		if len(predictions) == 0 {
			fmt.Fprintln(out, "No predictions found.")
			return nil
		}

		table := tablewriter.NewWriter(out)
		table.SetHeader([]string{"ID", "Reason", "Category", "Model", "Created At"})
		table.SetBorder(false)
		table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
		table.SetAlignment(tablewriter.ALIGN_LEFT)
		for _, p := range predictions {
			table.Append([]string{
				p.ID.String(),
				p.Reason,
				p.Category.String(),
				shortID(p.ModelID.String()),
				p.CreatedAt.Local().Format("2006-01-02 15:04:05"),
			})
		}
		table.Render()
		return nil
	},
}

var statsHistoryCmd = &cobra.Command{
	Use:   "stats",
	Short: "Count recorded predictions per category",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		appInstance, err := GetAppFromContext(cmd.Context())
		if err != nil {
			return err
		}

		counts, err := appInstance.History.CountByCategory(cmd.Context())
		if err != nil {
			return historyError(err)
		}

		table := tablewriter.NewWriter(cmd.OutOrStdout())
		table.SetHeader([]string{"Category", "Predictions"})
		table.SetBorder(false)
		table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
		table.SetAlignment(tablewriter.ALIGN_LEFT)
		total := 0
		for _, l := range models.AllLabels() {
			table.Append([]string{l.String(), strconv.Itoa(counts[l])})
			total += counts[l]
		}
		table.SetFooter([]string{"Total", strconv.Itoa(total)})
		table.Render()
		return nil
	},
}

func historyError(err error) error {
	if errors.Is(err, store.ErrHistoryOffline) {
		return fmt.Errorf("%w: set history.driver and history.dsn", err)
	}
	return fmt.Errorf("error reading prediction history: %w", err)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func init() {
	// Flags for list command
	listHistoryCmd.Flags().IntP("limit", "n", 20, "Maximum number of predictions to show")
	listHistoryCmd.Flags().IntP("offset", "o", 0, "Number of predictions to skip")
	listHistoryCmd.Flags().StringP("label", "l", "", "Only show these categories (comma separated)")

	historyCmd.AddCommand(listHistoryCmd)
	historyCmd.AddCommand(statsHistoryCmd)
	rootCmd.AddCommand(historyCmd)
}
