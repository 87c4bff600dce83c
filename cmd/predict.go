package cmd

import (
	"fmt"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var predictCmd = &cobra.Command{
	Use:   "predict <reason-text>",
	Short: "Print the category of a leave reason",
	Long: `Loads the trained artifact and prints exactly one category label for the
given leave reason. Quote reasons that contain spaces.`,
	Example: `  leavereason predict "fever and cold"`,
	Args:    exactlyOneReason,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		appInstance, err := GetAppFromContext(ctx)
		if err != nil {
			return err
		}

		label, err := appInstance.Predictions.Predict(ctx, args[0])
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), label)

		if _, err := appInstance.Predictions.Record(ctx, args[0], label); err != nil {
			log.WithError(err).Warn("Failed to record prediction")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(predictCmd)
}

// exactlyOneReason is cobra.ExactArgs(1) with the usage line in the error,
// since usage output is silenced.
func exactlyOneReason(cmd *cobra.Command, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("accepts exactly 1 reason argument, received %d\nUsage: %s", len(args), cmd.UseLine())
	}
	return nil
}
