package cmd

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var trainCmd = &cobra.Command{
	Use:   "train",
	Short: "Train the reason classifier on the built-in dataset",
	Long: `Fits the TF-IDF feature extractor and the logistic regression classifier on
the built-in labelled examples and writes both to the artifact path,
replacing any previous artifact.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		appInstance, err := GetAppFromContext(cmd.Context())
		if err != nil {
			return err
		}

		res, err := appInstance.Training.Train(cmd.Context())
		if err != nil {
			return err
		}

		color.New(color.FgGreen).Fprintf(cmd.OutOrStdout(),
			"Reason classifier trained successfully with %d examples -> %s\n", res.Examples, res.Path)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(trainCmd)
}
