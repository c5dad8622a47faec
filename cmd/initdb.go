package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gooberdetector/facedetect/internal/app"
)

var initDBCmd = &cobra.Command{
	Use:   "initdb",
	Short: "Create the saved_photos table and exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := app.InitDatabase(cmd.Context(), cfg); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Database initialized successfully")
		return nil
	},
}
