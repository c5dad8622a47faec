package cmd

import (
	"github.com/spf13/cobra"

	"github.com/gooberdetector/facedetect/internal/app"
	"github.com/gooberdetector/facedetect/internal/detector/cascade"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		if port, _ := cmd.Flags().GetString("port"); port != "" {
			cfg.Port = port
		}

		// Loaded once, shared read-only by every request
		faces, err := cascade.New(cfg.CascadePath)
		if err != nil {
			return err
		}
		defer faces.Close()

		return app.Run(cmd.Context(), cfg, faces)
	},
}

func init() {
	serveCmd.Flags().String("port", "", "listen port (overrides PORT)")
}
