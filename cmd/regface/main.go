package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/abihf/regface/config"
)

var (
	configFile string
	debug      bool
	conf       *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "regface",
	Short: "Register and recognize faces from a webcam",
	Long: `regface shows the webcam feed, labels every face it recognizes and lets
you register the face in view by typing a name, age and email into the
preview window (Enter moves to the next field, Backspace erases, Esc quits).`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelInfo
		if debug {
			level = slog.LevelDebug
		}
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

		// .env file is optional
		_ = godotenv.Load()
		conf = config.Load(configFile)
	},
	RunE: runSession,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Path to configuration file (default "+config.DefaultFile+")")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging")
	rootCmd.AddCommand(runCmd, listCmd, configCmd)
}
