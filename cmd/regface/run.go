package main

import (
	"github.com/spf13/cobra"

	"github.com/abihf/regface"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Open the camera window and start recognizing",
	RunE:  runSession,
}

func runSession(cmd *cobra.Command, args []string) error {
	s, err := regface.Open(cmd.Context(), conf)
	if err != nil {
		return err
	}
	defer s.Close()

	return s.Run()
}
