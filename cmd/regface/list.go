package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/abihf/regface/store"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List registered people",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := store.Open(conf.Database)
		if err != nil {
			return err
		}
		defer st.Close()

		records, err := st.LoadAll(cmd.Context())
		if err != nil {
			return err
		}
		return printRecords(cmd.OutOrStdout(), records)
	},
}

func printRecords(out io.Writer, records []store.Record) error {
	if len(records) == 0 {
		_, err := fmt.Fprintln(out, "No one registered.")
		return err
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "#\tNAME\tAGE\tEMAIL")
	for i, r := range records {
		fmt.Fprintf(w, "%d\t%s\t%d\t%s\n", i+1, r.Name, r.Age, r.Email)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(out, "\nTotal: %d\n", len(records))
	return err
}
