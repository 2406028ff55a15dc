package main

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/vyachin/schemathesis/internal/history"
)

func newRunsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "runs",
		Short: "Inspect past runs",
	}
	cmd.AddCommand(newRunsListCommand(), newRunsClearCommand())
	return cmd
}

func newRunsListCommand() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recorded runs, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := historyPath()
			if err != nil {
				return err
			}
			store, err := history.Open(path)
			if err != nil {
				return err
			}
			defer store.Close()

			summaries, err := store.List(limit)
			if err != nil {
				return err
			}
			if len(summaries) == 0 {
				fmt.Println("No recorded runs")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tSTARTED\tSPEC\tPASSED\tFAILED\tSKIPPED\tDURATION")
			for _, s := range summaries {
				fmt.Fprintf(w, "%d\t%s\t%s\t%d\t%d\t%d\t%s\n",
					s.ID,
					s.StartedAt.Format("2006-01-02 15:04:05"),
					s.Spec,
					s.Passed,
					s.Failed,
					s.Skipped,
					s.Duration.Round(time.Millisecond),
				)
			}
			return w.Flush()
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "maximum number of runs to show")
	return cmd
}

func newRunsClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete all recorded runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := historyPath()
			if err != nil {
				return err
			}
			store, err := history.Open(path)
			if err != nil {
				return err
			}
			defer store.Close()

			if err := store.Clear(); err != nil {
				return err
			}
			fmt.Println("History cleared")
			return nil
		},
	}
}
