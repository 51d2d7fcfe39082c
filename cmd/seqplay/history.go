package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history <sequence-id>",
	Short: "Show the recorded lifecycle of a sequence",
	Long: `History prints the events journaled by "seqplay run --journal" for one
sequence. The id is printed at the end of every run.`,
	Args: cobra.ExactArgs(1),
	RunE: runHistory,
}

var historyJournal string

func init() {
	rootCmd.AddCommand(historyCmd)

	historyCmd.Flags().StringVar(&historyJournal, "journal", "", "SQLite file written by seqplay run")
	_ = historyCmd.MarkFlagRequired("journal")
}

func runHistory(cmd *cobra.Command, args []string) error {
	events, closeJournal, err := openJournal(historyJournal)
	if err != nil {
		return err
	}
	defer closeJournal()

	list, err := events.ListEvents(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	if len(list) == 0 {
		return fmt.Errorf("no events for sequence %s", args[0])
	}

	first := list[0].At
	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "AT\tEVENT\tSTEP\tDETAIL")
	for _, ev := range list {
		step := "-"
		if ev.Step >= 0 {
			step = fmt.Sprint(ev.Step)
		}
		fmt.Fprintf(tw, "+%s\t%s\t%s\t%s\n", ev.At.Sub(first).Round(time.Millisecond), ev.Type, step, ev.Detail)
	}
	return tw.Flush()
}
