package commands

import (
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"
	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"

	"github.com/lowitz/planview/internal/config"
	"github.com/lowitz/planview/internal/host"
	"github.com/lowitz/planview/internal/record"
	"github.com/lowitz/planview/internal/store"
	"github.com/lowitz/planview/internal/timeline"
)

func addAgenda(topLevel *cobra.Command) {
	days := 7

	cmd := &cobra.Command{
		Use:   "agenda",
		Short: "Print the upcoming schedule without entering the TUI.",
		Example: `
planview agenda
planview agenda --days 14
`,
		RunE: func(_ *cobra.Command, _ []string) error {
			return runAgenda(days)
		},
	}

	cmd.Flags().IntVarP(&days, "days", "n", 7, "How many days ahead to print.")
	topLevel.AddCommand(cmd)
}

func runAgenda(days int) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	client := host.NewClient(cfg.Host.BaseURL, cfg.Host.Token)
	if err := client.Ping(); err != nil {
		return err
	}

	tasks, err := client.LoadTasks(host.ScopeFilter{})
	if err != nil {
		return err
	}

	st := store.New(client)
	st.ReplaceTasks(tasks)
	snap := st.Snapshot()

	bold := color.New(color.Bold, color.Underline)
	due := color.New(color.FgYellow)
	slot := color.New(color.Faint)

	today := time.Now()
	anchor := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.Local)

	for i := 0; i < days; i++ {
		date := record.FormatDate(anchor.AddDate(0, 0, i))
		next := record.FormatDate(anchor.AddDate(0, 0, i+1))
		view := timeline.BuildDay(snap.Tasks, snap.Events, date, next, i == 0)

		if len(view.Due) == 0 && len(view.AllDay) == 0 && len(view.Buckets) == 0 {
			continue
		}

		day, _ := record.Parse(date)
		bold.Println(day.Format("Monday, Jan 2"))

		tbl := uitable.New()
		tbl.Separator = "  "

		for _, t := range view.Due {
			tbl.AddRow(due.Sprint("due"), clip(t.Text), t.Path)
		}
		for _, t := range view.AllDay {
			tbl.AddRow("all-day", clip(t.Text), t.Path)
		}
		for _, b := range view.Buckets {
			label := b.Key[len(record.DateLayout)+1:]
			for _, t := range b.Tasks {
				tbl.AddRow(slot.Sprint(label), clip(t.Text), t.Path)
			}
		}

		fmt.Fprintln(color.Output, tbl)
		fmt.Println()
	}

	return nil
}

func clip(s string) string {
	return runewidth.Truncate(s, 60, "…")
}
