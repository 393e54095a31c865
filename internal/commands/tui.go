package commands

import (
	"fmt"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/gen2brain/beeep"
	"github.com/spf13/cobra"

	"github.com/lowitz/planview/internal/config"
	"github.com/lowitz/planview/internal/drag"
	"github.com/lowitz/planview/internal/gcal"
	"github.com/lowitz/planview/internal/host"
	"github.com/lowitz/planview/internal/store"
	"github.com/lowitz/planview/internal/tui"
	"github.com/lowitz/planview/internal/tui/state"
)

var numDays int

func runTUI(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	dataDir, err := config.DataDir()
	if err != nil {
		return err
	}

	client := host.NewClient(cfg.Host.BaseURL, cfg.Host.Token)

	opts := []store.Option{
		store.WithCollapsed(store.OpenCollapsed(filepath.Join(dataDir, "collapsed"))),
	}
	if !cfg.UI.Mute {
		opts = append(opts, store.WithChime(func() {
			client.PlayComplete()
			_ = beeep.Beep(beeep.DefaultFreq, beeep.DefaultDuration)
		}))
	}
	st := store.New(client, opts...)

	var events state.EventSource
	engineOpts := []drag.Option{
		drag.WithGranularity(cfg.UI.SlotMinutes),
		drag.WithCreator(client),
	}
	if cfg.Calendar.Enabled {
		credentials, err := cfg.CredentialsPath()
		if err != nil {
			return err
		}
		token, err := cfg.TokenPath()
		if err != nil {
			return err
		}
		source, err := gcal.NewSource(cmd.Context(), credentials, token, cfg.Calendar.CalendarID)
		if err != nil {
			return fmt.Errorf("calendar setup failed: %w", err)
		}
		events = source
		engineOpts = append(engineOpts, drag.WithEvents(source))
	}

	engine := drag.New(st, engineOpts...)

	app := tui.NewApp(tui.Options{
		Store:   st,
		Host:    client,
		Events:  events,
		Engine:  engine,
		Config:  cfg,
		NumDays: numDays,
	})

	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithMouseAllMotion())

	// Every committed table change flows back into the update loop as a
	// message, so rendering state only ever changes on that goroutine.
	cancel := st.Subscribe(func(snap store.Snapshot) {
		go p.Send(tui.SnapshotMsg(snap))
	})
	defer cancel()

	_, err = p.Run()
	return err
}
