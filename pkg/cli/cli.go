package cli

import (
	"context"
	"fmt"

	"github.com/kiltia/analyst/config"
	"github.com/kiltia/analyst/internal"
	"github.com/kiltia/analyst/planner"
	"github.com/kiltia/analyst/tui"

	tea "github.com/charmbracelet/bubbletea"
)

// DefaultLogFile receives the TUI logs when no output is configured. The
// terminal is owned by the alt screen.
const DefaultLogFile = "analyst-tui.log"

// LogConfig returns cfg with the output redirected to DefaultLogFile when it
// is unset.
func LogConfig(cfg config.LogConfig) config.LogConfig {
	if cfg.Output == "" {
		cfg.Output = DefaultLogFile
	}
	return cfg
}

// NewState prepares everything the screens share: a chat session for the
// configured endpoint and a planner for the default team.
func NewState(ctx context.Context, cfg *config.Config) (*tui.State, error) {
	session, err := internal.NewSession(cfg)
	if err != nil {
		return nil, err
	}
	p, err := planner.New(
		cfg.Planner.DefaultTeam,
		planner.MockSource{},
		planner.WithSprintDays(cfg.Planner.SprintDays),
		planner.WithFetchAttempts(cfg.Planner.FetchAttempts),
	)
	if err != nil {
		return nil, fmt.Errorf("creating planner: %w", err)
	}
	return &tui.State{
		Ctx:     ctx,
		Config:  cfg,
		Session: session,
		Planner: p,
	}, nil
}

// Run starts the interactive application and blocks until the user quits.
func Run(ctx context.Context, cfg *config.Config) error {
	state, err := NewState(ctx, cfg)
	if err != nil {
		return err
	}
	model := tui.NewMainMenuModel(state)
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running tui: %w", err)
	}
	return nil
}
