// Package main is the entry point for the AI gateway admin console.
// It loads configuration, wires the command tree and, without a subcommand,
// runs the Bubble Tea program.
package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/j-veylop/aiconsole/internal/app"
	"github.com/j-veylop/aiconsole/internal/cli"
	"github.com/j-veylop/aiconsole/internal/config"
	"github.com/j-veylop/aiconsole/internal/logger"
	"github.com/j-veylop/aiconsole/internal/services"
	"github.com/j-veylop/aiconsole/internal/ui/login"
	"github.com/j-veylop/aiconsole/internal/ui/tabs/access"
	"github.com/j-veylop/aiconsole/internal/ui/tabs/clients"
	"github.com/j-veylop/aiconsole/internal/ui/tabs/info"
	"github.com/j-veylop/aiconsole/internal/ui/tabs/logs"
	"github.com/j-veylop/aiconsole/internal/ui/tabs/networks"
	"github.com/j-veylop/aiconsole/internal/ui/tabs/stats"
)

func main() {
	os.Exit(run())
}

func run() int {
	// Load configuration from .env files and environment variables
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to load configuration: %v\n", err)
		return 1
	}

	logCloser, err := logger.Init(cfg.LogFile, cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	defer logCloser.Close()

	return cli.Execute(cli.Options{
		Config:     cfg,
		NewManager: services.NewManager,
		RunTUI:     runTUI,
	}, os.Args[1:])
}

// runTUI builds the shell with every tab and blocks until the user quits.
func runTUI(mgr *services.Manager, cfg *config.Config) error {
	// Follow logins and logouts made from other terminals
	if err := mgr.Watch(); err != nil {
		logger.Warn("session file watching disabled", "error", err)
	}

	model := app.NewModel(mgr)

	// Tabs in TabID order
	model.SetTabs([]app.Tab{
		stats.New(mgr, cfg.StatsRefreshInterval),
		networks.New(mgr),
		clients.New(mgr),
		access.New(mgr),
		logs.New(mgr, cfg.LogsPageSize),
		info.New(mgr, cfg),
	})
	model.SetLogin(login.New(mgr))

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	go func() {
		if _, ok := <-sigChan; ok {
			p.Send(tea.Quit())
		}
	}()

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}
	return nil
}
