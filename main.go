package main

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/tryteddy/teddyadmin/api"
	"github.com/tryteddy/teddyadmin/auth"
	"github.com/tryteddy/teddyadmin/config"
	"github.com/tryteddy/teddyadmin/logger"
	"github.com/tryteddy/teddyadmin/model"
	"github.com/tryteddy/teddyadmin/query"
	"github.com/tryteddy/teddyadmin/tui"
)

func main() {
	cfgPath := os.Getenv("TEDDY_CONFIG")
	cfg, err := config.Load(cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.Init(cfg.Logging.Path, cfg.Logging.Level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: cannot open log file: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	credDir, err := auth.DefaultDir()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	creds := auth.NewStore(credDir)
	client := api.NewClient(cfg.APIBase, creds, log)
	hooks := query.NewHooks(client, cfg.StaleTime)

	// plain-text modes for scripting, no TUI
	if len(os.Args) > 1 {
		if err := runList(os.Args[1], hooks); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	m := tui.NewModel(cfg, creds, hooks, log)
	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		log.Error("tui failed", zap.Error(err))
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runList(arg string, hooks *query.Hooks) error {
	ctx := context.Background()
	switch arg {
	case "--companies":
		companies, err := hooks.Companies.Get(ctx)
		if err != nil {
			return err
		}
		for _, c := range companies {
			fmt.Printf("%-10s │ %-26s │ %-28s │ %4d sms\n", c.ID, c.Name, c.Email, c.SMSRemaining)
		}

	case "--calls":
		calls, err := hooks.Calls.Get(ctx)
		if err != nil {
			return err
		}
		for _, c := range calls {
			fmt.Printf("%-10s │ %-20s │ %-14s │ %4ds │ %s\n", c.ID, c.Name, c.Caller, c.Duration, c.Summary)
		}

	case "--texts":
		texts, err := hooks.Texts.Get(ctx)
		if err != nil {
			return err
		}
		for _, t := range texts {
			fmt.Printf("%-10s │ %-20s │ %-14s → %-14s │ %s\n", t.ID, t.Name, t.From, t.To, t.Content)
		}

	case "--dashboard":
		snap, err := hooks.Dashboard.Get(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("companies: %s\n", countOrNA(snap.CompaniesCount))
		fmt.Printf("calls:     %s\n", countOrNA(snap.CallsCount))
		fmt.Printf("calls today: %s\n", countOrNA(snap.CallsToday))
		fmt.Printf("sms today:   %s\n", countOrNA(snap.SMSToday))

	default:
		return fmt.Errorf("unknown argument %q (try --companies, --calls, --texts, --dashboard)", arg)
	}
	return nil
}

func countOrNA(n int) string {
	if !model.CountKnown(n) {
		return "n/a"
	}
	return fmt.Sprintf("%d", n)
}
