// Command solve reads two hand strings and a lead digit, prints the
// forced-win verdict, and — when a forced win exists — drops into an
// interactive replay of the proven tree. It is a thin shell over
// internal/game; all rule logic lives in the core packages.
package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/log"

	tea "github.com/charmbracelet/bubbletea"

	"doudizhu/internal/config"
	"doudizhu/internal/game"
	"doudizhu/internal/hand"
)

// CLI is the kong-parsed command line: flags for tunables, positional
// arguments for the required inputs.
type CLI struct {
	Hand0      string `arg:"" help:"Player 0's hand string (glyph alphabet: 3456789 0 J Q K A 2 B R)."`
	Hand1      string `arg:"" help:"Player 1's hand string."`
	Lead       int    `arg:"" help:"Which player leads: 0 or 1."`
	NodeBudget int    `help:"Cap the search's arena size; 0 uses the config file's budget (unlimited if none), negative means unlimited." default:"0"`
	LogLevel   string `help:"Set the log level." enum:"debug,info,warn,error" default:"info"`
	Config     string `help:"Path to a solver config JSON file (its budget applies only when --node-budget is 0)." default:""`
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli)

	level, err := log.ParseLevel(cli.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid log level: %v\n", err)
		ctx.Exit(1)
	}
	logger := log.NewWithOptions(os.Stderr, log.Options{Level: level, Prefix: "solve"})

	if cli.Config != "" {
		if err := config.Load(cli.Config); err != nil {
			logger.Fatal("failed to load solver config", "error", err)
		}
	}

	if cli.Lead != 0 && cli.Lead != 1 {
		logger.Fatal("lead must be 0 or 1", "lead", cli.Lead)
	}

	hands, err := hand.ParsePair(cli.Hand0, cli.Hand1)
	if err != nil {
		logger.Fatal("invalid hands", "error", err)
	}

	budget := cli.NodeBudget
	if budget == 0 {
		budget = config.NodeBudget()
	}
	g, err := game.NewGameWithBudget(hands, cli.Lead, budget)
	if err != nil {
		logger.Fatal("failed to build game", "error", err)
	}
	if err := g.Search(); err != nil {
		logger.Fatal("search failed", "error", err)
	}

	if !g.HasForcedWin() {
		fmt.Println("no forced win")
		ctx.Exit(0)
	}
	fmt.Println("forced win exists")

	program := tea.NewProgram(newReplayModel(g, logger))
	if _, err := program.Run(); err != nil {
		logger.Fatal("replay TUI exited with an error", "error", err)
	}

	ctx.Exit(0)
}
