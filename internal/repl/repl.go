package repl

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"github.com/fatih/color"
	"github.com/steveyegge/cubic/internal/solver"
	"github.com/steveyegge/cubic/internal/storage"
)

// lineReader is the subset of *readline.Instance the loop needs
type lineReader interface {
	Readline() (string, error)
	SetPrompt(prompt string)
	Close() error
}

// REPL represents the interactive shell
type REPL struct {
	solver   *solver.Solver
	store    storage.Storage
	rl       lineReader
	out      io.Writer
	ctx      context.Context
	prompt   string
	commands map[string]CommandHandler
}

// CommandHandler handles a specific command
type CommandHandler func(args []string) error

// Config holds REPL configuration
type Config struct {
	Solver *solver.Solver
	// Store is optional; without it solves are not recorded
	Store storage.Storage
	// Out defaults to os.Stdout
	Out io.Writer
}

// errExit signals the loop to stop
var errExit = errors.New("exit")

// New creates a new REPL instance
func New(cfg *Config) (*REPL, error) {
	if cfg.Solver == nil {
		return nil, fmt.Errorf("solver is required")
	}

	out := cfg.Out
	if out == nil {
		out = os.Stdout
	}

	r := &REPL{
		solver:   cfg.Solver,
		store:    cfg.Store,
		out:      out,
		prompt:   color.New(color.FgCyan).Sprint("cubic> "),
		commands: make(map[string]CommandHandler),
	}

	r.registerCommands()

	return r, nil
}

// Run starts the REPL loop
func (r *REPL) Run(ctx context.Context) error {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:            r.prompt,
		AutoComplete:      r.completer(),
		InterruptPrompt:   "^C",
		EOFPrompt:         "exit",
		HistorySearchFold: true,
		Stdout:            r.out,
	})
	if err != nil {
		return fmt.Errorf("failed to create readline: %w", err)
	}
	defer rl.Close()

	return r.loop(ctx, rl)
}

func (r *REPL) loop(ctx context.Context, rl lineReader) error {
	r.ctx = ctx
	r.rl = rl

	r.printWelcome()

	for {
		line, err := rl.Readline()
		if err != nil {
			if err == readline.ErrInterrupt {
				// Ctrl+C - just show prompt again
				continue
			} else if err == io.EOF {
				// Ctrl+D - exit
				fmt.Fprintln(r.out, "\nGoodbye!")
				return nil
			}
			return err
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if err := r.processInput(line); err != nil {
			if err == errExit {
				return nil
			}
			red := color.New(color.FgRed).SprintFunc()
			fmt.Fprintf(r.out, "%s %v\n", red("Error:"), err)
		}
	}
}

// processInput processes a single line of input
func (r *REPL) processInput(line string) error {
	parts := strings.Fields(line)
	if len(parts) == 0 {
		return nil
	}

	command := strings.ToLower(parts[0])
	args := parts[1:]

	if handler, ok := r.commands[command]; ok {
		return handler(args)
	}

	// four bare numbers are a solve
	if len(parts) == 4 {
		return r.cmdSolve(parts)
	}

	yellow := color.New(color.FgYellow).SprintFunc()
	fmt.Fprintf(r.out, "%s Unknown command %q. Use 'help' for available commands.\n", yellow("Note:"), parts[0])
	return nil
}

// registerCommands registers all built-in commands
func (r *REPL) registerCommands() {
	r.commands["solve"] = r.cmdSolve
	r.commands["neg"] = r.cmdNegative
	r.commands["all"] = r.cmdAll
	r.commands["history"] = r.cmdHistory
	r.commands["show"] = r.cmdShow
	r.commands["config"] = r.cmdConfig
	r.commands["help"] = r.cmdHelp
	r.commands["?"] = r.cmdHelp
	r.commands["exit"] = r.cmdExit
	r.commands["quit"] = r.cmdExit
}

func (r *REPL) completer() *readline.PrefixCompleter {
	return readline.NewPrefixCompleter(
		readline.PcItem("solve"),
		readline.PcItem("neg"),
		readline.PcItem("all"),
		readline.PcItem("history"),
		readline.PcItem("show"),
		readline.PcItem("config"),
		readline.PcItem("help"),
		readline.PcItem("exit"),
	)
}

// printWelcome prints the welcome message
func (r *REPL) printWelcome() {
	cyan := color.New(color.FgCyan, color.Bold).SprintFunc()
	fmt.Fprintf(r.out, "\n%s\n", cyan("cubic - real roots of a·x³ − b·x² + c·x + d"))
	fmt.Fprintln(r.out)
	fmt.Fprintln(r.out, "Type 'solve' to enter coefficients, 'help' for commands, 'exit' to quit")
	fmt.Fprintln(r.out)
}

// cmdHelp shows help information
func (r *REPL) cmdHelp(args []string) error {
	cyan := color.New(color.FgCyan, color.Bold).SprintFunc()
	green := color.New(color.FgGreen).SprintFunc()
	fmt.Fprintf(r.out, "\n%s\n\n", cyan("Available Commands:"))

	commands := []struct {
		name string
		desc string
	}{
		{"solve [a b c d]", "Find negative and all roots (prompts when no arguments)"},
		{"a b c d", "Same as solve a b c d"},
		{"neg a b c d", "Find negative roots only"},
		{"all a b c d", "Find all roots only"},
		{"history [n]", "Show the last n recorded solves (default 10)"},
		{"show <id>", "Show a recorded solve by ID or ID prefix"},
		{"config", "Show the scan configuration"},
		{"help, ?", "Show this help message"},
		{"exit, quit", "Exit the REPL"},
	}

	for _, cmd := range commands {
		fmt.Fprintf(r.out, "  %-18s %s\n", green(cmd.name), cmd.desc)
	}

	fmt.Fprintln(r.out)
	fmt.Fprintln(r.out, "Coefficients accept '.' or ',' as the decimal separator.")
	fmt.Fprintln(r.out)
	return nil
}

// cmdExit exits the REPL
func (r *REPL) cmdExit(args []string) error {
	green := color.New(color.FgGreen).SprintFunc()
	fmt.Fprintf(r.out, "\n%s Goodbye!\n", green("✓"))
	return errExit
}
