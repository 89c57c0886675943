package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	pathpkg "path/filepath"
	"runtime/pprof"

	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/x/term"
	"github.com/spf13/cobra"

	"udondis/internal/config"
	"udondis/internal/disasm"
	"udondis/internal/program"
	"udondis/internal/udondis/log"
)

// settings is the configuration loaded before any command runs.
var settings = config.Default()

func init() {
	rootCmd.PersistentFlags().StringP("cwd", "c", "", "Current working directory")
	rootCmd.PersistentFlags().String("config", "", "Config file (default $UDONDIS_CONFIG or ./"+config.FileName+")")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "Debug")

	rootCmd.Flags().BoolP("help", "h", false, "Help")
	rootCmd.Flags().BoolP("no-tui", "n", false, "Print the listing without the TUI")
	rootCmd.Flags().BoolP("json", "j", false, "Output the listing as JSON")
	rootCmd.Flags().BoolP("markdown", "m", false, "Output the listing as a markdown report")
	rootCmd.Flags().String("cpuprofile", "", "Write CPU profile to file")
	rootCmd.Flags().String("memprofile", "", "Write memory profile to file")

	rootCmd.AddCommand(heapCmd, dumpCmd, convertCmd, schemaCmd)
}

var rootCmd = &cobra.Command{
	Use:   "udondis <program>",
	Short: "Disassembler for Udon VM programs",
	Long: `Udondis disassembles the bytecode of a Udon VM program.
It lists the heap variables and the instructions of a program dump, either in
an interactive TUI or as plain text, markdown or JSON.`,
	Example: `
# Inspect a program in the TUI
udondis program.json

# Print the listing without the TUI
udondis -n program.toml

# Machine readable listing
udondis --json program.cbor
  `,
	Args:              cobra.ExactArgs(1),
	PersistentPreRunE: setup,
	RunE: func(cmd *cobra.Command, args []string) error {
		cpuprofile, _ := cmd.Flags().GetString("cpuprofile")
		if cpuprofile != "" {
			f, err := os.Create(cpuprofile)
			if err != nil {
				return fmt.Errorf("could not create CPU profile: %v", err)
			}
			defer f.Close()
			if err := pprof.StartCPUProfile(f); err != nil {
				return fmt.Errorf("could not start CPU profile: %v", err)
			}
			defer pprof.StopCPUProfile()
		}

		memprofile, _ := cmd.Flags().GetString("memprofile")
		if memprofile != "" {
			defer func() {
				f, err := os.Create(memprofile)
				if err != nil {
					fmt.Fprintf(os.Stderr, "could not create memory profile: %v\n", err)
					return
				}
				defer f.Close()
				if err := pprof.WriteHeapProfile(f); err != nil {
					fmt.Fprintf(os.Stderr, "could not write memory profile: %v\n", err)
				}
			}()
		}

		p, err := loadProgram(args[0])
		if err != nil {
			return err
		}

		noTUI, _ := cmd.Flags().GetBool("no-tui")
		jsonOutput, _ := cmd.Flags().GetBool("json")
		markdown, _ := cmd.Flags().GetBool("markdown")

		// Piped output never gets the TUI.
		terminal := term.IsTerminal(os.Stdout.Fd())
		if !terminal {
			noTUI = true
		}

		out := cmd.OutOrStdout()
		switch {
		case jsonOutput:
			return writeJSON(out, p, settings)
		case markdown:
			return writeMarkdown(out, p, settings, settings.UseColor(terminal))
		case noTUI:
			return writePlain(out, p, settings, settings.UseColor(terminal))
		}

		tui := tea.NewProgram(
			NewModel(p, settings),
			tea.WithAltScreen(),
			tea.WithContext(cmd.Context()),
		)
		if _, err := tui.Run(); err != nil {
			slog.Error("TUI run error", "error", err)
			return fmt.Errorf("TUI error: %v", err)
		}
		return nil
	},
}

// setup changes directory, loads the config and installs the logger.
func setup(cmd *cobra.Command, args []string) error {
	if _, err := ResolveCwd(cmd); err != nil {
		return err
	}

	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	if debug, _ := cmd.Flags().GetBool("debug"); debug {
		cfg.Debug = true
	}
	settings = cfg

	log.Setup(cfg.Debug)
	if cfg.Path != "" {
		slog.Debug("Loaded config", "path", cfg.Path)
	}
	return nil
}

// loadProgram opens the program dump at file.
func loadProgram(file string) (*program.Program, error) {
	absPath, err := pathpkg.Abs(file)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve path: %v", err)
	}
	if _, err := os.Stat(absPath); err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("file not found: %s", file)
		}
		return nil, fmt.Errorf("cannot access file: %v", err)
	}

	p, err := program.Open(absPath)
	if err != nil {
		return nil, err
	}
	slog.Debug("Loaded program",
		"path", absPath,
		"bytes", len(p.ByteCode),
		"entry_points", p.EntryPoints.Len(),
		"symbols", p.Symbols.Len(),
		"heap", p.Heap.Len())
	return p, nil
}

// disasmOptions maps the config onto the disassembler.
func disasmOptions(cfg config.Config) disasm.Options {
	return disasm.Options{Unknown: cfg.Unknown}
}

func Execute() {
	// Plain modes and pipes bypass fang's markdown rendering.
	plain := false
	for _, arg := range os.Args[1:] {
		switch arg {
		case "--no-tui", "-n", "--json", "-j":
			plain = true
		}
	}
	if !plain && !term.IsTerminal(os.Stdout.Fd()) {
		plain = true
	}

	if plain {
		if err := rootCmd.Execute(); err != nil {
			os.Exit(1)
		}
		return
	}
	if err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		os.Exit(1)
	}
}

func ResolveCwd(cmd *cobra.Command) (string, error) {
	cwd, _ := cmd.Flags().GetString("cwd")
	if cwd != "" {
		err := os.Chdir(cwd)
		if err != nil {
			return "", fmt.Errorf("failed to change directory: %v", err)
		}
		return cwd, nil
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get current working directory: %v", err)
	}
	return cwd, nil
}
