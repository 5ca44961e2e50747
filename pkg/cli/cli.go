// Package cli provides the command-line interface for todo-e2e.
package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/urfave/cli/v2"

	"github.com/devicelab-dev/todo-e2e/pkg/capabilities"
	"github.com/devicelab-dev/todo-e2e/pkg/config"
	"github.com/devicelab-dev/todo-e2e/pkg/logger"
)

// Version is set at build time.
var Version = "dev"

// GlobalFlags are available to all commands.
var GlobalFlags = []cli.Flag{
	&cli.StringFlag{
		Name:    "platform",
		Aliases: []string{"p"},
		Usage:   "Platform to run on (android, ios)",
		Value:   "android",
		EnvVars: []string{"TODO_E2E_PLATFORM"},
	},
	&cli.StringFlag{
		Name:    "device",
		Aliases: []string{"udid"},
		Usage:   `Device to run on; "", "any" or "any_active" auto-selects a connected device`,
		EnvVars: []string{"TODO_E2E_DEVICE"},
	},
	&cli.StringFlag{
		Name:  "config",
		Usage: "Path to config.yaml (default: ./config.yaml if present)",
	},
	&cli.BoolFlag{
		Name:    "verbose",
		Usage:   "Enable verbose logging",
		EnvVars: []string{"TODO_E2E_VERBOSE"},
	},
	&cli.StringFlag{
		Name:  "log-file",
		Usage: "Write logs to this file",
	},
	&cli.BoolFlag{
		Name:  "no-ansi",
		Usage: "Disable ANSI colors",
	},
}

// NewApp builds the CLI application.
func NewApp() *cli.App {
	return &cli.App{
		Name:    "todo-e2e",
		Usage:   "End-to-end UI tests for the Todo mobile app over Appium",
		Version: Version,
		Description: `Runs the Todo app scenarios against an Appium server, one fresh
session per scenario.

Configuration comes from defaults, then config.yaml, then environment
variables (remote_url, android_deviceName, ios_bundleId, timeout, ...).

Examples:
  todo-e2e test
  todo-e2e --platform ios test --only id1,id3
  todo-e2e --device any caps --format json
  todo-e2e devices`,
		Flags:  GlobalFlags,
		Before: before,
		After: func(c *cli.Context) error {
			logger.Close()
			return nil
		},
		Commands: []*cli.Command{
			testCommand,
			capsCommand,
			devicesCommand,
		},
	}
}

// Execute runs the CLI.
func Execute() {
	if err := NewApp().Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func before(c *cli.Context) error {
	colorsEnabled = detectColors(c.App.Writer, c.Bool("no-ansi"))

	if _, err := capabilities.ParsePlatform(c.String("platform")); err != nil {
		return err
	}

	if path := c.String("log-file"); path != "" {
		if err := logger.Init(path, c.Bool("verbose")); err != nil {
			return err
		}
	} else if c.Bool("verbose") {
		logger.InitWriter(c.App.ErrWriter, true)
	}
	return nil
}

// loadConfig resolves defaults, the config file and the environment.
func loadConfig(c *cli.Context) (*config.Config, error) {
	if path := c.String("config"); path != "" {
		return config.New(path, nil)
	}
	cfg, err := config.LoadFromDir(".")
	if err != nil {
		return nil, err
	}
	return cfg.WithEnv(os.LookupEnv)
}

// detectColors enables colors only for terminals without NO_COLOR.
func detectColors(w io.Writer, noANSI bool) bool {
	if noANSI || os.Getenv("NO_COLOR") != "" {
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
