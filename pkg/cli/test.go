package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/devicelab-dev/todo-e2e/pkg/capabilities"
	"github.com/devicelab-dev/todo-e2e/pkg/config"
	"github.com/devicelab-dev/todo-e2e/pkg/core"
	appiumdriver "github.com/devicelab-dev/todo-e2e/pkg/driver/appium"
	"github.com/devicelab-dev/todo-e2e/pkg/driver/mock"
	"github.com/devicelab-dev/todo-e2e/pkg/locators"
	"github.com/devicelab-dev/todo-e2e/pkg/logger"
	"github.com/devicelab-dev/todo-e2e/pkg/report"
	"github.com/devicelab-dev/todo-e2e/pkg/suite"
)

var testCommand = &cli.Command{
	Name:  "test",
	Usage: "Run the Todo app scenarios",
	Description: `Run the Todo app scenarios, each in a fresh Appium session.

Reports are generated in the output directory:
  - Default: <home>/reports/<timestamp>/
  - With --output: <output>/<timestamp>/
  - With --output and --flatten: <output>/ (no timestamp subfolder)

Examples:
  todo-e2e test
  todo-e2e --platform ios test --only id1,id2
  todo-e2e --device any test --output ./out --flatten
  todo-e2e test --simulate`,
	Flags: []cli.Flag{
		&cli.StringSliceFlag{
			Name:  "only",
			Usage: "Run only these test case ids (e.g. id1,id3)",
		},
		&cli.StringFlag{
			Name:  "output",
			Usage: "Output directory for reports",
		},
		&cli.BoolFlag{
			Name:  "flatten",
			Usage: "Don't create timestamp subfolder (requires --output)",
		},
		&cli.BoolFlag{
			Name:  "simulate",
			Usage: "Run against an in-memory Todo app instead of Appium",
		},
	},
	Action: runTest,
}

// RunConfig holds everything a test run needs.
type RunConfig struct {
	Platform  capabilities.Platform
	Device    string
	OutputDir string
	Only      []string
	Simulate  bool
	Config    *config.Config
}

func runTest(c *cli.Context) error {
	platform, err := capabilities.ParsePlatform(c.String("platform"))
	if err != nil {
		return err
	}
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	outputDir, err := resolveOutputDir(c.String("output"), c.Bool("flatten"), time.Now())
	if err != nil {
		return err
	}

	return executeTest(c, &RunConfig{
		Platform:  platform,
		Device:    c.String("device"),
		OutputDir: outputDir,
		Only:      c.StringSlice("only"),
		Simulate:  c.Bool("simulate"),
		Config:    cfg,
	})
}

// resolveOutputDir determines the output directory based on flags.
// - No --output: <home>/reports/<timestamp>/
// - --output given: <output>/<timestamp>/
// - --output + --flatten: <output>/ (error if --output not given)
func resolveOutputDir(output string, flatten bool, now time.Time) (string, error) {
	if flatten && output == "" {
		return "", fmt.Errorf("--flatten requires --output to be specified")
	}

	baseDir := output
	if baseDir == "" {
		baseDir = config.GetReportsDir()
	}

	if flatten {
		return filepath.Clean(baseDir), nil
	}

	return filepath.Join(baseDir, now.Format("2006-01-02_15-04-05")), nil
}

func executeTest(c *cli.Context, rc *RunConfig) error {
	w := c.App.Writer

	scenarios, err := suite.Select(suite.All(), rc.Only)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(rc.OutputDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	if c.String("log-file") == "" {
		logPath := filepath.Join(rc.OutputDir, "todo-e2e.log")
		if err := logger.Init(logPath, c.Bool("verbose")); err != nil {
			fmt.Fprintf(c.App.ErrWriter, "Warning: Failed to initialize logger: %v\n", err)
		}
	}

	logger.Info("=== Test execution started ===")
	logger.Info("Output directory: %s", rc.OutputDir)
	logger.Info("Platform: %s", rc.Platform)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	set, err := locators.For(rc.Platform)
	if err != nil {
		return err
	}

	builder := capabilities.NewBuilder(rc.Config, nil)
	caps, err := builder.Build(ctx, rc.Platform.String(), rc.Device)
	if err != nil {
		return err
	}
	deviceID := caps.String(capabilities.DeviceName)
	remoteURL := builder.RemoteURL(rc.Platform)

	var newSession suite.SessionFactory
	if rc.Simulate {
		remoteURL = "simulator"
		newSession = simulatedSessions(set)
	} else {
		newSession = appiumSessions(remoteURL, caps)
	}

	runner := suite.NewRunner(rc.Platform, set, newSession, rc.Config.WaitTimeout())
	runner.Artifacts = &report.AssetWriter{Dir: rc.OutputDir}
	runner.OnStart = func(s suite.Scenario) { printScenarioStart(w, s) }
	runner.OnResult = func(sr suite.ScenarioResult) {
		if sr.Status == core.StatusSkipped {
			printScenarioStart(w, suite.Scenario{ID: sr.ID, Name: sr.Name})
		}
		printScenarioResult(w, sr)
	}

	printHeader(w, rc.Platform.String(), deviceID, remoteURL, len(scenarios))
	res := runner.Run(ctx, scenarios)

	reportPath, err := report.Write(rc.OutputDir, res, report.Meta{
		DeviceID:      deviceID,
		RunnerVersion: Version,
		RemoteURL:     remoteURL,
		Capabilities:  caps.AsMap(),
	})
	if err != nil {
		logger.Error("writing report: %v", err)
		fmt.Fprintf(c.App.ErrWriter, "Warning: Failed to write report: %v\n", err)
	}
	printSummary(w, res, reportPath)
	logger.Info("=== Test execution finished: %+v ===", res.Summary)

	if ctx.Err() != nil {
		return errors.New("interrupted")
	}
	if !res.Success() {
		return fmt.Errorf("%d scenario(s) failed, %d errored", res.Summary.Failed, res.Summary.Errored)
	}
	return nil
}

// appiumSessions opens a new Appium session per scenario with caps.
func appiumSessions(remoteURL string, caps *capabilities.Capabilities) suite.SessionFactory {
	return func(ctx context.Context) (suite.Session, error) {
		client := appiumdriver.NewClient(remoteURL)
		if err := client.Connect(caps.AsMap()); err != nil {
			return nil, sessionError(remoteURL, err)
		}
		logger.Info("Appium session %s started", client.SessionID())
		return client, nil
	}
}

func sessionError(remoteURL string, err error) error {
	var werr *appiumdriver.Error
	if errors.As(err, &werr) {
		return core.ErrSessionNotCreated.WithMessage(fmt.Sprintf("session not created at %s", remoteURL)).WithCause(err)
	}
	return core.ErrServerUnreachable.WithMessage(fmt.Sprintf("could not reach Appium at %s", remoteURL)).WithCause(err)
}

// simulatedSessions opens in-memory Todo app sessions.
func simulatedSessions(set *locators.Set) suite.SessionFactory {
	return func(ctx context.Context) (suite.Session, error) {
		app := mock.New(set, mock.Config{})
		if err := app.Connect(nil); err != nil {
			return nil, err
		}
		return app, nil
	}
}
