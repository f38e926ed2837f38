// Package cli implements the vibe-writer CLI commands.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/rcliao/vibe-writer/internal/config"
	"github.com/rcliao/vibe-writer/internal/generate"
	"github.com/rcliao/vibe-writer/internal/logger"
	"github.com/rcliao/vibe-writer/internal/metrics"
	"github.com/rcliao/vibe-writer/internal/service"
	"github.com/rcliao/vibe-writer/internal/store"
)

var (
	configFile  string
	projectFlag string
)

// RootCmd is the top-level command.
var RootCmd = &cobra.Command{
	Use:   "vibe-writer",
	Short: "Writing assistant backend",
	Long:  "Edit history, story memory and AI completions for long-form writing. Serve it over HTTP or drive it from the shell.",
}

func init() {
	pf := RootCmd.PersistentFlags()
	pf.StringVar(&configFile, "config", "", "Config file (default: config.{toml,yaml,json} in . or ./config)")
	pf.StringVarP(&projectFlag, "project", "p", "default", "Project name")
	pf.String("backend", "", "Storage backend: file, sqlite, redis, memory")
	pf.String("dir", "", "Project directory for the file backend")
	pf.Bool("debug", false, "Debug logging")
	pf.Bool("json-log", false, "Log as JSON")
}

// bindings maps persistent flags onto config keys.
var bindings = map[string]string{
	"backend":  "storage.backend",
	"dir":      "storage.dir",
	"debug":    "log.debug",
	"json-log": "log.json",
	"listen":   "server.listen",
}

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	v, err := config.InitViper(configFile)
	if err != nil {
		return nil, err
	}
	bindFlags(cmd, v)
	return config.Load(v)
}

func bindFlags(cmd *cobra.Command, v *viper.Viper) {
	for name, key := range bindings {
		if f := cmd.Flags().Lookup(name); f != nil {
			v.BindPFlag(key, f)
		}
	}
}

func newLogger(cfg *config.Config, w io.Writer) *slog.Logger {
	return logger.New(
		logger.WithDebug(cfg.Log.Debug),
		logger.WithJSON(cfg.Log.JSON),
		logger.WithPretty(cfg.Log.Pretty),
		logger.WithWriter(w),
	)
}

func newGenerator(cfg *config.Config, log *slog.Logger) generate.Generator {
	client := generate.NewOpenAIClient(cfg.LLM.BaseURL, cfg.LLM.APIKey, cfg.LLM.Model, cfg.LLM.Timeout)
	return generate.NewRetrying(client, cfg.LLM.MaxRetries, log)
}

type app struct {
	cfg     *config.Config
	svc     *service.Service
	backend store.Backend
	log     *slog.Logger
	logFile *os.File
}

func (a *app) Close() error {
	if a.logFile != nil {
		a.logFile.Close()
	}
	return a.backend.Close()
}

// openApp wires config, logging, storage and the service. Logs go to stderr
// so command output on stdout stays machine-readable; a non-empty logFile
// also receives every record as JSON.
func openApp(cmd *cobra.Command, m *metrics.Metrics, logFile string) (*app, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	a := &app{cfg: cfg, log: newLogger(cfg, cmd.ErrOrStderr())}

	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, fmt.Errorf("open log file: %w", err)
		}
		a.logFile = f
		a.log = logger.Multi(a.log, logger.New(
			logger.WithJSON(true),
			logger.WithDebug(cfg.Log.Debug),
			logger.WithWriter(f),
		))
	}

	backend, err := store.Open(cmd.Context(), cfg.StoreOptions())
	if err != nil {
		if a.logFile != nil {
			a.logFile.Close()
		}
		return nil, fmt.Errorf("open store: %w", err)
	}
	a.backend = backend
	a.svc = service.New(backend, cfg.ServiceConfig(),
		service.WithGenerator(newGenerator(cfg, a.log)),
		service.WithMetrics(m),
		service.WithLogger(a.log),
	)
	return a, nil
}

func mustOpenApp(cmd *cobra.Command) *app {
	a, err := openApp(cmd, nil, "")
	if err != nil {
		exitErr("open", err)
	}
	return a
}

// readInput joins args, falling back to piped stdin.
func readInput(cmd *cobra.Command, args []string) (string, error) {
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}
	in := cmd.InOrStdin()
	if f, ok := in.(*os.File); ok {
		stat, err := f.Stat()
		if err != nil || stat.Mode()&os.ModeCharDevice != 0 {
			return "", nil
		}
	}
	b, err := io.ReadAll(in)
	if err != nil {
		return "", fmt.Errorf("read stdin: %w", err)
	}
	return string(b), nil
}

func printJSON(cmd *cobra.Command, v any) {
	b, _ := json.MarshalIndent(v, "", "  ")
	fmt.Fprintln(cmd.OutOrStdout(), string(b))
}

func exitErr(msg string, err error) {
	fmt.Fprintf(os.Stderr, "error: %s: %v\n", msg, err)
	os.Exit(1)
}

// Execute runs RootCmd under ctx.
func Execute(ctx context.Context) error {
	return RootCmd.ExecuteContext(ctx)
}
