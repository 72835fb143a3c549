// Package cli implements the aushadhi command-line front end: one
// subcommand per screening screen, each mounting a page view-model for a
// single load.
package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/aushadhiai/screening-console/internal/application/viewmodel"
	"github.com/aushadhiai/screening-console/internal/config"
	"github.com/aushadhiai/screening-console/internal/domain/ranking"
	"github.com/aushadhiai/screening-console/internal/infrastructure/monitoring/logging"
	"github.com/aushadhiai/screening-console/pkg/client"
	"github.com/aushadhiai/screening-console/pkg/errors"
)

// Build-time variables injected via ldflags.
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Output formats.
const (
	OutputText  = "text"
	OutputJSON  = "json"
	OutputTable = "table"
)

// cliContextKey is the context key for CLIContext.
type cliContextKey struct{}

// RootOptions holds global CLI flags.
type RootOptions struct {
	ConfigPath   string
	APIURL       string
	LogLevel     string
	OutputFormat string
	NoColor      bool
	Timeout      time.Duration
}

// CLIContext carries initialised dependencies through the command tree.
type CLIContext struct {
	Config       *config.Config
	Logger       logging.Logger
	Backend      viewmodel.Backend
	Collation    *ranking.Collation
	OutputFormat string
	NoColor      bool
}

// NewRootCommand creates the root command with its global flags and the
// screen subcommands.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "aushadhi",
		Short: "AushadhiAI screening console",
		Long: "aushadhi queries the AushadhiAI screening service: candidate targets for a disease,\n" +
			"molecular hits with their potency, alternate structures and evaluation reports.",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", Version, GitCommit, BuildDate),
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return persistentPreRun(cmd, opts)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := cmd.PersistentFlags()
	pf.StringVarP(&opts.ConfigPath, "config", "c", "", "config file path (YAML)")
	pf.StringVar(&opts.APIURL, "api-url", "", "screening service base URL (overrides config and environment)")
	pf.StringVar(&opts.LogLevel, "log-level", "", "log level (debug, info, warn, error)")
	pf.StringVarP(&opts.OutputFormat, "output", "o", OutputText, "output format (text, json, table)")
	pf.BoolVar(&opts.NoColor, "no-color", false, "disable colored output")
	pf.DurationVar(&opts.Timeout, "timeout", 0, "per-request timeout (default from config)")

	cmd.AddCommand(
		newTargetsCmd(),
		newHitsCmd(),
		newAlternatesCmd(),
		newEvaluateCmd(),
	)
	return cmd
}

// persistentPreRun initialises config, logger and client, then stores the
// CLIContext on the command.
func persistentPreRun(cmd *cobra.Command, opts *RootOptions) error {
	switch opts.OutputFormat {
	case OutputText, OutputJSON, OutputTable:
	default:
		return errors.InvalidParam("unsupported output format: " + opts.OutputFormat)
	}

	cfg, err := initConfig(opts)
	if err != nil {
		return err
	}

	logger, err := initLogger(cfg)
	if err != nil {
		return err
	}

	collation, err := ranking.NewCollation(cfg.Ranking.Locale)
	if err != nil {
		return err
	}

	apiClient, err := initClient(cfg, logger)
	if err != nil {
		return err
	}

	cliCtx := &CLIContext{
		Config:       cfg,
		Logger:       logger,
		Backend:      apiClient,
		Collation:    collation,
		OutputFormat: opts.OutputFormat,
		NoColor:      opts.NoColor,
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(context.WithValue(ctx, cliContextKey{}, cliCtx))
	return nil
}

// initConfig loads configuration with priority: flags > env > file > defaults.
func initConfig(opts *RootOptions) (*config.Config, error) {
	var loadOpts []config.LoadOption
	if opts.ConfigPath != "" {
		loadOpts = append(loadOpts, config.WithConfigPath(opts.ConfigPath))
	}
	cfg, err := config.Load(loadOpts...)
	if err != nil {
		return nil, err
	}
	if opts.APIURL != "" {
		cfg.API.BaseURL = opts.APIURL
	}
	if opts.Timeout > 0 {
		cfg.API.Timeout = opts.Timeout
	}
	if opts.LogLevel != "" {
		level, err := logging.ParseLevel(opts.LogLevel)
		if err != nil {
			return nil, err
		}
		cfg.Log.Level = level
	}
	return cfg, nil
}

// initLogger creates a console logger on stderr so stdout stays parseable.
func initLogger(cfg *config.Config) (logging.Logger, error) {
	return logging.NewLogger(logging.LogConfig{
		Level:            cfg.Log.Level,
		Format:           "console",
		OutputPaths:      []string{"stderr"},
		ErrorOutputPaths: []string{"stderr"},
	})
}

// initClient creates the screening client from configuration.
func initClient(cfg *config.Config, logger logging.Logger) (*client.Client, error) {
	clientOpts := []client.Option{
		client.WithTimeout(cfg.API.Timeout),
		client.WithLogger(logging.Printf(logger.Named("client"))),
	}
	if cfg.API.UserAgent != "" {
		clientOpts = append(clientOpts, client.WithUserAgent(cfg.API.UserAgent))
	}
	for k, v := range cfg.API.Headers {
		clientOpts = append(clientOpts, client.WithHeader(k, v))
	}
	return client.NewClient(cfg.API.BaseURL, clientOpts...)
}

// GetCLIContext extracts CLIContext from a command's context.
func GetCLIContext(cmd *cobra.Command) (*CLIContext, error) {
	ctx := cmd.Context()
	if ctx == nil {
		return nil, errors.Internal("command context is nil")
	}
	cliCtx, ok := ctx.Value(cliContextKey{}).(*CLIContext)
	if !ok || cliCtx == nil {
		return nil, errors.Internal("CLIContext not found in command context")
	}
	return cliCtx, nil
}

// Execute runs the root command with ctx and prints any error to stderr.
func Execute(ctx context.Context) error {
	rootCmd := NewRootCommand()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		PrintError(rootCmd, err)
		return err
	}
	return nil
}

// PrintError writes a formatted error message to stderr.
func PrintError(cmd *cobra.Command, err error) {
	if err == nil {
		return
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "Error: %s\n", err.Error())
}

// FormatTable renders headers and rows as an aligned table.
func FormatTable(headers []string, rows [][]string) string {
	if len(headers) == 0 {
		return ""
	}
	var sb strings.Builder
	table := tablewriter.NewWriter(&sb)
	table.Header(headers)
	for _, row := range rows {
		padded := make([]string, len(headers))
		copy(padded, row)
		table.Append(padded)
	}
	table.Render()
	return sb.String()
}
