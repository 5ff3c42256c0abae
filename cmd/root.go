package cmd

import (
	"context"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/f4hrenh9it/go-testrail/config"
	"github.com/f4hrenh9it/go-testrail/integration"
	"github.com/f4hrenh9it/go-testrail/report"
)

var version string

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	version = v
}

type rootOptions struct {
	configFiles []string
	defines     []string
	logLevel    string

	fs     afero.Fs
	getenv func(string) string
}

func defaultOptions() *rootOptions {
	return &rootOptions{fs: afero.NewOsFs(), getenv: os.Getenv}
}

func newRootCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "go-testrail",
		Short: "Run API features and report their results to TestRail",
		Long: `go-testrail runs BDD API features through an external feature runner,
then pushes the per case outcome of a CI build into a TestRail run named after
the build.`,
		SilenceUsage: true,
	}
	flags := cmd.PersistentFlags()
	flags.StringArrayVarP(&opts.configFiles, "config", "c", []string{config.DefaultConfigFile}, "properties file, repeatable, later files win")
	flags.StringArrayVarP(&opts.defines, "define", "D", nil, "property override as key=value, repeatable")
	flags.StringVar(&opts.logLevel, "log-level", "info", "logging level (debug, info, warn, error)")

	cmd.AddCommand(newRunCmd(opts))
	cmd.AddCommand(newSyncCmd(opts))
	cmd.AddCommand(newTagsCmd(opts))
	cmd.AddCommand(newVersionCmd())
	return cmd
}

// Execute runs the root command and exits non-zero on error.
func Execute() {
	if err := newRootCmd(defaultOptions()).Execute(); err != nil {
		os.Exit(1)
	}
}

func (o *rootOptions) logger() *zap.SugaredLogger {
	return integration.NewLogger(o.logLevel)
}

func parseDefines(defines []string) (map[string]string, error) {
	out := map[string]string{}
	for _, d := range defines {
		k, v, ok := strings.Cut(d, "=")
		if !ok || strings.TrimSpace(k) == "" {
			return nil, fmt.Errorf("invalid define %q, expected key=value", d)
		}
		out[strings.TrimSpace(k)] = v
	}
	return out, nil
}

func (o *rootOptions) properties(ctx context.Context, l *zap.SugaredLogger) (*config.Properties, error) {
	overrides, err := parseDefines(o.defines)
	if err != nil {
		return nil, err
	}
	return config.Load(ctx, o.configFiles, overrides, config.VaultFromProperties, l)
}

// syncer loads a fresh configuration and wires a Syncer reading reports from
// the configured directory.
func (o *rootOptions) syncer(ctx context.Context, l *zap.SugaredLogger) (*integration.Syncer, error) {
	props, err := o.properties(ctx, l)
	if err != nil {
		return nil, err
	}
	caseTag, err := regexp.Compile(props.GetString(config.TestRailCaseTag, report.DefaultCaseTag))
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %w", config.TestRailCaseTag, err)
	}
	store := report.NewStore(o.fs, props.GetString(config.JSONReportDir, config.DefaultReportDir), caseTag, l)
	connect := integration.Connect(props.GetInt(config.TestRailRetries, 0), l)
	return integration.NewSyncer(props, store, connect, l, integration.WithGetenv(o.getenv)), nil
}

// update is the post-run hook: it only synchronizes on CI builds.
func (o *rootOptions) update(ctx context.Context, l *zap.SugaredLogger) error {
	return integration.Update(ctx, o.getenv, func() (*integration.Syncer, error) {
		return o.syncer(ctx, l)
	})
}
