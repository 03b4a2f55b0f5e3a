// Command vhead renders, applies and previews head declarations.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/vango-dev/vhead/internal/config"
	"github.com/vango-dev/vhead/internal/errors"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	app := newApp(os.Stdout, os.Stderr)
	if err := app.root().Execute(); err != nil {
		errors.Print(os.Stderr, err)
		os.Exit(1)
	}
}

// app holds what every command shares: output streams, the resolved
// config and the logger.
type app struct {
	v      *viper.Viper
	out    io.Writer
	errOut io.Writer

	cfg    *config.Config
	logger *slog.Logger
}

func newApp(out, errOut io.Writer) *app {
	v := viper.New()
	v.SetEnvPrefix("VHEAD")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	return &app{v: v, out: out, errOut: errOut}
}

func (a *app) root() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "vhead",
		Short: "Document head management for Go",
		Long: `vhead merges nested head declarations (title, meta, link, script,
style, noscript, base and html/body attributes) into one head.

Declarations live in JSON or YAML files, outermost first. Later files
nest deeper and win.

Settings come from flags, then VHEAD_* environment variables, then
vhead.json or vhead.yaml.

Examples:
  vhead render layout.yaml pages/home.yaml
  vhead apply index.html pages/home.yaml -w
  vhead serve pages/*.yaml`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Name() == "version" || cmd.Name() == "init" {
				return nil
			}
			return a.setup()
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringP("config", "c", "", "config file (default vhead.json or vhead.yaml)")
	flags.String("log-level", "", "log level (debug, info, warn, error)")
	flags.String("log-format", "", "log format (text, json)")
	_ = a.v.BindPFlag("config", flags.Lookup("config"))
	_ = a.v.BindPFlag("log.level", flags.Lookup("log-level"))
	_ = a.v.BindPFlag("log.format", flags.Lookup("log-format"))

	cmd.AddCommand(
		a.renderCmd(),
		a.applyCmd(),
		a.serveCmd(),
		a.initCmd(),
		a.versionCmd(),
	)
	return cmd
}

// setup resolves the config (file, then environment, then flags) and
// builds the logger.
func (a *app) setup() error {
	cfg, err := a.loadConfig()
	if err != nil {
		return err
	}

	if a.v.IsSet("log.level") {
		cfg.Log.Level = a.v.GetString("log.level")
	}
	if a.v.IsSet("log.format") {
		cfg.Log.Format = a.v.GetString("log.format")
	}
	if a.v.IsSet("preview.port") {
		cfg.Preview.Port = a.v.GetInt("preview.port")
	}
	if a.v.IsSet("preview.host") {
		cfg.Preview.Host = a.v.GetString("preview.host")
	}
	if a.v.IsSet("preview.watch") {
		cfg.Preview.Watch = a.v.GetBool("preview.watch")
	}
	if a.v.IsSet("preview.debounce") {
		cfg.Preview.Debounce = a.v.GetString("preview.debounce")
	}

	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, err := newLogger(a.errOut, cfg.Log)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.logger = logger
	return nil
}

func (a *app) loadConfig() (*config.Config, error) {
	if path := a.v.GetString("config"); path != "" {
		return config.LoadFile(path)
	}
	if config.Exists(".") {
		return config.Load(".")
	}
	return config.New(), nil
}

func newLogger(w io.Writer, lc config.LogConfig) (*slog.Logger, error) {
	var level slog.Level
	if lc.Level != "" {
		if err := level.UnmarshalText([]byte(lc.Level)); err != nil {
			return nil, errors.New("H403").WithDetail(fmt.Sprintf("unknown log level %q", lc.Level))
		}
	}
	opts := &slog.HandlerOptions{Level: level}

	switch strings.ToLower(lc.Format) {
	case "", "text":
		return slog.New(slog.NewTextHandler(w, opts)), nil
	case "json":
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	}
	return nil, errors.New("H403").WithDetail(fmt.Sprintf("unknown log format %q", lc.Format))
}

// success prints a success message.
func (a *app) success(format string, args ...any) {
	fmt.Fprintf(a.errOut, "\033[32m✓\033[0m %s\n", fmt.Sprintf(format, args...))
}

// info prints an info message.
func (a *app) info(format string, args ...any) {
	fmt.Fprintf(a.errOut, "  %s\n", fmt.Sprintf(format, args...))
}
