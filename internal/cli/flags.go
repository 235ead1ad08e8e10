package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/wesleyorama2/catbench/internal/config"
	"github.com/wesleyorama2/catbench/internal/http"
	"github.com/wesleyorama2/catbench/internal/output"
)

// resolveConfig loads the --config file (or the defaults) and applies every
// flag the user set explicitly on top of it.
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.Default()

	path, _ := cmd.Flags().GetString("config")
	if path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	changed := func(name string) bool {
		f := flags.Lookup(name)
		return f != nil && f.Changed
	}

	if changed("base-url") {
		cfg.BaseURL, _ = flags.GetString("base-url")
	}
	if changed("reset-file") {
		cfg.ResetFile, _ = flags.GetString("reset-file")
	}
	if changed("skip-reset") {
		cfg.SkipReset, _ = flags.GetBool("skip-reset")
	}
	if changed("name-length") {
		cfg.NameLength, _ = flags.GetInt("name-length")
	}
	if changed("seed") {
		cfg.Seed, _ = flags.GetUint64("seed")
	}
	if changed("timeout") {
		timeout, _ := flags.GetDuration("timeout")
		cfg.Timeout = config.Duration(timeout)
	}
	if changed("iterations") {
		cfg.Iterations, _ = flags.GetInt("iterations")
	}
	if changed("user-agent") {
		cfg.UserAgent, _ = flags.GetString("user-agent")
	}
	if changed("header") {
		headers, _ := flags.GetStringArray("header")
		if cfg.Headers == nil {
			cfg.Headers = make(map[string]string, len(headers))
		}
		for _, header := range headers {
			parts := strings.SplitN(header, ":", 2)
			if len(parts) != 2 {
				return nil, fmt.Errorf("invalid --header %q (want \"Name: value\")", header)
			}
			cfg.Headers[strings.TrimSpace(parts[0])] = strings.TrimSpace(parts[1])
		}
	}
	if changed("format") {
		cfg.Output.Format, _ = flags.GetString("format")
	}
	if changed("verbose") {
		cfg.Output.Verbose, _ = flags.GetBool("verbose")
	}
	if changed("no-color") {
		cfg.Output.NoColor, _ = flags.GetBool("no-color")
	}
	if changed("log-level") {
		cfg.Log.Level, _ = flags.GetString("log-level")
	}
	if changed("log-format") {
		cfg.Log.Format, _ = flags.GetString("log-format")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	setupLogging(cfg.Log, cmd.ErrOrStderr())
	return cfg, nil
}

// setupLogging points the global logger at w in the configured format.
func setupLogging(cfg config.LogConfig, w io.Writer) {
	level, err := zerolog.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if strings.ToLower(cfg.Format) == "json" {
		log.Logger = zerolog.New(w).With().Timestamp().Logger()
		return
	}
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: w, TimeFormat: "15:04:05", NoColor: !output.IsTerminal(w)})
}

// newClient builds the catalog client for cfg.
func newClient(cfg *config.Config) *http.Client {
	options := []http.ClientOption{
		http.WithBaseURL(cfg.BaseURL),
		http.WithTimeout(cfg.Timeout.Std()),
		http.WithUserAgent(cfg.UserAgent),
	}
	for name, value := range cfg.Headers {
		options = append(options, http.WithHeader(name, value))
	}
	return http.NewClient(options...)
}

func addTargetFlags(cmd *cobra.Command) {
	cmd.Flags().String("base-url", config.DefaultBaseURL, "Catalog base URL every endpoint is appended to")
	cmd.Flags().DurationP("timeout", "t", 0, "Per-call timeout; 0 disables it (a timeout changes what is measured)")
	cmd.Flags().String("user-agent", "", "User-Agent header sent with every request")
	cmd.Flags().StringArrayP("header", "H", []string{}, "HTTP headers to include (can be used multiple times)")
	cmd.Flags().BoolP("verbose", "v", false, "Enable verbose output")
	cmd.Flags().Bool("no-color", false, "Disable colored output")
}
