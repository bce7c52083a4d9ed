package cmd

import (
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/lmittmann/tint"
	"github.com/spf13/cobra"

	"github.com/artifact-narrator/narrator/internal/config"
	"github.com/artifact-narrator/narrator/internal/locale"
)

// options are the global flags shared by every subcommand
type options struct {
	configPath string
	baseURL    string
	timeout    time.Duration
	locale     string
	verbose    bool

	cfg config.Config
}

func NewRootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "narrator",
		Short: "Recognize artifacts in photos and generate their narration",
		Long: `Narrator uploads a photo of a historical artifact to a recognition service,
then asks a narration service to describe the recognized artifact and its era.

Results can be shown in the terminal (narrate) or in a local web page (serve).`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Load .env file if present (ignore errors)
			_ = godotenv.Load()
			setupLogger(opts.verbose)
			return opts.load(cmd)
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "Path to a YAML config file")
	flags.StringVar(&opts.baseURL, "base-url", "", "Base URL of the recognition and narration services (default "+config.DefaultBaseURL+")")
	flags.DurationVar(&opts.timeout, "timeout", config.DefaultTimeout, "Timeout for each backend request (0 disables)")
	flags.StringVar(&opts.locale, "locale", "", "Language of labels and messages (zh or en)")
	flags.BoolVar(&opts.verbose, "verbose", false, "Verbose logging")

	cmd.AddCommand(newNarrateCmd(opts))
	cmd.AddCommand(newServeCmd(opts))

	return cmd
}

// load resolves the configuration; flags win over env, file and defaults
func (o *options) load(cmd *cobra.Command) error {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("base-url") {
		cfg.BaseURL = o.baseURL
	}
	if flags.Changed("timeout") {
		cfg.Timeout = o.timeout
	}
	if flags.Changed("locale") {
		cfg.Locale = locale.Locale(o.locale)
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	slog.Debug("Configuration loaded", "base_url", cfg.BaseURL, "timeout", cfg.Timeout, "locale", cfg.Locale)
	o.cfg = cfg
	return nil
}

func setupLogger(verbose bool) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(
		tint.NewHandler(os.Stderr, &tint.Options{
			Level:      level,
			TimeFormat: "15:04:05",
		}),
	))
}
