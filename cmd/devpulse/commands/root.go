package commands

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"devpulse/internal/cache"
	"devpulse/internal/config"
	"devpulse/internal/logging"
	"devpulse/internal/stats"
)

var (
	// Version, Commit, and BuildDate are set at build time via ldflags.
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"

	verbose bool
	cfg     *config.AppConfig

	service *stats.Service
)

var rootCmd = &cobra.Command{
	Use:   "devpulse",
	Short: "devpulse aggregates work-item activity into dashboard statistics",
	Long: `devpulse turns raw provider records (GitHub/GitLab pull requests, Jira issues)
into date-bucketed engineering statistics: item counts, monthly activity,
sprint velocity and resolution times.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logging.Init(verbose)

		var err error
		cfg, err = config.Load()
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to load configuration")
		}

		service = stats.NewService(cache.New(), cfg)

		log.Info().
			Str("version", Version).
			Str("commit", Commit).
			Str("buildDate", BuildDate).
			Msg("devpulse starting")
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
}
