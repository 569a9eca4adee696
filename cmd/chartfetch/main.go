// Package main provides chartfetch, a headless client of the COVID-19
// charting REST API.
package main

import (
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	prefixed "github.com/x-cray/logrus-prefixed-formatter"

	"github.com/cmbt/covid19-webclient/internal/config"
)

// Version is set during build via -ldflags "-X main.version=X.Y.Z"
var version = "dev"

// options holds the values of the global flags and the loaded configuration
type options struct {
	configFile string
	verbose    bool

	cfg *config.FileConfig
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		log.Error(err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:   "chartfetch",
		Short: "Request COVID-19 charts from the charting REST API",
		Long: `chartfetch builds chart request URLs, downloads rendered charts
and lists the attributes a server catalog supports.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadFileConfig(opts.configFile, cmd.Root().PersistentFlags())
			if err != nil {
				return err
			}
			opts.cfg = cfg
			initLog(cfg.Log.Level, opts.verbose)
			return nil
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&opts.configFile, "config", "", "Config file (default: ./covidchart.yaml or $HOME/.config/covidchart.yaml)")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "Log debug output")
	flags.String("server", config.DefaultServer, "Chart server host, \"localhost\" selects localhost:8000")
	flags.Bool("https", config.DefaultUseHTTPS, "Use https")
	flags.Duration("timeout", config.DefaultTimeout, "Request timeout")
	flags.Bool("probe", config.DefaultProbeServer, "Check that the server is reachable before requesting")
	flags.Bool("encode_path", config.DefaultEncodePath, "Percent-encode locations and attribute in the URL path")
	flags.String("catalog", config.DefaultCatalogVersion, "Attribute catalog version or path of a catalog YAML file")

	rootCmd.AddCommand(
		newURLCmd(opts),
		newFetchCmd(opts),
		newAttributesCmd(opts),
	)

	return rootCmd
}

func initLog(level string, verbose bool) {
	logLevel, err := log.ParseLevel(level)
	switch {
	case verbose:
		log.SetLevel(log.DebugLevel)
	case err != nil:
		log.SetLevel(log.InfoLevel)
	default:
		log.SetLevel(logLevel)
	}

	log.SetOutput(os.Stderr)

	log.SetFormatter(&prefixed.TextFormatter{
		FullTimestamp: true,
	})
}
