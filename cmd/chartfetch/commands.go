package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"text/tabwriter"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/cmbt/covid19-webclient/internal/catalog"
	"github.com/cmbt/covid19-webclient/internal/chart"
	"github.com/cmbt/covid19-webclient/internal/model"
	"github.com/cmbt/covid19-webclient/internal/platform"
)

const defaultAttribute = "Cases"

// requestFlags are the chart request options shared by url and fetch
type requestFlags struct {
	attribute   string
	sinceN      uint
	lastN       uint
	logarithmic bool
	bar         bool
	source      string
}

func (rf *requestFlags) register(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVarP(&rf.attribute, "attribute", "a", defaultAttribute, "Attribute label or field, see the attributes command")
	f.UintVar(&rf.sinceN, "since", 0, "Start at the day the n-th case was reported")
	f.UintVar(&rf.lastN, "last", 0, "Only the last n days")
	f.BoolVar(&rf.logarithmic, "log", false, "Logarithmic y axis")
	f.BoolVar(&rf.bar, "bar", false, "Bar graph instead of lines")
	f.StringVar(&rf.source, "source", "", "Data source (WHO or OWID) for catalogs that support it")
	cmd.MarkFlagsMutuallyExclusive("since", "last")
}

// request assembles the chart request for locations
func (rf *requestFlags) request(cmd *cobra.Command, cat *catalog.Catalog, locations string) (model.ChartRequest, error) {
	if strings.TrimSpace(locations) == "" {
		return model.ChartRequest{}, errors.New("no locations given")
	}

	field, err := cat.Resolve(rf.attribute)
	if err != nil {
		return model.ChartRequest{}, err
	}

	dateRange := model.AllData()
	switch {
	case cmd.Flags().Changed("since"):
		if rf.sinceN == 0 {
			return model.ChartRequest{}, errors.New("--since must be positive")
		}
		dateRange = model.SinceNCases(rf.sinceN)
	case cmd.Flags().Changed("last"):
		if rf.lastN == 0 {
			return model.ChartRequest{}, errors.New("--last must be positive")
		}
		dateRange = model.LastNDays(rf.lastN)
	}

	source, err := model.ParseDataSource(rf.source)
	if err != nil {
		return model.ChartRequest{}, err
	}
	if source != model.DataSourceDefault && !cat.SupportsDataSource(source) {
		return model.ChartRequest{}, fmt.Errorf("catalog %s does not support data source %s", cat.Version(), source)
	}

	return model.ChartRequest{
		Locations: locations,
		Attribute: field,
		Range:     dateRange,
		Style:     model.PlotStyle{Logarithmic: rf.logarithmic, BarGraph: rf.bar},
		Source:    source,
	}, nil
}

// loadCatalog returns a built-in catalog version or reads a catalog file
func loadCatalog(name string) (*catalog.Catalog, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml":
		return catalog.LoadFile(name)
	default:
		return catalog.Builtin(name)
	}
}

// newClient creates a chart client from the loaded configuration. The
// reachability probe only runs when probe is set and configured.
func newClient(opts *options, probe bool) (*chart.Client, error) {
	cat, err := loadCatalog(opts.cfg.Catalog)
	if err != nil {
		return nil, err
	}
	cfg := opts.cfg.ServerConfig()
	cfg.Probe = cfg.Probe && probe
	return chart.New(cfg, cat, chart.WithLogger(log.StandardLogger()))
}

func newURLCmd(opts *options) *cobra.Command {
	rf := &requestFlags{}

	cmd := &cobra.Command{
		Use:   "url LOCATIONS",
		Short: "Print the request URL of a chart",
		Example: `  chartfetch url DE,FR --attribute DailyCases7 --last 30
  chartfetch url "US, GB" -a "Cumulative deaths" --log`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient(opts, false)
			if err != nil {
				return err
			}
			req, err := rf.request(cmd, client.Catalog(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), client.BuildURL(req))
			return nil
		},
	}
	rf.register(cmd)

	return cmd
}

func newFetchCmd(opts *options) *cobra.Command {
	rf := &requestFlags{}
	var output string

	cmd := &cobra.Command{
		Use:   "fetch LOCATIONS",
		Short: "Download a chart and save it as PNG",
		Example: `  chartfetch fetch DE,FR --attribute DailyCases7 --last 30 -o europe.png
  chartfetch --server localhost fetch US --since 100 --bar`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient(opts, true)
			if err != nil {
				return err
			}
			req, err := rf.request(cmd, client.Catalog(), args[0])
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			result, err := client.FetchChart(ctx, req)
			if err != nil {
				return describeFetchError(err)
			}

			path := output
			if path == "" {
				path = platform.PlotFileName(req)
			}
			if err := platform.SavePNG(path, result.Image); err != nil {
				return fmt.Errorf("failed to save chart: %w", err)
			}

			log.WithFields(log.Fields{"url": result.URL, "format": result.Format}).Debug("chart received")
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}
	rf.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file path (default: derived from the request)")

	return cmd
}

// describeFetchError prefixes err with its kind
func describeFetchError(err error) error {
	if errors.Is(err, context.Canceled) {
		return fmt.Errorf("interrupted: %w", err)
	}
	var fe *chart.Error
	if errors.As(err, &fe) {
		return fmt.Errorf("%s: %w", fe.Kind, err)
	}
	return err
}

func newAttributesCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "attributes",
		Short: "List the attributes and data sources of the configured catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := loadCatalog(opts.cfg.Catalog)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintf(w, "FIELD\tLABEL\n")
			for _, attr := range cat.Attributes() {
				fmt.Fprintf(w, "%s\t%s\n", attr.Field, attr.Label)
			}
			if err := w.Flush(); err != nil {
				return err
			}

			if sources := cat.DataSources(); len(sources) > 0 {
				names := make([]string, len(sources))
				for i, ds := range sources {
					names[i] = string(ds)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "\ndata sources: %s\n", strings.Join(names, ", "))
			}
			return nil
		},
	}
}
