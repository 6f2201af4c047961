package main

import (
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/sitedata-cli/internal/config"
	"github.com/sells-group/sitedata-cli/internal/pipeline"
	"github.com/sells-group/sitedata-cli/internal/store"
)

var (
	buildTemperature string
	buildWind        string
	buildSeismic     string
	buildOut         string
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build the site data file from the three source tables",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		applyBuildFlags(cfg)

		st, err := store.New(ctx, cfg.Store)
		if err != nil {
			return eris.Wrap(err, "open store")
		}
		var opts []pipeline.Option
		if st != nil {
			defer st.Close() //nolint:errcheck
			opts = append(opts, pipeline.WithStore(st))
		}

		b, err := pipeline.New(cfg, opts...)
		if err != nil {
			return err
		}

		res, err := b.Build(ctx, pipeline.SourcesFromConfig(cfg.Sources))
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "wrote %s: %d regions, %d sub-regions\n",
			res.OutputPath, res.Stats.Regions, res.Stats.Subregions)
		fmt.Fprintf(out, "wind: %d exact, %d fuzzy, %d unknown\n",
			res.Stats.Wind.Exact, res.Stats.Wind.Fuzzy, res.Stats.Wind.Unknown)
		fmt.Fprintf(out, "zone: %d exact, %d fuzzy, %d unknown\n",
			res.Stats.Zone.Exact, res.Stats.Zone.Fuzzy, res.Stats.Zone.Unknown)
		for _, m := range res.Stats.Missing {
			fmt.Fprintf(out, "warning: %s source was unavailable\n", m)
		}
		if res.Build != nil {
			fmt.Fprintf(out, "snapshot %s\n", res.Build.ID)
		}
		return nil
	},
}

// applyBuildFlags lets explicit flags win over config file and env values.
func applyBuildFlags(c *config.Config) {
	if buildTemperature != "" {
		c.Sources.Temperature = buildTemperature
	}
	if buildWind != "" {
		c.Sources.Wind = buildWind
	}
	if buildSeismic != "" {
		c.Sources.Seismic = buildSeismic
	}
	if buildOut != "" {
		c.Output.Path = buildOut
	}
}

func init() {
	buildCmd.Flags().StringVar(&buildTemperature, "temperature", "", "temperature table document (overrides sources.temperature)")
	buildCmd.Flags().StringVar(&buildWind, "wind", "", "wind speed table document (overrides sources.wind)")
	buildCmd.Flags().StringVar(&buildSeismic, "seismic", "", "seismic zone table document (overrides sources.seismic)")
	buildCmd.Flags().StringVar(&buildOut, "out", "", "output file (overrides output.path)")
	rootCmd.AddCommand(buildCmd)
}
