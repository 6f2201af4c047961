package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/sitedata-cli/internal/artifact"
	"github.com/sells-group/sitedata-cli/internal/model"
)

var (
	lookupRegion    string
	lookupSubregion string
	lookupFile      string
)

var lookupCmd = &cobra.Command{
	Use:   "lookup",
	Short: "Show the design values of a sub-region, or list the sub-regions of a region",
	RunE: func(cmd *cobra.Command, _ []string) error {
		path := lookupFile
		if path == "" {
			path = cfg.Output.Path
		}

		h, err := artifact.Load(path)
		if err != nil {
			return err
		}

		if _, ok := h[lookupRegion]; !ok {
			return eris.Errorf("region %q not found in %s", lookupRegion, path)
		}

		out := cmd.OutOrStdout()
		if lookupSubregion == "" {
			for _, sub := range h.Subregions(lookupRegion) {
				fmt.Fprintln(out, sub)
			}
			return nil
		}

		rec, ok := h.Lookup(lookupRegion, lookupSubregion)
		if !ok {
			return eris.Errorf("sub-region %q not found in region %q", lookupSubregion, lookupRegion)
		}
		writeRecord(out, lookupRegion, lookupSubregion, rec)
		return nil
	},
}

func writeRecord(w io.Writer, region, sub string, r *model.Record) {
	fmt.Fprintf(w, "%s / %s\n", region, sub)
	fmt.Fprintf(w, "  max:  %s\n", numberString(r.Max))
	fmt.Fprintf(w, "  min:  %s\n", numberString(r.Min))

	wind := model.Unknown
	if r.Wind != nil {
		wind = r.Wind.String()
	}
	fmt.Fprintf(w, "  wind: %s\n", wind)

	zone := model.ZoneUnknown
	if r.Zone != nil {
		zone = *r.Zone
	}
	if factor, ok := zone.Factor(); ok {
		fmt.Fprintf(w, "  zone: %s (factor %s)\n", zone, strconv.FormatFloat(factor, 'f', 2, 64))
	} else {
		fmt.Fprintf(w, "  zone: %s\n", zone)
	}
}

func numberString(n *model.Number) string {
	if n == nil {
		return model.Unknown
	}
	return n.String()
}

func init() {
	lookupCmd.Flags().StringVar(&lookupRegion, "region", "", "region name as written in the data file (required)")
	lookupCmd.Flags().StringVar(&lookupSubregion, "subregion", "", "sub-region name; omit to list the region's sub-regions")
	lookupCmd.Flags().StringVar(&lookupFile, "file", "", "data file to read (defaults to output.path)")
	_ = lookupCmd.MarkFlagRequired("region")
	rootCmd.AddCommand(lookupCmd)
}
