package main

import (
	"encoding/json"
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/sitedata-cli/internal/store"
)

var buildsCmd = &cobra.Command{
	Use:   "builds",
	Short: "Inspect build snapshots saved to the configured store",
}

var buildsRecords bool

var buildsLatestCmd = &cobra.Command{
	Use:   "latest",
	Short: "Show the most recent build snapshot",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		if cfg.Store.Driver == "" {
			return eris.New("no snapshot store configured (SITEDATA_STORE_DRIVER)")
		}

		st, err := store.New(ctx, cfg.Store)
		if err != nil {
			return eris.Wrap(err, "open store")
		}
		defer st.Close() //nolint:errcheck

		b, err := st.LatestBuild(ctx)
		if err != nil {
			return err
		}
		if b == nil {
			fmt.Fprintln(cmd.OutOrStdout(), "no builds recorded")
			return nil
		}

		view := struct {
			*store.Build
			Records []store.SiteRecord `json:"records,omitempty"`
		}{Build: b}
		if buildsRecords {
			view.Records, err = st.BuildRecords(ctx, b.ID)
			if err != nil {
				return err
			}
		}

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return eris.Wrap(enc.Encode(view), "encode build")
	},
}

func init() {
	buildsLatestCmd.Flags().BoolVar(&buildsRecords, "records", false, "include every sub-region record")
	buildsCmd.AddCommand(buildsLatestCmd)
	rootCmd.AddCommand(buildsCmd)
}
