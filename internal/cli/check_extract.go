package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdssp/pds-crawler/internal/config"
)

type checkExtractOpts struct {
	configPath string
	datasetID  string
}

func newCheckExtractCmd() *cobra.Command {
	opts := checkExtractOpts{configPath: "pds-crawler.toml"}

	cmd := &cobra.Command{
		Use:   "check_extract",
		Short: "Report missing record pages and PDS3 files per collection",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheckExtract(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.configPath, "config", opts.configPath, "path to pds-crawler.toml")
	cmd.Flags().StringVar(&opts.datasetID, "dataset_id", "", "restrict to a single collection by dataset id")

	return cmd
}

func runCheckExtract(cmd *cobra.Command, opts checkExtractOpts) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return err
	}

	rt, err := buildRuntime(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer rt.close()

	reports, err := rt.driver.CheckExtract(ctx, selectorFromOpts(opts.datasetID, 0))
	if err != nil {
		return err
	}

	for _, r := range reports {
		fmt.Fprintf(cmd.OutOrStdout(), "%s: %d missing page(s), pds3 missing=%v\n", r.Fingerprint, len(r.MissingPages), r.MissingPDS3)
	}
	return nil
}
