package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdssp/pds-crawler/internal/config"
)

type transformOpts struct {
	configPath string
	typeName   string
	datasetID  string
}

func newTransformCmd() *cobra.Command {
	opts := transformOpts{configPath: "pds-crawler.toml"}

	cmd := &cobra.Command{
		Use:   "transform",
		Short: "Build or enrich the STAC tree from extracted records or PDS3 catalogs",
		Long: `Transform builds the STAC tree's leaf items and collection catalog
from downloaded record pages (--type_stac records), or enriches the
collection and its parent catalogs from downloaded PDS3 catalog objects
(--type_stac pds3_objects). Both are idempotent and safe to rerun.

Examples:
  pds-crawler transform --type_stac records --dataset_id MGS-M-MOLA-3-PEDR-L1A-V1.0
  pds-crawler transform --type_stac pds3_objects`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTransform(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.configPath, "config", opts.configPath, "path to pds-crawler.toml")
	cmd.Flags().StringVar(&opts.typeName, "type_stac", "", "records | pds3_objects")
	cmd.Flags().StringVar(&opts.datasetID, "dataset_id", "", "restrict to a single collection by dataset id")
	cmd.MarkFlagRequired("type_stac")

	return cmd
}

func runTransform(cmd *cobra.Command, opts transformOpts) error {
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

	sel := selectorFromOpts(opts.datasetID, 0)
	prog := newProgress(logger)

	switch opts.typeName {
	case "records":
		summary, err := rt.driver.TransformRecords(ctx, sel)
		if err != nil {
			return err
		}
		prog.done(phaseDoneMsg(summary))
	case "pds3_objects":
		summary, err := rt.driver.TransformPDS3(ctx, sel)
		if err != nil {
			return err
		}
		prog.done(phaseDoneMsg(summary))
	default:
		return fmt.Errorf("unknown --type_stac %q", opts.typeName)
	}
	return nil
}
