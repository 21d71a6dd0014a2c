package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/couchcryptid/climate-viz/internal/adapter/kafka"
	"github.com/couchcryptid/climate-viz/internal/adapter/snapshot"
	"github.com/couchcryptid/climate-viz/internal/chart"
	"github.com/couchcryptid/climate-viz/internal/config"
	"github.com/couchcryptid/climate-viz/internal/observability"
	"github.com/couchcryptid/climate-viz/internal/pipeline"
	"github.com/couchcryptid/climate-viz/internal/report"
)

var renderFlags struct {
	manifest string
	outDir   string
	snapshot bool
}

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render every chart in a report manifest.",
	Long: `Render every chart in a report manifest into an output directory.

Each chart becomes <name>.html next to the assets it references. Line charts
with png: true also get a static <name>.png. When KAFKA_ENABLED is true the
extremes of every rendered series are published to KAFKA_EXTREMES_TOPIC.

Examples:
  climviz render -m examples/kenya/report.yaml
  climviz render -m report.yaml -o site --snapshot`,
	Args: cobra.NoArgs,
	RunE: runRender,
}

func init() {
	f := renderCmd.Flags()
	f.StringVarP(&renderFlags.manifest, "manifest", "m", "", "report manifest (YAML)")
	f.StringVarP(&renderFlags.outDir, "out", "o", "", "output directory (default: the manifest's output_dir)")
	f.BoolVar(&renderFlags.snapshot, "snapshot", false, "also screenshot each page with headless Chrome")
	_ = renderCmd.MarkFlagRequired("manifest")
}

func runRender(cmd *cobra.Command, _ []string) error {
	ctx, stop := signalContext(cmd)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	m, err := report.LoadManifest(renderFlags.manifest)
	if err != nil {
		return err
	}
	if renderFlags.outDir != "" {
		m.OutputDir = renderFlags.outDir
	}
	data, err := report.LoadDatasets(m)
	if err != nil {
		return err
	}
	boundaries, err := report.LoadBoundaries(m)
	if err != nil {
		return err
	}
	builder := report.NewBuilder(data, boundaries, chart.PageOptions{AssetsHost: m.AssetsHost}, logger)

	dirSink := report.NewDirSink(m.OutputDir, logger)
	var sink pipeline.Sink = dirSink
	if renderFlags.snapshot {
		if err := snapshot.EnsureAvailable(ctx); err != nil {
			return fmt.Errorf("--snapshot needs headless chrome: %w", err)
		}
		sink = snapshot.NewSink(dirSink, 0, 0, logger)
	}

	var publisher pipeline.Publisher
	if cfg.KafkaEnabled {
		writer := kafka.NewWriter(cfg, logger)
		defer func() {
			if err := writer.Close(); err != nil {
				logger.Error("kafka writer close error", "error", err)
			}
		}()
		publisher = writer
		logger.Info("publishing extremes", "topic", cfg.KafkaExtremesTopic)
	}

	sum, err := pipeline.New(builder, sink, publisher, logger, metrics).Run(ctx, m.Charts)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s %d chart(s) to %s\n", color.GreenString("rendered"), len(sum.Rendered), dirSink.Dir())
	if len(sum.Failed) > 0 {
		fmt.Fprintf(out, "%s %v\n", color.YellowString("failed:"), sum.Failed)
	}
	if publisher != nil {
		fmt.Fprintf(out, "published %d extremes report(s)\n", sum.Published)
	}
	return nil
}
