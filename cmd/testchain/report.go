package main

import (
	"github.com/spf13/cobra"

	"github.com/TEEs-projects/testchain/internal/config"
	"github.com/TEEs-projects/testchain/internal/metrics"
	"github.com/TEEs-projects/testchain/internal/report"
)

var (
	blocksIn    string
	blocksOut   string
	blocksStats string

	txsIn  string
	txsOut string

	reportMetrics string
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Decode captured RPC dumps into human-readable reports",
}

var reportBlocksCmd = &cobra.Command{
	Use:   "blocks",
	Short: "Decode an eth_getBlockByNumber dump into a block report and an index matrix",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, roster, err := loadConfig()
		if err != nil {
			return err
		}

		gen := report.NewBlockReport(roster, cfg.Reports, cfg.Chain.MaliciousIndex)
		sum, err := gen.ProcessFiles(blocksIn, blocksOut, blocksStats)
		if err != nil {
			return err
		}

		return writeMetrics(cfg, func(e *metrics.Exporter) {
			e.RecordBlockSummary(sum, roster)
		})
	},
}

var reportTxsCmd = &cobra.Command{
	Use:   "txs",
	Short: "Decode an eth_getBlockTransactionCountByNumber dump into a per-block count report",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _, err := loadConfig()
		if err != nil {
			return err
		}

		gen := report.NewTxCountReport()
		sum, err := gen.ProcessFiles(txsIn, txsOut)
		if err != nil {
			return err
		}

		return writeMetrics(cfg, func(e *metrics.Exporter) {
			e.RecordTxSummary(sum)
		})
	},
}

func init() {
	reportBlocksCmd.Flags().StringVar(&blocksIn, "in", "qry_result.txt", "block dump file")
	reportBlocksCmd.Flags().StringVar(&blocksOut, "out", "result_readable.txt", "readable block report file")
	reportBlocksCmd.Flags().StringVar(&blocksStats, "stats", "result_indexes.txt", "index matrix and statistics file")

	reportTxsCmd.Flags().StringVar(&txsIn, "in", "tx_result.txt", "transaction count dump file")
	reportTxsCmd.Flags().StringVar(&txsOut, "out", "tx_read.txt", "transaction count report file")

	reportCmd.PersistentFlags().StringVar(&reportMetrics, "metrics-file", "", "write run statistics as a Prometheus textfile (overrides reports.metrics_file)")

	reportCmd.AddCommand(reportBlocksCmd)
	reportCmd.AddCommand(reportTxsCmd)
	rootCmd.AddCommand(reportCmd)
}

// writeMetrics publishes run statistics to the configured textfile, if any.
func writeMetrics(cfg *config.Config, record func(*metrics.Exporter)) error {
	path := reportMetrics
	if path == "" {
		path = cfg.Reports.MetricsFile
	}
	if path == "" {
		return nil
	}

	e := metrics.NewExporter(cfg.Reports.MetricsPrefix)
	record(e)
	return e.WriteFile(path)
}
