package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/TEEs-projects/testchain/internal/report"
	"github.com/TEEs-projects/testchain/internal/validators"
)

// Exporter collects the statistics of one report run and writes them in the
// node_exporter textfile-collector format. There is no HTTP listener: the
// tool is a batch job, so the metrics land next to the reports and can be
// picked up (or just diffed between runs) from there.
type Exporter struct {
	registry *prometheus.Registry
	prefix   string

	blocks   prometheus.Gauge
	txs      prometheus.Gauge
	txBlocks prometheus.Gauge
	rounds   prometheus.Gauge
	authored *prometheus.GaugeVec
	loss     *prometheus.GaugeVec
}

func NewExporter(prefix string) *Exporter {
	if prefix == "" {
		prefix = "testchain"
	}

	e := &Exporter{
		registry: prometheus.NewRegistry(),
		prefix:   prefix,
		blocks: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: prefix + "_blocks_decoded_total",
			Help: "Blocks decoded from the capture in this run",
		}),
		txs: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: prefix + "_txs_total",
			Help: "Total transactions counted over the queried range",
		}),
		txBlocks: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: prefix + "_tx_blocks_total",
			Help: "Blocks covered by the transaction count report",
		}),
		rounds: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: prefix + "_rounds_approx",
			Help: "Approximate full validator rotations seen in the capture",
		}),
		authored: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: prefix + "_validator_authored_total",
			Help: "Blocks authored per validator in this run",
		}, []string{"index", "address"}),
		loss: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: prefix + "_validator_loss_total",
			Help: "Heuristic skipped-turn count per validator in this run",
		}, []string{"index", "address"}),
	}

	e.registry.MustRegister(e.blocks)
	e.registry.MustRegister(e.txs)
	e.registry.MustRegister(e.txBlocks)
	e.registry.MustRegister(e.rounds)
	e.registry.MustRegister(e.authored)
	e.registry.MustRegister(e.loss)

	return e
}

// RecordBlockSummary publishes the block report statistics.
func (e *Exporter) RecordBlockSummary(sum *report.BlockSummary, roster *validators.Roster) {
	e.blocks.Set(float64(sum.Blocks))
	e.rounds.Set(float64(sum.Cycles))

	for i, n := range sum.Tally {
		e.authored.With(e.labels(i, roster)).Set(float64(n))
	}
	for _, lc := range sum.Loss {
		if lc.Validator >= 0 && lc.Validator < roster.Size() {
			e.loss.With(e.labels(lc.Validator, roster)).Set(float64(lc.Count))
		}
	}
}

// RecordTxSummary publishes the transaction count report statistics.
func (e *Exporter) RecordTxSummary(sum *report.TxSummary) {
	e.txs.Set(float64(sum.Total))
	e.txBlocks.Set(float64(sum.Blocks))
}

func (e *Exporter) labels(i int, roster *validators.Roster) prometheus.Labels {
	return prometheus.Labels{
		"index":   fmt.Sprintf("%d", i),
		"address": roster.Addresses()[i],
	}
}

// WriteFile writes all recorded metrics to path, atomically via a rename.
func (e *Exporter) WriteFile(path string) error {
	return prometheus.WriteToTextfile(path, e.registry)
}
