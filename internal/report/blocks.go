package report

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/schollz/progressbar/v3"

	"github.com/TEEs-projects/testchain/internal/config"
	"github.com/TEEs-projects/testchain/internal/logger"
	"github.com/TEEs-projects/testchain/internal/rpc"
	"github.com/TEEs-projects/testchain/internal/sequence"
	"github.com/TEEs-projects/testchain/internal/validators"
)

// Dump lines carry the full block object including logsBloom, and can be
// large when the send scripts were running.
const maxLineBytes = 16 * 1024 * 1024

// BlockReport turns a dump of eth_getBlockByNumber responses into a
// human-readable per-block report plus an author-index matrix with loss and
// throughput statistics.
type BlockReport struct {
	Roster    *validators.Roster
	Cfg       config.ReportsConfig
	Malicious int
}

// LossCount is the heuristic skipped-turn count for one validator.
type LossCount struct {
	Validator int
	Count     int
}

// BlockSummary aggregates one decode pass.
type BlockSummary struct {
	Blocks int
	Seq    *sequence.IndexSequence
	Loss   []LossCount
	Cycles int
	Tally  []int
}

func NewBlockReport(roster *validators.Roster, cfg config.ReportsConfig, malicious int) *BlockReport {
	return &BlockReport{Roster: roster, Cfg: cfg, Malicious: malicious}
}

// Process decodes every non-empty line of in, writing one readable line per
// block and, once the pass is done, the matrix and statistics. name is used
// in diagnostics only. The first malformed line aborts the run; whatever was
// already written stays written.
func (g *BlockReport) Process(in io.Reader, name string, readable, stats io.Writer) (*BlockSummary, error) {
	seq := sequence.New()

	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			// Trailing newline artifact, or a gap left by the query script.
			continue
		}

		res, err := rpc.ParseBlockLine([]byte(line))
		if err != nil {
			return nil, fmt.Errorf("%s:%d: %w", name, lineNo, err)
		}

		idx, err := g.Roster.Index(*res.Author)
		if err != nil {
			return nil, fmt.Errorf("%s:%d: %w", name, lineNo, err)
		}
		seq.Append(idx)

		if err := g.writeReadableLine(readable, res, idx); err != nil {
			return nil, fmt.Errorf("error writing block report line: %w", err)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading %s: %w", name, err)
	}

	sum := g.summarize(seq)
	if err := g.writeStats(stats, sum); err != nil {
		return nil, fmt.Errorf("error writing index statistics: %w", err)
	}

	logger.Info("REPORT", "Decoded %d blocks from %s (%d validators, ~%d rounds)",
		sum.Blocks, name, g.Roster.Size(), sum.Cycles)
	return sum, nil
}

// ProcessFiles runs Process over files, with a progress bar on stderr.
func (g *BlockReport) ProcessFiles(inPath, readablePath, statsPath string) (*BlockSummary, error) {
	in, err := os.Open(inPath)
	if err != nil {
		return nil, err
	}
	defer in.Close()

	fi, err := in.Stat()
	if err != nil {
		return nil, err
	}

	readable, err := os.Create(readablePath)
	if err != nil {
		return nil, err
	}
	defer readable.Close()

	stats, err := os.Create(statsPath)
	if err != nil {
		return nil, err
	}
	defer stats.Close()

	bar := progressbar.DefaultBytes(fi.Size(), "Decoding blocks")
	sum, err := g.Process(io.TeeReader(in, bar), inPath, readable, stats)
	_ = bar.Finish()
	return sum, err
}

// writeReadableLine emits the original testbed layout:
// timestamp, tab, space, index, step, #decimal, #hex, truncated hash.
func (g *BlockReport) writeReadableLine(w io.Writer, res *rpc.BlockResult, idx int) error {
	ts := time.Unix(int64(*res.Timestamp), 0)
	number := uint64(*res.Number)

	_, err := fmt.Fprintf(w, "%s\t %d\t%s\t#%d\t#0x%x\t%s\n",
		ts.Format(g.Cfg.TimestampLayout),
		idx,
		*res.Step,
		number,
		number,
		g.truncateHash(res.Hash.Hex()),
	)
	return err
}

// truncateHash keeps the leading and trailing characters of the 0x-prefixed
// hash string, matching the original reports (0xabcd...wxyz by default).
func (g *BlockReport) truncateHash(hex string) string {
	pre, suf := g.Cfg.HashPrefixLen, g.Cfg.HashSuffixLen
	if len(hex) <= pre+suf {
		return hex
	}
	return hex[:pre] + "..." + hex[len(hex)-suf:]
}

func (g *BlockReport) summarize(seq *sequence.IndexSequence) *BlockSummary {
	sum := &BlockSummary{
		Blocks: seq.Len(),
		Seq:    seq,
		Cycles: seq.Cycles(cyclePair(g.Cfg.CyclePair)),
		Tally:  seq.Tally(g.Roster.Size()),
	}
	for _, lp := range g.Cfg.Loss {
		sum.Loss = append(sum.Loss, LossCount{
			Validator: lp.Validator,
			Count:     seq.CountPairs(toPairs(lp.Pairs)),
		})
	}
	return sum
}

// writeStats emits the index matrix (one row per roster rotation), then the
// loss heuristics, the round estimate, and the per-validator tallies.
func (g *BlockReport) writeStats(w io.Writer, sum *BlockSummary) error {
	for _, row := range sum.Seq.Rows(g.Roster.Size()) {
		for _, idx := range row {
			if _, err := fmt.Fprintf(w, "%d\t", idx); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintln(w); err != nil {
			return err
		}
	}

	for _, lc := range sum.Loss {
		if _, err := fmt.Fprintf(w, "loss of %d%s = %d\n", lc.Validator, g.maliciousTag(lc.Validator), lc.Count); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintf(w, "approximately %d rounds\n", sum.Cycles); err != nil {
		return err
	}
	for i, n := range sum.Tally {
		if _, err := fmt.Fprintf(w, "%d%s: %d\n", i, g.maliciousTag(i), n); err != nil {
			return err
		}
	}
	return nil
}

func (g *BlockReport) maliciousTag(i int) string {
	if i == g.Malicious {
		return " (malicious)"
	}
	return ""
}

func toPairs(raw [][]int) []sequence.Pair {
	pairs := make([]sequence.Pair, 0, len(raw))
	for _, p := range raw {
		if len(p) == 2 {
			pairs = append(pairs, sequence.Pair{First: p[0], Second: p[1]})
		}
	}
	return pairs
}

func cyclePair(raw []int) sequence.Pair {
	if len(raw) == 2 {
		return sequence.Pair{First: raw[0], Second: raw[1]}
	}
	return sequence.Pair{First: 15, Second: 16}
}
