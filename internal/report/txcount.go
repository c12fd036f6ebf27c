package report

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/schollz/progressbar/v3"

	"github.com/TEEs-projects/testchain/internal/logger"
	"github.com/TEEs-projects/testchain/internal/rpc"
	"github.com/TEEs-projects/testchain/internal/utils"
)

// TxCountReport turns a dump of eth_getBlockTransactionCountByNumber
// responses into a per-block count report ending in a running total. The
// input starts with two header lines: the inclusive floor and exclusive
// ceiling of the queried block range, as written by the generated qrytx.sh.
type TxCountReport struct{}

// TxSummary aggregates one decode pass.
type TxSummary struct {
	Floor   int
	Ceiling int
	Blocks  int
	Total   uint64
}

func NewTxCountReport() *TxCountReport {
	return &TxCountReport{}
}

// Process reads the floor/ceiling header and then one response per line,
// emitting `#blockIndex<TAB>count` per block and a final total line. Block
// indices are assigned sequentially from the floor: the query script emits
// exactly one response per block in [floor, ceiling), and no reconciliation
// is attempted beyond a warning when the counts disagree.
func (g *TxCountReport) Process(in io.Reader, name string, out io.Writer) (*TxSummary, error) {
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	floor, err := readHeaderInt(scanner, name, 1)
	if err != nil {
		return nil, err
	}
	ceiling, err := readHeaderInt(scanner, name, 2)
	if err != nil {
		return nil, err
	}
	if ceiling < floor {
		return nil, fmt.Errorf("%s: ceiling %d below floor %d", name, ceiling, floor)
	}

	sum := &TxSummary{Floor: floor, Ceiling: ceiling}

	lineNo := 2
	idx := floor
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		count, err := rpc.ParseTxCountLine([]byte(line))
		if err != nil {
			return nil, fmt.Errorf("%s:%d: %w", name, lineNo, err)
		}

		if _, err := fmt.Fprintf(out, "#%d\t%d\n", idx, count); err != nil {
			return nil, fmt.Errorf("error writing transaction count line: %w", err)
		}

		sum.Total += count
		sum.Blocks++
		idx++
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading %s: %w", name, err)
	}

	if _, err := fmt.Fprintf(out, "total txs = %d\n", sum.Total); err != nil {
		return nil, fmt.Errorf("error writing total line: %w", err)
	}

	if want := ceiling - floor; sum.Blocks != want {
		logger.Warn("REPORT", "Range [%d, %d) expects %d responses, dump has %d", floor, ceiling, want, sum.Blocks)
	}
	logger.Info("REPORT", "Counted %s txs over %d blocks from %s", utils.FormatCount(sum.Total), sum.Blocks, name)
	return sum, nil
}

// ProcessFiles runs Process over files, with a progress bar on stderr.
func (g *TxCountReport) ProcessFiles(inPath, outPath string) (*TxSummary, error) {
	in, err := os.Open(inPath)
	if err != nil {
		return nil, err
	}
	defer in.Close()

	fi, err := in.Stat()
	if err != nil {
		return nil, err
	}

	out, err := os.Create(outPath)
	if err != nil {
		return nil, err
	}
	defer out.Close()

	bar := progressbar.DefaultBytes(fi.Size(), "Decoding tx counts")
	sum, err := g.Process(io.TeeReader(in, bar), inPath, out)
	_ = bar.Finish()
	return sum, err
}

func readHeaderInt(scanner *bufio.Scanner, name string, lineNo int) (int, error) {
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return 0, fmt.Errorf("error reading %s: %w", name, err)
		}
		return 0, fmt.Errorf("%s:%d: missing range header line", name, lineNo)
	}
	v, err := strconv.Atoi(strings.TrimSpace(scanner.Text()))
	if err != nil {
		return 0, fmt.Errorf("%s:%d: range header is not an integer: %w", name, lineNo, err)
	}
	return v, nil
}
