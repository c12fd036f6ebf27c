package report

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/TEEs-projects/testchain/internal/rpc"
)

func txLine(count uint64) string {
	return fmt.Sprintf(`{"jsonrpc":"2.0","result":"0x%x","id":1}`, count)
}

func TestTxCountReport_Golden(t *testing.T) {
	in := "100\n103\n" + txLine(2) + "\n" + txLine(5) + "\n" + txLine(0) + "\n"
	var out strings.Builder

	sum, err := NewTxCountReport().Process(strings.NewReader(in), "tx.txt", &out)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}

	want := "#100\t2\n#101\t5\n#102\t0\ntotal txs = 7\n"
	if out.String() != want {
		t.Fatalf("report mismatch:\n got %q\nwant %q", out.String(), want)
	}
	if sum.Total != 7 || sum.Blocks != 3 || sum.Floor != 100 || sum.Ceiling != 103 {
		t.Fatalf("unexpected summary: %+v", sum)
	}
}

func TestTxCountReport_TrailingNewlineProducesNoRecord(t *testing.T) {
	in := "100\n101\n" + txLine(3) + "\n\n"
	var out strings.Builder

	sum, err := NewTxCountReport().Process(strings.NewReader(in), "tx.txt", &out)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if sum.Blocks != 1 {
		t.Fatalf("trailing empty line must not produce a record: got %d blocks", sum.Blocks)
	}
}

func TestTxCountReport_MalformedLineFailsWithLineNumber(t *testing.T) {
	in := "100\n102\n" + txLine(1) + "\n" + `{"jsonrpc":"2.0","id":1}` + "\n"
	var out strings.Builder

	_, err := NewTxCountReport().Process(strings.NewReader(in), "tx.txt", &out)
	if err == nil {
		t.Fatal("expected error for malformed line, got nil")
	}
	if !strings.Contains(err.Error(), "tx.txt:4:") {
		t.Fatalf("diagnostic must name the file and line, got %q", err.Error())
	}
	var mfe *rpc.MissingFieldError
	if !errors.As(err, &mfe) {
		t.Fatalf("expected MissingFieldError, got %v", err)
	}
}

func TestTxCountReport_HeaderErrors(t *testing.T) {
	for _, tc := range []struct {
		name string
		in   string
	}{
		{"empty input", ""},
		{"missing ceiling", "100\n"},
		{"non-integer floor", "ten\n103\n"},
		{"ceiling below floor", "103\n100\n"},
	} {
		var out strings.Builder
		if _, err := NewTxCountReport().Process(strings.NewReader(tc.in), "tx.txt", &out); err == nil {
			t.Fatalf("%s: expected error, got nil", tc.name)
		}
	}
}
