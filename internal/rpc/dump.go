// Package rpc decodes captured JSON-RPC responses from the testbed query
// scripts. It never talks to a node itself: input is always a dump file with
// one serialized response per line.
package rpc

import (
	"encoding/json"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/pkg/errors"
)

// MissingFieldError reports a response that unmarshalled cleanly but lacks a
// field the reports depend on. The original tooling sliced lines at fixed
// offsets and corrupted silently on format drift; a typed error is the
// replacement for that failure mode.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("response is missing the %q field", e.Field)
}

// BlockResponse is the envelope of an eth_getBlockByNumber response.
type BlockResponse struct {
	Jsonrpc string       `json:"jsonrpc"`
	Result  *BlockResult `json:"result"`
	ID      int          `json:"id"`
}

// BlockResult carries the block fields the reports extract. Every field is a
// pointer so absence can be told apart from a zero value. The step field is
// Aura's consensus round counter, serialized by openethereum as a decimal
// string.
type BlockResult struct {
	Number          *hexutil.Uint64 `json:"number"`
	Hash            *common.Hash    `json:"hash"`
	ParentHash      *common.Hash    `json:"parentHash"`
	LogsBloom       *hexutil.Bytes  `json:"logsBloom"`
	Author          *common.Address `json:"author"`
	Step            *string         `json:"step"`
	Timestamp       *hexutil.Uint64 `json:"timestamp"`
	TotalDifficulty *hexutil.Big    `json:"totalDifficulty"`
}

// TxCountResponse is the envelope of an eth_getBlockTransactionCountByNumber
// response; the result is a single hex quantity.
type TxCountResponse struct {
	Jsonrpc string          `json:"jsonrpc"`
	Result  *hexutil.Uint64 `json:"result"`
	ID      int             `json:"id"`
}

// ParseBlockLine decodes one dump line into a BlockResult and validates that
// every required field is present.
func ParseBlockLine(line []byte) (*BlockResult, error) {
	var resp BlockResponse
	if err := json.Unmarshal(line, &resp); err != nil {
		return nil, errors.WithMessage(err, "error decoding block response")
	}
	if resp.Result == nil {
		return nil, &MissingFieldError{Field: "result"}
	}

	res := resp.Result
	for _, f := range []struct {
		name string
		ok   bool
	}{
		{"number", res.Number != nil},
		{"hash", res.Hash != nil},
		{"parentHash", res.ParentHash != nil},
		{"logsBloom", res.LogsBloom != nil},
		{"author", res.Author != nil},
		{"step", res.Step != nil},
		{"timestamp", res.Timestamp != nil},
		{"totalDifficulty", res.TotalDifficulty != nil},
	} {
		if !f.ok {
			return nil, &MissingFieldError{Field: f.name}
		}
	}

	return res, nil
}

// ParseTxCountLine decodes one dump line into a transaction count.
func ParseTxCountLine(line []byte) (uint64, error) {
	var resp TxCountResponse
	if err := json.Unmarshal(line, &resp); err != nil {
		return 0, errors.WithMessage(err, "error decoding transaction count response")
	}
	if resp.Result == nil {
		return 0, &MissingFieldError{Field: "result"}
	}
	return uint64(*resp.Result), nil
}
