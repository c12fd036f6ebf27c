package rpc

import (
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const blockLine = `{"jsonrpc":"2.0","result":{` +
	`"author":"0x00a94ac799442fb13de8302026fd03068ba6a428",` +
	`"hash":"0x1234f5dcf0e2f00903268f3db08f2d25677c9e00aa39d30f0d20ff03a2abcd99",` +
	`"logsBloom":"0x00",` +
	`"number":"0x1a",` +
	`"parentHash":"0x00000000000000000000000000000000000000000000000000000000000000aa",` +
	`"step":"2",` +
	`"timestamp":"0x60d4a820",` +
	`"totalDifficulty":"0x1b"` +
	`},"id":1}`

func TestParseBlockLine(t *testing.T) {
	res, err := ParseBlockLine([]byte(blockLine))
	require.NoError(t, err)

	assert.Equal(t, uint64(0x1a), uint64(*res.Number))
	assert.Equal(t, uint64(0x60d4a820), uint64(*res.Timestamp))
	assert.Equal(t, "2", *res.Step)
	assert.Equal(t, "0x00a94ac799442fb13de8302026fd03068ba6a428", strings.ToLower(res.Author.Hex()))
	assert.Equal(t, "0x1234f5dcf0e2f00903268f3db08f2d25677c9e00aa39d30f0d20ff03a2abcd99", res.Hash.Hex())
}

func TestParseBlockLine_MissingField(t *testing.T) {
	for _, field := range []string{"number", "hash", "parentHash", "logsBloom", "author", "step", "timestamp", "totalDifficulty"} {
		line := blockLine
		// Rename the field so it unmarshals into nothing.
		line = strings.Replace(line, `"`+field+`":`, `"x-`+field+`":`, 1)

		_, err := ParseBlockLine([]byte(line))
		require.Error(t, err, "field %s", field)

		var mfe *MissingFieldError
		require.ErrorAs(t, err, &mfe, "field %s", field)
		assert.Equal(t, field, mfe.Field)
	}
}

func TestParseBlockLine_MissingResult(t *testing.T) {
	_, err := ParseBlockLine([]byte(`{"jsonrpc":"2.0","error":{"code":-32000,"message":"nope"},"id":1}`))
	var mfe *MissingFieldError
	require.ErrorAs(t, err, &mfe)
	assert.Equal(t, "result", mfe.Field)
}

func TestParseBlockLine_DecodeFailure(t *testing.T) {
	line := strings.Replace(blockLine, `"number":"0x1a"`, `"number":"0xzz"`, 1)
	_, err := ParseBlockLine([]byte(line))
	require.Error(t, err)

	var mfe *MissingFieldError
	assert.False(t, strings.Contains(err.Error(), "missing"), "decode failure must not masquerade as a missing field")
	assert.NotErrorAs(t, err, &mfe)
}

func TestParseTxCountLine(t *testing.T) {
	count, err := ParseTxCountLine([]byte(`{"jsonrpc":"2.0","result":"0x1c8","id":1}`))
	require.NoError(t, err)
	assert.Equal(t, uint64(456), count)
}

func TestParseTxCountLine_MissingResult(t *testing.T) {
	_, err := ParseTxCountLine([]byte(`{"jsonrpc":"2.0","id":1}`))
	var mfe *MissingFieldError
	require.ErrorAs(t, err, &mfe)
	assert.Equal(t, "result", mfe.Field)
}

func TestHexQuantityRoundTrip(t *testing.T) {
	for _, h := range []string{"0x0", "0x1a", "0x1c8", "0xffffffffffff"} {
		v, err := hexutil.DecodeUint64(h)
		require.NoError(t, err)
		assert.Equal(t, h, hexutil.EncodeUint64(v))
	}
}
