package gen

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TEEs-projects/testchain/internal/config"
	"github.com/TEEs-projects/testchain/internal/validators"
)

func testSetup(t *testing.T) (*Generator, string) {
	t.Helper()

	cfg := &config.Config{}
	cfg.Chain.Validators = []string{
		"0x00bd138abd70e2f00903268f3db08f2d25677c9e",
		"0x00aa39d30f0d20ff03a22ccfc30b7efbfca597c2",
		"0x002e28950558fbede1a9675cb113f0bd20912019",
	}
	cfg.Chain.Users = []string{
		"0x005b0fbe9a9a53e66aca408e9dc2f9c53cbd6665",
		"0x00e46a5a194748871d4d17ac88d657f63b1c50e3",
		"0x00379d1ae3b1def5241a44369397a4dadb1dff64",
	}
	config.ApplyDefaults(cfg)

	roster, err := validators.NewRoster(cfg.Chain.Validators)
	require.NoError(t, err)

	return New(cfg, roster), t.TempDir()
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestWriteNodeTree(t *testing.T) {
	g, dir := testSetup(t)
	require.NoError(t, g.WriteNodeTree(dir))

	// One dir + password + toml per validator.
	for i := 0; i < 3; i++ {
		password := readFile(t, filepath.Join(dir, "node"+string(rune('0'+i)), "password.txt"))
		assert.Equal(t, "node"+string(rune('0'+i)), password)
	}

	toml := readFile(t, filepath.Join(dir, "node1.toml"))
	assert.Contains(t, toml, `base_path = "node1"`)
	assert.Contains(t, toml, "port = 30301")
	assert.Contains(t, toml, "id = 2025")
	assert.Contains(t, toml, "port = 8651")
	assert.Contains(t, toml, "port = 8751")
	assert.Contains(t, toml, `unlock = ["0x00aa39d30f0d20ff03a22ccfc30b7efbfca597c2"]`)
	assert.Contains(t, toml, `engine_signer = "0x00aa39d30f0d20ff03a22ccfc30b7efbfca597c2"`)

	accounts := readFile(t, filepath.Join(dir, "accounts.sh"))
	assert.Equal(t, 3, strings.Count(accounts, "parity_newAccountFromPhrase"))
	assert.Contains(t, accounts, "localhost:8650")
	assert.Contains(t, accounts, "localhost:8652")

	launch := readFile(t, filepath.Join(dir, "nohuprun.sh"))
	assert.Equal(t, 3, strings.Count(launch, "nohup"))
	assert.Contains(t, launch, "--config node2.toml")

	// First-run account creation opens one terminal per node.
	creates := readFile(t, filepath.Join(dir, "create_accs.sh"))
	assert.True(t, strings.HasPrefix(creates, "#!/bin/bash\n"))
	assert.Equal(t, 3, strings.Count(creates, "gnome-terminal"))
	assert.Contains(t, creates, `gnome-terminal -t "node1" -x bash -c "openethereum --config node1.toml;exec bash;"`)
}

func TestWriteNodeTree_MaliciousBinary(t *testing.T) {
	g, dir := testSetup(t)
	g.cfg.Chain.MaliciousIndex = 1
	g.cfg.Chain.MaliciousBin = "/opt/patched/openethereum"
	require.NoError(t, g.WriteNodeTree(dir))

	launch := readFile(t, filepath.Join(dir, "nohuprun.sh"))
	assert.Contains(t, launch, "nohup /opt/patched/openethereum --config node1.toml")
	assert.Contains(t, launch, "nohup openethereum --config node0.toml")
}

func TestWriteSendScripts(t *testing.T) {
	g, dir := testSetup(t)
	require.NoError(t, g.WriteSendScripts(dir, 2, 500))

	send0 := readFile(t, filepath.Join(dir, "sends", "send0.sh"))
	assert.Contains(t, send0, "for ((i=1;i<500;i++))")
	assert.Contains(t, send0, `"from":"0x005b0fbe9a9a53e66aca408e9dc2f9c53cbd6665"`)
	assert.Contains(t, send0, `"to":"0x00379d1ae3b1def5241a44369397a4dadb1dff64"`)
	// User ports start after the three sealer nodes.
	assert.Contains(t, send0, "localhost:8653")

	driver := readFile(t, filepath.Join(dir, "send.sh"))
	assert.Contains(t, driver, "./sends/send0.sh &")
	assert.Contains(t, driver, "./sends/send1.sh &")
	assert.Contains(t, driver, "wait")
}

func TestWriteSendScripts_NoUsers(t *testing.T) {
	g, dir := testSetup(t)
	g.cfg.Chain.Users = nil
	require.Error(t, g.WriteSendScripts(dir, 1, 10))
}

func TestWriteQueryScripts(t *testing.T) {
	g, dir := testSetup(t)
	require.NoError(t, g.WriteQueryScripts(dir, 100, 103, "qry_result.txt", "tx_result.txt"))

	tx := readFile(t, filepath.Join(dir, "qrytx.sh"))
	// The dump header the TxCountReport expects: floor then ceiling.
	assert.Contains(t, tx, "echo 100 > tx_result.txt")
	assert.Contains(t, tx, "echo 103 >> tx_result.txt")
	assert.Contains(t, tx, "for ((n=100;n<103;n++))")
	assert.Contains(t, tx, "eth_getBlockTransactionCountByNumber")
	// Tx counts read through the node after the block-query node.
	assert.Contains(t, tx, "localhost:8652")

	blk := readFile(t, filepath.Join(dir, "qryblocks.sh"))
	assert.Contains(t, blk, "eth_getBlockByNumber")
	// Full transaction objects, and a sealer other than node 0.
	assert.Contains(t, blk, `",true]`)
	assert.Contains(t, blk, "localhost:8651")
	assert.Contains(t, blk, ">> qry_result.txt")
}

func TestWriteQueryScripts_LastNodeOffset(t *testing.T) {
	g, dir := testSetup(t)
	// With the offset on the last sealer there is no next node, so both
	// captures read through the same one.
	g.cfg.Network.QueryPortOffset = 2
	require.NoError(t, g.WriteQueryScripts(dir, 1, 2, "qry_result.txt", "tx_result.txt"))

	blk := readFile(t, filepath.Join(dir, "qryblocks.sh"))
	assert.Contains(t, blk, "localhost:8652")
	tx := readFile(t, filepath.Join(dir, "qrytx.sh"))
	assert.Contains(t, tx, "localhost:8652")
}

func TestWriteQueryScripts_BadRange(t *testing.T) {
	g, dir := testSetup(t)
	require.Error(t, g.WriteQueryScripts(dir, 103, 100, "a.txt", "b.txt"))
}
