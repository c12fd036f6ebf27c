// Package gen emits the testbed artifacts: node directories, per-node TOML
// configs, and the shell scripts that create accounts, launch nodes, submit
// transactions, and capture the RPC dumps the report generators consume. The
// emitted scripts do the network I/O; this tool never does.
package gen

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/TEEs-projects/testchain/internal/config"
	"github.com/TEEs-projects/testchain/internal/logger"
	"github.com/TEEs-projects/testchain/internal/validators"
)

type Generator struct {
	cfg    *config.Config
	roster *validators.Roster
}

func New(cfg *config.Config, roster *validators.Roster) *Generator {
	return &Generator{cfg: cfg, roster: roster}
}

// WriteNodeTree creates one directory plus password file per validator and
// writes the node TOML configs and the operational scripts into dir.
func (g *Generator) WriteNodeTree(dir string) error {
	n := g.roster.Size()
	sealers := g.roster.Addresses()

	for i := 0; i < n; i++ {
		nodeDir := filepath.Join(dir, fmt.Sprintf("node%d", i))
		if err := os.MkdirAll(nodeDir, 0o755); err != nil {
			return fmt.Errorf("error creating %s: %w", nodeDir, err)
		}
		password := fmt.Sprintf("node%d", i)
		if err := os.WriteFile(filepath.Join(nodeDir, "password.txt"), []byte(password), 0o644); err != nil {
			return fmt.Errorf("error writing password file for node%d: %w", i, err)
		}
		if err := g.writeNodeTOML(dir, i, sealers[i]); err != nil {
			return err
		}
	}

	scripts := []struct {
		name    string
		content string
	}{
		{"mkdir.sh", g.mkdirScript()},
		{"accounts.sh", g.accountsScript()},
		{"create_accs.sh", g.createAccountsScript()},
		{"qryacc.sh", g.queryAccountsScript()},
		{"removedb.sh", g.removeDBScript()},
		{"nohuprun.sh", g.launchScript()},
	}
	for _, s := range scripts {
		if err := writeScript(filepath.Join(dir, s.name), s.content); err != nil {
			return err
		}
	}

	logger.Info("GEN", "Wrote %d node configs and %d scripts to %s", n, len(scripts), dir)
	return nil
}

// writeNodeTOML writes node<i>.toml with per-node ports and the node's sealer
// unlocked for Aura signing.
func (g *Generator) writeNodeTOML(dir string, i int, sealer string) error {
	var b strings.Builder

	fmt.Fprintf(&b, "[parity]\nchain = %q\nbase_path = %q\n\n", g.cfg.Chain.SpecFile, fmt.Sprintf("node%d", i))
	fmt.Fprintf(&b, "[network]\nport = %d\nid = %d\nreserved_only = false\nreserved_peers = \"myPrivateNetwork.txt\"\n\n",
		g.cfg.Network.BasePort+i, g.cfg.Chain.NetworkID)
	fmt.Fprintf(&b, "[rpc]\nport = %d\napis = [\"all\"]\n\n", g.cfg.Network.RPCBasePort+i)
	fmt.Fprintf(&b, "[websockets]\ndisable = false\nport = %d\n\n", g.cfg.Network.WSBasePort+i)
	fmt.Fprintf(&b, "[account]\npassword = [\"node%d/password.txt\"]\nunlock = [%q]\n\n", i, sealer)
	fmt.Fprintf(&b, "[mining]\nreseal_on_txs = \"none\"\nforce_sealing = true\nauthor = %q\nengine_signer = %q\n", sealer, sealer)

	path := filepath.Join(dir, fmt.Sprintf("node%d.toml", i))
	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("error writing %s: %w", path, err)
	}
	return nil
}

func (g *Generator) mkdirScript() string {
	var b strings.Builder
	for i := 0; i < g.roster.Size(); i++ {
		fmt.Fprintf(&b, "mkdir ./node%d\n", i)
	}
	return b.String()
}

// accountsScript creates the sealer accounts from deterministic phrases, one
// curl per node RPC port.
func (g *Generator) accountsScript() string {
	var b strings.Builder
	for i := 0; i < g.roster.Size(); i++ {
		fmt.Fprintf(&b,
			`curl --data '{"jsonrpc":"2.0","method":"parity_newAccountFromPhrase","params":["node%d", "node%d"],"id":0}' -H "Content-Type: application/json" -X POST localhost:%d`+"\n",
			i, i, g.cfg.Network.RPCBasePort+i)
	}
	return b.String()
}

// createAccountsScript opens one terminal per node for the first run, when
// the client creates its key store before the network is brought up.
func (g *Generator) createAccountsScript() string {
	var b strings.Builder
	b.WriteString("#!/bin/bash\n\n")
	for i := 0; i < g.roster.Size(); i++ {
		fmt.Fprintf(&b,
			"gnome-terminal -t \"node%d\" -x bash -c \"%s --config node%d.toml;exec bash;\"\n",
			i, g.cfg.Chain.Binary, i)
	}
	return b.String()
}

func (g *Generator) queryAccountsScript() string {
	var b strings.Builder
	for i := 0; i < g.roster.Size(); i++ {
		fmt.Fprintf(&b,
			`curl --data '{"method":"eth_accounts","params":[],"id":1,"jsonrpc":"2.0"}' -H "Content-Type: application/json" -X POST localhost:%d`+"\n",
			g.cfg.Network.RPCBasePort+i)
	}
	return b.String()
}

// removeDBScript wipes the chain databases but keeps the key stores, so a
// fresh run reuses the same sealer accounts.
func (g *Generator) removeDBScript() string {
	var b strings.Builder
	for i := 0; i < g.roster.Size(); i++ {
		fmt.Fprintf(&b, "rm -r ./node%d/chains/*/db\n", i)
	}
	return b.String()
}

// launchScript starts every node under nohup. The malicious node can run a
// different engine build when chain.malicious_binary is set.
func (g *Generator) launchScript() string {
	var b strings.Builder
	b.WriteString("#!/bin/bash\n\n")
	b.WriteString("mkdir -p logs\n: > nodes.pid\n")
	for i := 0; i < g.roster.Size(); i++ {
		bin := g.cfg.Chain.Binary
		if i == g.cfg.Chain.MaliciousIndex && g.cfg.Chain.MaliciousBin != "" {
			bin = g.cfg.Chain.MaliciousBin
		}
		fmt.Fprintf(&b, "nohup %s --config node%d.toml 1>logs/node%d.log 2>&1 & echo $! >> nodes.pid\n", bin, i, i)
	}
	return b.String()
}

func writeScript(path, content string) error {
	if err := os.WriteFile(path, []byte(content), 0o755); err != nil {
		return fmt.Errorf("error writing %s: %w", path, err)
	}
	return nil
}
