package gen

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/TEEs-projects/testchain/internal/logger"
)

// WriteSendScripts emits sends/send<i>.sh for each of senders parallel
// workers plus the send.sh driver that runs them all and brackets the run
// with timestamps. Each worker loops txPerSender simple value transfers
// between configured user accounts, round-robin over the user RPC ports
// (the ports directly after the sealer nodes).
func (g *Generator) WriteSendScripts(dir string, senders, txPerSender int) error {
	if len(g.cfg.Chain.Users) == 0 {
		return fmt.Errorf("chain.users must list sender accounts")
	}
	if senders <= 0 {
		senders = len(g.cfg.Chain.Users)
	}
	if txPerSender <= 0 {
		txPerSender = 1000
	}

	sendsDir := filepath.Join(dir, "sends")
	if err := os.MkdirAll(sendsDir, 0o755); err != nil {
		return fmt.Errorf("error creating %s: %w", sendsDir, err)
	}

	users := g.cfg.Chain.Users
	userPortBase := g.cfg.Network.RPCBasePort + g.roster.Size()

	for i := 0; i < senders; i++ {
		from := users[i%len(users)]
		// Send to an account two positions over, as the original load
		// pattern did, so transfers never self-address.
		to := users[(i%len(users)+2)%len(users)]
		port := userPortBase + i%senders

		var b strings.Builder
		b.WriteString("#!/bin/bash\n")
		fmt.Fprintf(&b, "for ((i=1;i<%d;i++)); do  echo $i; \n", txPerSender)
		fmt.Fprintf(&b,
			`time curl --data '{"method":"eth_sendTransaction","params":[{"from":"%s","to":"%s","gas":"0x21000","gasPrice":"0x20","value":"0x22"}],"id":1,"jsonrpc":"2.0"}' -H "Content-Type: application/json" -X POST localhost:%d; `+"\n",
			from, to, port)
		b.WriteString("done\n")

		if err := writeScript(filepath.Join(sendsDir, fmt.Sprintf("send%d.sh", i)), b.String()); err != nil {
			return err
		}
	}

	var b strings.Builder
	b.WriteString("#!/bin/bash\n")
	for i := 0; i < senders; i++ {
		fmt.Fprintf(&b, "chmod +x ./sends/send%d.sh\n", i)
	}
	b.WriteString("echo 'nohup start'+$(date +%H:%M:%S)>trans_out.txt\n")
	for i := 0; i < senders; i++ {
		fmt.Fprintf(&b, "./sends/send%d.sh &\n", i)
	}
	b.WriteString("wait\necho 'nohup end'+$(date +%H:%M:%S)>>trans_out.txt\n")
	if err := writeScript(filepath.Join(dir, "send.sh"), b.String()); err != nil {
		return err
	}

	logger.Info("GEN", "Wrote %d send scripts to %s (%d txs each)", senders, sendsDir, txPerSender)
	return nil
}

// WriteQueryScripts emits the capture scripts whose output the report
// generators consume:
//   - qrytx.sh writes the floor and ceiling header lines and then one
//     eth_getBlockTransactionCountByNumber response per block in
//     [floor, ceiling), matching the TxCountReport input contract.
//   - qryblocks.sh writes one eth_getBlockByNumber response per block,
//     matching the BlockReport input contract.
//
// The two scripts read through different sealers, network.query_port_offset
// and the node after it, so the captures never reflect node 0's view while
// it runs the misbehaving build.
func (g *Generator) WriteQueryScripts(dir string, floor, ceiling int, blockDump, txDump string) error {
	if ceiling < floor {
		return fmt.Errorf("ceiling %d below floor %d", ceiling, floor)
	}
	blockPort := g.cfg.Network.RPCBasePort + g.cfg.Network.QueryPortOffset
	txPort := blockPort + 1
	if g.cfg.Network.QueryPortOffset+1 >= g.roster.Size() {
		// No node after the offset one; reuse it for the tx capture.
		txPort = blockPort
	}

	var tx strings.Builder
	tx.WriteString("#!/bin/bash\n")
	fmt.Fprintf(&tx, "echo %d > %s\n", floor, txDump)
	fmt.Fprintf(&tx, "echo %d >> %s\n", ceiling, txDump)
	fmt.Fprintf(&tx, "for ((n=%d;n<%d;n++)); do\n", floor, ceiling)
	fmt.Fprintf(&tx,
		`  curl -s --data '{"method":"eth_getBlockTransactionCountByNumber","params":["'"$(printf '0x%%x' $n)"'"],"id":1,"jsonrpc":"2.0"}' -H "Content-Type: application/json" -X POST localhost:%d >> %s`+"\n",
		txPort, txDump)
	fmt.Fprintf(&tx, "  echo >> %s\n", txDump)
	tx.WriteString("done\n")
	if err := writeScript(filepath.Join(dir, "qrytx.sh"), tx.String()); err != nil {
		return err
	}

	var blk strings.Builder
	blk.WriteString("#!/bin/bash\n")
	fmt.Fprintf(&blk, ": > %s\n", blockDump)
	fmt.Fprintf(&blk, "for ((n=%d;n<%d;n++)); do\n", floor, ceiling)
	fmt.Fprintf(&blk,
		`  curl -s --data '{"method":"eth_getBlockByNumber","params":["'"$(printf '0x%%x' $n)"'",true],"id":1,"jsonrpc":"2.0"}' -H "Content-Type: application/json" -X POST localhost:%d >> %s`+"\n",
		blockPort, blockDump)
	fmt.Fprintf(&blk, "  echo >> %s\n", blockDump)
	blk.WriteString("done\n")
	if err := writeScript(filepath.Join(dir, "qryblocks.sh"), blk.String()); err != nil {
		return err
	}

	logger.Info("GEN", "Wrote query scripts for blocks [%d, %d) to %s", floor, ceiling, dir)
	return nil
}
