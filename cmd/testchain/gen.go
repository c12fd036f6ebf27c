package main

import (
	"github.com/spf13/cobra"

	"github.com/TEEs-projects/testchain/internal/gen"
)

var (
	genDir         string
	genSenders     int
	genTxPerSender int
	genFloor       int
	genCeiling     int
	genBlockDump   string
	genTxDump      string
)

var genCmd = &cobra.Command{
	Use:   "gen",
	Short: "Generate testbed node configs and shell scripts",
}

var genNodesCmd = &cobra.Command{
	Use:   "nodes",
	Short: "Generate node directories, password files, TOML configs, and operational scripts",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, roster, err := loadConfig()
		if err != nil {
			return err
		}
		return gen.New(cfg, roster).WriteNodeTree(genDir)
	},
}

var genSendCmd = &cobra.Command{
	Use:   "send",
	Short: "Generate the parallel transaction-send scripts",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, roster, err := loadConfig()
		if err != nil {
			return err
		}
		return gen.New(cfg, roster).WriteSendScripts(genDir, genSenders, genTxPerSender)
	},
}

var genQueryCmd = &cobra.Command{
	Use:   "query",
	Short: "Generate the dump-capture scripts for a block range",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, roster, err := loadConfig()
		if err != nil {
			return err
		}
		return gen.New(cfg, roster).WriteQueryScripts(genDir, genFloor, genCeiling, genBlockDump, genTxDump)
	},
}

func init() {
	genCmd.PersistentFlags().StringVar(&genDir, "dir", ".", "target directory")

	genSendCmd.Flags().IntVar(&genSenders, "senders", 0, "number of parallel send scripts (default: one per user account)")
	genSendCmd.Flags().IntVar(&genTxPerSender, "txs", 1000, "transactions per send script")

	genQueryCmd.Flags().IntVar(&genFloor, "floor", 1, "first block to query (inclusive)")
	genQueryCmd.Flags().IntVar(&genCeiling, "ceiling", 0, "block to stop before (exclusive)")
	genQueryCmd.Flags().StringVar(&genBlockDump, "block-dump", "qry_result.txt", "file the block capture script appends to")
	genQueryCmd.Flags().StringVar(&genTxDump, "tx-dump", "tx_result.txt", "file the tx count capture script appends to")
	_ = genQueryCmd.MarkFlagRequired("ceiling")

	genCmd.AddCommand(genNodesCmd)
	genCmd.AddCommand(genSendCmd)
	genCmd.AddCommand(genQueryCmd)
	rootCmd.AddCommand(genCmd)
}
