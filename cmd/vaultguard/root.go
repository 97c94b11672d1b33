package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const (
	cfgRPC      = "rpc"
	cfgWallet   = "wallet"
	cfgAddress  = "address"
	cfgPassword = "password"
	cfgContract = "contract"
	cfgTimeout  = "timeout"
	cfgDebug    = "debug"
)

var rootCmd *cobra.Command

func init() {
	rootCmd = &cobra.Command{
		Use:           "vaultguard",
		Short:         "VaultGuard bug bounty escrow operator tool",
		Long:          "Deploy VaultGuard contracts, manage bounty vaults, submit and judge vulnerability reports, watch contract events.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cobra.OnInitialize(readConfig)

	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "Config file (YAML, JSON or TOML)")
	flags.StringP(cfgRPC, "r", "ws://localhost:30333/ws", "Neo WebSocket RPC endpoint")
	flags.StringP(cfgWallet, "w", "", "Path to NEP-6 wallet")
	flags.StringP(cfgAddress, "a", "", "Wallet account address (default account if empty)")
	flags.String(cfgPassword, "", "Wallet account password")
	flags.String(cfgContract, "", "VaultGuard contract address")
	flags.Duration(cfgTimeout, defaultTimeout, "Timeout of RPC requests")
	flags.Bool(cfgDebug, false, "Enable debug logs")

	for _, name := range []string{cfgRPC, cfgWallet, cfgAddress, cfgPassword, cfgContract, cfgTimeout, cfgDebug} {
		_ = viper.BindPFlag(name, flags.Lookup(name))
	}

	// VAULTGUARD_RPC, VAULTGUARD_PASSWORD, etc.
	viper.SetEnvPrefix("VAULTGUARD")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	rootCmd.AddCommand(
		newDeployCmd(),
		newVaultCmd(),
		newSubmissionCmd(),
		newCreateCmd(),
		newDepositCmd(),
		newSubmitCmd(),
		newVoteCmd(),
		newClaimCmd(),
		newCloseCmd(),
		newSetStrategyCmd(),
		newWatchCmd(),
	)
}

func readConfig() {
	path, _ := rootCmd.PersistentFlags().GetString("config")
	if path == "" {
		return
	}

	viper.SetConfigFile(path)

	if err := viper.ReadInConfig(); err != nil {
		cobra.CheckErr(fmt.Errorf("read config file: %w", err))
	}
}

func newLogger() (*zap.Logger, error) {
	if viper.GetBool(cfgDebug) {
		return zap.NewDevelopment()
	}

	return zap.NewProduction()
}
