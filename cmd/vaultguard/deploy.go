package main

import (
	"fmt"
	"os"

	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/vaultguard-labs/vaultguard-contract/contracts"
	"github.com/vaultguard-labs/vaultguard-contract/deploy"
)

func newDeployCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "deploy",
		Short: "Deploy VaultGuard and Reputation contracts",
		Long: "Deploy compiled VaultGuard and Reputation contracts from the directory " +
			"holding vaultguard/ and reputation/ subdirectories with contract.nef and manifest.json files. " +
			"Already deployed contracts are reused.",
		Example: "vaultguard deploy --contracts ./build --platform-wallet NbrUYaZgyhSkNoRo9ugRyEMdUZxrhkNaWB",
		RunE:    runDeploy,
	}

	cmd.Flags().String("contracts", ".", "Directory with compiled contracts")
	cmd.Flags().String("platform-wallet", "", "Address receiving platform fees")
	cmd.Flags().String("admin", "", "Contracts administrator address (wallet account if empty)")

	for _, name := range []string{"contracts", "platform-wallet", "admin"} {
		_ = viper.BindPFlag("deploy."+name, cmd.Flags().Lookup(name))
	}

	return cmd
}

func runDeploy(cmd *cobra.Command, _ []string) error {
	vaultGuard, reputation, err := contracts.ReadAll(os.DirFS(viper.GetString("deploy.contracts")))
	if err != nil {
		return err
	}

	platform, err := parseHash(viper.GetString("deploy.platform-wallet"))
	if err != nil {
		return fmt.Errorf("invalid platform wallet: %w", err)
	}

	var admin util.Uint160
	if s := viper.GetString("deploy.admin"); s != "" {
		admin, err = parseHash(s)
		if err != nil {
			return fmt.Errorf("invalid admin: %w", err)
		}
	}

	acc, err := openAccount(viper.GetString(cfgWallet), viper.GetString(cfgAddress), viper.GetString(cfgPassword))
	if err != nil {
		return err
	}

	log, err := newLogger()
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	b, err := dial(cmd.Context())
	if err != nil {
		return err
	}
	defer b.close()

	res, err := deploy.Deploy(cmd.Context(), deploy.Prm{
		Logger:         log,
		Blockchain:     b.rpc,
		LocalAccount:   acc,
		Admin:          admin,
		PlatformWallet: platform,
		ReputationContract: deploy.CommonDeployPrm{
			NEF:      reputation.NEF,
			Manifest: reputation.Manifest,
		},
		VaultGuardContract: deploy.CommonDeployPrm{
			NEF:      vaultGuard.NEF,
			Manifest: vaultGuard.Manifest,
		},
	})
	if err != nil {
		return fmt.Errorf("deploy: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "VaultGuard: %s\n", res.VaultGuard.StringLE())
	if !res.Reputation.Equals(util.Uint160{}) {
		fmt.Fprintf(cmd.OutOrStdout(), "Reputation: %s\n", res.Reputation.StringLE())
	}

	return nil
}
