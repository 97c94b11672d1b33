package main

import (
	"fmt"
	"io"
	"math/big"

	"github.com/nspcc-dev/neo-go/pkg/encoding/address"
	"github.com/nspcc-dev/neo-go/pkg/encoding/fixedn"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/invoker"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/nep17"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/vaultguard-labs/vaultguard-contract/rpc/vaultguard"
)

// maxListedSubmissions limits researcher submissions printed at once.
const maxListedSubmissions = 1000

func newVaultCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "vault <id>",
		Short:   "Show bounty vault",
		Example: "vaultguard vault 0 --contract NfgHwwTi3wHAS8aFAN243C5vGbkYDpqLHP",
		Args:    cobra.ExactArgs(1),
		RunE:    runVault,
	}
}

func runVault(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	b, err := dial(cmd.Context())
	if err != nil {
		return err
	}
	defer b.close()

	r, err := b.reader()
	if err != nil {
		return err
	}

	v, err := r.GetVault(id)
	if err != nil {
		return fmt.Errorf("get vault: %w", err)
	}

	decimals := assetDecimals(b, v.Asset)
	out := cmd.OutOrStdout()

	fmt.Fprintf(out, "Vault:          %s\n", id)
	fmt.Fprintf(out, "Owner:          %s\n", address.Uint160ToString(v.Owner))
	fmt.Fprintf(out, "Asset:          %s\n", v.Asset.StringLE())
	fmt.Fprintf(out, "Active:         %t\n", v.Active)
	fmt.Fprintf(out, "Total deposit:  %s\n", fixedn.ToString(v.TotalDeposit, decimals))
	fmt.Fprintf(out, "Remaining:      %s\n", fixedn.ToString(v.RemainingFunds, decimals))
	fmt.Fprintf(out, "Approvals:      %s of %d\n", v.RequiredApprovals, len(v.Judges))

	for i := range v.Judges {
		fmt.Fprintf(out, "Judge #%d:       %s\n", i, address.Uint160ToString(v.Judges[i]))
	}

	for i := range v.Payouts {
		fmt.Fprintf(out, "Payout %-8s %s bp\n", vaultguard.SeverityString(big.NewInt(int64(i)))+":", v.Payouts[i])
	}

	if v.HasStrategy() {
		fmt.Fprintf(out, "Yield strategy: %s\n", v.Strategy.StringLE())
	}

	return nil
}

func newSubmissionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "submission [id]",
		Short: "Show vulnerability submission or list submissions of a researcher",
		Example: "vaultguard submission 3\n" +
			"vaultguard submission --researcher NbrUYaZgyhSkNoRo9ugRyEMdUZxrhkNaWB",
		Args: cobra.MaximumNArgs(1),
		RunE: runSubmission,
	}

	cmd.Flags().String("researcher", "", "List submissions of the researcher")
	_ = viper.BindPFlag("submission.researcher", cmd.Flags().Lookup("researcher"))

	return cmd
}

func runSubmission(cmd *cobra.Command, args []string) error {
	b, err := dial(cmd.Context())
	if err != nil {
		return err
	}
	defer b.close()

	r, err := b.reader()
	if err != nil {
		return err
	}

	if researcher := viper.GetString("submission.researcher"); researcher != "" {
		h, err := parseHash(researcher)
		if err != nil {
			return err
		}

		items, err := r.SubmissionsOfExpanded(h, maxListedSubmissions)
		if err != nil {
			return fmt.Errorf("list researcher submissions: %w", err)
		}

		for i := range items {
			id, err := items[i].TryInteger()
			if err != nil {
				return fmt.Errorf("invalid submission ID #%d: %w", i, err)
			}

			err = printSubmission(cmd.OutOrStdout(), b, r, id)
			if err != nil {
				return err
			}
		}

		return nil
	}

	if len(args) == 0 {
		return fmt.Errorf("submission ID or --researcher is required")
	}

	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	return printSubmission(cmd.OutOrStdout(), b, r, id)
}

func printSubmission(out io.Writer, b *remoteBlockchain, r *vaultguard.ContractReader, id *big.Int) error {
	s, err := r.GetSubmissionDetails(id)
	if err != nil {
		return fmt.Errorf("get submission %s: %w", id, err)
	}

	v, err := r.GetVault(s.VaultID)
	if err != nil {
		return fmt.Errorf("get vault %s: %w", s.VaultID, err)
	}

	fmt.Fprintf(out, "Submission %s (vault %s)\n", id, s.VaultID)
	fmt.Fprintf(out, "  Researcher: %s\n", address.Uint160ToString(s.Researcher))
	fmt.Fprintf(out, "  Report:     %s\n", s.ReportHash)
	fmt.Fprintf(out, "  Severity:   %s\n", vaultguard.SeverityString(s.Severity))
	fmt.Fprintf(out, "  Status:     %s\n", vaultguard.StatusString(s.Status))
	fmt.Fprintf(out, "  Approvals:  %s of %s\n", s.ApprovalCount, v.RequiredApprovals)
	fmt.Fprintf(out, "  Payout:     %s\n", fixedn.ToString(s.PayoutAmount, assetDecimals(b, v.Asset)))

	return nil
}

// assetDecimals returns decimals of the NEP-17 token, 0 if unknown.
func assetDecimals(b *remoteBlockchain, asset util.Uint160) int {
	d, err := nep17.NewReader(invoker.New(b.rpc, nil), asset).Decimals()
	if err != nil {
		return 0
	}
	return d
}

