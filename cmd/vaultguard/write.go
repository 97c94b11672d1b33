package main

import (
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/nspcc-dev/neo-go/pkg/encoding/address"
	"github.com/nspcc-dev/neo-go/pkg/encoding/fixedn"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/gas"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/vaultguard-labs/vaultguard-contract/internal/report"
	"github.com/vaultguard-labs/vaultguard-contract/rpc/vaultguard"
)

func newCreateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "create",
		Short:   "Create bounty vault funded from the wallet account",
		Example: "vaultguard create --amount 100 --judges NbrUYaZgyhSkNoRo9ugRyEMdUZxrhkNaWB,NZHf1NJvz1tvELGLWZjhpb3NqZJFFUYpxT --approvals 2 --payouts 1000,2500,5000,10000",
		RunE:    runCreate,
	}

	cmd.Flags().String("asset", "GAS", "NEP-17 token to fund the vault with: GAS or token contract address")
	cmd.Flags().String("amount", "", "Initial deposit in token units")
	cmd.Flags().String("judges", "", "Comma-separated judge addresses")
	cmd.Flags().Int64("approvals", 1, "Number of judge approvals required for a payout")
	cmd.Flags().String("payouts", "1000,2500,5000,10000", "Payout percentages in basis points for low,medium,high,critical severities")

	for _, name := range []string{"asset", "amount", "judges", "approvals", "payouts"} {
		_ = viper.BindPFlag("create."+name, cmd.Flags().Lookup(name))
	}

	return cmd
}

func runCreate(cmd *cobra.Command, _ []string) error {
	asset, err := parseAsset(viper.GetString("create.asset"))
	if err != nil {
		return err
	}

	judges, err := parseHashList(viper.GetString("create.judges"))
	if err != nil {
		return fmt.Errorf("invalid judges: %w", err)
	}

	payouts, err := parsePayouts(viper.GetString("create.payouts"))
	if err != nil {
		return fmt.Errorf("invalid payouts: %w", err)
	}

	approvals := viper.GetInt64("create.approvals")
	if approvals < 1 || approvals > int64(len(judges)) {
		return fmt.Errorf("approvals must be in [1, %d] range", len(judges))
	}

	b, err := dial(cmd.Context())
	if err != nil {
		return err
	}
	defer b.close()

	amount, err := parseAmount(viper.GetString("create.amount"), assetDecimals(b, asset))
	if err != nil {
		return fmt.Errorf("invalid amount: %w", err)
	}

	c, a, err := b.vaultGuard()
	if err != nil {
		return err
	}

	txHash, vub, err := c.CreateVault(asset, amount, judges, big.NewInt(approvals), payouts)
	log, err := await(a, txHash, vub, err)
	if err != nil {
		return fmt.Errorf("create vault: %w", err)
	}

	evs, err := vaultguard.VaultCreatedEventsFromApplicationLog(log)
	if err != nil || len(evs) != 1 {
		return fmt.Errorf("vault is created in %s, but VaultCreated event is missing", log.Container.StringLE())
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Vault %s created in %s\n", evs[0].VaultID, log.Container.StringLE())

	return nil
}

func newDepositCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "deposit",
		Short:   "Top up bounty vault",
		Example: "vaultguard deposit --vault 0 --amount 50",
		RunE:    runDeposit,
	}

	cmd.Flags().String("vault", "", "Vault ID")
	cmd.Flags().String("amount", "", "Deposit in vault token units")

	_ = viper.BindPFlag("deposit.vault", cmd.Flags().Lookup("vault"))
	_ = viper.BindPFlag("deposit.amount", cmd.Flags().Lookup("amount"))

	return cmd
}

func runDeposit(cmd *cobra.Command, _ []string) error {
	vaultID, err := parseID(viper.GetString("deposit.vault"))
	if err != nil {
		return err
	}

	b, err := dial(cmd.Context())
	if err != nil {
		return err
	}
	defer b.close()

	c, a, err := b.vaultGuard()
	if err != nil {
		return err
	}

	v, err := c.GetVault(vaultID)
	if err != nil {
		return fmt.Errorf("get vault: %w", err)
	}

	amount, err := parseAmount(viper.GetString("deposit.amount"), assetDecimals(b, v.Asset))
	if err != nil {
		return fmt.Errorf("invalid amount: %w", err)
	}

	txHash, vub, err := c.Deposit(v.Asset, vaultID, amount)
	log, err := await(a, txHash, vub, err)
	if err != nil {
		return fmt.Errorf("deposit: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Deposited to vault %s in %s\n", vaultID, log.Container.StringLE())

	return nil
}

func newSubmitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "submit",
		Short:   "Submit vulnerability report to the vault as the wallet account",
		Example: "vaultguard submit --vault 0 --report QmYwAPJzv5CZsnA625s3Xf2nemtYgPpHdWEz79ojWnPbdG --severity high",
		RunE:    runSubmit,
	}

	cmd.Flags().String("vault", "", "Vault ID")
	cmd.Flags().String("report", "", "Report pointer, usually IPFS CID")
	cmd.Flags().String("severity", "", "Severity: low, medium, high or critical")

	for _, name := range []string{"vault", "report", "severity"} {
		_ = viper.BindPFlag("submit."+name, cmd.Flags().Lookup(name))
	}

	return cmd
}

func runSubmit(cmd *cobra.Command, _ []string) error {
	vaultID, err := parseID(viper.GetString("submit.vault"))
	if err != nil {
		return err
	}

	reportHash := viper.GetString("submit.report")

	err = report.Validate(reportHash)
	if err != nil {
		return fmt.Errorf("invalid report: %w", err)
	}

	severity, ok := vaultguard.ParseSeverity(strings.ToLower(viper.GetString("submit.severity")))
	if !ok {
		return fmt.Errorf("invalid severity: %q", viper.GetString("submit.severity"))
	}

	b, err := dial(cmd.Context())
	if err != nil {
		return err
	}
	defer b.close()

	c, a, err := b.vaultGuard()
	if err != nil {
		return err
	}

	txHash, vub, err := c.SubmitVulnerability(vaultID, a.Sender(), reportHash, severity)
	log, err := await(a, txHash, vub, err)
	if err != nil {
		return fmt.Errorf("submit vulnerability: %w", err)
	}

	evs, err := vaultguard.SubmissionCreatedEventsFromApplicationLog(log)
	if err != nil || len(evs) != 1 {
		return fmt.Errorf("report is submitted in %s, but SubmissionCreated event is missing", log.Container.StringLE())
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Submission %s created in %s\n", evs[0].SubmissionID, log.Container.StringLE())

	return nil
}

func newVoteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "vote",
		Short:   "Vote on the submission as a vault judge",
		Example: "vaultguard vote --submission 3\nvaultguard vote --submission 4 --reject",
		RunE:    runVote,
	}

	cmd.Flags().String("submission", "", "Submission ID")
	cmd.Flags().Bool("reject", false, "Reject the submission instead of approving it")

	_ = viper.BindPFlag("vote.submission", cmd.Flags().Lookup("submission"))
	_ = viper.BindPFlag("vote.reject", cmd.Flags().Lookup("reject"))

	return cmd
}

func runVote(cmd *cobra.Command, _ []string) error {
	subID, err := parseID(viper.GetString("vote.submission"))
	if err != nil {
		return err
	}

	approved := !viper.GetBool("vote.reject")

	b, err := dial(cmd.Context())
	if err != nil {
		return err
	}
	defer b.close()

	c, a, err := b.vaultGuard()
	if err != nil {
		return err
	}

	txHash, vub, err := c.VoteOnSubmission(subID, a.Sender(), approved)
	log, err := await(a, txHash, vub, err)
	if err != nil {
		return fmt.Errorf("vote: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Vote accepted in %s\n", log.Container.StringLE())

	if evs, _ := vaultguard.SubmissionApprovedEventsFromApplicationLog(log); len(evs) == 1 {
		fmt.Fprintf(out, "Submission %s approved, payout %s\n", evs[0].SubmissionID, evs[0].PayoutAmount)
	}

	if evs, _ := vaultguard.SubmissionRejectedEventsFromApplicationLog(log); len(evs) == 1 {
		fmt.Fprintf(out, "Submission %s rejected\n", evs[0].SubmissionID)
	}

	return nil
}

func newClaimCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "claim",
		Short:   "Claim payout of the approved submission as its researcher",
		Example: "vaultguard claim --submission 3",
		RunE:    runClaim,
	}

	cmd.Flags().String("submission", "", "Submission ID")
	_ = viper.BindPFlag("claim.submission", cmd.Flags().Lookup("submission"))

	return cmd
}

func runClaim(cmd *cobra.Command, _ []string) error {
	subID, err := parseID(viper.GetString("claim.submission"))
	if err != nil {
		return err
	}

	b, err := dial(cmd.Context())
	if err != nil {
		return err
	}
	defer b.close()

	c, a, err := b.vaultGuard()
	if err != nil {
		return err
	}

	txHash, vub, err := c.ClaimPayout(subID)
	log, err := await(a, txHash, vub, err)
	if err != nil {
		return fmt.Errorf("claim payout: %w", err)
	}

	evs, err := vaultguard.PayoutSentEventsFromApplicationLog(log)
	if err != nil || len(evs) != 1 {
		return fmt.Errorf("payout is claimed in %s, but PayoutSent event is missing", log.Container.StringLE())
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s sent to %s in %s\n",
		evs[0].Amount, address.Uint160ToString(evs[0].Researcher), log.Container.StringLE())

	return nil
}

func newCloseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "close",
		Short:   "Close the vault refunding remaining funds to its owner",
		Example: "vaultguard close --vault 0",
		RunE:    runClose,
	}

	cmd.Flags().String("vault", "", "Vault ID")
	_ = viper.BindPFlag("close.vault", cmd.Flags().Lookup("vault"))

	return cmd
}

func runClose(cmd *cobra.Command, _ []string) error {
	vaultID, err := parseID(viper.GetString("close.vault"))
	if err != nil {
		return err
	}

	b, err := dial(cmd.Context())
	if err != nil {
		return err
	}
	defer b.close()

	c, a, err := b.vaultGuard()
	if err != nil {
		return err
	}

	v, err := c.GetVault(vaultID)
	if err != nil {
		return fmt.Errorf("get vault: %w", err)
	}

	txHash, vub, err := c.CloseVault(vaultID)
	log, err := await(a, txHash, vub, err)
	if err != nil {
		return fmt.Errorf("close vault: %w", err)
	}

	evs, err := vaultguard.VaultClosedEventsFromApplicationLog(log)
	if err != nil || len(evs) != 1 {
		return fmt.Errorf("vault is closed in %s, but VaultClosed event is missing", log.Container.StringLE())
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Vault %s closed in %s, refunded %s\n",
		vaultID, log.Container.StringLE(), fixedn.ToString(evs[0].Refund, assetDecimals(b, v.Asset)))

	return nil
}

func newSetStrategyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "set-strategy",
		Short:   "Attach yield strategy to the vault, detach if strategy is empty",
		Example: "vaultguard set-strategy --vault 0 --strategy 0x2ba6f7b1b2c2b8f2c1e2d4e6d3c4b5a697887766",
		RunE:    runSetStrategy,
	}

	cmd.Flags().String("vault", "", "Vault ID")
	cmd.Flags().String("strategy", "", "Yield strategy contract address")

	_ = viper.BindPFlag("set-strategy.vault", cmd.Flags().Lookup("vault"))
	_ = viper.BindPFlag("set-strategy.strategy", cmd.Flags().Lookup("strategy"))

	return cmd
}

func runSetStrategy(cmd *cobra.Command, _ []string) error {
	vaultID, err := parseID(viper.GetString("set-strategy.vault"))
	if err != nil {
		return err
	}

	var strategy util.Uint160

	if s := viper.GetString("set-strategy.strategy"); s != "" {
		strategy, err = parseHash(s)
		if err != nil {
			return fmt.Errorf("invalid strategy: %w", err)
		}
	}

	b, err := dial(cmd.Context())
	if err != nil {
		return err
	}
	defer b.close()

	c, a, err := b.vaultGuard()
	if err != nil {
		return err
	}

	txHash, vub, err := c.SetYieldStrategy(vaultID, strategy)
	log, err := await(a, txHash, vub, err)
	if err != nil {
		return fmt.Errorf("set yield strategy: %w", err)
	}

	if strategy.Equals(util.Uint160{}) {
		fmt.Fprintf(cmd.OutOrStdout(), "Yield strategy of vault %s detached in %s\n", vaultID, log.Container.StringLE())
		return nil
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Yield strategy of vault %s set in %s\n", vaultID, log.Container.StringLE())

	return nil
}

// parseAsset accepts "GAS" keyword or NEP-17 contract address.
func parseAsset(s string) (util.Uint160, error) {
	if strings.EqualFold(s, "GAS") {
		return gas.Hash, nil
	}

	h, err := parseHash(s)
	if err != nil {
		return h, fmt.Errorf("invalid asset: %w", err)
	}

	if h.Equals(util.Uint160{}) {
		return h, errors.New("invalid asset: zero hash")
	}

	return h, nil
}
