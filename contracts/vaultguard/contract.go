package vaultguard

import (
	"github.com/nspcc-dev/neo-go/pkg/interop"
	"github.com/nspcc-dev/neo-go/pkg/interop/contract"
	"github.com/nspcc-dev/neo-go/pkg/interop/convert"
	"github.com/nspcc-dev/neo-go/pkg/interop/iterator"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/management"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/std"
	"github.com/nspcc-dev/neo-go/pkg/interop/runtime"
	"github.com/nspcc-dev/neo-go/pkg/interop/storage"
	"github.com/vaultguard-labs/vaultguard-contract/common"
	cst "github.com/vaultguard-labs/vaultguard-contract/contracts/vaultguard/vaultguardconst"
)

type (
	// Vault is an escrow account funded by a protocol and governed by judges.
	Vault struct {
		// Protocol account, the only one allowed to deposit, close and
		// attach yield strategy.
		Owner interop.Hash160
		// NEP-17 contract of the escrowed asset.
		Asset interop.Hash160
		// Sum of all deposits and strategy yield realized on detach.
		TotalDeposit int
		// Funds still available for payouts, including the part parked
		// in the yield strategy.
		RemainingFunds int
		Active         bool
		// Number of positive judge votes required to approve submission.
		RequiredApprovals int
		Judges            []interop.Hash160
		// Payout percentages in basis points indexed by severity.
		Payouts []int
		// Yield strategy contract, empty if funds are kept by the contract.
		Strategy interop.Hash160
	}

	// Submission is a vulnerability report of the researcher filed against
	// a vault.
	Submission struct {
		VaultID       int
		Researcher    interop.Hash160
		ReportHash    string
		Severity      int
		Status        int
		ApprovalCount int
		// Set once on approval.
		PayoutAmount int
	}
)

const (
	adminKey           = "admin"
	platformWalletKey  = "platformWallet"
	reputationKey      = "reputation"
	vaultCountKey      = "vaultCount"
	submissionCountKey = "submissionCount"
	strategyReturnKey  = "strategyReturn"

	vaultPrefix            = 0x01
	vaultSubmissionsPrefix = 0x02
	submissionPrefix       = 0x03
	researcherPrefix       = 0x04
	votePrefix             = 0x05

	// Sum of remaining funds of vaults attached to the strategy.
	strategyPrincipalPrefix = 0x06
)

// nolint:deadcode,unused
func _deploy(data any, isUpdate bool) {
	ctx := storage.GetContext()

	if isUpdate {
		args := data.([]any)
		common.CheckVersion(args[len(args)-1].(int))
		return
	}

	args := data.(struct {
		admin          interop.Hash160
		platformWallet interop.Hash160
		reputation     interop.Hash160
	})

	if len(args.admin) != interop.Hash160Len || len(args.platformWallet) != interop.Hash160Len {
		panic("incorrect length of admin or platform wallet script hash")
	}

	storage.Put(ctx, adminKey, args.admin)
	storage.Put(ctx, platformWalletKey, args.platformWallet)

	switch len(args.reputation) {
	case 0:
	case interop.Hash160Len:
		storage.Put(ctx, reputationKey, args.reputation)
	default:
		panic("incorrect length of reputation contract script hash")
	}

	runtime.Log("vaultguard contract initialized")
}

// Update method updates contract source code and manifest. It can be invoked
// only by committee.
func Update(script []byte, manifest []byte, data any) {
	if !common.HasUpdateAccess() {
		panic("only committee can update contract")
	}

	contract.Call(interop.Hash160(management.Hash), "update",
		contract.All, script, manifest, common.AppendVersion(data))
	runtime.Log("vaultguard contract updated")
}

// OnNEP17Payment is a callback for NEP-17 compatible tokens. All vault
// funding goes through it: the calling token becomes the vault asset and the
// sender is treated as the protocol account. Payment data selects the
// operation, see vaultguardconst.PaymentCreateVault and
// vaultguardconst.PaymentDeposit.
//
// Funds returned by the yield strategy during withdrawal and GAS emitted for
// NEO held by the contract are accepted as is.
func OnNEP17Payment(from interop.Hash160, amount int, data any) {
	if len(from) == 0 {
		return
	}

	ctx := storage.GetContext()

	pending := storage.Get(ctx, strategyReturnKey)
	if pending != nil && from.Equals(pending) {
		return
	}

	if data == nil {
		panic(cst.ErrInvalidPaymentData)
	}

	args := data.([]any)
	if len(args) == 0 {
		panic(cst.ErrInvalidPaymentData)
	}

	asset := runtime.GetCallingScriptHash()

	switch args[0].(string) {
	case cst.PaymentCreateVault:
		if len(args) != 4 {
			panic(cst.ErrInvalidPaymentData)
		}

		createVault(ctx, from, asset, args[1].([]interop.Hash160), args[2].(int), args[3].([]int), amount)
	case cst.PaymentDeposit:
		if len(args) != 2 {
			panic(cst.ErrInvalidPaymentData)
		}

		depositFunds(ctx, from, asset, args[1].(int), amount)
	default:
		panic(cst.ErrInvalidPaymentData)
	}
}

// SubmitVulnerability files a report against an active vault. It can be
// invoked only by the researcher. Severity is one of vaultguardconst
// severity tiers.
//
// Produces SubmissionCreated notification. Returns ID of the submission.
func SubmitVulnerability(vaultID int, researcher interop.Hash160, reportHash string, severity int) int {
	ctx := storage.GetContext()

	common.CheckWitness(researcher)

	v := getVault(ctx, vaultID)
	if !v.Active {
		panic(cst.ErrVaultInactive)
	}

	if len(reportHash) == 0 {
		panic(cst.ErrEmptyReport)
	}

	if severity < 0 || severity >= cst.SeverityCount {
		panic(cst.ErrInvalidSeverity)
	}

	id := common.NextID(ctx, submissionCountKey)

	putSubmission(ctx, id, Submission{
		VaultID:    vaultID,
		Researcher: researcher,
		ReportHash: reportHash,
		Severity:   severity,
		Status:     cst.StatusPending,
	})

	common.AppendToIntList(ctx, vaultSubmissionsKey(vaultID), id)
	storage.Put(ctx, researcherIndexKey(researcher, id), id)

	runtime.Notify("SubmissionCreated", id, vaultID, researcher)

	return id
}

// VoteOnSubmission casts vote of the vault judge. It can be invoked only by
// the judge, once per submission.
//
// Any negative vote rejects the submission immediately. Submission is approved
// when the number of positive votes reaches vault threshold, payout amount is
// computed at this moment from the funds the vault has left.
//
// Produces SubmissionVoted notification followed by SubmissionRejected or
// SubmissionApproved if the vote resolves the submission.
func VoteOnSubmission(submissionID int, judge interop.Hash160, approved bool) {
	ctx := storage.GetContext()

	common.CheckWitness(judge)

	s := getSubmission(ctx, submissionID)
	v := getVault(ctx, s.VaultID)

	if !isJudge(v, judge) {
		panic(cst.ErrNotJudge)
	}

	if !v.Active {
		panic(cst.ErrVaultInactive)
	}

	if s.Status != cst.StatusPending {
		panic(cst.ErrNotPending)
	}

	if !common.Vote(ctx, votePrefix, convert.ToBytes(submissionID), judge) {
		panic(cst.ErrAlreadyVoted)
	}

	runtime.Notify("SubmissionVoted", submissionID, judge, approved)

	if !approved {
		s.Status = cst.StatusRejected
		putSubmission(ctx, submissionID, s)

		runtime.Notify("SubmissionRejected", submissionID)
		return
	}

	s.ApprovalCount = s.ApprovalCount + 1 // neo-go#953
	if s.ApprovalCount < v.RequiredApprovals {
		putSubmission(ctx, submissionID, s)
		return
	}

	s.Status = cst.StatusApproved
	s.PayoutAmount = computePayout(v, s.Severity)
	putSubmission(ctx, submissionID, s)

	runtime.Notify("SubmissionApproved", submissionID, s.PayoutAmount)
}

// ClaimPayout pays out approved submission. It can be invoked only by the
// researcher while the vault is active.
//
// Funds are withdrawn from the vault yield strategy first if there is one.
// Platform fee is sent to the platform wallet, the rest goes to the
// researcher. If reputation contract is set, researcher receives a
// reputation credential.
//
// Produces PayoutSent notification.
func ClaimPayout(submissionID int) {
	ctx := storage.GetContext()

	s := getSubmission(ctx, submissionID)

	common.CheckWitnessOrPanic(s.Researcher, cst.ErrNotResearcher)

	if s.Status != cst.StatusApproved {
		panic(cst.ErrNotApproved)
	}

	v := getVault(ctx, s.VaultID)
	if !v.Active {
		panic(cst.ErrVaultInactive)
	}

	if s.PayoutAmount > v.RemainingFunds {
		panic(cst.ErrInsufficientFunds)
	}

	// state goes first, the strategy and the recipients are external contracts
	v.RemainingFunds = v.RemainingFunds - s.PayoutAmount // neo-go#953
	putVault(ctx, s.VaultID, v)

	s.Status = cst.StatusPaid
	putSubmission(ctx, submissionID, s)

	if len(v.Strategy) != 0 {
		addStrategyPrincipal(ctx, v.Strategy, -s.PayoutAmount)
		withdrawFromStrategy(ctx, v.Strategy, v.Asset, s.PayoutAmount)
	}

	fee := s.PayoutAmount * cst.PlatformFee / cst.BasisPoints
	net := s.PayoutAmount - fee

	platformWallet := storage.Get(ctx, platformWalletKey).(interop.Hash160)

	common.TransferAsset(v.Asset, platformWallet, fee, nil)
	common.TransferAsset(v.Asset, s.Researcher, net, nil)

	runtime.Notify("PayoutSent", submissionID, s.Researcher, net)

	reputation := storage.Get(ctx, reputationKey)
	if reputation != nil {
		contract.Call(reputation.(interop.Hash160), "mint", contract.All,
			s.Researcher, s.VaultID, submissionID, s.Severity, s.PayoutAmount)
	}
}

// CloseVault deactivates the vault and refunds all remaining funds to the
// owner. It can be invoked only by the vault owner. Closed vault accepts no
// submissions, votes and claims.
//
// Produces VaultClosed notification.
func CloseVault(vaultID int) {
	ctx := storage.GetContext()

	v := getVault(ctx, vaultID)

	common.CheckWitnessOrPanic(v.Owner, cst.ErrNotOwner)

	if !v.Active {
		panic(cst.ErrVaultInactive)
	}

	refund := v.RemainingFunds

	v.Active = false
	v.RemainingFunds = 0
	putVault(ctx, vaultID, v)

	if len(v.Strategy) != 0 {
		refund = releaseStrategyShare(ctx, v.Strategy, v.Asset, refund)
	}

	common.TransferAsset(v.Asset, v.Owner, refund, nil)

	runtime.Log("vault has been closed")
	runtime.Notify("VaultClosed", vaultID, refund)
}

// SetYieldStrategy attaches yield strategy to the vault and moves all its
// remaining funds there. It can be invoked only by the vault owner. Strategy
// asset must match the vault one.
//
// If the vault already has a strategy, its share of the strategy funds is
// withdrawn from it first, so yield and losses are carried to the vault.
// Empty strategy detaches the current one and returns funds to the contract.
//
// Produces YieldStrategySet notification.
func SetYieldStrategy(vaultID int, strategy interop.Hash160) {
	ctx := storage.GetContext()

	v := getVault(ctx, vaultID)

	common.CheckWitnessOrPanic(v.Owner, cst.ErrNotOwner)

	if !v.Active {
		panic(cst.ErrVaultInactive)
	}

	if len(strategy) != 0 {
		if len(strategy) != interop.Hash160Len {
			panic(cst.ErrAssetMismatch)
		}

		asset := contract.Call(strategy, "asset", contract.ReadStates).(interop.Hash160)
		if !asset.Equals(v.Asset) {
			panic(cst.ErrAssetMismatch)
		}
	}

	previous := v.Strategy

	v.Strategy = strategy
	putVault(ctx, vaultID, v)

	if len(previous) != 0 {
		released := releaseStrategyShare(ctx, previous, v.Asset, v.RemainingFunds)
		if released > v.RemainingFunds {
			v.TotalDeposit = v.TotalDeposit + released - v.RemainingFunds // neo-go#953
		}

		v.RemainingFunds = released
		putVault(ctx, vaultID, v)
	}

	if len(strategy) == 0 {
		runtime.Notify("YieldStrategySet", vaultID, nil)
		return
	}

	addStrategyPrincipal(ctx, strategy, v.RemainingFunds)
	common.TransferAsset(v.Asset, strategy, v.RemainingFunds, nil)

	runtime.Notify("YieldStrategySet", vaultID, strategy)
}

// SetReputationContract sets contract minting reputation credentials on
// payouts. Empty hash disables minting. It can be invoked only by the
// contract administrator.
func SetReputationContract(reputation interop.Hash160) {
	ctx := storage.GetContext()

	common.CheckAdminWitness(storage.Get(ctx, adminKey).(interop.Hash160))

	switch len(reputation) {
	case 0:
		storage.Delete(ctx, reputationKey)
	case interop.Hash160Len:
		storage.Put(ctx, reputationKey, reputation)
	default:
		panic("incorrect length of reputation contract script hash")
	}

	runtime.Log("reputation contract has been updated")
}

// GetVault returns vault with the given ID.
func GetVault(vaultID int) Vault {
	ctx := storage.GetReadOnlyContext()
	return getVault(ctx, vaultID)
}

// GetVaultJudges returns judges of the vault.
func GetVaultJudges(vaultID int) []interop.Hash160 {
	ctx := storage.GetReadOnlyContext()
	return getVault(ctx, vaultID).Judges
}

// GetVaultSubmissions returns IDs of all submissions filed against the vault
// in the order of creation.
func GetVaultSubmissions(vaultID int) []int {
	ctx := storage.GetReadOnlyContext()

	getVault(ctx, vaultID)

	return common.GetIntList(ctx, vaultSubmissionsKey(vaultID))
}

// GetSubmissionDetails returns submission with the given ID.
func GetSubmissionDetails(submissionID int) Submission {
	ctx := storage.GetReadOnlyContext()
	return getSubmission(ctx, submissionID)
}

// GetPayoutPercentage returns payout percentage of the vault for the
// severity in basis points.
func GetPayoutPercentage(vaultID int, severity int) int {
	ctx := storage.GetReadOnlyContext()

	if severity < 0 || severity >= cst.SeverityCount {
		panic(cst.ErrInvalidSeverity)
	}

	return getVault(ctx, vaultID).Payouts[severity]
}

// SubmissionsOf returns iterator over IDs of all submissions of the
// researcher.
func SubmissionsOf(researcher interop.Hash160) iterator.Iterator {
	ctx := storage.GetReadOnlyContext()

	if len(researcher) != interop.Hash160Len {
		panic("incorrect length of researcher script hash")
	}

	prefix := append([]byte{researcherPrefix}, researcher...)

	return storage.Find(ctx, prefix, storage.ValuesOnly)
}

// VaultCount returns number of created vaults. It is also the ID of the next
// vault.
func VaultCount() int {
	ctx := storage.GetReadOnlyContext()
	return common.Counter(ctx, vaultCountKey)
}

// SubmissionCount returns number of filed submissions. It is also the ID of
// the next submission.
func SubmissionCount() int {
	ctx := storage.GetReadOnlyContext()
	return common.Counter(ctx, submissionCountKey)
}

// PlatformFee returns platform fee in basis points.
func PlatformFee() int {
	return cst.PlatformFee
}

// PlatformWallet returns account receiving platform fees.
func PlatformWallet() interop.Hash160 {
	ctx := storage.GetReadOnlyContext()
	return storage.Get(ctx, platformWalletKey).(interop.Hash160)
}

// ReputationContract returns reputation contract or nothing if credentials
// are not minted.
func ReputationContract() interop.Hash160 {
	ctx := storage.GetReadOnlyContext()

	reputation := storage.Get(ctx, reputationKey)
	if reputation == nil {
		return nil
	}

	return reputation.(interop.Hash160)
}

// Version returns version of the contract.
func Version() int {
	return common.Version
}

func createVault(ctx storage.Context, owner, asset interop.Hash160, judges []interop.Hash160, requiredApprovals int, payouts []int, amount int) {
	if amount <= 0 {
		panic(cst.ErrInvalidDeposit)
	}

	if requiredApprovals < 1 || requiredApprovals > len(judges) {
		panic(cst.ErrInvalidThreshold)
	}

	checkJudges(judges)
	checkPayouts(payouts)

	id := common.NextID(ctx, vaultCountKey)

	putVault(ctx, id, Vault{
		Owner:             owner,
		Asset:             asset,
		TotalDeposit:      amount,
		RemainingFunds:    amount,
		Active:            true,
		RequiredApprovals: requiredApprovals,
		Judges:            judges,
		Payouts:           payouts,
	})

	runtime.Log("vault has been created")
	runtime.Notify("VaultCreated", id, owner, amount)
}

func depositFunds(ctx storage.Context, from, asset interop.Hash160, vaultID int, amount int) {
	v := getVault(ctx, vaultID)

	if !from.Equals(v.Owner) {
		panic(cst.ErrNotOwner)
	}

	if amount <= 0 {
		panic(cst.ErrInvalidDeposit)
	}

	if !v.Active {
		panic(cst.ErrVaultInactive)
	}

	if !asset.Equals(v.Asset) {
		panic(cst.ErrAssetMismatch)
	}

	v.TotalDeposit = v.TotalDeposit + amount     // neo-go#953
	v.RemainingFunds = v.RemainingFunds + amount // neo-go#953
	putVault(ctx, vaultID, v)

	if len(v.Strategy) != 0 {
		addStrategyPrincipal(ctx, v.Strategy, amount)
		common.TransferAsset(v.Asset, v.Strategy, amount, nil)
	}

	runtime.Notify("FundsDeposited", vaultID, amount)
}

// withdrawFromStrategy pulls amount of the asset back from the strategy to
// the contract account.
func withdrawFromStrategy(ctx storage.Context, strategy, asset interop.Hash160, amount int) {
	if amount == 0 {
		return
	}

	self := runtime.GetExecutingScriptHash()

	available := contract.Call(strategy, "balanceOf", contract.ReadStates, self).(int)
	if available < amount {
		panic(cst.ErrInsufficientStrategyBalance)
	}

	before := common.AssetBalance(asset, self)

	storage.Put(ctx, strategyReturnKey, strategy)
	contract.Call(strategy, "withdraw", contract.All, self, amount)
	storage.Delete(ctx, strategyReturnKey)

	if common.AssetBalance(asset, self)-before < amount {
		panic(cst.ErrStrategyWithdrawFailed)
	}
}

// releaseStrategyShare withdraws the part of the strategy funds that belongs
// to the vault with the given remaining funds. The share is proportional to
// the vault principal, so the last vault leaving the strategy takes all of
// its yield or loss. Returns the amount actually received.
func releaseStrategyShare(ctx storage.Context, strategy, asset interop.Hash160, funds int) int {
	if funds == 0 {
		return 0
	}

	self := runtime.GetExecutingScriptHash()

	principal := common.Counter(ctx, strategyPrincipalKey(strategy))
	addStrategyPrincipal(ctx, strategy, -funds)

	share := contract.Call(strategy, "balanceOf", contract.ReadStates, self).(int)
	if principal > funds {
		share = share * funds / principal
	}

	if share <= 0 {
		return 0
	}

	before := common.AssetBalance(asset, self)

	storage.Put(ctx, strategyReturnKey, strategy)
	contract.Call(strategy, "withdraw", contract.All, self, share)
	storage.Delete(ctx, strategyReturnKey)

	return common.AssetBalance(asset, self) - before
}

func addStrategyPrincipal(ctx storage.Context, strategy interop.Hash160, amount int) {
	key := strategyPrincipalKey(strategy)

	principal := common.Counter(ctx, key) + amount
	if principal <= 0 {
		storage.Delete(ctx, key)
		return
	}

	storage.Put(ctx, key, principal)
}

func computePayout(v Vault, severity int) int {
	return v.RemainingFunds * v.Payouts[severity] / cst.BasisPoints
}

func checkJudges(judges []interop.Hash160) {
	for i := 0; i < len(judges); i++ {
		if len(judges[i]) != interop.Hash160Len {
			panic(cst.ErrInvalidJudges)
		}

		for j := 0; j < i; j++ {
			if judges[i].Equals(judges[j]) {
				panic(cst.ErrInvalidJudges)
			}
		}
	}
}

func checkPayouts(payouts []int) {
	if len(payouts) != cst.SeverityCount {
		panic(cst.ErrInvalidPayouts)
	}

	for _, p := range payouts {
		if p < 0 || p > cst.BasisPoints {
			panic(cst.ErrInvalidPayouts)
		}
	}
}

func isJudge(v Vault, judge interop.Hash160) bool {
	for _, j := range v.Judges {
		if j.Equals(judge) {
			return true
		}
	}

	return false
}

func getVault(ctx storage.Context, id int) Vault {
	data := storage.Get(ctx, vaultKey(id))
	if data == nil {
		panic(cst.ErrVaultNotFound)
	}

	return std.Deserialize(data.([]byte)).(Vault)
}

func putVault(ctx storage.Context, id int, v Vault) {
	common.SetSerialized(ctx, vaultKey(id), v)
}

func getSubmission(ctx storage.Context, id int) Submission {
	data := storage.Get(ctx, submissionKey(id))
	if data == nil {
		panic(cst.ErrSubmissionNotFound)
	}

	return std.Deserialize(data.([]byte)).(Submission)
}

func putSubmission(ctx storage.Context, id int, s Submission) {
	common.SetSerialized(ctx, submissionKey(id), s)
}

func vaultKey(id int) []byte {
	return append([]byte{vaultPrefix}, convert.ToBytes(id)...)
}

func vaultSubmissionsKey(vaultID int) []byte {
	return append([]byte{vaultSubmissionsPrefix}, convert.ToBytes(vaultID)...)
}

func submissionKey(id int) []byte {
	return append([]byte{submissionPrefix}, convert.ToBytes(id)...)
}

// researcherIndexKey has fixed length researcher part, so the prefix search
// by researcher never captures other accounts.
func researcherIndexKey(researcher interop.Hash160, submissionID int) []byte {
	key := append([]byte{researcherPrefix}, researcher...)
	return append(key, convert.ToBytes(submissionID)...)
}

func strategyPrincipalKey(strategy interop.Hash160) []byte {
	return append([]byte{strategyPrincipalPrefix}, strategy...)
}
