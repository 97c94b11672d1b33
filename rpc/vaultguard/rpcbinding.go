// Package vaultguard contains RPC wrappers for VaultGuard contract.
package vaultguard

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/google/uuid"
	"github.com/nspcc-dev/neo-go/pkg/core/transaction"
	"github.com/nspcc-dev/neo-go/pkg/neorpc/result"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/unwrap"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
	"github.com/vaultguard-labs/vaultguard-contract/contracts/vaultguard/vaultguardconst"
)

// Vault is a contract-specific vaultguard.Vault type used by its methods.
type Vault struct {
	Owner             util.Uint160
	Asset             util.Uint160
	TotalDeposit      *big.Int
	RemainingFunds    *big.Int
	Active            bool
	RequiredApprovals *big.Int
	Judges            []util.Uint160
	Payouts           []*big.Int
	// Zero if vault has no yield strategy.
	Strategy util.Uint160
}

// Submission is a contract-specific vaultguard.Submission type used by its methods.
type Submission struct {
	VaultID       *big.Int
	Researcher    util.Uint160
	ReportHash    string
	Severity      *big.Int
	Status        *big.Int
	ApprovalCount *big.Int
	PayoutAmount  *big.Int
}

// VaultCreatedEvent represents "VaultCreated" event emitted by the contract.
type VaultCreatedEvent struct {
	VaultID *big.Int
	Owner   util.Uint160
	Deposit *big.Int
}

// FundsDepositedEvent represents "FundsDeposited" event emitted by the contract.
type FundsDepositedEvent struct {
	VaultID *big.Int
	Amount  *big.Int
}

// SubmissionCreatedEvent represents "SubmissionCreated" event emitted by the contract.
type SubmissionCreatedEvent struct {
	SubmissionID *big.Int
	VaultID      *big.Int
	Researcher   util.Uint160
}

// SubmissionVotedEvent represents "SubmissionVoted" event emitted by the contract.
type SubmissionVotedEvent struct {
	SubmissionID *big.Int
	Judge        util.Uint160
	Approved     bool
}

// SubmissionApprovedEvent represents "SubmissionApproved" event emitted by the contract.
type SubmissionApprovedEvent struct {
	SubmissionID *big.Int
	PayoutAmount *big.Int
}

// SubmissionRejectedEvent represents "SubmissionRejected" event emitted by the contract.
type SubmissionRejectedEvent struct {
	SubmissionID *big.Int
}

// PayoutSentEvent represents "PayoutSent" event emitted by the contract.
type PayoutSentEvent struct {
	SubmissionID *big.Int
	Researcher   util.Uint160
	Amount       *big.Int
}

// VaultClosedEvent represents "VaultClosed" event emitted by the contract.
type VaultClosedEvent struct {
	VaultID *big.Int
	Refund  *big.Int
}

// YieldStrategySetEvent represents "YieldStrategySet" event emitted by the contract.
type YieldStrategySetEvent struct {
	VaultID *big.Int
	// Zero if the strategy is detached.
	Strategy util.Uint160
}

// Invoker is used by ContractReader to call various safe methods.
type Invoker interface {
	Call(contract util.Uint160, operation string, params ...any) (*result.Invoke, error)
	CallAndExpandIterator(contract util.Uint160, method string, maxItems int, params ...any) (*result.Invoke, error)
	TerminateSession(sessionID uuid.UUID) error
	TraverseIterator(sessionID uuid.UUID, iterator *result.Iterator, num int) ([]stackitem.Item, error)
}

// Actor is used by Contract to call state-changing methods.
type Actor interface {
	Invoker

	Sender() util.Uint160

	MakeCall(contract util.Uint160, method string, params ...any) (*transaction.Transaction, error)
	MakeRun(script []byte) (*transaction.Transaction, error)
	MakeUnsignedCall(contract util.Uint160, method string, attrs []transaction.Attribute, params ...any) (*transaction.Transaction, error)
	MakeUnsignedRun(script []byte, attrs []transaction.Attribute) (*transaction.Transaction, error)
	SendCall(contract util.Uint160, method string, params ...any) (util.Uint256, uint32, error)
	SendRun(script []byte) (util.Uint256, uint32, error)
}

// ContractReader implements safe contract methods.
type ContractReader struct {
	invoker Invoker
	hash    util.Uint160
}

// Contract implements all contract methods.
type Contract struct {
	ContractReader
	actor Actor
	hash  util.Uint160
}

// NewReader creates an instance of ContractReader using provided contract hash and the given Invoker.
func NewReader(invoker Invoker, hash util.Uint160) *ContractReader {
	return &ContractReader{invoker, hash}
}

// New creates an instance of Contract using provided contract hash and the given Actor.
func New(actor Actor, hash util.Uint160) *Contract {
	return &Contract{ContractReader{actor, hash}, actor, hash}
}

// GetVault invokes `getVault` method of contract.
func (c *ContractReader) GetVault(vaultID *big.Int) (*Vault, error) {
	return itemToVault(unwrap.Item(c.invoker.Call(c.hash, "getVault", vaultID)))
}

// GetVaultJudges invokes `getVaultJudges` method of contract.
func (c *ContractReader) GetVaultJudges(vaultID *big.Int) ([]util.Uint160, error) {
	return unwrap.ArrayOfUint160(c.invoker.Call(c.hash, "getVaultJudges", vaultID))
}

// GetVaultSubmissions invokes `getVaultSubmissions` method of contract.
func (c *ContractReader) GetVaultSubmissions(vaultID *big.Int) ([]*big.Int, error) {
	return unwrap.ArrayOfBigInts(c.invoker.Call(c.hash, "getVaultSubmissions", vaultID))
}

// GetSubmissionDetails invokes `getSubmissionDetails` method of contract.
func (c *ContractReader) GetSubmissionDetails(submissionID *big.Int) (*Submission, error) {
	return itemToSubmission(unwrap.Item(c.invoker.Call(c.hash, "getSubmissionDetails", submissionID)))
}

// GetPayoutPercentage invokes `getPayoutPercentage` method of contract.
func (c *ContractReader) GetPayoutPercentage(vaultID *big.Int, severity *big.Int) (*big.Int, error) {
	return unwrap.BigInt(c.invoker.Call(c.hash, "getPayoutPercentage", vaultID, severity))
}

// SubmissionsOf invokes `submissionsOf` method of contract.
func (c *ContractReader) SubmissionsOf(researcher util.Uint160) (uuid.UUID, result.Iterator, error) {
	return unwrap.SessionIterator(c.invoker.Call(c.hash, "submissionsOf", researcher))
}

// SubmissionsOfExpanded is similar to SubmissionsOf (uses the same contract
// method), but can be useful if the server used doesn't support sessions and
// doesn't expand iterators. It creates a script that will get the specified
// number of result items from the iterator right in the VM and return them to
// you. It's only limited by VM stack and GAS available for RPC invocations.
func (c *ContractReader) SubmissionsOfExpanded(researcher util.Uint160, _numOfIteratorItems int) ([]stackitem.Item, error) {
	return unwrap.Array(c.invoker.CallAndExpandIterator(c.hash, "submissionsOf", _numOfIteratorItems, researcher))
}

// VaultCount invokes `vaultCount` method of contract.
func (c *ContractReader) VaultCount() (*big.Int, error) {
	return unwrap.BigInt(c.invoker.Call(c.hash, "vaultCount"))
}

// SubmissionCount invokes `submissionCount` method of contract.
func (c *ContractReader) SubmissionCount() (*big.Int, error) {
	return unwrap.BigInt(c.invoker.Call(c.hash, "submissionCount"))
}

// PlatformFee invokes `platformFee` method of contract.
func (c *ContractReader) PlatformFee() (*big.Int, error) {
	return unwrap.BigInt(c.invoker.Call(c.hash, "platformFee"))
}

// PlatformWallet invokes `platformWallet` method of contract.
func (c *ContractReader) PlatformWallet() (util.Uint160, error) {
	return unwrap.Uint160(c.invoker.Call(c.hash, "platformWallet"))
}

// ReputationContract invokes `reputationContract` method of contract. Zero
// hash is returned if credentials are not minted.
func (c *ContractReader) ReputationContract() (util.Uint160, error) {
	return itemToOptionalUint160(unwrap.Item(c.invoker.Call(c.hash, "reputationContract")))
}

// Version invokes `version` method of contract.
func (c *ContractReader) Version() (*big.Int, error) {
	return unwrap.BigInt(c.invoker.Call(c.hash, "version"))
}

// CreateVault creates a transaction transferring amount of the asset from the
// actor account to the contract, which creates a new vault owned by the
// actor.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) CreateVault(asset util.Uint160, amount *big.Int, judges []util.Uint160, requiredApprovals *big.Int, payouts []*big.Int) (util.Uint256, uint32, error) {
	return c.actor.SendCall(asset, "transfer", c.actor.Sender(), c.hash, amount, createVaultData(judges, requiredApprovals, payouts))
}

// CreateVaultTransaction creates a transaction transferring amount of the
// asset from the actor account to the contract, which creates a new vault
// owned by the actor.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) CreateVaultTransaction(asset util.Uint160, amount *big.Int, judges []util.Uint160, requiredApprovals *big.Int, payouts []*big.Int) (*transaction.Transaction, error) {
	return c.actor.MakeCall(asset, "transfer", c.actor.Sender(), c.hash, amount, createVaultData(judges, requiredApprovals, payouts))
}

// CreateVaultUnsigned creates a transaction transferring amount of the asset
// from the actor account to the contract, which creates a new vault owned by
// the actor.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) CreateVaultUnsigned(asset util.Uint160, amount *big.Int, judges []util.Uint160, requiredApprovals *big.Int, payouts []*big.Int) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(asset, "transfer", nil, c.actor.Sender(), c.hash, amount, createVaultData(judges, requiredApprovals, payouts))
}

// Deposit creates a transaction transferring amount of the asset from the
// actor account to the contract and crediting the vault.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) Deposit(asset util.Uint160, vaultID *big.Int, amount *big.Int) (util.Uint256, uint32, error) {
	return c.actor.SendCall(asset, "transfer", c.actor.Sender(), c.hash, amount, depositData(vaultID))
}

// DepositTransaction creates a transaction transferring amount of the asset
// from the actor account to the contract and crediting the vault.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) DepositTransaction(asset util.Uint160, vaultID *big.Int, amount *big.Int) (*transaction.Transaction, error) {
	return c.actor.MakeCall(asset, "transfer", c.actor.Sender(), c.hash, amount, depositData(vaultID))
}

// DepositUnsigned creates a transaction transferring amount of the asset from
// the actor account to the contract and crediting the vault.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) DepositUnsigned(asset util.Uint160, vaultID *big.Int, amount *big.Int) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(asset, "transfer", nil, c.actor.Sender(), c.hash, amount, depositData(vaultID))
}

// SubmitVulnerability creates a transaction invoking `submitVulnerability` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) SubmitVulnerability(vaultID *big.Int, researcher util.Uint160, reportHash string, severity *big.Int) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "submitVulnerability", vaultID, researcher, reportHash, severity)
}

// SubmitVulnerabilityTransaction creates a transaction invoking `submitVulnerability` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) SubmitVulnerabilityTransaction(vaultID *big.Int, researcher util.Uint160, reportHash string, severity *big.Int) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "submitVulnerability", vaultID, researcher, reportHash, severity)
}

// SubmitVulnerabilityUnsigned creates a transaction invoking `submitVulnerability` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) SubmitVulnerabilityUnsigned(vaultID *big.Int, researcher util.Uint160, reportHash string, severity *big.Int) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "submitVulnerability", nil, vaultID, researcher, reportHash, severity)
}

// VoteOnSubmission creates a transaction invoking `voteOnSubmission` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) VoteOnSubmission(submissionID *big.Int, judge util.Uint160, approved bool) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "voteOnSubmission", submissionID, judge, approved)
}

// VoteOnSubmissionTransaction creates a transaction invoking `voteOnSubmission` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) VoteOnSubmissionTransaction(submissionID *big.Int, judge util.Uint160, approved bool) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "voteOnSubmission", submissionID, judge, approved)
}

// VoteOnSubmissionUnsigned creates a transaction invoking `voteOnSubmission` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) VoteOnSubmissionUnsigned(submissionID *big.Int, judge util.Uint160, approved bool) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "voteOnSubmission", nil, submissionID, judge, approved)
}

// ClaimPayout creates a transaction invoking `claimPayout` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) ClaimPayout(submissionID *big.Int) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "claimPayout", submissionID)
}

// ClaimPayoutTransaction creates a transaction invoking `claimPayout` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) ClaimPayoutTransaction(submissionID *big.Int) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "claimPayout", submissionID)
}

// ClaimPayoutUnsigned creates a transaction invoking `claimPayout` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) ClaimPayoutUnsigned(submissionID *big.Int) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "claimPayout", nil, submissionID)
}

// CloseVault creates a transaction invoking `closeVault` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) CloseVault(vaultID *big.Int) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "closeVault", vaultID)
}

// CloseVaultTransaction creates a transaction invoking `closeVault` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) CloseVaultTransaction(vaultID *big.Int) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "closeVault", vaultID)
}

// CloseVaultUnsigned creates a transaction invoking `closeVault` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) CloseVaultUnsigned(vaultID *big.Int) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "closeVault", nil, vaultID)
}

// SetYieldStrategy creates a transaction invoking `setYieldStrategy` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) SetYieldStrategy(vaultID *big.Int, strategy util.Uint160) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "setYieldStrategy", vaultID, strategyParam(strategy))
}

// SetYieldStrategyTransaction creates a transaction invoking `setYieldStrategy` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) SetYieldStrategyTransaction(vaultID *big.Int, strategy util.Uint160) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "setYieldStrategy", vaultID, strategyParam(strategy))
}

// SetYieldStrategyUnsigned creates a transaction invoking `setYieldStrategy` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) SetYieldStrategyUnsigned(vaultID *big.Int, strategy util.Uint160) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "setYieldStrategy", nil, vaultID, strategyParam(strategy))
}

// SetReputationContract creates a transaction invoking `setReputationContract` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) SetReputationContract(reputation util.Uint160) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "setReputationContract", reputation)
}

// SetReputationContractTransaction creates a transaction invoking `setReputationContract` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) SetReputationContractTransaction(reputation util.Uint160) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "setReputationContract", reputation)
}

// SetReputationContractUnsigned creates a transaction invoking `setReputationContract` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) SetReputationContractUnsigned(reputation util.Uint160) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "setReputationContract", nil, reputation)
}

// Update creates a transaction invoking `update` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) Update(script []byte, manifest []byte, data any) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "update", script, manifest, data)
}

// UpdateTransaction creates a transaction invoking `update` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) UpdateTransaction(script []byte, manifest []byte, data any) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "update", script, manifest, data)
}

// UpdateUnsigned creates a transaction invoking `update` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) UpdateUnsigned(script []byte, manifest []byte, data any) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "update", nil, script, manifest, data)
}

func createVaultData(judges []util.Uint160, requiredApprovals *big.Int, payouts []*big.Int) []any {
	js := make([]any, len(judges))
	for i := range judges {
		js[i] = judges[i]
	}

	ps := make([]any, len(payouts))
	for i := range payouts {
		ps[i] = payouts[i]
	}

	return []any{vaultguardconst.PaymentCreateVault, js, requiredApprovals, ps}
}

func depositData(vaultID *big.Int) []any {
	return []any{vaultguardconst.PaymentDeposit, vaultID}
}

// strategyParam maps zero hash to empty byte array detaching the strategy.
func strategyParam(strategy util.Uint160) any {
	if strategy.Equals(util.Uint160{}) {
		return []byte{}
	}
	return strategy
}

// itemToVault converts stack item into *Vault.
func itemToVault(item stackitem.Item, err error) (*Vault, error) {
	if err != nil {
		return nil, err
	}
	var res = new(Vault)
	err = res.FromStackItem(item)
	return res, err
}

// FromStackItem retrieves fields of Vault from the given
// [stackitem.Item] or returns an error if it's not possible to do to so.
func (res *Vault) FromStackItem(item stackitem.Item) error {
	arr, ok := item.Value().([]stackitem.Item)
	if !ok {
		return errors.New("not an array")
	}
	if len(arr) != 9 {
		return errors.New("wrong number of structure elements")
	}

	var (
		index = -1
		err   error
	)
	index++
	res.Owner, err = itemToUint160(arr[index])
	if err != nil {
		return fmt.Errorf("field Owner: %w", err)
	}

	index++
	res.Asset, err = itemToUint160(arr[index])
	if err != nil {
		return fmt.Errorf("field Asset: %w", err)
	}

	index++
	res.TotalDeposit, err = arr[index].TryInteger()
	if err != nil {
		return fmt.Errorf("field TotalDeposit: %w", err)
	}

	index++
	res.RemainingFunds, err = arr[index].TryInteger()
	if err != nil {
		return fmt.Errorf("field RemainingFunds: %w", err)
	}

	index++
	res.Active, err = arr[index].TryBool()
	if err != nil {
		return fmt.Errorf("field Active: %w", err)
	}

	index++
	res.RequiredApprovals, err = arr[index].TryInteger()
	if err != nil {
		return fmt.Errorf("field RequiredApprovals: %w", err)
	}

	index++
	res.Judges, err = func(item stackitem.Item) ([]util.Uint160, error) {
		arr, ok := item.Value().([]stackitem.Item)
		if !ok {
			return nil, errors.New("not an array")
		}
		res := make([]util.Uint160, len(arr))
		for i := range res {
			res[i], err = itemToUint160(arr[i])
			if err != nil {
				return nil, fmt.Errorf("item %d: %w", i, err)
			}
		}
		return res, nil
	}(arr[index])
	if err != nil {
		return fmt.Errorf("field Judges: %w", err)
	}

	index++
	res.Payouts, err = func(item stackitem.Item) ([]*big.Int, error) {
		arr, ok := item.Value().([]stackitem.Item)
		if !ok {
			return nil, errors.New("not an array")
		}
		res := make([]*big.Int, len(arr))
		for i := range res {
			res[i], err = arr[i].TryInteger()
			if err != nil {
				return nil, fmt.Errorf("item %d: %w", i, err)
			}
		}
		return res, nil
	}(arr[index])
	if err != nil {
		return fmt.Errorf("field Payouts: %w", err)
	}

	index++
	res.Strategy, err = itemToOptionalUint160(arr[index], nil)
	if err != nil {
		return fmt.Errorf("field Strategy: %w", err)
	}

	return nil
}

// HasStrategy checks whether vault funds are parked in a yield strategy.
func (res *Vault) HasStrategy() bool {
	return !res.Strategy.Equals(util.Uint160{})
}

// itemToSubmission converts stack item into *Submission.
func itemToSubmission(item stackitem.Item, err error) (*Submission, error) {
	if err != nil {
		return nil, err
	}
	var res = new(Submission)
	err = res.FromStackItem(item)
	return res, err
}

// FromStackItem retrieves fields of Submission from the given
// [stackitem.Item] or returns an error if it's not possible to do to so.
func (res *Submission) FromStackItem(item stackitem.Item) error {
	arr, ok := item.Value().([]stackitem.Item)
	if !ok {
		return errors.New("not an array")
	}
	if len(arr) != 7 {
		return errors.New("wrong number of structure elements")
	}

	var (
		index = -1
		err   error
	)
	index++
	res.VaultID, err = arr[index].TryInteger()
	if err != nil {
		return fmt.Errorf("field VaultID: %w", err)
	}

	index++
	res.Researcher, err = itemToUint160(arr[index])
	if err != nil {
		return fmt.Errorf("field Researcher: %w", err)
	}

	index++
	res.ReportHash, err = func(item stackitem.Item) (string, error) {
		b, err := item.TryBytes()
		if err != nil {
			return "", err
		}
		return string(b), nil
	}(arr[index])
	if err != nil {
		return fmt.Errorf("field ReportHash: %w", err)
	}

	index++
	res.Severity, err = arr[index].TryInteger()
	if err != nil {
		return fmt.Errorf("field Severity: %w", err)
	}

	index++
	res.Status, err = arr[index].TryInteger()
	if err != nil {
		return fmt.Errorf("field Status: %w", err)
	}

	index++
	res.ApprovalCount, err = arr[index].TryInteger()
	if err != nil {
		return fmt.Errorf("field ApprovalCount: %w", err)
	}

	index++
	res.PayoutAmount, err = arr[index].TryInteger()
	if err != nil {
		return fmt.Errorf("field PayoutAmount: %w", err)
	}

	return nil
}

// VaultCreatedEventsFromApplicationLog retrieves a set of all emitted events
// with "VaultCreated" name from the provided [result.ApplicationLog].
func VaultCreatedEventsFromApplicationLog(log *result.ApplicationLog) ([]*VaultCreatedEvent, error) {
	return eventsFromApplicationLog[VaultCreatedEvent](log, "VaultCreated")
}

// FromStackItem converts provided [stackitem.Array] to VaultCreatedEvent or
// returns an error if it's not possible to do to so.
func (e *VaultCreatedEvent) FromStackItem(item *stackitem.Array) error {
	arr, err := eventItems(item, 3)
	if err != nil {
		return err
	}

	e.VaultID, err = arr[0].TryInteger()
	if err != nil {
		return fmt.Errorf("field VaultID: %w", err)
	}

	e.Owner, err = itemToUint160(arr[1])
	if err != nil {
		return fmt.Errorf("field Owner: %w", err)
	}

	e.Deposit, err = arr[2].TryInteger()
	if err != nil {
		return fmt.Errorf("field Deposit: %w", err)
	}

	return nil
}

// FundsDepositedEventsFromApplicationLog retrieves a set of all emitted events
// with "FundsDeposited" name from the provided [result.ApplicationLog].
func FundsDepositedEventsFromApplicationLog(log *result.ApplicationLog) ([]*FundsDepositedEvent, error) {
	return eventsFromApplicationLog[FundsDepositedEvent](log, "FundsDeposited")
}

// FromStackItem converts provided [stackitem.Array] to FundsDepositedEvent or
// returns an error if it's not possible to do to so.
func (e *FundsDepositedEvent) FromStackItem(item *stackitem.Array) error {
	arr, err := eventItems(item, 2)
	if err != nil {
		return err
	}

	e.VaultID, err = arr[0].TryInteger()
	if err != nil {
		return fmt.Errorf("field VaultID: %w", err)
	}

	e.Amount, err = arr[1].TryInteger()
	if err != nil {
		return fmt.Errorf("field Amount: %w", err)
	}

	return nil
}

// SubmissionCreatedEventsFromApplicationLog retrieves a set of all emitted events
// with "SubmissionCreated" name from the provided [result.ApplicationLog].
func SubmissionCreatedEventsFromApplicationLog(log *result.ApplicationLog) ([]*SubmissionCreatedEvent, error) {
	return eventsFromApplicationLog[SubmissionCreatedEvent](log, "SubmissionCreated")
}

// FromStackItem converts provided [stackitem.Array] to SubmissionCreatedEvent or
// returns an error if it's not possible to do to so.
func (e *SubmissionCreatedEvent) FromStackItem(item *stackitem.Array) error {
	arr, err := eventItems(item, 3)
	if err != nil {
		return err
	}

	e.SubmissionID, err = arr[0].TryInteger()
	if err != nil {
		return fmt.Errorf("field SubmissionID: %w", err)
	}

	e.VaultID, err = arr[1].TryInteger()
	if err != nil {
		return fmt.Errorf("field VaultID: %w", err)
	}

	e.Researcher, err = itemToUint160(arr[2])
	if err != nil {
		return fmt.Errorf("field Researcher: %w", err)
	}

	return nil
}

// SubmissionVotedEventsFromApplicationLog retrieves a set of all emitted events
// with "SubmissionVoted" name from the provided [result.ApplicationLog].
func SubmissionVotedEventsFromApplicationLog(log *result.ApplicationLog) ([]*SubmissionVotedEvent, error) {
	return eventsFromApplicationLog[SubmissionVotedEvent](log, "SubmissionVoted")
}

// FromStackItem converts provided [stackitem.Array] to SubmissionVotedEvent or
// returns an error if it's not possible to do to so.
func (e *SubmissionVotedEvent) FromStackItem(item *stackitem.Array) error {
	arr, err := eventItems(item, 3)
	if err != nil {
		return err
	}

	e.SubmissionID, err = arr[0].TryInteger()
	if err != nil {
		return fmt.Errorf("field SubmissionID: %w", err)
	}

	e.Judge, err = itemToUint160(arr[1])
	if err != nil {
		return fmt.Errorf("field Judge: %w", err)
	}

	e.Approved, err = arr[2].TryBool()
	if err != nil {
		return fmt.Errorf("field Approved: %w", err)
	}

	return nil
}

// SubmissionApprovedEventsFromApplicationLog retrieves a set of all emitted events
// with "SubmissionApproved" name from the provided [result.ApplicationLog].
func SubmissionApprovedEventsFromApplicationLog(log *result.ApplicationLog) ([]*SubmissionApprovedEvent, error) {
	return eventsFromApplicationLog[SubmissionApprovedEvent](log, "SubmissionApproved")
}

// FromStackItem converts provided [stackitem.Array] to SubmissionApprovedEvent or
// returns an error if it's not possible to do to so.
func (e *SubmissionApprovedEvent) FromStackItem(item *stackitem.Array) error {
	arr, err := eventItems(item, 2)
	if err != nil {
		return err
	}

	e.SubmissionID, err = arr[0].TryInteger()
	if err != nil {
		return fmt.Errorf("field SubmissionID: %w", err)
	}

	e.PayoutAmount, err = arr[1].TryInteger()
	if err != nil {
		return fmt.Errorf("field PayoutAmount: %w", err)
	}

	return nil
}

// SubmissionRejectedEventsFromApplicationLog retrieves a set of all emitted events
// with "SubmissionRejected" name from the provided [result.ApplicationLog].
func SubmissionRejectedEventsFromApplicationLog(log *result.ApplicationLog) ([]*SubmissionRejectedEvent, error) {
	return eventsFromApplicationLog[SubmissionRejectedEvent](log, "SubmissionRejected")
}

// FromStackItem converts provided [stackitem.Array] to SubmissionRejectedEvent or
// returns an error if it's not possible to do to so.
func (e *SubmissionRejectedEvent) FromStackItem(item *stackitem.Array) error {
	arr, err := eventItems(item, 1)
	if err != nil {
		return err
	}

	e.SubmissionID, err = arr[0].TryInteger()
	if err != nil {
		return fmt.Errorf("field SubmissionID: %w", err)
	}

	return nil
}

// PayoutSentEventsFromApplicationLog retrieves a set of all emitted events
// with "PayoutSent" name from the provided [result.ApplicationLog].
func PayoutSentEventsFromApplicationLog(log *result.ApplicationLog) ([]*PayoutSentEvent, error) {
	return eventsFromApplicationLog[PayoutSentEvent](log, "PayoutSent")
}

// FromStackItem converts provided [stackitem.Array] to PayoutSentEvent or
// returns an error if it's not possible to do to so.
func (e *PayoutSentEvent) FromStackItem(item *stackitem.Array) error {
	arr, err := eventItems(item, 3)
	if err != nil {
		return err
	}

	e.SubmissionID, err = arr[0].TryInteger()
	if err != nil {
		return fmt.Errorf("field SubmissionID: %w", err)
	}

	e.Researcher, err = itemToUint160(arr[1])
	if err != nil {
		return fmt.Errorf("field Researcher: %w", err)
	}

	e.Amount, err = arr[2].TryInteger()
	if err != nil {
		return fmt.Errorf("field Amount: %w", err)
	}

	return nil
}

// VaultClosedEventsFromApplicationLog retrieves a set of all emitted events
// with "VaultClosed" name from the provided [result.ApplicationLog].
func VaultClosedEventsFromApplicationLog(log *result.ApplicationLog) ([]*VaultClosedEvent, error) {
	return eventsFromApplicationLog[VaultClosedEvent](log, "VaultClosed")
}

// FromStackItem converts provided [stackitem.Array] to VaultClosedEvent or
// returns an error if it's not possible to do to so.
func (e *VaultClosedEvent) FromStackItem(item *stackitem.Array) error {
	arr, err := eventItems(item, 2)
	if err != nil {
		return err
	}

	e.VaultID, err = arr[0].TryInteger()
	if err != nil {
		return fmt.Errorf("field VaultID: %w", err)
	}

	e.Refund, err = arr[1].TryInteger()
	if err != nil {
		return fmt.Errorf("field Refund: %w", err)
	}

	return nil
}

// YieldStrategySetEventsFromApplicationLog retrieves a set of all emitted events
// with "YieldStrategySet" name from the provided [result.ApplicationLog].
func YieldStrategySetEventsFromApplicationLog(log *result.ApplicationLog) ([]*YieldStrategySetEvent, error) {
	return eventsFromApplicationLog[YieldStrategySetEvent](log, "YieldStrategySet")
}

// FromStackItem converts provided [stackitem.Array] to YieldStrategySetEvent or
// returns an error if it's not possible to do to so.
func (e *YieldStrategySetEvent) FromStackItem(item *stackitem.Array) error {
	arr, err := eventItems(item, 2)
	if err != nil {
		return err
	}

	e.VaultID, err = arr[0].TryInteger()
	if err != nil {
		return fmt.Errorf("field VaultID: %w", err)
	}

	e.Strategy, err = itemToOptionalUint160(arr[1], nil)
	if err != nil {
		return fmt.Errorf("field Strategy: %w", err)
	}

	return nil
}

type event[T any] interface {
	*T
	FromStackItem(item *stackitem.Array) error
}

func eventsFromApplicationLog[T any, PT event[T]](log *result.ApplicationLog, name string) ([]*T, error) {
	if log == nil {
		return nil, errors.New("nil application log")
	}

	var res []*T
	for i, ex := range log.Executions {
		for j, e := range ex.Events {
			if e.Name != name {
				continue
			}
			ev := PT(new(T))
			err := ev.FromStackItem(e.Item)
			if err != nil {
				return nil, fmt.Errorf("failed to deserialize %sEvent from stackitem (execution #%d, event #%d): %w", name, i, j, err)
			}
			res = append(res, (*T)(ev))
		}
	}

	return res, nil
}

func eventItems(item *stackitem.Array, n int) ([]stackitem.Item, error) {
	if item == nil {
		return nil, errors.New("nil item")
	}
	arr, ok := item.Value().([]stackitem.Item)
	if !ok {
		return nil, errors.New("not an array")
	}
	if len(arr) != n {
		return nil, errors.New("wrong number of structure elements")
	}
	return arr, nil
}

func itemToUint160(item stackitem.Item) (util.Uint160, error) {
	b, err := item.TryBytes()
	if err != nil {
		return util.Uint160{}, err
	}
	u, err := util.Uint160DecodeBytesBE(b)
	if err != nil {
		return util.Uint160{}, err
	}
	return u, nil
}

// itemToOptionalUint160 is itemToUint160 accepting Null and empty byte
// string as zero hash.
func itemToOptionalUint160(item stackitem.Item, err error) (util.Uint160, error) {
	if err != nil {
		return util.Uint160{}, err
	}
	if _, ok := item.(stackitem.Null); ok {
		return util.Uint160{}, nil
	}
	b, err := item.TryBytes()
	if err != nil {
		return util.Uint160{}, err
	}
	if len(b) == 0 {
		return util.Uint160{}, nil
	}
	return util.Uint160DecodeBytesBE(b)
}
