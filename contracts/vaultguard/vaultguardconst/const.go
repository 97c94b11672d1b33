/*
Package vaultguardconst contains constants shared by VaultGuard contract and
its off-chain clients.
*/
package vaultguardconst

// Submission severity tiers. Index into vault payout percentages.
const (
	SeverityLow = iota
	SeverityMedium
	SeverityHigh
	SeverityCritical

	// SeverityCount is the number of severity tiers, every vault has exactly
	// that many payout percentages.
	SeverityCount
)

// Submission statuses.
const (
	StatusPending = iota
	StatusApproved
	StatusRejected
	StatusPaid
)

const (
	// BasisPoints is 100% expressed in basis points.
	BasisPoints = 10000
	// PlatformFee is the part of every payout sent to the platform wallet, in
	// basis points.
	PlatformFee = 250
)

// Payment operations carried in the first element of the NEP-17 payment data.
const (
	// PaymentCreateVault payment data is
	// ["create", judges []Hash160, requiredApprovals int, payouts []int].
	PaymentCreateVault = "create"
	// PaymentDeposit payment data is ["deposit", vaultID int].
	PaymentDeposit = "deposit"
)

// Exception messages thrown by VaultGuard contract.
const (
	ErrInvalidDeposit              = "deposit must be positive"
	ErrInvalidThreshold            = "invalid approval threshold"
	ErrInvalidJudges               = "invalid judge list"
	ErrInvalidPayouts              = "invalid payout percentages"
	ErrInvalidPaymentData          = "invalid payment data"
	ErrNotOwner                    = "not vault owner"
	ErrVaultInactive               = "vault not active"
	ErrVaultNotFound               = "vault does not exist"
	ErrSubmissionNotFound          = "submission does not exist"
	ErrEmptyReport                 = "report hash required"
	ErrInvalidSeverity             = "invalid severity"
	ErrNotJudge                    = "not a judge"
	ErrAlreadyVoted                = "already voted"
	ErrNotPending                  = "submission is not pending"
	ErrNotResearcher               = "not the researcher"
	ErrNotApproved                 = "submission is not approved"
	ErrInsufficientFunds           = "insufficient vault funds"
	ErrAssetMismatch               = "invalid strategy asset"
	ErrInsufficientStrategyBalance = "insufficient strategy balance"
	ErrStrategyWithdrawFailed      = "strategy withdrawal failed"
)
