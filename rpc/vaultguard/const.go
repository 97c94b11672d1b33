package vaultguard

import (
	"math/big"

	"github.com/vaultguard-labs/vaultguard-contract/contracts/vaultguard/vaultguardconst"
)

// Severity tiers of [Submission], also indexes of [Vault] payouts.
var (
	SeverityLow      = big.NewInt(vaultguardconst.SeverityLow)
	SeverityMedium   = big.NewInt(vaultguardconst.SeverityMedium)
	SeverityHigh     = big.NewInt(vaultguardconst.SeverityHigh)
	SeverityCritical = big.NewInt(vaultguardconst.SeverityCritical)
)

// Statuses of [Submission].
var (
	StatusPending  = big.NewInt(vaultguardconst.StatusPending)
	StatusApproved = big.NewInt(vaultguardconst.StatusApproved)
	StatusRejected = big.NewInt(vaultguardconst.StatusRejected)
	StatusPaid     = big.NewInt(vaultguardconst.StatusPaid)
)

var severityNames = []string{"low", "medium", "high", "critical"}

var statusNames = []string{"pending", "approved", "rejected", "paid"}

// SeverityString returns human-readable severity name.
func SeverityString(severity *big.Int) string {
	return enumString(severity, severityNames)
}

// StatusString returns human-readable submission status name.
func StatusString(status *big.Int) string {
	return enumString(status, statusNames)
}

// ParseSeverity converts severity name to its numeric value.
func ParseSeverity(s string) (*big.Int, bool) {
	for i := range severityNames {
		if severityNames[i] == s {
			return big.NewInt(int64(i)), true
		}
	}
	return nil, false
}

func enumString(v *big.Int, names []string) string {
	if v == nil || !v.IsInt64() || v.Sign() < 0 || v.Int64() >= int64(len(names)) {
		return "unknown(" + v.String() + ")"
	}
	return names[v.Int64()]
}
