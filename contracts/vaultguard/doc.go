/*
Package vaultguard implements VaultGuard contract which is an escrow for bug
bounty programs.

Protocol locks bounty funds in a vault by transferring NEP-17 asset (GAS or
any other token) to the contract. Security researchers file vulnerability
reports against active vaults, the judges assigned to the vault vote on them
and approved submissions are paid out from the vault funds. Part of every
payout is taken as a platform fee. Vault owner may park idle vault funds in a
yield strategy contract and close the vault at any time getting the rest of
the funds back.

# Submission lifecycle

	Pending -> Approved -> Paid
	        \-> Rejected

Any negative judge vote rejects the submission. Submission is approved when
the vault threshold of positive votes is reached, payout amount is fixed at
this moment as a share of the funds left in the vault which depends on the
severity of the report.

# Payments

Vault is created by NEP-17 transfer with the following data:

	["create", judges []Hash160, requiredApprovals int, payouts []int]

where payouts are four percentages in basis points for Low, Medium, High and
Critical severity. Transfer sender becomes vault owner and the token becomes
vault asset. Additional funds are deposited with

	["deposit", vaultID int]

# Contract notifications

VaultCreated notification. This notification is produced when a vault is
created.

	VaultCreated
	  - name: vaultID
	    type: Integer
	  - name: owner
	    type: Hash160
	  - name: deposit
	    type: Integer

FundsDeposited notification. This notification is produced when the owner
adds funds to the vault.

	FundsDeposited
	  - name: vaultID
	    type: Integer
	  - name: amount
	    type: Integer

SubmissionCreated notification. This notification is produced when a
researcher files a report.

	SubmissionCreated
	  - name: submissionID
	    type: Integer
	  - name: vaultID
	    type: Integer
	  - name: researcher
	    type: Hash160

SubmissionVoted notification. This notification is produced on each judge
vote.

	SubmissionVoted
	  - name: submissionID
	    type: Integer
	  - name: judge
	    type: Hash160
	  - name: approved
	    type: Boolean

SubmissionApproved notification. This notification is produced when the
submission gets enough positive votes.

	SubmissionApproved
	  - name: submissionID
	    type: Integer
	  - name: payoutAmount
	    type: Integer

SubmissionRejected notification. This notification is produced on negative
vote.

	SubmissionRejected
	  - name: submissionID
	    type: Integer

PayoutSent notification. This notification is produced when the researcher
claims the payout. Amount is the payout without platform fee.

	PayoutSent
	  - name: submissionID
	    type: Integer
	  - name: researcher
	    type: Hash160
	  - name: amount
	    type: Integer

VaultClosed notification. This notification is produced when the owner closes
the vault.

	VaultClosed
	  - name: vaultID
	    type: Integer
	  - name: refund
	    type: Integer

YieldStrategySet notification. This notification is produced when the owner
attaches, replaces or detaches yield strategy of the vault. Strategy is null
when detached.

	YieldStrategySet
	  - name: vaultID
	    type: Integer
	  - name: strategy
	    type: Any
*/
package vaultguard

/*
Contract storage model.

Current conventions:
 <id>: little-endian integer vault or submission ID
 <account>: 20-byte account script hash

# Summary
Key-value storage format:
 - 'admin' -> interop.Hash160
   contract administrator
 - 'platformWallet' -> interop.Hash160
   account receiving platform fees
 - 'reputation' -> interop.Hash160
   reputation contract, missing if credentials are not issued
 - 'vaultCount' -> int
   ID of the next vault
 - 'submissionCount' -> int
   ID of the next submission
 - 'strategyReturn' -> interop.Hash160
   strategy which funds are being withdrawn, exists only during withdrawal
 - 0x01<id> -> std.Serialize(Vault)
   vault data
 - 0x02<id> -> std.Serialize([]int)
   IDs of the vault submissions
 - 0x03<id> -> std.Serialize(Submission)
   submission data
 - 0x04<account><id> -> int
   submission ID of the researcher
 - 0x05<id><account> -> []byte{1}
   judge vote mark

# Funds
Vault funds are kept on the contract account or in the yield strategy of the
vault. RemainingFunds of the vault never exceeds TotalDeposit.
*/
