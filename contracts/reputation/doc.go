/*
Package reputation implements Reputation contract issuing non-transferable
credentials to security researchers.

Credential is minted by VaultGuard contract on every payout and references the
vault, the submission, its severity and the paid amount. Token follows NEP-11
method set, but transfer is always refused.

# Contract notifications

Transfer notification. This notification is produced when a credential is
minted. Sender is always empty.

	Transfer
	  - name: from
	    type: Hash160
	  - name: to
	    type: Hash160
	  - name: amount
	    type: Integer
	  - name: tokenId
	    type: ByteArray
*/
package reputation

/*
Contract storage model.

Current conventions:
 <owner>: 20-byte account script hash
 <token>: decimal string of the credential sequence number starting from 1

# Summary
Key-value storage format:
 - 'admin' -> interop.Hash160
   contract administrator
 - 'minter' -> interop.Hash160
   account allowed to mint, normally VaultGuard contract
 - 'totalSupply' -> int
   number of issued credentials
 - 0x01<token> -> std.Serialize(Credential)
   credential data
 - 0x02<owner> -> int
   number of credentials of the owner
 - 0x03<owner><token> -> <token>
   owner token index
 - 0x04<owner> -> int
   reputation score of the owner
*/
