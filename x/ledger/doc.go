/*
Package ledger implements the token ledger: custodial accounts that hold a
single asset each and can only be debited with the authority of the
account's controller.

A user account is derived from the owner address and the asset, so that
every owner has exactly one account per asset. Other extensions open
accounts under their own derived addresses and controllers, which is how the
escrow keeps its vaults.
*/
package ledger
