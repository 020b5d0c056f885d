/*
Package x contains the authentication helpers shared by all extensions.

Extensions implement handlers and decorators and are combined together in
the app package to build the application. Each sub-package is one of them:
sigs checks signatures, utils provides common decorators, ledger keeps the
token accounts and escrow implements the time locked escrow.
*/
package x
