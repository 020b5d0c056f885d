// Package utils provides decorators shared by all handlers of the
// application: panic recovery, logging, action tagging and savepoints.
package utils
