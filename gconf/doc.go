/*
Package gconf implements a configuration store intended to be used as a
global, in-database configuration.

Each extension keeps a single configuration entity stored under the
"_c:<package name>" key. It is loaded from the "conf" section of the genesis
file and can later be updated by the configuration owner using a message
handled by UpdateConfigurationHandler.
*/
package gconf
