// Package r2rconfig loads, validates and persists the service configuration.
//
// A document moves through three steps: it is decoded into a RawConfig,
// checked against a Schema by Validate, and turned into a typed Config by
// Materialize. Marshal produces the canonical JSON form used when the config
// is written to a key-value Store.
package r2rconfig
