// Package factory provides a small generic registry used to instantiate
// pluggable modules, such as metrics sinks, from configuration. A module is
// described by a type string and a map of raw settings which the factory
// decodes with Decode.
package factory
