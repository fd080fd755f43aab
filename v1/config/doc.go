// Package config loads the configuration of an fxinstrument application from
// YAML or JSON with koanf. Keys absent from the document keep the values of
// Default. FXModule hands each section to the module that consumes it.
package config
