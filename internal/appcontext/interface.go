// Package appcontext provides the shared application context interface
// used by all commands.
package appcontext

import (
	"github.com/rs/zerolog"

	bulkedit "github.com/marcelo-6/ftbatch-recipe-bulk-edit"
)

// Interface defines what commands need from the application. The App in
// cmd/ftbatch/app implements it; tests use Mock.
type Interface interface {
	// Client returns the bulk edit client, creating it lazily. It carries
	// the configured strategy, output directory and history store.
	Client() (bulkedit.Client, error)

	// Logger returns the configured logger instance.
	Logger() *zerolog.Logger

	// OutputFormat returns the configured output format (table, json, yaml).
	OutputFormat() string

	// Version returns the application version string.
	Version() string

	// Commit returns the git commit hash.
	Commit() string

	// Date returns the build date.
	Date() string

	// BuiltBy returns the build system identifier.
	BuiltBy() string
}
