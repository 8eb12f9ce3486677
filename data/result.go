// Package data defines the archival record written when a benchmark run
// completes, and saves it to disk.
package data

import (
	"time"

	"github.com/m-lab/sigping/stats"
)

// CurrentSchemaVersion is the current version of the Result struct below.
// This schema version should be included in serialized JSON result files,
// and should be incremented for every structure change to Result so that
// downstream parsers can keep historical records parsable.
const CurrentSchemaVersion = 1

// Result is the struct that is serialized as JSON to disk as the archival
// record of a benchmark run. It contains enough build and run metadata for
// interested parties to analyze a result without access to the process that
// produced it.
type Result struct {
	// GitShortCommit is the Git commit (short form) of the running code.
	GitShortCommit string
	// Version is the symbolic version (if any) of the running code.
	Version string
	// SchemaVersion represents the version of the Result structure.
	SchemaVersion int

	// UUID names this run in archives and in Redis.
	UUID string
	// Role is the role this process played, "server" or "client".
	Role string
	// Target is the pid notifications were sent to, 0 for the whole
	// process group.
	Target int
	// CommandLine is the complete command line of the process that wrote
	// this record, so a result can be tied back to its exact invocation.
	CommandLine string

	StartTime time.Time
	EndTime   time.Time

	// Report carries the measured statistics. Only the server measures,
	// so records written by a client carry no report.
	Report *stats.Report `json:",omitempty"`
}
