// Package logging holds the process-wide logger used across sigping in a
// Docker friendly way.
package logging

import (
	golog "log"
	"net/http"
	"os"

	"github.com/apex/log"
	"github.com/apex/log/handlers/json"
	"github.com/gorilla/handlers"
)

// Logger logs messages on the standard error in a structured JSON format,
// to simplify processing. Keeping the standard output free for the results
// block lets a caller capture the report without any filtering, and
// emitting logs on the standard error is consistent with the standard
// practices when dockerising a service.
var Logger = log.Logger{
	Handler: json.New(os.Stderr),
	Level:   log.DebugLevel,
}

// MakeAccessLogHandler wraps |handler| with another handler that logs
// access to each resource. Access logs are a fairly standard format that
// has been around for a long time now, so we emit them as they are rather
// than as JSON.
func MakeAccessLogHandler(handler http.Handler) http.Handler {
	return handlers.LoggingHandler(golog.Writer(), handler)
}
