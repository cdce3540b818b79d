package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	errs "github.com/matzehuels/narrative/pkg/errors"
)

// reportedError marks an error that was already shown to the user through
// the session notifier.
type reportedError struct{ error }

func (e reportedError) Unwrap() error { return e.error }

// Execute runs the narrative CLI and returns an error if any command fails.
// This is the main entry point for the CLI application.
//
// Errors are printed to stderr once: coded errors as "Title: message",
// anything else verbatim. The returned error is for the exit status.
//
// Logging:
//   - Default: the configured level, info unless set (logs to stderr)
//   - With --verbose (-v): debug level
//
// Example:
//
//	func main() {
//	    if err := cli.Execute(ctx); err != nil {
//	        os.Exit(1)
//	    }
//	}
func Execute(ctx context.Context) error {
	c := New(os.Stderr, LogInfo)
	err := c.RootCommand().ExecuteContext(ctx)
	if err != nil {
		reportError(err)
	}
	return err
}

func reportError(err error) {
	var reported reportedError
	switch {
	case errors.As(err, &reported):
	case errors.Is(err, context.Canceled):
	case errs.GetCode(err) != "":
		printErrorTo(os.Stderr, "%s: %s", errs.Title(err), errs.UserMessage(err))
	default:
		fmt.Fprintln(os.Stderr, err)
	}
}
