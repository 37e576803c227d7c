package main

import (
	"encoding/json"
	"fmt"
	"os"
)

// ErrorResponse is the JSON shape of a failed command.
type ErrorResponse struct {
	Error string `json:"error"`
}

// outputJSON writes a value as formatted JSON to stdout.
func outputJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// outputHuman writes a human-readable string to stdout.
func outputHuman(format string, args ...any) {
	fmt.Printf(format, args...)
}

// exitWithError outputs an error in the appropriate format (human or JSON) and exits.
func exitWithError(code int, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	if humanOutput {
		fmt.Fprintf(os.Stderr, "error: %s\n", msg)
	} else {
		_ = outputJSON(ErrorResponse{Error: msg})
	}
	os.Exit(code)
}

// emit prints v as JSON, or calls human when --human is set.
func emit(v any, human func()) {
	if humanOutput {
		human()
		return
	}
	if err := outputJSON(v); err != nil {
		exitWithError(ExitError, "writing output: %v", err)
	}
}
