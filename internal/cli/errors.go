package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/ntpc-opendata/ntpc-opendata/internal/opendata"
)

// Report prints err for a human and returns the process exit code.
func Report(w io.Writer, err error) int {
	if err == nil {
		return 0
	}

	if errors.Is(err, opendata.ErrUpstream) {
		if status := opendata.StatusCode(err); status != 0 {
			fmt.Fprintf(w, "Error: %s (status %d)\n", opendata.ErrUpstream, status)
		} else {
			fmt.Fprintf(w, "Error: %s\n", opendata.ErrUpstream)
		}
		return 1
	}

	fmt.Fprintf(w, "Error: %v\n", err)
	return 1
}
