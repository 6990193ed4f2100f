package commands

import (
	"fmt"
	"io"
	"time"
)

func reportElapsed(w io.Writer, action string, elapsed time.Duration) {
	rounded := max(elapsed.Round(time.Millisecond), time.Millisecond)
	fmt.Fprintf(w, "%s completed in %s\n", action, rounded)
}
