// Command assail is the entry point for the assail CLI (§6): static
// weak-point analysis, dynamic stress attacks, mutation testing, crash
// isolation, and campaign adjudication over a target program.
package main

import (
	"os"

	"github.com/assailsec/assail/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
