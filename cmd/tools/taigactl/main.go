// cmd/tools/taigactl/main.go
package main

import (
	"fmt"
	"os"

	"sentry-taiga/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
