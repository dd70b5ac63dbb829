// cmd/plcbridge/main.go
package main

import (
	"fmt"
	"os"

	"github.com/tamzrod/plcbridge/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "plcbridge:", err)
		os.Exit(1)
	}
}
