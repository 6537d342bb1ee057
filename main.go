// file: main.go
// version: 2.0.0
// guid: 3b9e7c2a-1d5f-4e08-a6b4-8f0c2d9e1a57

package main

import (
	"fmt"
	"os"

	"github.com/jdfalk/dashboard-search/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
