package main

import (
	"fmt"
	"os"

	"hotpicks/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "hotpicks: %v\n", err)
		os.Exit(1)
	}
}
