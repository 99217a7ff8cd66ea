package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "lwcpctl: %v\n", err)
		os.Exit(1)
	}
}
