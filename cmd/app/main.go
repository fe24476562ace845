package main

import (
	"os"

	"github.com/A-Mayank/Order-FollowUp-System/internal/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
