package main

import (
	"os"

	"github.com/AndrewDonelson/typedis/cmd/typedis/cmd"
)

func main() {
	if err := cmd.NewRootCmd(os.Stdout, os.Stderr).Execute(); err != nil {
		os.Exit(1)
	}
}
