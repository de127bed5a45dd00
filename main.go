package main

import (
	"os"

	"github.com/pycode1094/job-recoder/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
