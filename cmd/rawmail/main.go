package main

import (
	"github.com/spf13/cobra"

	"github.com/zostay/go-rawmail/cmd/rawmail/cmd"
)

func main() {
	err := cmd.Execute()
	cobra.CheckErr(err)
}
