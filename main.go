// Package main is the entry point for the hlsrip application.
package main

import (
	"github.com/hlsrip-cli/hlsrip/cmd"
	"github.com/hlsrip-cli/hlsrip/config"
	"github.com/hlsrip-cli/hlsrip/log"
	"github.com/samber/lo"
)

func main() {
	lo.Must0(config.Setup())
	lo.Must0(log.Setup())

	cmd.Execute()
}
