package main

import (
	"fmt"
	"os"

	"github.com/mwantia/qfilter/cmd/qfilter/cli"
	"github.com/mwantia/qfilter/cmd/qfilter/cli/client"
	"github.com/mwantia/qfilter/cmd/qfilter/cli/server"
)

var (
	version = "0.0.1-dev"
	commit  = "main"
)

func main() {
	root := cli.NewRootCommand(cli.VersionInfo{
		Version: version,
		Commit:  commit,
	})

	root.AddCommand(cli.NewVersionCommand())
	root.AddCommand(cli.NewEncodeCommand())
	root.AddCommand(cli.NewDecodeCommand())

	root.AddCommand(client.NewSourceCommand())
	root.AddCommand(client.NewWidgetCommand())

	root.AddCommand(server.NewConfigCommand())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
