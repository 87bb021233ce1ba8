package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kvgate/kvgate/cmd/kv"
	"github.com/kvgate/kvgate/cmd/serve"
	"github.com/kvgate/kvgate/cmd/util"
)

const (
	Version = "0.3.1"
)

var (

	// RootCmd represents the base command when called without any subcommands
	RootCmd = &cobra.Command{
		Use:   "kvgate",
		Short: "multi-tenant key-value gateway",
		Long: fmt.Sprintf(`kvgate (v%s)

A multi-tenant key-value gateway written in Go. Every actor is bound to
its own isolated store handle; the service dispatches scalar, list and
set operations to pluggable backends (redis, memory, bolt).`, Version),
	}
	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the version number of kvgate",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("kvgate v%s\n", Version)
		},
	}
)

func init() {
	// Add Commands
	RootCmd.AddCommand(serve.ServeCmd)
	RootCmd.AddCommand(kv.KeyValueCommands)
	RootCmd.AddCommand(versionCmd)

	// Add Flags
	key := "serializer"
	RootCmd.PersistentFlags().String(key, "binary", util.WrapString("serializer to use (json, gob, binary)"))
	key = "transport"
	RootCmd.PersistentFlags().String(key, "tcp", util.WrapString("transport to use (http, tcp, unix)"))
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the RootCmd.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
