package kv

import (
	"github.com/spf13/cobra"

	"github.com/kvgate/kvgate/cmd/util"
	"github.com/kvgate/kvgate/rpc/client"
)

var (
	kv client.IGatewayClient

	// KeyValueCommands represents the KV command group
	KeyValueCommands = &cobra.Command{
		Use:               "kv",
		Short:             "Perform key-value operations against a kvgate service",
		PersistentPreRunE: setupClient,
	}
)

func init() {
	// Initialize viper
	cobra.OnInitialize(util.InitClientConfig)

	// Add common connection flags to the KV command
	util.SetupClientFlags(KeyValueCommands)

	// The actor identity the client speaks as
	KeyValueCommands.PersistentFlags().String("actor", "cli", util.WrapString("Actor identity to use for the request. Configuration calls require the 'system' actor"))

	// Add subcommands
	KeyValueCommands.AddCommand(configureCmd)
	KeyValueCommands.AddCommand(setCmd)
	KeyValueCommands.AddCommand(getCmd)
	KeyValueCommands.AddCommand(addCmd)
	KeyValueCommands.AddCommand(delCmd)
	KeyValueCommands.AddCommand(existsCmd)
	KeyValueCommands.AddCommand(pushCmd)
	KeyValueCommands.AddCommand(rangeCmd)
	KeyValueCommands.AddCommand(listDelCmd)
	KeyValueCommands.AddCommand(clearCmd)
	KeyValueCommands.AddCommand(setAddCmd)
	KeyValueCommands.AddCommand(setRemoveCmd)
	KeyValueCommands.AddCommand(setUnionCmd)
	KeyValueCommands.AddCommand(setIntersectCmd)
	KeyValueCommands.AddCommand(setQueryCmd)
}

// setupClient initializes the gateway client
func setupClient(cmd *cobra.Command, _ []string) error {
	// Bind command flags to viper
	if err := util.BindCommandFlags(cmd); err != nil {
		return err
	}

	// Get client configuration
	config := util.GetClientConfig()

	// Get serializer and transport
	s, err := util.GetSerializer()
	if err != nil {
		return err
	}

	t, err := util.GetClientTransport()
	if err != nil {
		return err
	}

	// Create the gateway client
	kv, err = client.NewGatewayClient(
		*config,
		t,
		s,
	)

	return err
}
