package serve

import (
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	cmdUtil "github.com/kvgate/kvgate/cmd/util"
	"github.com/kvgate/kvgate/rpc/common"
	"github.com/kvgate/kvgate/rpc/serializer"
	"github.com/kvgate/kvgate/rpc/service"
	"github.com/kvgate/kvgate/rpc/transport"
	"github.com/kvgate/kvgate/rpc/transport/http"
	"github.com/kvgate/kvgate/rpc/transport/tcp"
	"github.com/kvgate/kvgate/rpc/transport/unix"
)

var (
	serveCmdConfig = &common.ServerConfig{}
	ServeCmd       = &cobra.Command{
		Use:     "serve",
		Short:   "Start the kvgate service",
		Long:    `Start the kvgate service with the specified configuration. The configuration can be set via command line flags or environment variables. The format of the environment variables is KVGATE_<flag> (e.g. KVGATE_TIMEOUT=15)`,
		PreRunE: processConfig,
		RunE:    run,
	}
)

func init() {
	// initialize viper
	cobra.OnInitialize(initConfig)

	// add flags
	key := "backend"
	ServeCmd.PersistentFlags().String(key, "memory", cmdUtil.WrapString("Store backend used for actor handles. One of: redis, memory, bolt"))

	key = "actors"
	ServeCmd.PersistentFlags().String(key, "", cmdUtil.WrapString("Comma-separated list of actors to preconfigure at startup. Format: ACTOR=URL where URL is the backend connection string (e.g. 'billing=redis://localhost:6379/0'). May be empty; actors can also be configured at runtime by the system actor"))

	key = "data-dir"
	ServeCmd.PersistentFlags().String(key, "data", cmdUtil.WrapString("Directory used by file backed store backends (bolt)"))

	key = "timeout"
	ServeCmd.PersistentFlags().Int64(key, 5, cmdUtil.WrapString("Request timeout in seconds"))

	key = "endpoint"
	ServeCmd.PersistentFlags().String(key, "0.0.0.0:8080", cmdUtil.WrapString("The address on which the API will listen (e.g. localhost:8080, /tmp/kvgate.sock, ...)"))

	key = "max-workers-per-conn"
	ServeCmd.PersistentFlags().Int(key, 16, cmdUtil.WrapString("How many requests of a single connection may be processed concurrently (tcp and unix transports)"))

	key = "log-level"
	ServeCmd.PersistentFlags().String(key, "info", cmdUtil.WrapString("LogLevel is the level at which logs will be output (debug, info, warning, error)"))
}

// processConfig reads the configuration from the command line flags and environment variables and converts them to the service configuration
func processConfig(cmd *cobra.Command, _ []string) error {
	// bind the flags to viper
	if err := viper.BindPFlags(cmd.Flags()); err != nil {
		return err
	}

	// parse preconfigured actors
	serveCmdConfig.Actors = map[string]string{}
	if actorsConfig := viper.GetString("actors"); actorsConfig != "" {
		for _, actorConfig := range strings.Split(actorsConfig, ",") {
			parts := strings.SplitN(actorConfig, "=", 2)
			if len(parts) != 2 {
				return fmt.Errorf("invalid actor format: %s (expected ACTOR=URL)", actorConfig)
			}

			actor := strings.TrimSpace(parts[0])
			if actor == "" {
				return fmt.Errorf("invalid actor format: %s (empty actor identity)", actorConfig)
			}

			serveCmdConfig.Actors[actor] = strings.TrimSpace(parts[1])
		}
	}

	// read the configuration from the command line flags and environment variables
	serveCmdConfig.Backend = viper.GetString("backend")
	serveCmdConfig.DataDir = viper.GetString("data-dir")
	serveCmdConfig.TimeoutSecond = viper.GetInt64("timeout")
	serveCmdConfig.Endpoint = viper.GetString("endpoint")
	serveCmdConfig.LogLevel = viper.GetString("log-level")
	serveCmdConfig.Transport.MaxWorkersPerConn = viper.GetInt("max-workers-per-conn")

	return nil
}

// run starts the kvgate service
func run(_ *cobra.Command, _ []string) error {

	// parse the serializer
	var s serializer.ISerializer
	switch viper.GetString("serializer") {
	case "json":
		s = serializer.NewJSONSerializer()
	case "gob":
		s = serializer.NewGOBSerializer()
	case "binary":
		s = serializer.NewBinarySerializer()
	default:
		return fmt.Errorf("invalid serializer %s", viper.GetString("serializer"))
	}

	// Parse the transport
	var t transport.IServerTransport
	switch viper.GetString("transport") {
	case "http":
		t = http.NewHttpServerTransport()
	case "tcp":
		t = tcp.NewTCPDefaultServerTransport(serveCmdConfig.Transport.MaxWorkersPerConn)
	case "unix":
		t = unix.NewUnixDefaultServerTransport(serveCmdConfig.Transport.MaxWorkersPerConn)
	default:
		return fmt.Errorf("invalid transport %s", viper.GetString("transport"))
	}

	svc := service.NewService(
		*serveCmdConfig,
		t,
		s,
	)

	return svc.Serve()
}

// initConfig reads in serveCmdConfig file and ENV variables if set.
func initConfig() {
	// load env files
	_ = godotenv.Load(".env")
	_ = godotenv.Load(".env.local")

	// initialize viper
	viper.SetEnvPrefix("kvgate")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv() // read in environment variables that match
}
