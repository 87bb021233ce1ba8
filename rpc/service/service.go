package service

import (
	"fmt"
	"os/signal"
	"path/filepath"
	"runtime"
	"syscall"

	"github.com/kvgate/kvgate/lib/store"
	"github.com/kvgate/kvgate/lib/store/boltstore"
	"github.com/kvgate/kvgate/lib/store/memstore"
	"github.com/kvgate/kvgate/lib/store/redisstore"
	"github.com/kvgate/kvgate/provider"
	"github.com/kvgate/kvgate/rpc/common"
	"github.com/kvgate/kvgate/rpc/serializer"
	"github.com/kvgate/kvgate/rpc/transport"
)

var Logger = common.GetLogger("service")

// NewService creates a new gateway service
// It takes a config, transport and serializer as parameters
//
// Usage:
//
//	s := service.NewService(
//		*config,
//		tcp.NewTCPDefaultServerTransport(config.Transport.MaxWorkersPerConn),
//		serializer.NewBinarySerializer(),
//	)
//
//	if err := s.Serve(); err != nil {
//		panic(err)
//	}
func NewService(
	config common.ServerConfig,
	transport transport.IServerTransport,
	serializer serializer.ISerializer,
) Service {
	// https://github.com/golang/go/issues/17393
	if runtime.GOOS == "darwin" {
		signal.Ignore(syscall.Signal(0xd))
	}

	Logger.Infof("Created gateway service")
	Logger.Infof(config.String())

	return Service{
		config:     config,
		transport:  transport,
		serializer: serializer,
	}
}

// Service wires the transport layer, the serializer and the dispatch
// provider into a runnable gateway
type Service struct {
	config     common.ServerConfig
	transport  transport.IServerTransport
	serializer serializer.ISerializer
	provider   *provider.Provider
}

// --------------------------------------------------------------------------
// Lifecycle
// --------------------------------------------------------------------------

// Serve initializes the service and starts the transport layer. The call
// blocks until the transport stops listening.
func (s *Service) Serve() error {
	if err := s.init(); err != nil {
		return err
	}
	return s.transport.Listen(s.config)
}

func (s *Service) init() error {

	// Init logger
	if err := common.InitLoggers(s.config); err != nil {
		Logger.Warningf("invalid log level %q, keeping defaults", s.config.LogLevel)
	}

	// Select the store backend
	factory, err := newStoreFactory(s.config)
	if err != nil {
		return err
	}

	// Create the dispatch provider
	s.provider = provider.New(factory, s.serializer)

	// Register preconfigured actors
	if err := s.registerConfiguredActors(factory); err != nil {
		return err
	}

	Logger.Infof("kvgate setup completed successfully")

	// Configure the transport layer
	s.registerTransportHandler()

	return nil
}

// --------------------------------------------------------------------------
// Helper Methods
// --------------------------------------------------------------------------

// registerTransportHandler connects the transport layer to the dispatch
// provider. Dispatch failures are reported to the caller as error messages,
// never as a dropped connection.
func (s *Service) registerTransportHandler() {
	s.transport.RegisterHandler(func(actor string, op string, req []byte) []byte {
		resp, err := s.provider.Dispatch(actor, op, req)
		if err == nil {
			return resp
		}

		data, sErr := s.serializer.Serialize(*common.NewErrorResponse(err.Error()))
		if sErr != nil {
			Logger.Errorf("Failed to serialize error response: %v", sErr)
			return []byte{}
		}
		return data
	})
}

// registerConfiguredActors installs store handles for all actors listed in
// the service configuration. This complements runtime configuration issued
// by the system actor.
func (s *Service) registerConfiguredActors(factory store.Factory) error {
	for actor, url := range s.config.Actors {
		params := store.ConnectionParams{"URL": resolveStoreURL(s.config, url)}

		client, err := factory(params)
		if err != nil {
			return fmt.Errorf("failed to configure actor %s: %w", actor, err)
		}

		s.provider.Registry().Register(actor, client)
		Logger.Infof("preconfigured store handle for actor %s", actor)
	}
	return nil
}

// newStoreFactory selects the store backend for the configured backend name
func newStoreFactory(config common.ServerConfig) (store.Factory, error) {
	switch config.Backend {
	case "redis":
		return redisstore.NewFactory(), nil
	case "memory":
		return memstore.NewFactory(), nil
	case "bolt":
		return boltstore.NewFactory(), nil
	default:
		return nil, fmt.Errorf("unknown store backend: %q (expected redis, memory or bolt)", config.Backend)
	}
}

// resolveStoreURL anchors relative file paths of file backed backends in the
// configured data directory
func resolveStoreURL(config common.ServerConfig, url string) string {
	if config.Backend == "bolt" && config.DataDir != "" && !filepath.IsAbs(url) {
		return filepath.Join(config.DataDir, url)
	}
	return url
}
