package config

import (
	"fmt"
	"time"

	"github.com/MKhiriev/go-call-sync/models"
)

// ClientConfig is the client-side view of [StructuredConfig].
type ClientConfig struct {
	// Identity is the agent identity used to connect.
	Identity string
	// Channel configures the duplex channel.
	Channel Channel
	// Storage selects the local key/value backend.
	Storage Storage
	// Network configures connectivity probing.
	Network Network
	// Sync configures the coordinator and the sync job.
	Sync ClientSync
	// Adapter configures the REST client.
	Adapter Adapter
}

// ClientSync is [Sync] with the acknowledgment mode already parsed.
type ClientSync struct {
	AckMode   models.AckMode
	Interval  time.Duration
	Kinds     []string
	BusBuffer int
}

// RelayConfig is the relay-side view of [StructuredConfig].
type RelayConfig struct {
	Server Server
	// Kinds seeds the hub's dataType to kind table.
	Kinds []string
}

// GetClientConfig builds and validates the client configuration.
func GetClientConfig() (*ClientConfig, error) {
	cfg, err := GetStructuredConfig()
	if err != nil {
		return nil, fmt.Errorf("error get structured config: %w", err)
	}

	clientCfg := cfg.clientConfig()
	return clientCfg, clientCfg.validate()
}

// GetRelayConfig builds and validates the relay configuration.
func GetRelayConfig() (*RelayConfig, error) {
	cfg, err := GetStructuredConfig()
	if err != nil {
		return nil, fmt.Errorf("error get structured config: %w", err)
	}

	relayCfg := &RelayConfig{Server: cfg.Server, Kinds: cfg.Sync.Kinds}
	return relayCfg, relayCfg.validate()
}

func (cfg *StructuredConfig) clientConfig() *ClientConfig {
	return &ClientConfig{
		Identity: cfg.App.Identity,
		Channel:  cfg.Channel,
		Storage:  cfg.Storage,
		Network:  cfg.Network,
		Sync: ClientSync{
			AckMode:   models.AckMode(cfg.Sync.AckMode),
			Interval:  cfg.Sync.Interval,
			Kinds:     cfg.Sync.Kinds,
			BusBuffer: cfg.Sync.BusBuffer,
		},
		Adapter: cfg.Adapter,
	}
}
