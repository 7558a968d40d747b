package config

import (
	"errors"
	"flag"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"
)

// NetAddress holds structured network address data for host and port.
// It implements the flag.Value interface.
type NetAddress struct {
	Host string
	Port int
}

// parseFlags parses the command-line flags of both binaries.
//
// Flags:
//
//	-a relay listen address in format [host]:[port]
//	-identity client identity (agent id or JWT)
//	-channel-url websocket endpoint
//	-reconnect-attempts reconnect ceiling
//	-reconnect-delay delay between reconnect attempts (e.g. "1s")
//	-channel-timeout transport timeout (e.g. "20s")
//	-ping-interval keep-alive interval
//	-assume-authenticated skip waiting for the authenticated acknowledgment
//	-storage-driver sqlite, bolt or memory
//	-d local database path
//	-health-url connectivity probe URL
//	-probe-interval connectivity probe interval
//	-ack-mode results or batch
//	-sync-interval periodic sync interval
//	-kinds comma separated entity kinds
//	-rest-url REST API root
//	-token-sign-key relay JWT verification key
//	-c/-config json file path with configs
func parseFlags(args []string) (*StructuredConfig, error) {
	fs := flag.NewFlagSet("callsync", flag.ContinueOnError)

	var (
		serverAddress       NetAddress
		identity            string
		channelURL          string
		reconnectAttempts   int
		reconnectDelay      time.Duration
		channelTimeout      time.Duration
		pingInterval        time.Duration
		assumeAuthenticated bool
		storageDriver       string
		storageDSN          string
		healthURL           string
		probeInterval       time.Duration
		ackMode             string
		syncInterval        time.Duration
		kinds               string
		restURL             string
		tokenSignKey        string
		jsonConfigPath      string
	)

	fs.Var(&serverAddress, "a", "Relay net address host:port")
	fs.StringVar(&identity, "identity", "", "Client identity")
	fs.StringVar(&channelURL, "channel-url", "", "Websocket endpoint URL")
	fs.IntVar(&reconnectAttempts, "reconnect-attempts", 0, "Reconnect attempts ceiling")
	fs.DurationVar(&reconnectDelay, "reconnect-delay", 0, "Delay between reconnect attempts")
	fs.DurationVar(&channelTimeout, "channel-timeout", 0, "Channel transport timeout")
	fs.DurationVar(&pingInterval, "ping-interval", 0, "Keep-alive ping interval")
	fs.BoolVar(&assumeAuthenticated, "assume-authenticated", false, "Treat the channel as authenticated without acknowledgment")
	fs.StringVar(&storageDriver, "storage-driver", "", "Local storage driver: sqlite, bolt, memory")
	fs.StringVar(&storageDSN, "d", "", "Local database path")
	fs.StringVar(&healthURL, "health-url", "", "Connectivity probe URL")
	fs.DurationVar(&probeInterval, "probe-interval", 0, "Connectivity probe interval")
	fs.StringVar(&ackMode, "ack-mode", "", "Offline sync acknowledgment mode: results, batch")
	fs.DurationVar(&syncInterval, "sync-interval", 0, "Periodic sync interval")
	fs.StringVar(&kinds, "kinds", "", "Comma separated entity kinds")
	fs.StringVar(&restURL, "rest-url", "", "REST API base URL")
	fs.StringVar(&tokenSignKey, "token-sign-key", "", "Relay JWT verification key")
	fs.StringVar(&jsonConfigPath, "c", "", "JSON config file path")
	fs.StringVar(&jsonConfigPath, "config", "", "JSON config file path (alias)")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("error parsing flags: %w", err)
	}

	return &StructuredConfig{
		App: App{Identity: identity},
		Channel: Channel{
			URL:                 channelURL,
			ReconnectAttempts:   reconnectAttempts,
			ReconnectDelay:      reconnectDelay,
			Timeout:             channelTimeout,
			PingInterval:        pingInterval,
			AssumeAuthenticated: assumeAuthenticated,
		},
		Storage: Storage{Driver: storageDriver, DSN: storageDSN},
		Network: Network{HealthURL: healthURL, ProbeInterval: probeInterval},
		Sync: Sync{
			AckMode:  ackMode,
			Interval: syncInterval,
			Kinds:    splitList(kinds),
		},
		Adapter: Adapter{BaseURL: restURL},
		Server: Server{
			HTTPAddress:  serverAddress.String(),
			TokenSignKey: tokenSignKey,
		},
		JSONFilePath: jsonConfigPath,
	}, nil
}

func splitList(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}

	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// String returns a canonical host:port string for a NetAddress.
func (a *NetAddress) String() string {
	if a.Host == "" && a.Port == 0 {
		return ""
	}

	return a.Host + ":" + strconv.Itoa(a.Port)
}

// Set parses the input string of form host:port and populates the NetAddress.
// An empty host means all interfaces; any other host except "localhost" must
// be a valid IP address.
func (a *NetAddress) Set(s string) error {
	host, portStr, err := net.SplitHostPort(s)
	if err != nil {
		return errors.New("need address in a form `host:port`")
	}

	port, err := strconv.Atoi(portStr)
	if err != nil {
		return err
	}
	if port < 1 {
		return errors.New("port number is a positive integer")
	}

	if host != "" && host != "localhost" && net.ParseIP(host) == nil {
		return errors.New("incorrect IP-address provided")
	}

	a.Host = host
	a.Port = port
	return nil
}
