package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// StructuredJSONConfig is the on-disk JSON layout of [StructuredConfig].
type StructuredJSONConfig struct {
	App struct {
		Identity string `json:"identity"`
	} `json:"app,omitempty"`

	Channel struct {
		URL                 string   `json:"url"`
		ReconnectAttempts   int      `json:"reconnect_attempts"`
		ReconnectDelay      Duration `json:"reconnect_delay"`
		Timeout             Duration `json:"timeout"`
		PingInterval        Duration `json:"ping_interval"`
		AssumeAuthenticated bool     `json:"assume_authenticated"`
	} `json:"channel,omitempty"`

	Storage struct {
		Driver string `json:"driver"`
		DSN    string `json:"dsn"`
	} `json:"storage,omitempty"`

	Network struct {
		HealthURL     string   `json:"health_url"`
		ProbeInterval Duration `json:"probe_interval"`
	} `json:"network,omitempty"`

	Sync struct {
		AckMode   string   `json:"ack_mode"`
		Interval  Duration `json:"interval"`
		Kinds     []string `json:"kinds"`
		BusBuffer int      `json:"bus_buffer"`
	} `json:"sync,omitempty"`

	Adapter struct {
		BaseURL        string   `json:"base_url"`
		RequestTimeout Duration `json:"request_timeout"`
	} `json:"adapter,omitempty"`

	Server struct {
		HTTPAddress    string   `json:"http_address"`
		TokenSignKey   string   `json:"token_sign_key"`
		RequestTimeout Duration `json:"request_timeout"`
	} `json:"server,omitempty"`
}

func parseJSON(jsonFilePath string) (*StructuredConfig, error) {
	jsonFile, err := os.Open(jsonFilePath)
	if err != nil {
		return nil, fmt.Errorf("error reading a json file: %w", err)
	}
	defer jsonFile.Close()

	var j StructuredJSONConfig
	if err := json.NewDecoder(jsonFile).Decode(&j); err != nil {
		return nil, fmt.Errorf("error decoding json configs: %w", err)
	}

	cfg := &StructuredConfig{
		App: App{Identity: j.App.Identity},
		Channel: Channel{
			URL:                 j.Channel.URL,
			ReconnectAttempts:   j.Channel.ReconnectAttempts,
			ReconnectDelay:      time.Duration(j.Channel.ReconnectDelay),
			Timeout:             time.Duration(j.Channel.Timeout),
			PingInterval:        time.Duration(j.Channel.PingInterval),
			AssumeAuthenticated: j.Channel.AssumeAuthenticated,
		},
		Storage: Storage{Driver: j.Storage.Driver, DSN: j.Storage.DSN},
		Network: Network{
			HealthURL:     j.Network.HealthURL,
			ProbeInterval: time.Duration(j.Network.ProbeInterval),
		},
		Sync: Sync{
			AckMode:   j.Sync.AckMode,
			Interval:  time.Duration(j.Sync.Interval),
			Kinds:     j.Sync.Kinds,
			BusBuffer: j.Sync.BusBuffer,
		},
		Adapter: Adapter{
			BaseURL:        j.Adapter.BaseURL,
			RequestTimeout: time.Duration(j.Adapter.RequestTimeout),
		},
		Server: Server{
			HTTPAddress:    j.Server.HTTPAddress,
			TokenSignKey:   j.Server.TokenSignKey,
			RequestTimeout: time.Duration(j.Server.RequestTimeout),
		},
	}

	return cfg, nil
}

// Duration is a time.Duration that unmarshals from JSON strings like "1h" or
// "30s" as well as from integer nanoseconds.
type Duration time.Duration

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	switch value := v.(type) {
	case float64:
		*d = Duration(time.Duration(value))
		return nil
	case string:
		tmp, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		*d = Duration(tmp)
		return nil
	default:
		return fmt.Errorf("invalid duration %s", string(b))
	}
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}
