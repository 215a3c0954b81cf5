// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// StructuredJSONConfig is the on-disk JSON layout. Durations are accepted
// as Go duration strings ("30s") or integer nanoseconds.
type StructuredJSONConfig struct {
	App struct {
		Name     string `json:"name"`
		Version  string `json:"version"`
		LogLevel string `json:"log_level"`
	} `json:"app,omitempty"`

	Storage struct {
		DB struct {
			Endpoint           string   `json:"endpoint"`
			Namespace          string   `json:"namespace"`
			Database           string   `json:"database"`
			RootUser           string   `json:"root_user"`
			RootPassword       string   `json:"root_password"`
			NamespaceUser      string   `json:"namespace_user"`
			NamespacePassword  string   `json:"namespace_password"`
			MaxConnectAttempts int      `json:"max_connect_attempts"`
			ConnectBackoff     Duration `json:"connect_backoff"`
			MaxQueryRetries    int      `json:"max_query_retries"`
			QueryRetryBackoff  Duration `json:"query_retry_backoff"`
			MaxConns           int32    `json:"max_conns"`
		} `json:"db,omitempty"`
	} `json:"storage,omitempty"`

	Registration struct {
		Emails bool `json:"emails"`
		Keys   struct {
			Enabled bool   `json:"enabled"`
			Prefix  string `json:"prefix"`
		} `json:"keys,omitempty"`
	} `json:"registration,omitempty"`

	Session struct {
		Duration     Duration `json:"duration"`
		HashKey      string   `json:"hash_key"`
		CookieName   string   `json:"cookie_name"`
		CookieSecure bool     `json:"cookie_secure"`
	} `json:"session,omitempty"`

	Server struct {
		HTTPAddress    string   `json:"http_address"`
		GRPCAddress    string   `json:"grpc_address"`
		RequestTimeout Duration `json:"request_timeout"`
		RateLimit      int      `json:"rate_limit"`
		RateBurst      int      `json:"rate_burst"`
	} `json:"server,omitempty"`

	Adapter struct {
		Renderer struct {
			URL     string   `json:"url"`
			SignKey string   `json:"sign_key"`
			Issuer  string   `json:"issuer"`
			Timeout Duration `json:"timeout"`
		} `json:"renderer,omitempty"`
	} `json:"adapter,omitempty"`

	Workers struct {
		SessionReapSchedule string `json:"session_reap_schedule"`
		WatchdogSchedule    string `json:"watchdog_schedule"`
	} `json:"workers,omitempty"`
}

func parseJSON(jsonFilePath string) (*StructuredConfig, error) {
	jsonFile, err := os.Open(jsonFilePath)
	if err != nil {
		return nil, fmt.Errorf("error reading a json file: %w", err)
	}
	defer jsonFile.Close()

	var jsonCfg StructuredJSONConfig
	if err := json.NewDecoder(jsonFile).Decode(&jsonCfg); err != nil {
		return nil, fmt.Errorf("error decoding json configs: %w", err)
	}

	db := jsonCfg.Storage.DB
	cfg := &StructuredConfig{
		App: App{
			Name:     jsonCfg.App.Name,
			Version:  jsonCfg.App.Version,
			LogLevel: jsonCfg.App.LogLevel,
		},
		Storage: Storage{
			DB: DB{
				Endpoint:           db.Endpoint,
				Namespace:          db.Namespace,
				Database:           db.Database,
				RootUser:           db.RootUser,
				RootPassword:       db.RootPassword,
				NamespaceUser:      db.NamespaceUser,
				NamespacePassword:  db.NamespacePassword,
				MaxConnectAttempts: db.MaxConnectAttempts,
				ConnectBackoff:     time.Duration(db.ConnectBackoff),
				MaxQueryRetries:    db.MaxQueryRetries,
				QueryRetryBackoff:  time.Duration(db.QueryRetryBackoff),
				MaxConns:           db.MaxConns,
			},
		},
		Registration: Registration{
			Emails: jsonCfg.Registration.Emails,
			Keys: Keys{
				Enabled: jsonCfg.Registration.Keys.Enabled,
				Prefix:  jsonCfg.Registration.Keys.Prefix,
			},
		},
		Session: Session{
			Duration:     time.Duration(jsonCfg.Session.Duration),
			HashKey:      jsonCfg.Session.HashKey,
			CookieName:   jsonCfg.Session.CookieName,
			CookieSecure: jsonCfg.Session.CookieSecure,
		},
		Server: Server{
			HTTPAddress:    jsonCfg.Server.HTTPAddress,
			GRPCAddress:    jsonCfg.Server.GRPCAddress,
			RequestTimeout: time.Duration(jsonCfg.Server.RequestTimeout),
			RateLimit:      jsonCfg.Server.RateLimit,
			RateBurst:      jsonCfg.Server.RateBurst,
		},
		Adapter: Adapter{
			Renderer: Renderer{
				URL:     jsonCfg.Adapter.Renderer.URL,
				SignKey: jsonCfg.Adapter.Renderer.SignKey,
				Issuer:  jsonCfg.Adapter.Renderer.Issuer,
				Timeout: time.Duration(jsonCfg.Adapter.Renderer.Timeout),
			},
		},
		Workers: Workers{
			SessionReapSchedule: jsonCfg.Workers.SessionReapSchedule,
			WatchdogSchedule:    jsonCfg.Workers.WatchdogSchedule,
		},
	}

	return cfg, nil
}

// Duration is a wrapper around time.Duration that supports JSON unmarshaling from strings like "1h", "30s"
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
		return fmt.Errorf("invalid duration: %s", string(b))
	}
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}
