// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

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

// ParseFlags parses configuration flags from args (usually os.Args[1:]).
//
// Flags:
//
//	-a server address in format [host]:[port]
//	-grpc-address grpc health server address in format [host]:[port]
//	-db-endpoint database endpoint URL
//	-db-namespace schema the session binds to
//	-db-database database name
//	-c/-config json file path with configs
//	-session-hash-key key of the session token digest
//	-session-duration session lifetime (e.g., "720h")
//	-request-timeout request timeout (e.g., "30s", "1m")
//	-registration-keys require registration keys
//	-registration-emails require email addresses
//	-log-level zerolog level
func ParseFlags(args []string) (*StructuredConfig, error) {
	fs := flag.NewFlagSet("mercury", flag.ContinueOnError)

	var serverAddress, grpcServerAddress NetAddress
	var endpoint, namespace, database string
	var jsonConfigPath string
	var sessionHashKey string
	var sessionDuration time.Duration
	var requestTimeout time.Duration
	var keysEnabled, emailsEnabled bool
	var logLevel string

	fs.Var(&serverAddress, "a", "Net address host:port")
	fs.Var(&grpcServerAddress, "grpc-address", "Net grpc health server address host:port")
	fs.StringVar(&endpoint, "db-endpoint", "", "Database endpoint URL")
	fs.StringVar(&namespace, "db-namespace", "", "Database namespace (schema)")
	fs.StringVar(&database, "db-database", "", "Database name")
	fs.StringVar(&jsonConfigPath, "c", "", "JSON config file path")
	fs.StringVar(&jsonConfigPath, "config", "", "JSON config file path (alias)")
	fs.StringVar(&sessionHashKey, "session-hash-key", "", "Session token digest key")
	fs.DurationVar(&sessionDuration, "session-duration", 0, "Session duration (e.g., 720h)")
	fs.DurationVar(&requestTimeout, "request-timeout", 0, "Request timeout (e.g., 30s, 1m)")
	fs.BoolVar(&keysEnabled, "registration-keys", false, "Require registration keys")
	fs.BoolVar(&emailsEnabled, "registration-emails", false, "Require email addresses")
	fs.StringVar(&logLevel, "log-level", "", "Log level")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("error parsing flags: %w", err)
	}

	return &StructuredConfig{
		App: App{
			LogLevel: logLevel,
		},
		Storage: Storage{
			DB: DB{
				Endpoint:  endpoint,
				Namespace: namespace,
				Database:  database,
			},
		},
		Registration: Registration{
			Emails: emailsEnabled,
			Keys:   Keys{Enabled: keysEnabled},
		},
		Session: Session{
			Duration: sessionDuration,
			HashKey:  sessionHashKey,
		},
		Server: Server{
			HTTPAddress:    serverAddress.String(),
			GRPCAddress:    grpcServerAddress.String(),
			RequestTimeout: requestTimeout,
		},
		JSONFilePath: jsonConfigPath,
	}, nil
}

// String returns a canonical host:port string for a NetAddress.
// If neither Host nor Port are set, it returns an empty string.
func (a *NetAddress) String() string {
	if a.Host == "" && a.Port == 0 {
		return ""
	}

	return a.Host + ":" + strconv.Itoa(a.Port)
}

// Set parses the input string of form host:port and populates the NetAddress.
// An empty host binds every interface.
func (a *NetAddress) Set(s string) error {
	hostAndPort := strings.Split(s, ":")
	if len(hostAndPort) != 2 {
		return errors.New("need address in a form `host:port`")
	}

	host := hostAndPort[0]
	port, err := strconv.Atoi(hostAndPort[1])
	if err != nil {
		return err
	}

	if port < 1 || port > 65535 {
		return errors.New("port number must be in range 1..65535")
	}

	if host != "" && host != "localhost" {
		ip := net.ParseIP(host)
		if ip == nil {
			return errors.New("incorrect IP-address provided")
		}
	}

	a.Host = host
	a.Port = port
	return nil
}
