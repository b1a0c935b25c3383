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

// parseFlags parses command-line flags from args (without the program name).
//
// Flags:
//
//	-a server listen address in format [host]:[port]
//	-r remote store address used by the client
//	-d PostgreSQL DSN
//	-l local SQLite DSN
//	-c/-config json file path with configs
//	-token bearer token for the remote store
//	-token-sign-key token signing key
//	-token-issuer token issuer name
//	-token-duration token duration (e.g., "1h", "30m")
//	-issue-token print a signed token for the principal and exit (server)
//	-request-timeout server request timeout
//	-adapter-timeout client request timeout
//	-batch-width collections synced concurrently
//	-notify-throttle minimum interval between change notifications
//	-collections comma separated local collection names
//	-sync-interval period of the background sync
//	-sync-once run one full sync and exit
//	-log-level log level
//	-log-file client log file
func parseFlags(args []string) (*StructuredConfig, error) {
	fs := flag.NewFlagSet("clearmind", flag.ContinueOnError)

	var serverAddress NetAddress
	var remoteAddress string
	var databaseDSN, localDSN string
	var jsonConfigPath string
	var token, tokenSignKey, tokenIssuer, issueTokenFor string
	var tokenDuration, requestTimeout, adapterTimeout time.Duration
	var batchWidth int
	var notifyThrottle, syncInterval time.Duration
	var collections string
	var syncOnce bool
	var logLevel, logFile string

	fs.Var(&serverAddress, "a", "Net address host:port")
	fs.StringVar(&remoteAddress, "r", "", "Remote store address")
	fs.StringVar(&databaseDSN, "d", "", "Database DSN")
	fs.StringVar(&localDSN, "l", "", "Local SQLite DSN")
	fs.StringVar(&jsonConfigPath, "c", "", "JSON config file path")
	fs.StringVar(&jsonConfigPath, "config", "", "JSON config file path (alias)")
	fs.StringVar(&token, "token", "", "Bearer token")
	fs.StringVar(&tokenSignKey, "token-sign-key", "", "Token signing key")
	fs.StringVar(&tokenIssuer, "token-issuer", "", "Token issuer")
	fs.DurationVar(&tokenDuration, "token-duration", 0, "Token duration (e.g., 1h, 30m)")
	fs.StringVar(&issueTokenFor, "issue-token", "", "Print a signed token for the principal and exit")
	fs.DurationVar(&requestTimeout, "request-timeout", 0, "Server request timeout (e.g., 30s, 1m)")
	fs.DurationVar(&adapterTimeout, "adapter-timeout", 0, "Client request timeout (e.g., 15s)")
	fs.IntVar(&batchWidth, "batch-width", 0, "Collections synced concurrently")
	fs.DurationVar(&notifyThrottle, "notify-throttle", 0, "Minimum interval between change notifications")
	fs.StringVar(&collections, "collections", "", "Comma separated local collection names")
	fs.DurationVar(&syncInterval, "sync-interval", 0, "Background sync interval")
	fs.BoolVar(&syncOnce, "sync-once", false, "Run one full sync and exit")
	fs.StringVar(&logLevel, "log-level", "", "Log level")
	fs.StringVar(&logFile, "log-file", "", "Client log file")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("error parsing flags: %w", err)
	}

	return &StructuredConfig{
		App: App{
			Token:         token,
			TokenSignKey:  tokenSignKey,
			TokenIssuer:   tokenIssuer,
			TokenDuration: tokenDuration,
			IssueTokenFor: issueTokenFor,
		},
		Storage: Storage{
			DB:    DB{DSN: databaseDSN},
			Local: Local{DSN: localDSN},
		},
		Server: Server{
			HTTPAddress:    serverAddress.String(),
			RequestTimeout: requestTimeout,
		},
		Adapter: Adapter{
			HTTPAddress:    remoteAddress,
			RequestTimeout: adapterTimeout,
		},
		Sync: Sync{
			BatchWidth:     batchWidth,
			NotifyThrottle: notifyThrottle,
			Collections:    splitList(collections),
		},
		Workers: Workers{
			SyncInterval: syncInterval,
			SyncOnce:     syncOnce,
		},
		Log: Log{
			Level: logLevel,
			File:  logFile,
		},
		JSONFilePath: jsonConfigPath,
	}, nil
}

func splitList(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}

	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// String returns a canonical host:port string for a NetAddress.
// An unset address renders as the empty string.
func (a *NetAddress) String() string {
	if a.Host == "" && a.Port == 0 {
		return ""
	}

	return a.Host + ":" + strconv.Itoa(a.Port)
}

// Set parses the input string of form host:port and populates the NetAddress.
// It validates the port range, checks IP correctness unless host is "localhost",
// and returns an error if the format or values are invalid.
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

	if host != "localhost" && host != "" {
		if ip := net.ParseIP(host); ip == nil {
			return errors.New("incorrect IP-address provided")
		}
	}

	a.Host = host
	a.Port = port
	return nil
}
