package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/homedrive/internal/flagx"
)

// parseFlags populates selected server Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   HTTP bind address (e.g., "127.0.0.1:3001")
//	-d string   PostgreSQL DSN
//	-s string   session secret key
//	-k bool     secure session cookies
//	-i int      session idle timeout, minutes
//	-m int      session absolute timeout, minutes (0 disables)
//	-g int      shutdown grace period, seconds
//	-q int      default account quota, bytes
//
// The function first filters os.Args to only the flags it recognizes using
// flagx.FilterArgs, avoiding collisions with other components. Duration
// flags are accepted as integers and converted to time.Duration values.
func parseFlags(config *Config) {
	// Filter args to include only the flags handled here.
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-d", "-s", "-k", "-i", "-m", "-g", "-q"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddr, "a", config.EndpointAddr, "address and port to run server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SessionSecret, "s", config.SessionSecret, "session secret key")
	fs.BoolVar(&config.SecureCookies, "k", config.SecureCookies, "set the Secure flag on session cookies")

	idleTimeout := fs.Int("i", int(config.SessionIdleTimeout.Minutes()), "session idle timeout (in minutes)")
	absoluteTimeout := fs.Int("m", int(config.SessionAbsoluteTimeout.Minutes()), "session absolute timeout (in minutes, 0 disables)")
	gracePeriod := fs.Int("g", int(config.ShutdownGracePeriod.Seconds()), "shutdown grace period (in seconds)")

	fs.Int64Var(&config.DefaultQuotaBytes, "q", config.DefaultQuotaBytes, "default account quota (in bytes)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.SessionIdleTimeout = time.Duration(*idleTimeout) * time.Minute
	config.SessionAbsoluteTimeout = time.Duration(*absoluteTimeout) * time.Minute
	config.ShutdownGracePeriod = time.Duration(*gracePeriod) * time.Second
}
