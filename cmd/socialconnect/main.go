package main

import (
	"fmt"
	"os"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v2"
)

func main() {
	if err := run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	app := cli.App{
		Name:  "socialconnect",
		Usage: "sign in to a social network and call its API from the terminal",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "provider",
				Usage:   "provider name",
				Value:   "instagram",
				EnvVars: []string{"SOCIAL_PROVIDER"},
			},
			&cli.StringFlag{
				Name:    "client-id",
				Usage:   "OAuth client id",
				EnvVars: []string{"SOCIAL_CLIENT_ID"},
			},
			&cli.StringFlag{
				Name:    "client-secret",
				Usage:   "OAuth client secret (code mode only)",
				EnvVars: []string{"SOCIAL_CLIENT_SECRET"},
			},
			&cli.StringFlag{
				Name:    "redirect-uri",
				Usage:   "loopback redirect URI registered with the provider",
				Value:   "http://127.0.0.1:8765/callback",
				EnvVars: []string{"SOCIAL_REDIRECT_URI"},
			},
			&cli.StringFlag{
				Name:    "scope",
				Usage:   "requested scopes, space separated",
				EnvVars: []string{"SOCIAL_SCOPE"},
			},
			&cli.StringFlag{
				Name:    "mode",
				Usage:   "authorization mode: code or token",
				Value:   "code",
				EnvVars: []string{"SOCIAL_AUTHORIZATION_MODE"},
			},
			&cli.StringFlag{
				Name:    "db-driver",
				Usage:   "credential database driver: sqlite3 or postgres",
				Value:   "sqlite3",
				EnvVars: []string{"SOCIAL_DB_DRIVER"},
			},
			&cli.StringFlag{
				Name:    "db-dsn",
				Usage:   "credential database DSN",
				Value:   "file:socialconnect.db?_foreign_keys=on",
				EnvVars: []string{"SOCIAL_DB_DSN"},
			},
			&cli.DurationFlag{
				Name:    "cache-ttl",
				Usage:   "credential read cache TTL, 0 disables the cache",
				Value:   time.Minute,
				EnvVars: []string{"SOCIAL_CACHE_TTL"},
			},
			&cli.DurationFlag{
				Name:    "timeout",
				Usage:   "how long to wait for sign-in or a call to complete",
				Value:   5 * time.Minute,
				EnvVars: []string{"SOCIAL_TIMEOUT"},
			},
			&cli.StringFlag{
				Name:    "metrics-addr",
				Usage:   "serve Prometheus metrics on this address while the command runs",
				EnvVars: []string{"SOCIAL_METRICS_ADDR"},
			},
		},
		Commands: []*cli.Command{
			cmdLogin,
			cmdCall,
			cmdStatus,
			cmdOperations,
			cmdLogout,
		},
	}
	return app.Run(args)
}
