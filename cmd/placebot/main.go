package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

const version = "0.1.0"

var (
	placeFile string
	usersFile string
	logLevel  string
)

// rootCmd sobe o daemon: uma goroutine por conta, até SIGINT/SIGTERM.
var rootCmd = &cobra.Command{
	Use:   "placebot",
	Short: "placebot - keeps a reference image painted on the shared canvas",
	Long: `placebot logs in every account from the users file and, for each one,
keeps sampling pixels of the reference image, painting the ones that
differ and honouring the server cooldown.

It runs until interrupted.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runDaemon,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&placeFile, "config", "place.toml", "target and engine configuration (TOML)")
	rootCmd.PersistentFlags().StringVar(&usersFile, "users", "users.toml", "account list (TOML, [[users]] entries)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "overrides log.level (debug, info, warn, error)")

	rootCmd.SetVersionTemplate(`{{with .Name}}{{printf "%s " .}}{{end}}{{printf "version %s" .Version}}
`)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "placebot: %v\n", err)
		os.Exit(1)
	}
}
