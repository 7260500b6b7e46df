// Package main provides the shareit command line client.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"shareit-backend/internal/client"
)

var (
	serverURL string
	timeout   time.Duration
	verbose   bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:           "shareit",
	Short:         "Borrow and return shared items",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	defaultServer := os.Getenv("SHAREIT_SERVER")
	if defaultServer == "" {
		defaultServer = "http://localhost:8080"
	}
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", defaultServer, "server base URL (env SHAREIT_SERVER)")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Second, "request timeout")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "print every local state change")

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(newActionCmd("borrow", "Borrow an available item"))
	rootCmd.AddCommand(newActionCmd("return", "Return a borrowed item"))
}

func newController(cmd *cobra.Command) *client.Controller {
	opts := []client.Option{}
	if verbose {
		opts = append(opts, client.WithOnChange(func(phase client.Phase, item client.Item) {
			fmt.Fprintf(cmd.ErrOrStderr(), "[%s] %s %s\n", phase, item.ID, item.Availability)
		}))
	}
	return client.New(serverURL, opts...)
}
