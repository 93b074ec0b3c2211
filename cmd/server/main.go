package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/dmitrijs2005/racelog/internal/server"
	"github.com/dmitrijs2005/racelog/internal/server/config"
)

var (
	buildVersion = "N/A"
	buildDate    = "N/A"
)

// readPassword is a test seam for term.ReadPassword.
var readPassword = term.ReadPassword

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "racelog",
	Short: "RaceLog track day logbook server",
}

var serveCmd = &cobra.Command{
	Use:                "serve",
	Short:              "Start the HTTP server",
	FParseErrWhitelist: cobra.FParseErrWhitelist{UnknownFlags: true},
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.LoadConfig()
		app, err := server.NewApp(cfg)
		if err != nil {
			return err
		}
		app.Run(context.Background())
		return nil
	},
}

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage accounts",
}

var userCreateCmd = &cobra.Command{
	Use:                "create <username>",
	Short:              "Create an account, prompting for the password",
	Args:               cobra.MinimumNArgs(1),
	FParseErrWhitelist: cobra.FParseErrWhitelist{UnknownFlags: true},
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.LoadConfig()
		app, err := server.NewApp(cfg)
		if err != nil {
			return err
		}

		fmt.Print("Enter password: ")
		pw, err := readPassword(int(os.Stdin.Fd()))
		fmt.Println()
		if err != nil {
			return err
		}

		user, err := app.Users().Register(cmd.Context(), args[0], string(pw))
		if err != nil {
			return err
		}
		fmt.Printf("Created user %s (%s)\n", user.Username, user.ID)
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print build information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("Build version: %s\n", buildVersion)
		fmt.Printf("Build date: %s\n", buildDate)
	},
}

func init() {
	userCmd.AddCommand(userCreateCmd)
	rootCmd.AddCommand(serveCmd, userCmd, versionCmd)
}
