package main

import (
	"os"

	"klinik-sentosa/cmd/bootstrap"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "klinik",
		Short: "Klinik Sentosa clinic flow server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve()
		},
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(seedCmd())
	rootCmd.AddCommand(datastoreCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the clinic API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve()
		},
	}
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the clinic tables in PostgreSQL",
		RunE: func(cmd *cobra.Command, args []string) error {
			return bootstrap.Migrate(cmd.Context())
		},
	}
}

func seedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Create the staff accounts and starter medicines",
		RunE: func(cmd *cobra.Command, args []string) error {
			return bootstrap.Seed(cmd.Context())
		},
	}
}

func datastoreCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "datastore",
		Short: "Serve the REST data backend",
		RunE: func(cmd *cobra.Command, args []string) error {
			return bootstrap.ServeDatastore()
		},
	}
}

func serve() error {
	// Initialize application with all dependencies
	app, err := bootstrap.New()
	if err != nil {
		logrus.Errorf("Failed to initialize application: %v", err)
		return err
	}

	// Run the application
	app.Run()
	return nil
}
