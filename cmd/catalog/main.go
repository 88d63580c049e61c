package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/n9te9/go-graphql-catalog/server"
	"github.com/spf13/cobra"
)

const version = "v0.1.0"

func main() {
	rootCmd := &cobra.Command{
		Use:   "catalog",
		Short: "GraphQL catalog of authors and books",
	}

	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newInitCmd())
	rootCmd.AddCommand(newServeCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number of the catalog server",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "Catalog %s\n", version)
		},
	}
}

func newInitCmd() *cobra.Command {
	var path string
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default config file",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := server.Init(path); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
			return nil
		},
	}
	cmd.Flags().StringVarP(&path, "config", "c", server.DefaultConfigPath, "path of the config file to create")
	return cmd
}

func newServeCmd() *cobra.Command {
	var path string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the catalog server",
		RunE: func(cmd *cobra.Command, args []string) error {
			opt, err := loadOption(path, cmd.Flags().Changed("config"))
			if err != nil {
				return err
			}
			return server.Run(opt)
		},
	}
	cmd.Flags().StringVarP(&path, "config", "c", server.DefaultConfigPath, "path of the config file")
	return cmd
}

// loadOption falls back to defaults when the default config file is absent.
// An explicitly requested file must exist.
func loadOption(path string, explicit bool) (server.CatalogOption, error) {
	opt, err := server.LoadOption(path)
	if errors.Is(err, fs.ErrNotExist) && !explicit {
		return server.DefaultOption(), nil
	}
	return opt, err
}
