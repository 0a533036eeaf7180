// Package main is the entry point for the orgchart service. Subcommands
// serve the HTTP API, seed the database, or apply migrations.
package main

import (
	"context"

	"github.com/alecthomas/kong"

	"orgchart/cmd/orgchart/internal/commands"
)

var (
	version = "dev"
	cli     struct {
		Debug   bool                `help:"Enable debug logging."`
		Version kong.VersionFlag    `help:"Print version and exit."`
		Serve   commands.ServeCmd   `cmd:"" default:"1" help:"Start the HTTP server (default)."`
		Seed    commands.SeedCmd    `cmd:"" help:"Seed an empty database with a synthetic organisation."`
		Migrate commands.MigrateCmd `cmd:"" help:"Apply pending database migrations."`
	}
)

func main() {
	ctx := context.Background()
	cmd := kong.Parse(&cli,
		kong.Name("orgchart"),
		kong.Description("Employee hierarchy service."),
		kong.Vars{
			"version": version,
		},
		kong.BindTo(ctx, (*context.Context)(nil)))
	err := cmd.Run(&commands.Globals{Debug: cli.Debug, Version: version})
	cmd.FatalIfErrorf(err)
}
