// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

// configFlag is shared by every command that reads the configuration file.
func configFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Path to configuration file",
		Value:   defaultConfigPath,
	}
}

// serveCommand runs the HTTP service.
func serveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Serve the composition API and the static client",
		Flags: []cli.Flag{
			configFlag(),
			&cli.StringFlag{
				Name:  "host",
				Usage: "Override server.host",
			},
			&cli.IntFlag{
				Name:    "port",
				Aliases: []string{"p"},
				Usage:   "Override server.port",
			},
			&cli.BoolFlag{
				Name:  "open",
				Usage: "Open the client in the default browser once listening",
			},
		},
		Action: r.Serve,
	}
}

// setupCommand handles setup operations for the configuration file and database.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Setup and configuration commands",
		Commands: []*cli.Command{
			{
				Name:   "database",
				Usage:  "Write a default config if missing and create the compositions table",
				Flags:  []cli.Flag{configFlag()},
				Action: r.SetupDatabase,
			},
		},
	}
}

// compositionsCommand handles composition operations against the configured store.
func compositionsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "compositions",
		Aliases: []string{"comp"},
		Usage:   "Manage stored compositions",
		Commands: []*cli.Command{
			{
				Name:  "save",
				Usage: "Save a composition (upsert by code, or insert under sequential ids)",
				Flags: []cli.Flag{
					configFlag(),
					&cli.StringFlag{
						Name:  "id",
						Usage: "Composition code; ignored under sequential ids",
					},
					&cli.StringFlag{
						Name:     "name",
						Aliases:  []string{"n"},
						Usage:    "Composition name",
						Required: true,
					},
					&cli.StringFlag{
						Name:    "tracks",
						Aliases: []string{"t"},
						Usage:   "Serialized tracks payload",
					},
					&cli.StringFlag{
						Name:  "tracks-file",
						Usage: "Path to a file containing the tracks payload",
					},
				},
				Action: r.CompositionSave,
			},
			{
				Name:  "get",
				Usage: "Show a composition",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Flags: []cli.Flag{
					configFlag(),
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Export the composition to a JSON file",
					},
				},
				Action: r.CompositionGet,
			},
			{
				Name:    "list",
				Aliases: []string{"ls"},
				Usage:   "List compositions, newest first",
				Flags: []cli.Flag{
					configFlag(),
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Usage:   "Output format: table, csv, json",
						Value:   "table",
					},
				},
				Action: r.CompositionList,
			},
			{
				Name:    "delete",
				Aliases: []string{"rm"},
				Usage:   "Delete a composition",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Flags:  []cli.Flag{configFlag()},
				Action: r.CompositionDelete,
			},
		},
	}
}
