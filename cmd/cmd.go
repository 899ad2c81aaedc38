// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Initialize config file, database, and migrations",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
				Value:   "config.toml",
			},
		},
		Action: r.SetupDatabase,
	}
}

// courseCommand handles course library operations
func courseCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "course",
		Usage: "Course library operations",
		Commands: []*cli.Command{
			{
				Name:  "add",
				Usage: "Ingest a playlist URL as a new course",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "url",
					},
				},
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output the assembled course as JSON",
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
					},
				},
				Action: r.CourseAdd,
			},
			{
				Name:  "list",
				Usage: "List courses in the library",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
					},
				},
				Action: r.CourseList,
			},
			{
				Name:  "show",
				Usage: "Show a course with per-video progress",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "id",
					},
				},
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
					},
				},
				Action: r.CourseShow,
			},
			{
				Name:  "select",
				Usage: "Set the current video of a course",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "id",
					},
				},
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:     "video",
						Aliases:  []string{"n"},
						Usage:    "1-based video number",
						Required: true,
					},
				},
				Action: r.CourseSelect,
			},
			{
				Name:  "toggle",
				Usage: "Toggle a video's completed flag",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "id",
					},
				},
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:     "video",
						Aliases:  []string{"n"},
						Usage:    "1-based video number",
						Required: true,
					},
				},
				Action: r.CourseToggle,
			},
			{
				Name:  "delete",
				Usage: "Remove a course and its progress",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "id",
					},
				},
				Action: r.CourseDelete,
			},
			{
				Name:  "note",
				Usage: "Show or set the note for a video",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "id",
					},
				},
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:     "video",
						Aliases:  []string{"n"},
						Usage:    "1-based video number",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "set",
						Usage: "Note text to save (empty with --clear to delete)",
					},
					&cli.BoolFlag{
						Name:  "clear",
						Usage: "Delete the note",
					},
				},
				Action: r.CourseNote,
			},
			{
				Name:  "export",
				Usage: "Export a course to csv, markdown, or txt",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "id",
					},
				},
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Usage:   "Export format (csv, markdown, txt)",
						Value:   "csv",
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output file path",
					},
				},
				Action: r.CourseExport,
			},
		},
	}
}

func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "tui",
		Usage:  "Launch the interactive course player",
		Action: r.TUI,
	}
}
