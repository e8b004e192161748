// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

// setupCommand handles setup operations for the database and configuration.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Setup and configuration commands",
		Commands: []*cli.Command{
			{
				Name:  "database",
				Usage: "Initialize database and run migrations",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "config",
						Aliases: []string{"c"},
						Usage:   "Path to configuration file",
						Value:   "config.toml",
					},
				},
				Action: r.SetupDatabase,
			},
		},
	}
}

// uploadCommand starts a new session from a document.
func uploadCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "upload",
		Usage: "Upload a document and start a new study session",
		Arguments: []cli.Argument{
			&cli.StringArg{
				Name: "path",
			},
		},
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output extracted metadata as JSON",
			},
		},
		Action: r.Upload,
	}
}

// configureCommand records the study configuration for the active session.
func configureCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "configure",
		Aliases: []string{"config"},
		Usage:   "Choose study mode, difficulty and flashcard count",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "session",
				Usage: "Session ID (defaults to the most recent session)",
			},
			&cli.StringFlag{
				Name:    "mode",
				Aliases: []string{"m"},
				Usage:   "Study mode (complete_package, flashcards_only, summary_only)",
				Value:   "complete_package",
			},
			&cli.StringFlag{
				Name:    "difficulty",
				Aliases: []string{"d"},
				Usage:   "Difficulty focus (easy, medium, hard, mixed)",
				Value:   "mixed",
			},
			&cli.IntFlag{
				Name:    "cards",
				Aliases: []string{"n"},
				Usage:   "Number of flashcards to generate",
				Value:   10,
			},
		},
		Action: r.Configure,
	}
}

// processCommand runs the generation pipeline for the active session.
func processCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "process",
		Usage: "Generate summary and flashcards for the active session",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "session",
				Usage: "Session ID (defaults to the most recent session)",
			},
		},
		Action: r.Process,
	}
}

// sessionCommand inspects and manages persisted sessions.
func sessionCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "session",
		Aliases: []string{"sess"},
		Usage:   "Manage study sessions",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List saved sessions",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.SessionList,
			},
			{
				Name:  "show",
				Usage: "Show a session's stage, configuration and study stats",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "id",
						Usage: "Session ID (defaults to the most recent session)",
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.SessionShow,
			},
			{
				Name:  "resume",
				Usage: "Reopen a session in the wizard at its saved stage",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "id",
						Usage: "Session ID (defaults to the most recent session)",
					},
				},
				Action: r.SessionResume,
			},
			{
				Name:  "reset",
				Usage: "Delete a session and its flashcards, starting fresh",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "id",
						Usage: "Session ID (defaults to the most recent session)",
					},
				},
				Action: r.SessionReset,
			},
		},
	}
}

// exportCommand writes generated study materials to files.
func exportCommand(r *Runner) *cli.Command {
	formatFlag := &cli.StringFlag{
		Name:    "format",
		Aliases: []string{"f"},
		Usage:   "Output format (text, markdown)",
		Value:   "text",
	}
	outputFlag := &cli.StringFlag{
		Name:    "output",
		Aliases: []string{"o"},
		Usage:   "Output file path (defaults to stdout)",
	}
	sessionFlag := &cli.StringFlag{
		Name:  "session",
		Usage: "Session ID (defaults to the most recent session)",
	}

	return &cli.Command{
		Name:  "export",
		Usage: "Export generated study materials",
		Commands: []*cli.Command{
			{
				Name:   "summary",
				Usage:  "Export the generated summary",
				Flags:  []cli.Flag{sessionFlag, formatFlag, outputFlag},
				Action: r.ExportSummary,
			},
			{
				Name:   "flashcards",
				Usage:  "Export the generated flashcards",
				Flags:  []cli.Flag{sessionFlag, formatFlag, outputFlag},
				Action: r.ExportFlashcards,
			},
			{
				Name:   "json",
				Usage:  "Export the full processing results as JSON",
				Flags:  []cli.Flag{sessionFlag, outputFlag},
				Action: r.ExportJSON,
			},
		},
	}
}

// apiCommand handles direct calls to the processing backend
func apiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "api",
		Usage: "Direct API calls to the Scribbly backend",
		Commands: []*cli.Command{
			{
				Name:  "get",
				Usage: "Direct GET to the backend, prints raw JSON",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "path",
					},
				},
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
						Value: true,
					},
				},
				Action: r.APIGet,
			},
			{
				Name:  "post",
				Usage: "Direct POST with JSON body",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "path",
					},
				},
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "data",
						Aliases:  []string{"d"},
						Usage:    "JSON body to send",
						Required: true,
					},
				},
				Action: r.APIPost,
			},
			{
				Name:   "health",
				Usage:  "Check backend and AI service availability",
				Action: r.APIHealth,
			},
		},
	}
}

// tuiCommand returns the top-level TUI command for the interactive wizard.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "study",
		Aliases: []string{"tui", "interactive"},
		Usage:   "Launch the interactive study wizard",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "session",
				Usage: "Resume a specific session by ID",
			},
			&cli.BoolFlag{
				Name:  "new",
				Usage: "Start a fresh session instead of resuming",
			},
		},
		Action: r.TUI,
	}
}
