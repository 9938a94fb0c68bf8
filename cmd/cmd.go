// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

func jsonFlags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:  "json",
			Usage: "Output raw JSON",
		},
		&cli.BoolFlag{
			Name:  "pretty",
			Usage: "Pretty-print output",
			Value: true,
		},
	}
}

// profileFlags are the onboarding form fields, shared by onboard and edit.
func profileFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "name", Usage: "Name of the elder"},
		&cli.StringFlag{Name: "age", Usage: "Age in years"},
		&cli.StringFlag{Name: "interests", Usage: "Comma separated interests"},
		&cli.StringFlag{Name: "mobility", Usage: "excelente, buena, limitada or reducida"},
		&cli.StringFlag{Name: "schedule", Usage: "Preferred schedule"},
		&cli.StringFlag{Name: "preferences", Usage: "Other preferences"},
		&cli.StringFlag{Name: "frequency", Usage: "Update frequency: weekly, biweekly or monthly"},
		&cli.StringFlag{Name: "location", Usage: "Neighbourhood or city"},
	}
}

// serveCommand runs the HTTP server.
func serveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Serve the proxy, AI and device routes over HTTP",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "addr",
				Usage: "Listen address (default: server.host:server.port)",
			},
			&cli.BoolFlag{
				Name:  "refresh",
				Usage: "Regenerate due plans on the configured schedule",
			},
		},
		Action: r.Serve,
	}
}

// setupCommand handles setup operations for the database.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Setup and configuration commands",
		Commands: []*cli.Command{
			{
				Name:   "database",
				Usage:  "Create the config file if needed, initialize the database and run migrations",
				Action: r.SetupDatabase,
			},
			{
				Name:   "migrations",
				Usage:  "Show applied and pending migrations",
				Action: r.SetupMigrations,
			},
			{
				Name:   "rollback",
				Usage:  "Roll back the latest migration",
				Action: r.SetupRollback,
			},
		},
	}
}

// authCommand handles the local session of the device.
func authCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Local session: login, role and profile selection",
		Commands: []*cli.Command{
			{
				Name:  "login",
				Usage: "Log the device in (any non-empty credentials are accepted)",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "email", Aliases: []string{"e"}, Required: true},
					&cli.StringFlag{Name: "password", Aliases: []string{"p"}, Required: true},
					&cli.BoolFlag{Name: "remember", Usage: "Remember on this device"},
				},
				Action: r.AuthLogin,
			},
			{
				Name:   "logout",
				Usage:  "Clear the session of the device",
				Action: r.AuthLogout,
			},
			{
				Name:      "role",
				Usage:     "Choose familiar (caregiver) or hogar (simplified mode)",
				Arguments: []cli.Argument{&cli.StringArg{Name: "role"}},
				Action:    r.AuthRole,
			},
			{
				Name:   "profiles",
				Usage:  "List the profiles a caregiver can pick",
				Flags:  jsonFlags(),
				Action: r.AuthProfiles,
			},
			{
				Name:      "select",
				Usage:     "Pick a profile by id",
				Arguments: []cli.Argument{&cli.StringArg{Name: "id"}},
				Action:    r.AuthSelect,
			},
			{
				Name:   "status",
				Usage:  "Show the session state and backend health",
				Flags:  jsonFlags(),
				Action: r.AuthStatus,
			},
			{
				Name:      "redirect",
				Usage:     "Show where the route guard sends a path",
				Arguments: []cli.Argument{&cli.StringArg{Name: "path"}},
				Action:    r.AuthRedirect,
			},
		},
	}
}

// profileCommand handles the elder profile.
func profileCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "profile",
		Usage: "Elder profile operations",
		Commands: []*cli.Command{
			{
				Name:  "onboard",
				Usage: "Run the onboarding wizard, register the elder and generate the first plan",
				Flags: append(profileFlags(),
					&cli.StringFlag{
						Name:  "variant",
						Usage: "Wizard variant: direct or register",
						Value: "direct",
					},
				),
				Action: r.ProfileOnboard,
			},
			{
				Name:   "show",
				Usage:  "Show the stored profile",
				Flags:  jsonFlags(),
				Action: r.ProfileShow,
			},
			{
				Name:   "edit",
				Usage:  "Change profile fields; derived suggestions and events are cleared",
				Flags:  profileFlags(),
				Action: r.ProfileEdit,
			},
			{
				Name:   "delete",
				Usage:  "Delete the profile with its plan and feedback",
				Action: r.ProfileDelete,
			},
			{
				Name:  "interests",
				Usage: "List, add or remove interests",
				Flags: []cli.Flag{
					&cli.StringSliceFlag{Name: "add", Usage: "Interest to add"},
					&cli.StringSliceFlag{Name: "remove", Usage: "Interest to remove"},
					&cli.BoolFlag{Name: "regenerate", Usage: "Regenerate the plan for the new interests"},
				},
				Action: r.ProfileInterests,
			},
		},
	}
}

// contentCommand handles the generated plan and the discovery surfaces.
func contentCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "content",
		Usage: "Generated plan, discovery and events",
		Commands: []*cli.Command{
			{
				Name:   "generate",
				Usage:  "Build the plan from the backend, falling back to local suggestions",
				Flags:  jsonFlags(),
				Action: r.ContentGenerate,
			},
			{
				Name:  "regenerate",
				Usage: "Rebuild the plan for the stored profile",
				Flags: append(jsonFlags(),
					&cli.BoolFlag{Name: "new-interests", Usage: "Interests changed; clear feedback for the old plan"},
				),
				Action: r.ContentRegenerate,
			},
			{
				Name:  "trigger",
				Usage: "Ask the backend to generate YouTube and Spotify links for the elder",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "credencial", Usage: "Credential id (default: stored or configured id)"},
				},
				Action: r.ContentTrigger,
			},
			{
				Name:   "list",
				Usage:  "Show the stored plan",
				Flags:  jsonFlags(),
				Action: r.ContentList,
			},
			{
				Name:  "remove",
				Usage: "Remove one item from the plan",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "bucket"},
					&cli.IntArg{Name: "index"},
				},
				Action: r.ContentRemove,
			},
			{
				Name:  "discover",
				Usage: "Suggest new content for the profile",
				Flags: append(jsonFlags(),
					&cli.StringFlag{Name: "query", Aliases: []string{"q"}, Usage: "Search query"},
					&cli.StringFlag{Name: "type", Usage: "Filter: todos, podcast, video, music or audiobook", Value: "todos"},
					&cli.BoolFlag{Name: "stored", Usage: "Show the stored suggestions without generating"},
				),
				Action: r.ContentDiscover,
			},
			{
				Name:  "events",
				Usage: "Suggest events near the elder",
				Flags: append(jsonFlags(),
					&cli.StringFlag{Name: "location", Aliases: []string{"l"}, Usage: "Location (default: profile location)"},
					&cli.StringFlag{Name: "type", Usage: "Filter: todos, bingo, taller, misa, social or ejercicio", Value: "todos"},
					&cli.BoolFlag{Name: "stored", Usage: "Show the stored events without generating"},
				),
				Action: r.ContentEvents,
			},
			{
				Name:  "export",
				Usage: "Export stored plans to disk",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Usage:   "Export format: json, csv, markdown, txt",
						Value:   "json",
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output directory (default: grand_export_{timestamp})",
					},
					&cli.StringSliceFlag{
						Name:  "devices",
						Usage: "Devices to export (default: this device)",
					},
					&cli.BoolFlag{
						Name:  "all",
						Usage: "Export every known device",
					},
					&cli.IntFlag{
						Name:  "workers",
						Usage: "Number of concurrent workers",
						Value: 5,
					},
					&cli.BoolFlag{
						Name:  "art",
						Usage: "Download a cover image (markdown only)",
					},
				},
				Action: r.ContentExport,
			},
		},
	}
}

// activityCommand shows the weekly activity of the plan.
func activityCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "activity",
		Usage: "Show the weekly activity and KPIs",
		Flags: append(jsonFlags(),
			&cli.StringFlag{Name: "filter", Usage: "todos, videos, podcasts or eventos", Value: "todos"},
			&cli.IntFlag{Name: "weeks-back", Usage: "Show an earlier week"},
		),
		Action: r.Activity,
	}
}

// feedbackCommand records plays and likes.
func feedbackCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "feedback",
		Usage: "Content feedback",
		Commands: []*cli.Command{
			{
				Name:      "mark",
				Usage:     "Mark an item viewed, optionally liked or disliked",
				Arguments: []cli.Argument{&cli.StringArg{Name: "key"}},
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "like"},
					&cli.BoolFlag{Name: "dislike"},
				},
				Action: r.FeedbackMark,
			},
			{
				Name:   "list",
				Usage:  "Show recorded feedback",
				Flags:  jsonFlags(),
				Action: r.FeedbackList,
			},
		},
	}
}

// hogarCommand launches the simplified mode.
func hogarCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "hogar",
		Usage:  "Simplified mode for the elder (terminal UI)",
		Action: r.Hogar,
	}
}

// backendCommand handles direct backend calls
func backendCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "backend",
		Usage: "Direct calls to the content backend",
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
						Usage: "Output compact JSON",
						Value: true,
					},
				},
				Action: r.BackendGet,
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
						Name:    "data",
						Aliases: []string{"d"},
						Usage:   "JSON body to send",
						Value:   "{}",
					},
				},
				Action: r.BackendPost,
			},
		},
	}
}

// refreshCommand regenerates due plans once.
func refreshCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "refresh",
		Usage:  "Regenerate the plans whose update frequency has elapsed",
		Action: r.Refresh,
	}
}
