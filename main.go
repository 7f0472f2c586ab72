package main

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/okra-platform/tagstream/internal/commands"
)

var (
	// Build information. Populated at build-time via -ldflags flag.
	version = "dev"
	commit  = "HEAD"
	date    = "now"
)

func build() string {
	short := commit
	if len(commit) > 7 {
		short = commit[:7]
	}

	return fmt.Sprintf("%s (%s) %s", version, short, date)
}

// shapeFlags select the shape a command works on
func shapeFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "shape",
			Aliases: []string{"s"},
			Usage:   "built-in shape name (see tagstream shapes)",
		},
		&cli.StringFlag{
			Name:  "sample",
			Usage: "only use the named sample of a built-in shape",
		},
		&cli.StringFlag{
			Name:  "schema",
			Usage: "GraphQL schema declaring the shape, instead of tagstream.json",
		},
		&cli.StringFlag{
			Name:  "root",
			Usage: "root shape of the schema",
		},
		&cli.StringFlag{
			Name:  "data",
			Usage: "JSON or YAML document the schema shape iterates",
		},
		&cli.StringFlag{
			Name:    "format",
			Aliases: []string{"f"},
			Usage:   "output format (json, yaml, protojson, protobuf, trace)",
		},
	}
}

// bind copies the parsed flag values into the controller flags
func bind(flags *commands.Flags, c *cli.Command) {
	flags.Shape = c.String("shape")
	flags.Sample = c.String("sample")
	flags.Schema = c.String("schema")
	flags.Root = c.String("root")
	flags.Data = c.String("data")
	flags.Format = c.String("format")
	flags.Select = c.String("select")
	flags.Lang = c.String("lang")
	flags.Package = c.String("package")
	flags.Out = c.String("out")
}

func main() {
	ctrl := &commands.Controller{
		Flags: &commands.Flags{},
	}

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	action := func(run func(context.Context) error) cli.ActionFunc {
		return func(ctx context.Context, c *cli.Command) error {
			bind(ctrl.Flags, c)
			return run(ctx)
		}
	}

	app := &cli.Command{
		Name:    "tagstream",
		Usage:   `Table-driven cursors that stream nested records as open, index, value and close events.`,
		Version: build(),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "log level (debug, info, warn, error, fatal, panic)",
				Sources: cli.EnvVars("TAGSTREAM_LOG_LEVEL"),
				Value:   "info",
			},
		},
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			level, err := zerolog.ParseLevel(c.String("log-level"))
			if err != nil {
				return ctx, fmt.Errorf("failed to parse log level: %w", err)
			}

			log.Logger = log.Level(level)
			ctrl.Flags.LogLevel = level.String()

			return ctx, nil
		},
		Commands: []*cli.Command{
			{
				Name:  "init",
				Usage: "Create a new tagstream project with a sample schema and document",
				Action: func(ctx context.Context, c *cli.Command) error {
					return ctrl.Init(ctx)
				},
			},
			{
				Name:   "shapes",
				Usage:  "List the built-in shapes and their samples",
				Action: action(ctrl.Shapes),
			},
			{
				Name:   "table",
				Usage:  "Print the compiled transition table of a shape",
				Flags:  shapeFlags(),
				Action: action(ctrl.Table),
			},
			{
				Name:  "dump",
				Usage: "Drain the samples of a shape into JSON, YAML or protobuf",
				Flags: append(shapeFlags(), &cli.StringFlag{
					Name:  "select",
					Usage: "JSONPath query applied to the drained document",
				}),
				Action: action(ctrl.Dump),
			},
			{
				Name:   "check",
				Usage:  "Verify the stream properties of every shape and sample",
				Flags:  shapeFlags(),
				Action: action(ctrl.Check),
			},
			{
				Name:   "step",
				Usage:  "Step through the event stream of a shape interactively",
				Flags:  shapeFlags(),
				Action: action(ctrl.Step),
			},
			{
				Name:  "gen",
				Usage: "Generate Go shapes, proto messages or TypeScript types from the schema",
				Flags: append(shapeFlags()[2:3],
					&cli.StringFlag{
						Name:  "lang",
						Usage: "target language (go, proto, typescript)",
						Value: "go",
					},
					&cli.StringFlag{
						Name:  "package",
						Usage: "package, proto package or namespace of the generated code",
					},
					&cli.StringFlag{
						Name:    "out",
						Aliases: []string{"o"},
						Usage:   "output file, stdout when empty",
					},
				),
				Action: action(ctrl.Gen),
			},
			{
				Name:   "watch",
				Usage:  "Re-check and re-drain the project shape whenever its files change",
				Flags:  shapeFlags()[3:],
				Action: action(ctrl.Watch),
			},
		},
	}

	ctx := context.Background()

	if err := app.Run(ctx, os.Args); err != nil {
		log.Fatal().Err(err).Msg("failed to run tagstream")
	}
}
