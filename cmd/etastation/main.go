package main

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/travigo/etastation/pkg/api"
	"github.com/travigo/etastation/pkg/board"
	"github.com/travigo/etastation/pkg/config"
	"github.com/urfave/cli/v2"

	_ "time/tzdata"
)

func main() {
	if os.Getenv("ETASTATION_LOG_FORMAT") != "JSON" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}

	if os.Getenv("ETASTATION_DEBUG") == "YES" {
		log.Logger = log.Logger.Level(zerolog.DebugLevel)
	} else {
		log.Logger = log.Logger.Level(zerolog.InfoLevel)
	}

	app := &cli.App{
		Name:        "etastation",
		Description: "Live arrival board for Hong Kong buses, light rail and MTR",

		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "config",
				Value: config.DefaultPath,
				Usage: "path to the settings file",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "override the log level (debug, info, warn, error)",
			},
		},

		Before: func(c *cli.Context) error {
			if c.String("log-level") == "" {
				return nil
			}

			level, err := zerolog.ParseLevel(c.String("log-level"))
			if err != nil {
				return err
			}
			log.Logger = log.Logger.Level(level)

			return nil
		},

		Commands: []*cli.Command{
			board.RegisterCLI(),
			api.RegisterCLI(),
			registerMetadataCLI(),
			registerOperatorsCLI(),
			registerEntriesCLI(),
		},
	}

	err := app.Run(os.Args)
	if err != nil {
		log.Fatal().Err(err).Send()
	}
}
