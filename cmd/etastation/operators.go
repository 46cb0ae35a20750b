package main

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/travigo/etastation/pkg/config"
	"github.com/travigo/etastation/pkg/ctdf"
	"github.com/travigo/etastation/pkg/operators/global"
	"github.com/urfave/cli/v2"
)

func registerOperatorsCLI() *cli.Command {
	return &cli.Command{
		Name:  "operators",
		Usage: "List the registered operators",
		Action: func(c *cli.Context) error {
			cfg, err := config.Load(c.String("config"))
			if err != nil {
				return err
			}

			registry, err := global.Setup(c.Context, cfg, log.Logger)
			if err != nil {
				return err
			}

			for _, operator := range registry.List() {
				stale := ""
				if operator.Store.IsStale() {
					stale = " (stale)"
				}
				fmt.Printf("%s\t%s\t%s\t%dd%s\n", operator.Identifier, operator.PrimaryName, operator.TransportType, operator.Store.Threshold(), stale)
			}
			return nil
		},
	}
}

func registerEntriesCLI() *cli.Command {
	return &cli.Command{
		Name:  "entries",
		Usage: "Manage the configured board entries",
		Subcommands: []*cli.Command{
			{
				Name:  "list",
				Usage: "list the configured entries",
				Action: func(c *cli.Context) error {
					cfg, err := config.Load(c.String("config"))
					if err != nil {
						return err
					}

					for i, entry := range cfg.Entries {
						fmt.Printf("%d\t%s\t%s\n", i, entry.RouteKey(), entry.Stop)
					}
					return nil
				},
			},
			{
				Name:  "add",
				Usage: "append an entry to the settings file",
				Flags: []cli.Flag{
					operatorFlag,
					&cli.StringFlag{Name: "route", Required: true},
					&cli.StringFlag{Name: "direction", Value: string(ctdf.DirectionOutbound)},
					&cli.IntFlag{Name: "service-type"},
					&cli.StringFlag{Name: "stop", Required: true},
					&cli.StringFlag{Name: "lang", Value: string(ctdf.LanguageTC)},
				},
				Action: func(c *cli.Context) error {
					cfg, err := config.Load(c.String("config"))
					if err != nil {
						return err
					}

					lang, err := ctdf.ParseLanguage(c.String("lang"))
					if err != nil {
						return err
					}

					entry := ctdf.BoardEntry{
						Operator:    ctdf.OperatorID(c.String("operator")),
						Route:       c.String("route"),
						Direction:   ctdf.Direction(c.String("direction")),
						ServiceType: c.Int("service-type"),
						Stop:        c.String("stop"),
						Lang:        lang,
					}

					registry, err := global.Setup(c.Context, cfg, log.Logger)
					if err != nil {
						return err
					}
					operator, err := registry.Lookup(entry.Operator)
					if err != nil {
						return err
					}

					stopName := operator.Store.StopName(c.Context, entry.RouteKey(), entry.StopRef(), lang)
					log.Info().Str("route", entry.Route).Str("stop", stopName).Msg("Adding board entry")

					cfg.AddEntry(entry)
					return cfg.Save(c.String("config"))
				},
			},
		},
	}
}
