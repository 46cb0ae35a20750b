package main

import (
	"fmt"

	"github.com/kr/pretty"
	"github.com/rs/zerolog/log"
	"github.com/travigo/etastation/pkg/config"
	"github.com/travigo/etastation/pkg/ctdf"
	"github.com/travigo/etastation/pkg/operators"
	"github.com/travigo/etastation/pkg/operators/global"
	"github.com/urfave/cli/v2"
)

var operatorFlag = &cli.StringFlag{
	Name:     "operator",
	Usage:    "operator identifier (kmb, mtr_lrt, mtr_bus, mtr_train)",
	Required: true,
}

func lookupOperator(c *cli.Context) (*operators.Operator, error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return nil, err
	}

	registry, err := global.Setup(c.Context, cfg, log.Logger)
	if err != nil {
		return nil, err
	}

	return registry.Lookup(ctdf.OperatorID(c.String("operator")))
}

func registerMetadataCLI() *cli.Command {
	return &cli.Command{
		Name:  "metadata",
		Usage: "Inspect and rebuild the cached route metadata",
		Subcommands: []*cli.Command{
			{
				Name:  "rebuild",
				Usage: "refetch the operators bulk feed and replace its cache",
				Flags: []cli.Flag{operatorFlag},
				Action: func(c *cli.Context) error {
					operator, err := lookupOperator(c)
					if err != nil {
						return err
					}

					metadata, err := operator.Store.Rebuild(c.Context)
					if err != nil {
						return err
					}

					log.Info().Str("operator", string(operator.Identifier)).Int("routes", len(metadata)).Msg("Metadata rebuilt")
					return nil
				},
			},
			{
				Name:  "routes",
				Usage: "list the routes and their variants",
				Flags: []cli.Flag{operatorFlag},
				Action: func(c *cli.Context) error {
					operator, err := lookupOperator(c)
					if err != nil {
						return err
					}

					for _, route := range operator.Store.Routes(c.Context) {
						for _, variant := range operator.Store.Variants(c.Context, route) {
							fmt.Printf("%s\t%s\t%s -> %s\n", route, variant.Key.VariantKey(),
								variant.Origin.Get(ctdf.LanguageEN), variant.Destination.Get(ctdf.LanguageEN))
						}
					}
					return nil
				},
			},
			{
				Name:  "show",
				Usage: "dump the stops of one route variant",
				Flags: []cli.Flag{
					operatorFlag,
					&cli.StringFlag{
						Name:     "route",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "direction",
						Value: string(ctdf.DirectionOutbound),
					},
					&cli.IntFlag{
						Name: "service-type",
					},
				},
				Action: func(c *cli.Context) error {
					operator, err := lookupOperator(c)
					if err != nil {
						return err
					}

					key := ctdf.NewRouteKey(operator.Identifier, c.String("route"), ctdf.Direction(c.String("direction")), c.Int("service-type"))

					direction, exists := operator.Store.Direction(c.Context, key)
					if !exists {
						return fmt.Errorf("no metadata for %s", key)
					}

					pretty.Println(direction.Details)
					pretty.Println(operator.Store.Stops(c.Context, key))
					return nil
				},
			},
		},
	}
}
