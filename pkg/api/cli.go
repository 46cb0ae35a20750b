package api

import (
	"github.com/rs/zerolog/log"
	"github.com/travigo/etastation/pkg/board"
	"github.com/travigo/etastation/pkg/config"
	"github.com/travigo/etastation/pkg/operators/global"
	"github.com/urfave/cli/v2"
)

func RegisterCLI() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Provides the headless web API over the board and metadata",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "listen",
				Value: ":8080",
				Usage: "listen target for the web server",
			},
		},
		Action: func(c *cli.Context) error {
			cfg, err := config.Load(c.String("config"))
			if err != nil {
				return err
			}

			registry, err := global.Setup(c.Context, cfg, log.Logger)
			if err != nil {
				return err
			}

			departureBoard := board.NewBoard(registry, cfg.Entries, cfg.Display.Slots, log.Logger)

			return SetupServer(c.String("listen"), registry, departureBoard, log.Logger)
		},
	}
}
