package board

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/travigo/etastation/pkg/config"
	"github.com/travigo/etastation/pkg/operators/global"
	"github.com/urfave/cli/v2"
)

func RegisterCLI() *cli.Command {
	return &cli.Command{
		Name:  "board",
		Usage: "Resolve every configured entry and print the board",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "json",
				Usage: "print the rows as JSON",
			},
			&cli.DurationFlag{
				Name:  "interval",
				Usage: "repeat the pass on this interval",
			},
			&cli.IntFlag{
				Name:  "cycles",
				Value: 1,
				Usage: "number of passes to run, 0 runs until interrupted",
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

			departureBoard := NewBoard(registry, cfg.Entries, cfg.Display.Slots, log.Logger)

			interval := c.Duration("interval")
			cycles := c.Int("cycles")
			if interval == 0 {
				cycles = 1
			}

			for cycle := 0; cycles == 0 || cycle < cycles; cycle++ {
				if cycle > 0 {
					select {
					case <-c.Context.Done():
						return nil
					case <-time.After(interval):
					}
				}

				rows := departureBoard.Refresh(c.Context)

				if c.Bool("json") {
					err = WriteJSON(os.Stdout, rows)
				} else {
					err = WriteText(os.Stdout, rows)
				}
				if err != nil {
					return err
				}
			}

			return nil
		},
	}
}

func WriteJSON(w io.Writer, rows []Row) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(rows)
}

// WriteText prints one line per row in the same order the panel draws it
func WriteText(w io.Writer, rows []Row) error {
	for _, row := range rows {
		columns := []string{row.Route, row.Destination, row.StopName}
		for _, slot := range row.Lines {
			columns = append(columns, strings.TrimSpace(fmt.Sprintf("%s %s %s", slot.Minutes, slot.Clock, slot.Remark)))
		}

		if _, err := fmt.Fprintln(w, strings.Join(columns, " | ")); err != nil {
			return err
		}
	}
	return nil
}
