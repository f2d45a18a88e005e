// Command ledger is an operator utility for the processed-match ledger.
// The monitoring loop only ever appends to the ledger; clearing records to
// force re-notification is an explicit operator action done here.
package main

import (
	"fmt"
	"log"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/chicken-dinner-club/pubg-tracker/config"
	"github.com/chicken-dinner-club/pubg-tracker/internal/storage"
)

func main() {
	cliApp := &cli.App{
		Name:  "ledger",
		Usage: "inspect and maintain the processed-match ledger",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "config",
				Value: "config.yaml",
				Usage: "path to the configuration file",
			},
		},
		Commands: []*cli.Command{
			{
				Name:  "processed",
				Usage: "processed-match records",
				Subcommands: []*cli.Command{
					{
						Name:  "list",
						Usage: "list recently processed matches, newest first",
						Flags: []cli.Flag{
							&cli.IntFlag{
								Name:  "limit",
								Value: 100,
								Usage: "maximum records to print",
							},
						},
						Action: listProcessed,
					},
					{
						Name:  "clear",
						Usage: "delete processed records so matches are re-notified",
						Flags: []cli.Flag{
							&cli.StringFlag{
								Name:  "match",
								Usage: "clear a single match id instead of everything",
							},
						},
						Action: clearProcessed,
					},
				},
			},
		},
	}

	if err := cliApp.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func openLedger(c *cli.Context) (*storage.DBService, error) {
	cfg, err := config.LoadConfig(c.String("config"))
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return storage.NewDBService(c.Context, cfg.Postgres.DSN)
}

func listProcessed(c *cli.Context) error {
	svc, err := openLedger(c)
	if err != nil {
		return err
	}
	defer svc.Close()

	records, err := svc.Ledger.ListProcessed(c.Context, c.Int("limit"))
	if err != nil {
		return err
	}

	if len(records) == 0 {
		fmt.Println("no processed matches recorded")
		return nil
	}
	for _, r := range records {
		fmt.Printf("%s\t%s\n", r.ProcessedAt.Format("2006-01-02 15:04:05"), r.MatchID)
	}
	fmt.Printf("%d record(s)\n", len(records))
	return nil
}

func clearProcessed(c *cli.Context) error {
	svc, err := openLedger(c)
	if err != nil {
		return err
	}
	defer svc.Close()

	if matchID := c.String("match"); matchID != "" {
		deleted, err := svc.Ledger.DeleteProcessed(c.Context, matchID)
		if err != nil {
			return err
		}
		if !deleted {
			fmt.Printf("no record for match %s\n", matchID)
			return nil
		}
		fmt.Printf("cleared match %s\n", matchID)
		return nil
	}

	deleted, err := svc.Ledger.ClearProcessed(c.Context)
	if err != nil {
		return err
	}
	fmt.Printf("cleared %d record(s)\n", deleted)
	return nil
}
