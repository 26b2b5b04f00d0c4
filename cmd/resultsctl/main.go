// Command resultsctl ranks and exports results from a tournament snapshot
// file without a running server.
package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/urfave/cli/v2"

	"github.com/Dosada05/stacking-tournament/export"
	"github.com/Dosada05/stacking-tournament/models"
	"github.com/Dosada05/stacking-tournament/results"
	"github.com/Dosada05/stacking-tournament/snapshot"
)

func main() {
	if err := newApp(os.Stdout).Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp(out io.Writer) *cli.App {
	snapshotFlag := &cli.StringFlag{Name: "snapshot", Aliases: []string{"s"}, Usage: "path to the snapshot YAML file", Required: true}
	eventFlag := &cli.StringFlag{Name: "event", Aliases: []string{"e"}, Usage: "event id", Required: true}

	return &cli.App{
		Name:      "resultsctl",
		Usage:     "rank and export sport-stacking results from a snapshot",
		Writer:    out,
		ErrWriter: out,
		Commands: []*cli.Command{
			{
				Name:  "leaderboard",
				Usage: "print the ranked leaderboard of a bracket, or of every bracket",
				Flags: []cli.Flag{
					snapshotFlag,
					eventFlag,
					&cli.StringFlag{Name: "bracket", Aliases: []string{"b"}, Usage: "age bracket id; all brackets when empty"},
					&cli.StringFlag{Name: "classification", Usage: "beginner, intermediate or advance"},
					&cli.StringFlag{Name: "round", Usage: "prelim or final"},
				},
				Action: func(c *cli.Context) error {
					snap, err := snapshot.Load(c.String("snapshot"))
					if err != nil {
						return err
					}
					opts := results.Options{
						Classification: models.Classification(strings.ToLower(c.String("classification"))),
						Round:          models.Round(strings.ToLower(c.String("round"))),
					}

					if bracketID := c.String("bracket"); bracketID != "" {
						event, bracket, err := snap.Bracket(c.String("event"), bracketID)
						if err != nil {
							return err
						}
						printBoard(out, event, results.Board{Bracket: bracket, Rows: results.Aggregate(event, bracket, snap.Context(), opts)})
						return nil
					}

					event, err := snap.Event(c.String("event"))
					if err != nil {
						return err
					}
					for i, board := range results.AggregateEvent(event, snap.Context(), opts) {
						if i > 0 {
							fmt.Fprintln(out)
						}
						printBoard(out, event, board)
					}
					return nil
				},
			},
			{
				Name:  "finalists",
				Usage: "print who advances from a bracket into the final round",
				Flags: []cli.Flag{
					snapshotFlag,
					eventFlag,
					&cli.StringFlag{Name: "bracket", Aliases: []string{"b"}, Usage: "age bracket id", Required: true},
					&cli.StringFlag{Name: "round", Usage: "round the qualification is ranked on; prelim when the event has prelim records, otherwise all records"},
				},
				Action: func(c *cli.Context) error {
					snap, err := snapshot.Load(c.String("snapshot"))
					if err != nil {
						return err
					}
					event, bracket, err := snap.Bracket(c.String("event"), c.String("bracket"))
					if err != nil {
						return err
					}
					round := models.Round(strings.ToLower(c.String("round")))
					if !c.IsSet("round") {
						round = results.QualifyingRound(event.ID, snap.Records)
					}
					rows := results.Aggregate(event, bracket, snap.Context(), results.Options{Round: round})

					tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
					fmt.Fprintln(tw, "Rank\tName\tClassification\tTotal")
					for _, f := range results.SelectFinalists(rows, bracket.FinalCriteria) {
						fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", f.Row.Rank, f.Row.Name, f.Classification, f.Row.BestTime)
					}
					return tw.Flush()
				},
			},
			{
				Name:  "export",
				Usage: "write the event results sheet as xlsx or pdf",
				Flags: []cli.Flag{
					snapshotFlag,
					eventFlag,
					&cli.StringFlag{Name: "format", Aliases: []string{"f"}, Value: string(export.FormatXLSX), Usage: "xlsx or pdf"},
					&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Usage: "output file", Required: true},
				},
				Action: func(c *cli.Context) error {
					format, err := export.ParseFormat(c.String("format"))
					if err != nil {
						return err
					}
					snap, err := snapshot.Load(c.String("snapshot"))
					if err != nil {
						return err
					}
					event, err := snap.Event(c.String("event"))
					if err != nil {
						return err
					}
					sheet := export.NewSheet(snap.Tournament, event, results.AggregateEvent(event, snap.Context(), results.Options{}))

					f, err := os.Create(c.String("out"))
					if err != nil {
						return fmt.Errorf("failed to create %s: %w", c.String("out"), err)
					}
					if err := export.Render(f, format, sheet); err != nil {
						f.Close()
						return err
					}
					if err := f.Close(); err != nil {
						return err
					}
					fmt.Fprintf(out, "wrote %s\n", c.String("out"))
					return nil
				},
			},
		},
	}
}

func printBoard(out io.Writer, event models.Event, board results.Board) {
	fmt.Fprintf(out, "%s / %s\n", event.Type, board.Bracket.Name)

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	sheet := export.Sheet{Codes: results.DisplayCodes(event)}
	fmt.Fprintln(tw, strings.Join(sheet.Header(), "\t"))
	for _, row := range board.Rows {
		fmt.Fprintln(tw, strings.Join(sheet.Cells(row), "\t"))
	}
	_ = tw.Flush()
}
