package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"text/tabwriter"

	"github.com/eak1mov/go-libworld/config"
	"github.com/google/subcommands"
)

type inspectCmd struct {
	inputFormat string
	inputPath   string
}

func (c *inspectCmd) Name() string     { return "inspect" }
func (c *inspectCmd) Synopsis() string { return "print a summary of a world model" }
func (c *inspectCmd) Usage() string {
	return "worldgen inspect -i <path> [-if <format>]\n"
}
func (c *inspectCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.inputPath, "i", "", "Input model or project path")
	f.StringVar(&c.inputFormat, "if", "", "Input format (json, flat, sqlite)")
}

func (c *inspectCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	cfg := config.Default()
	model, err := loadAny(c.inputPath, c.inputFormat, &cfg, newLogger(false))
	if err != nil {
		log.Println(err)
		return subcommands.ExitFailure
	}

	fmt.Printf("spawn point: (%d, %d)\n\n", model.SpawnPoint.X, model.SpawnPoint.Y)

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ROOM\tPOS\tSIZE\tWALLS\tFLOORS\tROOFS\tLIGHTS\tTILES")
	for i := range model.Rooms {
		room := &model.Rooms[i]
		fmt.Fprintf(w, "%q\t(%d, %d)\t%dx%d\t%d\t%d\t%d\t%d\t%d\n",
			room.DisplayName, room.WorldPos.X, room.WorldPos.Y, room.Size.W, room.Size.H,
			len(room.Walls), len(room.Floors), len(room.Roofs), len(room.Lights), room.TileCount())
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "TILESET\tIMAGE\tTILES\tTILTED")
	for _, ts := range model.Tilesets {
		fmt.Fprintf(w, "%s\t%s\t%d\t%v\n", ts.ID, ts.SourceImagePath, len(ts.Tiles), ts.IsTilted)
	}
	if err := w.Flush(); err != nil {
		log.Println(err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
