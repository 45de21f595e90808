package main

import (
	"errors"
	"log/slog"
	"os"
	"strings"

	"github.com/urfave/cli"

	"github.com/valerio/go-dotmatrix/dotmatrix"
	"github.com/valerio/go-dotmatrix/dotmatrix/monitor"
)

func main() {
	app := cli.NewApp()
	app.Name = "dotmatrix"
	app.Description = "A DMG Game Boy emulator core"
	app.Usage = "dotmatrix [options] <ROM file>"
	app.Version = "1.0.0"
	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:  "rom",
			Usage: "Path to the ROM file",
		},
		cli.BoolFlag{
			Name:  "headless",
			Usage: "Run without any interface, for test ROMs",
		},
		cli.IntFlag{
			Name:  "frames",
			Usage: "Number of frames to run in headless mode",
			Value: 0,
		},
		cli.Uint64Flag{
			Name:  "cycles",
			Usage: "T-cycle budget for headless mode (overrides --frames)",
			Value: 0,
		},
		cli.BoolFlag{
			Name:  "monitor",
			Usage: "Run with the terminal state monitor",
		},
		cli.StringFlag{
			Name:  "save",
			Usage: "Path for the battery RAM image (default: ROM path with a .gb suffix replaced by .sav)",
		},
		cli.BoolFlag{
			Name:  "verbose",
			Usage: "Enable debug logging",
		},
	}
	app.Action = runEmulator

	if err := app.Run(os.Args); err != nil {
		slog.Error("Error running emulator", "error", err)
		os.Exit(1)
	}
}

func runEmulator(c *cli.Context) error {
	if c.Bool("verbose") {
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})))
	}

	romPath := c.String("rom")
	if romPath == "" {
		if c.NArg() > 0 {
			romPath = c.Args().Get(0)
		} else {
			cli.ShowAppHelp(c)
			return errors.New("no ROM path provided")
		}
	}

	emu, err := dotmatrix.NewWithFile(romPath)
	if err != nil {
		return err
	}

	savePath := c.String("save")
	if savePath == "" {
		savePath = strings.TrimSuffix(romPath, ".gb") + ".sav"
	}
	if err := emu.LoadBatteryRAM(savePath); err != nil {
		slog.Warn("Could not load battery RAM", "path", savePath, "error", err)
	}

	defer func() {
		if err := emu.SaveBatteryRAM(savePath); err != nil {
			slog.Warn("Could not save battery RAM", "path", savePath, "error", err)
		}
	}()

	if c.Bool("headless") {
		return runHeadless(c, emu)
	}

	return monitor.New(emu).Run()
}

func runHeadless(c *cli.Context, emu *dotmatrix.Emulator) error {
	if budget := c.Uint64("cycles"); budget > 0 {
		emu.RunCycles(budget)
	} else {
		frames := c.Int("frames")
		if frames <= 0 {
			return errors.New("headless mode requires --frames or --cycles with a positive value")
		}
		for i := 0; i < frames; i++ {
			emu.RunFrame()
			if (i+1)%60 == 0 {
				slog.Info("Frame progress", "completed", i+1, "total", frames)
			}
		}
	}

	for _, line := range emu.SerialTail() {
		slog.Info("serial output", "line", line)
	}
	slog.Info("Headless run complete", "cycles", emu.TotalCycles())
	return nil
}
