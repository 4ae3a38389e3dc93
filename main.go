// bmp24 reads, inspects, edits and writes 24-bit uncompressed bitmaps
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/anas-shakeel/bmp24/internal/bmp"
	"github.com/anas-shakeel/bmp24/internal/pipeline"
)

const usage = `Usage: bmp24 [-v] <command> [arguments]

Commands:
  info <file.bmp>                      print header metadata and pixel checksum
  show <file.bmp>                      print the image as colored terminal blocks
  verify <file.bmp>                    cross-check decoding against golang.org/x/image/bmp
  new [-color r,g,b] <w> <h> <out.bmp> create a solid color image
  run <job.yml>                        apply the steps of a YAML job file
`

func main() {
	verbose := flag.Bool("v", false, "Enable debug logging")
	flag.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	if flag.NArg() < 1 {
		flag.Usage()
		os.Exit(2)
	}

	if err := run(flag.Arg(0), flag.Args()[1:]); err != nil {
		slog.Error("command failed", "command", flag.Arg(0), "err", err)
		os.Exit(1)
	}
}

func run(command string, args []string) error {
	switch command {
	case "info":
		if len(args) != 1 {
			return fmt.Errorf("info expects a single file")
		}
		info, err := bmp.ReadInfo(args[0])
		if err != nil {
			return err
		}
		info.Print(os.Stdout)

	case "show":
		if len(args) != 1 {
			return fmt.Errorf("show expects a single file")
		}
		img, err := bmp.LoadFile(args[0])
		if err != nil {
			return err
		}
		return img.Preview(os.Stdout)

	case "verify":
		if len(args) != 1 {
			return fmt.Errorf("verify expects a single file")
		}
		if err := bmp.Verify(args[0]); err != nil {
			return err
		}
		fmt.Printf("%s: OK\n", args[0])

	case "new":
		return newImage(args)

	case "run":
		if len(args) != 1 {
			return fmt.Errorf("run expects a single job file")
		}
		job, err := pipeline.LoadJob(args[0])
		if err != nil {
			return err
		}
		return job.Run()

	default:
		return fmt.Errorf("unknown command %q", command)
	}
	return nil
}

func newImage(args []string) error {
	fs := flag.NewFlagSet("new", flag.ContinueOnError)
	colorFlag := fs.String("color", "0,0,0", "Fill color as r,g,b")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 3 {
		return fmt.Errorf("new expects <width> <height> <out.bmp>")
	}

	width, err := strconv.Atoi(fs.Arg(0))
	if err != nil {
		return fmt.Errorf("invalid width %q: %w", fs.Arg(0), err)
	}
	height, err := strconv.Atoi(fs.Arg(1))
	if err != nil {
		return fmt.Errorf("invalid height %q: %w", fs.Arg(1), err)
	}
	fill, err := parseColor(*colorFlag)
	if err != nil {
		return err
	}

	img, err := bmp.NewImage(width, height, fill)
	if err != nil {
		return err
	}
	return bmp.SaveFile(fs.Arg(2), img)
}

// Parses "r,g,b" into a pixel
func parseColor(s string) (bmp.Pixel, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return bmp.Pixel{}, fmt.Errorf("invalid color %q: want r,g,b", s)
	}

	var c [3]byte
	for i, part := range parts {
		v, err := strconv.ParseUint(strings.TrimSpace(part), 10, 8)
		if err != nil {
			return bmp.Pixel{}, fmt.Errorf("invalid color %q: %w", s, err)
		}
		c[i] = byte(v)
	}
	return bmp.Pixel{R: c[0], G: c[1], B: c[2]}, nil
}
