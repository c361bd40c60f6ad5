package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"petbots.fbbdev.it/fontcreator/log"
)

var listenAddr string
var previewPath string
var templatePath string

func init() {
	listenAddr = os.Getenv("FONTCREATOR_ADDR")
	if listenAddr == "" {
		listenAddr = "localhost:3000"
	}

	previewPath = os.Getenv("FONTCREATOR_PREVIEW_PATH")
	if previewPath == "" {
		previewPath = "/preview"
	}

	// empty selects the built-in template
	templatePath = os.Getenv("FONTCREATOR_TEMPLATE")
}

var stdout io.Writer = os.Stdout

var errUsage = errors.New("usage")

const usageMessage = `usage: fontcreator <command> [flags] [font file]

commands:
  new      create a blank font
  import   rasterize a BDF font or the built-in 7x13 face
  export   render a font through an export template
  info     print font metrics
  preview  draw text with a font into an image
  serve    serve previews over http

Run fontcreator <command> -h for the flags of a command.

environment:
  FONTCREATOR_ADDR          serve address (default localhost:3000)
  FONTCREATOR_PREVIEW_PATH  serve path (default /preview)
  FONTCREATOR_TEMPLATE      default export template (default built-in)
  FONTCREATOR_DEBUG         enable debug logging when set
`

type command struct {
	name string
	run  func(args []string) error
}

var commands = []command{
	{"new", runNew},
	{"import", runImport},
	{"export", runExport},
	{"info", runInfo},
	{"preview", runPreview},
	{"serve", runServe},
}

func run(args []string) error {
	if len(args) == 0 {
		return errUsage
	}

	for _, c := range commands {
		if c.name == args[0] {
			return c.run(args[1:])
		}
	}
	return errUsage
}

func main() {
	err := run(os.Args[1:])
	switch {
	case err == nil:
	case errors.Is(err, flag.ErrHelp):
	case errors.Is(err, errUsage):
		fmt.Fprint(os.Stderr, usageMessage)
		os.Exit(2)
	default:
		log.ErrorLogger.Print(os.Args[1], ": ", err)
		log.FatalLogger.Fatalf("could not complete %s", os.Args[1])
	}
}
