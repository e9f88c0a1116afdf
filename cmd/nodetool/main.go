// Command nodetool renders, inspects and serves node diagrams.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"

	"github.com/fatih/color"

	"github.com/ha1tch/nodeedit/pkg/config"
	"github.com/ha1tch/nodeedit/pkg/diagram"
	"github.com/ha1tch/nodeedit/pkg/geometry"
	"github.com/ha1tch/nodeedit/pkg/render"
)

const usage = `nodetool - node diagram toolkit

Usage:
  nodetool <command> [options]

Commands:
  render     Render the demo scene to PNG, SVG or Graphviz DOT
  route      Show the connector route between two rectangles
  serve      Serve a live scene over HTTP

Examples:
  nodetool render -o scene.png
  nodetool render -o scene.svg
  nodetool render -o scene.dot
  nodetool render -o scene.png -backend vector -w 640 -h 480
  nodetool route 0 0 100 30 200 0 100 30
  nodetool serve -addr :8080

Settings are read from ~/.nodeedit and NODEEDIT_* environment variables.
`

var (
	errColor = color.New(color.FgRed, color.Bold)
	okColor  = color.New(color.FgGreen)
)

func main() {
	if len(os.Args) < 2 {
		fmt.Print(usage)
		os.Exit(1)
	}

	cmd := os.Args[1]
	args := os.Args[2:]
	cfg := config.Load()

	var err error
	switch cmd {
	case "render":
		err = cmdRender(args, cfg, os.Stdout)
	case "route":
		err = cmdRoute(args, os.Stdout)
	case "serve":
		err = cmdServe(args, cfg)
	case "-h", "--help", "help":
		fmt.Print(usage)
	default:
		errColor.Fprintf(os.Stderr, "Unknown command: %s\n", cmd)
		fmt.Print(usage)
		os.Exit(1)
	}
	if err != nil {
		errColor.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// newLogger logs to stderr, at debug level when verbose.
func newLogger(verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// intArg parses the value following flag at args[i].
func intArg(args []string, i int) (int, error) {
	if i+1 >= len(args) {
		return 0, fmt.Errorf("%s needs a value", args[i])
	}
	n, err := strconv.Atoi(args[i+1])
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%s: invalid size %q", args[i], args[i+1])
	}
	return n, nil
}

func cmdRender(args []string, cfg config.Config, out io.Writer) error {
	output := "scene.png"
	backend := cfg.Backend
	opts := render.DefaultOptions()
	opts.Width, opts.Height = cfg.Width, cfg.Height
	verbose := false

	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "-o", "--output":
			if i+1 >= len(args) {
				return fmt.Errorf("%s needs a value", args[i])
			}
			output = args[i+1]
			i++
		case "-backend", "--backend":
			if i+1 >= len(args) {
				return fmt.Errorf("%s needs a value", args[i])
			}
			backend = args[i+1]
			i++
		case "-w", "--width":
			n, err := intArg(args, i)
			if err != nil {
				return err
			}
			opts.Width = n
			i++
		case "-h", "--height":
			n, err := intArg(args, i)
			if err != nil {
				return err
			}
			opts.Height = n
			i++
		case "-v", "--verbose":
			verbose = true
		default:
			return fmt.Errorf("render: unknown option %s", args[i])
		}
	}

	b, err := render.ParseBackend(backend)
	if err != nil {
		return err
	}
	opts.Backend = b

	scene := diagram.Seed(diagram.WithLogger(newLogger(verbose)))
	if err := render.ExportFile(scene, output, opts); err != nil {
		return err
	}
	okColor.Fprintf(out, "Wrote %s\n", output)
	return nil
}

func cmdRoute(args []string, out io.Writer) error {
	if len(args) != 8 {
		return fmt.Errorf("usage: nodetool route x1 y1 w1 h1 x2 y2 w2 h2")
	}
	var v [8]float64
	for i, a := range args {
		f, err := strconv.ParseFloat(a, 64)
		if err != nil {
			return fmt.Errorf("route: invalid number %q", a)
		}
		v[i] = f
	}

	from := geometry.Rect{X: v[0], Y: v[1], Width: v[2], Height: v[3]}
	to := geometry.Rect{X: v[4], Y: v[5], Width: v[6], Height: v[7]}
	printRoute(out, geometry.Route(from, to))
	return nil
}

func pt(p geometry.Point) string {
	return fmt.Sprintf("(%g, %g)", p.X, p.Y)
}

func printRoute(out io.Writer, p geometry.Path) {
	fmt.Fprintf(out, "placement: %s\n", p.Placement)
	if !p.Visible() {
		fmt.Fprintln(out, "no connector drawn")
		return
	}
	fmt.Fprintf(out, "from:      %s\n", pt(p.From))
	fmt.Fprintf(out, "to:        %s\n", pt(p.To))
	fmt.Fprintf(out, "mid:       %s\n", pt(p.Mid))
	fmt.Fprintf(out, "ctrl1:     %s\n", pt(p.Ctrl1))
	fmt.Fprintf(out, "ctrl2:     %s\n", pt(p.Ctrl2))
	fmt.Fprintf(out, "arrow:     tip %s left %s right %s\n",
		pt(p.Arrow.Tip), pt(p.Arrow.Left), pt(p.Arrow.Right))
	fmt.Fprintf(out, "length:    %.1f\n", p.Length())
}
