// Command nodeedit is a terminal editor for box-and-arrow diagrams.
package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/atotto/clipboard"
	"github.com/gdamore/tcell/v2"

	"github.com/ha1tch/nodeedit/pkg/config"
	"github.com/ha1tch/nodeedit/pkg/diagram"
	"github.com/ha1tch/nodeedit/pkg/geometry"
	"github.com/ha1tch/nodeedit/pkg/render"
)

// Editor holds all editor state
type Editor struct {
	screen      tcell.Screen
	scene       *diagram.Scene
	cells       *render.Cells
	config      config.Config
	log         *slog.Logger
	mode        Mode
	message     string
	messageType MessageType

	// Sticky link mode ('l'); the configured modifier works without it.
	linkMode bool

	// Left-button tracking
	leftMouseDown bool
	lastPoint     geometry.Point

	// Input state
	inputBuffer string
	inputPrompt string
	inputAction func(string)

	// Clipboard writer, replaced in tests
	copyText func(string) error
}

// Mode represents editor mode
type Mode int

const (
	ModeCanvas Mode = iota
	ModeInput
)

// MessageType for status messages
type MessageType int

const (
	MsgInfo  MessageType = iota // Informative
	MsgError                    // Errors
)

// Rows reserved below the canvas for the help and status bars.
const barRows = 2

var (
	errUsage = errors.New("usage: nodeedit [-log file]")
	errHelp  = errors.New("help requested")
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		if errors.Is(err, errHelp) {
			fmt.Println(errUsage.Error())
			return
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// parseArgs returns the log file path named on the command line, if any.
func parseArgs(args []string) (string, error) {
	logPath := ""
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "-log", "--log":
			if i+1 >= len(args) {
				return "", fmt.Errorf("%s needs a file: %w", args[i], errUsage)
			}
			logPath = args[i+1]
			i++
		case "-h", "--help":
			return "", errHelp
		default:
			return "", fmt.Errorf("unknown option %s: %w", args[i], errUsage)
		}
	}
	return logPath, nil
}

// run owns every resource the editor opens, so they are released before
// main exits.
func run(args []string) error {
	logPath, err := parseArgs(args)
	if err != nil {
		return err
	}

	logOut := io.Discard
	if logPath != "" {
		f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return fmt.Errorf("opening log: %w", err)
		}
		defer f.Close()
		logOut = f
	}
	logger := slog.New(slog.NewTextHandler(logOut, &slog.HandlerOptions{Level: slog.LevelDebug}))

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("creating screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("initializing screen: %w", err)
	}
	defer screen.Fini()
	screen.EnableMouse()
	screen.Clear()

	ed := newEditor(screen, config.Load(), logger)
	ed.run()
	return nil
}

// newEditor creates an editor on an initialised screen, starting from the
// demo scene.
func newEditor(screen tcell.Screen, cfg config.Config, logger *slog.Logger) *Editor {
	w, h := screen.Size()
	return &Editor{
		screen:   screen,
		scene:    diagram.Seed(diagram.WithLogger(logger)),
		cells:    render.NewCells(screen, 0, 0, w, max(h-barRows, 0)),
		config:   cfg,
		log:      logger,
		mode:     ModeCanvas,
		copyText: clipboard.WriteAll,
	}
}

func (ed *Editor) run() {
	for {
		ed.draw()
		ed.screen.Show()

		if ed.handleEvent(ed.screen.PollEvent()) {
			return
		}
	}
}

// handleEvent processes one screen event and reports whether to quit.
func (ed *Editor) handleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case nil:
		return true // screen finalised
	case *tcell.EventResize:
		w, h := ed.screen.Size()
		ed.cells.Resize(w, max(h-barRows, 0))
		ed.screen.Sync()
	case *tcell.EventKey:
		return ed.handleKey(ev)
	case *tcell.EventMouse:
		ed.handleMouse(ev)
	}
	return false
}

func (ed *Editor) handleKey(ev *tcell.EventKey) bool {
	if ed.mode == ModeInput {
		return ed.handleInputKey(ev)
	}

	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return true
	case tcell.KeyDelete, tcell.KeyBackspace, tcell.KeyBackspace2:
		ed.deleteSelected()
		return false
	case tcell.KeyRune:
	default:
		return false
	}

	switch ev.Rune() {
	case 'q':
		return true
	case 'a':
		ed.startAddNode()
	case 'd':
		ed.deleteSelected()
	case 'l':
		ed.linkMode = !ed.linkMode
		if ed.linkMode {
			ed.showMessage("Link mode on", MsgInfo)
		} else {
			ed.showMessage("Link mode off", MsgInfo)
		}
	case 'e':
		ed.startExport()
	case 'y':
		ed.copyToClipboard()
	}
	return false
}

func (ed *Editor) handleInputKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape:
		ed.mode = ModeCanvas
		ed.inputBuffer = ""
	case tcell.KeyEnter:
		ed.mode = ModeCanvas
		if ed.inputAction != nil {
			ed.inputAction(ed.inputBuffer)
		}
		ed.inputBuffer = ""
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		if r := []rune(ed.inputBuffer); len(r) > 0 {
			ed.inputBuffer = string(r[:len(r)-1])
		}
	case tcell.KeyRune:
		ed.inputBuffer += string(ev.Rune())
	}
	return false
}

// linkHeld reports whether a press should drag out a connector.
func (ed *Editor) linkHeld(mod tcell.ModMask) bool {
	if ed.linkMode {
		return true
	}
	switch ed.config.LinkModifier {
	case "shift":
		return mod&tcell.ModShift != 0
	case "alt":
		return mod&tcell.ModAlt != 0
	default:
		return mod&tcell.ModCtrl != 0
	}
}

// handleMouse turns button transitions into scene pointer events. Releases
// outside the canvas land on the last canvas point seen.
func (ed *Editor) handleMouse(ev *tcell.EventMouse) {
	if ed.mode != ModeCanvas {
		return
	}
	x, y := ev.Position()
	p, inCanvas := ed.cells.CanvasPoint(x, y)
	if inCanvas {
		ed.lastPoint = p
	}
	pressed := ev.Buttons()&tcell.Button1 != 0

	switch {
	case pressed && !ed.leftMouseDown:
		if !inCanvas {
			return
		}
		ed.leftMouseDown = true
		ed.scene.PointerDown(p.X, p.Y, ed.linkHeld(ev.Modifiers()))
	case !pressed && ed.leftMouseDown:
		ed.leftMouseDown = false
		before := len(ed.scene.Connectors())
		ed.scene.PointerUp(ed.lastPoint.X, ed.lastPoint.Y)
		if len(ed.scene.Connectors()) > before {
			ed.showMessage("Connector added", MsgInfo)
		}
	case inCanvas:
		ed.scene.PointerMove(p.X, p.Y)
	}
}

func (ed *Editor) startAddNode() {
	ed.mode = ModeInput
	ed.inputPrompt = "Node name: "
	ed.inputBuffer = ""
	ed.inputAction = func(name string) {
		if name == "" {
			ed.showMessage("Node name required", MsgError)
			return
		}
		ed.scene.AddNode(name, 0, 0)
		ed.showMessage("Added "+name, MsgInfo)
	}
}

func (ed *Editor) deleteSelected() {
	sel := ed.scene.Selected()
	if sel == nil {
		ed.showMessage("Nothing selected", MsgError)
		return
	}
	if err := ed.scene.RemoveSelected(); err != nil {
		ed.showMessage(err.Error(), MsgError)
		return
	}
	ed.showMessage("Deleted "+sel.Name, MsgInfo)
}

func (ed *Editor) exportOptions() render.Options {
	opts := render.DefaultOptions()
	opts.Width = ed.config.Width
	opts.Height = ed.config.Height
	if b, err := render.ParseBackend(ed.config.Backend); err == nil {
		opts.Backend = b
	}
	return opts
}

// startExport prompts for an output path, defaulting to the last export
// directory. The extension picks PNG, SVG or DOT.
func (ed *Editor) startExport() {
	ed.mode = ModeInput
	ed.inputPrompt = "Export to: "
	ed.inputBuffer = filepath.Join(ed.config.LastDir, "nodeedit.png")
	ed.inputAction = ed.exportTo
}

func (ed *Editor) exportTo(path string) {
	if err := render.ExportFile(ed.scene, path, ed.exportOptions()); err != nil {
		ed.log.Error("export failed", "path", path, "err", err)
		ed.showMessage("Export failed: "+err.Error(), MsgError)
		return
	}
	ed.log.Info("exported", "path", path)

	if abs, err := filepath.Abs(path); err == nil {
		ed.config.LastDir = filepath.Dir(abs)
	}
	if err := config.Save(ed.config); err != nil {
		ed.log.Warn("config not saved", "err", err)
		ed.showMessage("Exported "+path+" (settings not saved)", MsgError)
		return
	}
	ed.showMessage("Exported "+path, MsgInfo)
}

func (ed *Editor) copyToClipboard() {
	opts := ed.exportOptions()
	w, h, err := opts.Size(ed.scene)
	if err != nil {
		ed.showMessage("Copy failed: "+err.Error(), MsgError)
		return
	}
	svg := render.NewSVG(w, h)
	ed.scene.Render(svg)
	if err := ed.copyText(string(svg.Bytes())); err != nil {
		ed.showMessage("Clipboard unavailable: "+err.Error(), MsgError)
		return
	}
	ed.showMessage("Copied SVG to clipboard", MsgInfo)
}

func (ed *Editor) showMessage(msg string, msgType MessageType) {
	ed.message = msg
	ed.messageType = msgType
}
