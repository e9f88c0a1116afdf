package main

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
)

// Styles
var (
	styleDefault  = tcell.StyleDefault
	styleStatus   = tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorNavy)
	styleMsgInfo  = tcell.StyleDefault.Foreground(tcell.ColorSilver).Background(tcell.ColorNavy)
	styleMsgError = tcell.StyleDefault.Foreground(tcell.ColorRed).Background(tcell.ColorNavy).Bold(true)
	styleHelp     = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleInput    = tcell.StyleDefault.Background(tcell.ColorNavy).Foreground(tcell.ColorWhite)
	styleBorder   = tcell.StyleDefault.Foreground(tcell.ColorGray)
)

func (ed *Editor) draw() {
	w, h := ed.screen.Size()

	ed.scene.Render(ed.cells)
	if ed.mode == ModeInput {
		ed.drawInputBox(w, h)
	}
	ed.drawStatusBar(w, h)
}

func (ed *Editor) drawStatusBar(w, h int) {
	y := h - 1
	if y < 0 {
		return
	}

	for x := 0; x < w; x++ {
		ed.screen.SetContent(x, y, ' ', nil, styleStatus)
	}

	info := fmt.Sprintf("%d nodes, %d connectors",
		len(ed.scene.Nodes()), len(ed.scene.Connectors()))
	if sel := ed.scene.Selected(); sel != nil {
		info += " | " + truncate(sel.Name, 20)
	}
	ed.drawString(1, y, info, styleStatus)

	modeStr := ed.modeString()
	ed.drawString(w/2-len(modeStr)/2, y, modeStr, styleStatus)

	if ed.message != "" {
		style := styleMsgInfo
		if ed.messageType == MsgError {
			style = styleMsgError
		}
		ed.drawString(w-runewidth.StringWidth(ed.message)-2, y, ed.message, style)
	}

	// Help bar
	y = h - 2
	if y < 0 {
		return
	}
	for x := 0; x < w; x++ {
		ed.screen.SetContent(x, y, ' ', nil, styleDefault)
	}
	ed.drawString(1, y, ed.helpString(), styleHelp)
}

func (ed *Editor) drawInputBox(w, h int) {
	boxW := 50
	if boxW > w-2 {
		boxW = w - 2
	}
	boxH := 3
	x := (w - boxW) / 2
	y := (h - boxH) / 2

	ed.drawBox(x, y, boxW, boxH, styleBorder)
	for i := x + 1; i < x+boxW-1; i++ {
		ed.screen.SetContent(i, y+1, ' ', nil, styleInput)
	}
	text := truncate(ed.inputPrompt+ed.inputBuffer, boxW-4)
	ed.drawString(x+2, y+1, text, styleInput)
	ed.screen.ShowCursor(x+2+runewidth.StringWidth(text), y+1)
}

func (ed *Editor) drawBox(x, y, w, h int, style tcell.Style) {
	for i := x + 1; i < x+w-1; i++ {
		ed.screen.SetContent(i, y, tcell.RuneHLine, nil, style)
		ed.screen.SetContent(i, y+h-1, tcell.RuneHLine, nil, style)
	}
	for j := y + 1; j < y+h-1; j++ {
		ed.screen.SetContent(x, j, tcell.RuneVLine, nil, style)
		ed.screen.SetContent(x+w-1, j, tcell.RuneVLine, nil, style)
	}
	ed.screen.SetContent(x, y, tcell.RuneULCorner, nil, style)
	ed.screen.SetContent(x+w-1, y, tcell.RuneURCorner, nil, style)
	ed.screen.SetContent(x, y+h-1, tcell.RuneLLCorner, nil, style)
	ed.screen.SetContent(x+w-1, y+h-1, tcell.RuneLRCorner, nil, style)
}

// drawString writes s starting at (x, y), advancing by display width.
func (ed *Editor) drawString(x, y int, s string, style tcell.Style) {
	for _, r := range s {
		ed.screen.SetContent(x, y, r, nil, style)
		x += runewidth.RuneWidth(r)
	}
}

func (ed *Editor) modeString() string {
	if ed.mode == ModeInput {
		return "INPUT"
	}
	mode := ed.scene.Mode().String()
	if ed.linkMode {
		return "[LINK] " + mode
	}
	return mode
}

func (ed *Editor) helpString() string {
	if ed.mode == ModeInput {
		return "Enter:confirm  Esc:cancel"
	}
	return fmt.Sprintf("drag:move  %s+drag:link  a:add  d:delete  l:link  e:export  y:copy SVG  q:quit",
		ed.config.LinkModifier)
}

func truncate(s string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}
	return runewidth.Truncate(s, maxLen, "…")
}
