// graphedit is a terminal host for the interactive curve editor. It loads a
// scenario, opens one (item, property) graph in the terminal and applies the
// editor's intents to the in-memory track. Mouse drags move keyframes, the
// wheel zooms, 's' writes the scenario back to disk.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/framefuse/keyline/internal/easing"
	"github.com/framefuse/keyline/internal/grapheditor"
	"github.com/framefuse/keyline/internal/keyframe"
	"github.com/framefuse/keyline/internal/playback"
	"github.com/framefuse/keyline/internal/scenario"
	"github.com/framefuse/keyline/internal/transition"
)

type app struct {
	screen tcell.Screen
	editor *grapheditor.Editor

	scenarioPath string
	doc          *scenario.Scenario
	item         scenario.Item
	property     keyframe.Property
	track        *keyframe.Track
	base         float64
	blocked      []transition.BlockedRange

	playhead  int
	selection map[string]bool
	status    string

	// clock drives the playhead while playback is running.
	clock *playback.Buffer

	// Previous mouse button mask, to turn tcell's state reports into
	// down/move/up events.
	lastButtons tcell.ButtonMask
}

func newApp(path string, doc *scenario.Scenario, item scenario.Item, prop keyframe.Property) (*app, error) {
	anim, err := item.Animation()
	if err != nil {
		return nil, err
	}
	track := anim.Track(prop)
	if track == nil {
		track = &keyframe.Track{Property: prop}
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	if err := screen.Init(); err != nil {
		return nil, err
	}
	screen.EnableMouse()

	w, h := screen.Size()
	clip := transition.Clip{ID: item.ID, DurationInFrames: item.DurationInFrames}
	fps := item.FPS
	if fps <= 0 {
		fps = 30
	}

	a := &app{
		screen:       screen,
		editor:       grapheditor.New(prop, item.DurationInFrames, float64(w), float64(h-1), grapheditor.DefaultConfig()),
		scenarioPath: path,
		doc:          doc,
		item:         item,
		property:     prop,
		track:        track,
		base:         item.BaseValue(prop),
		blocked:      transition.BlockedRanges(clip, doc.TransitionsFor(item.ID)),
		selection:    make(map[string]bool),
		clock:        playback.NewBuffer(1, fps),
	}
	a.status = fmt.Sprintf("%s/%s  q quit  s save  space play  f fit  r reset  +/- zoom  arrows playhead", item.ID, prop)
	return a, nil
}

func (a *app) context() grapheditor.Context {
	return grapheditor.Context{
		Keyframes: a.track.Keyframes,
		Playhead:  a.playhead,
		Blocked:   a.blocked,
	}
}

// apply routes editor intents into the track and local view state.
func (a *app) apply(intents []grapheditor.Intent) {
	for _, in := range intents {
		switch in.Type {
		case grapheditor.IntentKeyframeMoved:
			if err := a.track.Move(in.KeyframeID, in.Frame, in.Value); err != nil {
				a.status = fmt.Sprintf("move: %v", err)
			}
		case grapheditor.IntentBezierHandleMoved:
			if kf, ok := a.track.Get(in.KeyframeID); ok {
				b := in.Bezier
				spec := easing.Spec{Kind: easing.CubicBezier, Bezier: &b}
				if err := a.track.Update(in.KeyframeID, kf.Value, spec); err != nil {
					a.status = fmt.Sprintf("handle: %v", err)
				}
			}
		case grapheditor.IntentSelectionChanged:
			a.selection = make(map[string]bool)
			for _, id := range in.Selection {
				a.selection[id] = true
			}
		}
		// Capture and release need no work here: the terminal already
		// routes every mouse event to this process.
	}
}

func (a *app) handleMouse(ev *tcell.EventMouse) {
	x, y := ev.Position()
	mod := grapheditor.Modifiers{
		Shift:       ev.Modifiers()&tcell.ModShift != 0,
		Alt:         ev.Modifiers()&tcell.ModAlt != 0,
		SnapDisable: ev.Modifiers()&tcell.ModCtrl != 0,
	}
	base := grapheditor.Event{X: float64(x), Y: float64(y), Mod: mod}

	buttons := ev.Buttons()
	if buttons&tcell.WheelUp != 0 {
		base.Type = grapheditor.EventWheel
		base.WheelDelta = -1
		a.apply(a.editor.HandleEvent(base, a.context()))
		return
	}
	if buttons&tcell.WheelDown != 0 {
		base.Type = grapheditor.EventWheel
		base.WheelDelta = 1
		a.apply(a.editor.HandleEvent(base, a.context()))
		return
	}

	pressed := buttons&tcell.Button1 != 0
	wasPressed := a.lastButtons&tcell.Button1 != 0
	a.lastButtons = buttons

	switch {
	case pressed && !wasPressed:
		base.Type = grapheditor.EventPointerDown
	case pressed && wasPressed:
		base.Type = grapheditor.EventPointerMove
	case !pressed && wasPressed:
		base.Type = grapheditor.EventPointerUp
	default:
		base.Type = grapheditor.EventPointerMove
	}
	a.apply(a.editor.HandleEvent(base, a.context()))
}

func (a *app) handleKey(ev *tcell.EventKey) bool {
	zoom := func(t grapheditor.EventType) {
		a.apply(a.editor.HandleEvent(grapheditor.Event{Type: t}, a.context()))
	}
	switch {
	case ev.Key() == tcell.KeyEscape || ev.Rune() == 'q':
		return false
	case ev.Rune() == '+' || ev.Rune() == '=':
		zoom(grapheditor.EventZoomIn)
	case ev.Rune() == '-':
		zoom(grapheditor.EventZoomOut)
	case ev.Rune() == 'f':
		zoom(grapheditor.EventZoomFit)
	case ev.Rune() == 'r':
		zoom(grapheditor.EventZoomReset)
	case ev.Key() == tcell.KeyLeft:
		if a.playhead > 0 {
			a.playhead--
		}
	case ev.Key() == tcell.KeyRight:
		if a.playhead < a.item.DurationInFrames-1 {
			a.playhead++
		}
	case ev.Rune() == ' ':
		a.togglePlayback(hostMillis(time.Now()))
	case ev.Rune() == 'k':
		a.addAtPlayhead()
	case ev.Rune() == 'x':
		for id := range a.selection {
			a.track.Remove(id)
		}
		a.selection = make(map[string]bool)
	case ev.Rune() == 's':
		a.save()
	}
	return true
}

// addAtPlayhead follows the auto-keyframe rule: update the keyframe under the
// playhead if there is one, otherwise add a new keyframe at the current
// curve value. Frames reserved by a transition take no keyframes at all.
func (a *app) addAtPlayhead() {
	for _, br := range a.blocked {
		if br.Contains(a.playhead) {
			a.status = fmt.Sprintf("frame %d reserved by transition %s", a.playhead, br.TransitionID)
			return
		}
	}
	d := keyframe.Decide(a.track, a.playhead, a.item.DurationInFrames)
	if !d.Handled {
		a.status = fmt.Sprintf("frame %d outside item", a.playhead)
		return
	}
	value := keyframe.Value(a.track.Keyframes, float64(a.playhead), a.base)
	switch d.Action {
	case keyframe.ActionUpdate:
		if kf, ok := a.track.Get(d.KeyframeID); ok {
			a.track.Update(d.KeyframeID, value, kf.Easing)
		}
	case keyframe.ActionAdd:
		if err := a.track.Insert(keyframe.NewKeyframe(a.playhead, value)); err != nil {
			a.status = fmt.Sprintf("add: %v", err)
		}
	}
}

func hostMillis(t time.Time) float64 {
	return float64(t.UnixNano()) / 1e6
}

// togglePlayback starts or pauses the playback clock. Starting at the last
// frame restarts from the beginning.
func (a *app) togglePlayback(nowMS float64) {
	if a.clock.Playing() {
		a.clock.StopPlayback()
		a.status = "paused"
		return
	}
	start := a.playhead
	if start >= a.item.DurationInFrames-1 {
		start = 0
	}
	a.clock.StartPlayback(start, nowMS)
	a.status = "playing"
}

// advancePlayhead moves the playhead to the frame the playback clock expects
// on screen, pausing on the item's last frame.
func (a *app) advancePlayhead(nowMS float64) {
	if !a.clock.Playing() {
		return
	}
	target := a.clock.TargetFrame(nowMS)
	if target >= a.item.DurationInFrames {
		a.playhead = a.item.DurationInFrames - 1
		a.clock.StopPlayback()
		a.status = "paused"
		return
	}
	a.playhead = target
}

// save writes the edited track back into the scenario document.
func (a *app) save() {
	keys := make([]scenario.Key, 0, len(a.track.Keyframes))
	for _, kf := range a.track.Keyframes {
		keys = append(keys, scenario.Key{Frame: kf.Frame, Value: kf.Value, Easing: kf.Easing})
	}
	for i := range a.doc.Items {
		if a.doc.Items[i].ID != a.item.ID {
			continue
		}
		replaced := false
		for j := range a.doc.Items[i].Tracks {
			if a.doc.Items[i].Tracks[j].Property == string(a.property) {
				a.doc.Items[i].Tracks[j].Keyframes = keys
				replaced = true
			}
		}
		if !replaced {
			a.doc.Items[i].Tracks = append(a.doc.Items[i].Tracks, scenario.Track{
				Property:  string(a.property),
				Keyframes: keys,
			})
		}
	}
	if err := scenario.Write(a.doc, a.scenarioPath); err != nil {
		a.status = fmt.Sprintf("save failed: %v", err)
		return
	}
	a.status = fmt.Sprintf("saved %s", a.scenarioPath)
}

var (
	styleCurve    = tcell.StyleDefault.Foreground(tcell.ColorTeal)
	styleKeyframe = tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true)
	styleSelected = tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorYellow)
	styleBlocked  = tcell.StyleDefault.Background(tcell.ColorDarkRed)
	stylePlayhead = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleStatus   = tcell.StyleDefault.Reverse(true)
)

func (a *app) draw() {
	a.screen.Clear()
	w, h := a.screen.Size()
	graphH := h - 1
	vp := a.editor.Viewport()

	// Blocked columns.
	for col := 0; col < w; col++ {
		frame := int(vp.XToFrame(float64(col)))
		for _, br := range a.blocked {
			if br.Contains(frame) {
				for row := 0; row < graphH; row++ {
					a.screen.SetContent(col, row, ' ', nil, styleBlocked)
				}
				break
			}
		}
	}

	// Playhead column.
	pcol := int(vp.FrameToX(float64(a.playhead)))
	if pcol >= 0 && pcol < w {
		for row := 0; row < graphH; row++ {
			a.screen.SetContent(pcol, row, '|', nil, stylePlayhead)
		}
	}

	// Curve, one sample per column.
	for col := 0; col < w; col++ {
		frame := vp.XToFrame(float64(col))
		if frame < 0 || frame > float64(a.item.DurationInFrames-1) {
			continue
		}
		v := keyframe.Value(a.track.Keyframes, frame, a.base)
		row := int(vp.ValueToY(v))
		if row >= 0 && row < graphH {
			a.screen.SetContent(col, row, '·', nil, styleCurve)
		}
	}

	// Keyframe markers over the curve.
	for _, kf := range a.track.Keyframes {
		col := int(vp.FrameToX(float64(kf.Frame)))
		row := int(vp.ValueToY(kf.Value))
		if col < 0 || col >= w || row < 0 || row >= graphH {
			continue
		}
		style := styleKeyframe
		if a.selection[kf.ID] {
			style = styleSelected
		}
		a.screen.SetContent(col, row, '◆', nil, style)
	}

	// Status line.
	line := fmt.Sprintf(" %s  playhead %d  keyframes %d ", a.status, a.playhead, len(a.track.Keyframes))
	for col := 0; col < w; col++ {
		ch := ' '
		if col < len(line) {
			ch = rune(line[col])
		}
		a.screen.SetContent(col, graphH, ch, nil, styleStatus)
	}

	a.screen.Show()
}

func (a *app) run() {
	events := make(chan tcell.Event, 16)
	go func() {
		for {
			events <- a.screen.PollEvent()
		}
	}()

	ticker := time.NewTicker(33 * time.Millisecond)
	defer ticker.Stop()

	for {
		a.draw()
		select {
		case ev := <-events:
			switch ev := ev.(type) {
			case *tcell.EventMouse:
				a.handleMouse(ev)
			case *tcell.EventKey:
				if !a.handleKey(ev) {
					return
				}
			case *tcell.EventResize:
				w, h := a.screen.Size()
				a.editor.Reset(a.property, a.item.DurationInFrames, float64(w), float64(h-1))
				a.screen.Sync()
			}
		case <-ticker.C:
			a.advancePlayhead(hostMillis(time.Now()))
		}
	}
}

func main() {
	scenarioPtr := flag.String("scenario", "", "Path to a scenario YAML (default: newest file in input/scenarios/)")
	itemPtr := flag.String("item", "", "Item id to edit (default: first item)")
	propPtr := flag.String("property", "opacity", "Property to edit")
	flag.Parse()

	path := *scenarioPtr
	if path == "" {
		latest, err := scenario.FindLatest("input/scenarios")
		if err != nil {
			log.Fatalf("[-] Error: %v. Put a scenario YAML in input/scenarios/", err)
		}
		path = latest
	}

	doc, err := scenario.Read(path)
	if err != nil {
		log.Fatalf("[-] Failed to read scenario: %v", err)
	}
	if len(doc.Items) == 0 {
		log.Fatalf("[-] Error: scenario has no items")
	}

	item := doc.Items[0]
	if *itemPtr != "" {
		it, ok := doc.Item(*itemPtr)
		if !ok {
			log.Fatalf("[-] Error: no item %q in scenario", *itemPtr)
		}
		item = it
	}

	prop := keyframe.Property(*propPtr)
	if !prop.Valid() {
		log.Fatalf("[-] Error: unknown property %q", *propPtr)
	}

	a, err := newApp(path, doc, item, prop)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
		os.Exit(1)
	}
	defer a.screen.Fini()

	a.run()
}
