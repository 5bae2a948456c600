package pinboard

import (
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

// scriptStep is a single action in a replay script.
type scriptStep struct {
	Action string  `yaml:"action"`
	X      float64 `yaml:"x,omitempty"`
	Y      float64 `yaml:"y,omitempty"`
	FromX  float64 `yaml:"fromX,omitempty"`
	FromY  float64 `yaml:"fromY,omitempty"`
	ToX    float64 `yaml:"toX,omitempty"`
	ToY    float64 `yaml:"toY,omitempty"`
	Frames int     `yaml:"frames,omitempty"`
	Text   string  `yaml:"text,omitempty"`
	Color  string  `yaml:"color,omitempty"`
}

// script is the top-level structure of a replay script.
type script struct {
	Steps []scriptStep `yaml:"steps"`
}

var scriptActions = map[string]bool{
	"click": true, "drag": true, "move": true, "wait": true, "type": true,
	"pin": true, "pin-color": true, "close": true, "admin": true,
}

// ScriptRunner sequences synthetic input across frames. Attach it with
// Session.SetScriptRunner; each Update advances it by one frame.
//
// Actions: click (x, y), drag (fromX, fromY, toX, toY, frames), move (x, y),
// wait (frames), type (text), pin (x, y: toggle pin placement on the item
// under the point), pin-color (x, y, color), close (the overlay), admin
// (text "on" or "off").
type ScriptRunner struct {
	steps     []scriptStep
	cursor    int
	waitCount int
	done      bool
	errs      []error
}

// LoadScript parses a replay script. YAML and JSON are both accepted.
func LoadScript(data []byte) (*ScriptRunner, error) {
	var sc script
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, fmt.Errorf("parse script: %w", err)
	}
	if len(sc.Steps) == 0 {
		return nil, errors.New("parse script: no steps")
	}
	for i, st := range sc.Steps {
		if !scriptActions[st.Action] {
			return nil, fmt.Errorf("parse script: step %d: unknown action %q", i, st.Action)
		}
	}
	return &ScriptRunner{steps: sc.Steps}, nil
}

// SetScriptRunner attaches a runner. Pass nil to detach.
func (s *Session) SetScriptRunner(r *ScriptRunner) {
	s.runner = r
}

// Done reports whether every step has run and its input was consumed.
func (r *ScriptRunner) Done() bool {
	return r.done
}

// Err returns the failures of steps that could not apply, joined.
func (r *ScriptRunner) Err() error {
	return errors.Join(r.errs...)
}

// step advances the runner by one frame. Called from Session.Update.
func (r *ScriptRunner) step(s *Session) {
	if r.done {
		return
	}
	// Let queued input drain before the next step.
	if len(s.injectQueue) > 0 {
		return
	}
	if r.waitCount > 0 {
		r.waitCount--
		return
	}
	if r.cursor >= len(r.steps) {
		r.done = true
		return
	}

	st := r.steps[r.cursor]
	r.cursor++

	switch st.Action {
	case "click":
		s.InjectClick(st.X, st.Y)
	case "drag":
		s.InjectDrag(st.FromX, st.FromY, st.ToX, st.ToY, st.Frames)
	case "move":
		s.InjectMove(st.X, st.Y)
	case "wait":
		if st.Frames > 0 {
			r.waitCount = st.Frames - 1 // this frame counts as one
		}
	case "type":
		for _, k := range st.Text {
			s.KeyPress(k)
		}
	case "pin":
		id, region := s.HitTest(Vec2{st.X, st.Y})
		if region == RegionNone || !s.TogglePinPlacement(id) {
			r.fail(st, "no pin placement at (%g, %g)", st.X, st.Y)
		}
	case "pin-color":
		id, region := s.HitTest(Vec2{st.X, st.Y})
		if region == RegionNone || !s.SetPinColor(id, st.Color) {
			r.fail(st, "cannot set pin color %q at (%g, %g)", st.Color, st.X, st.Y)
		}
	case "close":
		s.CloseItem()
	case "admin":
		s.SetAdmin(st.Text != "off")
	}

	if r.cursor >= len(r.steps) && r.waitCount == 0 && len(s.injectQueue) == 0 {
		r.done = true
	}
}

func (r *ScriptRunner) fail(st scriptStep, format string, args ...any) {
	r.errs = append(r.errs, fmt.Errorf("step %d (%s): %s", r.cursor-1, st.Action, fmt.Sprintf(format, args...)))
}
