package script

import (
	"fmt"

	"github.com/petrijr/sequencer/internal/engine"
	"github.com/petrijr/sequencer/pkg/api"
)

// Build creates an unstarted sequence on d from s, resolving action names
// through bindings. Every name is checked before the sequence is created, so
// a failed build never cancels a live sequence holding the same title.
func Build(d *engine.Director, s *Script, bindings map[string]api.Action) (*engine.Sequence, error) {
	for _, name := range s.ActionNames() {
		if _, ok := bindings[name]; !ok {
			return nil, fmt.Errorf("script %q: unbound action %q", s.Title, name)
		}
	}

	seq := d.NewSequence(s.Title).
		Autoloop(s.Autoloop).
		CancelReset(s.CancelReset.Enabled, s.CancelReset.Wait)
	if s.OnCancel != "" {
		seq.OnCancel(bindings[s.OnCancel])
	}
	if s.OnFinish != "" {
		seq.OnFinish(bindings[s.OnFinish])
	}

	for i, step := range s.Steps {
		var action api.Action
		if step.Action != "" {
			action = bindings[step.Action]
		}
		switch step.Type {
		case StepTypeAnimate:
			seq.Animate(step.Wait, action)
		case StepTypeDelay:
			seq.Delay(step.Wait)
		case StepTypeAction:
			seq.ImmediateAction(action)
		case StepTypeImmediateAnimate:
			seq.ImmediateAnimate(step.Wait, action)
		default:
			return nil, fmt.Errorf("script %q step %d: unknown step type %q", s.Title, i+1, step.Type)
		}
	}
	return seq, nil
}
