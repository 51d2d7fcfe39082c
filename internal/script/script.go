// Package script loads sequences described in YAML and builds them on a
// Director.
//
// A script names its actions instead of containing code. The caller binds
// each name to an api.Action when building:
//
//	title: intro
//	cancel_reset:
//	  enabled: true
//	  duration: 200ms
//	on_finish: done
//	steps:
//	  - type: animate
//	    duration: 300ms
//	    action: fade-in
//	  - type: delay
//	    duration: 1s
//	  - type: action
//	    action: ping
package script

import (
	"time"

	"github.com/petrijr/sequencer/pkg/api"
)

// Script is a sequence description read from YAML.
type Script struct {
	Title       string      `yaml:"title"`
	Description string      `yaml:"description,omitempty"`
	Autoloop    bool        `yaml:"autoloop,omitempty"`
	CancelReset CancelReset `yaml:"cancel_reset,omitempty"`
	OnCancel    string      `yaml:"on_cancel,omitempty"`
	OnFinish    string      `yaml:"on_finish,omitempty"`
	Steps       []Step      `yaml:"steps"`
	Source      string      `yaml:"-"` // file path, empty when parsed from memory
}

// CancelReset mirrors Sequence.CancelReset.
type CancelReset struct {
	Enabled  bool   `yaml:"enabled"`
	Duration string `yaml:"duration,omitempty"`

	Wait time.Duration `yaml:"-"`
}

// Step is one entry of the steps list.
type Step struct {
	Type     StepType `yaml:"type"`
	Duration string   `yaml:"duration,omitempty"`
	Action   string   `yaml:"action,omitempty"`

	// Wait is Duration parsed during loading.
	Wait time.Duration `yaml:"-"`
}

// StepType names a step kind in a script.
type StepType string

const (
	StepTypeAnimate          StepType = "animate"
	StepTypeDelay            StepType = "delay"
	StepTypeAction           StepType = "action"
	StepTypeImmediateAnimate StepType = "immediate-animate"
)

// ActionNames returns every action name the script refers to, in order of
// first use.
func (s *Script) ActionNames() []string {
	seen := make(map[string]struct{})
	var out []string
	add := func(name string) {
		if name == "" {
			return
		}
		if _, ok := seen[name]; ok {
			return
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	for _, step := range s.Steps {
		add(step.Action)
	}
	add(s.OnCancel)
	add(s.OnFinish)
	return out
}

// Duration returns the total wait of one pass through the script, counting
// every step at its clamped duration except immediate-animate steps, which
// do not hold back the next step.
func (s *Script) Duration() time.Duration {
	var total time.Duration
	for _, step := range s.Steps {
		switch step.Type {
		case StepTypeAnimate, StepTypeDelay:
			total += api.ClampDuration(step.Wait)
		default:
			total += api.MinStepDelay
		}
	}
	return total
}
