package script

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Load reads a single script from disk.
func Load(path string) (*Script, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("script path is required")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read script %s: %w", path, err)
	}

	s, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse script %s: %w", path, err)
	}
	s.Source = path
	return s, nil
}

// LoadDir loads every .yaml and .yml script in dir, sorted by title. A
// missing directory yields no scripts.
func LoadDir(dir string) ([]*Script, error) {
	if strings.TrimSpace(dir) == "" {
		return []*Script{}, nil
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []*Script{}, nil
		}
		return nil, fmt.Errorf("read scripts dir %s: %w", dir, err)
	}

	scripts := make([]*Script, 0)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if ext != ".yaml" && ext != ".yml" {
			continue
		}
		s, err := Load(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, err
		}
		scripts = append(scripts, s)
	}

	sort.Slice(scripts, func(i, j int) bool {
		return scripts[i].Title < scripts[j].Title
	})
	return scripts, nil
}

// Parse decodes and validates a script.
func Parse(data []byte) (*Script, error) {
	var s Script
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, err
	}

	s.Title = strings.TrimSpace(s.Title)
	s.Description = strings.TrimSpace(s.Description)
	s.OnCancel = strings.TrimSpace(s.OnCancel)
	s.OnFinish = strings.TrimSpace(s.OnFinish)

	if len(s.Steps) == 0 && !s.Autoloop {
		return nil, fmt.Errorf("script steps are required")
	}

	cr := &s.CancelReset
	cr.Duration = strings.TrimSpace(cr.Duration)
	if cr.Duration != "" {
		d, err := parseDuration(cr.Duration)
		if err != nil {
			return nil, fmt.Errorf("cancel_reset: %w", err)
		}
		cr.Wait = d
	}

	for i := range s.Steps {
		if err := normalizeStep(&s.Steps[i]); err != nil {
			return nil, fmt.Errorf("script step %d: %w", i+1, err)
		}
	}
	return &s, nil
}

func normalizeStep(step *Step) error {
	step.Type = StepType(strings.ToLower(strings.TrimSpace(string(step.Type))))
	step.Duration = strings.TrimSpace(step.Duration)
	step.Action = strings.TrimSpace(step.Action)

	if step.Duration != "" {
		d, err := parseDuration(step.Duration)
		if err != nil {
			return err
		}
		step.Wait = d
	}

	switch step.Type {
	case StepTypeAnimate:
		if step.Duration == "" {
			return fmt.Errorf("animate duration is required")
		}

	case StepTypeDelay:
		if step.Duration == "" {
			return fmt.Errorf("delay duration is required")
		}
		if step.Action != "" {
			return fmt.Errorf("delay takes no action")
		}

	case StepTypeAction:
		if step.Action == "" {
			return fmt.Errorf("action name is required")
		}
		if step.Duration != "" {
			return fmt.Errorf("action takes no duration")
		}

	case StepTypeImmediateAnimate:
		if step.Action == "" {
			return fmt.Errorf("immediate-animate action is required")
		}
		if step.Duration == "" {
			return fmt.Errorf("immediate-animate duration is required")
		}

	default:
		return fmt.Errorf("unknown step type %q", step.Type)
	}
	return nil
}

func parseDuration(s string) (time.Duration, error) {
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid duration: %w", err)
	}
	if d < 0 {
		return 0, fmt.Errorf("duration must not be negative")
	}
	return d, nil
}
