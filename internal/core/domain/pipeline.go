package domain

import "fmt"

// StepKind identifies what a build step does.
type StepKind string

// Available step kinds.
const (
	// StepKindDepsInstall installs project dependencies from a manifest.
	StepKindDepsInstall StepKind = "deps_install"

	// StepKindEnsureDirs provisions runtime directories.
	StepKindEnsureDirs StepKind = "ensure_dirs"

	// StepKindConfigCheck runs the framework's configuration self-check.
	StepKindConfigCheck StepKind = "config_check"

	// StepKindMigrate applies pending schema migrations.
	StepKindMigrate StepKind = "migrate"

	// StepKindCollectStatic collects static assets into the serving directory.
	StepKindCollectStatic StepKind = "collect_static"

	// StepKindCommand runs an arbitrary external command.
	StepKindCommand StepKind = "command"
)

// IsValid returns true if the step kind is recognised.
func (k StepKind) IsValid() bool {
	switch k {
	case StepKindDepsInstall, StepKindEnsureDirs, StepKindConfigCheck,
		StepKindMigrate, StepKindCollectStatic, StepKindCommand:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (k StepKind) String() string {
	return string(k)
}

// Description returns a human-readable description of the kind.
func (k StepKind) Description() string {
	switch k {
	case StepKindDepsInstall:
		return "Install dependencies"
	case StepKindEnsureDirs:
		return "Provision directories"
	case StepKindConfigCheck:
		return "Check configuration"
	case StepKindMigrate:
		return "Apply migrations"
	case StepKindCollectStatic:
		return "Collect static assets"
	case StepKindCommand:
		return "Run command"
	default:
		return "Unknown"
	}
}

// Step is one unit of work inside a pipeline.
// Every step except ensure_dirs invokes an external command; ensure_dirs is
// handled by the runner itself against the filesystem.
type Step struct {
	// ID is the step identifier, unique within its pipeline.
	ID string

	// Name is the progress message printed when the step starts.
	Name string

	// Kind identifies what the step does.
	Kind StepKind

	// Argv is the external command and its arguments.
	// Empty for ensure_dirs steps.
	Argv []string

	// Dirs lists the directories an ensure_dirs step provisions.
	// Empty for all other kinds.
	Dirs []string
}

// Validate checks the step for structural errors.
func (s Step) Validate() error {
	if s.ID == "" {
		return fmt.Errorf("%w: step has no id", ErrInvalidInput)
	}
	if !s.Kind.IsValid() {
		return fmt.Errorf("%w: step %s has unknown kind %q", ErrInvalidInput, s.ID, s.Kind)
	}
	if s.Kind == StepKindEnsureDirs {
		if len(s.Dirs) == 0 {
			return fmt.Errorf("%w: step %s provisions no directories", ErrInvalidInput, s.ID)
		}
		return nil
	}
	if len(s.Argv) == 0 {
		return fmt.Errorf("%w: step %s has no command", ErrInvalidInput, s.ID)
	}
	return nil
}

// DisplayName returns the name to print before the step runs.
// Falls back to the kind description when the step has no name.
func (s Step) DisplayName() string {
	if s.Name != "" {
		return s.Name
	}
	return s.Kind.Description()
}

// Pipeline is an ordered, fail-fast sequence of build steps.
type Pipeline struct {
	// Name is the unique pipeline name used to invoke it.
	Name string

	// Description is shown when listing pipelines.
	Description string

	// Steps run strictly in order; the first failure aborts the pipeline.
	Steps []Step
}

// Validate checks the pipeline and all of its steps.
func (p Pipeline) Validate() error {
	if p.Name == "" {
		return fmt.Errorf("%w: pipeline has no name", ErrInvalidInput)
	}
	if len(p.Steps) == 0 {
		return fmt.Errorf("%w: pipeline %s has no steps", ErrInvalidInput, p.Name)
	}
	seen := make(map[string]bool, len(p.Steps))
	for _, step := range p.Steps {
		if err := step.Validate(); err != nil {
			return fmt.Errorf("pipeline %s: %w", p.Name, err)
		}
		if seen[step.ID] {
			return fmt.Errorf("%w: pipeline %s has duplicate step id %s", ErrInvalidInput, p.Name, step.ID)
		}
		seen[step.ID] = true
	}
	return nil
}
