package services

import "github.com/dataset-analyzer/buildpipe/internal/core/domain"

// Names of the built-in pipelines.
const (
	// PipelineNameBuild is the full build: dependencies, directories,
	// configuration check, migrations, and a clean static collection.
	PipelineNameBuild = "build"

	// PipelineNameDeploy is the deploy build: dependencies, static
	// collection, and migrations.
	PipelineNameDeploy = "deploy"
)

// ProjectConfig describes the project the built-in pipelines operate on.
// Zero values fall back to the framework's conventional layout.
type ProjectConfig struct {
	// Python is the interpreter used for management commands.
	Python string

	// Pip is the package installer binary.
	Pip string

	// Manage is the path to the framework's management script.
	Manage string

	// Manifest is the path to the dependency manifest.
	Manifest string

	// Dirs lists the runtime directories to provision.
	Dirs []string
}

// DefaultProjectConfig returns the conventional project layout.
func DefaultProjectConfig() ProjectConfig {
	return ProjectConfig{
		Python:   "python",
		Pip:      "pip",
		Manage:   "manage.py",
		Manifest: "requirements.txt",
		Dirs:     []string{"staticfiles", "media"},
	}
}

// withDefaults fills empty fields from the conventional layout.
func (c ProjectConfig) withDefaults() ProjectConfig {
	base := DefaultProjectConfig()
	if c.Python == "" {
		c.Python = base.Python
	}
	if c.Pip == "" {
		c.Pip = base.Pip
	}
	if c.Manage == "" {
		c.Manage = base.Manage
	}
	if c.Manifest == "" {
		c.Manifest = base.Manifest
	}
	if len(c.Dirs) == 0 {
		c.Dirs = base.Dirs
	}
	return c
}

// BuildPipeline returns the full build pipeline: install dependencies,
// provision runtime directories, check the framework configuration, apply
// migrations, then collect static assets clearing previous output.
func BuildPipeline(cfg ProjectConfig) domain.Pipeline {
	cfg = cfg.withDefaults()
	return domain.Pipeline{
		Name:        PipelineNameBuild,
		Description: "Full build: dependencies, directories, check, migrate, collectstatic --clear",
		Steps: []domain.Step{
			{
				ID:   "deps",
				Name: "Installing dependencies",
				Kind: domain.StepKindDepsInstall,
				Argv: []string{cfg.Pip, "install", "-r", cfg.Manifest},
			},
			{
				ID:   "dirs",
				Name: "Provisioning runtime directories",
				Kind: domain.StepKindEnsureDirs,
				Dirs: cfg.Dirs,
			},
			{
				ID:   "check",
				Name: "Checking framework configuration",
				Kind: domain.StepKindConfigCheck,
				Argv: []string{cfg.Python, cfg.Manage, "check"},
			},
			{
				ID:   "migrate",
				Name: "Applying database migrations",
				Kind: domain.StepKindMigrate,
				Argv: []string{cfg.Python, cfg.Manage, "migrate"},
			},
			{
				ID:   "collectstatic",
				Name: "Collecting static assets",
				Kind: domain.StepKindCollectStatic,
				Argv: []string{cfg.Python, cfg.Manage, "collectstatic", "--noinput", "--clear"},
			},
		},
	}
}

// DeployPipeline returns the deploy pipeline: install dependencies, collect
// static assets without clearing, then apply migrations.
// Collection runs non-interactively here too.
func DeployPipeline(cfg ProjectConfig) domain.Pipeline {
	cfg = cfg.withDefaults()
	return domain.Pipeline{
		Name:        PipelineNameDeploy,
		Description: "Deploy build: dependencies, collectstatic, migrate",
		Steps: []domain.Step{
			{
				ID:   "deps",
				Name: "Installing dependencies",
				Kind: domain.StepKindDepsInstall,
				Argv: []string{cfg.Pip, "install", "-r", cfg.Manifest},
			},
			{
				ID:   "collectstatic",
				Name: "Collecting static assets",
				Kind: domain.StepKindCollectStatic,
				Argv: []string{cfg.Python, cfg.Manage, "collectstatic", "--noinput"},
			},
			{
				ID:   "migrate",
				Name: "Applying database migrations",
				Kind: domain.StepKindMigrate,
				Argv: []string{cfg.Python, cfg.Manage, "migrate"},
			},
		},
	}
}

// DefaultPipelines returns both built-in pipelines.
func DefaultPipelines(cfg ProjectConfig) []domain.Pipeline {
	return []domain.Pipeline{
		BuildPipeline(cfg),
		DeployPipeline(cfg),
	}
}
