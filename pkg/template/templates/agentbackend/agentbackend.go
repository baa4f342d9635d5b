package agentbackend

import (
	_ "embed"

	"github.com/goldirana/agentforge/pkg/template"
)

// Embedded template files
//
//go:embed README.md.tmpl
var readmeTemplate string

//go:embed gitignore.tmpl
var gitignoreTemplate string

//go:embed env.example.tmpl
var envExampleTemplate string

//go:embed requirements.txt.tmpl
var requirementsTemplate string

//go:embed system_config.yaml.tmpl
var systemConfigTemplate string

//go:embed constants.py.tmpl
var constantsTemplate string

//go:embed base_agent.py.tmpl
var baseAgentTemplate string

//go:embed logger_init.py.tmpl
var loggerInitTemplate string

//go:embed utils_init.py.tmpl
var utilsInitTemplate string

//go:embed common.py.tmpl
var utilsCommonTemplate string

//go:embed server_main.py.tmpl
var serverMainTemplate string

//go:embed agent_routes.py.tmpl
var agentRoutesTemplate string

//go:embed getting_started.ipynb.tmpl
var gettingStartedNotebook string

// Template implements the Template interface for the agent backend project
// template: a FastAPI server, a BaseAgent skeleton, colorized logging with
// optional CloudWatch shipping and the data-science directory layout.
type Template struct{}

// Register registers the agent backend template with the global registry
func Register() error {
	return template.Register("agent-backend", &Template{})
}

// GetMetadata returns template information
func (t *Template) GetMetadata() template.Metadata {
	return template.Metadata{
		Name:        "agent-backend",
		Description: "Multi-agent system backend with FastAPI server and colorized logging",
		Author:      "goldirana",
		Version:     "1.0.0",
	}
}

// GetFiles returns all template files
func (t *Template) GetFiles() []template.File {
	return []template.File{
		{
			Name:    "README.md",
			Content: readmeTemplate,
		},
		{
			Name:    ".gitignore",
			Content: gitignoreTemplate,
		},
		{
			Name:    "env.example",
			Content: envExampleTemplate,
		},
		{
			Name:    "requirements.txt",
			Content: requirementsTemplate,
		},
		{
			Name:    "system_config.yaml",
			Content: systemConfigTemplate,
		},
		{
			Name: "backend/__init__.py",
		},
		{
			Name: "backend/src/__init__.py",
		},
		{
			Name:    "backend/src/constants.py",
			Content: constantsTemplate,
		},
		{
			Name: "backend/src/agents/__init__.py",
		},
		{
			Name:    "backend/src/agents/base_agent.py",
			Content: baseAgentTemplate,
		},
		{
			Name:    "backend/src/logger/__init__.py",
			Content: loggerInitTemplate,
		},
		{
			Name:    "backend/src/utils/__init__.py",
			Content: utilsInitTemplate,
		},
		{
			Name:    "backend/src/utils/common.py",
			Content: utilsCommonTemplate,
		},
		{
			Name:    "backend/notebooks/getting_started.ipynb",
			Content: gettingStartedNotebook,
		},
		{
			Name: "server/__init__.py",
		},
		{
			Name:    "server/main.py",
			Content: serverMainTemplate,
		},
		{
			Name: "server/api/__init__.py",
		},
		{
			Name:    "server/api/agent_routes.py",
			Content: agentRoutesTemplate,
		},
	}
}

// GetDirectories returns required directories
func (t *Template) GetDirectories() []string {
	return []string{
		"backend/src/agents",
		"backend/src/logger",
		"backend/src/utils",
		"server/api",
	}
}

// GetRawPatterns returns patterns copied verbatim. Notebook JSON never goes
// through the renderer.
func (t *Template) GetRawPatterns() []string {
	return []string{"**/*.ipynb"}
}

// GetProjectConfig generates the render data for every file
func (t *Template) GetProjectConfig(opts *template.GenerateOptions) any {
	return opts.RenderData(t.GetMetadata().Name)
}
