package template

import (
	"sync"
	"time"

	"github.com/goldirana/agentforge/pkg/logger"
)

// service wires the registry to the filesystem generator behind the Service
// interface.
type service struct {
	generator *generator
	registry  *registry
}

var (
	instance *service
	once     sync.Once
)

// GetService returns the process-wide template service. Templates register
// themselves through package init functions, so every caller sees the same
// catalog.
func GetService() Service {
	once.Do(func() {
		instance = &service{generator: newGenerator(), registry: globalRegistry}
	})
	return instance
}

func (s *service) Register(name string, template Template) error {
	return Register(name, template)
}

func (s *service) Get(name string) (Template, error) {
	return s.registry.get(name)
}

func (s *service) List() []Metadata {
	return s.registry.list()
}

// Generate renders templateName into opts.Path. Options are validated and
// defaulted here so the generator can rely on a complete answer set.
func (s *service) Generate(templateName string, opts *GenerateOptions) error {
	if err := opts.validate(); err != nil {
		return err
	}
	opts.applyDefaults()
	log := logger.FromContext(opts.Context)
	log.Info("generating template",
		"template", templateName,
		"path", opts.Path,
		"slug", opts.Slug,
	)
	started := time.Now()
	if err := s.generator.Generate(templateName, opts); err != nil {
		return err
	}
	log.Debug("template generated", "template", templateName, "duration", time.Since(started))
	return nil
}
