package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"runtime"
	"time"

	"github.com/iancoleman/strcase"
	"github.com/invopop/jsonschema"
	"golang.org/x/sync/errgroup"

	"github.com/goldirana/agentforge/engine/project"
	"github.com/goldirana/agentforge/pkg/config"
	"github.com/goldirana/agentforge/pkg/logger"
)

type schemaDefinition struct {
	name   string
	title  string
	source any
}

func (d schemaDefinition) fileName() string {
	return d.name + ".json"
}

var schemaDefinitions = []schemaDefinition{
	{name: "config", title: "Agentforge Configuration", source: &config.Config{}},
	{name: "record", title: "Agentforge Generation Record", source: &project.Record{}},
}

// generateSchemas reflects every registered definition into a draft-07 JSON
// schema and writes one file per definition under outDir.
func generateSchemas(ctx context.Context, outDir string) error {
	log := logger.FromContext(ctx)
	log.Info("Generating JSON schemas")
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	group, _ := errgroup.WithContext(ctx)
	group.SetLimit(runtime.GOMAXPROCS(0))
	for _, def := range schemaDefinitions {
		group.Go(func() error { return writeSchema(ctx, outDir, def) })
	}
	return group.Wait()
}

func writeSchema(ctx context.Context, outDir string, def schemaDefinition) error {
	data, err := buildSchema(def)
	if err != nil {
		return fmt.Errorf("failed to build schema for %s: %w", def.name, err)
	}
	out := filepath.Join(outDir, def.fileName())
	if err := os.WriteFile(out, data, 0o600); err != nil {
		return fmt.Errorf("failed to write schema to %s: %w", out, err)
	}
	logger.FromContext(ctx).Info("Generated schema", "file", out)
	return nil
}

var durationType = reflect.TypeOf(time.Duration(0))

func newReflector() *jsonschema.Reflector {
	return &jsonschema.Reflector{
		RequiredFromJSONSchemaTags: true,
		AllowAdditionalProperties:  false,
		KeyNamer:                   strcase.ToSnake,
		Mapper: func(t reflect.Type) *jsonschema.Schema {
			if t == durationType {
				return &jsonschema.Schema{
					Type:        "string",
					Description: "Go duration string, for example 10s or 1m30s",
					Pattern:     `^-?(\d+(\.\d+)?(ns|us|µs|ms|s|m|h))+$`,
				}
			}
			return nil
		},
	}
}

func buildSchema(def schemaDefinition) ([]byte, error) {
	schema := newReflector().Reflect(def.source)
	schema.Version = "http://json-schema.org/draft-07/schema#"
	schema.ID = jsonschema.ID(def.fileName())
	schema.Title = def.title
	schema.Extras = map[string]any{"yamlCompatible": true}
	data, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal schema: %w", err)
	}
	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode schema for post-processing: %w", err)
	}
	if !pruneInvocationFields(doc) {
		return data, nil
	}
	pruned, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal pruned schema: %w", err)
	}
	return pruned, nil
}

// invocationOnlyFields are resolved per CLI invocation and never read from a
// configuration file, so they are stripped from the published schema.
var invocationOnlyFields = map[string]struct{}{
	"cwd":         {},
	"config_file": {},
	"env_file":    {},
}

func pruneInvocationFields(node any) bool {
	updated := false
	switch value := node.(type) {
	case map[string]any:
		if props, ok := value["properties"].(map[string]any); ok {
			for key := range props {
				if _, drop := invocationOnlyFields[key]; drop {
					delete(props, key)
					updated = true
				}
			}
		}
		for _, entry := range value {
			updated = pruneInvocationFields(entry) || updated
		}
	case []any:
		for _, item := range value {
			updated = pruneInvocationFields(item) || updated
		}
	}
	return updated
}
