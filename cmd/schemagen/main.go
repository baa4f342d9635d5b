// Command schemagen emits the JSON schemas published with each release: the
// application configuration and the generation record written into every
// generated project.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/goldirana/agentforge/pkg/logger"
)

func main() {
	outDir := flag.String("out", "./schemas", "output directory for generated schemas")
	flag.Parse()

	absOutDir, err := filepath.Abs(*outDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error resolving output directory: %v\n", err)
		os.Exit(1)
	}

	ctx := logger.ContextWithLogger(context.Background(), logger.NewLogger(logger.DefaultConfig()))
	if err := generateSchemas(ctx, absOutDir); err != nil {
		fmt.Fprintf(os.Stderr, "Error generating schemas: %v\n", err)
		os.Exit(1)
	}
}
