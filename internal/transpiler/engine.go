// Package transpiler converts Minecraft Java Edition mod jars into
// Bedrock Edition addons. It extracts item and block textures and
// recipe definitions from the jar, infers Bedrock item/block
// properties from them, and packages a behavior pack plus resource
// pack as a single .mcaddon archive.
package transpiler

import (
	"fmt"
	"os"
	"time"
)

// Transpile converts the jar at jarPath into a .mcaddon under
// outputDir and reports what was produced.
func Transpile(jarPath, outputDir string) (*Result, error) {
	start := time.Now()

	if _, err := os.Stat(jarPath); err != nil {
		return nil, fmt.Errorf("jar not found: %w", err)
	}
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}

	analyzer := NewAnalyzer(jarPath)
	if err := analyzer.Analyze(); err != nil {
		return nil, err
	}

	generator := NewGenerator(analyzer.ModID, outputDir)
	if err := generator.Generate(analyzer); err != nil {
		return nil, err
	}

	return &Result{
		ModID:      analyzer.ModID,
		OutputFile: generator.OutputFile(),
		Stats:      generator.Stats(),
		Elapsed:    time.Since(start),
	}, nil
}
