package emit

import (
	"fmt"
	"os"
	"path/filepath"

	"irlink/internal/codegen"
)

// File permission constants.
const (
	dirPerm  = 0o755
	filePerm = 0o644
)

// WriteFiles writes every artifact under outputDir/<package>/. It creates
// directories as needed and returns the written paths.
func WriteFiles(artifacts []*codegen.Artifact, outputDir string) ([]string, error) {
	var written []string

	for _, art := range artifacts {
		dir := filepath.Join(outputDir, filepath.FromSlash(art.Package))

		if err := os.MkdirAll(dir, dirPerm); err != nil {
			return written, fmt.Errorf("creating output directory: %w", err)
		}

		for _, file := range art.Files {
			outputPath := filepath.Join(dir, file.Filename)

			if err := os.WriteFile(outputPath, file.Content, filePerm); err != nil {
				return written, fmt.Errorf("writing file %s: %w", file.Filename, err)
			}

			written = append(written, outputPath)
		}
	}

	return written, nil
}
