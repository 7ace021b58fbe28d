package viewer

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"

	"github.com/tek2222/jsrob/urdf"
)

// ModelInfo describes one robot description file available to the viewer.
type ModelInfo struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	URDF string `json:"urdf"`
}

// ListModels scans a directory for URDF files and returns them in directory order. The display
// name is derived from the file name with underscores turned into spaces and words capitalized.
func ListModels(dir string) ([]ModelInfo, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read models directory %q", dir)
	}

	models := []ModelInfo{}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !strings.EqualFold(filepath.Ext(name), "."+urdf.Extension) {
			continue
		}
		id := strings.TrimSuffix(name, filepath.Ext(name))
		models = append(models, ModelInfo{
			ID:   id,
			Name: displayName(id),
			URDF: name,
		})
	}
	return models, nil
}

func displayName(id string) string {
	words := strings.Split(strings.ReplaceAll(id, "_", " "), " ")
	for i, word := range words {
		if word == "" {
			continue
		}
		words[i] = strings.ToUpper(word[:1]) + word[1:]
	}
	return strings.Join(words, " ")
}
