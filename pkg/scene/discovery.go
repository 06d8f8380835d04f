package scene

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// SceneInfo describes a scene the renderer can be pointed at
type SceneInfo struct {
	ID          string `json:"id"`          // Builtin name, or "file:<base name>"
	Name        string `json:"name"`        // Display name
	Description string `json:"description"` // Optional description
	Type        string `json:"type"`        // "builtin" or "file"
	FilePath    string `json:"filePath"`    // Path to the scene document (file type only)
}

// ListAllScenes returns the built-in scenes followed by the scene documents
// found in dir. A missing directory only yields the built-ins.
func ListAllScenes(dir string) ([]SceneInfo, error) {
	var scenes []SceneInfo
	for _, name := range BuiltinNames() {
		scenes = append(scenes, SceneInfo{
			ID:          name,
			Name:        titleCase(name),
			Description: builtins[name].description,
			Type:        "builtin",
		})
	}

	files, err := ListSceneFiles(dir)
	if err != nil {
		return nil, err
	}
	return append(scenes, files...), nil
}

// ListSceneFiles scans dir for *.json scene documents, sorted by name
func ListSceneFiles(dir string) ([]SceneInfo, error) {
	if _, err := os.Stat(dir); err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to scan scenes directory: %w", err)
	}

	files, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return nil, fmt.Errorf("failed to scan scenes directory: %w", err)
	}

	var scenes []SceneInfo
	for _, filePath := range files {
		info, err := ParseSceneMetadata(filePath)
		if err != nil {
			// Not a scene document
			continue
		}
		scenes = append(scenes, info)
	}

	sort.Slice(scenes, func(i, j int) bool {
		return scenes[i].Name < scenes[j].Name
	})
	return scenes, nil
}

// ParseSceneMetadata reads the optional top-level "name" and "description"
// keys of a scene document. Documents without an object_list are rejected.
func ParseSceneMetadata(filePath string) (SceneInfo, error) {
	filename := filepath.Base(filePath)
	nameWithoutExt := strings.TrimSuffix(filename, filepath.Ext(filename))

	info := SceneInfo{
		ID:       "file:" + nameWithoutExt,
		Name:     titleCase(nameWithoutExt),
		Type:     "file",
		FilePath: filePath,
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		return info, err
	}

	var meta struct {
		Name        string          `json:"name"`
		Description string          `json:"description"`
		ObjectList  json.RawMessage `json:"object_list"`
	}
	if err := json.Unmarshal(data, &meta); err != nil {
		return info, fmt.Errorf("%s: %w", filePath, err)
	}
	if meta.ObjectList == nil {
		return info, fmt.Errorf("%s: not a scene document", filePath)
	}

	if meta.Name != "" {
		info.Name = meta.Name
	}
	info.Description = meta.Description
	return info, nil
}

// titleCase turns "cornell-box_2" into "Cornell Box 2"
func titleCase(s string) string {
	s = strings.ReplaceAll(s, "-", " ")
	s = strings.ReplaceAll(s, "_", " ")

	words := strings.Fields(s)
	for i, word := range words {
		if len(word) > 0 {
			words[i] = strings.ToUpper(word[:1]) + strings.ToLower(word[1:])
		}
	}

	return strings.Join(words, " ")
}
