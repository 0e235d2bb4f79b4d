package scenario

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// LoadedScenario pairs a parsed Scenario with the file it came from, for
// error messages.
type LoadedScenario struct {
	File     string
	Scenario Scenario
}

// LoadAll walks dir for *.yaml scenario files, the same directory-walk +
// yaml.Unmarshal shape as the teacher's conformance.LoadAllTests.
func LoadAll(dir string) ([]LoadedScenario, error) {
	var loaded []LoadedScenario

	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() || filepath.Ext(path) != ".yaml" {
			return nil
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}

		var s Scenario
		if err := yaml.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("parsing %s: %w", path, err)
		}

		loaded = append(loaded, LoadedScenario{File: path, Scenario: s})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return loaded, nil
}
