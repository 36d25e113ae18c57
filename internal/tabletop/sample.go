package tabletop

import (
	_ "embed"
	"fmt"
)

//go:embed scenes/sample.toml
var sampleScene []byte

// SampleScene returns the bundled demo scene used when no scene file is
// configured.
func SampleScene() (*SceneFile, error) {
	sc, err := ParseScene(sampleScene)
	if err != nil {
		return nil, fmt.Errorf("bundled scene: %w", err)
	}
	return sc, nil
}
