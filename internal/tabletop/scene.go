package tabletop

import (
	"errors"
	"fmt"
	"os"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/Garsondee/map-awareness/internal/host"
)

var (
	ErrDuplicateID  = errors.New("duplicate id")
	ErrUnknownUser  = errors.New("unknown user")
	ErrUnknownToken = errors.New("unknown token")
	ErrUnknownActor = errors.New("unknown actor")
)

// SceneFile is the on-disk TOML layout of a scene.
type SceneFile struct {
	Name        string      `toml:"name"`
	Width       float64     `toml:"width"`
	Height      float64     `toml:"height"`
	GridSize    float64     `toml:"gridSize"`
	CurrentUser string      `toml:"currentUser"`
	Users       []UserSpec  `toml:"users"`
	Actors      []ActorSpec `toml:"actors"`
	Tokens      []TokenSpec `toml:"tokens"`
	Camera      *CameraSpec `toml:"camera,omitempty"`
}

// UserSpec describes a user.
type UserSpec struct {
	ID        string `toml:"id"`
	Name      string `toml:"name"`
	GM        bool   `toml:"gm"`
	Character string `toml:"character,omitempty"`
	Color     string `toml:"color,omitempty"`
}

// ActorSpec describes an actor. Ownership levels are 0-3.
type ActorSpec struct {
	ID        string         `toml:"id"`
	Name      string         `toml:"name"`
	Kind      string         `toml:"kind"`
	Ownership map[string]int `toml:"ownership,omitempty"`
}

// TokenSpec describes a placed token. Actor may name an actor that does not
// exist; such tokens have no backing actor.
type TokenSpec struct {
	ID     string  `toml:"id"`
	Name   string  `toml:"name"`
	Actor  string  `toml:"actor"`
	X      float64 `toml:"x"`
	Y      float64 `toml:"y"`
	Size   float64 `toml:"size"`
	Hidden bool    `toml:"hidden"`
}

// CameraSpec is the initial view.
type CameraSpec struct {
	X    float64 `toml:"x"`
	Y    float64 `toml:"y"`
	Zoom float64 `toml:"zoom"`
}

const (
	defaultSceneSize = 4000
	defaultGridSize  = 100
)

// LoadScene reads and validates a scene file.
func LoadScene(path string) (*SceneFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scene: %w", err)
	}
	sc, err := ParseScene(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return sc, nil
}

// ParseScene decodes and validates TOML scene data, filling defaults.
func ParseScene(data []byte) (*SceneFile, error) {
	var sc SceneFile
	if err := toml.Unmarshal(data, &sc); err != nil {
		return nil, fmt.Errorf("decoding scene: %w", err)
	}
	if err := sc.validate(); err != nil {
		return nil, err
	}
	sc.applyDefaults()
	return &sc, nil
}

// Encode writes the scene back to TOML.
func (sc *SceneFile) Encode() ([]byte, error) {
	return toml.Marshal(sc)
}

func (sc *SceneFile) validate() error {
	seen := make(map[string]bool)
	check := func(kind, id string) error {
		if id == "" {
			return fmt.Errorf("%s with empty id", kind)
		}
		key := kind + ":" + id
		if seen[key] {
			return fmt.Errorf("%s %q: %w", kind, id, ErrDuplicateID)
		}
		seen[key] = true
		return nil
	}
	for _, u := range sc.Users {
		if err := check("user", u.ID); err != nil {
			return err
		}
	}
	for _, a := range sc.Actors {
		if err := check("actor", a.ID); err != nil {
			return err
		}
		for uid, lvl := range a.Ownership {
			if lvl < int(host.PermissionNone) || lvl > int(host.PermissionOwner) {
				return fmt.Errorf("actor %q ownership %q: level %d out of range", a.ID, uid, lvl)
			}
		}
	}
	for _, t := range sc.Tokens {
		if err := check("token", t.ID); err != nil {
			return err
		}
	}
	if !seen["user:"+sc.CurrentUser] {
		return fmt.Errorf("current user %q: %w", sc.CurrentUser, ErrUnknownUser)
	}
	return nil
}

func (sc *SceneFile) applyDefaults() {
	if sc.Width <= 0 {
		sc.Width = defaultSceneSize
	}
	if sc.Height <= 0 {
		sc.Height = defaultSceneSize
	}
	if sc.GridSize <= 0 {
		sc.GridSize = defaultGridSize
	}
	for i := range sc.Tokens {
		if sc.Tokens[i].Size <= 0 {
			sc.Tokens[i].Size = sc.GridSize
		}
	}
	if sc.Camera == nil {
		sc.Camera = &CameraSpec{X: sc.Width / 2, Y: sc.Height / 2, Zoom: 1}
	}
	if sc.Camera.Zoom <= 0 {
		sc.Camera.Zoom = 1
	}
}
