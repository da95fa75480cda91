package loaders

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/spaghettifunk/ossa/engine/animation"
	"github.com/spaghettifunk/ossa/engine/math"
)

// AnimationLoader reads .anim files, a TOML description of one or more
// clips with per-bone keyframe channels.
type AnimationLoader struct{}

type animKeyConfig struct {
	Time     float32   `toml:"time"`
	Position []float32 `toml:"position"`
	Rotation []float32 `toml:"rotation"`
	Scale    []float32 `toml:"scale"`
}

type animChannelConfig struct {
	Bone string          `toml:"bone"`
	Keys []animKeyConfig `toml:"key"`
}

type animClipConfig struct {
	Name     string              `toml:"name"`
	Duration float32             `toml:"duration"`
	Looping  *bool               `toml:"looping"`
	Channels []animChannelConfig `toml:"channel"`
}

type animFileConfig struct {
	Clips []animClipConfig `toml:"clip"`
}

// Load reads and parses a .anim file into a clip collection named after
// the file.
func (al *AnimationLoader) Load(path string) (*animation.Collection, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return al.Parse(name, data)
}

// Parse decodes the TOML clip description into a collection.
func (al *AnimationLoader) Parse(name string, data []byte) (*animation.Collection, error) {
	var file animFileConfig
	if err := toml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse animation %q: %w", name, err)
	}
	if len(file.Clips) == 0 {
		return nil, fmt.Errorf("animation %q declares no clips", name)
	}

	clips := make([]*animation.Clip, 0, len(file.Clips))
	for _, clipCfg := range file.Clips {
		clip, err := buildClip(clipCfg)
		if err != nil {
			return nil, fmt.Errorf("animation %q: %w", name, err)
		}
		clips = append(clips, clip)
	}
	return animation.NewCollection(name, clips), nil
}

func buildClip(cfg animClipConfig) (*animation.Clip, error) {
	channels := make([]*animation.Channel, 0, len(cfg.Channels))
	for _, channelCfg := range cfg.Channels {
		keys := make([]animation.Keyframe, 0, len(channelCfg.Keys))
		for i, keyCfg := range channelCfg.Keys {
			key, err := buildKeyframe(keyCfg)
			if err != nil {
				return nil, fmt.Errorf("clip %q channel %q key %d: %w", cfg.Name, channelCfg.Bone, i, err)
			}
			keys = append(keys, key)
		}
		channel, err := animation.NewChannel(channelCfg.Bone, keys)
		if err != nil {
			return nil, fmt.Errorf("clip %q: %w", cfg.Name, err)
		}
		channels = append(channels, channel)
	}

	// Clips loop unless the file says otherwise.
	looping := true
	if cfg.Looping != nil {
		looping = *cfg.Looping
	}
	return animation.NewClip(cfg.Name, cfg.Duration, channels, looping)
}

func buildKeyframe(cfg animKeyConfig) (animation.Keyframe, error) {
	key := animation.Keyframe{
		Time:     cfg.Time,
		Position: math.NewVec3Zero(),
		Rotation: math.NewQuatIdentity(),
		Scale:    math.NewVec3One(),
	}
	if cfg.Position != nil {
		if len(cfg.Position) != 3 {
			return key, fmt.Errorf("position needs 3 components, got %d", len(cfg.Position))
		}
		key.Position = math.NewVec3(cfg.Position[0], cfg.Position[1], cfg.Position[2])
	}
	if cfg.Rotation != nil {
		if len(cfg.Rotation) != 4 {
			return key, fmt.Errorf("rotation needs 4 components, got %d", len(cfg.Rotation))
		}
		key.Rotation = math.Quaternion{
			X: cfg.Rotation[0],
			Y: cfg.Rotation[1],
			Z: cfg.Rotation[2],
			W: cfg.Rotation[3],
		}.Normalize()
	}
	if cfg.Scale != nil {
		if len(cfg.Scale) != 3 {
			return key, fmt.Errorf("scale needs 3 components, got %d", len(cfg.Scale))
		}
		key.Scale = math.NewVec3(cfg.Scale[0], cfg.Scale[1], cfg.Scale[2])
	}
	return key, nil
}
