package animation

import (
	"fmt"

	"github.com/spaghettifunk/ossa/engine/core"
)

/**
 * @brief A complete, named animation over some subset of bones with
 * a fixed duration and loop flag. Channels are created once at import
 * time; only the Looping flag may change afterwards.
 */
type Clip struct {
	/** @brief The clip name. Generated by the collection when empty. */
	Name string
	/** @brief Clip-wide duration in seconds, independent of any single channel. */
	Duration float32
	/** @brief Whether playback wraps around Duration. Defaults to true at import. */
	Looping bool

	channels map[string]*Channel
}

// NewClip builds a clip from imported channels. A declared duration
// shorter than the longest channel is degenerate data, not an error:
// the duration is raised to cover every keyframe.
func NewClip(name string, duration float32, channels []*Channel, looping bool) (*Clip, error) {
	clip := &Clip{
		Name:     name,
		Duration: duration,
		Looping:  looping,
		channels: make(map[string]*Channel, len(channels)),
	}
	for _, channel := range channels {
		if channel == nil {
			return nil, fmt.Errorf("clip %q has a nil channel", name)
		}
		if _, exists := clip.channels[channel.BoneName]; exists {
			return nil, fmt.Errorf("clip %q has duplicate channel for bone %q", name, channel.BoneName)
		}
		clip.channels[channel.BoneName] = channel
		if end := channel.EndTime(); end > clip.Duration {
			core.LogWarn("clip %q declares duration %f shorter than channel %q end %f, raising", name, duration, channel.BoneName, end)
			clip.Duration = end
		}
	}
	return clip, nil
}

// Channel returns the channel animating the given bone, if any.
func (c *Clip) Channel(boneName string) (*Channel, bool) {
	channel, ok := c.channels[boneName]
	return channel, ok
}

// Channels exposes the bone-to-channel mapping for one-pass sampling.
// Callers must treat it as read-only.
func (c *Clip) Channels() map[string]*Channel {
	return c.channels
}

/**
 * @brief An ordered set of clips imported from one model asset, indexed
 * by name and position. Shared read-only by every animator that plays
 * clips from it; playback never mutates the collection.
 */
type Collection struct {
	/** @brief The collection name, usually the source asset's. */
	Name string

	clips       []*Clip
	nameToIndex map[string]int
}

// NewCollection indexes the imported clips. Unnamed clips receive a
// generated "Animation_<i>" name; duplicate names resolve to the
// first-seen index.
func NewCollection(name string, clips []*Clip) *Collection {
	collection := &Collection{
		Name:        name,
		clips:       clips,
		nameToIndex: make(map[string]int, len(clips)),
	}
	for i, clip := range clips {
		if clip.Name == "" {
			clip.Name = fmt.Sprintf("Animation_%d", i)
		}
		if _, exists := collection.nameToIndex[clip.Name]; !exists {
			collection.nameToIndex[clip.Name] = i
		}
	}
	return collection
}

// Len returns the number of clips.
func (c *Collection) Len() int {
	return len(c.clips)
}

// Clip returns the clip at the given position.
func (c *Collection) Clip(index int) (*Clip, bool) {
	if index < 0 || index >= len(c.clips) {
		return nil, false
	}
	return c.clips[index], true
}

// Find resolves a clip by name to the clip and its position.
func (c *Collection) Find(name string) (*Clip, int, bool) {
	index, ok := c.nameToIndex[name]
	if !ok {
		return nil, -1, false
	}
	return c.clips[index], index, true
}
