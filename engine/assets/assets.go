package assets

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spaghettifunk/ossa/engine/animation"
	"github.com/spaghettifunk/ossa/engine/assets/loaders"
	"github.com/spaghettifunk/ossa/engine/core"
)

// AnimExtension is the file extension recognized as a clip collection.
const AnimExtension = ".anim"

type AssetInfo struct {
	Path       string
	LastLoaded time.Time
}

// AssetManager owns every clip collection loaded from disk and keeps
// them fresh: the assets directory is watched with fsnotify and a
// changed .anim file is reparsed in place, so a running animator picks
// up the new collection on its next SetCollection. Reloads are
// announced through EVENT_CODE_ASSET_RELOADED.
type AssetManager struct {
	assets      map[string]AssetInfo
	collections map[string]*animation.Collection
	loader      *loaders.AnimationLoader

	mutex sync.RWMutex

	done     chan struct{}
	fsnotify *fsnotify.Watcher
	isClosed bool
}

func NewAssetManager() (*AssetManager, error) {
	fsWatch, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	return &AssetManager{
		assets:      make(map[string]AssetInfo),
		collections: make(map[string]*animation.Collection),
		loader:      &loaders.AnimationLoader{},
		fsnotify:    fsWatch,
		done:        make(chan struct{}),
	}, nil
}

// Initialize loads every .anim file under assetsDir and starts the
// watcher goroutine. A missing directory only disables hot-reload.
func (am *AssetManager) Initialize(assetsDir string) error {
	go am.start()

	if _, err := os.Stat(assetsDir); os.IsNotExist(err) {
		core.LogWarn("assets directory %s does not exist, hot-reload disabled", assetsDir)
		return nil
	}
	return am.addRecursive(assetsDir)
}

// Collection returns the loaded collection with the given name.
func (am *AssetManager) Collection(name string) (*animation.Collection, bool) {
	am.mutex.RLock()
	defer am.mutex.RUnlock()
	c, ok := am.collections[name]
	return c, ok
}

// CollectionNames lists every loaded collection.
func (am *AssetManager) CollectionNames() []string {
	am.mutex.RLock()
	defer am.mutex.RUnlock()
	names := make([]string, 0, len(am.collections))
	for name := range am.collections {
		names = append(names, name)
	}
	return names
}

// addRecursive starts watching the named directory and all
// sub-directories, loading the animation files it finds on the way.
func (am *AssetManager) addRecursive(name string) error {
	if am.isClosed {
		return errors.New("asset manager already closed")
	}
	return am.watchRecursive(name, false)
}

func (am *AssetManager) start() {
	for {
		select {
		case e := <-am.fsnotify.Events:
			s, err := os.Stat(e.Name)
			if err == nil && s != nil && s.IsDir() {
				if e.Op&fsnotify.Create != 0 {
					am.watchRecursive(e.Name, false)
				}
				continue
			}
			if e.Op&(fsnotify.Create|fsnotify.Write) != 0 {
				am.handleFileEvent(e.Name)
			}
			if e.Op&fsnotify.Remove != 0 {
				am.removeAsset(e.Name)
				am.fsnotify.Remove(e.Name)
			}

		case e := <-am.fsnotify.Errors:
			if e != nil {
				core.LogError(e.Error())
			}

		case <-am.done:
			am.fsnotify.Close()
			return
		}
	}
}

// watchRecursive adds or removes all directories under the given one
// on the watch list; files are handed to the loader.
func (am *AssetManager) watchRecursive(path string, unWatch bool) error {
	return filepath.Walk(path, func(walkPath string, fi os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if fi.IsDir() {
			if unWatch {
				return am.fsnotify.Remove(walkPath)
			}
			return am.fsnotify.Add(walkPath)
		}
		am.handleFileEvent(walkPath)
		return nil
	})
}

// handleFileEvent parses a created or modified animation file and
// publishes the reload.
func (am *AssetManager) handleFileEvent(path string) {
	if filepath.Ext(path) != AnimExtension {
		return
	}

	collection, err := am.loader.Load(path)
	if err != nil {
		// A half-written file during hot-reload parses again on the
		// next write event; keep the previous collection meanwhile.
		core.LogWarn("asset %s failed to load: %s", path, err.Error())
		return
	}

	am.mutex.Lock()
	am.assets[path] = AssetInfo{Path: path, LastLoaded: time.Now()}
	am.collections[collection.Name] = collection
	am.mutex.Unlock()

	core.LogInfo("loaded animation collection %q (%d clips) from %s", collection.Name, collection.Len(), path)
	core.EventFire(core.EventContext{
		Type: core.EVENT_CODE_ASSET_RELOADED,
		Data: collection.Name,
	})
}

// removeAsset drops a deleted file from the index. The parsed
// collection stays available so running animators are not yanked away.
func (am *AssetManager) removeAsset(path string) {
	am.mutex.Lock()
	defer am.mutex.Unlock()
	delete(am.assets, path)
}

// Shutdown stops the watcher goroutine.
func (am *AssetManager) Shutdown() error {
	if am.isClosed {
		return nil
	}
	am.isClosed = true
	close(am.done)
	return nil
}
