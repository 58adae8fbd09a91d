package assets

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/osfabias/moss/engine/assets/loaders"
	"github.com/osfabias/moss/engine/core"
	"github.com/osfabias/moss/engine/renderer/metadata"
)

type AssetInfo struct {
	Path       string
	Type       metadata.ResourceType
	LastLoaded time.Time
}

type AssetManager struct {
	assetsDir string
	assets    map[string]AssetInfo
	loaders   map[metadata.ResourceType]Loader

	mutex sync.RWMutex

	// Invoked from the watcher goroutine whenever an indexed asset
	// changes on disk. Useful for hot reloading.
	OnAssetChanged func(path string, assetType metadata.ResourceType)

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
		assets:   make(map[string]AssetInfo),
		loaders:  make(map[metadata.ResourceType]Loader),
		fsnotify: fsWatch,
		done:     make(chan struct{}),
	}, nil
}

// Initialize indexes every asset under the given directory and starts
// watching it for changes.
func (am *AssetManager) Initialize(assetsDir string) error {
	am.assetsDir = assetsDir

	go am.start()

	if err := am.watchRecursive(assetsDir); err != nil {
		return err
	}

	// Register loaders
	am.registerLoader(metadata.ResourceTypeShader, &loaders.ShaderLoader{})
	am.registerLoader(metadata.ResourceTypeImage, &loaders.TextureLoader{})
	am.registerLoader(metadata.ResourceTypeBitmapFont, &loaders.BitmapFontLoader{})

	return nil
}

func (am *AssetManager) Shutdown() {
	if am.isClosed {
		return
	}
	am.isClosed = true
	close(am.done)
}

// Register loaders for each asset type
func (am *AssetManager) registerLoader(assetType metadata.ResourceType, loader Loader) {
	am.loaders[assetType] = loader
}

// LoadAsset loads the named asset with the loader registered for its
// type. The name is resolved under the assets directory.
func (am *AssetManager) LoadAsset(name string, resourceType metadata.ResourceType, params interface{}) (*metadata.Resource, error) {
	var path string
	switch resourceType {
	case metadata.ResourceTypeShader:
		path = filepath.Join(am.assetsDir, "shaders", name+".spv")
	case metadata.ResourceTypeImage:
		path = filepath.Join(am.assetsDir, "textures", name+".png")
	case metadata.ResourceTypeBitmapFont:
		path = filepath.Join(am.assetsDir, "fonts", name+".fnt")
	default:
		return nil, fmt.Errorf("unknown resource type %d", resourceType)
	}

	am.mutex.RLock()
	asset, exists := am.assets[path]
	am.mutex.RUnlock()
	if !exists {
		return nil, fmt.Errorf("asset not found: %s", path)
	}

	loader, loaderExists := am.loaders[asset.Type]
	if !loaderExists {
		return nil, fmt.Errorf("no loader registered for asset type: %d", asset.Type)
	}

	resource, err := loader.Load(path, resourceType, params)
	if err != nil {
		return nil, err
	}

	asset.LastLoaded = time.Now()
	am.mutex.Lock()
	am.assets[path] = asset
	am.mutex.Unlock()

	return resource, nil
}

func (am *AssetManager) UnloadAsset(resource *metadata.Resource, resourceType metadata.ResourceType) error {
	loader, exists := am.loaders[resourceType]
	if !exists {
		return fmt.Errorf("no loader registered for asset type: %d", resourceType)
	}
	return loader.Unload(resource)
}

// LoadShaderCode is a shortcut for fetching a SPIR-V binary.
func (am *AssetManager) LoadShaderCode(name string) ([]byte, error) {
	resource, err := am.LoadAsset(name, metadata.ResourceTypeShader, nil)
	if err != nil {
		return nil, err
	}
	return resource.Data.([]byte), nil
}

// LoadTexture is a shortcut for fetching decoded RGBA8 pixel data.
func (am *AssetManager) LoadTexture(name string) (*metadata.Texture, error) {
	resource, err := am.LoadAsset(name, metadata.ResourceTypeImage, nil)
	if err != nil {
		return nil, err
	}
	return resource.Data.(*metadata.Texture), nil
}

// LoadBitmapFont is a shortcut for fetching a parsed font descriptor.
func (am *AssetManager) LoadBitmapFont(name string) (*metadata.BitmapFontResourceData, error) {
	resource, err := am.LoadAsset(name, metadata.ResourceTypeBitmapFont, nil)
	if err != nil {
		return nil, err
	}
	return resource.Data.(*metadata.BitmapFontResourceData), nil
}

func (am *AssetManager) start() {
	for {
		select {

		case e := <-am.fsnotify.Events:
			s, err := os.Stat(e.Name)
			if err == nil && s != nil && s.IsDir() {
				if e.Op&fsnotify.Create != 0 {
					am.watchRecursive(e.Name)
				}
			}
			// Handle create or modify events
			if e.Op&(fsnotify.Create|fsnotify.Write) != 0 {
				am.handleFileEvent(e.Name)
			}
			// Can't stat a deleted path, so drop it from both the index
			// and the watch list unconditionally.
			if e.Op&fsnotify.Remove != 0 {
				am.removeAsset(e.Name)
				am.fsnotify.Remove(e.Name)
			}

		case e := <-am.fsnotify.Errors:
			core.LogError(e.Error())

		case <-am.done:
			am.fsnotify.Close()
			return
		}
	}
}

// watchRecursive adds all directories under the given one to the watch
// list and indexes the files found along the way.
func (am *AssetManager) watchRecursive(path string) error {
	return filepath.Walk(path, func(walkPath string, fi os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if fi.IsDir() {
			if err = am.fsnotify.Add(walkPath); err != nil {
				return err
			}
		} else {
			am.handleFileEvent(walkPath)
		}
		return nil
	})
}

// Handle the creation or modification of a file
func (am *AssetManager) handleFileEvent(path string) {
	assetType := determineAssetType(path)
	if assetType == metadata.ResourceTypeNone {
		return
	}

	am.mutex.Lock()
	_, known := am.assets[path]
	am.assets[path] = AssetInfo{
		Path: path,
		Type: assetType,
	}
	am.mutex.Unlock()

	if known {
		core.LogDebug("Asset changed on disk: %s", path)
		if am.OnAssetChanged != nil {
			am.OnAssetChanged(path, assetType)
		}
	}
}

// Remove the asset from the index if it was deleted
func (am *AssetManager) removeAsset(path string) {
	am.mutex.Lock()
	defer am.mutex.Unlock()

	delete(am.assets, path)
}

func determineAssetType(path string) metadata.ResourceType {
	switch filepath.Ext(path) {
	case ".spv":
		return metadata.ResourceTypeShader
	case ".png", ".jpg":
		return metadata.ResourceTypeImage
	case ".fnt":
		return metadata.ResourceTypeBitmapFont
	default:
		return metadata.ResourceTypeNone
	}
}
