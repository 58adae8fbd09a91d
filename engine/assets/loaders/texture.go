package loaders

import (
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/draw"

	"github.com/osfabias/moss/engine/renderer/metadata"
)

type TextureLoader struct{}

// Load decodes an image file and flattens it to tightly packed RGBA8
// pixels, the only layout the renderer uploads.
func (tl *TextureLoader) Load(path string, assetType metadata.ResourceType, params interface{}) (*metadata.Resource, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		return nil, err
	}

	bounds := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, bounds.Min, draw.Src)

	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	texture := &metadata.Texture{
		ID:           metadata.InvalidID,
		Width:        uint32(bounds.Dx()),
		Height:       uint32(bounds.Dy()),
		ChannelCount: 4,
		Name:         name,
		Pixels:       rgba.Pix,
	}

	return &metadata.Resource{
		Name:     name,
		FullPath: path,
		DataSize: uint64(len(rgba.Pix)),
		Data:     texture,
	}, nil
}

func (tl *TextureLoader) Unload(resource *metadata.Resource) error {
	if texture, ok := resource.Data.(*metadata.Texture); ok {
		texture.Pixels = nil
	}
	resource.Data = nil
	resource.DataSize = 0
	return nil
}
