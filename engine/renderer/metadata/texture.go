package metadata

const (
	/** @brief The default texture name. */
	DEFAULT_TEXTURE_NAME string = "default"

	/** @brief An invalid identifier or generation value. */
	InvalidID uint32 = 4294967295
)

/**
 * @brief Represents a texture.
 */
type Texture struct {
	/** @brief The unique texture identifier. */
	ID uint32
	/** @brief The texture Width. */
	Width uint32
	/** @brief The texture Height. */
	Height uint32
	/** @brief The number of channels in the texture. */
	ChannelCount uint8
	/** @brief The texture Generation. Incremented every time the data is reloaded. */
	Generation uint32
	/** @brief The texture Name. */
	Name string
	/** @brief The raw texture data (pixels), tightly packed RGBA. */
	Pixels []uint8
	/** @brief A pointer to internal, render API-specific data. */
	InternalData interface{}
}

// NewDefaultTexture builds a 256x256 blue/white checkerboard in code so
// the renderer always has something to sample before assets load.
func NewDefaultTexture() *Texture {
	texDimension := uint32(256)
	channels := uint32(4)
	pixelCount := texDimension * texDimension

	pixels := make([]uint8, pixelCount*channels)
	for i := range pixels {
		pixels[i] = 255
	}

	for row := uint32(0); row < texDimension; row++ {
		for col := uint32(0); col < texDimension; col++ {
			index := (row * texDimension) + col
			index_bpp := index * channels
			if row%2 != 0 {
				if col%2 != 0 {
					pixels[index_bpp+0] = 0
					pixels[index_bpp+1] = 0
				}
			} else {
				if col%2 == 0 {
					pixels[index_bpp+0] = 0
					pixels[index_bpp+1] = 0
				}
			}
		}
	}

	return &Texture{
		Name:         DEFAULT_TEXTURE_NAME,
		Width:        texDimension,
		Height:       texDimension,
		ChannelCount: 4,
		Generation:   InvalidID,
		Pixels:       pixels,
	}
}
