package loaders

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/fzipp/bmfont"

	"github.com/osfabias/moss/engine/renderer/metadata"
)

type BitmapFontLoader struct{}

// Load parses an AngelCode .fnt descriptor into the engine's font
// data. Only text format descriptors are supported.
func (fl *BitmapFontLoader) Load(path string, assetType metadata.ResourceType, params interface{}) (*metadata.Resource, error) {
	if filepath.Ext(path) != ".fnt" {
		return nil, fmt.Errorf("unsupported bitmap font file '%s'", path)
	}

	data, err := importFNTFile(path)
	if err != nil {
		return nil, err
	}

	return &metadata.Resource{
		Name:     strings.TrimSuffix(filepath.Base(path), ".fnt"),
		FullPath: path,
		Data:     data,
	}, nil
}

func (fl *BitmapFontLoader) Unload(resource *metadata.Resource) error {
	if data, ok := resource.Data.(*metadata.BitmapFontResourceData); ok {
		data.Data.Glyphs = nil
		data.Data.Kernings = nil
		data.Pages = nil
	}
	resource.Data = nil
	resource.DataSize = 0
	return nil
}

func importFNTFile(fntFileName string) (*metadata.BitmapFontResourceData, error) {
	font, err := bmfont.Load(fntFileName)
	if err != nil {
		return nil, err
	}

	outData := &metadata.BitmapFontResourceData{
		Data: &metadata.FontData{
			Face:       font.Descriptor.Info.Face,
			Size:       uint32(font.Descriptor.Info.Size),
			LineHeight: int32(font.Descriptor.Common.LineHeight),
			Baseline:   int32(font.Descriptor.Common.Base),
			AtlasSizeX: int32(font.Descriptor.Common.ScaleW),
			AtlasSizeY: int32(font.Descriptor.Common.ScaleH),
			Glyphs:     make([]*metadata.FontGlyph, 0, len(font.Descriptor.Chars)),
			Kernings:   make([]*metadata.FontKerning, 0, len(font.Descriptor.Kerning)),
		},
		Pages: make([]*metadata.BitmapFontPage, 0, len(font.Descriptor.Pages)),
	}

	for _, p := range font.Descriptor.Pages {
		outData.Pages = append(outData.Pages, &metadata.BitmapFontPage{
			ID:   int8(p.ID),
			File: p.File,
		})
	}

	for _, g := range font.Descriptor.Chars {
		outData.Data.Glyphs = append(outData.Data.Glyphs, &metadata.FontGlyph{
			Codepoint: g.ID,
			X:         uint16(g.X),
			Y:         uint16(g.Y),
			Width:     uint16(g.Width),
			Height:    uint16(g.Height),
			XOffset:   int16(g.XOffset),
			YOffset:   int16(g.YOffset),
			XAdvance:  int16(g.XAdvance),
			PageID:    uint8(g.Page),
		})
	}

	for p, k := range font.Descriptor.Kerning {
		outData.Data.Kernings = append(outData.Data.Kernings, &metadata.FontKerning{
			Codepoint0: p.First,
			Codepoint1: p.Second,
			Amount:     int16(k.Amount),
		})
	}

	return outData, nil
}
