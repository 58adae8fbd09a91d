package loaders

import (
	"fmt"
	"os"

	"github.com/osfabias/moss/engine/renderer/metadata"
)

type ShaderLoader struct{}

// Load reads a compiled SPIR-V binary from disk.
func (sl *ShaderLoader) Load(path string, assetType metadata.ResourceType, params interface{}) (*metadata.Resource, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 || len(data)%4 != 0 {
		return nil, fmt.Errorf("'%s' is not a SPIR-V binary", path)
	}
	return &metadata.Resource{
		Name:     path,
		FullPath: path,
		DataSize: uint64(len(data)),
		Data:     data,
	}, nil
}

func (sl *ShaderLoader) Unload(*metadata.Resource) error {
	return nil
}
