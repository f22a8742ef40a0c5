package seed

import (
	"context"
	"fmt"

	"Coordinator/internal/catalog/app"

	"github.com/viant/afs"
	"gopkg.in/yaml.v3"
)

// Document 种子文件格式：
//
//	maps:
//	  - name: Erangel
//	    version: "1.0"
//	    coordinates:
//	      - {name: spawn, x: 1, y: 2, z: 0}
type Document struct {
	Maps []app.SeedMap `yaml:"maps"`
}

// Load 通过 afs 下载（file://、mem://、http(s):// 等）并解析种子文件。
func Load(ctx context.Context, url string) ([]app.SeedMap, error) {
	fs := afs.New()
	data, err := fs.DownloadWithURL(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("download seed %q: %w", url, err)
	}
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse seed %q: %w", url, err)
	}
	return doc.Maps, nil
}

// Importer 只在空库时导入。
type Importer interface {
	ImportIfEmpty(ctx context.Context, seeds []app.SeedMap) (int, error)
}

// Apply url 为空时什么也不做。
func Apply(ctx context.Context, url string, imp Importer) (int, error) {
	if url == "" {
		return 0, nil
	}
	seeds, err := Load(ctx, url)
	if err != nil {
		return 0, err
	}
	return imp.ImportIfEmpty(ctx, seeds)
}
