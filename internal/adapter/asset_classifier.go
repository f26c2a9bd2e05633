package adapter

import (
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/h2non/filetype"

	m "copydeps.dev/pkg/copydeps/internal/model"
)

// headerSize is the number of leading bytes filetype needs to match every
// known signature.
const headerSize = 262

var textureExtensions = map[string]bool{
	".exr": true,
	".hdr": true,
	".tx":  true,
	".tga": true,
	".png": true,
	".jpg": true,
	".tif": true,
}

var meshExtensions = map[string]bool{
	".obj":        true,
	".binarymesh": true,
	".abc":        true,
}

// AssetClassifier sorts dependencies into coarse kinds for reporting.
type AssetClassifier interface {
	Classify(path m.Path) m.AssetKind
}

// SniffingAssetClassifier inspects file headers and falls back to extensions.
type SniffingAssetClassifier struct {
	fs AssetFSAdapter
}

// NewAssetClassifier returns a classifier reading headers through fs.
func NewAssetClassifier(fs AssetFSAdapter) *SniffingAssetClassifier {
	return &SniffingAssetClassifier{fs: fs}
}

// Classify returns the kind of the asset at path.
func (c *SniffingAssetClassifier) Classify(path m.Path) m.AssetKind {
	header, err := c.readHeader(path)
	if err != nil {
		slog.Debug("header sniff failed, using extension", "path", path, "error", err)
	} else if filetype.IsImage(header) {
		return m.KindTexture
	}

	return classifyByExtension(path)
}

func (c *SniffingAssetClassifier) readHeader(path m.Path) ([]byte, error) {
	file, err := c.fs.Open(path)
	if err != nil {
		return nil, err
	}

	defer func() { _ = file.Close() }()

	header := make([]byte, headerSize)

	n, err := io.ReadFull(file, header)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return nil, err
	}

	return header[:n], nil
}

func classifyByExtension(path m.Path) m.AssetKind {
	ext := strings.ToLower(filepath.Ext(string(path)))

	switch {
	case textureExtensions[ext]:
		return m.KindTexture
	case meshExtensions[ext]:
		return m.KindMesh
	default:
		return m.KindOther
	}
}
