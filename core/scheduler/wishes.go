package scheduler

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/kilianp07/teamday/core/model"
)

// WishFile is the on-disk layout of a list of wishes.
type WishFile struct {
	Wishes []model.Wish `json:"wishes" yaml:"wishes"`
}

// LoadWishes reads wishes from a JSON or YAML file, keeping row order.
func LoadWishes(path string) ([]model.Wish, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()
	return DecodeWishes(f, strings.TrimPrefix(filepath.Ext(path), "."))
}

// DecodeWishes reads a WishFile from r.
func DecodeWishes(r io.Reader, format string) ([]model.Wish, error) {
	var wf WishFile
	if err := decode(r, format, &wf); err != nil {
		return nil, err
	}
	return wf.Wishes, nil
}
