package file

import (
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

// Scan walks dir recursively and returns every file ending in ext, in
// lexical walk order.
func Scan(dir string, ext string) ([]string, error) {
	ext = strings.ToLower(ext)
	var res []string
	walk := func(s string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(strings.ToLower(d.Name()), ext) {
			res = append(res, s)
		}
		return nil
	}
	if err := filepath.WalkDir(dir, walk); err != nil {
		return nil, errors.Wrapf(err, "could not scan %s", dir)
	}
	return res, nil
}
