package fragment

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path"
)

// DirSource reads fragments from <Dir>/<name>.html inside an fs.FS, which
// may be an embedded filesystem or os.DirFS.
type DirSource struct {
	FS  fs.FS
	Dir string
}

func (s DirSource) Load(ctx context.Context, name Name) ([]byte, error) {
	if !Known(name) {
		return nil, &FragmentMissingError{Name: name, Err: errors.New("unknown fragment name")}
	}
	p := path.Join(s.Dir, string(name)+".html")
	data, err := fs.ReadFile(s.FS, p)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &FragmentMissingError{Name: name, Err: err}
		}
		return nil, fmt.Errorf("read fragment %s: %w", p, err)
	}
	return data, nil
}
