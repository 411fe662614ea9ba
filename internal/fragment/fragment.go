package fragment

import (
	"context"
	"errors"
	"fmt"
)

// Name identifies a shared markup fragment.
type Name string

const (
	Head    Name = "head"
	TopMenu Name = "topmenu"
	ImgBar  Name = "imgbar"
	Footer  Name = "footer"
)

// Required lists every fragment a document needs, in assembly order.
var Required = []Name{Head, TopMenu, ImgBar, Footer}

// Known reports whether n is one of the required fragment names.
func Known(n Name) bool {
	for _, r := range Required {
		if r == n {
			return true
		}
	}
	return false
}

// Source fetches raw fragment content by name.
type Source interface {
	Load(ctx context.Context, name Name) ([]byte, error)
}

// ErrFragmentMissing is matched by every FragmentMissingError.
var ErrFragmentMissing = errors.New("fragment missing")

// FragmentMissingError reports a required fragment that could not be loaded.
// It indicates a deployment defect and is not retryable.
type FragmentMissingError struct {
	Name Name
	Err  error
}

func (e *FragmentMissingError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("fragment %q missing: %v", e.Name, e.Err)
	}
	return fmt.Sprintf("fragment %q missing", e.Name)
}

func (e *FragmentMissingError) Unwrap() error { return e.Err }

func (e *FragmentMissingError) Is(target error) bool {
	return target == ErrFragmentMissing
}
