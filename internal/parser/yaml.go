package parser

import (
	"errors"
	"fmt"
	"io"

	"github.com/dgallion1/paramdocs/internal/page"
	"gopkg.in/yaml.v3"
)

// YAMLParser handles page definitions written as YAML documents:
//
//	title: digest_mass_range
//	description:
//	  - Defines the mass range of peptides to search.
//	default: "600.0 8000.0"
//	examples:
//	  - command: digest_mass_range = 600.0 8000.0
//	    note: search only 600.0 to 8000.0 mass range
type YAMLParser struct{}

func (p *YAMLParser) Parse(r io.Reader, filename string) (*page.Page, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var pg page.Page
	if err := dec.Decode(&pg); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("parse yaml %s: empty document", filename)
		}
		return nil, fmt.Errorf("parse yaml %s: %w", filename, err)
	}
	return &pg, nil
}
