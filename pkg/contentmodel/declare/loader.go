// Package declare loads content type definitions from YAML or JSON files so
// schemas can be declared without Go code.
//
// A file holds one or more YAML documents. Each document is either a single
// definition:
//
//	id: Page
//	regions:
//	  - id: Body
//	    type: Html
//
// or a list under contentTypes:
//
//	contentTypes:
//	  - id: Page
//	    ...
package declare

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/tendant/content-model/pkg/contentmodel"
)

type documentFile struct {
	ContentTypes                []contentmodel.TypeDefinition `yaml:"contentTypes"`
	contentmodel.TypeDefinition `yaml:",inline"`
}

// Parse decodes every definition in r. Unknown keys are rejected. source
// names r in error messages.
func Parse(r io.Reader, source string) ([]contentmodel.TypeDefinition, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var defs []contentmodel.TypeDefinition
	for n := 1; ; n++ {
		var doc documentFile
		err := dec.Decode(&doc)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("declare: parse %s: %w", source, err)
		}

		switch {
		case len(doc.ContentTypes) > 0 && doc.ID != "":
			return nil, fmt.Errorf("declare: %s document %d mixes contentTypes with a top-level id", source, n)
		case len(doc.ContentTypes) > 0:
			defs = append(defs, doc.ContentTypes...)
		case doc.ID != "":
			defs = append(defs, doc.TypeDefinition)
		default:
			return nil, fmt.Errorf("declare: %s document %d declares no content type", source, n)
		}
	}
	return defs, nil
}

// LoadFile parses the definitions in the named file.
func LoadFile(name string) ([]contentmodel.TypeDefinition, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, fmt.Errorf("declare: %w", err)
	}
	defer f.Close()
	return Parse(f, name)
}

// LoadFS walks fsys in lexical order and parses every .yaml, .yml and .json
// file. A content type id declared twice is an error naming both files.
func LoadFS(fsys fs.FS) ([]contentmodel.TypeDefinition, error) {
	var defs []contentmodel.TypeDefinition
	sources := make(map[string]string)

	err := fs.WalkDir(fsys, ".", func(p string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if entry.IsDir() || !isDefinitionFile(p) {
			return nil
		}

		f, err := fsys.Open(p)
		if err != nil {
			return fmt.Errorf("declare: read %s: %w", p, err)
		}
		parsed, err := Parse(f, p)
		f.Close()
		if err != nil {
			return err
		}

		for _, def := range parsed {
			if prev, exists := sources[def.ID]; exists {
				return fmt.Errorf("declare: content type %q declared in both %s and %s", def.ID, prev, p)
			}
			sources[def.ID] = p
		}
		defs = append(defs, parsed...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return defs, nil
}

// LoadDir is LoadFS over a directory on disk.
func LoadDir(dir string) ([]contentmodel.TypeDefinition, error) {
	return LoadFS(os.DirFS(dir))
}

// Declarers adapts definitions for the extractor.
func Declarers(defs []contentmodel.TypeDefinition) []contentmodel.Declarer {
	out := make([]contentmodel.Declarer, len(defs))
	for i, def := range defs {
		out[i] = def
	}
	return out
}

func isDefinitionFile(p string) bool {
	switch strings.ToLower(path.Ext(p)) {
	case ".yaml", ".yml", ".json":
		return true
	}
	return false
}
