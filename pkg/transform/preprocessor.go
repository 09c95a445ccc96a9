package transform

import (
	"bytes"
	"io"
	"regexp"

	"github.com/agentpkg/pkgsync/pkg/filesync"
)

func init() {
	mustRegister(".pp", &Preprocessor{})
}

var tokenRegex = regexp.MustCompile(`\$(\w+)\$`)

// Preprocessor replaces $name$ tokens with project properties. Tokens without
// a matching property are left as they are.
type Preprocessor struct{}

var _ filesync.Transformer = &Preprocessor{}

func (p *Preprocessor) TransformFile(file filesync.File, targetPath string, project filesync.Project) error {
	data, err := p.Process(file, project)
	if err != nil {
		return err
	}
	return filesync.TryAddFile(project, targetPath, readerFor(data))
}

// RevertFile deletes the processed file, unless it was edited after install.
func (p *Preprocessor) RevertFile(file filesync.File, targetPath string, _ []filesync.File, project filesync.Project) error {
	data, err := p.Process(file, project)
	if err != nil {
		return err
	}
	project.DeleteFileSafe(targetPath, readerFor(data))
	return nil
}

// Process returns the content of file with its tokens replaced.
func (p *Preprocessor) Process(file filesync.File, project filesync.Project) ([]byte, error) {
	data, err := readFile(file)
	if err != nil {
		return nil, err
	}

	props, ok := project.(PropertyProvider)
	if !ok {
		return data, nil
	}

	return tokenRegex.ReplaceAllFunc(data, func(token []byte) []byte {
		name := string(token[1 : len(token)-1])
		if v, ok := props.Property(name); ok {
			return []byte(v)
		}
		return token
	}), nil
}

func readerFor(data []byte) func() (io.ReadCloser, error) {
	return func() (io.ReadCloser, error) {
		return io.NopCloser(bytes.NewReader(data)), nil
	}
}
