package domain

import (
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"

	"copydeps.dev/pkg/copydeps/internal/adapter"
	m "copydeps.dev/pkg/copydeps/internal/model"
)

const (
	parameterTag      = "parameter"
	parameterGroupTag = "parameters"
	filenameParam     = "filename"
	nameAttr          = "name"
	valueAttr         = "value"
)

// Extractor turns a project file into the set of assets it references.
type Extractor interface {
	// Extract reports ok=false with an empty set when the project cannot be
	// read or parsed. The returned error explains why; it is not fatal.
	Extract(ctx context.Context, project m.ProjectFile) (bool, m.DependencySet, error)
}

type extractor struct {
	fs adapter.AssetFSAdapter
}

// NewExtractor constructs an Extractor reading project files through fs.
func NewExtractor(fs adapter.AssetFSAdapter) Extractor {
	return &extractor{fs: fs}
}

func (e *extractor) Extract(ctx context.Context, project m.ProjectFile) (bool, m.DependencySet, error) {
	if err := ctx.Err(); err != nil {
		return false, m.NewDependencySet(), err
	}

	contents, err := e.fs.ReadFile(project.Path)
	if err != nil {
		return false, m.NewDependencySet(), fmt.Errorf("%w: %s: %w", ErrProjectUnreadable, project.Path, err)
	}

	refs, err := parseFileReferences(project.Path, contents)
	if err != nil {
		return false, m.NewDependencySet(), err
	}

	deps := m.NewDependencySet()
	dir := string(project.Dir())

	for _, ref := range refs {
		deps.Add(resolveReference(dir, ref))
	}

	slog.Debug("extracted dependencies", "project", project.Path, "references", len(refs), "dependencies", deps.Len())

	return true, deps, nil
}

// groupFrame tracks an open element while streaming the document.
type groupFrame struct {
	filenameGroup bool
}

// parseFileReferences streams the document once and collects the raw value
// of every `parameter name="filename"` element and of every direct child of a
// `parameters name="filename"` group. The document must have exactly one root
// element and no text outside it.
func parseFileReferences(project m.Path, contents []byte) ([]string, error) {
	decoder := xml.NewDecoder(bytes.NewReader(contents))

	var (
		refs  []string
		stack []groupFrame
		roots int
	)

	for {
		token, err := decoder.Token()
		if errors.Is(err, io.EOF) {
			break
		}

		if err != nil {
			line, _ := decoder.InputPos()
			return nil, &ParseError{Project: project, Line: line, Reason: "invalid XML", Err: err}
		}

		switch elem := token.(type) {
		case xml.CharData:
			if len(stack) == 0 && len(bytes.TrimSpace(elem)) > 0 {
				line, _ := decoder.InputPos()
				return nil, &ParseError{Project: project, Line: line, Reason: "text outside the root element"}
			}

		case xml.StartElement:
			if len(stack) == 0 {
				roots++
				if roots > 1 {
					line, _ := decoder.InputPos()
					return nil, &ParseError{Project: project, Line: line, Reason: "multiple root elements"}
				}
			}

			inFilenameGroup := len(stack) > 0 && stack[len(stack)-1].filenameGroup
			name, _ := attr(elem, nameAttr)

			if inFilenameGroup {
				value, ok := attr(elem, valueAttr)
				if !ok {
					line, _ := decoder.InputPos()
					return nil, &ParseError{Project: project, Line: line, Reason: fmt.Sprintf("<%s> in filename group has no value attribute", elem.Name.Local)}
				}

				refs = append(refs, value)
			} else if elem.Name.Local == parameterTag && name == filenameParam {
				value, ok := attr(elem, valueAttr)
				if !ok {
					line, _ := decoder.InputPos()
					return nil, &ParseError{Project: project, Line: line, Reason: "filename parameter has no value attribute"}
				}

				refs = append(refs, value)
			}

			stack = append(stack, groupFrame{
				filenameGroup: elem.Name.Local == parameterGroupTag && name == filenameParam,
			})

		case xml.EndElement:
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
		}
	}

	if len(stack) != 0 {
		line, _ := decoder.InputPos()
		return nil, &ParseError{Project: project, Line: line, Reason: "unexpected end of document"}
	}

	if roots == 0 {
		line, _ := decoder.InputPos()
		return nil, &ParseError{Project: project, Line: line, Reason: "no root element"}
	}

	return refs, nil
}

func attr(elem xml.StartElement, local string) (string, bool) {
	for _, a := range elem.Attr {
		if a.Name.Local == local {
			return a.Value, true
		}
	}

	return "", false
}

// resolveReference converts separators to the host convention and resolves
// the reference against the project directory. Absolute references are kept.
func resolveReference(dir, ref string) m.Path {
	local := toLocalSeparators(ref)
	if filepath.IsAbs(local) {
		return m.Path(filepath.Clean(local))
	}

	return m.Path(filepath.Join(dir, local))
}

func toLocalSeparators(path string) string {
	if filepath.Separator == '\\' {
		return strings.ReplaceAll(path, "/", `\`)
	}

	return strings.ReplaceAll(path, `\`, "/")
}
