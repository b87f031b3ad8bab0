// Package jsondoc reads comment-bearing JSON configuration files into generic
// documents and writes them back in a canonical form.
package jsondoc

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/tailscale/hujson"

	"github.com/temirov/lint-setup/internal/snapshot"
)

const (
	indentUnit              = "  "
	parseErrorFormat        = "cannot parse %s: %v"
	rootNotObjectErrorText  = "top-level value must be an object"
	serializeErrorFormat    = "serialize document: %w"
	readDocumentErrorFormat = "cannot find %s: %w"
)

// Document is the parsed form of a JSON object. Values are map[string]any,
// []any, string, json.Number, bool or nil. Numbers keep their literal text
// so a parse and serialize round trip never rounds them.
type Document = map[string]any

// ErrParse matches every ParseError through errors.Is.
var ErrParse = errors.New("parse error")

// ParseError reports a malformed document together with its source path.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string { return fmt.Sprintf(parseErrorFormat, e.Path, e.Err) }

func (e *ParseError) Unwrap() error { return e.Err }

func (e *ParseError) Is(target error) bool { return target == ErrParse }

// Parse strips line and block comments and trailing commas, then decodes the
// remaining JSON object. Numbers decode as json.Number.
func Parse(path string, text []byte) (Document, error) {
	standardized, standardizeErr := hujson.Standardize(bytes.Clone(text))
	if standardizeErr != nil {
		return nil, &ParseError{Path: path, Err: standardizeErr}
	}
	decoder := json.NewDecoder(bytes.NewReader(standardized))
	decoder.UseNumber()
	var decoded any
	if err := decoder.Decode(&decoded); err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	document, ok := decoded.(map[string]any)
	if !ok {
		return nil, &ParseError{Path: path, Err: errors.New(rootNotObjectErrorText)}
	}
	return document, nil
}

// Serialize renders document with two-space indentation and exactly one
// trailing newline. Object keys come out sorted, so the bytes depend only on
// the document's content.
func Serialize(document Document) ([]byte, error) {
	if document == nil {
		document = Document{}
	}
	var buffer bytes.Buffer
	encoder := json.NewEncoder(&buffer)
	encoder.SetEscapeHTML(false)
	encoder.SetIndent("", indentUnit)
	if err := encoder.Encode(document); err != nil {
		return nil, fmt.Errorf(serializeErrorFormat, err)
	}
	return buffer.Bytes(), nil
}

// Read loads and parses the document stored at path.
func Read(tree *snapshot.Snapshot, path string) (Document, error) {
	content, readErr := tree.Read(path)
	if readErr != nil {
		return nil, fmt.Errorf(readDocumentErrorFormat, path, readErr)
	}
	return Parse(path, content)
}

// Clone returns a deep copy so patchers can build a new document without
// touching their input.
func Clone(document Document) Document {
	if document == nil {
		return Document{}
	}
	return cloneValue(document).(map[string]any)
}

func cloneValue(value any) any {
	switch typed := value.(type) {
	case map[string]any:
		copied := make(map[string]any, len(typed))
		for key, nested := range typed {
			copied[key] = cloneValue(nested)
		}
		return copied
	case []any:
		copied := make([]any, len(typed))
		for index, nested := range typed {
			copied[index] = cloneValue(nested)
		}
		return copied
	case []string:
		copied := make([]any, len(typed))
		for index, nested := range typed {
			copied[index] = nested
		}
		return copied
	default:
		return typed
	}
}
