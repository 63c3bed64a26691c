package chatbot

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/nlpodyssey/gopickle/pickle"
	"github.com/nlpodyssey/gopickle/types"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// LoadStringList reads an ordered list of strings. The format follows the
// file extension: Python pickle (.pkl, .pickle), JSON array (.json) or one
// entry per line for anything else.
func LoadStringList(artifact Artifact, path string) ([]string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pkl", ".pickle":
		return loadPickledList(artifact, path)
	case ".json":
		return loadJSONList(artifact, path)
	default:
		return loadLineList(artifact, path)
	}
}

func loadPickledList(artifact Artifact, path string) ([]string, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, notFoundOr(artifact, path, err)
	}
	obj, err := pickle.Load(path)
	if err != nil {
		return nil, parseError(artifact, path, err)
	}
	var items []interface{}
	switch v := obj.(type) {
	case *types.List:
		items = *v
	case *types.Tuple:
		items = *v
	default:
		return nil, parseError(artifact, path, fmt.Errorf("expected a pickled list, got %T", obj))
	}
	out := make([]string, len(items))
	for i, item := range items {
		s, ok := item.(string)
		if !ok {
			return nil, parseError(artifact, path, fmt.Errorf("entry %d: expected str, got %T", i, item))
		}
		out[i] = s
	}
	return out, nil
}

func loadJSONList(artifact Artifact, path string) ([]string, error) {
	data, err := readText(path)
	if err != nil {
		return nil, notFoundOr(artifact, path, err)
	}
	var out []string
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, parseError(artifact, path, err)
	}
	return out, nil
}

func loadLineList(artifact Artifact, path string) ([]string, error) {
	data, err := readText(path)
	if err != nil {
		return nil, notFoundOr(artifact, path, err)
	}
	var out []string
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		out = append(out, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, parseError(artifact, path, err)
	}
	return out, nil
}

// readText returns the file contents as UTF-8, honouring UTF-8 and UTF-16 byte order marks.
func readText(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(newTextReader(f))
}

func newTextReader(r io.Reader) io.Reader {
	return transform.NewReader(r, unicode.BOMOverride(unicode.UTF8.NewDecoder()))
}
