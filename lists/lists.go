// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package lists

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/siemens/pdknockr/types"
)

// FromFile reads the non-empty, trimmed lines of the specified file, skipping
// comment lines. It returns a [types.NotFoundError] if the file does not
// exist.
func FromFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &types.NotFoundError{Path: path, Err: err}
		}
		return nil, fmt.Errorf("cannot read list: %w", err)
	}
	defer f.Close()
	items, err := FromReader(f)
	if err != nil {
		return nil, fmt.Errorf("cannot read list %s: %w", path, err)
	}
	return items, nil
}

// FromReader reads the non-empty, trimmed lines from the specified reader,
// skipping comment lines.
func FromReader(r io.Reader) ([]string, error) {
	items := []string{}
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		items = append(items, line)
	}
	return items, scanner.Err()
}

// FromList splits a literal comma-separated value into its non-empty, trimmed
// items.
func FromList(value string) []string {
	items := []string{}
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}

// Load returns the items from the specified file if it exists; otherwise,
// value is taken as a literal comma-separated list. As an exception, a value
// that looks like a file path (containing a path separator) but doesn't exist
// gives a [types.NotFoundError], tagged with what.
func Load(what string, value string) ([]string, error) {
	if info, err := os.Stat(value); err == nil && !info.IsDir() {
		items, err := FromFile(value)
		tag(err, what)
		return items, err
	}
	if strings.ContainsRune(value, os.PathSeparator) || strings.ContainsRune(value, '/') {
		return nil, &types.NotFoundError{What: what, Path: value, Err: fs.ErrNotExist}
	}
	return FromList(value), nil
}

// Require returns a [types.ConfigError] if the specified list is empty.
func Require(what string, items []string) error {
	if len(items) == 0 {
		return &types.ConfigError{Reason: "no " + what + " specified"}
	}
	return nil
}

// Dedup returns the specified items with duplicates removed, keeping the
// first occurrence of each item.
func Dedup(items []string) []string {
	seen := make(map[string]struct{}, len(items))
	uniq := make([]string, 0, len(items))
	for _, item := range items {
		if _, ok := seen[item]; ok {
			continue
		}
		seen[item] = struct{}{}
		uniq = append(uniq, item)
	}
	return uniq
}

// tag sets the kind of input on not-found errors.
func tag(err error, what string) {
	var nferr *types.NotFoundError
	if errors.As(err, &nferr) {
		nferr.What = what
	}
}
