// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package types

import "fmt"

// ConfigError signals an unusable configuration, such as an invalid record
// type, an empty domain list, or a non-positive concurrency limit. It is always
// fatal and reported before any knocking starts.
type ConfigError struct {
	Reason string
}

func (e *ConfigError) Error() string {
	return "configuration error: " + e.Reason
}

// NotFoundError signals that a required input file does not exist.
type NotFoundError struct {
	What string // kind of input, such as "domains".
	Path string
	Err  error
}

func (e *NotFoundError) Error() string {
	if e.What == "" {
		return fmt.Sprintf("file not found: %s", e.Path)
	}
	return fmt.Sprintf("%s file not found: %s", e.What, e.Path)
}

// Unwrap returns the underlying cause, if any.
func (e *NotFoundError) Unwrap() error {
	return e.Err
}
