// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package noise

import (
	"fmt"
	"math/rand"
	"strconv"
	"strings"
	"time"

	"github.com/siemens/pdknockr/types"
)

// Label count defaults.
const (
	DefaultMinLabels = 2
	DefaultMaxLabels = 3
)

var separators = []string{".", "-"}

// Spec describes how to synthesize noise names. Zero MinLabels and MaxLabels
// select the defaults.
type Spec struct {
	Labels    []string // pool of candidate subdomain labels.
	MinLabels int      // minimum number of labels to join, at least 2.
	MaxLabels int      // maximum number of labels to join, clamped to the pool size.
}

// Generator synthesizes noise names according to a Spec. A Generator is not
// safe for concurrent use.
type Generator struct {
	labels []string
	min    int
	max    int
	rnd    *rand.Rand
}

// NewGenerator returns a new Generator for the specified Spec, using the
// specified source of randomness. If rnd is nil, a time-seeded source is used.
// The label pool gets copied, with labels trimmed and lower-cased, and blank
// labels dropped.
//
// NewGenerator returns a [types.ConfigError] if the pool has fewer than two
// usable labels, or if the label count limits are nonsensical.
func NewGenerator(spec Spec, rnd *rand.Rand) (*Generator, error) {
	labels := make([]string, 0, len(spec.Labels))
	for _, label := range spec.Labels {
		label = strings.ToLower(strings.TrimSpace(label))
		if label == "" {
			continue
		}
		labels = append(labels, label)
	}
	if len(labels) < 2 {
		return nil, &types.ConfigError{
			Reason: fmt.Sprintf("noise label pool needs at least 2 labels, got %d", len(labels))}
	}
	min, max := spec.MinLabels, spec.MaxLabels
	if min == 0 {
		min = DefaultMinLabels
	}
	if max == 0 {
		max = DefaultMaxLabels
	}
	if min < 2 {
		return nil, &types.ConfigError{
			Reason: fmt.Sprintf("minimum noise label count must be at least 2, got %d", min)}
	}
	if max < min {
		return nil, &types.ConfigError{
			Reason: fmt.Sprintf("maximum noise label count %d below minimum %d", max, min)}
	}
	if max > len(labels) {
		max = len(labels)
	}
	if min > max {
		return nil, &types.ConfigError{
			Reason: fmt.Sprintf("noise label pool of %d labels too small for %d labels", len(labels), min)}
	}
	if rnd == nil {
		rnd = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Generator{
		labels: labels,
		min:    min,
		max:    max,
		rnd:    rnd,
	}, nil
}

// Labels returns the (effective) label count range.
func (g *Generator) Labels() (min, max int) {
	return g.min, g.max
}

// Name returns a freshly synthesized noise name below the specified domain.
func (g *Generator) Name(domain string) string {
	k := g.min + g.rnd.Intn(g.max-g.min+1)
	perm := g.rnd.Perm(len(g.labels))
	subs := make([]string, k)
	for idx := range subs {
		subs[idx] = g.labels[perm[idx]]
	}
	// Flip a coin whether to decorate one of the labels with a number.
	if g.rnd.Intn(2) == 0 {
		idx := g.rnd.Intn(k)
		subs[idx] += strconv.Itoa(1 + g.rnd.Intn(99))
	}
	sep := separators[g.rnd.Intn(len(separators))]
	return strings.Join(subs, sep) + "." + strings.TrimPrefix(domain, ".")
}
