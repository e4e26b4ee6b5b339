// Package labels maps class names to dense integer indices and back.
package labels

import (
	"errors"
	"fmt"
	"slices"
)

var (
	ErrEmpty           = errors.New("no labels to fit")
	ErrUnknownLabel    = errors.New("unknown label")
	ErrIndexOutOfRange = errors.New("label index out of range")
	ErrInvalidClasses  = errors.New("class list must be sorted and unique")
)

// Codec is a bijection between the sorted distinct class names seen at fit
// time and the indices 0..n-1. It is immutable once built.
type Codec struct {
	classes []string
	index   map[string]int
}

// Fit builds a codec from raw labels. Duplicates are collapsed and classes
// are ordered lexicographically.
func Fit(labels []string) (*Codec, error) {
	if len(labels) == 0 {
		return nil, ErrEmpty
	}
	classes := slices.Clone(labels)
	slices.Sort(classes)
	classes = slices.Compact(classes)
	return build(classes), nil
}

// FromClasses rebuilds a codec from a persisted class list.
func FromClasses(classes []string) (*Codec, error) {
	if len(classes) == 0 {
		return nil, ErrEmpty
	}
	for i := 1; i < len(classes); i++ {
		if classes[i-1] >= classes[i] {
			return nil, fmt.Errorf("%w: %q precedes %q", ErrInvalidClasses, classes[i-1], classes[i])
		}
	}
	return build(slices.Clone(classes)), nil
}

func build(classes []string) *Codec {
	index := make(map[string]int, len(classes))
	for i, c := range classes {
		index[c] = i
	}
	return &Codec{classes: classes, index: index}
}

// Encode returns the index for label.
func (c *Codec) Encode(label string) (int, error) {
	i, ok := c.index[label]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownLabel, label)
	}
	return i, nil
}

// EncodeAll encodes every label, failing on the first unseen one.
func (c *Codec) EncodeAll(labels []string) ([]int, error) {
	out := make([]int, len(labels))
	for i, l := range labels {
		idx, err := c.Encode(l)
		if err != nil {
			return nil, err
		}
		out[i] = idx
	}
	return out, nil
}

// Decode returns the class name at index.
func (c *Codec) Decode(index int) (string, error) {
	if index < 0 || index >= len(c.classes) {
		return "", fmt.Errorf("%w: %d not in [0,%d)", ErrIndexOutOfRange, index, len(c.classes))
	}
	return c.classes[index], nil
}

// Classes returns a copy of the class names in index order.
func (c *Codec) Classes() []string {
	return slices.Clone(c.classes)
}

// Len returns the number of classes.
func (c *Codec) Len() int {
	return len(c.classes)
}
