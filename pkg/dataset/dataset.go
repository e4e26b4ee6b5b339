// Package dataset discovers labeled training images on disk.
package dataset

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"regexp"
	"slices"
	"strings"
)

// DefaultExtensions are the image suffixes Collect accepts when none are given.
var DefaultExtensions = []string{".jpg", ".jpeg", ".png"}

// GenericDirs are folder names that carry no class information.
var GenericDirs = []string{"", ".", "data", "train", "images", "img"}

// Labeler derives a class label from an image path. An empty result means
// the labeler has no opinion.
type Labeler interface {
	Label(path string) string
}

// LabelerFunc adapts a function to Labeler.
type LabelerFunc func(path string) string

func (f LabelerFunc) Label(path string) string {
	return f(path)
}

// ParentDir labels an image by its containing folder unless that folder's
// name is one of GenericDirs.
func ParentDir() Labeler {
	return LabelerFunc(func(path string) string {
		parent := filepath.Base(filepath.Dir(path))
		if slices.Contains(GenericDirs, strings.ToLower(parent)) {
			return ""
		}
		return parent
	})
}

var leadingLetters = regexp.MustCompile(`^[A-Za-z]+`)

// FilenamePrefix labels an image by the leading ASCII letters of its file
// stem, falling back to the whole stem.
func FilenamePrefix() Labeler {
	return LabelerFunc(func(path string) string {
		stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		if m := leadingLetters.FindString(stem); m != "" {
			return m
		}
		return stem
	})
}

// Chain returns the first non-empty label produced by labelers.
func Chain(labelers ...Labeler) Labeler {
	return LabelerFunc(func(path string) string {
		for _, l := range labelers {
			if label := l.Label(path); label != "" {
				return label
			}
		}
		return ""
	})
}

// DefaultLabeler prefers the class folder and falls back to the filename.
func DefaultLabeler() Labeler {
	return Chain(ParentDir(), FilenamePrefix())
}

// Sample is one labeled image.
type Sample struct {
	Path  string
	Label string
}

// Collect walks root recursively and returns every regular file whose
// extension (case-insensitive) is in exts, labeled by labeler. Files the
// labeler cannot name are skipped. Results are sorted by path.
func Collect(root string, labeler Labeler, exts ...string) ([]Sample, error) {
	if len(exts) == 0 {
		exts = DefaultExtensions
	}
	if labeler == nil {
		labeler = DefaultLabeler()
	}

	var samples []Sample
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.Type().IsRegular() {
			return nil
		}
		if !slices.Contains(exts, strings.ToLower(filepath.Ext(path))) {
			return nil
		}
		if label := labeler.Label(path); label != "" {
			samples = append(samples, Sample{Path: path, Label: label})
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("collect images under %s: %w", root, err)
	}

	slices.SortFunc(samples, func(a, b Sample) int {
		return strings.Compare(a.Path, b.Path)
	})
	return samples, nil
}

// Split separates samples into parallel path and label slices.
func Split(samples []Sample) (paths, labels []string) {
	paths = make([]string, len(samples))
	labels = make([]string, len(samples))
	for i, s := range samples {
		paths[i] = s.Path
		labels[i] = s.Label
	}
	return paths, labels
}

// Classes returns the sorted distinct labels in samples.
func Classes(samples []Sample) []string {
	seen := make([]string, 0, len(samples))
	for _, s := range samples {
		seen = append(seen, s.Label)
	}
	slices.Sort(seen)
	return slices.Compact(seen)
}
