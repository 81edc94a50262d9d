// Package config loads the diff engine's Config from a YAML document: a
// thin, struct-tagged loader over yaml.v3, not a general-purpose
// configuration framework.
package config

import (
	"fmt"
	"io"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"

	"github.com/dpotapov/htmldiff/internal/diff"
)

// File is the on-disk shape of a config document. Every field is optional;
// an unset field leaves the corresponding diff.Config field at its
// DefaultConfig value. Regex fields use Go's default regexp syntax.
type File struct {
	DeleteFirst *bool `yaml:"delete_first"`

	LinebreakMarker *string `yaml:"linebreak_marker"`

	TrackAttrs          []string `yaml:"track_attrs"`
	VisualContainerTags []string `yaml:"visual_container_tags"`
	VisualAtomizeTags   []string `yaml:"visual_atomize_tags"`

	TokenizeText  *bool   `yaml:"tokenize_text"`
	TokenizeRegex *string `yaml:"tokenize_regex"`

	PreserveWhitespaceInDiff *bool `yaml:"preserve_whitespace_in_diff"`
	MergeAdjacentChangeTags  *bool `yaml:"merge_adjacent_change_tags"`
	VisualReplaceInline      *bool `yaml:"visual_replace_inline"`

	EnableListAtomization          *bool `yaml:"enable_list_atomization"`
	EnableTableAtomization         *bool `yaml:"enable_table_atomization"`
	EnableInlineWrapperAtomization *bool `yaml:"enable_inline_wrapper_atomization"`

	ForceEventDiffOnEqualForTags []string `yaml:"force_event_diff_on_equal_for_tags"`
	WrapVoidTagChangesWithInsDel []string `yaml:"wrap_void_tag_changes_with_ins_del"`

	AddDiffIDs *bool   `yaml:"add_diff_ids"`
	DiffIDAttr *string `yaml:"diff_id_attr"`

	SequenceMatchThreshold      *int     `yaml:"sequence_match_threshold"`
	BulkReplaceSimilarityThresh *float64 `yaml:"bulk_replace_similarity_threshold"`
}

// Load reads a YAML config document from path and applies it on top of
// diff.DefaultConfig.
func Load(path string) (diff.Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return diff.Config{}, &LoadError{Path: path, Err: err}
	}
	defer f.Close()
	return Decode(f)
}

// Decode reads a YAML config document from r and applies it on top of
// diff.DefaultConfig. Failures surface as typed, wrapped errors rather
// than bare fmt.Errorf values.
func Decode(r io.Reader) (diff.Config, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return diff.Config{}, &LoadError{Err: err}
	}

	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return diff.Config{}, &DecodeError{Key: "config", Err: err}
	}

	cfg := diff.DefaultConfig()
	if err := apply(&cfg, f); err != nil {
		return diff.Config{}, err
	}
	return cfg, nil
}

func apply(cfg *diff.Config, f File) error {
	if f.DeleteFirst != nil {
		cfg.DeleteFirst = *f.DeleteFirst
	}
	if f.LinebreakMarker != nil {
		cfg.LinebreakMarker = *f.LinebreakMarker
	}
	if f.TrackAttrs != nil {
		cfg.TrackAttrs = f.TrackAttrs
	}
	if f.VisualContainerTags != nil {
		cfg.VisualContainerTags = f.VisualContainerTags
	}
	if f.VisualAtomizeTags != nil {
		cfg.VisualAtomizeTags = f.VisualAtomizeTags
	}
	if f.TokenizeText != nil {
		cfg.TokenizeText = *f.TokenizeText
	}
	if f.TokenizeRegex != nil {
		re, err := regexp.Compile(*f.TokenizeRegex)
		if err != nil {
			return &DecodeError{Key: "tokenize_regex", Err: err}
		}
		cfg.TokenizeRegex = re
	}
	if f.PreserveWhitespaceInDiff != nil {
		cfg.PreserveWhitespaceInDiff = *f.PreserveWhitespaceInDiff
	}
	if f.MergeAdjacentChangeTags != nil {
		cfg.MergeAdjacentChangeTags = *f.MergeAdjacentChangeTags
	}
	if f.VisualReplaceInline != nil {
		cfg.VisualReplaceInline = *f.VisualReplaceInline
	}
	if f.EnableListAtomization != nil {
		cfg.EnableListAtomization = *f.EnableListAtomization
	}
	if f.EnableTableAtomization != nil {
		cfg.EnableTableAtomization = *f.EnableTableAtomization
	}
	if f.EnableInlineWrapperAtomization != nil {
		cfg.EnableInlineWrapperAtomization = *f.EnableInlineWrapperAtomization
	}
	if f.ForceEventDiffOnEqualForTags != nil {
		cfg.ForceEventDiffOnEqualForTags = f.ForceEventDiffOnEqualForTags
	}
	if f.WrapVoidTagChangesWithInsDel != nil {
		cfg.WrapVoidTagChangesWithInsDel = f.WrapVoidTagChangesWithInsDel
	}
	if f.AddDiffIDs != nil {
		cfg.AddDiffIDs = *f.AddDiffIDs
	}
	if f.DiffIDAttr != nil {
		cfg.DiffIDAttr = *f.DiffIDAttr
	}
	if f.SequenceMatchThreshold != nil {
		cfg.SequenceMatchThreshold = *f.SequenceMatchThreshold
	}
	if f.BulkReplaceSimilarityThresh != nil {
		cfg.BulkReplaceSimilarityThresh = *f.BulkReplaceSimilarityThresh
	}
	return nil
}

// LoadError wraps a failure to open or read the config file.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("load config: %s", e.Err)
	}
	return fmt.Sprintf("load config %s: %s", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// DecodeError wraps a YAML unmarshal failure with the key it belongs to.
type DecodeError struct {
	Key string
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("could not decode %s: %s", e.Key, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }
