package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dpotapov/htmldiff/internal/diff"
)

func TestDecode_EmptyDocumentKeepsDefaults(t *testing.T) {
	cfg, err := Decode(strings.NewReader(""))
	require.NoError(t, err)

	def := diff.DefaultConfig()
	assert.Equal(t, def.DeleteFirst, cfg.DeleteFirst)
	assert.Equal(t, def.LinebreakMarker, cfg.LinebreakMarker)
	assert.Equal(t, def.TrackAttrs, cfg.TrackAttrs)
	assert.Equal(t, def.DiffIDAttr, cfg.DiffIDAttr)
	assert.Equal(t, def.SequenceMatchThreshold, cfg.SequenceMatchThreshold)
	assert.Equal(t, def.BulkReplaceSimilarityThresh, cfg.BulkReplaceSimilarityThresh)
}

func TestDecode_Overrides(t *testing.T) {
	doc := `
delete_first: false
linebreak_marker: ""
track_attrs: [style]
tokenize_text: false
merge_adjacent_change_tags: false
diff_id_attr: data-change-id
sequence_match_threshold: 5
bulk_replace_similarity_threshold: 0.5
wrap_void_tag_changes_with_ins_del: [img, hr]
`
	cfg, err := Decode(strings.NewReader(doc))
	require.NoError(t, err)

	assert.False(t, cfg.DeleteFirst)
	assert.Empty(t, cfg.LinebreakMarker)
	assert.Equal(t, []string{"style"}, cfg.TrackAttrs)
	assert.False(t, cfg.TokenizeText)
	assert.False(t, cfg.MergeAdjacentChangeTags)
	assert.Equal(t, "data-change-id", cfg.DiffIDAttr)
	assert.Equal(t, 5, cfg.SequenceMatchThreshold)
	assert.InDelta(t, 0.5, cfg.BulkReplaceSimilarityThresh, 1e-9)
	assert.Equal(t, []string{"img", "hr"}, cfg.WrapVoidTagChangesWithInsDel)

	// Untouched fields keep their defaults.
	def := diff.DefaultConfig()
	assert.Equal(t, def.VisualAtomizeTags, cfg.VisualAtomizeTags)
	assert.True(t, cfg.AddDiffIDs)
}

func TestDecode_CustomTokenizeRegex(t *testing.T) {
	cfg, err := Decode(strings.NewReader(`tokenize_regex: "[a-z]+|[^a-z]+"`))
	require.NoError(t, err)
	require.NotNil(t, cfg.TokenizeRegex)
	assert.Equal(t, "[a-z]+|[^a-z]+", cfg.TokenizeRegex.String())
}

func TestDecode_BadRegexIsDecodeError(t *testing.T) {
	_, err := Decode(strings.NewReader(`tokenize_regex: "["`))
	require.Error(t, err)
	var de *DecodeError
	require.True(t, errors.As(err, &de))
	assert.Equal(t, "tokenize_regex", de.Key)
}

func TestDecode_MalformedYAMLIsDecodeError(t *testing.T) {
	_, err := Decode(strings.NewReader("delete_first: [unterminated"))
	require.Error(t, err)
	var de *DecodeError
	require.True(t, errors.As(err, &de))
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "htmldiff.yaml")
	require.NoError(t, os.WriteFile(path, []byte("diff_id_attr: data-x\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "data-x", cfg.DiffIDAttr)
}

func TestLoad_MissingFileIsLoadError(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	var le *LoadError
	require.True(t, errors.As(err, &le))
	assert.Contains(t, le.Error(), "nope.yaml")
}
