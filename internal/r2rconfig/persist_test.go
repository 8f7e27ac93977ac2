package r2rconfig

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"r2r/internal/doctype"
)

type fakeStore struct {
	data   map[string]string
	gets   int
	sets   int
	getErr error
	setErr error
}

func newFakeStore() *fakeStore { return &fakeStore{data: map[string]string{}} }

func (s *fakeStore) Get(_ context.Context, key string) (string, bool, error) {
	s.gets++
	if s.getErr != nil {
		return "", false, s.getErr
	}
	v, ok := s.data[key]
	return v, ok, nil
}

func (s *fakeStore) Set(_ context.Context, key, value string) error {
	s.sets++
	if s.setErr != nil {
		return s.setErr
	}
	s.data[key] = value
	return nil
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadFromFileEmptyObject(t *testing.T) {
	path := writeFile(t, "r2r.json", `{}`)
	_, err := LoadFromFile(path)
	var missing *MissingSectionError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "embedding", missing.Section)
}

func TestLoadFromFile(t *testing.T) {
	cfg, err := LoadFromFile(filepath.Join("testdata", "r2r.json"))
	require.NoError(t, err)
	assert.Equal(t, "example_provider", cfg.Embedding.Provider.String())
}

func TestLoadFromFileMissingSection(t *testing.T) {
	path := writeFile(t, "r2r.json", `{"embedding": {"provider": "example_provider", "base_model": "model",
		"base_dimension": 128, "batch_size": 16, "text_splitter": "default"}}`)
	_, err := LoadFromFile(path)
	var missing *MissingSectionError
	require.ErrorAs(t, err, &missing)
}

func TestLoadFromFileMalformed(t *testing.T) {
	for name, content := range map[string]string{
		"syntax":   `{"embedding": `,
		"array":    `[1, 2]`,
		"trailing": `{} {}`,
		"empty":    ``,
	} {
		t.Run(name, func(t *testing.T) {
			path := writeFile(t, "r2r.json", content)
			_, err := LoadFromFile(path)
			var malformed *MalformedJSONError
			require.ErrorAs(t, err, &malformed)
			assert.Equal(t, path, malformed.Source)
		})
	}
}

func TestLoadFromFileNotExist(t *testing.T) {
	_, err := LoadFromFile(filepath.Join(t.TempDir(), "absent.json"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestLoadFromTOMLFile(t *testing.T) {
	cfg, err := LoadFromFile(filepath.Join("testdata", "r2r.toml"))
	require.NoError(t, err)
	assert.Equal(t, "example_provider", cfg.Embedding.Provider.String())
	dim, ok := cfg.Embedding.BaseDimension.Int()
	require.True(t, ok)
	assert.EqualValues(t, 128, dim)
	assert.Equal(t, doctype.NewSet(doctype.PDF, doctype.MP3), cfg.Ingestion.ExcludedParsers)
}

func TestLoadFromTOMLFileSyntaxError(t *testing.T) {
	path := writeFile(t, "r2r.toml", "[embedding\nprovider = 1")
	_, err := LoadFromFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "CFG_PARSE_TOML")
}

func TestSaveToStoreWritesCanonicalJSON(t *testing.T) {
	cfg, err := LoadFromFile(filepath.Join("testdata", "r2r.json"))
	require.NoError(t, err)
	store := newFakeStore()

	require.NoError(t, SaveToStore(context.Background(), cfg, store, "test_key"))
	assert.Equal(t, 1, store.sets)
	assert.Equal(t, 0, store.gets)

	var saved map[string]map[string]any
	require.NoError(t, json.Unmarshal([]byte(store.data["test_key"]), &saved))
	assert.Equal(t, "example_provider", saved["embedding"]["provider"])
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	raw := loadRaw(t, "r2r.json")
	raw["ingestion"] = map[string]any{"excluded_parsers": []any{"pdf"}, "chunking": "by_title"}
	raw["experimental"] = []any{json.Number("1.5"), "x", nil}
	saved, err := Materialize(raw)
	require.NoError(t, err)

	store := newFakeStore()
	ctx := context.Background()
	require.NoError(t, SaveToStore(ctx, saved, store, "test_key"))
	loaded, err := LoadFromStore(ctx, store, "test_key")
	require.NoError(t, err)

	assert.Equal(t, saved, loaded)
	assert.True(t, Equal(saved, loaded))
	assert.True(t, loaded.Ingestion.ExcludedParsers.Contains(doctype.PDF))
}

func TestRoundTripIsStable(t *testing.T) {
	for _, name := range []string{"r2r.json", "r2r.toml"} {
		cfg, err := LoadFromFile(filepath.Join("testdata", name))
		require.NoError(t, err)
		first, err := Marshal(cfg)
		require.NoError(t, err)

		again, err := Parse(first)
		require.NoError(t, err)
		assert.Equal(t, cfg, again, name)

		second, err := Marshal(again)
		require.NoError(t, err)
		assert.Equal(t, string(first), string(second), name)
	}
}

func TestLoadFromStoreMissingKey(t *testing.T) {
	store := newFakeStore()
	_, err := LoadFromStore(context.Background(), store, "missing_key")
	var notFound *KeyNotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "missing_key", notFound.Key)
	assert.Equal(t, 1, store.gets)
}

func TestLoadFromStoreDeserializesExcludedParsers(t *testing.T) {
	store := newFakeStore()
	store.data["test_key"] = `{
		"embedding": {"provider": "example_provider", "base_model": "model", "base_dimension": 128,
			"batch_size": 16, "text_splitter": "default"},
		"kg": {"provider": "None", "batch_size": 1,
			"text_splitter": {"type": "recursive_character", "chunk_size": 2048, "chunk_overlap": 0}},
		"eval": {"llm": {"provider": "local"}},
		"ingestion": {"excluded_parsers": ["pdf"]},
		"completions": {"provider": "lm_provider"},
		"logging": {"provider": "local", "log_table": "logs", "log_info_table": "log_info"},
		"prompt": {"provider": "prompt_provider"},
		"database": {"provider": "vector_db"}
	}`
	cfg, err := LoadFromStore(context.Background(), store, "test_key")
	require.NoError(t, err)
	assert.True(t, cfg.Ingestion.ExcludedParsers.Contains(doctype.PDF))
}

func TestLoadFromStoreMalformedValue(t *testing.T) {
	store := newFakeStore()
	store.data["k"] = "not json"
	_, err := LoadFromStore(context.Background(), store, "k")
	var malformed *MalformedJSONError
	require.ErrorAs(t, err, &malformed)
}

func TestLoadFromStoreReadFailure(t *testing.T) {
	store := newFakeStore()
	store.getErr = errors.New("connection refused")
	_, err := LoadFromStore(context.Background(), store, "k")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "CFG_STORE_READ")
	assert.ErrorIs(t, err, store.getErr)
}

func TestSaveToStoreWriteFailure(t *testing.T) {
	cfg, err := LoadFromFile(filepath.Join("testdata", "r2r.json"))
	require.NoError(t, err)
	store := newFakeStore()
	store.setErr = errors.New("READONLY")

	err = SaveToStore(context.Background(), cfg, store, "k")
	var writeErr *StoreWriteError
	require.ErrorAs(t, err, &writeErr)
	assert.Equal(t, "k", writeErr.Key)
	assert.ErrorIs(t, err, store.setErr)
	assert.Equal(t, 1, store.sets)
	assert.Empty(t, store.data)
}

func TestMarshalNil(t *testing.T) {
	_, err := Marshal(nil)
	assert.Error(t, err)
}

func TestMarshalIndentIsValidJSON(t *testing.T) {
	cfg, err := LoadFromFile(filepath.Join("testdata", "r2r.json"))
	require.NoError(t, err)
	blob, err := MarshalIndent(cfg)
	require.NoError(t, err)
	assert.True(t, json.Valid(blob))
	assert.Contains(t, string(blob), "\n  \"app\"")
}

func TestParseRejectsNonObjectIngestion(t *testing.T) {
	raw := loadRaw(t, "r2r.json")
	raw["ingestion"] = []any{"pdf"}
	blob, err := json.Marshal(raw)
	require.NoError(t, err)

	_, err = Parse(blob)
	var shape *SectionTypeError
	require.ErrorAs(t, err, &shape)
	assert.Equal(t, "ingestion", shape.Section)
}
