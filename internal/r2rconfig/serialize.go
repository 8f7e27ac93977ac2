package r2rconfig

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// Marshal renders cfg as canonical JSON: keys sorted at every level, every
// typed field written including defaults, unknown keys merged back in.
func Marshal(cfg *Config) ([]byte, error) {
	if cfg == nil {
		return nil, errors.New("CFG_ENCODE: nil config")
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(cfg.document()); err != nil {
		return nil, fmt.Errorf("CFG_ENCODE: %w", err)
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// MarshalIndent is Marshal with indentation, for display.
func MarshalIndent(cfg *Config) ([]byte, error) {
	blob, err := Marshal(cfg)
	if err != nil {
		return nil, err
	}
	var out bytes.Buffer
	if err := json.Indent(&out, blob, "", "  "); err != nil {
		return nil, fmt.Errorf("CFG_ENCODE: %w", err)
	}
	return out.Bytes(), nil
}

func (c *Config) MarshalJSON() ([]byte, error) { return Marshal(c) }

// Equal reports whether a and b have the same canonical form.
func Equal(a, b *Config) bool {
	if a == nil || b == nil {
		return a == b
	}
	ab, err := Marshal(a)
	if err != nil {
		return false
	}
	bb, err := Marshal(b)
	if err != nil {
		return false
	}
	return bytes.Equal(ab, bb)
}

func (c *Config) document() map[string]any {
	doc := section(c.Extra)
	doc[SectionApp] = fieldsOf(c.App.Extra, kv{"max_file_size_in_mb", c.App.MaxFileSizeInMB})
	doc[SectionAuth] = fieldsOf(c.Auth.Extra,
		kv{"provider", c.Auth.Provider},
		kv{"enabled", c.Auth.Enabled},
		kv{"token_lifetime", c.Auth.TokenLifetime},
	)
	doc[SectionCrypto] = fieldsOf(c.Crypto.Extra, kv{"provider", c.Crypto.Provider})

	embedding := fieldsOf(c.Embedding.Extra,
		kv{"provider", c.Embedding.Provider},
		kv{"base_model", c.Embedding.BaseModel},
		kv{"base_dimension", c.Embedding.BaseDimension},
		kv{"batch_size", c.Embedding.BatchSize},
		kv{"add_title_as_prefix", c.Embedding.AddTitleAsPrefix},
		kv{"rerank_model", c.Embedding.RerankModel},
	)
	embedding["text_splitter"] = c.Embedding.TextSplitter.document()
	doc[SectionEmbedding] = embedding

	kg := fieldsOf(c.KG.Extra,
		kv{"provider", c.KG.Provider},
		kv{"batch_size", c.KG.BatchSize},
		kv{"kg_extraction_config", c.KG.KGExtractionConfig},
	)
	kg["text_splitter"] = c.KG.TextSplitter.document()
	doc[SectionKG] = kg

	eval := fieldsOf(c.Eval.Extra, kv{"provider", c.Eval.Provider})
	eval["llm"] = fieldsOf(c.Eval.LLM.Extra,
		kv{"provider", c.Eval.LLM.Provider},
		kv{"model", c.Eval.LLM.Model},
	)
	doc[SectionEval] = eval

	ingestion := section(c.Ingestion.Extra)
	ingestion["excluded_parsers"] = c.Ingestion.ExcludedParsers.Names()
	doc[SectionIngestion] = ingestion

	doc[SectionCompletions] = fieldsOf(c.Completions.Extra,
		kv{"provider", c.Completions.Provider},
		kv{"concurrent_request_limit", c.Completions.ConcurrentRequestLimit},
	)
	doc[SectionLogging] = fieldsOf(c.Logging.Extra,
		kv{"provider", c.Logging.Provider},
		kv{"log_table", c.Logging.LogTable},
		kv{"log_info_table", c.Logging.LogInfoTable},
	)
	doc[SectionPrompt] = fieldsOf(c.Prompt.Extra, kv{"provider", c.Prompt.Provider})
	doc[SectionDatabase] = fieldsOf(c.Database.Extra, kv{"provider", c.Database.Provider})
	return doc
}

func (t TextSplitterConfig) document() map[string]any {
	return fieldsOf(t.Extra,
		kv{"type", t.Type},
		kv{"chunk_size", t.ChunkSize},
		kv{"chunk_overlap", t.ChunkOverlap},
	)
}

func section(extra Fields) map[string]any {
	out := make(map[string]any, extra.Len())
	for k, v := range extra.m {
		out[k] = v.v
	}
	return out
}

type kv struct {
	key string
	val Value
}

// fieldsOf merges extra with typed fields; unset values are omitted.
func fieldsOf(extra Fields, fields ...kv) map[string]any {
	out := section(extra)
	for _, f := range fields {
		if f.val.set {
			out[f.key] = f.val.v
		}
	}
	return out
}

// decodeJSON decodes a single JSON value, keeping numbers as json.Number.
func decodeJSON(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, errors.New("unexpected data after top-level value")
	}
	return v, nil
}

// decodeDocument decodes data into a RawConfig.
func decodeDocument(data []byte, source string) (RawConfig, error) {
	v, err := decodeJSON(data)
	if err != nil {
		return nil, &MalformedJSONError{Source: source, Err: err}
	}
	raw, ok := v.(map[string]any)
	if !ok {
		return nil, &MalformedJSONError{Source: source, Err: fmt.Errorf("top-level value is %T, want object", v)}
	}
	return raw, nil
}
