package r2rconfig

import (
	"fmt"
	"sort"

	"r2r/internal/doctype"
)

// Materialize builds a Config from a document that passed Validate. Present
// keys are copied verbatim and absent optional keys take their defaults.
// The only error is an unknown name in ingestion.excluded_parsers.
func Materialize(raw RawConfig) (*Config, error) {
	cfg := &Config{
		App:         materializeApp(readSection(raw[SectionApp])),
		Auth:        materializeAuth(readSection(raw[SectionAuth])),
		Crypto:      materializeCrypto(readSection(raw[SectionCrypto])),
		Embedding:   materializeEmbedding(readSection(raw[SectionEmbedding])),
		KG:          materializeKG(readSection(raw[SectionKG])),
		Eval:        materializeEval(readSection(raw[SectionEval])),
		Completions: materializeCompletions(readSection(raw[SectionCompletions])),
		Logging:     materializeLogging(readSection(raw[SectionLogging])),
		Prompt:      materializePrompt(readSection(raw[SectionPrompt])),
		Database:    materializeDatabase(readSection(raw[SectionDatabase])),
	}
	ingestion, err := materializeIngestion(readSection(raw[SectionIngestion]))
	if err != nil {
		return nil, err
	}
	cfg.Ingestion = ingestion

	var extra map[string]Value
	for name, section := range raw {
		if knownSections[name] {
			continue
		}
		if extra == nil {
			extra = map[string]Value{}
		}
		extra[name] = valueOf(cloneJSON(section))
	}
	cfg.Extra = Fields{m: extra}
	return cfg, nil
}

var knownSections = map[string]bool{
	SectionApp: true, SectionAuth: true, SectionCrypto: true,
	SectionEmbedding: true, SectionKG: true, SectionEval: true,
	SectionIngestion: true, SectionCompletions: true, SectionLogging: true,
	SectionPrompt: true, SectionDatabase: true,
}

func materializeApp(r *sectionReader) AppConfig {
	return AppConfig{
		MaxFileSizeInMB: r.value("max_file_size_in_mb", IntValue(DefaultMaxFileSizeInMB)),
		Extra:           r.extra(),
	}
}

func materializeAuth(r *sectionReader) AuthConfig {
	return AuthConfig{
		Provider:      r.value("provider", StringValue(DefaultAuthProvider)),
		Enabled:       r.value("enabled", BoolValue(DefaultAuthEnabled)),
		TokenLifetime: r.value("token_lifetime", IntValue(DefaultTokenLifetime)),
		Extra:         r.extra(),
	}
}

func materializeCrypto(r *sectionReader) CryptoConfig {
	return CryptoConfig{
		Provider: r.value("provider", StringValue(DefaultCryptoProvider)),
		Extra:    r.extra(),
	}
}

func materializeEmbedding(r *sectionReader) EmbeddingConfig {
	return EmbeddingConfig{
		Provider:         r.value("provider", Value{}),
		BaseModel:        r.value("base_model", Value{}),
		BaseDimension:    r.value("base_dimension", Value{}),
		BatchSize:        r.value("batch_size", Value{}),
		TextSplitter:     materializeTextSplitter(r.object("text_splitter")),
		AddTitleAsPrefix: r.value("add_title_as_prefix", BoolValue(DefaultAddTitleAsPrefix)),
		RerankModel:      r.value("rerank_model", NullValue()),
		Extra:            r.extra(),
	}
}

func materializeKG(r *sectionReader) KGConfig {
	return KGConfig{
		Provider:           r.value("provider", Value{}),
		BatchSize:          r.value("batch_size", Value{}),
		TextSplitter:       materializeTextSplitter(r.object("text_splitter")),
		KGExtractionConfig: r.value("kg_extraction_config", emptyObject()),
		Extra:              r.extra(),
	}
}

// A text_splitter given as a bare value names the splitter type.
func materializeTextSplitter(r *sectionReader) TextSplitterConfig {
	ts := TextSplitterConfig{
		Type:         r.value("type", StringValue(DefaultTextSplitterType)),
		ChunkSize:    r.value("chunk_size", IntValue(DefaultChunkSize)),
		ChunkOverlap: r.value("chunk_overlap", IntValue(DefaultChunkOverlap)),
		Extra:        r.extra(),
	}
	if r.hasScalar {
		ts.Type = valueOf(cloneJSON(r.scalar))
	}
	return ts
}

func materializeEval(r *sectionReader) EvalConfig {
	llm := r.object("llm")
	cfg := EvalConfig{
		Provider: r.value("provider", StringValue(DefaultEvalProvider)),
		LLM: LLMConfig{
			Provider: llm.value("provider", StringValue(DefaultEvalLLMProvider)),
			Model:    llm.value("model", NullValue()),
			Extra:    llm.extra(),
		},
		Extra: r.extra(),
	}
	if llm.hasScalar {
		cfg.LLM.Provider = valueOf(cloneJSON(llm.scalar))
	}
	return cfg
}

func materializeIngestion(r *sectionReader) (IngestionConfig, error) {
	raw, _ := r.lookup("excluded_parsers")
	excluded, err := excludedParsers(raw)
	if err != nil {
		return IngestionConfig{}, err
	}
	return IngestionConfig{ExcludedParsers: excluded, Extra: r.extra()}, nil
}

// excludedParsers accepts a list of names, an object keyed by name, a single
// name or null.
func excludedParsers(raw any) (doctype.Set, error) {
	switch t := raw.(type) {
	case nil:
		return doctype.Set{}, nil
	case string:
		return doctype.ParseSet(t)
	case map[string]any:
		names := make([]string, 0, len(t))
		for name := range t {
			names = append(names, name)
		}
		sort.Strings(names)
		return doctype.ParseSet(names...)
	case []any:
		names := make([]string, 0, len(t))
		for _, item := range t {
			name, ok := item.(string)
			if !ok {
				return doctype.Set{}, &doctype.UnknownTypeError{Name: fmt.Sprint(item)}
			}
			names = append(names, name)
		}
		return doctype.ParseSet(names...)
	default:
		return doctype.Set{}, &doctype.UnknownTypeError{Name: fmt.Sprint(t)}
	}
}

func materializeCompletions(r *sectionReader) CompletionConfig {
	return CompletionConfig{
		Provider:               r.value("provider", Value{}),
		ConcurrentRequestLimit: r.value("concurrent_request_limit", IntValue(DefaultConcurrentRequestLimit)),
		Extra:                  r.extra(),
	}
}

func materializeLogging(r *sectionReader) LoggingConfig {
	return LoggingConfig{
		Provider:     r.value("provider", Value{}),
		LogTable:     r.value("log_table", Value{}),
		LogInfoTable: r.value("log_info_table", StringValue(DefaultLogInfoTable)),
		Extra:        r.extra(),
	}
}

func materializePrompt(r *sectionReader) PromptConfig {
	return PromptConfig{
		Provider: r.value("provider", Value{}),
		Extra:    r.extra(),
	}
}

func materializeDatabase(r *sectionReader) DatabaseConfig {
	return DatabaseConfig{
		Provider: r.value("provider", Value{}),
		Extra:    r.extra(),
	}
}

// sectionReader tracks which keys of a section were claimed by typed fields
// so the rest can be carried in Extra.
type sectionReader struct {
	fields    map[string]any
	scalar    any
	hasScalar bool
	claimed   map[string]struct{}
}

func readSection(raw any) *sectionReader {
	r := &sectionReader{claimed: map[string]struct{}{}}
	switch t := raw.(type) {
	case nil:
	case map[string]any:
		r.fields = t
	default:
		r.scalar = t
		r.hasScalar = true
	}
	return r
}

func (r *sectionReader) lookup(key string) (any, bool) {
	r.claimed[key] = struct{}{}
	v, ok := r.fields[key]
	return v, ok
}

func (r *sectionReader) value(key string, def Value) Value {
	if v, ok := r.lookup(key); ok {
		return valueOf(cloneJSON(v))
	}
	return def
}

func (r *sectionReader) object(key string) *sectionReader {
	v, _ := r.lookup(key)
	return readSection(v)
}

func (r *sectionReader) extra() Fields {
	var out map[string]Value
	for k, v := range r.fields {
		if _, ok := r.claimed[k]; ok {
			continue
		}
		if out == nil {
			out = map[string]Value{}
		}
		out[k] = valueOf(cloneJSON(v))
	}
	return Fields{m: out}
}
