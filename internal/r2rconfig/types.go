package r2rconfig

import "r2r/internal/doctype"

// Config is a validated, materialized configuration. It is built once per
// load and must not be modified afterwards; reloading yields a new Config.
type Config struct {
	App         AppConfig
	Auth        AuthConfig
	Crypto      CryptoConfig
	Embedding   EmbeddingConfig
	KG          KGConfig
	Eval        EvalConfig
	Ingestion   IngestionConfig
	Completions CompletionConfig
	Logging     LoggingConfig
	Prompt      PromptConfig
	Database    DatabaseConfig

	// Extra holds top-level sections the schema does not know about.
	Extra Fields
}

type AppConfig struct {
	MaxFileSizeInMB Value
	Extra           Fields
}

type AuthConfig struct {
	Provider      Value
	Enabled       Value
	TokenLifetime Value
	Extra         Fields
}

type CryptoConfig struct {
	Provider Value
	Extra    Fields
}

type EmbeddingConfig struct {
	Provider         Value
	BaseModel        Value
	BaseDimension    Value
	BatchSize        Value
	TextSplitter     TextSplitterConfig
	AddTitleAsPrefix Value
	RerankModel      Value
	Extra            Fields
}

type KGConfig struct {
	Provider           Value
	BatchSize          Value
	TextSplitter       TextSplitterConfig
	KGExtractionConfig Value
	Extra              Fields
}

// TextSplitterConfig describes how documents are chunked.
type TextSplitterConfig struct {
	Type         Value
	ChunkSize    Value
	ChunkOverlap Value
	Extra        Fields
}

type EvalConfig struct {
	Provider Value
	LLM      LLMConfig
	Extra    Fields
}

type LLMConfig struct {
	Provider Value
	Model    Value
	Extra    Fields
}

type IngestionConfig struct {
	ExcludedParsers doctype.Set
	Extra           Fields
}

type CompletionConfig struct {
	Provider               Value
	ConcurrentRequestLimit Value
	Extra                  Fields
}

type LoggingConfig struct {
	Provider     Value
	LogTable     Value
	LogInfoTable Value
	Extra        Fields
}

type PromptConfig struct {
	Provider Value
	Extra    Fields
}

type DatabaseConfig struct {
	Provider Value
	Extra    Fields
}
