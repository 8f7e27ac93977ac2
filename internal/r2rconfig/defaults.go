package r2rconfig

// Defaults for optional fields. Required fields have none.
const (
	DefaultMaxFileSizeInMB        = 32
	DefaultAuthProvider           = "r2r"
	DefaultAuthEnabled            = false
	DefaultTokenLifetime          = 86400
	DefaultCryptoProvider         = "bcrypt"
	DefaultAddTitleAsPrefix       = true
	DefaultEvalProvider           = "None"
	DefaultEvalLLMProvider        = "local"
	DefaultConcurrentRequestLimit = 16
	DefaultLogInfoTable           = "log_info"
	DefaultTextSplitterType       = "recursive_character"
	DefaultChunkSize              = 512
	DefaultChunkOverlap           = 20
)

func emptyObject() Value { return valueOf(map[string]any{}) }
