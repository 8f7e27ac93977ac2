package r2rconfig

// RawConfig is an untyped configuration document. Numbers are json.Number.
type RawConfig = map[string]any

// SectionRule names a required top-level section and its required keys.
type SectionRule struct {
	Name string
	Keys []string
}

// Schema is the ordered set of required sections. It is never mutated after
// construction.
type Schema struct {
	rules []SectionRule
}

func NewSchema(rules ...SectionRule) Schema {
	copied := make([]SectionRule, len(rules))
	for i, r := range rules {
		copied[i] = SectionRule{Name: r.Name, Keys: append([]string(nil), r.Keys...)}
	}
	return Schema{rules: copied}
}

// Rules returns a copy of the rules in declaration order.
func (s Schema) Rules() []SectionRule {
	return NewSchema(s.rules...).rules
}

// Sections returns the required section names in declaration order.
func (s Schema) Sections() []string {
	out := make([]string, len(s.rules))
	for i, r := range s.rules {
		out[i] = r.Name
	}
	return out
}

const (
	SectionApp         = "app"
	SectionAuth        = "auth"
	SectionCrypto      = "crypto"
	SectionEmbedding   = "embedding"
	SectionKG          = "kg"
	SectionEval        = "eval"
	SectionIngestion   = "ingestion"
	SectionCompletions = "completions"
	SectionLogging     = "logging"
	SectionPrompt      = "prompt"
	SectionDatabase    = "database"
)

// DefaultSchema is the contract every configuration document must satisfy.
var DefaultSchema = NewSchema(
	SectionRule{Name: SectionEmbedding, Keys: []string{"provider", "base_model", "base_dimension", "batch_size", "text_splitter"}},
	SectionRule{Name: SectionKG, Keys: []string{"provider", "batch_size", "text_splitter"}},
	SectionRule{Name: SectionEval, Keys: []string{"llm"}},
	SectionRule{Name: SectionIngestion},
	SectionRule{Name: SectionCompletions, Keys: []string{"provider"}},
	SectionRule{Name: SectionLogging, Keys: []string{"provider", "log_table"}},
	SectionRule{Name: SectionPrompt, Keys: []string{"provider"}},
	SectionRule{Name: SectionDatabase, Keys: []string{"provider"}},
)
