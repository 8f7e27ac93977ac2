package r2rconfig

// Validate checks that raw carries every section and key schema requires.
// Sections are checked in declaration order, then keys within each section;
// the first gap is reported. A present section must be an object or null.
// Unknown sections and keys are ignored.
func Validate(raw RawConfig, schema Schema) (RawConfig, error) {
	for _, rule := range schema.rules {
		section, ok := raw[rule.Name]
		if !ok {
			return nil, &MissingSectionError{Section: rule.Name}
		}
		fields, isObject := section.(map[string]any)
		if !isObject && section != nil {
			return nil, &SectionTypeError{Section: rule.Name}
		}
		for _, key := range rule.Keys {
			if _, ok := fields[key]; !ok {
				return nil, &MissingKeyError{Section: rule.Name, Key: key}
			}
		}
	}
	return raw, nil
}
