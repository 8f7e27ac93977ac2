package r2rconfig

import "fmt"

type MissingSectionError struct {
	Section string
}

func (e *MissingSectionError) Error() string {
	return fmt.Sprintf("CFG_MISSING_SECTION: required section %q is missing", e.Section)
}

type MissingKeyError struct {
	Section string
	Key     string
}

func (e *MissingKeyError) Error() string {
	return fmt.Sprintf("CFG_MISSING_KEY: section %q is missing required key %q", e.Section, e.Key)
}

// SectionTypeError reports a required section whose value is not an object.
type SectionTypeError struct {
	Section string
}

func (e *SectionTypeError) Error() string {
	return fmt.Sprintf("CFG_SECTION_NOT_OBJECT: section %q must be a JSON object", e.Section)
}

// MalformedJSONError reports a document that does not decode to a JSON object.
type MalformedJSONError struct {
	Source string
	Err    error
}

func (e *MalformedJSONError) Error() string {
	if e.Source == "" {
		return fmt.Sprintf("CFG_MALFORMED_JSON: %v", e.Err)
	}
	return fmt.Sprintf("CFG_MALFORMED_JSON: %s: %v", e.Source, e.Err)
}

func (e *MalformedJSONError) Unwrap() error { return e.Err }

type KeyNotFoundError struct {
	Key string
}

func (e *KeyNotFoundError) Error() string {
	return fmt.Sprintf("CFG_KEY_NOT_FOUND: no configuration stored under key %q", e.Key)
}

type StoreWriteError struct {
	Key string
	Err error
}

func (e *StoreWriteError) Error() string {
	return fmt.Sprintf("CFG_STORE_WRITE: key %q: %v", e.Key, e.Err)
}

func (e *StoreWriteError) Unwrap() error { return e.Err }
