package doctype

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Type is a document type the ingestion pipeline knows how to parse.
type Type uint8

const (
	CSV Type = iota + 1
	DOCX
	HTML
	JSON
	MD
	PDF
	PPTX
	TXT
	XLSX
	GIF
	PNG
	JPG
	JPEG
	SVG
	MP3
	MP4
)

var names = [...]string{
	CSV:  "csv",
	DOCX: "docx",
	HTML: "html",
	JSON: "json",
	MD:   "md",
	PDF:  "pdf",
	PPTX: "pptx",
	TXT:  "txt",
	XLSX: "xlsx",
	GIF:  "gif",
	PNG:  "png",
	JPG:  "jpg",
	JPEG: "jpeg",
	SVG:  "svg",
	MP3:  "mp3",
	MP4:  "mp4",
}

var byName = func() map[string]Type {
	m := make(map[string]Type, len(names))
	for i, n := range names {
		if n != "" {
			m[n] = Type(i)
		}
	}
	return m
}()

// UnknownTypeError reports a name with no registered document type.
type UnknownTypeError struct {
	Name string
}

func (e *UnknownTypeError) Error() string {
	return fmt.Sprintf("CFG_UNKNOWN_DOCTYPE: unknown document type %q", e.Name)
}

// Resolve maps a case-insensitive type name to its Type.
func Resolve(name string) (Type, error) {
	if t, ok := byName[strings.ToLower(strings.TrimSpace(name))]; ok {
		return t, nil
	}
	return 0, &UnknownTypeError{Name: name}
}

// All returns every registered type in canonical order.
func All() []Type {
	out := make([]Type, 0, len(names)-1)
	for i := 1; i < len(names); i++ {
		out = append(out, Type(i))
	}
	return out
}

func (t Type) Valid() bool {
	return t > 0 && int(t) < len(names)
}

func (t Type) String() string {
	if !t.Valid() {
		return fmt.Sprintf("doctype(%d)", uint8(t))
	}
	return names[t]
}

func (t Type) MarshalText() ([]byte, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("CFG_UNKNOWN_DOCTYPE: invalid document type %d", uint8(t))
	}
	return []byte(names[t]), nil
}

func (t *Type) UnmarshalText(text []byte) error {
	v, err := Resolve(string(text))
	if err != nil {
		return err
	}
	*t = v
	return nil
}

// Set is an immutable set of document types. The zero value is empty.
type Set struct {
	bits uint32
}

// NewSet builds a set from types; invalid values are ignored.
func NewSet(types ...Type) Set {
	var s Set
	for _, t := range types {
		if t.Valid() {
			s.bits |= 1 << t
		}
	}
	return s
}

// ParseSet resolves every name and returns the resulting set.
func ParseSet(names ...string) (Set, error) {
	var s Set
	for _, n := range names {
		t, err := Resolve(n)
		if err != nil {
			return Set{}, err
		}
		s.bits |= 1 << t
	}
	return s, nil
}

func (s Set) Contains(t Type) bool {
	return t.Valid() && s.bits&(1<<t) != 0
}

func (s Set) Len() int {
	n := 0
	for b := s.bits; b != 0; b &= b - 1 {
		n++
	}
	return n
}

func (s Set) Empty() bool { return s.bits == 0 }

// Types returns the members in canonical order.
func (s Set) Types() []Type {
	out := make([]Type, 0, s.Len())
	for _, t := range All() {
		if s.Contains(t) {
			out = append(out, t)
		}
	}
	return out
}

// Names returns the member names in canonical order.
func (s Set) Names() []string {
	types := s.Types()
	out := make([]string, len(types))
	for i, t := range types {
		out[i] = t.String()
	}
	return out
}

func (s Set) String() string {
	return "{" + strings.Join(s.Names(), ",") + "}"
}

func (s Set) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Names())
}

func (s *Set) UnmarshalJSON(data []byte) error {
	var list []string
	if err := json.Unmarshal(data, &list); err != nil {
		return err
	}
	parsed, err := ParseSet(list...)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
