package doctype

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveIsCaseInsensitive(t *testing.T) {
	for _, name := range []string{"pdf", "PDF", "Pdf", " pdf "} {
		got, err := Resolve(name)
		require.NoError(t, err, name)
		assert.Equal(t, PDF, got, name)
	}
}

func TestResolveUnknownName(t *testing.T) {
	_, err := Resolve("not_a_type")
	var unknown *UnknownTypeError
	require.True(t, errors.As(err, &unknown), "got %v", err)
	assert.Equal(t, "not_a_type", unknown.Name)
	assert.Contains(t, err.Error(), "CFG_UNKNOWN_DOCTYPE")
}

func TestEveryTypeRoundTripsThroughItsName(t *testing.T) {
	all := All()
	require.Len(t, all, 16)
	for _, typ := range all {
		got, err := Resolve(typ.String())
		require.NoError(t, err)
		assert.Equal(t, typ, got)
	}
}

func TestZeroTypeIsInvalid(t *testing.T) {
	var zero Type
	assert.False(t, zero.Valid())
	_, err := zero.MarshalText()
	assert.Error(t, err)
}

func TestSetMembershipIgnoresOrderAndDuplicates(t *testing.T) {
	a, err := ParseSet("pdf", "txt", "pdf")
	require.NoError(t, err)
	b := NewSet(TXT, PDF)
	assert.Equal(t, a, b)
	assert.Equal(t, 2, a.Len())
	assert.True(t, a.Contains(PDF))
	assert.False(t, a.Contains(HTML))
	assert.Equal(t, []string{"pdf", "txt"}, a.Names())
}

func TestEmptySet(t *testing.T) {
	var s Set
	assert.True(t, s.Empty())
	assert.Equal(t, 0, s.Len())
	blob, err := json.Marshal(s)
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(blob))
}

func TestParseSetRejectsUnknownName(t *testing.T) {
	_, err := ParseSet("pdf", "exe")
	var unknown *UnknownTypeError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "exe", unknown.Name)
}

func TestSetJSON(t *testing.T) {
	s := NewSet(MP4, CSV)
	blob, err := json.Marshal(s)
	require.NoError(t, err)
	assert.Equal(t, `["csv","mp4"]`, string(blob))

	var back Set
	require.NoError(t, json.Unmarshal(blob, &back))
	assert.Equal(t, s, back)
}
