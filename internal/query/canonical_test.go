package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalCanonical_SortedKeys(t *testing.T) {
	data, err := MarshalCanonical(Term{Field: "title", Value: "river"})
	require.NoError(t, err)
	assert.Equal(t, `{"field":"title","type":"term","value":"river"}`, string(data))
}

func TestMarshalCanonical_Boolean(t *testing.T) {
	q := Boolean{Clauses: []Clause{
		{Query: Term{Field: "a", Value: "1"}, Occur: Must},
		{Query: Range{Field: "n", Lower: "1", Upper: "2", IncludeLower: true}, Occur: MustNot},
	}}

	data, err := MarshalCanonical(q)
	require.NoError(t, err)
	assert.Equal(t,
		`{"clauses":[{"occur":"MUST","query":{"field":"a","type":"term","value":"1"}},`+
			`{"occur":"MUST_NOT","query":{"field":"n","include_lower":true,"include_upper":false,"lower":"1","type":"range","upper":"2"}}],"type":"boolean"}`,
		string(data))
}

func TestMarshalCanonical_NoHTMLEscape(t *testing.T) {
	data, err := MarshalCanonical(Term{Field: "f", Value: "<a&b>"})
	require.NoError(t, err)
	assert.Contains(t, string(data), `"<a&b>"`)
}

func TestMarshalCanonical_NFCNormalization(t *testing.T) {
	// "é" as e + combining acute (NFD) must serialize like the precomposed form
	nfd, err := MarshalCanonical(Term{Field: "f", Value: "e\u0301"})
	require.NoError(t, err)
	nfc, err := MarshalCanonical(Term{Field: "f", Value: "\u00e9"})
	require.NoError(t, err)
	assert.Equal(t, nfc, nfd)
}

func TestMarshalCanonical_Nil(t *testing.T) {
	data, err := MarshalCanonical(nil)
	require.NoError(t, err)
	assert.Equal(t, "null", string(data))
}

func TestMarshalCanonical_NilClauseRejected(t *testing.T) {
	_, err := MarshalCanonical(Boolean{Clauses: []Clause{{Query: nil, Occur: Must}}})
	require.Error(t, err)
}

func TestMarshalCanonical_Raw(t *testing.T) {
	data, err := MarshalCanonical(RawPassthrough{Text: "a:1", Parsed: Term{Field: "a", Value: "1"}})
	require.NoError(t, err)
	assert.Equal(t, `{"parsed":{"field":"a","type":"term","value":"1"},"text":"a:1","type":"raw"}`, string(data))
}
