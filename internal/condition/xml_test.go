package condition

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseXML_Tree(t *testing.T) {
	doc := `
<and>
  <condition field="title" operator="contains" value="river"/>
  <or>
    <condition field="year" operator="gte" value="1999"/>
    <not><condition field="status" op="=" value="draft"/></not>
  </or>
</and>`

	node, err := ParseXMLString(doc)
	require.NoError(t, err)

	want := And(
		Cond("title", Contains, "river"),
		Or(
			Cond("year", Gte, "1999"),
			Not(Cond("status", Eq, "draft")),
		),
	)
	assert.Equal(t, want, node)
}

func TestParseXML_ValueFromText(t *testing.T) {
	node, err := ParseXMLString(`<condition field="body" operator="rawPassthrough">title:"river bank" AND year:1999</condition>`)
	require.NoError(t, err)
	assert.Equal(t, Cond("body", Raw, `title:"river bank" AND year:1999`), node)
}

func TestParseXML_WrapperCollapses(t *testing.T) {
	node, err := ParseXMLString(`<query><condition field="a" operator="eq" value="1"/></query>`)
	require.NoError(t, err)
	assert.Equal(t, Cond("a", Eq, "1"), node)

	node, err = ParseXMLString(`<query><condition field="a" operator="eq" value="1"/><condition field="b" operator="eq" value="2"/></query>`)
	require.NoError(t, err)
	assert.Equal(t, And(Cond("a", Eq, "1"), Cond("b", Eq, "2")), node)
}

func TestParseXML_UnknownOperatorKept(t *testing.T) {
	node, err := ParseXMLString(`<condition field="a" operator="between" value="1"/>`)
	require.NoError(t, err)
	assert.Equal(t, Operator("between"), node.(Condition).Operator)
}

func TestParseXML_Empty(t *testing.T) {
	_, err := ParseXMLString("")
	require.Error(t, err)
	assert.True(t, IsStructural(err))
}

func TestParseXML_Malformed(t *testing.T) {
	_, err := ParseXMLString(`<and><condition field="a"></and>`)
	require.Error(t, err)
	assert.True(t, IsStructural(err))
}

func TestParseXML_NestedElementInCondition(t *testing.T) {
	_, err := ParseXMLString(`<condition field="a"><and/></condition>`)
	require.Error(t, err)
	assert.True(t, IsStructural(err))
}
