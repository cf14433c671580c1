// Package condition provides the boolean search-condition tree accepted by
// the condex compiler.
//
// A tree is built once per request (usually by decoding a condition
// document), handed to the compiler, and discarded. Trees are never mutated
// after construction.
//
// NODE VOCABULARY:
//
//	and        combinator, every child required
//	or         combinator, at least one child expected
//	not        combinator, every child prohibited
//	condition  leaf: field, operator, value
//
// SEALED INTERFACE:
//
// Node is sealed with the marker method pattern. Only Condition and Group
// implement it, so the compiler can type switch exhaustively:
//
//	switch n := node.(type) {
//	case Condition:
//	    // leaf
//	case Group:
//	    // and / or / not
//	}
//
// DOCUMENT FORMATS:
//
// ParseXML decodes the XML vocabulary used by search front ends:
//
//	<and>
//	  <condition field="title" operator="contains" value="river"/>
//	  <not><condition field="status" operator="eq" value="draft"/></not>
//	</and>
//
// Tree implements yaml.Unmarshaler for the same vocabulary in YAML:
//
//	and:
//	  - condition: {field: title, operator: contains, value: river}
//	  - not:
//	      - condition: {field: status, operator: eq, value: draft}
//
// STRUCTURAL ERRORS:
//
// Validate reports problems with the tree shape itself (nil root, empty
// root combinator, unknown combinator, nil child). Problems with a single
// leaf (unknown field, unsupported operator, bad value) are not structural;
// the compiler handles them per leaf.
package condition
