// Package testutil holds fixtures shared by package tests: a field
// registry covering every data type, a small document corpus, and
// deterministic compile ID generators.
package testutil

import "github.com/roach88/condex/internal/field"

// Fields is the fixture schema: one field per data type, plus a second
// text field.
var Fields = []field.Def{
	{Name: "title", Type: field.Text, Sortable: true},
	{Name: "body", Type: field.Text},
	{Name: "code", Type: field.Identifier, Sortable: true},
	{Name: "active", Type: field.Boolean},
	{Name: "year", Type: field.Integer, Sortable: true},
	{Name: "price", Type: field.Decimal},
	{Name: "published", Type: field.Date},
	{Name: "opens", Type: field.Time},
	{Name: "updated", Type: field.Timestamp},
}

// Registry returns a registry over Fields.
func Registry() *field.Registry {
	return field.MustRegistry(Fields...)
}

// Record is one fixture document: an ID and its raw field values.
type Record struct {
	ID     uint32
	Fields map[string]string
}

// Books returns the fixture corpus. Values are raw (unencoded); every call
// returns fresh maps.
func Books() []Record {
	return []Record{
		{ID: 1, Fields: map[string]string{
			"title": "Old Man River", "body": "The river flows past the old mill",
			"code": "BK-001", "active": "true", "year": "1999", "price": "9.99",
			"published": "1999-05-01", "opens": "09:00", "updated": "2020-01-01T10:00:00Z",
		}},
		{ID: 2, Fields: map[string]string{
			"title": "The Quick Brown Fox", "body": "A quick brown fox jumps over the lazy dog",
			"code": "BK-002", "active": "false", "year": "2005", "price": "12.50",
			"published": "2005-11-20", "opens": "10:30", "updated": "2021-06-15T08:30:00Z",
		}},
		{ID: 3, Fields: map[string]string{
			"title": "River Crossing", "body": "Crossing the river at dawn",
			"code": "BK-003", "active": "true", "year": "1987", "price": "9.98",
			"published": "1987-02-14", "opens": "08:15", "updated": "2019-03-03T12:00:00Z",
		}},
		{ID: 4, Fields: map[string]string{
			"title": "Café Society", "body": "Stories from the café at the edge of town",
			"code": "XX-104", "active": "true", "year": "2010", "price": "0",
			"published": "2010-07-04", "opens": "07:00", "updated": "2022-12-31T23:59:59Z",
		}},
		{ID: 5, Fields: map[string]string{
			"title": "Ancient Rome", "body": "A history from the founding of the city",
			"code": "BK-005", "active": "false", "year": "0", "price": "1000000",
			"published": "-0753-04-21", "opens": "12:00", "updated": "2018-08-08T08:08:08Z",
		}},
	}
}
