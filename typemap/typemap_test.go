package typemap

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMapScalar(t *testing.T) {
	tests := []struct {
		raw  string
		want Scalar
	}{
		{"int", ScalarInt},
		{"INT", ScalarInt},
		{"tinyint(1) unsigned", ScalarInt},
		{"bigint unsigned zerofill", ScalarInt},
		{"year", ScalarInt},
		{"serial", ScalarInt},
		{"float", ScalarFloat},
		{"double precision", ScalarFloat},
		{"real", ScalarFloat},
		{"decimal(10,2)", ScalarString},
		{"decimal(10,2) unsigned", ScalarString},
		{"numeric", ScalarString},
		{"boolean", ScalarBool},
		{"bit", ScalarBool},
		{"datetime", ScalarInstant},
		{"timestamp with time zone", ScalarInstant},
		{"date", ScalarInstant},
		{"json", ScalarArray},
		{"jsonb", ScalarArray},
		{"enum('a','b')", ScalarString},
		{"set('x','y')", ScalarString},
		{"geometry", ScalarString},
		{"polygon", ScalarString},
		{"varchar(255)", ScalarString},
		{"text", ScalarString},
		{"uuid", ScalarString},
		{"blob", ScalarString},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, MapScalar(tt.raw))
		})
	}
}

func TestMapStorageTag(t *testing.T) {
	tests := []struct {
		raw  string
		want StorageTag
	}{
		{"int", TagInteger},
		{"tinyint(1)", TagInteger},
		{"smallint", TagSmallInt},
		{"bigint unsigned", TagBigInt},
		{"decimal(10,2) unsigned", TagDecimal},
		{"double", TagFloat},
		{"bool", TagBoolean},
		{"varchar(100)", TagString},
		{"longtext", TagText},
		{"datetime", TagDatetime},
		{"timestamp", TagDatetime},
		{"date", TagDate},
		{"time", TagTime},
		{"jsonb", TagJSON},
		{"bytea", TagBlob},
		{"varbinary(16)", TagBlob},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, MapStorageTag(tt.raw))
		})
	}
}

// Both mapping functions must resolve every input, however malformed, to
// the string fallback rather than failing.
func TestMappingIsTotal(t *testing.T) {
	inputs := []string{
		"", " ", "unknown_type", "enum", "(((", ")", "unsigned",
		"frobnicate(1,2,3)", "VARCHAR2", "int8range", "💾",
	}

	for _, raw := range inputs {
		scalar := MapScalar(raw)
		tag := MapStorageTag(raw)
		assert.NotEmpty(t, scalar, "MapScalar(%q)", raw)
		assert.NotEmpty(t, tag, "MapStorageTag(%q)", raw)
	}

	assert.Equal(t, ScalarString, MapScalar("no_such_type"))
	assert.Equal(t, TagString, MapStorageTag("no_such_type"))
}

func TestBaseKeyword(t *testing.T) {
	assert.Equal(t, "decimal", BaseKeyword("decimal(10,2) unsigned"))
	assert.Equal(t, "int", BaseKeyword("INT UNSIGNED ZEROFILL"))
	assert.Equal(t, "varchar", BaseKeyword("varchar(255)"))
	assert.Equal(t, "timestamp with time zone", BaseKeyword("timestamp with time zone"))
}

func TestNullable(t *testing.T) {
	// primary-key columns are never nullable
	assert.False(t, Nullable(true, true, TagInteger))
	// boolean columns default to false, never null
	assert.False(t, Nullable(true, false, TagBoolean))
	// everything else follows the column flag
	assert.True(t, Nullable(true, false, TagString))
	assert.False(t, Nullable(false, false, TagString))
}

func TestParseParams(t *testing.T) {
	tests := []struct {
		raw                      string
		length, precision, scale int
	}{
		{"decimal(10,2) unsigned", 0, 10, 2},
		{"varchar(255)", 255, 0, 0},
		{"text", 0, 0, 0},
		{"numeric(8, 4)", 0, 8, 4},
		{"enum('a','b')", 0, 0, 0},
		{"broken(", 0, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			length, precision, scale := ParseParams(tt.raw)
			assert.Equal(t, tt.length, length, "length")
			assert.Equal(t, tt.precision, precision, "precision")
			assert.Equal(t, tt.scale, scale, "scale")
		})
	}
}
