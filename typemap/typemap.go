package typemap

import (
	"regexp"
	"strconv"
	"strings"
)

// Scalar is the portable property type an entity field carries.
type Scalar string

const (
	ScalarInt     Scalar = "int"
	ScalarFloat   Scalar = "float"
	ScalarString  Scalar = "string"
	ScalarBool    Scalar = "bool"
	ScalarInstant Scalar = "instant" // date/time family, rendered as time.Time
	ScalarArray   Scalar = "array"   // json documents
)

// StorageTag is the storage-format classification used for column
// round-tripping and lifecycle decisions.
type StorageTag string

const (
	TagInteger  StorageTag = "integer"
	TagSmallInt StorageTag = "smallint"
	TagBigInt   StorageTag = "bigint"
	TagFloat    StorageTag = "float"
	TagDecimal  StorageTag = "decimal"
	TagBoolean  StorageTag = "boolean"
	TagString   StorageTag = "string"
	TagText     StorageTag = "text"
	TagDatetime StorageTag = "datetime"
	TagDate     StorageTag = "date"
	TagTime     StorageTag = "time"
	TagJSON     StorageTag = "json"
	TagBlob     StorageTag = "blob"
)

var unitModifiers = regexp.MustCompile(`(?i)\b(unsigned|signed|zerofill)\b`)

// BaseKeyword strips unit modifiers and any parenthesised parameters from
// a raw vendor type, leaving the lower-cased dispatch keyword.
// "decimal(10,2) unsigned" -> "decimal".
func BaseKeyword(rawType string) string {
	s := unitModifiers.ReplaceAllString(rawType, "")
	if i := strings.Index(s, "("); i >= 0 {
		s = s[:i]
	}
	return strings.ToLower(strings.TrimSpace(s))
}

// MapScalar maps a raw vendor type to a portable scalar. It is total:
// anything unrecognised resolves to the string scalar, never an error.
func MapScalar(rawType string) Scalar {
	switch BaseKeyword(rawType) {
	case "tinyint", "smallint", "mediumint", "int", "integer", "bigint", "year",
		"serial", "bigserial", "smallserial", "int2", "int4", "int8":
		return ScalarInt
	case "float", "double", "double precision", "real", "float4", "float8":
		return ScalarFloat
	case "decimal", "numeric":
		// kept as string: arbitrary precision survives, binary floats don't
		return ScalarString
	case "boolean", "bool", "bit":
		return ScalarBool
	case "date", "datetime", "time", "timestamp", "timestamptz", "timetz",
		"timestamp without time zone", "timestamp with time zone",
		"time without time zone", "time with time zone":
		return ScalarInstant
	case "json", "jsonb":
		return ScalarArray
	default:
		// enum, set and spatial types land here on purpose: their value
		// sets travel out-of-band, the property itself is a string
		return ScalarString
	}
}

// MapStorageTag maps a raw vendor type to its storage tag. Total, with a
// string fallback like MapScalar.
func MapStorageTag(rawType string) StorageTag {
	switch BaseKeyword(rawType) {
	case "tinyint", "mediumint", "int", "integer", "year", "serial", "int4":
		return TagInteger
	case "smallint", "smallserial", "int2":
		return TagSmallInt
	case "bigint", "bigserial", "int8":
		return TagBigInt
	case "float", "double", "double precision", "real", "float4", "float8":
		return TagFloat
	case "decimal", "numeric":
		return TagDecimal
	case "boolean", "bool", "bit":
		return TagBoolean
	case "text", "tinytext", "mediumtext", "longtext":
		return TagText
	case "datetime", "timestamp", "timestamptz",
		"timestamp without time zone", "timestamp with time zone":
		return TagDatetime
	case "date":
		return TagDate
	case "time", "timetz", "time without time zone", "time with time zone":
		return TagTime
	case "json", "jsonb":
		return TagJSON
	case "blob", "tinyblob", "mediumblob", "longblob", "binary", "varbinary", "bytea":
		return TagBlob
	default:
		return TagString
	}
}

// DatetimeLike reports whether the tag belongs to the date/time family.
func (t StorageTag) DatetimeLike() bool {
	switch t {
	case TagDatetime, TagDate, TagTime:
		return true
	}
	return false
}

// Nullable applies the composition rule: a scalar is nullable only when
// the column is nullable, is not part of the primary key, and is not
// boolean (booleans default to false rather than null).
func Nullable(columnNullable, isPrimary bool, tag StorageTag) bool {
	return columnNullable && !isPrimary && tag != TagBoolean
}

// ParseParams extracts (length) or (precision,scale) from a raw vendor
// type string. Zero values mean "not present".
func ParseParams(rawType string) (length, precision, scale int) {
	open := strings.Index(rawType, "(")
	if open < 0 {
		return 0, 0, 0
	}
	end := strings.Index(rawType[open:], ")")
	if end < 0 {
		return 0, 0, 0
	}
	parts := strings.Split(rawType[open+1:open+end], ",")
	first, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, 0, 0
	}
	if len(parts) == 1 {
		return first, 0, 0
	}
	second, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return first, 0, 0
	}
	return 0, first, second
}
