package naming

import (
	"fmt"
	"strings"
)

// maxAttempts bounds the numeric-suffix fallback. The loop terminates long
// before this on any real schema; the bound only guards pathological input.
const maxAttempts = 10000

// defaultAlreadyPlural lists domain words that pass through Pluralize
// unchanged.
var defaultAlreadyPlural = map[string]bool{
	"children":  true,
	"people":    true,
	"data":      true,
	"media":     true,
	"news":      true,
	"series":    true,
	"species":   true,
	"feedback":  true,
	"equipment": true,
	"staff":     true,
}

// EntityName derives a type name from a table name: underscore segments
// are title-cased and concatenated, then naively singularized.
// "user_roles" -> "UserRole", "categories" -> "Category".
func EntityName(tableName string) string {
	return singularize(PascalCase(tableName))
}

// RepositoryName derives the companion repository type name.
func RepositoryName(entityName string) string {
	return entityName + "Repository"
}

// PropertyName converts a column name to camelCase:
// "created_at" -> "createdAt".
func PropertyName(columnName string) string {
	parts := strings.Split(columnName, "_")
	var b strings.Builder
	for i, part := range parts {
		if part == "" {
			continue
		}
		if b.Len() == 0 && i == 0 {
			b.WriteString(strings.ToLower(part))
			continue
		}
		b.WriteString(strings.ToUpper(part[:1]) + strings.ToLower(part[1:]))
	}
	return b.String()
}

// Pluralize applies English suffix rules with the default allow-list of
// already-plural words.
func Pluralize(word string) string {
	return PluralizeWith(word, defaultAlreadyPlural)
}

// PluralizeWith is Pluralize with a caller-supplied allow-list.
func PluralizeWith(word string, alreadyPlural map[string]bool) string {
	if word == "" {
		return word
	}
	if alreadyPlural[strings.ToLower(word)] {
		return word
	}

	lower := strings.ToLower(word)
	switch {
	case strings.HasSuffix(lower, "y") && len(word) >= 2 && !isVowel(lower[len(lower)-2]):
		return word[:len(word)-1] + "ies"
	case strings.HasSuffix(lower, "s"), strings.HasSuffix(lower, "x"),
		strings.HasSuffix(lower, "z"), strings.HasSuffix(lower, "ch"),
		strings.HasSuffix(lower, "sh"):
		return word + "es"
	case strings.HasSuffix(lower, "fe"):
		return word[:len(word)-2] + "ves"
	case strings.HasSuffix(lower, "f"):
		return word[:len(word)-1] + "ves"
	default:
		return word + "s"
	}
}

// UniqueRelationName resolves a collision-free property name for a
// relation. Attempts, in order: the base name; a name derived from the
// local FK column (with "_id" stripped, target entity appended unless the
// column already names it); the base name with a numeric suffix from 2.
// The used set is not mutated; the caller records the returned name.
func UniqueRelationName(base, localColumn, targetEntity string, used map[string]bool) (string, error) {
	if !used[base] {
		return base, nil
	}

	if localColumn != "" {
		derived := PropertyName(strings.TrimSuffix(localColumn, "_id"))
		if derived != "" {
			if !strings.Contains(strings.ToLower(derived), strings.ToLower(targetEntity)) {
				derived += targetEntity
			}
			if !used[derived] {
				return derived, nil
			}
		}
	}

	for i := 2; i < maxAttempts; i++ {
		candidate := fmt.Sprintf("%s%d", base, i)
		if !used[candidate] {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("naming collision fallback exhausted for %q", base)
}

// PascalCase title-cases underscore segments: "user_roles" -> "UserRoles".
func PascalCase(s string) string {
	parts := strings.Split(s, "_")
	for i, part := range parts {
		if len(part) > 0 {
			parts[i] = strings.ToUpper(part[:1]) + strings.ToLower(part[1:])
		}
	}
	return strings.Join(parts, "")
}

// singularize applies the naive reverse suffix rules: "ies" -> "y",
// trailing "s" (but not "ss") dropped.
func singularize(s string) string {
	switch {
	case strings.HasSuffix(s, "ies"):
		return s[:len(s)-3] + "y"
	case strings.HasSuffix(s, "s") && !strings.HasSuffix(s, "ss"):
		return s[:len(s)-1]
	default:
		return s
	}
}

func isVowel(c byte) bool {
	switch c {
	case 'a', 'e', 'i', 'o', 'u':
		return true
	}
	return false
}
