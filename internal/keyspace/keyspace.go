// Package keyspace builds the storage keys used by entity stores and backends.
package keyspace

import (
	"fmt"
	"strings"
)

// Separator joins a namespace and a key name.
const Separator = ":"

// Qualify prefixes name with namespace.
// With an empty namespace the name is returned unchanged, so the default
// deployment reads and writes the bare keys ("events", "lastEventId", ...).
func Qualify(namespace, name string) string {
	if namespace == "" {
		return name
	}
	return fmt.Sprintf("%s%s%s", namespace, Separator, name)
}

// ValidateName reports whether name can be used as an unqualified key.
func ValidateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("empty key name")
	}
	if strings.Contains(name, Separator) {
		return fmt.Errorf("key name %q contains %q", name, Separator)
	}
	return nil
}

// ValidateNamespace reports whether namespace can prefix key names.
// The empty namespace is valid.
func ValidateNamespace(namespace string) error {
	if namespace == "" {
		return nil
	}
	if strings.TrimSpace(namespace) != namespace {
		return fmt.Errorf("namespace %q has surrounding whitespace", namespace)
	}
	return nil
}
