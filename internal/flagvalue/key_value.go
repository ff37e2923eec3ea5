package flagvalue

import (
	"flag"
	"strings"

	"braces.dev/errtrace"
)

// KeyValue is a flag that accepts values in the form "key=value".
//
// Use it with [ListOf] to accept a mapping.
//
//	flag.Var(flagvalue.ListOf(&pairs), "alias", ...)
type KeyValue struct {
	Key   string
	Value string
}

var _ flag.Getter = (*KeyValue)(nil)

// Get returns the KeyValue.
func (kv *KeyValue) Get() any { return *kv }

// String returns the pair in the form "key=value".
func (kv *KeyValue) String() string {
	if kv.Key == "" && kv.Value == "" {
		return ""
	}
	return kv.Key + "=" + kv.Value
}

// Set receives a single "key=value" pair.
// The key must not be empty.
func (kv *KeyValue) Set(s string) error {
	key, value, ok := strings.Cut(s, "=")
	key = strings.TrimSpace(key)
	if !ok || key == "" {
		return errtrace.Errorf("expected form 'key=value', got %q", s)
	}

	kv.Key = key
	kv.Value = strings.TrimSpace(value)
	return nil
}

// KeyValueMap builds a map from a list of pairs.
// Later pairs override earlier ones with the same key.
func KeyValueMap(pairs []KeyValue) map[string]string {
	if len(pairs) == 0 {
		return nil
	}

	m := make(map[string]string, len(pairs))
	for _, kv := range pairs {
		m[kv.Key] = kv.Value
	}
	return m
}
