// Package parser loads uploaded shipment spreadsheets into tables.
// Airport and station codes repeat on nearly every row, so loaders intern
// cell strings to keep one copy of each distinct value per upload.
package parser

// MaxInternPoolSize limits the intern pool to prevent unbounded memory growth.
// Past this limit strings are returned without being stored.
const MaxInternPoolSize = 500000

// StringIntern deduplicates strings for a single load. Not safe for concurrent use.
type StringIntern struct {
	pool map[string]string
}

// NewStringIntern creates a new string interner.
func NewStringIntern() *StringIntern {
	return &StringIntern{
		pool: make(map[string]string, 1024),
	}
}

// Intern returns the canonical version of s.
func (si *StringIntern) Intern(s string) string {
	if pooled, ok := si.pool[s]; ok {
		return pooled
	}
	if len(si.pool) >= MaxInternPoolSize {
		return s
	}
	si.pool[s] = s
	return s
}

// Len returns the number of unique strings in the pool.
func (si *StringIntern) Len() int {
	return len(si.pool)
}
