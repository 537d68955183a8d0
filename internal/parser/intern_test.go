package parser

import (
	"strconv"
	"testing"
)

func TestStringIntern(t *testing.T) {
	si := NewStringIntern()

	s1 := si.Intern("FRA")
	s2 := si.Intern("FRA")
	if s1 != s2 {
		t.Error("Expected same string for interned values")
	}

	s3 := si.Intern("MUC")
	if s1 == s3 {
		t.Error("Expected different strings for different values")
	}

	if si.Len() != 2 {
		t.Errorf("Expected pool size 2, got %d", si.Len())
	}
}

func TestStringInternLimit(t *testing.T) {
	si := NewStringIntern()
	for i := 0; i < MaxInternPoolSize; i++ {
		k := "k-" + strconv.Itoa(i)
		si.pool[k] = k
	}

	if got := si.Intern("overflow"); got != "overflow" {
		t.Errorf("Expected value to be returned unchanged, got %q", got)
	}
	if si.Len() != MaxInternPoolSize {
		t.Errorf("Expected pool to stay at %d, got %d", MaxInternPoolSize, si.Len())
	}
}

// Benchmark interning with duplicates (typical shipment sheet)
func BenchmarkStringInternDuplicates(b *testing.B) {
	si := NewStringIntern()
	codes := []string{"FRA", "MUC", "HAM", "CGN", "LEJ", "STR"}
	for _, c := range codes {
		si.Intern(c)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		si.Intern(codes[i%len(codes)])
	}
}
