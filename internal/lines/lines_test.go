// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package lines

import "testing"

func TestTable_Intern(t *testing.T) {
	tab := NewTable()

	a := tab.Intern("void main() {")
	b := tab.Intern("}")
	c := tab.Intern("void main() {")

	if a != c {
		t.Fatalf("expected interning the same line to return the same id, got %d and %d", a, c)
	}
	if a == b {
		t.Fatalf("expected distinct lines to get distinct ids")
	}
	if tab.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", tab.Len())
	}
	if tab.Text(a) != "void main() {" {
		t.Fatalf("Text(a) = %q", tab.Text(a))
	}
}

func TestSplitLines(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"empty", "", nil},
		{"no trailing newline", "a\nb", []string{"a", "b"}},
		{"trailing newline", "a\nb\n", []string{"a", "b"}},
		{"blank line", "a\n\nb", []string{"a", "", "b"}},
		{"double trailing newline", "a\n\n", []string{"a", ""}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SplitLines(tt.in)
			if len(got) != len(tt.want) {
				t.Fatalf("SplitLines(%q) = %#v, want %#v", tt.in, got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Fatalf("SplitLines(%q)[%d] = %q, want %q", tt.in, i, got[i], tt.want[i])
				}
			}
		})
	}
}
