package core

import (
	"errors"
	"testing"
)

func TestQuoteIdentifier(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{name: "plain", input: "customers", want: `"customers"`},
		{name: "underscore prefix", input: "_tmp", want: `"_tmp"`},
		{name: "mixed case and digits", input: "Order2024_items", want: `"Order2024_items"`},
		{name: "empty", input: "", wantErr: true},
		{name: "leading digit", input: "1users", wantErr: true},
		{name: "space", input: "first name", wantErr: true},
		{name: "semicolon", input: "users;", wantErr: true},
		{name: "embedded quote", input: `a"b`, wantErr: true},
		{name: "comment", input: "users--", wantErr: true},
		{name: "qualified", input: "public.users", wantErr: true},
		{name: "star", input: "*", wantErr: true},
		{name: "unicode", input: "naïve", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := QuoteIdentifier(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("QuoteIdentifier(%q) = %q, want error", tt.input, got)
				}
				var e *Error
				if !errors.As(err, &e) || e.Kind != KindInvalidIdentifier {
					t.Fatalf("QuoteIdentifier(%q) error = %v, want kind %s", tt.input, err, KindInvalidIdentifier)
				}
				return
			}
			if err != nil {
				t.Fatalf("QuoteIdentifier(%q) unexpected error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("QuoteIdentifier(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestQuoteIdentifiersStopsAtFirstInvalid(t *testing.T) {
	if _, err := QuoteIdentifiers([]string{"id", "bad name", "email"}); KindOf(err) != KindInvalidIdentifier {
		t.Fatalf("QuoteIdentifiers error = %v, want %s", err, KindInvalidIdentifier)
	}

	got, err := QuoteIdentifiers([]string{"id", "email"})
	if err != nil {
		t.Fatalf("QuoteIdentifiers unexpected error: %v", err)
	}
	if len(got) != 2 || got[0] != `"id"` || got[1] != `"email"` {
		t.Errorf("QuoteIdentifiers = %v", got)
	}
}
