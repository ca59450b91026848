package ai

import (
	"context"
	"os"
	"slices"
	"testing"
	"time"
)

var testCategories = []string{"academic", "residence", "dining"}

func TestParseInterpretation(t *testing.T) {
	tests := []struct {
		name         string
		raw          string
		wantKeywords []string
		wantCategory string
		wantErr      bool
	}{
		{
			name:         "plain json",
			raw:          `{"keywords":["library","books"],"category":"academic"}`,
			wantKeywords: []string{"library", "books"},
			wantCategory: "academic",
		},
		{
			name:         "fenced json",
			raw:          "```json\n{\"keywords\":[\"food\"],\"category\":\"Dining\"}\n```",
			wantKeywords: []string{"food"},
			wantCategory: "dining",
		},
		{
			name:         "unknown category dropped",
			raw:          `{"keywords":["pool"],"category":"swimming"}`,
			wantKeywords: []string{"pool"},
		},
		{
			name:         "blank and duplicate keywords dropped",
			raw:          `{"keywords":["hall"," ","hall","a","b","c","d","e"]}`,
			wantKeywords: []string{"hall", "a", "b", "c", "d"},
		},
		{
			name:    "not json",
			raw:     "I think you mean the library",
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseInterpretation(tt.raw, testCategories)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !slices.Equal(got.Keywords, tt.wantKeywords) {
				t.Errorf("keywords = %v, want %v", got.Keywords, tt.wantKeywords)
			}
			if got.Category != tt.wantCategory {
				t.Errorf("category = %q, want %q", got.Category, tt.wantCategory)
			}
		})
	}
}

func TestGeminiInterpretQueryLive(t *testing.T) {
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		t.Skip("GEMINI_API_KEY not set; skipping integration test")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	g, err := NewGeminiInterpreter(ctx, apiKey)
	if err != nil {
		t.Fatalf("NewGeminiInterpreter: %v", err)
	}
	defer g.Close()

	got, err := g.InterpretQuery(ctx, "where can I borrow books", testCategories)
	if err != nil {
		t.Fatalf("InterpretQuery: %v", err)
	}
	if len(got.Keywords) == 0 {
		t.Errorf("expected keywords, got %+v", got)
	}
}
