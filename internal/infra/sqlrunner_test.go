package infra

import "testing"

func TestExtractMarker(t *testing.T) {
	tests := []struct {
		name       string
		query      string
		wantMarker string
		wantErr    bool
	}{
		{
			name:       "valid marker",
			query:      "--sql 5a82e2ad-7b09-40c5-9d22-2d28db58c0f0\nselect 1;",
			wantMarker: "5a82e2ad-7b09-40c5-9d22-2d28db58c0f0",
		},
		{
			name:       "leading whitespace",
			query:      "\n  --sql 5a82e2ad-7b09-40c5-9d22-2d28db58c0f0\nselect 1;",
			wantMarker: "5a82e2ad-7b09-40c5-9d22-2d28db58c0f0",
		},
		{
			name:    "missing marker",
			query:   "select 1;",
			wantErr: true,
		},
		{
			name:    "malformed uuid",
			query:   "--sql not-a-uuid\nselect 1;",
			wantErr: true,
		},
		{
			name:    "empty query",
			query:   "",
			wantErr: true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			marker, rest, err := extractMarker(tc.query)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("extractMarker() succeeded with marker %q", marker)
				}
				return
			}
			if err != nil {
				t.Fatalf("extractMarker() error: %v", err)
			}
			if marker != tc.wantMarker {
				t.Fatalf("marker = %q, want %q", marker, tc.wantMarker)
			}
			if rest == "" {
				t.Fatal("statement body should not be empty")
			}
		})
	}
}
