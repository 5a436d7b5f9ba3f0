package generation

import "testing"

func TestComposePrompt(t *testing.T) {
	tests := []struct {
		name   string
		prompt string
		theme  string
		want   string
	}{
		{
			name:   "no theme passes prompt through",
			prompt: "a sunset over mountains",
			theme:  "",
			want:   "a sunset over mountains",
		},
		{
			name:   "image-only request falls back to default prompt",
			prompt: "",
			theme:  "",
			want:   DefaultPrompt,
		},
		{
			name:   "realistic theme appends realism clause",
			prompt: "a cat",
			theme:  "realistic",
			want:   "a cat, Ensure absolute realism. Maintain facial likeness accurately to the reference image. Prioritize realistic skin texture, hair detail, and natural body proportions.",
		},
		{
			name:   "realistic theme is case-insensitive",
			prompt: "a cat",
			theme:  "ReAlIsTiC",
			want:   "a cat, " + RealismClause,
		},
		{
			name:   "named theme appends style suffix",
			prompt: "a cat",
			theme:  "noir",
			want:   "a cat, noir style",
		},
		{
			name:   "named theme is lowercased",
			prompt: "a cat",
			theme:  "Noir",
			want:   "a cat, noir style",
		},
		{
			name:   "africon theme replaces the prompt entirely",
			prompt: "anything the user typed",
			theme:  "africon",
			want:   AfriconPrompt,
		},
		{
			name:   "africon theme is case-insensitive",
			prompt: "",
			theme:  "AFRICON",
			want:   AfriconPrompt,
		},
		{
			name:   "themed image-only request uses default prompt as base",
			prompt: "",
			theme:  "noir",
			want:   DefaultPrompt + ", noir style",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComposePrompt(tt.prompt, tt.theme)
			if got != tt.want {
				t.Errorf("ComposePrompt(%q, %q) = %q, want %q", tt.prompt, tt.theme, got, tt.want)
			}
		})
	}
}
