package analysis

import "testing"

func TestParseArtifact(t *testing.T) {
	tests := []struct {
		name   string
		stdout string
		want   string
		wantOK bool
	}{
		{
			name:   "single-repo phrase",
			stdout: "Caricamento dati...\nGrafico generato con successo: out.png\n",
			want:   "out.png",
			wantOK: true,
		},
		{
			name:   "multi-repo phrase",
			stdout: "Caricati 3 alias da aliases.json\n\nReport multi-progetto (Impact Score) generato con successo: /abs/out.png\n",
			want:   "/abs/out.png",
			wantOK: true,
		},
		{
			name:   "single phrase wins when both present",
			stdout: "Report multi-progetto X generato con successo: multi.png\nGrafico generato con successo: single.png\n",
			want:   "single.png",
			wantOK: true,
		},
		{
			name:   "path with spaces",
			stdout: "Grafico generato con successo: my report.png",
			want:   "my report.png",
			wantOK: true,
		},
		{
			name:   "windows line endings",
			stdout: "Grafico generato con successo: out.png\r\n",
			want:   "out.png",
			wantOK: true,
		},
		{
			name:   "wrong extension",
			stdout: "Grafico generato con successo: out.svg\n",
			wantOK: false,
		},
		{
			name:   "no success line",
			stdout: "Nessun dato trovato per generare il grafico.\n",
			wantOK: false,
		},
		{
			name:   "empty output",
			stdout: "",
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseArtifact(tt.stdout)
			if ok != tt.wantOK {
				t.Fatalf("ParseArtifact() ok = %v, want %v", ok, tt.wantOK)
			}
			if got != tt.want {
				t.Errorf("ParseArtifact() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestResolveArtifact(t *testing.T) {
	tests := []struct {
		name     string
		artifact string
		base     string
		want     string
	}{
		{"relative joined to base", "out.png", "/r", "/r/out.png"},
		{"relative subdir", "reports/out.png", "/r", "/r/reports/out.png"},
		{"absolute passthrough", "/abs/out.png", "/r", "/abs/out.png"},
		{"absolute cleaned", "/abs/./reports/../out.png", "/r", "/abs/out.png"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ResolveArtifact(tt.artifact, tt.base); got != tt.want {
				t.Errorf("ResolveArtifact(%q, %q) = %q, want %q", tt.artifact, tt.base, got, tt.want)
			}
		})
	}
}
