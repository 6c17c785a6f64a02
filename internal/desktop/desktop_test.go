package desktop

import (
	"testing"
)

func TestOpenCommand(t *testing.T) {
	tests := []struct {
		goos string
		want string
	}{
		{"darwin", "open"},
		{"windows", "explorer"},
		{"linux", "xdg-open"},
		{"freebsd", "xdg-open"},
	}

	for _, tt := range tests {
		t.Run(tt.goos, func(t *testing.T) {
			cmd := OpenCommand(tt.goos, "/tmp/out.png")
			if len(cmd.Args) != 2 {
				t.Fatalf("Args = %v, want 2 elements", cmd.Args)
			}
			if cmd.Args[0] != tt.want {
				t.Errorf("Args[0] = %q, want %q", cmd.Args[0], tt.want)
			}
			if cmd.Args[1] != "/tmp/out.png" {
				t.Errorf("Args[1] = %q, want %q", cmd.Args[1], "/tmp/out.png")
			}
		})
	}
}
