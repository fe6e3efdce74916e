package util

import "testing"

func TestSanitizeFileName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		in      string
		want    string
		wantErr bool
	}{
		{name: "plain", in: "acta.pdf", want: "acta.pdf"},
		{name: "accents folded", in: "Acta Fundación.pdf", want: "Acta_Fundacion.pdf"},
		{name: "enye folded", in: "diseño  final.jpg", want: "diseno_final.jpg"},
		{name: "separators replaced", in: "fotos/desfile\\01.jpg", want: "fotos_desfile_01.jpg"},
		{name: "traversal flattened", in: "../../etc/passwd", want: ".._.._etc_passwd"},
		{name: "dot runs kept", in: "Acta junta...definitiva.pdf", want: "Acta_junta...definitiva.pdf"},
		{name: "dot dot rejected", in: "..", wantErr: true},
		{name: "dot dot behind separator rejected", in: "/../", wantErr: true},
		{name: "single dot rejected", in: " . ", wantErr: true},
		{name: "blank rejected", in: "   ", wantErr: true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := SanitizeFileName(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("SanitizeFileName(%q) expected error, got %q", tt.in, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("SanitizeFileName(%q) error: %v", tt.in, err)
			}
			if got != tt.want {
				t.Fatalf("SanitizeFileName(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
