package commission

import (
	"errors"
	"strings"
	"testing"
)

func TestFromPath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		path    string
		want    Commission
		wantErr error
	}{
		{name: "commission page", path: "/dashboard/info/historia", want: Historia},
		{name: "hyphenated tag", path: "/dashboard/info/redes-sociales", want: RedesSociales},
		{name: "nested below commission", path: "/dashboard/info/musica/partituras", want: Musica},
		{name: "info root only", path: "/dashboard/info", want: General},
		{name: "info root trailing slash", path: "/dashboard/info/", want: General},
		{name: "outside info", path: "/dashboard/database", want: General},
		{name: "empty path", path: "", want: General},
		{name: "unknown tag", path: "/dashboard/info/tesoreria", wantErr: ErrUnknownCommission},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := FromPath(tt.path)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("FromPath(%q) error = %v, want %v", tt.path, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("FromPath(%q) unexpected error: %v", tt.path, err)
			}
			if got != tt.want {
				t.Fatalf("FromPath(%q) = %q, want %q", tt.path, got, tt.want)
			}
		})
	}
}

func TestParseNormalizesCase(t *testing.T) {
	got, err := Parse("  Historia ")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if got != Historia {
		t.Fatalf("Parse = %q, want %q", got, Historia)
	}
	if _, err := Parse(""); !errors.Is(err, ErrUnknownCommission) {
		t.Fatalf("Parse(\"\") error = %v, want ErrUnknownCommission", err)
	}
}

func TestEveryCommissionHasCollectionAndLabel(t *testing.T) {
	seen := make(map[string]Commission)
	for _, c := range All {
		coll := c.Collection()
		if !strings.HasPrefix(coll, "records_") {
			t.Fatalf("collection for %q = %q, want records_ prefix", c, coll)
		}
		if strings.Contains(coll, "-") {
			t.Fatalf("collection for %q contains '-': %q", c, coll)
		}
		if prev, dup := seen[coll]; dup {
			t.Fatalf("collection %q shared by %q and %q", coll, prev, c)
		}
		seen[coll] = c
		if c.Label() == "" {
			t.Fatalf("missing label for %q", c)
		}
	}
	if Commission("bogus").Valid() {
		t.Fatalf("expected unknown commission to be invalid")
	}
}
