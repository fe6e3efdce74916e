package s3

import "testing"

func TestApplyPrefix(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		prefix string
		key    string
		want   string
	}{
		{name: "no prefix", prefix: "", key: "user/file.pdf", want: "user/file.pdf"},
		{name: "simple prefix", prefix: "root", key: "user/file.pdf", want: "root/user/file.pdf"},
		{name: "prefix trailing slash", prefix: "root/", key: "user/file.pdf", want: "root/user/file.pdf"},
		{name: "prefix and key slashes", prefix: "/root/", key: "/user/file.pdf", want: "root/user/file.pdf"},
		{name: "nested prefix", prefix: "root/sub", key: "user/file.pdf", want: "root/sub/user/file.pdf"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := applyPrefix(tt.prefix, tt.key); got != tt.want {
				t.Fatalf("applyPrefix(%q, %q) = %q, want %q", tt.prefix, tt.key, got, tt.want)
			}
		})
	}
}

func TestObjectURLRoundTrip(t *testing.T) {
	t.Parallel()

	base := publicBaseURL("", "cruzados-files", "eu-west-1")
	if base != "https://cruzados-files.s3.eu-west-1.amazonaws.com" {
		t.Fatalf("base url = %q", base)
	}

	key := applyPrefix("uploads", "historia/rec-1/acta fundacional.pdf")
	u := objectURL(base, key)
	if u != base+"/uploads/historia/rec-1/acta%20fundacional.pdf" {
		t.Fatalf("objectURL = %q", u)
	}
	got, err := keyFromURL(base, u)
	if err != nil {
		t.Fatalf("keyFromURL: %v", err)
	}
	if got != key {
		t.Fatalf("keyFromURL = %q, want %q", got, key)
	}
}

func TestPublicBaseURLOverride(t *testing.T) {
	t.Parallel()

	if got := publicBaseURL("https://cdn.example.org/", "b", "r"); got != "https://cdn.example.org" {
		t.Fatalf("publicBaseURL override = %q", got)
	}
	if _, err := keyFromURL("https://cdn.example.org", "https://other.example.org/a.pdf"); err == nil {
		t.Fatalf("expected foreign url to be rejected")
	}
}
