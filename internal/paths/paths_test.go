package paths

import "testing"

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "already normal", in: "/hello", want: "/hello"},
		{name: "missing leading slash", in: "hello", want: "/hello"},
		{name: "trailing slash stripped", in: "/hello/", want: "/hello"},
		{name: "root path kept", in: "/", want: "/"},
		{name: "empty becomes root", in: "", want: "/"},
		{name: "surrounding whitespace", in: "  /hello  ", want: "/hello"},
		{name: "nested path", in: "/a/b/c/", want: "/a/b/c"},
		{name: "query kept", in: "/hello?x=1", want: "/hello?x=1"},
		{name: "query components sorted", in: "/hello?b=2&a=1", want: "/hello?a=1&b=2"},
		{name: "sorted query unchanged", in: "/hello?a=1&b=2", want: "/hello?a=1&b=2"},
		{name: "full url reduced to path", in: "http://example.com/hello", want: "/hello"},
		{name: "fragment dropped", in: "/hello#section", want: "/hello"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Normalize(tt.in); got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{"/hello/", "hello", "/a?b=2&a=1", "http://example.com/x/"}
	for _, in := range inputs {
		once := Normalize(in)
		if twice := Normalize(once); twice != once {
			t.Errorf("Normalize not idempotent for %q: %q != %q", in, once, twice)
		}
	}
}
