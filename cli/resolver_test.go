package cli

import (
	"strings"
	"testing"

	"github.com/alecthomas/kong"
)

type resolverCLI struct {
	LogLevel  string   `default:"info"`
	Dir       []string `default:"."`
	CacheSize int      `default:"128"`
	Pretty    bool     `default:"true" negatable:""`

	Render struct {
		Data  string
		Names []string `arg:"" optional:""`
	} `cmd:""`
}

func parseWith(t *testing.T, yml string, args ...string) resolverCLI {
	t.Helper()

	res, err := resolve(strings.NewReader(yml))
	if err != nil {
		t.Fatalf("resolve() error = %v", err)
	}

	var cli resolverCLI

	parser, err := kong.New(&cli,
		kong.Resolvers(res),
		kong.Exit(func(int) { t.Fatal("unexpected exit") }),
	)
	if err != nil {
		t.Fatalf("kong.New() error = %v", err)
	}

	if _, err := parser.Parse(args); err != nil {
		t.Fatalf("Parse(%q) error = %v", args, err)
	}

	return cli
}

func TestResolve_Values(t *testing.T) {
	tests := []struct {
		name  string
		yml   string
		args  []string
		check func(t *testing.T, c resolverCLI)
	}{
		{
			name: "hyphenated keys",
			yml:  "log-level: debug\ncache-size: 4\n",
			args: []string{"render"},
			check: func(t *testing.T, c resolverCLI) {
				if c.LogLevel != "debug" || c.CacheSize != 4 {
					t.Errorf("got level=%q cache=%d", c.LogLevel, c.CacheSize)
				}
			},
		},
		{
			name: "underscored keys",
			yml:  "log_level: warn\npretty: false\n",
			args: []string{"render"},
			check: func(t *testing.T, c resolverCLI) {
				if c.LogLevel != "warn" || c.Pretty {
					t.Errorf("got level=%q pretty=%v", c.LogLevel, c.Pretty)
				}
			},
		},
		{
			name: "sequence",
			yml:  "dir: [a, b]\n",
			args: []string{"render"},
			check: func(t *testing.T, c resolverCLI) {
				if strings.Join(c.Dir, "|") != "a|b" {
					t.Errorf("Dir = %q", c.Dir)
				}
			},
		},
		{
			name: "command section",
			yml:  "render:\n  data: site.yaml\n",
			args: []string{"render"},
			check: func(t *testing.T, c resolverCLI) {
				if c.Render.Data != "site.yaml" {
					t.Errorf("Data = %q", c.Render.Data)
				}
			},
		},
		{
			name: "flags override file",
			yml:  "log-level: debug\n",
			args: []string{"--log-level=error", "render"},
			check: func(t *testing.T, c resolverCLI) {
				if c.LogLevel != "error" {
					t.Errorf("LogLevel = %q", c.LogLevel)
				}
			},
		},
		{
			name: "empty document",
			yml:  "",
			args: []string{"render"},
			check: func(t *testing.T, c resolverCLI) {
				if c.LogLevel != "info" || c.CacheSize != 128 {
					t.Errorf("got level=%q cache=%d", c.LogLevel, c.CacheSize)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.check(t, parseWith(t, tt.yml, tt.args...))
		})
	}
}

func TestResolve_InvalidYAML(t *testing.T) {
	if _, err := resolve(strings.NewReader("log-level: [unterminated\n")); err == nil {
		t.Fatal("resolve() error = nil, want error")
	}
}

func TestScalar(t *testing.T) {
	tests := []struct {
		in   any
		want any
	}{
		{in: "x", want: "x"},
		{in: true, want: true},
		{in: uint64(3), want: "3"},
		{in: 1.5, want: "1.5"},
		{in: []any{"a", uint64(2)}, want: "a,2"},
	}

	for _, tt := range tests {
		if got := scalar(tt.in); got != tt.want {
			t.Errorf("scalar(%#v) = %#v, want %#v", tt.in, got, tt.want)
		}
	}
}
