package pkg

import (
	"os"
	"strings"
	"testing"
)

func TestName(t *testing.T) {
	expected := "grantlee"
	if Name != expected {
		t.Errorf("Expected Name to be %q, got %q", expected, Name)
	}
}

func TestEnvPrefix(t *testing.T) {
	if got := EnvPrefix(); got != "GRANTLEE_" {
		t.Errorf("Expected EnvPrefix to be %q, got %q", "GRANTLEE_", got)
	}
}

func TestVersion(t *testing.T) {
	// Version is embedded from the VERSION file next to this source.
	buf, err := os.ReadFile("VERSION")
	if err != nil {
		t.Fatalf("Failed to read VERSION file: %v", err)
	}

	if content := strings.TrimSpace(string(buf)); Version != content {
		t.Errorf("Expected Version to be %q, got %q", content, Version)
	}

	if strings.ContainsAny(Version, " \t\n") {
		t.Errorf("Version %q contains whitespace", Version)
	}
}

func TestAuthorStruct(t *testing.T) {
	if len(Author) == 0 {
		t.Fatal("Expected Author to have at least one entry")
	}

	for i, author := range Author {
		if author.Name == "" && author.Email == "" {
			t.Errorf("Author[%d] must define at least Name or Email", i)
		}
	}
}
