package testutil

import (
	"fmt"
	"os"
	"strings"
	"testing"
)

// RequireTestEnvironment fails the test immediately unless GO_ENV is "test".
// Suites call this before touching the database so a misconfigured shell can
// never run destructive setup against a real instance.
func RequireTestEnvironment(t *testing.T) {
	t.Helper()

	if env := os.Getenv("GO_ENV"); env != "test" {
		t.Fatalf("refusing to run: GO_ENV must be \"test\", got %q", env)
	}
}

// RequireTestEnvironmentOrSkip skips instead of failing. Use for optional
// tests that are harmless to omit outside the test environment.
func RequireTestEnvironmentOrSkip(t *testing.T) {
	t.Helper()

	if env := os.Getenv("GO_ENV"); env != "test" {
		t.Skipf("skipping: GO_ENV must be \"test\", got %q", env)
	}
}

// MustSetTestEnvironment forces GO_ENV=test. Call it from TestMain or
// SetupSuite before loading configuration.
func MustSetTestEnvironment(t *testing.T) {
	t.Helper()

	if err := os.Setenv("GO_ENV", "test"); err != nil {
		t.Fatalf("failed to set GO_ENV=test: %v", err)
	}
}

// PrintEnvironmentInfo dumps the environment variables that matter to the
// test suites. Handy when a suite fails during setup on CI.
func PrintEnvironmentInfo() {
	fmt.Printf("test environment:\n")
	fmt.Printf("  GO_ENV=%s\n", os.Getenv("GO_ENV"))
	fmt.Printf("  DATABASE_URL=%s\n", maskDatabaseURL(os.Getenv("DATABASE_URL")))
	fmt.Printf("  PORT=%s\n", os.Getenv("PORT"))
}

// maskDatabaseURL hides credentials but keeps enough of the URL to tell
// whether it points at a test database.
func maskDatabaseURL(url string) string {
	if url == "" {
		return "(not set)"
	}
	masked := url
	if len(masked) > 20 {
		masked = masked[:20] + "..."
	}
	if strings.Contains(url, "test") {
		return masked + " [test]"
	}
	return masked + " [WARNING: may not be a test database]"
}
