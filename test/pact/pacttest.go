//go:build pact
// +build pact

package pacttest

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

const (
	ProviderName = "dogshouse-api"
	ConsumerName = "dogs-portal"

	StateDogsBaseline = "dogs baseline"
	StateDogExists    = "dog Neo exists"
	StateDogMissing   = "no dog named Ghost"
	StateDogsSeeded   = "dogs Neo and Jessy exist"
)

const (
	ExistingDogName = "Neo"
	SecondDogName   = "Jessy"
	MissingDogName  = "Ghost"
)

// PactDir returns the workspace-level directory for generated pact files.
func PactDir(t testing.TB) string {
	t.Helper()
	dir := filepath.Join(projectRoot(t), "pacts")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("create pact dir: %v", err)
	}
	return dir
}

// PactFile returns the canonical pact file path for the dogs portal consumer.
func PactFile(t testing.TB) string {
	t.Helper()
	return filepath.Join(PactDir(t), ConsumerName+"-"+ProviderName+".json")
}

// LogDir returns the log output directory for pact-go.
func LogDir(t testing.TB) string {
	t.Helper()
	dir := filepath.Join(projectRoot(t), "bin", "pact-logs")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("create pact log dir: %v", err)
	}
	return dir
}

// ExampleDogPayload provides stable test data for pact interactions.
func ExampleDogPayload() map[string]any {
	return map[string]any{
		"name":        ExistingDogName,
		"color":       "red&amber",
		"tail_length": 22,
		"weight":      32,
	}
}

// SecondDogPayload is seeded next to the example dog for listing interactions.
func SecondDogPayload() map[string]any {
	return map[string]any{
		"name":        SecondDogName,
		"color":       "black&white",
		"tail_length": 7,
		"weight":      14,
	}
}

// projectRoot walks up from this file to the workspace root.
func projectRoot(t testing.TB) string {
	t.Helper()
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("cannot determine caller for pact paths")
	}
	return filepath.Clean(filepath.Join(filepath.Dir(file), "..", ".."))
}
