package config

import (
	"context"
	"sync"
	"testing"

	"github.com/livekit-examples/outbound-caller-go/internal/platform"
)

// TestParser_Concurrent tests that the parser is safe for concurrent use.
func TestParser_Concurrent(t *testing.T) {
	parser := NewParser(nil)
	luaCode := `caller = { defaults = { agent_name = "outbound-caller" } }`

	const numGoroutines = 100
	var wg sync.WaitGroup
	errors := make(chan error, numGoroutines)

	for i := 0; i < numGoroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := parser.ParseString(context.Background(), luaCode)
			if err != nil {
				errors <- err
			}
		}()
	}

	wg.Wait()
	close(errors)

	for err := range errors {
		t.Errorf("Concurrent parse failed: %v", err)
	}
}

// TestGenerator_Concurrent tests that the generator is safe for concurrent use.
func TestGenerator_Concurrent(t *testing.T) {
	gen := NewGenerator()
	config := &Config{
		Defaults: Defaults{AgentName: "outbound-caller", PhoneNumber: "+14155550100"},
	}

	const numGoroutines = 100
	var wg sync.WaitGroup
	errors := make(chan error, numGoroutines)

	for i := 0; i < numGoroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := gen.Generate(config)
			if err != nil {
				errors <- err
			}
		}()
	}

	wg.Wait()
	close(errors)

	for err := range errors {
		t.Errorf("Concurrent generation failed: %v", err)
	}
}

// TestParser_ConcurrentWithPlatform tests concurrent parsing with platform detection.
func TestParser_ConcurrentWithPlatform(t *testing.T) {
	detector := &mockDetector{
		info: &platform.Info{
			OS:      "linux",
			Arch:    "amd64",
			ArchRaw: "x86_64",
		},
	}
	parser := NewParser(detector)
	luaCode := `
		caller = {
			defaults = {
				agent_name = platform.is_linux and "outbound-caller" or "outbound-caller-dev",
			},
		}
	`

	const numGoroutines = 50
	var wg sync.WaitGroup
	errors := make(chan error, numGoroutines)

	for i := 0; i < numGoroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			config, err := parser.ParseString(context.Background(), luaCode)
			if err != nil {
				errors <- err
				return
			}
			if config.Defaults.AgentName != "outbound-caller" {
				errors <- &ValidationError{Field: "defaults.agent_name", Message: "unexpected value"}
			}
		}()
	}

	wg.Wait()
	close(errors)

	for err := range errors {
		t.Errorf("Concurrent parse with platform failed: %v", err)
	}
}
