package main

import (
	"testing"
)

func TestResolveCommand(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		wantCmd  string
		wantArgs []string
	}{
		{
			name:     "No arguments installs",
			args:     []string{},
			wantCmd:  "install",
			wantArgs: nil,
		},
		{
			name:     "Explicit install",
			args:     []string{"install"},
			wantCmd:  "install",
			wantArgs: []string{},
		},
		{
			name:     "Dispatch with flags",
			args:     []string{"dispatch", "--phone", "+15105550123"},
			wantCmd:  "dispatch",
			wantArgs: []string{"--phone", "+15105550123"},
		},
		{
			name:     "Status",
			args:     []string{"status"},
			wantCmd:  "status",
			wantArgs: []string{},
		},
		{
			name:     "Version flag",
			args:     []string{"--version"},
			wantCmd:  "--version",
			wantArgs: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd, args := resolveCommand(tt.args)

			if cmd != tt.wantCmd {
				t.Errorf("resolveCommand() cmd = %q, want %q", cmd, tt.wantCmd)
			}
			if len(args) != len(tt.wantArgs) {
				t.Fatalf("resolveCommand() args = %v, want %v", args, tt.wantArgs)
			}
			for i := range args {
				if args[i] != tt.wantArgs[i] {
					t.Errorf("resolveCommand() args[%d] = %q, want %q", i, args[i], tt.wantArgs[i])
				}
			}
		})
	}
}
