package app

import (
	"testing"
)

func TestSubcommands_Registered(t *testing.T) {
	want := map[string]bool{"run": false, "clean": false, "features": false, "insights": false, "history": false}
	for _, cmd := range rootCmd.Commands() {
		if _, ok := want[cmd.Name()]; ok {
			want[cmd.Name()] = true
		}
	}
	for name, found := range want {
		if !found {
			t.Errorf("%s subcommand not registered on rootCmd", name)
		}
	}
}

func TestPathFlags_Registered(t *testing.T) {
	cases := []struct {
		cmd   string
		flags []string
	}{
		{"run", []string{"base-path", "output"}},
		{"insights", []string{"base-path", "output"}},
		{"clean", []string{"base-path"}},
		{"features", []string{"base-path"}},
	}
	for _, tc := range cases {
		var found bool
		for _, cmd := range rootCmd.Commands() {
			if cmd.Name() != tc.cmd {
				continue
			}
			found = true
			for _, name := range tc.flags {
				if cmd.Flags().Lookup(name) == nil {
					t.Errorf("%s: missing --%s flag", tc.cmd, name)
				}
			}
		}
		if !found {
			t.Errorf("%s subcommand not registered on rootCmd", tc.cmd)
		}
	}
}

func TestRunOutputFlag_Shorthand(t *testing.T) {
	f := runCmd.Flags().Lookup("output")
	if f == nil {
		t.Fatal("run: missing --output flag")
	}
	if f.Shorthand != "o" {
		t.Errorf("run --output shorthand: got %q, want \"o\"", f.Shorthand)
	}
}
