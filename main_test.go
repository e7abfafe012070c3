package main

import (
	"testing"
	"time"

	"fricu/internal/analysis"
	"fricu/internal/store"
)

func TestParseQuery(t *testing.T) {
	berlin, err := time.LoadLocation("Europe/Berlin")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}

	tests := []struct {
		name      string
		window    string
		sport     string
		asOf      string
		windowSet bool
		expected  analysis.Query
		wantErr   bool
	}{
		{
			name:     "defaults",
			expected: analysis.Query{Window: analysis.Window90},
		},
		{
			name:      "explicit all",
			window:    "all",
			windowSet: true,
			expected:  analysis.Query{Window: analysis.WindowAll},
		},
		{
			name:      "window sport and date",
			window:    "30",
			sport:     "Running",
			asOf:      "2024-06-30",
			windowSet: true,
			expected: analysis.Query{
				Window: analysis.Window30,
				Sport:  store.SportRunning,
				AsOf:   time.Date(2024, 6, 30, 0, 0, 0, 0, berlin),
			},
		},
		{name: "bad window", window: "weekly", windowSet: true, wantErr: true},
		{name: "unknown sport", sport: "rowing", wantErr: true},
		{name: "bad date", asOf: "30/06/2024", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseQuery(tt.window, tt.sport, tt.asOf, tt.windowSet, analysis.Window90, berlin)
			if tt.wantErr {
				if err == nil {
					t.Errorf("expected error, got %+v", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.Window != tt.expected.Window || got.Sport != tt.expected.Sport || !got.AsOf.Equal(tt.expected.AsOf) {
				t.Errorf("parseQuery() = %+v, want %+v", got, tt.expected)
			}
		})
	}
}

func TestRootCommandWiring(t *testing.T) {
	root := newRootCmd()
	want := []string{"dashboard", "serve", "report", "export", "plot", "profile", "import", "token"}
	for _, name := range want {
		cmd, _, err := root.Find([]string{name})
		if err != nil || cmd.Name() != name {
			t.Errorf("command %q not registered", name)
		}
	}
}
