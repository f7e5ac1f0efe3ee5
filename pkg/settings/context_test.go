package settings

import (
	"context"
	"testing"
)

func TestIntoContext_FromContext(t *testing.T) {
	tests := []struct {
		name     string
		settings *Run
	}{
		{
			name:     "empty_settings",
			settings: &Run{},
		},
		{
			name: "settings_with_values",
			settings: &Run{
				MinLogLevel: -1,
				Input:       InputSettings{Path: "labels.txt"},
				ShowStats:   true,
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := IntoContext(context.Background(), tt.settings)

			got, ok := FromContext(ctx)
			if !ok {
				t.Fatal("FromContext() failed to retrieve settings")
			}
			if got != tt.settings {
				t.Errorf("FromContext() returned a different pointer")
			}
		})
	}
}

func TestFromContext_Missing(t *testing.T) {
	tests := []struct {
		name string
		ctx  context.Context
	}{
		{
			name: "context_without_settings",
			ctx:  context.Background(),
		},
		{
			name: "context_with_wrong_type",
			ctx:  context.WithValue(context.Background(), settingsContextKey, "wrong type"),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := FromContext(tt.ctx)
			if ok {
				t.Error("FromContext() ok = true; want false")
			}
			if got != nil {
				t.Errorf("FromContext() got = %v; want nil", got)
			}
		})
	}
}

func TestFromContextOrDefault(t *testing.T) {
	stored := &Run{ShowStats: true}
	if got := FromContextOrDefault(IntoContext(context.Background(), stored)); got != stored {
		t.Error("FromContextOrDefault() should return the stored settings")
	}

	got := FromContextOrDefault(context.Background())
	if got == nil || *got != *NewCliParams() {
		t.Errorf("FromContextOrDefault() = %+v; want defaults", got)
	}
}
