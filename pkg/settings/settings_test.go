package settings

import (
	"testing"
)

func TestNewCliParams(t *testing.T) {
	got := NewCliParams()
	want := Run{}
	if *got != want {
		t.Errorf("NewCliParams() = %+v, want %+v", got, want)
	}
}

func TestVersionInformationDefaults(t *testing.T) {
	if VersionInformation.BuildVersion == "" {
		t.Error("VersionInformation.BuildVersion should have a default")
	}
	if CliBinaryName != "colify" {
		t.Errorf("CliBinaryName = %q, want colify", CliBinaryName)
	}
}
