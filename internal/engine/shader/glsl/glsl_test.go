package glsl

import (
	"errors"
	"slices"
	"strings"
	"testing"

	"github.com/Faultbox/skinview/internal/engine/model"
)

func TestVertexVariants(t *testing.T) {
	tests := []struct {
		name     string
		skinning bool
		color    bool
	}{
		{"color_light", false, false},
		{"color_light_skinning", true, false},
		{"vertex_light", false, true},
		{"vertex_light_skinning", true, true},
		{"texture_light", false, false},
		{"texture_light_skinning", true, false},
		{"vertex_texture_light", false, true},
		{"vertex_texture_light_skinning", true, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src, err := Vertex(tt.name)
			if err != nil {
				t.Fatalf("Vertex failed: %v", err)
			}
			if !strings.HasPrefix(src, Version+"\n") {
				t.Error("source must start with the version line")
			}
			if got := strings.Contains(src, "#define SKINNING\n"); got != tt.skinning {
				t.Errorf("SKINNING defined = %v, want %v", got, tt.skinning)
			}
			if got := strings.Contains(src, "#define VERTEX_COLOR\n"); got != tt.color {
				t.Errorf("VERTEX_COLOR defined = %v, want %v", got, tt.color)
			}
			if !strings.Contains(src, "void main()") {
				t.Error("missing program body")
			}
		})
	}
}

func TestDefines(t *testing.T) {
	got := Defines("vertex_texture_light_skinning")
	want := []string{"SKINNING", "MAX_BONES 256", "VERTEX_COLOR"}
	if !slices.Equal(got, want) {
		t.Errorf("Defines = %v, want %v", got, want)
	}
	if Defines("color_light") != nil {
		t.Error("plain variant should have no defines")
	}
}

func TestFragments(t *testing.T) {
	for _, name := range []string{"color", "texture_light", "line"} {
		src, err := Fragment(name)
		if err != nil {
			t.Errorf("Fragment(%q) failed: %v", name, err)
			continue
		}
		if !strings.Contains(src, "FragColor") {
			t.Errorf("Fragment(%q) has no output", name)
		}
	}
	if _, err := Vertex("line"); err != nil {
		t.Errorf("Vertex(line) failed: %v", err)
	}
}

func TestUnknownProgram(t *testing.T) {
	if _, err := Vertex("toon"); !errors.Is(err, ErrUnknownProgram) {
		t.Errorf("Vertex: expected ErrUnknownProgram, got %v", err)
	}
	if _, err := Fragment("toon"); !errors.Is(err, ErrUnknownProgram) {
		t.Errorf("Fragment: expected ErrUnknownProgram, got %v", err)
	}
}

func TestShaderTableHasSources(t *testing.T) {
	for i, pair := range model.ShaderTable {
		if _, err := Vertex(pair.Vertex); err != nil {
			t.Errorf("shader %d: %v", i, err)
		}
		if _, err := Fragment(pair.Fragment); err != nil {
			t.Errorf("shader %d: %v", i, err)
		}
	}
}
