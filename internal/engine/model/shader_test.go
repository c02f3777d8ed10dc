package model

import (
	"slices"
	"testing"
)

func TestShaderIndex(t *testing.T) {
	skinned := []*Bone{{Name: "b"}}
	colors := [][4]float32{{1, 1, 1, 1}}
	textured := &Material{HasTexture: true}
	plain := &Material{}

	tests := []struct {
		name  string
		bones []*Bone
		color [][4]float32
		mat   *Material
		want  int
		vert  string
	}{
		{"plain", nil, nil, plain, 0, "color_light"},
		{"skinned", skinned, nil, plain, 1, "color_light_skinning"},
		{"vertex color", nil, colors, plain, 2, "vertex_light"},
		{"vertex color skinned", skinned, colors, plain, 3, "vertex_light_skinning"},
		{"textured", nil, nil, textured, 4, "texture_light"},
		{"textured skinned", skinned, nil, textured, 5, "texture_light_skinning"},
		{"textured vertex color", nil, colors, textured, 6, "vertex_texture_light"},
		{"everything", skinned, colors, textured, 7, "vertex_texture_light_skinning"},
		{"no material", nil, nil, nil, 0, "color_light"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mesh := &Mesh{Bones: tt.bones, Body: &TriMesh{Colors: tt.color}}
			got := ShaderIndex(mesh, tt.mat)
			if got != tt.want {
				t.Fatalf("ShaderIndex = %d, want %d", got, tt.want)
			}
			if ShaderTable[got].Vertex != tt.vert {
				t.Errorf("vertex program = %q, want %q", ShaderTable[got].Vertex, tt.vert)
			}
		})
	}
}

func TestShaderTableFragments(t *testing.T) {
	for i, pair := range ShaderTable {
		want := "color"
		if i&HasTexture != 0 {
			want = "texture_light"
		}
		if pair.Fragment != want {
			t.Errorf("shader %d fragment = %q, want %q", i, pair.Fragment, want)
		}
	}
}

func TestAssignShaders(t *testing.T) {
	m := mustImport(t, skinnedScene())
	if got := AssignShaders(m); !slices.Equal(got, []int{HasBone}) {
		t.Errorf("AssignShaders = %v, want [%d]", got, HasBone)
	}
}
