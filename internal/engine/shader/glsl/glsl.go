// Package glsl holds the embedded GLSL sources of the viewer and builds the
// shader variants selected by a mesh's feature mask.
package glsl

import (
	"embed"
	"errors"
	"fmt"
	"strings"
)

//go:embed src
var files embed.FS

// Version is prepended to every program.
const Version = "#version 410 core"

// MaxBones is the size of the bone matrix uniform block. 256 matrices fill
// the 16 KiB every GL 4.1 driver guarantees for a uniform block.
const MaxBones = 256

// BonesBlock is the name of the bone matrix uniform block.
const BonesBlock = "Bones"

// ErrUnknownProgram is returned for a program name with no source.
var ErrUnknownProgram = errors.New("unknown shader program")

// Vertex program variants. Each name is a combination of an optional
// "vertex_" prefix (per-vertex colors), "color" or "texture" and an optional
// "_skinning" suffix.
var vertexVariants = map[string]bool{
	"color_light":                   true,
	"color_light_skinning":          true,
	"vertex_light":                  true,
	"vertex_light_skinning":         true,
	"texture_light":                 true,
	"texture_light_skinning":        true,
	"vertex_texture_light":          true,
	"vertex_texture_light_skinning": true,
}

func read(name string) (string, error) {
	data, err := files.ReadFile("src/" + name)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrUnknownProgram, name)
	}
	return string(data), nil
}

func compose(defines []string, body string) string {
	var b strings.Builder
	b.WriteString(Version)
	b.WriteByte('\n')
	for _, d := range defines {
		b.WriteString("#define ")
		b.WriteString(d)
		b.WriteByte('\n')
	}
	b.WriteString(body)
	return b.String()
}

// Defines returns the preprocessor symbols of a vertex program variant.
func Defines(name string) []string {
	var defs []string
	if strings.HasSuffix(name, "_skinning") {
		defs = append(defs, "SKINNING", fmt.Sprintf("MAX_BONES %d", MaxBones))
	}
	if strings.HasPrefix(name, "vertex_") {
		defs = append(defs, "VERTEX_COLOR")
	}
	return defs
}

// Vertex returns the source of a named vertex program.
func Vertex(name string) (string, error) {
	if name == "line" {
		body, err := read("line.vert")
		return compose(nil, body), err
	}
	if !vertexVariants[name] {
		return "", fmt.Errorf("%w: vertex %s", ErrUnknownProgram, name)
	}
	body, err := read("model.vert")
	if err != nil {
		return "", err
	}
	return compose(Defines(name), body), nil
}

// Fragment returns the source of a named fragment program.
func Fragment(name string) (string, error) {
	body, err := read(name + ".frag")
	if err != nil {
		return "", err
	}
	return compose(nil, body), nil
}
