// Package formats provides parsers for the binary model formats the viewer
// reads directly. Interchange formats such as glTF are handled by pkg/scene.
package formats
