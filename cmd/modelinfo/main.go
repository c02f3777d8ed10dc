// modelinfo prints what the viewer sees in a model file: the node tree,
// animation clips, posed transforms and the bounding box.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/Faultbox/skinview/internal/engine/model"
	"github.com/Faultbox/skinview/internal/logger"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// errUsage marks bad command lines; usage has already been printed.
var errUsage = errors.New("usage")

func run(args []string, stdout, stderr io.Writer) int {
	if len(args) < 1 {
		printUsage(stderr)
		return 2
	}

	command, args := args[0], args[1:]
	var err error
	switch command {
	case "info":
		err = cmdInfo(args, stdout, stderr)
	case "nodes", "tree":
		err = cmdNodes(args, stdout, stderr)
	case "anim", "pose":
		err = cmdAnim(args, stdout, stderr)
	case "bounds", "aabb":
		err = cmdBounds(args, stdout, stderr)
	case "help", "-h", "--help":
		printUsage(stdout)
		return 0
	default:
		fmt.Fprintf(stderr, "Unknown command: %s\n", command)
		printUsage(stderr)
		return 2
	}

	switch {
	case err == nil:
		return 0
	case errors.Is(err, errUsage):
		return 2
	default:
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, `modelinfo - skinned model inspector

Usage:
  modelinfo <command> [options] <model>

Commands:
  info <model>                       Show meshes, materials and clips
  nodes <model>                      Print the node hierarchy
  anim [-clip N] [-t sec] <model>    Print node positions posed at a time
  bounds <model>                     Print the bounding box

Every command accepts -v for debug logging.

Examples:
  modelinfo info character.glb
  modelinfo anim -clip 1 -t 0.5 character.glb
  modelinfo nodes data/model/tree.rsm`)
}

// loader parses the shared flags and loads the model named by the single
// positional argument.
type loader struct {
	fs       *flag.FlagSet
	verbose  *bool
	textures *bool
	usage    string
}

func newLoader(name, usage string, stderr io.Writer) *loader {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(stderr)
	return &loader{
		fs:       fs,
		verbose:  fs.Bool("v", false, "Enable debug logging"),
		textures: fs.Bool("textures", true, "Decode textures"),
		usage:    usage,
	}
}

func (l *loader) load(args []string) (*model.Model, error) {
	if err := l.fs.Parse(args); err != nil {
		return nil, errUsage
	}
	if l.fs.NArg() != 1 {
		fmt.Fprintln(l.fs.Output(), "Usage: modelinfo "+l.usage)
		return nil, errUsage
	}
	// Load warnings go to stderr so stdout stays parseable.
	level := "warn"
	if *l.verbose {
		level = "debug"
	}
	if err := logger.Setup(logger.Options{Level: level, Console: l.fs.Output()}); err != nil {
		return nil, err
	}
	return model.Load(l.fs.Arg(0), model.Options{SkipTextures: !*l.textures})
}

func cmdInfo(args []string, stdout, stderr io.Writer) error {
	m, err := newLoader("info", "info <model>", stderr).load(args)
	if err != nil {
		return err
	}

	vertices, triangles := model.MeshInfo(m)
	meshes, skinned := 0, 0
	for _, n := range m.Nodes {
		for _, mesh := range n.Meshes {
			meshes++
			if mesh.HasBone() {
				skinned++
			}
		}
	}

	fmt.Fprintf(stdout, "Model:      %s\n", m.Path)
	fmt.Fprintf(stdout, "Nodes:      %d\n", len(m.Nodes))
	fmt.Fprintf(stdout, "Meshes:     %d (%d skinned)\n", meshes, skinned)
	fmt.Fprintf(stdout, "Vertices:   %d\n", vertices)
	fmt.Fprintf(stdout, "Triangles:  %d\n", triangles)
	fmt.Fprintf(stdout, "Materials:  %d\n", len(m.Materials))
	fmt.Fprintf(stdout, "Textures:   %d\n", m.Textures.Len())
	fmt.Fprintf(stdout, "Shaders:    %v\n", model.AssignShaders(m))
	fmt.Fprintf(stdout, "Animations: %d\n", len(m.Animations))
	for i, a := range m.Animations {
		fmt.Fprintf(stdout, "  [%d] %-20s %6.2fs  %d channels\n", i, a.Name, a.Duration, len(a.Channels))
	}
	return nil
}

func cmdNodes(args []string, stdout, stderr io.Writer) error {
	m, err := newLoader("nodes", "nodes <model>", stderr).load(args)
	if err != nil {
		return err
	}
	printNode(stdout, m.Root, 0)
	return nil
}

func printNode(w io.Writer, n *model.Node, depth int) {
	line := strings.Repeat("  ", depth) + n.Name
	for _, mesh := range n.Meshes {
		line += fmt.Sprintf(" [%s: %d verts", mesh.Name, mesh.Body.NumVertices())
		if mesh.HasBone() {
			line += fmt.Sprintf(", %d bones", len(mesh.Bones))
		}
		line += "]"
	}
	fmt.Fprintln(w, line)
	for _, c := range n.Children {
		printNode(w, c, depth+1)
	}
}

func cmdAnim(args []string, stdout, stderr io.Writer) error {
	l := newLoader("anim", "anim [-clip N] [-t sec] <model>", stderr)
	clip := l.fs.Int("clip", 0, "Animation clip index")
	at := l.fs.Float64("t", 0, "Time in seconds")
	m, err := l.load(args)
	if err != nil {
		return err
	}
	if !m.HasAnim() {
		return errors.New("model has no animation")
	}
	if *clip < 0 || *clip >= len(m.Animations) {
		return fmt.Errorf("clip %d out of range (model has %d)", *clip, len(m.Animations))
	}

	m.Update(*at, *clip)
	fmt.Fprintf(stdout, "Clip %d %q at %.3fs\n", *clip, m.Animations[*clip].Name, *at)
	for _, n := range m.Nodes {
		p := n.Global.Translation()
		fmt.Fprintf(stdout, "  %-24s %9.4f %9.4f %9.4f\n", n.Name, p.X, p.Y, p.Z)
	}
	return nil
}

func cmdBounds(args []string, stdout, stderr io.Writer) error {
	m, err := newLoader("bounds", "bounds <model>", stderr).load(args)
	if err != nil {
		return err
	}
	b := m.Bounds
	c, s := b.Center(), b.Size()
	fmt.Fprintf(stdout, "Min:    %.4f %.4f %.4f\n", b.Min.X, b.Min.Y, b.Min.Z)
	fmt.Fprintf(stdout, "Max:    %.4f %.4f %.4f\n", b.Max.X, b.Max.Y, b.Max.Z)
	fmt.Fprintf(stdout, "Center: %.4f %.4f %.4f\n", c.X, c.Y, c.Z)
	fmt.Fprintf(stdout, "Size:   %.4f %.4f %.4f\n", s.X, s.Y, s.Z)
	return nil
}
