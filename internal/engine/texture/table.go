package texture

import (
	"fmt"
	"image"
	"os"
	"sort"
)

// Image is a decoded texture.
type Image struct {
	Name string
	RGBA *image.RGBA
}

// Table holds decoded textures keyed by filename. Materials that name the
// same file share one entry.
type Table struct {
	MagentaKey bool

	images map[string]*Image
}

// NewTable returns an empty table.
func NewTable() *Table {
	return &Table{images: make(map[string]*Image)}
}

// Load returns the texture registered under name, decoding it on first use.
// Embedded data is decoded as is; otherwise the file at path is read. A
// failed load leaves no entry, so a later call retries.
func (t *Table) Load(name, path string, embedded []byte) (*Image, error) {
	if img, ok := t.images[name]; ok {
		return img, nil
	}

	data := embedded
	if data == nil {
		var err error
		if data, err = os.ReadFile(path); err != nil {
			return nil, fmt.Errorf("reading texture: %w", err)
		}
	}
	rgba, err := Decode(data, name, t.MagentaKey)
	if err != nil {
		return nil, err
	}
	img := &Image{Name: name, RGBA: rgba}
	t.images[name] = img
	return img, nil
}

// Get returns a loaded texture.
func (t *Table) Get(name string) (*Image, bool) {
	img, ok := t.images[name]
	return img, ok
}

// Len returns the number of loaded textures.
func (t *Table) Len() int {
	return len(t.images)
}

// Names returns the loaded texture names in sorted order.
func (t *Table) Names() []string {
	names := make([]string, 0, len(t.images))
	for name := range t.images {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
