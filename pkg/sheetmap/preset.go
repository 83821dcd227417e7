package sheetmap

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// StylePresets maps a preset name to a complete style descriptor.
type StylePresets map[string]StyleDescriptor

// presetFile is the YAML layout of a presets document.
type presetFile struct {
	Presets map[string]presetTemplate `yaml:"presets"`
}

type presetTemplate struct {
	Type       string   `yaml:"type"`
	Name       string   `yaml:"name"`
	Supplier   string   `yaml:"supplier"`
	AutoSize   *bool    `yaml:"autosize"`
	Background string   `yaml:"background"`
	Fill       string   `yaml:"fill"`
	HAlign     string   `yaml:"halign"`
	VAlign     string   `yaml:"valign"`
	Color      string   `yaml:"color"`
	Size       *float64 `yaml:"size"`
	Bold       *bool    `yaml:"bold"`
	Italic     *bool    `yaml:"italic"`
	Underline  string   `yaml:"underline"`
}

// options flattens the template into the same key/value form a style tag uses.
func (p presetTemplate) options() [][2]string {
	var out [][2]string
	add := func(k, v string) {
		if v != "" {
			out = append(out, [2]string{k, v})
		}
	}
	addBool := func(k string, v *bool) {
		if v != nil {
			out = append(out, [2]string{k, strconv.FormatBool(*v)})
		}
	}
	add("type", p.Type)
	add("name", p.Name)
	add("supplier", p.Supplier)
	addBool("autosize", p.AutoSize)
	add("bg", p.Background)
	add("fill", p.Fill)
	add("halign", p.HAlign)
	add("valign", p.VAlign)
	add("color", p.Color)
	if p.Size != nil {
		out = append(out, [2]string{"size", strconv.FormatFloat(*p.Size, 'f', -1, 64)})
	}
	addBool("bold", p.Bold)
	addBool("italic", p.Italic)
	add("underline", p.Underline)
	return out
}

// LoadStylePresets decodes a YAML presets document:
//
//	presets:
//	  header:
//	    background: "FF4472C4"
//	    fill: solid
//	    color: white
//	    bold: true
func LoadStylePresets(r io.Reader) (StylePresets, error) {
	var doc presetFile
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if err == io.EOF {
			return StylePresets{}, nil
		}
		return nil, fmt.Errorf("decode style presets: %w", err)
	}
	presets := make(StylePresets, len(doc.Presets))
	for name, tmpl := range doc.Presets {
		d := DefaultStyle()
		for _, kv := range tmpl.options() {
			if err := d.apply(kv[0], kv[1], nil); err != nil {
				return nil, fmt.Errorf("%w: preset %q: %v", ErrInvalidConfiguration, name, err)
			}
		}
		presets[name] = d
	}
	return presets, nil
}

// LoadStylePresetsFile reads presets from a YAML file on disk.
func LoadStylePresetsFile(path string) (StylePresets, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open style presets: %w", err)
	}
	defer f.Close()
	return LoadStylePresets(f)
}
