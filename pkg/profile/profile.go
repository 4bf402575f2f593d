// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

// Package profile loads device command profiles into template catalogs.
//
// A profile is a YAML document listing command kinds with their outgoing and
// incoming templates. Entry order is preserved and becomes catalog order.
package profile

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/Thermoquad/nuvostat/pkg/essentia"
)

// DefaultName is the embedded profile used when none is configured
const DefaultName = "essentia"

//go:embed profiles/*.yaml
var embeddedProfiles embed.FS

// Profile is the decoded form of a profile document
type Profile struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Baud        int            `yaml:"baud"`
	Commands    []CommandEntry `yaml:"commands"`
}

// CommandEntry is one command of a profile
type CommandEntry struct {
	Kind     string `yaml:"kind"`
	Outgoing string `yaml:"outgoing"`
	Incoming string `yaml:"incoming"`
}

// Parse decodes a profile document
func Parse(data []byte) (*Profile, error) {
	var p Profile
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("profile parse failed: %w", err)
	}
	if len(p.Commands) == 0 {
		return nil, fmt.Errorf("profile %q has no commands", p.Name)
	}
	return &p, nil
}

// Load reads and decodes a profile file
func Load(filename string) (*Profile, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("profile load failed (%s): %w", filename, err)
	}
	p, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("profile load failed (%s): %w", filename, err)
	}
	return p, nil
}

// Embedded returns a profile compiled into the binary
func Embedded(name string) (*Profile, error) {
	data, err := embeddedProfiles.ReadFile(path.Join("profiles", name+".yaml"))
	if err != nil {
		return nil, fmt.Errorf("no embedded profile %q (have %s)", name, strings.Join(Names(), ", "))
	}
	return Parse(data)
}

// Names lists the embedded profiles
func Names() []string {
	entries, err := fs.ReadDir(embeddedProfiles, "profiles")
	if err != nil {
		return nil
	}
	var names []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".yaml") {
			names = append(names, strings.TrimSuffix(e.Name(), ".yaml"))
		}
	}
	sort.Strings(names)
	return names
}

// Entries converts the profile commands to catalog entries, keeping order
func (p *Profile) Entries() ([]essentia.Entry, error) {
	entries := make([]essentia.Entry, 0, len(p.Commands))
	for i, c := range p.Commands {
		kind, err := essentia.ParseCommandKind(c.Kind)
		if err != nil {
			return nil, fmt.Errorf("profile %q command %d: %w", p.Name, i, err)
		}
		entries = append(entries, essentia.Entry{
			Kind:     kind,
			Outgoing: c.Outgoing,
			Incoming: c.Incoming,
		})
	}
	return entries, nil
}

// Catalog builds the template catalog of the profile
func (p *Profile) Catalog() (*essentia.Catalog, error) {
	entries, err := p.Entries()
	if err != nil {
		return nil, err
	}
	catalog, err := essentia.NewCatalog(entries)
	if err != nil {
		return nil, fmt.Errorf("profile %q: %w", p.Name, err)
	}
	return catalog, nil
}

// Default returns the catalog of the default embedded profile
func Default() (*essentia.Catalog, error) {
	p, err := Embedded(DefaultName)
	if err != nil {
		return nil, err
	}
	return p.Catalog()
}

// Resolve loads a profile by file path, or by embedded name when ref has no
// path separator and no extension. An empty ref selects the default.
func Resolve(ref string) (*Profile, error) {
	if ref == "" {
		return Embedded(DefaultName)
	}
	if !strings.ContainsAny(ref, `/\`) && path.Ext(ref) == "" {
		return Embedded(ref)
	}
	return Load(ref)
}
