// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package profile

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Thermoquad/nuvostat/pkg/essentia"
)

func TestNames(t *testing.T) {
	assert.Contains(t, Names(), DefaultName)
}

func TestDefault(t *testing.T) {
	catalog, err := Default()
	require.NoError(t, err)

	entries := catalog.Entries()
	require.NotEmpty(t, entries)
	assert.Equal(t, essentia.ReadStatusConnect, entries[0].Kind, "status reads come first")

	for _, kind := range []essentia.CommandKind{
		essentia.SetVolume,
		essentia.TurnZoneOn,
		essentia.ReadVersion,
		essentia.ErrorInCommand,
	} {
		_, ok := catalog.Lookup(kind)
		assert.True(t, ok, "default profile should define %s", kind)
	}

	_, ok := catalog.Lookup(essentia.SetZoneStatus)
	assert.False(t, ok, "compound kinds are not part of the profile")
}

func TestDefault_EveryEchoDecodesToItself(t *testing.T) {
	catalog, err := Default()
	require.NoError(t, err)
	codec := essentia.NewCodec(catalog, nil)

	v := essentia.NewFields()
	v.Zone = 7
	v.Source = 2
	v.Volume = -41
	v.Bass = -8
	v.Treble = 3

	for _, e := range catalog.Entries() {
		if _, ok := essentia.EncodeFields(e.Kind); !ok {
			continue
		}
		cmd, err := codec.NewCommand(e.Kind, v)
		require.NoError(t, err, e.Kind.String())

		decoded, err := codec.Decode(cmd.Outgoing())
		require.NoError(t, err)
		assert.Equal(t, e.Kind, decoded.Kind(), "echo %q", cmd.Outgoing())
	}
}

func TestDefault_DecodesDeviceReplies(t *testing.T) {
	catalog, err := Default()
	require.NoError(t, err)
	codec := essentia.NewCodec(catalog, nil)

	cmd, err := codec.Decode("Z04PWRON,SRC2,GRP0,VOL-33")
	require.NoError(t, err)
	assert.Equal(t, essentia.ReadStatusConnect, cmd.Kind())
	assert.Equal(t, essentia.PowerOn, cmd.Fields().Power)
	assert.Equal(t, -33, cmd.Fields().Volume)

	cmd, err = codec.Decode("NUVO_E6D_v1.07")
	require.NoError(t, err)
	assert.Equal(t, essentia.ReadVersion, cmd.Kind())
	assert.Equal(t, "v1.07", cmd.Fields().FirmwareVersion)
}

func TestEmbedded_Metadata(t *testing.T) {
	p, err := Embedded(DefaultName)
	require.NoError(t, err)
	assert.Equal(t, "essentia", p.Name)
	assert.Equal(t, 9600, p.Baud)
	assert.NotEmpty(t, p.Description)

	_, err = Embedded("missing")
	assert.Error(t, err)
}

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		wantErr bool
	}{
		{
			name: "minimal",
			doc: `
name: mini
commands:
  - kind: ReadVersion
    outgoing: VER
    incoming: NUVO_E6D_vz.zz
`,
		},
		{
			name:    "no commands",
			doc:     "name: empty\n",
			wantErr: true,
		},
		{
			name:    "not yaml",
			doc:     "commands: [",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := Parse([]byte(tt.doc))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Len(t, p.Commands, 1)
		})
	}
}

func TestCatalog_Errors(t *testing.T) {
	unknown := &Profile{Name: "bad", Commands: []CommandEntry{{Kind: "SetBalance", Outgoing: "ZxxBAL"}}}
	_, err := unknown.Catalog()
	assert.True(t, errors.Is(err, essentia.ErrUnknownKind))

	malformed := &Profile{Name: "bad", Commands: []CommandEntry{{Kind: "TurnZoneOn", Outgoing: "ZxgON"}}}
	_, err = malformed.Catalog()
	assert.True(t, errors.Is(err, essentia.ErrMalformedTemplate))

	duplicate := &Profile{Name: "bad", Commands: []CommandEntry{
		{Kind: "ReadVersion", Outgoing: "VER"},
		{Kind: "readversion", Outgoing: "VER"},
	}}
	_, err = duplicate.Catalog()
	assert.True(t, errors.Is(err, essentia.ErrDuplicateKind))
}

func TestLoadAndResolve(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.yaml")
	doc := `name: custom
baud: 19200
commands:
  - kind: SetVolume
    outgoing: "#xx?yy"
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	p, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "custom", p.Name)
	assert.Equal(t, 19200, p.Baud)

	resolved, err := Resolve(path)
	require.NoError(t, err)
	assert.Equal(t, p, resolved)

	byName, err := Resolve(DefaultName)
	require.NoError(t, err)
	assert.Equal(t, DefaultName, byName.Name)

	def, err := Resolve("")
	require.NoError(t, err)
	assert.Equal(t, DefaultName, def.Name)

	_, err = Load(filepath.Join(dir, "absent.yaml"))
	assert.Error(t, err)
}
