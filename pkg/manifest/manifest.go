// Package manifest reads YAML brick manifests. A manifest is checked
// against an embedded JSON schema before any entry is decoded, so unknown
// families and misspelled fields fail the whole file.
package manifest

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"

	"github.com/chazu/bricklayer/pkg/brick"
	"github.com/chazu/bricklayer/pkg/build"
)

//go:embed schema.json
var schemaJSON string

const schemaURL = "https://github.com/chazu/bricklayer/manifest.schema.json"

var schema = jsonschema.MustCompileString(schemaURL, schemaJSON)

// ErrSchema is returned when a manifest does not match the schema.
var ErrSchema = errors.New("manifest does not match schema")

// FamilySeries expands to a run of regular bricks.
const FamilySeries = "series"

type document struct {
	Bricks []yaml.Node `yaml:"bricks"`
}

type entryHeader struct {
	Family string `yaml:"family"`
}

type seriesEntry struct {
	StudsX int `yaml:"studs_x"`
	YMax   int `yaml:"y_max"`
	PlateZ int `yaml:"plate_z"`
}

// Load reads and parses the manifest at path.
func Load(path string) ([]brick.Spec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("manifest: %w", err)
	}
	specs, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return specs, nil
}

// Parse validates data against the schema and decodes its entries in
// order. Series entries are expanded in place.
func Parse(data []byte) ([]brick.Spec, error) {
	if err := Validate(data); err != nil {
		return nil, err
	}

	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("manifest: decode: %w", err)
	}

	var specs []brick.Spec
	for i := range doc.Bricks {
		got, err := decodeEntry(&doc.Bricks[i])
		if err != nil {
			return nil, fmt.Errorf("manifest: entry %d: %w", i, err)
		}
		specs = append(specs, got...)
	}
	return specs, nil
}

// Validate checks data against the manifest schema.
func Validate(data []byte) error {
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("manifest: decode: %w", err)
	}
	// The validator expects values shaped like encoding/json output.
	buf, err := json.Marshal(raw)
	if err != nil {
		return fmt.Errorf("manifest: normalize: %w", err)
	}
	var doc any
	if err := json.Unmarshal(buf, &doc); err != nil {
		return fmt.Errorf("manifest: normalize: %w", err)
	}
	if err := schema.Validate(doc); err != nil {
		return fmt.Errorf("manifest: %w: %v", ErrSchema, err)
	}
	return nil
}

func decodeEntry(n *yaml.Node) ([]brick.Spec, error) {
	var h entryHeader
	if err := n.Decode(&h); err != nil {
		return nil, err
	}
	if h.Family == FamilySeries {
		var s seriesEntry
		if err := n.Decode(&s); err != nil {
			return nil, err
		}
		return build.Series(s.StudsX, s.YMax, s.PlateZ), nil
	}

	fam, ok := brick.ParseFamily(h.Family)
	if !ok {
		return nil, fmt.Errorf("unknown family %q", h.Family)
	}
	var spec brick.Spec
	var err error
	switch fam {
	case brick.FamilyRegular:
		spec, err = decodeAs[brick.Regular](n)
	case brick.FamilyBig:
		spec, err = decodeAs[brick.Big](n)
	case brick.FamilyCorner:
		spec, err = decodeAs[brick.Corner](n)
	case brick.FamilyHoled:
		spec, err = decodeAs[brick.Holed](n)
	case brick.FamilyPocket:
		spec, err = decodeAs[brick.Pocket](n)
	case brick.FamilySlope:
		spec, err = decodeAs[brick.Slope](n)
	}
	if err != nil {
		return nil, err
	}
	return []brick.Spec{spec}, nil
}

func decodeAs[T brick.Spec](n *yaml.Node) (brick.Spec, error) {
	var v T
	if err := n.Decode(&v); err != nil {
		return nil, err
	}
	return v, nil
}
