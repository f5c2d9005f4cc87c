package definition

import (
	"fmt"

	"github.com/oy3o/grib"
)

// field is the serialized form of grib.FieldSpec.
type field struct {
	Kind      string   `yaml:"kind" json:"kind" cbor:"kind"`
	Name      string   `yaml:"name,omitempty" json:"name,omitempty" cbor:"name,omitempty"`
	Namespace string   `yaml:"namespace,omitempty" json:"namespace,omitempty" cbor:"namespace,omitempty"`
	Params    []param  `yaml:"params,omitempty" json:"params,omitempty" cbor:"params,omitempty"`
	Flags     []string `yaml:"flags,omitempty" json:"flags,omitempty" cbor:"flags,omitempty"`
	Children  []field  `yaml:"children,omitempty" json:"children,omitempty" cbor:"children,omitempty"`
}

// param holds exactly one of its members.
type param struct {
	Ref  string  `yaml:"ref,omitempty" json:"ref,omitempty" cbor:"ref,omitempty"`
	Int  *int64  `yaml:"int,omitempty" json:"int,omitempty" cbor:"int,omitempty"`
	Text *string `yaml:"text,omitempty" json:"text,omitempty" cbor:"text,omitempty"`
}

var flagNames = []struct {
	name string
	flag grib.Flags
}{
	{"read_only", grib.FlagReadOnly},
	{"can_be_missing", grib.FlagCanBeMissing},
	{"hidden", grib.FlagHidden},
}

func toSpecs(doc []field, where string) ([]grib.FieldSpec, error) {
	if len(doc) == 0 {
		return nil, nil
	}
	out := make([]grib.FieldSpec, len(doc))
	for i, f := range doc {
		at := fmt.Sprintf("%s[%d]", where, i)
		if f.Name != "" {
			at = where + "/" + f.Name
		}
		if f.Kind == "" {
			return nil, fmt.Errorf("%w: %s has no kind", grib.ErrInvalidDefinition, at)
		}
		spec := grib.FieldSpec{Kind: grib.Kind(f.Kind), Name: f.Name, Namespace: f.Namespace}
		for j, p := range f.Params {
			gp, err := p.toParam()
			if err != nil {
				return nil, fmt.Errorf("%w: %s parameter %d: %v", grib.ErrInvalidDefinition, at, j, err)
			}
			spec.Params = append(spec.Params, gp)
		}
	flags:
		for _, name := range f.Flags {
			for _, fn := range flagNames {
				if fn.name == name {
					spec.Flags |= fn.flag
					continue flags
				}
			}
			return nil, fmt.Errorf("%w: %s has unknown flag %q", grib.ErrInvalidDefinition, at, name)
		}
		children, err := toSpecs(f.Children, at)
		if err != nil {
			return nil, err
		}
		spec.Children = children
		out[i] = spec
	}
	return out, nil
}

func (p param) toParam() (grib.Param, error) {
	set := 0
	var out grib.Param
	if p.Ref != "" {
		set++
		out = grib.RefParam(p.Ref)
	}
	if p.Int != nil {
		set++
		out = grib.IntParam(*p.Int)
	}
	if p.Text != nil {
		set++
		out = grib.TextParam(*p.Text)
	}
	if set != 1 {
		return grib.Param{}, fmt.Errorf("want exactly one of ref, int, text; got %d", set)
	}
	return out, nil
}

func fromSpecs(specs []grib.FieldSpec) []field {
	if len(specs) == 0 {
		return nil
	}
	out := make([]field, len(specs))
	for i, s := range specs {
		f := field{Kind: string(s.Kind), Name: s.Name, Namespace: s.Namespace}
		for _, p := range s.Params {
			switch p.Kind {
			case grib.ParamRef:
				f.Params = append(f.Params, param{Ref: p.Text})
			case grib.ParamInt:
				v := p.Int
				f.Params = append(f.Params, param{Int: &v})
			default:
				t := p.Text
				f.Params = append(f.Params, param{Text: &t})
			}
		}
		for _, fn := range flagNames {
			if s.Flags.Has(fn.flag) {
				f.Flags = append(f.Flags, fn.name)
			}
		}
		f.Children = fromSpecs(s.Children)
		out[i] = f
	}
	return out
}
