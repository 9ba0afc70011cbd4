package profile

import (
	"fmt"
	"maps"
	"slices"
	"strconv"

	"github.com/shopspring/decimal"
	"golang.org/x/text/unicode/norm"
)

// rawProfile mirrors the YAML document. Optional scalars are pointers so
// that absence can be told apart from zero.
type rawProfile struct {
	ProviderGroups []rawGroup `yaml:"provider_groups"`
}

type rawGroup struct {
	Name      string            `yaml:"name"`
	Distances map[string]string `yaml:"distances,omitempty"`
	Providers []rawProvider     `yaml:"providers"`
}

type rawProvider struct {
	Name         string                  `yaml:"name"`
	Count        *int                    `yaml:"count,omitempty"`
	Type         string                  `yaml:"type,omitempty"`
	Capabilities []string                `yaml:"capabilities,omitempty"`
	Traits       []string                `yaml:"traits,omitempty"`
	Inventory    map[string]rawInventory `yaml:"inventory"`
}

type rawInventory struct {
	Total           *int64   `yaml:"total,omitempty"`
	Capacity        *int64   `yaml:"capacity,omitempty"`
	Reserved        *int64   `yaml:"reserved,omitempty"`
	AllocationRatio *float64 `yaml:"allocation_ratio,omitempty"`
	MinUnit         *int64   `yaml:"min_unit,omitempty"`
	MaxUnit         *int64   `yaml:"max_unit,omitempty"`
	StepSize        *int64   `yaml:"step_size,omitempty"`
}

// MaxCount bounds the number of providers a single template entry expands to.
const MaxCount = 100000

// builder converts a decoded document into the profile model, enforcing the
// invariants the schema cannot express.
type builder struct {
	groupNames    map[string]string // name -> field of first declaration
	providerNames map[string]string
}

func build(raw *rawProfile) ([]ProviderGroup, error) {
	b := &builder{
		groupNames:    make(map[string]string),
		providerNames: make(map[string]string),
	}

	if len(raw.ProviderGroups) == 0 {
		return nil, malformed("provider_groups", "at least one provider group is required")
	}

	groups := make([]ProviderGroup, 0, len(raw.ProviderGroups))
	for i, rg := range raw.ProviderGroups {
		g, err := b.group(fmt.Sprintf("provider_groups.%d", i), rg)
		if err != nil {
			return nil, err
		}
		groups = append(groups, g)
	}
	return groups, nil
}

func (b *builder) group(field string, rg rawGroup) (ProviderGroup, error) {
	name := norm.NFC.String(rg.Name)
	if name == "" {
		return ProviderGroup{}, malformed(field+".name", "provider group name is required")
	}
	if first, dup := b.groupNames[name]; dup {
		return ProviderGroup{}, malformed(field+".name", "duplicate provider group %q (first declared at %s)", name, first)
	}
	b.groupNames[name] = field

	g := ProviderGroup{Name: name}

	if len(rg.Distances) > 0 {
		g.Distances = make(map[string]string, len(rg.Distances))
		for typeCode, code := range rg.Distances {
			typeCode, code = norm.NFC.String(typeCode), norm.NFC.String(code)
			if typeCode == "" {
				return ProviderGroup{}, malformed(field+".distances", "distance type code is required")
			}
			if code == "" {
				return ProviderGroup{}, malformed(field+".distances."+typeCode, "distance code is required")
			}
			if _, dup := g.Distances[typeCode]; dup {
				return ProviderGroup{}, malformed(field+".distances."+typeCode, "duplicate distance type %q", typeCode)
			}
			g.Distances[typeCode] = code
		}
	}

	if len(rg.Providers) == 0 {
		return ProviderGroup{}, malformed(field+".providers", "at least one provider is required")
	}
	for i, rp := range rg.Providers {
		providers, err := b.providers(fmt.Sprintf("%s.providers.%d", field, i), rp)
		if err != nil {
			return ProviderGroup{}, err
		}
		g.Providers = append(g.Providers, providers...)
	}
	return g, nil
}

// providers builds one provider, or count numbered copies of it when the
// entry is a template.
func (b *builder) providers(field string, rp rawProvider) ([]Provider, error) {
	base := norm.NFC.String(rp.Name)
	if base == "" {
		return nil, malformed(field+".name", "provider name is required")
	}

	typ := rp.Type
	if typ == "" {
		typ = ProviderTypeCompute
	}
	if !slices.Contains(ValidProviderTypes, typ) {
		return nil, malformed(field+".type", "invalid provider type %q, valid choices: %v", typ, ValidProviderTypes)
	}

	capabilities, err := codeList(field+".capabilities", "capability", rp.Capabilities)
	if err != nil {
		return nil, err
	}
	traits, err := codeList(field+".traits", "trait", rp.Traits)
	if err != nil {
		return nil, err
	}

	if len(rp.Inventory) == 0 {
		return nil, malformed(field+".inventory", "at least one inventory is required")
	}
	inventories := make(map[string]Inventory, len(rp.Inventory))
	for code, ri := range rp.Inventory {
		code = norm.NFC.String(code)
		if _, dup := inventories[code]; dup {
			return nil, malformed(field+".inventory."+code, "duplicate resource class %q", code)
		}
		inv, err := inventory(field+".inventory."+code, code, ri)
		if err != nil {
			return nil, err
		}
		inventories[code] = inv
	}

	names := []string{base}
	if rp.Count != nil {
		n := *rp.Count
		if n < 1 {
			return nil, malformed(field+".count", "count must be at least 1, got %d", n)
		}
		if n > MaxCount {
			return nil, malformed(field+".count", "count must be at most %d, got %d", MaxCount, n)
		}
		width := len(strconv.Itoa(n))
		names = make([]string, n)
		for i := range n {
			names[i] = fmt.Sprintf("%s-%0*d", base, width, i+1)
		}
	}

	out := make([]Provider, 0, len(names))
	for _, name := range names {
		if first, dup := b.providerNames[name]; dup {
			return nil, malformed(field+".name", "duplicate provider %q (first declared at %s)", name, first)
		}
		b.providerNames[name] = field

		out = append(out, Provider{
			Name:         name,
			Type:         typ,
			Capabilities: slices.Clone(capabilities),
			Traits:       slices.Clone(traits),
			Inventories:  maps.Clone(inventories),
		})
	}
	return out, nil
}

func inventory(field, code string, ri rawInventory) (Inventory, error) {
	if code == "" {
		return Inventory{}, malformed(field, "resource class code is required")
	}

	var total int64
	switch {
	case ri.Total != nil && ri.Capacity != nil && *ri.Total != *ri.Capacity:
		return Inventory{}, malformed(field, "total %d and capacity %d disagree", *ri.Total, *ri.Capacity)
	case ri.Total != nil:
		total = *ri.Total
	case ri.Capacity != nil:
		total = *ri.Capacity
	default:
		return Inventory{}, malformed(field+".total", "total is required")
	}
	if total < 0 {
		return Inventory{}, malformed(field+".total", "total must not be negative, got %d", total)
	}

	inv := Inventory{
		ResourceClass:   code,
		Total:           total,
		AllocationRatio: decimal.NewFromInt(1),
		MinUnit:         1,
		MaxUnit:         max(total, 1),
		StepSize:        1,
	}

	if ri.Reserved != nil {
		inv.Reserved = *ri.Reserved
	}
	if inv.Reserved < 0 {
		return Inventory{}, malformed(field+".reserved", "reserved must not be negative, got %d", inv.Reserved)
	}
	if inv.Reserved > total {
		return Inventory{}, malformed(field+".reserved", "reserved %d exceeds total %d", inv.Reserved, total)
	}

	if ri.AllocationRatio != nil {
		inv.AllocationRatio = decimal.NewFromFloat(*ri.AllocationRatio)
		if !inv.AllocationRatio.IsPositive() {
			return Inventory{}, malformed(field+".allocation_ratio", "allocation ratio must be positive, got %s", inv.AllocationRatio)
		}
	}

	if ri.MinUnit != nil {
		inv.MinUnit = *ri.MinUnit
		if inv.MinUnit < 1 {
			return Inventory{}, malformed(field+".min_unit", "min_unit must be at least 1, got %d", inv.MinUnit)
		}
	}
	if ri.MaxUnit != nil {
		inv.MaxUnit = *ri.MaxUnit
		if inv.MaxUnit < 1 {
			return Inventory{}, malformed(field+".max_unit", "max_unit must be at least 1, got %d", inv.MaxUnit)
		}
	}
	// max_unit defaults to total, so an explicit min_unit alone is still bounded.
	if inv.MinUnit > inv.MaxUnit {
		return Inventory{}, malformed(field, "min_unit %d exceeds max_unit %d", inv.MinUnit, inv.MaxUnit)
	}
	if ri.StepSize != nil {
		inv.StepSize = *ri.StepSize
		if inv.StepSize < 1 {
			return Inventory{}, malformed(field+".step_size", "step_size must be positive, got %d", inv.StepSize)
		}
	}
	return inv, nil
}

// codeList normalizes a list of codes, rejecting empty and repeated entries.
func codeList(field, kind string, codes []string) ([]string, error) {
	if len(codes) == 0 {
		return nil, nil
	}
	out := make([]string, 0, len(codes))
	for i, c := range codes {
		c = norm.NFC.String(c)
		if c == "" {
			return nil, malformed(fmt.Sprintf("%s.%d", field, i), "%s code is required", kind)
		}
		if slices.Contains(out, c) {
			return nil, malformed(fmt.Sprintf("%s.%d", field, i), "duplicate %s %q", kind, c)
		}
		out = append(out, c)
	}
	return out, nil
}
