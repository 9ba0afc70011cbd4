package profile

import (
	"iter"
	"slices"
	"sort"

	"github.com/shopspring/decimal"
)

// Provider types accepted in a provider's type field.
const (
	ProviderTypeCompute      = "runm.compute"
	ProviderTypeBlockStorage = "runm.storage.block"
)

// ValidProviderTypes lists every accepted provider type.
var ValidProviderTypes = []string{
	ProviderTypeCompute,
	ProviderTypeBlockStorage,
}

// InventoryProfile is a parsed inventory profile.
type InventoryProfile struct {
	// Name is the profile identifier (file name without extension).
	Name string

	// Path is the file the profile was read from.
	Path string

	groups []ProviderGroup
}

// ProviderGroup is a named cluster of providers sharing placement semantics.
type ProviderGroup struct {
	Name string

	// Distances maps a distance type code to a distance code of that type,
	// e.g. network: datacenter. Nil when the group declares none.
	Distances map[string]string

	Providers []Provider
}

// Provider is a single resource-providing entity such as a host.
type Provider struct {
	Name         string
	Type         string
	Capabilities []string
	Traits       []string

	// Inventories is keyed by resource class code.
	Inventories map[string]Inventory
}

// Inventory is the capacity and allocation parameters of one resource class
// on one provider.
type Inventory struct {
	ResourceClass   string
	Total           int64
	Reserved        int64
	AllocationRatio decimal.Decimal
	MinUnit         int64
	MaxUnit         int64
	StepSize        int64
}

// ProviderGroups returns the provider groups in file order. The sequence can
// be ranged over repeatedly with identical results.
func (p *InventoryProfile) ProviderGroups() iter.Seq[ProviderGroup] {
	return func(yield func(ProviderGroup) bool) {
		for _, g := range p.groups {
			if !yield(g) {
				return
			}
		}
	}
}

// Len returns the number of provider groups.
func (p *InventoryProfile) Len() int {
	return len(p.groups)
}

// Group returns the provider group with the given name.
func (p *InventoryProfile) Group(name string) (ProviderGroup, bool) {
	i := slices.IndexFunc(p.groups, func(g ProviderGroup) bool { return g.Name == name })
	if i < 0 {
		return ProviderGroup{}, false
	}
	return p.groups[i], true
}

// ProviderCount returns the number of providers across all groups.
func (p *InventoryProfile) ProviderCount() int {
	n := 0
	for _, g := range p.groups {
		n += len(g.Providers)
	}
	return n
}

// InventoryCount returns the number of inventory records across all providers.
func (p *InventoryProfile) InventoryCount() int {
	n := 0
	for _, g := range p.groups {
		for _, pr := range g.Providers {
			n += len(pr.Inventories)
		}
	}
	return n
}

// ResourceClasses returns the provider's inventory resource class codes, sorted.
func (p Provider) ResourceClasses() []string {
	codes := make([]string, 0, len(p.Inventories))
	for code := range p.Inventories {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// DistanceTypes returns the group's distance type codes, sorted.
func (g ProviderGroup) DistanceTypes() []string {
	codes := make([]string, 0, len(g.Distances))
	for code := range g.Distances {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// Capacity returns the amount of the resource that can be consumed:
// (total - reserved) * allocation ratio, rounded down.
func (i Inventory) Capacity() int64 {
	usable := decimal.NewFromInt(i.Total - i.Reserved)
	return usable.Mul(i.AllocationRatio).Floor().IntPart()
}
