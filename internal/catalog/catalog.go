package catalog

import (
	"fmt"
)

// ResourceClass is a typed, countable resource kind.
type ResourceClass struct {
	Code        string
	Description string
}

// ConsumerType is a kind of entity that consumes resources.
type ConsumerType struct {
	Code        string
	Description string
}

// Capability is a named feature a provider may expose.
type Capability struct {
	Code        string
	Description string
}

// DistanceType is an ordered taxonomy such as network locality.
// Generation is bumped whenever the set of distances changes.
type DistanceType struct {
	Code        string
	Description string
	Generation  int64
}

// Distance is one point within a DistanceType.
// Positions are unique within a type and lower means closer.
type Distance struct {
	Type        string
	Code        string
	Position    int64
	Description string
}

// Catalog holds every reference record seeded before a profile is applied.
type Catalog struct {
	ResourceClasses []ResourceClass
	ConsumerTypes   []ConsumerType
	Capabilities    []Capability
	DistanceTypes   []DistanceType
	Distances       []Distance
}

// Default returns the reference records used by the resource PoC scenarios.
func Default() Catalog {
	return Catalog{
		ResourceClasses: []ResourceClass{
			{
				Code: "runm.cpu.dedicated",
				Description: "A logical CPU processor associated with a " +
					"single dedicated host CPU processor",
			},
			{
				Code: "runm.cpu.shared",
				Description: "A logical CPU processor that may be executed on " +
					"a host CPU processor along with other shared logical CPUs",
			},
			{Code: "runm.memory", Description: "Bytes of RAM"},
			{Code: "runm.block_storage", Description: "Bytes of block storage"},
			{Code: "runm.gpu.virtual", Description: "virtual GPU context"},
		},
		ConsumerTypes: []ConsumerType{
			{Code: "runm.machine", Description: "A virtual or baremetal machine"},
			{Code: "runm.volume", Description: "A persistent volume"},
		},
		Capabilities: []Capability{
			{Code: "hw.cpu.x86.avx", Description: "Intel x86 CPU instruction set extensions for AVX"},
			{Code: "hw.cpu.x86.avx2", Description: "Intel x86 CPU instruction set extensions for AVX2"},
			{Code: "hw.cpu.x86.vmx", Description: "Intel x86 CPU instruction set extensions for VMX"},
			{Code: "storage.disk.hdd", Description: "Block storage is on traditional spinning rust"},
			{Code: "storage.disk.ssd", Description: "Block storage is on a solid-state drive"},
		},
		DistanceTypes: []DistanceType{
			{Code: "network", Description: "Relative network distances", Generation: 1},
			{Code: "storage", Description: "Relative storage distances", Generation: 1},
		},
		Distances: []Distance{
			{Type: "network", Code: "local", Position: 0, Description: "Virtually no network latency"},
			{Type: "network", Code: "datacenter", Position: 1, Description: "latency between leaf switch-connected nodes in a DC"},
			{Type: "network", Code: "remote", Position: 2, Description: "WAN latency"},
			{Type: "storage", Code: "local", Position: 0, Description: "Block storage local to host running machine"},
			{Type: "storage", Code: "row", Position: 1, Description: "NAS server shared by row of compute"},
			{Type: "storage", Code: "remote", Position: 2, Description: "External cloud block storage with WAN latency"},
		},
	}
}

// DistancesOf returns the distances belonging to typeCode, in declaration order.
func (c Catalog) DistancesOf(typeCode string) []Distance {
	var out []Distance
	for _, d := range c.Distances {
		if d.Type == typeCode {
			out = append(out, d)
		}
	}
	return out
}

// Validate checks that codes are unique per table, that every distance
// references a declared distance type, and that positions form a total
// order within each type.
func (c Catalog) Validate() error {
	if err := uniqueCodes("resource class", len(c.ResourceClasses), func(i int) string { return c.ResourceClasses[i].Code }); err != nil {
		return err
	}
	if err := uniqueCodes("consumer type", len(c.ConsumerTypes), func(i int) string { return c.ConsumerTypes[i].Code }); err != nil {
		return err
	}
	if err := uniqueCodes("capability", len(c.Capabilities), func(i int) string { return c.Capabilities[i].Code }); err != nil {
		return err
	}
	if err := uniqueCodes("distance type", len(c.DistanceTypes), func(i int) string { return c.DistanceTypes[i].Code }); err != nil {
		return err
	}

	declared := make(map[string]bool, len(c.DistanceTypes))
	for _, dt := range c.DistanceTypes {
		declared[dt.Code] = true
	}
	for _, d := range c.Distances {
		if !declared[d.Type] {
			return fmt.Errorf("distance %q references unknown distance type %q", d.Code, d.Type)
		}
	}
	for _, dt := range c.DistanceTypes {
		if _, err := NewScale(dt.Code, c.DistancesOf(dt.Code)); err != nil {
			return err
		}
	}
	return nil
}

func uniqueCodes(kind string, n int, code func(int) string) error {
	seen := make(map[string]bool, n)
	for i := 0; i < n; i++ {
		c := code(i)
		if c == "" {
			return fmt.Errorf("%s[%d]: code is required", kind, i)
		}
		if seen[c] {
			return fmt.Errorf("duplicate %s code %q", kind, c)
		}
		seen[c] = true
	}
	return nil
}
