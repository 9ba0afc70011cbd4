// Package catalog defines the reference records seeded into the resource
// store before any inventory profile is applied.
//
// Each table gets its own record type:
//   - ResourceClass: a countable resource kind (runm.cpu.shared, runm.memory)
//   - ConsumerType: a kind of resource consumer (runm.machine, runm.volume)
//   - Capability: a hardware/software feature a provider may expose
//   - DistanceType: an ordered taxonomy of placement distances
//   - Distance: one named point in a DistanceType, ordered by Position
//
// Default returns the records every PoC scenario expects. Scale recovers the
// total order of a distance type so callers can compare two named points.
package catalog
