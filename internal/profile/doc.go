// Package profile loads inventory profiles: declarative descriptions of the
// resource providers a PoC scenario runs against.
//
// A profile is a YAML file in a profiles directory. Its identifier is the
// file name without the .yaml extension:
//
//	provider_groups:
//	  - name: shared-compute
//	    distances: { network: datacenter, storage: row }
//	    providers:
//	      - name: host
//	        count: 1000
//	        capabilities: [hw.cpu.x86.avx2]
//	        inventory:
//	          runm.cpu.shared: { total: 64, allocation_ratio: 16 }
//	          runm.memory: { total: 274877906944, reserved: 1073741824 }
//
// Loading is all-or-nothing. The document is first checked against an
// embedded CUE schema (shape, types, bounds), then decoded into typed
// structs with unknown fields rejected, then checked for cross-field
// invariants (reserved <= total, min_unit <= max_unit, unique names).
// Providers declaring a count are expanded into numbered providers.
//
// # Errors
//
// Load returns an *Error whose Code is either CodeProfileNotFound or
// CodeMalformedProfile. Use IsNotFound and IsMalformed to classify.
//
// The resulting InventoryProfile is never mutated after load. Its
// ProviderGroups sequence may be ranged over any number of times and always
// yields the groups in file order.
package profile
