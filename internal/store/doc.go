// Package store provides SQLite-backed storage for the resource PoC
// database.
//
// The schema holds two kinds of tables:
//   - Reference tables: resource classes, consumer types, capabilities,
//     distance types and distances. These are seeded from the catalog.
//   - Provider tables: provider groups and their distances, providers,
//     inventories, capabilities and traits. These are written by applying
//     the provider groups of an inventory profile.
//
// Each table is reached through a small typed repository (ResourceClasses,
// Distances, ProviderGroups, ...). Both *Store and *Tx expose the same
// repositories, so the seeding code reads the same inside and outside a
// transaction.
//
// # Identity
//
// Provider UUIDs are derived from the provider name (UUIDv5 under a fixed
// namespace), so re-seeding the same profile yields the same identities.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
//
// Failed statements are reported as *OperationError. A lookup that matches
// no row wraps ErrNotFound.
package store
