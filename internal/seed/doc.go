// Package seed loads the resource PoC database with the records that PoC
// scenarios run against.
//
// A run is a fixed sequence of steps, each reported as "<step> ... ok" or
// "<step> ... FAIL":
//
//	resetting resource PoC database
//	creating resource classes
//	creating consumer types
//	creating capabilities
//	creating distance types
//	creating distances
//	applying provider group <name>    (once per group, in profile order)
//
// The reset and lookup steps only run when Options.Reset is set. Everything
// after the reset runs in one store transaction: the first failing step
// aborts the run and rolls back every step before it, so a failed run never
// leaves distances without their distance types or providers without their
// group.
package seed
