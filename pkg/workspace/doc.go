// Package workspace contains the core domain logic for laneprep: resolving
// the OpenLane workspace layout, planning the relocation of staged flow files,
// PDK and build dependencies, cloning and testing OpenLane, scaffolding
// per-design directories, and verifying the result afterwards.
// It is used by the CLI layer but can also be embedded in other tooling that
// needs to prepare an OpenLane environment programmatically.
package workspace
