// Package deploy provides the shared types and interfaces of the phased
// deployment pipeline.
//
// A deployment run executes four ordered phases, each gated on results of
// the previous one:
//   - registry/ bootstraps one registry repository per deployable unit
//   - publish/ builds, pushes, and independently verifies artifacts
//   - infra/ converges the tenant's full infrastructure graph
//   - assets/ builds and publishes the static frontend, invalidates the CDN
//
// plus the inverse flow in teardown/. Phases run strictly sequentially;
// phase N never starts before phase N-1's last verified success. A phase
// failure aborts the run without rolling back earlier phases; tenants are
// reconciled by rerunning, not by automatic compensation.
//
// This root package contains the Phase contract, the progressive State,
// the capability interfaces over external tools, and the Observer used
// for structured progress events.
package deploy
