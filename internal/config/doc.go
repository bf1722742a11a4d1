// Package config defines the tenant configuration model used by every
// deployment and teardown subsystem.
//
// The [Config] struct is the canonical in-memory representation of one
// tenant's desired stack: identity, region, credential mode, storage
// buckets, database settings, application secrets, and image tags for the
// backend and each serverless function. It is produced by loading a tenant
// YAML file, by the interactive wizard, or by a hybrid of both, and is
// owned by exactly one deployment run.
//
// Secret-bearing fields live only in memory and in the rendered variable
// set; they must never appear in orchestrator logs.
package config
