package config

// Fixed defaults for optional tenant settings.
const (
	// DefaultDBName is the database created for every tenant.
	DefaultDBName = "appdb"

	// DefaultDBEngineVersion is the managed PostgreSQL engine version.
	DefaultDBEngineVersion = "15.4"
)

// Project layout relative to the project directory.
const (
	// BackendSourceDir holds the backend service source and its Dockerfile.
	BackendSourceDir = "backend"

	// FunctionsSourceDir holds one subdirectory per serverless function.
	FunctionsSourceDir = "functions"

	// FrontendSourceDir holds the static site source.
	FrontendSourceDir = "frontend"
)
