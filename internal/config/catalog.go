package config

import "path/filepath"

// BackendUnitName is the logical name of the backend deployable unit.
const BackendUnitName = "backend"

// FunctionNames is the fixed catalog of serverless function units. Order is
// significant: it is the rendering order of the function tag map, which
// keeps the materialized variable set byte-stable.
var FunctionNames = []string{
	"auth",
	"billing",
	"exports",
	"notifications",
	"scheduler",
	"webhooks",
}

// IsFunctionName reports whether name is in the function catalog.
func IsFunctionName(name string) bool {
	for _, n := range FunctionNames {
		if n == name {
			return true
		}
	}
	return false
}

// DeployableUnit is one buildable, publishable artifact.
type DeployableUnit struct {
	// Name is the logical unit name ("backend" or a function name).
	Name string

	// SourcePath is the build context directory, relative to the project
	// directory.
	SourcePath string

	// Repository is the registry repository the unit is pushed to.
	Repository string

	// Tag is the image tag to publish.
	Tag string
}

// Units returns the full deployable-unit catalog for a tenant: the backend
// plus every function, with repositories namespaced by slug.
func (c *Config) Units() []DeployableUnit {
	units := make([]DeployableUnit, 0, len(FunctionNames)+1)

	units = append(units, DeployableUnit{
		Name:       BackendUnitName,
		SourcePath: BackendSourceDir,
		Repository: c.Slug + "/" + BackendUnitName,
		Tag:        c.BackendImageTag,
	})

	for _, name := range FunctionNames {
		units = append(units, DeployableUnit{
			Name:       name,
			SourcePath: filepath.Join(FunctionsSourceDir, name),
			Repository: c.Slug + "/" + name,
			Tag:        c.FunctionTag(name),
		})
	}

	return units
}
