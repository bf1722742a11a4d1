package preflight

import (
	"fmt"
	"os/exec"
	"strings"
)

// Tool represents a client tool the orchestrator shells out to.
type Tool struct {
	// Name is the binary name to look for in PATH.
	Name string

	// Required indicates if this tool is mandatory for the command.
	Required bool

	// Description explains what the tool is used for.
	Description string

	// InstallURL provides a URL for installation instructions.
	InstallURL string
}

// DeployTools returns the tools a deploy run shells out to.
func DeployTools() []Tool {
	return []Tool{
		{
			Name:        "terraform",
			Required:    true,
			Description: "Converges the tenant's infrastructure graph",
			InstallURL:  "https://developer.hashicorp.com/terraform/install",
		},
		{
			Name:        "docker",
			Required:    true,
			Description: "Builds and pushes backend and function images",
			InstallURL:  "https://docs.docker.com/engine/install/",
		},
		{
			Name:        "npm",
			Required:    true,
			Description: "Builds the tenant's static frontend assets",
			InstallURL:  "https://nodejs.org/en/download",
		},
	}
}

// DestroyTools returns the tools a destroy run shells out to.
func DestroyTools() []Tool {
	return []Tool{
		{
			Name:        "terraform",
			Required:    true,
			Description: "Destroys the tenant's infrastructure graph",
			InstallURL:  "https://developer.hashicorp.com/terraform/install",
		},
	}
}

// ToolCheckResult contains the result of checking a single tool.
type ToolCheckResult struct {
	Tool    Tool
	Found   bool
	Path    string
	Version string
}

// ToolCheckResults contains the results of checking multiple tools.
type ToolCheckResults struct {
	Results []ToolCheckResult
	Missing []Tool
}

// Error returns an error if any required tools are missing.
func (r *ToolCheckResults) Error() error {
	var missing []string
	for _, tool := range r.Missing {
		if tool.Required {
			missing = append(missing, fmt.Sprintf("%s (%s)", tool.Name, tool.InstallURL))
		}
	}
	if len(missing) == 0 {
		return nil
	}
	return fmt.Errorf("missing required tools: %s", strings.Join(missing, ", "))
}

// CheckTools verifies that the specified tools are available on PATH.
func CheckTools(tools []Tool) *ToolCheckResults {
	results := &ToolCheckResults{}

	for _, tool := range tools {
		result := ToolCheckResult{Tool: tool}

		path, err := exec.LookPath(tool.Name)
		if err == nil {
			result.Found = true
			result.Path = path
			result.Version = toolVersion(tool.Name)
		} else {
			results.Missing = append(results.Missing, tool)
		}

		results.Results = append(results.Results, result)
	}

	return results
}

// toolVersion attempts to get the version of a tool, best effort.
func toolVersion(name string) string {
	versionFlags := []string{"--version", "version", "-v"}

	for _, flag := range versionFlags {
		// #nosec G204 - name comes from trusted Tool definitions, not user input
		cmd := exec.Command(name, flag)
		output, err := cmd.Output()
		if err == nil {
			lines := strings.Split(string(output), "\n")
			if len(lines) > 0 {
				return strings.TrimSpace(lines[0])
			}
		}
	}

	return ""
}
