package wizard

import "github.com/charmbracelet/huh"

// RegionOption represents an AWS region choice.
type RegionOption struct {
	Value       string
	Label       string
	Description string
}

// Regions contains the regions offered by the wizard. Any region can still
// be supplied through a vars file; this list only drives the select.
var Regions = []RegionOption{
	{Value: "eu-central-1", Label: "eu-central-1", Description: "Frankfurt, Germany"},
	{Value: "eu-west-1", Label: "eu-west-1", Description: "Dublin, Ireland"},
	{Value: "us-east-1", Label: "us-east-1", Description: "N. Virginia, USA"},
	{Value: "us-west-2", Label: "us-west-2", Description: "Oregon, USA"},
	{Value: "ap-southeast-1", Label: "ap-southeast-1", Description: "Singapore"},
	{Value: "ap-northeast-1", Label: "ap-northeast-1", Description: "Tokyo, Japan"},
}

// Environments contains the environment labels offered by the wizard.
var Environments = []string{"dev", "staging", "prod"}

// RegionsToOptions converts Regions to huh select options.
func RegionsToOptions() []huh.Option[string] {
	opts := make([]huh.Option[string], 0, len(Regions))
	for _, r := range Regions {
		opts = append(opts, huh.NewOption(r.Label+" - "+r.Description, r.Value))
	}
	return opts
}

// EnvironmentsToOptions converts Environments to huh select options.
func EnvironmentsToOptions() []huh.Option[string] {
	opts := make([]huh.Option[string], 0, len(Environments))
	for _, e := range Environments {
		opts = append(opts, huh.NewOption(e, e))
	}
	return opts
}
