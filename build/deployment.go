package build

// DeploymentType selects the set of debugging aids compiled into a binary.
type DeploymentType byte

const (
	// Development builds may expose revealed secrets in tool output.
	Development DeploymentType = iota

	// Production builds never print secret material.
	Production
)

// String returns the name of the deployment type.
func (d DeploymentType) String() string {
	switch d {
	case Development:
		return "dev"

	case Production:
		return "prod"

	default:
		return "unknown"
	}
}

// IsDevBuild reports whether the binary was built with the dev tag.
func IsDevBuild() bool {
	return Deployment == Development
}
