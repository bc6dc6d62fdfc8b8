// Package model contains domain models passed between layers.
package model

// Role is the closed set of profile and job categories.
type Role string

// Known roles.
const (
	RoleFounder           Role = "founder"
	RoleSoftwareDeveloper Role = "software_developer"
	RoleSoftwareEngineer  Role = "software_engineer"
	RoleDesigner          Role = "designer"
	RoleProductManager    Role = "product_manager"
	RoleMarketer          Role = "marketer"
	RoleGrowth            Role = "growth"
	RoleSales             Role = "sales"
	RoleOperations        Role = "operations"
	RoleJobSeeker         Role = "job_seeker"
	RoleJobProvider       Role = "job_provider"
)

var roles = []Role{
	RoleFounder,
	RoleSoftwareDeveloper,
	RoleSoftwareEngineer,
	RoleDesigner,
	RoleProductManager,
	RoleMarketer,
	RoleGrowth,
	RoleSales,
	RoleOperations,
	RoleJobSeeker,
	RoleJobProvider,
}

// Roles returns every known role in declaration order.
func Roles() []Role {
	out := make([]Role, len(roles))
	copy(out, roles)
	return out
}

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	for _, known := range roles {
		if r == known {
			return true
		}
	}
	return false
}
