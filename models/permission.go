package models

// Permission is a capability checked before serving a protected operation.
type Permission string

const (
	PermViewAnalytics   Permission = "view_analytics"
	PermViewCustomers   Permission = "view_customers"
	PermManageCustomers Permission = "manage_customers"
	PermViewCampaigns   Permission = "view_campaigns"
	PermManageCampaigns Permission = "manage_campaigns"
	PermViewLeads       Permission = "view_leads"
	PermManageLeads     Permission = "manage_leads"
	PermAdministerData  Permission = "administer_data"
)

var rolePermissions = map[Role]map[Permission]bool{
	RoleAdmin: {
		PermViewAnalytics:   true,
		PermViewCustomers:   true,
		PermManageCustomers: true,
		PermViewCampaigns:   true,
		PermManageCampaigns: true,
		PermViewLeads:       true,
		PermManageLeads:     true,
		PermAdministerData:  true,
	},
	RoleMarketing: {
		PermViewAnalytics:   true,
		PermViewCustomers:   true,
		PermManageCustomers: true,
		PermViewCampaigns:   true,
		PermManageCampaigns: true,
		PermViewLeads:       true,
		PermManageLeads:     true,
	},
	RoleViewer: {
		PermViewAnalytics: true,
		PermViewCustomers: true,
		PermViewCampaigns: true,
		PermViewLeads:     true,
	},
}

// Can is the single capability check. Unknown roles and permissions are denied.
func Can(role Role, perm Permission) bool {
	return rolePermissions[role][perm]
}

// ValidRole reports whether r is one of the known roles.
func ValidRole(r Role) bool {
	_, ok := rolePermissions[r]
	return ok
}
