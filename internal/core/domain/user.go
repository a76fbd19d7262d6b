package domain

// Role is carried in the identity token issued by the authentication service.
type Role string

const (
	RoleCustomer Role = "customer"
	RoleAdmin    Role = "admin"
)
