package user

// RoleCustomer is the rol_id assigned to self-registered accounts.
const RoleCustomer = 2

type SignupParams struct {
	Name     string
	Email    string
	Password string
}
