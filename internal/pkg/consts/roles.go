package consts

const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)
