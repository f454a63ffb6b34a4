package rate

const (
	loginUserPrefix  = "al:"
	loginIPPrefix    = "ali:"
	registerIPPrefix = "ari:"
)

func loginUserKey(email string) string {
	return loginUserPrefix + email
}

func loginIPKey(ip string) string {
	return loginIPPrefix + ip
}

func registerIPKey(ip string) string {
	return registerIPPrefix + ip
}
