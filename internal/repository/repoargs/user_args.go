package repoargs

type CreateUser struct {
	Username string
	Phone    string
	Password string
}
