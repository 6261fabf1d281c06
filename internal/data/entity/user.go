package entity

type User struct {
	BaseSimple
	Username     string `db:"username"`
	PasswordHash string `db:"password"`
}
