package domain

type Group struct {
	ID      string
	Name    string
	UserIDs []string
}
