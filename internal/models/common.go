package models

// Pagination describes standard pagination metadata.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
}

// User identifies the acting administrator. The engine receives the actor
// explicitly on every mutating call; it never reads ambient session state.
type User struct {
	ID       string `db:"id" json:"id"`
	Username string `db:"username" json:"username"`
	FullName string `db:"full_name" json:"full_name"`
}
