package model

// Comment is a free-standing comment. Author is plain text — comments are
// not linked to user accounts and carry no authentication gate.
type Comment struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Content string `json:"content"`
	Author  string `json:"author"`
}
