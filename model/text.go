package model

type Text struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	From      string `json:"from"`
	To        string `json:"to"`
	Content   string `json:"content"`
	CreatedAt string `json:"created_at"`
}
