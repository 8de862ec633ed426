package dto

type UpdateStatusInput struct {
	ID      string `json:"-"`
	Version int    `json:"version"`
	Status  string `json:"status"`
}
