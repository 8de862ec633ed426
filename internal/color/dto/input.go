package dto

type SaveColorInput struct {
	ID      string `json:"-"`
	Version int    `json:"version"`
	Name    string `json:"name" validate:"required,max=100"`
	HexCode string `json:"hex_code" validate:"required,hexcolor,len=7"` // #RRGGBB only
}
