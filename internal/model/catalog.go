package model

type Color struct {
	BaseModel
	Name    string `db:"name" json:"name"`
	HexCode string `db:"hex_code" json:"hex_code"`
	Version int    `db:"version" json:"version"`
}

type Collection struct {
	BaseModel
	Name         string  `db:"name" json:"name"`
	Description  *string `db:"description" json:"description"`
	ImageURL     *string `db:"image_url" json:"image_url"`
	Version      int     `db:"version" json:"version"`
	ProductCount int     `db:"product_count" json:"product_count"` // list queries only
}
