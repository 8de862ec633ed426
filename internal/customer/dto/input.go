package dto

type SaveCustomerInput struct {
	ID       string  `json:"-"`
	Version  int     `json:"version"`
	FullName string  `json:"full_name" validate:"required,max=200"`
	Email    string  `json:"email" validate:"required,email"`
	Phone    *string `json:"phone" validate:"omitnil,max=30"`
	Address  *string `json:"address"`
	City     *string `json:"city" validate:"omitnil,max=100"`
}
