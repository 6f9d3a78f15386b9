package models

import "gorm.io/gorm"

// Pincode is a postal code the store delivers to.
type Pincode struct {
	ID         string `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Pincode    string `json:"pincode" gorm:"uniqueIndex;type:varchar(10)" validate:"required,min=4,max=10"`
	gorm.Model `json:"-"`
}
