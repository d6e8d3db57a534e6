package model

type Supplier struct {
	BaseModel
	Name     string `gorm:"type:varchar(120);uniqueIndex;not null" json:"name"`
	Document string `gorm:"type:varchar(30)" json:"document"`
	Phone    string `gorm:"type:varchar(30)" json:"phone"`
	Email    string `gorm:"type:varchar(120)" json:"email"`
}
