package university

import "time"

type University struct {
	ID          int64  `gorm:"primaryKey"`
	Name        string `gorm:"column:name;uniqueIndex;not null"`
	Type        string `gorm:"column:type;not null"`
	City        string `gorm:"column:city;not null"`
	State       string `gorm:"column:state;not null"`
	Country     string `gorm:"column:country;not null;default:'United States'"`
	ZipCode     string `gorm:"column:zip_code"`
	Address     string `gorm:"column:address"`
	Phone       string `gorm:"column:phone"`
	Email       string `gorm:"column:email"`
	Website     string `gorm:"column:website"`
	Undergrad   int64  `gorm:"column:undergraduate_enrollment;default:0"`
	Graduate    int64  `gorm:"column:graduate_enrollment;default:0"`
	Total       int64  `gorm:"column:total_enrollment;default:0"`
	Founded     *int   `gorm:"column:founded"`
	Status      string `gorm:"column:status;not null;default:active"`
	Description string `gorm:"column:description"`
	Tags        string `gorm:"column:tags"`

	CreatedBy *int64    `gorm:"column:created_by"`
	UpdatedBy *int64    `gorm:"column:updated_by"`
	CreatedAt time.Time `gorm:"column:created_at;default:now()"`
	UpdatedAt time.Time `gorm:"column:updated_at;default:now()"`
}

func (University) TableName() string {
	return "universities"
}
