package entity

// User is a clinic staff account
type User struct {
	Identity
	Username string `gorm:"type:varchar(100);uniqueIndex;not null" json:"username"`
	Password string `gorm:"type:text;not null" json:"password"`
	Name     string `gorm:"type:varchar(255);not null" json:"name"`
	Role     string `gorm:"type:varchar(20);not null;index" json:"role"`
}

func (User) TableName() string {
	return string(CollectionUsers)
}

// RoleNames constants
const (
	RoleAdmin    = "admin"
	RoleDoctor   = "doctor"
	RolePharmacy = "pharmacy"
)

// IsValidRole checks a role name against the known staff roles
func IsValidRole(role string) bool {
	switch role {
	case RoleAdmin, RoleDoctor, RolePharmacy:
		return true
	}
	return false
}
