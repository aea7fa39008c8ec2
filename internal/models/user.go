package models

import "time"

// User - учётная запись. Новые пользователи неактивны до подтверждения email.
type User struct {
	BaseModel
	Username     string     `gorm:"size:150;uniqueIndex;not null" json:"username"`
	Email        string     `gorm:"size:254;uniqueIndex;not null" json:"email"`
	PasswordHash string     `gorm:"not null" json:"-"`
	FirstName    string     `gorm:"size:150" json:"first_name"`
	LastName     string     `gorm:"size:150" json:"last_name"`
	IsActive     bool       `gorm:"not null;default:false" json:"is_active"`
	IsStaff      bool       `gorm:"not null;default:false" json:"is_staff"`
	IsSuperuser  bool       `gorm:"not null;default:false" json:"is_superuser"`
	LastLogin    *time.Time `json:"last_login"`
	DateJoined   time.Time  `gorm:"not null" json:"date_joined"`

	// Увеличивается при выходе: выданные ранее сессии перестают действовать
	SessionVersion uint `gorm:"not null;default:0" json:"-"`

	// Relations
	Projects   []Project   `gorm:"foreignKey:OwnerID;constraint:OnDelete:CASCADE" json:"-"`
	MediaFiles []MediaFile `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

// CanAdminister - доступ к административным операциям.
func (u *User) CanAdminister() bool {
	return u != nil && u.IsActive && (u.IsStaff || u.IsSuperuser)
}
