package models

// Project - именованная коллекция медиафайлов. Имя уникально в пределах владельца.
type Project struct {
	BaseModel
	OwnerID     uint   `gorm:"not null;uniqueIndex:idx_projects_owner_name" json:"owner_id"`
	Name        string `gorm:"size:200;not null;uniqueIndex:idx_projects_owner_name" json:"name"`
	Description string `gorm:"type:text" json:"description"`

	// Relations
	Owner      *User       `gorm:"foreignKey:OwnerID" json:"-"`
	MediaFiles []MediaFile `gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE" json:"-"`
}

// ProjectWithCount - проект вместе с количеством медиафайлов в нём.
type ProjectWithCount struct {
	BaseModel
	OwnerID     uint   `json:"owner_id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	MediaCount  int64  `json:"media_count"`
}
