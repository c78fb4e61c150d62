package domain

import "time"

type User struct {
	ID           int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	Username     string    `json:"username" gorm:"size:64;uniqueIndex:idx_users_username;not null"`
	Email        string    `json:"email" gorm:"size:255;uniqueIndex:idx_users_email;not null"`
	PasswordHash string    `json:"-" gorm:"column:password_hash;size:255;not null"`
	ProfilePic   string    `json:"profile_pic,omitempty" gorm:"size:512;not null;default:''"`
	Verified     bool      `json:"verified" gorm:"not null;default:false"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (User) TableName() string { return "users" }

// PublicUser is the subset of the record handlers may return to its owner.
type PublicUser struct {
	UserID     int64  `json:"userId"`
	Username   string `json:"username"`
	Email      string `json:"email"`
	ProfilePic string `json:"profilePic,omitempty"`
	Verified   bool   `json:"verified"`
}

func (u *User) Public() PublicUser {
	return PublicUser{
		UserID:     u.ID,
		Username:   u.Username,
		Email:      u.Email,
		ProfilePic: u.ProfilePic,
		Verified:   u.Verified,
	}
}
