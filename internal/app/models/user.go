package models

import (
	"time"
)

// Person defines the person model based on the 'people' table.
// Students, guardians and teachers are all people; only some have a user.
type Person struct {
	ID           int64      `json:"id" db:"id"`
	FirstName    string     `json:"firstName" db:"first_name"`
	LastName     string     `json:"lastName" db:"last_name"`
	IDTypeID     *int64     `json:"idTypeId,omitempty" db:"id_type_id"`
	IDNumber     string     `json:"idNumber" db:"id_number"`
	BirthDate    *time.Time `json:"birthDate,omitempty" db:"birth_date"`
	Gender       *string    `json:"gender,omitempty" db:"gender"`
	Phone        *string    `json:"phone,omitempty" db:"phone"`
	Email        *string    `json:"email,omitempty" db:"email"`
	PhotoURL     *string    `json:"photoUrl,omitempty" db:"photo_url"`
	SignatureURL *string    `json:"signatureUrl,omitempty" db:"signature_url"`
	CreatedAt    time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt    *time.Time `json:"updatedAt,omitempty" db:"updated_at"`
	DeletedAt    *time.Time `json:"-" db:"deleted_at"`
}

// FullName returns "last first", the ordering used on official listings
func (p Person) FullName() string {
	return p.LastName + " " + p.FirstName
}

// IDType defines the identity document type catalog
type IDType struct {
	ID        int64      `json:"id" db:"id"`
	Name      string     `json:"name" db:"name"`
	CreatedAt time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty" db:"updated_at"`
	DeletedAt *time.Time `json:"-" db:"deleted_at"`
}

// User defines the user model based on the 'users' table
type User struct {
	ID        int64      `json:"id" db:"id"`
	PersonID  *int64     `json:"personId,omitempty" db:"person_id"`
	Username  string     `json:"username" db:"username"`
	Password  string     `json:"-" db:"password_hash"`
	IsTeacher bool       `json:"isTeacher" db:"is_teacher"`
	CreatedAt time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty" db:"updated_at"`
	DeletedAt *time.Time `json:"-" db:"deleted_at"`

	Person *Person `json:"person,omitempty"`
}

// PasswordReset is a one-time recovery code emailed to a user
type PasswordReset struct {
	ID        int64     `json:"id" db:"id"`
	UserID    int64     `json:"userId" db:"user_id"`
	Code      string    `json:"-" db:"code"`
	ExpiresAt time.Time `json:"expiresAt" db:"expires_at"`
	Used      bool      `json:"used" db:"used"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}
