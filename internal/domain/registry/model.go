package registry

import (
	"time"

	"github.com/google/uuid"
)

// Department is an OPD department such as Cardiology or Orthopedics.
type Department struct {
	ID          uuid.UUID `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	Description *string   `db:"description" json:"description,omitempty"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// Doctor maps to the doctors table. DepartmentName is populated by a join
// and is the value shown in queue and invoice views.
type Doctor struct {
	ID              uuid.UUID `db:"id" json:"id"`
	Name            string    `db:"name" json:"name"`
	DepartmentID    uuid.UUID `db:"department_id" json:"department_id"`
	DepartmentName  string    `db:"department_name" json:"department"`
	Qualification   string    `db:"qualification" json:"qualification,omitempty"`
	ConsultationFee float64   `db:"consultation_fee" json:"consultation_fee"`
	Phone           string    `db:"phone" json:"phone,omitempty"`
	Available       bool      `db:"available" json:"available"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time `db:"updated_at" json:"updated_at"`
}

// Patient maps to the patients table.
type Patient struct {
	ID            uuid.UUID `db:"id" json:"id"`
	Name          string    `db:"name" json:"name"`
	Age           *int      `db:"age" json:"age,omitempty"`
	Gender        string    `db:"gender" json:"gender,omitempty"`
	ContactNumber string    `db:"contact_number" json:"contact_number"`
	Address       string    `db:"address" json:"address,omitempty"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time `db:"updated_at" json:"updated_at"`
}

// Staff maps to the staff table (non-doctor personnel).
type Staff struct {
	ID            uuid.UUID `db:"id" json:"id"`
	Name          string    `db:"name" json:"name"`
	Role          string    `db:"role" json:"role"`
	ContactNumber string    `db:"contact_number" json:"contact_number,omitempty"`
	Email         string    `db:"email" json:"email,omitempty"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
}
