package models

import "time"

// Student statuses
const (
	StudentStatusPending  = "pending"  // заявка подана, ждет решения
	StudentStatusAdmitted = "admitted" // зачислен
)

// Student представляет ученика (запись в списках класса)
type Student struct {
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	ClassName   string    `json:"className"`   // класс, например "7A"
	AdmissionNo string    `json:"admissionNo"` // номер личного дела
	Status      string    `json:"status"`      // pending | admitted
	PhotoPath   string    `json:"photoPath"`   // путь к загруженной фотографии
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
	ID          int64     `json:"id"`
}

// Teacher представляет преподавателя
type Teacher struct {
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Subject   string    `json:"subject"` // предмет
	CreatedAt time.Time `json:"createdAt"`
	ID        int64     `json:"id"`
}
