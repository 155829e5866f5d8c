package api

// StudentPayload представляет ученика в API
type StudentPayload struct {
	Name        string `json:"name"`
	Email       string `json:"email,omitempty"`
	ClassName   string `json:"className,omitempty"`
	AdmissionNo string `json:"admissionNo,omitempty"`
	Status      string `json:"status,omitempty"` // pending | admitted
	PhotoPath   string `json:"photoPath,omitempty"`
	ID          int64  `json:"id"`
}

// CreateStudentRequest представляет запрос на создание ученика
// (заявка на зачисление)
type CreateStudentRequest struct {
	Name        string `json:"name"`
	Email       string `json:"email,omitempty"`
	ClassName   string `json:"className,omitempty"`
	AdmissionNo string `json:"admissionNo,omitempty"`
}

// StudentResponse представляет ответ с одним учеником
type StudentResponse struct {
	Message string          `json:"message,omitempty"`
	Data    *StudentPayload `json:"data,omitempty"`
	Success bool            `json:"success"`
}

// StudentListResponse представляет ответ со списком учеников
type StudentListResponse struct {
	Message string           `json:"message,omitempty"`
	Data    []StudentPayload `json:"data"`
	Success bool             `json:"success"`
}

// TeacherPayload представляет преподавателя в API
type TeacherPayload struct {
	Name    string `json:"name"`
	Email   string `json:"email,omitempty"`
	Subject string `json:"subject,omitempty"`
	ID      int64  `json:"id"`
}

// TeacherListResponse представляет ответ со списком преподавателей
type TeacherListResponse struct {
	Message string           `json:"message,omitempty"`
	Data    []TeacherPayload `json:"data"`
	Success bool             `json:"success"`
}
