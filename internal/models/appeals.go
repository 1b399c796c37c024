package models

import (
	"time"
)

type DocumentKind string

const (
	KindEOB            DocumentKind = "eob"
	KindMedicalRecords DocumentKind = "medical_records"
	KindDenialLetter   DocumentKind = "denial_letter"
)

// DocumentKinds lists the uploads an appeal needs, in prompt order.
var DocumentKinds = []DocumentKind{KindEOB, KindMedicalRecords, KindDenialLetter}

func (k DocumentKind) Valid() bool {
	switch k {
	case KindEOB, KindMedicalRecords, KindDenialLetter:
		return true
	}
	return false
}

func (k DocumentKind) Label() string {
	switch k {
	case KindEOB:
		return "Explanation of Benefits (EOB)"
	case KindMedicalRecords:
		return "Medical Records"
	case KindDenialLetter:
		return "Denial Letter"
	}
	return string(k)
}

type UploadedDocument struct {
	Kind     DocumentKind
	Filename string
	Data     []byte
}

type PatientInfo struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
}

type Appeal struct {
	ID          string    `json:"id" db:"id"`
	PatientName string    `json:"patient_name" db:"patient_name"`
	Model       string    `json:"model" db:"model"`
	Letter      string    `json:"letter" db:"letter"`
	LatencyMS   int64     `json:"latency_ms" db:"latency_ms"`
	EOBKey      *string   `json:"eob_key,omitempty" db:"eob_key"`
	MedicalKey  *string   `json:"medical_key,omitempty" db:"medical_key"`
	DenialKey   *string   `json:"denial_key,omitempty" db:"denial_key"`
	LetterKey   *string   `json:"letter_key,omitempty" db:"letter_key"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

// GenerateRequest carries everything one generation needs. The API key lives
// only as long as the request.
type GenerateRequest struct {
	APIKey    string
	Documents map[DocumentKind]*UploadedDocument
}

type ExtractionResponse struct {
	Kind     DocumentKind `json:"kind"`
	Filename string       `json:"filename"`
	Text     string       `json:"text"`
	Patient  *PatientInfo `json:"patient,omitempty"`
}

type AppealResponse struct {
	ID        string                  `json:"id"`
	Model     string                  `json:"model"`
	Patient   PatientInfo             `json:"patient"`
	Previews  map[DocumentKind]string `json:"previews"`
	Letter    string                  `json:"letter"`
	CreatedAt time.Time               `json:"created_at"`
	Message   string                  `json:"message"`
}

// UsageRecord is posted to the router's log endpoint after each generation.
type UsageRecord struct {
	Query   string  `json:"query"`
	Model   string  `json:"model"`
	Latency float64 `json:"latency"`
	Cost    string  `json:"cost"`
}
