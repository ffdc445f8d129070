package models

type EventStatus string

const (
	EventUpcoming EventStatus = "Upcoming"
	EventOngoing  EventStatus = "Ongoing"
	EventPast     EventStatus = "Past"
)

type EventQuery struct {
	State    string `json:"state"`
	District string `json:"district"`
	Year     string `json:"year"`
}

type CampusEvent struct {
	ID                 string      `json:"id"`
	EventName          string      `json:"eventName"`
	CollegeName        string      `json:"collegeName"`
	Type               string      `json:"type"`
	Date               string      `json:"date"`
	Venue              string      `json:"venue"`
	Description        string      `json:"description"`
	Status             EventStatus `json:"status"`
	CoordinatorName    string      `json:"coordinatorName"`
	CoordinatorContact string      `json:"coordinatorContact"`
	CoordinatorEmail   string      `json:"coordinatorEmail"`
	ConfidenceScore    float64     `json:"confidenceScore"`
	IsVerified         bool        `json:"isVerified"`
	VerificationProof  string      `json:"verificationProof"`
}
