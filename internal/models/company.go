package models

import (
	"net/url"
	"strings"
)

type CompanyQuery struct {
	CompanyName string `json:"companyName"`
	City        string `json:"city,omitempty"`
	State       string `json:"state"`
}

// CompanyLead is an HR contact at one branch of a company.
type CompanyLead struct {
	ID                string  `json:"id"`
	Name              string  `json:"name"`
	Industry          string  `json:"industry"`
	City              string  `json:"city"`
	State             string  `json:"state"`
	Location          string  `json:"location"`
	HRName            string  `json:"hrName"`
	HRRole            string  `json:"hrRole"`
	HRContact         string  `json:"hrContact"`
	HREmail           string  `json:"hrEmail"`
	HRLinkedIn        string  `json:"hrLinkedIn"`
	EmailVerified     bool    `json:"emailVerified"`
	PhoneVerified     bool    `json:"phoneVerified"`
	LinkedInVerified  bool    `json:"linkedInVerified"`
	VerificationProof string  `json:"verificationProof"`
	ConfidenceScore   float64 `json:"confidenceScore"`
	IsVerified        bool    `json:"isVerified"`
}

// LinkedInURL returns the profile link when it points at a person, or a
// people search for the contact otherwise.
func (c CompanyLead) LinkedInURL() string {
	if strings.Contains(strings.ToLower(c.HRLinkedIn), "linkedin.com/in/") {
		return c.HRLinkedIn
	}
	q := url.QueryEscape(c.HRName + " HR " + c.Name + " " + c.City)
	return "https://www.linkedin.com/search/results/all/?keywords=" + q
}
