package models

// InstitutionQuery is the search form for colleges. Either CollegeName or
// District must be set together with State.
type InstitutionQuery struct {
	CollegeName   string   `json:"collegeName"`
	State         string   `json:"state"`
	District      string   `json:"district,omitempty"`
	CollegeType   string   `json:"collegeType,omitempty"`
	Accreditation string   `json:"accreditation,omitempty"`
	Courses       []string `json:"courses,omitempty"`
}

type Institution struct {
	ID                    string       `json:"id"`
	Name                  string       `json:"name"`
	State                 string       `json:"state"`
	District              string       `json:"district"`
	UniversityAffiliation string       `json:"universityAffiliation"`
	CollegeType           string       `json:"collegeType"`
	CoursesOffered        []string     `json:"coursesOffered"`
	PrincipalName         string       `json:"principalName"`
	PrincipalContact      string       `json:"principalContact"`
	PrincipalEmail        string       `json:"principalEmail"`
	TPOName               string       `json:"tpoName"`
	TPOContact            string       `json:"tpoContact"`
	TPOEmail              string       `json:"tpoEmail"`
	Website               string       `json:"website"`
	AISHECode             string       `json:"aisheCode"`
	EstablishedYear       string       `json:"establishedYear"`
	Accreditation         string       `json:"accreditation"`
	TotalStudentStrength  string       `json:"totalStudentStrength"`
	FacultyStrength       string       `json:"facultyStrength"`
	Address               string       `json:"address"`
	PinCode               string       `json:"pinCode"`
	Departments           []Department `json:"departments"`
	IsVerified            bool         `json:"isVerified"`
	ConfidenceScore       float64      `json:"confidenceScore"`
	VerificationProof     string       `json:"verificationProof"`
	Sources               []string     `json:"sources"`
}

// Department is a sub-unit of an institution with its own head and courses.
type Department struct {
	Name    string   `json:"name"`
	Head    string   `json:"head"`
	Contact string   `json:"contact"`
	Email   string   `json:"email"`
	Courses []string `json:"courses"`
}
