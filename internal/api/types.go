// Package api provides the client and wire types for the shelter, hospital and symptom REST
// API consumed by shimteo.
package api

// Question is one self-assessment question (GET /symptom/questions).
type Question struct {
	ID          int64  `json:"id"`
	Text        string `json:"questionText"`
	Code        string `json:"questionCode"`
	SymptomCode string `json:"symptomCode"`
	SortOrder   int    `json:"sortOrder"`
	Active      bool   `json:"active"`
}

// AnswerValue is the literal yes/no sent to the diagnosis endpoint.
type AnswerValue string

const (
	AnswerYes AnswerValue = "yes"
	AnswerNo  AnswerValue = "no"
)

// AnswerFromBool maps true → "yes", false → "no".
func AnswerFromBool(b bool) AnswerValue {
	if b {
		return AnswerYes
	}
	return AnswerNo
}

// SubmissionAnswer is one answered question keyed by catalog id.
type SubmissionAnswer struct {
	ID     int64       `json:"id"`
	Answer AnswerValue `json:"answer"`
}

// Submission is the POST /symptom/diagnosis body.
type Submission struct {
	Answers  []SubmissionAnswer `json:"answers"`
	Language string             `json:"language"`
}

// Severity grades a diagnosis. Unknown values from the server are kept verbatim.
type Severity string

const (
	SeverityLow       Severity = "low"
	SeverityMedium    Severity = "medium"
	SeverityHigh      Severity = "high"
	SeverityEmergency Severity = "emergency"
)

// DiagnosisResult is returned by the diagnosis endpoint.
type DiagnosisResult struct {
	AssessmentID int64    `json:"assessmentId"`
	Suspected    bool     `json:"suspected"`
	Headline     string   `json:"headline"`
	Description  string   `json:"description"`
	Severity     Severity `json:"severity"`
}

// GuideEntry describes one illness with its symptoms and advice.
type GuideEntry struct {
	Disease    string   `json:"disease"`
	Definition string   `json:"definition"`
	Symptoms   []string `json:"symptoms"`
	Advice     []string `json:"advice"`
}

// AIResult is the AI explanation attached to an assessment.
type AIResult struct {
	Summary string `json:"summary"`
	Detail  string `json:"detail"`
}

// Page is the paged envelope used by the search endpoints.
type Page[T any] struct {
	Content          []T  `json:"content"`
	TotalElements    int  `json:"totalElements"`
	TotalPages       int  `json:"totalPages"`
	Number           int  `json:"number"`
	Size             int  `json:"size"`
	NumberOfElements int  `json:"numberOfElements"`
	First            bool `json:"first"`
	Last             bool `json:"last"`
	Empty            bool `json:"empty"`
}

// ShelterSearchItem is a shelter in search results and bounds groups.
type ShelterSearchItem struct {
	ID           int64   `json:"id"`
	Name         string  `json:"name"`
	ShortAddress string  `json:"shortAddress"`
	AddrRoad     string  `json:"addrRoad"`
	Lat          float64 `json:"lat"`
	Lon          float64 `json:"lon"`
	FacilityType string  `json:"facilityType,omitempty"`
}

// ShelterDetail is returned by GET /shelters/{id}.
type ShelterDetail struct {
	ID             int64   `json:"id"`
	Name           string  `json:"name"`
	Address        string  `json:"address"`
	DetailAddress  string  `json:"detailAddress,omitempty"`
	Phone          string  `json:"phone,omitempty"`
	OperatingHours string  `json:"operatingHours,omitempty"`
	Lat            float64 `json:"lat"`
	Lon            float64 `json:"lon"`
	FacilityType   string  `json:"facilityType,omitempty"`
	Capacity       int     `json:"capacity,omitempty"`
	SeasonType     string  `json:"seasonType,omitempty"`
}

// ShelterGroup is a set of shelters sharing one coordinate.
type ShelterGroup struct {
	Lat      float64             `json:"lat"`
	Lon      float64             `json:"lon"`
	Address  string              `json:"address"`
	Shelters []ShelterSearchItem `json:"shelters"`
}

// Hospital is a hospital inside a nearby group.
type Hospital struct {
	ID               int64   `json:"id"`
	Name             string  `json:"name"`
	AddrRoad         string  `json:"addrRoad"`
	AddrJibun        string  `json:"addrJibun"`
	Lat              float64 `json:"lat"`
	Lon              float64 `json:"lon"`
	HasEmergencyRoom bool    `json:"hasEmergencyRoom"`
	DistanceM        float64 `json:"distanceM"`
}

// HospitalGroup is a set of hospitals sharing one coordinate.
type HospitalGroup struct {
	Lat       float64    `json:"lat"`
	Lon       float64    `json:"lon"`
	AddrRoad  string     `json:"addrRoad"`
	AddrJibun string     `json:"addrJibun"`
	Hospitals []Hospital `json:"hospitals"`
}

// HospitalSearchItem is a hospital search result.
type HospitalSearchItem struct {
	ID               int64   `json:"id"`
	Name             string  `json:"name"`
	ShortAddress     string  `json:"shortAddress"`
	Lat              float64 `json:"lat"`
	Lon              float64 `json:"lon"`
	HasEmergencyRoom bool    `json:"hasEmergencyRoom"`
	DistanceM        float64 `json:"distanceM"`
}

// Bounds is a lat/lon rectangle.
type Bounds struct {
	MinLat float64
	MaxLat float64
	MinLon float64
	MaxLon float64
}

// ShelterTypeGeneral restricts shelter queries to facilities open to everyone.
const ShelterTypeGeneral = "GENERAL"

// ShelterQuery parameterizes GET /shelters/search.
type ShelterQuery struct {
	Keyword string
	Season  string
	Type    string // optional
	Page    int
	Size    int
}
