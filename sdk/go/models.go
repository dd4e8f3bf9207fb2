package traini8

// TrainingCenter mirrors the server's training center representation.
// ID and CreatedOn are always assigned by the server.
type TrainingCenter struct {
	ID              int64    `json:"id,omitempty"`
	CenterName      string   `json:"centerName"`
	CenterCode      string   `json:"centerCode"`
	Address         *Address `json:"address,omitempty"`
	StudentCapacity *int     `json:"studentCapacity,omitempty"`
	CoursesOffered  []string `json:"coursesOffered,omitempty"`
	CreatedOn       int64    `json:"createdOn,omitempty"`
	ContactEmail    string   `json:"contactEmail,omitempty"`
	ContactPhone    string   `json:"contactPhone"`
}

// Address is the postal address of a training center.
type Address struct {
	DetailedAddress string `json:"detailedAddress"`
	City            string `json:"city"`
	State           string `json:"state"`
	Pincode         string `json:"pincode"`
}
