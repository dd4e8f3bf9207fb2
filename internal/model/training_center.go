package model

// TrainingCenter represents a registered training center.
// ID and CreatedOn are owned by the server; client-supplied values are discarded.
type TrainingCenter struct {
	ID              int64    `json:"id"`
	CenterName      string   `json:"centerName" validate:"notblank,max=40"`
	CenterCode      string   `json:"centerCode" validate:"notblank,len=12,alphanum"`
	Address         *Address `json:"address" validate:"required"`
	StudentCapacity *int     `json:"studentCapacity,omitempty" validate:"omitempty,min=0"`
	CoursesOffered  []string `json:"coursesOffered" validate:"omitempty,dive,notblank"`
	CreatedOn       int64    `json:"createdOn"`
	ContactEmail    string   `json:"contactEmail,omitempty" validate:"omitempty,email"`
	ContactPhone    string   `json:"contactPhone" validate:"notblank,phone_in"`
}

// Address is the postal address of a training center
type Address struct {
	DetailedAddress string `json:"detailedAddress" validate:"notblank"`
	City            string `json:"city" validate:"notblank"`
	State           string `json:"state" validate:"notblank"`
	Pincode         string `json:"pincode" validate:"notblank,numeric,len=6"`
}

// UniqueField describes a column with a uniqueness constraint on training_centers
type UniqueField struct {
	JSONName   string
	ColumnName string
	Message    string
}

// TrainingCenterUniqueFields lists the unique columns in attribution order.
// The first entry whose column name appears in a conflict message wins.
var TrainingCenterUniqueFields = []UniqueField{
	{JSONName: "centerName", ColumnName: "center_name", Message: "Center Name already exists."},
	{JSONName: "centerCode", ColumnName: "center_code", Message: "Center Code must be unique."},
	{JSONName: "contactEmail", ColumnName: "contact_email", Message: "This email is already registered."},
	{JSONName: "contactPhone", ColumnName: "contact_phone", Message: "This phone number is already in use."},
}
