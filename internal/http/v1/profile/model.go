package profile

// Profile is the merged view of a person and its extended record. Extended
// attributes are omitted when no extended record exists.
type Profile struct {
	ID          string `json:"id"          doc:"Person identifier"                example:"1"`
	Name        string `json:"name"        doc:"Name on the screening record"     example:"Jane Doe"`
	FullName    string `json:"fullName"    doc:"Full name"                        example:"Jane Doe"`
	Identifiers string `json:"identifiers" doc:"Identifiers from the screening"   example:"A123"`
	Type        string `json:"type"        doc:"individual or company"            example:"individual"`
	Country     string `json:"country"     doc:"Country"                          example:"UAE"`
	RiskLevel   string `json:"riskLevel"   doc:"Risk classification"              example:"low"`
	Dataset     string `json:"dataset"     doc:"Source list"                      example:"sanctions"`

	Email                       *string `json:"email,omitempty"`
	Gender                      *string `json:"gender,omitempty"`
	DateOfBirth                 *string `json:"dateOfBirth,omitempty"`
	Nationality                 *string `json:"nationality,omitempty"`
	CountryOfResidence          *string `json:"countryOfResidence,omitempty"`
	OtherNationalities          *bool   `json:"otherNationalities,omitempty"`
	SpecifiedOtherNationalities *string `json:"specifiedOtherNationalities,omitempty"`
	NationalIDNumber            *string `json:"nationalIdNumber,omitempty" doc:"Extended value, or identifiers when empty"`
	NationalIDExpiry            *string `json:"nationalIdExpiry,omitempty"`
	PassportNumber              *string `json:"passportNumber,omitempty"`
	PassportExpiry              *string `json:"passportExpiry,omitempty"`
	Address                     *string `json:"address,omitempty"`
	State                       *string `json:"state,omitempty"`
	City                        *string `json:"city,omitempty"`
	ZipCode                     *string `json:"zipCode,omitempty"`
	ContactNumber               *string `json:"contactNumber,omitempty"`
	DialingCode                 *string `json:"dialingCode,omitempty"`
	WorkType                    *string `json:"workType,omitempty"`
	Industry                    *string `json:"industry,omitempty"`
	ProductTypeOffered          *string `json:"productTypeOffered,omitempty"`
	ProductOffered              *string `json:"productOffered,omitempty"`
	CompanyName                 *string `json:"companyName,omitempty"`
	PositionInCompany           *string `json:"positionInCompany,omitempty"`
	Status                      *string `json:"status,omitempty" doc:"Extended record lifecycle status" example:"approved"`
}

// UpdateResult acknowledges a profile update.
type UpdateResult struct {
	Success bool   `json:"success" doc:"Whether the update was committed" example:"true"`
	Message string `json:"message" doc:"Human readable outcome"          example:"Profile updated successfully"`
}
