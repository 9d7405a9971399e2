package profile

// ProfileGetInput for GET /profile/{id}
type ProfileGetInput struct {
	ID string `path:"id" doc:"Person identifier" example:"1"`
}

// ProfileFields are the editable attributes. No format validation is applied;
// values are stored as submitted.
type ProfileFields struct {
	FullName                    string `json:"fullName,omitempty"                    doc:"Full name"                       example:"Jane Doe"`
	Email                       string `json:"email,omitempty"                       doc:"Email address"                   example:"jane@x.com"`
	Gender                      string `json:"gender,omitempty"                      doc:"Gender"`
	DateOfBirth                 string `json:"dateOfBirth,omitempty"                 doc:"Date of birth"                   example:"1990-04-01"`
	Nationality                 string `json:"nationality,omitempty"                 doc:"Nationality"`
	CountryOfResidence          string `json:"countryOfResidence,omitempty"          doc:"Country of residence"            example:"UAE"`
	OtherNationalities          bool   `json:"otherNationalities,omitempty"          doc:"Holds other nationalities"`
	SpecifiedOtherNationalities string `json:"specifiedOtherNationalities,omitempty" doc:"Other nationalities held"`
	NationalIDNumber            string `json:"nationalIdNumber,omitempty"            doc:"National ID number"              example:"A123"`
	NationalIDExpiry            string `json:"nationalIdExpiry,omitempty"            doc:"National ID expiry"`
	PassportNumber              string `json:"passportNumber,omitempty"              doc:"Passport number"`
	PassportExpiry              string `json:"passportExpiry,omitempty"              doc:"Passport expiry"`
	Address                     string `json:"address,omitempty"                     doc:"Street address"`
	State                       string `json:"state,omitempty"                       doc:"State or region"`
	City                        string `json:"city,omitempty"                        doc:"City"`
	ZipCode                     string `json:"zipCode,omitempty"                     doc:"Postal code"`
	ContactNumber               string `json:"contactNumber,omitempty"               doc:"Contact number"`
	DialingCode                 string `json:"dialingCode,omitempty"                 doc:"International dialing code"      example:"+971"`
	WorkType                    string `json:"workType,omitempty"                    doc:"Employment type"`
	Industry                    string `json:"industry,omitempty"                    doc:"Industry"`
	ProductTypeOffered          string `json:"productTypeOffered,omitempty"          doc:"Type of product offered"`
	ProductOffered              string `json:"productOffered,omitempty"              doc:"Product offered"`
	CompanyName                 string `json:"companyName,omitempty"                 doc:"Employer or company"`
	PositionInCompany           string `json:"positionInCompany,omitempty"           doc:"Position held"`
}

// ProfileUpdateInput for POST /updateProfile/{id}
type ProfileUpdateInput struct {
	ID   string `path:"id" doc:"Person identifier" example:"1"`
	Body struct {
		_ struct{} `json:"-" additionalProperties:"true"`

		OriginalName string `json:"originalName,omitempty" doc:"Name before this edit; the extended record is keyed by it" example:"Jane Doe"`
		ProfileFields
	}
}
