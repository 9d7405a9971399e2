package profile

import (
	"context"
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"go.uber.org/zap"

	"github.com/janisto/kyc-compliance/internal/platform/auth"
	applog "github.com/janisto/kyc-compliance/internal/platform/logging"
	"github.com/janisto/kyc-compliance/internal/platform/respond"
	profilesvc "github.com/janisto/kyc-compliance/internal/service/profile"
)

// Response messages expected by the compliance dashboard.
const (
	msgNotFound      = "Profile not found"
	msgServerError   = "Server error"
	msgUpdated       = "Profile updated successfully"
	msgUpdateFailure = "Server error updating profile"
)

// Register registers profile endpoints.
func Register(api huma.API, svc profilesvc.Service) {
	huma.Register(api, huma.Operation{
		OperationID: "get-profile",
		Method:      http.MethodGet,
		Path:        "/profile/{id}",
		Summary:     "Get merged profile",
		Description: "Returns the person record merged with its extended individual record, if one exists.",
		Tags:        []string{"Profile"},
		Security: []map[string][]string{
			{"bearerAuth": {}},
		},
		Errors: []int{http.StatusNotFound},
	}, func(ctx context.Context, input *ProfileGetInput) (*ProfileGetOutput, error) {
		ctx = profilesvc.WithActor(ctx, auth.EditorFromContext(ctx))
		ctx = applog.WithFields(ctx, zap.String("profileId", input.ID))

		merged, err := svc.Get(ctx, input.ID)
		if err != nil {
			if errors.Is(err, profilesvc.ErrNotFound) {
				return nil, respond.NewMessage(http.StatusNotFound, msgNotFound)
			}
			return nil, respond.NewMessage(http.StatusInternalServerError, msgServerError)
		}
		return &ProfileGetOutput{Body: toHTTPProfile(merged)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "update-profile",
		Method:      http.MethodPost,
		Path:        "/updateProfile/{id}",
		Summary:     "Update profile",
		Description: "Atomically updates the person record, appends an edit history row, " +
			"and updates or creates the extended individual record keyed by originalName.",
		Tags: []string{"Profile"},
		Security: []map[string][]string{
			{"bearerAuth": {}},
		},
	}, func(ctx context.Context, input *ProfileUpdateInput) (*ProfileUpdateOutput, error) {
		ctx = applog.WithFields(ctx, zap.String("profileId", input.ID))

		_, err := svc.Update(ctx, input.ID, profilesvc.UpdateParams{
			OriginalName: input.Body.OriginalName,
			EditedBy:     auth.EditorFromContext(ctx),
			Fields:       toServiceFields(input.Body.ProfileFields),
		})
		if err != nil {
			return nil, respond.NewResult(http.StatusInternalServerError, false, msgUpdateFailure)
		}
		return &ProfileUpdateOutput{
			Body: UpdateResult{Success: true, Message: msgUpdated},
		}, nil
	})
}

func toServiceFields(f ProfileFields) profilesvc.Fields {
	return profilesvc.Fields{
		FullName:                    f.FullName,
		Email:                       f.Email,
		Gender:                      f.Gender,
		DateOfBirth:                 f.DateOfBirth,
		Nationality:                 f.Nationality,
		CountryOfResidence:          f.CountryOfResidence,
		OtherNationalities:          f.OtherNationalities,
		SpecifiedOtherNationalities: f.SpecifiedOtherNationalities,
		NationalIDNumber:            f.NationalIDNumber,
		NationalIDExpiry:            f.NationalIDExpiry,
		PassportNumber:              f.PassportNumber,
		PassportExpiry:              f.PassportExpiry,
		Address:                     f.Address,
		State:                       f.State,
		City:                        f.City,
		ZipCode:                     f.ZipCode,
		ContactNumber:               f.ContactNumber,
		DialingCode:                 f.DialingCode,
		WorkType:                    f.WorkType,
		Industry:                    f.Industry,
		ProductTypeOffered:          f.ProductTypeOffered,
		ProductOffered:              f.ProductOffered,
		CompanyName:                 f.CompanyName,
		PositionInCompany:           f.PositionInCompany,
	}
}

func toHTTPProfile(m *profilesvc.MergedProfile) Profile {
	p := Profile{
		ID:          m.ID,
		Name:        m.Name,
		FullName:    m.FullName,
		Identifiers: m.Identifiers,
		Type:        m.Type,
		Country:     m.Country,
		RiskLevel:   m.RiskLevel,
		Dataset:     m.Dataset,
	}
	ext := m.Extended
	if ext == nil {
		return p
	}

	p.Email = &ext.Email
	p.Gender = &ext.Gender
	p.DateOfBirth = &ext.DateOfBirth
	p.Nationality = &ext.Nationality
	p.CountryOfResidence = &ext.CountryOfResidence
	p.OtherNationalities = &ext.OtherNationalities
	p.SpecifiedOtherNationalities = &ext.SpecifiedOtherNationalities
	p.NationalIDNumber = &ext.NationalIDNumber
	p.NationalIDExpiry = &ext.NationalIDExpiry
	p.PassportNumber = &ext.PassportNumber
	p.PassportExpiry = &ext.PassportExpiry
	p.Address = &ext.Address
	p.State = &ext.State
	p.City = &ext.City
	p.ZipCode = &ext.ZipCode
	p.ContactNumber = &ext.ContactNumber
	p.DialingCode = &ext.DialingCode
	p.WorkType = &ext.WorkType
	p.Industry = &ext.Industry
	p.ProductTypeOffered = &ext.ProductTypeOffered
	p.ProductOffered = &ext.ProductOffered
	p.CompanyName = &ext.CompanyName
	p.PositionInCompany = &ext.PositionInCompany
	p.Status = &ext.Status
	return p
}
