package profile

// ProfileGetOutput for GET /profile/{id}
type ProfileGetOutput struct {
	Body Profile
}

// ProfileUpdateOutput for POST /updateProfile/{id}
type ProfileUpdateOutput struct {
	Body UpdateResult
}
