package dto

// UpdateProfileRequest carries editable profile fields.
type UpdateProfileRequest struct {
	FullName string `json:"fullName"`
	Location string `json:"location"`
	Bio      string `json:"bio"`
}

// ProfileResponse renders an account profile. Nil-able columns come back
// as empty strings so the frontend never sees null.
type ProfileResponse struct {
	Username   string `json:"username"`
	Email      string `json:"email"`
	Role       string `json:"role"`
	FullName   string `json:"fullName"`
	Location   string `json:"location"`
	Bio        string `json:"bio"`
	ResumePath string `json:"resumePath"`
}
