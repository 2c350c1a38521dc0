package models

type SignupRequest struct {
	Username string `form:"username" json:"username" validate:"required,min=3,max=80,alphanum"`
	Email    string `form:"email" json:"email" validate:"required,email,max=120"`
	Password string `form:"password" json:"password" validate:"required,min=8,max=72"`
	Confirm  string `form:"confirm_password" json:"confirm_password" validate:"required,eqfield=Password"`
}

type LoginRequest struct {
	Username string `form:"username" json:"username" validate:"required"`
	Password string `form:"password" json:"password" validate:"required"`
	Remember bool   `form:"remember" json:"remember"`
}

type ProfileUpdateRequest struct {
	Username string `form:"username" json:"username" validate:"required,min=3,max=80,alphanum"`
	Email    string `form:"email" json:"email" validate:"required,email,max=120"`
}

type PasswordChangeRequest struct {
	CurrentPassword string `form:"current_password" json:"current_password" validate:"required"`
	NewPassword     string `form:"new_password" json:"new_password" validate:"required,min=8,max=72"`
	Confirm         string `form:"confirm_password" json:"confirm_password" validate:"required,eqfield=NewPassword"`
}

type CategoryRequest struct {
	Name string `form:"name" json:"name" validate:"required,max=50"`
	Slug string `form:"slug" json:"slug" validate:"required,max=50"`
	Icon string `form:"icon" json:"icon" validate:"max=50"`
}

type ProjectRequest struct {
	Title        string `form:"title" json:"title" validate:"required,max=200"`
	Description  string `form:"description" json:"description" validate:"required"`
	URL          string `form:"url" json:"url" validate:"required,url,max=300"`
	GithubURL    string `form:"github_url" json:"github_url" validate:"omitempty,url,max=300"`
	Technologies string `form:"technologies" json:"technologies" validate:"max=300"`
	Image        string `form:"-" json:"-"`
}

type CreatePostRequest struct {
	Title         string `form:"title" json:"title" validate:"required,max=200"`
	Slug          string `form:"slug" json:"slug" validate:"required,max=200"`
	Content       string `form:"content" json:"content" validate:"required"`
	Summary       string `form:"summary" json:"summary" validate:"max=300"`
	CategoryID    uint   `form:"category_id" json:"category_id" validate:"required"`
	ReadTime      int    `form:"read_time" json:"read_time" validate:"min=0,max=600"`
	Published     bool   `form:"published" json:"published"`
	FeaturedImage string `form:"-" json:"-"`
}

// UpdatePostRequest is a partial update: nil fields are left untouched.
type UpdatePostRequest struct {
	Title         *string `form:"title" json:"title" validate:"omitempty,max=200"`
	Slug          *string `form:"slug" json:"slug" validate:"omitempty,max=200"`
	Content       *string `form:"content" json:"content"`
	Summary       *string `form:"summary" json:"summary" validate:"omitempty,max=300"`
	CategoryID    *uint   `form:"category_id" json:"category_id"`
	ReadTime      *int    `form:"read_time" json:"read_time" validate:"omitempty,min=0,max=600"`
	Published     *bool   `form:"published" json:"published"`
	FeaturedImage *string `form:"-" json:"-"`
}

type AutosaveRequest struct {
	PostID  uint   `json:"post_id"`
	Title   string `json:"title" validate:"max=200"`
	Content string `json:"content"`
	Summary string `json:"summary" validate:"max=300"`
}

type AutosaveResult struct {
	Saved     bool   `json:"saved"`
	PostID    uint   `json:"post_id,omitempty"`
	Message   string `json:"message"`
	UpdatedAt string `json:"updated_at,omitempty"`
}

type PostListParams struct {
	Category string `form:"category"`
	Page     int    `form:"page,default=1"`
	Limit    int    `form:"limit,default=10"`
}

type ChangeProbeRequest struct {
	Since string `form:"since" json:"since"`
}
