package api

// Product is a product summary as served by GET /products/.
type Product struct {
	ID          int      `json:"id" yaml:"id"`
	SKU         string   `json:"sku" yaml:"sku"`
	Name        string   `json:"name" yaml:"name"`
	Price       string   `json:"price" yaml:"price"`
	Category    string   `json:"category" yaml:"category"`
	Image       string   `json:"image" yaml:"image"`
	Description string   `json:"description" yaml:"description"`
	Sizes       []string `json:"sizes" yaml:"sizes"`
	Colors      []string `json:"colors" yaml:"colors"`
	Gender      string   `json:"gender" yaml:"gender"`
}

// PersonalizedStatus is the answer to "does this shopper have a personalized
// image for this product".
type PersonalizedStatus struct {
	HasPersonalizedImage    bool   `json:"has_personalized_image"`
	PersonalizedImageURL    string `json:"personalized_image_url,omitempty"`
	IsGenerating            bool   `json:"is_generating"`
	ReadyForPersonalization bool   `json:"ready_for_personalization"`
	OriginalImageURL        string `json:"original_image_url,omitempty"`
	AuthenticationRequired  bool   `json:"authentication_required,omitempty"`
	ProfileImageRequired    bool   `json:"profile_image_required,omitempty"`
}

// Generation statuses returned by the trigger endpoint.
const (
	GenerationStarted = "generation_started"
	AlreadyExists     = "already_exists"
	Skipped           = "skipped"
)

type GenerationResult struct {
	Status               string `json:"status"`
	PersonalizedImageURL string `json:"personalized_image_url,omitempty"`
	Message              string `json:"message,omitempty"`
	EstimatedTime        string `json:"estimated_time,omitempty"`
}

type PasswordStrength struct {
	Score    int      `json:"score"`
	Strength string   `json:"strength"`
	Feedback []string `json:"feedback"`
	IsStrong bool     `json:"is_strong"`
}

type User struct {
	ID      int     `json:"id"`
	Name    string  `json:"name"`
	Email   string  `json:"email"`
	Country string  `json:"country"`
	Gender  string  `json:"gender"`
	Image   *string `json:"image,omitempty"`
}

type LoginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	User        *User  `json:"user,omitempty"`
}

// Banner is one hero slide.
type Banner struct {
	ID    int    `json:"id" yaml:"id"`
	Image string `json:"image" yaml:"image"`
	Link  string `json:"link,omitempty" yaml:"link,omitempty"`
	Alt   string `json:"alt,omitempty" yaml:"alt,omitempty"`
}
