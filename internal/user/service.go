package user

import (
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
)

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

func (s *Service) GetByID(id int) (User, error) {
	return s.repo.GetByID(id)
}

// Create stores a user, hashing the password unless it already is a bcrypt
// hash. Seeding goes through here; signups go through Register.
func (s *Service) Create(user User) (User, error) {
	if user.Password != "" && !looksLikeBcrypt(user.Password) {
		hashed, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)
		if err != nil {
			return User{}, err
		}
		user.Password = string(hashed)
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = s.now().UTC()
	}
	return s.repo.Create(user)
}

// ValidationError is a rejected signup field.
type ValidationError struct {
	Detail string
}

func (e *ValidationError) Error() string { return e.Detail }

// Validate normalizes a signup candidate and checks it the way Register
// does, without storing anything.
func (s *Service) Validate(user User) (User, error) {
	user.Name = strings.TrimSpace(user.Name)
	user.Gender = strings.ToLower(user.Gender)

	if _, err := s.repo.GetByEmail(user.Email); err == nil {
		return User{}, ErrEmailExists
	} else if err != ErrNotFound {
		return User{}, err
	}

	switch {
	case !ValidCountry(user.Country):
		return User{}, &ValidationError{Detail: "Invalid country"}
	case user.Gender != "male" && user.Gender != "female":
		return User{}, &ValidationError{Detail: "Gender must be either male or female"}
	case len(user.Name) < 2:
		return User{}, &ValidationError{Detail: "Name must be at least 2 characters long"}
	}
	if st := CheckPasswordStrength(user.Password); !st.IsStrong {
		return User{}, &ValidationError{Detail: fmt.Sprintf("Password is not strong enough: %s", strings.Join(st.Feedback, ", "))}
	}
	return user, nil
}

// Register validates and creates a new account. The password is always
// hashed, whatever it looks like.
func (s *Service) Register(user User) (User, error) {
	user, err := s.Validate(user)
	if err != nil {
		return User{}, err
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)
	if err != nil {
		return User{}, err
	}
	user.Password = string(hashed)
	user.CreatedAt = s.now().UTC()
	return s.repo.Create(user)
}

func (s *Service) Authenticate(email, password string) (User, error) {
	user, err := s.repo.GetByEmail(email)
	if err != nil {
		return User{}, ErrInvalidCredentials
	}

	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return User{}, ErrInvalidCredentials
	}

	return user, nil
}

func looksLikeBcrypt(value string) bool {
	return len(value) > 4 && value[0:2] == "$2"
}
