package services

import (
	"errors"
	"fmt"
	"log"

	"sanitasi/internal/forms"
	"sanitasi/internal/models"
	"sanitasi/internal/repositories"
	"sanitasi/pkg/rabbitmq"

	"github.com/go-playground/validator/v10"
)

// ErrInvalidForm is returned when a submission fails validation. The
// form passed to the service carries the field errors.
var ErrInvalidForm = errors.New("registration form is invalid")

// EventPublisher publishes user lifecycle events.
type EventPublisher interface {
	PublishUserRegistered(event rabbitmq.UserEvent) error
}

// RegistrationService creates and updates users from validated forms.
type RegistrationService struct {
	userRepo  repositories.UserRepository
	validate  *validator.Validate
	publisher EventPublisher // optional
	hashCost  int
}

// NewRegistrationService creates a new RegistrationService. validate must
// carry the custom user tags (see validation.New). publisher may be nil.
func NewRegistrationService(userRepo repositories.UserRepository, validate *validator.Validate, publisher EventPublisher, hashCost int) *RegistrationService {
	return &RegistrationService{
		userRepo:  userRepo,
		validate:  validate,
		publisher: publisher,
		hashCost:  hashCost,
	}
}

// NewForm binds data to a registration form. nil data gives an unbound form.
func (s *RegistrationService) NewForm(data map[string]string) *forms.RegistrationForm {
	return forms.NewRegistrationForm(data, s.userRepo,
		forms.WithValidator(s.validate),
		forms.WithHashCost(s.hashCost),
	)
}

// Register validates form and persists the user it describes. It returns
// ErrInvalidForm when the form has field errors, including uniqueness
// violations detected by the store at write time.
func (s *RegistrationService) Register(form *forms.RegistrationForm) (*models.User, error) {
	user, err := s.save(form, s.userRepo.Create)
	if err != nil {
		return nil, err
	}
	log.Printf("Registered user %s (ID: %s)", user.Username, user.ID)
	s.publishRegistered(user)
	return user, nil
}

// GetUser returns the user with the given ID.
func (s *RegistrationService) GetUser(id string) (*models.User, error) {
	return s.userRepo.GetByID(id)
}

// UpdateProfile re-validates a full submission against the stored user
// and saves it. The returned form carries field errors when the result is
// ErrInvalidForm.
func (s *RegistrationService) UpdateProfile(userID string, data map[string]string) (*models.User, *forms.RegistrationForm, error) {
	existing, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, nil, err
	}
	if data == nil {
		data = map[string]string{}
	}
	form := forms.NewRegistrationForm(data, s.userRepo,
		forms.WithValidator(s.validate),
		forms.WithHashCost(s.hashCost),
		forms.WithInstance(existing),
	)
	user, err := s.save(form, s.userRepo.Update)
	if err != nil {
		return nil, form, err
	}
	log.Printf("Updated profile of user %s (ID: %s)", user.Username, user.ID)
	return user, form, nil
}

// save builds the user from form, checks it against the model rules and
// hands it to write. Nothing is written unless every check passed.
func (s *RegistrationService) save(form *forms.RegistrationForm, write func(*models.User) error) (*models.User, error) {
	user, err := form.User()
	if err != nil {
		var fieldErrs forms.FieldErrors
		if errors.As(err, &fieldErrs) {
			return nil, ErrInvalidForm
		}
		return nil, fmt.Errorf("failed to validate user: %w", err)
	}

	if err := s.validate.Struct(user); err != nil {
		return nil, fmt.Errorf("user failed model validation: %w", err)
	}

	if err := write(user); err != nil {
		var dup *repositories.DuplicateError
		if errors.As(err, &dup) {
			field := dup.Field
			if field == "" {
				field = forms.FieldUsername
			}
			form.AddError(field, forms.DuplicateMessage(dup.Field))
			return nil, ErrInvalidForm
		}
		return nil, fmt.Errorf("failed to save user: %w", err)
	}
	return user, nil
}

func (s *RegistrationService) publishRegistered(user *models.User) {
	if s.publisher == nil {
		log.Println("RabbitMQ client is not initialized. Skipping user event publication.")
		return
	}
	event := rabbitmq.UserEvent{
		UserID:       user.ID,
		Username:     user.Username,
		Email:        user.Email,
		RegisteredAt: user.CreatedAt,
	}
	if err := s.publisher.PublishUserRegistered(event); err != nil {
		log.Printf("Warning: Failed to publish registration event for user %s: %v", user.ID, err)
	}
}
