package services

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/scriberly/scriberly-be/internal/models"
	"golang.org/x/crypto/bcrypt"
)

// UserServiceProvider defines the interface for user services.
type UserServiceProvider interface {
	GetUserByID(id string) (models.User, error)
	GetUserByEmail(email string) (models.User, error)
	CreateUser(username, email, password string) (models.User, error)
	AuthenticateUser(email, password string) (models.User, error)
	EditProfile(id, username, email, password string) (models.User, error)
	ReissueAPIToken(id string) (models.User, error)
	ChangeSubscription(id, tier string) (models.User, error)
}

// UserService provides business logic for user management.
type UserService struct {
	db *sql.DB
}

// NewUserService creates a new UserService.
func NewUserService(db *sql.DB) *UserService {
	return &UserService{db: db}
}

// GetUserByID retrieves a single user by their ID.
func (s *UserService) GetUserByID(id string) (models.User, error) {
	row := s.db.QueryRow("SELECT id, username, email, password_hash, roles_json, api_token, created_at FROM users WHERE id = ?", id)
	user, err := scanUser(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.User{}, fmt.Errorf("user with ID %s: %w", id, ErrNotFound)
		}
		return models.User{}, err
	}
	return user, nil
}

// GetUserByEmail retrieves a single user by their email, including the password hash.
func (s *UserService) GetUserByEmail(email string) (models.User, error) {
	row := s.db.QueryRow("SELECT id, username, email, password_hash, roles_json, api_token, created_at FROM users WHERE email = ?", email)
	user, err := scanUser(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.User{}, fmt.Errorf("user with email %s: %w", email, ErrNotFound)
		}
		return models.User{}, err
	}
	return user, nil
}

// CreateUser creates a new user with the default role and a fresh API
// token, hashing their password.
func (s *UserService) CreateUser(username, email, password string) (models.User, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, fmt.Errorf("failed to hash password: %w", err)
	}

	user := models.User{
		ID:           uuid.New().String(),
		Username:     username,
		Email:        email,
		PasswordHash: string(hashedPassword),
		Roles:        []string{"ROLE_USER"},
		APIToken:     uuid.New().String(),
	}

	rolesJSON, err := json.Marshal(user.Roles)
	if err != nil {
		return models.User{}, err
	}

	stmt, err := s.db.Prepare("INSERT INTO users(id, username, email, password_hash, roles_json, api_token) VALUES(?, ?, ?, ?, ?, ?)")
	if err != nil {
		return models.User{}, err
	}
	defer stmt.Close()

	if _, err = stmt.Exec(user.ID, user.Username, user.Email, user.PasswordHash, string(rolesJSON), user.APIToken); err != nil {
		return models.User{}, err
	}

	user.PasswordHash = ""
	return user, nil
}

// AuthenticateUser verifies a user's credentials.
func (s *UserService) AuthenticateUser(email, password string) (models.User, error) {
	user, err := s.GetUserByEmail(email)
	if err != nil {
		return models.User{}, fmt.Errorf("authentication failed: user not found")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return models.User{}, fmt.Errorf("authentication failed: invalid password")
	}

	user.PasswordHash = ""
	return user, nil
}

// EditProfile applies a validated profile draft to the user. Empty fields
// are left unchanged; a non-empty password is hashed before storage.
// Nothing else on the user is touched.
func (s *UserService) EditProfile(id, username, email, password string) (models.User, error) {
	user, err := s.GetUserByID(id)
	if err != nil {
		return models.User{}, err
	}

	if username != "" {
		user.Username = username
	}
	if email != "" {
		user.Email = email
	}
	if password != "" {
		hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return models.User{}, fmt.Errorf("failed to hash password: %w", err)
		}
		user.PasswordHash = string(hashed)
	}

	_, err = s.db.Exec("UPDATE users SET username = ?, email = ?, password_hash = ? WHERE id = ?",
		user.Username, user.Email, user.PasswordHash, id)
	if err != nil {
		return models.User{}, err
	}
	return s.GetUserByID(id)
}

// ReissueAPIToken replaces the user's API token with a freshly issued one.
// The new token is never equal to the one it replaces.
func (s *UserService) ReissueAPIToken(id string) (models.User, error) {
	user, err := s.GetUserByID(id)
	if err != nil {
		return models.User{}, err
	}

	token := uuid.New().String()
	for token == user.APIToken {
		token = uuid.New().String()
	}

	if _, err = s.db.Exec("UPDATE users SET api_token = ? WHERE id = ?", token, id); err != nil {
		return models.User{}, err
	}
	return s.GetUserByID(id)
}

// ChangeSubscription replaces the user's entire role set with the single
// role derived from the tier. Prior roles are discarded wholesale; this
// mirrors how the platform has always coupled tier and permissions (see
// DESIGN.md for the open question around it).
func (s *UserService) ChangeSubscription(id, tier string) (models.User, error) {
	rolesJSON, err := json.Marshal([]string{"ROLE_" + tier})
	if err != nil {
		return models.User{}, err
	}

	result, err := s.db.Exec("UPDATE users SET roles_json = ? WHERE id = ?", string(rolesJSON), id)
	if err != nil {
		return models.User{}, err
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return models.User{}, fmt.Errorf("user with ID %s: %w", id, ErrNotFound)
	}
	return s.GetUserByID(id)
}

// scanUser is a helper to scan a user from a row or rows object.
func scanUser(scanner interface{ Scan(...interface{}) error }) (models.User, error) {
	var user models.User
	var rolesJSON string
	var apiToken sql.NullString
	err := scanner.Scan(&user.ID, &user.Username, &user.Email, &user.PasswordHash,
		&rolesJSON, &apiToken, &user.CreatedAt)
	if err != nil {
		return user, err
	}
	user.APIToken = apiToken.String
	if rolesJSON != "" {
		if err := json.Unmarshal([]byte(rolesJSON), &user.Roles); err != nil {
			return user, fmt.Errorf("corrupt roles for user %s: %w", user.ID, err)
		}
	}
	return user, nil
}
