package domain

// User is an account record synced from the identity provider on login and
// managed through the users API. UserID is the table key.
type User struct {
	UserID         string `json:"userId" dynamodbav:"userId"`
	Name           string `json:"name" dynamodbav:"name"`
	Email          string `json:"email" dynamodbav:"email"`
	ProfilePicture string `json:"profilePicture,omitempty" dynamodbav:"profilePicture,omitempty"`
}

// UserKeyAttributes are the attribute names that make up the users table key.
var UserKeyAttributes = []string{"userId"}
