package utils

import (
	"fmt"
	"math/rand"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/pixelforge-digital/team-portal/backend/internal/domain"
)

var firstNames = []string{
	"Ava", "Ben", "Chloe", "Daniel", "Emma", "Felix", "Grace", "Henry",
	"Isla", "Jack", "Katie", "Liam", "Mia", "Noah", "Olivia", "Priya",
	"Quinn", "Rosa", "Sam", "Tara",
}

var lastNames = []string{
	"Anderson", "Bailey", "Carter", "Diaz", "Evans", "Fischer", "Garcia",
	"Hughes", "Iversen", "Jensen", "Kim", "Lopez", "Murphy", "Nguyen",
	"Ortiz", "Patel", "Reyes", "Silva", "Tanaka", "Walsh",
}

var designations = []string{
	"Copywriter", "Art Director", "Account Manager", "SEO Specialist",
	"Media Planner", "Social Media Manager", "Web Developer", "Designer",
}

func GenerateRandomFullName() string {
	return firstNames[rand.Intn(len(firstNames))] + " " + lastNames[rand.Intn(len(lastNames))]
}

var digits = "0123456789"

func GenerateUsernameFromFullName(fullName string) string {
	parts := strings.Fields(strings.ToLower(fullName))
	username := strings.Join(parts, ".")

	digitsLength := rand.Intn(3) + 1
	for i := 0; i < digitsLength; i++ {
		username += string(digits[rand.Intn(len(digits))])
	}

	return username
}

func GenerateRandomDesignation() string {
	return designations[rand.Intn(len(designations))]
}

// GenerateRandomWorker builds a plausible demo member account. Access level
// and team membership are assigned by the seeder.
func GenerateRandomWorker(password string, emailDomainName string) (*domain.Worker, error) {
	fullName := GenerateRandomFullName()
	username := GenerateUsernameFromFullName(fullName)
	passwordHash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	worker := &domain.Worker{
		Username:     username,
		PasswordHash: string(passwordHash),
		FullName:     fullName,
		Email:        username + "@" + emailDomainName,
		Role:         domain.RoleMember,
		Designation:  GenerateRandomDesignation(),
	}

	return worker, nil
}

func GenerateRandomOTP() string {
	return fmt.Sprintf("%06d", rand.Intn(1000000))
}

var letters = []rune("abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789!@#$%^&*")

func GenerateRandomPassword(length int) string {
	random_password := make([]rune, length)
	for i := range random_password {
		random_password[i] = letters[rand.Intn(len(letters))]
	}
	return string(random_password)
}
