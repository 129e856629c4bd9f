package auth

import (
	"strconv"

	"golang.org/x/crypto/bcrypt"
)

func HashPassword(plain string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func CheckPassword(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}

func jwtSubject(userID int64) string {
	return strconv.FormatInt(userID, 10)
}

func parseJWTSubject(sub string) (int64, error) {
	return strconv.ParseInt(sub, 10, 64)
}
