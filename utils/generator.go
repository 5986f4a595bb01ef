package utils

import (
	"math/rand"
	"time"

	"github.com/staybid/staybid/models"
	"gorm.io/gorm"
)

const bidReferenceLength = 6
const letterBytes = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// GenerateUniqueBidReference produces the short code students and hosts
// quote in support conversations instead of a UUID.
func GenerateUniqueBidReference(tx *gorm.DB) (string, error) {
	seededRand := rand.New(rand.NewSource(time.Now().UnixNano()))

	for {
		b := make([]byte, bidReferenceLength)
		for i := range b {
			b[i] = letterBytes[seededRand.Intn(len(letterBytes))]
		}
		code := "BD" + string(b)

		var bid models.Bid
		err := tx.Where("reference = ?", code).First(&bid).Error
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return code, nil
			}
			return "", err
		}
	}
}
