package timetable

import (
	"fmt"

	"github.com/mitchellh/hashstructure/v2"

	"github.com/Noelithub77/bunkialo2-sub002/internal/models"
)

type fingerprintInput struct {
	Input       Input
	Resolutions models.Resolutions
	Options     Options
}

// Fingerprint hashes everything a generation depends on. Two calls with the
// same inputs, in any order, produce the same value.
func Fingerprint(in Input, res models.Resolutions, opts Options) (string, error) {
	h, err := hashstructure.Hash(fingerprintInput{Input: in, Resolutions: res.Clone(), Options: opts}, hashstructure.FormatV2, nil)
	if err != nil {
		return "", fmt.Errorf("hashing timetable input: %w", err)
	}
	return fmt.Sprintf("%016x", h), nil
}
