package utils

import "crypto/rand"

// referenceAlphabet excludes 0/O and 1/I so a code read over the phone
// or typed from a printout cannot be misread.
const referenceAlphabet = "23456789ABCDEFGHJKLMNPQRSTUVWXYZ"

// referenceLength is the number of random characters after the prefix.
const referenceLength = 8

// NewBookingReference returns a human-facing booking code of the form
// "TP-7XK2MNPQ". The code is generated once when a reservation is
// created and persisted with it; it identifies the booking to support
// staff but is never used as a database key.
func NewBookingReference() (string, error) {
	buf := make([]byte, referenceLength)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	code := make([]byte, referenceLength)
	for i, b := range buf {
		code[i] = referenceAlphabet[int(b)%len(referenceAlphabet)]
	}
	return "TP-" + string(code), nil
}
