package faq

import "errors"

var ErrEntryNotFound = errors.New("faq entry not found")
