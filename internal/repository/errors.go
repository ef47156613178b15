package repository

import "errors"

// Guard errors surfaced by transactional writes whose WHERE clause matched no
// rows. They signal a lost race, not a missing record.
var (
	ErrAlreadyComplete    = errors.New("chore already complete")
	ErrInsufficientPoints = errors.New("insufficient points")
	ErrClaimNotPending    = errors.New("claim is not pending")
)
