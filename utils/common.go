package utils

const (
	SYMTOL = 1.e-10 // relative tolerance for symmetry checks
)
