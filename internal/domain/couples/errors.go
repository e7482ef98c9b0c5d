package couples

import "errors"

var (
	ErrCoupleNotFound          = errors.New("couple not found")
	ErrCoupleExists            = errors.New("couple already exists")
	ErrSameSpouse              = errors.New("spouses must be distinct members")
	ErrSpouseNotFound          = errors.New("spouse not found")
	ErrMarriageProgramNotFound = errors.New("marriage program not found")
	ErrActiveProgramsExist     = errors.New("couple has active marriage programs")
	ErrInvalidInput            = errors.New("invalid input")
)
