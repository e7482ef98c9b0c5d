package couples

import "fmt"

// CanDelete decides whether couple may be deleted given its already-loaded
// marriage programs. It performs no I/O; callers run it inside the unit of
// work that performs the delete.
func CanDelete(couple Couple, programs []MarriageProgram) error {
	active := 0
	for _, program := range programs {
		if program.CoupleID != "" && program.CoupleID != couple.ID {
			continue
		}
		if program.Status.Active() {
			active++
		}
	}
	if active > 0 {
		return fmt.Errorf("%w: %d planned or in progress", ErrActiveProgramsExist, active)
	}
	return nil
}
