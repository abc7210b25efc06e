package usecase

import "time"

// SetNowFunc overrides the use case's time source in tests.
func (uc *BudgetUseCase) SetNowFunc(now func() time.Time) {
	uc.now = now
}
