package domain

// Settings is the locally persisted, non-secret state: the repository
// selection and the step-up preference flag. Cleared in full on logout.
type Settings struct {
	Selected      Selection
	RequireStepUp bool
}
