package service

// AuditLogger records actor actions. Satisfied by repository.AuditRepository.
// Callers ignore the error by convention: auditing never blocks an action.
type AuditLogger interface {
	CreateAuditLog(actorUID, action, details string) error
}
