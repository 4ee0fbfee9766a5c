package models

// All lists every persisted model in migration order.
func All() []any {
	return []any{
		&User{},
		&Doctor{},
		&Service{},
		&Patient{},
		&Visit{},
		&Payment{},
		&QueueCounter{},
		&AuditLog{},
	}
}
