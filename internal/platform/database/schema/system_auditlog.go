// Copyright (c) 2026 Inkpress. All rights reserved.
// Author: dev@inkpress.io

package schema

// SystemAuditLogTable represents the 'system.auditlog' table
type SystemAuditLogTable struct {
	Table     string
	ID        string
	ActorID   string
	EventType string
	Message   string
	CreatedAt string
}

// SystemAuditLog is the schema definition for system.auditlog
var SystemAuditLog = SystemAuditLogTable{
	Table:     "system.auditlog",
	ID:        "id",
	ActorID:   "actorid",
	EventType: "eventtype",
	Message:   "message",
	CreatedAt: "createdat",
}
