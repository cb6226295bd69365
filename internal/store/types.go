package store

// auditColumns maps the query parameter names of the audit log screen to
// database columns. Only these columns can be filtered or sorted on.
var auditColumns = map[string]string{
	"actor":     "actor",
	"resource":  "resource",
	"entityId":  "entity_id",
	"action":    "action",
	"outcome":   "outcome",
	"message":   "message",
	"createdAt": "created_at",
}

// auditDefaultSort is applied when no valid sort column is requested.
const auditDefaultSort = "created_at DESC, id DESC"

const (
	defaultPageSize = 10
	maxPageSize     = 100
)
