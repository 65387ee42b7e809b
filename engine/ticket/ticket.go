package ticket

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/onboardkit/onboardkit/pkg/logger"
)

// Result statuses reported by Create. Ticket-creation failures are reported
// through Status, never as a Go error: the caller always gets a user-facing
// message to relay.
const (
	StatusSuccess = "success"
	StatusError   = "error"
	StatusPending = "pending"
)

// Departments a ticket may be assigned to.
var validDepartments = map[string]struct{}{
	"IT":         {},
	"HR":         {},
	"Security":   {},
	"Facilities": {},
}

const (
	DefaultDepartment = "IT"
	DefaultPriority   = "High"
)

// Request carries the fields of a ticket to create.
type Request struct {
	Description  string `json:"issue_description"`
	Priority     string `json:"priority"`
	Department   string `json:"department"`
	ContactEmail string `json:"contact_email"`
}

// ApplyDefaults fills missing or invalid fields. Priority is always High for
// escalated issues; unknown departments are coerced to IT; an empty
// description falls back to the raw user query.
func (r *Request) ApplyDefaults(fallbackDescription, fallbackEmail string) {
	if strings.TrimSpace(r.Description) == "" {
		r.Description = fallbackDescription
	}
	r.Priority = DefaultPriority
	if _, ok := validDepartments[r.Department]; !ok {
		r.Department = DefaultDepartment
	}
	if strings.TrimSpace(r.ContactEmail) == "" {
		r.ContactEmail = fallbackEmail
	}
}

// Result is the outcome of a ticket-creation attempt.
type Result struct {
	Status   string `json:"status"`
	TicketID string `json:"ticket_id,omitempty"`
	Message  string `json:"message"`
}

// Creator is the ticket-creation capability boundary.
type Creator interface {
	Create(ctx context.Context, req Request) Result
}

// FileStore persists one JSON file per ticket under a storage directory,
// named by the generated ticket ID.
type FileStore struct {
	dir string
}

func NewFileStore(dir string) *FileStore {
	return &FileStore{dir: dir}
}

type record struct {
	TicketID     string `json:"ticket_id"`
	Description  string `json:"issue_description"`
	Priority     string `json:"priority"`
	Department   string `json:"department"`
	ContactEmail string `json:"contact_email"`
}

// Create generates a ticket ID, writes the ticket record to disk and returns
// a confirmation. Failures are reported via Result.Status.
func (s *FileStore) Create(ctx context.Context, req Request) Result {
	log := logger.FromContext(ctx)
	id := newTicketID()
	rec := record{
		TicketID:     id,
		Description:  req.Description,
		Priority:     req.Priority,
		Department:   req.Department,
		ContactEmail: req.ContactEmail,
	}
	if err := s.write(rec); err != nil {
		log.Error("Ticket creation failed", "ticket_id", id, "error", err)
		return Result{
			Status:  StatusError,
			Message: fmt.Sprintf("Failed to create ticket: %v", err),
		}
	}
	log.Info("Ticket created", "ticket_id", id, "department", req.Department)
	return Result{
		Status:   StatusSuccess,
		TicketID: id,
		Message: fmt.Sprintf(
			"Support ticket %s created successfully for the %s department. "+
				"We will contact you at %s regarding the issue: '%s'.",
			id, req.Department, req.ContactEmail, req.Description,
		),
	}
}

func (s *FileStore) write(rec record) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(rec, "", "    ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(s.dir, rec.TicketID+".json"), data, 0o644)
}

func newTicketID() string {
	hex := strings.ReplaceAll(uuid.NewString(), "-", "")
	return "TICKET-" + strings.ToUpper(hex[:8])
}
