package portal

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"
)

// RoleLecturer is the only role allowed to sign in.
const RoleLecturer = "Lecturer"

// Ref is a reference to another record. The portal sends either a bare ID
// string or a populated object, so both forms decode into Ref.
type Ref struct {
	ID        string `json:"_id,omitempty"       yaml:"id,omitempty"`
	Name      string `json:"name,omitempty"      yaml:"name,omitempty"`
	Title     string `json:"title,omitempty"     yaml:"title,omitempty"`
	Code      string `json:"code,omitempty"      yaml:"code,omitempty"`
	Email     string `json:"email,omitempty"     yaml:"email,omitempty"`
	Role      string `json:"role,omitempty"      yaml:"role,omitempty"`
	StudentID string `json:"studentId,omitempty" yaml:"student_id,omitempty"`
}

// UnmarshalJSON accepts a string ID, null, or an object.
func (r *Ref) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*r = Ref{}
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var id string
		if err := json.Unmarshal(data, &id); err != nil {
			return err
		}
		*r = Ref{ID: id}
		return nil
	}
	type plain Ref
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*r = Ref(p)
	return nil
}

// Label returns the most descriptive name available.
func (r Ref) Label() string {
	for _, s := range []string{r.Name, r.Title, r.Code, r.ID} {
		if s != "" {
			return s
		}
	}
	return ""
}

// Department is the lecturer's department as returned at login.
type Department struct {
	ID   string `json:"_id"  yaml:"id"`
	Name string `json:"name" yaml:"name"`
	Code string `json:"code" yaml:"code"`
}

// User is the signed-in account.
type User struct {
	ID         string     `json:"id"         yaml:"id"`
	Name       string     `json:"name"       yaml:"name"`
	Email      string     `json:"email"      yaml:"email"`
	Role       string     `json:"role"       yaml:"role"`
	Department Department `json:"department" yaml:"department"`
}

// Profile is the normalized /api/auth/profile payload.
type Profile struct {
	Name       string `json:"name"       yaml:"name"`
	Email      string `json:"email"      yaml:"email"`
	Department string `json:"department" yaml:"department"`
	Role       string `json:"role"       yaml:"role"`
}

// rawProfile covers the field spellings the profile endpoint has used.
type rawProfile struct {
	Name           string          `json:"name"`
	FirstName      string          `json:"firstName"`
	LastName       string          `json:"lastName"`
	FullName       string          `json:"fullName"`
	Email          string          `json:"email"`
	Role           string          `json:"role"`
	UserType       string          `json:"userType"`
	DepartmentID   json.RawMessage `json:"department_id"`
	Department     json.RawMessage `json:"department"`
	DepartmentName string          `json:"departmentName"`
	Dept           string          `json:"dept"`
}

func (p rawProfile) normalize() Profile {
	out := Profile{Email: p.Email, Role: RoleLecturer, Name: "-", Department: "-"}

	switch {
	case p.Name != "":
		out.Name = p.Name
	case p.FirstName != "":
		out.Name = strings.TrimSpace(p.FirstName + " " + p.LastName)
	case p.FullName != "":
		out.Name = p.FullName
	}

	switch {
	case len(p.DepartmentID) > 0 && string(p.DepartmentID) != "null":
		out.Department = departmentLabel(p.DepartmentID, true)
	case len(p.Department) > 0 && string(p.Department) != "null":
		out.Department = departmentLabel(p.Department, false)
	case p.DepartmentName != "":
		out.Department = p.DepartmentName
	case p.Dept != "":
		out.Department = p.Dept
	}

	switch {
	case p.Role != "":
		out.Role = p.Role
	case p.UserType != "":
		out.Role = p.UserType
	}
	if out.Email == "" {
		out.Email = "-"
	}
	return out
}

func departmentLabel(raw json.RawMessage, withCode bool) string {
	var ref Ref
	if json.Unmarshal(raw, &ref) != nil {
		return "-"
	}
	switch {
	case ref.Name != "":
		if withCode && ref.Code != "" {
			return ref.Name + " (" + ref.Code + ")"
		}
		return ref.Name
	case ref.Title != "":
		return ref.Title
	case ref.ID != "":
		return ref.ID
	}
	return "-"
}

// Assignment is a lecturer's assignment.
type Assignment struct {
	ID          string    `json:"_id"         yaml:"id"`
	Title       string    `json:"title"       yaml:"title"`
	Description string    `json:"description" yaml:"description"`
	DueDate     time.Time `json:"due_date"    yaml:"due_date"`
	Course      Ref       `json:"course_id"   yaml:"course"`
	CreatedBy   Ref       `json:"created_by"  yaml:"created_by"`
	CreatedAt   time.Time `json:"createdAt"   yaml:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt"   yaml:"updated_at"`
}

// Status derives the assignment status at now.
func (a Assignment) Status(now time.Time) AssignmentStatus {
	return DeriveStatus(a.DueDate, now)
}

// Course is a course assigned to the lecturer.
type Course struct {
	ID    string `json:"_id"   yaml:"id"`
	Title string `json:"title" yaml:"title"`
	Code  string `json:"code"  yaml:"code"`
}

// SubmittedFile is the document attached to a submission.
type SubmittedFile struct {
	ID           string `json:"_id"          yaml:"id"`
	OriginalName string `json:"originalName" yaml:"original_name"`
	Size         int64  `json:"size"         yaml:"size"`
}

// Submission is a student's submission for an assignment.
type Submission struct {
	ID          string         `json:"_id"          yaml:"id"`
	Student     Ref            `json:"student_id"   yaml:"student"`
	Document    *SubmittedFile `json:"document_id"  yaml:"document,omitempty"`
	SubmittedAt time.Time      `json:"submitted_at" yaml:"submitted_at"`
}

// FileInfo describes a stored file.
type FileInfo struct {
	OriginalName string    `json:"originalName" yaml:"original_name"`
	Size         int64     `json:"size"         yaml:"size"`
	MimeType     string    `json:"mimeType"     yaml:"mime_type,omitempty"`
	UploadDate   time.Time `json:"uploadDate"   yaml:"upload_date,omitempty"`
}

// SharedFile is a file another user shared with the lecturer.
type SharedFile struct {
	ID       string    `json:"id"        yaml:"id"`
	Title    string    `json:"title"     yaml:"title"`
	Filename string    `json:"filename"  yaml:"filename"`
	Size     int64     `json:"size"      yaml:"size"`
	MimeType string    `json:"mime_type" yaml:"mime_type,omitempty"`
	Status   string    `json:"status"    yaml:"status"`
	FileURL  string    `json:"file_url"  yaml:"file_url"`
	SharedBy Ref       `json:"shared_by" yaml:"shared_by"`
	SharedAt time.Time `json:"shared_at" yaml:"shared_at"`
}

// fileShare is the wire form of one share record.
type fileShare struct {
	File struct {
		ID       string   `json:"_id"`
		Title    string   `json:"title"`
		Status   string   `json:"status"`
		FileURL  string   `json:"file_url"`
		FileInfo FileInfo `json:"fileInfo"`
	} `json:"file_id"`
	SharedBy Ref       `json:"shared_by"`
	SharedAt time.Time `json:"shared_at"`
}

func (s fileShare) flatten() SharedFile {
	return SharedFile{
		ID:       s.File.ID,
		Title:    s.File.Title,
		Filename: s.File.FileInfo.OriginalName,
		Size:     s.File.FileInfo.Size,
		MimeType: s.File.FileInfo.MimeType,
		Status:   s.File.Status,
		FileURL:  s.File.FileURL,
		SharedBy: s.SharedBy,
		SharedAt: s.SharedAt,
	}
}

// ShareableUser is a user a document can be shared with.
type ShareableUser struct {
	ID        string `json:"_id"       yaml:"id"`
	Name      string `json:"name"      yaml:"name"`
	Email     string `json:"email"     yaml:"email"`
	Role      string `json:"role"      yaml:"role"`
	StudentID string `json:"studentId" yaml:"student_id,omitempty"`
	Level     string `json:"level"     yaml:"level,omitempty"`
}

// Notification is a message received by the lecturer.
type Notification struct {
	ID      string    `json:"_id"       yaml:"id"`
	Title   string    `json:"title"     yaml:"title"`
	Message string    `json:"message"   yaml:"message"`
	Read    bool      `json:"read"      yaml:"read"`
	Sender  *Ref      `json:"sender_id" yaml:"sender,omitempty"`
	SentAt  time.Time `json:"sent_at"   yaml:"sent_at"`
}

// ReadState returns "read" or "unread".
func (n Notification) ReadState() string {
	if n.Read {
		return NotificationRead
	}
	return NotificationUnread
}

// Folder is a document folder.
type Folder struct {
	ID            string `json:"_id"           yaml:"id"`
	Name          string `json:"name"          yaml:"name"`
	DocumentCount int    `json:"documentCount" yaml:"document_count"`
	Status        string `json:"status"        yaml:"status,omitempty"`
}

// Document is a file inside a folder.
type Document struct {
	ID       string   `json:"_id"      yaml:"id"`
	Title    string   `json:"title"    yaml:"title"`
	Status   string   `json:"status"   yaml:"status,omitempty"`
	FileURL  string   `json:"file_url" yaml:"file_url"`
	FileInfo FileInfo `json:"fileInfo" yaml:"file_info"`
}

// UnmarshalJSON accepts both a bare document and one wrapped in document_id.
func (d *Document) UnmarshalJSON(data []byte) error {
	type plain Document
	var wrapped struct {
		plain
		Nested *plain `json:"document_id"`
	}
	if err := json.Unmarshal(data, &wrapped); err != nil {
		return err
	}
	if wrapped.Nested != nil {
		*d = Document(*wrapped.Nested)
		if d.ID == "" {
			d.ID = wrapped.ID
		}
		return nil
	}
	*d = Document(wrapped.plain)
	return nil
}

// Name returns the original file name or the title.
func (d Document) Name() string {
	if d.FileInfo.OriginalName != "" {
		return d.FileInfo.OriginalName
	}
	return d.Title
}

// ProjectYear is an academic year of final-year projects.
type ProjectYear struct {
	ID            string `json:"_id"            yaml:"id"`
	AcademicYear  string `json:"academic_year"  yaml:"academic_year"`
	Status        string `json:"status"         yaml:"status"`
	TotalGroups   int    `json:"total_groups"   yaml:"total_groups"`
	TotalStudents int    `json:"total_students" yaml:"total_students"`
}

// ProjectGroup is one project group within a year.
type ProjectGroup struct {
	ID           string `json:"_id"           yaml:"id"`
	GroupNumber  int    `json:"group_number"  yaml:"group_number"`
	Topic        string `json:"topic"         yaml:"topic"`
	CurrentStage string `json:"current_stage" yaml:"current_stage"`
}
