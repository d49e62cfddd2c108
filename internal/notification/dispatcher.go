package notification

import (
	"context"
	"fmt"
	"strings"
	"time"

	casedomain "raf_pnp_backend/internal/cases/domain"
	"raf_pnp_backend/internal/email"
	"raf_pnp_backend/internal/notification/inapp"
	"raf_pnp_backend/internal/notification/sse"
	taskdomain "raf_pnp_backend/internal/tasks/domain"
	"raf_pnp_backend/internal/whatsapp"
	"raf_pnp_backend/platform/db"
	"raf_pnp_backend/platform/logger"

	"github.com/google/uuid"
)

// Preferred channels as stored on the user.
const (
	ChannelInApp    = "InApp"
	ChannelEmail    = "Email"
	ChannelWhatsApp = "WhatsApp"
	ChannelAll      = "All"
)

const dueDateLayout = "Jan 02, 2006"

// Recipient is a user as the dispatcher sees them.
type Recipient struct {
	ID              uuid.UUID
	FullName        string
	Email           string
	PhoneNumber     *string
	WhatsAppEnabled bool
	Channel         string
	Active          bool
}

func (r Recipient) wantsWhatsApp() bool {
	return r.WhatsAppEnabled && (r.Channel == ChannelWhatsApp || r.Channel == ChannelAll)
}

func (r Recipient) wantsEmail() bool {
	return r.Email != "" && (r.Channel == ChannelEmail || r.Channel == ChannelAll)
}

// RecipientReader loads notification preferences for a user.
type RecipientReader interface {
	Recipient(ctx context.Context, userID uuid.UUID) (Recipient, error)
}

// TeamMemberReader lists the active members of a team.
type TeamMemberReader interface {
	ActiveMemberIDs(ctx context.Context, teamID uuid.UUID) ([]uuid.UUID, error)
}

// DeadlineNotice describes a statutory or medical deadline on a case.
type DeadlineNotice struct {
	CaseID        uuid.UUID
	CaseNumber    string
	TeamID        *uuid.UUID
	Deadline      string
	Date          time.Time
	DaysRemaining int
}

// Dispatcher writes notification rows and fans them out to the user's
// preferred channels once the surrounding unit of work commits.
type Dispatcher struct {
	store      inapp.Store
	recipients RecipientReader
	teams      TeamMemberReader
	whatsapp   whatsapp.Transport
	email      email.Sender
	sse        *sse.Service
	baseURL    string
	now        func() time.Time
	log        *logger.Logger
}

func NewDispatcher(store inapp.Store, transport whatsapp.Transport, sender email.Sender, baseURL string, log *logger.Logger) *Dispatcher {
	if sender == nil {
		sender = email.NoopSender{}
	}
	return &Dispatcher{
		store:    store,
		whatsapp: transport,
		email:    sender,
		baseURL:  strings.TrimRight(baseURL, "/"),
		now:      time.Now,
		log:      log,
	}
}

func (d *Dispatcher) SetRecipientReader(r RecipientReader) { d.recipients = r }

func (d *Dispatcher) SetTeamMemberReader(r TeamMemberReader) { d.teams = r }

func (d *Dispatcher) SetSSE(s *sse.Service) { d.sse = s }

// CreateNotification always persists the row. Channel delivery runs after
// commit and never fails the caller.
func (d *Dispatcher) CreateNotification(ctx context.Context, p inapp.CreateParams) (inapp.Notification, error) {
	n, err := d.store.Create(ctx, p)
	if err != nil {
		return inapp.Notification{}, err
	}

	db.AfterCommit(ctx, func(ctx context.Context) {
		d.deliver(ctx, n)
	})

	d.log.Info("notification created", "userId", n.UserID, "title", n.Title, "type", n.Type)
	return n, nil
}

func (d *Dispatcher) deliver(ctx context.Context, n inapp.Notification) {
	if d.sse != nil {
		d.sse.Publish(n.UserID, sse.Event{Type: sse.EventNotification, Message: n.Title, Data: n})
	}
	if d.recipients == nil {
		return
	}

	r, err := d.recipients.Recipient(ctx, n.UserID)
	if err != nil {
		d.log.Error("failed to load notification recipient", "userId", n.UserID, "error", err)
		return
	}
	if !r.Active {
		d.log.Debug("channel delivery skipped for deactivated user", "userId", n.UserID, "channel", r.Channel)
		return
	}

	actionURL := ""
	if n.ActionURL != nil {
		actionURL = *n.ActionURL
	}

	if r.wantsWhatsApp() && d.whatsapp != nil {
		d.sendWhatsApp(ctx, r, n, actionURL)
	}
	if r.wantsEmail() {
		link := ""
		if actionURL != "" {
			link = d.baseURL + actionURL
		}
		if err := d.email.SendNotificationEmail(ctx, r.Email, n.Title, n.Message, link); err != nil {
			d.log.TransportFailure("email", r.Email, err)
		}
	}
}

func (d *Dispatcher) sendWhatsApp(ctx context.Context, r Recipient, n inapp.Notification, actionURL string) {
	if r.PhoneNumber == nil || strings.TrimSpace(*r.PhoneNumber) == "" {
		return
	}

	message := fmt.Sprintf("🔔 *%s*\n\n%s", n.Title, n.Message)
	if actionURL != "" {
		message += fmt.Sprintf("\n\nView: %s%s", d.baseURL, actionURL)
	}

	ctx = whatsapp.WithRefs(ctx, whatsapp.Refs{TaskID: n.TaskID, CaseID: n.CaseID, UserID: &n.UserID})
	if err := d.whatsapp.SendNotification(ctx, *r.PhoneNumber, message); err != nil {
		d.log.TransportFailure("whatsapp", *r.PhoneNumber, err)
	}
}

// NotifyCaseStatusChanged tells every active member of the case's team.
func (d *Dispatcher) NotifyCaseStatusChanged(ctx context.Context, c casedomain.Case, oldStatus casedomain.Status) error {
	if c.AssignedTeamID == nil {
		return nil
	}
	message := fmt.Sprintf("Case %s status changed from %s to %s", c.CaseNumber, oldStatus, c.Status)
	return d.notifyTeam(ctx, *c.AssignedTeamID, inapp.CreateParams{
		Title:     "Case Status Updated",
		Message:   message,
		Type:      inapp.TypeCaseStatusChanged,
		CaseID:    &c.ID,
		ActionURL: caseURL(c.ID),
	})
}

func (d *Dispatcher) NotifyTaskAssigned(ctx context.Context, t taskdomain.Task) error {
	if t.AssignedToUserID == nil {
		return nil
	}
	message := "You have been assigned a new task: " + t.Title
	if t.DueDate != nil {
		message += fmt.Sprintf(" (Due: %s)", t.DueDate.Format(dueDateLayout))
	}
	_, err := d.CreateNotification(ctx, inapp.CreateParams{
		UserID:    *t.AssignedToUserID,
		Title:     "New Task Assigned",
		Message:   message,
		Type:      inapp.TypeTaskAssigned,
		TaskID:    &t.ID,
		CaseID:    t.CaseID,
		ActionURL: taskURL(t.ID),
	})
	return err
}

// NotifyTaskDueSoon needs both an assignee and a due date.
func (d *Dispatcher) NotifyTaskDueSoon(ctx context.Context, t taskdomain.Task) error {
	if t.AssignedToUserID == nil || t.DueDate == nil {
		return nil
	}
	days := int(t.DueDate.Sub(d.now()) / (24 * time.Hour))
	_, err := d.CreateNotification(ctx, inapp.CreateParams{
		UserID:    *t.AssignedToUserID,
		Title:     "Task Due Soon",
		Message:   fmt.Sprintf("Task '%s' is due in %d day(s)", t.Title, days),
		Type:      inapp.TypeTaskDueSoon,
		TaskID:    &t.ID,
		CaseID:    t.CaseID,
		ActionURL: taskURL(t.ID),
	})
	return err
}

func (d *Dispatcher) NotifyTaskOverdue(ctx context.Context, t taskdomain.Task) error {
	if t.AssignedToUserID == nil || t.DueDate == nil {
		return nil
	}
	_, err := d.CreateNotification(ctx, inapp.CreateParams{
		UserID:    *t.AssignedToUserID,
		Title:     "Task Overdue",
		Message:   fmt.Sprintf("Task '%s' was due on %s", t.Title, t.DueDate.Format(dueDateLayout)),
		Type:      inapp.TypeTaskOverdue,
		TaskID:    &t.ID,
		CaseID:    t.CaseID,
		ActionURL: taskURL(t.ID),
	})
	return err
}

// NotifyTaskCompleted tells the task's creator.
func (d *Dispatcher) NotifyTaskCompleted(ctx context.Context, t taskdomain.Task) error {
	if t.CreatedByUserID == nil {
		return nil
	}
	message := fmt.Sprintf("Task '%s' has been completed", t.Title)
	if t.AssigneeName != nil && *t.AssigneeName != "" {
		message += " by " + *t.AssigneeName
	}
	_, err := d.CreateNotification(ctx, inapp.CreateParams{
		UserID:    *t.CreatedByUserID,
		Title:     "Task Completed",
		Message:   message,
		Type:      inapp.TypeTaskCompleted,
		TaskID:    &t.ID,
		CaseID:    t.CaseID,
		ActionURL: taskURL(t.ID),
	})
	return err
}

// NotifyTaskCommented tells the assignee about a comment.
func (d *Dispatcher) NotifyTaskCommented(ctx context.Context, t taskdomain.Task, commenter string) error {
	if t.AssignedToUserID == nil {
		return nil
	}
	_, err := d.CreateNotification(ctx, inapp.CreateParams{
		UserID:    *t.AssignedToUserID,
		Title:     "New Task Comment",
		Message:   fmt.Sprintf("%s commented on task '%s'", commenter, t.Title),
		Type:      inapp.TypeTaskCommented,
		TaskID:    &t.ID,
		CaseID:    t.CaseID,
		ActionURL: taskURL(t.ID),
	})
	return err
}

// NotifyDeadlineApproaching tells the case's team about a deadline.
func (d *Dispatcher) NotifyDeadlineApproaching(ctx context.Context, n DeadlineNotice) error {
	if n.TeamID == nil {
		return nil
	}
	message := fmt.Sprintf("Case %s: %s on %s (%d day(s) remaining)",
		n.CaseNumber, n.Deadline, n.Date.Format(dueDateLayout), n.DaysRemaining)
	return d.notifyTeam(ctx, *n.TeamID, inapp.CreateParams{
		Title:     "Deadline Approaching",
		Message:   message,
		Type:      inapp.TypeDeadlineApproaching,
		CaseID:    &n.CaseID,
		ActionURL: caseURL(n.CaseID),
	})
}

// NotifyTeamUpdate links to the case when one is given, else to the team.
func (d *Dispatcher) NotifyTeamUpdate(ctx context.Context, teamID uuid.UUID, title, message string, caseID *uuid.UUID) error {
	actionURL := "/Teams/Details?id=" + teamID.String()
	if caseID != nil {
		actionURL = caseURL(*caseID)
	}
	return d.notifyTeam(ctx, teamID, inapp.CreateParams{
		Title:     title,
		Message:   message,
		Type:      inapp.TypeTeamUpdate,
		CaseID:    caseID,
		ActionURL: actionURL,
	})
}

// SendDeadlineDigest emails a list of deadlines to users who take email.
func (d *Dispatcher) SendDeadlineDigest(ctx context.Context, userID uuid.UUID, items []email.DeadlineItem) error {
	if d.recipients == nil || len(items) == 0 {
		return nil
	}
	r, err := d.recipients.Recipient(ctx, userID)
	if err != nil {
		return err
	}
	if !r.Active || !r.wantsEmail() {
		return nil
	}
	for i := range items {
		if strings.HasPrefix(items[i].URL, "/") {
			items[i].URL = d.baseURL + items[i].URL
		}
	}
	if err := d.email.SendDeadlineDigestEmail(ctx, r.Email, r.FullName, items); err != nil {
		d.log.TransportFailure("email", r.Email, err)
	}
	return nil
}

func (d *Dispatcher) notifyTeam(ctx context.Context, teamID uuid.UUID, p inapp.CreateParams) error {
	if d.teams == nil {
		return nil
	}
	members, err := d.teams.ActiveMemberIDs(ctx, teamID)
	if err != nil {
		return err
	}
	for _, userID := range members {
		p.UserID = userID
		if _, err := d.CreateNotification(ctx, p); err != nil {
			return err
		}
	}
	return nil
}

func caseURL(id uuid.UUID) string {
	return "/Cases/Details?id=" + id.String()
}

func taskURL(id uuid.UUID) string {
	return "/Tasks/Details?id=" + id.String()
}
