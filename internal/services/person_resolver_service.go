package services

import (
	"strings"

	"github.com/alimgiray/daybrief/internal/models"
	"github.com/alimgiray/daybrief/internal/sources"
)

// PersonResolverService deduplicates identities across all four sources into
// canonical Person values. All other components consume only canonical
// persons, never raw name/email strings.
type PersonResolverService struct {
	selfEmails map[string]bool
}

func NewPersonResolverService(selfEmails []string) *PersonResolverService {
	self := make(map[string]bool, len(selfEmails))
	for _, email := range selfEmails {
		self[NormalizeEmail(email)] = true
	}
	return &PersonResolverService{selfEmails: self}
}

// Resolution maps every identity seen in one snapshot to its canonical person.
// It is rebuilt from scratch each cycle, a bad merge self-heals on the next one.
type Resolution struct {
	Persons map[string]*models.Person
	aliases map[string]string
}

// KeyFor returns the canonical key for a person as it appears in a source
// record. The second return is false for unresolvable or self identities.
func (r *Resolution) KeyFor(person models.Person) (string, bool) {
	for _, alias := range identityKeys(person) {
		if canonical, ok := r.aliases[alias]; ok {
			return canonical, true
		}
	}
	return "", false
}

// KeyForEmail returns the canonical key for a raw email address
func (r *Resolution) KeyForEmail(email string) (string, bool) {
	normalized := NormalizeEmail(email)
	if normalized == "" {
		return "", false
	}
	canonical, ok := r.aliases[normalized]
	return canonical, ok
}

// NormalizeEmail lowercases an email and strips plus-addressing from the local part
func NormalizeEmail(email string) string {
	email = strings.ToLower(strings.TrimSpace(email))
	at := strings.LastIndex(email, "@")
	if at <= 0 {
		return email
	}

	local, domain := email[:at], email[at:]
	if plus := strings.Index(local, "+"); plus > 0 {
		local = local[:plus]
	}
	return local + domain
}

// Resolve builds the canonical person set for one snapshot
func (s *PersonResolverService) Resolve(snapshot *sources.Snapshot) *Resolution {
	resolution := &Resolution{
		Persons: make(map[string]*models.Person),
		aliases: make(map[string]string),
	}

	for _, event := range snapshot.Events {
		for _, attendee := range event.Attendees {
			s.merge(resolution, attendee)
		}
	}
	for _, thread := range snapshot.Threads {
		for _, participant := range thread.Participants {
			s.merge(resolution, participant)
		}
	}
	for _, note := range snapshot.Notes {
		for _, attendee := range note.Attendees {
			s.merge(resolution, attendee)
		}
	}
	for _, todo := range append(snapshot.PendingTodos, snapshot.CompletedTodos...) {
		if todo.SenderEmail != "" {
			s.merge(resolution, models.Person{PrimaryEmail: todo.SenderEmail})
		}
	}

	return resolution
}

// merge folds one raw identity into the resolution
func (s *PersonResolverService) merge(resolution *Resolution, person models.Person) {
	primary := NormalizeEmail(person.PrimaryEmail)
	if s.selfEmails[primary] {
		return
	}

	keys := identityKeys(person)
	if len(keys) == 0 {
		return
	}

	// Reuse an existing canonical entry if any identity key is already known
	canonical := ""
	for _, key := range keys {
		if existing, ok := resolution.aliases[key]; ok {
			canonical = existing
			break
		}
	}

	if canonical == "" {
		canonical = keys[0]
		resolution.Persons[canonical] = &models.Person{
			DisplayName:  person.DisplayName,
			PrimaryEmail: primary,
		}
	}

	entry := resolution.Persons[canonical]
	if entry.DisplayName == "" {
		entry.DisplayName = person.DisplayName
	}
	if entry.PrimaryEmail == "" && primary != "" {
		entry.PrimaryEmail = primary
	}

	for _, key := range keys {
		if s.selfEmails[key] {
			continue
		}
		resolution.aliases[key] = canonical

		// Any email besides the canonical primary becomes an alias
		if strings.Contains(key, "@") && key != entry.PrimaryEmail && !containsString(entry.AliasEmails, key) {
			entry.AliasEmails = append(entry.AliasEmails, key)
		}
	}
}

// identityKeys lists the lookup keys for a raw identity: normalized emails
// first, then a name key used only when no email exists in the record
func identityKeys(person models.Person) []string {
	var keys []string

	if primary := NormalizeEmail(person.PrimaryEmail); primary != "" {
		keys = append(keys, primary)
	}
	for _, alias := range person.AliasEmails {
		if normalized := NormalizeEmail(alias); normalized != "" {
			keys = append(keys, normalized)
		}
	}

	if len(keys) == 0 {
		name := strings.ToLower(strings.TrimSpace(person.DisplayName))
		if name != "" {
			keys = append(keys, "name:"+name)
		}
	}

	return keys
}

func containsString(items []string, target string) bool {
	for _, item := range items {
		if item == target {
			return true
		}
	}
	return false
}
