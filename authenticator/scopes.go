package authenticator

import (
	"fmt"
	"strings"
)

// Access is the level requested for a tiered permission
type Access int

const (
	AccessNone Access = iota
	AccessRead
	AccessWrite
)

// ParseAccess parses NONE, READ or WRITE. An empty string means NONE.
func ParseAccess(s string) (Access, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "", "NONE":
		return AccessNone, nil
	case "READ":
		return AccessRead, nil
	case "WRITE":
		return AccessWrite, nil
	default:
		return AccessNone, fmt.Errorf("unknown access level %q", s)
	}
}

func (a Access) String() string {
	switch a {
	case AccessRead:
		return "READ"
	case AccessWrite:
		return "WRITE"
	default:
		return "NONE"
	}
}

// UnmarshalText lets Access be decoded from text encodings
func (a *Access) UnmarshalText(text []byte) error {
	parsed, err := ParseAccess(string(text))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// MarshalText renders Access as NONE, READ or WRITE
func (a Access) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// Permissions selects what the authenticator asks Windows Live for
type Permissions struct {
	OfflineAccess     bool
	SingleSignIn      bool
	Birthday          bool
	Calendars         Access
	ContactsBirthday  bool
	ContactsCreate    bool
	ContactsCalendars bool
	ContactsPhotos    bool
	ContactsOneDrive  bool
	Emails            bool
	EventsCreate      bool
	IMAP              bool
	PhoneNumbers      bool
	Photos            bool
	PostalAddresses   bool
	OneDrive          Access
	WorkProfile       bool
	OneNote           bool
}

// Windows Live scope tokens
const (
	ScopeBasic             = "wl.basic"
	ScopeOfflineAccess     = "wl.offline_access"
	ScopeSignIn            = "wl.signin"
	ScopeBirthday          = "wl.birthday"
	ScopeCalendarsUpdate   = "wl.calendars_update"
	ScopeCalendars         = "wl.calendars"
	ScopeContactsBirthday  = "wl.contacts_birthday"
	ScopeContactsCreate    = "wl.contacts_create"
	ScopeContactsCalendars = "wl.contacts_calendars"
	ScopeContactsPhotos    = "wl.contacts_photos"
	ScopeContactsSkyDrive  = "wl.contacts_skydrive"
	ScopeEmails            = "wl.emails"
	ScopeEventsCreate      = "wl.events_create"
	ScopeIMAP              = "wl.imap"
	ScopePhoneNumbers      = "wl.phone_numbers"
	ScopePhotos            = "wl.photos"
	ScopePostalAddresses   = "wl.postal_addresses"
	ScopeSkyDriveUpdate    = "wl.skydrive_update"
	ScopeSkyDrive          = "wl.skydrive"
	ScopeWorkProfile       = "wl.work_profile"
	ScopeOneNoteCreate     = "office.onenote_create"
)

// ScopeSet is an ordered set of scope tokens
type ScopeSet struct {
	scopes []string
	seen   map[string]struct{}
}

// Add appends scope unless it is already present
func (s *ScopeSet) Add(scope string) {
	if s.seen == nil {
		s.seen = make(map[string]struct{})
	}
	if _, ok := s.seen[scope]; ok {
		return
	}
	s.seen[scope] = struct{}{}
	s.scopes = append(s.scopes, scope)
}

// Contains reports whether scope was added
func (s ScopeSet) Contains(scope string) bool {
	_, ok := s.seen[scope]
	return ok
}

// List returns a copy of the scopes in insertion order
func (s ScopeSet) List() []string {
	out := make([]string, len(s.scopes))
	copy(out, s.scopes)
	return out
}

// Len returns the number of scopes
func (s ScopeSet) Len() int {
	return len(s.scopes)
}

// String joins the scopes with a single space, as sent in the scope parameter
func (s ScopeSet) String() string {
	return strings.Join(s.scopes, " ")
}

// scopeRule contributes scopes for one permission. Rules run in declaration order.
type scopeRule func(p Permissions, s *ScopeSet)

func flagRule(enabled func(Permissions) bool, scope string) scopeRule {
	return func(p Permissions, s *ScopeSet) {
		if enabled(p) {
			s.Add(scope)
		}
	}
}

// tieredRule adds the write scope and the read scope for WRITE, only the read
// scope for READ and nothing for NONE. Write always implies read.
func tieredRule(level func(Permissions) Access, writeScope, readScope string) scopeRule {
	return func(p Permissions, s *ScopeSet) {
		switch level(p) {
		case AccessWrite:
			s.Add(writeScope)
			s.Add(readScope)
		case AccessRead:
			s.Add(readScope)
		}
	}
}

var scopeRules = []scopeRule{
	flagRule(func(p Permissions) bool { return p.OfflineAccess }, ScopeOfflineAccess),
	flagRule(func(p Permissions) bool { return p.SingleSignIn }, ScopeSignIn),
	flagRule(func(p Permissions) bool { return p.Birthday }, ScopeBirthday),
	tieredRule(func(p Permissions) Access { return p.Calendars }, ScopeCalendarsUpdate, ScopeCalendars),
	flagRule(func(p Permissions) bool { return p.ContactsBirthday }, ScopeContactsBirthday),
	flagRule(func(p Permissions) bool { return p.ContactsCreate }, ScopeContactsCreate),
	flagRule(func(p Permissions) bool { return p.ContactsCalendars }, ScopeContactsCalendars),
	flagRule(func(p Permissions) bool { return p.ContactsPhotos }, ScopeContactsPhotos),
	flagRule(func(p Permissions) bool { return p.ContactsOneDrive }, ScopeContactsSkyDrive),
	flagRule(func(p Permissions) bool { return p.Emails }, ScopeEmails),
	flagRule(func(p Permissions) bool { return p.EventsCreate }, ScopeEventsCreate),
	flagRule(func(p Permissions) bool { return p.IMAP }, ScopeIMAP),
	flagRule(func(p Permissions) bool { return p.PhoneNumbers }, ScopePhoneNumbers),
	flagRule(func(p Permissions) bool { return p.Photos }, ScopePhotos),
	flagRule(func(p Permissions) bool { return p.PostalAddresses }, ScopePostalAddresses),
	tieredRule(func(p Permissions) Access { return p.OneDrive }, ScopeSkyDriveUpdate, ScopeSkyDrive),
	flagRule(func(p Permissions) bool { return p.WorkProfile }, ScopeWorkProfile),
	flagRule(func(p Permissions) bool { return p.OneNote }, ScopeOneNoteCreate),
}

// DeriveScopes returns wl.basic followed by the scopes implied by p
func DeriveScopes(p Permissions) ScopeSet {
	var s ScopeSet
	s.Add(ScopeBasic)
	for _, rule := range scopeRules {
		rule(p, &s)
	}
	return s
}
