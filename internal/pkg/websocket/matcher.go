package websocket

import "github.com/piresc/intranet-notify/internal/pkg/models"

// Matches reports whether a message of kind with audience should reach identity.
// Rules are evaluated in order:
//  1. a direct target overrides every other rule
//  2. the excluded user never receives the message
//  3. admins do not receive toast notifications they were not targeted by
//  4. a branch filter other than "*" must equal the identity branch
//  5. an employment filter without "*" must share a value with the identity
func Matches(kind models.Kind, audience models.Audience, identity models.Identity) bool {
	if audience.TargetUserID != "" {
		return identity.UserID == audience.TargetUserID
	}
	if audience.ExcludeUserID != "" && identity.UserID == audience.ExcludeUserID {
		return false
	}
	if kind == models.KindNotification && identity.IsAdmin() {
		return false
	}
	if audience.Branch != "" && audience.Branch != models.Wildcard && identity.Branch != audience.Branch {
		return false
	}
	if !audience.EmploymentType.IsWildcard() && !audience.EmploymentType.Intersects(identity.EmploymentType) {
		return false
	}
	return true
}
